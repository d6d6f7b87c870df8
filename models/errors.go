package models

import "errors"

// Error kinds surfaced by the forecasting core. Callers match them with
// errors.Is after the packages below wrap them with context.
var (
	// ErrDataSource means the transaction source was unreadable or empty.
	ErrDataSource = errors.New("transaction source unreadable or empty")

	// ErrUnknownItem means an item name was requested that is absent from
	// the training-time item set.
	ErrUnknownItem = errors.New("unknown item")

	// ErrInsufficientData means there were too few observations to compute
	// a meaningful result; callers usually degrade to an empty result.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrModelNotTrained means inference was attempted before any model
	// artifact was trained or loaded.
	ErrModelNotTrained = errors.New("model not trained")
)
