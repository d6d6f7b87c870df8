// Package forecast turns a trained model artifact into demand predictions:
// single (item, date, time) points and multi-day forecast series.
package forecast

import (
	"fmt"
	"iter"
	"math"
	"time"

	"app/features"
	"app/models"
	"app/pipeline"
)

// Forecaster reads one trained artifact. It holds no mutable state and is
// safe for concurrent callers.
type Forecaster struct {
	artifact *pipeline.Artifact
	engineer *features.Engineer
}

func New(artifact *pipeline.Artifact, calendar features.Calendar) *Forecaster {
	return &Forecaster{
		artifact: artifact,
		engineer: features.NewEngineer(calendar, artifact.ItemCodes),
	}
}

// PredictDemand predicts the demand for one item at one date and hour.
// The raw model output is clamped to zero and rounded to whole units here,
// never inside the pipeline. Unknown items fail before any model call.
func (f *Forecaster) PredictDemand(itemName string, date time.Time, hour int) (int, error) {
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("hour %d out of range", hour)
	}
	at := time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, date.Location())
	record, err := f.engineer.FromTimestamp(itemName, at)
	if err != nil {
		return 0, err
	}
	raw := f.artifact.Predict(record)
	if raw < 0 {
		raw = 0
	}
	return int(math.Round(raw)), nil
}

// Forecast produces one ForecastResult per (date, slot) pair over
// horizonDays consecutive days starting at startDate, dates ascending and
// slots in caller order. The sequence is lazy and restartable; nothing is
// memoized, every point is an independent prediction. The item is validated
// before the sequence is handed out.
func (f *Forecaster) Forecast(itemName string, startDate time.Time, horizonDays int, slots []int) (iter.Seq[models.ForecastResult], error) {
	if _, err := f.artifact.ItemCodes.Code(itemName); err != nil {
		return nil, err
	}
	if horizonDays < 0 {
		horizonDays = 0
	}

	start := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, startDate.Location())
	return func(yield func(models.ForecastResult) bool) {
		for day := 0; day < horizonDays; day++ {
			date := start.AddDate(0, 0, day)
			for _, slot := range slots {
				quantity, err := f.PredictDemand(itemName, date, slot)
				if err != nil {
					return
				}
				result := models.ForecastResult{
					ItemName:          itemName,
					Date:              date.Format("2006-01-02"),
					TimeSlot:          slot,
					PredictedQuantity: quantity,
				}
				if !yield(result) {
					return
				}
			}
		}
	}, nil
}
