// Package pipeline trains and serves the demand regression model:
// preprocessing (imputation, scaling, one-hot encoding) joined to a
// random-forest regressor over daily aggregates.
package pipeline

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"app/features"
	"app/models"
)

// Config are the training hyperparameters. The defaults mirror the tuned
// production model.
type Config struct {
	NumTrees        int     `json:"num_trees"`
	MaxDepth        int     `json:"max_depth"`
	MinSamplesSplit int     `json:"min_samples_split"`
	MinSamplesLeaf  int     `json:"min_samples_leaf"`
	TestFraction    float64 `json:"test_fraction"`
	Seed            int64   `json:"seed"`
}

func DefaultConfig() Config {
	return Config{
		NumTrees:        300,
		MaxDepth:        12,
		MinSamplesSplit: 5,
		MinSamplesLeaf:  2,
		TestFraction:    0.2,
		Seed:            42,
	}
}

// minTrainingRows is the floor below which a holdout evaluation is
// meaningless.
const minTrainingRows = 10

// Artifact is the serialized result of one training run: the fitted
// preprocessing state, the forest, the item-code mapping and the diagnostic
// metrics. It is read-only after training and safe for concurrent inference.
type Artifact struct {
	Preprocess *Preprocessor          `json:"preprocess"`
	Forest     *Forest                `json:"forest"`
	ItemCodes  features.ItemCodes     `json:"item_codes"`
	Metrics    models.TrainingMetrics `json:"metrics"`
	TrainedAt  time.Time              `json:"trained_at"`
}

// Train fits the full pipeline on the daily aggregates: a seeded 80/20
// shuffle split, preprocessing fitted on the train split only, then the
// forest. Deterministic for a fixed seed and input ordering.
func Train(cfg Config, aggregates []models.DailyAggregate, codes features.ItemCodes) (*Artifact, error) {
	if len(aggregates) < minTrainingRows {
		return nil, fmt.Errorf("%d daily rows: %w", len(aggregates), models.ErrInsufficientData)
	}

	rows := make([]Row, len(aggregates))
	target := make([]float64, len(aggregates))
	for i, agg := range aggregates {
		rows[i] = RowFromAggregate(agg)
		target[i] = float64(agg.TotalQuantity)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	perm := rng.Perm(len(rows))
	testSize := int(math.Round(float64(len(rows)) * cfg.TestFraction))
	if testSize < 1 {
		testSize = 1
	}
	testIdx := perm[:testSize]
	trainIdx := perm[testSize:]

	trainRows := make([]Row, len(trainIdx))
	trainY := make([]float64, len(trainIdx))
	for i, idx := range trainIdx {
		trainRows[i] = rows[idx]
		trainY[i] = target[idx]
	}
	testRows := make([]Row, len(testIdx))
	testY := make([]float64, len(testIdx))
	for i, idx := range testIdx {
		testRows[i] = rows[idx]
		testY[i] = target[idx]
	}

	pre := FitPreprocessor(trainRows)
	trainX := pre.TransformAll(trainRows)
	testX := pre.TransformAll(testRows)

	forest := &Forest{
		NumTrees:        cfg.NumTrees,
		MaxDepth:        cfg.MaxDepth,
		MinSamplesSplit: cfg.MinSamplesSplit,
		MinSamplesLeaf:  cfg.MinSamplesLeaf,
		Seed:            cfg.Seed,
	}
	forest.Fit(trainX, trainY)

	trainMAE, trainRMSE := evaluate(forest, trainX, trainY)
	testMAE, testRMSE := evaluate(forest, testX, testY)

	return &Artifact{
		Preprocess: pre,
		Forest:     forest,
		ItemCodes:  codes,
		Metrics: models.TrainingMetrics{
			TrainRows: len(trainIdx),
			TestRows:  len(testIdx),
			TrainMAE:  trainMAE,
			TestMAE:   testMAE,
			TrainRMSE: trainRMSE,
			TestRMSE:  testRMSE,
		},
		TrainedAt: time.Now().UTC(),
	}, nil
}

// Predict maps one feature record to a raw continuous demand estimate.
// Clamping and rounding are the caller's job.
func (a *Artifact) Predict(f models.FeatureRecord) float64 {
	return a.Forest.Predict(a.Preprocess.Transform(RowFromFeature(f)))
}

func evaluate(forest *Forest, X [][]float64, y []float64) (mae, rmse float64) {
	if len(y) == 0 {
		return 0, 0
	}
	var absSum, sqSum float64
	for i, x := range X {
		diff := forest.Predict(x) - y[i]
		absSum += math.Abs(diff)
		sqSum += diff * diff
	}
	n := float64(len(y))
	return absSum / n, math.Sqrt(sqSum / n)
}
