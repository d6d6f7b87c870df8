package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"app/anomaly"
	"app/features"
	"app/models"
	"app/pipeline"
)

type sliceSource struct {
	txs []models.TransactionRecord
}

func (s *sliceSource) Load(_ context.Context) ([]models.TransactionRecord, error) {
	return s.txs, nil
}

func scenarioTransactions() []models.TransactionRecord {
	var txs []models.TransactionRecord
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 60; day++ {
		date := start.AddDate(0, 0, day)
		txs = append(txs,
			models.TransactionRecord{Timestamp: date.Add(12 * time.Hour), ItemName: "Dosa", Quantity: 5},
			models.TransactionRecord{Timestamp: date.Add(12*time.Hour + 5*time.Minute), ItemName: "Tea", Quantity: 2},
		)
	}
	return txs
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	cal, err := features.NewHolidayCalendar("IN", 2020, 2030)
	require.NoError(t, err)

	cfg := pipeline.DefaultConfig()
	cfg.NumTrees = 40

	return New(Options{
		Calendar:    cal,
		Store:       pipeline.NewFileStore(filepath.Join(t.TempDir(), "model.json")),
		Source:      &sliceSource{txs: scenarioTransactions()},
		PipelineCfg: cfg,
		AnomalyCfg:  anomaly.DefaultConfig(),
	})
}

func TestPredictBeforeTraining(t *testing.T) {
	eng := testEngine(t)
	_, err := eng.PredictDemand("Dosa", time.Now(), 12)
	if !errors.Is(err, models.ErrModelNotTrained) {
		t.Fatalf("expected ErrModelNotTrained, got %v", err)
	}
}

func TestTrainPublishesArtifact(t *testing.T) {
	eng := testEngine(t)

	metrics, err := eng.Train(context.Background())
	require.NoError(t, err)
	assert.Greater(t, metrics.TrainRows, 0)
	assert.Greater(t, metrics.TestRows, 0)

	qty, err := eng.PredictDemand("Dosa", time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), 12)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, qty, 0)

	// A fresh engine sharing the store picks the persisted artifact up.
	other := New(eng.opts)
	require.NoError(t, other.LoadArtifact())
	qty2, err := other.PredictDemand("Dosa", time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), 12)
	require.NoError(t, err)
	assert.Equal(t, qty, qty2)
}

func TestTrainIsReproducible(t *testing.T) {
	first, err := testEngine(t).Train(context.Background())
	require.NoError(t, err)
	second, err := testEngine(t).Train(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestForecastSeries(t *testing.T) {
	eng := testEngine(t)
	_, err := eng.Train(context.Background())
	require.NoError(t, err)

	seq, err := eng.Forecast("Dosa", time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), 3, []int{8, 12, 19})
	require.NoError(t, err)

	count := 0
	for range seq {
		count++
	}
	assert.Equal(t, 9, count)
}

func TestDetectAnomaliesWithoutModel(t *testing.T) {
	eng := testEngine(t)
	flags, err := eng.DetectAnomalies(context.Background())
	require.NoError(t, err)
	assert.Len(t, flags, 60)
}

func TestRecommendUsesSessions(t *testing.T) {
	eng := testEngine(t)
	recs, err := eng.Recommend(context.Background(), "Dosa", 5)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Tea", recs[0].ItemName)
	assert.Equal(t, 60, recs[0].Count)
}

func TestHistorySummary(t *testing.T) {
	eng := testEngine(t)
	history, summary, err := eng.History(context.Background(), "Dosa")
	require.NoError(t, err)
	assert.Len(t, history, 60)
	assert.InDelta(t, 5.0, summary.AverageDailyDemand, 1e-9)
	assert.Equal(t, 10, summary.SuggestedStock)

	_, _, err = eng.History(context.Background(), "Burger")
	if !errors.Is(err, models.ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem, got %v", err)
	}
}
