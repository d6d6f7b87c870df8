// Package engine is the service facade over the forecasting core. It owns
// the current model artifact, the loaded transaction log and the derived
// co-occurrence matrix, and is what the HTTP handlers call into.
package engine

import (
	"context"
	"fmt"
	"iter"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"app/aggregate"
	"app/anomaly"
	"app/datasource"
	"app/features"
	"app/forecast"
	"app/models"
	"app/pipeline"
	"app/recommend"
)

// Options wires the engine's collaborators.
type Options struct {
	Calendar    features.Calendar
	Store       pipeline.Store
	Source      datasource.Source
	SessionGap  time.Duration
	PipelineCfg pipeline.Config
	AnomalyCfg  anomaly.Config
}

// Engine holds the long-lived service state. The artifact pointer is
// published atomically: inference callers see either the old or the new
// model in full, never a partial one.
type Engine struct {
	opts Options

	artifact atomic.Pointer[pipeline.Artifact]

	mu           sync.Mutex
	transactions []models.TransactionRecord
	coOccurrence *recommend.CoOccurrence
}

func New(opts Options) *Engine {
	if opts.SessionGap <= 0 {
		opts.SessionGap = recommend.DefaultSessionGap
	}
	return &Engine{opts: opts}
}

// LoadArtifact restores a previously trained model from the store. A missing
// artifact is not an error at startup; inference just reports
// ErrModelNotTrained until a training run happens.
func (e *Engine) LoadArtifact() error {
	artifact, err := e.opts.Store.Load("")
	if err != nil {
		return err
	}
	e.artifact.Store(artifact)
	log.Printf("[ENGINE] Loaded model artifact trained at %s (%d items)",
		artifact.TrainedAt.Format(time.RFC3339), len(artifact.ItemCodes))
	return nil
}

// Artifact returns the current model, or ErrModelNotTrained.
func (e *Engine) Artifact() (*pipeline.Artifact, error) {
	artifact := e.artifact.Load()
	if artifact == nil {
		return nil, models.ErrModelNotTrained
	}
	return artifact, nil
}

// Transactions loads the historical batch once per run and reuses it
// afterwards; the log is treated as immutable input.
func (e *Engine) Transactions(ctx context.Context) ([]models.TransactionRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.transactions != nil {
		return e.transactions, nil
	}
	transactions, err := e.opts.Source.Load(ctx)
	if err != nil {
		return nil, err
	}
	e.transactions = transactions
	log.Printf("[ENGINE] Loaded %d transactions", len(transactions))
	return transactions, nil
}

// Train runs the full pipeline on the historical batch and publishes the new
// artifact atomically, persisting it to the store. Returns the diagnostic
// metrics; they carry no accept/reject gate.
func (e *Engine) Train(ctx context.Context) (models.TrainingMetrics, error) {
	transactions, err := e.Transactions(ctx)
	if err != nil {
		return models.TrainingMetrics{}, err
	}

	codes := features.BuildItemCodes(transactions)
	engineer := features.NewEngineer(e.opts.Calendar, codes)
	aggregates, err := aggregate.Daily(engineer, transactions)
	if err != nil {
		return models.TrainingMetrics{}, err
	}

	artifact, err := pipeline.Train(e.opts.PipelineCfg, aggregates, codes)
	if err != nil {
		return models.TrainingMetrics{}, err
	}

	if _, err := e.opts.Store.Save(artifact); err != nil {
		return models.TrainingMetrics{}, fmt.Errorf("persisting artifact: %w", err)
	}
	e.artifact.Store(artifact)

	m := artifact.Metrics
	log.Printf("[ENGINE] Trained on %d daily rows: train MAE %.2f RMSE %.2f, test MAE %.2f RMSE %.2f",
		m.TrainRows+m.TestRows, m.TrainMAE, m.TrainRMSE, m.TestMAE, m.TestRMSE)
	return m, nil
}

// PredictDemand predicts demand for one item at one date and hour.
func (e *Engine) PredictDemand(itemName string, date time.Time, hour int) (int, error) {
	artifact, err := e.Artifact()
	if err != nil {
		return 0, err
	}
	return forecast.New(artifact, e.opts.Calendar).PredictDemand(itemName, date, hour)
}

// Forecast produces the multi-step forecast series for one item.
func (e *Engine) Forecast(itemName string, startDate time.Time, horizonDays int, slots []int) (iter.Seq[models.ForecastResult], error) {
	artifact, err := e.Artifact()
	if err != nil {
		return nil, err
	}
	return forecast.New(artifact, e.opts.Calendar).Forecast(itemName, startDate, horizonDays, slots)
}

// DetectAnomalies flags unusual trading days over the whole menu. It needs
// no trained model: the item-code mapping is rebuilt from the batch itself.
func (e *Engine) DetectAnomalies(ctx context.Context) ([]models.AnomalyFlag, error) {
	transactions, err := e.Transactions(ctx)
	if err != nil {
		return nil, err
	}
	engineer := features.NewEngineer(e.opts.Calendar, features.BuildItemCodes(transactions))
	aggregates, err := aggregate.Daily(engineer, transactions)
	if err != nil {
		return nil, err
	}
	return anomaly.Detect(e.opts.AnomalyCfg, aggregates), nil
}

// Recommend returns up to k co-purchase suggestions for an item. The
// co-occurrence matrix is built once per run from the immutable batch.
func (e *Engine) Recommend(ctx context.Context, itemName string, k int) ([]recommend.Recommendation, error) {
	transactions, err := e.Transactions(ctx)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	if e.coOccurrence == nil {
		e.coOccurrence = recommend.BuildCoOccurrence(transactions, e.opts.SessionGap)
	}
	co := e.coOccurrence
	e.mu.Unlock()
	return co.Recommend(itemName, k)
}

// History returns one item's daily demand series plus the preparation
// summary derived from it.
func (e *Engine) History(ctx context.Context, itemName string) ([]models.HistoricalSale, models.InventorySummary, error) {
	transactions, err := e.Transactions(ctx)
	if err != nil {
		return nil, models.InventorySummary{}, err
	}
	codes := features.BuildItemCodes(transactions)
	if _, err := codes.Code(itemName); err != nil {
		return nil, models.InventorySummary{}, err
	}
	engineer := features.NewEngineer(e.opts.Calendar, codes)
	aggregates, err := aggregate.Daily(engineer, transactions)
	if err != nil {
		return nil, models.InventorySummary{}, err
	}
	history := aggregate.ItemHistory(aggregates, itemName)
	return history, summarize(aggregates, itemName, history), nil
}

var weekdayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// summarize computes the average daily demand, the weekday with the highest
// mean demand and a suggested stock level of round(average) + 5 units.
func summarize(aggregates []models.DailyAggregate, itemName string, history []models.HistoricalSale) models.InventorySummary {
	if len(history) == 0 {
		return models.InventorySummary{}
	}

	var total int
	for _, day := range history {
		total += day.QuantitySold
	}
	avg := float64(total) / float64(len(history))

	sums := make(map[int]int)
	counts := make(map[int]int)
	for _, agg := range aggregates {
		if agg.ItemName != itemName {
			continue
		}
		sums[agg.DayOfWeek] += agg.TotalQuantity
		counts[agg.DayOfWeek]++
	}
	peakDay, peakMean := 0, -1.0
	days := make([]int, 0, len(sums))
	for day := range sums {
		days = append(days, day)
	}
	sort.Ints(days)
	for _, day := range days {
		mean := float64(sums[day]) / float64(counts[day])
		if mean > peakMean {
			peakDay, peakMean = day, mean
		}
	}

	return models.InventorySummary{
		AverageDailyDemand: avg,
		PeakDay:            weekdayNames[peakDay],
		SuggestedStock:     int(avg) + 5,
	}
}
