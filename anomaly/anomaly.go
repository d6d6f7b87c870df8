// Package anomaly flags unusual trading days from the date x item pivot of
// daily quantities, using an isolation forest with a fixed contamination
// fraction.
package anomaly

import (
	"math"
	"sort"

	"app/models"
)

// Config controls the detector. Contamination is the fraction of dates
// expected to be anomalous; the detector ranks scores and flags that
// fraction rather than applying a hard threshold.
type Config struct {
	NumTrees      int     `json:"num_trees"`
	SampleSize    int     `json:"sample_size"`
	Contamination float64 `json:"contamination"`
	Seed          int64   `json:"seed"`
}

func DefaultConfig() Config {
	return Config{NumTrees: 100, SampleSize: 256, Contamination: 0.05, Seed: 42}
}

// minDates below which flagging is meaningless; the detector degrades to
// all-false flags instead of failing.
const minDates = 3

// Detect pivots the daily aggregates to a date x item quantity matrix
// (missing combinations filled with 0) and scores each date. Flags come
// back in date-ascending order.
func Detect(cfg Config, aggregates []models.DailyAggregate) []models.AnomalyFlag {
	dates, matrix := pivot(aggregates)

	flags := make([]models.AnomalyFlag, len(dates))
	for i, date := range dates {
		flags[i] = models.AnomalyFlag{Date: date}
	}
	if len(dates) < minDates {
		return flags
	}

	forest := fitIsolationForest(cfg, matrix)
	for i := range flags {
		flags[i].Score = -forest.anomalyScore(matrix[i])
	}

	// Flag the ceil(contamination * n) most anomalous dates.
	flagCount := int(math.Ceil(cfg.Contamination * float64(len(dates))))
	if flagCount < 1 {
		flagCount = 1
	}
	order := make([]int, len(dates))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		if flags[order[a]].Score != flags[order[b]].Score {
			return flags[order[a]].Score < flags[order[b]].Score
		}
		return flags[order[a]].Date < flags[order[b]].Date
	})
	for _, idx := range order[:flagCount] {
		flags[idx].IsAnomalous = true
	}
	return flags
}

// pivot builds the date x item quantity matrix with deterministic row
// (date asc) and column (item name asc) order.
func pivot(aggregates []models.DailyAggregate) ([]string, [][]float64) {
	dateSet := make(map[string]struct{})
	itemSet := make(map[string]struct{})
	for _, agg := range aggregates {
		dateSet[agg.Date] = struct{}{}
		itemSet[agg.ItemName] = struct{}{}
	}
	dates := sortedKeys(dateSet)
	items := sortedKeys(itemSet)

	dateIdx := make(map[string]int, len(dates))
	for i, d := range dates {
		dateIdx[d] = i
	}
	itemIdx := make(map[string]int, len(items))
	for i, it := range items {
		itemIdx[it] = i
	}

	matrix := make([][]float64, len(dates))
	for i := range matrix {
		matrix[i] = make([]float64, len(items))
	}
	for _, agg := range aggregates {
		matrix[dateIdx[agg.Date]][itemIdx[agg.ItemName]] += float64(agg.TotalQuantity)
	}
	return dates, matrix
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
