// Package aggregate rolls raw transactions up to one row per (date, item),
// the level the demand model trains on.
package aggregate

import (
	"sort"
	"time"

	"app/features"
	"app/models"
)

// RollingWindow is the trailing window, in daily rows, of the per-item
// rolling mean.
const RollingWindow = 3

type dayKey struct {
	date string
	item string
}

type dayAccum struct {
	feature   models.FeatureRecord
	quantity  int
	txCount   int
	peakCount int
	mornCount int
	lateCount int
}

// Daily groups a transaction log into DailyAggregates: quantity summed per
// (date, item), the three hour-class flags reduced to the fraction of that
// day's transactions in each window, and a trailing 3-day rolling mean of
// quantity per item. Output is sorted by item name then date so iteration is
// deterministic.
func Daily(engineer *features.Engineer, txs []models.TransactionRecord) ([]models.DailyAggregate, error) {
	accums := make(map[dayKey]*dayAccum)
	for _, tx := range txs {
		rec, err := engineer.FromTransaction(tx)
		if err != nil {
			return nil, err
		}
		key := dayKey{date: tx.Timestamp.Format("2006-01-02"), item: tx.ItemName}
		acc, ok := accums[key]
		if !ok {
			acc = &dayAccum{feature: rec}
			accums[key] = acc
		}
		acc.quantity += tx.Quantity
		acc.txCount++
		if rec.IsPeakHours {
			acc.peakCount++
		}
		if rec.IsMorning {
			acc.mornCount++
		}
		if rec.IsLateNight {
			acc.lateCount++
		}
	}

	rows := make([]models.DailyAggregate, 0, len(accums))
	for key, acc := range accums {
		n := float64(acc.txCount)
		rows = append(rows, models.DailyAggregate{
			Date:           key.date,
			ItemName:       key.item,
			ItemCode:       acc.feature.ItemCode,
			DayOfWeek:      acc.feature.DayOfWeek,
			IsWeekend:      acc.feature.IsWeekend,
			IsHoliday:      acc.feature.IsHoliday,
			Month:          acc.feature.Month,
			Year:           acc.feature.Year,
			TotalQuantity:  acc.quantity,
			PeakHoursShare: float64(acc.peakCount) / n,
			MorningShare:   float64(acc.mornCount) / n,
			LateNightShare: float64(acc.lateCount) / n,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ItemName != rows[j].ItemName {
			return rows[i].ItemName < rows[j].ItemName
		}
		return rows[i].Date < rows[j].Date
	})

	fillRollingMeans(rows)
	return rows, nil
}

// fillRollingMeans computes the trailing rolling mean of quantity over each
// item's chronologically ordered daily rows (window RollingWindow, minimum
// one observation). Rows must already be sorted by item then date.
func fillRollingMeans(rows []models.DailyAggregate) {
	start := 0
	for i := range rows {
		if rows[i].ItemName != rows[start].ItemName {
			start = i
		}
		lo := i - RollingWindow + 1
		if lo < start {
			lo = start
		}
		sum := 0
		for j := lo; j <= i; j++ {
			sum += rows[j].TotalQuantity
		}
		rows[i].Rolling3DayMean = float64(sum) / float64(i-lo+1)
	}
}

// ItemHistory extracts one item's daily series (date ascending) from the
// aggregate set, in the shape the history endpoint serves.
func ItemHistory(rows []models.DailyAggregate, itemName string) []models.HistoricalSale {
	history := make([]models.HistoricalSale, 0)
	for _, row := range rows {
		if row.ItemName != itemName {
			continue
		}
		d, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			continue
		}
		history = append(history, models.HistoricalSale{SaleDate: d, QuantitySold: row.TotalQuantity})
	}
	return history
}
