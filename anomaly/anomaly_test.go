package anomaly

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"app/models"
)

func dailyRow(date, item string, qty int) models.DailyAggregate {
	return models.DailyAggregate{Date: date, ItemName: item, TotalQuantity: qty}
}

func TestDetectFlagsSpikeDay(t *testing.T) {
	var aggs []models.DailyAggregate
	for day := 1; day <= 30; day++ {
		date := fmt.Sprintf("2024-03-%02d", day)
		aggs = append(aggs, dailyRow(date, "Dosa", 5), dailyRow(date, "Tea", 4))
	}
	// One day with 50x the usual volume.
	aggs = append(aggs, dailyRow("2024-03-31", "Dosa", 250), dailyRow("2024-03-31", "Tea", 200))

	flags := Detect(DefaultConfig(), aggs)
	assert.Len(t, flags, 31)

	byDate := make(map[string]models.AnomalyFlag)
	for _, flag := range flags {
		byDate[flag.Date] = flag
	}
	assert.True(t, byDate["2024-03-31"].IsAnomalous, "spike day must be flagged")
}

func TestDetectFlagsContaminationFraction(t *testing.T) {
	var aggs []models.DailyAggregate
	for day := 1; day <= 31; day++ {
		aggs = append(aggs, dailyRow(fmt.Sprintf("2024-03-%02d", day), "Dosa", 5+day%3))
	}

	flags := Detect(DefaultConfig(), aggs)
	flagged := 0
	for _, flag := range flags {
		if flag.IsAnomalous {
			flagged++
		}
	}
	// ceil(0.05 * 31) = 2
	assert.Equal(t, 2, flagged)
}

func TestDetectOrderedByDate(t *testing.T) {
	aggs := []models.DailyAggregate{
		dailyRow("2024-03-03", "Dosa", 5),
		dailyRow("2024-03-01", "Dosa", 5),
		dailyRow("2024-03-02", "Dosa", 5),
		dailyRow("2024-03-04", "Dosa", 5),
	}
	flags := Detect(DefaultConfig(), aggs)
	for i := 1; i < len(flags); i++ {
		assert.Less(t, flags[i-1].Date, flags[i].Date)
	}
}

func TestDetectDegradesOnTinyInput(t *testing.T) {
	aggs := []models.DailyAggregate{
		dailyRow("2024-03-01", "Dosa", 5),
		dailyRow("2024-03-02", "Dosa", 500),
	}
	flags := Detect(DefaultConfig(), aggs)
	assert.Len(t, flags, 2)
	for _, flag := range flags {
		assert.False(t, flag.IsAnomalous)
	}
}

func TestDetectDeterministic(t *testing.T) {
	var aggs []models.DailyAggregate
	for day := 1; day <= 20; day++ {
		aggs = append(aggs, dailyRow(fmt.Sprintf("2024-03-%02d", day), "Dosa", day*day%7))
	}
	first := Detect(DefaultConfig(), aggs)
	second := Detect(DefaultConfig(), aggs)
	assert.Equal(t, first, second)
}
