package recommend

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"app/models"
)

func at(minute int, item string) models.TransactionRecord {
	return models.TransactionRecord{
		Timestamp: time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC).Add(time.Duration(minute) * time.Minute),
		ItemName:  item,
		Quantity:  1,
	}
}

func TestSessionGapSplits(t *testing.T) {
	// 31 minutes apart: two sessions.
	sessions := Sessions([]models.TransactionRecord{at(0, "Dosa"), at(31, "Tea")}, DefaultSessionGap)
	assert.Len(t, sessions, 2)

	// 29 minutes apart: one session.
	sessions = Sessions([]models.TransactionRecord{at(0, "Dosa"), at(29, "Tea")}, DefaultSessionGap)
	assert.Len(t, sessions, 1)
	assert.Equal(t, []string{"Dosa", "Tea"}, sessions[0].Items)

	// Exactly 30 minutes is within the session.
	sessions = Sessions([]models.TransactionRecord{at(0, "Dosa"), at(30, "Tea")}, DefaultSessionGap)
	assert.Len(t, sessions, 1)
}

func TestSessionsSortByTimestamp(t *testing.T) {
	sessions := Sessions([]models.TransactionRecord{at(29, "Tea"), at(0, "Dosa")}, DefaultSessionGap)
	assert.Len(t, sessions, 1)
}

func TestDiagonalIsZero(t *testing.T) {
	txs := []models.TransactionRecord{at(0, "Dosa"), at(1, "Dosa"), at(2, "Tea")}
	co := BuildCoOccurrence(txs, DefaultSessionGap)
	for _, item := range co.Items() {
		assert.Equal(t, 0, co.Count(item, item))
	}
	assert.Equal(t, 1, co.Count("Dosa", "Tea"))
	assert.Equal(t, 1, co.Count("Tea", "Dosa"))
}

func TestRecommendRankingAndTies(t *testing.T) {
	var txs []models.TransactionRecord
	add := func(base int, items ...string) {
		for i, item := range items {
			txs = append(txs, models.TransactionRecord{
				Timestamp: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC).Add(time.Duration(base)*time.Hour + time.Duration(i)*time.Minute),
				ItemName:  item,
				Quantity:  1,
			})
		}
	}
	// Dosa+Tea twice, Dosa+Coffee once, Dosa+Apple once.
	add(0, "Dosa", "Tea")
	add(2, "Dosa", "Tea")
	add(4, "Dosa", "Coffee")
	add(6, "Dosa", "Apple")

	co := BuildCoOccurrence(txs, DefaultSessionGap)
	recs, err := co.Recommend("Dosa", 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	assert.Equal(t, []Recommendation{
		{ItemName: "Tea", Count: 2},
		{ItemName: "Apple", Count: 1}, // tie with Coffee broken by name
		{ItemName: "Coffee", Count: 1},
	}, recs)

	for _, rec := range recs {
		assert.NotEqual(t, "Dosa", rec.ItemName)
	}

	top, err := co.Recommend("Dosa", 2)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	assert.Len(t, top, 2)
}

func TestRecommendNoCoOccurrences(t *testing.T) {
	// A lone item in its own session has neighbors map but no counts.
	txs := []models.TransactionRecord{at(0, "Dosa"), at(120, "Tea")}
	co := BuildCoOccurrence(txs, DefaultSessionGap)
	recs, err := co.Recommend("Dosa", 5)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	assert.Empty(t, recs)
}

func TestRecommendUnknownItem(t *testing.T) {
	co := BuildCoOccurrence([]models.TransactionRecord{at(0, "Dosa")}, DefaultSessionGap)
	_, err := co.Recommend("Burger", 5)
	if !errors.Is(err, models.ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem, got %v", err)
	}
}
