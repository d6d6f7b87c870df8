// Package recommend suggests co-purchased items: transactions are segmented
// into order sessions by timestamp gap, and items are ranked by how many
// sessions they share.
package recommend

import (
	"fmt"
	"sort"
	"time"

	"app/models"
)

// DefaultSessionGap is the maximum spacing between consecutive transactions
// of one order session.
const DefaultSessionGap = 30 * time.Minute

// Session is one maximal run of transactions with inter-arrival gaps no
// larger than the configured threshold. Sessions are never persisted.
type Session struct {
	Start time.Time
	End   time.Time
	Items []string // distinct item names, name ascending
}

// Sessions segments the transaction log. Transactions are sorted by
// timestamp; a gap strictly greater than sessionGap starts a new session.
func Sessions(txs []models.TransactionRecord, sessionGap time.Duration) []Session {
	if len(txs) == 0 {
		return nil
	}
	sorted := append([]models.TransactionRecord(nil), txs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp.Before(sorted[j].Timestamp) })

	var sessions []Session
	itemSet := map[string]struct{}{sorted[0].ItemName: {}}
	start, end := sorted[0].Timestamp, sorted[0].Timestamp

	flush := func() {
		items := make([]string, 0, len(itemSet))
		for name := range itemSet {
			items = append(items, name)
		}
		sort.Strings(items)
		sessions = append(sessions, Session{Start: start, End: end, Items: items})
	}

	for _, tx := range sorted[1:] {
		if tx.Timestamp.Sub(end) > sessionGap {
			flush()
			itemSet = map[string]struct{}{}
			start = tx.Timestamp
		}
		itemSet[tx.ItemName] = struct{}{}
		end = tx.Timestamp
	}
	flush()
	return sessions
}

// Recommendation is one ranked co-purchase suggestion.
type Recommendation struct {
	ItemName string `json:"item_name"`
	Count    int    `json:"count"`
}

// CoOccurrence is the item x item session-count matrix with a zero diagonal.
type CoOccurrence struct {
	counts map[string]map[string]int
}

// BuildCoOccurrence counts, for every item pair, the sessions in which both
// appear at least once. An item never co-occurs with itself.
func BuildCoOccurrence(txs []models.TransactionRecord, sessionGap time.Duration) *CoOccurrence {
	co := &CoOccurrence{counts: make(map[string]map[string]int)}
	for _, session := range Sessions(txs, sessionGap) {
		for _, a := range session.Items {
			if co.counts[a] == nil {
				co.counts[a] = make(map[string]int)
			}
			for _, b := range session.Items {
				if a == b {
					continue
				}
				co.counts[a][b]++
			}
		}
	}
	return co
}

// Count returns cell (a, b) of the matrix.
func (co *CoOccurrence) Count(a, b string) int {
	if a == b {
		return 0
	}
	return co.counts[a][b]
}

// Items returns the known item names, name ascending.
func (co *CoOccurrence) Items() []string {
	names := make([]string, 0, len(co.counts))
	for name := range co.counts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Recommend returns up to k items most often bought in the same session as
// the given item, count descending then name ascending. An item with no
// co-occurrences yields an empty result; an item never seen at all is
// models.ErrUnknownItem.
func (co *CoOccurrence) Recommend(itemName string, k int) ([]Recommendation, error) {
	neighbors, ok := co.counts[itemName]
	if !ok {
		return nil, fmt.Errorf("item %q: %w", itemName, models.ErrUnknownItem)
	}

	recs := make([]Recommendation, 0, len(neighbors))
	for name, count := range neighbors {
		if count > 0 {
			recs = append(recs, Recommendation{ItemName: name, Count: count})
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Count != recs[j].Count {
			return recs[i].Count > recs[j].Count
		}
		return recs[i].ItemName < recs[j].ItemName
	})
	if k >= 0 && len(recs) > k {
		recs = recs[:k]
	}
	return recs, nil
}
