package features

import (
	"time"

	"app/models"
)

// Engineer derives temporal and business features from raw transaction
// timestamps. All predicates are pure functions of the timestamp; the only
// collaborators are the injected holiday calendar and item-code mapping.
type Engineer struct {
	Calendar Calendar
	Codes    ItemCodes
}

func NewEngineer(calendar Calendar, codes ItemCodes) *Engineer {
	return &Engineer{Calendar: calendar, Codes: codes}
}

// IsPeakHours covers the lunch (11-14) and dinner (18-21) windows, both ends
// inclusive.
func IsPeakHours(hour int) bool {
	return (hour >= 11 && hour <= 14) || (hour >= 18 && hour <= 21)
}

// IsMorning covers 6-10 inclusive.
func IsMorning(hour int) bool {
	return hour >= 6 && hour <= 10
}

// IsLateNight covers 22-23 and 0-5.
func IsLateNight(hour int) bool {
	return hour <= 5 || hour >= 22
}

// MondayWeekday converts Go's Sunday-based weekday to the Monday = 0
// convention used throughout the pipeline.
func MondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// FromTimestamp derives the features of a single point in time for a known
// item. Returns models.ErrUnknownItem if the item is not in the mapping.
func (e *Engineer) FromTimestamp(itemName string, ts time.Time) (models.FeatureRecord, error) {
	code, err := e.Codes.Code(itemName)
	if err != nil {
		return models.FeatureRecord{}, err
	}
	dow := MondayWeekday(ts)
	return models.FeatureRecord{
		Hour:        ts.Hour(),
		DayOfWeek:   dow,
		DayOfMonth:  ts.Day(),
		Month:       int(ts.Month()),
		Year:        ts.Year(),
		IsWeekend:   dow >= 5,
		IsPeakHours: IsPeakHours(ts.Hour()),
		IsMorning:   IsMorning(ts.Hour()),
		IsLateNight: IsLateNight(ts.Hour()),
		IsHoliday:   e.Calendar.IsHoliday(ts),
		ItemCode:    code,
	}, nil
}

// FromTransaction derives the features of one sale event.
func (e *Engineer) FromTransaction(tx models.TransactionRecord) (models.FeatureRecord, error) {
	return e.FromTimestamp(tx.ItemName, tx.Timestamp)
}

// FromTransactions derives features for a whole transaction log, preserving
// input order.
func (e *Engineer) FromTransactions(txs []models.TransactionRecord) ([]models.FeatureRecord, error) {
	records := make([]models.FeatureRecord, 0, len(txs))
	for _, tx := range txs {
		rec, err := e.FromTransaction(tx)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
