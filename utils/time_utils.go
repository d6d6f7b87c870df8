package utils

import "time"

// timestampFormats are the layouts accepted for timestamps coming from CSV
// exports and query parameters. Tried in order.
var timestampFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"2006-01-02",
}

// ParseFlexibleTime parses a timestamp in any of the supported layouts.
func ParseFlexibleTime(value string) (time.Time, error) {
	var lastErr error
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

// ParseClockHour parses an "HH:MM" or "HH" clock value and returns the hour.
func ParseClockHour(value string) (int, error) {
	var lastErr error
	for _, format := range []string{"15:04", "15:04:05", "15"} {
		if t, err := time.Parse(format, value); err == nil {
			return t.Hour(), nil
		} else {
			lastErr = err
		}
	}
	return 0, lastErr
}
