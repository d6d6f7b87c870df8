package features

import (
	"fmt"
	"time"
)

// Calendar reports whether a calendar date is a public holiday. It is an
// injected collaborator; the engineer never computes holidays itself.
type Calendar interface {
	IsHoliday(date time.Time) bool
}

// holidayDef is a fixed-date national holiday (same month/day every year).
type holidayDef struct {
	Month time.Month
	Day   int
	Name  string
}

// Fixed-date holiday tables per locale. Movable feasts are not modelled;
// dates outside the supported year range report false.
var localeHolidays = map[string][]holidayDef{
	"IN": {
		{time.January, 26, "Republic Day"},
		{time.May, 1, "Labour Day"},
		{time.August, 15, "Independence Day"},
		{time.October, 2, "Gandhi Jayanti"},
		{time.December, 25, "Christmas"},
	},
	"US": {
		{time.January, 1, "New Year's Day"},
		{time.July, 4, "Independence Day"},
		{time.December, 25, "Christmas"},
	},
}

// HolidayCalendar is a table-backed Calendar scoped to one locale and a
// bounded year range.
type HolidayCalendar struct {
	Locale    string
	FirstYear int
	LastYear  int

	dates map[string]string // YYYY-MM-DD -> holiday name
}

// NewHolidayCalendar builds the holiday table for [firstYear, lastYear].
// Unknown locales are an error; an unsupported year at lookup time is not.
func NewHolidayCalendar(locale string, firstYear, lastYear int) (*HolidayCalendar, error) {
	defs, ok := localeHolidays[locale]
	if !ok {
		return nil, fmt.Errorf("unsupported holiday locale %q", locale)
	}
	cal := &HolidayCalendar{
		Locale:    locale,
		FirstYear: firstYear,
		LastYear:  lastYear,
		dates:     make(map[string]string),
	}
	for year := firstYear; year <= lastYear; year++ {
		for _, def := range defs {
			d := time.Date(year, def.Month, def.Day, 0, 0, 0, 0, time.UTC)
			cal.dates[d.Format("2006-01-02")] = def.Name
		}
	}
	return cal, nil
}

// IsHoliday reports whether the date (time of day ignored) is a holiday.
// Years outside the supported range report false rather than erroring, so a
// far-future forecast date stays valid.
func (hc *HolidayCalendar) IsHoliday(date time.Time) bool {
	if date.Year() < hc.FirstYear || date.Year() > hc.LastYear {
		return false
	}
	_, ok := hc.dates[date.Format("2006-01-02")]
	return ok
}
