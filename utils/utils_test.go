package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFlexibleTime(t *testing.T) {
	for _, value := range []string{
		"2024-03-04T12:30:00Z",
		"2024-03-04T12:30:00",
		"2024-03-04 12:30:00",
		"04-03-2024 12:30",
	} {
		ts, err := ParseFlexibleTime(value)
		if err != nil {
			t.Fatalf("parsing %q: %v", value, err)
		}
		assert.Equal(t, 2024, ts.Year())
		assert.Equal(t, 12, ts.Hour())
	}

	dateOnly, err := ParseFlexibleTime("2024-03-04")
	if err != nil {
		t.Fatalf("parsing date: %v", err)
	}
	assert.Equal(t, 0, dateOnly.Hour())

	_, err = ParseFlexibleTime("yesterday")
	assert.Error(t, err)
}

func TestParseClockHour(t *testing.T) {
	hour, err := ParseClockHour("19:30")
	if err != nil {
		t.Fatalf("parsing clock: %v", err)
	}
	assert.Equal(t, 19, hour)

	_, err = ParseClockHour("25:00")
	assert.Error(t, err)
}

func TestCreatePagination(t *testing.T) {
	p := CreatePagination(95, 2, 30)
	assert.Equal(t, 4, p.TotalPages)
	assert.Equal(t, 2, p.CurrentPage)

	p = CreatePagination(95, 0, 0)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 10, p.PageSize)
}
