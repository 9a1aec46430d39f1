package booking

import (
	"testing"
	"time"

	"medibook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPastDate(t *testing.T) {
	// Late in the evening, so any time-of-day leakage would wrongly mark
	// today as past.
	now := time.Date(2026, time.September, 10, 23, 50, 0, 0, time.Local)

	today := models.CalendarDate{Year: 2026, Month: time.September, Day: 10}
	yesterday := models.CalendarDate{Year: 2026, Month: time.September, Day: 9}
	tomorrow := models.CalendarDate{Year: 2026, Month: time.September, Day: 11}

	assert.False(t, IsPastDate(today, now), "today is never past")
	assert.True(t, IsPastDate(yesterday, now))
	assert.False(t, IsPastDate(tomorrow, now))
}

func TestParseSelectedDate(t *testing.T) {
	want := models.CalendarDate{Year: 2026, Month: time.September, Day: 10}

	tests := []struct {
		name  string
		input any
	}{
		{"dashed string", "2026-09-10"},
		{"slashed string", "2026/09/10"},
		{"wire timestamp", "2026-09-10 14:30:00"},
		{"calendar date passthrough", want},
		{"time value", time.Date(2026, time.September, 10, 8, 0, 0, 0, time.Local)},
		{"epoch millis", float64(time.Date(2026, time.September, 10, 12, 0, 0, 0, time.Local).UnixMilli())},
		{"object shape", map[string]any{"year": float64(2026), "month": float64(9), "day": float64(10)}},
		{"object with string fields", map[string]any{"year": "2026", "month": "9", "day": "10"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseSelectedDate(tc.input)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseSelectedDate_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"nil", nil},
		{"garbage string", "next tuesday"},
		{"negative millis", float64(-5)},
		{"object missing day", map[string]any{"year": float64(2026), "month": float64(9)}},
		{"object out of range", map[string]any{"year": float64(2026), "month": float64(13), "day": float64(1)}},
		{"unsupported type", []string{"2026-09-10"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSelectedDate(tc.input)
			assert.Error(t, err)
		})
	}
}
