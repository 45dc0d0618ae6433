package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkerSteps(t *testing.T) {
	tests := []struct {
		days            float64
		month, yearStep int
	}{
		{100, 1, 1},
		{365 * 7, 3, 1},
		{365 * 20, 12, 1},
		{365 * 60, 12, 5},
		{365 * 150, 12, 10},
	}
	for _, tt := range tests {
		month, year := MarkerSteps(tt.days)
		assert.Equal(t, tt.month, month, "days %v", tt.days)
		assert.Equal(t, tt.yearStep, year, "days %v", tt.days)
	}
}

func TestMonthMarkers(t *testing.T) {
	r := DateRange{Start: utcDay(2024, 11, 15), End: EndOfDay(utcDay(2025, 3, 10))}

	markers := MonthMarkers(r, 100)

	require.Len(t, markers, 4)
	labels := make([]string, len(markers))
	for i, m := range markers {
		labels[i] = m.Label
	}
	assert.Equal(t, []string{"Dec", "2025", "Feb", "Mar"}, labels)
	assert.True(t, markers[1].Year)
	assert.False(t, markers[0].Year)
	assert.InDelta(t, r.Position(utcDay(2024, 12, 1)), markers[0].Position, 1e-9)
}

func TestMonthMarkersThinOut(t *testing.T) {
	r := DateRange{Start: utcDay(2018, 1, 1), End: EndOfDay(utcDay(2025, 12, 31))}

	markers := MonthMarkers(r, 365*7)

	for _, m := range markers {
		if !m.Year {
			assert.Contains(t, []time.Month{time.April, time.July, time.October}, m.Date.Month())
		}
	}
	assert.Len(t, markers, 8*4)
}

func TestDayTickStep(t *testing.T) {
	assert.Equal(t, 0, DayTickStep(1000))
	assert.Equal(t, 14, DayTickStep(700))
	assert.Equal(t, 10, DayTickStep(500))
	assert.Equal(t, 7, DayTickStep(400))
	assert.Equal(t, 3, DayTickStep(250))
	assert.Equal(t, 2, DayTickStep(160))
	assert.Equal(t, 1, DayTickStep(30))
}

func TestDayTicksStayAlignedWhileScrolling(t *testing.T) {
	r := DateRange{Start: utcDay(2025, 1, 1), End: EndOfDay(utcDay(2025, 12, 31))}

	first := DayTicks(r, utcDay(2025, 2, 1), utcDay(2025, 3, 1), 250)
	second := DayTicks(r, utcDay(2025, 2, 2), utcDay(2025, 3, 1), 250)

	require.NotEmpty(t, first)
	assert.Equal(t, first[len(first)-1].Date, second[len(second)-1].Date)
	for _, tick := range first {
		days := int(tick.Date.Sub(r.Start).Hours() / 24)
		assert.Zero(t, days%3, "tick %s", tick.Date)
		assert.False(t, tick.Daily)
	}
}

func TestDayTicksHiddenWhenZoomedOut(t *testing.T) {
	r := DateRange{Start: utcDay(2020, 1, 1), End: EndOfDay(utcDay(2025, 12, 31))}

	assert.Empty(t, DayTicks(r, r.Start, r.End, 2000))
}

func TestDayTicksDaily(t *testing.T) {
	r := DateRange{Start: utcDay(2025, 1, 1), End: EndOfDay(utcDay(2025, 1, 31))}

	ticks := DayTicks(r, utcDay(2025, 1, 10), utcDay(2025, 1, 14), 20)

	require.Len(t, ticks, 5)
	assert.Equal(t, 10, ticks[0].Day)
	assert.True(t, ticks[0].Daily)
}
