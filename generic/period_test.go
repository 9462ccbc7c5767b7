package generic_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warp/artisan-engine/generic"
)

func TestWindow_Month_IsCalendarMonth(t *testing.T) {
	now := time.Date(2025, time.February, 14, 15, 30, 0, 0, time.UTC)

	p := generic.WindowMonth.PeriodFor(now)

	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), p.Start)
	assert.True(t, p.Contains(time.Date(2025, time.February, 28, 23, 59, 59, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)))
}

func TestWindow_WeekAndQuarter_EndAtNow(t *testing.T) {
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

	week := generic.WindowWeek.PeriodFor(now)
	assert.Equal(t, now, week.End)
	assert.Equal(t, now.AddDate(0, 0, -7), week.Start)

	quarter := generic.WindowQuarter.PeriodFor(now)
	assert.Equal(t, now.AddDate(0, 0, -90), quarter.Start)
	assert.False(t, quarter.Contains(now.Add(time.Second)))
}

func TestParseWindow_DefaultsToMonth(t *testing.T) {
	assert.Equal(t, generic.WindowWeek, generic.ParseWindow("week"))
	assert.Equal(t, generic.WindowQuarter, generic.ParseWindow("quarter"))
	assert.Equal(t, generic.WindowMonth, generic.ParseWindow(""))
	assert.Equal(t, generic.WindowMonth, generic.ParseWindow("decade"))
}
