package universe

import (
	"testing"
	"time"

	"github.com/dnldd/roll/calendar"
	"github.com/peterldowns/testy/assert"
)

// weekdayHours builds a calendar trading monday through thursday.
func weekdayHours(t *testing.T) *calendar.ExchangeHours {
	t.Helper()

	schedules := make([]*calendar.DailySchedule, 0, 4)
	for day := time.Monday; day <= time.Thursday; day++ {
		segment, err := calendar.NewSegment(calendar.Market, 0, time.Hour*17)
		assert.NoError(t, err)

		schedule, err := calendar.NewDailySchedule(day, segment)
		assert.NoError(t, err)
		schedules = append(schedules, schedule)
	}

	hours, err := calendar.NewExchangeHours(&calendar.ExchangeHoursConfig{
		Location:  time.UTC,
		Schedules: schedules,
	})
	assert.NoError(t, err)

	return hours
}

func TestTriggerTimesBacktest(t *testing.T) {
	schedule := NewTriggerSchedule(weekdayHours(t), false)

	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.January, 7, 0, 0, 0, 0, time.UTC)

	// Ensure a backtest schedule keeps every tradable date unshifted,
	// including the start date.
	times := schedule.TriggerTimes(start, end)
	assert.Equal(t, 4, len(times))
	for idx := range times {
		expected := time.Date(2024, time.January, 1+idx, 0, 0, 0, 0, time.UTC)
		assert.True(t, times[idx].Equal(expected))
	}
}

func TestTriggerTimesLive(t *testing.T) {
	schedule := NewTriggerSchedule(weekdayHours(t), true)

	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.January, 7, 0, 0, 0, 0, time.UTC)

	// Ensure a live schedule drops the start date, covered by the initial
	// selection at startup, and shifts the kept dates by the auxiliary data
	// offset.
	times := schedule.TriggerTimes(start, end)
	assert.Equal(t, 3, len(times))
	for idx := range times {
		expected := time.Date(2024, time.January, 2+idx, 0, 0, 0, 0, time.UTC).Add(liveAuxiliaryDataOffset)
		assert.True(t, times[idx].Equal(expected))
	}

	// Ensure an intraday start drops the in-progress date as well.
	times = schedule.TriggerTimes(start.Add(time.Hour*10), end)
	assert.Equal(t, 3, len(times))
	assert.True(t, times[0].Equal(time.Date(2024, time.January, 2, 8, 0, 0, 0, time.UTC)))
}

func TestTriggerTimesDaylightSaving(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)

	schedule := NewTriggerSchedule(calendar.AlwaysOpen(loc), true)

	start := time.Date(2025, time.March, 8, 0, 0, 0, 0, loc)
	end := time.Date(2025, time.March, 11, 0, 0, 0, 0, loc)

	// Ensure live triggers on the spring forward transition date fire at the
	// intended local time.
	times := schedule.TriggerTimes(start, end)
	assert.Equal(t, 3, len(times))
	for idx := range times {
		assert.Equal(t, 8, times[idx].Hour())
	}
}

func TestTriggerTimesEmptyRange(t *testing.T) {
	schedule := NewTriggerSchedule(weekdayHours(t), false)

	// Ensure a range with no tradable dates yields no triggers.
	start := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.January, 7, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, len(schedule.TriggerTimes(start, end)))
}
