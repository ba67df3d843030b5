package calendar

import (
	"testing"
	"time"

	"github.com/dnldd/roll/shared"
	"github.com/peterldowns/testy/assert"
)

// futuresWeek builds a futures style weekly calendar: open sunday evening
// through friday afternoon with a daily maintenance break at 17:00.
func futuresWeek(t *testing.T, loc *time.Location, holidays []time.Time,
	lateOpens, earlyCloses map[string]time.Duration) *ExchangeHours {
	t.Helper()

	sunday, err := NewDailySchedule(time.Sunday,
		mustSegment(t, Market, time.Hour*18, shared.Day))
	assert.NoError(t, err)

	weekdays := make([]*DailySchedule, 0, 7)
	weekdays = append(weekdays, sunday)
	for day := time.Monday; day <= time.Thursday; day++ {
		schedule, err := NewDailySchedule(day,
			mustSegment(t, Market, 0, time.Hour*17),
			mustSegment(t, Market, time.Hour*18, shared.Day))
		assert.NoError(t, err)
		weekdays = append(weekdays, schedule)
	}

	friday, err := NewDailySchedule(time.Friday,
		mustSegment(t, Market, 0, time.Hour*17))
	assert.NoError(t, err)
	weekdays = append(weekdays, friday)

	hours, err := NewExchangeHours(&ExchangeHoursConfig{
		Location:    loc,
		Schedules:   weekdays,
		Holidays:    holidays,
		LateOpens:   lateOpens,
		EarlyCloses: earlyCloses,
	})
	assert.NoError(t, err)

	return hours
}

func TestExchangeHoursConfigValidate(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)

	// Ensure a nil location is rejected.
	cfg := &ExchangeHoursConfig{}
	assert.Error(t, cfg.Validate())

	// Ensure duplicate weekday schedules are rejected.
	monday, err := NewDailySchedule(time.Monday,
		mustSegment(t, Market, time.Hour*9, time.Hour*16))
	assert.NoError(t, err)

	cfg = &ExchangeHoursConfig{
		Location:  loc,
		Schedules: []*DailySchedule{monday, monday},
	}
	assert.Error(t, cfg.Validate())
}

func TestExchangeHoursDates(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)

	holiday := time.Date(2024, 6, 6, 0, 0, 0, 0, loc)
	hours := futuresWeek(t, loc, []time.Time{holiday}, nil, nil)

	// Ensure weekday, weekend and holiday dates are classified correctly.
	assert.True(t, hours.IsDateOpen(time.Date(2024, 6, 3, 0, 0, 0, 0, loc), false))
	assert.True(t, hours.IsDateOpen(time.Date(2024, 6, 9, 0, 0, 0, 0, loc), false))
	assert.False(t, hours.IsDateOpen(time.Date(2024, 6, 8, 0, 0, 0, 0, loc), false))
	assert.False(t, hours.IsDateOpen(holiday, false))
	assert.True(t, hours.IsHoliday(holiday))

	// Ensure tradable dates skip the saturday and the holiday.
	dates := hours.TradableDates(time.Date(2024, 6, 3, 0, 0, 0, 0, loc),
		time.Date(2024, 6, 10, 0, 0, 0, 0, loc))
	assert.Equal(t, len(dates), 6)
	for idx := range dates {
		assert.NotEqual(t, dates[idx].Day(), 6)
		assert.NotEqual(t, dates[idx].Weekday(), time.Saturday)
	}
}

func TestExchangeHoursIsOpenAt(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)

	lateOpens := map[string]time.Duration{"2024-06-03": time.Hour * 10}
	earlyCloses := map[string]time.Duration{"2024-06-07": time.Hour * 13}
	hours := futuresWeek(t, loc, nil, lateOpens, earlyCloses)

	// Ensure regular session times are open and the maintenance break is not.
	assert.True(t, hours.IsOpenAt(time.Date(2024, 6, 4, 12, 0, 0, 0, loc), false))
	assert.False(t, hours.IsOpenAt(time.Date(2024, 6, 4, 17, 30, 0, 0, loc), false))
	assert.True(t, hours.IsOpenAt(time.Date(2024, 6, 4, 19, 0, 0, 0, loc), false))

	// Ensure late opens and early closes override the weekly schedule.
	assert.False(t, hours.IsOpenAt(time.Date(2024, 6, 3, 9, 0, 0, 0, loc), false))
	assert.True(t, hours.IsOpenAt(time.Date(2024, 6, 3, 12, 0, 0, 0, loc), false))
	assert.False(t, hours.IsOpenAt(time.Date(2024, 6, 7, 14, 0, 0, 0, loc), false))
	assert.True(t, hours.IsOpenAt(time.Date(2024, 6, 7, 12, 0, 0, 0, loc), false))

	// Ensure interval queries spanning multiple days detect open periods.
	assert.True(t, hours.IsOpenBetween(time.Date(2024, 6, 8, 0, 0, 0, 0, loc),
		time.Date(2024, 6, 9, 20, 0, 0, 0, loc), false))
	assert.False(t, hours.IsOpenBetween(time.Date(2024, 6, 8, 0, 0, 0, 0, loc),
		time.Date(2024, 6, 9, 17, 0, 0, 0, loc), false))
}

func TestExchangeHoursNextMarketOpen(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)

	hours := futuresWeek(t, loc, nil, nil, nil)

	// Ensure the weekend gap resolves to the sunday evening open.
	open, ok := hours.NextMarketOpen(time.Date(2024, 6, 7, 16, 0, 0, 0, loc), false)
	assert.True(t, ok)
	assert.Equal(t, open, time.Date(2024, 6, 9, 18, 0, 0, 0, loc))

	// Ensure the session spanning midnight reports no open at the day
	// boundary, only at the end of the maintenance break.
	open, ok = hours.NextMarketOpen(time.Date(2024, 6, 4, 12, 0, 0, 0, loc), false)
	assert.True(t, ok)
	assert.Equal(t, open, time.Date(2024, 6, 4, 18, 0, 0, 0, loc))

	// Ensure an always open market has no next open.
	_, ok = AlwaysOpen(loc).NextMarketOpen(time.Date(2024, 6, 4, 12, 0, 0, 0, loc), false)
	assert.False(t, ok)
}

func TestExchangeHoursNextMarketOpenOnBoundary(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)

	monday, err := NewDailySchedule(time.Monday,
		mustSegment(t, Market, time.Hour*9+time.Minute*30, time.Hour*12),
		mustSegment(t, Market, time.Hour*13, time.Hour*16))
	assert.NoError(t, err)

	hours, err := NewExchangeHours(&ExchangeHoursConfig{
		Location:  loc,
		Schedules: []*DailySchedule{monday},
	})
	assert.NoError(t, err)

	// Ensure a query exactly on an open boundary resolves to the next open
	// on the same day, not the following week.
	open, ok := hours.NextMarketOpen(time.Date(2024, 6, 3, 9, 30, 0, 0, loc), false)
	assert.True(t, ok)
	assert.Equal(t, open, time.Date(2024, 6, 3, 13, 0, 0, 0, loc))

	// Ensure a query on the day's last open boundary rolls to the next week.
	open, ok = hours.NextMarketOpen(time.Date(2024, 6, 3, 13, 0, 0, 0, loc), false)
	assert.True(t, ok)
	assert.Equal(t, open, time.Date(2024, 6, 10, 9, 30, 0, 0, loc))
}

func TestExchangeHoursNextBoundariesDaylightSaving(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)

	hours := futuresWeek(t, loc, nil, nil, nil)

	// Ensure the open on the spring forward transition date stays on the
	// wall clock.
	open, ok := hours.NextMarketOpen(time.Date(2025, 3, 9, 12, 0, 0, 0, loc), false)
	assert.True(t, ok)
	assert.Equal(t, open, time.Date(2025, 3, 9, 18, 0, 0, 0, loc))

	// Ensure the fall back transition date behaves the same.
	open, ok = hours.NextMarketOpen(time.Date(2025, 11, 2, 12, 0, 0, 0, loc), false)
	assert.True(t, ok)
	assert.Equal(t, open, time.Date(2025, 11, 2, 18, 0, 0, 0, loc))

	// Ensure closes anchor on the wall clock across the transition as well.
	close, ok := hours.NextMarketClose(time.Date(2025, 3, 9, 19, 0, 0, 0, loc), false)
	assert.True(t, ok)
	assert.Equal(t, close, time.Date(2025, 3, 10, 17, 0, 0, 0, loc))
}

func TestExchangeHoursNextMarketClose(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)

	earlyCloses := map[string]time.Duration{"2024-06-07": time.Hour * 13}
	hours := futuresWeek(t, loc, nil, nil, earlyCloses)

	// Ensure the maintenance break close is reported.
	close, ok := hours.NextMarketClose(time.Date(2024, 6, 4, 12, 0, 0, 0, loc), false)
	assert.True(t, ok)
	assert.Equal(t, close, time.Date(2024, 6, 4, 17, 0, 0, 0, loc))

	// Ensure the evening session's close lands on the following day's break,
	// not at midnight.
	close, ok = hours.NextMarketClose(time.Date(2024, 6, 4, 19, 0, 0, 0, loc), false)
	assert.True(t, ok)
	assert.Equal(t, close, time.Date(2024, 6, 5, 17, 0, 0, 0, loc))

	// Ensure early closes shorten the day.
	close, ok = hours.NextMarketClose(time.Date(2024, 6, 7, 10, 0, 0, 0, loc), false)
	assert.True(t, ok)
	assert.Equal(t, close, time.Date(2024, 6, 7, 13, 0, 0, 0, loc))

	// Ensure an always open market has no next close.
	_, ok = AlwaysOpen(loc).NextMarketClose(time.Date(2024, 6, 4, 12, 0, 0, 0, loc), false)
	assert.False(t, ok)
}
