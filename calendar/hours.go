package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/dnldd/roll/shared"
)

const (
	// boundarySearchLimit caps the day-by-day walk for the next market
	// boundary, long enough to step over any holiday cluster.
	boundarySearchLimit = 30
)

// ExchangeHours represents the weekly trading calendar of an exchange,
// including holidays, late opens and early closes. It is immutable once
// constructed and safe for unrestricted concurrent reads.
type ExchangeHours struct {
	loc         *time.Location
	days        [7]*DailySchedule
	holidays    map[string]struct{}
	lateOpens   map[string]time.Duration
	earlyCloses map[string]time.Duration
}

// ExchangeHoursConfig represents the exchange hours configuration.
type ExchangeHoursConfig struct {
	// Location is the exchange time zone.
	Location *time.Location
	// Schedules are the weekday schedules, missing weekdays are closed all day.
	Schedules []*DailySchedule
	// Holidays are full day market closures.
	Holidays []time.Time
	// LateOpens are per-date delayed open clock offsets.
	LateOpens map[string]time.Duration
	// EarlyCloses are per-date shortened close clock offsets.
	EarlyCloses map[string]time.Duration
}

// Validate asserts the config has sane inputs.
func (cfg *ExchangeHoursConfig) Validate() error {
	var errs error

	if cfg.Location == nil {
		errs = errors.Join(errs, fmt.Errorf("exchange location cannot be nil"))
	}
	seen := make(map[time.Weekday]bool, len(cfg.Schedules))
	for idx := range cfg.Schedules {
		if cfg.Schedules[idx] == nil {
			errs = errors.Join(errs, fmt.Errorf("weekday schedule cannot be nil"))
			continue
		}
		if seen[cfg.Schedules[idx].Day()] {
			errs = errors.Join(errs, fmt.Errorf("duplicate schedule for %s", cfg.Schedules[idx].Day().String()))
		}
		seen[cfg.Schedules[idx].Day()] = true
	}

	return errs
}

// NewExchangeHours initializes the trading calendar of an exchange.
func NewExchangeHours(cfg *ExchangeHoursConfig) (*ExchangeHours, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating exchange hours config: %w", err)
	}

	hours := &ExchangeHours{
		loc:         cfg.Location,
		holidays:    make(map[string]struct{}, len(cfg.Holidays)),
		lateOpens:   make(map[string]time.Duration, len(cfg.LateOpens)),
		earlyCloses: make(map[string]time.Duration, len(cfg.EarlyCloses)),
	}

	for day := time.Sunday; day <= time.Saturday; day++ {
		hours.days[day] = ClosedAllDay(day)
	}
	for idx := range cfg.Schedules {
		hours.days[cfg.Schedules[idx].Day()] = cfg.Schedules[idx]
	}
	for idx := range cfg.Holidays {
		hours.holidays[cfg.Holidays[idx].Format(shared.DateLayout)] = struct{}{}
	}
	for date, offset := range cfg.LateOpens {
		hours.lateOpens[date] = offset
	}
	for date, offset := range cfg.EarlyCloses {
		hours.earlyCloses[date] = offset
	}

	return hours, nil
}

// AlwaysOpen creates a trading calendar open around the clock every day.
func AlwaysOpen(loc *time.Location) *ExchangeHours {
	hours := &ExchangeHours{
		loc:         loc,
		holidays:    make(map[string]struct{}),
		lateOpens:   make(map[string]time.Duration),
		earlyCloses: make(map[string]time.Duration),
	}
	for day := time.Sunday; day <= time.Saturday; day++ {
		hours.days[day] = OpenAllDay(day)
	}

	return hours
}

// Location returns the exchange time zone.
func (h *ExchangeHours) Location() *time.Location {
	return h.loc
}

// Schedule returns the schedule for the provided date, holidays are closed
// all day.
func (h *ExchangeHours) Schedule(date time.Time) *DailySchedule {
	if h.IsHoliday(date) {
		return ClosedAllDay(date.Weekday())
	}

	return h.days[date.Weekday()]
}

// IsHoliday checks whether the provided date is a full day market closure.
func (h *ExchangeHours) IsHoliday(date time.Time) bool {
	_, ok := h.holidays[date.Format(shared.DateLayout)]
	return ok
}

// IsDateOpen checks whether the market trades at any point on the provided date.
func (h *ExchangeHours) IsDateOpen(date time.Time, extendedHours bool) bool {
	schedule := h.Schedule(date)
	if extendedHours {
		return !schedule.IsClosedAllDay()
	}

	return schedule.MarketDuration() > 0
}

// IsOpenAt checks whether the market is open at the provided local time.
func (h *ExchangeHours) IsOpenAt(local time.Time, extendedHours bool) bool {
	timeOfDay := shared.TimeOfDay(local)

	dateKey := local.Format(shared.DateLayout)
	if lateOpen, ok := h.lateOpens[dateKey]; ok && timeOfDay < lateOpen {
		return false
	}
	if earlyClose, ok := h.earlyCloses[dateKey]; ok && timeOfDay >= earlyClose {
		return false
	}

	return h.Schedule(local).IsOpenAt(timeOfDay, extendedHours)
}

// IsOpenBetween checks whether the market is open at any point in the local
// interval [start, end).
func (h *ExchangeHours) IsOpenBetween(start, end time.Time, extendedHours bool) bool {
	if !start.Before(end) {
		return h.IsOpenAt(start, extendedHours)
	}

	for date := shared.Midnight(start); date.Before(end); date = date.AddDate(0, 0, 1) {
		from := time.Duration(0)
		if date.Before(start) {
			from = shared.TimeOfDay(start)
		}
		until := shared.Day
		if nextMidnight := date.AddDate(0, 0, 1); end.Before(nextMidnight) {
			until = shared.TimeOfDay(end)
		}

		if h.Schedule(date).IsOpenBetween(from, until, extendedHours) {
			return true
		}
	}

	return false
}

// clockTime anchors a clock offset from midnight on the provided date. The
// instant is built from clock components so it stays on the wall clock across
// daylight saving shifts, the 24h boundary normalizes to the next midnight.
func clockTime(date time.Time, offset time.Duration) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0,
		int(offset/time.Second), int(offset%time.Second), date.Location())
}

// previousDayLastSegmentEnd returns the carried over boundary for open scans
// on the provided date.
func (h *ExchangeHours) previousDayLastSegmentEnd(date time.Time) Boundary {
	return h.Schedule(date.AddDate(0, 0, -1)).LastSegmentEnd()
}

// nextDayFirstSegmentStart returns the carried over boundary for close scans
// on the provided date.
func (h *ExchangeHours) nextDayFirstSegmentStart(date time.Time) Boundary {
	return h.Schedule(date.AddDate(0, 0, 1)).FirstSegmentStart()
}

// NextMarketOpen returns the next market open strictly after the provided
// local time. The boolean indicates whether an open was found within the
// search window.
func (h *ExchangeHours) NextMarketOpen(local time.Time, extendedHours bool) (time.Time, bool) {
	timeOfDay := shared.TimeOfDay(local)
	for date, idx := shared.Midnight(local), 0; idx < boundarySearchLimit; date, idx = date.AddDate(0, 0, 1), idx+1 {
		ref := time.Duration(0)
		if idx == 0 {
			ref = timeOfDay
		}

		for {
			open, ok := h.Schedule(date).MarketOpen(ref, extendedHours, h.previousDayLastSegmentEnd(date))
			if !ok {
				break
			}
			if lateOpen, exists := h.lateOpens[date.Format(shared.DateLayout)]; exists && lateOpen > open {
				open = lateOpen
			}

			at := clockTime(date, open)
			if at.After(local) {
				return at, true
			}

			// The boundary is not strictly after the query time, resume the
			// scan past the segment carrying it before moving on to the next
			// date.
			resumed := false
			for _, segment := range h.Schedule(date).Segments() {
				if eligible(segment, extendedHours) && segment.End > open && segment.End > ref {
					ref, resumed = segment.End, true
					break
				}
			}
			if !resumed {
				break
			}
		}
	}

	return time.Time{}, false
}

// NextMarketClose returns the next market close strictly after the provided
// local time. The boolean indicates whether a close was found within the
// search window.
func (h *ExchangeHours) NextMarketClose(local time.Time, extendedHours bool) (time.Time, bool) {
	timeOfDay := shared.TimeOfDay(local)
	for date, idx := shared.Midnight(local), 0; idx < boundarySearchLimit; date, idx = date.AddDate(0, 0, 1), idx+1 {
		ref := time.Duration(0)
		if idx == 0 {
			ref = timeOfDay
		}

		close, ok := h.Schedule(date).MarketClose(ref, extendedHours, h.nextDayFirstSegmentStart(date))
		if earlyClose, exists := h.earlyCloses[date.Format(shared.DateLayout)]; exists && (!ok || earlyClose < close) {
			close, ok = earlyClose, true
		}
		if !ok {
			continue
		}

		at := clockTime(date, close)
		if at.After(local) {
			return at, true
		}
	}

	return time.Time{}, false
}

// TradableDates returns every local date in [start, end] the market trades on,
// in ascending order. The returned dates are local midnights.
func (h *ExchangeHours) TradableDates(start, end time.Time) []time.Time {
	dates := make([]time.Time, 0, 8)
	for date := shared.Midnight(start); !date.After(end); date = date.AddDate(0, 0, 1) {
		if h.IsDateOpen(date, false) {
			dates = append(dates, date)
		}
	}

	return dates
}
