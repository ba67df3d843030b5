package universe

import (
	"time"

	"github.com/dnldd/roll/calendar"
)

const (
	// liveAuxiliaryDataOffset delays live trigger times past midnight so
	// reference data for the new date settles before selection runs.
	liveAuxiliaryDataOffset = time.Hour * 8
)

// TriggerSchedule produces the instants at which the roll selection of a
// universe must be re-evaluated. It holds no mutable state, trigger sequences
// are a pure function of the inputs and the exchange calendar.
type TriggerSchedule struct {
	hours *calendar.ExchangeHours
	live  bool
}

// NewTriggerSchedule initializes a trigger schedule from the provided exchange
// calendar and live mode flag.
func NewTriggerSchedule(hours *calendar.ExchangeHours, live bool) *TriggerSchedule {
	return &TriggerSchedule{
		hours: hours,
		live:  live,
	}
}

// TriggerTimes returns the local trigger instants for the provided utc range,
// one per tradable date, in ascending order. In live mode the start date is
// dropped since the initial selection at startup already covers it, and every
// kept date is shifted by the live auxiliary data offset. In backtest mode all
// dates are kept unshifted, historical reference data is assumed available.
func (s *TriggerSchedule) TriggerTimes(startUtc, endUtc time.Time) []time.Time {
	loc := s.hours.Location()
	localStart := startUtc.In(loc)
	localEnd := endUtc.In(loc)

	dates := s.hours.TradableDates(localStart, localEnd)
	if !s.live {
		return dates
	}

	times := make([]time.Time, 0, len(dates))
	for idx := range dates {
		date := dates[idx]
		if date.Before(localStart) || date.Equal(localStart) {
			continue
		}

		// Anchor the offset on the wall clock so triggers on daylight saving
		// transition dates still fire at the intended local time.
		times = append(times, time.Date(date.Year(), date.Month(), date.Day(), 0, 0,
			int(liveAuxiliaryDataOffset/time.Second), 0, date.Location()))
	}

	return times
}
