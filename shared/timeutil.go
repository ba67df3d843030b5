package shared

import (
	"fmt"
	"strings"
	"time"
)

const (
	// ClockTimeLayout is the format layout for parsing clock times in a day.
	ClockTimeLayout = "15:04"
	// DateLayout is the format layout for parsing dates.
	DateLayout = "2006-01-02"

	// Day is the span of one full calendar day.
	Day = time.Hour * 24

	// EndOfDayClockTime denotes the end of day boundary in clock time.
	EndOfDayClockTime = "24:00"
)

// ParseClockTime parses a clock time of the form 15:04 into an offset from
// midnight. The end of day boundary 24:00 is accepted.
func ParseClockTime(clock string) (time.Duration, error) {
	if strings.TrimSpace(clock) == EndOfDayClockTime {
		return Day, nil
	}

	t, err := time.Parse(ClockTimeLayout, clock)
	if err != nil {
		return 0, fmt.Errorf("parsing clock time: %w", err)
	}

	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// TimeOfDay returns the provided time's offset from its local midnight.
func TimeOfDay(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
}

// Midnight truncates the provided time to the start of its local day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
