package calendar

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dnldd/roll/shared"
	"github.com/tidwall/gjson"
)

// weekdays maps market hours database keys to weekdays.
var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// loadMarketHoursData loads the market hours database bytes from the provided
// file path.
func loadMarketHoursData(filepath string) (*gjson.Result, error) {
	readb, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading market hours data from file with path '%s': %v", filepath, err)
	}

	b := gjson.ParseBytes(readb)

	return &b, nil
}

// parseSegments parses the session segments for one weekday entry.
func parseSegments(day time.Weekday, data []gjson.Result) ([]Segment, error) {
	segments := make([]Segment, 0, len(data))
	for idx := range data {
		state, err := ParseMarketHoursState(data[idx].Get("state").String())
		if err != nil {
			return nil, fmt.Errorf("parsing %s segment state: %w", day.String(), err)
		}

		start, err := shared.ParseClockTime(data[idx].Get("start").String())
		if err != nil {
			return nil, fmt.Errorf("parsing %s segment start: %w", day.String(), err)
		}

		end, err := shared.ParseClockTime(data[idx].Get("end").String())
		if err != nil {
			return nil, fmt.Errorf("parsing %s segment end: %w", day.String(), err)
		}

		segment, err := NewSegment(state, start, end)
		if err != nil {
			return nil, fmt.Errorf("creating %s segment: %w", day.String(), err)
		}

		segments = append(segments, segment)
	}

	return segments, nil
}

// parseDateOffsets parses a date keyed clock offset collection, used for late
// opens and early closes.
func parseDateOffsets(data map[string]gjson.Result) (map[string]time.Duration, error) {
	offsets := make(map[string]time.Duration, len(data))
	for date, clock := range data {
		_, err := time.Parse(shared.DateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parsing offset date %s: %w", date, err)
		}

		offset, err := shared.ParseClockTime(clock.String())
		if err != nil {
			return nil, fmt.Errorf("parsing offset clock time for %s: %w", date, err)
		}

		offsets[date] = offset
	}

	return offsets, nil
}

// LoadExchangeHours loads the trading calendar for the provided market from a
// market hours database file.
func LoadExchangeHours(filepath string, market string) (*ExchangeHours, error) {
	b, err := loadMarketHoursData(filepath)
	if err != nil {
		return nil, fmt.Errorf("loading market hours data: %v", err)
	}

	entry := b.Get(fmt.Sprintf("markets.%s", strings.ToLower(market)))
	if !entry.Exists() {
		return nil, fmt.Errorf("no market hours entry found for market %s", market)
	}

	loc, err := time.LoadLocation(b.Get("timezone").String())
	if err != nil {
		return nil, fmt.Errorf("loading market hours timezone: %w", err)
	}

	schedules := make([]*DailySchedule, 0, len(weekdays))
	for key, day := range weekdays {
		data := entry.Get(fmt.Sprintf("sessions.%s", key)).Array()
		if len(data) == 0 {
			continue
		}

		segments, err := parseSegments(day, data)
		if err != nil {
			return nil, err
		}

		schedule, err := NewDailySchedule(day, segments...)
		if err != nil {
			return nil, fmt.Errorf("creating %s schedule: %w", day.String(), err)
		}

		schedules = append(schedules, schedule)
	}

	holidays := make([]time.Time, 0)
	for _, date := range entry.Get("holidays").Array() {
		holiday, err := time.ParseInLocation(shared.DateLayout, date.String(), loc)
		if err != nil {
			return nil, fmt.Errorf("parsing holiday date: %w", err)
		}

		holidays = append(holidays, holiday)
	}

	lateOpens, err := parseDateOffsets(entry.Get("lateOpens").Map())
	if err != nil {
		return nil, fmt.Errorf("parsing late opens: %w", err)
	}

	earlyCloses, err := parseDateOffsets(entry.Get("earlyCloses").Map())
	if err != nil {
		return nil, fmt.Errorf("parsing early closes: %w", err)
	}

	return NewExchangeHours(&ExchangeHoursConfig{
		Location:    loc,
		Schedules:   schedules,
		Holidays:    holidays,
		LateOpens:   lateOpens,
		EarlyCloses: earlyCloses,
	})
}
