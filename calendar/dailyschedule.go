package calendar

import (
	"fmt"
	"time"

	"github.com/dnldd/roll/shared"
)

// Boundary is an optional time-of-day mark used to carry segment edges into
// open and close queries, possibly across day boundaries.
type Boundary struct {
	// Offset is the boundary's offset from midnight.
	Offset time.Duration
	// Valid indicates whether the boundary is set.
	Valid bool
}

// At creates a set boundary at the provided offset from midnight.
func At(offset time.Duration) Boundary {
	return Boundary{Offset: offset, Valid: true}
}

// DailySchedule represents the session segments of one weekday. It is
// immutable once constructed and safe for unrestricted concurrent reads.
type DailySchedule struct {
	day            time.Weekday
	segments       []Segment
	closedAllDay   bool
	openAllDay     bool
	marketDuration time.Duration
}

// NewDailySchedule initializes the schedule for the provided weekday. Closed
// segments are discarded, absence of coverage for an interval means closed.
// The retained segments must be sorted ascending by start and pairwise
// non-overlapping, malformed input is a configuration error.
func NewDailySchedule(day time.Weekday, segments ...Segment) (*DailySchedule, error) {
	retained := make([]Segment, 0, len(segments))
	var marketDuration time.Duration
	for idx := range segments {
		segment := segments[idx]
		if segment.State == Closed {
			continue
		}

		if len(retained) > 0 {
			prev := retained[len(retained)-1]
			if segment.Start < prev.Start {
				return nil, fmt.Errorf("%s schedule segments not sorted: %s precedes %s",
					day.String(), segment.String(), prev.String())
			}
			if segment.Start < prev.End {
				return nil, fmt.Errorf("%s schedule segments overlap: %s and %s",
					day.String(), prev.String(), segment.String())
			}
		}

		if segment.State == Market {
			marketDuration += segment.Duration()
		}

		retained = append(retained, segment)
	}

	schedule := &DailySchedule{
		day:            day,
		segments:       retained,
		closedAllDay:   len(retained) == 0,
		marketDuration: marketDuration,
	}
	schedule.openAllDay = len(retained) == 1 && retained[0].State == Market &&
		retained[0].Start == 0 && retained[0].End == shared.Day

	return schedule, nil
}

// NewDailyScheduleFromHours initializes a schedule with a premarket, market
// and postmarket segment derived from the provided clock offsets. Zero-width
// extended hours segments are omitted, inverted offsets are a configuration
// error.
func NewDailyScheduleFromHours(day time.Weekday, preOpen, open, close, postClose time.Duration) (*DailySchedule, error) {
	if preOpen > open {
		return nil, fmt.Errorf("premarket open %v after market open %v", preOpen, open)
	}
	if postClose < close {
		return nil, fmt.Errorf("postmarket close %v before market close %v", postClose, close)
	}

	segments := make([]Segment, 0, 3)

	if preOpen < open {
		segment, err := NewSegment(PreMarket, preOpen, open)
		if err != nil {
			return nil, fmt.Errorf("creating premarket segment: %w", err)
		}
		segments = append(segments, segment)
	}

	segment, err := NewSegment(Market, open, close)
	if err != nil {
		return nil, fmt.Errorf("creating market segment: %w", err)
	}
	segments = append(segments, segment)

	if close < postClose {
		segment, err := NewSegment(PostMarket, close, postClose)
		if err != nil {
			return nil, fmt.Errorf("creating postmarket segment: %w", err)
		}
		segments = append(segments, segment)
	}

	return NewDailySchedule(day, segments...)
}

// ClosedAllDay creates a schedule with no open segments for the provided weekday.
func ClosedAllDay(day time.Weekday) *DailySchedule {
	return &DailySchedule{day: day, closedAllDay: true}
}

// OpenAllDay creates a schedule with a single market segment spanning the full
// day for the provided weekday.
func OpenAllDay(day time.Weekday) *DailySchedule {
	return &DailySchedule{
		day:            day,
		segments:       []Segment{{State: Market, Start: 0, End: shared.Day}},
		openAllDay:     true,
		marketDuration: shared.Day,
	}
}

// Day returns the weekday the schedule covers.
func (s *DailySchedule) Day() time.Weekday {
	return s.day
}

// Segments returns the retained session segments of the schedule.
func (s *DailySchedule) Segments() []Segment {
	return s.segments
}

// IsClosedAllDay checks whether the schedule has no open segments.
func (s *DailySchedule) IsClosedAllDay() bool {
	return s.closedAllDay
}

// IsOpenAllDay checks whether the schedule is one market segment spanning the
// full day.
func (s *DailySchedule) IsOpenAllDay() bool {
	return s.openAllDay
}

// MarketDuration returns the summed span of the schedule's market segments.
func (s *DailySchedule) MarketDuration() time.Duration {
	return s.marketDuration
}

// LastSegmentEnd returns the end of the schedule's last retained segment.
func (s *DailySchedule) LastSegmentEnd() Boundary {
	if len(s.segments) == 0 {
		return Boundary{}
	}

	return At(s.segments[len(s.segments)-1].End)
}

// FirstSegmentStart returns the start of the schedule's first retained segment.
func (s *DailySchedule) FirstSegmentStart() Boundary {
	if len(s.segments) == 0 {
		return Boundary{}
	}

	return At(s.segments[0].Start)
}

// eligible checks whether the provided segment counts as open for a query.
func eligible(segment Segment, extendedHours bool) bool {
	return segment.State == Market ||
		(extendedHours && (segment.State == PreMarket || segment.State == PostMarket))
}

// isContinuous checks whether two adjacent segment boundaries represent one
// uninterrupted open period. A boundary carried over from the previous day is
// only continuous across midnight. Absence of either boundary is a real gap.
func isContinuous(prevEnd Boundary, prevFromPreviousDay bool, nextStart Boundary) bool {
	if !prevEnd.Valid || !nextStart.Valid {
		return false
	}

	if prevFromPreviousDay {
		return prevEnd.Offset == shared.Day && nextStart.Offset == 0
	}

	return prevEnd.Offset == nextStart.Offset
}

// MarketOpen returns the next market open boundary at or after the provided
// time of day, skipping boundaries that are continuous with a preceding open
// period. The previous day's last segment end may be supplied so sessions
// spanning midnight do not report a spurious open at the day boundary. The
// boolean indicates whether an open boundary remains.
func (s *DailySchedule) MarketOpen(timeOfDay time.Duration, extendedHours bool, previousDayLastSegmentEnd Boundary) (time.Duration, bool) {
	prevEnd := previousDayLastSegmentEnd
	prevFromPreviousDay := prevEnd.Valid

	for idx := range s.segments {
		segment := s.segments[idx]
		if !eligible(segment, extendedHours) {
			continue
		}

		if segment.End > timeOfDay {
			if !isContinuous(prevEnd, prevFromPreviousDay, At(segment.Start)) {
				return segment.Start, true
			}
		}

		prevEnd = At(segment.End)
		prevFromPreviousDay = false
	}

	return 0, false
}

// MarketClose returns the next market close boundary after the provided time
// of day, skipping boundaries that are continuous with the following open
// period. The next day's first segment start may be supplied so sessions
// spanning midnight do not report a spurious close at the day boundary. The
// boolean indicates whether a close boundary remains.
func (s *DailySchedule) MarketClose(timeOfDay time.Duration, extendedHours bool, nextDayFirstSegmentStart Boundary) (time.Duration, bool) {
	for idx := range s.segments {
		segment := s.segments[idx]
		if !eligible(segment, extendedHours) || segment.End <= timeOfDay {
			continue
		}

		nextStart := Boundary{}
		for next := idx + 1; next < len(s.segments); next++ {
			if eligible(s.segments[next], extendedHours) {
				nextStart = At(s.segments[next].Start)
				break
			}
		}
		if !nextStart.Valid && nextDayFirstSegmentStart.Valid {
			// Normalize the next day boundary so continuity across midnight
			// reduces to equality at the day span.
			nextStart = At(shared.Day + nextDayFirstSegmentStart.Offset)
		}

		if !isContinuous(At(segment.End), false, nextStart) {
			return segment.End, true
		}
	}

	return 0, false
}

// IsOpenAt checks whether the schedule is open at the provided time of day.
func (s *DailySchedule) IsOpenAt(timeOfDay time.Duration, extendedHours bool) bool {
	for idx := range s.segments {
		if s.segments[idx].Contains(timeOfDay) {
			return eligible(s.segments[idx], extendedHours)
		}
	}

	return false
}

// IsOpenBetween checks whether the schedule is open at any point in the
// interval [start, end).
func (s *DailySchedule) IsOpenBetween(start, end time.Duration, extendedHours bool) bool {
	if start == end {
		return s.IsOpenAt(start, extendedHours)
	}

	for idx := range s.segments {
		if eligible(s.segments[idx], extendedHours) && s.segments[idx].Overlaps(start, end) {
			return true
		}
	}

	return false
}

// String stringifies the provided schedule.
func (s *DailySchedule) String() string {
	switch {
	case s.closedAllDay:
		return fmt.Sprintf("%s: closed all day", s.day.String())
	case s.openAllDay:
		return fmt.Sprintf("%s: open all day", s.day.String())
	default:
		return fmt.Sprintf("%s: %v", s.day.String(), s.segments)
	}
}
