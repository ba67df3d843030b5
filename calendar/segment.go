package calendar

import (
	"fmt"
	"time"

	"github.com/dnldd/roll/shared"
)

// MarketHoursState represents the trading state of a session segment.
type MarketHoursState int

const (
	Closed MarketHoursState = iota
	PreMarket
	Market
	PostMarket
)

// String stringifies the provided market hours state.
func (s MarketHoursState) String() string {
	switch s {
	case Closed:
		return "closed"
	case PreMarket:
		return "premarket"
	case Market:
		return "market"
	case PostMarket:
		return "postmarket"
	default:
		return "unknown"
	}
}

// ParseMarketHoursState parses a market hours state from its string form.
func ParseMarketHoursState(state string) (MarketHoursState, error) {
	switch state {
	case "closed":
		return Closed, nil
	case "premarket":
		return PreMarket, nil
	case "market":
		return Market, nil
	case "postmarket":
		return PostMarket, nil
	default:
		return Closed, fmt.Errorf("unknown market hours state: %s", state)
	}
}

// Segment represents one contiguous clock-time interval of a trading day
// tagged with a trading state. Segments are immutable once constructed.
type Segment struct {
	// Start is the segment start as an offset from midnight.
	Start time.Duration
	// End is the segment end as an offset from midnight, the end of day
	// boundary being a full day.
	End time.Duration
	// State is the trading state of the segment.
	State MarketHoursState
}

// NewSegment initializes a new session segment.
func NewSegment(state MarketHoursState, start time.Duration, end time.Duration) (Segment, error) {
	if start < 0 || start >= shared.Day {
		return Segment{}, fmt.Errorf("segment start %v out of day bounds", start)
	}
	if end > shared.Day {
		return Segment{}, fmt.Errorf("segment end %v exceeds the day boundary", end)
	}
	if start >= end {
		return Segment{}, fmt.Errorf("segment start %v must precede its end %v", start, end)
	}

	return Segment{State: state, Start: start, End: end}, nil
}

// Contains checks whether the provided time of day falls within the segment.
func (s Segment) Contains(timeOfDay time.Duration) bool {
	return timeOfDay >= s.Start && timeOfDay < s.End
}

// Overlaps checks whether the segment overlaps the interval [start, end).
func (s Segment) Overlaps(start time.Duration, end time.Duration) bool {
	return s.Start < end && start < s.End
}

// Duration returns the span of the segment.
func (s Segment) Duration() time.Duration {
	return s.End - s.Start
}

// String stringifies the provided segment.
func (s Segment) String() string {
	return fmt.Sprintf("%s: %v-%v", s.State.String(), s.Start, s.End)
}
