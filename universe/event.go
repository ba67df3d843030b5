package universe

import (
	"time"

	"github.com/google/uuid"
)

// RollEvent represents one contract roll of a continuous contract universe.
type RollEvent struct {
	// ID uniquely identifies the roll event.
	ID string
	// Canonical is the canonical symbol of the rolled universe.
	Canonical string
	// OldTicker is the retired contract ticker, empty on the initial mapping.
	OldTicker string
	// NewTicker is the newly mapped contract ticker.
	NewTicker string
	// OccurredOn is the trigger time the roll occurred at.
	OccurredOn time.Time
	// CreatedOn is the event creation time.
	CreatedOn time.Time
}

// NewRollEvent initializes a new roll event.
func NewRollEvent(canonical string, oldTicker string, newTicker string, occurredOn time.Time) *RollEvent {
	return &RollEvent{
		ID:         uuid.New().String(),
		Canonical:  canonical,
		OldTicker:  oldTicker,
		NewTicker:  newTicker,
		OccurredOn: occurredOn,
		CreatedOn:  time.Now().UTC(),
	}
}
