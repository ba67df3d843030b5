package shared

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/atomic"
)

// Security represents a tracked security and its exchange locale. The mapped
// symbol field is the externally observable record of the contract currently
// underlying the security's canonical symbol, it is read by other subsystems
// (eg. order routing) without consulting the roll selector.
type Security struct {
	// Symbol is the security's symbol.
	Symbol Symbol
	// ExchangeTimeZone is the time zone of the exchange the security trades on.
	ExchangeTimeZone *time.Location

	mappedSymbol atomic.Value
}

// NewSecurity initializes a new security.
func NewSecurity(symbol Symbol, exchangeTimeZone *time.Location) (*Security, error) {
	if symbol.Ticker == "" {
		return nil, errors.New("security symbol ticker cannot be an empty string")
	}
	if exchangeTimeZone == nil {
		return nil, errors.New("security exchange time zone cannot be nil")
	}

	return &Security{
		Symbol:           symbol,
		ExchangeTimeZone: exchangeTimeZone,
	}, nil
}

// SetMappedSymbol records the provided symbol as the currently mapped
// underlying contract of the security.
func (s *Security) SetMappedSymbol(symbol Symbol) {
	s.mappedSymbol.Store(symbol)
}

// MappedSymbol returns the currently mapped underlying contract of the
// security, the boolean indicates whether a mapping has been recorded.
func (s *Security) MappedSymbol() (Symbol, bool) {
	v := s.mappedSymbol.Load()
	if v == nil {
		return Symbol{}, false
	}

	return v.(Symbol), true
}

// LocalTime converts the provided time to the security's exchange time zone.
func (s *Security) LocalTime(t time.Time) time.Time {
	return t.In(s.ExchangeTimeZone)
}

// MarketTime returns the current time in the provided locale.
func MarketTime(locality string) (time.Time, *time.Location, error) {
	loc, err := time.LoadLocation(locality)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("loading %s timezone: %w", locality, err)
	}

	now := time.Now().In(loc)
	return now, loc, nil
}
