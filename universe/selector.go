package universe

import (
	"errors"
	"fmt"
	"time"

	"github.com/dnldd/roll/shared"
	"github.com/rs/zerolog"
)

// MappingResolver defines the requirements for resolving the contract mapped
// to a canonical symbol on a given date.
type MappingResolver interface {
	// ResolveMapping returns the ticker of the contract underlying the
	// provided canonical symbol as of the provided local date. An empty
	// ticker means no mapping is available for the date.
	ResolveMapping(canonical shared.Symbol, asOf time.Time) (string, error)
}

// SelectorConfig represents the roll selector configuration.
type SelectorConfig struct {
	// Security is the continuous contract security the selector rolls.
	Security *shared.Security
	// Resolver resolves contract mappings for the security.
	Resolver MappingResolver
	// ContractOffset is the contract depth offset of the universe, zero
	// being the front contract.
	ContractOffset int
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config has sane inputs.
func (cfg *SelectorConfig) Validate() error {
	var errs error

	if cfg.Security == nil {
		errs = errors.Join(errs, fmt.Errorf("selector security cannot be nil"))
	}
	if cfg.Resolver == nil {
		errs = errors.Join(errs, fmt.Errorf("selector mapping resolver cannot be nil"))
	}
	if cfg.ContractOffset < 0 {
		errs = errors.Join(errs, fmt.Errorf("selector contract offset cannot be negative"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("selector logger cannot be nil"))
	}

	return errs
}

// CreateSymbol derives the canonical continuous contract symbol for the
// provided base symbol. The derivation is deterministic and distinguishable
// from ordinary tradable symbols by the canonical prefix.
func CreateSymbol(base shared.Symbol) shared.Symbol {
	return shared.NewCanonicalSymbol(base.Ticker, base.Market, base.SecurityType)
}

// Selector is the per-universe continuous contract roll state machine. It is
// not safe for concurrent use, the owning scheduler must invoke Select
// sequentially with non-decreasing trigger times.
type Selector struct {
	cfg               *SelectorConfig
	canonical         shared.Symbol
	currentUnderlying *shared.Symbol
	lastMappedTicker  string
}

// NewSelector initializes a new roll selector for the provided security.
func NewSelector(cfg *SelectorConfig) (*Selector, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating selector config: %w", err)
	}

	canonical := cfg.Security.Symbol
	if !canonical.Canonical {
		canonical = CreateSymbol(canonical)
	}
	canonical.ContractOffset = cfg.ContractOffset

	return &Selector{
		cfg:       cfg,
		canonical: canonical,
	}, nil
}

// Canonical returns the canonical symbol of the selector's universe.
func (s *Selector) Canonical() shared.Symbol {
	return s.canonical
}

// CurrentUnderlying returns the contract currently underlying the canonical
// symbol, the boolean indicates whether a mapping has occurred yet.
func (s *Selector) CurrentUnderlying() (shared.Symbol, bool) {
	if s.currentUnderlying == nil {
		return shared.Symbol{}, false
	}

	return *s.currentUnderlying, true
}

// Select returns the symbols that should be actively subscribed as of the
// provided trigger time, rolling the underlying contract forward at mapping
// boundaries. The canonical symbol always leads the returned set. On a roll
// the outgoing contract is yielded exactly once, on the transition date,
// before the incoming contract. An unresolved mapping leaves prior state
// untouched.
func (s *Selector) Select(utcTime time.Time) ([]shared.Symbol, error) {
	symbols := make([]shared.Symbol, 0, 3)
	symbols = append(symbols, s.canonical)

	localDate := utcTime.In(s.cfg.Security.ExchangeTimeZone)
	ticker, err := s.cfg.Resolver.ResolveMapping(s.canonical, localDate)
	if err != nil {
		return nil, fmt.Errorf("resolving mapping for %s: %w", s.canonical.String(), err)
	}

	if ticker != "" && ticker != s.lastMappedTicker {
		if s.currentUnderlying != nil {
			// Yield the outgoing contract one final time so the caller can
			// unwind its subscription on the transition date.
			symbols = append(symbols, *s.currentUnderlying)

			s.cfg.Logger.Info().Msgf("rolling %s from %s to %s on %s", s.canonical.String(),
				s.currentUnderlying.Ticker, ticker, localDate.Format(shared.DateLayout))
		}

		s.lastMappedTicker = ticker
		underlying := s.canonical.WithUnderlying(ticker, s.cfg.ContractOffset)
		s.currentUnderlying = &underlying
	}

	if s.currentUnderlying != nil {
		symbols = append(symbols, *s.currentUnderlying)
		s.cfg.Security.SetMappedSymbol(*s.currentUnderlying)
	}

	return symbols, nil
}
