package shared

import (
	"fmt"
	"strings"
)

const (
	// CanonicalPrefix marks canonical continuous contract tickers.
	CanonicalPrefix = "/"
)

// SecurityType represents the type of a tradable security.
type SecurityType int

const (
	Future SecurityType = iota
	Index
	Equity
)

// String stringifies the provided security type.
func (t SecurityType) String() string {
	switch t {
	case Future:
		return "future"
	case Index:
		return "index"
	case Equity:
		return "equity"
	default:
		return "unknown"
	}
}

// Symbol identifies a security on a market. A canonical symbol represents the
// continuous contract of a futures universe, independent of whichever contract
// currently underlies it.
type Symbol struct {
	// Ticker is the symbol ticker, eg. ESZ25 for a contract or /ES for a canonical symbol.
	Ticker string
	// Market is the market the symbol trades on.
	Market string
	// SecurityType is the type of the security.
	SecurityType SecurityType
	// Canonical indicates the symbol represents a continuous contract.
	Canonical bool
	// ContractOffset is the continuous contract depth offset, zero being the front contract.
	ContractOffset int
}

// NewCanonicalSymbol derives the canonical continuous contract symbol for the
// provided base ticker. The derivation is deterministic, repeated calls with
// the same inputs produce the same symbol.
func NewCanonicalSymbol(ticker string, market string, securityType SecurityType) Symbol {
	base := strings.TrimPrefix(strings.ToUpper(ticker), CanonicalPrefix)

	return Symbol{
		Ticker:       CanonicalPrefix + base,
		Market:       market,
		SecurityType: securityType,
		Canonical:    true,
	}
}

// BaseTicker returns the symbol ticker stripped of the canonical prefix.
func (s Symbol) BaseTicker() string {
	return strings.TrimPrefix(s.Ticker, CanonicalPrefix)
}

// WithUnderlying derives the underlying contract symbol for the provided
// mapped ticker and contract depth offset, keeping the canonical symbol's
// market and security type.
func (s Symbol) WithUnderlying(ticker string, offset int) Symbol {
	return Symbol{
		Ticker:         ticker,
		Market:         s.Market,
		SecurityType:   s.SecurityType,
		ContractOffset: offset,
	}
}

// Equal checks whether the provided symbols are identical.
func (s Symbol) Equal(other Symbol) bool {
	return s == other
}

// String stringifies the provided symbol.
func (s Symbol) String() string {
	return fmt.Sprintf("%s:%s", s.Market, s.Ticker)
}
