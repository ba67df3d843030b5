package universe

import (
	"github.com/dnldd/roll/shared"
)

// SubscriptionRequest represents the requested properties of a universe's
// data subscriptions.
type SubscriptionRequest struct {
	// Resolution is the market data resolution.
	Resolution shared.Resolution
	// FillForward indicates whether missing bars are filled forward.
	FillForward bool
	// ExtendedHours indicates whether extended market hours data is included.
	ExtendedHours bool
	// Normalization is the price normalization mode.
	Normalization shared.DataNormalizationMode
	// DataTypes are the requested market data kinds, defaulting to trades.
	DataTypes []shared.TickType
	// MappingMode is the contract mapping trigger mode.
	MappingMode shared.DataMappingMode
	// ContractOffset is the continuous contract depth offset.
	ContractOffset int
	// Internal flags subscriptions used by the platform itself rather than
	// an algorithm.
	Internal bool
}

// SubscriptionConfig represents one configured data subscription for a symbol.
type SubscriptionConfig struct {
	// Symbol is the subscribed symbol.
	Symbol shared.Symbol
	// TickType is the kind of market data carried by the subscription.
	TickType shared.TickType
	// Resolution is the market data resolution.
	Resolution shared.Resolution
	// FillForward indicates whether missing bars are filled forward.
	FillForward bool
	// ExtendedHours indicates whether extended market hours data is included.
	ExtendedHours bool
	// Normalization is the price normalization mode.
	Normalization shared.DataNormalizationMode
	// MappingMode is the contract mapping trigger mode.
	MappingMode shared.DataMappingMode
	// ContractOffset is the continuous contract depth offset.
	ContractOffset int
	// Internal flags subscriptions used by the platform itself.
	Internal bool
}

// CreateSubscriptions expands the provided symbol and request into one
// subscription config per requested data type.
func CreateSubscriptions(symbol shared.Symbol, req SubscriptionRequest) []SubscriptionConfig {
	dataTypes := req.DataTypes
	if len(dataTypes) == 0 {
		dataTypes = []shared.TickType{shared.TradeTick}
	}

	configs := make([]SubscriptionConfig, 0, len(dataTypes))
	for idx := range dataTypes {
		configs = append(configs, SubscriptionConfig{
			Symbol:         symbol,
			TickType:       dataTypes[idx],
			Resolution:     req.Resolution,
			FillForward:    req.FillForward,
			ExtendedHours:  req.ExtendedHours,
			Normalization:  req.Normalization,
			MappingMode:    req.MappingMode,
			ContractOffset: req.ContractOffset,
			Internal:       req.Internal,
		})
	}

	return configs
}
