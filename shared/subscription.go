package shared

// Resolution represents the market data resolution of a subscription.
type Resolution int

const (
	TickResolution Resolution = iota
	SecondResolution
	MinuteResolution
	HourResolution
	DailyResolution
)

// String stringifies the provided resolution.
func (r Resolution) String() string {
	switch r {
	case TickResolution:
		return "tick"
	case SecondResolution:
		return "second"
	case MinuteResolution:
		return "minute"
	case HourResolution:
		return "hour"
	case DailyResolution:
		return "daily"
	default:
		return "unknown"
	}
}

// TickType represents the kind of market data carried by a subscription.
type TickType int

const (
	TradeTick TickType = iota
	QuoteTick
	OpenInterestTick
)

// String stringifies the provided tick type.
func (t TickType) String() string {
	switch t {
	case TradeTick:
		return "trade"
	case QuoteTick:
		return "quote"
	case OpenInterestTick:
		return "openinterest"
	default:
		return "unknown"
	}
}

// DataNormalizationMode defines how raw prices are adjusted for a subscription.
type DataNormalizationMode int

const (
	RawNormalization DataNormalizationMode = iota
	AdjustedNormalization
	BackwardsRatioNormalization
	BackwardsPanamaCanalNormalization
	ForwardPanamaCanalNormalization
)

// String stringifies the provided data normalization mode.
func (m DataNormalizationMode) String() string {
	switch m {
	case RawNormalization:
		return "raw"
	case AdjustedNormalization:
		return "adjusted"
	case BackwardsRatioNormalization:
		return "backwardsratio"
	case BackwardsPanamaCanalNormalization:
		return "backwardspanamacanal"
	case ForwardPanamaCanalNormalization:
		return "forwardpanamacanal"
	default:
		return "unknown"
	}
}

// DataMappingMode defines the contract mapping trigger used by a continuous
// contract subscription.
type DataMappingMode int

const (
	LastTradingDayMapping DataMappingMode = iota
	FirstDayMonthMapping
	OpenInterestMapping
)

// String stringifies the provided data mapping mode.
func (m DataMappingMode) String() string {
	switch m {
	case LastTradingDayMapping:
		return "lasttradingday"
	case FirstDayMonthMapping:
		return "firstdaymonth"
	case OpenInterestMapping:
		return "openinterest"
	default:
		return "unknown"
	}
}
