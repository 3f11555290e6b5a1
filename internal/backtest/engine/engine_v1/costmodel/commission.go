// Package costmodel provides the pure transaction-cost functions used by the
// backtest executor: commission, market impact, slippage, and liquidity
// feasibility. All configs are immutable values; none of the calculations
// mutate state.
package costmodel

import "math"

type CommissionType string

const (
	// CommissionFixed charges a constant fee per trade.
	CommissionFixed CommissionType = "fixed"
	// CommissionPercentage charges a fraction of the trade value.
	CommissionPercentage CommissionType = "percentage"
	// CommissionPerShare charges per share traded.
	CommissionPerShare CommissionType = "per_share"
	// CommissionTiered selects a rate from value-based tiers.
	CommissionTiered CommissionType = "tiered"
)

var AllCommissionTypes = []any{
	CommissionFixed,
	CommissionPercentage,
	CommissionPerShare,
	CommissionTiered,
}

// CommissionTier is one value threshold and its rate.
type CommissionTier struct {
	// Threshold is the upper trade value bound for this tier, inclusive.
	Threshold float64 `yaml:"threshold" json:"threshold"`
	Rate      float64 `yaml:"rate" json:"rate"`
}

// CommissionConfig describes how broker commission is charged.
type CommissionConfig struct {
	Type CommissionType `yaml:"type" json:"type" jsonschema:"title=Commission Type"`
	// Rate is the primary rate: dollars for fixed, fraction of value for
	// percentage, dollars per share for per-share.
	Rate    float64 `yaml:"rate" json:"rate" jsonschema:"minimum=0"`
	Minimum float64 `yaml:"minimum" json:"minimum" jsonschema:"minimum=0"`
	Maximum float64 `yaml:"maximum" json:"maximum"`
	// Tiers apply when Type is CommissionTiered, ordered by ascending threshold.
	Tiers []CommissionTier `yaml:"tiers,omitempty" json:"tiers,omitempty"`
}

// DefaultCommissionConfig mirrors a retail percentage fee schedule.
func DefaultCommissionConfig() CommissionConfig {
	return CommissionConfig{
		Type:    CommissionPercentage,
		Rate:    0.001,
		Minimum: 1.0,
		Maximum: math.MaxFloat64,
	}
}

// ZeroCommissionConfig charges nothing regardless of trade size.
func ZeroCommissionConfig() CommissionConfig {
	return CommissionConfig{
		Type:    CommissionFixed,
		Rate:    0,
		Minimum: 0,
		Maximum: math.MaxFloat64,
	}
}

// Calculate returns the commission in dollars for a trade of the given value
// and signed share quantity, clamped to [Minimum, Maximum].
func (c CommissionConfig) Calculate(tradeValue float64, quantity float64) float64 {
	var commission float64

	switch c.Type {
	case CommissionFixed:
		commission = c.Rate
	case CommissionPercentage:
		commission = tradeValue * c.Rate
	case CommissionPerShare:
		commission = math.Abs(quantity) * c.Rate
	case CommissionTiered:
		commission = c.tieredCommission(tradeValue)
	default:
		commission = tradeValue * c.Rate
	}

	return math.Min(math.Max(commission, c.Minimum), c.Maximum)
}

// tieredCommission selects the first tier whose threshold covers the trade
// value. The boundary is inclusive: a trade exactly at a threshold uses that
// tier's rate. Above all thresholds the last tier's rate applies.
func (c CommissionConfig) tieredCommission(tradeValue float64) float64 {
	if len(c.Tiers) == 0 {
		return tradeValue * c.Rate
	}

	for _, tier := range c.Tiers {
		if tradeValue <= tier.Threshold {
			return tradeValue * tier.Rate
		}
	}

	return tradeValue * c.Tiers[len(c.Tiers)-1].Rate
}
