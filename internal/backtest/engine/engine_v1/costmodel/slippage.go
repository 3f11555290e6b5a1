package costmodel

import (
	"math"
	"math/rand"
)

// SlippageConfig describes execution-price deviation from the quoted price
// caused by spread and volatility, independent of market impact.
type SlippageConfig struct {
	// BidAskSpread is the average quoted spread as a fraction of price.
	BidAskSpread float64 `yaml:"bid_ask_spread" json:"bid_ask_spread" jsonschema:"minimum=0"`
	// VolatilityMultiplier scales the volatility-proportional component.
	VolatilityMultiplier float64 `yaml:"volatility_multiplier" json:"volatility_multiplier"`
	// EnableRandomSlippage adds a Gaussian noise term drawn from the
	// engine-owned generator, keeping runs reproducible under a fixed seed.
	EnableRandomSlippage bool `yaml:"enable_random_slippage" json:"enable_random_slippage"`
	// RandomSlippageStd is the standard deviation of the noise term.
	RandomSlippageStd float64 `yaml:"random_slippage_std" json:"random_slippage_std" jsonschema:"minimum=0"`
}

func DefaultSlippageConfig() SlippageConfig {
	return SlippageConfig{
		BidAskSpread:         0.001,
		VolatilityMultiplier: 1.0,
		EnableRandomSlippage: true,
		RandomSlippageStd:    0.0005,
	}
}

// NoSlippageConfig disables all slippage components.
func NoSlippageConfig() SlippageConfig {
	return SlippageConfig{}
}

// Calculate returns the fractional slippage cost for a trade of the given
// signed size. Deterministic when EnableRandomSlippage is false.
func (c SlippageConfig) Calculate(tradeSize, volatility float64, rng *rand.Rand) float64 {
	halfSpread := c.BidAskSpread * 0.5

	volSlippage := volatility * c.VolatilityMultiplier * math.Abs(tradeSize)

	var randomComponent float64
	if c.EnableRandomSlippage && rng != nil {
		randomComponent = rng.NormFloat64() * c.RandomSlippageStd
	}

	return halfSpread + volSlippage + randomComponent
}
