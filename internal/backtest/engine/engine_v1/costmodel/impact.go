package costmodel

import "math"

type ImpactModel string

const (
	ImpactNone ImpactModel = "none"
	// ImpactLinear scales impact linearly with participation rate.
	ImpactLinear ImpactModel = "linear"
	// ImpactSquareRoot uses the square-root law of market impact.
	ImpactSquareRoot ImpactModel = "square_root"
	// ImpactAlmgren uses the Almgren-Chriss temporary impact exponent (0.6).
	ImpactAlmgren ImpactModel = "almgren"
	// ImpactCustom delegates to a caller-supplied function.
	ImpactCustom ImpactModel = "custom"
)

var AllImpactModels = []any{
	ImpactNone,
	ImpactLinear,
	ImpactSquareRoot,
	ImpactAlmgren,
	ImpactCustom,
}

// ImpactFunc computes a fractional price move from (signed size, daily
// volume, volatility). Used when the model is ImpactCustom.
type ImpactFunc func(tradeSize, dailyVolume, volatility float64) float64

// MarketImpactConfig describes the temporary adverse price move caused by
// the act of trading.
type MarketImpactConfig struct {
	Model ImpactModel `yaml:"model" json:"model" jsonschema:"title=Impact Model"`
	// Coefficient is the base impact coefficient applied to all models.
	Coefficient float64 `yaml:"coefficient" json:"coefficient" jsonschema:"minimum=0"`
	// VolatilityScaling scales the final impact value.
	VolatilityScaling float64 `yaml:"volatility_scaling" json:"volatility_scaling"`
	// CustomFn is consulted only when Model is ImpactCustom. Not serialized.
	CustomFn ImpactFunc `yaml:"-" json:"-"`
}

// DefaultMarketImpactConfig uses the square-root law, the standard choice
// for daily-frequency simulation.
func DefaultMarketImpactConfig() MarketImpactConfig {
	return MarketImpactConfig{
		Model:             ImpactSquareRoot,
		Coefficient:       0.1,
		VolatilityScaling: 1.0,
	}
}

// NoImpactConfig disables market impact entirely.
func NoImpactConfig() MarketImpactConfig {
	return MarketImpactConfig{
		Model:             ImpactNone,
		Coefficient:       0,
		VolatilityScaling: 1.0,
	}
}

// Calculate returns the fractional price move for a trade of the given
// signed size. The result carries the sign of the trade and is scaled by
// VolatilityScaling, so buys push the price up and sells push it down.
func (c MarketImpactConfig) Calculate(tradeSize, dailyVolume, volatility float64) float64 {
	if c.Model == ImpactNone || dailyVolume <= 0 {
		return 0
	}

	participation := math.Abs(tradeSize) / dailyVolume

	sign := 1.0
	if tradeSize < 0 {
		sign = -1.0
	}

	var impact float64

	switch c.Model {
	case ImpactLinear:
		impact = c.Coefficient * participation * volatility
	case ImpactSquareRoot:
		impact = c.Coefficient * math.Sqrt(participation) * volatility
	case ImpactAlmgren:
		impact = c.Coefficient * math.Pow(participation, 0.6) * volatility
	case ImpactCustom:
		if c.CustomFn != nil {
			impact = c.CustomFn(tradeSize, dailyVolume, volatility)
		}
	default:
		impact = 0
	}

	return sign * impact * c.VolatilityScaling
}
