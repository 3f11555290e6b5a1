package costmodel

import "math"

// LiquidityConstraints bounds how much of a day's volume a single order may
// consume, and how oversized orders are split.
type LiquidityConstraints struct {
	// MaxParticipationRate is the maximum fraction of daily volume one
	// order may consume.
	MaxParticipationRate float64 `yaml:"max_participation_rate" json:"max_participation_rate" jsonschema:"minimum=0,maximum=1"`
	// MinTradeSize is the smallest executable order in shares.
	MinTradeSize float64 `yaml:"min_trade_size" json:"min_trade_size" jsonschema:"minimum=0"`
	// MaxTradeSize is the largest executable order in shares.
	MaxTradeSize float64 `yaml:"max_trade_size" json:"max_trade_size"`
}

func DefaultLiquidityConstraints() LiquidityConstraints {
	return LiquidityConstraints{
		MaxParticipationRate: 0.2,
		MinTradeSize:         1.0,
		MaxTradeSize:         1e6,
	}
}

// IsTradeFeasible reports whether a signed trade size fits the size bounds
// and the participation-rate limit.
func (c LiquidityConstraints) IsTradeFeasible(tradeSize, dailyVolume float64) bool {
	absSize := math.Abs(tradeSize)

	if absSize < c.MinTradeSize || absSize > c.MaxTradeSize {
		return false
	}

	if dailyVolume <= 0 {
		return false
	}

	return absSize/dailyVolume <= c.MaxParticipationRate
}

// SplitTrade slices an oversized signed trade into same-signed chunks, each
// within the participation limit. The tail remainder below MinTradeSize is
// dropped rather than executed.
func (c LiquidityConstraints) SplitTrade(tradeSize, dailyVolume float64) []float64 {
	var chunks []float64

	maxChunkSize := dailyVolume * c.MaxParticipationRate
	if maxChunkSize <= 0 {
		return nil
	}

	sign := 1.0
	if tradeSize < 0 {
		sign = -1.0
	}

	remaining := tradeSize
	for math.Abs(remaining) > c.MinTradeSize {
		chunk := math.Min(math.Abs(remaining), maxChunkSize) * sign
		chunks = append(chunks, chunk)
		remaining -= chunk
	}

	return chunks
}
