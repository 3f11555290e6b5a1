package engine

import "math"

// rebalancePlanner converts target portfolio weights into signed share
// deltas against the current portfolio state.
type rebalancePlanner struct {
	// cashBuffer is the fraction of portfolio value kept uninvested.
	cashBuffer float64
	// maxPositionSize is the largest allowed target weight per symbol.
	maxPositionSize float64
}

// RequiredTrades computes the signed share delta per symbol needed to move
// the portfolio toward the target weights. Target weights outside
// [0, maxPositionSize] are silently skipped. Symbols currently held but
// absent from the target set are fully liquidated. Deltas below one share
// are not emitted.
func (r rebalancePlanner) RequiredTrades(
	prices map[string]float64,
	targetWeights map[string]float64,
	state *PortfolioState,
) map[string]float64 {
	required := make(map[string]float64)

	availableCapital := state.TotalValue * (1.0 - r.cashBuffer)

	for symbol, targetWeight := range targetWeights {
		if targetWeight < 0 || targetWeight > r.maxPositionSize {
			continue
		}

		price, ok := prices[symbol]
		if !ok || price <= 0 {
			continue
		}

		targetShares := math.Floor(availableCapital * targetWeight / price)

		var currentShares float64
		if position, held := state.Positions[symbol]; held {
			currentShares = position.Shares
		}

		delta := targetShares - currentShares
		if math.Abs(delta) >= 1 {
			required[symbol] = delta
		}
	}

	// Liquidate holdings the strategy no longer targets.
	for symbol, position := range state.Positions {
		if _, targeted := targetWeights[symbol]; !targeted && position.Shares != 0 {
			required[symbol] = -position.Shares
		}
	}

	return required
}
