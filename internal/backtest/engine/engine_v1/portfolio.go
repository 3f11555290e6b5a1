package engine

import (
	"math"
	"time"

	"github.com/rxtech-lab/argo-portfolio/internal/types"
)

// Position is a single holding inside a PortfolioState. Shares is signed;
// negative means short.
type Position struct {
	Shares float64
	// Price is the last execution/mark price for the position.
	Price     float64
	Timestamp time.Time
}

// PortfolioState tracks cash, open positions, and cumulative transaction
// costs over a run. It is owned by a single engine instance and mutated only
// through ApplyTrades.
type PortfolioState struct {
	Cash       float64
	Positions  map[string]Position
	TotalValue float64

	TotalCommission   float64
	TotalMarketImpact float64
	TotalSlippage     float64
}

// NewPortfolioState creates a portfolio holding only cash.
func NewPortfolioState(initialCapital float64) *PortfolioState {
	return &PortfolioState{
		Cash:       initialCapital,
		Positions:  make(map[string]Position),
		TotalValue: initialCapital,
	}
}

// UpdateValue recomputes TotalValue from cash plus the value of every
// position with an available price. Symbols without a price entry are
// excluded from valuation for this call; their positions are kept, just
// unvalued this period. Idempotent for identical prices.
func (p *PortfolioState) UpdateValue(prices map[string]float64) {
	total := p.Cash

	for symbol, position := range p.Positions {
		if price, ok := prices[symbol]; ok {
			total += position.Shares * price
		}
	}

	p.TotalValue = total
}

// Weights returns each position's fraction of total portfolio value, using
// the position mark prices. Returns an empty map when TotalValue is not
// positive.
func (p *PortfolioState) Weights() map[string]float64 {
	weights := make(map[string]float64)
	if p.TotalValue <= 0 {
		return weights
	}

	for symbol, position := range p.Positions {
		weights[symbol] = position.Shares * position.Price / p.TotalValue
	}

	return weights
}

// ApplyTrades applies a batch of executed trades from one period: cash is
// debited by notional plus costs, positions are adjusted, and positions
// that reach exactly zero shares are dropped. Cumulative cost counters are
// advanced per trade.
func (p *PortfolioState) ApplyTrades(trades []types.ExecutedTrade) {
	for _, trade := range trades {
		notional := trade.Quantity * trade.ExecutionPrice
		p.Cash -= notional + trade.TotalCost

		position := p.Positions[trade.Symbol]
		position.Shares += trade.Quantity
		position.Price = trade.ExecutionPrice
		position.Timestamp = trade.Timestamp

		if position.Shares == 0 {
			delete(p.Positions, trade.Symbol)
		} else {
			p.Positions[trade.Symbol] = position
		}

		tradeValue := trade.Notional()
		p.TotalCommission += trade.Commission
		p.TotalMarketImpact += math.Abs(tradeValue * trade.MarketImpact)
		p.TotalSlippage += math.Abs(tradeValue * trade.Slippage)
	}
}
