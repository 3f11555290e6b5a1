package engine

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/rxtech-lab/argo-portfolio/internal/backtest/engine/engine_v1/costmodel"
	"github.com/rxtech-lab/argo-portfolio/internal/types"
	"github.com/rxtech-lab/argo-portfolio/pkg/errors"
)

// tradeExecutor simulates single trade executions against the cost models.
// It owns the run's random generator, so one executor must not be shared
// across concurrent backtests. ExecuteTrade never mutates the portfolio;
// trades are applied in a separate batch step so one period's fills land
// atomically.
type tradeExecutor struct {
	commission costmodel.CommissionConfig
	impact     costmodel.MarketImpactConfig
	slippage   costmodel.SlippageConfig

	// rng is seeded deterministically so identical inputs reproduce
	// identical trade histories.
	rng *rand.Rand

	enablePartialFills bool

	// state is consulted for the available-cash check only.
	state *PortfolioState

	totalCommission   float64
	totalMarketImpact float64
	totalSlippage     float64

	history []types.ExecutedTrade
}

func newTradeExecutor(
	commission costmodel.CommissionConfig,
	impact costmodel.MarketImpactConfig,
	slippage costmodel.SlippageConfig,
	seed int64,
	enablePartialFills bool,
	state *PortfolioState,
) *tradeExecutor {
	return &tradeExecutor{
		commission:         commission,
		impact:             impact,
		slippage:           slippage,
		rng:                rand.New(rand.NewSource(seed)),
		enablePartialFills: enablePartialFills,
		state:              state,
		history:            []types.ExecutedTrade{},
	}
}

// ExecuteTrade simulates one signed trade at the given market conditions
// and returns the immutable trade record. The execution price always moves
// against the trade's direction. Buys exceeding available cash are scaled
// down when partial fills are enabled, otherwise rejected.
func (e *tradeExecutor) ExecuteTrade(
	timestamp time.Time,
	symbol string,
	quantity float64,
	marketPrice float64,
	dailyVolume float64,
	volatility float64,
) (types.ExecutedTrade, error) {
	if quantity == 0 {
		return types.ExecutedTrade{}, errors.New(errors.ErrCodeInvalidQuantity,
			"cannot execute zero quantity trade")
	}

	side := types.TradeSideBuy
	if quantity < 0 {
		side = types.TradeSideSell
	}

	tradeValue := math.Abs(quantity) * marketPrice
	impact := e.impact.Calculate(quantity, dailyVolume, volatility)
	slippage := e.slippage.Calculate(quantity, volatility, e.rng)

	// Impact comes back signed by trade direction, so the adjustment is
	// built from magnitudes and flipped for sells: both sides always fill
	// at a worse price than quoted.
	priceAdjustment := math.Abs(impact) + slippage
	if quantity < 0 {
		priceAdjustment = -priceAdjustment
	}

	executionPrice := marketPrice * (1.0 + priceAdjustment)

	commission := e.commission.Calculate(tradeValue, quantity)
	totalCost := commission + math.Abs(tradeValue*impact) + math.Abs(tradeValue*slippage)

	if quantity > 0 {
		requiredCash := tradeValue + totalCost
		if e.state.Cash < requiredCash {
			if !e.enablePartialFills {
				return types.ExecutedTrade{}, errors.Newf(errors.ErrCodeInsufficientFunds,
					"insufficient cash for trade: need %.2f, have %.2f", requiredCash, e.state.Cash)
			}

			// Scale the quantity down to what cash allows, then recompute
			// value-dependent costs at the reduced size. Impact and
			// slippage fractions are kept from the original request.
			scale := e.state.Cash / requiredCash

			quantity = math.Floor(quantity * scale)
			if quantity == 0 {
				return types.ExecutedTrade{}, errors.New(errors.ErrCodeInsufficientFunds,
					"insufficient cash for trade")
			}

			tradeValue = math.Abs(quantity) * marketPrice
			commission = e.commission.Calculate(tradeValue, quantity)
			totalCost = commission + math.Abs(tradeValue*impact) + math.Abs(tradeValue*slippage)
		}
	}

	trade := types.ExecutedTrade{
		ID:             uuid.New().String(),
		Timestamp:      timestamp,
		Symbol:         symbol,
		Quantity:       quantity,
		ExecutionPrice: executionPrice,
		MarketPrice:    marketPrice,
		Commission:     commission,
		MarketImpact:   impact,
		Slippage:       slippage,
		TotalCost:      totalCost,
		Side:           side,
	}

	e.totalCommission += commission
	e.totalMarketImpact += math.Abs(tradeValue * impact)
	e.totalSlippage += math.Abs(tradeValue * slippage)

	e.history = append(e.history, trade)

	return trade, nil
}

// History returns the append-only record of every executed trade.
func (e *tradeExecutor) History() []types.ExecutedTrade {
	return e.history
}
