package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/rxtech-lab/argo-portfolio/pkg/errors"
)

type TradeSide string

const (
	TradeSideBuy  TradeSide = "BUY"
	TradeSideSell TradeSide = "SELL"
)

// ExecutedTrade is an immutable record of a single simulated execution.
// Quantity is signed: positive for buys, negative for sells.
type ExecutedTrade struct {
	ID        string    `yaml:"id" json:"id" csv:"id"`
	Timestamp time.Time `yaml:"timestamp" json:"timestamp" csv:"timestamp" validate:"required"`
	Symbol    string    `yaml:"symbol" json:"symbol" csv:"symbol" validate:"required"`
	Quantity  float64   `yaml:"quantity" json:"quantity" csv:"quantity"`
	// ExecutionPrice is the fill price after market impact and slippage.
	ExecutionPrice float64 `yaml:"execution_price" json:"execution_price" csv:"execution_price" validate:"gt=0"`
	// MarketPrice is the quoted price at trade time.
	MarketPrice float64 `yaml:"market_price" json:"market_price" csv:"market_price" validate:"gt=0"`
	// Commission is the broker fee in dollars.
	Commission float64 `yaml:"commission" json:"commission" csv:"commission" validate:"gte=0"`
	// MarketImpact is the fractional price move caused by the trade, signed
	// by trade direction.
	MarketImpact float64 `yaml:"market_impact" json:"market_impact" csv:"market_impact"`
	// Slippage is the fractional execution cost from spread and volatility.
	Slippage float64 `yaml:"slippage" json:"slippage" csv:"slippage"`
	// TotalCost is commission + |notional*impact| + |notional*slippage|.
	TotalCost float64   `yaml:"total_cost" json:"total_cost" csv:"total_cost" validate:"gte=0"`
	Side      TradeSide `yaml:"side" json:"side" csv:"side" validate:"required,oneof=BUY SELL"`
}

// Validate validates the ExecutedTrade struct.
func (t *ExecutedTrade) Validate() error {
	validate := validator.New()

	if err := validate.Struct(t); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTrade, "invalid executed trade", err)
	}

	return nil
}

// Notional returns the absolute dollar value of the trade at the market price.
func (t *ExecutedTrade) Notional() float64 {
	qty := decimal.NewFromFloat(t.Quantity).Abs()
	result, _ := qty.Mul(decimal.NewFromFloat(t.MarketPrice)).Float64()

	return result
}

// ExecutedNotional returns the absolute dollar value at the execution price.
func (t *ExecutedTrade) ExecutedNotional() float64 {
	qty := decimal.NewFromFloat(t.Quantity).Abs()
	result, _ := qty.Mul(decimal.NewFromFloat(t.ExecutionPrice)).Float64()

	return result
}

// ImplementationShortfall is the signed cost of executing away from the
// quoted market price.
func (t *ExecutedTrade) ImplementationShortfall() float64 {
	return (t.ExecutionPrice - t.MarketPrice) * t.Quantity
}
