// Package strategy defines the trading strategy interface consumed by the
// backtest engine, plus the built-in portfolio strategies.
package strategy

import (
	"encoding/json"
	"time"

	"github.com/invopop/jsonschema"

	"github.com/rxtech-lab/argo-portfolio/pkg/errors"
)

// PortfolioView is the read-only view of portfolio state a strategy sees
// when generating signals.
type PortfolioView struct {
	// Weights maps held symbols to their current fraction of total value.
	Weights map[string]float64
	// HoldsPositions is true when the portfolio has open positions.
	HoldsPositions bool
}

// Strategy produces target portfolio weights for each trading date. The
// engine turns weight changes into trades; a strategy never places orders
// itself.
type Strategy interface {
	// Initialize configures the strategy from a YAML document.
	Initialize(config string) error
	// GenerateSignals returns target weights for the given date. Symbols
	// absent from the map are liquidated; weights outside the engine's
	// position limits are ignored.
	GenerateSignals(timestamp time.Time, prices map[string]float64, portfolio PortfolioView) (map[string]float64, error)
	// Finalize is called once after the last trading date.
	Finalize() error
	// Name returns the strategy name used in results and logs.
	Name() string
}

// NewStrategy constructs a built-in strategy by name.
func NewStrategy(name string) (Strategy, error) {
	switch name {
	case "buy_and_hold":
		return &BuyAndHoldStrategy{}, nil
	case "equal_weight":
		return &EqualWeightStrategy{}, nil
	case "momentum":
		return &MomentumStrategy{}, nil
	case "mean_reversion":
		return &MeanReversionStrategy{}, nil
	case "risk_parity":
		return &RiskParityStrategy{}, nil
	default:
		return nil, errors.Newf(errors.ErrCodeStrategyConfigError, "unknown strategy: %s", name)
	}
}

// StrategyNames lists the built-in strategy identifiers accepted by
// NewStrategy.
func StrategyNames() []string {
	return []string{"buy_and_hold", "equal_weight", "momentum", "mean_reversion", "risk_parity"}
}

// ConfigSchema returns the JSON schema of the named strategy's YAML
// configuration.
func ConfigSchema(name string) (string, error) {
	var config any

	switch name {
	case "buy_and_hold":
		config = BuyAndHoldConfig{}
	case "equal_weight":
		config = EqualWeightConfig{}
	case "momentum":
		config = MomentumConfig{}
	case "mean_reversion":
		config = MeanReversionConfig{}
	case "risk_parity":
		config = RiskParityConfig{}
	default:
		return "", errors.Newf(errors.ErrCodeStrategyConfigError, "unknown strategy: %s", name)
	}

	reflector := new(jsonschema.Reflector)
	reflector.DoNotReference = true
	schema := reflector.Reflect(config)

	schemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to marshal strategy config schema", err)
	}

	return string(schemaBytes), nil
}

// equalWeights assigns 1/n to every configured symbol that has a price
// today.
func equalWeights(symbols []string, prices map[string]float64) map[string]float64 {
	available := 0

	for _, symbol := range symbols {
		if _, ok := prices[symbol]; ok {
			available++
		}
	}

	weights := make(map[string]float64)
	if available == 0 {
		return weights
	}

	weightPerSymbol := 1.0 / float64(available)

	for _, symbol := range symbols {
		if _, ok := prices[symbol]; ok {
			weights[symbol] = weightPerSymbol
		}
	}

	return weights
}

// currentWeights echoes the portfolio's held weights, signalling the engine
// to keep positions as they are.
func currentWeights(portfolio PortfolioView) map[string]float64 {
	weights := make(map[string]float64, len(portfolio.Weights))
	for symbol, weight := range portfolio.Weights {
		weights[symbol] = weight
	}

	return weights
}
