package strategy

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v2"

	"github.com/rxtech-lab/argo-portfolio/pkg/errors"
)

// riskParityMinSamples is the minimum number of return observations before
// a symbol's realized volatility is trusted.
const riskParityMinSamples = 10

type RiskParityConfig struct {
	Symbols []string `yaml:"symbols" json:"symbols" validate:"required,min=1"`
	// VolatilityLookback is the window of daily returns used for realized
	// volatility.
	VolatilityLookback int `yaml:"volatility_lookback" json:"volatility_lookback" validate:"gte=2"`
	// RebalanceFrequency is the number of trading dates between rebalances.
	RebalanceFrequency int `yaml:"rebalance_frequency" json:"rebalance_frequency" validate:"gte=1"`
}

// RiskParityStrategy weights symbols by inverse realized volatility, so
// each position contributes a comparable amount of risk. Falls back to
// equal weights until enough return history accumulates.
type RiskParityStrategy struct {
	config             RiskParityConfig
	lastPrices         map[string]float64
	returnHistory      map[string][]float64
	daysSinceRebalance int
}

func (s *RiskParityStrategy) Initialize(config string) error {
	s.config = RiskParityConfig{
		VolatilityLookback: 60,
		RebalanceFrequency: 21,
	}

	if err := yaml.Unmarshal([]byte(config), &s.config); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to parse risk parity config", err)
	}

	if err := validator.New().Struct(&s.config); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid risk parity config", err)
	}

	s.lastPrices = make(map[string]float64)
	s.returnHistory = make(map[string][]float64)
	s.daysSinceRebalance = 0

	return nil
}

func (s *RiskParityStrategy) GenerateSignals(timestamp time.Time, prices map[string]float64, portfolio PortfolioView) (map[string]float64, error) {
	for _, symbol := range s.config.Symbols {
		price, ok := prices[symbol]
		if !ok {
			continue
		}

		if lastPrice, seen := s.lastPrices[symbol]; seen && lastPrice > 0 {
			history := append(s.returnHistory[symbol], price/lastPrice-1)
			if len(history) > s.config.VolatilityLookback {
				history = history[1:]
			}

			s.returnHistory[symbol] = history
		}

		s.lastPrices[symbol] = price
	}

	s.daysSinceRebalance++

	if s.daysSinceRebalance < s.config.RebalanceFrequency && portfolio.HoldsPositions {
		return currentWeights(portfolio), nil
	}

	s.daysSinceRebalance = 0

	type inverseVol struct {
		symbol string
		value  float64
	}

	var inverseVols []inverseVol

	var totalInverseVol float64

	for _, symbol := range s.config.Symbols {
		history := s.returnHistory[symbol]
		if len(history) < riskParityMinSamples {
			continue
		}

		volatility := stat.StdDev(history, nil)
		if volatility > 0 {
			inverseVols = append(inverseVols, inverseVol{symbol: symbol, value: 1 / volatility})
			totalInverseVol += 1 / volatility
		}
	}

	if len(inverseVols) == 0 {
		return equalWeights(s.config.Symbols, prices), nil
	}

	weights := make(map[string]float64, len(inverseVols))
	for _, iv := range inverseVols {
		weights[iv.symbol] = iv.value / totalInverseVol
	}

	return weights, nil
}

func (s *RiskParityStrategy) Finalize() error {
	return nil
}

func (s *RiskParityStrategy) Name() string {
	return "RiskParity"
}
