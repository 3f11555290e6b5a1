package strategy

import (
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v2"

	"github.com/rxtech-lab/argo-portfolio/pkg/errors"
)

type MeanReversionConfig struct {
	Symbols []string `yaml:"symbols" json:"symbols" validate:"required,min=1"`
	// LookbackPeriod is the window used for the price mean and deviation.
	LookbackPeriod int `yaml:"lookback_period" json:"lookback_period" validate:"gte=2"`
}

// MeanReversionStrategy overweights symbols trading below their trailing
// mean. Negated z-scores are converted to weights with a softmax, so the
// most oversold symbol gets the largest allocation.
type MeanReversionStrategy struct {
	config       MeanReversionConfig
	priceHistory map[string][]float64
}

func (s *MeanReversionStrategy) Initialize(config string) error {
	s.config = MeanReversionConfig{
		LookbackPeriod: 20,
	}

	if err := yaml.Unmarshal([]byte(config), &s.config); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to parse mean reversion config", err)
	}

	if err := validator.New().Struct(&s.config); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid mean reversion config", err)
	}

	s.priceHistory = make(map[string][]float64)

	return nil
}

func (s *MeanReversionStrategy) GenerateSignals(timestamp time.Time, prices map[string]float64, portfolio PortfolioView) (map[string]float64, error) {
	for _, symbol := range s.config.Symbols {
		price, ok := prices[symbol]
		if !ok {
			continue
		}

		history := append(s.priceHistory[symbol], price)
		if len(history) > s.config.LookbackPeriod {
			history = history[1:]
		}

		s.priceHistory[symbol] = history
	}

	var (
		zScores      []float64
		validSymbols []string
	)

	for _, symbol := range s.config.Symbols {
		history := s.priceHistory[symbol]
		if len(history) < s.config.LookbackPeriod {
			continue
		}

		mean := stat.Mean(history, nil)
		stdDev := stat.StdDev(history, nil)

		if stdDev > 0 {
			currentPrice := history[len(history)-1]
			// Negated so below-mean prices score positively.
			zScores = append(zScores, -(currentPrice-mean)/stdDev)
			validSymbols = append(validSymbols, symbol)
		}
	}

	if len(zScores) == 0 {
		return equalWeights(s.config.Symbols, prices), nil
	}

	// Softmax, shifted by the max score for numerical stability.
	maxScore := zScores[0]
	for _, score := range zScores[1:] {
		if score > maxScore {
			maxScore = score
		}
	}

	expScores := make([]float64, len(zScores))

	var sumExp float64

	for i, score := range zScores {
		expScores[i] = math.Exp(score - maxScore)
		sumExp += expScores[i]
	}

	weights := make(map[string]float64, len(validSymbols))
	for i, symbol := range validSymbols {
		weights[symbol] = expScores[i] / sumExp
	}

	return weights, nil
}

func (s *MeanReversionStrategy) Finalize() error {
	return nil
}

func (s *MeanReversionStrategy) Name() string {
	return "MeanReversion"
}
