package strategy

import (
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	"github.com/rxtech-lab/argo-portfolio/pkg/errors"
)

type MomentumConfig struct {
	Symbols []string `yaml:"symbols" json:"symbols" validate:"required,min=1"`
	// LookbackPeriod is the number of observations used to measure momentum.
	LookbackPeriod int `yaml:"lookback_period" json:"lookback_period" validate:"gte=2"`
	// TopN is the number of best performers to hold, equally weighted.
	TopN int `yaml:"top_n" json:"top_n" validate:"gte=1"`
}

// MomentumStrategy holds the top N symbols by trailing return, equally
// weighted. Falls back to equal weights until enough history accumulates.
type MomentumStrategy struct {
	config       MomentumConfig
	priceHistory map[string][]float64
}

func (s *MomentumStrategy) Initialize(config string) error {
	s.config = MomentumConfig{
		LookbackPeriod: 60,
		TopN:           5,
	}

	if err := yaml.Unmarshal([]byte(config), &s.config); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to parse momentum config", err)
	}

	if err := validator.New().Struct(&s.config); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid momentum config", err)
	}

	s.priceHistory = make(map[string][]float64)

	return nil
}

func (s *MomentumStrategy) GenerateSignals(timestamp time.Time, prices map[string]float64, portfolio PortfolioView) (map[string]float64, error) {
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

	type score struct {
		symbol   string
		momentum float64
	}

	var scores []score

	for _, symbol := range s.config.Symbols {
		history := s.priceHistory[symbol]
		if len(history) >= s.config.LookbackPeriod {
			start := history[0]
			end := history[len(history)-1]
			scores = append(scores, score{symbol: symbol, momentum: (end - start) / start})
		}
	}

	if len(scores) == 0 {
		return equalWeights(s.config.Symbols, prices), nil
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].momentum > scores[j].momentum
	})

	selected := s.config.TopN
	if selected > len(scores) {
		selected = len(scores)
	}

	weights := make(map[string]float64, selected)
	weightPerSymbol := 1.0 / float64(selected)

	for i := 0; i < selected; i++ {
		weights[scores[i].symbol] = weightPerSymbol
	}

	return weights, nil
}

func (s *MomentumStrategy) Finalize() error {
	return nil
}

func (s *MomentumStrategy) Name() string {
	return "Momentum"
}
