package strategy

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	"github.com/rxtech-lab/argo-portfolio/pkg/errors"
)

type EqualWeightConfig struct {
	Symbols []string `yaml:"symbols" json:"symbols" validate:"required,min=1"`
	// RebalanceFrequency is the number of trading dates between rebalances.
	RebalanceFrequency int `yaml:"rebalance_frequency" json:"rebalance_frequency" validate:"gte=1"`
}

// EqualWeightStrategy rebalances to equal weights every N trading dates.
type EqualWeightStrategy struct {
	config             EqualWeightConfig
	daysSinceRebalance int
}

func (s *EqualWeightStrategy) Initialize(config string) error {
	s.config = EqualWeightConfig{
		RebalanceFrequency: 21,
	}

	if err := yaml.Unmarshal([]byte(config), &s.config); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to parse equal weight config", err)
	}

	if err := validator.New().Struct(&s.config); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid equal weight config", err)
	}

	s.daysSinceRebalance = 0

	return nil
}

func (s *EqualWeightStrategy) GenerateSignals(timestamp time.Time, prices map[string]float64, portfolio PortfolioView) (map[string]float64, error) {
	s.daysSinceRebalance++

	if s.daysSinceRebalance < s.config.RebalanceFrequency && portfolio.HoldsPositions {
		return currentWeights(portfolio), nil
	}

	s.daysSinceRebalance = 0

	return equalWeights(s.config.Symbols, prices), nil
}

func (s *EqualWeightStrategy) Finalize() error {
	return nil
}

func (s *EqualWeightStrategy) Name() string {
	return "EqualWeight"
}
