package strategy

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	"github.com/rxtech-lab/argo-portfolio/pkg/errors"
)

type BuyAndHoldConfig struct {
	Symbols []string `yaml:"symbols" json:"symbols" validate:"required,min=1"`
}

// BuyAndHoldStrategy allocates equal weights across its symbols on the
// first date they are priced, then holds.
type BuyAndHoldStrategy struct {
	config      BuyAndHoldConfig
	initialized bool
}

func (s *BuyAndHoldStrategy) Initialize(config string) error {
	if err := yaml.Unmarshal([]byte(config), &s.config); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to parse buy and hold config", err)
	}

	if err := validator.New().Struct(&s.config); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid buy and hold config", err)
	}

	s.initialized = false

	return nil
}

func (s *BuyAndHoldStrategy) GenerateSignals(timestamp time.Time, prices map[string]float64, portfolio PortfolioView) (map[string]float64, error) {
	if s.initialized {
		return currentWeights(portfolio), nil
	}

	weights := equalWeights(s.config.Symbols, prices)
	if len(weights) > 0 {
		s.initialized = true
	}

	return weights, nil
}

func (s *BuyAndHoldStrategy) Finalize() error {
	return nil
}

func (s *BuyAndHoldStrategy) Name() string {
	return "BuyAndHold"
}
