package engine

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/argo-portfolio/internal/backtest/engine/engine_v1/costmodel"
	"github.com/rxtech-lab/argo-portfolio/pkg/errors"
)

// BacktestConfig is the read-only configuration for one backtest run.
type BacktestConfig struct {
	InitialCapital float64                    `yaml:"initial_capital" json:"initial_capital" validate:"gt=0" jsonschema:"title=Initial Capital,description=Starting capital for the backtest in USD,minimum=0"`
	StartTime      optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start time for the backtest period"`
	EndTime        optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end time for the backtest period"`

	Commission costmodel.CommissionConfig     `yaml:"commission" json:"commission" jsonschema:"title=Commission Model"`
	Impact     costmodel.MarketImpactConfig   `yaml:"market_impact" json:"market_impact" jsonschema:"title=Market Impact Model"`
	Slippage   costmodel.SlippageConfig       `yaml:"slippage" json:"slippage" jsonschema:"title=Slippage Model"`
	Liquidity  costmodel.LiquidityConstraints `yaml:"liquidity" json:"liquidity" jsonschema:"title=Liquidity Constraints"`

	// CashBuffer is the fraction of portfolio value kept uninvested when
	// sizing target positions.
	CashBuffer float64 `yaml:"cash_buffer" json:"cash_buffer" validate:"gte=0,lt=1" jsonschema:"minimum=0,maximum=1"`
	// MaxPositionSize is the largest target weight accepted per symbol.
	MaxPositionSize float64 `yaml:"max_position_size" json:"max_position_size" validate:"gt=0,lte=1" jsonschema:"minimum=0,maximum=1"`

	EnablePartialFills   bool `yaml:"enable_partial_fills" json:"enable_partial_fills"`
	EnableTradeSplitting bool `yaml:"enable_trade_splitting" json:"enable_trade_splitting"`

	// RandomSeed seeds the slippage generator for reproducible runs.
	RandomSeed int64 `yaml:"random_seed" json:"random_seed"`

	BenchmarkSymbol string `yaml:"benchmark_symbol" json:"benchmark_symbol"`
}

// UnmarshalYAML implements custom unmarshaling for BacktestConfig so plain
// yaml timestamps map onto the optional time fields.
func (c *BacktestConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type Config struct {
		InitialCapital       float64                        `yaml:"initial_capital"`
		StartTime            *time.Time                     `yaml:"start_time"`
		EndTime              *time.Time                     `yaml:"end_time"`
		Commission           costmodel.CommissionConfig     `yaml:"commission"`
		Impact               costmodel.MarketImpactConfig   `yaml:"market_impact"`
		Slippage             costmodel.SlippageConfig       `yaml:"slippage"`
		Liquidity            costmodel.LiquidityConstraints `yaml:"liquidity"`
		CashBuffer           float64                        `yaml:"cash_buffer"`
		MaxPositionSize      float64                        `yaml:"max_position_size"`
		EnablePartialFills   bool                           `yaml:"enable_partial_fills"`
		EnableTradeSplitting bool                           `yaml:"enable_trade_splitting"`
		RandomSeed           int64                          `yaml:"random_seed"`
		BenchmarkSymbol      string                         `yaml:"benchmark_symbol"`
	}

	// Absent keys keep their defaults rather than zeroing out.
	defaults := DefaultConfig()
	config := Config{
		InitialCapital:       defaults.InitialCapital,
		Commission:           defaults.Commission,
		Impact:               defaults.Impact,
		Slippage:             defaults.Slippage,
		Liquidity:            defaults.Liquidity,
		CashBuffer:           defaults.CashBuffer,
		MaxPositionSize:      defaults.MaxPositionSize,
		EnablePartialFills:   defaults.EnablePartialFills,
		EnableTradeSplitting: defaults.EnableTradeSplitting,
		RandomSeed:           defaults.RandomSeed,
		BenchmarkSymbol:      defaults.BenchmarkSymbol,
	}

	if err := unmarshal(&config); err != nil {
		return err
	}

	c.InitialCapital = config.InitialCapital
	c.Commission = config.Commission
	c.Impact = config.Impact
	c.Slippage = config.Slippage
	c.Liquidity = config.Liquidity
	c.CashBuffer = config.CashBuffer
	c.MaxPositionSize = config.MaxPositionSize
	c.EnablePartialFills = config.EnablePartialFills
	c.EnableTradeSplitting = config.EnableTradeSplitting
	c.RandomSeed = config.RandomSeed
	c.BenchmarkSymbol = config.BenchmarkSymbol

	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}

	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	}

	return nil
}

// Validate checks the configuration invariants.
func (c *BacktestConfig) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid backtest config", err)
	}

	return nil
}

// GenerateSchema generates a JSON schema for the BacktestConfig.
func (c *BacktestConfig) GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}

			if strings.Contains(t.String(), "costmodel.CommissionType") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: costmodel.AllCommissionTypes,
				}
			}

			if strings.Contains(t.String(), "costmodel.ImpactModel") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: costmodel.AllImpactModels,
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)
	schema.Title = "backtest-config"
	schema.Description = "Configuration schema for the portfolio backtest engine"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestConfig.
func (c *BacktestConfig) GenerateSchemaJSON() (string, error) {
	schemaBytes, err := json.MarshalIndent(c.GenerateSchema(), "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// DefaultConfig returns a BacktestConfig with the documented defaults.
func DefaultConfig() BacktestConfig {
	return BacktestConfig{
		InitialCapital:       1_000_000,
		StartTime:            optional.None[time.Time](),
		EndTime:              optional.None[time.Time](),
		Commission:           costmodel.DefaultCommissionConfig(),
		Impact:               costmodel.DefaultMarketImpactConfig(),
		Slippage:             costmodel.DefaultSlippageConfig(),
		Liquidity:            costmodel.DefaultLiquidityConstraints(),
		CashBuffer:           0.05,
		MaxPositionSize:      0.1,
		EnablePartialFills:   true,
		EnableTradeSplitting: true,
		RandomSeed:           42,
		BenchmarkSymbol:      "SPY",
	}
}

// FrictionlessConfig returns a config with all transaction costs disabled,
// useful for isolating strategy behavior in tests.
func FrictionlessConfig() BacktestConfig {
	config := DefaultConfig()
	config.Commission = costmodel.ZeroCommissionConfig()
	config.Impact = costmodel.NoImpactConfig()
	config.Slippage = costmodel.NoSlippageConfig()

	return config
}
