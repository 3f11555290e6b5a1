package engine

import (
	"context"

	"github.com/rxtech-lab/argo-portfolio/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-portfolio/internal/strategy"
	"github.com/rxtech-lab/argo-portfolio/internal/types"
)

// Lifecycle callback types for backtest phases
// All callbacks with error return can abort execution if they return an error

// OnBacktestStartCallback is called once after setup checks pass, with the
// number of trading dates about to be simulated.
type OnBacktestStartCallback func(totalDates int) error

// OnBacktestEndCallback is called when the backtest completes (always called via defer).
type OnBacktestEndCallback func(err error)

// OnProcessDataCallback is called after each trading date is processed.
type OnProcessDataCallback func(current int, total int) error

// LifecycleCallbacks holds all lifecycle callback functions for the backtest engine.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnBacktestStart *OnBacktestStartCallback
	OnBacktestEnd   *OnBacktestEndCallback
	OnProcessData   *OnProcessDataCallback
}

type Engine interface {
	// Initialize the engine with the given YAML configuration.
	Initialize(config string) error
	// SetStrategy sets the trading strategy the engine simulates.
	SetStrategy(s strategy.Strategy) error
	// SetStrategyConfig sets the YAML configuration passed to the strategy
	// at the start of Run. Without it the strategy is assumed to be
	// initialized by the caller.
	SetStrategyConfig(config string) error
	// SetDataSource sets the market data source for the engine.
	SetDataSource(dataSource datasource.DataSource) error
	// LoadMarketData pulls every series from the data source into memory.
	// Must be called after SetDataSource and before Run.
	LoadMarketData() error
	// SetResultsFolder sets the output directory for saving backtest results.
	// Empty keeps results in memory only.
	SetResultsFolder(folder string) error
	// Run executes the strategy over every trading date in the configured
	// period. The context can be used to cancel the backtest operation.
	// Use LifecycleCallbacks to receive notifications at different phases of the backtest.
	Run(ctx context.Context, callbacks LifecycleCallbacks) error
	// Results returns the assembled results of the last completed run.
	Results() (*types.BacktestResults, error)
	// GetConfigSchema returns the schema of the engine configuration
	GetConfigSchema() (string, error)
}
