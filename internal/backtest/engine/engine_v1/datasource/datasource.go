// Package datasource loads per-symbol market data series (price, volume,
// volatility) for the backtest engine.
package datasource

import (
	"github.com/rxtech-lab/argo-portfolio/internal/types"
)

// DataSource supplies per-symbol time series to the engine. All data is
// loaded before the run starts; the engine never calls back into the source
// inside the trading loop.
type DataSource interface {
	// Initialize prepares the data source with the given path. Sources
	// constructed from in-memory data may ignore the path.
	Initialize(path string) error
	// Symbols returns all symbols the source can serve.
	Symbols() ([]string, error)
	// Series returns the full observation series for a symbol, sorted by
	// time ascending.
	Series(symbol string) ([]types.MarketData, error)
	// Close releases any resources held by the source.
	Close() error
}
