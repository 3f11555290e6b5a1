package types

import "time"

// Default values used when a symbol has no volume or volatility observation
// for a trading date. Missing data falls back to these instead of failing.
const (
	DefaultDailyVolume = 1_000_000.0
	DefaultVolatility  = 0.02
)

// MarketData is a single per-symbol, per-date market observation.
type MarketData struct {
	Symbol string    `csv:"symbol" yaml:"symbol"`
	Time   time.Time `csv:"time" yaml:"time"`
	// Price is the closing price used for valuation and execution.
	Price float64 `csv:"price" yaml:"price"`
	// Volume is the total shares traded on this date. Zero means unknown.
	Volume float64 `csv:"volume" yaml:"volume"`
	// Volatility is the daily return volatility. Zero means unknown.
	Volatility float64 `csv:"volatility" yaml:"volatility"`
}

// SeriesPoint is one observation of a scalar time series.
type SeriesPoint struct {
	Time  time.Time `yaml:"time"`
	Value float64   `yaml:"value"`
}
