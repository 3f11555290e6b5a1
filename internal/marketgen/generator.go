// Package marketgen generates synthetic market data series for tests,
// benchmarks, and demo backtests.
package marketgen

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-portfolio/internal/types"
)

// Generator produces realistic market data series from a seeded random
// source. Use a fixed seed for reproducible results in tests.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how market data is generated.
type GeneratorConfig struct {
	// Symbol is the trading symbol (e.g., "AAPL", "SPY")
	Symbol string
	// StartTime is the beginning of the data series
	StartTime time.Time
	// Interval is the duration between observations
	Interval time.Duration
	// Count is the number of observations to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% typical daily volatility)
	Volatility float64
	// Trend is the total drift over the whole series (-0.2 to 0.2 for
	// bearish to bullish)
	Trend float64
	// VolumeBase is the average volume per observation
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns a sensible default configuration: one year of daily
// observations.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "TEST",
		StartTime:      time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Interval:       24 * time.Hour,
		Count:          252,
		InitialPrice:   100.0,
		Volatility:     0.015,
		Trend:          0.0,
		VolumeBase:     1_000_000,
		VolumeVariance: 0.3,
	}
}

// Generate creates a series of observations following a geometric Brownian
// motion model.
func (g *Generator) Generate(config GeneratorConfig) []types.MarketData {
	data := make([]types.MarketData, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.StartTime

	for i := 0; i < config.Count; i++ {
		// Box-Muller transform for a normally distributed shock.
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		drift := config.Trend / float64(config.Count)

		price := currentPrice * (1 + config.Volatility*z + drift)
		if price <= 0 {
			price = currentPrice * 0.99 // Prevent negative prices
		}

		volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance
		volume := config.VolumeBase * volumeVariation
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		data[i] = types.MarketData{
			Symbol:     config.Symbol,
			Time:       currentTime,
			Price:      roundToDecimals(price, 4),
			Volume:     roundToDecimals(volume, 2),
			Volatility: config.Volatility,
		}

		currentPrice = price
		currentTime = currentTime.Add(config.Interval)
	}

	return data
}

// GenerateMultiSymbol generates data for multiple symbols, varying initial
// price and volatility slightly per symbol.
func (g *Generator) GenerateMultiSymbol(symbols []string, baseConfig GeneratorConfig) []types.MarketData {
	var allData []types.MarketData

	for _, symbol := range symbols {
		config := baseConfig
		config.Symbol = symbol
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)

		allData = append(allData, g.Generate(config)...)
	}

	return allData
}

func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
