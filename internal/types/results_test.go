package types

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleResults() *BacktestResults {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	return &BacktestResults{
		ID:             "run-1",
		Timestamp:      start,
		StrategyName:   "BuyAndHold",
		StartDate:      start,
		EndDate:        start.AddDate(0, 6, 0),
		InitialCapital: 100_000,
		FinalValue:     112_500,
		Performance: PerformanceMetrics{
			TotalReturn:  0.125,
			SharpeRatio:  1.42,
			MaxDrawdown:  0.08,
			SortinoRatio: 1.9,
		},
		Costs: TransactionCosts{
			Commission: 120,
			Total:      480,
			CostRatio:  0.038,
		},
		Trades: TradeSummary{
			TotalTrades:      12,
			AverageTradeSize: 8500,
			TurnoverRate:     0.51,
		},
		PortfolioValues: []SeriesPoint{
			{Time: start, Value: 100_000},
			{Time: start.AddDate(0, 0, 1), Value: 112_500},
		},
	}
}

func TestReportContents(t *testing.T) {
	report := sampleResults().Report()

	assert.Contains(t, report, "Strategy: BuyAndHold")
	assert.Contains(t, report, "Initial Capital: $100000.00")
	assert.Contains(t, report, "Total Return: 12.50%")
	assert.Contains(t, report, "Sharpe Ratio: 1.4200")
	assert.Contains(t, report, "Max Drawdown: 8.00%")
	assert.Contains(t, report, "Total Trades: 12")
	assert.NotContains(t, report, "Benchmark Comparison")
}

func TestReportIncludesBenchmarkSection(t *testing.T) {
	results := sampleResults()
	results.Benchmark = &BenchmarkComparison{
		Symbol: "SPY",
		Alpha:  0.021,
		Beta:   0.87,
	}

	report := results.Report()

	assert.Contains(t, report, "Benchmark: SPY")
	assert.Contains(t, report, "Alpha: 2.10%")
	assert.Contains(t, report, "Beta: 0.8700")
}

func TestWriteResultsRoundTrip(t *testing.T) {
	dir, err := os.MkdirTemp("", "results")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "results.yaml")
	results := sampleResults()

	require.NoError(t, WriteResults(path, results))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded BacktestResults
	require.NoError(t, yaml.Unmarshal(data, &loaded))

	assert.Equal(t, results.ID, loaded.ID)
	assert.Equal(t, results.StrategyName, loaded.StrategyName)
	assert.Equal(t, results.FinalValue, loaded.FinalValue)
	assert.Equal(t, results.Trades.TotalTrades, loaded.Trades.TotalTrades)
	assert.Nil(t, loaded.Benchmark)
	assert.Len(t, loaded.PortfolioValues, 2)
}

func TestWriteResultsBadPath(t *testing.T) {
	err := WriteResults("/nonexistent-dir/results.yaml", sampleResults())

	require.Error(t, err)
}
