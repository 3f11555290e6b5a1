package types

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// PerformanceMetrics summarizes a value/return series.
type PerformanceMetrics struct {
	TotalReturn      float64 `yaml:"total_return"`
	AnnualReturn     float64 `yaml:"annual_return"`
	AnnualVolatility float64 `yaml:"annual_volatility"`
	SharpeRatio      float64 `yaml:"sharpe_ratio"`
	SortinoRatio     float64 `yaml:"sortino_ratio"`
	CalmarRatio      float64 `yaml:"calmar_ratio"`
	MaxDrawdown      float64 `yaml:"max_drawdown"`
}

// BenchmarkComparison relates the portfolio to a benchmark price series.
type BenchmarkComparison struct {
	Symbol      string             `yaml:"symbol"`
	Performance PerformanceMetrics `yaml:"performance"`
	// Alpha is the annualized excess return over the benchmark.
	Alpha float64 `yaml:"alpha"`
	// Beta is computed as the ratio of annualized volatilities
	// (portfolio/benchmark), not a covariance-based beta.
	Beta             float64 `yaml:"beta"`
	InformationRatio float64 `yaml:"information_ratio"`
	TrackingError    float64 `yaml:"tracking_error"`
}

// TransactionCosts aggregates execution costs across the whole run.
type TransactionCosts struct {
	Commission   float64 `yaml:"commission"`
	MarketImpact float64 `yaml:"market_impact"`
	Slippage     float64 `yaml:"slippage"`
	Total        float64 `yaml:"total"`
	// CostRatio is total costs relative to the absolute total return.
	CostRatio float64 `yaml:"cost_ratio"`
}

// TradeSummary aggregates the trade history.
type TradeSummary struct {
	TotalTrades      int     `yaml:"total_trades"`
	AverageTradeSize float64 `yaml:"average_trade_size"`
	TurnoverRate     float64 `yaml:"turnover_rate"`
	// ImplementationShortfall is the summed signed execution-vs-quote cost.
	ImplementationShortfall float64 `yaml:"implementation_shortfall"`
}

// BacktestResults is assembled once at the end of a run and read-only after.
type BacktestResults struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id"`
	// EngineVersion is the engine version that produced this file.
	EngineVersion string `yaml:"engine_version"`
	// Timestamp is when this backtest run was executed.
	Timestamp      time.Time `yaml:"timestamp"`
	StrategyName   string    `yaml:"strategy_name"`
	StartDate      time.Time `yaml:"start_date"`
	EndDate        time.Time `yaml:"end_date"`
	InitialCapital float64   `yaml:"initial_capital"`
	FinalValue     float64   `yaml:"final_value"`

	Performance PerformanceMetrics `yaml:"performance"`
	Costs       TransactionCosts   `yaml:"costs"`
	Trades      TradeSummary       `yaml:"trades"`

	PortfolioValues []SeriesPoint   `yaml:"portfolio_values"`
	Returns         []SeriesPoint   `yaml:"returns"`
	Drawdowns       []SeriesPoint   `yaml:"drawdowns"`
	TradeHistory    []ExecutedTrade `yaml:"trade_history"`

	// Benchmark is nil when no benchmark series was supplied.
	Benchmark *BenchmarkComparison `yaml:"benchmark,omitempty"`
}

// Report renders a plain-text summary of the run.
func (r *BacktestResults) Report() string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== Backtest Results Summary ===\n")
	fmt.Fprintf(&b, "Strategy: %s\n", r.StrategyName)
	fmt.Fprintf(&b, "Period: %s to %s\n", r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "Initial Capital: $%.2f\n", r.InitialCapital)
	fmt.Fprintf(&b, "Final Value: $%.2f\n", r.FinalValue)
	fmt.Fprintf(&b, "Total Return: %.2f%%\n", (r.FinalValue/r.InitialCapital-1)*100)

	fmt.Fprintf(&b, "\n=== Performance Metrics ===\n")
	fmt.Fprintf(&b, "Sharpe Ratio: %.4f\n", r.Performance.SharpeRatio)
	fmt.Fprintf(&b, "Sortino Ratio: %.4f\n", r.Performance.SortinoRatio)
	fmt.Fprintf(&b, "Calmar Ratio: %.4f\n", r.Performance.CalmarRatio)
	fmt.Fprintf(&b, "Max Drawdown: %.2f%%\n", r.Performance.MaxDrawdown*100)
	fmt.Fprintf(&b, "Volatility: %.2f%%\n", r.Performance.AnnualVolatility*100)

	fmt.Fprintf(&b, "\n=== Transaction Costs ===\n")
	fmt.Fprintf(&b, "Total Commission: $%.2f\n", r.Costs.Commission)
	fmt.Fprintf(&b, "Total Market Impact: $%.2f\n", r.Costs.MarketImpact)
	fmt.Fprintf(&b, "Total Slippage: $%.2f\n", r.Costs.Slippage)
	fmt.Fprintf(&b, "Total Transaction Costs: $%.2f\n", r.Costs.Total)
	fmt.Fprintf(&b, "Transaction Cost Ratio: %.2f%%\n", r.Costs.CostRatio*100)

	fmt.Fprintf(&b, "\n=== Trade Statistics ===\n")
	fmt.Fprintf(&b, "Total Trades: %d\n", r.Trades.TotalTrades)
	fmt.Fprintf(&b, "Average Trade Size: $%.2f\n", r.Trades.AverageTradeSize)
	fmt.Fprintf(&b, "Turnover Rate: %.2f%%\n", r.Trades.TurnoverRate*100)

	if r.Benchmark != nil {
		fmt.Fprintf(&b, "\n=== Benchmark Comparison ===\n")
		fmt.Fprintf(&b, "Benchmark: %s\n", r.Benchmark.Symbol)
		fmt.Fprintf(&b, "Alpha: %.2f%%\n", r.Benchmark.Alpha*100)
		fmt.Fprintf(&b, "Beta: %.4f\n", r.Benchmark.Beta)
		fmt.Fprintf(&b, "Information Ratio: %.4f\n", r.Benchmark.InformationRatio)
		fmt.Fprintf(&b, "Tracking Error: %.2f%%\n", r.Benchmark.TrackingError*100)
	}

	return b.String()
}

// WriteResults writes the results to the given path as YAML.
func WriteResults(path string, results *BacktestResults) error {
	data, err := yaml.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest results to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest results to file: %w", err)
	}

	return nil
}
