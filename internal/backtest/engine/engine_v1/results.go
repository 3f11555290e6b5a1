package engine

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/rxtech-lab/argo-portfolio/internal/types"
)

// tradingDaysPerYear is the annualization factor for daily returns.
const tradingDaysPerYear = 252

// calculatePerformanceMetrics summarizes a daily value series and its
// period returns. Returns zero metrics when the return series is empty.
func calculatePerformanceMetrics(values, returns []float64) types.PerformanceMetrics {
	var metrics types.PerformanceMetrics

	if len(returns) == 0 {
		return metrics
	}

	meanReturn := stat.Mean(returns, nil)

	var volatility float64
	if len(returns) > 1 {
		volatility = stat.StdDev(returns, nil)
	}

	metrics.AnnualReturn = meanReturn * tradingDaysPerYear
	metrics.AnnualVolatility = volatility * math.Sqrt(tradingDaysPerYear)

	// Risk-free rate assumed zero.
	if metrics.AnnualVolatility > 0 {
		metrics.SharpeRatio = metrics.AnnualReturn / metrics.AnnualVolatility
	}

	if len(values) > 0 {
		metrics.MaxDrawdown = maxDrawdown(values)
		metrics.TotalReturn = values[len(values)-1]/values[0] - 1
	}

	// Sortino uses downside deviation over losing periods only.
	var downsideVariance float64

	downsideCount := 0

	for _, ret := range returns {
		if ret < 0 {
			downsideVariance += ret * ret
			downsideCount++
		}
	}

	if downsideCount > 0 {
		downsideDeviation := math.Sqrt(downsideVariance/float64(downsideCount)) * math.Sqrt(tradingDaysPerYear)
		if downsideDeviation > 0 {
			metrics.SortinoRatio = metrics.AnnualReturn / downsideDeviation
		}
	}

	if metrics.MaxDrawdown > 0 {
		metrics.CalmarRatio = metrics.AnnualReturn / metrics.MaxDrawdown
	}

	return metrics
}

// maxDrawdown returns the largest peak-to-trough decline as a fraction of
// the running peak.
func maxDrawdown(values []float64) float64 {
	peak := values[0]

	var maxDD float64

	for _, value := range values {
		if value > peak {
			peak = value
		}

		drawdown := (peak - value) / peak
		if drawdown > maxDD {
			maxDD = drawdown
		}
	}

	return maxDD
}

// calculateDrawdownSeries converts a value series into a fractional
// drawdown series against the running peak.
func calculateDrawdownSeries(values []types.SeriesPoint) []types.SeriesPoint {
	if len(values) == 0 {
		return nil
	}

	drawdowns := make([]types.SeriesPoint, 0, len(values))
	peak := values[0].Value

	for _, point := range values {
		if point.Value > peak {
			peak = point.Value
		}

		drawdowns = append(drawdowns, types.SeriesPoint{
			Time:  point.Time,
			Value: (peak - point.Value) / peak,
		})
	}

	return drawdowns
}

// simpleReturns converts a price/value series into period-over-period
// fractional returns.
func simpleReturns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		returns = append(returns, (values[i]-values[i-1])/values[i-1])
	}

	return returns
}

// calculateBenchmarkComparison relates the portfolio metrics to a
// benchmark price series. Returns nil when the series is too short to
// produce returns.
func calculateBenchmarkComparison(symbol string, benchmarkPrices []float64, portfolio types.PerformanceMetrics) *types.BenchmarkComparison {
	benchmarkReturns := simpleReturns(benchmarkPrices)
	if len(benchmarkReturns) == 0 {
		return nil
	}

	benchmark := calculatePerformanceMetrics(benchmarkPrices, benchmarkReturns)

	comparison := &types.BenchmarkComparison{
		Symbol:      symbol,
		Performance: benchmark,
	}

	if benchmark.AnnualVolatility > 0 {
		excessReturn := portfolio.AnnualReturn - benchmark.AnnualReturn
		comparison.Alpha = excessReturn
		comparison.InformationRatio = excessReturn / benchmark.AnnualVolatility
		comparison.TrackingError = benchmark.AnnualVolatility
		// Volatility ratio rather than a covariance beta.
		comparison.Beta = portfolio.AnnualVolatility / benchmark.AnnualVolatility
	}

	return comparison
}
