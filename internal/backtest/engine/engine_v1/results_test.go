package engine

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/argo-portfolio/internal/types"
)

type ResultsTestSuite struct {
	suite.Suite
}

func TestResultsSuite(t *testing.T) {
	suite.Run(t, new(ResultsTestSuite))
}

func (suite *ResultsTestSuite) TestMaxDrawdown() {
	values := []float64{100, 120, 90, 110}

	suite.InDelta(0.25, maxDrawdown(values), 1e-12)
}

func (suite *ResultsTestSuite) TestMaxDrawdownMonotonicSeries() {
	suite.Equal(0.0, maxDrawdown([]float64{100, 110, 120}))
}

func (suite *ResultsTestSuite) TestDrawdownSeries() {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	values := make([]types.SeriesPoint, 0, 4)
	for i, v := range []float64{100, 120, 90, 110} {
		values = append(values, types.SeriesPoint{Time: start.AddDate(0, 0, i), Value: v})
	}

	drawdowns := calculateDrawdownSeries(values)

	suite.Require().Len(drawdowns, 4)
	suite.Equal(0.0, drawdowns[0].Value)
	suite.Equal(0.0, drawdowns[1].Value)
	suite.InDelta(0.25, drawdowns[2].Value, 1e-12)
	suite.InDelta((120.0-110.0)/120.0, drawdowns[3].Value, 1e-12)
}

func (suite *ResultsTestSuite) TestPerformanceMetricsEmptyReturns() {
	metrics := calculatePerformanceMetrics([]float64{100}, nil)

	suite.Equal(types.PerformanceMetrics{}, metrics)
}

func (suite *ResultsTestSuite) TestPerformanceMetricsAnnualization() {
	values := []float64{100, 101, 102.01}
	returns := []float64{0.01, 0.01}

	metrics := calculatePerformanceMetrics(values, returns)

	suite.InDelta(0.01*252, metrics.AnnualReturn, 1e-9)
	// Identical returns have zero variance, so Sharpe is left at zero.
	suite.Equal(0.0, metrics.AnnualVolatility)
	suite.Equal(0.0, metrics.SharpeRatio)
	suite.InDelta(0.0201, metrics.TotalReturn, 1e-9)
}

func (suite *ResultsTestSuite) TestPerformanceMetricsSharpe() {
	values := []float64{100, 102, 103.02}
	returns := []float64{0.02, 0.01}

	metrics := calculatePerformanceMetrics(values, returns)

	mean := 0.015
	stdDev := math.Sqrt(math.Pow(0.02-mean, 2) + math.Pow(0.01-mean, 2))

	suite.InDelta(mean*252, metrics.AnnualReturn, 1e-9)
	suite.InDelta(stdDev*math.Sqrt(252), metrics.AnnualVolatility, 1e-9)
	suite.InDelta(metrics.AnnualReturn/metrics.AnnualVolatility, metrics.SharpeRatio, 1e-9)
}

func (suite *ResultsTestSuite) TestSortinoUsesDownsideOnly() {
	values := []float64{100, 102, 100.98, 102.0}
	returns := []float64{0.02, -0.01, 0.0101}

	metrics := calculatePerformanceMetrics(values, returns)

	downsideDeviation := math.Sqrt(0.01*0.01/1) * math.Sqrt(252)
	suite.InDelta(metrics.AnnualReturn/downsideDeviation, metrics.SortinoRatio, 1e-9)
}

func (suite *ResultsTestSuite) TestSortinoZeroWithoutLosses() {
	metrics := calculatePerformanceMetrics([]float64{100, 101, 102}, []float64{0.01, 0.0099})

	suite.Equal(0.0, metrics.SortinoRatio)
}

func (suite *ResultsTestSuite) TestCalmar() {
	values := []float64{100, 120, 90, 110}
	returns := simpleReturns(values)

	metrics := calculatePerformanceMetrics(values, returns)

	suite.InDelta(metrics.AnnualReturn/0.25, metrics.CalmarRatio, 1e-9)
}

func (suite *ResultsTestSuite) TestSimpleReturns() {
	returns := simpleReturns([]float64{100, 110, 99})

	suite.Require().Len(returns, 2)
	suite.InDelta(0.1, returns[0], 1e-12)
	suite.InDelta(-0.1, returns[1], 1e-12)

	suite.Nil(simpleReturns([]float64{100}))
}

func (suite *ResultsTestSuite) TestBenchmarkComparison() {
	portfolio := types.PerformanceMetrics{
		AnnualReturn:     0.10,
		AnnualVolatility: 0.20,
	}

	benchmarkPrices := []float64{100, 102, 101, 103, 102}

	comparison := calculateBenchmarkComparison("SPY", benchmarkPrices, portfolio)

	suite.Require().NotNil(comparison)
	suite.Equal("SPY", comparison.Symbol)

	excess := portfolio.AnnualReturn - comparison.Performance.AnnualReturn
	suite.InDelta(excess, comparison.Alpha, 1e-9)
	suite.InDelta(excess/comparison.Performance.AnnualVolatility, comparison.InformationRatio, 1e-9)
	suite.InDelta(comparison.Performance.AnnualVolatility, comparison.TrackingError, 1e-9)
	// Beta is the ratio of annualized volatilities.
	suite.InDelta(portfolio.AnnualVolatility/comparison.Performance.AnnualVolatility, comparison.Beta, 1e-9)
}

func (suite *ResultsTestSuite) TestBenchmarkComparisonTooShort() {
	suite.Nil(calculateBenchmarkComparison("SPY", []float64{100}, types.PerformanceMetrics{}))
}
