package engine

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"github.com/rxtech-lab/argo-portfolio/internal/backtest/engine"
	"github.com/rxtech-lab/argo-portfolio/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-portfolio/internal/backtest/engine/engine_v1/history"
	"github.com/rxtech-lab/argo-portfolio/internal/logger"
	"github.com/rxtech-lab/argo-portfolio/internal/strategy"
	"github.com/rxtech-lab/argo-portfolio/internal/types"
	"github.com/rxtech-lab/argo-portfolio/internal/version"
	"github.com/rxtech-lab/argo-portfolio/pkg/errors"
)

// BacktestEngineV1 simulates executing a strategy's target weights over a
// historical market data set, trade by trade, with full cost modelling.
type BacktestEngineV1 struct {
	config         BacktestConfig
	strategy       strategy.Strategy
	strategyConfig optional.Option[string]
	resultsFolder  string
	log            *logger.Logger
	datasource     datasource.DataSource

	// series holds tradable symbols only; the benchmark series is kept
	// separate and never traded.
	series    map[string][]types.MarketData
	observed  map[string]map[int64]types.MarketData
	benchmark []types.MarketData

	state    *PortfolioState
	planner  rebalancePlanner
	executor *tradeExecutor
	history  *history.Store

	results *types.BacktestResults
}

func NewBacktestEngineV1() engine.Engine {
	return &BacktestEngineV1{
		config: DefaultConfig(),
	}
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	b.config = DefaultConfig()

	if err := yaml.Unmarshal([]byte(config), &b.config); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse backtest config", err)
	}

	if err := b.config.Validate(); err != nil {
		return err
	}

	var loggerError error

	b.log, loggerError = logger.NewLogger()
	if loggerError != nil {
		return loggerError
	}

	b.log.Debug("Backtest engine initialized",
		zap.String("config", config),
	)

	historyStore, err := history.NewStore(b.log)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to create history store", err)
	}

	if err := historyStore.Initialize(); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to initialize history store", err)
	}

	b.history = historyStore

	return nil
}

// SetStrategy implements engine.Engine.
func (b *BacktestEngineV1) SetStrategy(s strategy.Strategy) error {
	b.strategy = s
	b.log.Debug("Strategy set",
		zap.String("strategy", s.Name()),
	)

	return nil
}

// SetStrategyConfig implements engine.Engine.
func (b *BacktestEngineV1) SetStrategyConfig(config string) error {
	b.strategyConfig = optional.Some(config)

	return nil
}

// SetDataSource implements engine.Engine.
func (b *BacktestEngineV1) SetDataSource(dataSource datasource.DataSource) error {
	b.datasource = dataSource

	return nil
}

// SetResultsFolder implements engine.Engine.
func (b *BacktestEngineV1) SetResultsFolder(folder string) error {
	b.resultsFolder = folder
	b.log.Debug("Results folder set",
		zap.String("folder", folder),
	)

	return nil
}

// LoadMarketData pulls every series from the data source into memory. The
// configured benchmark symbol, if present, is routed to the benchmark
// series instead of the tradable set.
func (b *BacktestEngineV1) LoadMarketData() error {
	if b.datasource == nil {
		return errors.New(errors.ErrCodeDataSourceUnavailable, "no data source set")
	}

	symbols, err := b.datasource.Symbols()
	if err != nil {
		return err
	}

	b.series = make(map[string][]types.MarketData)
	b.observed = make(map[string]map[int64]types.MarketData)
	b.benchmark = nil

	for _, symbol := range symbols {
		series, err := b.datasource.Series(symbol)
		if err != nil {
			return err
		}

		if symbol == b.config.BenchmarkSymbol {
			b.benchmark = series

			continue
		}

		b.series[symbol] = series

		observed := make(map[int64]types.MarketData, len(series))
		for _, row := range series {
			observed[row.Time.UnixNano()] = row
		}

		b.observed[symbol] = observed
	}

	b.log.Debug("Market data loaded",
		zap.Int("symbols", len(b.series)),
		zap.Bool("benchmark", b.benchmark != nil),
	)

	return nil
}

// SetBenchmarkData supplies a benchmark series directly, overriding any
// series loaded from the data source.
func (b *BacktestEngineV1) SetBenchmarkData(series []types.MarketData) {
	b.benchmark = series
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(ctx context.Context, callbacks engine.LifecycleCallbacks) (err error) {
	defer func() {
		if callbacks.OnBacktestEnd != nil {
			(*callbacks.OnBacktestEnd)(err)
		}
	}()

	if err = b.preRunCheck(); err != nil {
		return err
	}

	if b.strategyConfig.IsSome() {
		if err = b.strategy.Initialize(b.strategyConfig.Unwrap()); err != nil {
			return err
		}
	}

	tradingDates := b.tradingDates()
	if len(tradingDates) == 0 {
		b.log.Error("No trading dates in configured period")

		return errors.New(errors.ErrCodeNoTradingDates, "no trading dates in specified period")
	}

	if callbacks.OnBacktestStart != nil {
		if err = (*callbacks.OnBacktestStart)(len(tradingDates)); err != nil {
			return err
		}
	}

	b.state = NewPortfolioState(b.config.InitialCapital)
	b.planner = rebalancePlanner{
		cashBuffer:      b.config.CashBuffer,
		maxPositionSize: b.config.MaxPositionSize,
	}
	b.executor = newTradeExecutor(
		b.config.Commission,
		b.config.Impact,
		b.config.Slippage,
		b.config.RandomSeed,
		b.config.EnablePartialFills,
		b.state,
	)
	b.results = nil

	var (
		portfolioValues []types.SeriesPoint
		returns         []types.SeriesPoint
	)

	for i, timestamp := range tradingDates {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr

			return err
		}

		prices := b.pricesAt(timestamp)
		if len(prices) == 0 {
			continue
		}

		b.state.UpdateValue(prices)

		if periodErr := b.executePeriod(timestamp, prices); periodErr != nil {
			// Period failures are logged and skipped; the backtest goes on.
			b.log.Warn("Trading period failed",
				zap.Time("date", timestamp),
				zap.Error(periodErr),
			)

			continue
		}

		portfolioValues = append(portfolioValues, types.SeriesPoint{
			Time:  timestamp,
			Value: b.state.TotalValue,
		})

		var periodReturn float64

		if len(portfolioValues) >= 2 {
			prev := portfolioValues[len(portfolioValues)-2].Value
			periodReturn = (b.state.TotalValue - prev) / prev
			returns = append(returns, types.SeriesPoint{Time: timestamp, Value: periodReturn})
		}

		if histErr := b.history.RecordSnapshot(portfolioValues[len(portfolioValues)-1], b.state.Cash, periodReturn); histErr != nil {
			err = errors.Wrap(errors.ErrCodeHistoryWriteFailed, "failed to record snapshot", histErr)

			return err
		}

		if callbacks.OnProcessData != nil {
			if err = (*callbacks.OnProcessData)(i+1, len(tradingDates)); err != nil {
				return err
			}
		}
	}

	if finalizeErr := b.strategy.Finalize(); finalizeErr != nil {
		b.log.Warn("Strategy finalize failed",
			zap.Error(finalizeErr),
		)
	}

	if err = b.assembleResults(tradingDates, portfolioValues, returns); err != nil {
		return err
	}

	if b.resultsFolder != "" {
		if err = b.writeResults(); err != nil {
			return err
		}
	}

	return nil
}

// Results implements engine.Engine.
func (b *BacktestEngineV1) Results() (*types.BacktestResults, error) {
	if b.results == nil {
		return nil, errors.New(errors.ErrCodeBacktestNotRun, "backtest has not been run")
	}

	return b.results, nil
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	return b.config.GenerateSchemaJSON()
}

func (b *BacktestEngineV1) preRunCheck() error {
	if b.log == nil || b.history == nil {
		return errors.New(errors.ErrCodeBacktestStateNil, "engine not initialized")
	}

	if b.strategy == nil {
		b.log.Error("No strategy set")

		return errors.New(errors.ErrCodeStrategyNotSet, "no trading strategy set")
	}

	if len(b.series) == 0 {
		b.log.Error("No price data loaded")

		return errors.New(errors.ErrCodeNoPriceData, "no price data loaded")
	}

	return nil
}

// tradingDates returns the sorted, de-duplicated union of observation dates
// across all tradable symbols, clipped to the configured period.
func (b *BacktestEngineV1) tradingDates() []time.Time {
	seen := make(map[int64]time.Time)

	for _, series := range b.series {
		for _, row := range series {
			if b.config.StartTime.IsSome() && row.Time.Before(b.config.StartTime.Unwrap()) {
				continue
			}

			if b.config.EndTime.IsSome() && row.Time.After(b.config.EndTime.Unwrap()) {
				continue
			}

			seen[row.Time.UnixNano()] = row.Time
		}
	}

	dates := make([]time.Time, 0, len(seen))
	for _, date := range seen {
		dates = append(dates, date)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	return dates
}

func (b *BacktestEngineV1) pricesAt(timestamp time.Time) map[string]float64 {
	prices := make(map[string]float64)

	for symbol, observed := range b.observed {
		if row, ok := observed[timestamp.UnixNano()]; ok && row.Price > 0 {
			prices[symbol] = row.Price
		}
	}

	return prices
}

func (b *BacktestEngineV1) volumeAt(symbol string, timestamp time.Time) float64 {
	if row, ok := b.observed[symbol][timestamp.UnixNano()]; ok && row.Volume > 0 {
		return row.Volume
	}

	return types.DefaultDailyVolume
}

func (b *BacktestEngineV1) volatilityAt(symbol string, timestamp time.Time) float64 {
	if row, ok := b.observed[symbol][timestamp.UnixNano()]; ok && row.Volatility > 0 {
		return row.Volatility
	}

	return types.DefaultVolatility
}

// executePeriod runs one trading date: signals, rebalance plan, execution,
// batch application to the portfolio.
func (b *BacktestEngineV1) executePeriod(timestamp time.Time, prices map[string]float64) error {
	view := strategy.PortfolioView{
		Weights:        b.state.Weights(),
		HoldsPositions: len(b.state.Positions) > 0,
	}

	targetWeights, err := b.strategy.GenerateSignals(timestamp, prices, view)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStrategySignalError, "failed to generate signals", err)
	}

	requiredTrades := b.planner.RequiredTrades(prices, targetWeights, b.state)

	// Deterministic execution order; the rng stream must not depend on map
	// iteration order.
	symbols := make([]string, 0, len(requiredTrades))
	for symbol := range requiredTrades {
		symbols = append(symbols, symbol)
	}

	sort.Strings(symbols)

	var executedTrades []types.ExecutedTrade

	for _, symbol := range symbols {
		quantity := requiredTrades[symbol]
		if math.Abs(quantity) < 1 {
			continue
		}

		marketPrice, ok := prices[symbol]
		if !ok {
			continue
		}

		dailyVolume := b.volumeAt(symbol, timestamp)
		volatility := b.volatilityAt(symbol, timestamp)

		if !b.config.Liquidity.IsTradeFeasible(quantity, dailyVolume) {
			if b.config.EnableTradeSplitting {
				// Chunks are executed without a second feasibility pass.
				for _, chunk := range b.config.Liquidity.SplitTrade(quantity, dailyVolume) {
					trade, tradeErr := b.executor.ExecuteTrade(timestamp, symbol, chunk, marketPrice, dailyVolume, volatility)
					if tradeErr != nil {
						b.log.Warn("Trade chunk rejected",
							zap.String("symbol", symbol),
							zap.Float64("quantity", chunk),
							zap.Error(tradeErr),
						)

						continue
					}

					executedTrades = append(executedTrades, trade)
				}
			}

			continue
		}

		trade, tradeErr := b.executor.ExecuteTrade(timestamp, symbol, quantity, marketPrice, dailyVolume, volatility)
		if tradeErr != nil {
			b.log.Warn("Trade rejected",
				zap.String("symbol", symbol),
				zap.Float64("quantity", quantity),
				zap.Error(tradeErr),
			)

			continue
		}

		executedTrades = append(executedTrades, trade)
	}

	// Snapshots pick up the cost drain of these fills at the next
	// revaluation, matching the reference engine.
	b.state.ApplyTrades(executedTrades)

	if err := b.history.RecordTrades(executedTrades); err != nil {
		return errors.Wrap(errors.ErrCodeHistoryWriteFailed, "failed to record trades", err)
	}

	return nil
}

func (b *BacktestEngineV1) assembleResults(tradingDates []time.Time, portfolioValues, returns []types.SeriesPoint) error {
	values := make([]float64, len(portfolioValues))
	for i, point := range portfolioValues {
		values[i] = point.Value
	}

	returnValues := make([]float64, len(returns))
	for i, point := range returns {
		returnValues[i] = point.Value
	}

	results := &types.BacktestResults{
		ID:              uuid.New().String(),
		EngineVersion:   version.GetVersion(),
		Timestamp:       time.Now(),
		StrategyName:    b.strategy.Name(),
		StartDate:       tradingDates[0],
		EndDate:         tradingDates[len(tradingDates)-1],
		InitialCapital:  b.config.InitialCapital,
		FinalValue:      b.state.TotalValue,
		PortfolioValues: portfolioValues,
		Returns:         returns,
		Drawdowns:       calculateDrawdownSeries(portfolioValues),
		TradeHistory:    b.executor.History(),
	}

	if b.config.StartTime.IsSome() {
		results.StartDate = b.config.StartTime.Unwrap()
	}

	if b.config.EndTime.IsSome() {
		results.EndDate = b.config.EndTime.Unwrap()
	}

	results.Performance = calculatePerformanceMetrics(values, returnValues)

	results.Costs = types.TransactionCosts{
		Commission:   b.executor.totalCommission,
		MarketImpact: b.executor.totalMarketImpact,
		Slippage:     b.executor.totalSlippage,
	}
	results.Costs.Total = results.Costs.Commission + results.Costs.MarketImpact + results.Costs.Slippage

	totalReturn := results.FinalValue - results.InitialCapital
	if totalReturn != 0 {
		results.Costs.CostRatio = results.Costs.Total / math.Abs(totalReturn)
	}

	aggregates, err := b.history.Aggregates()
	if err != nil {
		return errors.Wrap(errors.ErrCodeHistoryReadFailed, "failed to aggregate trade history", err)
	}

	results.Trades = types.TradeSummary{
		TotalTrades:             aggregates.TotalTrades,
		ImplementationShortfall: aggregates.TotalShortfall,
	}

	if aggregates.TotalTrades > 0 {
		results.Trades.AverageTradeSize = aggregates.TotalNotional / float64(aggregates.TotalTrades)
		results.Trades.TurnoverRate = aggregates.TotalNotional / (results.InitialCapital * 2)
	}

	if benchmark := b.benchmarkPrices(); len(benchmark) > 0 {
		results.Benchmark = calculateBenchmarkComparison(b.config.BenchmarkSymbol, benchmark, results.Performance)
	}

	b.results = results

	return nil
}

// benchmarkPrices clips the benchmark series to the configured period.
func (b *BacktestEngineV1) benchmarkPrices() []float64 {
	var prices []float64

	for _, row := range b.benchmark {
		if b.config.StartTime.IsSome() && row.Time.Before(b.config.StartTime.Unwrap()) {
			continue
		}

		if b.config.EndTime.IsSome() && row.Time.After(b.config.EndTime.Unwrap()) {
			continue
		}

		if row.Price > 0 {
			prices = append(prices, row.Price)
		}
	}

	return prices
}

func (b *BacktestEngineV1) writeResults() error {
	if err := os.MkdirAll(b.resultsFolder, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeHistoryWriteFailed, "failed to create results folder", err)
	}

	if err := types.WriteResults(filepath.Join(b.resultsFolder, "results.yaml"), b.results); err != nil {
		return errors.Wrap(errors.ErrCodeHistoryWriteFailed, "failed to write results", err)
	}

	if err := b.history.Write(b.resultsFolder); err != nil {
		return errors.Wrap(errors.ErrCodeHistoryWriteFailed, "failed to write history", err)
	}

	b.log.Info("Backtest results written",
		zap.String("folder", b.resultsFolder),
		zap.String("run_id", b.results.ID),
	)

	return nil
}
