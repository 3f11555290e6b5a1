// Package history persists the audit trail of a backtest run: every
// executed trade and every per-date portfolio snapshot, stored in an
// embedded DuckDB database so results can be inspected with SQL after the
// run.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-portfolio/internal/logger"
	"github.com/rxtech-lab/argo-portfolio/internal/types"
)

// Store is the DuckDB-backed audit store for one backtest run.
type Store struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// TradeAggregates summarizes the stored trade history, computed in SQL at
// finalization time.
type TradeAggregates struct {
	TotalTrades   int
	TotalNotional float64
	// TotalShortfall is the summed signed implementation shortfall.
	TotalShortfall float64
}

func NewStore(logger *logger.Logger) (*Store, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	return &Store{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Initialize creates the trades and snapshots tables.
func (s *Store) Initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS trades (
			id TEXT PRIMARY KEY,
			timestamp TIMESTAMP,
			symbol TEXT,
			quantity DOUBLE,
			execution_price DOUBLE,
			market_price DOUBLE,
			commission DOUBLE,
			market_impact DOUBLE,
			slippage DOUBLE,
			total_cost DOUBLE,
			side TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create trades table: %w", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			timestamp TIMESTAMP,
			total_value DOUBLE,
			cash DOUBLE,
			period_return DOUBLE
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create snapshots table: %w", err)
	}

	return nil
}

// RecordTrades appends a batch of executed trades.
func (s *Store) RecordTrades(trades []types.ExecutedTrade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, trade := range trades {
		insertQuery := s.sq.
			Insert("trades").
			Columns(
				"id", "timestamp", "symbol", "quantity", "execution_price",
				"market_price", "commission", "market_impact", "slippage",
				"total_cost", "side",
			).
			Values(
				trade.ID, trade.Timestamp, trade.Symbol, trade.Quantity,
				trade.ExecutionPrice, trade.MarketPrice, trade.Commission,
				trade.MarketImpact, trade.Slippage, trade.TotalCost,
				string(trade.Side),
			).
			RunWith(tx)

		if _, err := insertQuery.Exec(); err != nil {
			tx.Rollback()

			return fmt.Errorf("failed to insert trade: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RecordSnapshot appends one per-date portfolio snapshot. periodReturn is
// zero for the first recorded date.
func (s *Store) RecordSnapshot(point types.SeriesPoint, cash float64, periodReturn float64) error {
	insertQuery := s.sq.
		Insert("snapshots").
		Columns("timestamp", "total_value", "cash", "period_return").
		Values(point.Time, point.Value, cash, periodReturn).
		RunWith(s.db)

	if _, err := insertQuery.Exec(); err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return nil
}

// GetTrades returns all stored trades in execution order.
func (s *Store) GetTrades() ([]types.ExecutedTrade, error) {
	selectQuery := s.sq.
		Select(
			"id", "timestamp", "symbol", "quantity", "execution_price",
			"market_price", "commission", "market_impact", "slippage",
			"total_cost", "side",
		).
		From("trades").
		OrderBy("timestamp ASC").
		RunWith(s.db)

	rows, err := selectQuery.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []types.ExecutedTrade

	for rows.Next() {
		var trade types.ExecutedTrade

		var side string

		err := rows.Scan(
			&trade.ID,
			&trade.Timestamp,
			&trade.Symbol,
			&trade.Quantity,
			&trade.ExecutionPrice,
			&trade.MarketPrice,
			&trade.Commission,
			&trade.MarketImpact,
			&trade.Slippage,
			&trade.TotalCost,
			&side,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}

		trade.Side = types.TradeSide(side)
		trades = append(trades, trade)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}

	return trades, nil
}

// Aggregates computes trade-history summary statistics in SQL.
func (s *Store) Aggregates() (TradeAggregates, error) {
	query := `
		SELECT
			COUNT(*) as total_trades,
			COALESCE(SUM(ABS(quantity) * execution_price), 0) as total_notional,
			COALESCE(SUM((execution_price - market_price) * quantity), 0) as total_shortfall
		FROM trades
	`

	var aggregates TradeAggregates

	err := s.db.QueryRow(query).Scan(
		&aggregates.TotalTrades,
		&aggregates.TotalNotional,
		&aggregates.TotalShortfall,
	)
	if err != nil {
		return TradeAggregates{}, fmt.Errorf("failed to query trade aggregates: %w", err)
	}

	return aggregates, nil
}

// Write exports the trades and snapshots tables to Parquet files in the
// given directory.
func (s *Store) Write(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tradesPath := filepath.Join(path, "trades.parquet")
	if _, err := s.db.Exec(fmt.Sprintf(`COPY trades TO '%s' (FORMAT PARQUET)`, tradesPath)); err != nil {
		return fmt.Errorf("failed to export trades to Parquet: %w", err)
	}

	snapshotsPath := filepath.Join(path, "snapshots.parquet")
	if _, err := s.db.Exec(fmt.Sprintf(`COPY snapshots TO '%s' (FORMAT PARQUET)`, snapshotsPath)); err != nil {
		return fmt.Errorf("failed to export snapshots to Parquet: %w", err)
	}

	s.logger.Info("Exported backtest history",
		zap.String("trades", tradesPath),
		zap.String("snapshots", snapshotsPath),
	)

	return nil
}

// Cleanup drops and recreates the tables.
func (s *Store) Cleanup() error {
	_, err := s.db.Exec(`
		DROP TABLE IF EXISTS trades;
		DROP TABLE IF EXISTS snapshots;
	`)
	if err != nil {
		return fmt.Errorf("failed to cleanup tables: %w", err)
	}

	return s.Initialize()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
