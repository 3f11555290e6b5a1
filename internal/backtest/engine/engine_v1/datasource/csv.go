package datasource

import (
	"os"
	"sort"

	"github.com/gocarina/gocsv"

	"github.com/rxtech-lab/argo-portfolio/internal/types"
	"github.com/rxtech-lab/argo-portfolio/pkg/errors"
)

// CSVDataSource reads market data from a CSV file with columns
// symbol,time,price,volume,volatility. Rows for all symbols may be mixed in
// one file; they are grouped and sorted on load.
type CSVDataSource struct {
	path   string
	series map[string][]types.MarketData
}

func NewCSVDataSource() *CSVDataSource {
	return &CSVDataSource{}
}

// Initialize implements DataSource.
func (c *CSVDataSource) Initialize(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to open CSV file %s", path)
	}
	defer file.Close()

	var rows []types.MarketData
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return errors.Wrapf(errors.ErrCodeDataParseFailed, err, "failed to parse CSV file %s", path)
	}

	series := make(map[string][]types.MarketData)
	for _, row := range rows {
		series[row.Symbol] = append(series[row.Symbol], row)
	}

	for symbol := range series {
		sort.Slice(series[symbol], func(i, j int) bool {
			return series[symbol][i].Time.Before(series[symbol][j].Time)
		})
	}

	c.path = path
	c.series = series

	return nil
}

// Symbols implements DataSource.
func (c *CSVDataSource) Symbols() ([]string, error) {
	if c.series == nil {
		return nil, errors.New(errors.ErrCodeDataSourceUnavailable, "data source not initialized")
	}

	symbols := make([]string, 0, len(c.series))
	for symbol := range c.series {
		symbols = append(symbols, symbol)
	}

	sort.Strings(symbols)

	return symbols, nil
}

// Series implements DataSource.
func (c *CSVDataSource) Series(symbol string) ([]types.MarketData, error) {
	if c.series == nil {
		return nil, errors.New(errors.ErrCodeDataSourceUnavailable, "data source not initialized")
	}

	series, ok := c.series[symbol]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "no data for symbol %s", symbol)
	}

	return series, nil
}

// Close implements DataSource.
func (c *CSVDataSource) Close() error {
	c.series = nil

	return nil
}
