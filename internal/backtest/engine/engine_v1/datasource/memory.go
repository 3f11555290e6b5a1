package datasource

import (
	"sort"

	"github.com/rxtech-lab/argo-portfolio/internal/types"
	"github.com/rxtech-lab/argo-portfolio/pkg/errors"
)

// MemoryDataSource serves series supplied programmatically. Used for tests
// and for callers that already hold their data in memory.
type MemoryDataSource struct {
	series map[string][]types.MarketData
}

func NewMemoryDataSource() *MemoryDataSource {
	return &MemoryDataSource{
		series: make(map[string][]types.MarketData),
	}
}

// Add appends observations for a symbol, keeping the series time-sorted.
func (m *MemoryDataSource) Add(symbol string, data []types.MarketData) {
	m.series[symbol] = append(m.series[symbol], data...)
	sort.Slice(m.series[symbol], func(i, j int) bool {
		return m.series[symbol][i].Time.Before(m.series[symbol][j].Time)
	})
}

// Initialize implements DataSource. The path is ignored.
func (m *MemoryDataSource) Initialize(path string) error {
	return nil
}

// Symbols implements DataSource.
func (m *MemoryDataSource) Symbols() ([]string, error) {
	symbols := make([]string, 0, len(m.series))
	for symbol := range m.series {
		symbols = append(symbols, symbol)
	}

	sort.Strings(symbols)

	return symbols, nil
}

// Series implements DataSource.
func (m *MemoryDataSource) Series(symbol string) ([]types.MarketData, error) {
	series, ok := m.series[symbol]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "no data for symbol %s", symbol)
	}

	return series, nil
}

// Close implements DataSource.
func (m *MemoryDataSource) Close() error {
	m.series = make(map[string][]types.MarketData)

	return nil
}
