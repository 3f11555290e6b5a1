package datasource

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/argo-portfolio/internal/types"
	"github.com/rxtech-lab/argo-portfolio/pkg/errors"
)

type MemoryDataSourceTestSuite struct {
	suite.Suite

	source *MemoryDataSource
}

func TestMemoryDataSourceSuite(t *testing.T) {
	suite.Run(t, new(MemoryDataSourceTestSuite))
}

func (suite *MemoryDataSourceTestSuite) SetupTest() {
	suite.source = NewMemoryDataSource()
}

func (suite *MemoryDataSourceTestSuite) TestAddKeepsSeriesSorted() {
	day := func(d int) time.Time {
		return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
	}

	suite.source.Add("AAPL", []types.MarketData{
		{Symbol: "AAPL", Time: day(3), Price: 102},
		{Symbol: "AAPL", Time: day(2), Price: 100},
	})
	suite.source.Add("AAPL", []types.MarketData{
		{Symbol: "AAPL", Time: day(1), Price: 99},
	})

	series, err := suite.source.Series("AAPL")
	suite.Require().NoError(err)
	suite.Require().Len(series, 3)
	suite.Equal(99.0, series[0].Price)
	suite.Equal(100.0, series[1].Price)
	suite.Equal(102.0, series[2].Price)
}

func (suite *MemoryDataSourceTestSuite) TestSymbolsSorted() {
	now := time.Now()

	suite.source.Add("MSFT", []types.MarketData{{Symbol: "MSFT", Time: now, Price: 370}})
	suite.source.Add("AAPL", []types.MarketData{{Symbol: "AAPL", Time: now, Price: 100}})

	symbols, err := suite.source.Symbols()

	suite.Require().NoError(err)
	suite.Equal([]string{"AAPL", "MSFT"}, symbols)
}

func (suite *MemoryDataSourceTestSuite) TestUnknownSymbol() {
	_, err := suite.source.Series("TSLA")

	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataNotFound))
}

func (suite *MemoryDataSourceTestSuite) TestCloseClears() {
	suite.source.Add("AAPL", []types.MarketData{{Symbol: "AAPL", Time: time.Now(), Price: 100}})
	suite.Require().NoError(suite.source.Close())

	symbols, err := suite.source.Symbols()

	suite.Require().NoError(err)
	suite.Empty(symbols)
}
