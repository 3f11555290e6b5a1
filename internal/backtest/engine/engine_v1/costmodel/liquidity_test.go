package costmodel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
)

type LiquidityTestSuite struct {
	suite.Suite
}

func TestLiquiditySuite(t *testing.T) {
	suite.Run(t, new(LiquidityTestSuite))
}

func (suite *LiquidityTestSuite) TestIsTradeFeasible() {
	constraints := LiquidityConstraints{
		MaxParticipationRate: 0.2,
		MinTradeSize:         1.0,
		MaxTradeSize:         1e6,
	}

	tests := []struct {
		name     string
		size     float64
		volume   float64
		expected bool
	}{
		{"normal trade", 10_000, 1_000_000, true},
		{"sell trade", -10_000, 1_000_000, true},
		{"exactly at participation limit", 200_000, 1_000_000, true},
		{"over participation limit", 200_001, 1_000_000, false},
		{"below min trade size", 0.5, 1_000_000, false},
		{"above max trade size", 2e6, 100_000_000, false},
		{"zero volume", 100, 0, false},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, constraints.IsTradeFeasible(tc.size, tc.volume))
		})
	}
}

func (suite *LiquidityTestSuite) TestSplitTradeInvariants() {
	constraints := LiquidityConstraints{
		MaxParticipationRate: 0.2,
		MinTradeSize:         10.0,
		MaxTradeSize:         1e6,
	}

	tests := []struct {
		name   string
		size   float64
		volume float64
	}{
		{"large buy", 500_000, 1_000_000},
		{"large sell", -500_000, 1_000_000},
		{"not evenly divisible", 450_123, 1_000_000},
		{"small enough for one chunk", 50_000, 1_000_000},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			chunks := constraints.SplitTrade(tc.size, tc.volume)
			maxChunk := tc.volume * constraints.MaxParticipationRate

			total := 0.0

			for _, chunk := range chunks {
				// Every chunk shares the sign of the requested trade.
				suite.True(chunk*tc.size > 0)
				suite.LessOrEqual(math.Abs(chunk), maxChunk+1e-9)
				total += math.Abs(chunk)
			}

			// The dropped remainder is below the minimum trade size.
			suite.Less(math.Abs(tc.size)-total, constraints.MinTradeSize+1e-9)
		})
	}
}

func (suite *LiquidityTestSuite) TestSplitTradeDropsTinyRemainder() {
	constraints := LiquidityConstraints{
		MaxParticipationRate: 0.5,
		MinTradeSize:         10.0,
		MaxTradeSize:         1e6,
	}

	// 105 shares against a 100-share chunk limit: one chunk of 100. The
	// trailing 5 is below MinTradeSize and is dropped, not executed.
	chunks := constraints.SplitTrade(105, 200)

	suite.Len(chunks, 1)
	suite.InDelta(100, chunks[0], 1e-9)
}

func (suite *LiquidityTestSuite) TestSplitTradeZeroVolume() {
	constraints := DefaultLiquidityConstraints()

	suite.Nil(constraints.SplitTrade(100, 0))
}
