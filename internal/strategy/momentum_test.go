package strategy

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMomentumFallsBackUntilWindowFills(t *testing.T) {
	s := &MomentumStrategy{}
	require.NoError(t, s.Initialize("symbols: [AAPL, MSFT]\nlookback_period: 3\ntop_n: 1"))

	now := time.Now()
	prices := map[string]float64{"AAPL": 100, "MSFT": 370}

	for day := 0; day < 2; day++ {
		weights, err := s.GenerateSignals(now.AddDate(0, 0, day), prices, PortfolioView{})
		require.NoError(t, err)
		assert.Equal(t, map[string]float64{"AAPL": 0.5, "MSFT": 0.5}, weights, "day %d", day)
	}
}

func TestMomentumSelectsTopPerformers(t *testing.T) {
	s := &MomentumStrategy{}
	require.NoError(t, s.Initialize("symbols: [AAPL, MSFT, GOOG]\nlookback_period: 3\ntop_n: 2"))

	now := time.Now()

	// AAPL rallies, GOOG drifts up, MSFT sells off.
	days := []map[string]float64{
		{"AAPL": 100, "MSFT": 370, "GOOG": 150},
		{"AAPL": 105, "MSFT": 365, "GOOG": 151},
		{"AAPL": 112, "MSFT": 358, "GOOG": 153},
	}

	var (
		weights map[string]float64
		err     error
	)

	for day, prices := range days {
		weights, err = s.GenerateSignals(now.AddDate(0, 0, day), prices, PortfolioView{})
		require.NoError(t, err)
	}

	assert.Equal(t, map[string]float64{"AAPL": 0.5, "GOOG": 0.5}, weights)
}

func TestMomentumWindowSlides(t *testing.T) {
	s := &MomentumStrategy{}
	require.NoError(t, s.Initialize("symbols: [AAPL]\nlookback_period: 2\ntop_n: 1"))

	now := time.Now()

	for day, price := range []float64{100, 110, 90} {
		_, err := s.GenerateSignals(now.AddDate(0, 0, day), map[string]float64{"AAPL": price}, PortfolioView{})
		require.NoError(t, err)
	}

	assert.Equal(t, []float64{110, 90}, s.priceHistory["AAPL"])
}

func TestMomentumTopNClampedToAvailableSymbols(t *testing.T) {
	s := &MomentumStrategy{}
	require.NoError(t, s.Initialize("symbols: [AAPL]\nlookback_period: 2\ntop_n: 5"))

	now := time.Now()

	var (
		weights map[string]float64
		err     error
	)

	for day, price := range []float64{100, 101} {
		weights, err = s.GenerateSignals(now.AddDate(0, 0, day), map[string]float64{"AAPL": price}, PortfolioView{})
		require.NoError(t, err)
	}

	assert.Equal(t, map[string]float64{"AAPL": 1.0}, weights)
}

func TestMomentumConfigValidation(t *testing.T) {
	cases := []string{
		"symbols: []",
		"symbols: [AAPL]\nlookback_period: 1",
		"symbols: [AAPL]\ntop_n: 0",
	}

	for i, config := range cases {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			s := &MomentumStrategy{}
			require.Error(t, s.Initialize(config))
		})
	}
}
