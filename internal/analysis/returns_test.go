package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/portfolio-insight/internal/models"
)

func seriesFromCloses(t *testing.T, closes []float64) *models.PriceSeries {
	t.Helper()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = models.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}

	series, err := models.NewPriceSeries("TEST", bars)
	require.NoError(t, err)
	return series
}

func TestReturns(t *testing.T) {
	series := seriesFromCloses(t, []float64{100, 110, 99})

	returns, err := Returns(series)
	require.NoError(t, err)
	require.Len(t, returns, 2)

	assert.InDelta(t, 0.1, returns[0], 1e-9)
	assert.InDelta(t, -0.1, returns[1], 1e-9)
}

func TestReturns_InsufficientHistory(t *testing.T) {
	series := seriesFromCloses(t, []float64{100})

	_, err := Returns(series)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInsufficientHistory)
}

func TestCumulativeReturn_RoundTrip(t *testing.T) {
	closes := []float64{100, 104, 97, 103, 110}
	series := seriesFromCloses(t, closes)

	returns, err := Returns(series)
	require.NoError(t, err)

	// Compounding the returns reconstructs the overall price move.
	cumulative := CumulativeReturn(returns)
	assert.InDelta(t, closes[len(closes)-1]/closes[0]-1, cumulative, 1e-9)
}

func TestVolatility(t *testing.T) {
	// Sample stdev of {0.1, -0.1}: mean 0, variance 0.02/1
	returns := []float64{0.1, -0.1}
	assert.InDelta(t, 0.1414213562, Volatility(returns), 1e-9)

	// Fewer than two returns carry no dispersion
	assert.Zero(t, Volatility([]float64{0.1}))
	assert.Zero(t, Volatility(nil))
}

func TestStats(t *testing.T) {
	series := seriesFromCloses(t, []float64{100, 110, 99})

	stats, err := Stats(series)
	require.NoError(t, err)

	assert.Len(t, stats.Returns, 2)
	assert.InDelta(t, -0.01, stats.CumulativeReturn, 1e-9)
	assert.InDelta(t, 0.1414213562, stats.Volatility, 1e-9)
}

func TestBacktest(t *testing.T) {
	series := seriesFromCloses(t, []float64{100, 120})

	result, err := Backtest(series)
	require.NoError(t, err)

	assert.Equal(t, "TEST", result.Symbol)
	assert.InDelta(t, 0.2, result.TotalReturn, 1e-9)
}
