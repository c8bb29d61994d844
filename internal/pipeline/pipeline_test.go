package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/portfolio-insight/internal/data"
	"github.com/quantlab/portfolio-insight/internal/forecast"
)

func trendingCloses(n int, start float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + float64(i)
	}
	return closes
}

func newTestRunner(provider data.Provider) *Runner {
	return NewRunner(provider, forecast.New(), WithDefaults(1, 10))
}

func TestRun_SingleSymbol(t *testing.T) {
	provider := data.NewMockProvider()
	provider.SetSeries("AAPL", data.SeriesFromCloses("AAPL", trendingCloses(30, 100)))

	report, err := newTestRunner(provider).Run(context.Background(), Request{
		Symbols: []string{"aapl"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, report.SessionID)
	require.Len(t, report.Results, 1)

	result := report.Results[0]
	assert.Equal(t, "AAPL", result.Symbol)
	assert.Empty(t, result.Warnings)
	assert.NotEmpty(t, result.Indicators)
	require.NotNil(t, result.Stats)
	require.NotNil(t, result.Backtest)
	require.NotNil(t, result.Forecast)
	assert.Len(t, result.Forecast.Values, 10)
	require.NotNil(t, result.Chart)
	assert.Len(t, result.Chart.Prices, 30)
}

func TestRun_UnknownSymbolIsSkippedNotFatal(t *testing.T) {
	provider := data.NewMockProvider()
	provider.SetSeries("AAPL", data.SeriesFromCloses("AAPL", trendingCloses(30, 100)))

	report, err := newTestRunner(provider).Run(context.Background(), Request{
		Symbols: []string{"AAPL", "ZZZZ"},
	})
	require.NoError(t, err)
	require.Len(t, report.Results, 2)

	// The healthy symbol is fully analyzed.
	assert.Empty(t, report.Results[0].Warnings)
	require.NotNil(t, report.Results[0].Forecast)

	// The unknown one carries a warning and no derived results.
	skipped := report.Results[1]
	assert.Equal(t, "ZZZZ", skipped.Symbol)
	assert.NotEmpty(t, skipped.Warnings)
	assert.Nil(t, skipped.Series)
	assert.Nil(t, skipped.Forecast)
}

func TestRun_ShortHistoryStillReturnsIndicators(t *testing.T) {
	provider := data.NewMockProvider()
	provider.SetSeries("TINY", data.SeriesFromCloses("TINY", trendingCloses(3, 100)))

	report, err := newTestRunner(provider).Run(context.Background(), Request{
		Symbols: []string{"TINY"},
	})
	require.NoError(t, err)

	result := report.Results[0]
	assert.NotEmpty(t, result.Indicators)
	assert.NotNil(t, result.Stats)
	// The forecast needs more history and is omitted with a warning.
	assert.Nil(t, result.Forecast)
	assert.NotEmpty(t, result.Warnings)
}

func TestRun_NoSymbols(t *testing.T) {
	provider := data.NewMockProvider()

	_, err := newTestRunner(provider).Run(context.Background(), Request{})
	assert.Error(t, err)

	_, err = newTestRunner(provider).Run(context.Background(), Request{Symbols: []string{"  ", ""}})
	assert.Error(t, err)
}

func TestRun_DeduplicatesSymbols(t *testing.T) {
	provider := data.NewMockProvider()
	provider.SetSeries("AAPL", data.SeriesFromCloses("AAPL", trendingCloses(30, 100)))

	report, err := newTestRunner(provider).Run(context.Background(), Request{
		Symbols: []string{"AAPL", "aapl", " AAPL "},
	})
	require.NoError(t, err)
	assert.Len(t, report.Results, 1)
}

func TestRun_IndiaMarketSuffix(t *testing.T) {
	provider := data.NewMockProvider()
	provider.SetSeries("RELIANCE.NS", data.SeriesFromCloses("RELIANCE.NS", trendingCloses(30, 2500)))

	report, err := newTestRunner(provider).Run(context.Background(), Request{
		Symbols: []string{"RELIANCE"},
		Market:  data.MarketIndia,
	})
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "RELIANCE.NS", report.Results[0].Symbol)
	assert.Empty(t, report.Results[0].Warnings)
}

func TestRun_AllocatesInvestment(t *testing.T) {
	provider := data.NewMockProvider()
	provider.SetSeries("AAA", data.SeriesFromCloses("AAA", trendingCloses(30, 100)))
	provider.SetSeries("BBB", data.SeriesFromCloses("BBB", trendingCloses(30, 50)))

	report, err := newTestRunner(provider).Run(context.Background(), Request{
		Symbols:     []string{"AAA", "BBB"},
		Investment:  10000,
		RiskProfile: 2,
	})
	require.NoError(t, err)
	require.Len(t, report.Allocations, 2)

	var total float64
	for _, a := range report.Allocations {
		total += a.Amount
	}
	assert.InDelta(t, 10000, total, 1e-6)
}

func TestRun_SkippedSymbolExcludedFromAllocation(t *testing.T) {
	provider := data.NewMockProvider()
	provider.SetSeries("AAA", data.SeriesFromCloses("AAA", trendingCloses(30, 100)))

	report, err := newTestRunner(provider).Run(context.Background(), Request{
		Symbols:    []string{"AAA", "ZZZZ"},
		Investment: 1000,
	})
	require.NoError(t, err)

	require.Len(t, report.Allocations, 1)
	assert.Equal(t, "AAA", report.Allocations[0].Symbol)
	assert.InDelta(t, 1000, report.Allocations[0].Amount, 1e-9)
}

func TestRun_IncludesNews(t *testing.T) {
	provider := data.NewMockProvider()
	provider.SetSeries("AAPL", data.SeriesFromCloses("AAPL", trendingCloses(30, 100)))
	provider.SetHeadlines("AAPL", []data.Headline{{Title: "Apple rises", Publisher: "Example"}})

	report, err := newTestRunner(provider).Run(context.Background(), Request{
		Symbols:     []string{"AAPL"},
		IncludeNews: true,
	})
	require.NoError(t, err)
	require.Len(t, report.Results[0].News, 1)
	assert.Equal(t, "Apple rises", report.Results[0].News[0].Title)
}
