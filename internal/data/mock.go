package data

import (
	"context"
	"fmt"
	"time"

	"github.com/quantlab/portfolio-insight/internal/models"
)

// MockProvider serves canned series for tests and local development.
type MockProvider struct {
	series    map[string]*models.PriceSeries
	headlines map[string][]Headline
	fetchErr  map[string]error
}

// NewMockProvider creates an empty mock provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		series:    make(map[string]*models.PriceSeries),
		headlines: make(map[string][]Headline),
		fetchErr:  make(map[string]error),
	}
}

func (p *MockProvider) Name() string { return "mock" }

// SetSeries registers a canned series for a symbol.
func (p *MockProvider) SetSeries(symbol string, series *models.PriceSeries) {
	p.series[symbol] = series
}

// SetFetchError makes Fetch fail for a symbol.
func (p *MockProvider) SetFetchError(symbol string, err error) {
	p.fetchErr[symbol] = err
}

// SetHeadlines registers canned headlines for a symbol.
func (p *MockProvider) SetHeadlines(symbol string, headlines []Headline) {
	p.headlines[symbol] = headlines
}

// Fetch returns the canned series, models.ErrNoData when none is registered.
func (p *MockProvider) Fetch(ctx context.Context, symbol string, rng Range) (*models.PriceSeries, error) {
	if err := p.fetchErr[symbol]; err != nil {
		return nil, err
	}
	series, ok := p.series[symbol]
	if !ok {
		return nil, fmt.Errorf("symbol %s: %w", symbol, models.ErrNoData)
	}
	return series, nil
}

// News returns the canned headlines, which may be empty.
func (p *MockProvider) News(ctx context.Context, symbol string) ([]Headline, error) {
	return p.headlines[symbol], nil
}

// SeriesFromCloses builds a daily series from close prices, spacing bars
// one day apart ending today. Open/high/low are derived from the close.
func SeriesFromCloses(symbol string, closes []float64) *models.PriceSeries {
	start := time.Now().UTC().AddDate(0, 0, -len(closes))
	bars := make([]models.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = models.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1000,
		}
	}
	series, err := models.NewPriceSeries(symbol, bars)
	if err != nil {
		panic(err)
	}
	return series
}
