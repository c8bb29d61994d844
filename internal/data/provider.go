package data

import (
	"context"
	"errors"
	"time"

	"github.com/quantlab/portfolio-insight/internal/models"
)

var (
	// ErrUnknownProvider is returned for provider types the factory does not know
	ErrUnknownProvider = errors.New("unknown provider type")
)

// Range is the requested calendar span of daily bars.
type Range struct {
	Start time.Time
	End   time.Time
}

// LastYears builds a range covering the trailing number of years up to now.
func LastYears(years int) Range {
	now := time.Now()
	return Range{Start: now.AddDate(-years, 0, 0), End: now}
}

// Headline is one news item attached to a symbol.
type Headline struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Publisher string `json:"publisher"`
}

// Provider defines the interface for historical price-data providers.
// An empty provider response maps to models.ErrNoData rather than an
// empty series.
type Provider interface {
	// Fetch returns daily bars for the symbol over the range
	Fetch(ctx context.Context, symbol string, rng Range) (*models.PriceSeries, error)

	// News returns recent headlines for the symbol
	News(ctx context.Context, symbol string) ([]Headline, error)

	// Name returns the provider type (e.g., "yahoo")
	Name() string
}

// Market selects the exchange conventions applied to user-entered symbols.
type Market string

const (
	MarketUS    Market = "us"
	MarketIndia Market = "india"
)

// NormalizeSymbol maps a user-entered symbol to the provider ticker for
// the market, e.g. NSE-listed symbols carry a ".NS" suffix.
func NormalizeSymbol(symbol string, market Market) string {
	if market == MarketIndia {
		return symbol + ".NS"
	}
	return symbol
}

// Factory creates provider instances by type name.
type Factory struct {
	factories map[string]func(ProviderConfig) (Provider, error)
}

// ProviderConfig holds configuration shared by provider implementations.
type ProviderConfig struct {
	BaseURL      string
	FetchTimeout time.Duration
	NewsCount    int
}

// NewFactory creates a factory with the built-in providers registered.
func NewFactory() *Factory {
	f := &Factory{factories: make(map[string]func(ProviderConfig) (Provider, error))}
	f.Register("yahoo", func(cfg ProviderConfig) (Provider, error) {
		return NewYahooProvider(cfg), nil
	})
	f.Register("mock", func(cfg ProviderConfig) (Provider, error) {
		return NewMockProvider(), nil
	})
	return f
}

// Register adds a provider constructor under the given type name.
func (f *Factory) Register(providerType string, constructor func(ProviderConfig) (Provider, error)) {
	f.factories[providerType] = constructor
}

// Create builds a provider of the given type.
func (f *Factory) Create(providerType string, cfg ProviderConfig) (Provider, error) {
	constructor, ok := f.factories[providerType]
	if !ok {
		return nil, ErrUnknownProvider
	}
	return constructor(cfg)
}
