package data

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/portfolio-insight/internal/models"
)

func chartJSON(timestamps []int64, closes []interface{}) string {
	quote := func(vals []interface{}) string {
		out := "["
		for i, v := range vals {
			if i > 0 {
				out += ","
			}
			if v == nil {
				out += "null"
			} else {
				out += fmt.Sprintf("%v", v)
			}
		}
		return out + "]"
	}

	ts := "["
	for i, t := range timestamps {
		if i > 0 {
			ts += ","
		}
		ts += fmt.Sprintf("%d", t)
	}
	ts += "]"

	q := quote(closes)
	return fmt.Sprintf(`{"chart":{"result":[{"timestamp":%s,"indicators":{"quote":[{"open":%s,"high":%s,"low":%s,"close":%s,"volume":%s}]}}],"error":null}}`,
		ts, q, q, q, q, q)
}

func TestYahooProvider_Fetch(t *testing.T) {
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).Unix()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v8/finance/chart/AAPL")
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		fmt.Fprint(w, chartJSON(
			[]int64{base, base + 86400, base + 2*86400},
			[]interface{}{100.5, 101.25, 99.75},
		))
	}))
	defer server.Close()

	provider := NewYahooProvider(ProviderConfig{BaseURL: server.URL})
	series, err := provider.Fetch(context.Background(), "AAPL", LastYears(1))
	require.NoError(t, err)

	assert.Equal(t, "AAPL", series.Symbol)
	require.Equal(t, 3, series.Len())
	assert.InDelta(t, 100.5, series.Bars[0].Close, 1e-9)
	assert.InDelta(t, 99.75, series.Last().Close, 1e-9)
}

func TestYahooProvider_FetchSkipsNullBars(t *testing.T) {
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).Unix()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartJSON(
			[]int64{base, base + 86400, base + 2*86400},
			[]interface{}{100.5, nil, 99.75},
		))
	}))
	defer server.Close()

	provider := NewYahooProvider(ProviderConfig{BaseURL: server.URL})
	series, err := provider.Fetch(context.Background(), "AAPL", LastYears(1))
	require.NoError(t, err)

	// The null holiday bar is dropped, not zero-filled.
	assert.Equal(t, 2, series.Len())
}

func TestYahooProvider_FetchUnknownSymbol(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	provider := NewYahooProvider(ProviderConfig{BaseURL: server.URL})
	_, err := provider.Fetch(context.Background(), "ZZZZ", LastYears(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNoData)
}

func TestYahooProvider_FetchAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
	}))
	defer server.Close()

	provider := NewYahooProvider(ProviderConfig{BaseURL: server.URL})
	_, err := provider.Fetch(context.Background(), "ZZZZ", LastYears(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNoData)
}

func TestYahooProvider_FetchEmptySymbol(t *testing.T) {
	provider := NewYahooProvider(ProviderConfig{})
	_, err := provider.Fetch(context.Background(), "", LastYears(1))
	assert.ErrorIs(t, err, models.ErrInvalidSymbol)
}

func TestYahooProvider_News(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v1/finance/search")
		assert.Equal(t, "AAPL", r.URL.Query().Get("q"))
		fmt.Fprint(w, `{"news":[{"title":"Apple rises","link":"https://example.com/a","publisher":"Example"},{"title":"Second","link":"https://example.com/b","publisher":"Example"}]}`)
	}))
	defer server.Close()

	provider := NewYahooProvider(ProviderConfig{BaseURL: server.URL, NewsCount: 2})
	headlines, err := provider.News(context.Background(), "AAPL")
	require.NoError(t, err)

	require.Len(t, headlines, 2)
	assert.Equal(t, "Apple rises", headlines[0].Title)
	assert.Equal(t, "Example", headlines[0].Publisher)
}

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "RELIANCE.NS", NormalizeSymbol("RELIANCE", MarketIndia))
	assert.Equal(t, "AAPL", NormalizeSymbol("AAPL", MarketUS))
	assert.Equal(t, "AAPL", NormalizeSymbol("AAPL", ""))
}

func TestFactory(t *testing.T) {
	factory := NewFactory()

	provider, err := factory.Create("yahoo", ProviderConfig{})
	require.NoError(t, err)
	assert.Equal(t, "yahoo", provider.Name())

	provider, err = factory.Create("mock", ProviderConfig{})
	require.NoError(t, err)
	assert.Equal(t, "mock", provider.Name())

	_, err = factory.Create("bloomberg", ProviderConfig{})
	assert.ErrorIs(t, err, ErrUnknownProvider)
}
