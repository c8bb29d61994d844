package data

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/quantlab/portfolio-insight/internal/models"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooProvider fetches daily bars from the Yahoo Finance chart API.
type YahooProvider struct {
	client    *http.Client
	baseURL   string
	newsCount int
}

// NewYahooProvider creates a Yahoo Finance provider.
func NewYahooProvider(cfg ProviderConfig) *YahooProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultYahooBaseURL
	}
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	newsCount := cfg.NewsCount
	if newsCount <= 0 {
		newsCount = 3
	}
	return &YahooProvider{
		client:    &http.Client{Timeout: timeout},
		baseURL:   baseURL,
		newsCount: newsCount,
	}
}

func (p *YahooProvider) Name() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// yahooSearch is the response structure from the Yahoo Finance search API.
type yahooSearch struct {
	News []struct {
		Title     string `json:"title"`
		Link      string `json:"link"`
		Publisher string `json:"publisher"`
	} `json:"news"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func toInt64(v interface{}) int64 {
	return int64(toFloat(v))
}

// Fetch returns daily bars for the symbol between rng.Start and rng.End.
// Unknown symbols and closed-market ranges come back as models.ErrNoData.
func (p *YahooProvider) Fetch(ctx context.Context, symbol string, rng Range) (*models.PriceSeries, error) {
	if symbol == "" {
		return nil, models.ErrInvalidSymbol
	}

	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		p.baseURL, url.PathEscape(symbol), rng.Start.Unix(), rng.End.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("symbol %s: %w", symbol, models.ErrNoData)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error %s: %w", chart.Chart.Error.Description, models.ErrNoData)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("symbol %s: %w", symbol, models.ErrNoData)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("symbol %s: %w", symbol, models.ErrNoData)
	}
	quote := result.Indicators.Quote[0]

	bars := make([]models.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		c := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, models.PriceBar{
			Date:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: toInt64(quote.Volume[i]),
		})
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("symbol %s: %w", symbol, models.ErrNoData)
	}

	return models.NewPriceSeries(symbol, bars)
}

// News returns recent headlines for the symbol from the search API.
func (p *YahooProvider) News(ctx context.Context, symbol string) ([]Headline, error) {
	u := fmt.Sprintf("%s/v1/finance/search?q=%s&newsCount=%d",
		p.baseURL, url.QueryEscape(symbol), p.newsCount)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo news: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo news: status %d", resp.StatusCode)
	}

	var search yahooSearch
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		return nil, fmt.Errorf("yahoo news decode: %w", err)
	}

	headlines := make([]Headline, 0, len(search.News))
	for _, item := range search.News {
		headlines = append(headlines, Headline{
			Title:     item.Title,
			Link:      item.Link,
			Publisher: item.Publisher,
		})
		if len(headlines) >= p.newsCount {
			break
		}
	}
	return headlines, nil
}
