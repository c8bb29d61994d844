package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quantlab/portfolio-insight/internal/analysis"
	"github.com/quantlab/portfolio-insight/internal/cache"
	"github.com/quantlab/portfolio-insight/internal/chart"
	"github.com/quantlab/portfolio-insight/internal/data"
	"github.com/quantlab/portfolio-insight/internal/forecast"
	"github.com/quantlab/portfolio-insight/internal/models"
	"github.com/quantlab/portfolio-insight/internal/portfolio"
	"github.com/quantlab/portfolio-insight/internal/session"
	"github.com/quantlab/portfolio-insight/pkg/indicator"
	"github.com/quantlab/portfolio-insight/pkg/logger"
)

const (
	defaultYears        = 10
	defaultForecastDays = 30
)

// Request describes one analysis run over a batch of symbols.
type Request struct {
	Symbols      []string    `json:"symbols"`
	Market       data.Market `json:"market,omitempty"`
	Years        int         `json:"years,omitempty"`
	ForecastDays int         `json:"forecast_days,omitempty"`
	Investment   float64     `json:"investment,omitempty"`
	RiskProfile  int         `json:"risk_profile,omitempty"`
	IncludeNews  bool        `json:"include_news,omitempty"`
}

// Report is the outcome of one run. Symbols that failed a recoverable
// stage still appear, carrying warnings instead of results.
type Report struct {
	SessionID   string                  `json:"session_id"`
	GeneratedAt time.Time               `json:"generated_at"`
	Results     []*session.SymbolResult `json:"results"`
	Allocations []portfolio.Allocation  `json:"allocations,omitempty"`
}

// Runner drives the per-symbol analysis stages: fetch, indicators,
// return stats, forecast, chart and news. Symbols are independent; a
// failure in one never aborts the batch.
type Runner struct {
	provider     data.Provider
	cache        *cache.SeriesCache
	forecaster   *forecast.Forecaster
	fetchTimeout time.Duration
	defaultYears int
	defaultDays  int
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithCache attaches a series cache. A nil cache is a no-op.
func WithCache(c *cache.SeriesCache) RunnerOption {
	return func(r *Runner) { r.cache = c }
}

// WithFetchTimeout bounds each provider fetch.
func WithFetchTimeout(timeout time.Duration) RunnerOption {
	return func(r *Runner) {
		if timeout > 0 {
			r.fetchTimeout = timeout
		}
	}
}

// WithDefaults overrides the fallback history window and forecast horizon
// used when a request leaves them zero.
func WithDefaults(years, forecastDays int) RunnerOption {
	return func(r *Runner) {
		if years > 0 {
			r.defaultYears = years
		}
		if forecastDays > 0 {
			r.defaultDays = forecastDays
		}
	}
}

// NewRunner creates a Runner over the given market data provider and
// forecaster.
func NewRunner(provider data.Provider, forecaster *forecast.Forecaster, opts ...RunnerOption) *Runner {
	r := &Runner{
		provider:     provider,
		forecaster:   forecaster,
		fetchTimeout: 30 * time.Second,
		defaultYears: defaultYears,
		defaultDays:  defaultForecastDays,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run analyzes every requested symbol and, when an investment amount is
// given, allocates it across the symbols that produced a forecast.
func (r *Runner) Run(ctx context.Context, req Request) (*Report, error) {
	symbols := normalizeSymbols(req.Symbols, req.Market)
	if len(symbols) == 0 {
		return nil, errors.New("request contains no symbols")
	}

	years := req.Years
	if years <= 0 {
		years = r.defaultYears
	}
	days := req.ForecastDays
	if days <= 0 {
		days = r.defaultDays
	}
	rng := data.LastYears(years)

	runsTotal.Inc()
	sess := session.New()
	logger.Info("Analysis run started",
		logger.String("session_id", sess.ID),
		logger.Int("symbols", len(symbols)),
		logger.Int("years", years),
		logger.Int("forecast_days", days),
	)

	for _, symbol := range symbols {
		result := r.analyzeSymbol(ctx, symbol, rng, days, req.IncludeNews)
		sess.Attach(result)

		if result.Series != nil {
			symbolsAnalyzed.Inc()
		}
	}

	report := &Report{
		SessionID:   sess.ID,
		GeneratedAt: sess.CreatedAt,
		Results:     sess.Results(),
	}

	if req.Investment > 0 {
		report.Allocations = portfolio.Allocate(req.Investment, req.RiskProfile, candidates(sess.Results()))
	}

	return report, nil
}

// analyzeSymbol runs every stage for one symbol. Recoverable failures
// are recorded as warnings on the result and later stages that depend on
// the missing piece are skipped.
func (r *Runner) analyzeSymbol(ctx context.Context, symbol string, rng data.Range, forecastDays int, includeNews bool) *session.SymbolResult {
	result := &session.SymbolResult{Symbol: symbol}

	series, err := r.fetchSeries(ctx, symbol, rng)
	if err != nil {
		reason := "fetch_failed"
		if errors.Is(err, models.ErrNoData) {
			reason = "no_data"
		}
		symbolsSkipped.WithLabelValues(reason).Inc()
		logger.Warn("Symbol skipped",
			logger.String("symbol", symbol),
			logger.String("reason", reason),
			logger.ErrorField(err),
		)
		result.Warn(fmt.Sprintf("skipped: %v", err))
		return result
	}
	result.Series = series

	start := time.Now()
	indicators, err := indicator.ComputeAll(series)
	if err != nil {
		result.Warn(fmt.Sprintf("indicators unavailable: %v", err))
	} else {
		result.Indicators = indicators
	}
	stageDuration.WithLabelValues("indicators").Observe(time.Since(start).Seconds())

	if stats, err := analysis.Stats(series); err != nil {
		symbolsSkipped.WithLabelValues("insufficient_history").Inc()
		result.Warn(fmt.Sprintf("return stats unavailable: %v", err))
	} else {
		result.Stats = stats
		result.Backtest = &models.BacktestResult{
			Symbol:      series.Symbol,
			TotalReturn: stats.CumulativeReturn,
		}
	}

	start = time.Now()
	fc, err := r.forecaster.Forecast(series, forecastDays)
	if err != nil {
		result.Warn(fmt.Sprintf("forecast unavailable: %v", err))
		logger.Warn("Forecast failed",
			logger.String("symbol", symbol),
			logger.ErrorField(err),
		)
	} else {
		result.Forecast = fc
	}
	stageDuration.WithLabelValues("forecast").Observe(time.Since(start).Seconds())

	result.Chart = chart.Compose(series, result.Indicators, result.Forecast)

	if includeNews {
		headlines, err := r.provider.News(ctx, symbol)
		if err != nil {
			// News is decorative; log and move on.
			logger.Warn("News fetch failed",
				logger.String("symbol", symbol),
				logger.ErrorField(err),
			)
		} else {
			result.News = headlines
		}
	}

	return result
}

// fetchSeries consults the cache before the provider and writes fresh
// fetches back.
func (r *Runner) fetchSeries(ctx context.Context, symbol string, rng data.Range) (*models.PriceSeries, error) {
	if series, ok := r.cache.Get(ctx, symbol, rng); ok {
		cacheHits.WithLabelValues("hit").Inc()
		return series, nil
	}
	cacheHits.WithLabelValues("miss").Inc()

	fetchCtx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()

	start := time.Now()
	series, err := r.provider.Fetch(fetchCtx, symbol, rng)
	stageDuration.WithLabelValues("fetch").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	r.cache.Set(ctx, symbol, rng, series)
	return series, nil
}

func candidates(results []*session.SymbolResult) []portfolio.Candidate {
	var out []portfolio.Candidate
	for _, r := range results {
		if r.Series == nil || r.Stats == nil || r.Forecast == nil {
			continue
		}
		point, ok := r.Forecast.PointEstimate()
		if !ok {
			continue
		}
		out = append(out, portfolio.Candidate{
			Symbol:        r.Symbol,
			LastClose:     r.Series.Last().Close,
			ForecastPrice: point,
			Volatility:    r.Stats.Volatility,
		})
	}
	return out
}

// normalizeSymbols trims, uppercases, market-qualifies and de-duplicates
// the requested symbols, preserving order.
func normalizeSymbols(symbols []string, market data.Market) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, raw := range symbols {
		trimmed := strings.ToUpper(strings.TrimSpace(raw))
		if trimmed == "" {
			continue
		}
		symbol := data.NormalizeSymbol(trimmed, market)
		if _, dup := seen[symbol]; dup {
			continue
		}
		seen[symbol] = struct{}{}
		out = append(out, symbol)
	}
	return out
}
