package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/quantlab/portfolio-insight/internal/analysis"
	"github.com/quantlab/portfolio-insight/internal/chart"
	"github.com/quantlab/portfolio-insight/internal/data"
	"github.com/quantlab/portfolio-insight/internal/models"
)

// SymbolResult holds everything one pipeline run derived for one symbol.
// A symbol that could not be analyzed carries only Warnings.
type SymbolResult struct {
	Symbol     string                   `json:"symbol"`
	Series     *models.PriceSeries      `json:"-"`
	Indicators []models.IndicatorResult `json:"indicators,omitempty"`
	Stats      *analysis.ReturnStats    `json:"stats,omitempty"`
	Backtest   *models.BacktestResult   `json:"backtest,omitempty"`
	Forecast   *models.ForecastResult   `json:"forecast,omitempty"`
	Chart      *chart.Spec              `json:"chart,omitempty"`
	News       []data.Headline          `json:"news,omitempty"`
	Warnings   []string                 `json:"warnings,omitempty"`
}

// Warn records a recoverable per-symbol problem.
func (r *SymbolResult) Warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Session is the explicit holder of one pipeline run's fetched data and
// derived results. It is created when a run begins, owned exclusively by
// that run, and discarded when the next run replaces it; nothing is
// shared across concurrent requests.
type Session struct {
	ID        string
	CreatedAt time.Time

	results []*SymbolResult
}

// New starts an empty session.
func New() *Session {
	return &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
	}
}

// Attach adds a symbol's results to the session.
func (s *Session) Attach(result *SymbolResult) {
	s.results = append(s.results, result)
}

// Results returns the per-symbol results in analysis order.
func (s *Session) Results() []*SymbolResult {
	return s.results
}

// Result returns the result for a symbol, if the session analyzed it.
func (s *Session) Result(symbol string) (*SymbolResult, bool) {
	for _, r := range s.results {
		if r.Symbol == symbol {
			return r, true
		}
	}
	return nil, false
}
