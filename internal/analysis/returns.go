package analysis

import (
	"fmt"
	"math"

	"github.com/quantlab/portfolio-insight/internal/models"
)

// ReturnStats bundles the return and risk figures derived from one series.
type ReturnStats struct {
	Returns          []float64 `json:"-"`
	CumulativeReturn float64   `json:"cumulative_return"`
	Volatility       float64   `json:"volatility"`
}

// Returns computes per-bar simple returns r_t = close_t/close_{t-1} - 1.
// The first bar has no return, so the result has series.Len()-1 entries.
func Returns(series *models.PriceSeries) ([]float64, error) {
	if series == nil || series.Len() < 2 {
		return nil, fmt.Errorf("per-bar returns need at least 2 bars: %w", models.ErrInsufficientHistory)
	}

	closes := series.Closes()
	returns := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		returns[i-1] = closes[i]/closes[i-1] - 1
	}
	return returns, nil
}

// CumulativeReturn compounds per-bar returns: C = prod(1+r_t) - 1.
func CumulativeReturn(returns []float64) float64 {
	cumulative := 1.0
	for _, r := range returns {
		cumulative *= 1 + r
	}
	return cumulative - 1
}

// Volatility is the sample standard deviation of the per-bar returns.
// Fewer than two returns carry no dispersion information, so it is 0.
func Volatility(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var sq float64
	for _, r := range returns {
		d := r - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(returns)-1))
}

// Stats derives the full return/risk summary for a series.
func Stats(series *models.PriceSeries) (*ReturnStats, error) {
	returns, err := Returns(series)
	if err != nil {
		return nil, err
	}

	return &ReturnStats{
		Returns:          returns,
		CumulativeReturn: CumulativeReturn(returns),
		Volatility:       Volatility(returns),
	}, nil
}

// Backtest reports the total cumulative return of holding the symbol over
// the full available history.
func Backtest(series *models.PriceSeries) (*models.BacktestResult, error) {
	stats, err := Stats(series)
	if err != nil {
		return nil, err
	}

	return &models.BacktestResult{
		Symbol:      series.Symbol,
		TotalReturn: stats.CumulativeReturn,
	}, nil
}
