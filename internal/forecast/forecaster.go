package forecast

import (
	"fmt"

	"github.com/quantlab/portfolio-insight/internal/models"
)

const (
	// trainSplit is the fraction of lagged samples used for training; the
	// remainder is held out, matching the original model setup.
	trainSplit = 0.8

	// minTrainRows is the smallest training partition worth fitting.
	minTrainRows = 5
)

// Forecaster produces near-term price point estimates from a lag-1
// regression over the close series.
//
// The default (literal) mode reproduces the behavior observed in the
// original dashboard: every future step evaluates the model on the same
// fixed last-known lag value, so a deterministic model emits the same
// value forecastDays times. That is almost certainly not what its authors
// intended, but downstream consumers only read the final element, and
// compatibility tests pin the repeated-constant output. Iterative mode is
// the corrected variant: each prediction is fed back as the next step's
// lag feature.
type Forecaster struct {
	newRegressor func() Regressor
	iterative    bool
}

// Option configures a Forecaster.
type Option func(*Forecaster)

// WithIterative switches the forecaster to the corrected feedback mode.
func WithIterative(iterative bool) Option {
	return func(f *Forecaster) {
		f.iterative = iterative
	}
}

// WithRegressor replaces the default least-squares model factory.
func WithRegressor(factory func() Regressor) Option {
	return func(f *Forecaster) {
		f.newRegressor = factory
	}
}

// New creates a Forecaster. Without options it uses least squares in
// literal mode.
func New(opts ...Option) *Forecaster {
	f := &Forecaster{
		newRegressor: func() Regressor { return NewLeastSquares() },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Forecast trains a lag-1 model on the series and produces forecastDays
// future point estimates.
func (f *Forecaster) Forecast(series *models.PriceSeries, forecastDays int) (*models.ForecastResult, error) {
	if forecastDays < 1 {
		return nil, fmt.Errorf("forecast days must be at least 1, got %d", forecastDays)
	}
	if series == nil || series.Len() < 2 {
		return nil, fmt.Errorf("lag feature needs at least 2 bars: %w", models.ErrInsufficientHistory)
	}

	closes := series.Closes()

	// Lag_1[t] = close_{t-1}; the first bar has no lag and is dropped.
	lags := make([]float64, 0, len(closes)-1)
	targets := make([]float64, 0, len(closes)-1)
	for t := 1; t < len(closes); t++ {
		lags = append(lags, closes[t-1])
		targets = append(targets, closes[t])
	}

	trainSize := int(float64(len(lags)) * trainSplit)
	if trainSize < minTrainRows {
		return nil, fmt.Errorf("%d training rows, need %d: %w", trainSize, minTrainRows, models.ErrInsufficientHistory)
	}

	model := f.newRegressor()
	if err := model.Fit(lags[:trainSize], targets[:trainSize]); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrFitFailed, err)
	}

	method := "literal"
	if f.iterative {
		method = "iterative"
	}

	values := make([]float64, 0, forecastDays)
	if f.iterative {
		// Feed each prediction back as the next lag, starting from the
		// last observed close.
		lag := closes[len(closes)-1]
		for day := 0; day < forecastDays; day++ {
			predicted, err := model.Predict(lag)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", models.ErrFitFailed, err)
			}
			values = append(values, predicted)
			lag = predicted
		}
	} else {
		// Evaluate on the fixed last-known lag value every step.
		lag := lags[len(lags)-1]
		for day := 0; day < forecastDays; day++ {
			predicted, err := model.Predict(lag)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", models.ErrFitFailed, err)
			}
			values = append(values, predicted)
		}
	}

	return &models.ForecastResult{
		Symbol: series.Symbol,
		Method: method,
		Values: values,
	}, nil
}
