package models

import (
	"sort"
	"time"
)

// PriceBar represents one trading day's observation for a symbol.
type PriceBar struct {
	Date           time.Time `json:"date"`
	Open           float64   `json:"open"`
	High           float64   `json:"high"`
	Low            float64   `json:"low"`
	Close          float64   `json:"close"`
	Volume         int64     `json:"volume"`
	DeliverableQty int64     `json:"deliverable_qty,omitempty"`
}

// Validate validates a PriceBar
func (b *PriceBar) Validate() error {
	if b.Date.IsZero() {
		return ErrInvalidTimestamp
	}
	if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
		return ErrInvalidPrice
	}
	if b.High < b.Low {
		return ErrInvalidBar
	}
	if b.Volume < 0 {
		return ErrInvalidVolume
	}
	return nil
}

// PriceSeries is an ordered sequence of daily bars for exactly one symbol.
// It is built once per fetch and treated as read-only afterwards; a new
// fetch produces a new series rather than mutating an existing one.
type PriceSeries struct {
	Symbol string     `json:"symbol"`
	Bars   []PriceBar `json:"bars"`
}

// NewPriceSeries builds a PriceSeries from raw bars. Bars are sorted by
// date ascending and deduplicated per calendar day (the later entry wins).
// An empty bar set maps to ErrNoData, invalid bars fail validation.
func NewPriceSeries(symbol string, bars []PriceBar) (*PriceSeries, error) {
	if symbol == "" {
		return nil, ErrInvalidSymbol
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}

	sorted := make([]PriceBar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	// Dedupe by calendar day, keeping the last bar seen for a day.
	deduped := sorted[:0]
	for _, bar := range sorted {
		if err := bar.Validate(); err != nil {
			return nil, err
		}
		day := bar.Date.Format("2006-01-02")
		if n := len(deduped); n > 0 && deduped[n-1].Date.Format("2006-01-02") == day {
			deduped[n-1] = bar
			continue
		}
		deduped = append(deduped, bar)
	}

	return &PriceSeries{Symbol: symbol, Bars: deduped}, nil
}

// Len returns the number of bars in the series.
func (s *PriceSeries) Len() int {
	return len(s.Bars)
}

// Closes returns the close prices in date order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, bar := range s.Bars {
		closes[i] = bar.Close
	}
	return closes
}

// Dates returns the bar dates in order.
func (s *PriceSeries) Dates() []time.Time {
	dates := make([]time.Time, len(s.Bars))
	for i, bar := range s.Bars {
		dates[i] = bar.Date
	}
	return dates
}

// Last returns the most recent bar, or nil for an empty series.
func (s *PriceSeries) Last() *PriceBar {
	if len(s.Bars) == 0 {
		return nil
	}
	return &s.Bars[len(s.Bars)-1]
}

// IndicatorValue is one point of a derived sequence. Defined is false for
// positions where the indicator has insufficient trailing history.
type IndicatorValue struct {
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
}

// IndicatorResult is a named derived sequence aligned one-to-one with the
// dates of the series it was computed from.
type IndicatorResult struct {
	Name   string           `json:"name"`
	Values []IndicatorValue `json:"values"`
}

// At returns the value at index i and whether it is defined.
func (r *IndicatorResult) At(i int) (float64, bool) {
	if i < 0 || i >= len(r.Values) {
		return 0, false
	}
	v := r.Values[i]
	return v.Value, v.Defined
}

// Last returns the most recent defined value.
func (r *IndicatorResult) Last() (float64, bool) {
	for i := len(r.Values) - 1; i >= 0; i-- {
		if r.Values[i].Defined {
			return r.Values[i].Value, true
		}
	}
	return 0, false
}

// DefinedFrom returns the first index with a defined value, or -1 when the
// indicator is defined nowhere.
func (r *IndicatorResult) DefinedFrom() int {
	for i, v := range r.Values {
		if v.Defined {
			return i
		}
	}
	return -1
}

// ForecastResult holds future price point estimates indexed by offset from
// the last observed date.
type ForecastResult struct {
	Symbol string    `json:"symbol"`
	Method string    `json:"method"`
	Values []float64 `json:"values"`
}

// PointEstimate returns the final element of the forecast, the single
// point-forecast price consumed downstream.
func (f *ForecastResult) PointEstimate() (float64, bool) {
	if len(f.Values) == 0 {
		return 0, false
	}
	return f.Values[len(f.Values)-1], true
}

// BacktestResult is the total cumulative return of holding a symbol over
// the full available history.
type BacktestResult struct {
	Symbol      string  `json:"symbol"`
	TotalReturn float64 `json:"total_return"`
}
