package indicator

import (
	"fmt"
	"math"

	"github.com/quantlab/portfolio-insight/internal/models"
)

// EMA calculates the Exponential Moving Average
// EMA = (Price - Previous EMA) * Multiplier + Previous EMA
// Multiplier = 2 / (Span + 1); the first observation seeds the average,
// so the EMA is defined from the first bar onward.
type EMA struct {
	span       int
	name       string
	multiplier float64
	value      float64
	ready      bool
	processed  int
}

// NewEMA creates a new EMA calculator with the specified span
func NewEMA(span int) (*EMA, error) {
	if span < 1 {
		return nil, fmt.Errorf("EMA span must be at least 1, got %d", span)
	}

	return &EMA{
		span:       span,
		name:       fmt.Sprintf("ema_%d", span),
		multiplier: 2.0 / float64(span+1),
	}, nil
}

// Name returns the indicator name
func (e *EMA) Name() string {
	return e.name
}

// Update processes a new bar and updates the EMA calculation
func (e *EMA) Update(bar *models.PriceBar) (float64, error) {
	if bar == nil {
		return 0, fmt.Errorf("bar cannot be nil")
	}

	price := bar.Close

	// First bar seeds the average
	if !e.ready {
		e.value = price
		e.ready = true
		e.processed++
		return e.value, nil
	}

	e.value = (price-e.value)*e.multiplier + e.value
	e.processed++

	if math.IsNaN(e.value) || math.IsInf(e.value, 0) {
		e.value = price
	}

	return e.value, nil
}

// Value returns the current EMA value
func (e *EMA) Value() (float64, error) {
	if !e.ready {
		return 0, fmt.Errorf("EMA not ready: need at least 1 bar")
	}
	return e.value, nil
}

// Reset clears the EMA state
func (e *EMA) Reset() {
	e.value = 0
	e.ready = false
	e.processed = 0
}

// IsReady returns true if the EMA has enough data
func (e *EMA) IsReady() bool {
	return e.ready
}

// WindowSize returns 1 (EMA can start immediately)
func (e *EMA) WindowSize() int {
	return 1
}

// BarsProcessed returns the number of bars processed
func (e *EMA) BarsProcessed() int {
	return e.processed
}
