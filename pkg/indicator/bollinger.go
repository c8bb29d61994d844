package indicator

import (
	"fmt"
	"math"

	"github.com/quantlab/portfolio-insight/internal/models"
)

// Band is one Bollinger observation.
type Band struct {
	Upper float64
	Lower float64
}

// Bollinger calculates Bollinger Bands over a trailing window:
// upper = SMA(window) + k*stdev(window), lower = SMA(window) - k*stdev(window)
// where stdev is the trailing sample standard deviation of closes.
// It shares the SMA warmup rule: undefined for the first window-1 bars.
type Bollinger struct {
	window    int
	k         float64
	name      string
	prices    []float64
	ready     bool
	processed int
}

// NewBollinger creates a Bollinger calculator with the given window and
// band width multiplier k.
func NewBollinger(window int, k float64) (*Bollinger, error) {
	if window < 2 {
		return nil, fmt.Errorf("Bollinger window must be at least 2, got %d", window)
	}
	if k <= 0 {
		return nil, fmt.Errorf("Bollinger k must be positive, got %f", k)
	}

	return &Bollinger{
		window: window,
		k:      k,
		name:   fmt.Sprintf("bollinger_%d", window),
		prices: make([]float64, 0, window),
	}, nil
}

// Name returns the indicator name
func (b *Bollinger) Name() string {
	return b.name
}

// Update processes a new bar and returns the current band pair once the
// window is full.
func (b *Bollinger) Update(bar *models.PriceBar) (Band, error) {
	if bar == nil {
		return Band{}, fmt.Errorf("bar cannot be nil")
	}

	b.prices = append(b.prices, bar.Close)
	b.processed++

	if len(b.prices) > b.window {
		copy(b.prices, b.prices[1:])
		b.prices = b.prices[:len(b.prices)-1]
	}

	if len(b.prices) >= b.window {
		b.ready = true
		return b.calculate(), nil
	}

	return Band{}, nil
}

func (b *Bollinger) calculate() Band {
	mean := 0.0
	for _, p := range b.prices {
		mean += p
	}
	mean /= float64(len(b.prices))

	// Sample standard deviation over the window
	var sq float64
	for _, p := range b.prices {
		d := p - mean
		sq += d * d
	}
	sd := math.Sqrt(sq / float64(len(b.prices)-1))

	return Band{
		Upper: mean + b.k*sd,
		Lower: mean - b.k*sd,
	}
}

// Bands returns the current band pair
func (b *Bollinger) Bands() (Band, error) {
	if !b.ready {
		return Band{}, fmt.Errorf("Bollinger not ready: need at least %d bars", b.window)
	}
	return b.calculate(), nil
}

// Reset clears the Bollinger state
func (b *Bollinger) Reset() {
	b.prices = b.prices[:0]
	b.ready = false
	b.processed = 0
}

// IsReady returns true if the window is full
func (b *Bollinger) IsReady() bool {
	return b.ready
}

// WindowSize returns the window (number of bars required)
func (b *Bollinger) WindowSize() int {
	return b.window
}

// BarsProcessed returns the number of bars processed
func (b *Bollinger) BarsProcessed() int {
	return b.processed
}
