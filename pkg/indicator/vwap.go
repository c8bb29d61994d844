package indicator

import (
	"fmt"

	"github.com/quantlab/portfolio-insight/internal/models"
)

// VWAP calculates the running Volume Weighted Average Price from the first
// bar of the series to the current bar:
// VWAP = cumulative(Close * Volume) / cumulative(Volume)
type VWAP struct {
	name        string
	priceVolume float64
	volume      int64
	ready       bool
	processed   int
}

// NewVWAP creates a new running VWAP calculator
func NewVWAP() *VWAP {
	return &VWAP{name: "vwap"}
}

// Name returns the indicator name
func (v *VWAP) Name() string {
	return v.name
}

// Update processes a new bar and updates the VWAP calculation
func (v *VWAP) Update(bar *models.PriceBar) (float64, error) {
	if bar == nil {
		return 0, fmt.Errorf("bar cannot be nil")
	}

	v.priceVolume += bar.Close * float64(bar.Volume)
	v.volume += bar.Volume
	v.processed++

	// Undefined until some volume has traded
	if v.volume > 0 {
		v.ready = true
		return v.priceVolume / float64(v.volume), nil
	}

	return 0, nil
}

// Value returns the current VWAP value
func (v *VWAP) Value() (float64, error) {
	if !v.ready {
		return 0, fmt.Errorf("VWAP not ready: no traded volume")
	}
	return v.priceVolume / float64(v.volume), nil
}

// Reset clears the VWAP state
func (v *VWAP) Reset() {
	v.priceVolume = 0
	v.volume = 0
	v.ready = false
	v.processed = 0
}

// IsReady returns true if the VWAP has enough data
func (v *VWAP) IsReady() bool {
	return v.ready
}

// WindowSize returns 1 (VWAP is a running statistic)
func (v *VWAP) WindowSize() int {
	return 1
}

// BarsProcessed returns the number of bars processed
func (v *VWAP) BarsProcessed() int {
	return v.processed
}
