package indicator

import (
	"fmt"
	"math"
	"time"

	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"

	"github.com/quantlab/portfolio-insight/internal/models"
)

// TechanCalculator wraps a techan indicator to implement Calculator.
// Used for indicators the local catalog does not implement directly,
// such as the RSI momentum gauge.
type TechanCalculator struct {
	name      string
	series    *techan.TimeSeries
	indicator techan.Indicator
	period    int
	ready     bool
}

// NewRSI creates an RSI calculator backed by techan with the given period.
func NewRSI(period int) (*TechanCalculator, error) {
	if period < 1 {
		return nil, fmt.Errorf("RSI period must be at least 1, got %d", period)
	}

	series := techan.NewTimeSeries()
	return &TechanCalculator{
		name:      fmt.Sprintf("rsi_%d", period),
		series:    series,
		indicator: techan.NewRelativeStrengthIndexIndicator(techan.NewClosePriceIndicator(series), period),
		period:    period,
	}, nil
}

func (t *TechanCalculator) Name() string {
	return t.name
}

func (t *TechanCalculator) Update(bar *models.PriceBar) (float64, error) {
	if bar == nil {
		return 0, fmt.Errorf("bar cannot be nil")
	}

	candle := techan.NewCandle(techan.NewTimePeriod(bar.Date, 24*time.Hour))
	candle.OpenPrice = big.NewDecimal(bar.Open)
	candle.MaxPrice = big.NewDecimal(bar.High)
	candle.MinPrice = big.NewDecimal(bar.Low)
	candle.ClosePrice = big.NewDecimal(bar.Close)
	candle.Volume = big.NewDecimal(float64(bar.Volume))

	t.series.AddCandle(candle)

	lastIndex := t.series.LastIndex()
	if lastIndex < t.period {
		return 0, nil
	}

	value := t.indicator.Calculate(lastIndex).Float()
	if math.IsNaN(value) {
		return 0, nil
	}

	t.ready = true
	return value, nil
}

func (t *TechanCalculator) Value() (float64, error) {
	if !t.ready {
		return 0, fmt.Errorf("indicator not ready: need at least %d bars", t.period+1)
	}
	return t.indicator.Calculate(t.series.LastIndex()).Float(), nil
}

func (t *TechanCalculator) Reset() {
	series := techan.NewTimeSeries()
	t.series = series
	t.indicator = techan.NewRelativeStrengthIndexIndicator(techan.NewClosePriceIndicator(series), t.period)
	t.ready = false
}

func (t *TechanCalculator) IsReady() bool {
	return t.ready
}

// WindowSize returns the number of bars required for this indicator
func (t *TechanCalculator) WindowSize() int {
	return t.period + 1
}

// BarsProcessed returns the number of bars processed so far
func (t *TechanCalculator) BarsProcessed() int {
	return t.series.LastIndex() + 1
}
