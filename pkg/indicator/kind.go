package indicator

import (
	"fmt"

	"github.com/quantlab/portfolio-insight/internal/models"
)

// Kind identifies one indicator in the catalog. The set is closed: the
// Compute dispatcher matches exhaustively, so adding an indicator means
// adding a variant here and a case there.
type Kind int

const (
	KindSMA20 Kind = iota
	KindSMA50
	KindSMA200
	KindEMA20
	KindBollinger20
	KindVWAP
	KindRSI14
)

// bollingerK is the band width multiplier for the catalog's Bollinger bands.
const bollingerK = 2.0

// Kinds returns the full indicator catalog in display order.
func Kinds() []Kind {
	return []Kind{KindSMA20, KindSMA50, KindSMA200, KindEMA20, KindBollinger20, KindVWAP, KindRSI14}
}

// String returns the indicator name for the kind.
func (k Kind) String() string {
	switch k {
	case KindSMA20:
		return "sma_20"
	case KindSMA50:
		return "sma_50"
	case KindSMA200:
		return "sma_200"
	case KindEMA20:
		return "ema_20"
	case KindBollinger20:
		return "bollinger_20"
	case KindVWAP:
		return "vwap"
	case KindRSI14:
		return "rsi_14"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Compute evaluates one catalog indicator over a full series, returning
// results aligned one-to-one with the series dates. Banded indicators
// return a pair (upper, lower); all others a single result. A series
// shorter than the indicator's window yields a result that is defined
// nowhere, not an error.
func Compute(series *models.PriceSeries, kind Kind) ([]models.IndicatorResult, error) {
	if series == nil {
		return nil, fmt.Errorf("series cannot be nil")
	}

	switch kind {
	case KindSMA20:
		return computeStreaming(series, mustSMA(20))
	case KindSMA50:
		return computeStreaming(series, mustSMA(50))
	case KindSMA200:
		return computeStreaming(series, mustSMA(200))
	case KindEMA20:
		calc, err := NewEMA(20)
		if err != nil {
			return nil, err
		}
		return computeStreaming(series, calc)
	case KindVWAP:
		return computeStreaming(series, NewVWAP())
	case KindRSI14:
		calc, err := NewRSI(14)
		if err != nil {
			return nil, err
		}
		return computeStreaming(series, calc)
	case KindBollinger20:
		return computeBollinger(series, 20, bollingerK)
	}

	return nil, fmt.Errorf("unknown indicator kind %d", int(kind))
}

// ComputeAll evaluates the whole catalog over a series.
func ComputeAll(series *models.PriceSeries) ([]models.IndicatorResult, error) {
	var results []models.IndicatorResult
	for _, kind := range Kinds() {
		computed, err := Compute(series, kind)
		if err != nil {
			return nil, fmt.Errorf("compute %s: %w", kind, err)
		}
		results = append(results, computed...)
	}
	return results, nil
}

func mustSMA(period int) *SMA {
	calc, err := NewSMA(period)
	if err != nil {
		panic(err)
	}
	return calc
}

func computeStreaming(series *models.PriceSeries, calc Calculator) ([]models.IndicatorResult, error) {
	values := make([]models.IndicatorValue, series.Len())
	for i := range series.Bars {
		value, err := calc.Update(&series.Bars[i])
		if err != nil {
			return nil, err
		}
		if calc.IsReady() {
			values[i] = models.IndicatorValue{Value: value, Defined: true}
		}
	}

	return []models.IndicatorResult{{Name: calc.Name(), Values: values}}, nil
}

func computeBollinger(series *models.PriceSeries, window int, k float64) ([]models.IndicatorResult, error) {
	calc, err := NewBollinger(window, k)
	if err != nil {
		return nil, err
	}

	upper := make([]models.IndicatorValue, series.Len())
	lower := make([]models.IndicatorValue, series.Len())
	for i := range series.Bars {
		band, err := calc.Update(&series.Bars[i])
		if err != nil {
			return nil, err
		}
		if calc.IsReady() {
			upper[i] = models.IndicatorValue{Value: band.Upper, Defined: true}
			lower[i] = models.IndicatorValue{Value: band.Lower, Defined: true}
		}
	}

	return []models.IndicatorResult{
		{Name: calc.Name() + "_upper", Values: upper},
		{Name: calc.Name() + "_lower", Values: lower},
	}, nil
}
