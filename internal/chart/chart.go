package chart

import (
	"context"
	"encoding/json"
	"time"

	"github.com/quantlab/portfolio-insight/internal/models"
)

// Point is one dated value on a chart.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Overlay is a named derived line drawn over the price series. Undefined
// warmup positions are omitted, so overlays may start later than prices.
type Overlay struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Spec is the renderable chart specification handed to the rendering
// collaborator. It carries no business logic beyond series selection.
type Spec struct {
	Symbol   string    `json:"symbol"`
	Prices   []Point   `json:"prices"`
	Overlays []Overlay `json:"overlays,omitempty"`
	Forecast []Point   `json:"forecast,omitempty"`
}

// Renderer turns a chart spec into a rasterized image. Implementations
// live outside this module (plotting service, frontend).
type Renderer interface {
	Render(ctx context.Context, spec *Spec) ([]byte, error)
}

// Compose assembles the price series, indicator overlays and an optional
// forecast tail into a chart spec.
func Compose(series *models.PriceSeries, indicators []models.IndicatorResult, forecast *models.ForecastResult) *Spec {
	spec := &Spec{Symbol: series.Symbol}

	dates := series.Dates()
	spec.Prices = make([]Point, series.Len())
	for i, bar := range series.Bars {
		spec.Prices[i] = Point{Date: dates[i], Value: bar.Close}
	}

	for _, result := range indicators {
		overlay := Overlay{Name: result.Name}
		for i := range result.Values {
			if value, ok := result.At(i); ok {
				overlay.Points = append(overlay.Points, Point{Date: dates[i], Value: value})
			}
		}
		if len(overlay.Points) > 0 {
			spec.Overlays = append(spec.Overlays, overlay)
		}
	}

	if forecast != nil && len(forecast.Values) > 0 {
		last := series.Last().Date
		spec.Forecast = make([]Point, len(forecast.Values))
		for i, value := range forecast.Values {
			spec.Forecast[i] = Point{Date: last.AddDate(0, 0, i+1), Value: value}
		}
	}

	return spec
}

// EncodeJSON serializes the spec for transport to a renderer.
func (s *Spec) EncodeJSON() ([]byte, error) {
	return json.Marshal(s)
}
