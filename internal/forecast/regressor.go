package forecast

import (
	"fmt"
)

// Regressor is the black-box supervised model the adapter trains and
// evaluates. Implementations must be deterministic for a given fit.
type Regressor interface {
	// Fit trains the model on feature/target pairs of equal length.
	Fit(x, y []float64) error

	// Predict evaluates the fitted model on a single feature value.
	Predict(x float64) (float64, error)
}

// LeastSquares is an ordinary least-squares regressor on one feature.
type LeastSquares struct {
	slope     float64
	intercept float64
	fitted    bool
}

// NewLeastSquares creates an untrained least-squares regressor.
func NewLeastSquares() *LeastSquares {
	return &LeastSquares{}
}

// Fit estimates slope and intercept minimizing squared error.
func (l *LeastSquares) Fit(x, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("feature and target lengths differ: %d vs %d", len(x), len(y))
	}
	if len(x) < 2 {
		return fmt.Errorf("need at least 2 samples to fit, got %d", len(x))
	}

	n := float64(len(x))
	var sumX, sumY float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
	}
	meanX := sumX / n
	meanY := sumY / n

	var covXY, varX float64
	for i := range x {
		dx := x[i] - meanX
		covXY += dx * (y[i] - meanY)
		varX += dx * dx
	}
	if varX == 0 {
		return fmt.Errorf("feature has zero variance")
	}

	l.slope = covXY / varX
	l.intercept = meanY - l.slope*meanX
	l.fitted = true
	return nil
}

// Predict evaluates the fitted line at x.
func (l *LeastSquares) Predict(x float64) (float64, error) {
	if !l.fitted {
		return 0, fmt.Errorf("model is not fitted")
	}
	return l.intercept + l.slope*x, nil
}
