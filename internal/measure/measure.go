// Package measure computes integral statistics of sampled functions y(x).
// Integrals use the trapezoidal rule, so non-uniform sampling is supported.
package measure

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

var (
	// ErrDegenerateWindow is returned when the first and the last abscissae are equal
	// and the integral cannot be normalised by the window length.
	ErrDegenerateWindow = errors.New("degenerate window: zero duration")

	// ErrLengthMismatch is returned when y and x have different lengths
	ErrLengthMismatch = errors.New("ordinate and abscissa lengths differ")

	// ErrTooFewSamples is returned when less than two samples are given
	ErrTooFewSamples = errors.New("at least two samples are required")

	// ErrUnsorted is returned when x is not in ascending order
	ErrUnsorted = errors.New("abscissae are not in ascending order")
)

// Trapezoid integrates y over x with the trapezoidal rule.
func Trapezoid(y, x []float64) (float64, error) {
	if err := validate(y, x); err != nil {
		return 0, err
	}
	return integrate.Trapezoidal(x, y), nil
}

// RMS returns sqrt(∫y²dx / (x[last]-x[0])).
func RMS(y, x []float64) (float64, error) {
	dx, err := span(y, x)
	if err != nil {
		return 0, err
	}

	y2 := make([]float64, len(y))
	floats.MulTo(y2, y, y)

	return math.Sqrt(integrate.Trapezoidal(x, y2) / dx), nil
}

// Mean returns ∫y dx / (x[last]-x[0]).
func Mean(y, x []float64) (float64, error) {
	dx, err := span(y, x)
	if err != nil {
		return 0, err
	}
	return integrate.Trapezoidal(x, y) / dx, nil
}

// span validates the pair and returns the window length x[last]-x[0].
func span(y, x []float64) (float64, error) {
	if err := validate(y, x); err != nil {
		return 0, err
	}

	dx := x[len(x)-1] - x[0]
	if dx == 0 {
		return 0, ErrDegenerateWindow
	}
	return dx, nil
}

// validate rejects inputs integrate.Trapezoidal would panic on.
func validate(y, x []float64) error {
	switch {
	case len(y) != len(x):
		return ErrLengthMismatch
	case len(x) < 2:
		return ErrTooFewSamples
	case !sort.Float64sAreSorted(x):
		return ErrUnsorted
	}
	return nil
}
