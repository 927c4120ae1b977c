package costs_test

import (
	"gonum.org/v1/gonum/diff/fd"
)

// numericGrad is a central finite-difference gradient.
func numericGrad(f func([]float64) float64, x []float64) []float64 {
	return fd.Gradient(nil, f, x, &fd.Settings{Formula: fd.Central})
}

// gaussian packs a 2-d Gaussian with mean m and covariance [[a, b], [b, c]].
func gaussian(m0, m1, a, b, c float64) []float64 {
	return []float64{m0, m1, a, b, b, c}
}
