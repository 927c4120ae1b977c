// SPDX-License-Identifier: MIT

package matrix

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// SplitGaussian unpacks x = [mean(d), cov(d·d)] into a mean vector and a d×d
// covariance matrix. Returns ErrDimensionMismatch unless len(x) == d + d².
// Complexity: O(d²) copy.
func SplitGaussian(x []float64, d int) (mean []float64, cov *mat.Dense, err error) {
	if d <= 0 || len(x) != d+d*d {
		return nil, nil, matrixErrorf("SplitGaussian", ErrDimensionMismatch)
	}
	mean = append([]float64(nil), x[:d]...)
	cov = mat.NewDense(d, d, append([]float64(nil), x[d:]...))

	return mean, cov, nil
}

// PackGaussian is the inverse of SplitGaussian.
func PackGaussian(mean []float64, cov mat.Matrix) []float64 {
	out := make([]float64, 0, len(mean)*(1+len(mean)))
	out = append(out, mean...)

	return append(out, Ravel(cov)...)
}

// GaussianDimension recovers d from a packed length L = d + d².
// Returns ErrDimensionMismatch when L is not of that form.
func GaussianDimension(length int) (int, error) {
	d := int(math.Round((-1 + math.Sqrt(1+4*float64(length))) / 2))
	if d <= 0 || d+d*d != length {
		return 0, matrixErrorf("GaussianDimension", ErrDimensionMismatch)
	}

	return d, nil
}
