// SPDX-License-Identifier: MIT

package matrix

import (
	"errors"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrTooFewSamples indicates that fewer than two samples were given to an
// estimator that normalizes by n−1.
var ErrTooFewSamples = errors.New("matrix: need at least two samples")

const opFitGaussian = "FitGaussian"

// FitGaussian estimates the column means and the sample covariance
// (normalized by n−1) of the rows of samples, and packs them as [mean, cov].
// Implementation:
//   - Stage 1: Validate that there are at least two rows of equal, positive length.
//   - Stage 2: Copy rows into an n×d Dense.
//   - Stage 3: Per-column means via stat.Mean, covariance via stat.CovarianceMatrix.
//
// Complexity: O(n·d²) time, O(n·d + d²) space.
func FitGaussian(samples [][]float64) ([]float64, error) {
	// Stage 1 (Validate)
	n := len(samples)
	if n < 2 {
		return nil, matrixErrorf(opFitGaussian, ErrTooFewSamples)
	}
	d := len(samples[0])
	if d == 0 {
		return nil, matrixErrorf(opFitGaussian, ErrDimensionMismatch)
	}

	// Stage 2 (Prepare)
	x := mat.NewDense(n, d, nil)
	for i, row := range samples {
		if len(row) != d {
			return nil, matrixErrorf(opFitGaussian, ErrDimensionMismatch)
		}
		x.SetRow(i, row)
	}

	// Stage 3 (Execute)
	mean := make([]float64, d)
	col := make([]float64, n)
	for j := range mean {
		mat.Col(col, j, x)
		mean[j] = stat.Mean(col, nil)
	}
	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, x, nil)

	return PackGaussian(mean, &cov), nil
}
