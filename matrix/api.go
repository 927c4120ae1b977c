// SPDX-License-Identifier: MIT
// Package matrix: public API facades over gonum/mat.
//
// Purpose:
//   - Provide thin, intention-revealing helpers the cost functions use repeatedly.
//   - Avoid logic duplication: each facade delegates to gonum where gonum has it.

package matrix

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Identity returns I_n as a *mat.Dense.
// Complexity: O(n²) zeroing + O(n) diagonal writes.
func Identity(n int) *mat.Dense {
	I := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		I.Set(i, i, 1)
	}

	return I
}

// FrobeniusDistSq returns Σ (a_ij − b_ij)².
// Complexity: O(rc).
func FrobeniusDistSq(a, b mat.Matrix) float64 {
	var d mat.Dense
	d.Sub(a, b)
	f := mat.Norm(&d, 2)

	return f * f
}

// Ravel returns the row-major entries of a as a fresh slice.
func Ravel(a mat.Matrix) []float64 {
	r, c := a.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out = append(out, a.At(i, j))
		}
	}

	return out
}

// Unravel copies n·n row-major values into a new n×n matrix.
// Returns ErrDimensionMismatch if len(data) != n·n.
func Unravel(data []float64, n int) (*mat.Dense, error) {
	if n <= 0 || len(data) != n*n {
		return nil, matrixErrorf("Unravel", ErrDimensionMismatch)
	}

	return mat.NewDense(n, n, append([]float64(nil), data...)), nil
}

// SlogDet returns the sign and natural log of |det(a)|, like numpy's slogdet.
// A singular matrix reports sign 0 and log −Inf.
func SlogDet(a mat.Matrix) (sign, logDet float64) {
	logDet, sign = mat.LogDet(a)
	if math.IsInf(logDet, -1) {
		return 0, logDet
	}

	return sign, logDet
}

// Inverse returns a⁻¹, or a matrix of NaN if a cannot be inverted, so that
// callers following the NaN policy never have to branch.
func Inverse(a mat.Matrix) *mat.Dense {
	var inv mat.Dense
	if err := inv.Inverse(a); !usable(err) {
		return nanLike(a)
	}

	return &inv
}

// SolveVec solves a·x = b; NaN entries are returned when a is singular.
func SolveVec(a mat.Matrix, b []float64) []float64 {
	var x mat.VecDense
	if err := x.SolveVec(a, mat.NewVecDense(len(b), append([]float64(nil), b...))); !usable(err) {
		out := make([]float64, len(b))
		for i := range out {
			out[i] = math.NaN()
		}

		return out
	}

	return append([]float64(nil), x.RawVector().Data...)
}

// usable reports whether a gonum solve/inverse result can be used: no error,
// or an ill-conditioning warning with a finite condition number.
func usable(err error) bool {
	if err == nil {
		return true
	}
	c, ok := err.(mat.Condition)

	return ok && !math.IsInf(float64(c), 0)
}

func nanLike(a mat.Matrix) *mat.Dense {
	r, c := a.Dims()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, math.NaN())
		}
	}

	return out
}
