// SPDX-License-Identifier: MIT

package matrix

import (
	"math"

	"github.com/katalvlaran/otcost/fixedpoint"
	"gonum.org/v1/gonum/mat"
)

// sqrtmState is the Newton–Schulz iterate: y → A^{1/2}, z → A^{-1/2}.
type sqrtmState struct {
	y, z   *mat.Dense
	errors []float64
}

// Sqrtm computes the square root and inverse square root of a square matrix
// with the coupled Newton–Schulz iteration
//
//	W = ½(3I − Z·Y),  Y ← Y·W,  Z ← W·Z,
//
// started from Y = A/‖A‖_F, Z = I (after adding Regularization·I to A), and
// rescaled by √‖A‖_F at the end.
//
// The relative residual ‖A − Y·Y‖_F/‖A‖_F is computed once per block of
// InnerIterations and stored in errs (length ceil(Max/Inner), unused slots −1).
// Iteration stops when the most recent residual falls below Threshold or is not
// finite (invalid inputs then show up as NaN/Inf in the outputs).
//
// Returns (nil, nil, nil) for a nil, empty or non-square input.
// Complexity: O(k·n³) for k iterations.
func Sqrtm(a *mat.Dense, opts ...SqrtmOption) (sqrt, invSqrt *mat.Dense, errs []float64) {
	if a == nil {
		return nil, nil, nil
	}
	n, c := a.Dims()
	if n != c || n == 0 {
		return nil, nil, nil
	}
	cfg := GatherSqrtm(opts...)

	// Stage 1: regularize and normalize.
	x := mat.DenseCopyOf(a)
	if cfg.Regularization > 0 {
		for i := 0; i < n; i++ {
			x.Set(i, i, x.At(i, i)+cfg.Regularization)
		}
	}
	norm := mat.Norm(x, 2) // Frobenius
	x.Scale(1/norm, x)

	// Stage 2: iterate.
	loop := cfg.Loop()
	init := sqrtmState{
		y:      mat.DenseCopyOf(x),
		z:      Identity(n),
		errors: filled(loop.Blocks(), -1),
	}
	threeHalvesI := Identity(n)
	threeHalvesI.Scale(1.5, threeHalvesI)

	cond := func(block int, _ *mat.Dense, s sqrtmState) bool {
		if block == 0 {
			return true
		}
		e := s.errors[block-1]

		return !math.IsNaN(e) && !math.IsInf(e, 0) && e > cfg.Threshold
	}
	body := func(iteration int, x *mat.Dense, s sqrtmState, computeError bool) sqrtmState {
		var w, y, z mat.Dense
		w.Mul(s.z, s.y)
		w.Scale(-0.5, &w)
		w.Add(&w, threeHalvesI)
		y.Mul(s.y, &w)
		z.Mul(&w, s.z)
		if computeError {
			var r mat.Dense
			r.Mul(&y, &y)
			r.Sub(x, &r)
			s.errors[iteration/loop.InnerIterations] = mat.Norm(&r, 2) / mat.Norm(x, 2)
		}

		return sqrtmState{y: &y, z: &z, errors: s.errors}
	}
	final := fixedpoint.Iterate(cond, body, loop, x, init)

	// Stage 3: undo the normalization.
	root := math.Sqrt(norm)
	sqrt = mat.DenseCopyOf(final.y)
	sqrt.Scale(root, sqrt)
	invSqrt = mat.DenseCopyOf(final.z)
	invSqrt.Scale(1/root, invSqrt)

	return sqrt, invSqrt, final.errors
}

// SqrtmOnly returns only the square root of a.
func SqrtmOnly(a *mat.Dense, opts ...SqrtmOption) *mat.Dense {
	s, _, _ := Sqrtm(a, opts...)
	return s
}

func filled(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}

	return out
}
