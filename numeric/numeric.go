// Package numeric holds the small numerically-safe primitives shared by the
// cost functions: zero-safe p-norms with their gradients, the smoothed minimum
// used by soft-DTW, and a handful of vector helpers over gonum/floats.
//
// Zero-safe norms:
//
//	The gradient of ‖z‖ is z/‖z‖, which is 0/0 at z = 0. That point is hit every
//	time a cost is evaluated against itself (x − x), e.g. in debiased soft-DTW or
//	in barycenter self-terms. NormGrad returns an exact zero vector there instead
//	of NaN, which is the subgradient of minimal norm.
package numeric

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Norm returns the p-norm of z for p ≥ 1, including p = +Inf.
// Complexity: O(len(z)).
func Norm(z []float64, p float64) float64 {
	if len(z) == 0 {
		return 0
	}

	return floats.Norm(z, p)
}

// NormGrad returns ∇‖z‖_p. It is exactly the zero vector when z = 0.
// Complexity: O(len(z)).
func NormGrad(z []float64, p float64) []float64 {
	g := make([]float64, len(z))
	n := Norm(z, p)
	if n == 0 || math.IsNaN(n) {
		return g
	}
	switch {
	case p == 1:
		for i, v := range z {
			g[i] = sign(v)
		}
	case math.IsInf(p, 1):
		// subgradient supported on the first coordinate of largest magnitude
		best := 0
		for i, v := range z {
			if math.Abs(v) > math.Abs(z[best]) {
				best = i
			}
		}
		g[best] = sign(z[best])
	default:
		scale := math.Pow(n, p-1)
		for i, v := range z {
			g[i] = sign(v) * math.Pow(math.Abs(v), p-1) / scale
		}
	}

	return g
}

// SignedPow returns sign(v)·|v|^e element-wise. It is the gradient of Σ|z_i|^(e+1)/(e+1).
func SignedPow(z []float64, e float64) []float64 {
	out := make([]float64, len(z))
	for i, v := range z {
		if v == 0 {
			continue
		}
		out[i] = sign(v) * math.Pow(math.Abs(v), e)
	}

	return out
}

// Softmin returns −γ·log Σ exp(−v_i/γ), a smooth lower bound of min(v) that
// tends to min(v) as γ → 0. γ = 0 is the hard minimum. +Inf entries are
// ignored; if all entries are +Inf the result is +Inf.
// Complexity: O(len(v)).
func Softmin(v []float64, gamma float64) float64 {
	m := floats.Min(v)
	if gamma == 0 || math.IsInf(m, 1) || math.IsNaN(m) {
		return m
	}

	return -gamma * LogSumExp(Scaled(-1/gamma, v))
}

// SoftminWeights returns ∂Softmin/∂v, i.e. softmax(−v/γ). For γ = 0 it is the
// indicator of the first minimizer.
func SoftminWeights(v []float64, gamma float64) []float64 {
	w := make([]float64, len(v))
	if len(v) == 0 {
		return w
	}
	m := floats.Min(v)
	if gamma == 0 || math.IsInf(m, 1) {
		w[floats.MinIdx(v)] = 1

		return w
	}
	var s float64
	for i, x := range v {
		w[i] = math.Exp(-(x - m) / gamma)
		s += w[i]
	}
	floats.Scale(1/s, w)

	return w
}

// LogSumExp returns log Σ exp(v_i) computed stably.
func LogSumExp(v []float64) float64 {
	if len(v) == 0 {
		return math.Inf(-1)
	}

	return floats.LogSumExp(v)
}

// Dot returns ⟨x, y⟩.
func Dot(x, y []float64) float64 { return floats.Dot(x, y) }

// SqNorm returns ‖x‖².
func SqNorm(x []float64) float64 { return floats.Dot(x, x) }

// Sub returns a fresh x − y.
func Sub(x, y []float64) []float64 {
	return floats.SubTo(make([]float64, len(x)), x, y)
}

// Add returns a fresh x + y.
func Add(x, y []float64) []float64 {
	return floats.AddTo(make([]float64, len(x)), x, y)
}

// Scaled returns a fresh alpha·x.
func Scaled(alpha float64, x []float64) []float64 {
	return floats.ScaleTo(make([]float64, len(x)), alpha, x)
}

// Neg returns a fresh −x.
func Neg(x []float64) []float64 { return Scaled(-1, x) }

// AllFinite reports whether x contains neither NaN nor ±Inf.
func AllFinite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}

	return 0
}
