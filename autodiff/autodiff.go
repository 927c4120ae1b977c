// Package autodiff is the differentiation contract the cost framework relies on.
//
// Go has no tracing differentiation engine, so each differentiable quantity is
// represented explicitly:
//
//   - Scalar: a scalar function of a vector together with its gradient.
//   - Smooth: a Scalar assembled from a value function and an analytic gradient.
//   - Func:   a plain function; its gradient falls back to central finite
//     differences (gonum/diff/fd).
//   - Custom: a custom derivative rule: the forward pass returns the value and a
//     backward closure (VJP) computed once per call, e.g. capturing the optimal
//     point of an inner problem (Danskin's theorem).
//   - Map:    vectorized mapping over a leading batch axis.
//   - Jet:    truncated Taylor arithmetic for exact repeated differentiation of
//     univariate functions (see jet.go).
//
// "Stop-gradient" is expressed by construction: a Scalar whose Grad re-evaluates
// an objective at a fixed inner solution never differentiates the solver.
package autodiff

import (
	"gonum.org/v1/gonum/diff/fd"
)

// Scalar is a differentiable scalar function of a vector.
type Scalar interface {
	Value(x []float64) float64
	Grad(x []float64) []float64
}

// VJP maps an upstream scalar cotangent to the gradient with respect to the input.
type VJP func(g float64) []float64

// Func adapts a plain function to Scalar; Grad uses central finite differences.
type Func func(x []float64) float64

// Value implements Scalar.
func (f Func) Value(x []float64) float64 { return f(x) }

// Grad implements Scalar via gonum/diff/fd central differences.
// Complexity: 2·len(x) evaluations of f.
func (f Func) Grad(x []float64) []float64 {
	return NumericGrad(f, x)
}

// NumericGrad returns the central finite-difference gradient of f at x.
func NumericGrad(f func([]float64) float64, x []float64) []float64 {
	return fd.Gradient(nil, f, x, &fd.Settings{Formula: fd.Central})
}

// Smooth pairs a value function with its analytic gradient.
type Smooth struct {
	F func(x []float64) float64
	G func(x []float64) []float64
}

// Value implements Scalar.
func (s Smooth) Value(x []float64) float64 { return s.F(x) }

// Grad implements Scalar. A nil G falls back to finite differences.
func (s Smooth) Grad(x []float64) []float64 {
	if s.G == nil {
		return NumericGrad(s.F, x)
	}

	return s.G(x)
}

// Rule is a custom derivative rule: a forward pass returning the value together
// with the backward closure for this particular input.
type Rule func(x []float64) (float64, VJP)

// Custom turns a Rule into a Scalar. Grad never differentiates through the
// forward computation; it only calls the attached backward closure with g = 1.
func Custom(fwd Rule) Scalar { return custom(fwd) }

type custom Rule

func (c custom) Value(x []float64) float64 {
	v, _ := c(x)
	return v
}

func (c custom) Grad(x []float64) []float64 {
	_, bwd := c(x)
	return bwd(1)
}

// Map applies f to every row of xs (the leading batch axis).
// Complexity: len(xs) calls to f.
func Map(xs [][]float64, f func([]float64) []float64) [][]float64 {
	out := make([][]float64, len(xs))
	for i, x := range xs {
		out[i] = f(x)
	}

	return out
}

// MapScalar applies a scalar function to every row of xs.
func MapScalar(xs [][]float64, f func([]float64) float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = f(x)
	}

	return out
}
