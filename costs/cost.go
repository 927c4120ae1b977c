package costs

import (
	"github.com/katalvlaran/otcost/autodiff"
	"github.com/katalvlaran/otcost/numeric"
	"github.com/katalvlaran/otcost/tree"
	"gonum.org/v1/gonum/mat"
)

// Cost is a ground cost c(x, y) between two points.
//
// Every cost decomposes into differentiable children and a static record
// (tree.Decomposable) and is rebuilt by Unflatten. Costs are immutable values;
// concurrent evaluation is safe.
//
// Evaluate does not validate shapes: passing points of the wrong length is a
// precondition violation. The package-level helpers below validate and return
// errors.
type Cost interface {
	tree.Decomposable
	Evaluate(x, y []float64) float64
}

// AllPairser is implemented by costs with a closed-form all-pairs matrix.
// The result must match the outer product of Evaluate up to rounding.
type AllPairser interface {
	AllPairs(xs, ys [][]float64) (*mat.Dense, error)
}

// Barycenterer is implemented by costs with a barycentric operator.
// diagnostics is opaque convergence data and may be nil.
type Barycenterer interface {
	Barycenter(weights []float64, xs [][]float64) (point, diagnostics []float64, err error)
}

// Twister is implemented by costs with an explicit twist operator: the inverse
// of ∇₁c(vec, ·) (variable == false) or ∇₂c(·, vec) (variable == true)
// evaluated at dual.
type Twister interface {
	TwistOperator(vec, dual []float64, variable bool) ([]float64, error)
}

// Padder is implemented by costs whose zero vector is degenerate.
type Padder interface {
	PaddingPoint(dim int) []float64
}

// Differentiable is implemented by costs with an analytic gradient in both arguments.
type Differentiable interface {
	Grad(x, y []float64) (gx, gy []float64)
}

// Sequencer is implemented by costs whose points are whole time series of
// FeatureDim-sized steps. Such points may differ in length, within a set and
// across sets.
type Sequencer interface {
	FeatureDim() int
}

// AllPairs returns the n×m matrix C[i][j] = c(xs[i], ys[j]).
// Closed forms provided by AllPairser are used when available.
//
// Errors: ErrEmptyInput, ErrDimensionMismatch (ragged rows, or rows of xs and ys
// with different lengths). For a Sequencer every row only needs a positive
// length that is a multiple of FeatureDim.
// Complexity: O(n·m) evaluations.
func AllPairs(c Cost, xs, ys [][]float64) (*mat.Dense, error) {
	check := checkPoints
	if sq, ok := c.(Sequencer); ok {
		check = func(sets ...[][]float64) error { return checkSequences(sq.FeatureDim(), sets...) }
	}
	if err := check(xs, ys); err != nil {
		return nil, costErrorf("AllPairs", err)
	}
	if ap, ok := c.(AllPairser); ok {
		return ap.AllPairs(xs, ys)
	}
	out := mat.NewDense(len(xs), len(ys), nil)
	for i, x := range xs {
		out.SetRow(i, autodiff.MapScalar(ys, func(y []float64) float64 { return c.Evaluate(x, y) }))
	}

	return out, nil
}

// Barycenter returns the weighted barycenter of xs under c.
// TI costs without their own operator use the weighted mean.
// Other costs return ErrNotImplemented naming "barycenter".
func Barycenter(c Cost, weights []float64, xs [][]float64) (point, diagnostics []float64, err error) {
	if b, ok := c.(Barycenterer); ok {
		return b.Barycenter(weights, xs)
	}
	if _, ok := c.(TI); ok {
		point, err = WeightedMean(weights, xs)
		return point, nil, err
	}

	return nil, nil, notImplemented("barycenter")
}

// TwistOperator dispatches to the cost's own twist operator, then to the
// generic Legendre construction, and otherwise returns ErrNotImplemented naming
// "twist operator".
func TwistOperator(c Cost, vec, dual []float64, variable bool) ([]float64, error) {
	if len(vec) != len(dual) {
		return nil, costErrorf("TwistOperator", ErrDimensionMismatch)
	}
	if t, ok := c.(Twister); ok {
		return t.TwistOperator(vec, dual, variable)
	}
	if l, ok := c.(Legendre); ok {
		return Twist(l, vec, dual, variable), nil
	}

	return nil, notImplemented("twist operator")
}

// PaddingPoint returns a neutral filler point of length dim (zero unless the cost overrides it).
func PaddingPoint(c Cost, dim int) []float64 {
	if p, ok := c.(Padder); ok {
		return p.PaddingPoint(dim)
	}

	return make([]float64, dim)
}

// Gradient returns (∂c/∂x, ∂c/∂y). Analytic rules are used when the cost is
// Differentiable or TI; otherwise central finite differences over Evaluate.
func Gradient(c Cost, x, y []float64) (gx, gy []float64) {
	if d, ok := c.(Differentiable); ok {
		return d.Grad(x, y)
	}
	if ti, ok := c.(TI); ok {
		g := ti.GradH(numeric.Sub(x, y))
		return g, numeric.Neg(g)
	}
	gx = autodiff.NumericGrad(func(v []float64) float64 { return c.Evaluate(v, y) }, x)
	gy = autodiff.NumericGrad(func(v []float64) float64 { return c.Evaluate(x, v) }, y)

	return gx, gy
}

// WeightedMean returns Σ w_i x_i / Σ w_i.
// Errors: ErrEmptyInput, ErrDimensionMismatch, ErrInvalidWeights.
func WeightedMean(weights []float64, xs [][]float64) ([]float64, error) {
	w, err := normalizeWeights(weights, len(xs))
	if err != nil {
		return nil, costErrorf("WeightedMean", err)
	}
	if err = checkPoints(xs); err != nil {
		return nil, costErrorf("WeightedMean", err)
	}
	out := make([]float64, len(xs[0]))
	for i, x := range xs {
		for k, v := range x {
			out[k] += w[i] * v
		}
	}

	return out, nil
}

// checkPoints validates that every set is non-empty and all rows share one non-zero length.
func checkPoints(sets ...[][]float64) error {
	for _, set := range sets {
		if len(set) == 0 {
			return ErrEmptyInput
		}
	}
	d := len(sets[0][0])
	if d == 0 {
		return ErrEmptyInput
	}
	for _, set := range sets {
		for _, p := range set {
			if len(p) != d {
				return ErrDimensionMismatch
			}
		}
	}

	return nil
}

// checkSequences validates that every set is non-empty and every row is a
// non-empty series of d-sized steps.
func checkSequences(d int, sets ...[][]float64) error {
	for _, set := range sets {
		if len(set) == 0 {
			return ErrEmptyInput
		}
		for _, p := range set {
			if len(p) == 0 {
				return ErrEmptyInput
			}
			if len(p)%d != 0 {
				return ErrDimensionMismatch
			}
		}
	}

	return nil
}

// normalizeWeights checks len(weights) == n and rescales them to sum to one.
func normalizeWeights(weights []float64, n int) ([]float64, error) {
	if n == 0 || len(weights) == 0 {
		return nil, ErrEmptyInput
	}
	if len(weights) != n {
		return nil, ErrDimensionMismatch
	}
	var total float64
	for _, w := range weights {
		if w < 0 || w != w {
			return nil, ErrInvalidWeights
		}
		total += w
	}
	if !(total > 0) {
		return nil, ErrInvalidWeights
	}
	out := make([]float64, n)
	for i, w := range weights {
		out[i] = w / total
	}

	return out, nil
}
