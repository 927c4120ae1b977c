package costs

import (
	"math"

	"github.com/katalvlaran/otcost/fixedpoint"
	"github.com/katalvlaran/otcost/matrix"
	"github.com/katalvlaran/otcost/numeric"
	"github.com/katalvlaran/otcost/tree"
	"gonum.org/v1/gonum/mat"
)

// Defaults for the Bures barycenter fixed point.
const (
	DefaultBarycenterTolerance       = 1e-4
	DefaultBarycenterMinIterations   = 1
	DefaultBarycenterMaxIterations   = 100
	DefaultBarycenterInnerIterations = 5
)

// barycenterOptions configures CovarianceFixpointIter.
type barycenterOptions struct {
	tolerance float64
	loop      fixedpoint.Options
	sqrtm     []matrix.SqrtmOption
}

// BarycenterOption customizes the Bures barycenter.
type BarycenterOption func(*barycenterOptions)

// WithTolerance sets the stopping tolerance on the normalized squared Frobenius
// difference of two consecutive iterates. Panics on a negative or non-finite value.
func WithTolerance(tol float64) BarycenterOption {
	if tol < 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
		panic(panicToleranceInvalid)
	}

	return func(o *barycenterOptions) { o.tolerance = tol }
}

// WithIterations sets the min/max/inner iteration bounds of the fixed point.
func WithIterations(loop fixedpoint.Options) BarycenterOption {
	return func(o *barycenterOptions) { o.loop = loop }
}

// WithBarycenterSqrtm overrides the square-root options used inside the fixed
// point (default: the cost's own).
func WithBarycenterSqrtm(opts ...matrix.SqrtmOption) BarycenterOption {
	return func(o *barycenterOptions) { o.sqrtm = opts }
}

// Bures is the squared 2-Wasserstein distance between Gaussians packed as
// [mean(d), cov(d·d) row-major]:
//
//	c(x, y) = N(x) + N(y) − 2·(⟨m_x, m_y⟩ + tr √(√Σ_x·Σ_y·√Σ_x)),  N(x) = ‖m_x‖² + tr Σ_x.
//
// Covariances are assumed PSD; violations surface as NaN.
type Bures struct {
	dim   int
	sqrtm matrix.SqrtmConfig
}

// NewBures panics if dimension < 1.
func NewBures(dimension int, opts ...matrix.SqrtmOption) Bures {
	if dimension < 1 {
		panic(panicDimensionInvalid)
	}

	return Bures{dim: dimension, sqrtm: matrix.GatherSqrtm(opts...)}
}

// Dimension returns d, the dimension of the Gaussians.
func (c Bures) Dimension() int { return c.dim }

// Norm returns ‖m‖² + tr Σ, or NaN for a malformed point.
func (c Bures) Norm(x []float64) float64 {
	mean, cov, err := matrix.SplitGaussian(x, c.dim)
	if err != nil {
		return math.NaN()
	}

	return numeric.Dot(mean, mean) + mat.Trace(cov)
}

// Evaluate returns the squared 2-Wasserstein distance; NaN on a malformed point.
func (c Bures) Evaluate(x, y []float64) float64 {
	mx, covX, errX := matrix.SplitGaussian(x, c.dim)
	my, covY, errY := matrix.SplitGaussian(y, c.dim)
	if errX != nil || errY != nil {
		return math.NaN()
	}
	opt := matrix.WithConfig(c.sqrtm)

	// √Σ_x·Σ_y·√Σ_x
	sqX := matrix.SqrtmOnly(covX, opt)
	var inner mat.Dense
	inner.Mul(sqX, covY)
	inner.Mul(&inner, sqX)
	cross := numeric.Dot(mx, my) + mat.Trace(matrix.SqrtmOnly(&inner, opt))

	return c.Norm(x) + c.Norm(y) - 2*cross
}

// fixpointState is the barycenter iterate and its per-block diagnostics.
type fixpointState struct {
	cov   *mat.Dense
	diffs []float64
}

// CovarianceFixpointIter computes the weighted Bures barycenter of covariance
// matrices with the fixed point
//
//	S = √Σ,  Σ ← S⁻¹·(Σ_i w_i·√(S·Σ_i·S))²·S⁻¹
//
// started from the identity. weights are used as given (callers normalize).
//
// diffs has one slot per block of InnerIterations, ceil(max/inner) in total;
// the slot of each completed block holds ‖Σ_next − Σ‖²_F / d², unused slots
// stay −1. Iteration stops once the last recorded diff is ≤ tolerance (or is
// NaN), after at least MinIterations and at most MaxIterations.
// Complexity: O(k·(len(covs)+1)·sqrtm(d)) for k iterations.
func (c Bures) CovarianceFixpointIter(covs []*mat.Dense, weights []float64, opts ...BarycenterOption) (*mat.Dense, []float64) {
	o := c.gatherBarycenter(opts...)

	var (
		d     = c.dim
		inner = o.loop.InnerIterations
		init  = fixpointState{cov: matrix.Identity(d), diffs: filledSlice(o.loop.Blocks(), -1)}
	)
	cond := func(block int, _ struct{}, s fixpointState) bool {
		if block == 0 {
			return true
		}

		return s.diffs[block-1] > o.tolerance
	}
	body := func(iteration int, _ struct{}, s fixpointState, computeError bool) fixpointState {
		sq, invSq, _ := matrix.Sqrtm(s.cov, o.sqrtm...)
		sum := mat.NewDense(d, d, nil)
		for i, cov := range covs {
			var m mat.Dense
			m.Mul(sq, cov)
			m.Mul(&m, sq)
			r := matrix.SqrtmOnly(&m, o.sqrtm...)
			sum.Add(sum, scaledDense(weights[i], r))
		}
		var next mat.Dense
		next.Mul(sum, sum)
		next.Mul(invSq, &next)
		next.Mul(&next, invSq)
		if computeError {
			s.diffs[iteration/inner] = matrix.FrobeniusDistSq(&next, s.cov) / float64(d*d)
		}

		return fixpointState{cov: &next, diffs: s.diffs}
	}
	final := fixedpoint.Iterate(cond, body, o.loop, struct{}{}, init)

	return final.cov, final.diffs
}

// Barycenter implements Barycenterer with default fixed-point options.
func (c Bures) Barycenter(weights []float64, xs [][]float64) ([]float64, []float64, error) {
	return c.BarycenterWithOptions(weights, xs)
}

// BarycenterWithOptions normalizes weights to sum to one, averages the means and
// runs CovarianceFixpointIter on the covariances. It returns the packed
// barycenter and the per-block diagnostics.
//
// Errors: ErrEmptyInput, ErrInvalidWeights, ErrDimensionMismatch, and the
// wrapped fixedpoint.ErrBadOptions or matrix.ErrInvalidConfig for unusable
// iteration settings.
func (c Bures) BarycenterWithOptions(weights []float64, xs [][]float64, opts ...BarycenterOption) ([]float64, []float64, error) {
	w, err := normalizeWeights(weights, len(xs))
	if err != nil {
		return nil, nil, costErrorf("Bures.Barycenter", err)
	}
	o := c.gatherBarycenter(opts...)
	if err = o.loop.Validate(); err != nil {
		return nil, nil, costErrorf("Bures.Barycenter", err)
	}
	if err = matrix.GatherSqrtm(o.sqrtm...).Validate(); err != nil {
		return nil, nil, costErrorf("Bures.Barycenter", err)
	}
	var (
		mean = make([]float64, c.dim)
		covs = make([]*mat.Dense, len(xs))
	)
	for i, x := range xs {
		m, cov, err := matrix.SplitGaussian(x, c.dim)
		if err != nil {
			return nil, nil, costErrorf("Bures.Barycenter", ErrDimensionMismatch)
		}
		for k := range mean {
			mean[k] += w[i] * m[k]
		}
		covs[i] = cov
	}
	cov, diffs := c.CovarianceFixpointIter(covs, w, opts...)

	return matrix.PackGaussian(mean, cov), diffs, nil
}

// gatherBarycenter applies opts over the defaults and the cost's own sqrtm options.
func (c Bures) gatherBarycenter(opts ...BarycenterOption) barycenterOptions {
	o := barycenterOptions{
		tolerance: DefaultBarycenterTolerance,
		loop: fixedpoint.Options{
			MinIterations:   DefaultBarycenterMinIterations,
			MaxIterations:   DefaultBarycenterMaxIterations,
			InnerIterations: DefaultBarycenterInnerIterations,
		},
		sqrtm: []matrix.SqrtmOption{matrix.WithConfig(c.sqrtm)},
	}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}

// PaddingPoint is the standard Gaussian: zero mean, identity covariance.
func (c Bures) PaddingPoint(int) []float64 {
	return matrix.PackGaussian(make([]float64, c.dim), matrix.Identity(c.dim))
}

// Flatten has no children; the dimension and sqrtm options are static.
func (c Bures) Flatten() ([]float64, tree.Aux) {
	static := map[string]any{keyDimension: c.dim}
	c.sqrtm.ToStatic(static)

	return nil, tree.Aux{Kind: KindBures, Static: static}
}

func scaledDense(alpha float64, a mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.Scale(alpha, a)

	return &out
}

func filledSlice(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}

	return out
}
