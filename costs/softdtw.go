package costs

import (
	"math"

	"github.com/katalvlaran/otcost/dtw"
	"github.com/katalvlaran/otcost/tree"
	"gonum.org/v1/gonum/mat"
)

// DefaultFeatureDim is the per-step feature dimension of flat soft-DTW inputs.
const DefaultFeatureDim = 1

// softDTWOptions configures NewSoftDTW.
type softDTWOptions struct {
	ground     Cost
	debiased   bool
	featureDim int
}

// SoftDTWOption customizes a SoftDTW cost.
type SoftDTWOption func(*softDTWOptions)

// WithGroundCost sets the cost between time steps (default SqEuclidean).
func WithGroundCost(c Cost) SoftDTWOption {
	return func(o *softDTWOptions) {
		if c != nil {
			o.ground = c
		}
	}
}

// WithDebiased subtracts ½(sdtw(x, x) + sdtw(y, y)) from every value.
func WithDebiased(debiased bool) SoftDTWOption {
	return func(o *softDTWOptions) { o.debiased = debiased }
}

// WithFeatureDim sets how many consecutive entries of a flat point form one
// time step. Panics if d < 1.
func WithFeatureDim(d int) SoftDTWOption {
	if d < 1 {
		panic(panicFeatureDim)
	}

	return func(o *softDTWOptions) { o.featureDim = d }
}

// SoftDTW is the soft dynamic time warping cost between two sequences: the
// soft-minimum, at temperature gamma, of the accumulated ground cost over all
// monotone alignments. gamma == 0 is classic DTW.
//
// Evaluate receives flat points and reshapes them into [len/d, d] sequences;
// EvaluateSeq takes the sequences directly.
type SoftDTW struct {
	gamma      float64
	ground     Cost
	debiased   bool
	featureDim int
}

// NewSoftDTW panics on a negative or non-finite gamma.
func NewSoftDTW(gamma float64, opts ...SoftDTWOption) SoftDTW {
	if gamma < 0 || math.IsNaN(gamma) || math.IsInf(gamma, 0) {
		panic(panicGammaInvalid)
	}
	o := softDTWOptions{ground: SqEuclidean{}, featureDim: DefaultFeatureDim}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return SoftDTW{gamma: gamma, ground: o.ground, debiased: o.debiased, featureDim: o.featureDim}
}

// Gamma returns the soft-min temperature.
func (c SoftDTW) Gamma() float64 { return c.gamma }

// GroundCost returns the cost between two time steps.
func (c SoftDTW) GroundCost() Cost { return c.ground }

// Debiased reports whether self-alignment terms are subtracted.
func (c SoftDTW) Debiased() bool { return c.debiased }

// FeatureDim returns the length of one time step.
func (c SoftDTW) FeatureDim() int { return c.featureDim }

// Evaluate returns NaN when a length is not a multiple of the feature dimension.
func (c SoftDTW) Evaluate(x, y []float64) float64 {
	a, okA := c.reshape(x)
	b, okB := c.reshape(y)
	if !okA || !okB {
		return math.NaN()
	}

	return c.EvaluateSeq(a, b)
}

// EvaluateSeq returns the (possibly debiased) soft-DTW value between two
// sequences of time steps; NaN on empty or ragged input.
func (c SoftDTW) EvaluateSeq(a, b [][]float64) float64 {
	v := c.soft(a, b)
	if c.debiased {
		v -= 0.5 * (c.soft(a, a) + c.soft(b, b))
	}

	return v
}

func (c SoftDTW) soft(a, b [][]float64) float64 {
	cost, err := AllPairs(c.ground, a, b)
	if err != nil {
		return math.NaN()
	}
	v, err := dtw.Soft(cost, c.gamma)
	if err != nil {
		return math.NaN()
	}

	return v
}

// Grad differentiates Evaluate through the expected alignment matrix E:
//
//	∂/∂x_i = Σ_j E_ij·∂₁c(x_i, y_j),  ∂/∂y_j = Σ_i E_ij·∂₂c(x_i, y_j).
//
// It needs gamma > 0; otherwise, and on malformed input, all entries are NaN.
func (c SoftDTW) Grad(x, y []float64) (gx, gy []float64) {
	a, okA := c.reshape(x)
	b, okB := c.reshape(y)
	if !okA || !okB {
		return nanVec(len(x)), nanVec(len(y))
	}
	ga, gb, ok := c.seqGrad(a, b)
	if !ok {
		return nanVec(len(x)), nanVec(len(y))
	}
	if c.debiased {
		gaa, gab, okX := c.seqGrad(a, a)
		gba, gbb, okY := c.seqGrad(b, b)
		if !okX || !okY {
			return nanVec(len(x)), nanVec(len(y))
		}
		for k := range ga {
			ga[k] -= 0.5 * (gaa[k] + gab[k])
		}
		for k := range gb {
			gb[k] -= 0.5 * (gba[k] + gbb[k])
		}
	}

	return ga, gb
}

// seqGrad returns the flat gradients of soft(a, b) with respect to a and b.
func (c SoftDTW) seqGrad(a, b [][]float64) (ga, gb []float64, ok bool) {
	cost, err := AllPairs(c.ground, a, b)
	if err != nil {
		return nil, nil, false
	}
	_, e, err := dtw.SoftGradient(cost, c.gamma)
	if err != nil {
		return nil, nil, false
	}
	d := len(a[0])
	ga = make([]float64, len(a)*d)
	gb = make([]float64, len(b)*d)
	for i := range a {
		for j := range b {
			w := e.At(i, j)
			if w == 0 {
				continue
			}
			gxi, gyj := Gradient(c.ground, a[i], b[j])
			for k := 0; k < d; k++ {
				ga[i*d+k] += w * gxi[k]
				gb[j*d+k] += w * gyj[k]
			}
		}
	}

	return ga, gb, true
}

// ExpectedAlignment returns the soft-DTW value of the sequences and the
// gradient of that value with respect to the ground-cost matrix. Debiasing is
// not applied.
func (c SoftDTW) ExpectedAlignment(a, b [][]float64) (float64, *mat.Dense, error) {
	cost, err := AllPairs(c.ground, a, b)
	if err != nil {
		return math.NaN(), nil, costErrorf("SoftDTW.ExpectedAlignment", err)
	}
	v, e, err := dtw.SoftGradient(cost, c.gamma)
	if err != nil {
		return math.NaN(), nil, costErrorf("SoftDTW.ExpectedAlignment", err)
	}

	return v, e, nil
}

// Align runs hard DTW on the ground-cost matrix of the sequences and returns
// the distance with its optimal warping path. opts may be nil; the path is
// always recovered, so the memory mode is forced to dtw.FullMatrix. gamma and
// debiasing play no part.
func (c SoftDTW) Align(a, b [][]float64, opts *dtw.Options) (float64, []dtw.Coord, error) {
	cost, err := AllPairs(c.ground, a, b)
	if err != nil {
		return math.NaN(), nil, costErrorf("SoftDTW.Align", err)
	}
	o := dtw.DefaultOptions()
	if opts != nil {
		o = *opts
	}
	o.ReturnPath, o.MemoryMode = true, dtw.FullMatrix

	v, path, err := dtw.DTW(cost, &o)
	if err != nil {
		return math.NaN(), nil, costErrorf("SoftDTW.Align", err)
	}

	return v, path, nil
}

// Sequence splits a flat point into time steps of FeatureDim entries.
// Returns ErrDimensionMismatch when len(x) is not a positive multiple.
func (c SoftDTW) Sequence(x []float64) ([][]float64, error) {
	out, ok := c.reshape(x)
	if !ok {
		return nil, costErrorf("SoftDTW.Sequence", ErrDimensionMismatch)
	}

	return out, nil
}

// reshape splits a flat point into time steps of featureDim entries.
func (c SoftDTW) reshape(x []float64) ([][]float64, bool) {
	d := c.featureDim
	if len(x) == 0 || len(x)%d != 0 {
		return nil, false
	}
	out := make([][]float64, len(x)/d)
	for i := range out {
		out[i] = x[i*d : (i+1)*d]
	}

	return out, true
}

// Flatten exposes gamma followed by the ground cost's children.
func (c SoftDTW) Flatten() ([]float64, tree.Aux) {
	gc, ga := c.ground.Flatten()
	return tree.Join([]float64{c.gamma}, gc), tree.Aux{
		Kind:   KindSoftDTW,
		Static: map[string]any{keyDebiased: c.debiased, keyFeatureDim: c.featureDim},
		Arity:  1,
		Nested: []tree.Aux{ga},
	}
}

func nanVec(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}

	return out
}
