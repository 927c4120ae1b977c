package costs_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/otcost/costs"
	"github.com/katalvlaran/otcost/numeric"
	"github.com/katalvlaran/otcost/regularizers"
)

// costCase is one cost together with two point sets in its layout.
type costCase struct {
	name   string
	cost   costs.Cost
	xs, ys [][]float64
}

// CostSuite checks the contract shared by every cost.
type CostSuite struct {
	suite.Suite
	cases []costCase
}

func (s *CostSuite) SetupTest() {
	var (
		vx = [][]float64{{1, 2}, {0.5, -1}, {-2, 0.3}}
		vy = [][]float64{{0, 1}, {3, -0.5}}
		gx = [][]float64{
			{1, 2, 2, 0.5, 0.5, 1},
			{0, 1, 1, 0, 0, 3},
		}
		gy = [][]float64{
			{-1, 0.5, 1.5, 0.2, 0.2, 0.8},
			{0, 0, 1, 0, 0, 1},
			{2, 2, 4, -1, -1, 2},
		}
		ux = [][]float64{
			{1, 1, 2, 2, 0.5, 0.5, 1},
			{2, 0, 1, 1, 0, 0, 3},
		}
		uy = [][]float64{
			{0.5, -1, 0.5, 1.5, 0.2, 0.2, 0.8},
			{1, 0, 0, 1, 0, 0, 1},
		}
	)
	s.cases = []costCase{
		{"pnorm_p", costs.NewPNormP(1.5), vx, vy},
		{"sq_pnorm", costs.NewSqPNorm(3), vx, vy},
		{"euclidean_p", costs.NewEuclideanP(1.5), vx, vy},
		{"euclidean", costs.Euclidean{}, vx, vy},
		{"sq_euclidean", costs.SqEuclidean{}, vx, vy},
		{"cosine", costs.NewCosine(costs.DefaultRidge), vx, vy},
		{"arccos0", costs.NewArccos(0, costs.DefaultRidge), vx, vy},
		{"arccos1", costs.NewArccos(1, costs.DefaultRidge), vx, vy},
		{"arccos2", costs.NewArccos(2, costs.DefaultRidge), vx, vy},
		{"arccos3", costs.NewArccos(3, costs.DefaultRidge), vx, vy},
		{"dotp", costs.Dotp{}, vx, vy},
		{"reg_ti", costs.NewRegTICost(regularizers.L1{}, 0.5, 1), vx, vy},
		{"soft_dtw", costs.NewSoftDTW(0.1), vx, vy},
		{"bures", costs.NewBures(2), gx, gy},
		{"unbalanced_bures", costs.NewUnbalancedBures(2, 1, 1), ux, uy},
	}
}

// TestAllPairsMatchesEvaluate validates every closed-form shortcut against the
// definitional outer product.
func (s *CostSuite) TestAllPairsMatchesEvaluate() {
	for _, tc := range s.cases {
		got, err := costs.AllPairs(tc.cost, tc.xs, tc.ys)
		require.NoError(s.T(), err, tc.name)
		r, c := got.Dims()
		require.Equal(s.T(), len(tc.xs), r, tc.name)
		require.Equal(s.T(), len(tc.ys), c, tc.name)
		for i, x := range tc.xs {
			for j, y := range tc.ys {
				want := tc.cost.Evaluate(x, y)
				require.False(s.T(), math.IsNaN(want), "%s[%d][%d]", tc.name, i, j)
				assert.InDelta(s.T(), want, got.At(i, j), 1e-9, "%s[%d][%d]", tc.name, i, j)
			}
		}
	}
}

// TestZeroDistanceGradientIsFinite covers the zero-safe norm gradients.
func (s *CostSuite) TestZeroDistanceGradientIsFinite() {
	for _, tc := range s.cases {
		if len(tc.xs[0]) != 2 || strings.HasPrefix(tc.name, "arccos") {
			continue
		}
		x := tc.xs[0]
		gx, gy := costs.Gradient(tc.cost, x, x)
		assert.True(s.T(), numeric.AllFinite(gx), "%s: %v", tc.name, gx)
		assert.True(s.T(), numeric.AllFinite(gy), "%s: %v", tc.name, gy)
	}
	// exactly zero for the pure norm costs
	for _, c := range []costs.Cost{costs.Euclidean{}, costs.NewSqPNorm(3), costs.NewEuclideanP(1.5)} {
		gx, _ := costs.Gradient(c, []float64{1, 2}, []float64{1, 2})
		assert.Equal(s.T(), []float64{0, 0}, gx)
	}
}

// TestTIIdentities: Evaluate(x, y) == h(x − y) and h(0) == Evaluate(x, x).
func (s *CostSuite) TestTIIdentities() {
	for _, tc := range s.cases {
		ti, ok := tc.cost.(costs.TI)
		if !ok {
			continue
		}
		for _, x := range tc.xs {
			for _, y := range tc.ys {
				assert.InDelta(s.T(), ti.H(numeric.Sub(x, y)), ti.Evaluate(x, y), 1e-12, tc.name)
			}
			assert.InDelta(s.T(), ti.H(make([]float64, len(x))), ti.Evaluate(x, x), 1e-12, tc.name)
		}
	}
}

func (s *CostSuite) TestFlattenRoundTrip() {
	for _, tc := range s.cases {
		children, aux := tc.cost.Flatten()
		got, err := costs.Unflatten(aux, children)
		require.NoError(s.T(), err, tc.name)
		assert.Equal(s.T(), tc.cost, got, tc.name)
	}
}

func TestCostSuite(t *testing.T) {
	suite.Run(t, new(CostSuite))
}

func TestScenarios(t *testing.T) {
	sq := costs.SqEuclidean{}
	assert.Equal(t, 0.0, sq.Evaluate([]float64{1, 2}, []float64{1, 2}))
	assert.Equal(t, 25.0, sq.Evaluate([]float64{0, 0}, []float64{3, 4}))

	cos := costs.NewCosine(1e-8)
	assert.Equal(t, 1.0, cos.Evaluate([]float64{1, 0}, []float64{0, 1}))
	assert.InDelta(t, 0.0, cos.Evaluate([]float64{2, 0}, []float64{5, 0}), 1e-8)
}

func TestAllPairs_Errors(t *testing.T) {
	_, err := costs.AllPairs(costs.SqEuclidean{}, nil, [][]float64{{1}})
	assert.True(t, errors.Is(err, costs.ErrEmptyInput))

	_, err = costs.AllPairs(costs.Euclidean{}, [][]float64{{1, 2}}, [][]float64{{1}})
	assert.True(t, errors.Is(err, costs.ErrDimensionMismatch))

	_, err = costs.AllPairs(costs.Euclidean{}, [][]float64{{1, 2}, {3}}, [][]float64{{1, 1}})
	assert.True(t, errors.Is(err, costs.ErrDimensionMismatch))

	_, err = costs.AllPairs(costs.Dotp{}, [][]float64{{}}, [][]float64{{}})
	assert.True(t, errors.Is(err, costs.ErrEmptyInput))
}

func TestNotImplemented(t *testing.T) {
	xs := [][]float64{{1, 2}, {3, 4}}
	w := []float64{1, 1}

	_, _, err := costs.Barycenter(costs.Euclidean{}, w, xs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, costs.ErrNotImplemented))
	assert.Equal(t, "barycenter: costs: operation not implemented", err.Error())

	_, _, err = costs.Barycenter(costs.NewCosine(costs.DefaultRidge), w, xs)
	assert.True(t, errors.Is(err, costs.ErrNotImplemented))

	_, err = costs.TwistOperator(costs.Euclidean{}, []float64{1}, []float64{2}, false)
	assert.True(t, errors.Is(err, costs.ErrNotImplemented))
	assert.Contains(t, err.Error(), "twist operator")

	// TI without a Legendre transform has no twist either.
	_, err = costs.TwistOperator(costs.NewEuclideanP(1.5), []float64{1}, []float64{2}, false)
	assert.True(t, errors.Is(err, costs.ErrNotImplemented))
}

func TestBarycenter_TIWeightedMean(t *testing.T) {
	xs := [][]float64{{0, 0}, {4, 8}}

	got, diag, err := costs.Barycenter(costs.NewPNormP(2), []float64{3, 1}, xs)
	require.NoError(t, err)
	assert.Nil(t, diag)
	assert.InDeltaSlice(t, []float64{1, 2}, got, 1e-12)

	got, _, err = costs.Barycenter(costs.SqEuclidean{}, []float64{1, 1}, xs)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 4}, got, 1e-12)

	_, _, err = costs.Barycenter(costs.SqEuclidean{}, []float64{1}, xs)
	assert.True(t, errors.Is(err, costs.ErrDimensionMismatch))

	_, _, err = costs.Barycenter(costs.SqEuclidean{}, []float64{-1, 2}, xs)
	assert.True(t, errors.Is(err, costs.ErrInvalidWeights))

	_, _, err = costs.Barycenter(costs.SqEuclidean{}, []float64{0, 0}, xs)
	assert.True(t, errors.Is(err, costs.ErrInvalidWeights))
}

func TestTwistOperator(t *testing.T) {
	vec, dual := []float64{1, -2}, []float64{4, 2}

	got, err := costs.TwistOperator(costs.Dotp{}, vec, dual, true)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 2}, got)
	got, err = costs.TwistOperator(costs.Dotp{}, vec, dual, false)
	require.NoError(t, err)
	assert.Equal(t, []float64{-4, -2}, got)

	// ∇h* = z/2 for the squared Euclidean cost.
	got, err = costs.TwistOperator(costs.SqEuclidean{}, vec, dual, false)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-1, -3}, got, 1e-12)
	got, err = costs.TwistOperator(costs.SqEuclidean{}, vec, dual, true)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-1, -3}, got, 1e-12)

	// ∇h* is the identity for p = 2.
	got, err = costs.TwistOperator(costs.NewPNormP(2), vec, dual, true)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-3, -4}, got, 1e-12)

	_, err = costs.TwistOperator(costs.SqEuclidean{}, vec, []float64{1}, true)
	assert.True(t, errors.Is(err, costs.ErrDimensionMismatch))
}

func TestPaddingPoint(t *testing.T) {
	assert.Equal(t, []float64{0, 0, 0}, costs.PaddingPoint(costs.SqEuclidean{}, 3))

	p := costs.PaddingPoint(costs.NewCosine(costs.DefaultRidge), 4)
	assert.InDeltaSlice(t, []float64{0.5, 0.5, 0.5, 0.5}, p, 1e-12)

	p = costs.PaddingPoint(costs.NewArccos(1, costs.DefaultRidge), 2)
	assert.InDelta(t, 1.0, numeric.Norm(p, 2), 1e-12)
}

// TestGradient_Dispatch compares analytic rules with finite differences.
func TestGradient_Dispatch(t *testing.T) {
	x, y := []float64{0.4, -1.3}, []float64{2, 0.7}
	for _, c := range []costs.Cost{
		costs.Euclidean{},
		costs.NewCosine(costs.DefaultRidge),
		costs.SqEuclidean{},
		costs.NewSqPNorm(3),
		costs.NewPNormP(1.5),
		costs.Dotp{},
	} {
		gx, gy := costs.Gradient(c, x, y)
		fx := numericGrad(func(v []float64) float64 { return c.Evaluate(v, y) }, x)
		fy := numericGrad(func(v []float64) float64 { return c.Evaluate(x, v) }, y)
		assert.InDeltaSlice(t, fx, gx, 1e-5)
		assert.InDeltaSlice(t, fy, gy, 1e-5)
	}
}

func TestWeightedMean_Errors(t *testing.T) {
	_, err := costs.WeightedMean(nil, nil)
	assert.True(t, errors.Is(err, costs.ErrEmptyInput))

	_, err = costs.WeightedMean([]float64{1, 1}, [][]float64{{1}, {1, 2}})
	assert.True(t, errors.Is(err, costs.ErrDimensionMismatch))
}
