package dtw_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/otcost/dtw"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

// absCost builds the |a_i - b_j| ground-cost matrix.
func absCost(a, b []float64) *mat.Dense {
	if len(a) == 0 || len(b) == 0 {
		return &mat.Dense{}
	}
	c := mat.NewDense(len(a), len(b), nil)
	for i := range a {
		for j := range b {
			c.Set(i, j, math.Abs(a[i]-b[j]))
		}
	}
	return c
}

// TestDTW_EmptyInput verifies that DTW returns ErrEmptyInput
// when the cost matrix is nil or empty.
func TestDTW_EmptyInput(t *testing.T) {
	opts := dtw.DefaultOptions()

	_, _, err := dtw.DTW(nil, &opts)
	assert.ErrorIs(t, err, dtw.ErrEmptyInput, "nil cost matrix should error")

	_, _, err = dtw.DTW(absCost(nil, []float64{1, 2, 3}), &opts)
	assert.ErrorIs(t, err, dtw.ErrEmptyInput, "empty first sequence should error")
}

// TestDTW_BadWindowOption ensures that Window < -1 triggers ErrBadInput.
func TestDTW_BadWindowOption(t *testing.T) {
	opts := dtw.DefaultOptions()
	opts.Window = -2

	_, _, err := dtw.DTW(absCost([]float64{1}, []float64{1}), &opts)
	assert.ErrorIs(t, err, dtw.ErrBadInput, "Window < -1 must error ErrBadInput")

	opts = dtw.DefaultOptions()
	opts.SlopePenalty = -1
	_, _, err = dtw.DTW(absCost([]float64{1}, []float64{1}), &opts)
	assert.ErrorIs(t, err, dtw.ErrBadInput, "negative penalty must error ErrBadInput")
}

// TestDTW_PathNeedsMatrix ensures ReturnPath=true with non-FullMatrix mode errors.
func TestDTW_PathNeedsMatrix(t *testing.T) {
	opts := dtw.DefaultOptions()
	opts.ReturnPath = true
	opts.MemoryMode = dtw.TwoRows

	_, _, err := dtw.DTW(absCost([]float64{1, 2}, []float64{1, 2}), &opts)
	assert.ErrorIs(t, err, dtw.ErrPathNeedsMatrix, "ReturnPath without FullMatrix must error ErrPathNeedsMatrix")
}

// TestDTW_BasicDistance verifies that identical sequences have zero distance
// and no path is returned by default.
func TestDTW_BasicDistance(t *testing.T) {
	a := []float64{0, 1, 2}
	dist, path, err := dtw.DTW(absCost(a, a), nil)
	assert.NoError(t, err, "identical sequences should not error")
	assert.Equal(t, 0.0, dist, "identical sequences must have zero distance")
	assert.Nil(t, path, "default ReturnPath=false should yield nil path")
}

// TestDTW_SyntheticDistanceAndPath checks a perfect subsequence match
// and that the path length equals n + (m-n).
func TestDTW_SyntheticDistanceAndPath(t *testing.T) {
	opts := dtw.DefaultOptions()
	opts.ReturnPath = true

	dist, path, err := dtw.DTW(absCost([]float64{1, 2, 3}, []float64{1, 2, 2, 3}), &opts)
	assert.NoError(t, err, "should not error on perfect match")
	assert.Equal(t, 0.0, dist, "perfect subsequence match yields zero cost")
	assert.Len(t, path, 4, "path length should be len(a)+(len(b)-len(a))")
	assert.Equal(t, dtw.Coord{I: 0, J: 0}, path[0], "first path point")
	assert.Equal(t, dtw.Coord{I: 2, J: 3}, path[len(path)-1], "last path point")
}

// TestDTW_WindowConstraint verifies that a strict window = 0
// with a length mismatch yields +Inf distance and no path.
func TestDTW_WindowConstraint(t *testing.T) {
	opts := dtw.DefaultOptions()
	opts.Window = 0
	opts.ReturnPath = true

	dist, path, err := dtw.DTW(absCost([]float64{1, 2, 3}, []float64{1, 2, 3, 4}), &opts)
	assert.NoError(t, err, "should not error with window constraint")
	assert.True(t, math.IsInf(dist, 1), "window=0 with length mismatch should yield +Inf")
	assert.Nil(t, path)
}

// TestDTW_SlopePenaltyAffectsDistance ensures that a positive slope penalty
// increases the computed distance by exactly that penalty.
func TestDTW_SlopePenaltyAffectsDistance(t *testing.T) {
	cost := absCost([]float64{1, 2, 3}, []float64{1, 1, 2, 3})

	opts := dtw.DefaultOptions()
	dist0, _, err := dtw.DTW(cost, &opts)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, dist0, "zero penalty allows perfect cost")

	opts.SlopePenalty = 1.0
	dist1, _, err := dtw.DTW(cost, &opts)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, dist1, "penalty=1.0 adds exactly one unit to distance")
}

// TestDTW_TwoRowsDistanceOnly confirms TwoRows mode matches FullMatrix distance
// and does not return a path.
func TestDTW_TwoRowsDistanceOnly(t *testing.T) {
	cost := absCost([]float64{0, 1, 2, 3}, []float64{0, 1, 1, 2, 3})

	refDist, _, _ := dtw.DTW(cost, nil)

	opts := dtw.DefaultOptions()
	opts.MemoryMode = dtw.TwoRows
	opts.Window = 2
	dist, path, err := dtw.DTW(cost, &opts)
	assert.NoError(t, err)
	assert.Equal(t, refDist, dist, "TwoRows must match FullMatrix distance")
	assert.Nil(t, path, "TwoRows should not return a path")
}

// TestDTW_PathCostMatchesDistance sums the cost along the returned path.
func TestDTW_PathCostMatchesDistance(t *testing.T) {
	cost := absCost([]float64{0, 3, 1, 4, 1, 5}, []float64{2, 7, 1, 8, 2})
	opts := dtw.DefaultOptions()
	opts.ReturnPath = true

	dist, path, err := dtw.DTW(cost, &opts)
	assert.NoError(t, err)
	var sum float64
	for k, p := range path {
		sum += cost.At(p.I, p.J)
		if k > 0 {
			di, dj := p.I-path[k-1].I, p.J-path[k-1].J
			assert.True(t, di >= 0 && dj >= 0 && di <= 1 && dj <= 1 && di+dj > 0, "step %d is monotone", k)
		}
	}
	assert.InDelta(t, dist, sum, 1e-12)
}
