package dtw

import (
	"fmt"
	"math"

	"github.com/katalvlaran/otcost/numeric"
	"gonum.org/v1/gonum/mat"
)

// orient returns the cost matrix with at least as many rows as columns.
func orient(cost mat.Matrix) (mat.Matrix, int, int) {
	n, m := cost.Dims()
	if n < m {
		return cost.T(), m, n
	}

	return cost, n, m
}

// Antidiagonals reorganizes a cost matrix so that row k holds its k-th
// antidiagonal (cells with i + j = k), indexed by i.
//
// The matrix is first transposed if needed so that it has n ≥ m rows; the
// result is (n+m-1) x n and cells outside the cost matrix are +Inf.
// Complexity: O((n+m)·n).
func Antidiagonals(cost mat.Matrix) *mat.Dense {
	c, n, m := orient(cost)
	out := mat.NewDense(n+m-1, n, nil)
	inf := math.Inf(1)
	for k := 0; k < n+m-1; k++ {
		for i := 0; i < n; i++ {
			j := k - i
			if j < 0 || j >= m {
				out.Set(k, i, inf)
				continue
			}
			out.Set(k, i, c.At(i, j))
		}
	}

	return out
}

// Soft computes the soft-DTW value of a cost matrix.
//
// Each cell is R[i][j] = cost[i][j] + softmin_γ(R[i-1][j-1], R[i-1][j], R[i][j-1]),
// with R[0][0] = cost[0][0]. The scan runs over antidiagonals and keeps only
// the last two of them, so the working state is O(max(n, m)).
// gamma = 0 reproduces the hard-min DTW value.
//
// Errors: ErrEmptyInput, ErrBadInput (gamma < 0 or NaN).
func Soft(cost mat.Matrix, gamma float64) (float64, error) {
	if cost == nil {
		return 0, fmt.Errorf("Soft: %w", ErrEmptyInput)
	}
	if n, m := cost.Dims(); n == 0 || m == 0 {
		return 0, fmt.Errorf("Soft: %w", ErrEmptyInput)
	}
	if gamma < 0 || math.IsNaN(gamma) {
		return 0, fmt.Errorf("Soft: gamma=%v: %w", gamma, ErrBadInput)
	}

	var (
		model = Antidiagonals(cost)
		k, n  = model.Dims()
		inf   = math.Inf(1)
	)
	if k == 1 {
		return model.At(0, 0), nil
	}

	// padded antidiagonals: p[0] = +Inf, p[i+1] = R on cell i of the antidiagonal.
	var (
		twoAgo = make([]float64, n+1)
		oneAgo = make([]float64, n+1)
		next   = make([]float64, n+1)
		triple = make([]float64, 3)
	)
	twoAgo[0], oneAgo[0], next[0] = inf, inf, inf
	c00 := model.At(0, 0)
	for i := 0; i < n; i++ {
		twoAgo[i+1] = model.At(0, i)
		oneAgo[i+1] = model.At(1, i) + c00
	}
	for d := 2; d < k; d++ {
		for i := 0; i < n; i++ {
			// diagonal, up, left
			triple[0], triple[1], triple[2] = twoAgo[i], oneAgo[i], oneAgo[i+1]
			next[i+1] = model.At(d, i) + numeric.Softmin(triple, gamma)
		}
		twoAgo, oneAgo, next = oneAgo, next, twoAgo
	}

	return oneAgo[n], nil
}

// SoftGradient returns the soft-DTW value together with its gradient with
// respect to every cost entry (the expected alignment matrix E, entries in
// [0, 1]).
//
// The forward pass keeps, for every cell, the soft-min weights of its three
// predecessors. The backward pass propagates E from the corner:
// E[i][j] = Σ E[succ]·w[succ → (i, j)] over the three successors of (i, j).
// Complexity: O(n·m) time and memory.
//
// Errors: ErrEmptyInput, ErrBadInput (gamma ≤ 0 or NaN).
func SoftGradient(cost mat.Matrix, gamma float64) (float64, *mat.Dense, error) {
	if cost == nil {
		return 0, nil, fmt.Errorf("SoftGradient: %w", ErrEmptyInput)
	}
	n, m := cost.Dims()
	if n == 0 || m == 0 {
		return 0, nil, fmt.Errorf("SoftGradient: %w", ErrEmptyInput)
	}
	if !(gamma > 0) {
		return 0, nil, fmt.Errorf("SoftGradient: gamma=%v: %w", gamma, ErrBadInput)
	}

	// Stage 1: forward table with a one-cell border, R[0][0] = 0.
	// w[i][j] holds the weights of (diagonal, up, left) in R[i][j].
	var (
		inf    = math.Inf(1)
		r      = make([][]float64, n+1)
		w      = make([][][]float64, n+2)
		e      = make([][]float64, n+2)
		triple = make([]float64, 3)
		zero   = make([]float64, 3)
	)
	for i := range r {
		r[i] = make([]float64, m+1)
	}
	for i := range e {
		e[i] = make([]float64, m+2)
		w[i] = make([][]float64, m+2)
		for j := range w[i] {
			w[i][j] = zero
		}
	}
	for i := 1; i <= n; i++ {
		r[i][0] = inf
	}
	for j := 1; j <= m; j++ {
		r[0][j] = inf
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			triple[0], triple[1], triple[2] = r[i-1][j-1], r[i-1][j], r[i][j-1]
			r[i][j] = cost.At(i-1, j-1) + numeric.Softmin(triple, gamma)
			w[i][j] = numeric.SoftminWeights(triple, gamma)
		}
	}

	// Stage 2: backward pass; cells outside the table carry zero weight.
	e[n][m] = 1
	for i := n; i >= 1; i-- {
		for j := m; j >= 1; j-- {
			if i == n && j == m {
				continue
			}
			e[i][j] = e[i+1][j+1]*w[i+1][j+1][0] + e[i+1][j]*w[i+1][j][1] + e[i][j+1]*w[i][j+1][2]
		}
	}

	grad := mat.NewDense(n, m, nil)
	for i := 0; i < n; i++ {
		grad.SetRow(i, e[i+1][1:m+1])
	}

	return r[n][m], grad, nil
}
