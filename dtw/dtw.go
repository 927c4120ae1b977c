package dtw

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DTW: Dynamic Time Warping over a precomputed ground-cost matrix.
//
// Description:
//
//	cost.At(i, j) is the local cost of aligning element i of the first
//	sequence with element j of the second. Any ground cost (absolute
//	difference, squared Euclidean, a full cost object) is applied before
//	calling DTW, so the DP itself is independent of the element type.
//
// Algorithm Outline (Full-Matrix):
//  1. Let n, m = cost.Dims(). Allocate (n+1)x(m+1) DP matrix D.
//  2. Initialize:
//     D[0][0] = 0
//     D[i][0] = +∞ for i=1..n
//     D[0][j] = +∞ for j=1..m
//  3. For i = 1..n:
//     For j = 1..m (and |i-j| ≤ Window, if constrained):
//     ins   = D[i-1][j]   + SlopePenalty
//     del   = D[i][j-1]   + SlopePenalty
//     match = D[i-1][j-1]
//     D[i][j] = cost[i-1][j-1] + min(ins, del, match)
//  4. distance = D[n][m].
//  5. If ReturnPath, backtrack from (n,m) to (1,1) following the cheapest
//     predecessor (diagonal preferred on ties).
//
// Complexity:
//
//	Time   = O(n·m)
//	Memory = O(n·m) (FullMatrix) or O(m) (TwoRows)
//
// Errors:
//   - ErrEmptyInput: if the cost matrix has no rows or columns.
//   - ErrBadInput: window < -1 or negative slope penalty.
//   - ErrPathNeedsMatrix: if ReturnPath=true with TwoRows mode.
func DTW(cost mat.Matrix, opts *Options) (distance float64, path []Coord, err error) {
	if cost == nil {
		return 0, nil, fmt.Errorf("DTW: %w", ErrEmptyInput)
	}
	n, m := cost.Dims()
	if n == 0 || m == 0 {
		return 0, nil, fmt.Errorf("DTW: %w", ErrEmptyInput)
	}
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	if err = o.Validate(); err != nil {
		return 0, nil, fmt.Errorf("DTW: %w", err)
	}

	var (
		inf     = math.Inf(1)
		rows    = 2
		dp      [][]float64
		penalty = o.SlopePenalty
	)
	if o.MemoryMode == FullMatrix {
		rows = n + 1
	}
	dp = make([][]float64, rows)
	for r := range dp {
		dp[r] = make([]float64, m+1)
	}
	for j := 1; j <= m; j++ {
		dp[0][j] = inf
	}

	// Stage 1: fill row by row; in TwoRows mode rows alternate by parity.
	for i := 1; i <= n; i++ {
		curr, prev := i, i-1
		if o.MemoryMode == TwoRows {
			curr, prev = i%2, (i-1)%2
		}
		dp[curr][0] = inf
		for j := 1; j <= m; j++ {
			if o.Window != Unlimited && abs(i-j) > o.Window {
				dp[curr][j] = inf
				continue
			}
			ins := dp[prev][j] + penalty
			del := dp[curr][j-1] + penalty
			match := dp[prev][j-1]
			dp[curr][j] = cost.At(i-1, j-1) + min3(ins, del, match)
		}
	}
	if o.MemoryMode == TwoRows {
		distance = dp[n%2][m]
	} else {
		distance = dp[n][m]
	}

	// Stage 2: optional backtracking.
	if o.ReturnPath && !math.IsInf(distance, 1) {
		path = backtrack(dp, n, m, penalty)
	}

	return distance, path, nil
}

// backtrack walks the full DP table from (n,m) back to (1,1).
func backtrack(dp [][]float64, n, m int, penalty float64) []Coord {
	path := make([]Coord, 0, n+m-1)
	i, j := n, m
	for {
		path = append(path, Coord{I: i - 1, J: j - 1})
		if i == 1 && j == 1 {
			break
		}
		var (
			match = dp[i-1][j-1]
			ins   = dp[i-1][j] + penalty
			del   = dp[i][j-1] + penalty
		)
		switch {
		case match <= ins && match <= del:
			i, j = i-1, j-1
		case ins <= del:
			i--
		default:
			j--
		}
	}
	// reverse path in-place
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}

	return path
}

// abs returns the absolute value of an int.
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// min3 returns the minimum of three float64 values.
func min3(a, b, c float64) float64 {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
