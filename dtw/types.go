package dtw

import "errors"

// MemoryMode controls how DTW stores its DP matrix.
//
//   - FullMatrix: keep the entire (n+1)x(m+1) matrix in memory.
//     Allows distance + full backtrace for the optimal warping path.
//     Memory: O(n·m).
//
//   - TwoRows: only keep two rows (current and previous).
//     Reduces memory to O(m), but cannot recover the path.
//     Use when you only need the distance.
type MemoryMode int

const (
	// FullMatrix mode: store all rows, support path recovery, uses O(N·M) memory.
	FullMatrix MemoryMode = iota

	// TwoRows mode: keep only two rows, no path recovery, uses O(M) memory.
	TwoRows
)

// Unlimited disables the Sakoe–Chiba band.
const Unlimited = -1

var (
	// ErrEmptyInput indicates a cost matrix with no rows or no columns.
	ErrEmptyInput = errors.New("dtw: cost matrix must be non-empty")

	// ErrBadInput indicates invalid options or parameters (window < -1,
	// negative or NaN slope penalty, non-positive gamma where one is required).
	ErrBadInput = errors.New("dtw: bad input")

	// ErrPathNeedsMatrix indicates that path recovery requires FullMatrix mode.
	ErrPathNeedsMatrix = errors.New("dtw: ReturnPath requires MemoryMode=FullMatrix")
)

// Coord is one cell (I, J) of a warping path: element I of the first
// sequence aligned with element J of the second.
type Coord struct {
	I, J int
}

// Options configures Dynamic Time Warping.
//
// Fields:
//   - Window: maximum deviation |i-j| allowed (Sakoe–Chiba band).
//     Unlimited (-1) disables the constraint; 0 forces the diagonal.
//   - SlopePenalty: penalty cost for insertion/deletion steps (controls locality bias).
//   - ReturnPath: if true, DTW will backtrack and return the optimal warping path.
//     Requires MemoryMode=FullMatrix.
//   - MemoryMode: choose FullMatrix or TwoRows storage.
//
// Example:
//
//	opts := dtw.DefaultOptions()
//	opts.Window = 10        // only compare elements within ±10 steps
//	opts.SlopePenalty = 0.5 // small penalty for non-diagonal moves
//	opts.ReturnPath = true  // we need the path, not just the distance
//
//	dist, path, err := dtw.DTW(cost, &opts)
type Options struct {
	Window       int
	SlopePenalty float64
	ReturnPath   bool
	MemoryMode   MemoryMode
}

// DefaultOptions returns unconstrained, penalty-free, distance-only options.
func DefaultOptions() Options {
	return Options{
		Window:       Unlimited,
		SlopePenalty: 0,
		ReturnPath:   false,
		MemoryMode:   FullMatrix,
	}
}

// Validate reports contradictory or nonsensical options.
func (o *Options) Validate() error {
	if o.Window < Unlimited {
		return ErrBadInput
	}
	if o.SlopePenalty < 0 || o.SlopePenalty != o.SlopePenalty {
		return ErrBadInput
	}
	if o.ReturnPath && o.MemoryMode != FullMatrix {
		return ErrPathNeedsMatrix
	}

	return nil
}
