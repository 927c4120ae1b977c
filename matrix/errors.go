// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// Algorithms return these sentinels (optionally wrapped with call-site context)
// and tests match them via errors.Is. Numeric domain problems (negative
// eigenvalues under a square root, singular systems inside a cost) are NOT
// errors here: they propagate as NaN so batched, differentiable pipelines keep
// running.

package matrix

import (
	"errors"
	"fmt"
)

var (
	// ErrNilMatrix indicates that a nil *mat.Dense was passed.
	ErrNilMatrix = errors.New("matrix: nil matrix")

	// ErrNonSquare signals that a square matrix was required but the input wasn't.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrDimensionMismatch indicates incompatible lengths or shapes, e.g. a packed
	// Gaussian whose length is not d + d².
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrInvalidConfig indicates a square-root configuration with a negative,
	// NaN or infinite threshold or regularization.
	ErrInvalidConfig = errors.New("matrix: invalid sqrtm configuration")
)

// matrixErrorf wraps a sentinel with the failing operation's name.
func matrixErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
