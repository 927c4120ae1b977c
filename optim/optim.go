// Package optim provides the inner solvers used by h-transforms:
//
//   - Minimizer, the contract of an unconstrained smooth minimizer
//     (objective, initial point) → (solution, info); LBFGS is the default
//     implementation on gonum/optimize.
//   - ProxGrad, a proximal-gradient solver (FISTA acceleration, backtracking
//     line search) for objectives of the form smooth(z) + h(z) where only the
//     proximal operator of h is available.
//
// Solvers are plain values; they hold configuration only and can be shared.
package optim

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInit indicates a zero-length initial point.
	ErrEmptyInit = errors.New("optim: initial point is empty")

	// ErrSolverFailed wraps failures reported by an underlying solver.
	ErrSolverFailed = errors.New("optim: solver failed")
)

// Objective is a smooth scalar objective with its gradient.
// Grad writes ∇Func(x) into grad (len(grad) == len(x)).
type Objective struct {
	Func func(x []float64) float64
	Grad func(grad, x []float64)
}

// Result of a solver run.
type Result struct {
	X          []float64
	F          float64
	Iterations int
	Converged  bool
}

// Minimizer minimizes a smooth objective from an initial point. The returned
// X has the same length as x0.
type Minimizer interface {
	Minimize(obj Objective, x0 []float64) (Result, error)
}

// MinimizerFunc adapts a function to the Minimizer interface.
type MinimizerFunc func(obj Objective, x0 []float64) (Result, error)

// Minimize implements Minimizer.
func (f MinimizerFunc) Minimize(obj Objective, x0 []float64) (Result, error) { return f(obj, x0) }

func optimErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
