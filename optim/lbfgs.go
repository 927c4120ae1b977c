package optim

import (
	"fmt"

	"gonum.org/v1/gonum/optimize"
)

// Defaults for LBFGS.
const (
	DefaultGradientThreshold = 1e-6
	DefaultMaxIterations     = 200
	DefaultStore             = 15
)

// LBFGS is a limited-memory quasi-Newton minimizer with line search, backed by
// gonum/optimize. Zero fields take the documented defaults.
type LBFGS struct {
	GradientThreshold float64
	MaxIterations     int
	Store             int
}

// Minimize implements Minimizer.
// A gonum failure after progress (e.g. a line search that can no longer
// decrease) still returns the best location found together with ErrSolverFailed.
func (l LBFGS) Minimize(obj Objective, x0 []float64) (Result, error) {
	if len(x0) == 0 {
		return Result{}, optimErrorf("LBFGS.Minimize", ErrEmptyInit)
	}
	var (
		threshold = l.GradientThreshold
		maxIter   = l.MaxIterations
		store     = l.Store
	)
	if threshold <= 0 {
		threshold = DefaultGradientThreshold
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	if store <= 0 {
		store = DefaultStore
	}

	problem := optimize.Problem{Func: obj.Func, Grad: obj.Grad}
	settings := &optimize.Settings{
		GradientThreshold: threshold,
		MajorIterations:   maxIter,
	}
	res, err := optimize.Minimize(problem, append([]float64(nil), x0...), settings, &optimize.LBFGS{Store: store})
	if res == nil {
		return Result{}, fmt.Errorf("LBFGS.Minimize: %v: %w", err, ErrSolverFailed)
	}
	out := Result{
		X:          res.X,
		F:          res.F,
		Iterations: res.Stats.MajorIterations,
		Converged:  err == nil && res.Status != optimize.IterationLimit,
	}
	if err != nil {
		return out, fmt.Errorf("LBFGS.Minimize: %v: %w", err, ErrSolverFailed)
	}

	return out, nil
}
