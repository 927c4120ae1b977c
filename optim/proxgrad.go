package optim

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Defaults for ProxGrad.
const (
	DefaultProxMaxIterations = 500
	DefaultProxTolerance     = 1e-3
	DefaultProxDecrease      = 0.5
	DefaultProxMaxLineSearch = 15
)

// Prox evaluates the proximal operator prox_{τh}(v) = argmin_z τh(z) + ½‖z − v‖².
type Prox func(v []float64, tau float64) []float64

// ProxGrad minimizes smooth(z) + h(z) given the gradient of smooth and the
// proximal operator of h.
//
// Fields:
//   - MaxIterations: iteration cap (default 500).
//   - Tolerance: stop when ‖z⁺ − y‖/step ≤ Tolerance (default 1e-3).
//   - StepSize: fixed step if > 0; otherwise backtracking from 1.0.
//   - Accelerate: FISTA momentum.
//   - Decrease: backtracking factor in (0,1) (default 0.5).
//   - MaxLineSearch: backtracking steps per iteration (default 15).
type ProxGrad struct {
	MaxIterations int
	Tolerance     float64
	StepSize      float64
	Accelerate    bool
	Decrease      float64
	MaxLineSearch int
}

// DefaultProxGrad returns an accelerated solver with backtracking.
func DefaultProxGrad() ProxGrad {
	return ProxGrad{
		MaxIterations: DefaultProxMaxIterations,
		Tolerance:     DefaultProxTolerance,
		Accelerate:    true,
		Decrease:      DefaultProxDecrease,
		MaxLineSearch: DefaultProxMaxLineSearch,
	}
}

// Run minimizes obj.Func + h from x0, where prox is the proximal operator of h.
// Complexity: O(MaxIterations · (MaxLineSearch + 1)) objective/prox evaluations.
func (p ProxGrad) Run(obj Objective, prox Prox, x0 []float64) (Result, error) {
	if len(x0) == 0 {
		return Result{}, optimErrorf("ProxGrad.Run", ErrEmptyInit)
	}
	d := DefaultProxGrad()
	if p.MaxIterations <= 0 {
		p.MaxIterations = d.MaxIterations
	}
	if p.Tolerance <= 0 {
		p.Tolerance = d.Tolerance
	}
	if p.Decrease <= 0 || p.Decrease >= 1 {
		p.Decrease = d.Decrease
	}
	if p.MaxLineSearch <= 0 {
		p.MaxLineSearch = d.MaxLineSearch
	}

	var (
		n         = len(x0)
		x         = append([]float64(nil), x0...)
		y         = append([]float64(nil), x0...)
		grad      = make([]float64, n)
		step      = p.StepSize
		t         = 1.0
		iter      int
		converged bool
	)
	if step <= 0 {
		step = 1
	}
	for iter = 0; iter < p.MaxIterations; iter++ {
		// Stage 1: gradient step on the smooth part at the extrapolated point.
		fy := obj.Func(y)
		obj.Grad(grad, y)
		xNew := prox(axpy(-step, grad, y), step)

		// Stage 2: backtracking until the quadratic upper bound holds.
		if p.StepSize <= 0 {
			for ls := 0; ls < p.MaxLineSearch; ls++ {
				diff := sub(xNew, y)
				bound := fy + floats.Dot(grad, diff) + floats.Dot(diff, diff)/(2*step)
				if obj.Func(xNew) <= bound {
					break
				}
				step *= p.Decrease
				xNew = prox(axpy(-step, grad, y), step)
			}
		}

		// Stage 3: momentum and convergence check on the gradient mapping.
		mapping := floats.Norm(sub(xNew, y), 2) / step
		if p.Accelerate {
			tNew := (1 + math.Sqrt(1+4*t*t)) / 2
			y = axpy((t-1)/tNew, sub(xNew, x), xNew)
			t = tNew
		} else {
			y = append(y[:0], xNew...)
		}
		x = xNew
		if mapping <= p.Tolerance {
			converged = true
			iter++
			break
		}
	}

	return Result{X: x, F: obj.Func(x), Iterations: iter, Converged: converged}, nil
}

// axpy returns a·x + y as a fresh slice.
func axpy(a float64, x, y []float64) []float64 {
	out := append([]float64(nil), y...)
	floats.AddScaled(out, a, x)

	return out
}

func sub(x, y []float64) []float64 {
	return floats.SubTo(make([]float64, len(x)), x, y)
}
