package costs

import (
	"math"

	"github.com/katalvlaran/otcost/autodiff"
	"github.com/katalvlaran/otcost/numeric"
	"github.com/katalvlaran/otcost/optim"
)

// hOptions configures h-transforms.
type hOptions struct {
	minimizer optim.Minimizer
	proxGrad  optim.ProxGrad
}

// HOption customizes an h-transform. The generic transform uses the minimizer;
// RegTICost.HTransform uses the proximal-gradient settings.
type HOption func(*hOptions)

// WithMinimizer injects the inner minimizer of the generic h-transform
// (default optim.LBFGS{}).
func WithMinimizer(m optim.Minimizer) HOption {
	return func(o *hOptions) {
		if m != nil {
			o.minimizer = m
		}
	}
}

// WithProxGrad sets the proximal-gradient solver of RegTICost.HTransform
// (default optim.DefaultProxGrad()).
func WithProxGrad(p optim.ProxGrad) HOption {
	return func(o *hOptions) { o.proxGrad = p }
}

func gatherH(opts ...HOption) hOptions {
	o := hOptions{minimizer: optim.LBFGS{}, proxGrad: optim.DefaultProxGrad()}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}

// HTransformer is implemented by costs with a specialized h-transform.
type HTransformer interface {
	HTransform(f autodiff.Scalar, opts ...HOption) *HTransformed
}

// HTransformed is the h-transform of a concave function f under a TI cost:
//
//	f_h(x) = min_z h(z) − f(x − z).
//
// The inner argmin z* is computed by a solver and treated as a constant
// afterwards: Value re-evaluates the objective at z*, and Grad is the envelope
// gradient −∇f(x − z*). Nothing differentiates through the solver.
//
// HTransformed implements autodiff.Scalar.
type HTransformed struct {
	h     func(z []float64) float64
	f     autodiff.Scalar
	solve func(x, init []float64) ([]float64, error)
}

// HTransform returns the generic h-transform of f under c, minimizing
// z ↦ h(z) − f(x − z) with the injected minimizer (default L-BFGS).
func HTransform(c TI, f autodiff.Scalar, opts ...HOption) *HTransformed {
	o := gatherH(opts...)
	solve := func(x, init []float64) ([]float64, error) {
		obj := optim.Objective{
			Func: func(z []float64) float64 {
				return c.H(z) - f.Value(numeric.Sub(x, z))
			},
			Grad: func(grad, z []float64) {
				gh := c.GradH(z)
				gf := f.Grad(numeric.Sub(x, z))
				for i := range grad {
					grad[i] = gh[i] + gf[i]
				}
			},
		}
		// a solver that stalls after progress still reports its best point
		res, err := o.minimizer.Minimize(obj, init)
		if err != nil && res.X == nil {
			return nil, costErrorf("HTransform", err)
		}

		return res.X, nil
	}

	return &HTransformed{h: c.H, f: f, solve: solve}
}

// Solve returns the inner argmin z* at x, starting from init (x when nil).
func (t *HTransformed) Solve(x, init []float64) ([]float64, error) {
	if init == nil {
		init = x
	}

	return t.solve(x, append([]float64(nil), init...))
}

// Eval returns f_h(x) and its envelope gradient −∇f(x − z*) with one inner solve.
func (t *HTransformed) Eval(x, init []float64) (value float64, grad []float64, err error) {
	z, err := t.Solve(x, init)
	if err != nil {
		return math.NaN(), nil, err
	}
	y := numeric.Sub(x, z)

	return t.h(z) - t.f.Value(y), numeric.Neg(t.f.Grad(y)), nil
}

// Value implements autodiff.Scalar; a failed inner solve yields NaN.
func (t *HTransformed) Value(x []float64) float64 {
	v, _, _ := t.Eval(x, nil)
	return v
}

// Grad implements autodiff.Scalar; a failed inner solve yields NaN entries.
func (t *HTransformed) Grad(x []float64) []float64 {
	_, g, err := t.Eval(x, nil)
	if err != nil {
		g = make([]float64, len(x))
		for i := range g {
			g[i] = math.NaN()
		}
	}

	return g
}

// TransportMap returns the map x ↦ x − ∇h*(∇g_h(x)) built from a concave
// potential g, applied row-wise. Costs implementing HTransformer use their own
// h-transform; others use the generic one.
func TransportMap(c Legendre, g autodiff.Scalar, opts ...HOption) func(xs [][]float64) ([][]float64, error) {
	var gh *HTransformed
	if ht, ok := c.(HTransformer); ok {
		gh = ht.HTransform(g, opts...)
	} else {
		gh = HTransform(c, g, opts...)
	}

	return func(xs [][]float64) ([][]float64, error) {
		var err error
		out := autodiff.Map(xs, func(x []float64) []float64 {
			if err != nil {
				return nil
			}
			_, grad, e := gh.Eval(x, nil)
			if e != nil {
				err = e
				return nil
			}

			return Twist(c, x, grad, false)
		})
		if err != nil {
			return nil, costErrorf("TransportMap", err)
		}

		return out, nil
	}
}
