package costs

import (
	"github.com/katalvlaran/otcost/autodiff"
	"github.com/katalvlaran/otcost/numeric"
	"github.com/katalvlaran/otcost/optim"
	"github.com/katalvlaran/otcost/regularizers"
	"github.com/katalvlaran/otcost/tree"
)

// RegTICost is the regularized translation-invariant cost
//
//	h(z) = ρ/2‖z‖² + λ·R(z)
//
// for a convex regularizer R with a proximal operator. Its Legendre transform
// is evaluated through the proximal point
//
//	q(z) = prox_{(λ/ρ)R}(z/ρ),  h*(z) = ⟨q, z⟩ − h(q),  ∇h*(z) = q
//
// where the gradient comes from Danskin's theorem instead of differentiating
// the prox.
type RegTICost struct {
	reg   regularizers.ProximalOperator
	lam   float64
	rho   float64
	scale regularizers.PostComposition // λ·R
	h     regularizers.Regularization  // ρ/2‖·‖² + λ·R
}

// NewRegTICost builds h = rho/2‖·‖² + lam·reg.
func NewRegTICost(reg regularizers.ProximalOperator, lam, rho float64) RegTICost {
	scale := regularizers.PostComposition{F: reg, Alpha: lam}
	return RegTICost{
		reg:   reg,
		lam:   lam,
		rho:   rho,
		scale: scale,
		h:     regularizers.Regularization{F: scale, Rho: rho},
	}
}

// Regularizer returns R.
func (c RegTICost) Regularizer() regularizers.ProximalOperator { return c.reg }

// Lam returns the weight λ of R.
func (c RegTICost) Lam() float64 { return c.lam }

// Rho returns the weight ρ of the quadratic term.
func (c RegTICost) Rho() float64 { return c.rho }

// Evaluate returns h(x − y).
func (c RegTICost) Evaluate(x, y []float64) float64 { return c.H(numeric.Sub(x, y)) }

// H is ρ/2‖z‖² + λR(z).
func (c RegTICost) H(z []float64) float64 { return c.h.Value(z) }

// GradH uses a subgradient of R where R is not differentiable.
func (c RegTICost) GradH(z []float64) []float64 { return c.h.Grad(z) }

// HLegendreVJP is the forward pass of h* with its backward rule g ↦ g·q.
func (c RegTICost) HLegendreVJP(z []float64) (float64, autodiff.VJP) {
	q := c.proxPoint(z)
	value := numeric.Dot(q, z) - c.H(q)

	return value, func(g float64) []float64 { return numeric.Scaled(g, q) }
}

// HLegendre is ⟨q, z⟩ − h(q) with q = prox_{(λ/ρ)R}(z/ρ).
func (c RegTICost) HLegendre(z []float64) float64 {
	v, _ := c.HLegendreVJP(z)
	return v
}

// GradHLegendre is the prox point q (Danskin).
func (c RegTICost) GradHLegendre(z []float64) []float64 { return c.proxPoint(z) }

// Legendre returns h* as a differentiable scalar carrying the Danskin rule.
func (c RegTICost) Legendre() autodiff.Scalar { return autodiff.Custom(c.HLegendreVJP) }

// proxPoint returns argmax_q ⟨q, z⟩ − h(q) = prox_{(λ/ρ)R}(z/ρ).
func (c RegTICost) proxPoint(z []float64) []float64 {
	return c.scale.Prox(numeric.Scaled(1/c.rho, z), 1/c.rho)
}

// HTransform solves min_z h(z) − f(x − z) by proximal gradient: the smooth
// part is z ↦ −f(x − z) and the prox of h is applied in closed form. The
// solution is detached as in the generic transform. This path never uses a
// generic minimizer.
func (c RegTICost) HTransform(f autodiff.Scalar, opts ...HOption) *HTransformed {
	o := gatherH(opts...)
	solve := func(x, init []float64) ([]float64, error) {
		smooth := optim.Objective{
			Func: func(z []float64) float64 { return -f.Value(numeric.Sub(x, z)) },
			Grad: func(grad, z []float64) { copy(grad, f.Grad(numeric.Sub(x, z))) },
		}
		res, err := o.proxGrad.Run(smooth, c.h.Prox, init)
		if err != nil {
			return nil, costErrorf("RegTICost.HTransform", err)
		}

		return res.X, nil
	}

	return &HTransformed{h: c.H, f: f, solve: solve}
}

// Flatten exposes (lam, rho) as children, followed by the regularizer's.
func (c RegTICost) Flatten() ([]float64, tree.Aux) {
	rc, ra := c.reg.Flatten()
	return tree.Join([]float64{c.lam, c.rho}, rc), tree.Aux{
		Kind: KindRegTI, Arity: 2, Nested: []tree.Aux{ra},
	}
}
