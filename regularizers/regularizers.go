// Package regularizers provides proximal operators used by regularized
// translation-invariant costs.
//
// A ProximalOperator R exposes its value, a (sub)gradient and
//
//	prox_{τR}(z) = argmin_u τR(u) + ½‖u − z‖².
//
// Compositions:
//
//	PostComposition{F, α}  α·F              prox_{τ(αF)} = prox_{(ατ)F}
//	Regularization{F, ρ}   ρ/2‖z‖² + F(z)   prox via the scaled prox of F
//
// Every operator is tree.Decomposable, so it can be nested inside a cost record.
package regularizers

import (
	"fmt"
	"math"

	"github.com/katalvlaran/otcost/numeric"
	"github.com/katalvlaran/otcost/tree"
	"gonum.org/v1/gonum/floats"
)

// Kinds recognized by Unflatten.
const (
	KindL1              = "l1"
	KindL2              = "l2"
	KindSqL2            = "sq_l2"
	KindPostComposition = "post_composition"
	KindRegularization  = "regularization"
)

// ProximalOperator is a convex function with a cheap proximal map.
type ProximalOperator interface {
	tree.Decomposable
	Value(z []float64) float64
	Prox(z []float64, tau float64) []float64
	Grad(z []float64) []float64
}

// L1 is ‖z‖₁.
type L1 struct{}

// Value is ‖z‖₁.
func (L1) Value(z []float64) float64 { return floats.Norm(z, 1) }

// Prox is coordinate-wise soft-thresholding at tau.
func (L1) Prox(z []float64, tau float64) []float64 {
	out := make([]float64, len(z))
	for i, v := range z {
		out[i] = math.Copysign(math.Max(math.Abs(v)-tau, 0), v)
	}

	return out
}

// Grad returns sign(z), zero at zero.
func (L1) Grad(z []float64) []float64 { return numeric.NormGrad(z, 1) }

// Flatten implements tree.Decomposable.
func (L1) Flatten() ([]float64, tree.Aux) { return nil, tree.Aux{Kind: KindL1} }

// L2 is ‖z‖₂ (group lasso on a single block).
type L2 struct{}

// Value is ‖z‖₂.
func (L2) Value(z []float64) float64 { return numeric.Norm(z, 2) }

// Prox is block soft-thresholding; it returns exactly zero when ‖z‖ ≤ tau.
func (L2) Prox(z []float64, tau float64) []float64 {
	out := make([]float64, len(z))
	n := numeric.Norm(z, 2)
	if n <= tau {
		return out
	}
	floats.ScaleTo(out, 1-tau/n, z)

	return out
}

// Grad is z/‖z‖₂, zero at z = 0.
func (L2) Grad(z []float64) []float64 { return numeric.NormGrad(z, 2) }

// Flatten implements tree.Decomposable.
func (L2) Flatten() ([]float64, tree.Aux) { return nil, tree.Aux{Kind: KindL2} }

// SqL2 is ½‖z‖².
type SqL2 struct{}

// Value is ½‖z‖².
func (SqL2) Value(z []float64) float64 { return 0.5 * numeric.SqNorm(z) }

// Prox is z/(1 + τ).
func (SqL2) Prox(z []float64, tau float64) []float64 { return numeric.Scaled(1/(1+tau), z) }

// Grad is z.
func (SqL2) Grad(z []float64) []float64 { return append([]float64(nil), z...) }

// Flatten implements tree.Decomposable.
func (SqL2) Flatten() ([]float64, tree.Aux) { return nil, tree.Aux{Kind: KindSqL2} }

// PostComposition is Alpha·F.
type PostComposition struct {
	F     ProximalOperator
	Alpha float64
}

// Value is α·F(z).
func (p PostComposition) Value(z []float64) float64 { return p.Alpha * p.F.Value(z) }

// Prox is the prox of F with step ατ.
func (p PostComposition) Prox(z []float64, tau float64) []float64 { return p.F.Prox(z, p.Alpha*tau) }

// Grad is α·∇F(z).
func (p PostComposition) Grad(z []float64) []float64 { return numeric.Scaled(p.Alpha, p.F.Grad(z)) }

// Flatten exposes Alpha as the node's only child.
func (p PostComposition) Flatten() ([]float64, tree.Aux) {
	fc, fa := p.F.Flatten()
	return tree.Join([]float64{p.Alpha}, fc), tree.Aux{
		Kind: KindPostComposition, Arity: 1, Nested: []tree.Aux{fa},
	}
}

// Regularization is Rho/2‖z‖² + F(z).
type Regularization struct {
	F   ProximalOperator
	Rho float64
}

// Value is ρ/2‖z‖² + F(z).
func (r Regularization) Value(z []float64) float64 {
	return 0.5*r.Rho*numeric.SqNorm(z) + r.F.Value(z)
}

// Prox uses prox_{τ(ρ/2‖·‖² + F)}(z) = prox_{τ'F}(z/(1+τρ)) with τ' = τ/(1+τρ).
func (r Regularization) Prox(z []float64, tau float64) []float64 {
	s := 1 + tau*r.Rho
	return r.F.Prox(numeric.Scaled(1/s, z), tau/s)
}

// Grad is ρz + ∇F(z).
func (r Regularization) Grad(z []float64) []float64 {
	return numeric.Add(numeric.Scaled(r.Rho, z), r.F.Grad(z))
}

// Flatten exposes ρ followed by the children of F.
func (r Regularization) Flatten() ([]float64, tree.Aux) {
	fc, fa := r.F.Flatten()
	return tree.Join([]float64{r.Rho}, fc), tree.Aux{
		Kind: KindRegularization, Arity: 1, Nested: []tree.Aux{fa},
	}
}

// Unflatten rebuilds an operator from its decomposition.
func Unflatten(aux tree.Aux, children []float64) (ProximalOperator, error) {
	own, nested, err := tree.Split(aux, children)
	if err != nil {
		return nil, fmt.Errorf("regularizers.Unflatten: %w", err)
	}
	switch aux.Kind {
	case KindL1:
		return L1{}, nil
	case KindL2:
		return L2{}, nil
	case KindSqL2:
		return SqL2{}, nil
	case KindPostComposition, KindRegularization:
		if aux.Arity != 1 || len(aux.Nested) != 1 {
			return nil, fmt.Errorf("regularizers.Unflatten(%s): %w", aux.Kind, tree.ErrArity)
		}
		inner, err := Unflatten(aux.Nested[0], nested[0])
		if err != nil {
			return nil, err
		}
		if aux.Kind == KindPostComposition {
			return PostComposition{F: inner, Alpha: own[0]}, nil
		}
		return Regularization{F: inner, Rho: own[0]}, nil
	}

	return nil, fmt.Errorf("regularizers.Unflatten(%q): %w", aux.Kind, tree.ErrUnknownKind)
}
