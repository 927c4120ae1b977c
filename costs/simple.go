package costs

import (
	"math"

	"github.com/katalvlaran/otcost/numeric"
	"github.com/katalvlaran/otcost/tree"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// dualOrder returns q with 1/p + 1/q = 1 (+Inf for p ≤ 1).
func dualOrder(p float64) float64 {
	if p > 1 {
		return 1 / (1 - 1/p)
	}

	return math.Inf(1)
}

func checkOrder(p float64) {
	if !(p >= 1) {
		panic(panicOrderInvalid)
	}
}

// PNormP is h(z) = ‖z‖_p^p / p.
// Its Legendre transform uses the dual order q = p/(p−1) and is not defined for p = 1.
type PNormP struct {
	p, q float64
}

// NewPNormP panics if p < 1.
func NewPNormP(p float64) PNormP {
	checkOrder(p)
	return PNormP{p: p, q: dualOrder(p)}
}

// P returns the norm order.
func (c PNormP) P() float64 { return c.p }

// Evaluate returns ‖x − y‖_p^p / p.
func (c PNormP) Evaluate(x, y []float64) float64 { return c.H(numeric.Sub(x, y)) }

// H is ‖z‖_p^p / p.
func (c PNormP) H(z []float64) float64 { return powNormOverP(z, c.p) }

// GradH is sign(z)·|z|^(p−1).
func (c PNormP) GradH(z []float64) []float64 { return numeric.SignedPow(z, c.p-1) }

// HLegendre is ‖z‖_q^q / q with 1/p + 1/q = 1.
func (c PNormP) HLegendre(z []float64) float64 { return powNormOverP(z, c.q) }

// GradHLegendre is sign(z)·|z|^(q−1).
func (c PNormP) GradHLegendre(z []float64) []float64 { return numeric.SignedPow(z, c.q-1) }

// Flatten stores p in the static record.
func (c PNormP) Flatten() ([]float64, tree.Aux) {
	return nil, tree.Aux{Kind: KindPNormP, Static: map[string]any{keyP: c.p}}
}

// powNormOverP returns ‖z‖_p^p / p.
func powNormOverP(z []float64, p float64) float64 {
	if math.IsInf(p, 1) {
		return math.Pow(numeric.Norm(z, p), p) / p
	}
	var s float64
	for _, v := range z {
		s += math.Pow(math.Abs(v), p)
	}

	return s / p
}

// SqPNorm is h(z) = ½‖z‖_p²; h*(z) = ½‖z‖_q².
type SqPNorm struct {
	p, q float64
}

// NewSqPNorm panics if p < 1.
func NewSqPNorm(p float64) SqPNorm {
	checkOrder(p)
	return SqPNorm{p: p, q: dualOrder(p)}
}

// P returns the norm order.
func (c SqPNorm) P() float64 { return c.p }

// Evaluate returns ½‖x − y‖_p².
func (c SqPNorm) Evaluate(x, y []float64) float64 { return c.H(numeric.Sub(x, y)) }

// H is ½‖z‖_p².
func (c SqPNorm) H(z []float64) float64 {
	n := numeric.Norm(z, c.p)
	return 0.5 * n * n
}

// GradH is ‖z‖_p·∇‖z‖_p, zero at z = 0.
func (c SqPNorm) GradH(z []float64) []float64 {
	return numeric.Scaled(numeric.Norm(z, c.p), numeric.NormGrad(z, c.p))
}

// HLegendre is ½‖z‖_q² with 1/p + 1/q = 1.
func (c SqPNorm) HLegendre(z []float64) float64 {
	n := numeric.Norm(z, c.q)
	return 0.5 * n * n
}

// GradHLegendre is ‖z‖_q·∇‖z‖_q, zero at z = 0.
func (c SqPNorm) GradHLegendre(z []float64) []float64 {
	return numeric.Scaled(numeric.Norm(z, c.q), numeric.NormGrad(z, c.q))
}

// Flatten stores p in the static record.
func (c SqPNorm) Flatten() ([]float64, tree.Aux) {
	return nil, tree.Aux{Kind: KindSqPNorm, Static: map[string]any{keyP: c.p}}
}

// EuclideanP is h(z) = ‖z‖₂^p. No Legendre transform is provided.
type EuclideanP struct {
	p float64
}

// NewEuclideanP panics if p < 1.
func NewEuclideanP(p float64) EuclideanP {
	checkOrder(p)
	return EuclideanP{p: p}
}

// P returns the exponent.
func (c EuclideanP) P() float64 { return c.p }

// Evaluate returns ‖x − y‖₂^p.
func (c EuclideanP) Evaluate(x, y []float64) float64 { return c.H(numeric.Sub(x, y)) }

// H is ‖z‖₂^p.
func (c EuclideanP) H(z []float64) float64 { return math.Pow(numeric.Norm(z, 2), c.p) }

// GradH is p‖z‖^(p−1)·∇‖z‖, zero at z = 0.
func (c EuclideanP) GradH(z []float64) []float64 {
	n := numeric.Norm(z, 2)
	if n == 0 {
		return make([]float64, len(z))
	}

	return numeric.Scaled(c.p*math.Pow(n, c.p-1), numeric.NormGrad(z, 2))
}

// Flatten stores p in the static record.
func (c EuclideanP) Flatten() ([]float64, tree.Aux) {
	return nil, tree.Aux{Kind: KindEuclideanP, Static: map[string]any{keyP: c.p}}
}

// Euclidean is c(x, y) = ‖x − y‖₂.
//
// It is deliberately not TI: ‖·‖ is linear along rays, so its gradient is not
// invertible and no valid twist operator exists.
type Euclidean struct{}

// Evaluate returns ‖x − y‖₂.
func (Euclidean) Evaluate(x, y []float64) float64 { return numeric.Norm(numeric.Sub(x, y), 2) }

// Grad is zero when x == y.
func (Euclidean) Grad(x, y []float64) (gx, gy []float64) {
	g := numeric.NormGrad(numeric.Sub(x, y), 2)
	return g, numeric.Neg(g)
}

// Flatten implements tree.Decomposable.
func (Euclidean) Flatten() ([]float64, tree.Aux) { return nil, tree.Aux{Kind: KindEuclidean} }

// SqEuclidean is c(x, y) = ‖x‖² + ‖y‖² − 2⟨x, y⟩, i.e. h(z) = ‖z‖², h*(z) = ¼‖z‖².
type SqEuclidean struct{}

// Norm returns ‖x‖².
func (SqEuclidean) Norm(x []float64) float64 { return numeric.SqNorm(x) }

// Evaluate returns ‖x − y‖².
func (c SqEuclidean) Evaluate(x, y []float64) float64 {
	return c.Norm(x) + c.Norm(y) - 2*numeric.Dot(x, y)
}

// H is ‖z‖².
func (SqEuclidean) H(z []float64) float64 { return numeric.SqNorm(z) }

// GradH is 2z.
func (SqEuclidean) GradH(z []float64) []float64 { return numeric.Scaled(2, z) }

// HLegendre is ¼‖z‖².
func (SqEuclidean) HLegendre(z []float64) float64 { return 0.25 * numeric.SqNorm(z) }

// GradHLegendre is z/2.
func (SqEuclidean) GradHLegendre(z []float64) []float64 { return numeric.Scaled(0.5, z) }

// AllPairs uses ‖x_i‖² + ‖y_j‖² − 2·(X·Yᵀ)_ij.
func (c SqEuclidean) AllPairs(xs, ys [][]float64) (*mat.Dense, error) {
	if err := checkPoints(xs, ys); err != nil {
		return nil, costErrorf("SqEuclidean.AllPairs", err)
	}
	out := gram(xs, ys)
	out.Apply(func(i, j int, v float64) float64 {
		return c.Norm(xs[i]) + c.Norm(ys[j]) - 2*v
	}, out)

	return out, nil
}

// Barycenter is the weighted mean; no iteration, no diagnostics.
func (SqEuclidean) Barycenter(weights []float64, xs [][]float64) ([]float64, []float64, error) {
	m, err := WeightedMean(weights, xs)
	return m, nil, err
}

// Flatten implements tree.Decomposable.
func (SqEuclidean) Flatten() ([]float64, tree.Aux) { return nil, tree.Aux{Kind: KindSqEuclidean} }

// Dotp is c(x, y) = −⟨x, y⟩. Its twist operator is a sign flip.
type Dotp struct{}

// Norm returns ‖x‖², used only for rescaling.
func (Dotp) Norm(x []float64) float64 { return numeric.SqNorm(x) }

// Evaluate returns −⟨x, y⟩.
func (Dotp) Evaluate(x, y []float64) float64 { return -floats.Dot(x, y) }

// Grad is (−y, −x).
func (Dotp) Grad(x, y []float64) (gx, gy []float64) { return numeric.Neg(y), numeric.Neg(x) }

// TwistOperator returns −vec when variable is set, −dual otherwise.
func (Dotp) TwistOperator(vec, dual []float64, variable bool) ([]float64, error) {
	if variable {
		return numeric.Neg(vec), nil
	}

	return numeric.Neg(dual), nil
}

// AllPairs is −X·Yᵀ.
func (Dotp) AllPairs(xs, ys [][]float64) (*mat.Dense, error) {
	if err := checkPoints(xs, ys); err != nil {
		return nil, costErrorf("Dotp.AllPairs", err)
	}
	out := gram(xs, ys)
	out.Scale(-1, out)

	return out, nil
}

// Flatten implements tree.Decomposable.
func (Dotp) Flatten() ([]float64, tree.Aux) { return nil, tree.Aux{Kind: KindDotp} }

// gram returns X·Yᵀ for validated point sets.
func gram(xs, ys [][]float64) *mat.Dense {
	var out mat.Dense
	out.Mul(rows(xs), rows(ys).T())

	return &out
}

// rows packs points into a matrix, one point per row.
func rows(xs [][]float64) *mat.Dense {
	d := len(xs[0])
	data := make([]float64, 0, len(xs)*d)
	for _, x := range xs {
		data = append(data, x...)
	}

	return mat.NewDense(len(xs), d, data)
}
