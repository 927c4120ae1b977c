package costs

import (
	"math"

	"github.com/katalvlaran/otcost/autodiff"
	"github.com/katalvlaran/otcost/numeric"
	"github.com/katalvlaran/otcost/tree"
)

// DefaultRidge regularizes the denominators of Cosine and Arccos.
const DefaultRidge = 1e-8

func checkRidge(ridge float64) {
	if ridge < 0 || math.IsNaN(ridge) || math.IsInf(ridge, 0) {
		panic(panicRidgeInvalid)
	}
}

// unitPadding is the normalized all-ones vector.
func unitPadding(dim int) []float64 {
	out := make([]float64, dim)
	for i := range out {
		out[i] = 1 / math.Sqrt(float64(dim))
	}

	return out
}

// Cosine is c(x, y) = 1 − ⟨x, y⟩ / (‖x‖‖y‖ + ridge).
type Cosine struct {
	ridge float64
}

// NewCosine panics on a negative or non-finite ridge.
func NewCosine(ridge float64) Cosine {
	checkRidge(ridge)
	return Cosine{ridge: ridge}
}

// Ridge returns the constant added to the norm product.
func (c Cosine) Ridge() float64 { return c.ridge }

// Evaluate returns 1 − ⟨x, y⟩ / (‖x‖‖y‖ + ridge).
func (c Cosine) Evaluate(x, y []float64) float64 {
	return 1 - numeric.Dot(x, y)/(numeric.Norm(x, 2)*numeric.Norm(y, 2)+c.ridge)
}

// Grad differentiates the similarity quotient; norm gradients vanish at zero.
func (c Cosine) Grad(x, y []float64) (gx, gy []float64) {
	var (
		nx, ny = numeric.Norm(x, 2), numeric.Norm(y, 2)
		s      = numeric.Dot(x, y)
		den    = nx*ny + c.ridge
	)
	// ∂(s/den)/∂x = y/den − s·ny·∇‖x‖/den²
	gx = numeric.Sub(numeric.Scaled(s*ny/(den*den), numeric.NormGrad(x, 2)), numeric.Scaled(1/den, y))
	gy = numeric.Sub(numeric.Scaled(s*nx/(den*den), numeric.NormGrad(y, 2)), numeric.Scaled(1/den, x))

	return gx, gy
}

// PaddingPoint is a unit vector: the zero vector has no direction.
func (Cosine) PaddingPoint(dim int) []float64 { return unitPadding(dim) }

// Flatten stores the ridge in the static record.
func (c Cosine) Flatten() ([]float64, tree.Aux) {
	return nil, tree.Aux{Kind: KindCosine, Static: map[string]any{keyRidge: c.ridge}}
}

// Arccos is the arc-cosine kernel cost of order n:
//
//	c_n(x, y) = −log(‖x‖ⁿ‖y‖ⁿ·J_n(θ)/π + ridge),  θ = arccos(⟨x,y⟩/(‖x‖‖y‖ + ridge))
//	J_n(θ)    = (−1)ⁿ·sin^{2n+1}θ·((1/sinθ)·∂/∂θ)ⁿ((π − θ)/sinθ)
//
// with c_0 = −log(1 − θ/π + ridge). Orders 0, 1 and 2 use closed forms; higher
// orders differentiate with Taylor jets, which cost O(n²) per evaluation.
type Arccos struct {
	n     int
	ridge float64
}

// NewArccos panics if n < 0 or the ridge is invalid.
func NewArccos(n int, ridge float64) Arccos {
	if n < 0 {
		panic(panicArccosInvalid)
	}
	checkRidge(ridge)

	return Arccos{n: n, ridge: ridge}
}

// Order returns the kernel order n.
func (c Arccos) Order() int { return c.n }

// Ridge returns the constant added inside the logarithm.
func (c Arccos) Ridge() float64 { return c.ridge }

// Evaluate returns the arc-cosine cost of order n.
func (c Arccos) Evaluate(x, y []float64) float64 {
	var (
		nxy   = numeric.Norm(x, 2) * numeric.Norm(y, 2)
		cos   = numeric.Dot(x, y) / (nxy + c.ridge)
		theta = math.Acos(math.Max(-1, math.Min(1, cos)))
		m     = math.Pow(nxy, float64(c.n)) * ArccosJ(c.n, theta) / math.Pi
	)

	return -math.Log(m + c.ridge)
}

// PaddingPoint is a unit vector.
func (Arccos) PaddingPoint(dim int) []float64 { return unitPadding(dim) }

// Flatten stores n and the ridge in the static record.
func (c Arccos) Flatten() ([]float64, tree.Aux) {
	return nil, tree.Aux{Kind: KindArccos, Static: map[string]any{keyN: c.n, keyRidge: c.ridge}}
}

// ArccosJ returns the angular part J_n(θ) of the arc-cosine kernel.
func ArccosJ(n int, theta float64) float64 {
	sin, cos := math.Sincos(theta)
	switch n {
	case 0:
		return math.Pi - theta
	case 1:
		return sin + (math.Pi-theta)*cos
	case 2:
		return 3*sin*cos + (math.Pi-theta)*(1+2*cos*cos)
	}

	return arccosJet(n, theta)
}

// arccosJet applies ((1/sin t)·d/dt)ⁿ to (π − t)/sin t with Taylor jets.
func arccosJet(n int, theta float64) float64 {
	t := autodiff.Variable(theta, n)
	sinT := t.Sin()
	f := t.Scale(-1).Shift(math.Pi).Div(sinT)
	for i := 0; i < n; i++ {
		f = f.Deriv().Div(sinT)
	}
	sign := 1.0
	if n%2 == 1 {
		sign = -1
	}

	return sign * math.Pow(math.Sin(theta), float64(2*n+1)) * f.Value()
}
