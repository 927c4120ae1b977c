package costs

import (
	"github.com/katalvlaran/otcost/numeric"
)

// TI is a translation-invariant cost c(x, y) = h(x − y).
//
// For transport maps h must be strictly convex; this is a documented
// precondition and is not checked.
type TI interface {
	Cost
	H(z []float64) float64
	GradH(z []float64) []float64
}

// Legendre is a TI cost that also knows the Legendre transform h* of h.
// ∇h* is the inverse of ∇h.
type Legendre interface {
	TI
	HLegendre(z []float64) float64
	GradHLegendre(z []float64) []float64
}

// Twist is the generic twist operator of a TI cost:
//
//	variable == true:  vec + ∇h*(−dual)
//	variable == false: vec − ∇h*(dual)
//
// When h is even both expressions coincide.
func Twist(c Legendre, vec, dual []float64, variable bool) []float64 {
	if variable {
		return numeric.Add(vec, c.GradHLegendre(numeric.Neg(dual)))
	}

	return numeric.Sub(vec, c.GradHLegendre(dual))
}
