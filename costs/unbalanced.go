package costs

import (
	"math"

	"github.com/katalvlaran/otcost/matrix"
	"github.com/katalvlaran/otcost/numeric"
	"github.com/katalvlaran/otcost/tree"
	"gonum.org/v1/gonum/mat"
)

// Defaults for UnbalancedBures.
const (
	DefaultUnbalancedSigma = 1.0
	DefaultUnbalancedGamma = 1.0
)

// UnbalancedBures is the unbalanced Bures cost between Gaussian measures with
// mass, packed as [mass, mean(d), cov(d·d) row-major]. sigma is the entropic
// regularization and gamma the KL penalty on the marginals.
//
// With σ² = sigma², λ = σ² + γ/2 and τ = γ/(2λ):
//
//	Ã = ½γ(I − λ(Σ_x + λI)⁻¹),  B̃ likewise
//	C = √(Ã·B̃/τ + ¼σ⁴I) − ½σ²I
//	log m_π = ½dσ²/(γ+σ²)·log σ²
//	        + (log m_x + log m_y + log|C| + ½(τ·log|ÃB̃| − log|Σ_xΣ_y|)) / (τ+1)
//	        − ⟨Δ, (Σ_x + Σ_y + λI)⁻¹Δ⟩ / (2(τ+1))
//	        − ½·log|C − 2ÃB̃/γ|
//	c(x, y) = γ·m_x + γ·m_y + 2σ²·m_x·m_y − 2(σ² + γ)·exp(log m_π)
//
// The value is NaN unless all four determinants are positive.
type UnbalancedBures struct {
	dim          int
	sigma, gamma float64
	sqrtm        matrix.SqrtmConfig
}

// NewUnbalancedBures panics if dimension < 1 or sigma, gamma are not finite and positive.
func NewUnbalancedBures(dimension int, sigma, gamma float64, opts ...matrix.SqrtmOption) UnbalancedBures {
	if dimension < 1 {
		panic(panicDimensionInvalid)
	}
	if !positiveFinite(sigma) || !positiveFinite(gamma) {
		panic(panicSigmaInvalid)
	}

	return UnbalancedBures{dim: dimension, sigma: sigma, gamma: gamma, sqrtm: matrix.GatherSqrtm(opts...)}
}

// Dimension returns d, the dimension of the Gaussians.
func (c UnbalancedBures) Dimension() int { return c.dim }

// Sigma returns the entropic regularization σ.
func (c UnbalancedBures) Sigma() float64 { return c.sigma }

// Gamma returns the mass penalty γ.
func (c UnbalancedBures) Gamma() float64 { return c.gamma }

// Norm returns γ·mass.
func (c UnbalancedBures) Norm(x []float64) float64 { return c.gamma * x[0] }

// Evaluate returns the unbalanced Bures cost between packed [mass, mean, cov]
// points. It is NaN on a malformed point or when a determinant is not positive.
func (c UnbalancedBures) Evaluate(x, y []float64) float64 {
	if len(x) == 0 || len(y) == 0 {
		return math.NaN()
	}
	mx, covX, errX := matrix.SplitGaussian(x[1:], c.dim)
	my, covY, errY := matrix.SplitGaussian(y[1:], c.dim)
	if errX != nil || errY != nil {
		return math.NaN()
	}

	var (
		d    = float64(c.dim)
		gam  = c.gamma
		sig2 = c.sigma * c.sigma
		lam  = sig2 + gam/2
		tau  = gam / (2 * lam)
		eye  = matrix.Identity(c.dim)
	)

	// Stage 1: Ã, B̃ and their product.
	tildeA := c.tilde(covX, lam)
	tildeB := c.tilde(covY, lam)
	var tAB mat.Dense
	tAB.Mul(tildeA, tildeB)

	// Stage 2: C = √(ÃB̃/τ + ¼σ⁴I) − ½σ²I.
	var arg mat.Dense
	arg.Scale(1/tau, &tAB)
	arg.Add(&arg, scaledDense(0.25*sig2*sig2, eye))
	cMat := matrix.SqrtmOnly(&arg, matrix.WithConfig(c.sqrtm))
	cMat.Sub(cMat, scaledDense(0.5*sig2, eye))

	// Stage 3: log-determinants.
	var covXY, cAB mat.Dense
	covXY.Mul(covX, covY)
	cAB.Sub(cMat, scaledDense(2/gam, &tAB))
	sC, ldC := matrix.SlogDet(cMat)
	sTAB, ldTAB := matrix.SlogDet(&tAB)
	sXY, ldXY := matrix.SlogDet(&covXY)
	sCAB, ldCAB := matrix.SlogDet(&cAB)
	if sC+sTAB+sXY+sCAB != 4 {
		return math.NaN()
	}

	// Stage 4: log total mass of the transport plan.
	var sum mat.Dense
	sum.Add(covX, covY)
	sum.Add(&sum, scaledDense(lam, eye))
	diff := numeric.Sub(mx, my)

	logM := 0.5 * d * sig2 / (gam + sig2) * math.Log(sig2)
	logM += (math.Log(x[0]) + math.Log(y[0]) + ldC + 0.5*(tau*ldTAB-ldXY)) / (tau + 1)
	logM -= numeric.Dot(diff, matrix.SolveVec(&sum, diff)) / (2 * (tau + 1))
	logM -= 0.5 * ldCAB

	cross := 2*sig2*x[0]*y[0] - 2*(sig2+gam)*math.Exp(logM)

	return c.Norm(x) + c.Norm(y) + cross
}

// tilde returns ½γ(I − λ(Σ + λI)⁻¹).
func (c UnbalancedBures) tilde(cov *mat.Dense, lam float64) *mat.Dense {
	eye := matrix.Identity(c.dim)
	var shifted mat.Dense
	shifted.Add(cov, scaledDense(lam, eye))
	inv := matrix.Inverse(&shifted)
	inv.Scale(-lam, inv)
	inv.Add(eye, inv)
	inv.Scale(0.5*c.gamma, inv)

	return inv
}

// PaddingPoint is the unit-mass standard Gaussian.
func (c UnbalancedBures) PaddingPoint(int) []float64 {
	return append([]float64{1}, matrix.PackGaussian(make([]float64, c.dim), matrix.Identity(c.dim))...)
}

// Flatten has no children; dimension, σ, γ and the sqrtm options are static.
func (c UnbalancedBures) Flatten() ([]float64, tree.Aux) {
	static := map[string]any{keyDimension: c.dim, keySigma: c.sigma, keyGamma: c.gamma}
	c.sqrtm.ToStatic(static)

	return nil, tree.Aux{Kind: KindUnbalancedBures, Static: static}
}

func positiveFinite(v float64) bool { return v > 0 && !math.IsInf(v, 1) }
