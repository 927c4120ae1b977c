// Package costs defines ground costs c(x, y) for regularized optimal transport.
//
// The contract is small: a Cost evaluates a pair of points and decomposes into
// children and a static record (tree.Decomposable). Everything else is an
// optional capability discovered by the package-level functions:
//
//   - AllPairs        closed-form all-pairs matrix (AllPairser), else the outer product
//   - Barycenter      barycentric operator (Barycenterer), weighted mean for TI costs
//   - TwistOperator   inverse of the partial gradient (Twister, or via Legendre)
//   - PaddingPoint    neutral filler point (Padder), zero by default
//   - Gradient        analytic (Differentiable, TI), finite differences otherwise
//
// Translation-invariant costs c(x, y) = h(x − y) implement TI; those that also
// know h* implement Legendre and get twist operators and transport maps
//
//	T(x) = x − ∇h*(∇g_h(x)),  g_h(x) = min_z h(z) − g(x − z)
//
// for free. The inner minimization is solved numerically and its argmin is
// treated as a constant when differentiating (envelope theorem).
//
// Concrete costs:
//
//	PNormP, SqPNorm, EuclideanP, Euclidean, SqEuclidean, Dotp   elementary
//	Cosine, Arccos                                              angular
//	RegTICost                                                   ρ/2‖·‖² + λR with a proximal R
//	Bures, UnbalancedBures                                      Gaussians packed as flat vectors
//	SoftDTW                                                     time series
//
// All costs are immutable values and safe for concurrent use. Numerical
// domain violations (invalid square roots, singular systems, negative
// determinants) yield NaN, never an error; errors report malformed input only.
package costs
