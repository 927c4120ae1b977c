// Package matrix provides the linear-algebra collaborators of the cost
// framework on top of gonum/mat:
//
//   - Sqrtm: matrix square root and inverse square root by the coupled
//     Newton–Schulz iteration, driven by fixedpoint.Iterate with
//     block-granularity error checks. Works for any square matrix whose spectrum
//     lies in the open right half-plane, symmetric or not.
//   - Small facades: Identity, FrobeniusDistSq, Ravel/Unravel, SlogDet.
//   - Gaussian packing: a Gaussian is stored as the flat vector
//     [mean(d), cov(d·d) row-major]; SplitGaussian/PackGaussian convert.
//
// Numeric policy:
//   - Positive semi-definiteness is never checked. Invalid inputs surface as
//     NaN or ±Inf in the outputs, not as errors.
//   - Only structural problems (nil, non-square, wrong packed length) return
//     the sentinels from errors.go.
package matrix
