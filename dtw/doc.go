// Package dtw computes Dynamic Time Warping (DTW) alignment costs over a
// precomputed ground-cost matrix, in a hard-min and a soft-min flavour.
//
// What is DTW?
//
//	DTW finds the best match between two sequences by warping the time
//	axis to minimize cumulative cost. Soft-DTW replaces the min by the
//	smoothed minimum
//
//	  softmin_γ(a, b, c) = −γ·log(e^{−a/γ} + e^{−b/γ} + e^{−c/γ})
//
//	which makes the alignment cost differentiable in every cost entry.
//
// Key features:
//   - DTW: full-matrix mode with path recovery, or two-row mode (O(M) memory)
//   - optional Sakoe–Chiba window (|i−j| ≤ w) and slope penalty
//   - Soft: forward scan over antidiagonals carrying only two of them
//   - SoftGradient: value plus ∂/∂cost (expected alignment matrix)
//
// Usage:
//
//	import "github.com/katalvlaran/otcost/dtw"
//
//	opts := dtw.DefaultOptions()
//	opts.Window = 10
//	opts.ReturnPath = true
//	dist, path, err := dtw.DTW(cost, &opts)
//
//	sdtw, err := dtw.Soft(cost, 0.1)
//
// Performance:
//
//   - Time:   O(N·M)
//   - Memory: O(N·M) (FullMatrix, SoftGradient), O(M) (TwoRows), O(max(N,M)) (Soft)
package dtw
