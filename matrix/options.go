// SPDX-License-Identifier: MIT

// Package matrix: functional configuration of the Newton–Schulz square root.
// This file defines:
//   - SqrtmOption (functional options over an internal SqrtmConfig),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - conversion to/from the static maps used by tree.Aux.

package matrix

import (
	"math"

	"github.com/katalvlaran/otcost/fixedpoint"
	"github.com/katalvlaran/otcost/tree"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultSqrtmThreshold is the relative residual ‖A − Y·Y‖_F/‖A‖_F below which iteration stops.
	DefaultSqrtmThreshold = 1e-6

	// DefaultSqrtmMinIterations is the number of iterations always performed.
	DefaultSqrtmMinIterations = 0

	// DefaultSqrtmInnerIterations is the block size between two residual checks.
	DefaultSqrtmInnerIterations = 10

	// DefaultSqrtmMaxIterations caps the Newton–Schulz iterations.
	DefaultSqrtmMaxIterations = 1000

	// DefaultSqrtmRegularization is added to the diagonal before iterating.
	DefaultSqrtmRegularization = 1e-6
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicThresholdInvalid      = "matrix: WithThreshold: threshold must be finite, non-negative"
	panicIterationsInvalid     = "matrix: sqrtm iterations must be non-negative"
	panicInnerInvalid          = "matrix: WithInnerIterations: inner iterations must be >= 1"
	panicRegularizationInvalid = "matrix: WithRegularization: regularization must be finite, non-negative"
)

// Static keys used when a sqrtm configuration is serialized into tree.Aux.Static.
const (
	keyThreshold      = "sqrtm_threshold"
	keyMinIterations  = "sqrtm_min_iterations"
	keyMaxIterations  = "sqrtm_max_iterations"
	keyInnerIteration = "sqrtm_inner_iterations"
	keyRegularization = "sqrtm_regularization"
)

// SqrtmConfig is the resolved configuration of Sqrtm.
type SqrtmConfig struct {
	Threshold       float64
	MinIterations   int
	MaxIterations   int
	InnerIterations int
	Regularization  float64
}

// SqrtmOption mutates a SqrtmConfig. Safe to apply repeatedly.
type SqrtmOption func(*SqrtmConfig)

// DefaultSqrtmConfig returns the documented defaults.
func DefaultSqrtmConfig() SqrtmConfig {
	return SqrtmConfig{
		Threshold:       DefaultSqrtmThreshold,
		MinIterations:   DefaultSqrtmMinIterations,
		MaxIterations:   DefaultSqrtmMaxIterations,
		InnerIterations: DefaultSqrtmInnerIterations,
		Regularization:  DefaultSqrtmRegularization,
	}
}

// WithThreshold sets the stopping threshold on the relative residual.
func WithThreshold(eps float64) SqrtmOption {
	if eps < 0 || math.IsNaN(eps) || math.IsInf(eps, 0) {
		panic(panicThresholdInvalid)
	}

	return func(c *SqrtmConfig) { c.Threshold = eps }
}

// WithMinIterations sets the minimum number of iterations.
func WithMinIterations(n int) SqrtmOption {
	if n < 0 {
		panic(panicIterationsInvalid)
	}

	return func(c *SqrtmConfig) { c.MinIterations = n }
}

// WithMaxIterations sets the iteration cap.
func WithMaxIterations(n int) SqrtmOption {
	if n < 0 {
		panic(panicIterationsInvalid)
	}

	return func(c *SqrtmConfig) { c.MaxIterations = n }
}

// WithInnerIterations sets the block size between residual checks.
func WithInnerIterations(n int) SqrtmOption {
	if n < 1 {
		panic(panicInnerInvalid)
	}

	return func(c *SqrtmConfig) { c.InnerIterations = n }
}

// WithRegularization sets the diagonal shift applied before iterating.
func WithRegularization(r float64) SqrtmOption {
	if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		panic(panicRegularizationInvalid)
	}

	return func(c *SqrtmConfig) { c.Regularization = r }
}

// WithConfig replaces the whole configuration (used when rebuilding from a snapshot).
func WithConfig(cfg SqrtmConfig) SqrtmOption {
	return func(c *SqrtmConfig) { *c = cfg }
}

// GatherSqrtm applies opts over the defaults.
func GatherSqrtm(opts ...SqrtmOption) SqrtmConfig {
	cfg := DefaultSqrtmConfig()
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}

	return cfg
}

// Loop returns the iteration bounds of the configuration.
func (c SqrtmConfig) Loop() fixedpoint.Options {
	return fixedpoint.Options{
		MinIterations:   c.MinIterations,
		MaxIterations:   c.MaxIterations,
		InnerIterations: c.InnerIterations,
	}
}

// Validate reports a configuration the WithX constructors would have rejected.
// Snapshots rebuilt by SqrtmFromStatic bypass those constructors.
// Errors: wrapped fixedpoint.ErrBadOptions for the bounds, ErrInvalidConfig
// for the threshold or regularization.
func (c SqrtmConfig) Validate() error {
	if err := c.Loop().Validate(); err != nil {
		return matrixErrorf("SqrtmConfig.Validate", err)
	}
	if !finiteNonNegative(c.Threshold) || !finiteNonNegative(c.Regularization) {
		return matrixErrorf("SqrtmConfig.Validate", ErrInvalidConfig)
	}

	return nil
}

func finiteNonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

// ToStatic writes the configuration into a tree static map.
func (c SqrtmConfig) ToStatic(static map[string]any) {
	static[keyThreshold] = c.Threshold
	static[keyMinIterations] = c.MinIterations
	static[keyMaxIterations] = c.MaxIterations
	static[keyInnerIteration] = c.InnerIterations
	static[keyRegularization] = c.Regularization
}

// SqrtmFromStatic reads a configuration written by ToStatic; missing keys keep defaults.
func SqrtmFromStatic(static map[string]any) SqrtmConfig {
	d := DefaultSqrtmConfig()

	return SqrtmConfig{
		Threshold:       tree.Float(static, keyThreshold, d.Threshold),
		MinIterations:   tree.Int(static, keyMinIterations, d.MinIterations),
		MaxIterations:   tree.Int(static, keyMaxIterations, d.MaxIterations),
		InnerIterations: tree.Int(static, keyInnerIteration, d.InnerIterations),
		Regularization:  tree.Float(static, keyRegularization, d.Regularization),
	}
}
