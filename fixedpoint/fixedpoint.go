// Package fixedpoint runs iterative algorithms under a fixed iteration budget
// with convergence checks amortized over blocks of iterations.
//
// Loop model:
//
//	iteration := 0
//	while iteration < MaxIterations and (iteration < MinIterations or cond(block, consts, state)):
//	    run InnerIterations calls of body (never past MaxIterations)
//	    block++
//
// The stopping predicate is consulted only at block boundaries, receiving the
// number of completed blocks. body is told on the last iteration of each block
// that an error/diagnostic should be computed (computeError == true), so costly
// convergence measures are evaluated once per block instead of every iteration.
//
// The total amount of work is bounded by MaxIterations ahead of time; early
// termination is an explicit exit of the bounded loop.
package fixedpoint

import (
	"errors"
	"fmt"
)

// ErrBadOptions indicates inconsistent iteration bounds.
var ErrBadOptions = errors.New("fixedpoint: invalid iteration options")

// Defaults for Options.
const (
	DefaultMinIterations   = 1
	DefaultMaxIterations   = 100
	DefaultInnerIterations = 5
)

// Options bounds a fixed-point loop.
//
// Fields:
//   - MinIterations: iterations always performed before cond is honoured.
//   - MaxIterations: hard cap on body calls.
//   - InnerIterations: block size between two cond checks (≥ 1).
type Options struct {
	MinIterations   int
	MaxIterations   int
	InnerIterations int
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		MinIterations:   DefaultMinIterations,
		MaxIterations:   DefaultMaxIterations,
		InnerIterations: DefaultInnerIterations,
	}
}

// Validate checks that the bounds are usable.
func (o Options) Validate() error {
	if o.MinIterations < 0 || o.MaxIterations < 0 || o.InnerIterations < 1 {
		return fmt.Errorf("Validate(min=%d,max=%d,inner=%d): %w",
			o.MinIterations, o.MaxIterations, o.InnerIterations, ErrBadOptions)
	}

	return nil
}

// Blocks returns ceil(MaxIterations / InnerIterations): the number of block
// diagnostics a loop can record. Callers size diagnostic slices with it.
func (o Options) Blocks() int {
	if o.InnerIterations < 1 {
		return 0
	}

	return (o.MaxIterations + o.InnerIterations - 1) / o.InnerIterations
}

// Cond decides, at a block boundary, whether iterating should continue.
// block is the number of completed blocks (≥ 1 whenever it is called after work).
type Cond[C, S any] func(block int, constants C, state S) bool

// Body advances the state by one iteration.
type Body[C, S any] func(iteration int, constants C, state S, computeError bool) S

// Iterate runs body from state until cond stops it or the budget is exhausted,
// and returns the final state. Invalid options return state unchanged.
// Complexity: at most MaxIterations calls to body, Blocks() calls to cond.
func Iterate[C, S any](cond Cond[C, S], body Body[C, S], opts Options, constants C, state S) S {
	if opts.Validate() != nil {
		return state
	}

	var (
		iteration int
		block     int
		k         int
		last      bool
	)
	for iteration < opts.MaxIterations {
		// Stage 1: block-boundary stopping check (skipped until MinIterations).
		if iteration >= opts.MinIterations && !cond(block, constants, state) {
			break
		}
		// Stage 2: one block of inner iterations.
		for k = 0; k < opts.InnerIterations && iteration < opts.MaxIterations; k++ {
			last = k == opts.InnerIterations-1 || iteration == opts.MaxIterations-1
			state = body(iteration, constants, state, last)
			iteration++
		}
		block++
	}

	return state
}
