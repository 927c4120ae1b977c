package fixedpoint_test

import (
	"testing"

	"github.com/katalvlaran/otcost/fixedpoint"
	"github.com/stretchr/testify/assert"
)

type counter struct {
	calls   int
	checks  []int
	errFlag []bool
}

func run(opts fixedpoint.Options, stopAfterBlock int) counter {
	return fixedpoint.Iterate(
		func(block int, _ struct{}, s counter) bool {
			return block < stopAfterBlock
		},
		func(_ int, _ struct{}, s counter, computeError bool) counter {
			s.calls++
			s.errFlag = append(s.errFlag, computeError)
			return s
		},
		opts, struct{}{}, counter{},
	)
}

// TestIterate_StopsAtBlockGranularity verifies cond is only seen at block boundaries.
func TestIterate_StopsAtBlockGranularity(t *testing.T) {
	opts := fixedpoint.Options{MinIterations: 1, MaxIterations: 100, InnerIterations: 5}
	s := run(opts, 2)
	assert.Equal(t, 10, s.calls, "two blocks of five iterations")
	assert.Equal(t, []bool{false, false, false, false, true, false, false, false, false, true}, s.errFlag)
}

// TestIterate_RespectsMinAndMax covers the lower and upper bounds.
func TestIterate_RespectsMinAndMax(t *testing.T) {
	// cond wants to stop immediately but MinIterations forces 3 blocks of 2.
	s := run(fixedpoint.Options{MinIterations: 6, MaxIterations: 50, InnerIterations: 2}, 0)
	assert.Equal(t, 6, s.calls)

	// cond never stops: capped at MaxIterations, last partial block flags computeError.
	s = run(fixedpoint.Options{MinIterations: 0, MaxIterations: 7, InnerIterations: 3}, 1000)
	assert.Equal(t, 7, s.calls)
	assert.True(t, s.errFlag[6])
}

// TestIterate_BadOptions leaves state untouched.
func TestIterate_BadOptions(t *testing.T) {
	bad := fixedpoint.Options{MinIterations: 0, MaxIterations: 10, InnerIterations: 0}
	assert.ErrorIs(t, bad.Validate(), fixedpoint.ErrBadOptions)
	assert.Equal(t, 0, run(bad, 10).calls)
}

// TestOptions_Blocks checks the diagnostics sizing rule.
func TestOptions_Blocks(t *testing.T) {
	assert.Equal(t, 20, fixedpoint.DefaultOptions().Blocks())
	assert.Equal(t, 3, fixedpoint.Options{MaxIterations: 7, InnerIterations: 3}.Blocks())
	assert.Equal(t, 0, fixedpoint.Options{MaxIterations: 7}.Blocks())
}
