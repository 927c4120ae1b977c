package tree_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/otcost/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func nestedAux() tree.Aux {
	return tree.Aux{
		Kind:  "outer",
		Arity: 1,
		Nested: []tree.Aux{
			{Kind: "inner", Arity: 2},
			{Kind: "leafless"},
		},
	}
}

// TestLeaves_CountsNested verifies that Leaves sums own and nested arities.
func TestLeaves_CountsNested(t *testing.T) {
	assert.Equal(t, 3, tree.Leaves(nestedAux()))
	assert.Equal(t, 0, tree.Leaves(tree.Aux{Kind: "plain"}))
}

// TestSplit_Layout checks depth-first child layout and Join as its inverse.
func TestSplit_Layout(t *testing.T) {
	aux := nestedAux()
	own, nested, err := tree.Split(aux, []float64{0.5, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, own)
	require.Len(t, nested, 2)
	assert.Equal(t, []float64{1, 2}, nested[0])
	assert.Empty(t, nested[1])

	assert.Equal(t, []float64{0.5, 1, 2}, tree.Join(own, nested...))
}

// TestSplit_ArityMismatch ensures a wrong number of children is rejected.
func TestSplit_ArityMismatch(t *testing.T) {
	_, _, err := tree.Split(nestedAux(), []float64{1})
	assert.ErrorIs(t, err, tree.ErrArity)
}

// TestStaticGetters covers defaults and YAML-typed values.
func TestStaticGetters(t *testing.T) {
	static := map[string]any{"p": 3, "ridge": 1e-8, "debiased": true, "name": "l1", "q": "inf"}

	assert.Equal(t, 3.0, tree.Float(static, "p", 0))
	assert.Equal(t, 1e-8, tree.Float(static, "ridge", 0))
	assert.True(t, math.IsInf(tree.Float(static, "q", 0), 1))
	assert.Equal(t, 7.0, tree.Float(static, "missing", 7))
	assert.Equal(t, 3, tree.Int(static, "p", 0))
	assert.True(t, tree.Bool(static, "debiased", false))
}

// TestAux_YAMLRoundTrip checks that an Aux survives YAML encoding.
func TestAux_YAMLRoundTrip(t *testing.T) {
	aux := nestedAux()
	aux.Static = map[string]any{"debiased": true, "feature_dim": 2}

	raw, err := yaml.Marshal(aux)
	require.NoError(t, err)

	var back tree.Aux
	require.NoError(t, yaml.Unmarshal(raw, &back))
	assert.Equal(t, aux.Kind, back.Kind)
	assert.Equal(t, tree.Leaves(aux), tree.Leaves(back))
	assert.Equal(t, 2, tree.Int(back.Static, "feature_dim", 0))
	assert.True(t, tree.Bool(back.Static, "debiased", false))
}
