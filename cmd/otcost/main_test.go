package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/otcost/costs"
	"github.com/katalvlaran/otcost/matrix"
	"github.com/katalvlaran/otcost/tree"
)

func writeJob(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsAndNesting(t *testing.T) {
	path := writeJob(t, `
cost:
  kind: soft_dtw
  arity: 1
  static:
    debiased: true
    feature_dim: 2
  nested:
    - kind: reg_ti
      arity: 2
      nested:
        - kind: l1
children: [0.5, 0.1, 1]
x:
  - [0, 1, 1, 2]
  - [2, 2, 3, 3]
`)
	job, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, job.X, job.Y, "y defaults to x")
	assert.Equal(t, []float64{0.5, 0.5}, job.Weights)
	assert.Equal(t, 1.0, job.Potential.Scale)

	c, err := job.Build()
	require.NoError(t, err)
	sd, ok := c.(costs.SoftDTW)
	require.True(t, ok)
	assert.True(t, sd.Debiased())
	assert.Equal(t, 2, sd.FeatureDim())
	assert.IsType(t, costs.RegTICost{}, sd.GroundCost())

	var out bytes.Buffer
	require.NoError(t, run(&out, OpPairs, job))
	assert.NotEmpty(t, out.String())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeJob(t, "cost: [1, 2"))
	assert.Error(t, err)

	job := Default()
	job.Cost = tree.Aux{Kind: "nope"}
	job.X = [][]float64{{1}}
	_, err = job.Build()
	assert.True(t, errors.Is(err, tree.ErrUnknownKind))
}

func TestRun_Operations(t *testing.T) {
	job := Default()
	job.X = [][]float64{{0, 0}, {1, 2}}
	job.Y = [][]float64{{3, 4}}
	job.Weights = []float64{1, 1}

	var out bytes.Buffer
	require.NoError(t, run(&out, OpPairs, job))
	assert.Contains(t, out.String(), "25")

	out.Reset()
	require.NoError(t, run(&out, OpBarycenter, job))
	assert.Equal(t, "barycenter: [0.5 1]\n", out.String())

	// g(y) = −‖y − b‖² moves every point halfway to b under the squared cost.
	job.X = [][]float64{{3, 4}}
	job.Potential = Potential{Scale: 2, Center: []float64{1, 2}}
	out.Reset()
	require.NoError(t, run(&out, OpTransport, job))
	assert.Contains(t, out.String(), "-> [2 3]")
}

func TestRun_Rejects(t *testing.T) {
	job := Default()
	var out bytes.Buffer

	assert.True(t, errors.Is(run(&out, OpPairs, job), ErrBadJob), "no points")

	job.X = [][]float64{{1, 2}}
	assert.True(t, errors.Is(run(&out, "fly", job), ErrBadJob))
	assert.True(t, errors.Is(run(&out, OpTransport, job), ErrBadJob), "center length")

	job.Cost = tree.Aux{Kind: costs.KindEuclidean}
	job.Potential.Center = []float64{0, 0}
	assert.True(t, errors.Is(run(&out, OpTransport, job), costs.ErrNotImplemented))

	job.Weights = []float64{1}
	assert.True(t, errors.Is(run(&out, OpBarycenter, job), costs.ErrNotImplemented))
}

func TestLoad_SamplesBecomeGaussians(t *testing.T) {
	path := writeJob(t, `
cost:
  kind: bures
  static:
    dimension: 1
samples:
  - [[1], [3]]
  - [[0], [4]]
`)
	job, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{2, 2}, {2, 8}}, job.X)

	var out bytes.Buffer
	require.NoError(t, run(&out, OpPairs, job))
	assert.NotEmpty(t, out.String())

	_, err = Load(writeJob(t, "samples:\n  - [[1]]\n"))
	assert.True(t, errors.Is(err, matrix.ErrTooFewSamples))
}

func TestRun_Align(t *testing.T) {
	job, err := Load(writeJob(t, `
cost:
  kind: soft_dtw
  arity: 1
  nested:
    - kind: sq_euclidean
children: [0.5]
x: [[0, 1, 2]]
y: [[0, 2, 2]]
`))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(&out, OpAlign, job))
	assert.Equal(t, "0: 1 [{0 0} {1 1} {2 2}]\n", out.String())

	job.Cost = tree.Aux{Kind: costs.KindSqEuclidean}
	assert.True(t, errors.Is(run(&out, OpAlign, job), ErrBadJob))
}

// TestRun_AlignWindow: a zero-width band forbids every warp, so sequences of
// different length have no admissible path.
func TestRun_AlignWindow(t *testing.T) {
	job, err := Load(writeJob(t, `
cost:
  kind: soft_dtw
  arity: 1
  nested:
    - kind: sq_euclidean
children: [0.5]
window: 0
x: [[0, 1, 2], [0, 1, 2]]
y: [[0, 2], [0, 2, 2]]
`))
	require.NoError(t, err)
	assert.Equal(t, 0, job.Window)

	var out bytes.Buffer
	require.NoError(t, run(&out, OpAlign, job))
	assert.Equal(t, "0: +Inf []\n1: 1 [{0 0} {1 1} {2 2}]\n", out.String())

	job.Window = -5
	assert.True(t, errors.Is(run(&out, OpAlign, job), ErrBadJob))

	def, err := Load(writeJob(t, "x: [[1]]\n"))
	require.NoError(t, err)
	assert.Equal(t, -1, def.Window, "no window key keeps the band unlimited")
}
