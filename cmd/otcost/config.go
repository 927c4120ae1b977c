package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/otcost/costs"
	"github.com/katalvlaran/otcost/dtw"
	"github.com/katalvlaran/otcost/matrix"
	"github.com/katalvlaran/otcost/tree"
)

// Job operations.
const (
	OpPairs      = "pairs"
	OpBarycenter = "barycenter"
	OpTransport  = "transport"
	OpAlign      = "align"
)

// ErrBadJob indicates a job file that cannot be run.
var ErrBadJob = errors.New("otcost: invalid job")

// Job is one YAML-described computation.
type Job struct {
	Cost      tree.Aux      `yaml:"cost"`
	Children  []float64     `yaml:"children"`
	X         [][]float64   `yaml:"x"`
	Samples   [][][]float64 `yaml:"samples"`
	Y         [][]float64   `yaml:"y"`
	Weights   []float64     `yaml:"weights"`
	Potential Potential     `yaml:"potential"`
	Window    int           `yaml:"window"`
}

// Potential is the concave quadratic g(y) = −Scale/2·‖y − Center‖² used by
// the transport operation.
type Potential struct {
	Scale  float64   `yaml:"scale"`
	Center []float64 `yaml:"center"`
}

// Default returns a squared-Euclidean job with a unit potential.
func Default() *Job {
	return &Job{
		Cost:      tree.Aux{Kind: costs.KindSqEuclidean},
		Potential: Potential{Scale: 1},
		Window:    dtw.Unlimited,
	}
}

// Load reads a job file over the defaults.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job: %w", err)
	}

	job := Default()
	if err = yaml.Unmarshal(data, job); err != nil {
		return nil, fmt.Errorf("failed to parse job: %w", err)
	}
	if job.X == nil && job.Samples != nil {
		// each sample cloud becomes one packed Gaussian [mean, cov]
		job.X = make([][]float64, len(job.Samples))
		for i, cloud := range job.Samples {
			if job.X[i], err = matrix.FitGaussian(cloud); err != nil {
				return nil, fmt.Errorf("samples[%d]: %w", i, err)
			}
		}
	}
	if job.Y == nil {
		job.Y = job.X
	}
	if job.Weights == nil {
		job.Weights = uniform(len(job.X))
	}

	return job, nil
}

// Build reconstructs the job's cost.
func (j *Job) Build() (costs.Cost, error) {
	c, err := costs.Unflatten(j.Cost, j.Children)
	if err != nil {
		return nil, fmt.Errorf("build cost %q: %w", j.Cost.Kind, err)
	}

	return c, nil
}

// Validate checks the fields an operation needs.
func (j *Job) Validate(op string) error {
	switch op {
	case OpPairs, OpBarycenter:
	case OpAlign:
		if j.Window < dtw.Unlimited {
			return fmt.Errorf("window %d: %w", j.Window, ErrBadJob)
		}
	case OpTransport:
		if len(j.X) > 0 && len(j.Potential.Center) != len(j.X[0]) {
			return fmt.Errorf("potential center has %d entries, points have %d: %w",
				len(j.Potential.Center), len(j.X[0]), ErrBadJob)
		}
	default:
		return fmt.Errorf("unknown op %q: %w", op, ErrBadJob)
	}
	if len(j.X) == 0 {
		return fmt.Errorf("no points in x: %w", ErrBadJob)
	}

	return nil
}

func uniform(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}

	return w
}
