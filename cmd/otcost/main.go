// Command otcost evaluates a ground cost described in a YAML job file.
//
// Usage:
//
//	otcost -config job.yaml -op pairs|barycenter|transport|align
//
// pairs prints the cost matrix between x and y, barycenter the weighted
// barycenter of x and its convergence diagnostics, and transport the image of
// x under the map induced by the job's quadratic potential. align needs a
// soft_dtw cost and prints the hard DTW path between x[i] and y[i].
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/otcost/autodiff"
	"github.com/katalvlaran/otcost/costs"
	"github.com/katalvlaran/otcost/dtw"
	"github.com/katalvlaran/otcost/numeric"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("otcost: ")

	var (
		path = flag.String("config", "job.yaml", "path to the YAML job file")
		op   = flag.String("op", OpPairs, "operation: pairs, barycenter, transport or align")
	)
	flag.Parse()

	job, err := Load(*path)
	if err != nil {
		log.Fatal(err)
	}
	if err := run(os.Stdout, *op, job); err != nil {
		log.Fatal(err)
	}
}

// run executes op on job and writes the result to w.
func run(w io.Writer, op string, job *Job) error {
	if err := job.Validate(op); err != nil {
		return err
	}
	c, err := job.Build()
	if err != nil {
		return err
	}
	log.Printf("%s with %s on %d points", op, job.Cost.Kind, len(job.X))

	switch op {
	case OpPairs:
		m, err := costs.AllPairs(c, job.X, job.Y)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%.6g\n", mat.Formatted(m))

	case OpBarycenter:
		point, diag, err := costs.Barycenter(c, job.Weights, job.X)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "barycenter: %.6g\n", point)
		if diag != nil {
			fmt.Fprintf(w, "diagnostics: %.3g\n", diag)
		}

	case OpTransport:
		l, ok := c.(costs.Legendre)
		if !ok {
			return fmt.Errorf("cost %q has no Legendre transform: %w", job.Cost.Kind, costs.ErrNotImplemented)
		}
		p := job.Potential
		g := autodiff.Smooth{
			F: func(y []float64) float64 { return -0.5 * p.Scale * numeric.SqNorm(numeric.Sub(y, p.Center)) },
			G: func(y []float64) []float64 { return numeric.Scaled(-p.Scale, numeric.Sub(y, p.Center)) },
		}
		out, err := costs.TransportMap(l, g)(job.X)
		if err != nil {
			return err
		}
		for i, y := range out {
			fmt.Fprintf(w, "%d: %.6g -> %.6g\n", i, job.X[i], y)
		}

	case OpAlign:
		sd, ok := c.(costs.SoftDTW)
		if !ok {
			return fmt.Errorf("align needs a %s cost, got %T: %w", costs.KindSoftDTW, c, ErrBadJob)
		}
		return align(w, sd, job)
	}

	return nil
}

// align prints the hard DTW alignment of each pair (x[i], y[i]).
func align(w io.Writer, c costs.SoftDTW, job *Job) error {
	opts := dtw.DefaultOptions()
	opts.Window = job.Window

	for i := 0; i < len(job.X) && i < len(job.Y); i++ {
		a, err := c.Sequence(job.X[i])
		if err != nil {
			return fmt.Errorf("x[%d]: %w", i, err)
		}
		b, err := c.Sequence(job.Y[i])
		if err != nil {
			return fmt.Errorf("y[%d]: %w", i, err)
		}
		v, path, err := c.Align(a, b, &opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d: %.6g %v\n", i, v, path)
	}

	return nil
}
