package costs_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/otcost/costs"
)

// wave returns n points of dimension d sampled from phase-shifted sines.
func wave(n, d int, phase float64) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, d)
		for k := range out[i] {
			out[i][k] = math.Sin(float64(i)*0.1 + float64(k) + phase)
		}
	}
	return out
}

func benchmarkAllPairs(b *testing.B, c costs.Cost, n, d int) {
	xs, ys := wave(n, d, 0), wave(n, d, 0.5)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := costs.AllPairs(c, xs, ys); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkAllPairs_SqEuclidean uses the Gram-matrix closed form.
func BenchmarkAllPairs_SqEuclidean(b *testing.B) {
	benchmarkAllPairs(b, costs.SqEuclidean{}, 300, 16)
}

// BenchmarkAllPairs_PNormP uses the generic outer product.
func BenchmarkAllPairs_PNormP(b *testing.B) {
	benchmarkAllPairs(b, costs.NewPNormP(1.5), 300, 16)
}

// BenchmarkAllPairs_Arccos3 exercises the jet path.
func BenchmarkAllPairs_Arccos3(b *testing.B) {
	benchmarkAllPairs(b, costs.NewArccos(3, costs.DefaultRidge), 100, 16)
}

// BenchmarkSoftDTW_Evaluate compares two 200-step series of dimension 4.
func BenchmarkSoftDTW_Evaluate(b *testing.B) {
	c := costs.NewSoftDTW(0.5)
	x, y := wave(200, 4, 0), wave(180, 4, 0.3)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.EvaluateSeq(x, y)
	}
}

// BenchmarkBures_Barycenter runs the covariance fixed point on ten 4×4 Gaussians.
func BenchmarkBures_Barycenter(b *testing.B) {
	const d = 4
	c := costs.NewBures(d)
	xs := make([][]float64, 10)
	w := make([]float64, len(xs))
	for i := range xs {
		x := make([]float64, d+d*d)
		for k := 0; k < d; k++ {
			x[k] = float64(i)
			x[d+k*d+k] = 1 + float64(i+k)/10
		}
		xs[i], w[i] = x, 1
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := c.Barycenter(w, xs); err != nil {
			b.Fatal(err)
		}
	}
}
