package costs_test

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/otcost/costs"
	"github.com/katalvlaran/otcost/regularizers"
)

// ExampleAllPairs builds a squared-Euclidean cost matrix.
func ExampleAllPairs() {
	xs := [][]float64{{0, 0}, {1, 2}}
	ys := [][]float64{{3, 4}, {1, 2}, {0, 1}}

	c, err := costs.AllPairs(costs.SqEuclidean{}, xs, ys)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for i := range xs {
		fmt.Println(mat.Row(nil, i, c))
	}
	// Output:
	// [25 5 1]
	// [8 0 2]
}

// ExampleBarycenter shows how a missing capability is reported.
func ExampleBarycenter() {
	_, _, err := costs.Barycenter(costs.Euclidean{}, []float64{1}, [][]float64{{1, 2}})
	fmt.Println(err)
	fmt.Println(errors.Is(err, costs.ErrNotImplemented))
	// Output:
	// barycenter: costs: operation not implemented
	// true
}

// ExampleBures compares two Gaussians with diagonal covariances.
func ExampleBures() {
	c := costs.NewBures(2)
	x := []float64{1, 2, 4, 0, 0, 1} // mean (1, 2), cov diag(4, 1)
	y := []float64{0, 0, 1, 0, 0, 9} // mean (0, 0), cov diag(1, 9)

	fmt.Printf("W2² = %.3f\n", c.Evaluate(x, y))
	// Output:
	// W2² = 10.000
}

// ExampleSoftDTW compares two short sequences, hard and soft.
func ExampleSoftDTW() {
	x := []float64{0, 1, 2}
	y := []float64{0, 2, 2}

	fmt.Printf("hard     = %.3f\n", costs.NewSoftDTW(0).Evaluate(x, y))
	fmt.Printf("debiased = %.3f\n", costs.NewSoftDTW(1, costs.WithDebiased(true)).Evaluate(x, x))
	// Output:
	// hard     = 1.000
	// debiased = 0.000
}

// ExampleRegTICost evaluates the Legendre transform of ρ/2‖z‖² + λ‖z‖₁.
func ExampleRegTICost() {
	c := costs.NewRegTICost(regularizers.L1{}, 0.5, 1)
	z := []float64{2, 0.25}

	fmt.Println("∇h*(z) =", c.GradHLegendre(z))
	fmt.Printf("h*(z)  = %.4f\n", c.HLegendre(z))
	// Output:
	// ∇h*(z) = [1.5 0]
	// h*(z)  = 1.1250
}
