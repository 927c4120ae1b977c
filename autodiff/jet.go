package autodiff

import "math"

// Jet is a truncated Taylor expansion of a univariate function around a point:
// Jet[k] = f⁽ᵏ⁾(t₀)/k!. Arithmetic on jets propagates all derivatives up to the
// truncation order exactly (Taylor-mode differentiation), so differentiating a
// function n times costs O(n²) instead of the exponential blow-up of nesting
// first-order derivatives.
//
// Binary operations truncate to the shorter operand.
type Jet []float64

// Variable returns the jet of the identity function t ↦ t at t0, truncated at order.
func Variable(t0 float64, order int) Jet {
	j := make(Jet, order+1)
	j[0] = t0
	if order > 0 {
		j[1] = 1
	}

	return j
}

// Constant returns the jet of a constant function.
func Constant(c float64, order int) Jet {
	j := make(Jet, order+1)
	j[0] = c

	return j
}

// Order returns the truncation order.
func (a Jet) Order() int { return len(a) - 1 }

// Value returns f(t₀).
func (a Jet) Value() float64 { return a[0] }

// Derivative returns f⁽ᵏ⁾(t₀).
func (a Jet) Derivative(k int) float64 {
	return a[k] * factorial(k)
}

// Add returns a + b.
func (a Jet) Add(b Jet) Jet {
	n := minLen(a, b)
	out := make(Jet, n)
	for k := 0; k < n; k++ {
		out[k] = a[k] + b[k]
	}

	return out
}

// Sub returns a − b.
func (a Jet) Sub(b Jet) Jet {
	n := minLen(a, b)
	out := make(Jet, n)
	for k := 0; k < n; k++ {
		out[k] = a[k] - b[k]
	}

	return out
}

// Scale returns c·a.
func (a Jet) Scale(c float64) Jet {
	out := make(Jet, len(a))
	for k := range a {
		out[k] = c * a[k]
	}

	return out
}

// Shift returns a + c.
func (a Jet) Shift(c float64) Jet {
	out := append(Jet(nil), a...)
	out[0] += c

	return out
}

// Mul returns a·b (Cauchy product).
func (a Jet) Mul(b Jet) Jet {
	n := minLen(a, b)
	out := make(Jet, n)
	for k := 0; k < n; k++ {
		var s float64
		for j := 0; j <= k; j++ {
			s += a[j] * b[k-j]
		}
		out[k] = s
	}

	return out
}

// Div returns a/b. A zero constant term in b yields ±Inf/NaN coefficients.
func (a Jet) Div(b Jet) Jet {
	n := minLen(a, b)
	out := make(Jet, n)
	for k := 0; k < n; k++ {
		s := a[k]
		for j := 1; j <= k; j++ {
			s -= b[j] * out[k-j]
		}
		out[k] = s / b[0]
	}

	return out
}

// SinCos returns the jets of sin(a) and cos(a).
func (a Jet) SinCos() (Jet, Jet) {
	n := len(a)
	s, c := make(Jet, n), make(Jet, n)
	s[0], c[0] = math.Sincos(a[0])
	for k := 1; k < n; k++ {
		var ss, cc float64
		for j := 1; j <= k; j++ {
			ss += float64(j) * a[j] * c[k-j]
			cc += float64(j) * a[j] * s[k-j]
		}
		s[k] = ss / float64(k)
		c[k] = -cc / float64(k)
	}

	return s, c
}

// Sin returns sin(a).
func (a Jet) Sin() Jet {
	s, _ := a.SinCos()
	return s
}

// Cos returns cos(a).
func (a Jet) Cos() Jet {
	_, c := a.SinCos()
	return c
}

// Deriv returns the jet of f′, one order shorter.
func (a Jet) Deriv() Jet {
	if len(a) <= 1 {
		return Jet{0}
	}
	out := make(Jet, len(a)-1)
	for k := range out {
		out[k] = float64(k+1) * a[k+1]
	}

	return out
}

// Truncate returns the first order+1 coefficients.
func (a Jet) Truncate(order int) Jet {
	if order+1 >= len(a) {
		return a
	}

	return a[:order+1]
}

func minLen(a, b Jet) int {
	if len(a) < len(b) {
		return len(a)
	}

	return len(b)
}

func factorial(k int) float64 {
	f := 1.0
	for i := 2; i <= k; i++ {
		f *= float64(i)
	}

	return f
}
