package core

import "math"

const (
	solveMaxBracketSteps = 64
	solveMaxIterations   = 200
)

// FindRoot locates a zero of f inside [a, b] by bisection with a secant
// acceleration step. The bracket must straddle the root: f(a) and f(b)
// need opposite signs. Used for the enclosed-flux threshold searches that
// derive stepK when no closed form exists.
//
// gonum carries no scalar root finder (its optimize package is
// multivariate), so this mirrors the usual bracketed bisection-secant
// hybrid.
func FindRoot(f func(float64) float64, a, b, xtol float64) (float64, error) {
	fa, fb := f(a), f(b)
	if fa == 0 {
		return a, nil
	}
	if fb == 0 {
		return b, nil
	}
	if math.Signbit(fa) == math.Signbit(fb) {
		return 0, &NumericalError{Msg: "root not bracketed"}
	}
	for iter := 0; iter < solveMaxIterations; iter++ {
		if b-a < xtol {
			return 0.5 * (a + b), nil
		}
		// Secant candidate, falling back to the midpoint whenever it
		// lands outside the bracket or degenerates.
		var m float64
		if fb != fa {
			m = b - fb*(b-a)/(fb-fa)
		}
		if !(m > a && m < b) {
			m = 0.5 * (a + b)
		}
		fm := f(m)
		if fm == 0 {
			return m, nil
		}
		if math.Signbit(fm) == math.Signbit(fa) {
			a, fa = m, fm
		} else {
			b, fb = m, fm
		}
	}
	return 0, &NumericalError{Msg: "root finder exceeded iteration limit"}
}

// BracketUpper grows b geometrically from a until f changes sign, then
// hands the bracket to FindRoot. f(a) establishes the reference sign.
func BracketUpper(f func(float64) float64, a, xtol float64) (float64, error) {
	fa := f(a)
	if fa == 0 {
		return a, nil
	}
	b := a * 2
	for step := 0; step < solveMaxBracketSteps; step++ {
		if math.Signbit(f(b)) != math.Signbit(fa) {
			return FindRoot(f, a, b, xtol)
		}
		a = b
		b *= 2
	}
	return 0, &NumericalError{Msg: "bracket search failed to straddle a root"}
}
