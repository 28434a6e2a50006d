package core

import (
	"sort"

	"gonum.org/v1/gonum/interp"
)

// Table interpolates an ordered sequence of (x, v) pairs with an Akima
// spline. It backs the radial and Fourier lookup tables held by Info
// objects, and also accepts externally supplied tabulated data.
type Table struct {
	xs, vs []float64
	spline interp.AkimaSpline
}

// NewTable builds a table from strictly increasing abscissae. At least
// three points are required for the spline fit.
func NewTable(xs, vs []float64) (*Table, error) {
	if len(xs) != len(vs) {
		return nil, Configf("table: %d abscissae but %d values", len(xs), len(vs))
	}
	if len(xs) < 3 {
		return nil, Configf("table: need at least 3 points, got %d", len(xs))
	}
	if !sort.Float64sAreSorted(xs) {
		return nil, Configf("table: abscissae must be increasing")
	}
	t := &Table{
		xs: append([]float64(nil), xs...),
		vs: append([]float64(nil), vs...),
	}
	if err := t.spline.Fit(t.xs, t.vs); err != nil {
		return nil, &NumericalError{Msg: "table: spline fit: " + err.Error()}
	}
	return t, nil
}

// Lookup evaluates the table at x. Arguments outside the tabulated range
// clamp to the nearest endpoint value; radial tables always extend past
// the range the caller will query.
func (t *Table) Lookup(x float64) float64 {
	if x <= t.xs[0] {
		return t.vs[0]
	}
	if x >= t.xs[len(t.xs)-1] {
		return t.vs[len(t.vs)-1]
	}
	return t.spline.Predict(x)
}

// XMin returns the smallest tabulated abscissa.
func (t *Table) XMin() float64 { return t.xs[0] }

// XMax returns the largest tabulated abscissa.
func (t *Table) XMax() float64 { return t.xs[len(t.xs)-1] }
