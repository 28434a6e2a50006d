package profile

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/quenby/go-skylight/pkg/core"
)

// Matrix2 is a 2x2 linear map in row-major order.
type Matrix2 struct {
	XX, XY float64
	YX, YY float64
}

// Det returns the determinant.
func (m Matrix2) Det() float64 { return m.XX*m.YY - m.XY*m.YX }

// Apply maps p through the matrix.
func (m Matrix2) Apply(p core.Position) core.Position {
	return core.Position{X: m.XX*p.X + m.XY*p.Y, Y: m.YX*p.X + m.YY*p.Y}
}

// Transpose returns the transposed matrix.
func (m Matrix2) Transpose() Matrix2 {
	return Matrix2{XX: m.XX, XY: m.YX, YX: m.XY, YY: m.YY}
}

// Inverse returns the inverse matrix; the caller guarantees Det != 0.
func (m Matrix2) Inverse() Matrix2 {
	inv := 1 / m.Det()
	return Matrix2{XX: m.YY * inv, XY: -m.XY * inv, YX: -m.YX * inv, YY: m.XX * inv}
}

// singularValues returns the major and minor singular values, i.e. the
// largest and smallest axis stretch the map applies.
func (m Matrix2) singularValues() (major, minor float64) {
	t := m.XX*m.XX + m.XY*m.XY + m.YX*m.YX + m.YY*m.YY
	d := m.Det() * m.Det()
	disc := math.Sqrt(math.Max(0, t*t-4*d))
	major = math.Sqrt(0.5 * (t + disc))
	minor = math.Sqrt(math.Max(0, 0.5*(t-disc)))
	return major, minor
}

// Transformation applies an invertible affine map plus a pointwise flux
// ratio to a child profile:
//
//	I'(x) = fluxRatio * I(A^-1 (x - offset))
//
// so the total flux becomes child flux * |det A| * fluxRatio.
type Transformation struct {
	child     Profile
	mat       Matrix2
	inv       Matrix2
	offset    core.Position
	fluxRatio float64

	absDet float64
	stepk  float64
	maxk   float64
}

// NewTransformation wraps child in the affine map mat plus offset, with a
// pointwise flux ratio. A singular matrix is a configuration error.
func NewTransformation(child Profile, mat Matrix2, offset core.Position, fluxRatio float64) (*Transformation, error) {
	det := mat.Det()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return nil, core.Configf("transformation: singular or invalid matrix %+v", mat)
	}
	t := &Transformation{
		child:     child,
		mat:       mat,
		inv:       mat.Inverse(),
		offset:    offset,
		fluxRatio: fluxRatio,
		absDet:    math.Abs(det),
	}
	// Stretching by the major singular value grows the real-space
	// support, and compression by the minor one grows the usable
	// Fourier range; the offset widens the support further.
	major, minor := mat.singularValues()
	t.stepk = child.StepK() / major
	if d := offset.Norm(); d > 0 && t.stepk < MockInf/2 {
		t.stepk = math.Pi / (math.Pi/t.stepk + d)
	}
	t.maxk = child.MaxK() / minor
	return t, nil
}

// Dilate returns child scaled by mu about the origin, preserving surface
// brightness, so the flux grows by mu^2.
func Dilate(child Profile, mu float64) (*Transformation, error) {
	if mu <= 0 {
		return nil, core.Configf("transformation: dilation factor must be positive, got %g", mu)
	}
	return NewTransformation(child, Matrix2{XX: mu, YY: mu}, core.Position{}, 1)
}

// ShiftProfile returns child translated by (dx, dy).
func ShiftProfile(child Profile, dx, dy float64) (*Transformation, error) {
	return NewTransformation(child, Matrix2{XX: 1, YY: 1}, core.Position{X: dx, Y: dy}, 1)
}

// WithFlux returns child rescaled to carry the given total flux.
func WithFlux(child Profile, flux float64) (*Transformation, error) {
	if child.Flux() == 0 {
		return nil, core.Configf("transformation: cannot rescale a zero-flux profile")
	}
	return NewTransformation(child, Matrix2{XX: 1, YY: 1}, core.Position{}, flux/child.Flux())
}

// Child returns the wrapped profile.
func (t *Transformation) Child() Profile { return t.child }

func (t *Transformation) Flux() float64 { return t.child.Flux() * t.absDet * t.fluxRatio }

func (t *Transformation) Centroid() core.Position {
	return t.mat.Apply(t.child.Centroid()).Add(t.offset)
}

func (t *Transformation) HasHardEdges() bool    { return t.child.HasHardEdges() }
func (t *Transformation) IsAnalyticX() bool     { return t.child.IsAnalyticX() }
func (t *Transformation) IsAnalyticK() bool     { return t.child.IsAnalyticK() }
func (t *Transformation) StepK() float64        { return t.stepk }
func (t *Transformation) MaxK() float64         { return t.maxk }
func (t *Transformation) Params() core.GSParams { return t.child.Params() }

func (t *Transformation) IsAxisymmetric() bool {
	return t.child.IsAxisymmetric() &&
		t.offset == (core.Position{}) &&
		t.mat.XY == 0 && t.mat.YX == 0 && t.mat.XX == t.mat.YY
}

func (t *Transformation) XValue(p core.Position) (float64, error) {
	v, err := t.child.XValue(t.inv.Apply(p.Sub(t.offset)))
	if err != nil {
		return 0, err
	}
	return t.fluxRatio * v, nil
}

func (t *Transformation) KValue(k core.Position) (complex128, error) {
	v, err := t.child.KValue(t.mat.Transpose().Apply(k))
	if err != nil {
		return 0, err
	}
	scale := complex(t.absDet*t.fluxRatio, 0)
	// Forward transform convention exp(-i k.x): translation by offset
	// multiplies by exp(-i k.offset).
	phase := cmplx.Exp(complex(0, -k.Dot(t.offset)))
	return scale * phase * v, nil
}

func (t *Transformation) Shoot(n int, ud core.UniformDeviate) (*core.PhotonArray, error) {
	pa, err := t.child.Shoot(n, ud)
	if err != nil {
		return nil, err
	}
	for i := range pa.X {
		p := t.mat.Apply(core.Position{X: pa.X[i], Y: pa.Y[i]}).Add(t.offset)
		pa.X[i] = p.X
		pa.Y[i] = p.Y
	}
	pa.Scale(t.absDet * t.fluxRatio)
	return pa, nil
}

func (t *Transformation) String() string {
	return fmt.Sprintf("Transformation(%s, jac=[%g,%g,%g,%g], offset=(%g,%g), flux_ratio=%g)",
		t.child, t.mat.XX, t.mat.XY, t.mat.YX, t.mat.YY, t.offset.X, t.offset.Y, t.fluxRatio)
}
