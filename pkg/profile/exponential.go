package profile

import (
	"fmt"
	"math"

	"github.com/quenby/go-skylight/pkg/cache"
	"github.com/quenby/go-skylight/pkg/core"
)

// ExpHLRFactor converts a half-light radius to the exponential scale
// radius: r_e / r_0 solves r_e/r_0 = ln(r_e/r_0 + 1) + ln 2.
const ExpHLRFactor = 1.6783469900166605

// Exponential is the exponential disk profile
//
//	I(r) = flux / (2 pi r0^2) * exp(-r / r0)
//
// Both domains are analytic; photon shooting goes through a shared
// sampler built once per GSParams, since the radial CDF has no closed
// inverse and the profile is scale-invariant in units of r0.
type Exponential struct {
	r0   float64
	flux float64
	gsp  core.GSParams

	xnorm float64
	stepk float64
	maxk  float64
	info  *expInfo
}

// expInfo holds the dimensionless (r0 = 1) sampler shared by every
// Exponential with the same GSParams.
type expInfo struct {
	sampler *OneDSampler
}

var expCache = cache.New[core.GSParams, expInfo](cache.DefaultCapacity)

func buildExpInfo(gsp core.GSParams) (*expInfo, error) {
	// Draw range covers all but shootAccuracy of the flux:
	// (1 + t) e^{-t} = shootAccuracy.
	tmax, err := core.BracketUpper(func(t float64) float64 {
		return (1+t)*math.Exp(-t) - gsp.ShootAccuracy
	}, 1, 1e-8)
	if err != nil {
		return nil, err
	}
	sampler, err := NewOneDSampler(func(t float64) float64 {
		return math.Exp(-t)
	}, 0, tmax, true, gsp.ShootAccuracy)
	if err != nil {
		return nil, err
	}
	return &expInfo{sampler: sampler}, nil
}

// NewExponential builds an exponential profile with scale radius r0.
func NewExponential(r0, flux float64, gsp core.GSParams) (*Exponential, error) {
	if r0 <= 0 {
		return nil, core.Configf("exponential: scale radius must be positive, got %g", r0)
	}
	e := &Exponential{r0: r0, flux: flux, gsp: gsp}
	e.xnorm = flux / (2 * math.Pi * r0 * r0)

	// |KValue(k)|/flux = (1 + k^2 r0^2)^{-3/2} ~ (k r0)^{-3} at large k.
	e.maxk = math.Pow(gsp.MaxKThreshold, -1.0/3.0) / r0

	// Enclosed flux fraction within R is 1 - (1 + R/r0) exp(-R/r0);
	// no closed inverse, so the folding radius comes from a root find.
	fold := gsp.FoldingThreshold
	r, err := core.BracketUpper(func(t float64) float64 {
		return (1+t)*math.Exp(-t) - fold
	}, 1, 1e-8)
	if err != nil {
		return nil, err
	}
	e.stepk = math.Pi / (r * r0)

	info, err := expCache.GetOrBuild(gsp, func() (*expInfo, error) {
		return buildExpInfo(gsp)
	})
	if err != nil {
		return nil, err
	}
	e.info = info
	return e, nil
}

// NewExponentialFromHLR builds an exponential profile from its half-light
// radius.
func NewExponentialFromHLR(hlr, flux float64, gsp core.GSParams) (*Exponential, error) {
	if hlr <= 0 {
		return nil, core.Configf("exponential: half-light radius must be positive, got %g", hlr)
	}
	return NewExponential(hlr/ExpHLRFactor, flux, gsp)
}

// ScaleRadius returns r0.
func (e *Exponential) ScaleRadius() float64 { return e.r0 }

// HalfLightRadius returns the radius enclosing half the flux.
func (e *Exponential) HalfLightRadius() float64 { return e.r0 * ExpHLRFactor }

func (e *Exponential) Flux() float64           { return e.flux }
func (e *Exponential) Centroid() core.Position { return core.Position{} }
func (e *Exponential) IsAxisymmetric() bool    { return true }
func (e *Exponential) HasHardEdges() bool      { return false }
func (e *Exponential) IsAnalyticX() bool       { return true }
func (e *Exponential) IsAnalyticK() bool       { return true }
func (e *Exponential) StepK() float64          { return e.stepk }
func (e *Exponential) MaxK() float64           { return e.maxk }
func (e *Exponential) Params() core.GSParams   { return e.gsp }

func (e *Exponential) XValue(p core.Position) (float64, error) {
	r := p.Norm()
	return e.xnorm * math.Exp(-r/e.r0), nil
}

func (e *Exponential) KValue(k core.Position) (complex128, error) {
	ksq := (k.X*k.X + k.Y*k.Y) * e.r0 * e.r0
	return complex(e.flux*math.Pow(1+ksq, -1.5), 0), nil
}

func (e *Exponential) Shoot(n int, ud core.UniformDeviate) (*core.PhotonArray, error) {
	pa, err := e.info.sampler.Draw(n, ud)
	if err != nil {
		return nil, err
	}
	// Sampler works in units of r0 with unit total flux (up to the shoot
	// accuracy tail); rescale positions and renormalize weights.
	for i := range pa.X {
		pa.X[i] *= e.r0
		pa.Y[i] *= e.r0
	}
	pa.Scale(e.flux / e.info.sampler.TotalAbsFlux())
	return pa, nil
}

func (e *Exponential) String() string {
	return fmt.Sprintf("Exponential(scale_radius=%g, flux=%g)", e.r0, e.flux)
}
