package profile

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/quenby/go-skylight/pkg/cache"
	"github.com/quenby/go-skylight/pkg/core"
)

// kolmK0Factor converts the seeing ratio lambda/r0 into the Kolmogorov
// spectral scale: k0 = 2.992934 / (lam/r0). It folds the 6.8838771
// structure-function coefficient of Kolmogorov turbulence into the
// exponent so that KValue(k) = flux * exp(-(k/k0)^(5/3)).
const kolmK0Factor = 2.992934

// Kolmogorov is the long-exposure atmospheric turbulence profile, defined
// by its structure function: the optical transfer function is
// exp(-(k/k0)^(5/3)). Fourier space is closed form; the real-space
// density and the photon sampler come from a KolmogorovInfo built by
// inverse Hankel transform. The family is scale invariant, so one Info
// per GSParams serves every instance.
type Kolmogorov struct {
	lamOverR0 float64
	flux      float64
	gsp       core.GSParams

	k0   float64
	info *kolmogorovInfo
}

// kolmogorovInfo holds the dimensionless (k0 = 1) radial profile table,
// the folding radius derived from its cumulative flux, and the photon
// sampler.
type kolmogorovInfo struct {
	radial  *core.Table
	stepk   float64 // dimensionless; multiply by k0
	sampler *OneDSampler
}

var kolmogorovCache = cache.New[core.GSParams, kolmogorovInfo](cache.DefaultCapacity)

const (
	kolmRadialPoints = 256
	kolmQMaxFactor   = 4.0
)

func buildKolmogorovInfo(gsp core.GSParams) (*kolmogorovInfo, error) {
	// Dimensionless radial density: the inverse Hankel transform of the
	// unit-flux transfer function exp(-q^(5/3)).
	qmax := kolmQMaxFactor * math.Pow(-math.Log(gsp.IntegrationRelErr), 0.6)
	radialAt := func(rho float64) float64 {
		return quad.Fixed(func(q float64) float64 {
			return math.Exp(-math.Pow(q, 5.0/3.0)) * q * math.J0(q*rho) / (2 * math.Pi)
		}, 0, qmax, 2048, nil, 0)
	}

	// The half-light radius of the dimensionless profile is ~0.55; a
	// table out to rho=30 holds all but ~1e-5 of the flux.
	const rhoMax = 30.0
	rhos := make([]float64, kolmRadialPoints)
	vals := make([]float64, kolmRadialPoints)
	for i := range rhos {
		// Quadratic spacing concentrates points near the core where the
		// density varies fastest.
		frac := float64(i) / float64(kolmRadialPoints-1)
		rhos[i] = rhoMax * frac * frac
		vals[i] = radialAt(rhos[i])
	}
	radial, err := core.NewTable(rhos, vals)
	if err != nil {
		return nil, err
	}

	// Walk the cumulative flux outward for the folding radius.
	enclosed := func(r float64) float64 {
		return quad.Fixed(func(rho float64) float64 {
			return 2 * math.Pi * rho * radial.Lookup(rho)
		}, 0, r, 512, nil, 0)
	}
	foldR, err := core.BracketUpper(func(r float64) float64 {
		return enclosed(r) - (1 - gsp.FoldingThreshold)
	}, 0.5, 1e-6)
	if err != nil {
		return nil, err
	}

	shootR, err := core.BracketUpper(func(r float64) float64 {
		return enclosed(r) - (1 - gsp.ShootAccuracy)
	}, foldR, 1e-6)
	if err != nil {
		// The table tail may not quite reach 1-shootAccuracy; fall back
		// to the full tabulated range rather than failing the build.
		shootR = rhoMax
	}
	if shootR > rhoMax {
		shootR = rhoMax
	}

	sampler, err := NewOneDSampler(radial.Lookup, 0, shootR, true, gsp.ShootAccuracy)
	if err != nil {
		return nil, err
	}
	return &kolmogorovInfo{
		radial:  radial,
		stepk:   math.Pi / foldR,
		sampler: sampler,
	}, nil
}

// NewKolmogorov builds a Kolmogorov profile from the dimensionless seeing
// ratio lambda/r0 (wavelength over Fried parameter, in the same angular
// units the profile is evaluated in).
func NewKolmogorov(lamOverR0, flux float64, gsp core.GSParams) (*Kolmogorov, error) {
	if lamOverR0 <= 0 {
		return nil, core.Configf("kolmogorov: lam/r0 must be positive, got %g", lamOverR0)
	}
	info, err := kolmogorovCache.GetOrBuild(gsp, func() (*kolmogorovInfo, error) {
		return buildKolmogorovInfo(gsp)
	})
	if err != nil {
		return nil, err
	}
	return &Kolmogorov{
		lamOverR0: lamOverR0,
		flux:      flux,
		gsp:       gsp,
		k0:        kolmK0Factor / lamOverR0,
		info:      info,
	}, nil
}

// LamOverR0 returns the seeing ratio the profile was built from.
func (k *Kolmogorov) LamOverR0() float64 { return k.lamOverR0 }

func (k *Kolmogorov) Flux() float64           { return k.flux }
func (k *Kolmogorov) Centroid() core.Position { return core.Position{} }
func (k *Kolmogorov) IsAxisymmetric() bool    { return true }
func (k *Kolmogorov) HasHardEdges() bool      { return false }
func (k *Kolmogorov) IsAnalyticX() bool       { return true }
func (k *Kolmogorov) IsAnalyticK() bool       { return true }
func (k *Kolmogorov) StepK() float64          { return k.info.stepk * k.k0 }
func (k *Kolmogorov) Params() core.GSParams   { return k.gsp }

// MaxK solves exp(-(k/k0)^(5/3)) = threshold in closed form.
func (k *Kolmogorov) MaxK() float64 {
	return k.k0 * math.Pow(-math.Log(k.gsp.MaxKThreshold), 0.6)
}

func (k *Kolmogorov) XValue(p core.Position) (float64, error) {
	rho := p.Norm() * k.k0
	return k.flux * k.k0 * k.k0 * k.info.radial.Lookup(rho), nil
}

func (k *Kolmogorov) KValue(kp core.Position) (complex128, error) {
	q := kp.Norm() / k.k0
	return complex(k.flux*math.Exp(-math.Pow(q, 5.0/3.0)), 0), nil
}

func (k *Kolmogorov) Shoot(n int, ud core.UniformDeviate) (*core.PhotonArray, error) {
	pa, err := k.info.sampler.Draw(n, ud)
	if err != nil {
		return nil, err
	}
	inv := 1 / k.k0
	for i := range pa.X {
		pa.X[i] *= inv
		pa.Y[i] *= inv
	}
	pa.Scale(k.flux / k.info.sampler.TotalAbsFlux())
	return pa, nil
}

func (k *Kolmogorov) String() string {
	return fmt.Sprintf("Kolmogorov(lam_over_r0=%g, flux=%g)", k.lamOverR0, k.flux)
}
