package profile

import (
	"fmt"
	"math"

	"github.com/quenby/go-skylight/pkg/core"
)

// Gaussian is the circular Gaussian profile
//
//	I(r) = flux / (2 pi sigma^2) * exp(-r^2 / (2 sigma^2))
//
// It is analytic in both domains and needs no cached state; even photon
// shooting has an exact radial inverse CDF.
type Gaussian struct {
	sigma float64
	flux  float64
	gsp   core.GSParams

	xnorm float64
	stepk float64
	maxk  float64
}

// NewGaussian builds a Gaussian with dispersion sigma.
func NewGaussian(sigma, flux float64, gsp core.GSParams) (*Gaussian, error) {
	if sigma <= 0 {
		return nil, core.Configf("gaussian: sigma must be positive, got %g", sigma)
	}
	g := &Gaussian{sigma: sigma, flux: flux, gsp: gsp}
	g.xnorm = flux / (2 * math.Pi * sigma * sigma)

	// |KValue(k)|/flux = exp(-sigma^2 k^2 / 2) drops to the maxk
	// threshold at k = sqrt(-2 ln th) / sigma.
	g.maxk = math.Sqrt(-2*math.Log(gsp.MaxKThreshold)) / sigma

	// Flux outside radius R is exp(-R^2 / 2 sigma^2); folding_threshold
	// gives R directly.
	r := math.Sqrt(-2*math.Log(gsp.FoldingThreshold)) * sigma
	g.stepk = math.Pi / r
	return g, nil
}

// Sigma returns the dispersion.
func (g *Gaussian) Sigma() float64 { return g.sigma }

func (g *Gaussian) Flux() float64           { return g.flux }
func (g *Gaussian) Centroid() core.Position { return core.Position{} }
func (g *Gaussian) IsAxisymmetric() bool    { return true }
func (g *Gaussian) HasHardEdges() bool      { return false }
func (g *Gaussian) IsAnalyticX() bool       { return true }
func (g *Gaussian) IsAnalyticK() bool       { return true }
func (g *Gaussian) StepK() float64          { return g.stepk }
func (g *Gaussian) MaxK() float64           { return g.maxk }
func (g *Gaussian) Params() core.GSParams   { return g.gsp }

func (g *Gaussian) XValue(p core.Position) (float64, error) {
	rsq := p.X*p.X + p.Y*p.Y
	return g.xnorm * math.Exp(-rsq/(2*g.sigma*g.sigma)), nil
}

func (g *Gaussian) KValue(k core.Position) (complex128, error) {
	ksq := k.X*k.X + k.Y*k.Y
	return complex(g.flux*math.Exp(-0.5*g.sigma*g.sigma*ksq), 0), nil
}

// Shoot draws photons by inverting the enclosed-flux fraction
// 1 - exp(-r^2/2 sigma^2) and a uniform azimuth.
func (g *Gaussian) Shoot(n int, ud core.UniformDeviate) (*core.PhotonArray, error) {
	if err := checkShootCount(n); err != nil {
		return nil, err
	}
	pa := core.NewPhotonArray(n)
	fluxPer := g.flux / float64(n)
	for i := 0; i < n; i++ {
		// 1-u avoids log(0); u is in [0, 1).
		r := g.sigma * math.Sqrt(-2*math.Log(1-ud.Float64()))
		theta := 2 * math.Pi * ud.Float64()
		pa.SetPhoton(i, r*math.Cos(theta), r*math.Sin(theta), fluxPer)
	}
	return pa, nil
}

func (g *Gaussian) String() string {
	return fmt.Sprintf("Gaussian(sigma=%g, flux=%g)", g.sigma, g.flux)
}
