package profile

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/quenby/go-skylight/pkg/cache"
	"github.com/quenby/go-skylight/pkg/core"
)

// Moffat is the power-law atmospheric PSF profile
//
//	I(r) = flux * (beta-1) / (pi rd^2) * (1 + r^2/rd^2)^(-beta)
//
// untruncated, which requires beta > 1 for finite flux. Real space and
// the enclosed-flux fraction are closed form, so stepK and photon
// shooting are exact; the Fourier transform has no elementary form and
// comes from a Hankel-transform lookup table held by a shared Info
// object. The table is dimensionless in q = k*rd and depends only on
// beta, so the Info is cached per (rounded beta, GSParams).
type Moffat struct {
	beta float64
	rd   float64
	flux float64
	gsp  core.GSParams

	xnorm float64
	stepk float64
	info  *moffatInfo
}

type moffatKey struct {
	Beta float64
	GSP  core.GSParams
}

// moffatInfo holds the dimensionless k-space table psi(q) with psi(0)=1,
// and the dimensionless maxk derived from it.
type moffatInfo struct {
	ktable *core.Table
	maxq   float64
}

var moffatCache = cache.New[moffatKey, moffatInfo](cache.DefaultCapacity)

const moffatKTablePoints = 256

func buildMoffatInfo(beta float64, gsp core.GSParams) (*moffatInfo, error) {
	// Radial truncation for the Hankel integrals: keep all but the
	// integration tolerance of the flux, capped to avoid runaway ranges
	// for beta near 1.
	frac := math.Pow(gsp.IntegrationRelErr, 1/(1-beta))
	tmax := math.Sqrt(math.Min(frac-1, 1e8))
	fnorm := (beta - 1) / math.Pi

	psi := func(q float64) float64 {
		return quad.Fixed(func(t float64) float64 {
			return fnorm * math.Pow(1+t*t, -beta) * 2 * math.Pi * t * math.J0(q*t)
		}, 0, tmax, 4096, nil, 0)
	}

	// Find maxq by stepping outward until |psi| stays below the
	// threshold, then tabulate [0, maxq].
	th := gsp.MaxKThreshold
	maxq := 1.0
	for psiAbove(psi, maxq, th) {
		maxq *= 2
		if maxq > 1e6 {
			return nil, &core.NumericalError{Msg: "moffat: maxk search diverged"}
		}
	}

	qs := make([]float64, moffatKTablePoints)
	vs := make([]float64, moffatKTablePoints)
	for i := range qs {
		qs[i] = maxq * float64(i) / float64(moffatKTablePoints-1)
		vs[i] = psi(qs[i])
	}
	// Renormalize so the truncated transform is exactly 1 at q=0; the
	// correction is of order the integration tolerance.
	p0 := vs[0]
	if p0 <= 0 {
		return nil, &core.NumericalError{Msg: "moffat: k table normalization failed"}
	}
	for i := range vs {
		vs[i] /= p0
	}
	ktable, err := core.NewTable(qs, vs)
	if err != nil {
		return nil, err
	}
	return &moffatInfo{ktable: ktable, maxq: maxq}, nil
}

func psiAbove(psi func(float64) float64, q, th float64) bool {
	// Check a few points around q; the transform oscillates for hard
	// truncations, so a single sample is not trustworthy.
	for _, f := range []float64{0.9, 1.0, 1.1} {
		if math.Abs(psi(q*f)) > th {
			return true
		}
	}
	return false
}

// NewMoffat builds a Moffat profile with slope beta and scale radius rd.
func NewMoffat(beta, rd, flux float64, gsp core.GSParams) (*Moffat, error) {
	if beta <= 1 {
		return nil, core.Configf("moffat: beta must exceed 1 for finite flux, got %g", beta)
	}
	if rd <= 0 {
		return nil, core.Configf("moffat: scale radius must be positive, got %g", rd)
	}
	m := &Moffat{beta: beta, rd: rd, flux: flux, gsp: gsp}
	m.xnorm = flux * (beta - 1) / (math.Pi * rd * rd)

	// Flux fraction outside radius R is (1 + R^2/rd^2)^(1-beta).
	u := math.Sqrt(math.Pow(gsp.FoldingThreshold, 1/(1-beta)) - 1)
	m.stepk = math.Pi / (u * rd)

	key := moffatKey{Beta: math.Round(beta*1e8) / 1e8, GSP: gsp}
	info, err := moffatCache.GetOrBuild(key, func() (*moffatInfo, error) {
		return buildMoffatInfo(key.Beta, gsp)
	})
	if err != nil {
		return nil, err
	}
	m.info = info
	return m, nil
}

// Beta returns the power-law slope.
func (m *Moffat) Beta() float64 { return m.beta }

// ScaleRadius returns rd.
func (m *Moffat) ScaleRadius() float64 { return m.rd }

func (m *Moffat) Flux() float64           { return m.flux }
func (m *Moffat) Centroid() core.Position { return core.Position{} }
func (m *Moffat) IsAxisymmetric() bool    { return true }
func (m *Moffat) HasHardEdges() bool      { return false }
func (m *Moffat) IsAnalyticX() bool       { return true }
func (m *Moffat) IsAnalyticK() bool       { return true }
func (m *Moffat) StepK() float64          { return m.stepk }
func (m *Moffat) MaxK() float64           { return m.info.maxq / m.rd }
func (m *Moffat) Params() core.GSParams   { return m.gsp }

func (m *Moffat) XValue(p core.Position) (float64, error) {
	usq := (p.X*p.X + p.Y*p.Y) / (m.rd * m.rd)
	return m.xnorm * math.Pow(1+usq, -m.beta), nil
}

func (m *Moffat) KValue(k core.Position) (complex128, error) {
	q := k.Norm() * m.rd
	if q >= m.info.ktable.XMax() {
		return 0, nil
	}
	return complex(m.flux*m.info.ktable.Lookup(q), 0), nil
}

// Shoot inverts the closed-form enclosed-flux fraction
// u = 1 - (1 + t^2)^(1-beta) exactly, photon by photon.
func (m *Moffat) Shoot(n int, ud core.UniformDeviate) (*core.PhotonArray, error) {
	if err := checkShootCount(n); err != nil {
		return nil, err
	}
	pa := core.NewPhotonArray(n)
	fluxPer := m.flux / float64(n)
	for i := 0; i < n; i++ {
		u := ud.Float64()
		t := math.Sqrt(math.Pow(1-u, 1/(1-m.beta)) - 1)
		theta := 2 * math.Pi * ud.Float64()
		r := t * m.rd
		pa.SetPhoton(i, r*math.Cos(theta), r*math.Sin(theta), fluxPer)
	}
	return pa, nil
}

func (m *Moffat) String() string {
	return fmt.Sprintf("Moffat(beta=%g, scale_radius=%g, flux=%g)", m.beta, m.rd, m.flux)
}
