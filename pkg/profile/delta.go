package profile

import (
	"fmt"
	"math"

	"github.com/quenby/go-skylight/pkg/core"
)

// DeltaFunction is the degenerate point-source profile: all flux at the
// origin. Its Fourier transform is flat, so both bandlimits are the
// MockInf sentinel and the FFT path is meaningless for it on its own; it
// exists to be convolved with finite profiles or shot directly.
type DeltaFunction struct {
	flux float64
	gsp  core.GSParams
}

// NewDeltaFunction builds a point source carrying flux.
func NewDeltaFunction(flux float64, gsp core.GSParams) *DeltaFunction {
	return &DeltaFunction{flux: flux, gsp: gsp}
}

func (d *DeltaFunction) Flux() float64           { return d.flux }
func (d *DeltaFunction) Centroid() core.Position { return core.Position{} }
func (d *DeltaFunction) IsAxisymmetric() bool    { return true }
func (d *DeltaFunction) HasHardEdges() bool      { return false }
func (d *DeltaFunction) IsAnalyticX() bool       { return true }
func (d *DeltaFunction) IsAnalyticK() bool       { return true }
func (d *DeltaFunction) StepK() float64          { return MockInf }
func (d *DeltaFunction) MaxK() float64           { return MockInf }
func (d *DeltaFunction) Params() core.GSParams   { return d.gsp }

// XValue is a spike exactly at the origin and zero elsewhere. Callers
// summing over real space must treat the origin specially; the value
// there is the MockInf sentinel, not a usable density.
func (d *DeltaFunction) XValue(p core.Position) (float64, error) {
	if p.X == 0 && p.Y == 0 {
		return math.Copysign(MockInf, d.flux), nil
	}
	return 0, nil
}

func (d *DeltaFunction) KValue(core.Position) (complex128, error) {
	return complex(d.flux, 0), nil
}

// Shoot places every photon exactly at the origin with weight flux/n, so
// the realized total is exact with no stochastic error.
func (d *DeltaFunction) Shoot(n int, ud core.UniformDeviate) (*core.PhotonArray, error) {
	if err := checkShootCount(n); err != nil {
		return nil, err
	}
	pa := core.NewPhotonArray(n)
	fluxPer := d.flux / float64(n)
	for i := 0; i < n; i++ {
		pa.SetPhoton(i, 0, 0, fluxPer)
	}
	return pa, nil
}

func (d *DeltaFunction) String() string {
	return fmt.Sprintf("DeltaFunction(flux=%g)", d.flux)
}
