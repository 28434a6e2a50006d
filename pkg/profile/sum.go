package profile

import (
	"fmt"
	"math"
	"strings"

	"github.com/quenby/go-skylight/pkg/core"
)

// Sum is the additive composite: its density is the sum of its children's.
// Children are held by reference and may be shared with other composites.
type Sum struct {
	children []Profile

	flux     float64
	absFlux  float64
	centroid core.Position
	stepk    float64
	maxk     float64
}

// NewSum combines one or more profiles additively.
func NewSum(children ...Profile) (*Sum, error) {
	if len(children) == 0 {
		return nil, core.Configf("sum: at least one child profile is required")
	}
	s := &Sum{children: append([]Profile(nil), children...)}
	s.stepk = math.Inf(1)
	var cx, cy float64
	for _, c := range children {
		f := c.Flux()
		s.flux += f
		s.absFlux += math.Abs(f)
		cx += f * c.Centroid().X
		cy += f * c.Centroid().Y
		// The sum is band-limited by its widest child and folded by its
		// largest real-space support.
		s.maxk = math.Max(s.maxk, c.MaxK())
		s.stepk = math.Min(s.stepk, c.StepK())
	}
	if s.flux != 0 {
		s.centroid = core.Position{X: cx / s.flux, Y: cy / s.flux}
	}
	return s, nil
}

// Children returns the child profiles in order.
func (s *Sum) Children() []Profile { return s.children }

func (s *Sum) Flux() float64           { return s.flux }
func (s *Sum) Centroid() core.Position { return s.centroid }
func (s *Sum) StepK() float64          { return s.stepk }
func (s *Sum) MaxK() float64           { return s.maxk }
func (s *Sum) Params() core.GSParams   { return s.children[0].Params() }

func (s *Sum) IsAxisymmetric() bool {
	for _, c := range s.children {
		if !c.IsAxisymmetric() || c.Centroid() != (core.Position{}) {
			return false
		}
	}
	return true
}

func (s *Sum) HasHardEdges() bool {
	for _, c := range s.children {
		if c.HasHardEdges() {
			return true
		}
	}
	return false
}

func (s *Sum) IsAnalyticX() bool {
	for _, c := range s.children {
		if !c.IsAnalyticX() {
			return false
		}
	}
	return true
}

func (s *Sum) IsAnalyticK() bool {
	for _, c := range s.children {
		if !c.IsAnalyticK() {
			return false
		}
	}
	return true
}

func (s *Sum) XValue(p core.Position) (float64, error) {
	total := 0.0
	for _, c := range s.children {
		v, err := c.XValue(p)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

func (s *Sum) KValue(k core.Position) (complex128, error) {
	var total complex128
	for _, c := range s.children {
		v, err := c.KValue(k)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

// Shoot assigns each of the n photons to a child with probability
// proportional to the child's share of |flux|, then delegates each
// child's quota to its own sampler. Photons keep the weights the child
// gave them, so the realized total is the exact sum of child fluxes.
func (s *Sum) Shoot(n int, ud core.UniformDeviate) (*core.PhotonArray, error) {
	if err := checkShootCount(n); err != nil {
		return nil, err
	}
	if s.absFlux == 0 {
		return nil, core.Configf("sum: cannot shoot photons with zero total |flux|")
	}

	counts := make([]int, len(s.children))
	for i := 0; i < n; i++ {
		u := ud.Float64() * s.absFlux
		for j, c := range s.children {
			u -= math.Abs(c.Flux())
			if u < 0 || j == len(s.children)-1 {
				counts[j]++
				break
			}
		}
	}

	pa := core.NewPhotonArray(n)
	at := 0
	for j, c := range s.children {
		if counts[j] == 0 {
			continue
		}
		sub, err := c.Shoot(counts[j], ud)
		if err != nil {
			return nil, err
		}
		copy(pa.X[at:], sub.X)
		copy(pa.Y[at:], sub.Y)
		copy(pa.Flux[at:], sub.Flux)
		at += counts[j]
	}
	return pa, nil
}

func (s *Sum) String() string {
	parts := make([]string, len(s.children))
	for i, c := range s.children {
		parts[i] = c.String()
	}
	return fmt.Sprintf("Sum(%s)", strings.Join(parts, ", "))
}
