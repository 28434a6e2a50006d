package profile

import (
	"fmt"
	"strings"

	"github.com/quenby/go-skylight/pkg/core"
)

// Convolution composes profiles by convolution, evaluated as the product
// of the children's Fourier transforms. Every child must be analytic in
// Fourier space.
//
// The total flux is the literal product of the children's fluxes. That is
// the only rule consistent with KValue(0) equaling the flux, since the
// composite KValue is the product of the children's. The common usage of
// one flux-carrying profile convolved with unit-flux kernels is the
// special case where the product collapses to the carrier's flux.
type Convolution struct {
	children []Profile

	flux     float64
	centroid core.Position
	stepk    float64
	maxk     float64
}

// NewConvolution convolves one or more profiles.
func NewConvolution(children ...Profile) (*Convolution, error) {
	if len(children) == 0 {
		return nil, core.Configf("convolution: at least one child profile is required")
	}
	c := &Convolution{children: append([]Profile(nil), children...), flux: 1}
	c.maxk = MockInf
	sumR := 0.0 // real-space support radii add under convolution
	for _, ch := range children {
		if !ch.IsAnalyticK() {
			return nil, core.Configf("convolution: child %s is not analytic in Fourier space", ch)
		}
		c.flux *= ch.Flux()
		c.centroid = c.centroid.Add(ch.Centroid())
		if ch.MaxK() < c.maxk {
			c.maxk = ch.MaxK()
		}
		sumR += 1 / ch.StepK()
	}
	c.stepk = 1 / sumR
	return c, nil
}

// Children returns the child profiles in order.
func (c *Convolution) Children() []Profile { return c.children }

func (c *Convolution) Flux() float64           { return c.flux }
func (c *Convolution) Centroid() core.Position { return c.centroid }
func (c *Convolution) HasHardEdges() bool      { return false }
func (c *Convolution) IsAnalyticX() bool       { return false }
func (c *Convolution) IsAnalyticK() bool       { return true }
func (c *Convolution) StepK() float64          { return c.stepk }
func (c *Convolution) MaxK() float64           { return c.maxk }
func (c *Convolution) Params() core.GSParams   { return c.children[0].Params() }

func (c *Convolution) IsAxisymmetric() bool {
	for _, ch := range c.children {
		if !ch.IsAxisymmetric() {
			return false
		}
	}
	return true
}

// XValue is not defined: the composite exists only in Fourier space.
func (c *Convolution) XValue(core.Position) (float64, error) {
	return 0, unsupportedX(c)
}

func (c *Convolution) KValue(k core.Position) (complex128, error) {
	product := complex(1, 0)
	for _, ch := range c.children {
		v, err := ch.KValue(k)
		if err != nil {
			return 0, err
		}
		product *= v
	}
	return product, nil
}

// Shoot draws independently from every child and adds the displacements
// per photon, since convolution is the distribution of a sum of
// independent draws. Weights combine multiplicatively via
// PhotonArray.Convolve.
func (c *Convolution) Shoot(n int, ud core.UniformDeviate) (*core.PhotonArray, error) {
	pa, err := c.children[0].Shoot(n, ud)
	if err != nil {
		return nil, err
	}
	for _, ch := range c.children[1:] {
		sub, err := ch.Shoot(n, ud)
		if err != nil {
			return nil, err
		}
		pa.Convolve(sub)
	}
	return pa, nil
}

func (c *Convolution) String() string {
	parts := make([]string, len(c.children))
	for i, ch := range c.children {
		parts[i] = ch.String()
	}
	return fmt.Sprintf("Convolution(%s)", strings.Join(parts, ", "))
}
