// Package profile implements two-dimensional surface-brightness models
// and their composite algebra. A Profile can be evaluated in real space,
// in Fourier space, or sampled stochastically as weighted photons; the
// renderer package turns any of these into pixel images.
package profile

import (
	"fmt"

	"github.com/quenby/go-skylight/pkg/core"
)

// MockInf is the sentinel for "effectively infinite" bandlimits, used by
// degenerate profiles like DeltaFunction whose Fourier transform never
// decays. It is large enough to dominate any real bandlimit while staying
// safely inside float64 range for arithmetic.
const MockInf = 1e300

// Profile is a 2D flux-density model. Implementations are immutable value
// objects: all methods are safe for concurrent use.
//
// The Fourier convention is KValue(k) = integral of XValue(x)·exp(-i k·x)
// over the plane, so KValue at the origin equals the total flux.
type Profile interface {
	fmt.Stringer

	// Flux returns the real-space integral of the profile.
	Flux() float64
	// Centroid returns the flux-weighted mean position.
	Centroid() core.Position

	// IsAxisymmetric reports rotational symmetry about the centroid.
	IsAxisymmetric() bool
	// HasHardEdges reports a discontinuous truncation edge in real space.
	HasHardEdges() bool
	// IsAnalyticX reports whether XValue is defined.
	IsAnalyticX() bool
	// IsAnalyticK reports whether KValue is defined.
	IsAnalyticK() bool

	// StepK returns the Fourier grid spacing at which folding flux from
	// beyond radius pi/StepK is at most the folding threshold.
	StepK() float64
	// MaxK returns the wavenumber beyond which the Fourier amplitude is
	// below the maxk threshold times the flux.
	MaxK() float64

	// XValue evaluates the flux density at p. Profiles that are not
	// analytic in real space return an UnsupportedError.
	XValue(p core.Position) (float64, error)
	// KValue evaluates the Fourier transform at wavenumber k. Profiles
	// that are not analytic in Fourier space return an UnsupportedError.
	KValue(k core.Position) (complex128, error)

	// Shoot draws n weighted photons distributed as the profile's flux
	// density. The expected photon flux total equals Flux; for some
	// profiles it is exact.
	Shoot(n int, ud core.UniformDeviate) (*core.PhotonArray, error)

	// Params returns the accuracy parameters the profile was built with.
	Params() core.GSParams
}

func unsupportedX(p Profile) error {
	return &core.UnsupportedError{Op: "real-space evaluation", Profile: p.String()}
}

func checkShootCount(n int) error {
	if n <= 0 {
		return core.Configf("photon count must be positive, got %d", n)
	}
	return nil
}
