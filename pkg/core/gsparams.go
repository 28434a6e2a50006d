package core

// GSParams bundles the numerical accuracy targets that govern rendering.
// It is an immutable value type; profiles built with different GSParams are
// distinct objects for caching purposes, so the struct must stay comparable.
type GSParams struct {
	// FoldingThreshold sets the real-space truncation error: a profile's
	// stepK is chosen so that folding flux from beyond radius pi/stepK is
	// at most this fraction of the total.
	FoldingThreshold float64

	// MaxKThreshold sets the Fourier-space truncation error: maxK is chosen
	// so that the Fourier amplitude beyond it is below this fraction of flux.
	MaxKThreshold float64

	// IntegrationRelErr and IntegrationAbsErr bound the quadrature error
	// when building lookup tables for profiles without closed forms.
	IntegrationRelErr float64
	IntegrationAbsErr float64

	// MinimumFFTSize and MaximumFFTSize bracket the grid used by the FFT
	// render path. Exceeding the maximum is an AccuracyError, never a
	// silent truncation.
	MinimumFFTSize int
	MaximumFFTSize int

	// ShootAccuracy bounds the sampling error of photon shooting; it also
	// controls how finely the one-dimensional sampler subdivides a radial
	// density into intervals.
	ShootAccuracy float64
}

// DefaultGSParams returns the standard accuracy targets. These match the
// tolerances the test suite is calibrated against.
func DefaultGSParams() GSParams {
	return GSParams{
		FoldingThreshold:  5e-3,
		MaxKThreshold:     1e-3,
		IntegrationRelErr: 1e-6,
		IntegrationAbsErr: 1e-8,
		MinimumFFTSize:    32,
		MaximumFFTSize:    4096,
		ShootAccuracy:     1e-5,
	}
}
