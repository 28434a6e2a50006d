// Package renderer turns profiles into pixel images, either by inverse
// FFT of the profile's Fourier transform or by Monte-Carlo photon
// shooting. Rendering distinct images is embarrassingly parallel; the
// only state shared between renders is the profile Info cache.
package renderer

import (
	"math"

	"github.com/quenby/go-skylight/pkg/core"
	"github.com/quenby/go-skylight/pkg/image"
	"github.com/quenby/go-skylight/pkg/profile"
)

// Method selects the render strategy.
type Method int

const (
	// MethodFFT evaluates the profile on a Fourier grid and inverse
	// transforms it.
	MethodFFT Method = iota
	// MethodPhoton shoots weighted photons and bins them into pixels.
	MethodPhoton
)

// DefaultNPhotons is the photon count used when Options.NPhotons is zero.
const DefaultNPhotons = 100_000

// Options configures a render call. The zero value renders via FFT.
type Options struct {
	Method Method

	// NPhotons is the photon budget for MethodPhoton.
	NPhotons int

	// Deviate, when set, supplies the random stream for photon shooting
	// and forces serial chunk generation so the stream is consumed in a
	// reproducible order. When nil, Seed derives independent per-chunk
	// streams that may be generated in parallel.
	Deviate core.UniformDeviate
	Seed    int64

	// Logger receives diagnostics; nil disables them.
	Logger core.Logger

	// Stats, when non-nil, is filled with the render's statistics.
	Stats *RenderStats
}

func (o Options) logf(format string, args ...interface{}) {
	if o.Logger != nil {
		o.Logger.Printf(format, args...)
	}
}

// Render draws the profile into a new float64 image at the given pixel
// scale. The image bounds are centered on the origin; each pixel holds
// the flux falling in it (density times pixel area), so the pixel sum
// approaches the profile flux as the tolerances tighten.
func Render(p profile.Profile, pixelScale float64, opts Options) (*image.Image[float64], error) {
	if pixelScale <= 0 {
		return nil, core.Configf("renderer: pixel scale must be positive, got %g", pixelScale)
	}
	switch opts.Method {
	case MethodFFT:
		return renderFFT(p, pixelScale, opts)
	case MethodPhoton:
		return renderPhotons(p, pixelScale, opts)
	default:
		return nil, core.Configf("renderer: unknown method %d", opts.Method)
	}
}

// stampSize chooses the grid dimension implied by the profile's stepK at
// the given pixel scale, rounded up to an FFT-friendly size and clamped
// below by the configured minimum. Exceeding the configured maximum is an
// AccuracyError: the caller must relax tolerances, never the renderer.
func stampSize(p profile.Profile, pixelScale float64) (int, error) {
	gsp := p.Params()
	n := gsp.MinimumFFTSize
	if stepk := p.StepK(); stepk < profile.MockInf/2 {
		want := int(math.Ceil(2 * math.Pi / (stepk * pixelScale)))
		if want > n {
			n = want
		}
	}
	n = goodFFTSize(n)
	if n > gsp.MaximumFFTSize {
		return 0, &core.AccuracyError{
			Msg:       "profile requires a larger grid than MaximumFFTSize permits",
			Requested: n,
			Available: gsp.MaximumFFTSize,
		}
	}
	return n, nil
}

// goodFFTSize returns the smallest size >= n of the form 2^a * 3^b, the
// shapes the FFT handles efficiently.
func goodFFTSize(n int) int {
	if n <= 2 {
		return 2
	}
	best := 1
	for best < n {
		best <<= 1
	}
	for p3 := 1; p3 < best; p3 *= 3 {
		p := p3
		for p < n {
			p <<= 1
		}
		if p >= n && p < best {
			best = p
		}
	}
	return best
}
