package renderer

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/quenby/go-skylight/pkg/core"
	"github.com/quenby/go-skylight/pkg/image"
	"github.com/quenby/go-skylight/pkg/profile"
)

// renderFFT evaluates KValue on an n x n wrapped-frequency grid and
// inverse transforms it. With the forward convention
// KValue(k) = integral I(x) exp(-i k.x), the density is
//
//	I(x) = (1/(2 pi)^2) * sum_k KValue(k) exp(+i k.x) dk^2
//
// which is exactly an unnormalized inverse DFT once the grid is wrapped
// and the (-1)^(i+j) phase recenters the origin to the stamp center.
func renderFFT(p profile.Profile, pixelScale float64, opts Options) (*image.Image[float64], error) {
	if !p.IsAnalyticK() {
		return nil, &core.UnsupportedError{Op: "FFT rendering", Profile: p.String()}
	}
	n, err := stampSize(p, pixelScale)
	if err != nil {
		return nil, err
	}
	opts.recordGrid(n)
	dk := 2 * math.Pi / (float64(n) * pixelScale)

	// The grid's Nyquist wavenumber is pi/pixelScale; content beyond it
	// folds back. stepK already bounds the folding flux, but a pixel
	// scale too coarse for the profile's maxK is worth flagging.
	if nyq := math.Pi / pixelScale; p.MaxK() > nyq && p.MaxK() < profile.MockInf/2 {
		opts.logf("renderer: pixel scale %g undersamples profile (maxK %.3g > Nyquist %.3g)",
			pixelScale, p.MaxK(), nyq)
	}

	grid := make([]complex128, n*n)
	for j := 0; j < n; j++ {
		ky := dk * float64(wrapIndex(j, n))
		for i := 0; i < n; i++ {
			kx := dk * float64(wrapIndex(i, n))
			v, err := p.KValue(core.Position{X: kx, Y: ky})
			if err != nil {
				return nil, err
			}
			if (i+j)&1 == 1 {
				v = -v
			}
			grid[j*n+i] = v
		}
	}

	inverse2D(grid, n)

	out, err := image.New[float64](core.NewBoundsCentered(n))
	if err != nil {
		return nil, err
	}
	// dk^2/(2 pi)^2 converts the DFT sum to the inverse-transform
	// integral; pixelScale^2 converts density to per-pixel flux.
	norm := dk * dk / (4 * math.Pi * math.Pi) * pixelScale * pixelScale
	b := out.Bounds()
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			out.Set(b.XMin+i, b.YMin+j, real(grid[j*n+i])*norm)
		}
	}
	opts.logf("renderer: fft %dx%d dk=%.4g flux=%.6g", n, n, dk, out.Sum())
	return out, nil
}

// wrapIndex maps a DFT index to its signed frequency index.
func wrapIndex(i, n int) int {
	if i <= n/2 {
		return i
	}
	return i - n
}

// inverse2D applies the unnormalized inverse DFT along rows then columns
// of an n x n grid stored row-major.
func inverse2D(grid []complex128, n int) {
	fft := fourier.NewCmplxFFT(n)

	tmp := make([]complex128, n)
	for j := 0; j < n; j++ {
		row := grid[j*n : (j+1)*n]
		copy(tmp, row)
		fft.Sequence(row, tmp)
	}

	col := make([]complex128, n)
	out := make([]complex128, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			col[j] = grid[j*n+i]
		}
		fft.Sequence(out, col)
		for j := 0; j < n; j++ {
			grid[j*n+i] = out[j]
		}
	}
}
