package renderer

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/quenby/go-skylight/pkg/core"
	"github.com/quenby/go-skylight/pkg/image"
	"github.com/quenby/go-skylight/pkg/profile"
)

// maxPhotonChunk bounds the photons generated per batch so large budgets
// stream through fixed-size PhotonArrays.
const maxPhotonChunk = 65_536

// renderPhotons draws the photon budget in chunks and bins each photon
// into the pixel containing its position. Chunks may be generated in
// parallel (independent per-chunk deviate streams derived from the seed),
// but accumulation into the image is serial and in chunk order, so a
// fixed seed reproduces the image bit for bit regardless of scheduling.
func renderPhotons(p profile.Profile, pixelScale float64, opts Options) (*image.Image[float64], error) {
	n := opts.NPhotons
	if n == 0 {
		n = DefaultNPhotons
	}
	if n < 0 {
		return nil, core.Configf("renderer: photon count must be positive, got %d", n)
	}
	size, err := stampSize(p, pixelScale)
	if err != nil {
		return nil, err
	}
	opts.recordGrid(size)
	out, err := image.New[float64](core.NewBoundsCentered(size))
	if err != nil {
		return nil, err
	}

	nChunks := (n + maxPhotonChunk - 1) / maxPhotonChunk
	chunks := make([]*core.PhotonArray, nChunks)
	chunkLen := func(i int) int {
		if i == nChunks-1 {
			return n - i*maxPhotonChunk
		}
		return maxPhotonChunk
	}

	if opts.Deviate != nil {
		// Caller-supplied stream: consume it serially so the draw order
		// is well defined.
		for i := 0; i < nChunks; i++ {
			pa, err := p.Shoot(chunkLen(i), opts.Deviate)
			if err != nil {
				return nil, err
			}
			chunks[i] = pa
		}
	} else {
		var g errgroup.Group
		g.SetLimit(runtime.NumCPU())
		for i := 0; i < nChunks; i++ {
			g.Go(func() error {
				ud := core.NewUniformDeviate(opts.Seed + int64(i)*0x9E3779B9)
				pa, err := p.Shoot(chunkLen(i), ud)
				if err != nil {
					return err
				}
				chunks[i] = pa
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	total := 0.0
	kept := 0.0
	b := out.Bounds()
	for _, pa := range chunks {
		for i := range pa.X {
			total += pa.Flux[i]
			// Nearest-pixel binning; the sub-pixel offset is carried in
			// the position, not rounded away before this point.
			ix := int(math.Round(pa.X[i] / pixelScale))
			iy := int(math.Round(pa.Y[i] / pixelScale))
			if b.Contains(ix, iy) {
				out.Set(ix, iy, out.At(ix, iy)+pa.Flux[i])
				kept += pa.Flux[i]
			}
		}
	}
	opts.recordPhotons(n, nChunks, total, kept)
	opts.logf("renderer: photons n=%d chunks=%d shot flux=%.6g binned flux=%.6g",
		n, nChunks, total, kept)
	return out, nil
}
