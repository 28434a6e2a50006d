package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quenby/go-skylight/pkg/core"
	"github.com/quenby/go-skylight/pkg/profile"
)

func TestGoodFFTSize(t *testing.T) {
	t.Parallel()
	cases := map[int]int{
		1:    2,
		2:    2,
		3:    3,
		5:    6,
		17:   18,
		33:   36,
		65:   72,
		97:   108,
		129:  144,
		257:  288,
		1025: 1152,
	}
	for in, want := range cases {
		assert.Equal(t, want, goodFFTSize(in), "goodFFTSize(%d)", in)
	}
}

func TestStampSize(t *testing.T) {
	t.Parallel()
	gsp := core.DefaultGSParams()
	g, err := profile.NewGaussian(1.0, 1.0, gsp)
	require.NoError(t, err)

	// A tight pixel scale needs a grid well past the minimum.
	n, err := stampSize(g, 0.05)
	require.NoError(t, err)
	assert.Greater(t, n, gsp.MinimumFFTSize)

	// A loose one clamps to the configured minimum.
	n, err = stampSize(g, 10)
	require.NoError(t, err)
	assert.Equal(t, gsp.MinimumFFTSize, n)

	// A delta has no finite support; the minimum grid suffices.
	d := profile.NewDeltaFunction(1.0, gsp)
	n, err = stampSize(d, 0.1)
	require.NoError(t, err)
	assert.Equal(t, gsp.MinimumFFTSize, n)
}

func TestStampSizeAccuracyError(t *testing.T) {
	t.Parallel()
	gsp := core.DefaultGSParams()
	g, err := profile.NewGaussian(1.0, 1.0, gsp)
	require.NoError(t, err)

	_, err = stampSize(g, 1e-4)
	var accErr *core.AccuracyError
	require.ErrorAs(t, err, &accErr)
	assert.Greater(t, accErr.Requested, accErr.Available)
	assert.Equal(t, gsp.MaximumFFTSize, accErr.Available)

	// Render surfaces the same error for both methods.
	_, err = Render(g, 1e-4, Options{Method: MethodFFT})
	require.ErrorAs(t, err, &accErr)
	_, err = Render(g, 1e-4, Options{Method: MethodPhoton})
	require.ErrorAs(t, err, &accErr)
}

func TestRenderArgumentErrors(t *testing.T) {
	t.Parallel()
	g, err := profile.NewGaussian(1.0, 1.0, core.DefaultGSParams())
	require.NoError(t, err)

	var cfgErr *core.ConfigurationError
	_, err = Render(g, 0, Options{})
	require.ErrorAs(t, err, &cfgErr)
	_, err = Render(g, -1, Options{})
	require.ErrorAs(t, err, &cfgErr)
	_, err = Render(g, 0.1, Options{Method: Method(99)})
	require.ErrorAs(t, err, &cfgErr)
	_, err = Render(g, 0.1, Options{Method: MethodPhoton, NPhotons: -5})
	require.ErrorAs(t, err, &cfgErr)
}

func TestRenderStats(t *testing.T) {
	t.Parallel()
	g, err := profile.NewGaussian(1.0, 2.0, core.DefaultGSParams())
	require.NoError(t, err)

	var stats RenderStats
	img, err := Render(g, 0.2, Options{
		Method:   MethodPhoton,
		NPhotons: 150_000,
		Seed:     3,
		Stats:    &stats,
	})
	require.NoError(t, err)

	assert.Equal(t, img.Bounds().NumCols(), stats.GridSize)
	assert.Equal(t, 150_000, stats.PhotonsShot)
	assert.Equal(t, 3, stats.Chunks)
	assert.InDelta(t, 2.0, stats.FluxShot, 1e-8)
	assert.InDelta(t, stats.FluxBinned, img.Sum(), 1e-9)
	assert.LessOrEqual(t, stats.FluxBinned, stats.FluxShot)

	// FFT fills only the grid size.
	stats = RenderStats{}
	_, err = Render(g, 0.2, Options{Method: MethodFFT, Stats: &stats})
	require.NoError(t, err)
	assert.Greater(t, stats.GridSize, 0)
	assert.Zero(t, stats.PhotonsShot)
}
