package profile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/integrate/quad"

	"github.com/quenby/go-skylight/pkg/core"
)

// radialFluxIntegral integrates 2*pi*r*XValue(r) out to rmax.
func radialFluxIntegral(t *testing.T, p Profile, rmax float64) float64 {
	t.Helper()
	return quad.Fixed(func(r float64) float64 {
		v, err := p.XValue(core.Position{X: r})
		require.NoError(t, err)
		return 2 * math.Pi * r * v
	}, 0, rmax, 512, nil, 0)
}

func TestGaussianBasics(t *testing.T) {
	t.Parallel()
	gsp := core.DefaultGSParams()
	g, err := NewGaussian(1.5, 2.0, gsp)
	require.NoError(t, err)

	assert.Equal(t, 2.0, g.Flux())
	assert.Equal(t, core.Position{}, g.Centroid())
	assert.True(t, g.IsAxisymmetric())
	assert.False(t, g.HasHardEdges())
	assert.True(t, g.IsAnalyticX())
	assert.True(t, g.IsAnalyticK())
	assert.Equal(t, "Gaussian(sigma=1.5, flux=2)", g.String())

	_, err = NewGaussian(0, 1, gsp)
	var cfgErr *core.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestGaussianValues(t *testing.T) {
	t.Parallel()
	gsp := core.DefaultGSParams()
	g, err := NewGaussian(2.0, 3.0, gsp)
	require.NoError(t, err)

	// Peak density and a known off-center value.
	v, err := g.XValue(core.Position{})
	require.NoError(t, err)
	assert.InDelta(t, 3.0/(2*math.Pi*4), v, 1e-12)

	v, err = g.XValue(core.Position{X: 2})
	require.NoError(t, err)
	assert.InDelta(t, 3.0/(2*math.Pi*4)*math.Exp(-0.5), v, 1e-12)

	// KValue at the origin is the flux, for any profile.
	kv, err := g.KValue(core.Position{})
	require.NoError(t, err)
	assert.Equal(t, complex(3.0, 0), kv)

	// The real-space integral over the effective support recovers the
	// flux within the folding threshold.
	total := radialFluxIntegral(t, g, math.Pi/g.StepK())
	assert.InDelta(t, 3.0, total, 3.0*gsp.FoldingThreshold*1.05)
}

func TestGaussianBandlimits(t *testing.T) {
	t.Parallel()
	gsp := core.DefaultGSParams()
	g, err := NewGaussian(1.0, 1.0, gsp)
	require.NoError(t, err)

	// |KValue(maxK)| sits exactly at the threshold.
	kv, err := g.KValue(core.Position{X: g.MaxK()})
	require.NoError(t, err)
	assert.InDelta(t, gsp.MaxKThreshold, real(kv), 1e-9)

	// Flux outside radius pi/stepK is exactly the folding threshold.
	r := math.Pi / g.StepK()
	outside := math.Exp(-r * r / 2)
	assert.InDelta(t, gsp.FoldingThreshold, outside, 1e-9)
}

func TestGaussianShootConvergence(t *testing.T) {
	t.Parallel()
	g, err := NewGaussian(1.0, 5.0, core.DefaultGSParams())
	require.NoError(t, err)

	const n = 1_000_000
	pa, err := g.Shoot(n, core.NewUniformDeviate(7))
	require.NoError(t, err)

	// Every photon carries flux/n, so the total is exact.
	assert.InDelta(t, 5.0, pa.TotalFlux(), 1e-8)

	// The centroid converges at the 1/sqrt(n) rate; 5 sigma margin.
	tol := 5.0 / math.Sqrt(n)
	assert.InDelta(t, 0, pa.CentroidX(), tol)
	assert.InDelta(t, 0, pa.CentroidY(), tol)

	// Second moment of a circular Gaussian is sigma^2 per axis.
	var sxx float64
	for i := range pa.X {
		sxx += pa.X[i] * pa.X[i] * pa.Flux[i]
	}
	sxx /= pa.TotalFlux()
	assert.InDelta(t, 1.0, sxx, 0.01)

	_, err = g.Shoot(0, core.NewUniformDeviate(7))
	var cfgErr *core.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}
