package image

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quenby/go-skylight/pkg/core"
)

func mustNew[T Element](t *testing.T, b core.Bounds) *Image[T] {
	t.Helper()
	im, err := New[T](b)
	require.NoError(t, err)
	return im
}

// pixels flattens an image to a row-major slice for comparison.
func pixels[T Element](im *Image[T]) []T {
	b := im.Bounds()
	out := make([]T, 0, b.Area())
	for y := b.YMin; y <= b.YMax; y++ {
		for x := b.XMin; x <= b.XMax; x++ {
			out = append(out, im.At(x, y))
		}
	}
	return out
}

func TestImageSetGet(t *testing.T) {
	t.Parallel()
	im := mustNew[float64](t, core.Bounds{XMin: -2, XMax: 2, YMin: -1, YMax: 3})
	im.Set(-2, -1, 7)
	im.Set(2, 3, -1)
	assert.Equal(t, 7.0, im.At(-2, -1))
	assert.Equal(t, -1.0, im.At(2, 3))
	assert.Equal(t, 0.0, im.At(0, 0))

	assert.Panics(t, func() { im.At(3, 0) })
	_, err := im.AtChecked(3, 0)
	var cfgErr *core.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)

	_, err = New[float64](core.Bounds{XMin: 1, XMax: 0, YMin: 0, YMax: 0})
	require.ErrorAs(t, err, &cfgErr)
}

func TestFromSlice(t *testing.T) {
	t.Parallel()
	data := []float64{1, 2, 3, 4, 5, 6}
	im, err := FromSlice(data, core.Bounds{XMin: 0, XMax: 2, YMin: 0, YMax: 1})
	require.NoError(t, err)

	assert.Equal(t, 1.0, im.At(0, 0))
	assert.Equal(t, 6.0, im.At(2, 1))

	// Storage is shared with the caller's slice, both directions.
	im.Set(1, 0, 20)
	assert.Equal(t, 20.0, data[1])
	data[3] = -4
	assert.Equal(t, -4.0, im.At(0, 1))

	var cfgErr *core.ConfigurationError
	_, err = FromSlice(data, core.Bounds{XMin: 0, XMax: 1, YMin: 0, YMax: 1})
	require.ErrorAs(t, err, &cfgErr)
}

func TestTranslateViewRoundTrip(t *testing.T) {
	t.Parallel()
	im := mustNew[float64](t, core.NewBoundsCentered(8))
	b := im.Bounds()
	for y := b.YMin; y <= b.YMax; y++ {
		for x := b.XMin; x <= b.XMax; x++ {
			im.Set(x, y, float64(10*x+y))
		}
	}

	view := im.Translate(3, -2)
	for y := b.YMin; y <= b.YMax; y++ {
		for x := b.XMin; x <= b.XMax; x++ {
			assert.Equal(t, im.At(x, y), view.At(x+3, y-2))
		}
	}

	// Writes through the view land in the shared storage.
	view.Set(3, -2, 99)
	assert.Equal(t, 99.0, im.At(0, 0))
}

func TestSubImageSharesStorage(t *testing.T) {
	t.Parallel()
	im := mustNew[int32](t, core.NewBoundsCentered(6))
	sub, err := im.SubImage(core.Bounds{XMin: -1, XMax: 1, YMin: -1, YMax: 1})
	require.NoError(t, err)

	sub.Set(0, 0, 42)
	assert.Equal(t, int32(42), im.At(0, 0))

	im.Set(1, 1, 7)
	assert.Equal(t, int32(7), sub.At(1, 1))

	// Clone detaches.
	clone := sub.Clone()
	clone.Set(0, 0, -1)
	assert.Equal(t, int32(42), im.At(0, 0))

	_, err = im.SubImage(core.NewBoundsCentered(20))
	var cfgErr *core.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestArithmeticRoundTripInt(t *testing.T) {
	t.Parallel()
	a := mustNew[int32](t, core.NewBoundsCentered(5))
	b := mustNew[int32](t, core.NewBoundsCentered(5))
	bb := a.Bounds()
	v := int32(1)
	for y := bb.YMin; y <= bb.YMax; y++ {
		for x := bb.XMin; x <= bb.XMax; x++ {
			a.Set(x, y, v)
			b.Set(x, y, 3*v-7)
			v++
		}
	}

	sum, err := a.Add(b)
	require.NoError(t, err)
	back, err := sum.Sub(b)
	require.NoError(t, err)

	// (A + B) - B recovers A exactly for integer pixels.
	assert.Empty(t, cmp.Diff(pixels(a), pixels(back)))
}

func TestArithmeticRoundTripFloat(t *testing.T) {
	t.Parallel()
	a := mustNew[float64](t, core.NewBoundsCentered(4))
	b := mustNew[float64](t, core.NewBoundsCentered(4))
	bb := a.Bounds()
	for y := bb.YMin; y <= bb.YMax; y++ {
		for x := bb.XMin; x <= bb.XMax; x++ {
			a.Set(x, y, 0.1*float64(x)+0.01*float64(y))
			b.Set(x, y, 123.456)
		}
	}
	sum, err := a.Add(b)
	require.NoError(t, err)
	require.NoError(t, sum.SubAssign(b))
	pa, pb := pixels(a), pixels(sum)
	for i := range pa {
		assert.InDelta(t, pa[i], pb[i], 1e-12)
	}
}

func TestArithmeticScalarAndErrors(t *testing.T) {
	t.Parallel()
	a := mustNew[float64](t, core.NewBoundsCentered(3))
	a.Fill(2)
	a.MulScalarAssign(3)
	assert.Equal(t, 6.0, a.At(0, 0))
	a.AddScalarAssign(-1)
	assert.Equal(t, 5.0, a.At(0, 0))
	assert.InDelta(t, 45.0, a.Sum(), 1e-12)

	prod := a.MulScalar(2)
	assert.Equal(t, 10.0, prod.At(0, 0))
	assert.Equal(t, 5.0, a.At(0, 0))

	small := mustNew[float64](t, core.NewBoundsCentered(2))
	_, err := a.Add(small)
	var cfgErr *core.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)

	bad := mustNew[int32](t, core.NewBoundsCentered(2))
	require.ErrorAs(t, bad.DivScalarAssign(0), &cfgErr)
}

func TestArithmeticIntegerDivisionByZero(t *testing.T) {
	t.Parallel()
	a := mustNew[int32](t, core.NewBoundsCentered(3))
	a.Fill(6)
	b := mustNew[int32](t, core.NewBoundsCentered(3))
	b.Fill(2)
	b.Set(0, 0, 0)

	// One zero divisor pixel rejects the whole integer operation, in
	// both the allocating and in-place forms, leaving the receiver
	// untouched.
	var cfgErr *core.ConfigurationError
	_, err := a.Div(b)
	require.ErrorAs(t, err, &cfgErr)
	require.ErrorAs(t, a.DivAssign(b), &cfgErr)
	assert.Equal(t, int32(6), a.At(1, 1))

	b.Set(0, 0, 3)
	q, err := a.Div(b)
	require.NoError(t, err)
	assert.Equal(t, int32(2), q.At(0, 0))
	assert.Equal(t, int32(3), q.At(1, 1))

	// Floating images follow IEEE instead.
	fa := mustNew[float64](t, core.NewBoundsCentered(2))
	fa.Fill(1)
	fb := mustNew[float64](t, core.NewBoundsCentered(2))
	fq, err := fa.Div(fb)
	require.NoError(t, err)
	assert.True(t, math.IsInf(fq.At(0, 0), 1))
}

// A translated view combines with an equal-shape image even though the
// coordinate windows differ; pairing is by position within the window.
func TestArithmeticOnViews(t *testing.T) {
	t.Parallel()
	a := mustNew[float64](t, core.NewBoundsCentered(4))
	a.Fill(1)
	view := a.Translate(10, 10)
	other := mustNew[float64](t, core.NewBoundsCentered(4))
	other.Fill(2)

	require.NoError(t, view.AddAssign(other))
	assert.Equal(t, 3.0, a.At(0, 0))
}
