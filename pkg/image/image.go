// Package image provides the 2D pixel container used by the render paths.
// An Image addresses its pixels through an integer-coordinate bounds
// window rather than zero-based indices, so a postage stamp centered on
// the origin has negative coordinates on its left and lower edges.
//
// Views share one backing allocation with their parent: a view is an
// Image value with its own bounds, offset and stride over the same pixel
// slice. Nobody "owns" the allocation; it lives as long as any Image or
// view referencing it, which is exactly the longest-holder lifetime the
// render pipeline needs.
package image

import (
	"github.com/quenby/go-skylight/pkg/core"
)

// Element constrains the pixel types an Image can hold.
type Element interface {
	~int32 | ~float32 | ~float64
}

// Image is a 2D pixel array over an integer-coordinate bounds window.
// The zero value is not usable; construct with New or FromSlice.
type Image[T Element] struct {
	data   []T
	bounds core.Bounds
	stride int
	// offset is the index in data of the pixel at (bounds.XMin, bounds.YMin).
	offset int
}

// New allocates a zero-filled image covering the given bounds.
func New[T Element](bounds core.Bounds) (*Image[T], error) {
	if !bounds.IsDefined() {
		return nil, core.Configf("image: undefined bounds %+v", bounds)
	}
	return &Image[T]{
		data:   make([]T, bounds.Area()),
		bounds: bounds,
		stride: bounds.NumCols(),
	}, nil
}

// FromSlice wraps existing pixel data in row-major bounds order. The
// slice length must equal bounds.Area(); the image shares storage with
// the slice rather than copying it.
func FromSlice[T Element](data []T, bounds core.Bounds) (*Image[T], error) {
	if !bounds.IsDefined() {
		return nil, core.Configf("image: undefined bounds %+v", bounds)
	}
	if len(data) != bounds.Area() {
		return nil, core.Configf("image: %d pixels for bounds %+v requiring %d",
			len(data), bounds, bounds.Area())
	}
	return &Image[T]{
		data:   data,
		bounds: bounds,
		stride: bounds.NumCols(),
	}, nil
}

// Bounds returns the image's coordinate window.
func (im *Image[T]) Bounds() core.Bounds { return im.bounds }

func (im *Image[T]) index(x, y int) int {
	return im.offset + (y-im.bounds.YMin)*im.stride + (x - im.bounds.XMin)
}

// At returns the pixel at world coordinate (x, y). Coordinates outside the
// bounds panic, like out-of-range slice indexing.
func (im *Image[T]) At(x, y int) T {
	if !im.bounds.Contains(x, y) {
		panic("image: coordinate out of bounds")
	}
	return im.data[im.index(x, y)]
}

// Set stores v at world coordinate (x, y).
func (im *Image[T]) Set(x, y int, v T) {
	if !im.bounds.Contains(x, y) {
		panic("image: coordinate out of bounds")
	}
	im.data[im.index(x, y)] = v
}

// AtChecked returns the pixel at (x, y), or a ConfigurationError when the
// coordinate lies outside the bounds.
func (im *Image[T]) AtChecked(x, y int) (T, error) {
	var zero T
	if !im.bounds.Contains(x, y) {
		return zero, core.Configf("image: (%d,%d) outside bounds %+v", x, y, im.bounds)
	}
	return im.data[im.index(x, y)], nil
}

// Fill sets every pixel to v.
func (im *Image[T]) Fill(v T) {
	im.eachIndex(func(i int) { im.data[i] = v })
}

// eachIndex visits the backing index of every pixel in bounds order,
// honoring the view stride.
func (im *Image[T]) eachIndex(f func(i int)) {
	for y := im.bounds.YMin; y <= im.bounds.YMax; y++ {
		row := im.offset + (y-im.bounds.YMin)*im.stride
		for x := 0; x < im.bounds.NumCols(); x++ {
			f(row + x)
		}
	}
}

// SubImage returns a view of the region b, which must lie inside the
// image's bounds. The view shares pixel storage with the receiver.
func (im *Image[T]) SubImage(b core.Bounds) (*Image[T], error) {
	if !im.bounds.ContainsBounds(b) {
		return nil, core.Configf("image: subimage bounds %+v not within %+v", b, im.bounds)
	}
	return &Image[T]{
		data:   im.data,
		bounds: b,
		stride: im.stride,
		offset: im.index(b.XMin, b.YMin),
	}, nil
}

// Translate returns a view over the same pixels with the coordinate window
// shifted by (dx, dy): the pixel previously addressed as (x, y) is read
// and written as (x+dx, y+dy) through the view.
func (im *Image[T]) Translate(dx, dy int) *Image[T] {
	out := *im
	out.bounds = im.bounds.Shift(dx, dy)
	return &out
}

// Clone returns a deep copy with freshly allocated, compact storage.
func (im *Image[T]) Clone() *Image[T] {
	out := &Image[T]{
		data:   make([]T, im.bounds.Area()),
		bounds: im.bounds,
		stride: im.bounds.NumCols(),
	}
	i := 0
	im.eachIndex(func(src int) {
		out.data[i] = im.data[src]
		i++
	})
	return out
}

// sameShape reports whether two images cover windows of equal size.
func (im *Image[T]) sameShape(other *Image[T]) bool {
	return im.bounds.NumCols() == other.bounds.NumCols() &&
		im.bounds.NumRows() == other.bounds.NumRows()
}
