package image

import (
	"reflect"

	"github.com/quenby/go-skylight/pkg/core"
)

// Elementwise arithmetic. Each operation comes in an in-place form
// (...Assign, mutating the receiver) and an allocating form returning a
// fresh compact image. Image-image forms pair pixels by position within
// the bounds window, so shapes must match but the windows themselves may
// differ; that lets a translated view combine with its original.

// AddScalarAssign adds v to every pixel in place.
func (im *Image[T]) AddScalarAssign(v T) {
	im.eachIndex(func(i int) { im.data[i] += v })
}

// SubScalarAssign subtracts v from every pixel in place.
func (im *Image[T]) SubScalarAssign(v T) {
	im.eachIndex(func(i int) { im.data[i] -= v })
}

// MulScalarAssign multiplies every pixel by v in place.
func (im *Image[T]) MulScalarAssign(v T) {
	im.eachIndex(func(i int) { im.data[i] *= v })
}

// DivScalarAssign divides every pixel by v in place. Division by zero is a
// ConfigurationError for integer elements; floating elements follow IEEE.
func (im *Image[T]) DivScalarAssign(v T) error {
	var zero T
	if v == zero && reflect.TypeOf(zero).Kind() == reflect.Int32 {
		return core.Configf("image: integer division by zero")
	}
	im.eachIndex(func(i int) { im.data[i] /= v })
	return nil
}

// AddScalar returns a new image with v added to every pixel.
func (im *Image[T]) AddScalar(v T) *Image[T] {
	out := im.Clone()
	out.AddScalarAssign(v)
	return out
}

// SubScalar returns a new image with v subtracted from every pixel.
func (im *Image[T]) SubScalar(v T) *Image[T] {
	out := im.Clone()
	out.SubScalarAssign(v)
	return out
}

// MulScalar returns a new image with every pixel multiplied by v.
func (im *Image[T]) MulScalar(v T) *Image[T] {
	out := im.Clone()
	out.MulScalarAssign(v)
	return out
}

// combineAssign applies op pairwise, walking both windows in row order.
func (im *Image[T]) combineAssign(other *Image[T], op func(a, b T) T) error {
	if !im.sameShape(other) {
		return core.Configf("image: shape mismatch %+v vs %+v", im.bounds, other.bounds)
	}
	ncols := im.bounds.NumCols()
	for r := 0; r < im.bounds.NumRows(); r++ {
		dst := im.offset + r*im.stride
		src := other.offset + r*other.stride
		for c := 0; c < ncols; c++ {
			im.data[dst+c] = op(im.data[dst+c], other.data[src+c])
		}
	}
	return nil
}

// AddAssign adds other into the receiver pixelwise.
func (im *Image[T]) AddAssign(other *Image[T]) error {
	return im.combineAssign(other, func(a, b T) T { return a + b })
}

// SubAssign subtracts other from the receiver pixelwise.
func (im *Image[T]) SubAssign(other *Image[T]) error {
	return im.combineAssign(other, func(a, b T) T { return a - b })
}

// MulAssign multiplies the receiver by other pixelwise.
func (im *Image[T]) MulAssign(other *Image[T]) error {
	return im.combineAssign(other, func(a, b T) T { return a * b })
}

// DivAssign divides the receiver by other pixelwise. A zero divisor
// pixel is a ConfigurationError for integer elements; floating elements
// follow IEEE.
func (im *Image[T]) DivAssign(other *Image[T]) error {
	var zero T
	if reflect.TypeOf(zero).Kind() == reflect.Int32 {
		zeroDivisor := false
		other.eachIndex(func(i int) {
			if other.data[i] == zero {
				zeroDivisor = true
			}
		})
		if zeroDivisor {
			return core.Configf("image: integer division by zero")
		}
	}
	return im.combineAssign(other, func(a, b T) T { return a / b })
}

// Add returns a new image holding the pixelwise sum.
func (im *Image[T]) Add(other *Image[T]) (*Image[T], error) {
	out := im.Clone()
	if err := out.AddAssign(other); err != nil {
		return nil, err
	}
	return out, nil
}

// Sub returns a new image holding the pixelwise difference.
func (im *Image[T]) Sub(other *Image[T]) (*Image[T], error) {
	out := im.Clone()
	if err := out.SubAssign(other); err != nil {
		return nil, err
	}
	return out, nil
}

// Mul returns a new image holding the pixelwise product.
func (im *Image[T]) Mul(other *Image[T]) (*Image[T], error) {
	out := im.Clone()
	if err := out.MulAssign(other); err != nil {
		return nil, err
	}
	return out, nil
}

// Div returns a new image holding the pixelwise quotient.
func (im *Image[T]) Div(other *Image[T]) (*Image[T], error) {
	out := im.Clone()
	if err := out.DivAssign(other); err != nil {
		return nil, err
	}
	return out, nil
}

// Sum returns the total of all pixel values as float64.
func (im *Image[T]) Sum() float64 {
	total := 0.0
	im.eachIndex(func(i int) { total += float64(im.data[i]) })
	return total
}
