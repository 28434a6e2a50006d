package core

import "math/rand"

// UniformDeviate is a stream of uniform random numbers in [0, 1).
// *math/rand.Rand satisfies it directly; tests can substitute fixed
// sequences. All stochastic operations take the deviate explicitly so a
// fixed seed reproduces an identical result.
type UniformDeviate interface {
	Float64() float64
}

// NewUniformDeviate returns a seeded deviate stream backed by math/rand.
func NewUniformDeviate(seed int64) UniformDeviate {
	return rand.New(rand.NewSource(seed))
}
