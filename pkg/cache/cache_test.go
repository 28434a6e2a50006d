package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	id int
}

func TestGetOrBuildIdentity(t *testing.T) {
	t.Parallel()
	c := New[string, payload](4)

	builds := 0
	builder := func() (*payload, error) {
		builds++
		return &payload{id: builds}, nil
	}

	first, err := c.GetOrBuild("k", builder)
	require.NoError(t, err)
	second, err := c.GetOrBuild("k", builder)
	require.NoError(t, err)

	// The same key returns the identical shared object, not a rebuild.
	assert.Same(t, first, second)
	assert.Equal(t, 1, builds)
}

func TestEvictionIsLRU(t *testing.T) {
	t.Parallel()
	c := New[int, payload](2)

	build := func(id int) func() (*payload, error) {
		return func() (*payload, error) { return &payload{id: id}, nil }
	}

	v1, err := c.GetOrBuild(1, build(1))
	require.NoError(t, err)
	_, err = c.GetOrBuild(2, build(2))
	require.NoError(t, err)

	// Touch key 1 so key 2 becomes least recently used.
	_, err = c.GetOrBuild(1, build(1))
	require.NoError(t, err)

	_, err = c.GetOrBuild(3, build(3))
	require.NoError(t, err)

	assert.True(t, c.Contains(1))
	assert.False(t, c.Contains(2))
	assert.True(t, c.Contains(3))
	assert.Equal(t, 2, c.Len())

	// The evicted object stays alive for existing holders; the next
	// request for its key triggers a fresh build.
	rebuilds := 0
	v2again, err := c.GetOrBuild(2, func() (*payload, error) {
		rebuilds++
		return &payload{id: 22}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, rebuilds)
	assert.Equal(t, 22, v2again.id)
	assert.Equal(t, 1, v1.id)
}

func TestSingleBuildUnderConcurrency(t *testing.T) {
	t.Parallel()
	c := New[string, payload](4)

	var builds int32
	const goroutines = 32

	results := make([]*payload, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.GetOrBuild("shared", func() (*payload, error) {
				atomic.AddInt32(&builds, 1)
				time.Sleep(20 * time.Millisecond) // widen the race window
				return &payload{id: 7}, nil
			})
			assert.NoError(t, err)
			results[i] = v
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&builds))
	for i := 1; i < goroutines; i++ {
		assert.Same(t, results[0], results[i])
	}
}

func TestBuilderErrorsAreNotCached(t *testing.T) {
	t.Parallel()
	c := New[string, payload](4)

	boom := errors.New("boom")
	attempts := 0
	failing := func() (*payload, error) {
		attempts++
		if attempts == 1 {
			return nil, boom
		}
		return &payload{id: attempts}, nil
	}

	_, err := c.GetOrBuild("k", failing)
	require.ErrorIs(t, err, boom)
	assert.False(t, c.Contains("k"))

	// The same key re-attempts the build instead of replaying the error.
	v, err := c.GetOrBuild("k", failing)
	require.NoError(t, err)
	assert.Equal(t, 2, v.id)
}

func TestDefaultCapacity(t *testing.T) {
	t.Parallel()
	c := New[int, payload](0)
	for i := 0; i < DefaultCapacity+3; i++ {
		_, err := c.GetOrBuild(i, func() (*payload, error) { return &payload{id: i}, nil })
		require.NoError(t, err)
	}
	assert.Equal(t, DefaultCapacity, c.Len())
}
