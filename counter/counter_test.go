package counter

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/multiproc/errors"
	"github.com/viant/multiproc/shm"
)

func newRegion(t *testing.T) (*shm.Region, *shm.Region) {
	ctx := context.Background()
	region, err := shm.Create(ctx, shm.WithDir(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = region.Destroy(ctx) })
	peer, err := shm.Open(ctx, region.Path())
	require.NoError(t, err)
	t.Cleanup(func() { _ = peer.Close() })
	return region, peer
}

func TestCounter_ConcurrentIncrements(t *testing.T) {
	region, peer := newRegion(t)
	counters := []*Counter{New(region), New(peer)}

	const workers, rounds = 6, 500
	deltas := make([][]int32, workers)
	var expect int32
	for i := range deltas {
		deltas[i] = make([]int32, rounds)
		for j := range deltas[i] {
			deltas[i][j] = int32(rand.Intn(21) - 10)
			expect += deltas[i][j]
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(c *Counter, ds []int32) {
			defer wg.Done()
			for _, d := range ds {
				assert.NoError(t, c.Increment(d))
			}
		}(counters[i%2], deltas[i])
	}
	wg.Wait()

	for _, c := range counters {
		v, err := c.Value()
		require.NoError(t, err)
		assert.Equal(t, expect, v)
	}
}

func TestCounter_ResetThenRead(t *testing.T) {
	region, peer := newRegion(t)
	c := New(region)
	require.NoError(t, c.Increment(17))
	require.NoError(t, New(peer).Reset())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		reader := c
		if i%2 == 1 {
			reader = New(peer)
		}
		go func() {
			defer wg.Done()
			v, err := reader.Value()
			assert.NoError(t, err)
			assert.EqualValues(t, 0, v)
		}()
	}
	wg.Wait()
}

func TestCounter_Operations(t *testing.T) {
	region, peer := newRegion(t)
	a, b := New(region), New(peer)

	var testCases = []struct {
		description string
		apply       func() error
		expect      int32
	}{
		{description: "increment from a", apply: func() error { return a.Increment(1) }, expect: 1},
		{description: "increment from b", apply: func() error { return b.Increment(1) }, expect: 2},
		{description: "decrement", apply: func() error { return a.Decrement(1) }, expect: 1},
		{description: "reset", apply: func() error { return b.Reset() }, expect: 0},
		{description: "negative", apply: func() error { return b.Decrement(5) }, expect: -5},
	}
	for _, testCase := range testCases {
		require.NoError(t, testCase.apply(), testCase.description)
		v, err := a.Value()
		require.NoError(t, err)
		assert.Equal(t, testCase.expect, v, testCase.description)
	}
}

func TestCounter_Wraps(t *testing.T) {
	region, _ := newRegion(t)
	c := New(region)
	require.NoError(t, c.Increment(math.MaxInt32))
	require.NoError(t, c.Increment(1))
	v, err := c.Value()
	require.NoError(t, err)
	assert.EqualValues(t, math.MinInt32, v)
}

func TestCounter_Unavailable(t *testing.T) {
	region, peer := newRegion(t)
	c := New(peer)
	require.NoError(t, peer.Close())
	assert.True(t, errors.Is(c.Increment(1), errors.ErrSharedResourceUnavailable))
	_, err := c.Value()
	assert.True(t, errors.Is(err, errors.ErrSharedResourceUnavailable))

	require.NoError(t, region.Destroy(context.Background()))
	assert.True(t, errors.Is(New(region).Reset(), errors.ErrSharedResourceUnavailable))
}
