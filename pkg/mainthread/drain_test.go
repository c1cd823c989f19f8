package mainthread

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrain_ReusesQueueBuffers(t *testing.T) {
	t.Parallel()

	l := New(WithCapacity(8))
	var runs int

	for range 3 {
		for range 5 {
			require.NoError(t, l.Post(func() { runs++ }))
		}
		l.drain()

		assert.Zero(t, l.Pending())
		assert.GreaterOrEqual(t, cap(l.pending), 8)
		assert.GreaterOrEqual(t, cap(l.spare), 8)
	}
	assert.Equal(t, 15, runs)
}

func TestDrain_RunsWorkPostedDuringBatch(t *testing.T) {
	t.Parallel()

	l := New(WithCapacity(2))
	var order []int
	require.NoError(t, l.Post(func() {
		order = append(order, 1)
		_ = l.Post(func() { order = append(order, 3) })
	}))
	require.NoError(t, l.Post(func() { order = append(order, 2) }))

	l.drain()
	assert.Equal(t, []int{1, 2, 3}, order)

	require.NoError(t, l.Close())
	require.NoError(t, l.Run(context.Background()))
}
