package event_test

import (
	"context"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/eventcentral/core/event"
)

// listener is an owner object for SubscribeOwned. It holds a pointer so it is
// never placed in the tiny allocator, which would delay its collection.
type listener struct {
	hits *atomic.Int32
}

func (l *listener) onPing(_ context.Context, _ Ping) error {
	l.hits.Add(1)
	return nil
}

// subscribeEphemeral registers an owner that is unreachable once it returns.
func subscribeEphemeral(c *event.Central, hits *atomic.Int32) {
	owner := &listener{hits: hits}
	event.SubscribeOwned(c, owner, (*listener).onPing)
}

func TestLifetime(t *testing.T) {
	t.Parallel()

	var lt *event.Lifetime
	assert.True(t, lt.Alive())
	lt.End()

	lt = event.NewLifetime()
	assert.True(t, lt.Alive())
	lt.End()
	lt.End()
	assert.False(t, lt.Alive())
}

func TestLifetime_EndedSubscriptionSkippedAndSwept(t *testing.T) {
	t.Parallel()

	c := newCentral()
	lt := event.NewLifetime()

	var owned, other atomic.Int32
	event.Subscribe(c, func(context.Context, Ping) error { owned.Add(1); return nil }, event.WithLifetime(lt))
	event.Subscribe(c, func(context.Context, Ping) error { other.Add(1); return nil })

	require.NoError(t, event.Publish(context.Background(), c, Ping{}))
	assert.Equal(t, int32(1), owned.Load())

	lt.End()
	infos := c.Subscriptions("Ping")
	require.Len(t, infos, 2)
	assert.False(t, infos[0].Alive)
	assert.True(t, infos[1].Alive)

	// Expired but not yet swept.
	assert.Equal(t, 2, c.Subscribers("Ping"))

	require.NoError(t, event.Publish(context.Background(), c, Ping{}))
	assert.Equal(t, int32(1), owned.Load())
	assert.Equal(t, int32(2), other.Load())
	assert.Equal(t, 1, c.Subscribers("Ping"))
	assert.Equal(t, int64(1), c.Stats().Expired)
}

func TestLifetime_SweptByPublishAsync(t *testing.T) {
	t.Parallel()

	c := newCentral()
	lt := event.NewLifetime()
	event.Subscribe(c, noop[Ping], event.WithLifetime(lt))
	lt.End()

	future, err := event.PublishAsync(context.Background(), c, Ping{})
	require.NoError(t, err)
	require.NoError(t, future.Await())

	assert.Zero(t, c.Subscribers("Ping"))
	assert.Empty(t, c.Categories())
}

func TestLifetime_EndedOwnerNotMatchedByUnsubscribeOwner(t *testing.T) {
	t.Parallel()

	c := newCentral()
	lt := event.NewLifetime()
	owner := &listener{hits: new(atomic.Int32)}
	event.SubscribeOwned(c, owner, (*listener).onPing, event.WithLifetime(lt))
	lt.End()

	// Only live references take part in identity matching; the sweep handles the rest.
	event.UnsubscribeOwner[Ping](c, owner)
	assert.Equal(t, 1, c.Subscribers("Ping"))

	require.NoError(t, event.Publish(context.Background(), c, Ping{}))
	assert.Zero(t, c.Subscribers("Ping"))
	assert.Zero(t, owner.hits.Load())
}

func TestSubscribeOwned_LiveOwnerReceives(t *testing.T) {
	t.Parallel()

	c := newCentral()
	owner := &listener{hits: new(atomic.Int32)}
	event.SubscribeOwned(c, owner, (*listener).onPing)

	runtime.GC()
	require.NoError(t, event.Publish(context.Background(), c, Ping{N: 1}))
	require.NoError(t, event.Publish(context.Background(), c, Ping{N: 2}))

	assert.Equal(t, int32(2), owner.hits.Load())
	assert.Equal(t, 1, c.Subscribers("Ping"))
	runtime.KeepAlive(owner)
}

func TestSubscribeOwned_CollectedOwnerExpires(t *testing.T) {
	t.Parallel()

	c := newCentral()
	var ephemeral, live atomic.Int32
	subscribeEphemeral(c, &ephemeral)
	event.Subscribe(c, func(context.Context, Ping) error { live.Add(1); return nil })
	require.Equal(t, 2, c.Subscribers("Ping"))

	require.Eventually(t, func() bool {
		runtime.GC()
		if err := event.Publish(context.Background(), c, Ping{}); err != nil {
			return false
		}
		return c.Subscribers("Ping") == 1
	}, 5*time.Second, 10*time.Millisecond)

	assert.Positive(t, live.Load())
	assert.Equal(t, int64(1), c.Stats().Expired)

	// Once swept, the expired owner never runs again.
	before := ephemeral.Load()
	require.NoError(t, event.Publish(context.Background(), c, Ping{}))
	assert.Equal(t, before, ephemeral.Load())
}
