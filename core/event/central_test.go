package event_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/eventcentral/core/event"
	"github.com/dmitrymomot/eventcentral/core/logger"
	"github.com/dmitrymomot/eventcentral/pkg/async"
)

func noop[T any](context.Context, T) error { return nil }

func TestDefault_IsSingleton(t *testing.T) {
	t.Parallel()

	a := event.Default()
	b := event.Default()
	require.NotNil(t, a)
	assert.Same(t, a, b)
}

func TestNew_InstancesAreIndependent(t *testing.T) {
	t.Parallel()

	c1 := newCentral()
	c2 := newCentral()

	var got1, got2 int
	event.Subscribe(c1, func(_ context.Context, n int) error { got1 = n; return nil })
	event.Subscribe(c2, func(_ context.Context, n int) error { got2 = n; return nil })

	require.NoError(t, event.Publish(context.Background(), c1, 7))

	assert.Equal(t, 7, got1)
	assert.Zero(t, got2)

	c1.UnsubscribeAll()
	assert.Empty(t, c1.Categories())
	assert.Equal(t, []string{"int"}, c2.Categories())
}

func TestUnsubscribeAll_ClearsEveryCategory(t *testing.T) {
	t.Parallel()

	c := newCentral()
	event.Subscribe(c, noop[int])
	event.Subscribe(c, noop[string])
	event.Subscribe(c, noop[UserCreated])
	require.Len(t, c.Categories(), 3)

	c.UnsubscribeAll()

	assert.Empty(t, c.Categories())
	assert.Zero(t, c.Stats().Subscriptions)

	// Safe with nothing registered.
	c.UnsubscribeAll()
}

func TestUnsubscribeCategory(t *testing.T) {
	t.Parallel()

	c := newCentral()
	event.Subscribe(c, noop[int])
	event.Subscribe(c, noop[int])
	event.Subscribe(c, noop[int], event.WithCategory("Other"))

	c.UnsubscribeCategory("int")
	assert.Equal(t, []string{"Other"}, c.Categories())

	event.Subscribe(c, noop[string])
	event.UnsubscribeType[string](c)
	assert.Equal(t, []string{"Other"}, c.Categories())

	c.UnsubscribeCategory("missing")
}

func TestSubscriptions_Introspection(t *testing.T) {
	t.Parallel()

	c := newCentral()
	t1 := event.Subscribe(c, noop[UserCreated])
	t2 := event.SubscribeAsync(c, func(context.Context, UserCreated) *async.ExecFuture { return nil }, event.OnMainThread())

	infos := c.Subscriptions("UserCreated")
	require.Len(t, infos, 2)

	assert.Equal(t, t1.ID(), infos[0].ID)
	assert.Equal(t, "UserCreated", infos[0].Category)
	assert.Equal(t, "event_test.UserCreated", infos[0].Type)
	assert.False(t, infos[0].Async)
	assert.True(t, infos[0].Alive)
	assert.Equal(t, event.Flags(0), infos[0].Flags)

	assert.Equal(t, t2.ID(), infos[1].ID)
	assert.True(t, infos[1].Async)
	assert.True(t, infos[1].Flags.Has(event.MainThread))

	assert.Equal(t, 2, c.Subscribers("UserCreated"))
	assert.Empty(t, c.Subscriptions("nothing"))
}

func TestStats(t *testing.T) {
	t.Parallel()

	c := newCentral()
	event.Subscribe(c, noop[int])
	event.Subscribe(c, func(context.Context, int) error { return errors.New("fail") })
	event.Subscribe(c, noop[string])

	ctx := context.Background()
	require.NoError(t, event.Publish(ctx, c, 1))
	require.NoError(t, event.Publish(ctx, c, 2))

	stats := c.Stats()
	assert.Equal(t, int64(2), stats.Published)
	assert.Equal(t, int64(2), stats.Delivered)
	assert.Equal(t, int64(2), stats.Failed)
	assert.Equal(t, int64(0), stats.Expired)
	assert.Equal(t, 2, stats.Categories)
	assert.Equal(t, 3, stats.Subscriptions)
}

func TestWithLogger_LogsHandlerFailures(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c := event.New(event.WithLogger(logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))))
	tok := event.Subscribe(c, func(context.Context, OrderPlaced) error { return errors.New("card declined") })

	require.NoError(t, event.Publish(context.Background(), c, OrderPlaced{OrderID: "o-1"}))

	out := buf.String()
	assert.Contains(t, out, "event handler failed")
	assert.Contains(t, out, `"category":"OrderPlaced"`)
	assert.Contains(t, out, `"subscription_id":"`+tok.ID()+`"`)
	assert.Contains(t, out, "card declined")
}

func TestWithLogger_LogsPanicWithStack(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c := event.New(event.WithLogger(logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))))
	event.Subscribe(c, func(context.Context, OrderPlaced) error { panic("out of stock") })

	require.NoError(t, event.Publish(context.Background(), c, OrderPlaced{OrderID: "o-2"}))

	out := buf.String()
	assert.Contains(t, out, `"panic":"out of stock"`)
	assert.Contains(t, out, `"stack":"goroutine`)
	assert.Contains(t, out, `"duration":`)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	_, err := event.NewFromConfig(event.Config{LogLevel: "error", RequireMainThread: true})
	assert.ErrorIs(t, err, event.ErrMainThreadNotSet)

	q := &inlineQueue{}
	c, err := event.NewFromConfig(
		event.Config{LogLevel: "error", LogFormat: "json", RequireMainThread: true},
		event.WithMainThread(q.post),
	)
	require.NoError(t, err)
	require.NotNil(t, c)

	c, err = event.NewFromConfig(event.Config{})
	require.NoError(t, err)
	require.NotNil(t, c)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := event.LoadConfig()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.LogLevel)
	assert.NotEmpty(t, cfg.LogFormat)
}
