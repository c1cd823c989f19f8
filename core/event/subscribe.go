package event

import (
	"context"
	"reflect"
	"weak"

	"github.com/google/uuid"

	"github.com/dmitrymomot/eventcentral/core/logger"
	"github.com/dmitrymomot/eventcentral/pkg/async"
)

// HandlerFunc handles one event of type T. A returned error is logged and counted
// but never stops delivery to other subscribers.
type HandlerFunc[T any] func(ctx context.Context, evt T) error

// AsyncHandlerFunc starts handling an event and returns a future for its completion.
// Returning nil means there is nothing to wait for.
type AsyncHandlerFunc[T any] func(ctx context.Context, evt T) *async.ExecFuture

// OwnedHandlerFunc handles an event on behalf of owner. Method expressions fit it:
//
//	event.SubscribeOwned(c, view, (*View).OnUserCreated)
type OwnedHandlerFunc[O, T any] func(owner *O, ctx context.Context, evt T) error

// Subscribe registers fn for events of type T, under CategoryOf[T]() unless
// WithCategory is given.
//
// The Central keeps fn itself, so whatever fn captures stays reachable until the
// token is released. Bind the subscription to a Lifetime, or use SubscribeOwned,
// when the handler's owner must be able to go away without unsubscribing.
//
// Example:
//
//	tok := event.Subscribe(c, func(ctx context.Context, e UserCreated) error {
//	    return mailer.SendWelcome(ctx, e.Email)
//	})
//	defer tok.Close()
func Subscribe[T any](c *Central, fn HandlerFunc[T], opts ...Option) *Token {
	if fn == nil {
		panic("event: Subscribe called with nil handler")
	}
	return c.subscribe(reflect.TypeFor[T](), resolveSettings[T](opts), funcRef{call: syncInvoker(fn)}, false)
}

// SubscribeAsync registers a handler that reports completion through a future.
// Publish waits for the future inline; PublishAsync waits for it in order with the rest.
//
// Example:
//
//	event.SubscribeAsync(c, func(ctx context.Context, e Saved) *async.ExecFuture {
//	    return async.Exec(ctx, e, indexDocument)
//	})
func SubscribeAsync[T any](c *Central, fn AsyncHandlerFunc[T], opts ...Option) *Token {
	if fn == nil {
		panic("event: SubscribeAsync called with nil handler")
	}
	return c.subscribe(reflect.TypeFor[T](), resolveSettings[T](opts), funcRef{call: asyncInvoker(fn)}, true)
}

// SubscribeOwned registers fn on behalf of owner while holding owner only weakly.
// Once owner has been garbage collected the subscription is skipped and then removed by
// the next publish on its category. fn receives the owner on each call and must not
// capture it, or the owner can never be collected.
func SubscribeOwned[T, O any](c *Central, owner *O, fn OwnedHandlerFunc[O, T], opts ...Option) *Token {
	if owner == nil || fn == nil {
		panic("event: SubscribeOwned called with nil owner or handler")
	}
	ref := ownerRef[O]{
		owner: weak.Make(owner),
		call: func(o *O, ctx context.Context, evt any) (*async.ExecFuture, error) {
			v, ok := evt.(T)
			if !ok {
				return nil, typeMismatch[T](evt)
			}
			return nil, fn(o, ctx, v)
		},
	}
	return c.subscribe(reflect.TypeFor[T](), resolveSettings[T](opts), ref, false)
}

// UnsubscribeOwner removes every live subscription under T's category (or WithCategory)
// that was registered by SubscribeOwned with the same owner pointer.
func UnsubscribeOwner[T, O any](c *Central, owner *O, opts ...Option) {
	if owner == nil {
		return
	}
	s := resolveSettings[T](opts)
	n := c.registry.removeFunc(s.category, func(sub *subscription) bool {
		return sub.ref.ownedBy(owner)
	})
	if n > 0 {
		c.log().Debug("owner unsubscribed",
			logger.Component(component),
			logger.Category(s.category),
			logger.Count("removed", n))
	}
}

// UnsubscribeType removes every subscription under CategoryOf[T]().
func UnsubscribeType[T any](c *Central) {
	c.UnsubscribeCategory(CategoryOf[T]())
}

func (c *Central) subscribe(t reflect.Type, s settings, ref handlerRef, isAsync bool) *Token {
	if s.lifetime != nil {
		ref = lifetimeRef{lifetime: s.lifetime, next: ref}
	}
	sub := &subscription{
		id:           uuid.NewString(),
		category:     s.category,
		declaredType: t,
		flags:        s.flags,
		async:        isAsync,
		ref:          ref,
	}
	c.registry.add(sub)

	c.log().Debug("subscribed",
		logger.Component(component),
		logger.Category(sub.category),
		logger.SubscriptionID(sub.id),
		logger.Type(t.String()))

	return &Token{central: c, category: sub.category, id: sub.id}
}
