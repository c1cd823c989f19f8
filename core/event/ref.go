package event

import (
	"context"
	"weak"

	"github.com/dmitrymomot/eventcentral/pkg/async"
)

// invoker performs one delivery. Synchronous handlers return (nil, err);
// asynchronous handlers return the future of the work they started.
type invoker func(ctx context.Context, evt any) (*async.ExecFuture, error)

// handlerRef is a non-owning reference to a handler: it can report liveness and,
// while alive, yield something to call.
type handlerRef interface {
	resolve() (invoker, bool)
	ownedBy(owner any) bool
}

// funcRef holds a plain function. It is alive until unsubscribed.
type funcRef struct {
	call invoker
}

func (r funcRef) resolve() (invoker, bool) { return r.call, true }

func (funcRef) ownedBy(any) bool { return false }

// ownerRef keeps only a weak pointer to the owner; call receives the owner back
// at invocation time and must not capture it.
type ownerRef[O any] struct {
	owner weak.Pointer[O]
	call  func(o *O, ctx context.Context, evt any) (*async.ExecFuture, error)
}

func (r ownerRef[O]) resolve() (invoker, bool) {
	o := r.owner.Value()
	if o == nil {
		return nil, false
	}
	return func(ctx context.Context, evt any) (*async.ExecFuture, error) {
		return r.call(o, ctx, evt)
	}, true
}

func (r ownerRef[O]) ownedBy(owner any) bool {
	p, ok := owner.(*O)
	if !ok || p == nil {
		return false
	}
	o := r.owner.Value()
	return o != nil && o == p
}

// lifetimeRef gates another reference on a cooperative Lifetime.
type lifetimeRef struct {
	lifetime *Lifetime
	next     handlerRef
}

func (r lifetimeRef) resolve() (invoker, bool) {
	if !r.lifetime.Alive() {
		return nil, false
	}
	return r.next.resolve()
}

func (r lifetimeRef) ownedBy(owner any) bool {
	return r.lifetime.Alive() && r.next.ownedBy(owner)
}

func syncInvoker[T any](fn HandlerFunc[T]) invoker {
	return func(ctx context.Context, evt any) (*async.ExecFuture, error) {
		v, ok := evt.(T)
		if !ok {
			return nil, typeMismatch[T](evt)
		}
		return nil, fn(ctx, v)
	}
}

func asyncInvoker[T any](fn AsyncHandlerFunc[T]) invoker {
	return func(ctx context.Context, evt any) (*async.ExecFuture, error) {
		v, ok := evt.(T)
		if !ok {
			return nil, typeMismatch[T](evt)
		}
		return fn(ctx, v), nil
	}
}
