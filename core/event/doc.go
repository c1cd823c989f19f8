// Package event provides an in-process, type-routed publish/subscribe hub.
//
// Components subscribe to a category of events and other components publish values to
// every current subscriber, with neither side knowing about the other.
//
// # Core Components
//
// Central owns the subscriber registry and implements the publish protocol. Use
// Default for the process-wide instance (created lazily on first use) or New for
// independent instances that share no state.
//
// A category is a case-sensitive string. By default it is the bare name of the payload
// type (see CategoryOf), used identically by Subscribe and Publish, so routing by type
// needs no registration step. WithCategory overrides it on either side.
//
// Token is returned by every Subscribe call and removes exactly that subscription.
// It is idempotent and implements io.Closer.
//
// # Basic Usage
//
//	type UserCreated struct {
//		UserID string
//		Email  string
//	}
//
//	central := event.New(event.WithLogger(log))
//
//	tok := event.Subscribe(central, func(ctx context.Context, e UserCreated) error {
//		return mailer.SendWelcome(ctx, e.Email)
//	})
//	defer tok.Close()
//
//	if err := event.Publish(ctx, central, UserCreated{UserID: "42", Email: "a@b.c"}); err != nil {
//		return err // ErrNilEvent or ErrMainThreadNotSet; handler errors are only logged
//	}
//
// # Publish Protocol
//
// Publish copies the category's subscriber list under the registry lock, releases
// the lock and then calls each handler in subscription order. Handlers may therefore
// subscribe, unsubscribe or publish on the same Central. A subscription added while a
// publish is in flight may or may not see that publish.
//
// A handler that returns an error or panics is logged as a *HandlerError and delivery
// continues with the next subscriber. Subscriptions whose handler has expired are
// skipped and removed once the pass is over.
//
// PublishAsync runs the same pass on a background goroutine and returns a
// *async.ExecFuture whose error joins every handler failure.
//
// # Handler Lifetimes
//
// The registry must not keep subscribers alive. Two mechanisms are available:
//
//	// Weak reference: expires when view is garbage collected.
//	event.SubscribeOwned(central, view, (*View).OnUserCreated)
//
//	// Cooperative token: expires when the owner calls End.
//	lt := event.NewLifetime()
//	event.Subscribe(central, onSaved, event.WithLifetime(lt))
//	defer lt.End()
//
// Plain Subscribe keeps the function until its Token is released.
//
// # Main Thread Delivery
//
// Subscriptions created with OnMainThread are submitted through the function set by
// WithMainThread or SetMainThread, typically a UI loop's post method:
//
//	loop := mainthread.New()
//	central.SetMainThread(loop.Post)
//	event.Subscribe(central, redraw, event.OnMainThread())
//
// Publishing to such a subscription before a MainThreadFunc is configured returns
// ErrMainThreadNotSet. The handler is never run inline instead.
//
// # Asynchronous Handlers
//
// SubscribeAsync takes a handler returning a future. Publish blocks on that future
// before moving to the next subscriber; PublishAsync awaits it on its background
// goroutine.
//
//	event.SubscribeAsync(central, func(ctx context.Context, e Saved) *async.ExecFuture {
//		return async.Exec(ctx, e, index)
//	})
//
// # Observability
//
// Stats reports publish, delivery, failure and expiry counters. Categories,
// Subscribers and Subscriptions expose the registry for debugging.
package event
