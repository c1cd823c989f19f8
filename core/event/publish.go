package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/eventcentral/core/logger"
	"github.com/dmitrymomot/eventcentral/pkg/async"
)

// Publish delivers evt to every subscriber of T's category (or WithCategory) and blocks
// until delivery is done.
//
// The subscriber list is copied under the registry lock and handlers run after the
// lock is released, in subscription order. For each subscription:
//   - an expired handler is skipped and removed once the pass is over;
//   - a synchronous handler runs on the calling goroutine;
//   - an asynchronous handler is started and its future awaited before moving on;
//   - a MainThread handler is submitted through the MainThreadFunc and not awaited,
//     since the caller may itself be the main thread.
//
// Handler errors and panics are logged and counted; they never stop delivery and
// are not returned. A MainThreadFunc refusing work counts as a handler failure.
//
// Publish returns ErrNilEvent for a nil value and ErrMainThreadNotSet when it reaches
// a MainThread subscription without a configured MainThreadFunc. It returns ctx.Err()
// when ctx is done before the next handler or while waiting on a future. In both
// cases the remaining handlers are not invoked.
func Publish[T any](ctx context.Context, c *Central, evt T, opts ...Option) error {
	if isNil(evt) {
		return ErrNilEvent
	}
	s := resolveSettings[T](opts)
	return c.publish(ctx, s.category, evt)
}

// PublishAsync delivers evt in the background and returns a future that resolves once
// every subscriber has been attempted, in subscription order, with MainThread and
// asynchronous handlers awaited. Handler failures are joined into the future's error
// as *HandlerError values.
//
// The nil check, the snapshot and the MainThreadFunc check happen before PublishAsync
// returns, so ErrNilEvent and ErrMainThreadNotSet are returned directly.
// Cancelling ctx stops the pass before the next handler and stops any pending wait.
//
// Do not await the returned future on the main thread while MainThread subscribers
// exist; their work is queued behind the waiting caller.
func PublishAsync[T any](ctx context.Context, c *Central, evt T, opts ...Option) (*async.ExecFuture, error) {
	if isNil(evt) {
		return nil, ErrNilEvent
	}
	s := resolveSettings[T](opts)
	return c.publishAsync(ctx, s.category, evt)
}

func (c *Central) publish(ctx context.Context, category string, evt any) error {
	subs := c.registry.snapshot(category)
	c.published.Add(1)
	if len(subs) == 0 {
		return nil
	}

	var expired []string
	defer func() { c.sweep(ctx, category, expired) }()

	for _, sub := range subs {
		call, alive := sub.ref.resolve()
		if !alive {
			expired = append(expired, sub.id)
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if !sub.flags.Has(MainThread) {
			_ = c.deliver(ctx, sub, call, evt)
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}

		post := c.loadMainThread()
		if post == nil {
			return fmt.Errorf("%w: category %q", ErrMainThreadNotSet, category)
		}
		err := post(func() {
			start := time.Now()
			pending, err := c.invoke(ctx, call, evt)
			if err != nil || pending == nil {
				_ = c.report(ctx, sub, start, err)
				return
			}
			// Waiting here would hold the main thread for the whole async job.
			go func() { _ = c.report(ctx, sub, start, pending.AwaitContext(ctx)) }()
		})
		if err != nil {
			_ = c.report(ctx, sub, time.Now(), fmt.Errorf("%w: %w", ErrMainThreadRejected, err))
		}
	}
	return nil
}

func (c *Central) publishAsync(ctx context.Context, category string, evt any) (*async.ExecFuture, error) {
	subs := c.registry.snapshot(category)

	post := c.loadMainThread()
	if post == nil {
		for _, sub := range subs {
			if sub.flags.Has(MainThread) {
				return nil, fmt.Errorf("%w: category %q", ErrMainThreadNotSet, category)
			}
		}
	}
	c.published.Add(1)

	// ctx is checked inside the pass, not by Exec, so the sweep always runs.
	return async.Exec(context.WithoutCancel(ctx), subs, func(_ context.Context, subs []*subscription) error {
		var (
			expired []string
			errs    []error
		)
		defer func() { c.sweep(ctx, category, expired) }()

		for i, sub := range subs {
			call, alive := sub.ref.resolve()
			if !alive {
				expired = append(expired, sub.id)
				continue
			}
			if err := ctx.Err(); err != nil {
				errs = append(errs, err)
				expired = append(expired, expiredIDs(subs[i+1:])...)
				break
			}

			var err error
			if sub.flags.Has(MainThread) {
				err = c.deliverOn(ctx, post, sub, call, evt)
			} else {
				err = c.deliver(ctx, sub, call, evt)
			}
			if err != nil {
				errs = append(errs, err)
			}
		}

		if len(errs) > 0 {
			c.log().DebugContext(ctx, "publish finished with failures",
				logger.Component(component),
				logger.Category(category),
				logger.Count("failed", len(errs)),
				logger.Errors(errs...))
		}
		return errors.Join(errs...)
	}), nil
}

// expiredIDs returns the ids of subs whose handler is no longer alive.
func expiredIDs(subs []*subscription) []string {
	var ids []string
	for _, sub := range subs {
		if _, alive := sub.ref.resolve(); !alive {
			ids = append(ids, sub.id)
		}
	}
	return ids
}

// deliver invokes one handler on the current goroutine and waits for any future it returns.
func (c *Central) deliver(ctx context.Context, sub *subscription, call invoker, evt any) error {
	start := time.Now()
	pending, err := c.invoke(ctx, call, evt)
	if err == nil && pending != nil {
		err = pending.AwaitContext(ctx)
	}
	return c.report(ctx, sub, start, err)
}

// deliverOn starts one handler through post and waits for it, and for any future it
// returns, off the main thread. Work refused by post is reported without waiting.
func (c *Central) deliverOn(ctx context.Context, post MainThreadFunc, sub *subscription, call invoker, evt any) error {
	start := time.Now()
	started, resolve := async.Promise()
	var pending *async.ExecFuture

	err := post(func() {
		var err error
		pending, err = c.invoke(ctx, call, evt)
		resolve(err)
	})
	if err != nil {
		return c.report(ctx, sub, start, fmt.Errorf("%w: %w", ErrMainThreadRejected, err))
	}

	err = started.AwaitContext(ctx)
	if err == nil && pending != nil {
		err = pending.AwaitContext(ctx)
	}
	return c.report(ctx, sub, start, err)
}

// invoke calls the handler, converting a panic into an error wrapping ErrHandlerPanic.
func (c *Central) invoke(ctx context.Context, call invoker, evt any) (pending *async.ExecFuture, err error) {
	defer func() {
		if r := recover(); r != nil {
			pending = nil
			err = &panicError{value: r, stack: logger.Stack()}
		}
	}()
	return call(ctx, evt)
}

// report records the outcome of one delivery started at start. Failures are logged,
// passed to the error hook and returned as *HandlerError.
func (c *Central) report(ctx context.Context, sub *subscription, start time.Time, err error) error {
	if err == nil {
		c.delivered.Add(1)
		return nil
	}
	c.failed.Add(1)

	herr := &HandlerError{Category: sub.category, SubscriptionID: sub.id, Err: err}
	attrs := []slog.Attr{
		logger.Component(component),
		logger.Category(sub.category),
		logger.SubscriptionID(sub.id),
		logger.Type(sub.declaredType.String()),
		logger.Duration(time.Since(start)),
		logger.Error(err),
	}
	var perr *panicError
	if errors.As(err, &perr) {
		attrs = append(attrs, logger.Panic(perr.value), perr.stack)
	}
	c.log().LogAttrs(ctx, slog.LevelError, "event handler failed", attrs...)

	if c.onError != nil {
		c.onError(ctx, herr)
	}
	return herr
}

// sweep removes subscriptions found expired during a publish pass.
func (c *Central) sweep(ctx context.Context, category string, ids []string) {
	n := c.registry.removeIDs(category, ids)
	if n == 0 {
		return
	}
	c.expired.Add(int64(n))
	c.log().DebugContext(ctx, "expired subscriptions removed",
		logger.Component(component),
		logger.Category(category),
		logger.Count("removed", n))
}
