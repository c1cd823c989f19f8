package event

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/eventcentral/core/logger"
)

const component = "eventcentral"

// MainThreadFunc submits a unit of work to the designated thread, for example a UI
// run loop. It returns an error when the work was not accepted; the Central then
// reports that delivery as a handler failure and moves on. The Central never calls
// it for subscriptions without the MainThread flag.
type MainThreadFunc func(func()) error

// ErrorHandler observes handler failures. See WithErrorHandler.
type ErrorHandler func(ctx context.Context, err *HandlerError)

// Central routes published values to the handlers subscribed to their category.
//
// All methods are safe for concurrent use. Handlers are never invoked while the
// registry lock is held, so they may subscribe, unsubscribe or publish on the same
// Central. Separate Centrals share no state.
type Central struct {
	registry   *registry
	mainThread atomic.Pointer[MainThreadFunc]
	logger     *slog.Logger
	onError    ErrorHandler

	published atomic.Int64
	delivered atomic.Int64
	failed    atomic.Int64
	expired   atomic.Int64
}

// Stats is a snapshot of a Central's counters.
type Stats struct {
	Published     int64 // publish calls that reached the snapshot phase
	Delivered     int64 // handler invocations that completed without error
	Failed        int64 // handler invocations that returned an error or panicked
	Expired       int64 // subscriptions removed by expiry sweeps
	Categories    int
	Subscriptions int
}

// New creates an independent Central.
//
// Example:
//
//	central := event.New(
//	    event.WithLogger(log),
//	    event.WithMainThread(loop.Post),
//	)
func New(opts ...CentralOption) *Central {
	c := &Central{registry: newRegistry()}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

var defaultCentral = sync.OnceValue(func() *Central { return New() })

// Default returns the process-wide Central, creating it on first use.
func Default() *Central {
	return defaultCentral()
}

// SetMainThread sets or, with nil, clears the designated-thread function.
// It may be called at any time; publishes already past their check keep the old value.
func (c *Central) SetMainThread(fn MainThreadFunc) {
	if fn == nil {
		c.mainThread.Store(nil)
		return
	}
	c.mainThread.Store(&fn)
}

func (c *Central) loadMainThread() MainThreadFunc {
	if p := c.mainThread.Load(); p != nil {
		return *p
	}
	return nil
}

// Unsubscribe removes the subscription with the given id from category.
// It is a no-op when nothing matches.
func (c *Central) Unsubscribe(category, id string) {
	if c.registry.remove(category, id) {
		c.log().Debug("unsubscribed",
			logger.Component(component),
			logger.Category(category),
			logger.SubscriptionID(id))
	}
}

// UnsubscribeCategory removes every subscription registered under category.
func (c *Central) UnsubscribeCategory(category string) {
	if n := c.registry.clear(category); n > 0 {
		c.log().Debug("category cleared",
			logger.Component(component),
			logger.Category(category),
			logger.Count("removed", n))
	}
}

// UnsubscribeAll removes every subscription in every category.
func (c *Central) UnsubscribeAll() {
	if n := c.registry.clearAll(); n > 0 {
		c.log().Debug("all subscriptions cleared",
			logger.Component(component),
			logger.Count("removed", n))
	}
}

// Categories returns the categories that currently have subscribers, sorted.
func (c *Central) Categories() []string {
	return c.registry.categories()
}

// Subscribers returns the number of subscriptions registered under category,
// including expired ones not yet swept.
func (c *Central) Subscribers(category string) int {
	return c.registry.count(category)
}

// Subscriptions returns a view of category's subscriptions in invocation order.
func (c *Central) Subscriptions(category string) []SubscriptionInfo {
	subs := c.registry.snapshot(category)
	out := make([]SubscriptionInfo, 0, len(subs))
	for _, s := range subs {
		out = append(out, s.info())
	}
	return out
}

// Stats returns current counters for observability and tests.
func (c *Central) Stats() Stats {
	return Stats{
		Published:     c.published.Load(),
		Delivered:     c.delivered.Load(),
		Failed:        c.failed.Load(),
		Expired:       c.expired.Load(),
		Categories:    len(c.registry.categories()),
		Subscriptions: c.registry.total(),
	}
}

func (c *Central) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}
