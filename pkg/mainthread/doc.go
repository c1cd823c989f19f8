// Package mainthread provides a minimal single-goroutine work loop.
//
// A Loop is what a Central's MainThread subscriptions are marshalled onto when the
// host has no run loop of its own, and a stand-in for a UI loop in tests:
//
//	loop := mainthread.New(mainthread.WithLockOSThread())
//	central := event.New(event.WithMainThread(loop.Post))
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(func() error { return loop.Run(ctx) })
//
// Post queues without blocking and runs work in FIFO order; after Close it returns
// ErrClosed, which the Central reports as a handler failure. Invoke posts and waits
// for the result. Close lets Run drain and return.
package mainthread
