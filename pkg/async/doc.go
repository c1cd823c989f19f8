// Package async provides a small future type for error-only asynchronous work.
//
// ExecFuture is the completion handle the event package uses for asynchronous
// handlers: a handler starts its work and returns a future, and the publisher
// decides whether to await it inline or later.
//
// # Creating futures
//
// Run a function on its own goroutine:
//
//	future := async.Exec(ctx, userID, func(ctx context.Context, id int) error {
//		return notify(ctx, id)
//	})
//
// Resolve a future by hand, for example from work posted to another goroutine:
//
//	future, resolve := async.Promise()
//	loop.Post(func() { resolve(redraw()) })
//
// Return an already finished result:
//
//	return async.Completed(nil)
//
// A nil *ExecFuture behaves like a completed future without error, so handlers
// that have nothing to wait for may simply return nil.
//
// # Waiting
//
//	err := future.Await()                          // block until done
//	err := future.AwaitContext(ctx)                // stop waiting when ctx is done
//	err := future.AwaitWithTimeout(time.Second)    // ErrTimeout on expiry
//	err := async.ExecAll(f1, f2, f3)               // wait for all, errors joined
//	i, err := async.ExecAny(f1, f2, f3)            // first to finish
//
// # Errors
//
//   - ErrTimeout: returned when AwaitWithTimeout exceeds its duration
//   - ErrNoFutures: returned when ExecAny is called with no futures
//   - ErrPanic: wraps a panic recovered inside Exec
//
// If the context passed to Exec is already cancelled, the function is not run
// and the future resolves with the context's error.
package async
