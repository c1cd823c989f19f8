package async

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ExecFuture represents the result of an asynchronous computation that only returns an error.
// A nil *ExecFuture is treated as already completed without error.
type ExecFuture struct {
	err  error
	done chan struct{}
}

// Await waits for the asynchronous function to complete and returns its error.
func (f *ExecFuture) Await() error {
	if f == nil {
		return nil
	}
	<-f.done
	return f.err
}

// AwaitContext waits for completion or for ctx to be done, whichever comes first.
// When ctx wins, the function keeps running and ctx.Err() is returned.
func (f *ExecFuture) AwaitContext(ctx context.Context) error {
	if f == nil {
		return nil
	}
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AwaitWithTimeout waits for the asynchronous function to complete with a timeout.
// If the timeout occurs before completion, returns ErrTimeout.
func (f *ExecFuture) AwaitWithTimeout(timeout time.Duration) error {
	if f == nil {
		return nil
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.err
	case <-timer.C:
		return ErrTimeout
	}
}

// Done returns a channel that is closed once the future completes.
func (f *ExecFuture) Done() <-chan struct{} {
	if f == nil {
		return closedChan
	}
	return f.done
}

// IsComplete checks if the asynchronous function is complete without blocking.
func (f *ExecFuture) IsComplete() bool {
	select {
	case <-f.Done():
		return true
	default:
		return false
	}
}

var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Completed returns a future that is already resolved with err.
func Completed(err error) *ExecFuture {
	return &ExecFuture{err: err, done: closedChan}
}

// Promise returns a pending future together with the function that resolves it.
// Only the first call to resolve has an effect.
//
// Example:
//
//	future, resolve := async.Promise()
//	ui.Post(func() { resolve(render()) })
//	err := future.Await()
func Promise() (*ExecFuture, func(error)) {
	f := &ExecFuture{done: make(chan struct{})}
	var once sync.Once
	return f, func(err error) {
		once.Do(func() {
			f.err = err
			close(f.done)
		})
	}
}

// Exec executes a function asynchronously that only returns an error.
// The function accepts a context.Context and a parameter of any type T.
// A panic inside fn is recovered and reported as an error wrapping ErrPanic.
func Exec[T any](ctx context.Context, param T, fn func(context.Context, T) error) *ExecFuture {
	f := &ExecFuture{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		// Early exit prevents goroutine leak when context is pre-canceled
		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}

		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("%w: %v", ErrPanic, r)
			}
		}()

		f.err = fn(ctx, param)
	}()

	return f
}

// ExecAll waits for every future to complete and returns all their errors joined.
// Returns nil when every future succeeded.
func ExecAll(futures ...*ExecFuture) error {
	var errs []error
	for _, future := range futures {
		if err := future.Await(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ExecAny waits for any of the futures to complete and returns the index of the completed future
// and any error it might have returned.
// Note: This function spawns one goroutine per future. All goroutines will complete naturally
// when their respective futures finish.
func ExecAny(futures ...*ExecFuture) (int, error) {
	if len(futures) == 0 {
		return -1, ErrNoFutures
	}

	type result struct {
		index int
		err   error
	}

	// Buffered so late finishers never block once the first result was taken.
	done := make(chan result, len(futures))

	for i, future := range futures {
		go func(index int, f *ExecFuture) {
			done <- result{index: index, err: f.Await()}
		}(i, future)
	}

	res := <-done
	return res.index, res.err
}
