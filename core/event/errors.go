package event

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
)

var (
	// ErrNilEvent is returned when publishing a nil value.
	ErrNilEvent = errors.New("event: cannot publish nil event")

	// ErrMainThreadNotSet is returned when a MainThread subscription fires before
	// a MainThreadFunc was configured on the Central.
	ErrMainThreadNotSet = errors.New("event: main thread dispatcher not configured")

	// ErrMainThreadRejected is reported for a MainThread delivery whose work the
	// MainThreadFunc refused, for example because the loop behind it was closed.
	ErrMainThreadRejected = errors.New("event: main thread rejected work")

	// ErrHandlerPanic wraps a value recovered from a panicking handler.
	ErrHandlerPanic = errors.New("event: handler panicked")

	// ErrTypeMismatch is returned to a handler's error report when a value published
	// under a category does not have the type the handler was subscribed with.
	ErrTypeMismatch = errors.New("event: payload type mismatch")
)

// HandlerError describes a failure of a single subscriber during delivery.
// It never aborts delivery to the remaining subscribers.
type HandlerError struct {
	Category       string
	SubscriptionID string
	Err            error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("event: handler %s for category %q failed: %v", e.SubscriptionID, e.Category, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

func typeMismatch[T any](got any) error {
	return fmt.Errorf("%w: want %s, got %T", ErrTypeMismatch, typeName(reflect.TypeFor[T]()), got)
}

// panicError carries a recovered panic value and the stack captured where it was recovered.
type panicError struct {
	value any
	stack slog.Attr
}

func (e *panicError) Error() string {
	return fmt.Sprintf("%v: %v", ErrHandlerPanic, e.value)
}

func (e *panicError) Unwrap() error {
	return ErrHandlerPanic
}
