package event

import "log/slog"

type settings struct {
	category string
	flags    Flags
	lifetime *Lifetime
}

// Option adjusts a single Subscribe, Publish or Unsubscribe call.
// Options that do not apply to an operation are ignored by it.
type Option func(*settings)

// WithCategory overrides the default, type-derived category.
// An empty name keeps the default.
func WithCategory(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.category = name
		}
	}
}

// WithFlags adds delivery flags to a subscription.
func WithFlags(f Flags) Option {
	return func(s *settings) {
		s.flags |= f
	}
}

// OnMainThread is shorthand for WithFlags(MainThread).
func OnMainThread() Option {
	return WithFlags(MainThread)
}

// WithLifetime binds a subscription to a cooperative liveness token.
func WithLifetime(lt *Lifetime) Option {
	return func(s *settings) {
		s.lifetime = lt
	}
}

func resolveSettings[T any](opts []Option) settings {
	var s settings
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.category == "" {
		s.category = CategoryOf[T]()
	}
	return s
}

// CentralOption configures a Central.
type CentralOption func(*Central)

// WithLogger configures structured logging for the Central.
// Without it the Central logs through slog.Default() at the time of each record.
func WithLogger(l *slog.Logger) CentralOption {
	return func(c *Central) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMainThread sets the function used to run MainThread subscriptions.
func WithMainThread(fn MainThreadFunc) CentralOption {
	return func(c *Central) {
		c.SetMainThread(fn)
	}
}

// WithErrorHandler registers a callback invoked for every handler failure, after it was logged.
// It runs on the goroutine that observed the failure and must not block.
func WithErrorHandler(fn ErrorHandler) CentralOption {
	return func(c *Central) {
		c.onError = fn
	}
}
