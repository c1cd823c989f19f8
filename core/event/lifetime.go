package event

import "sync/atomic"

// Lifetime is a liveness token owned by a subscriber. Subscriptions created with
// WithLifetime stop receiving events once End is called and are removed from the
// registry by the next publish on their category.
//
// Go closures cannot be weakly referenced, so for plain function handlers expiry is
// cooperative: the owner ends its Lifetime when it goes away (typically in its own
// Close). Use SubscribeOwned for expiry driven by garbage collection instead.
//
// A nil *Lifetime is always alive.
type Lifetime struct {
	ended atomic.Bool
}

// NewLifetime returns a live token.
func NewLifetime() *Lifetime {
	return &Lifetime{}
}

// End marks the token as expired. Safe to call more than once.
func (l *Lifetime) End() {
	if l != nil {
		l.ended.Store(true)
	}
}

// Alive reports whether End has not been called yet.
func (l *Lifetime) Alive() bool {
	return l == nil || !l.ended.Load()
}
