package event

import "sync"

// Token removes exactly the subscription it was issued for.
// Unsubscribe and Close are idempotent and safe for concurrent use; it satisfies io.Closer,
// so a scoped subscription reads:
//
//	tok := event.Subscribe(c, onSaved)
//	defer tok.Close()
type Token struct {
	central  *Central
	category string
	id       string
	once     sync.Once
}

// ID returns the subscription id.
func (t *Token) ID() string { return t.id }

// Category returns the category the subscription was registered under.
func (t *Token) Category() string { return t.category }

// Unsubscribe removes the subscription. Calls after the first are no-ops.
func (t *Token) Unsubscribe() {
	if t == nil || t.central == nil {
		return
	}
	t.once.Do(func() {
		t.central.Unsubscribe(t.category, t.id)
	})
}

// Close calls Unsubscribe and always returns nil.
func (t *Token) Close() error {
	t.Unsubscribe()
	return nil
}
