package event

import "reflect"

// subscription is immutable after creation; only the liveness behind ref changes.
type subscription struct {
	id           string
	category     string
	declaredType reflect.Type
	flags        Flags
	async        bool
	ref          handlerRef
}

func (s *subscription) info() SubscriptionInfo {
	_, alive := s.ref.resolve()
	return SubscriptionInfo{
		ID:       s.id,
		Category: s.category,
		Type:     s.declaredType.String(),
		Flags:    s.flags,
		Async:    s.async,
		Alive:    alive,
	}
}

// SubscriptionInfo is a point-in-time view of a subscription for debugging and tests.
type SubscriptionInfo struct {
	ID       string
	Category string
	Type     string // declared payload type, e.g. "event_test.UserCreated"
	Flags    Flags
	Async    bool
	Alive    bool
}
