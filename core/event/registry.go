package event

import (
	"slices"
	"sync"
)

// registry maps a category to its subscriptions in insertion order.
// A category key exists only while its list is non-empty.
// Every access goes through mu; callers never run handlers while holding it.
type registry struct {
	mu   sync.Mutex
	subs map[string][]*subscription
}

func newRegistry() *registry {
	return &registry{subs: make(map[string][]*subscription)}
}

func (r *registry) add(s *subscription) {
	r.mu.Lock()
	r.subs[s.category] = append(r.subs[s.category], s)
	r.mu.Unlock()
}

// snapshot returns a copy of the category's list, safe to iterate without the lock.
func (r *registry) snapshot(category string) []*subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.subs[category])
}

// removeFunc deletes every subscription in category matching fn and prunes the key
// when the list becomes empty. Returns the number removed.
func (r *registry) removeFunc(category string, fn func(*subscription) bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, ok := r.subs[category]
	if !ok {
		return 0
	}
	before := len(list)
	// Snapshots are clones, so compacting the backing array in place is safe.
	list = slices.DeleteFunc(list, fn)
	if len(list) == 0 {
		delete(r.subs, category)
	} else {
		r.subs[category] = list
	}
	return before - len(list)
}

func (r *registry) remove(category, id string) bool {
	return r.removeFunc(category, func(s *subscription) bool { return s.id == id }) > 0
}

func (r *registry) removeIDs(category string, ids []string) int {
	if len(ids) == 0 {
		return 0
	}
	return r.removeFunc(category, func(s *subscription) bool {
		return slices.Contains(ids, s.id)
	})
}

func (r *registry) clear(category string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.subs[category])
	delete(r.subs, category)
	return n
}

func (r *registry) clearAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, list := range r.subs {
		n += len(list)
	}
	clear(r.subs)
	return n
}

func (r *registry) categories() []string {
	r.mu.Lock()
	names := make([]string, 0, len(r.subs))
	for name := range r.subs {
		names = append(names, name)
	}
	r.mu.Unlock()
	slices.Sort(names)
	return names
}

func (r *registry) count(category string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs[category])
}

func (r *registry) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, list := range r.subs {
		n += len(list)
	}
	return n
}
