package event

import "strings"

// Flags is a set of independent delivery options attached to a subscription.
// New flags are added as further bits; the zero value means plain inline delivery.
type Flags uint8

const (
	// MainThread routes every invocation through the Central's MainThreadFunc
	// instead of running it on the publishing goroutine.
	MainThread Flags = 1 << iota
)

// Has reports whether every bit in flag is set in f.
func (f Flags) Has(flag Flags) bool {
	return flag != 0 && f&flag == flag
}

func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	if f.Has(MainThread) {
		parts = append(parts, "main_thread")
	}
	if rest := f &^ MainThread; rest != 0 {
		parts = append(parts, "unknown")
	}
	return strings.Join(parts, "|")
}
