package event

import (
	"reflect"
	"sync"
)

// categoryCache maps reflect.Type to its default category name.
var categoryCache sync.Map

// CategoryOf returns the default category for payload type T: the bare type name with
// pointer indirections removed, e.g. "UserCreated" for both UserCreated and *UserCreated,
// "int" for int. Unnamed types such as []int fall back to their type string.
//
// Routing uses the static type parameter, not the dynamic type of a value:
// publishing through an interface type T routes to that interface's name.
//
// Only the bare name is used, so users.Created and billing.Created share a category.
// Give event types distinct names or pass WithCategory when that matters.
func CategoryOf[T any]() string {
	return categoryFor(reflect.TypeFor[T]())
}

func categoryFor(t reflect.Type) string {
	if name, ok := categoryCache.Load(t); ok {
		return name.(string)
	}
	name := typeName(t)
	categoryCache.Store(t, name)
	return name
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}

// isNil reports whether v carries no value: a nil interface or a nil
// pointer, map, slice, func or chan.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func,
		reflect.Chan, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}
