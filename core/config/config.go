package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrNotStructPointer is returned when Load receives anything but a non-nil struct pointer.
var ErrNotStructPointer = errors.New("config: target must be a non-nil pointer to a struct")

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type -> any (struct value)
	loadMu     sync.Mutex
)

// Load populates cfg from environment variables using `env` struct tags.
// A .env file in the working directory is read once on first use; variables already
// present in the environment take precedence. The result is cached per type, so later
// calls with the same type copy the cached value without reparsing.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNotStructPointer
	}
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return ErrNotStructPointer
	}

	if v, ok := cache.Load(t); ok {
		*cfg = v.(T)
		return nil
	}

	dotenvOnce.Do(func() {
		// Missing .env is the common case outside local development.
		_ = godotenv.Load()
	})

	loadMu.Lock()
	defer loadMu.Unlock()

	if v, ok := cache.Load(t); ok {
		*cfg = v.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", t.Name(), err)
	}
	cache.Store(t, parsed)
	*cfg = parsed
	return nil
}

// MustLoad is like Load but panics on error. Intended for program startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// Reset drops every cached configuration so the next Load reparses the environment.
// Meant for tests.
func Reset() {
	cache.Range(func(k, _ any) bool {
		cache.Delete(k)
		return true
	})
}
