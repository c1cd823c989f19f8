// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package loads a .env file on first use and uses the caarlos0/env library
// for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/eventcentral/core/config"
//
//	type BusConfig struct {
//		LogLevel string `env:"EVENTCENTRAL_LOG_LEVEL" envDefault:"info"`
//	}
//
//	var cfg BusConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
//	// Or panic on failure (useful for startup)
//	config.MustLoad(&cfg)
//
// # Caching Behavior
//
// Each configuration type is parsed only once per process; later calls copy the
// cached value. Different types are cached independently. Tests that change the
// environment between loads call Reset.
package config
