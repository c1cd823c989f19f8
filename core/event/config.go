package event

import (
	"fmt"
	"os"

	"github.com/dmitrymomot/eventcentral/core/config"
	"github.com/dmitrymomot/eventcentral/core/logger"
)

// Config holds environment-driven settings for a Central.
type Config struct {
	LogLevel  string `env:"EVENTCENTRAL_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"EVENTCENTRAL_LOG_FORMAT" envDefault:"text"`

	// RequireMainThread makes NewFromConfig fail unless a MainThreadFunc is supplied,
	// moving the misconfiguration error from the first publish to startup.
	RequireMainThread bool `env:"EVENTCENTRAL_REQUIRE_MAIN_THREAD" envDefault:"false"`
}

// LoadConfig reads Config from the environment (and .env, if present).
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewFromConfig creates a Central logging to stderr with the configured level and
// format. opts are applied afterwards and may replace the logger.
func NewFromConfig(cfg Config, opts ...CentralOption) (*Central, error) {
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithFormat(logger.Format(cfg.LogFormat)),
		logger.WithOutput(os.Stderr),
	)

	c := New(append([]CentralOption{WithLogger(log)}, opts...)...)
	if cfg.RequireMainThread && c.loadMainThread() == nil {
		return nil, fmt.Errorf("%w: EVENTCENTRAL_REQUIRE_MAIN_THREAD is set", ErrMainThreadNotSet)
	}
	return c, nil
}
