// Package engineconfig provides the functional-options Config shared by
// the HTTP facade and the demo CLI.
package engineconfig

import (
	"time"

	"github.com/vivek100/mothBot/logging"
)

// Config bundles the engine-wide knobs that are not part of any single
// plan: how to log, and the default wall-clock budget a caller should race
// a run against when it does not supply its own context deadline.
type Config struct {
	LogLevel       string
	LogFormat      logging.Format
	DefaultTimeout time.Duration
}

// Option mutates a Config under construction.
type Option func(*Config)

// WithLogLevel sets the minimum emitted log level ("debug", "info", "warn",
// "error").
func WithLogLevel(level string) Option {
	return func(c *Config) { c.LogLevel = level }
}

// WithLogFormat selects JSON or text log rendering.
func WithLogFormat(f logging.Format) Option {
	return func(c *Config) { c.LogFormat = f }
}

// WithDefaultTimeout sets the wall-clock budget applied when a caller does
// not supply its own context deadline. The engine itself has no timeout
// notion; this is purely a convenience for callers that race the event
// stream against a timer.
func WithDefaultTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.DefaultTimeout = d
		}
	}
}

// New builds a Config from the given options, starting from sensible
// defaults (info-level text logs, a five-minute default timeout).
func New(opts ...Option) Config {
	cfg := Config{
		LogLevel:       "info",
		LogFormat:      logging.FormatText,
		DefaultTimeout: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// NewLogger builds a logging.Logger for component name from cfg.
func (c Config) NewLogger(component string) logging.Logger {
	return logging.New(component, c.LogLevel, c.LogFormat, nil)
}
