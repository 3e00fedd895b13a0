package engine

import "github.com/vivek100/mothBot/logging"

// Option configures a Run.
type Option func(*runConfig)

type runConfig struct {
	logger      logging.Logger
	eventBuffer int
}

func defaultRunConfig() *runConfig {
	return &runConfig{logger: logging.NoOp{}, eventBuffer: 0}
}

// WithLogger attaches a structured logger; every event the Executor emits
// also produces a matching log line.
func WithLogger(l logging.Logger) Option {
	return func(c *runConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithEventBuffer sets the channel buffer size between the Executor and its
// consumer (default 0, i.e. fully synchronous back-pressure).
func WithEventBuffer(n int) Option {
	return func(c *runConfig) {
		if n >= 0 {
			c.eventBuffer = n
		}
	}
}
