package derive

import (
	"time"

	"github.com/agentstation/sizer/pkg/constants"
)

// Option configures an Engine.
type Option func(*Engine)

// WithFields overrides the config key aliases.
func WithFields(f Fields) Option {
	return func(e *Engine) {
		e.fields = f
	}
}

// WithTimeout sets the per-lookup timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithConcurrency bounds the number of entries derived at once.
// Non-positive values are ignored and values above constants.MaxConcurrency are capped.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = min(n, constants.MaxConcurrency)
		}
	}
}
