package minkowski

import "runtime"

type options struct {
	workers int
	logger  *Logger
}

// Option configures parallel construction (kernel maps, stride maps,
// coordinate export) and the coordinate manager.
type Option func(*options)

// WithWorkers sets the number of workers used by parallel sections. Values
// below 1 fall back to the environment's available parallelism.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLogger sets the structured logger. Pass nil to keep logging disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{
		workers: runtime.GOMAXPROCS(0),
		logger:  NoopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	return o
}
