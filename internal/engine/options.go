package engine

import (
	"io"
	"log/slog"
	"runtime"
	"time"

	"slotting.dev/slotting/internal/relax"
)

// Option configures an Engine
type Option func(*Engine)

// WithWorkers sets the number of concurrent workers. Zero or less uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		e.workers = n
	}
}

// WithTimeLimit stops the search after d. Zero means no limit.
func WithTimeLimit(d time.Duration) Option {
	return func(e *Engine) {
		e.timeLimit = d
	}
}

// WithNodeLimit stops the search after n subproblems have been dequeued. Zero means no limit.
func WithNodeLimit(n int64) Option {
	return func(e *Engine) {
		e.nodeLimit = n
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector
func WithMetrics(m MetricsCollector) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithProgress registers a callback invoked periodically and on every incumbent update
func WithProgress(fn func(Progress)) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}

// WithProgressInterval sets the minimum time between periodic progress callbacks
func WithProgressInterval(d time.Duration) Option {
	return func(e *Engine) {
		e.progressInterval = d
	}
}

// WithWarmStart enables or disables the greedy initial assignment
func WithWarmStart(enabled bool) Option {
	return func(e *Engine) {
		e.warmStart = enabled
	}
}

// WithFrontier resumes from a previously stopped search
func WithFrontier(f *Frontier) Option {
	return func(e *Engine) {
		e.frontier = f
	}
}

// WithRelaxOptions passes options to every relaxation
func WithRelaxOptions(opts ...relax.Option) Option {
	return func(e *Engine) {
		e.relaxOpts = append(e.relaxOpts, opts...)
	}
}

// WithIntegralityTolerance sets the tolerance used when reading an integral relaxation
func WithIntegralityTolerance(tol float64) Option {
	return func(e *Engine) {
		if tol > 0 {
			e.intTol = tol
			e.relaxOpts = append(e.relaxOpts, relax.WithIntegralityTolerance(tol))
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
