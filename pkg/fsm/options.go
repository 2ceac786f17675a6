package fsm

import (
	"io"
	"log/slog"

	"github.com/benbjohnson/clock"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/aretw0/sequent/pkg/fsm"

// Option defines a functional option for configuring a Machine.
type Option func(*options)

type options struct {
	logger         *slog.Logger
	hooks          Hooks
	clock          clock.Clock
	tracer         trace.Tracer
	maxTransitions int
}

func defaultOptions() options {
	return options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:  clock.New(),
		tracer: otel.Tracer(tracerName),
	}
}

// WithLogger sets the structured logger. The machine logs registration and every transition at Debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithHooks registers observability hooks. Repeated calls compose.
func WithHooks(hooks Hooks) Option {
	return func(o *options) {
		o.hooks = ComposeHooks(o.hooks, hooks)
	}
}

// WithClock replaces the clock used for event timestamps and durations.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithTracerProvider sets the provider for run and state spans (default: the global provider).
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		if tp != nil {
			o.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithMaxTransitions caps the number of transitions a single run may take.
// Zero (the default) means no limit; the initial entry does not count.
func WithMaxTransitions(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxTransitions = n
		}
	}
}
