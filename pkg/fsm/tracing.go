package fsm

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// startRunSpan opens the root span of a run. The caller ends it.
func (m *Machine[S, C]) startRunSpan(ctx context.Context, r *run) (context.Context, trace.Span) {
	return m.opts.tracer.Start(ctx, "fsm.run", trace.WithAttributes(
		attribute.String("fsm.run_id", r.id),
		attribute.String("fsm.initial_state", label(m.initial)),
		attribute.Int("fsm.states", len(m.states)),
	))
}

// startStateSpan opens a child span around one entry action. The caller ends it.
func (m *Machine[S, C]) startStateSpan(ctx context.Context, r *run, state string) (context.Context, trace.Span) {
	return m.opts.tracer.Start(ctx, "fsm.state."+state, trace.WithAttributes(
		attribute.String("fsm.run_id", r.id),
		attribute.String("fsm.state", state),
		attribute.Int("fsm.step", r.step),
	))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
