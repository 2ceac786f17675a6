package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aretw0/sequent/pkg/fsm"
)

const namespace = "sequent"

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

// Metrics holds the collectors fed by machine hooks and tool executions.
type Metrics struct {
	stateVisits  *prometheus.CounterVec
	transitions  *prometheus.CounterVec
	stateSeconds *prometheus.HistogramVec
	runs         *prometheus.CounterVec
	runSeconds   *prometheus.HistogramVec
	toolCalls    *prometheus.CounterVec
	toolSeconds  *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// Passing prometheus.DefaultRegisterer exposes them on the global /metrics handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		stateVisits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_visits_total",
			Help:      "Total number of state entries by state and outcome (success or error).",
		}, []string{"state", "outcome"}),
		transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Total number of validated transitions by source and target state.",
		}, []string{"from_state", "to_state"}),
		stateSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "state_duration_seconds",
			Help:      "Duration of entry actions by state.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"state"}),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of finished runs by final state and outcome.",
		}, []string{"state", "outcome"}),
		runSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "End-to-end run duration by outcome.",
			Buckets:   []float64{0.1, 1, 5, 30, 60, 300, 900, 3600},
		}, []string{"outcome"}),
		toolCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Total number of tool executions by tool and outcome.",
		}, []string{"tool", "outcome"}),
		toolSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_duration_seconds",
			Help:      "Duration of tool executions by tool.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
	}
}

// Hooks returns machine hooks that record state, transition and run metrics.
func (m *Metrics) Hooks() fsm.Hooks {
	return fsm.Hooks{
		OnStateLeave: func(_ context.Context, e *fsm.StateEvent) {
			m.stateVisits.WithLabelValues(e.State, outcome(e.Err)).Inc()
			m.stateSeconds.WithLabelValues(e.State).Observe(e.Duration.Seconds())
		},
		OnTransition: func(_ context.Context, e *fsm.TransitionEvent) {
			m.transitions.WithLabelValues(e.From, e.To).Inc()
		},
		OnHalt: func(_ context.Context, e *fsm.RunEvent) {
			m.observeRun(e)
		},
		OnError: func(_ context.Context, e *fsm.RunEvent) {
			m.observeRun(e)
		},
	}
}

// ObserveTool records one tool execution.
func (m *Metrics) ObserveTool(name string, elapsed time.Duration, err error) {
	m.toolCalls.WithLabelValues(name, outcome(err)).Inc()
	m.toolSeconds.WithLabelValues(name).Observe(elapsed.Seconds())
}

func (m *Metrics) observeRun(e *fsm.RunEvent) {
	o := outcome(e.Err)
	m.runs.WithLabelValues(e.State, o).Inc()
	m.runSeconds.WithLabelValues(o).Observe(e.Duration.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return outcomeError
	}
	return outcomeSuccess
}
