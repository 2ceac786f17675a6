package fsm

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Action is the entry behaviour of a state. It receives the current context and returns the outcome
// of the state: Halt or Goto.
//
// Recoverable failures belong in the context, with a transition to an error-handling state.
// A non-nil error aborts the run; the driver never retries.
type Action[S comparable, C any] func(ctx context.Context, c C) (Outcome[S, C], error)

// StateConfig binds an entry action to the states it is allowed to hand control to.
// An empty Transitions list marks a terminal state.
type StateConfig[S comparable, C any] struct {
	OnEnter     Action[S, C]
	Transitions []S
}

func (c StateConfig[S, C]) allows(target S) bool {
	return slices.Contains(c.Transitions, target)
}

// Machine is a sequential finite-state machine over state identifiers S and context C.
//
// A Machine is configured once with AddState and run once with Start.
// It is not safe for concurrent use.
type Machine[S comparable, C any] struct {
	initial S
	current S
	states  map[S]StateConfig[S, C]
	order   []S
	opts    options
}

// New creates a machine that will start in initial.
// Whether initial is registered is only checked by Start.
func New[S comparable, C any](initial S, opts ...Option) *Machine[S, C] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	m := &Machine[S, C]{
		initial: initial,
		current: initial,
		states:  make(map[S]StateConfig[S, C]),
		opts:    o,
	}
	m.opts.logger.Debug("machine created", "initial", label(initial))
	return m
}

// AddState registers the configuration of id.
// Registering the same id twice returns a *DuplicateStateError and keeps the first configuration.
func (m *Machine[S, C]) AddState(id S, cfg StateConfig[S, C]) error {
	m.opts.logger.Debug("add state", "state", label(id), "transitions", len(cfg.Transitions))

	if _, exists := m.states[id]; exists {
		return &DuplicateStateError{State: id}
	}
	if cfg.OnEnter == nil {
		return fmt.Errorf("state %q: %w", label(id), ErrNilAction)
	}

	cfg.Transitions = slices.Clone(cfg.Transitions)
	m.states[id] = cfg
	m.order = append(m.order, id)
	return nil
}

// Has reports whether id is registered.
func (m *Machine[S, C]) Has(id S) bool {
	_, ok := m.states[id]
	return ok
}

// Current returns the state whose action is running or ran last.
// Before Start it is the initial state.
func (m *Machine[S, C]) Current() S {
	return m.current
}

// Start runs the machine from the initial state until an action halts, and returns the final context.
//
// On failure Start returns the most recent context together with the error. Configuration defects
// are reported as *UndefinedStateError, *IllegalTransitionError or *TransitionLimitError;
// an error returned by an action is wrapped in *ActionError.
func (m *Machine[S, C]) Start(ctx context.Context, initial C) (C, error) {
	r := &run{
		id:      uuid.NewString(),
		started: m.opts.clock.Now(),
	}
	r.logger = m.opts.logger.With("run_id", r.id)
	r.logger.Debug("start", "state", label(m.current))

	if _, ok := m.states[m.current]; !ok {
		return initial, &UndefinedStateError{State: m.current, Role: RoleInitial}
	}

	ctx, span := m.startRunSpan(ctx, r)
	final, err := m.drive(ctx, r, m.current, initial)
	endSpan(span, err)

	event := &RunEvent{
		EventBase:   m.base(r, EventHalt),
		State:       label(m.current),
		Transitions: r.transitions,
		Duration:    m.opts.clock.Since(r.started),
		Err:         err,
	}
	if err != nil {
		event.Type = EventError
		r.logger.Debug("run failed", "state", event.State, "transitions", r.transitions, "err", err)
		m.opts.hooks.fail(ctx, event)
		return final, err
	}
	r.logger.Debug("halt", "state", event.State, "transitions", r.transitions)
	m.opts.hooks.halt(ctx, event)
	return final, nil
}

// run carries the bookkeeping of a single Start call.
type run struct {
	id          string
	logger      *slog.Logger
	started     time.Time
	step        int
	transitions int
}

// drive is the transition loop. The first iteration enters the initial state without an allow-list check.
func (m *Machine[S, C]) drive(ctx context.Context, r *run, target S, c C) (C, error) {
	initial := true
	for {
		if !initial {
			current, ok := m.states[m.current]
			if !ok {
				return c, &UndefinedStateError{State: m.current, Role: RoleCurrent}
			}
			if !current.allows(target) {
				return c, &IllegalTransitionError{From: m.current, To: target}
			}
		}

		cfg, ok := m.states[target]
		if !ok {
			if initial {
				return c, &UndefinedStateError{State: target, Role: RoleInitial}
			}
			return c, &UndefinedStateError{State: target, Role: RoleTarget, From: m.current}
		}

		if !initial {
			r.transitions++
			if limit := m.opts.maxTransitions; limit > 0 && r.transitions > limit {
				return c, &TransitionLimitError{Limit: limit, State: m.current}
			}
			r.logger.Debug("transition", "from", label(m.current), "to", label(target), "step", r.step+1)
			m.opts.hooks.transition(ctx, &TransitionEvent{
				EventBase: m.base(r, EventTransition),
				From:      label(m.current),
				To:        label(target),
			})
		}

		m.current = target
		out, err := m.enter(ctx, r, target, cfg, c)
		if err != nil {
			return c, &ActionError{State: target, Err: err}
		}

		next, ok := out.Next()
		if !ok {
			return out.Context(), nil
		}
		target, c = next, out.Context()
		initial = false
	}
}

// enter runs the entry action of id, wrapped in its span and enter/leave hooks.
func (m *Machine[S, C]) enter(ctx context.Context, r *run, id S, cfg StateConfig[S, C], c C) (Outcome[S, C], error) {
	r.step++
	name := label(id)

	ctx, span := m.startStateSpan(ctx, r, name)
	start := m.opts.clock.Now()
	m.opts.hooks.stateEnter(ctx, &StateEvent{
		EventBase: EventBase{Timestamp: start, Type: EventStateEnter, RunID: r.id, Step: r.step},
		State:     name,
	})

	out, err := cfg.OnEnter(ctx, c)

	elapsed := m.opts.clock.Since(start)
	m.opts.hooks.stateLeave(ctx, &StateEvent{
		EventBase: m.base(r, EventStateLeave),
		State:     name,
		Duration:  elapsed,
		Err:       err,
	})
	endSpan(span, err)
	return out, err
}

func (m *Machine[S, C]) base(r *run, t EventType) EventBase {
	return EventBase{
		Timestamp: m.opts.clock.Now(),
		Type:      t,
		RunID:     r.id,
		Step:      r.step,
	}
}

func label(v any) string {
	return fmt.Sprint(v)
}
