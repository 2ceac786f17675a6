package fsm

import (
	"context"
	"time"
)

// EventType defines the category of an engine event.
type EventType string

const (
	EventStateEnter EventType = "state_enter"
	EventStateLeave EventType = "state_leave"
	EventTransition EventType = "transition"
	EventHalt       EventType = "halt"
	EventError      EventType = "error"
)

// EventBase contains the fields shared by all events.
// State identifiers are rendered with fmt.Sprint so hooks stay independent of the machine's type parameters.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
	Step      int       `json:"step"`
}

// StateEvent is emitted around each entry action.
// Duration and Err are only set on leave.
type StateEvent struct {
	EventBase
	State    string        `json:"state"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// TransitionEvent is emitted once a transition passed validation, before the target is entered.
type TransitionEvent struct {
	EventBase
	From string `json:"from"`
	To   string `json:"to"`
}

// RunEvent is emitted when a run ends, by halting or with an error.
type RunEvent struct {
	EventBase
	State       string        `json:"state"`
	Transitions int           `json:"transitions"`
	Duration    time.Duration `json:"duration"`
	Err         error         `json:"-"`
}

// Hooks defines callbacks for engine observability. Nil callbacks are skipped.
// Hooks run synchronously on the driver's goroutine.
type Hooks struct {
	OnStateEnter func(context.Context, *StateEvent)
	OnStateLeave func(context.Context, *StateEvent)
	OnTransition func(context.Context, *TransitionEvent)
	OnHalt       func(context.Context, *RunEvent)
	OnError      func(context.Context, *RunEvent)
}

// ComposeHooks returns Hooks that call every non-nil callback of hs in order.
func ComposeHooks(hs ...Hooks) Hooks {
	var out Hooks
	for _, h := range hs {
		out.OnStateEnter = chain(out.OnStateEnter, h.OnStateEnter)
		out.OnStateLeave = chain(out.OnStateLeave, h.OnStateLeave)
		out.OnTransition = chain(out.OnTransition, h.OnTransition)
		out.OnHalt = chain(out.OnHalt, h.OnHalt)
		out.OnError = chain(out.OnError, h.OnError)
	}
	return out
}

func chain[E any](first, second func(context.Context, E)) func(context.Context, E) {
	switch {
	case first == nil:
		return second
	case second == nil:
		return first
	}
	return func(ctx context.Context, e E) {
		first(ctx, e)
		second(ctx, e)
	}
}

func (h Hooks) stateEnter(ctx context.Context, e *StateEvent) {
	if h.OnStateEnter != nil {
		h.OnStateEnter(ctx, e)
	}
}

func (h Hooks) stateLeave(ctx context.Context, e *StateEvent) {
	if h.OnStateLeave != nil {
		h.OnStateLeave(ctx, e)
	}
}

func (h Hooks) transition(ctx context.Context, e *TransitionEvent) {
	if h.OnTransition != nil {
		h.OnTransition(ctx, e)
	}
}

func (h Hooks) halt(ctx context.Context, e *RunEvent) {
	if h.OnHalt != nil {
		h.OnHalt(ctx, e)
	}
}

func (h Hooks) fail(ctx context.Context, e *RunEvent) {
	if h.OnError != nil {
		h.OnError(ctx, e)
	}
}
