/*
Package fsm implements a sequential finite-state machine.

A Machine is created with an initial state identifier, configured with one StateConfig per state
(an entry Action plus the allow-list of states it may hand control to) and then run with Start.
The driver invokes the entry action of the current state, validates the returned Outcome against
the allow-list, moves the current-state pointer and repeats until an action returns Halt.

# Contract

  - State identifiers are any comparable type and are registered exactly once.
  - The context value is opaque: the value returned by an action is the value handed to the next one.
  - The first entry into the initial state is not checked against any allow-list.
  - Reaching a state with no allowed transitions does not stop the machine; only Halt does.
  - At most one entry action runs at a time. The driver is a loop, so long runs do not grow the stack.

# Errors

Configuration defects surface as typed errors that match sentinels through errors.Is:

  - DuplicateStateError (ErrDuplicateState) from AddState.
  - UndefinedStateError (ErrUndefinedState) when the initial, current or target state is not registered.
  - IllegalTransitionError (ErrIllegalTransition) when an action names a state outside its allow-list.

Recoverable failures inside an action are expected to be recorded in the context and routed to an
error-handling state. An action may still return a Go error; the run then stops with an ActionError.

# Usage

	type light string

	m := fsm.New[light, int]("green")
	_ = m.AddState("green", fsm.StateConfig[light, int]{
		OnEnter: func(ctx context.Context, n int) (fsm.Outcome[light, int], error) {
			return fsm.Goto(light("red"), n+1), nil
		},
		Transitions: []light{"red"},
	})
	_ = m.AddState("red", fsm.StateConfig[light, int]{
		OnEnter: func(ctx context.Context, n int) (fsm.Outcome[light, int], error) {
			return fsm.Halt[light](n), nil
		},
	})
	n, err := m.Start(context.Background(), 0)
*/
package fsm
