package fsm

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateState is matched by DuplicateStateError.
	ErrDuplicateState = errors.New("duplicate state")
	// ErrUndefinedState is matched by UndefinedStateError.
	ErrUndefinedState = errors.New("undefined state")
	// ErrIllegalTransition is matched by IllegalTransitionError.
	ErrIllegalTransition = errors.New("illegal transition")
	// ErrTransitionLimit is matched by TransitionLimitError.
	ErrTransitionLimit = errors.New("transition limit exceeded")
	// ErrUnreachableState is matched by UnreachableStateError.
	ErrUnreachableState = errors.New("unreachable state")
	// ErrNilAction is returned by AddState when the configuration has no entry action.
	ErrNilAction = errors.New("entry action is nil")
)

// Role tells which lookup failed when a state is undefined.
type Role string

const (
	RoleInitial Role = "initial" // Start targeted an unregistered initial state
	RoleCurrent Role = "current" // the current-state pointer names an unregistered state
	RoleTarget  Role = "target"  // an outcome (or allow-list entry) names an unregistered state
)

// DuplicateStateError is returned when a state identifier is registered twice.
type DuplicateStateError struct {
	State any
}

func (e *DuplicateStateError) Error() string {
	return fmt.Sprintf("state %q is already registered", fmt.Sprint(e.State))
}

func (e *DuplicateStateError) Is(target error) bool { return target == ErrDuplicateState }

// UndefinedStateError is returned when a lookup in the registry fails.
// From is set when the missing state was reached (or referenced) from another state.
type UndefinedStateError struct {
	State any
	Role  Role
	From  any
}

func (e *UndefinedStateError) Error() string {
	switch {
	case e.Role == RoleInitial:
		return fmt.Sprintf("initial state %q is not defined", fmt.Sprint(e.State))
	case e.Role == RoleCurrent:
		return fmt.Sprintf("current state %q is not defined", fmt.Sprint(e.State))
	case e.From != nil:
		return fmt.Sprintf("state %q (from %q) is not defined", fmt.Sprint(e.State), fmt.Sprint(e.From))
	default:
		return fmt.Sprintf("state %q is not defined", fmt.Sprint(e.State))
	}
}

func (e *UndefinedStateError) Is(target error) bool { return target == ErrUndefinedState }

// IllegalTransitionError is returned when an action asks for a state outside its allow-list.
type IllegalTransitionError struct {
	From any
	To   any
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition %q -> %q", fmt.Sprint(e.From), fmt.Sprint(e.To))
}

func (e *IllegalTransitionError) Is(target error) bool { return target == ErrIllegalTransition }

// TransitionLimitError is returned when a run exceeds the cap set with WithMaxTransitions.
type TransitionLimitError struct {
	Limit int
	State any
}

func (e *TransitionLimitError) Error() string {
	return fmt.Sprintf("transition limit %d exceeded in state %q", e.Limit, fmt.Sprint(e.State))
}

func (e *TransitionLimitError) Is(target error) bool { return target == ErrTransitionLimit }

// UnreachableStateError is reported by Validate for states no path from the initial state reaches.
type UnreachableStateError struct {
	State any
}

func (e *UnreachableStateError) Error() string {
	return fmt.Sprintf("state %q is unreachable from the initial state", fmt.Sprint(e.State))
}

func (e *UnreachableStateError) Is(target error) bool { return target == ErrUnreachableState }

// ActionError wraps an error returned by an entry action.
type ActionError struct {
	State any
	Err   error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("state %q: %v", fmt.Sprint(e.State), e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// GraphError aggregates the topology problems found by Validate.
type GraphError struct {
	Issues []error
}

func (e *GraphError) Error() string {
	if len(e.Issues) == 1 {
		return e.Issues[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d topology problems:", len(e.Issues))
	for i, issue := range e.Issues {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, issue.Error())
	}
	return b.String()
}

func (e *GraphError) Unwrap() []error { return e.Issues }
