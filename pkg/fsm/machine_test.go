package fsm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sequent/pkg/fsm"
)

type state string

const (
	stateA state = "A"
	stateB state = "B"
	stateC state = "C"
)

type counter struct {
	count int
}

// recorder counts entry-action invocations per state.
type recorder map[state]int

func (r recorder) halt(id state) fsm.Action[state, string] {
	return func(ctx context.Context, c string) (fsm.Outcome[state, string], error) {
		r[id]++
		return fsm.Halt[state](c), nil
	}
}

func (r recorder) goTo(id, next state, c string) fsm.Action[state, string] {
	return func(ctx context.Context, _ string) (fsm.Outcome[state, string], error) {
		r[id]++
		return fsm.Goto(next, c), nil
	}
}

func TestMachine_StartUndefinedInitialState(t *testing.T) {
	calls := recorder{}
	m := fsm.New[state, string](stateA, fsm.WithLogger(slogt.New(t)))
	require.NoError(t, m.AddState(stateB, fsm.StateConfig[state, string]{OnEnter: calls.halt(stateB)}))

	final, err := m.Start(context.Background(), "initial")

	require.Error(t, err)
	assert.ErrorIs(t, err, fsm.ErrUndefinedState)

	var undefined *fsm.UndefinedStateError
	require.ErrorAs(t, err, &undefined)
	assert.Equal(t, stateA, undefined.State)
	assert.Equal(t, fsm.RoleInitial, undefined.Role)
	assert.Equal(t, "initial", final)
	assert.Empty(t, calls, "no entry action may run")
}

func TestMachine_AddStateDuplicate(t *testing.T) {
	calls := recorder{}
	m := fsm.New[state, string](stateA)

	require.NoError(t, m.AddState(stateA, fsm.StateConfig[state, string]{OnEnter: calls.halt(stateA)}))

	err := m.AddState(stateA, fsm.StateConfig[state, string]{
		OnEnter: func(ctx context.Context, c string) (fsm.Outcome[state, string], error) {
			t.Fatal("second registration must not replace the first")
			return fsm.Halt[state](c), nil
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, fsm.ErrDuplicateState)

	var dup *fsm.DuplicateStateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, stateA, dup.State)

	final, err := m.Start(context.Background(), "kept")
	require.NoError(t, err)
	assert.Equal(t, "kept", final)
	assert.Equal(t, 1, calls[stateA])
}

func TestMachine_AddStateNilAction(t *testing.T) {
	m := fsm.New[state, string](stateA)
	err := m.AddState(stateA, fsm.StateConfig[state, string]{})
	assert.ErrorIs(t, err, fsm.ErrNilAction)
	assert.False(t, m.Has(stateA))
}

func TestMachine_IllegalTransition(t *testing.T) {
	calls := recorder{}
	m := fsm.New[state, string](stateA)
	require.NoError(t, m.AddState(stateA, fsm.StateConfig[state, string]{
		OnEnter:     calls.goTo(stateA, stateC, "from A"),
		Transitions: []state{stateB},
	}))
	require.NoError(t, m.AddState(stateB, fsm.StateConfig[state, string]{OnEnter: calls.halt(stateB)}))
	require.NoError(t, m.AddState(stateC, fsm.StateConfig[state, string]{OnEnter: calls.halt(stateC)}))

	final, err := m.Start(context.Background(), "start")

	require.Error(t, err)
	assert.ErrorIs(t, err, fsm.ErrIllegalTransition)

	var illegal *fsm.IllegalTransitionError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, stateA, illegal.From)
	assert.Equal(t, stateC, illegal.To)
	assert.Equal(t, `illegal transition "A" -> "C"`, err.Error())

	assert.Equal(t, 1, calls[stateA])
	assert.Zero(t, calls[stateC], "the illegal target must not run")
	assert.Equal(t, stateA, m.Current())
	assert.Equal(t, "from A", final)
}

func TestMachine_ContextHandoff(t *testing.T) {
	type payload struct {
		items []string
	}

	original := &payload{items: []string{"original"}}
	replacement := &payload{items: []string{"replacement"}}
	var received *payload

	m := fsm.New[state, *payload](stateA)
	require.NoError(t, m.AddState(stateA, fsm.StateConfig[state, *payload]{
		OnEnter: func(ctx context.Context, p *payload) (fsm.Outcome[state, *payload], error) {
			assert.Same(t, original, p)
			return fsm.Goto(stateB, replacement), nil
		},
		Transitions: []state{stateB},
	}))
	require.NoError(t, m.AddState(stateB, fsm.StateConfig[state, *payload]{
		OnEnter: func(ctx context.Context, p *payload) (fsm.Outcome[state, *payload], error) {
			received = p
			return fsm.Halt[state](p), nil
		},
	}))

	final, err := m.Start(context.Background(), original)
	require.NoError(t, err)

	assert.Same(t, replacement, received, "B must receive exactly the value A returned")
	assert.Same(t, replacement, final)
	assert.Equal(t, []string{"original"}, original.items)
}

func TestMachine_ImmediateHalt(t *testing.T) {
	calls := recorder{}
	m := fsm.New[state, string](stateA)
	require.NoError(t, m.AddState(stateA, fsm.StateConfig[state, string]{
		OnEnter: func(ctx context.Context, c string) (fsm.Outcome[state, string], error) {
			calls[stateA]++
			return fsm.Halt[state](c + " done"), nil
		},
		Transitions: []state{stateB},
	}))
	require.NoError(t, m.AddState(stateB, fsm.StateConfig[state, string]{OnEnter: calls.halt(stateB)}))

	final, err := m.Start(context.Background(), "run")

	require.NoError(t, err)
	assert.Equal(t, "run done", final)
	assert.Equal(t, recorder{stateA: 1}, calls)
	assert.Equal(t, stateA, m.Current(), "pointer is set before the first action")
}

func TestMachine_SelfTransitionLoop(t *testing.T) {
	invocations := 0
	m := fsm.New[state, counter](stateA)
	require.NoError(t, m.AddState(stateA, fsm.StateConfig[state, counter]{
		OnEnter: func(ctx context.Context, c counter) (fsm.Outcome[state, counter], error) {
			invocations++
			if c.count < 3 {
				return fsm.Goto(stateA, counter{count: c.count + 1}), nil
			}
			return fsm.Halt[state](c), nil
		},
		Transitions: []state{stateA},
	}))

	final, err := m.Start(context.Background(), counter{count: 0})

	require.NoError(t, err)
	assert.Equal(t, counter{count: 3}, final)
	assert.Equal(t, 4, invocations)
}

func TestMachine_TwoStateScenario(t *testing.T) {
	calls := recorder{}
	m := fsm.New[state, string](stateA)
	require.NoError(t, m.AddState(stateA, fsm.StateConfig[state, string]{
		OnEnter:     calls.goTo(stateA, stateB, "X"),
		Transitions: []state{stateB},
	}))
	require.NoError(t, m.AddState(stateB, fsm.StateConfig[state, string]{
		OnEnter: func(ctx context.Context, c string) (fsm.Outcome[state, string], error) {
			calls[stateB]++
			assert.Equal(t, "X", c)
			return fsm.Halt[state]("Y"), nil
		},
	}))

	final, err := m.Start(context.Background(), "initial")
	require.NoError(t, err)
	assert.Equal(t, "Y", final)
	assert.Equal(t, stateB, m.Current())

	err = m.AddState(stateA, fsm.StateConfig[state, string]{OnEnter: calls.halt(stateA)})
	assert.ErrorIs(t, err, fsm.ErrDuplicateState)
}

func TestMachine_AllowedButUnregisteredTarget(t *testing.T) {
	calls := recorder{}
	m := fsm.New[state, string](stateA)
	require.NoError(t, m.AddState(stateA, fsm.StateConfig[state, string]{
		OnEnter:     calls.goTo(stateA, stateC, "to C"),
		Transitions: []state{stateB, stateC},
	}))
	require.NoError(t, m.AddState(stateB, fsm.StateConfig[state, string]{OnEnter: calls.halt(stateB)}))

	_, err := m.Start(context.Background(), "start")

	require.Error(t, err)
	assert.ErrorIs(t, err, fsm.ErrUndefinedState)
	assert.NotErrorIs(t, err, fsm.ErrIllegalTransition)

	var undefined *fsm.UndefinedStateError
	require.ErrorAs(t, err, &undefined)
	assert.Equal(t, stateC, undefined.State)
	assert.Equal(t, fsm.RoleTarget, undefined.Role)
	assert.Equal(t, stateA, undefined.From)
}

func TestMachine_ActionError(t *testing.T) {
	boom := errors.New("boom")
	m := fsm.New[state, string](stateA)
	require.NoError(t, m.AddState(stateA, fsm.StateConfig[state, string]{
		OnEnter: func(ctx context.Context, c string) (fsm.Outcome[state, string], error) {
			return fsm.Outcome[state, string]{}, boom
		},
	}))

	final, err := m.Start(context.Background(), "before")

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var actionErr *fsm.ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, stateA, actionErr.State)
	assert.Equal(t, "before", final)
}

func TestMachine_TransitionsRegistryIsCopied(t *testing.T) {
	allowed := []state{stateB}
	m := fsm.New[state, string](stateA)
	require.NoError(t, m.AddState(stateA, fsm.StateConfig[state, string]{
		OnEnter: func(ctx context.Context, c string) (fsm.Outcome[state, string], error) {
			return fsm.Goto(stateB, c), nil
		},
		Transitions: allowed,
	}))
	require.NoError(t, m.AddState(stateB, fsm.StateConfig[state, string]{
		OnEnter: func(ctx context.Context, c string) (fsm.Outcome[state, string], error) {
			return fsm.Halt[state](c), nil
		},
	}))

	allowed[0] = stateC

	_, err := m.Start(context.Background(), "")
	assert.NoError(t, err)
}

func TestMachine_MaxTransitions(t *testing.T) {
	invocations := 0
	m := fsm.New[state, counter](stateA, fsm.WithMaxTransitions(2))
	require.NoError(t, m.AddState(stateA, fsm.StateConfig[state, counter]{
		OnEnter: func(ctx context.Context, c counter) (fsm.Outcome[state, counter], error) {
			invocations++
			return fsm.Goto(stateA, counter{count: c.count + 1}), nil
		},
		Transitions: []state{stateA},
	}))

	final, err := m.Start(context.Background(), counter{})

	require.Error(t, err)
	assert.ErrorIs(t, err, fsm.ErrTransitionLimit)
	assert.Equal(t, 3, invocations, "initial entry plus two transitions")
	assert.Equal(t, counter{count: 3}, final)
}

func TestMachine_ForwardsContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "value")

	m := fsm.New[state, string](stateA)
	require.NoError(t, m.AddState(stateA, fsm.StateConfig[state, string]{
		OnEnter: func(ctx context.Context, c string) (fsm.Outcome[state, string], error) {
			v, _ := ctx.Value(key{}).(string)
			return fsm.Halt[state](v), nil
		},
	}))

	final, err := m.Start(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "value", final)
}

func TestOutcome(t *testing.T) {
	var zero fsm.Outcome[state, int]
	assert.True(t, zero.Halted())

	halt := fsm.Halt[state](7)
	next, ok := halt.Next()
	assert.False(t, ok)
	assert.Equal(t, state(""), next)
	assert.Equal(t, 7, halt.Context())

	move := fsm.Goto(stateB, 9)
	next, ok = move.Next()
	assert.True(t, ok)
	assert.Equal(t, stateB, next)
	assert.Equal(t, 9, move.Context())
	assert.False(t, move.Halted())
}
