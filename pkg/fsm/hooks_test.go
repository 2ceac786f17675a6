package fsm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sequent/pkg/fsm"
)

func TestHooks_EventOrder(t *testing.T) {
	mock := clock.NewMock()
	var events []string
	var leaves []*fsm.StateEvent
	var halted *fsm.RunEvent

	hooks := fsm.Hooks{
		OnStateEnter: func(_ context.Context, e *fsm.StateEvent) {
			events = append(events, "enter:"+e.State)
		},
		OnStateLeave: func(_ context.Context, e *fsm.StateEvent) {
			events = append(events, "leave:"+e.State)
			leaves = append(leaves, e)
		},
		OnTransition: func(_ context.Context, e *fsm.TransitionEvent) {
			events = append(events, "transition:"+e.From+"->"+e.To)
		},
		OnHalt: func(_ context.Context, e *fsm.RunEvent) {
			events = append(events, "halt:"+e.State)
			halted = e
		},
		OnError: func(_ context.Context, e *fsm.RunEvent) {
			t.Errorf("unexpected error event: %v", e.Err)
		},
	}

	m := fsm.New[state, string](stateA, fsm.WithHooks(hooks), fsm.WithClock(mock))
	require.NoError(t, m.AddState(stateA, fsm.StateConfig[state, string]{
		OnEnter: func(ctx context.Context, c string) (fsm.Outcome[state, string], error) {
			mock.Add(2 * time.Second)
			return fsm.Goto(stateB, c), nil
		},
		Transitions: []state{stateB},
	}))
	require.NoError(t, m.AddState(stateB, fsm.StateConfig[state, string]{
		OnEnter: func(ctx context.Context, c string) (fsm.Outcome[state, string], error) {
			mock.Add(time.Second)
			return fsm.Halt[state](c), nil
		},
	}))

	_, err := m.Start(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"enter:A", "leave:A",
		"transition:A->B",
		"enter:B", "leave:B",
		"halt:B",
	}, events)

	require.Len(t, leaves, 2)
	assert.Equal(t, 2*time.Second, leaves[0].Duration)
	assert.Equal(t, time.Second, leaves[1].Duration)
	assert.Equal(t, 1, leaves[0].Step)
	assert.Equal(t, 2, leaves[1].Step)

	require.NotNil(t, halted)
	assert.Equal(t, fsm.EventHalt, halted.Type)
	assert.Equal(t, 1, halted.Transitions)
	assert.Equal(t, 3*time.Second, halted.Duration)
	assert.NotEmpty(t, halted.RunID)
	assert.Equal(t, leaves[0].RunID, halted.RunID)
}

func TestHooks_ErrorEvent(t *testing.T) {
	boom := errors.New("boom")
	var failed *fsm.RunEvent
	var leave *fsm.StateEvent

	m := fsm.New[state, string](stateA, fsm.WithHooks(fsm.Hooks{
		OnStateLeave: func(_ context.Context, e *fsm.StateEvent) { leave = e },
		OnHalt: func(_ context.Context, e *fsm.RunEvent) {
			t.Error("halt must not fire on failure")
		},
		OnError: func(_ context.Context, e *fsm.RunEvent) { failed = e },
	}))
	require.NoError(t, m.AddState(stateA, fsm.StateConfig[state, string]{
		OnEnter: func(ctx context.Context, c string) (fsm.Outcome[state, string], error) {
			return fsm.Outcome[state, string]{}, boom
		},
	}))

	_, err := m.Start(context.Background(), "")
	require.Error(t, err)

	require.NotNil(t, leave)
	assert.ErrorIs(t, leave.Err, boom)

	require.NotNil(t, failed)
	assert.Equal(t, fsm.EventError, failed.Type)
	assert.Equal(t, "A", failed.State)
	assert.ErrorIs(t, failed.Err, boom)
}

func TestComposeHooks(t *testing.T) {
	var calls []string
	first := fsm.Hooks{OnHalt: func(context.Context, *fsm.RunEvent) { calls = append(calls, "first") }}
	second := fsm.Hooks{OnHalt: func(context.Context, *fsm.RunEvent) { calls = append(calls, "second") }}

	composed := fsm.ComposeHooks(first, fsm.Hooks{}, second)
	assert.Nil(t, composed.OnStateEnter)
	require.NotNil(t, composed.OnHalt)

	composed.OnHalt(context.Background(), &fsm.RunEvent{})
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestWithHooks_Composes(t *testing.T) {
	var calls []string
	m := fsm.New[state, string](stateA,
		fsm.WithHooks(fsm.Hooks{OnHalt: func(context.Context, *fsm.RunEvent) { calls = append(calls, "one") }}),
		fsm.WithHooks(fsm.Hooks{OnHalt: func(context.Context, *fsm.RunEvent) { calls = append(calls, "two") }}),
	)
	require.NoError(t, m.AddState(stateA, fsm.StateConfig[state, string]{
		OnEnter: func(ctx context.Context, c string) (fsm.Outcome[state, string], error) {
			return fsm.Halt[state](c), nil
		},
	}))

	_, err := m.Start(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, calls)
}
