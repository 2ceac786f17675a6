package fsm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sequent/pkg/fsm"
)

func haltAction(ctx context.Context, c string) (fsm.Outcome[state, string], error) {
	return fsm.Halt[state](c), nil
}

func TestDescribe(t *testing.T) {
	m := fsm.New[state, string](stateA)
	require.NoError(t, m.AddState(stateB, fsm.StateConfig[state, string]{OnEnter: haltAction}))
	require.NoError(t, m.AddState(stateA, fsm.StateConfig[state, string]{
		OnEnter:     haltAction,
		Transitions: []state{stateB, stateA},
	}))

	assert.Equal(t, []fsm.StateInfo{
		{ID: "B", Transitions: []string{}, Terminal: true},
		{ID: "A", Transitions: []string{"B", "A"}, Initial: true},
	}, m.Describe())
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		m := fsm.New[state, string](stateA)
		require.NoError(t, m.AddState(stateA, fsm.StateConfig[state, string]{OnEnter: haltAction, Transitions: []state{stateB}}))
		require.NoError(t, m.AddState(stateB, fsm.StateConfig[state, string]{OnEnter: haltAction}))
		assert.NoError(t, m.Validate())
	})

	t.Run("undefined initial", func(t *testing.T) {
		m := fsm.New[state, string](stateC)
		require.NoError(t, m.AddState(stateA, fsm.StateConfig[state, string]{OnEnter: haltAction}))

		err := m.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, fsm.ErrUndefinedState)
		assert.ErrorIs(t, err, fsm.ErrUnreachableState)
	})

	t.Run("dangling target and unreachable state", func(t *testing.T) {
		m := fsm.New[state, string](stateA)
		require.NoError(t, m.AddState(stateA, fsm.StateConfig[state, string]{OnEnter: haltAction, Transitions: []state{stateC}}))
		require.NoError(t, m.AddState(stateB, fsm.StateConfig[state, string]{OnEnter: haltAction}))

		err := m.Validate()
		var graphErr *fsm.GraphError
		require.True(t, errors.As(err, &graphErr))
		require.Len(t, graphErr.Issues, 2)

		var undefined *fsm.UndefinedStateError
		require.ErrorAs(t, graphErr.Issues[0], &undefined)
		assert.Equal(t, stateC, undefined.State)
		assert.Equal(t, stateA, undefined.From)

		var unreachable *fsm.UnreachableStateError
		require.ErrorAs(t, graphErr.Issues[1], &unreachable)
		assert.Equal(t, stateB, unreachable.State)

		assert.Contains(t, err.Error(), "2 topology problems")
	})
}
