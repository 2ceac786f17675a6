package http

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sequent/pkg/fsm"
)

func TestStreamManager_FilterAndUnsubscribe(t *testing.T) {
	sm := NewStreamManager(nil)

	all, cancelAll := sm.Subscribe()
	halts, cancelHalts := sm.Subscribe(fsm.EventHalt, fsm.EventError)

	sm.Broadcast(Message{Type: fsm.EventTransition, Data: []byte(`{}`)})
	sm.Broadcast(Message{Type: fsm.EventHalt, Data: []byte(`{}`)})

	assert.Equal(t, fsm.EventTransition, (<-all).Type)
	assert.Equal(t, fsm.EventHalt, (<-all).Type)
	assert.Equal(t, fsm.EventHalt, (<-halts).Type)
	assert.Empty(t, halts)

	cancelAll()
	cancelAll()
	_, open := <-all
	assert.False(t, open)
	assert.Equal(t, 1, sm.Subscribers())
	cancelHalts()
	assert.Zero(t, sm.Subscribers())
}

func TestStreamManager_DropsWhenFull(t *testing.T) {
	sm := NewStreamManager(nil)
	ch, cancel := sm.Subscribe()
	defer cancel()

	for range subscriberBuffer + 5 {
		sm.Broadcast(Message{Type: fsm.EventStateEnter})
	}
	assert.Len(t, ch, subscriberBuffer)
}

func TestStreamManager_HooksEncodeErrors(t *testing.T) {
	sm := NewStreamManager(nil)
	ch, cancel := sm.Subscribe(fsm.EventError)
	defer cancel()

	sm.Hooks().OnError(context.Background(), &fsm.RunEvent{
		EventBase:   fsm.EventBase{Type: fsm.EventError, RunID: "r1"},
		State:       "AgentProcess",
		Transitions: 2,
		Err:         errors.New("boom"),
	})

	msg := <-ch
	var got map[string]any
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, "boom", got["error"])
	assert.Equal(t, "AgentProcess", got["state"])
	assert.EqualValues(t, 2, got["transitions"])
}
