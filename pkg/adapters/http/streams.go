package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/aretw0/sequent/pkg/fsm"
)

// subscriberBuffer is the per-client backlog; further events are dropped for slow clients.
const subscriberBuffer = 16

// Message is one server-sent event.
type Message struct {
	Type fsm.EventType
	Data []byte
}

type subscriber struct {
	ch    chan Message
	watch []fsm.EventType
}

// StreamManager fans machine events out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates an empty manager. logger may be nil.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &StreamManager{
		subscribers: make(map[*subscriber]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a subscriber for the given event types (all when empty).
// The returned func unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(watch ...fsm.EventType) (<-chan Message, func()) {
	sub := &subscriber{ch: make(chan Message, subscriberBuffer), watch: watch}

	sm.mu.Lock()
	sm.subscribers[sub] = struct{}{}
	sm.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.subscribers, sub)
			close(sub.ch)
		})
	}
}

// Subscribers returns the number of active subscribers.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// Broadcast sends msg to every interested subscriber without blocking.
func (sm *StreamManager) Broadcast(msg Message) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for sub := range sm.subscribers {
		if len(sub.watch) > 0 && !slices.Contains(sub.watch, msg.Type) {
			continue
		}
		select {
		case sub.ch <- msg:
		default:
			sm.logger.Warn("sse: client buffer full, dropping event", "type", msg.Type)
		}
	}
}

// Hooks returns machine hooks that broadcast every event as JSON.
func (sm *StreamManager) Hooks() fsm.Hooks {
	return fsm.Hooks{
		OnStateEnter: func(_ context.Context, e *fsm.StateEvent) { sm.publish(e.Type, e) },
		OnStateLeave: func(_ context.Context, e *fsm.StateEvent) { sm.publish(e.Type, stateLeave{e, errString(e.Err)}) },
		OnTransition: func(_ context.Context, e *fsm.TransitionEvent) { sm.publish(e.Type, e) },
		OnHalt:       func(_ context.Context, e *fsm.RunEvent) { sm.publish(e.Type, e) },
		OnError:      func(_ context.Context, e *fsm.RunEvent) { sm.publish(e.Type, runError{e, errString(e.Err)}) },
	}
}

type stateLeave struct {
	*fsm.StateEvent
	Error string `json:"error,omitempty"`
}

type runError struct {
	*fsm.RunEvent
	Error string `json:"error,omitempty"`
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func (sm *StreamManager) publish(t fsm.EventType, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		sm.logger.Error("sse: encode event", "type", t, "err", err)
		return
	}
	sm.Broadcast(Message{Type: t, Data: data})
}
