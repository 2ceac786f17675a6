package graph

import (
	"context"
	"sync"

	"github.com/aretw0/sequent/pkg/fsm"
)

// Tracker records which states a run has entered, for rendering an Overlay while the run is live.
// It is safe for concurrent use: hooks fire on the machine goroutine while readers poll Overlay.
type Tracker struct {
	mu      sync.RWMutex
	visited []string
	current string
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Hooks returns the machine hooks that feed the tracker.
func (t *Tracker) Hooks() fsm.Hooks {
	return fsm.Hooks{
		OnStateEnter: func(_ context.Context, e *fsm.StateEvent) {
			t.mu.Lock()
			defer t.mu.Unlock()
			t.visited = append(t.visited, e.State)
			t.current = e.State
		},
	}
}

// Overlay returns a snapshot of the visited states in entry order and the current state.
func (t *Tracker) Overlay() *Overlay {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return &Overlay{
		Visited: append([]string(nil), t.visited...),
		Current: t.current,
	}
}
