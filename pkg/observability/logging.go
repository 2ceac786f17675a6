package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/sequent/pkg/fsm"
)

// LoggingHooks returns machine hooks that write one structured record per event.
// Entries and transitions are logged at Debug, run completion at Info and failures at Error.
func LoggingHooks(logger *slog.Logger) fsm.Hooks {
	return fsm.Hooks{
		OnStateEnter: func(ctx context.Context, e *fsm.StateEvent) {
			logger.DebugContext(ctx, "state_enter", "run_id", e.RunID, "state", e.State, "step", e.Step)
		},
		OnStateLeave: func(ctx context.Context, e *fsm.StateEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "state_leave", "run_id", e.RunID, "state", e.State, "duration", e.Duration, "err", e.Err)
				return
			}
			logger.DebugContext(ctx, "state_leave", "run_id", e.RunID, "state", e.State, "duration", e.Duration)
		},
		OnTransition: func(ctx context.Context, e *fsm.TransitionEvent) {
			logger.DebugContext(ctx, "transition", "run_id", e.RunID, "from", e.From, "to", e.To)
		},
		OnHalt: func(ctx context.Context, e *fsm.RunEvent) {
			logger.InfoContext(ctx, "halt",
				"run_id", e.RunID,
				"state", e.State,
				"transitions", e.Transitions,
				"duration", e.Duration,
			)
		},
		OnError: func(ctx context.Context, e *fsm.RunEvent) {
			logger.ErrorContext(ctx, "run failed",
				"run_id", e.RunID,
				"state", e.State,
				"transitions", e.Transitions,
				"err", e.Err,
			)
		},
	}
}
