package cli

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/sequent/internal/agent"
	"github.com/aretw0/sequent/internal/presentation/tui"
	httpAdapter "github.com/aretw0/sequent/pkg/adapters/http"
)

// ErrSessionFailed is returned when the agent halted in its Error state.
// The error has already been shown to the user by then.
var ErrSessionFailed = errors.New("session ended with an error")

// RunOptions tunes RunSession.
type RunOptions struct {
	Version string
	Quiet   bool // skip the banner
}

// RunSession drives the agent machine until it halts, serving the introspection
// endpoints alongside when an HTTP address is configured.
func RunSession(ctx context.Context, s *Session, opts RunOptions) (agent.Conversation, error) {
	if !opts.Quiet {
		tui.PrintBanner(s.IO.Out, opts.Version)
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, gctx := errgroup.WithContext(runCtx)

	if addr := s.Config.HTTP.Addr; addr != "" {
		handler := httpAdapter.NewHandler(s.HTTPOptions(opts.Version))
		g.Go(func() error {
			return httpAdapter.Serve(gctx, addr, handler, s.Logger)
		})
	}

	var final agent.Conversation
	g.Go(func() error {
		defer stop()
		var err error
		final, err = s.Machine.Start(gctx, s.InitialConversation())
		return err
	})

	if err := g.Wait(); err != nil {
		return final, err
	}
	s.Logger.Info("session finished", "state", s.Machine.Current(), "turns", final.Turns)
	if final.Err != nil {
		return final, fmt.Errorf("%w: %w", ErrSessionFailed, final.Err)
	}
	return final, nil
}
