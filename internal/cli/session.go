// Package cli wires configuration, adapters and the agent machine into runnable sessions.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/term"

	"github.com/aretw0/sequent/internal/agent"
	"github.com/aretw0/sequent/internal/config"
	"github.com/aretw0/sequent/internal/console"
	"github.com/aretw0/sequent/internal/logging"
	"github.com/aretw0/sequent/internal/presentation/graph"
	"github.com/aretw0/sequent/internal/presentation/tui"
	"github.com/aretw0/sequent/pkg/adapters/anthropic"
	httpAdapter "github.com/aretw0/sequent/pkg/adapters/http"
	"github.com/aretw0/sequent/pkg/adapters/weather"
	"github.com/aretw0/sequent/pkg/fsm"
	"github.com/aretw0/sequent/pkg/observability"
	"github.com/aretw0/sequent/pkg/registry"
)

const defaultWrapWidth = 100

// IO holds the streams of a session. Nil fields default to the process streams.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

func (s IO) withDefaults() IO {
	if s.In == nil {
		s.In = os.Stdin
	}
	if s.Out == nil {
		s.Out = os.Stdout
	}
	if s.Err == nil {
		s.Err = os.Stderr
	}
	return s
}

// Session holds the wired components of one agent run.
type Session struct {
	Config   config.Config
	Logger   *slog.Logger
	IO       IO
	Console  *console.Terminal
	Registry *registry.Registry
	Metrics  *observability.Metrics
	Gatherer prometheus.Gatherer
	Tracker  *graph.Tracker
	Streams  *httpAdapter.StreamManager
	Agent    *agent.Agent
	Machine  *fsm.Machine[agent.State, agent.Conversation]
}

// NewSession validates cfg and builds every component. A missing API key is not an error:
// the machine starts without a chat client and Initialize reports it.
func NewSession(cfg config.Config, stdio IO) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	stdio = stdio.withDefaults()

	level, _ := logging.ParseLevel(cfg.Log.Level)
	format, _ := logging.ParseFormat(cfg.Log.Format)
	logger := logging.New(stdio.Err, level, format)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Session{
		Config:   cfg,
		Logger:   logger,
		IO:       stdio,
		Metrics:  observability.NewMetrics(reg),
		Gatherer: reg,
		Tracker:  graph.NewTracker(),
		Streams:  httpAdapter.NewStreamManager(logger),
	}

	s.Console = console.NewTerminal(stdio.In, stdio.Out, console.WithRenderer(rendererFor(stdio.Out)))

	s.Registry = registry.NewRegistry(registry.WithObserver(s.Metrics))
	if err := s.registerTools(); err != nil {
		return nil, err
	}

	client, err := s.chatClient()
	if err != nil {
		return nil, err
	}

	opts := []agent.Option{
		agent.WithTools(s.Registry),
		agent.WithLogger(logger),
		agent.WithDebug(cfg.Agent.Debug),
		agent.WithMaxEmptyPrompts(cfg.Agent.MaxEmptyPrompts),
		agent.WithMaxToolRounds(cfg.Agent.MaxToolRounds),
	}
	if len(cfg.Agent.QuitWords) > 0 {
		opts = append(opts, agent.WithQuitWords(cfg.Agent.QuitWords...))
	}
	s.Agent = agent.New(s.Console, client, opts...)

	s.Machine, err = s.Agent.NewMachine(
		fsm.WithLogger(logger),
		fsm.WithMaxTransitions(cfg.Agent.MaxTransitions),
		fsm.WithHooks(observability.LoggingHooks(logger)),
		fsm.WithHooks(s.Metrics.Hooks()),
		fsm.WithHooks(s.Tracker.Hooks()),
		fsm.WithHooks(s.Streams.Hooks()),
	)
	if err != nil {
		return nil, fmt.Errorf("build agent machine: %w", err)
	}
	return s, nil
}

// rendererFor uses glamour only when out is a terminal.
func rendererFor(out io.Writer) tui.Renderer {
	f, ok := out.(*os.File)
	if !ok || !console.IsTerminal(f) {
		return tui.PlainRenderer
	}
	width := defaultWrapWidth
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 && w < width {
		width = w
	}
	return tui.NewRenderer(width)
}

func (s *Session) registerTools() error {
	w := s.Config.Weather
	if !w.Enabled {
		return nil
	}
	wc := weather.New(
		weather.WithBaseURL(w.BaseURL),
		weather.WithUserAgent(w.UserAgent),
		weather.WithLogger(s.Logger),
	)
	if err := s.Registry.Register(weather.Tool(), weather.Handler(wc)); err != nil {
		return fmt.Errorf("register weather tool: %w", err)
	}
	return nil
}

// chatClient returns a nil interface (not a typed nil) when no API key is configured.
func (s *Session) chatClient() (agent.ChatClient, error) {
	a := s.Config.Anthropic
	client, err := anthropic.New(a.APIKey,
		anthropic.WithBaseURL(a.BaseURL),
		anthropic.WithLogger(s.Logger),
	)
	if errors.Is(err, anthropic.ErrMissingAPIKey) {
		s.Logger.Debug("ANTHROPIC_API_KEY is not set")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("chat client: %w", err)
	}
	return client, nil
}

// InitialConversation is the context the machine starts with.
func (s *Session) InitialConversation() agent.Conversation {
	return agent.Conversation{
		Model:     s.Config.Anthropic.Model,
		MaxTokens: s.Config.Anthropic.MaxTokens,
		System:    s.Config.Anthropic.System,
	}
}

// HTTPOptions exposes this session on the introspection HTTP handler.
func (s *Session) HTTPOptions(version string) httpAdapter.Options {
	return httpAdapter.Options{
		Version:  version,
		Graph:    s.Machine.Describe,
		Overlay:  s.Tracker.Overlay,
		Gatherer: s.Gatherer,
		Streams:  s.Streams,
		Logger:   s.Logger,
	}
}
