package agent

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/sequent/pkg/chat"
	"github.com/aretw0/sequent/pkg/fsm"
)

var (
	// ErrNoClient is recorded by Initialize when no chat client is configured.
	ErrNoClient = errors.New("chat client is not initialized")
	// ErrNoModel is recorded by Initialize when the conversation has no model.
	ErrNoModel = errors.New("no model configured")
	// ErrEmptyInput is recorded by AgentProcess when there is no user input to send.
	ErrEmptyInput = errors.New("user input is empty, cannot continue conversation")
	// ErrEmptyResponse is recorded when the model returns no content.
	ErrEmptyResponse = errors.New("model response has no content")
	// ErrToolRoundsExceeded is recorded when the model keeps asking for tools past the configured limit.
	ErrToolRoundsExceeded = errors.New("tool rounds exceeded")
)

// DefaultQuitWords end the session when typed at the prompt (case-insensitive).
var DefaultQuitWords = []string{"q", "quit", "exit"}

const (
	DefaultMaxEmptyPrompts = 3
	DefaultMaxToolRounds   = 5
)

// Console is the user-facing side of the loop.
type Console interface {
	// ReadInput returns one trimmed line, "" for a blank line, and io.EOF when input is exhausted.
	ReadInput(ctx context.Context) (string, error)
	Reply(text string)
	Notice(format string, args ...any)
	Warn(format string, args ...any)
	Error(err error)
}

// ChatClient sends a conversation to a chat model.
type ChatClient interface {
	Complete(ctx context.Context, req chat.Request) (*chat.Response, error)
}

// Tools is the tool registry the model may call.
type Tools interface {
	ChatTools() ([]chat.Tool, error)
	Execute(ctx context.Context, name string, args map[string]any) (any, error)
}

// Agent holds the collaborators of the state actions.
type Agent struct {
	console Console
	client  ChatClient
	tools   Tools
	logger  *slog.Logger

	debug           bool
	quitWords       []string
	maxEmptyPrompts int
	maxToolRounds   int
}

// Option configures an Agent.
type Option func(*Agent)

// WithTools lets the model call the given tools.
func WithTools(t Tools) Option {
	return func(a *Agent) {
		a.tools = t
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Agent) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithDebug routes every reply through DisplayCurrentState.
func WithDebug(debug bool) Option {
	return func(a *Agent) {
		a.debug = debug
	}
}

// WithQuitWords replaces DefaultQuitWords.
func WithQuitWords(words ...string) Option {
	return func(a *Agent) {
		a.quitWords = words
	}
}

// WithMaxEmptyPrompts sets how many consecutive blank inputs end the session.
func WithMaxEmptyPrompts(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.maxEmptyPrompts = n
		}
	}
}

// WithMaxToolRounds caps the consecutive model calls made while answering tool requests.
func WithMaxToolRounds(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.maxToolRounds = n
		}
	}
}

// New creates an agent. client may be nil; Initialize then routes to Error.
func New(console Console, client ChatClient, opts ...Option) *Agent {
	a := &Agent{
		console:         console,
		client:          client,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		quitWords:       DefaultQuitWords,
		maxEmptyPrompts: DefaultMaxEmptyPrompts,
		maxToolRounds:   DefaultMaxToolRounds,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewMachine registers every agent state on a fresh machine starting at Initialize.
func (a *Agent) NewMachine(opts ...fsm.Option) (*fsm.Machine[State, Conversation], error) {
	m := fsm.New[State, Conversation](Initialize, opts...)
	actions := map[State]fsm.Action[State, Conversation]{
		Initialize:          a.initialize,
		PromptUser:          a.promptUser,
		AgentProcess:        a.agentProcess,
		ToolUse:             a.toolUse,
		DisplayCurrentState: a.displayCurrentState,
		Error:               a.fail,
		Complete:            a.complete,
	}
	for _, id := range States {
		if err := m.AddState(id, fsm.StateConfig[State, Conversation]{
			OnEnter:     actions[id],
			Transitions: Transitions[id],
		}); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Run builds a machine and drives it from Initialize with initial.
func (a *Agent) Run(ctx context.Context, initial Conversation, opts ...fsm.Option) (Conversation, error) {
	m, err := a.NewMachine(opts...)
	if err != nil {
		return initial, err
	}
	return m.Start(ctx, initial)
}

func (a *Agent) isQuit(input string) bool {
	for _, w := range a.quitWords {
		if strings.EqualFold(input, w) {
			return true
		}
	}
	return false
}

func (a *Agent) chatTools() ([]chat.Tool, error) {
	if a.tools == nil {
		return nil, nil
	}
	return a.tools.ChatTools()
}
