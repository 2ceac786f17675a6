// Package registry holds the tools an agent may call, keyed by name.
//
// Each tool is described by an MCP tool definition, so the same registry feeds both the chat API
// (see ChatTools) and an MCP server.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/aretw0/sequent/pkg/chat"
)

var (
	// ErrToolNotFound is returned by Execute for an unknown tool name.
	ErrToolNotFound = errors.New("tool not found")
	// ErrDuplicateTool is returned by Register when the name is taken.
	ErrDuplicateTool = errors.New("tool already registered")
)

// ToolFunction defines the signature for a tool implementation.
// It receives a context and the decoded call arguments, and returns a result or error.
type ToolFunction func(ctx context.Context, args map[string]any) (any, error)

// Observer is notified after every execution.
type Observer interface {
	ObserveTool(name string, elapsed time.Duration, err error)
}

type entry struct {
	def mcp.Tool
	fn  ToolFunction
}

// Registry manages the available tools. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	tools    map[string]entry
	order    []string
	observer Observer
}

// Option configures a Registry.
type Option func(*Registry)

// WithObserver reports every execution to o.
func WithObserver(o Observer) Option {
	return func(r *Registry) {
		r.observer = o
	}
}

// NewRegistry creates a new empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		tools: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a tool. Names are unique; a second registration under the same name is rejected.
func (r *Registry) Register(def mcp.Tool, fn ToolFunction) error {
	if def.Name == "" {
		return errors.New("tool name is empty")
	}
	if fn == nil {
		return fmt.Errorf("tool %q: nil function", def.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[def.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, def.Name)
	}
	r.tools[def.Name] = entry{def: def, fn: fn}
	r.order = append(r.order, def.Name)
	return nil
}

// Execute looks up a tool by name and executes it.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	r.mu.RLock()
	e, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	start := time.Now()
	result, err := e.fn(ctx, args)
	if r.observer != nil {
		r.observer.ObserveTool(name, time.Since(start), err)
	}
	return result, err
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Definitions returns the MCP definitions in registration order.
func (r *Registry) Definitions() []mcp.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]mcp.Tool, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].def)
	}
	return defs
}

// ChatTools converts the definitions into chat API tool descriptions.
func (r *Registry) ChatTools() ([]chat.Tool, error) {
	defs := r.Definitions()
	tools := make([]chat.Tool, 0, len(defs))
	for _, def := range defs {
		schema, err := inputSchema(def)
		if err != nil {
			return nil, fmt.Errorf("tool %q: %w", def.Name, err)
		}
		tools = append(tools, chat.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: schema,
		})
	}
	return tools, nil
}

func inputSchema(def mcp.Tool) (json.RawMessage, error) {
	if len(def.RawInputSchema) > 0 {
		return def.RawInputSchema, nil
	}
	raw, err := json.Marshal(def.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("encode input schema: %w", err)
	}
	return raw, nil
}

// FormatResult renders a tool result as text for a chat or MCP reply.
// Strings pass through; anything else is encoded as JSON.
func FormatResult(v any) string {
	switch r := v.(type) {
	case nil:
		return ""
	case string:
		return r
	case fmt.Stringer:
		return r.String()
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(raw)
}
