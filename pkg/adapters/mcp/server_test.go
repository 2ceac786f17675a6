package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sequent/pkg/fsm"
	"github.com/aretw0/sequent/pkg/registry"
)

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	reg := registry.NewRegistry()
	require.NoError(t, reg.Register(
		mcp.NewTool("echo", mcp.WithString("message", mcp.Required())),
		func(ctx context.Context, args map[string]any) (any, error) {
			return args["message"], nil
		},
	))
	require.NoError(t, reg.Register(mcp.NewTool("fail"), func(ctx context.Context, args map[string]any) (any, error) {
		return nil, errors.New("upstream unavailable")
	}))
	return NewServer(reg, "test", opts...)
}

func call(t *testing.T, s *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.MCPServer().GetTool(name)
	require.NotNil(t, tool, "tool %s not registered", name)

	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestServer_ExposesRegistry(t *testing.T) {
	s := newTestServer(t)
	assert.Len(t, s.MCPServer().ListTools(), 2)

	res := call(t, s, "echo", map[string]any{"message": "hello"})
	assert.False(t, res.IsError)
	assert.Equal(t, "hello", text(t, res))
}

func TestServer_ToolErrorIsResult(t *testing.T) {
	s := newTestServer(t)

	res := call(t, s, "fail", nil)
	assert.True(t, res.IsError)
	assert.Equal(t, "upstream unavailable", text(t, res))
}

func TestServer_Graph(t *testing.T) {
	states := []fsm.StateInfo{
		{ID: "Initialize", Transitions: []string{"Complete"}, Initial: true},
		{ID: "Complete", Transitions: []string{}, Terminal: true},
	}
	s := newTestServer(t, WithGraph(func() []fsm.StateInfo { return states }))

	res := call(t, s, graphTool, nil)
	var got []fsm.StateInfo
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &got))
	assert.Equal(t, states, got)
}

func TestServer_NoGraphByDefault(t *testing.T) {
	s := newTestServer(t)
	assert.Nil(t, s.MCPServer().GetTool(graphTool))
}
