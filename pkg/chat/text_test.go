package chat_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sequent/pkg/chat"
)

func TestResponseText(t *testing.T) {
	tests := []struct {
		name string
		resp *chat.Response
		want string
	}{
		{"nil response", nil, chat.NoTextContent},
		{"no blocks", &chat.Response{}, chat.NoTextContent},
		{"only tool use", &chat.Response{Content: []chat.ContentBlock{{Type: chat.BlockToolUse, Name: "x"}}}, chat.NoTextContent},
		{"single text", &chat.Response{Content: []chat.ContentBlock{chat.TextBlock("hello")}}, "hello"},
		{
			"mixed blocks",
			&chat.Response{Content: []chat.ContentBlock{
				chat.TextBlock("first"),
				{Type: chat.BlockToolUse, Name: "x"},
				chat.TextBlock("second"),
			}},
			"first\nsecond",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chat.ResponseText(tt.resp))
		})
	}
}

func TestToolUsesAndCounts(t *testing.T) {
	resp := &chat.Response{Content: []chat.ContentBlock{
		chat.TextBlock("checking"),
		{Type: chat.BlockToolUse, ID: "toolu_1", Name: "a"},
		{Type: chat.BlockToolUse, ID: "toolu_2", Name: "b"},
	}}

	uses := chat.ToolUses(resp)
	require.Len(t, uses, 2)
	assert.Equal(t, "toolu_1", uses[0].ID)
	assert.Equal(t, "toolu_2", uses[1].ID)

	assert.Equal(t, map[chat.BlockType]int{chat.BlockText: 1, chat.BlockToolUse: 2}, chat.BlockCounts(resp))
	assert.Empty(t, chat.ToolUses(nil))
}

func TestToolResultBlockJSON(t *testing.T) {
	raw, err := json.Marshal(chat.Message{
		Role:    chat.RoleUser,
		Content: []chat.ContentBlock{chat.ToolResultBlock("toolu_1", "sunny", true)},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"user","content":[{"type":"tool_result","tool_use_id":"toolu_1","content":"sunny","is_error":true}]}`, string(raw))
}
