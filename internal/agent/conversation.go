package agent

import (
	"slices"

	"github.com/aretw0/sequent/pkg/chat"
)

// Conversation is the context threaded through the agent loop.
// It is handled as a value: the With* helpers return an updated copy and never
// modify the receiver's message history in place.
type Conversation struct {
	Messages     []chat.Message
	UserInput    string
	Model        string
	MaxTokens    int
	System       string
	LastResponse *chat.Response
	Err          error

	// EmptyPrompts counts consecutive blank inputs.
	EmptyPrompts int
	// ToolRounds counts model calls made from ToolUse since the last user input.
	ToolRounds int
	Turns      int
}

// WithMessage returns a copy with m appended to the history.
func (c Conversation) WithMessage(m chat.Message) Conversation {
	c.Messages = append(slices.Clip(c.Messages), m)
	return c
}

// WithInput returns a copy holding the user's input, with the per-turn counters reset.
func (c Conversation) WithInput(input string) Conversation {
	c.UserInput = input
	c.EmptyPrompts = 0
	c.ToolRounds = 0
	return c
}

// WithResponse returns a copy recording resp as the last response and appending it to the history.
func (c Conversation) WithResponse(resp *chat.Response) Conversation {
	c.LastResponse = resp
	return c.WithMessage(resp.Message())
}

// WithError returns a copy recording err.
func (c Conversation) WithError(err error) Conversation {
	c.Err = err
	return c
}

// Request builds the chat request for the current history.
func (c Conversation) Request(tools []chat.Tool) chat.Request {
	return chat.Request{
		Model:     c.Model,
		MaxTokens: c.MaxTokens,
		System:    c.System,
		Messages:  c.Messages,
		Tools:     tools,
	}
}
