package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/aretw0/sequent/pkg/chat"
	"github.com/aretw0/sequent/pkg/fsm"
	"github.com/aretw0/sequent/pkg/registry"
)

// DefaultMaxTokens is used when the conversation does not set MaxTokens.
const DefaultMaxTokens = 1024

type outcome = fsm.Outcome[State, Conversation]

func goTo(next State, c Conversation) (outcome, error) {
	return fsm.Goto(next, c), nil
}

func failWith(c Conversation, err error) (outcome, error) {
	return fsm.Goto(Error, c.WithError(err)), nil
}

func (a *Agent) initialize(ctx context.Context, c Conversation) (outcome, error) {
	if a.client == nil {
		return failWith(c, ErrNoClient)
	}
	if c.Model == "" {
		return failWith(c, ErrNoModel)
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	a.logger.DebugContext(ctx, "agent initialized", "model", c.Model, "max_tokens", c.MaxTokens, "debug", a.debug)
	return goTo(PromptUser, c)
}

// promptUser reads until it gets usable input. Quit words, end of input, cancellation
// and too many consecutive blank lines complete the session.
func (a *Agent) promptUser(ctx context.Context, c Conversation) (outcome, error) {
	for {
		input, err := a.console.ReadInput(ctx)
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return a.exit(c)
		case err != nil:
			return failWith(c, fmt.Errorf("read input: %w", err))
		}

		if input == "" {
			c.EmptyPrompts++
			if c.EmptyPrompts >= a.maxEmptyPrompts {
				return a.exit(c)
			}
			continue
		}
		if a.isQuit(input) {
			return a.exit(c)
		}
		return goTo(AgentProcess, c.WithInput(input))
	}
}

func (a *Agent) exit(c Conversation) (outcome, error) {
	a.console.Notice("Exiting...")
	return goTo(Complete, c)
}

func (a *Agent) agentProcess(ctx context.Context, c Conversation) (outcome, error) {
	if c.UserInput == "" {
		return failWith(c, ErrEmptyInput)
	}
	tools, err := a.chatTools()
	if err != nil {
		return failWith(c, fmt.Errorf("tool definitions: %w", err))
	}

	c = c.WithMessage(chat.UserText(c.UserInput))
	c.Turns++

	resp, err := a.ask(ctx, c, tools)
	if err != nil {
		return failWith(c, err)
	}
	c = c.WithResponse(resp)

	if wantsTools(resp) {
		a.announce(resp)
		return goTo(ToolUse, c)
	}
	return a.reply(c, resp)
}

// toolUse answers every tool_use block of the last response, sends the results back and
// loops while the model keeps asking for tools, up to the configured number of rounds.
func (a *Agent) toolUse(ctx context.Context, c Conversation) (outcome, error) {
	uses := chat.ToolUses(c.LastResponse)
	if len(uses) == 0 {
		return failWith(c, errors.New("last response has no tool calls"))
	}

	results := make([]chat.ContentBlock, 0, len(uses))
	for _, use := range uses {
		results = append(results, a.runTool(ctx, use))
	}
	c = c.WithMessage(chat.Message{Role: chat.RoleUser, Content: results})
	c.ToolRounds++

	tools, err := a.chatTools()
	if err != nil {
		return failWith(c, fmt.Errorf("tool definitions: %w", err))
	}
	resp, err := a.ask(ctx, c, tools)
	if err != nil {
		return failWith(c, err)
	}
	c = c.WithResponse(resp)

	if wantsTools(resp) {
		if c.ToolRounds >= a.maxToolRounds {
			return failWith(c, fmt.Errorf("%w: limit %d", ErrToolRoundsExceeded, a.maxToolRounds))
		}
		a.announce(resp)
		return goTo(ToolUse, c)
	}
	return a.reply(c, resp)
}

func (a *Agent) ask(ctx context.Context, c Conversation, tools []chat.Tool) (*chat.Response, error) {
	resp, err := a.client.Complete(ctx, c.Request(tools))
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if resp == nil || len(resp.Content) == 0 {
		return nil, ErrEmptyResponse
	}
	return resp, nil
}

func (a *Agent) runTool(ctx context.Context, use chat.ContentBlock) chat.ContentBlock {
	logger := a.logger.With("tool", use.Name, "tool_use_id", use.ID)
	if a.tools == nil {
		return chat.ToolResultBlock(use.ID, "no tools are available", true)
	}

	args := map[string]any{}
	if len(use.Input) > 0 {
		if err := json.Unmarshal(use.Input, &args); err != nil {
			logger.WarnContext(ctx, "invalid tool input", "err", err)
			return chat.ToolResultBlock(use.ID, fmt.Sprintf("invalid input: %v", err), true)
		}
	}

	logger.DebugContext(ctx, "tool call", "args", args)
	result, err := a.tools.Execute(ctx, use.Name, args)
	if err != nil {
		logger.WarnContext(ctx, "tool failed", "err", err)
		return chat.ToolResultBlock(use.ID, err.Error(), true)
	}
	return chat.ToolResultBlock(use.ID, registry.FormatResult(result), false)
}

// announce prints any text that accompanies a tool request.
func (a *Agent) announce(resp *chat.Response) {
	if chat.BlockCounts(resp)[chat.BlockText] > 0 {
		a.console.Reply(chat.ResponseText(resp))
	}
}

func (a *Agent) reply(c Conversation, resp *chat.Response) (outcome, error) {
	a.console.Reply(chat.ResponseText(resp))
	if n := len(resp.Content); n > 1 {
		a.console.Warn("response has %d content blocks (%s)", n, formatCounts(chat.BlockCounts(resp)))
	}
	if a.debug {
		return goTo(DisplayCurrentState, c)
	}
	return goTo(PromptUser, c)
}

func (a *Agent) displayCurrentState(ctx context.Context, c Conversation) (outcome, error) {
	a.console.Notice("conversation has %d messages", len(c.Messages))

	r := c.LastResponse
	if r == nil {
		a.console.Warn("no response recorded")
		return goTo(PromptUser, c)
	}

	usage, err := json.Marshal(r.Usage)
	if err != nil {
		return failWith(c, fmt.Errorf("encode usage: %w", err))
	}
	a.console.Notice("Response analysis:")
	a.console.Notice("- id: %s", r.ID)
	a.console.Notice("- model: %s", r.Model)
	a.console.Notice("- usage: %s", usage)
	a.console.Notice("- stop_reason: %s", r.StopReason)
	a.console.Notice("- total content blocks: %d", len(r.Content))
	a.console.Notice("- content types: %s", formatCounts(chat.BlockCounts(r)))
	return goTo(PromptUser, c)
}

func (a *Agent) fail(ctx context.Context, c Conversation) (outcome, error) {
	err := c.Err
	if err == nil {
		err = errors.New("an error occurred")
	}
	a.logger.ErrorContext(ctx, "agent error", "err", err)
	a.console.Error(err)
	return fsm.Halt[State](c), nil
}

func (a *Agent) complete(ctx context.Context, c Conversation) (outcome, error) {
	a.logger.DebugContext(ctx, "agent complete", "turns", c.Turns, "messages", len(c.Messages))
	return fsm.Halt[State](c), nil
}

func wantsTools(resp *chat.Response) bool {
	return resp.StopReason == chat.StopToolUse && len(chat.ToolUses(resp)) > 0
}

func formatCounts(counts map[chat.BlockType]int) string {
	parts := make([]string, 0, len(counts))
	for _, t := range slices.Sorted(maps.Keys(counts)) {
		parts = append(parts, fmt.Sprintf("%s=%d", t, counts[t]))
	}
	return strings.Join(parts, ", ")
}
