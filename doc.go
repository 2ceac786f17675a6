/*
Package sequent is a terminal chat agent built on a small, generic, sequential finite-state machine.

The machine lives in pkg/fsm: states are registered with an entry action and an allow-list of
successors, and Start drives them one at a time, handing each action the context value returned by
the previous one. The agent in internal/agent is one such machine:

	Initialize -> PromptUser -> AgentProcess -> (ToolUse)* -> PromptUser ... -> Complete

with DisplayCurrentState for debug output and Error as the failure sink.

# Usage

	sequent run                  # interactive session (needs ANTHROPIC_API_KEY)
	sequent graph                # Mermaid diagram of the agent states
	sequent forecast 39.7 -97.1  # call the weather tool directly
	sequent mcp                  # serve the tools over MCP stdio

Configuration is read from sequent.yaml and SEQUENT_* environment variables; see internal/config.
*/
package sequent
