package agent

// State identifies a step of the agent loop.
type State string

const (
	Initialize          State = "Initialize"
	PromptUser          State = "PromptUser"
	AgentProcess        State = "AgentProcess"
	ToolUse             State = "ToolUse"
	DisplayCurrentState State = "DisplayCurrentState"
	Error               State = "Error"
	Complete            State = "Complete"
)

// Transitions is the allow-list of every state.
var Transitions = map[State][]State{
	Initialize:          {PromptUser, Error},
	PromptUser:          {AgentProcess, Error, Complete},
	AgentProcess:        {PromptUser, Complete, Error, DisplayCurrentState, ToolUse},
	ToolUse:             {ToolUse, PromptUser, DisplayCurrentState, Error},
	DisplayCurrentState: {PromptUser, Error},
	Error:               {},
	Complete:            {},
}

// States lists the states in registration order.
var States = []State{Initialize, PromptUser, AgentProcess, ToolUse, DisplayCurrentState, Error, Complete}
