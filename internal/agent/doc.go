/*
Package agent implements the conversational agent loop as a sequential state machine.

The loop prompts the user, sends the conversation to a chat model, runs any tools the model asks
for and prints the reply, until the user quits or an error occurs:

	Initialize -> PromptUser -> AgentProcess -> [ToolUse ...] -> [DisplayCurrentState] -> PromptUser ...
	                        \-> Complete                                              \-> Error

Every state action receives the Conversation returned by the previous one and returns a new value;
recoverable failures are recorded in Conversation.Err and routed to the Error state.
*/
package agent
