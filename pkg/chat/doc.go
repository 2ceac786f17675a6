// Package chat defines the message types exchanged with a chat-completion API that supports tool use.
//
// The shapes follow the Messages API: a conversation is a list of role-tagged messages whose content is a
// list of typed blocks (text, tool_use, tool_result).
package chat
