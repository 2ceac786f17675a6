package chat

// Model identifiers accepted by the Messages API.
const (
	ModelClaudeOpus41         = "claude-opus-4-1-20250805"
	ModelClaudeOpus4          = "claude-opus-4-20250514"
	ModelClaudeSonnet4        = "claude-sonnet-4-20250514"
	ModelClaude37Sonnet       = "claude-3-7-sonnet-20250219"
	ModelClaude37SonnetLatest = "claude-3-7-sonnet-latest"
	ModelClaude35Haiku        = "claude-3-5-haiku-20241022"
	ModelClaude35HaikuLatest  = "claude-3-5-haiku-latest"
	ModelClaude35Sonnet       = "claude-3-5-sonnet-20241022"
	ModelClaude3Opus          = "claude-3-opus-20240229"
	ModelClaude3Haiku         = "claude-3-haiku-20240307"
)

// DefaultModel is used when no model is configured.
const DefaultModel = ModelClaudeSonnet4
