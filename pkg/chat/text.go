package chat

import "strings"

// NoTextContent is returned by ResponseText when a response carries no text block.
const NoTextContent = "[No text content]"

// ResponseText joins the text blocks of r with newlines.
func ResponseText(r *Response) string {
	if r == nil {
		return NoTextContent
	}
	var parts []string
	for _, b := range r.Content {
		if b.Type == BlockText {
			parts = append(parts, b.Text)
		}
	}
	text := strings.Join(parts, "\n")
	if text == "" {
		return NoTextContent
	}
	return text
}

// ToolUses returns the tool_use blocks of r in order.
func ToolUses(r *Response) []ContentBlock {
	if r == nil {
		return nil
	}
	var uses []ContentBlock
	for _, b := range r.Content {
		if b.Type == BlockToolUse {
			uses = append(uses, b)
		}
	}
	return uses
}

// BlockCounts tallies the content blocks of r by type.
func BlockCounts(r *Response) map[BlockType]int {
	counts := make(map[BlockType]int)
	if r == nil {
		return counts
	}
	for _, b := range r.Content {
		counts[b.Type]++
	}
	return counts
}
