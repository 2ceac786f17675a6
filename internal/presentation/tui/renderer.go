package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Renderer turns markdown into display text.
type Renderer func(markdown string) (string, error)

// NewRenderer returns a Renderer backed by glamour.
// It detects a light or dark background; width 0 keeps glamour's default word wrap.
func NewRenderer(width int) Renderer {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return PlainRenderer
	}

	return func(markdown string) (string, error) {
		out, err := r.Render(markdown)
		if err != nil {
			return "", err
		}
		return strings.Trim(out, "\n"), nil
	}
}

// PlainRenderer returns the markdown unchanged.
func PlainRenderer(markdown string) (string, error) {
	return markdown, nil
}
