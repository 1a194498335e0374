package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const noTTYStyle = "notty"

// RenderMarkdown renders md for the terminal, wrapped at width. Styled output
// picks a theme for the terminal background; unstyled output has no escape
// codes.
func RenderMarkdown(md string, width int, styled bool) (string, error) {
	style := glamour.WithStandardStyle(noTTYStyle)
	if styled {
		style = glamour.WithAutoStyle()
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", err
	}
	out, err := r.Render(md)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}
