package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// Plain output returns the markdown unchanged, for pipes and dumb terminals.
func NewRenderer(plain bool) func(string) (string, error) {
	if plain {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return r.Render
}
