package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the hodr ASCII banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{" _               _", "#818cf8"},
		{"| |__   ___   __| |_ __", "#a78bfa"},
		{"| '_ \\ / _ \\ / _` | '__|", "#c084fc"},
		{"| | | | (_) | (_| | |", "#e879f9"},
		{"|_| |_|\\___/ \\__,_|_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintf(w, "%s\n\n", termenv.String("  v"+strings.TrimSpace(version)).Faint())
}
