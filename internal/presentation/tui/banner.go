package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the turtle banner in a green gradient.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()
	lines := []struct {
		text, color string
	}{
		{"  _             _   _      ", "#4ade80"},
		{" | |_ _   _ _ _| |_| | ___ ", "#34d399"},
		{" | __| | | | '_| __| |/ _ \\", "#2dd4bf"},
		{" | |_| |_| | | | |_| |  __/", "#22d3ee"},
		{"  \\__|\\__,_|_|  \\__|_|\\___|", "#38bdf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
