package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/turtle/pkg/domain"
)

// Summary describes a finished drawing as markdown.
func Summary(title string, snap *domain.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Rendered **%d** frames with **%d** turtles.\n\n", snap.Frame, len(snap.Turtles))
	if len(snap.Turtles) == 0 {
		return b.String()
	}

	b.WriteString("| Turtle | Status | Position | Heading | Lines | Arcs | Fills |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, t := range snap.Turtles {
		counts := map[domain.PrimitiveKind]int{}
		for _, p := range t.Primitives {
			if !p.Live {
				counts[p.Kind]++
			}
		}
		fmt.Fprintf(&b, "| %s | %s | (%.1f, %.1f) | %.1f° | %d | %d | %d |\n",
			t.ID, t.Status,
			t.State.Position.X, t.State.Position.Y,
			float64(t.State.Heading),
			counts[domain.PrimitiveLine], counts[domain.PrimitiveArc], counts[domain.PrimitiveFill],
		)
	}
	return b.String()
}
