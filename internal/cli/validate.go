package cli

import (
	"fmt"
	"strings"

	"github.com/aretw0/turtle/pkg/adapters/script"
	"github.com/aretw0/turtle/pkg/domain"
)

// Report is the result of checking a script without drawing it.
type Report struct {
	Path    string
	Turtles []TurtleReport
}

// TurtleReport summarizes one turtle of a script.
type TurtleReport struct {
	Name     string
	Commands int
	Animated int
	Warnings []string
}

// Warnings counts the warnings across all turtles.
func (r *Report) Warnings() int {
	n := 0
	for _, t := range r.Turtles {
		n += len(t.Warnings)
	}
	return n
}

// Validate compiles a script and reports commands that will run as no-ops
// and fill brackets left open. Compile errors are returned as errors.
func Validate(path string) (*Report, error) {
	doc, err := script.Load(path)
	if err != nil {
		return nil, err
	}
	plans, err := doc.Compile()
	if err != nil {
		return nil, err
	}

	r := &Report{Path: path}
	for i, p := range plans {
		name := doc.Turtles[i].Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		tr := TurtleReport{Name: name, Commands: p.Len()}
		filling := false
		for j, cmd := range p.Commands() {
			if domain.Animatable(cmd) {
				tr.Animated++
			}
			if err := domain.Validate(cmd); err != nil {
				tr.Warnings = append(tr.Warnings, fmt.Sprintf("command %d (%s): %v", j, cmd.Kind(), err))
			}
			switch cmd.(type) {
			case domain.BeginFill:
				filling = true
			case domain.EndFill:
				if !filling {
					tr.Warnings = append(tr.Warnings, fmt.Sprintf("command %d: end_fill without begin_fill", j))
				}
				filling = false
			case domain.Reset:
				filling = false
			}
		}
		if filling {
			tr.Warnings = append(tr.Warnings, "fill bracket is never closed")
		}
		r.Turtles = append(r.Turtles, tr)
	}
	return r, nil
}

// Markdown renders the report for the terminal.
func (r *Report) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Path)
	b.WriteString("| Turtle | Commands | Animated | Warnings |\n|---|---|---|---|\n")
	for _, t := range r.Turtles {
		fmt.Fprintf(&b, "| %s | %d | %d | %d |\n", t.Name, t.Commands, t.Animated, len(t.Warnings))
	}
	for _, t := range r.Turtles {
		for _, w := range t.Warnings {
			fmt.Fprintf(&b, "\n- **%s**: %s", t.Name, w)
		}
	}
	b.WriteString("\n")
	return b.String()
}
