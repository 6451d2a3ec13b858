package script

import (
	"fmt"

	"github.com/aretw0/turtle/pkg/domain"
)

// Encode renders a plan as script ops. Compiling the result yields the
// same commands.
func Encode(name string, plan *domain.Plan) (Turtle, error) {
	t := Turtle{Name: name, Commands: make([]any, 0, plan.Len())}
	for _, cmd := range plan.Commands() {
		op, err := encodeCommand(cmd)
		if err != nil {
			return Turtle{}, err
		}
		t.Commands = append(t.Commands, op)
	}
	return t, nil
}

func encodeCommand(cmd domain.Command) (any, error) {
	switch c := cmd.(type) {
	case domain.Move:
		return map[string]any{"forward": float64(c.Distance)}, nil
	case domain.Turn:
		return map[string]any{"right": float64(c.Angle)}, nil
	case domain.Circle:
		return map[string]any{"circle": map[string]any{
			"radius":    float64(c.Radius),
			"sweep":     float64(c.Sweep),
			"segments":  c.Segments,
			"direction": c.Direction.String(),
		}}, nil
	case domain.PenUp:
		return "pen_up", nil
	case domain.PenDown:
		return "pen_down", nil
	case domain.SetSpeed:
		return map[string]any{"speed": c.Speed}, nil
	case domain.SetStrokeColor:
		return map[string]any{"stroke_color": colorMap(c.Color)}, nil
	case domain.SetStrokeWidth:
		return map[string]any{"stroke_width": c.Width}, nil
	case domain.SetFillColor:
		return map[string]any{"fill_color": colorMap(c.Color)}, nil
	case domain.BeginFill:
		return "begin_fill", nil
	case domain.EndFill:
		return "end_fill", nil
	case domain.SetVisible:
		return map[string]any{"visible": c.Visible}, nil
	case domain.SetShape:
		vs := make([]any, len(c.Shape.Vertices))
		for i, v := range c.Shape.Vertices {
			vs[i] = map[string]any{"x": v.X, "y": v.Y}
		}
		return map[string]any{"shape": map[string]any{
			"name":     c.Shape.Name,
			"vertices": vs,
			"filled":   c.Shape.Filled,
		}}, nil
	case domain.Teleport:
		args := map[string]any{"x": c.To.X, "y": c.To.Y}
		if c.HasHeading {
			args["heading"] = float64(c.Heading)
		}
		return map[string]any{"teleport": args}, nil
	case domain.Reset:
		return "reset", nil
	}
	return nil, fmt.Errorf("%w: cannot encode %T", ErrUnknownOp, cmd)
}

// Colors are written as channel maps so no precision is lost.
func colorMap(c domain.Color) map[string]any {
	return map[string]any{"r": c.R, "g": c.G, "b": c.B, "a": c.A}
}
