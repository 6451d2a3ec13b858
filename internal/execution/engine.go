// Package execution applies single turtle commands to a turtle's logical
// state.
//
// Apply is the only place a TurtleState changes. Instant and animated
// playback both finish a command through Apply, so they reach identical end
// states. Interpolate computes hypothetical intermediate states for the
// animator without committing anything.
package execution

import (
	"github.com/aretw0/turtle/internal/fill"
	"github.com/aretw0/turtle/pkg/domain"
)

// Result is the outcome of applying one command.
type Result struct {
	State      domain.TurtleState
	Primitives []domain.Primitive
	// Contours holds the contours handed out by an EndFill.
	Contours [][]domain.Point
	// Degenerate is set for zero-length geometry executed as a no-op.
	Degenerate bool
	// ClearDrawing asks the owner to drop the turtle's committed drawing.
	ClearDrawing bool
}

// Apply executes cmd against s. It is pure apart from the fill tracker's
// accumulation.
func Apply(s domain.TurtleState, tracker *fill.Tracker, cmd domain.Command) Result {
	res := Result{State: s}
	switch c := domain.Normalize(cmd).(type) {
	case domain.Move:
		if c.Distance == 0 {
			res.Degenerate = true
			return res
		}
		to := s.Position.Polar(float64(c.Distance), s.Heading)
		res.State.Position = to
		if s.PenDown {
			res.Primitives = append(res.Primitives, domain.LinePrimitive(s, s.Position, to))
			tracker.RecordPoint(to)
		}

	case domain.Turn:
		res.State.Heading = (s.Heading + c.Angle).Normalized()

	case domain.Circle:
		if c.Radius == 0 {
			res.Degenerate = true
			return res
		}
		if c.Sweep == 0 {
			return res
		}
		g := circleGeometry(s, c)
		res.State.Position = g.end()
		res.State.Heading = (s.Heading + g.turn).Normalized()
		if s.PenDown {
			res.Primitives = append(res.Primitives, domain.ArcPrimitive(s, g.arc(c.Segments, 1)))
			tracker.RecordPoints(g.samples(c.Segments))
		}

	case domain.PenUp:
		res.State.PenDown = false
		tracker.OnPenUp()

	case domain.PenDown:
		res.State.PenDown = true
		tracker.OnPenDown()

	case domain.SetSpeed:
		res.State.Speed = c.Speed

	case domain.SetStrokeColor:
		res.State.StrokeColor = c.Color

	case domain.SetStrokeWidth:
		res.State.StrokeWidth = c.Width

	case domain.SetFillColor:
		res.State.FillColor = c.Color

	case domain.BeginFill:
		tracker.OnBeginFill()

	case domain.EndFill:
		res.Contours = tracker.OnEndFill()
		if len(res.Contours) > 0 {
			res.Primitives = append(res.Primitives, domain.FillPrimitive(s, res.Contours))
		}

	case domain.SetVisible:
		res.State.Visible = c.Visible

	case domain.SetShape:
		res.State.Shape = c.Shape

	case domain.Teleport:
		res.State.Position = c.To
		if c.HasHeading {
			res.State.Heading = c.Heading.Normalized()
		}
		tracker.RecordPoint(c.To)

	case domain.Reset:
		next := domain.DefaultState()
		next.Speed = s.Speed
		res.State = next
		res.ClearDrawing = true
		tracker.OnReset()
	}
	return res
}

// Target returns the analytic end state of cmd without touching any fill
// state.
func Target(s domain.TurtleState, cmd domain.Command) domain.TurtleState {
	return Apply(s, fill.NewWithPen(s.PenDown), cmd).State
}
