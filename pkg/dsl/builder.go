package dsl

import (
	"fmt"

	"github.com/aretw0/turtle/internal/execution"
	"github.com/aretw0/turtle/pkg/domain"
)

// DefaultSegments is the circle resolution used when none is configured.
const DefaultSegments = 36

// FastSpeed is the speed set by Instant: far above the instant threshold, so
// a whole drawing completes in one frame.
const FastSpeed = 1e6

// Builder accumulates commands into a Plan. Every method returns the builder
// so calls can be chained. The first error is kept and returned by Build;
// later calls become no-ops.
type Builder struct {
	plan     *domain.Plan
	err      error
	segments int
	// predicted tracks where the turtle will be, for SetHeading.
	predicted domain.TurtleState
}

// New creates a builder for a turtle starting in the default state.
func New() *Builder {
	return From(domain.DefaultState())
}

// From creates a builder for a turtle starting in state s. Only SetHeading
// depends on the start state.
func From(s domain.TurtleState) *Builder {
	return &Builder{
		plan:      domain.NewPlan(),
		segments:  DefaultSegments,
		predicted: s,
	}
}

func (b *Builder) add(cmds ...domain.Command) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.plan.Append(cmds...); err != nil {
		b.err = err
		return b
	}
	for _, c := range cmds {
		b.predicted = execution.Target(b.predicted, c)
	}
	return b
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// Err returns the first error recorded by the builder.
func (b *Builder) Err() error { return b.err }

// Forward moves along the heading.
func (b *Builder) Forward(d float64) *Builder {
	return b.add(domain.Move{Distance: domain.Length(d)})
}

// Backward moves against the heading.
func (b *Builder) Backward(d float64) *Builder {
	return b.add(domain.Move{Distance: domain.Length(-d)})
}

// Right turns clockwise on screen.
func (b *Builder) Right(deg float64) *Builder {
	return b.add(domain.Turn{Angle: domain.Angle(deg)})
}

// Left turns counter-clockwise on screen.
func (b *Builder) Left(deg float64) *Builder {
	return b.add(domain.Turn{Angle: domain.Angle(-deg)})
}

// Segments sets the resolution of subsequent circles.
func (b *Builder) Segments(n int) *Builder {
	if n < 1 {
		n = 1
	}
	b.segments = n
	return b
}

// CircleLeft travels sweep degrees along a circle whose center is on the
// turtle's left.
func (b *Builder) CircleLeft(radius, sweep float64) *Builder {
	return b.Arc(radius, sweep, b.segments, domain.CircleLeft)
}

// CircleRight travels sweep degrees along a circle whose center is on the
// turtle's right.
func (b *Builder) CircleRight(radius, sweep float64) *Builder {
	return b.Arc(radius, sweep, b.segments, domain.CircleRight)
}

// Arc adds a fully specified circle command.
func (b *Builder) Arc(radius, sweep float64, segments int, dir domain.CircleDirection) *Builder {
	return b.add(domain.Circle{
		Radius:    domain.Length(radius),
		Sweep:     domain.Angle(sweep),
		Segments:  segments,
		Direction: dir,
	})
}

// PenUp stops drawing.
func (b *Builder) PenUp() *Builder { return b.add(domain.PenUp{}) }

// PenDown resumes drawing.
func (b *Builder) PenDown() *Builder { return b.add(domain.PenDown{}) }

// Speed sets the animation speed for the following commands.
func (b *Builder) Speed(s float64) *Builder { return b.add(domain.SetSpeed{Speed: s}) }

// Instant makes the following commands complete without animation.
func (b *Builder) Instant() *Builder { return b.Speed(FastSpeed) }

// StrokeColor sets the pen color.
func (b *Builder) StrokeColor(c domain.Color) *Builder {
	return b.add(domain.SetStrokeColor{Color: c})
}

// StrokeColorName sets the pen color from a name or hex string.
func (b *Builder) StrokeColorName(s string) *Builder {
	c, err := domain.ParseColor(s)
	if err != nil {
		return b.fail(err)
	}
	return b.StrokeColor(c)
}

// StrokeWidth sets the pen width.
func (b *Builder) StrokeWidth(w float64) *Builder {
	return b.add(domain.SetStrokeWidth{Width: w})
}

// FillColor sets the color used by the next EndFill.
func (b *Builder) FillColor(c domain.Color) *Builder {
	return b.add(domain.SetFillColor{Color: c})
}

// FillColorName sets the fill color from a name or hex string.
func (b *Builder) FillColorName(s string) *Builder {
	c, err := domain.ParseColor(s)
	if err != nil {
		return b.fail(err)
	}
	return b.FillColor(c)
}

// BeginFill opens a fill bracket.
func (b *Builder) BeginFill() *Builder { return b.add(domain.BeginFill{}) }

// EndFill closes the fill bracket.
func (b *Builder) EndFill() *Builder { return b.add(domain.EndFill{}) }

// Fill wraps the commands added by fn in a fill bracket.
func (b *Builder) Fill(fn func(*Builder)) *Builder {
	b.BeginFill()
	fn(b)
	return b.EndFill()
}

// Show makes the turtle marker visible.
func (b *Builder) Show() *Builder { return b.add(domain.SetVisible{Visible: true}) }

// Hide hides the turtle marker.
func (b *Builder) Hide() *Builder { return b.add(domain.SetVisible{Visible: false}) }

// Shape selects a built-in marker shape by name.
func (b *Builder) Shape(name string) *Builder {
	s, ok := domain.LookupShape(name)
	if !ok {
		return b.fail(fmt.Errorf("unknown shape %q", name))
	}
	return b.add(domain.SetShape{Shape: s})
}

// CustomShape sets an arbitrary marker shape.
func (b *Builder) CustomShape(s domain.Shape) *Builder {
	return b.add(domain.SetShape{Shape: s})
}

// Teleport jumps to (x, y) without drawing.
func (b *Builder) Teleport(x, y float64) *Builder {
	return b.add(domain.Teleport{To: domain.Pt(x, y)})
}

// TeleportHeading jumps to (x, y) and faces heading h.
func (b *Builder) TeleportHeading(x, y, h float64) *Builder {
	return b.add(domain.Teleport{To: domain.Pt(x, y), Heading: domain.Angle(h), HasHeading: true})
}

// SetHeading turns to face absolute heading h, taking the shortest way
// from the heading the turtle is predicted to have at this point.
func (b *Builder) SetHeading(h float64) *Builder {
	delta := (domain.Angle(h) - b.predicted.Heading).Normalized()
	if delta == 0 {
		return b
	}
	return b.add(domain.Turn{Angle: delta})
}

// Reset returns the turtle to its initial state and clears its drawing.
func (b *Builder) Reset() *Builder { return b.add(domain.Reset{}) }

// Repeat calls fn n times.
func (b *Builder) Repeat(n int, fn func(i int, b *Builder)) *Builder {
	for i := 0; i < n && b.err == nil; i++ {
		fn(i, b)
	}
	return b
}

// Then appends every command of another plan.
func (b *Builder) Then(p *domain.Plan) *Builder {
	if p == nil {
		return b
	}
	return b.add(p.Commands()...)
}

// Commands adds raw commands.
func (b *Builder) Commands(cmds ...domain.Command) *Builder {
	return b.add(cmds...)
}

// Build freezes and returns the plan, or the first recorded error.
// Further calls on the builder fail with domain.ErrInvalidState.
func (b *Builder) Build() (*domain.Plan, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.plan.Freeze(), nil
}

// MustBuild is like Build but panics on error. It is meant for tests and
// static drawings.
func (b *Builder) MustBuild() *domain.Plan {
	p, err := b.Build()
	if err != nil {
		panic(err)
	}
	return p
}
