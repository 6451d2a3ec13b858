package domain

import "fmt"

// InstantSpeed is the speed at or above which movement commands execute in a
// single frame with no interpolation.
const InstantSpeed = 999

// MinSpeed is the slowest accepted animation speed (units per second).
const MinSpeed = 1

// MaxSegments bounds the sampling resolution of a circle.
const MaxSegments = 4096

// DefaultSpeed is the speed of a freshly created turtle.
const DefaultSpeed = 100

// Command is one turtle operation. The set of implementations is closed:
// Move, Turn, Circle, PenUp, PenDown, SetSpeed, SetStrokeColor,
// SetStrokeWidth, SetFillColor, BeginFill, EndFill, SetVisible, SetShape,
// Teleport and Reset. Consumers switch exhaustively over the concrete types.
type Command interface {
	// Kind returns the stable wire name of the command.
	Kind() string
	isCommand()
}

// Command kind names, shared by logs and script encodings.
const (
	KindMove           = "move"
	KindTurn           = "turn"
	KindCircle         = "circle"
	KindPenUp          = "pen_up"
	KindPenDown        = "pen_down"
	KindSetSpeed       = "speed"
	KindSetStrokeColor = "stroke_color"
	KindSetStrokeWidth = "stroke_width"
	KindSetFillColor   = "fill_color"
	KindBeginFill      = "begin_fill"
	KindEndFill        = "end_fill"
	KindSetVisible     = "visible"
	KindSetShape       = "shape"
	KindTeleport       = "teleport"
	KindReset          = "reset"
)

// CircleDirection selects which side of the turtle the circle center lies on.
type CircleDirection int

const (
	// CircleLeft sweeps counter-clockwise on screen; the heading decreases.
	CircleLeft CircleDirection = iota
	// CircleRight sweeps clockwise on screen; the heading increases.
	CircleRight
)

func (d CircleDirection) String() string {
	if d == CircleRight {
		return "right"
	}
	return "left"
}

// Opposite returns the other direction.
func (d CircleDirection) Opposite() CircleDirection {
	if d == CircleRight {
		return CircleLeft
	}
	return CircleRight
}

// Move travels along the current heading. Negative distances move backward.
type Move struct {
	Distance Length
}

// Turn rotates in place. Positive angles turn right, negative turn left.
type Turn struct {
	Angle Angle
}

// Circle travels along a circular arc.
type Circle struct {
	Radius    Length
	Sweep     Angle // signed; negative travels the arc backwards
	Segments  int   // sampling resolution for fills and previews, 1..MaxSegments
	Direction CircleDirection
}

type (
	// PenUp stops drawing and closes the open fill contour.
	PenUp struct{}
	// PenDown resumes drawing and opens a new fill contour inside a bracket.
	PenDown struct{}
	// BeginFill opens a fill bracket.
	BeginFill struct{}
	// EndFill closes the fill bracket and emits the accumulated contours.
	EndFill struct{}
	// Reset returns the turtle to its initial state and clears its drawing.
	Reset struct{}
)

// SetSpeed changes the speed used by the next animatable command.
type SetSpeed struct {
	Speed float64
}

// SetStrokeColor changes the pen color.
type SetStrokeColor struct {
	Color Color
}

// SetStrokeWidth changes the pen width.
type SetStrokeWidth struct {
	Width float64
}

// SetFillColor changes the color used by the next EndFill.
type SetFillColor struct {
	Color Color
}

// SetVisible shows or hides the turtle marker.
type SetVisible struct {
	Visible bool
}

// SetShape replaces the turtle marker shape.
type SetShape struct {
	Shape Shape
}

// Teleport jumps to a point without stroking. When HasHeading is set the
// heading is replaced as well.
type Teleport struct {
	To         Point
	Heading    Angle
	HasHeading bool
}

func (Move) Kind() string           { return KindMove }
func (Turn) Kind() string           { return KindTurn }
func (Circle) Kind() string         { return KindCircle }
func (PenUp) Kind() string          { return KindPenUp }
func (PenDown) Kind() string        { return KindPenDown }
func (SetSpeed) Kind() string       { return KindSetSpeed }
func (SetStrokeColor) Kind() string { return KindSetStrokeColor }
func (SetStrokeWidth) Kind() string { return KindSetStrokeWidth }
func (SetFillColor) Kind() string   { return KindSetFillColor }
func (BeginFill) Kind() string      { return KindBeginFill }
func (EndFill) Kind() string        { return KindEndFill }
func (SetVisible) Kind() string     { return KindSetVisible }
func (SetShape) Kind() string       { return KindSetShape }
func (Teleport) Kind() string       { return KindTeleport }
func (Reset) Kind() string          { return KindReset }

func (Move) isCommand()           {}
func (Turn) isCommand()           {}
func (Circle) isCommand()         {}
func (PenUp) isCommand()          {}
func (PenDown) isCommand()        {}
func (SetSpeed) isCommand()       {}
func (SetStrokeColor) isCommand() {}
func (SetStrokeWidth) isCommand() {}
func (SetFillColor) isCommand()   {}
func (BeginFill) isCommand()      {}
func (EndFill) isCommand()        {}
func (SetVisible) isCommand()     {}
func (SetShape) isCommand()       {}
func (Teleport) isCommand()       {}
func (Reset) isCommand()          {}

// Normalize rewrites malformed numeric fields instead of rejecting them:
// circle segment counts are clamped to [1, MaxSegments], a negative radius becomes positive
// with the direction flipped, negative widths become 0 and speeds below
// MinSpeed become MinSpeed. Commands without numeric fields are returned as is.
func Normalize(cmd Command) Command {
	switch c := cmd.(type) {
	case Circle:
		c.Segments = min(max(c.Segments, 1), MaxSegments)
		if c.Radius < 0 {
			c.Radius = -c.Radius
			c.Direction = c.Direction.Opposite()
		}
		return c
	case SetStrokeWidth:
		if c.Width < 0 {
			c.Width = 0
		}
		return c
	case SetSpeed:
		if c.Speed < MinSpeed {
			c.Speed = MinSpeed
		}
		return c
	case SetShape:
		c.Shape = c.Shape.Clone()
		return c
	}
	return cmd
}

// Validate reports commands whose geometry has no well-defined direction.
// Such commands still execute (as no-ops); Validate exists for tooling.
func Validate(cmd Command) error {
	switch c := cmd.(type) {
	case Move:
		if c.Distance == 0 {
			return fmt.Errorf("move of zero length: %w", ErrDegenerateGeometry)
		}
	case Circle:
		if c.Radius == 0 {
			return fmt.Errorf("circle of zero radius: %w", ErrDegenerateGeometry)
		}
	}
	return nil
}

// Animatable reports whether the command has a duration (Move, Turn, Circle).
func Animatable(cmd Command) bool {
	switch cmd.(type) {
	case Move, Turn, Circle:
		return true
	}
	return false
}
