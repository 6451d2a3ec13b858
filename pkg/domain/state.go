package domain

// TurtleState is the logical state of one turtle. It is mutated only by the
// execution engine, one command at a time. Values are copied freely; the
// shape's vertex slice is never mutated in place.
type TurtleState struct {
	Position    Point   `json:"position" yaml:"position" mapstructure:"position"`
	Heading     Angle   `json:"heading" yaml:"heading" mapstructure:"heading"`
	PenDown     bool    `json:"pen_down" yaml:"pen_down" mapstructure:"pen_down"`
	StrokeColor Color   `json:"stroke_color" yaml:"stroke_color" mapstructure:"stroke_color"`
	StrokeWidth float64 `json:"stroke_width" yaml:"stroke_width" mapstructure:"stroke_width"`
	FillColor   Color   `json:"fill_color" yaml:"fill_color" mapstructure:"fill_color"`
	Visible     bool    `json:"visible" yaml:"visible" mapstructure:"visible"`
	Shape       Shape   `json:"shape" yaml:"shape" mapstructure:"shape"`
	Speed       float64 `json:"speed" yaml:"speed" mapstructure:"speed"`
}

// DefaultState returns the state of a freshly created turtle: at the origin,
// facing +X, pen down, black stroke of width 2, black fill, visible, turtle
// shape, speed 100.
func DefaultState() TurtleState {
	return TurtleState{
		Position:    Point{},
		Heading:     0,
		PenDown:     true,
		StrokeColor: Black,
		StrokeWidth: DefaultStrokeWidth,
		FillColor:   Black,
		Visible:     true,
		Shape:       DefaultShape(),
		Speed:       DefaultSpeed,
	}
}

// Instant reports whether animatable commands run without interpolation at
// the current speed.
func (s TurtleState) Instant() bool {
	return s.Speed >= InstantSpeed
}

// Marker returns the turtle shape placed at the current position and heading.
// It returns nil when the turtle is hidden.
func (s TurtleState) Marker() []Point {
	if !s.Visible {
		return nil
	}
	return s.Shape.Rotated(s.Heading, s.Position)
}
