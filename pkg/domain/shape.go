package domain

import "math"

// Shape describes how a turtle marker is drawn. Vertices are relative to the
// turtle position with the marker pointing along +X (heading 0).
type Shape struct {
	Name     string  `json:"name" yaml:"name" mapstructure:"name"`
	Vertices []Point `json:"vertices,omitempty" yaml:"vertices,omitempty" mapstructure:"vertices"`
	Filled   bool    `json:"filled" yaml:"filled" mapstructure:"filled"`
}

// Built-in shape names.
const (
	ShapeTurtle   = "turtle"
	ShapeTriangle = "triangle"
	ShapeArrow    = "arrow"
	ShapeCircle   = "circle"
	ShapeSquare   = "square"
)

// DefaultShape returns the classic turtle outline.
func DefaultShape() Shape {
	return TurtleShape()
}

// LookupShape resolves a built-in shape by name.
func LookupShape(name string) (Shape, bool) {
	switch name {
	case ShapeTurtle:
		return TurtleShape(), true
	case ShapeTriangle:
		return TriangleShape(), true
	case ShapeArrow:
		return ArrowShape(), true
	case ShapeCircle:
		return CircleShape(), true
	case ShapeSquare:
		return SquareShape(), true
	}
	return Shape{}, false
}

// Rotated returns the shape vertices rotated to heading h and translated to at.
func (s Shape) Rotated(h Angle, at Point) []Point {
	out := make([]Point, len(s.Vertices))
	for i, v := range s.Vertices {
		out[i] = v.Rotate(h).Add(at)
	}
	return out
}

// Clone returns a deep copy so the vertex slice is never shared.
func (s Shape) Clone() Shape {
	c := s
	if s.Vertices != nil {
		c.Vertices = append([]Point(nil), s.Vertices...)
	}
	return c
}

// TriangleShape is a simple arrow head pointing right.
func TriangleShape() Shape {
	return Shape{
		Name:     ShapeTriangle,
		Vertices: []Point{{15, 0}, {-10, -8}, {-10, 8}},
		Filled:   true,
	}
}

// ArrowShape is a notched arrow.
func ArrowShape() Shape {
	return Shape{
		Name:     ShapeArrow,
		Vertices: []Point{{12, 0}, {-8, -8}, {-4, 0}, {-8, 8}},
		Filled:   true,
	}
}

// SquareShape is a 12x12 square centered on the turtle.
func SquareShape() Shape {
	return Shape{
		Name:     ShapeSquare,
		Vertices: []Point{{6, -6}, {6, 6}, {-6, 6}, {-6, -6}},
		Filled:   true,
	}
}

// CircleShape approximates a circle of radius 6 with 16 vertices.
func CircleShape() Shape {
	const n = 16
	vs := make([]Point, n)
	for i := range vs {
		a := 2 * math.Pi * float64(i) / n
		vs[i] = Point{X: 6 * math.Cos(a), Y: 6 * math.Sin(a)}
	}
	return Shape{Name: ShapeCircle, Vertices: vs, Filled: true}
}

// TurtleShape is the classic turtle silhouette.
func TurtleShape() Shape {
	// Outline authored with the head toward +Y; rotated to face +X.
	outline := [...]Point{
		{-2.5, 14}, {-1.25, 10}, {-4, 7}, {-7, 9}, {-9, 8}, {-6, 5},
		{-7, 1}, {-5, -3}, {-8, -6}, {-6, -8}, {-4, -5}, {0, -7},
		{4, -5}, {6, -8}, {8, -6}, {5, -3}, {7, 1}, {6, 5},
		{9, 8}, {7, 9}, {4, 7}, {1.25, 10}, {2.5, 14},
	}
	vs := make([]Point, len(outline))
	for i, p := range outline {
		vs[i] = p.Rotate(-90)
	}
	return Shape{Name: ShapeTurtle, Vertices: vs, Filled: true}
}
