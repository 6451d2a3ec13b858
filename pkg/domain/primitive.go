package domain

// FillRule selects how overlapping contours decide the filled area.
type FillRule int

const (
	// EvenOdd fills points crossed an odd number of times. The engine always
	// emits this rule so inner contours become holes.
	EvenOdd FillRule = iota
	// NonZero fills points with a non-zero winding number.
	NonZero
)

func (r FillRule) String() string {
	if r == NonZero {
		return "nonzero"
	}
	return "evenodd"
}

// PrimitiveKind tags the geometry carried by a Primitive.
type PrimitiveKind int

const (
	PrimitiveLine PrimitiveKind = iota
	PrimitiveArc
	PrimitiveFill
	PrimitiveMarker
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimitiveLine:
		return "line"
	case PrimitiveArc:
		return "arc"
	case PrimitiveFill:
		return "fill"
	case PrimitiveMarker:
		return "marker"
	}
	return "unknown"
}

// Line is a straight stroke.
type Line struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

// Arc is a circular stroke. StartAngle is the polar angle of the start point
// as seen from Center; Sweep is signed polar travel (positive is clockwise on
// screen). Points holds Segments+1 samples from start to end inclusive.
type Arc struct {
	Center     Point   `json:"center"`
	Radius     float64 `json:"radius"`
	StartAngle Angle   `json:"start_angle"`
	Sweep      Angle   `json:"sweep"`
	Segments   int     `json:"segments"`
	Points     []Point `json:"points"`
}

// Fill is a filled region described by one or more contours.
type Fill struct {
	Contours [][]Point `json:"contours"`
	Rule     FillRule  `json:"rule"`
}

// Primitive is one unit of drawable output handed to the tessellator.
// Exactly one of Line, Arc, Fill or Marker is set, as selected by Kind.
type Primitive struct {
	Kind        PrimitiveKind `json:"kind"`
	Turtle      TurtleID      `json:"turtle_id"`
	Line        Line          `json:"line,omitzero"`
	Arc         Arc           `json:"arc,omitzero"`
	Fill        Fill          `json:"fill,omitzero"`
	Marker      []Point       `json:"marker,omitempty"`
	StrokeColor Color         `json:"stroke_color"`
	StrokeWidth float64       `json:"stroke_width"`
	FillColor   Color         `json:"fill_color"`
	// Live marks in-progress output that is replaced on the next frame.
	Live bool `json:"live,omitempty"`
}

// Mesh is the opaque payload returned by a tessellator. The engine never
// inspects it.
type Mesh struct {
	Payload any
}

// Drawable pairs a primitive with its tessellated mesh.
type Drawable struct {
	Primitive Primitive
	Mesh      Mesh
}

// LinePrimitive builds a stroke primitive styled from s.
func LinePrimitive(s TurtleState, from, to Point) Primitive {
	return Primitive{
		Kind:        PrimitiveLine,
		Line:        Line{From: from, To: to},
		StrokeColor: s.StrokeColor,
		StrokeWidth: s.StrokeWidth,
	}
}

// ArcPrimitive builds an arc stroke primitive styled from s.
func ArcPrimitive(s TurtleState, arc Arc) Primitive {
	return Primitive{
		Kind:        PrimitiveArc,
		Arc:         arc,
		StrokeColor: s.StrokeColor,
		StrokeWidth: s.StrokeWidth,
	}
}

// FillPrimitive builds an even-odd fill primitive in the fill color of s.
func FillPrimitive(s TurtleState, contours [][]Point) Primitive {
	return Primitive{
		Kind:      PrimitiveFill,
		Fill:      Fill{Contours: contours, Rule: EvenOdd},
		FillColor: s.FillColor,
	}
}

// MarkerPrimitive builds the turtle marker for s, or reports false when the
// turtle is hidden or has an empty shape.
func MarkerPrimitive(s TurtleState) (Primitive, bool) {
	pts := s.Marker()
	if len(pts) == 0 {
		return Primitive{}, false
	}
	p := Primitive{
		Kind:        PrimitiveMarker,
		Marker:      pts,
		StrokeColor: s.StrokeColor,
		StrokeWidth: 1,
		Live:        true,
	}
	if s.Shape.Filled {
		p.FillColor = s.FillColor
	}
	return p, true
}
