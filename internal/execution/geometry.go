package execution

import (
	"math"

	"github.com/aretw0/turtle/pkg/domain"
)

// arcGeometry describes a circle command relative to the state it starts from.
type arcGeometry struct {
	center domain.Point
	radius float64
	start  domain.Angle // polar angle of the start point around center
	sweep  domain.Angle // signed polar travel; positive is clockwise on screen
	turn   domain.Angle // heading change
}

// circleGeometry places the circle center perpendicular to the heading, on
// the side selected by the direction. Left circles travel counter-clockwise
// on screen, so both the polar angle and the heading decrease.
func circleGeometry(s domain.TurtleState, c domain.Circle) arcGeometry {
	r := float64(c.Radius)
	g := arcGeometry{radius: r}
	switch c.Direction {
	case domain.CircleRight:
		g.center = s.Position.Polar(r, s.Heading+90)
		g.start = s.Heading - 90
		g.sweep = c.Sweep
		g.turn = c.Sweep
	default:
		g.center = s.Position.Polar(r, s.Heading-90)
		g.start = s.Heading + 90
		g.sweep = -c.Sweep
		g.turn = -c.Sweep
	}
	return g
}

// at returns the point reached after fraction t of the sweep.
func (g arcGeometry) at(t float64) domain.Point {
	return g.center.Polar(g.radius, g.start+g.sweep*domain.Angle(t))
}

// end returns the analytic end point. It does not depend on any sampling.
func (g arcGeometry) end() domain.Point {
	return g.at(1)
}

// samples returns the n points at fractions 1/n .. n/n. The last one is the
// analytic end point.
func (g arcGeometry) samples(n int) []domain.Point {
	if n < 1 {
		n = 1
	}
	out := make([]domain.Point, n)
	for i := 1; i < n; i++ {
		out[i-1] = g.at(float64(i) / float64(n))
	}
	out[n-1] = g.end()
	return out
}

// samplesUntil returns the sample points strictly before fraction t.
func (g arcGeometry) samplesUntil(n int, t float64) []domain.Point {
	if n < 1 {
		n = 1
	}
	var out []domain.Point
	for i := 1; i < n; i++ {
		f := float64(i) / float64(n)
		if f >= t {
			break
		}
		out = append(out, g.at(f))
	}
	return out
}

// arc builds the stroke description for fraction t of the sweep.
func (g arcGeometry) arc(segments int, t float64) domain.Arc {
	n := int(math.Ceil(float64(segments) * t))
	if n < 1 {
		n = 1
	}
	partial := g
	partial.sweep = g.sweep * domain.Angle(t)
	pts := make([]domain.Point, 0, n+1)
	pts = append(pts, partial.at(0))
	pts = append(pts, partial.samples(n)...)
	return domain.Arc{
		Center:     g.center,
		Radius:     g.radius,
		StartAngle: g.start,
		Sweep:      partial.sweep,
		Segments:   n,
		Points:     pts,
	}
}
