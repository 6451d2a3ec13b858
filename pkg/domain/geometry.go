package domain

import "math"

// Angle is a rotation expressed in degrees.
type Angle float64

// Radians returns the angle in radians.
func (a Angle) Radians() float64 {
	return float64(a) * math.Pi / 180
}

// Normalized folds the angle into the half-open range (-180, 180].
func (a Angle) Normalized() Angle {
	n := math.Mod(float64(a), 360)
	if n > 180 {
		n -= 360
	} else if n <= -180 {
		n += 360
	}
	return Angle(n)
}

// Abs returns the magnitude of the angle.
func (a Angle) Abs() Angle {
	return Angle(math.Abs(float64(a)))
}

// Degrees builds an Angle from a raw degree value.
func Degrees(d float64) Angle { return Angle(d) }

// RadiansToAngle converts a radian value into an Angle.
func RadiansToAngle(r float64) Angle {
	return Angle(r * 180 / math.Pi)
}

// Length is a distance in drawing units (pixels for the reference surface).
type Length float64

// Abs returns the magnitude of the length.
func (l Length) Abs() Length {
	return Length(math.Abs(float64(l)))
}

// Point is a 2D coordinate. The drawing frame is screen-like: +X points right
// and +Y points down, so a positive (right) turn rotates clockwise on screen.
type Point struct {
	X float64 `json:"x" yaml:"x" mapstructure:"x"`
	Y float64 `json:"y" yaml:"y" mapstructure:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale returns p*s.
func (p Point) Scale(s float64) Point { return Point{X: p.X * s, Y: p.Y * s} }

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(q.X-p.X, q.Y-p.Y) }

// Lerp interpolates linearly from p (t=0) to q (t=1).
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Polar returns the point at distance r from p in direction a.
func (p Point) Polar(r float64, a Angle) Point {
	rad := a.Radians()
	return Point{X: p.X + r*math.Cos(rad), Y: p.Y + r*math.Sin(rad)}
}

// Rotate rotates p around the origin by a.
func (p Point) Rotate(a Angle) Point {
	s, c := math.Sincos(a.Radians())
	return Point{X: p.X*c - p.Y*s, Y: p.X*s + p.Y*c}
}
