package execution

import (
	"math"
	"time"

	"github.com/aretw0/turtle/pkg/domain"
)

// MinDuration is the shortest tween for a command with non-zero magnitude.
const MinDuration = 10 * time.Millisecond

// turnRate scales speed into degrees per second for Turn.
const turnRate = 1.8

// Frame is a hypothetical intermediate state of an animatable command.
type Frame struct {
	State domain.TurtleState
	// Live is the in-progress stroke, if the pen is down.
	Live []domain.Primitive
	// InFlight are the fill points the command would have recorded by now.
	InFlight []domain.Point
}

// Duration returns how long cmd takes at speed. Commands without magnitude
// and instantaneous commands take zero time.
func Duration(cmd domain.Command, speed float64) time.Duration {
	if speed < domain.MinSpeed {
		speed = domain.MinSpeed
	}
	var secs float64
	switch c := domain.Normalize(cmd).(type) {
	case domain.Move:
		secs = math.Abs(float64(c.Distance)) / speed
	case domain.Turn:
		secs = math.Abs(float64(c.Angle)) / (speed * turnRate)
	case domain.Circle:
		secs = float64(c.Radius) * math.Abs(c.Sweep.Radians()) / speed
	default:
		return 0
	}
	if secs == 0 {
		return 0
	}
	d := time.Duration(secs * float64(time.Second))
	if d < MinDuration {
		d = MinDuration
	}
	return d
}

// EaseInOutCubic maps linear progress t in [0, 1] to eased progress.
func EaseInOutCubic(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	case t < 0.5:
		return 4 * t * t * t
	}
	f := -2*t + 2
	return 1 - f*f*f/2
}

// Interpolate computes the state after eased fraction t of cmd, starting at
// s. Nothing is committed; at t >= 1 callers must use Apply instead so the
// end state carries no rounding residue.
func Interpolate(s domain.TurtleState, cmd domain.Command, t float64) Frame {
	f := Frame{State: s}
	switch c := domain.Normalize(cmd).(type) {
	case domain.Move:
		to := s.Position.Polar(float64(c.Distance)*t, s.Heading)
		f.State.Position = to
		if s.PenDown && c.Distance != 0 {
			f.Live = append(f.Live, domain.LinePrimitive(s, s.Position, to))
			f.InFlight = []domain.Point{to}
		}

	case domain.Turn:
		f.State.Heading = s.Heading + c.Angle*domain.Angle(t)

	case domain.Circle:
		if c.Radius == 0 || c.Sweep == 0 {
			return f
		}
		g := circleGeometry(s, c)
		f.State.Position = g.at(t)
		f.State.Heading = s.Heading + g.turn*domain.Angle(t)
		if s.PenDown {
			f.Live = append(f.Live, domain.ArcPrimitive(s, g.arc(c.Segments, t)))
			f.InFlight = append(g.samplesUntil(c.Segments, t), f.State.Position)
		}
	}
	return f
}
