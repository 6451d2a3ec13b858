// Package fill accumulates fill contours for one turtle.
//
// The tracker is a bookkeeper only: it knows nothing about winding or
// orientation. Points accumulate while a fill bracket is open and the pen is
// down; pen transitions split the bracket into separate contours.
package fill

import "github.com/aretw0/turtle/pkg/domain"

// Tracker holds the fill state of one turtle.
type Tracker struct {
	open     bool // fill bracket open
	penDown  bool
	contours [][]domain.Point
	current  []domain.Point
	active   bool // current contour exists (may still be empty)
}

// New returns a tracker with no open bracket and the pen down.
func New() *Tracker {
	return &Tracker{penDown: true}
}

// NewWithPen returns a tracker mirroring the given pen state.
func NewWithPen(penDown bool) *Tracker {
	return &Tracker{penDown: penDown}
}

// Filling reports whether a fill bracket is open.
func (t *Tracker) Filling() bool { return t.open }

// PenDown reports the mirrored pen state.
func (t *Tracker) PenDown() bool { return t.penDown }

// RecordPoint appends pt to the open contour. It is a no-op unless a bracket
// is open and the pen is down.
func (t *Tracker) RecordPoint(pt domain.Point) {
	if !t.open || !t.penDown {
		return
	}
	if !t.active {
		t.active = true
		t.current = nil
	}
	t.current = append(t.current, pt)
}

// RecordPoints appends several points in order.
func (t *Tracker) RecordPoints(pts []domain.Point) {
	for _, p := range pts {
		t.RecordPoint(p)
	}
}

// OnPenUp finalizes the open contour, keeping the bracket open.
func (t *Tracker) OnPenUp() {
	t.finalize()
	t.penDown = false
}

// OnPenDown starts a new contour when inside a bracket.
func (t *Tracker) OnPenDown() {
	t.penDown = true
	if t.open && !t.active {
		t.active = true
		t.current = nil
	}
}

// OnBeginFill opens a bracket. A nested call is ignored so the first
// bracket keeps its points.
func (t *Tracker) OnBeginFill() {
	if t.open {
		return
	}
	t.open = true
	t.contours = nil
	t.current = nil
	t.active = t.penDown
}

// OnEndFill finalizes the open contour, returns every contour of the bracket
// and clears the state for the next one. Without an open bracket it returns
// an empty list.
func (t *Tracker) OnEndFill() [][]domain.Point {
	if !t.open {
		return nil
	}
	t.finalize()
	out := t.contours
	t.open = false
	t.contours = nil
	return out
}

// OnReset drops all contours and the bracket immediately. The pen mirror
// returns to down, matching the turtle's reset state.
func (t *Tracker) OnReset() {
	t.open = false
	t.contours = nil
	t.current = nil
	t.active = false
	t.penDown = true
}

// Contours returns copies of the finished contours followed by the open one.
func (t *Tracker) Contours() [][]domain.Point {
	return t.Preview(nil)
}

// Preview returns the contours as they would look if extra (points of an
// in-flight command) were recorded now. Committed data is never modified.
func (t *Tracker) Preview(extra []domain.Point) [][]domain.Point {
	if !t.open {
		return nil
	}
	out := make([][]domain.Point, 0, len(t.contours)+1)
	for _, c := range t.contours {
		out = append(out, append([]domain.Point(nil), c...))
	}
	if t.active {
		cur := make([]domain.Point, 0, len(t.current)+len(extra))
		cur = append(cur, t.current...)
		cur = append(cur, extra...)
		if len(cur) > 0 {
			out = append(out, cur)
		}
	}
	return out
}

func (t *Tracker) finalize() {
	if !t.active {
		return
	}
	// Degenerate contours are passed through; the tessellator decides.
	t.contours = append(t.contours, t.current)
	t.current = nil
	t.active = false
}
