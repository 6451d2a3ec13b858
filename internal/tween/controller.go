// Package tween drives one turtle through its command queue, frame by frame.
package tween

import (
	"log/slog"
	"math"
	"time"

	"github.com/aretw0/turtle/internal/execution"
	"github.com/aretw0/turtle/internal/fill"
	"github.com/aretw0/turtle/internal/logging"
	"github.com/aretw0/turtle/pkg/domain"
	"github.com/aretw0/turtle/pkg/ports"
)

// Status is the controller's position in its state machine.
type Status int

const (
	// Idle means no command has been pending since creation.
	Idle Status = iota
	// Advancing means a command is being executed or interpolated.
	Advancing
	// Done means the queue is exhausted.
	Done
)

func (s Status) String() string {
	switch s {
	case Advancing:
		return "advancing"
	case Done:
		return "done"
	}
	return "idle"
}

// compactAfter is the number of executed commands kept before the queue is
// compacted.
const compactAfter = 64

// Cursor tracks progress through the current command. Start is the state
// snapshot the interpolation is computed from, so rounding never accumulates
// across frames.
type Cursor struct {
	Index    int
	Elapsed  time.Duration
	Duration time.Duration
	Speed    float64
	Start    domain.TurtleState
	Active   bool
}

// Controller owns the logical state, fill tracker and drawing of one turtle.
// It is not safe for concurrent use; the registry's frame thread owns it.
type Controller struct {
	id      domain.TurtleID
	state   domain.TurtleState
	display domain.TurtleState
	tracker *fill.Tracker

	queue  []domain.Command
	base   int // absolute index of queue[0]
	cursor Cursor
	status Status

	completed []domain.Drawable
	live      []domain.Drawable

	tess   ports.Tessellator
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithTessellator sets the collaborator that turns primitives into meshes.
func WithTessellator(t ports.Tessellator) Option {
	return func(c *Controller) {
		c.tess = t
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(h domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = h
	}
}

// WithLogger configures the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithState overrides the initial turtle state.
func WithState(s domain.TurtleState) Option {
	return func(c *Controller) {
		c.state = s
	}
}

// New creates an idle controller for turtle id.
func New(id domain.TurtleID, opts ...Option) *Controller {
	c := &Controller{
		id:     id,
		state:  domain.DefaultState(),
		tess:   ports.PassThrough,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(domain.KeyTurtleID, id.String())
	c.tracker = fill.NewWithPen(c.state.PenDown)
	c.display = c.state
	c.refreshLive()
	return c
}

// ID returns the turtle identity.
func (c *Controller) ID() domain.TurtleID { return c.id }

// State returns the committed logical state.
func (c *Controller) State() domain.TurtleState { return c.state }

// DisplayState returns the state shown this frame, including interpolation.
func (c *Controller) DisplayState() domain.TurtleState { return c.display }

// Status returns the state machine position.
func (c *Controller) Status() Status { return c.status }

// Cursor returns the progress through the current command.
func (c *Controller) Cursor() Cursor {
	cur := c.cursor
	cur.Index += c.base
	return cur
}

// Pending returns the number of commands not yet completed.
func (c *Controller) Pending() int { return len(c.queue) - c.cursor.Index }

// Filling reports whether a fill bracket is open.
func (c *Controller) Filling() bool { return c.tracker.Filling() }

// Completed returns the committed drawables. Callers must not modify it.
func (c *Controller) Completed() []domain.Drawable { return c.completed }

// Live returns this frame's in-progress drawables, including the marker.
func (c *Controller) Live() []domain.Drawable { return c.live }

// Drawables returns committed drawables followed by live ones.
func (c *Controller) Drawables() []domain.Drawable {
	out := make([]domain.Drawable, 0, len(c.completed)+len(c.live))
	out = append(out, c.completed...)
	return append(out, c.live...)
}

// Append attaches commands to the end of the queue. The turtle state is left
// untouched; a Done controller resumes on the next Advance.
func (c *Controller) Append(cmds ...domain.Command) {
	c.queue = append(c.queue, cmds...)
}

// Advance moves the turtle forward by dt. Instantaneous commands run
// atomically and do not consume time. Animatable commands run atomically in
// instant mode, bounded by a per-frame budget, and are otherwise
// interpolated; time left over after a command completes carries into the
// next one.
func (c *Controller) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	remaining := dt
	instantRun := 0

	for c.cursor.Index < len(c.queue) {
		c.status = Advancing
		cmd := c.queue[c.cursor.Index]

		if !domain.Animatable(cmd) {
			c.commit(cmd, true)
			continue
		}

		if !c.cursor.Active {
			speed := c.state.Speed
			if speed >= domain.InstantSpeed {
				if instantRun >= instantBudget(speed) {
					break
				}
				instantRun++
				c.commit(cmd, true)
				continue
			}
			d := execution.Duration(cmd, speed)
			if d == 0 {
				c.commit(cmd, true)
				continue
			}
			c.cursor = Cursor{
				Index:    c.cursor.Index,
				Duration: d,
				Speed:    speed,
				Start:    c.state,
				Active:   true,
			}
			c.fire(c.hooks.OnCommandStart, domain.EventCommandStart, cmd, false, false)
		}

		c.cursor.Elapsed += remaining
		remaining = 0
		if c.cursor.Elapsed < c.cursor.Duration {
			break
		}
		remaining = c.cursor.Elapsed - c.cursor.Duration
		c.commit(cmd, false)
	}

	if c.cursor.Index >= len(c.queue) && c.status == Advancing {
		c.status = Done
	}
	c.compact()
	c.refreshLive()
}

// instantBudget bounds how many animatable commands instant mode runs in one
// frame: one per unit of speed above the threshold, at least one.
func instantBudget(speed float64) int {
	if speed >= math.MaxInt32 {
		return math.MaxInt32
	}
	n := int(speed) - domain.InstantSpeed
	if n < 1 {
		return 1
	}
	return n
}

// commit applies cmd to the committed state, tessellates its output and
// moves the cursor past it.
func (c *Controller) commit(cmd domain.Command, instant bool) {
	wasActive := c.cursor.Active
	if !wasActive {
		c.fire(c.hooks.OnCommandStart, domain.EventCommandStart, cmd, instant, false)
	}
	res := execution.Apply(c.state, c.tracker, cmd)
	if res.Degenerate {
		c.logger.Debug("degenerate command executed as no-op",
			domain.KeyCommand, cmd.Kind(),
			domain.KeyIndex, c.base+c.cursor.Index,
		)
	}
	if res.ClearDrawing {
		c.completed = nil
	}
	for _, p := range res.Primitives {
		p.Turtle = c.id
		c.completed = append(c.completed, c.tessellate(p))
	}
	c.state = res.State
	if res.Contours != nil && c.hooks.OnFillComplete != nil {
		points := 0
		for _, ct := range res.Contours {
			points += len(ct)
		}
		c.hooks.OnFillComplete(&domain.FillEvent{
			EventBase: domain.NewEventBase(domain.EventFillComplete, c.id),
			Contours:  len(res.Contours),
			Points:    points,
		})
	}
	c.fire(c.hooks.OnCommandComplete, domain.EventCommandComplete, cmd, instant, res.Degenerate)
	c.cursor = Cursor{Index: c.cursor.Index + 1}
}

func (c *Controller) fire(hook func(*domain.CommandEvent), typ domain.EventType, cmd domain.Command, instant, degenerate bool) {
	if hook == nil {
		return
	}
	hook(&domain.CommandEvent{
		EventBase:  domain.NewEventBase(typ, c.id),
		Index:      c.base + c.cursor.Index,
		Command:    cmd.Kind(),
		Instant:    instant,
		Degenerate: degenerate,
	})
}

func (c *Controller) tessellate(p domain.Primitive) domain.Drawable {
	mesh, err := c.tess.Tessellate(p)
	if err != nil {
		c.logger.Warn("tessellation failed, keeping primitive without mesh",
			"kind", p.Kind.String(),
			"err", err,
		)
		mesh = domain.Mesh{}
	}
	return domain.Drawable{Primitive: p, Mesh: mesh}
}

// refreshLive rebuilds the in-progress output: the live fill preview, the
// partial stroke of the current command and the turtle marker. It replaces
// whatever the previous frame produced.
func (c *Controller) refreshLive() {
	c.live = nil
	c.display = c.state

	var frame execution.Frame
	if c.cursor.Active {
		t := float64(c.cursor.Elapsed) / float64(c.cursor.Duration)
		frame = execution.Interpolate(c.cursor.Start, c.queue[c.cursor.Index], execution.EaseInOutCubic(t))
		c.display = frame.State
	}

	if c.tracker.Filling() {
		if contours := c.tracker.Preview(frame.InFlight); len(contours) > 0 {
			p := domain.FillPrimitive(c.state, contours)
			p.Live = true
			p.Turtle = c.id
			c.live = append(c.live, c.tessellate(p))
		}
	}
	for _, p := range frame.Live {
		p.Live = true
		p.Turtle = c.id
		c.live = append(c.live, c.tessellate(p))
	}
	if p, ok := domain.MarkerPrimitive(c.display); ok {
		p.Turtle = c.id
		c.live = append(c.live, c.tessellate(p))
	}
}

// compact drops executed commands once enough have accumulated.
func (c *Controller) compact() {
	n := c.cursor.Index
	if n < compactAfter || n*2 < len(c.queue) {
		return
	}
	c.queue = append([]domain.Command(nil), c.queue[n:]...)
	c.base += n
	c.cursor.Index = 0
}
