package registry

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/aretw0/turtle/internal/logging"
	"github.com/aretw0/turtle/internal/slotmap"
	"github.com/aretw0/turtle/internal/tween"
	"github.com/aretw0/turtle/pkg/domain"
	"github.com/aretw0/turtle/pkg/ports"
)

// Status is a turtle's position in its animation state machine.
type Status = tween.Status

const (
	StatusIdle      = tween.Idle
	StatusAdvancing = tween.Advancing
	StatusDone      = tween.Done
)

// TurtleDrawing is the drawable output of one turtle for the current frame.
type TurtleDrawing struct {
	ID        domain.TurtleID
	Completed []domain.Drawable
	Live      []domain.Drawable
}

// All returns committed drawables followed by live ones.
func (d TurtleDrawing) All() []domain.Drawable {
	out := make([]domain.Drawable, 0, len(d.Completed)+len(d.Live))
	out = append(out, d.Completed...)
	return append(out, d.Live...)
}

// Registry owns one animation controller per turtle. It is single-owner:
// every method except Inbox must be called from the frame thread. Producers
// on other goroutines reach it through the Inbox.
type Registry struct {
	turtles *slotmap.Map[*tween.Controller]
	order   []domain.TurtleID
	inbox   *Inbox
	frame   uint64

	tess   ports.Tessellator
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	state  *domain.TurtleState
}

// Option configures the Registry.
type Option func(*Registry)

// WithTessellator sets the collaborator used by every controller.
func WithTessellator(t ports.Tessellator) Option {
	return func(r *Registry) {
		r.tess = t
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(h domain.LifecycleHooks) Option {
	return func(r *Registry) {
		r.hooks = h
	}
}

// WithLogger configures the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// WithInbox shares an existing inbox.
func WithInbox(i *Inbox) Option {
	return func(r *Registry) {
		r.inbox = i
	}
}

// WithInboxCapacity sizes the registry's own inbox.
func WithInboxCapacity(n int) Option {
	return func(r *Registry) {
		r.inbox = NewInbox(n)
	}
}

// WithInitialState sets the state new turtles start from.
func WithInitialState(s domain.TurtleState) Option {
	return func(r *Registry) {
		r.state = &s
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		turtles: slotmap.New[*tween.Controller](),
		tess:    ports.PassThrough,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.inbox == nil {
		r.inbox = NewInbox(DefaultInboxCapacity)
	}
	return r
}

// Inbox returns the hand-off for producers on other goroutines.
func (r *Registry) Inbox() *Inbox { return r.inbox }

// Create adds an idle turtle and returns its identity.
func (r *Registry) Create() domain.TurtleID {
	key := r.turtles.Insert(nil)
	id := domain.NewTurtleID(key.Index, key.Generation)

	opts := []tween.Option{
		tween.WithTessellator(r.tess),
		tween.WithLifecycleHooks(r.hooks),
		tween.WithLogger(r.logger),
	}
	if r.state != nil {
		opts = append(opts, tween.WithState(*r.state))
	}
	r.turtles.Set(key, tween.New(id, opts...))
	r.order = append(r.order, id)

	r.logger.Debug("turtle created", domain.KeyTurtleID, id.String())
	if r.hooks.OnTurtleCreated != nil {
		r.hooks.OnTurtleCreated(&domain.TurtleEvent{EventBase: domain.NewEventBase(domain.EventTurtleCreated, id)})
	}
	return id
}

// Remove discards a turtle, its cursor and its drawing. Batches for it that
// are still in the inbox are dropped when drained.
func (r *Registry) Remove(id domain.TurtleID) error {
	if _, ok := r.turtles.Remove(key(id)); !ok {
		return notFound("remove", id)
	}
	r.order = slices.DeleteFunc(r.order, func(o domain.TurtleID) bool { return o == id })

	r.logger.Debug("turtle removed", domain.KeyTurtleID, id.String())
	if r.hooks.OnTurtleRemoved != nil {
		r.hooks.OnTurtleRemoved(&domain.TurtleEvent{EventBase: domain.NewEventBase(domain.EventTurtleRemoved, id)})
	}
	return nil
}

// Append freezes plan and attaches its commands to the turtle's queue.
func (r *Registry) Append(id domain.TurtleID, plan *domain.Plan) error {
	c, err := r.controller("append", id)
	if err != nil {
		return err
	}
	if plan == nil {
		return nil
	}
	c.Append(plan.Freeze().Commands()...)
	return nil
}

// DrainExternal applies the envelopes queued in the inbox when the call
// starts, in submission order. Envelopes arriving meanwhile wait for the
// next drain. It returns the number of envelopes processed.
func (r *Registry) DrainExternal() int {
	envs := r.inbox.take(r.inbox.Len())
	for _, env := range envs {
		switch env.kind {
		case envelopeCreate:
			env.reply <- reply{id: r.Create()}
		case envelopeRemove:
			env.reply <- reply{err: r.Remove(env.id)}
		case envelopeBatch:
			r.applyBatch(env)
		}
	}
	return len(envs)
}

func (r *Registry) applyBatch(env envelope) {
	ev := &domain.BatchEvent{Commands: env.plan.Len()}
	k := key(env.id)
	if !r.turtles.Contains(k) {
		r.logger.Debug("dropping batch for unknown turtle",
			domain.KeyTurtleID, env.id.String(),
			"commands", env.plan.Len(),
		)
		if r.hooks.OnBatchDropped != nil {
			ev.EventBase = domain.NewEventBase(domain.EventBatchDropped, env.id)
			ev.Reason = domain.ErrTurtleNotFound.Error()
			r.hooks.OnBatchDropped(ev)
		}
		return
	}
	c, _ := r.turtles.Get(k)
	c.Append(env.plan.Commands()...)
	if r.hooks.OnBatchDrained != nil {
		ev.EventBase = domain.NewEventBase(domain.EventBatchDrained, env.id)
		r.hooks.OnBatchDrained(ev)
	}
}

// AdvanceAll moves every turtle forward by dt. It never blocks.
func (r *Registry) AdvanceAll(dt time.Duration) {
	for _, id := range r.order {
		if c, ok := r.turtles.Get(key(id)); ok {
			c.Advance(dt)
		}
	}
	r.frame++
}

// Step drains the inbox and then advances every turtle; this is one frame.
func (r *Registry) Step(dt time.Duration) {
	r.DrainExternal()
	r.AdvanceAll(dt)
}

// FrameNumber returns the number of frames advanced so far.
func (r *Registry) FrameNumber() uint64 { return r.frame }

// DrawableState returns every turtle's drawing in creation order.
func (r *Registry) DrawableState() []TurtleDrawing {
	out := make([]TurtleDrawing, 0, len(r.order))
	for _, id := range r.order {
		if c, ok := r.turtles.Get(key(id)); ok {
			out = append(out, drawingOf(c))
		}
	}
	return out
}

// Drawing returns the drawing of one turtle.
func (r *Registry) Drawing(id domain.TurtleID) (TurtleDrawing, error) {
	c, err := r.controller("drawing", id)
	if err != nil {
		return TurtleDrawing{}, err
	}
	return drawingOf(c), nil
}

// State returns the committed state of one turtle.
func (r *Registry) State(id domain.TurtleID) (domain.TurtleState, error) {
	c, err := r.controller("state", id)
	if err != nil {
		return domain.TurtleState{}, err
	}
	return c.State(), nil
}

// Status returns the animation status of one turtle.
func (r *Registry) Status(id domain.TurtleID) (Status, error) {
	c, err := r.controller("status", id)
	if err != nil {
		return StatusIdle, err
	}
	return c.Status(), nil
}

// IDs returns the live turtle ids in creation order.
func (r *Registry) IDs() []domain.TurtleID {
	return slices.Clone(r.order)
}

// Len returns the number of live turtles.
func (r *Registry) Len() int { return r.turtles.Len() }

// Idle reports whether no turtle has pending commands and the inbox is empty.
func (r *Registry) Idle() bool {
	if r.inbox.Len() > 0 {
		return false
	}
	idle := true
	r.turtles.Each(func(_ slotmap.Key, c *tween.Controller) bool {
		if c != nil && c.Pending() > 0 {
			idle = false
		}
		return idle
	})
	return idle
}

// Frame collects the drawables of every turtle for presentation.
func (r *Registry) Frame() ports.Frame {
	f := ports.Frame{Number: r.frame}
	for _, d := range r.DrawableState() {
		f.Drawables = append(f.Drawables, d.All()...)
	}
	return f
}

// Snapshot copies the drawable state for readers on other goroutines.
// Primitive point slices are shared; they are never mutated once emitted.
func (r *Registry) Snapshot() *domain.Snapshot {
	s := &domain.Snapshot{Frame: r.frame, Turtles: make([]domain.TurtleSnapshot, 0, len(r.order))}
	for _, id := range r.order {
		c, ok := r.turtles.Get(key(id))
		if !ok {
			continue
		}
		ts := domain.TurtleSnapshot{
			ID:      id,
			State:   c.DisplayState(),
			Status:  c.Status().String(),
			Pending: c.Pending(),
		}
		ts.State.Shape = ts.State.Shape.Clone()
		for _, d := range c.Drawables() {
			ts.Primitives = append(ts.Primitives, d.Primitive)
		}
		s.Turtles = append(s.Turtles, ts)
	}
	return s
}

func (r *Registry) controller(op string, id domain.TurtleID) (*tween.Controller, error) {
	c, ok := r.turtles.Get(key(id))
	if !ok || c == nil {
		return nil, notFound(op, id)
	}
	return c, nil
}

func drawingOf(c *tween.Controller) TurtleDrawing {
	return TurtleDrawing{ID: c.ID(), Completed: c.Completed(), Live: c.Live()}
}

func key(id domain.TurtleID) slotmap.Key {
	return slotmap.Key{Index: id.Index(), Generation: id.Generation()}
}

func notFound(op string, id domain.TurtleID) error {
	return fmt.Errorf("%s turtle %s: %w: %w", op, id, domain.ErrInvalidState, domain.ErrTurtleNotFound)
}
