package turtle

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/turtle/internal/logging"
	"github.com/aretw0/turtle/pkg/domain"
	"github.com/aretw0/turtle/pkg/ports"
	"github.com/aretw0/turtle/pkg/registry"
	"github.com/aretw0/turtle/pkg/runner"
)

// Version is the release of the turtle module.
const Version = "0.4.0"

// World is the high-level entry point: a registry of turtles driven by a
// frame loop. Everything except Inbox and Snapshot belongs to the goroutine
// that drives the frames.
type World struct {
	reg    *registry.Registry
	runner *runner.Runner

	regOpts    []registry.Option
	runnerOpts []runner.Option
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
}

// Option defines a functional option for configuring the World.
type Option func(*World)

// WithLifecycleHooks registers observability hooks. Repeated use chains
// the hooks in order.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(w *World) {
		w.hooks = w.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *World) {
		w.logger = logger
	}
}

// WithTessellator sets the collaborator that turns primitives into meshes.
func WithTessellator(t ports.Tessellator) Option {
	return func(w *World) {
		w.regOpts = append(w.regOpts, registry.WithTessellator(t))
	}
}

// WithSurface presents every frame on s.
func WithSurface(s ports.Surface) Option {
	return func(w *World) {
		w.runnerOpts = append(w.runnerOpts, runner.WithSurface(s))
	}
}

// WithFPS sets the frame rate of Run and the frame delta of Draw.
func WithFPS(fps int) Option {
	return func(w *World) {
		w.runnerOpts = append(w.runnerOpts, runner.WithFPS(fps))
	}
}

// WithStopWhenIdle makes Run return once every turtle has finished.
func WithStopWhenIdle(stop bool) Option {
	return func(w *World) {
		w.runnerOpts = append(w.runnerOpts, runner.WithStopWhenIdle(stop))
	}
}

// WithMaxFrames bounds Draw.
func WithMaxFrames(n int) Option {
	return func(w *World) {
		w.runnerOpts = append(w.runnerOpts, runner.WithMaxFrames(n))
	}
}

// WithFrameObserver is called after every frame.
func WithFrameObserver(fn runner.FrameObserver) Option {
	return func(w *World) {
		w.runnerOpts = append(w.runnerOpts, runner.WithFrameObserver(fn))
	}
}

// WithInboxCapacity sizes the hand-off used by producer goroutines.
func WithInboxCapacity(n int) Option {
	return func(w *World) {
		w.regOpts = append(w.regOpts, registry.WithInboxCapacity(n))
	}
}

// WithInitialState sets the state new turtles start from.
func WithInitialState(s domain.TurtleState) Option {
	return func(w *World) {
		w.regOpts = append(w.regOpts, registry.WithInitialState(s))
	}
}

// New initializes a World with no turtles.
func New(opts ...Option) *World {
	w := &World{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(w)
	}

	regOpts := append([]registry.Option{
		registry.WithLogger(w.logger),
		registry.WithLifecycleHooks(w.hooks),
	}, w.regOpts...)
	w.reg = registry.New(regOpts...)

	runnerOpts := append([]runner.Option{runner.WithLogger(w.logger)}, w.runnerOpts...)
	w.runner = runner.NewRunner(w.reg, runnerOpts...)
	return w
}

// Registry exposes the underlying registry.
func (w *World) Registry() *registry.Registry { return w.reg }

// Runner exposes the frame loop.
func (w *World) Runner() *runner.Runner { return w.runner }

// Inbox is the hand-off for producers on other goroutines.
func (w *World) Inbox() *registry.Inbox { return w.reg.Inbox() }

// Snapshot returns the drawable state published after the latest frame.
// Safe from any goroutine.
func (w *World) Snapshot() *domain.Snapshot { return w.runner.Snapshot() }

// Spawn creates a turtle and queues plan for it.
func (w *World) Spawn(plan *domain.Plan) (domain.TurtleID, error) {
	id := w.reg.Create()
	if err := w.reg.Append(id, plan); err != nil {
		return domain.NilTurtle, err
	}
	return id, nil
}

// Step advances one frame of dt.
func (w *World) Step(ctx context.Context, dt time.Duration) error {
	return w.runner.Step(ctx, dt)
}

// Draw steps fixed frames until every turtle is idle and returns the number
// of frames it took.
func (w *World) Draw(ctx context.Context) (int, error) {
	return w.runner.RunUntilIdle(ctx)
}

// Run drives frames in real time until ctx is done.
func (w *World) Run(ctx context.Context) error {
	return w.runner.Run(ctx)
}
