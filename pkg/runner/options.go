package runner

import (
	"log/slog"
	"time"

	"github.com/aretw0/turtle/pkg/ports"
)

// DefaultFPS is the frame rate used when none is configured.
const DefaultFPS = 60

// DefaultMaxFrames bounds RunUntilIdle when no limit is configured.
const DefaultMaxFrames = 1_000_000

// FrameObserver is notified after every frame with the simulated delta and
// the wall time the frame took.
type FrameObserver func(frame uint64, dt, took time.Duration)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithSurface configures where frames are presented. Without a surface
// frames are only published as snapshots.
func WithSurface(s ports.Surface) Option {
	return func(r *Runner) {
		r.surface = s
	}
}

// WithFPS sets the target frame rate of Run and the fixed step of
// RunUntilIdle.
func WithFPS(fps int) Option {
	return func(r *Runner) {
		if fps > 0 {
			r.fps = fps
		}
	}
}

// WithStopWhenIdle makes Run return once every turtle has finished and the
// inbox is empty.
func WithStopWhenIdle(stop bool) Option {
	return func(r *Runner) {
		r.stopWhenIdle = stop
	}
}

// WithMaxFrames bounds RunUntilIdle.
func WithMaxFrames(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxFrames = n
		}
	}
}

// WithFrameObserver registers a callback invoked after each frame.
func WithFrameObserver(fn FrameObserver) Option {
	return func(r *Runner) {
		r.observers = append(r.observers, fn)
	}
}
