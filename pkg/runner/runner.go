package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aretw0/turtle/internal/logging"
	"github.com/aretw0/turtle/pkg/domain"
	"github.com/aretw0/turtle/pkg/ports"
	"github.com/aretw0/turtle/pkg/registry"
)

// ErrFrameLimit is returned by RunUntilIdle when the drawing does not finish
// within the configured number of frames.
var ErrFrameLimit = errors.New("frame limit reached")

// Runner is the frame loop. The goroutine calling Run or RunUntilIdle is
// the registry's frame thread; other goroutines interact through the
// registry's inbox and the published snapshot.
type Runner struct {
	reg          *registry.Registry
	surface      ports.Surface
	logger       *slog.Logger
	fps          int
	stopWhenIdle bool
	maxFrames    int
	observers    []FrameObserver

	snapshot atomic.Pointer[domain.Snapshot]
}

// NewRunner creates a runner driving reg.
func NewRunner(reg *registry.Registry, opts ...Option) *Runner {
	r := &Runner{
		reg:       reg,
		logger:    logging.NewNop(),
		fps:       DefaultFPS,
		maxFrames: DefaultMaxFrames,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.snapshot.Store(reg.Snapshot())
	return r
}

// FrameDelta returns the duration of one frame at the configured rate.
func (r *Runner) FrameDelta() time.Duration {
	return time.Second / time.Duration(r.fps)
}

// Snapshot returns the drawable state published after the latest frame.
// It is safe to call from any goroutine. Before the first frame it returns
// an empty snapshot.
func (r *Runner) Snapshot() *domain.Snapshot {
	if s := r.snapshot.Load(); s != nil {
		return s
	}
	return &domain.Snapshot{}
}

// Step runs one frame: drain the inbox, advance every turtle, present the
// frame and publish a snapshot.
func (r *Runner) Step(ctx context.Context, dt time.Duration) error {
	start := time.Now()
	r.reg.Step(dt)

	if r.surface != nil {
		if err := r.surface.Present(ctx, r.reg.Frame()); err != nil {
			return fmt.Errorf("present frame %d: %w", r.reg.FrameNumber(), err)
		}
	}
	r.snapshot.Store(r.reg.Snapshot())

	took := time.Since(start)
	for _, obs := range r.observers {
		obs(r.reg.FrameNumber(), dt, took)
	}
	return nil
}

// Run steps the registry on a ticker until ctx is done, or until the
// registry is idle when WithStopWhenIdle is set. Frame deltas are measured
// from the wall clock.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.FrameDelta())
	defer ticker.Stop()

	r.logger.Info("frame loop started", "fps", r.fps)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("frame loop stopped", "frames", r.reg.FrameNumber())
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if err := r.Step(ctx, dt); err != nil {
				return err
			}
			if r.stopWhenIdle && r.reg.Idle() {
				r.logger.Info("all turtles finished", "frames", r.reg.FrameNumber())
				return nil
			}
		}
	}
}

// RunUntilIdle steps with a fixed delta and no sleeping until every turtle
// has finished. It is deterministic and meant for headless rendering and
// tests. It returns the number of frames run.
func (r *Runner) RunUntilIdle(ctx context.Context) (int, error) {
	dt := r.FrameDelta()
	for frames := 1; frames <= r.maxFrames; frames++ {
		if err := ctx.Err(); err != nil {
			return frames - 1, err
		}
		if err := r.Step(ctx, dt); err != nil {
			return frames, err
		}
		if r.reg.Idle() {
			r.logger.Debug("drawing finished", "frames", frames)
			return frames, nil
		}
	}
	return r.maxFrames, fmt.Errorf("after %d frames: %w", r.maxFrames, ErrFrameLimit)
}
