// Package memory provides in-memory surface and tessellator adapters for
// headless runs and tests.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/turtle/pkg/ports"
)

// DefaultHistory is how many presented frames a Surface keeps.
const DefaultHistory = 16

// Surface implements ports.Surface by recording frames in memory.
// Safe for concurrent use.
type Surface struct {
	mu      sync.RWMutex
	frames  []ports.Frame
	history int
	count   uint64
}

// SurfaceOption configures the Surface.
type SurfaceOption func(*Surface)

// WithHistory sets how many frames are retained. Values below 1 keep one.
func WithHistory(n int) SurfaceOption {
	return func(s *Surface) {
		if n < 1 {
			n = 1
		}
		s.history = n
	}
}

// NewSurface creates a new in-memory surface.
func NewSurface(opts ...SurfaceOption) *Surface {
	s := &Surface{history: DefaultHistory}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Present records the frame, evicting the oldest one when full.
func (s *Surface) Present(ctx context.Context, f ports.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// Copy the slice header contents so later frames cannot alias it.
	f.Drawables = append(f.Drawables[:0:0], f.Drawables...)

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == s.history {
		copy(s.frames, s.frames[1:])
		s.frames = s.frames[:len(s.frames)-1]
	}
	s.frames = append(s.frames, f)
	s.count++
	return nil
}

// Last returns the most recent frame.
func (s *Surface) Last() (ports.Frame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.frames) == 0 {
		return ports.Frame{}, false
	}
	return s.frames[len(s.frames)-1], true
}

// Frames returns the retained frames, oldest first.
func (s *Surface) Frames() []ports.Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ports.Frame(nil), s.frames...)
}

// Count returns how many frames were presented in total.
func (s *Surface) Count() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}
