package ports

import (
	"context"

	"github.com/aretw0/turtle/pkg/domain"
)

// Frame is the ordered output of one frame: every turtle's committed
// drawables followed by its live ones, turtles in creation order.
type Frame struct {
	Number    uint64
	Drawables []domain.Drawable
}

// Meshes returns the mesh payloads in draw order.
func (f Frame) Meshes() []domain.Mesh {
	out := make([]domain.Mesh, len(f.Drawables))
	for i, d := range f.Drawables {
		out[i] = d.Mesh
	}
	return out
}

// Surface displays frames. Each call replaces the previous frame's live
// payloads while committed payloads are carried by the frame again.
type Surface interface {
	Present(ctx context.Context, f Frame) error
}
