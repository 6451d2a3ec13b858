package ports

import (
	"context"
	"testing"

	"github.com/aretw0/turtle/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunTessellatorContract verifies that a Tessellator accepts every primitive
// kind the engine emits, including degenerate fills.
func RunTessellatorContract(t *testing.T, tess Tessellator) {
	t.Helper()
	s := domain.DefaultState()

	t.Run("Line", func(t *testing.T) {
		_, err := tess.Tessellate(domain.LinePrimitive(s, domain.Pt(0, 0), domain.Pt(10, 0)))
		require.NoError(t, err)
	})

	t.Run("Arc", func(t *testing.T) {
		arc := domain.Arc{
			Center:     domain.Pt(0, -10),
			Radius:     10,
			StartAngle: 90,
			Sweep:      -180,
			Segments:   2,
			Points:     []domain.Point{{X: 0, Y: 0}, {X: -10, Y: -10}, {X: 0, Y: -20}},
		}
		_, err := tess.Tessellate(domain.ArcPrimitive(s, arc))
		require.NoError(t, err)
	})

	t.Run("Fill with hole", func(t *testing.T) {
		outer := []domain.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}}
		inner := []domain.Point{{X: 25, Y: 25}, {X: 75, Y: 25}, {X: 75, Y: 75}, {X: 25, Y: 75}}
		p := domain.FillPrimitive(s, [][]domain.Point{outer, inner})
		assert.Equal(t, domain.EvenOdd, p.Fill.Rule)
		_, err := tess.Tessellate(p)
		require.NoError(t, err)
	})

	t.Run("Degenerate fill", func(t *testing.T) {
		p := domain.FillPrimitive(s, [][]domain.Point{{}, {{X: 1, Y: 1}}})
		_, err := tess.Tessellate(p)
		assert.NoError(t, err, "degenerate contours must be ignored, not rejected")
	})

	t.Run("Marker", func(t *testing.T) {
		p, ok := domain.MarkerPrimitive(s)
		require.True(t, ok)
		_, err := tess.Tessellate(p)
		require.NoError(t, err)
	})
}

// RunSurfaceContract verifies that a Surface presents empty and populated
// frames and honors cancellation without panicking.
func RunSurfaceContract(t *testing.T, surface Surface, tess Tessellator) {
	t.Helper()
	ctx := context.Background()

	t.Run("Empty frame", func(t *testing.T) {
		require.NoError(t, surface.Present(ctx, Frame{Number: 1}))
	})

	t.Run("Populated frame", func(t *testing.T) {
		p := domain.LinePrimitive(domain.DefaultState(), domain.Pt(0, 0), domain.Pt(20, 20))
		mesh, err := tess.Tessellate(p)
		require.NoError(t, err)
		f := Frame{Number: 2, Drawables: []domain.Drawable{{Primitive: p, Mesh: mesh}}}
		require.NoError(t, surface.Present(ctx, f))
	})
}
