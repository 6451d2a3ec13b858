// Package raster renders turtle drawings with the gg 2D library.
//
// The Tessellator turns primitives into gg paths and the Canvas replays
// those paths onto an in-memory image that can be encoded as PNG.
package raster

import (
	"errors"
	"fmt"

	"github.com/aretw0/turtle/pkg/domain"
	"github.com/gogpu/gg"
)

// ErrUnknownPrimitive is returned for primitive kinds the tessellator does
// not know how to trace.
var ErrUnknownPrimitive = errors.New("unknown primitive kind")

// Mesh is the payload produced by the Tessellator.
type Mesh struct {
	Path   *gg.Path
	Closed bool
	Rule   gg.FillRule
}

// Tessellator traces primitives as gg paths. Fill contours with fewer than
// three points cannot enclose area and are skipped; holes come from the
// even-odd rule at raster time.
type Tessellator struct{}

// NewTessellator creates a Tessellator.
func NewTessellator() *Tessellator { return &Tessellator{} }

// Tessellate implements ports.Tessellator.
func (t *Tessellator) Tessellate(p domain.Primitive) (domain.Mesh, error) {
	path := gg.NewPath()
	m := &Mesh{Path: path, Rule: gg.FillRuleEvenOdd}

	switch p.Kind {
	case domain.PrimitiveLine:
		path.MoveTo(p.Line.From.X, p.Line.From.Y)
		path.LineTo(p.Line.To.X, p.Line.To.Y)
	case domain.PrimitiveArc:
		polyline(path, p.Arc.Points)
	case domain.PrimitiveFill:
		m.Closed = true
		if p.Fill.Rule == domain.NonZero {
			m.Rule = gg.FillRuleNonZero
		}
		for _, c := range p.Fill.Contours {
			if len(c) < 3 {
				continue
			}
			polyline(path, c)
			path.Close()
		}
	case domain.PrimitiveMarker:
		m.Closed = true
		if len(p.Marker) >= 3 {
			polyline(path, p.Marker)
			path.Close()
		}
	default:
		return domain.Mesh{}, fmt.Errorf("%w: %s", ErrUnknownPrimitive, p.Kind)
	}
	return domain.Mesh{Payload: m}, nil
}

func polyline(path *gg.Path, pts []domain.Point) {
	for i, pt := range pts {
		if i == 0 {
			path.MoveTo(pt.X, pt.Y)
			continue
		}
		path.LineTo(pt.X, pt.Y)
	}
}
