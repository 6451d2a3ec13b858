package raster

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/turtle/internal/logging"
	"github.com/aretw0/turtle/pkg/domain"
	"github.com/aretw0/turtle/pkg/ports"
	"github.com/gogpu/gg"
)

// Default canvas size in pixels.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Canvas is a ports.Surface that rasterizes every frame into an image.
// The turtle origin sits at the center of the image. Canvas is safe for
// concurrent use: frames are presented from the frame loop while PNG
// encoding may happen elsewhere.
type Canvas struct {
	mu         sync.Mutex
	dc         *gg.Context
	background domain.Color
	tess       *Tessellator
	frame      uint64
	logger     *slog.Logger
}

// CanvasOption configures the Canvas.
type CanvasOption func(*Canvas)

// WithBackground sets the clear color.
func WithBackground(c domain.Color) CanvasOption {
	return func(cv *Canvas) {
		cv.background = c
	}
}

// WithLogger configures the structured logger.
func WithLogger(l *slog.Logger) CanvasOption {
	return func(cv *Canvas) {
		cv.logger = l
	}
}

// NewCanvas creates a canvas of the given size. Non-positive dimensions
// fall back to the defaults.
func NewCanvas(width, height int, opts ...CanvasOption) *Canvas {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	c := &Canvas{
		dc:         gg.NewContext(width, height),
		background: domain.White,
		tess:       NewTessellator(),
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.dc.ClearWithColor(toRGBA(c.background))
	return c
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.dc.Width() }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.dc.Height() }

// FrameNumber returns the number of the last presented frame.
func (c *Canvas) FrameNumber() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

// Present implements ports.Surface. The image is redrawn from scratch:
// committed drawables are carried by every frame.
func (c *Canvas) Present(ctx context.Context, f ports.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dc.ClearWithColor(toRGBA(c.background))
	ox, oy := float64(c.dc.Width())/2, float64(c.dc.Height())/2

	for i, d := range f.Drawables {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		mesh, err := c.meshOf(d)
		if err != nil {
			c.logger.Warn("skipping drawable",
				domain.KeyTurtleID, d.Primitive.Turtle.String(),
				"kind", d.Primitive.Kind.String(),
				"err", err,
			)
			continue
		}
		if err := c.draw(d.Primitive, mesh, ox, oy); err != nil {
			return fmt.Errorf("draw %s: %w", d.Primitive.Kind, err)
		}
	}
	c.frame = f.Number
	return nil
}

// meshOf reuses a raster mesh when the frame carries one and traces the
// primitive otherwise.
func (c *Canvas) meshOf(d domain.Drawable) (*Mesh, error) {
	if m, ok := d.Mesh.Payload.(*Mesh); ok {
		return m, nil
	}
	mesh, err := c.tess.Tessellate(d.Primitive)
	if err != nil {
		return nil, err
	}
	return mesh.Payload.(*Mesh), nil
}

func (c *Canvas) draw(p domain.Primitive, m *Mesh, ox, oy float64) error {
	elems := m.Path.Elements()
	if len(elems) == 0 {
		return nil
	}
	c.dc.ClearPath()
	for _, e := range elems {
		switch e := e.(type) {
		case gg.MoveTo:
			c.dc.MoveTo(e.Point.X+ox, e.Point.Y+oy)
		case gg.LineTo:
			c.dc.LineTo(e.Point.X+ox, e.Point.Y+oy)
		case gg.Close:
			c.dc.ClosePath()
		}
	}

	switch p.Kind {
	case domain.PrimitiveFill:
		c.dc.SetFillRule(m.Rule)
		c.setColor(p.FillColor)
		return c.dc.Fill()
	case domain.PrimitiveMarker:
		c.dc.SetFillRule(gg.FillRuleNonZero)
		c.setColor(p.FillColor)
		if err := c.dc.FillPreserve(); err != nil {
			return err
		}
		fallthrough
	default:
		if p.StrokeWidth <= 0 {
			c.dc.ClearPath()
			return nil
		}
		c.dc.SetLineWidth(p.StrokeWidth)
		c.setColor(p.StrokeColor)
		return c.dc.Stroke()
	}
}

func (c *Canvas) setColor(col domain.Color) {
	c.dc.SetRGBA(col.R, col.G, col.B, col.A)
}

// Image returns a snapshot of the last presented frame.
func (c *Canvas) Image() image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dc.Image()
}

// EncodePNG writes the last presented frame as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dc.EncodePNG(w)
}

// SavePNG writes the last presented frame to a PNG file.
func (c *Canvas) SavePNG(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dc.SavePNG(path)
}

// Close releases the drawing context.
func (c *Canvas) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dc.Close()
}

func toRGBA(c domain.Color) gg.RGBA {
	return gg.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
