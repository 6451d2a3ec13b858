package domain_test

import (
	"testing"

	"github.com/aretw0/turtle/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAngle_Normalized(t *testing.T) {
	tests := []struct {
		in, want domain.Angle
	}{
		{0, 0},
		{180, 180},
		{-180, 180},
		{270, -90},
		{-450, -90},
		{720, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, float64(tt.want), float64(tt.in.Normalized()), 1e-9, "angle %v", tt.in)
	}
}

func TestPoint_PolarAndRotate(t *testing.T) {
	p := domain.Pt(0, 0).Polar(10, 90)
	assert.InDelta(t, 0, p.X, 1e-9)
	assert.InDelta(t, 10, p.Y, 1e-9)

	r := domain.Pt(1, 0).Rotate(90)
	assert.InDelta(t, 0, r.X, 1e-9)
	assert.InDelta(t, 1, r.Y, 1e-9)

	assert.Equal(t, domain.Pt(5, 5), domain.Pt(0, 0).Lerp(domain.Pt(10, 10), 0.5))
}

func TestParseColor(t *testing.T) {
	c, err := domain.ParseColor("gold")
	require.NoError(t, err)
	assert.Equal(t, domain.Gold, c)

	c, err = domain.ParseColor("#f00")
	require.NoError(t, err)
	assert.Equal(t, domain.Red, c)

	c, err = domain.ParseColor("#00000080")
	require.NoError(t, err)
	assert.InDelta(t, 128.0/255, c.A, 1e-9)
	assert.Equal(t, "#00000080", c.Hex())

	_, err = domain.ParseColor("#12")
	assert.Error(t, err)
	_, err = domain.ParseColor("nope")
	assert.Error(t, err)
}

func TestTurtleID_RoundTrip(t *testing.T) {
	id := domain.NewTurtleID(3, 7)
	assert.Equal(t, uint32(3), id.Index())
	assert.Equal(t, uint32(7), id.Generation())
	assert.Equal(t, "3v7", id.String())

	parsed, err := domain.ParseTurtleID("3v7")
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	parsed, err = domain.ParseTurtleID("30064771075")
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = domain.ParseTurtleID("x")
	assert.Error(t, err)
}

func TestDefaultState(t *testing.T) {
	s := domain.DefaultState()
	assert.True(t, s.PenDown)
	assert.True(t, s.Visible)
	assert.Equal(t, 2.0, s.StrokeWidth)
	assert.Equal(t, domain.ShapeTurtle, s.Shape.Name)
	assert.Equal(t, float64(domain.DefaultSpeed), s.Speed)
	assert.False(t, s.Instant())
	assert.Len(t, s.Marker(), len(s.Shape.Vertices))

	s.Visible = false
	assert.Nil(t, s.Marker())
	_, ok := domain.MarkerPrimitive(s)
	assert.False(t, ok)
}

func TestLookupShape(t *testing.T) {
	for _, name := range []string{domain.ShapeTurtle, domain.ShapeTriangle, domain.ShapeArrow, domain.ShapeCircle, domain.ShapeSquare} {
		s, ok := domain.LookupShape(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, s.Vertices)
	}
	_, ok := domain.LookupShape("hexagon")
	assert.False(t, ok)
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnTurtleCreated: func(*domain.TurtleEvent) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{OnTurtleCreated: func(*domain.TurtleEvent) { calls = append(calls, "b") }}
	m := a.Merge(b)
	m.OnTurtleCreated(&domain.TurtleEvent{})
	assert.Equal(t, []string{"a", "b"}, calls)
	assert.Nil(t, m.OnFillComplete)
}
