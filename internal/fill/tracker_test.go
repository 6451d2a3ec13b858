package fill

import (
	"testing"

	"github.com/aretw0/turtle/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(t *Tracker) {
	t.RecordPoint(domain.Pt(100, 0))
	t.RecordPoint(domain.Pt(100, 100))
	t.RecordPoint(domain.Pt(0, 100))
	t.RecordPoint(domain.Pt(0, 0))
}

func TestTracker_IgnoresPointsOutsideBracket(t *testing.T) {
	tr := New()
	tr.RecordPoint(domain.Pt(1, 1))
	assert.False(t, tr.Filling())
	assert.Empty(t, tr.Contours())
	assert.Empty(t, tr.OnEndFill())
}

func TestTracker_SingleContour(t *testing.T) {
	tr := New()
	tr.OnBeginFill()
	square(tr)
	contours := tr.OnEndFill()
	require.Len(t, contours, 1)
	assert.Len(t, contours[0], 4)
	assert.False(t, tr.Filling())
	assert.Empty(t, tr.OnEndFill())
}

func TestTracker_PenUpSplitsContours(t *testing.T) {
	tr := New()
	tr.OnBeginFill()
	tr.RecordPoints([]domain.Point{{X: 1}, {X: 2}, {X: 3}})
	tr.OnPenUp()
	tr.RecordPoint(domain.Pt(50, 50)) // pen up: ignored
	assert.True(t, tr.Filling())
	tr.OnPenDown()
	tr.RecordPoints([]domain.Point{{Y: 1}, {Y: 2}})

	contours := tr.OnEndFill()
	require.Len(t, contours, 2)
	assert.Len(t, contours[0], 3)
	assert.Len(t, contours[1], 2)
}

func TestTracker_NestedBeginFillIgnored(t *testing.T) {
	tr := New()
	tr.OnBeginFill()
	tr.RecordPoint(domain.Pt(1, 0))
	tr.OnBeginFill()
	tr.RecordPoint(domain.Pt(2, 0))

	contours := tr.OnEndFill()
	require.Len(t, contours, 1)
	assert.Equal(t, []domain.Point{{X: 1}, {X: 2}}, contours[0])
}

func TestTracker_ResetDiscardsBracket(t *testing.T) {
	tr := New()
	tr.OnBeginFill()
	square(tr)
	tr.OnPenUp()
	tr.OnReset()

	assert.False(t, tr.Filling())
	assert.True(t, tr.PenDown())
	assert.Empty(t, tr.OnEndFill())
}

func TestTracker_BeginFillWithPenUpWaitsForPenDown(t *testing.T) {
	tr := NewWithPen(false)
	tr.OnBeginFill()
	tr.RecordPoint(domain.Pt(1, 1))
	assert.Empty(t, tr.Contours())

	tr.OnPenDown()
	tr.RecordPoint(domain.Pt(2, 2))
	contours := tr.OnEndFill()
	require.Len(t, contours, 1)
	assert.Equal(t, []domain.Point{{X: 2, Y: 2}}, contours[0])
}

func TestTracker_DegenerateContourPassesThrough(t *testing.T) {
	tr := New()
	tr.OnBeginFill()
	tr.RecordPoint(domain.Pt(1, 1))
	tr.OnPenUp()

	contours := tr.OnEndFill()
	require.Len(t, contours, 1)
	assert.Len(t, contours[0], 1)
}

func TestTracker_PreviewDoesNotCommit(t *testing.T) {
	tr := New()
	tr.OnBeginFill()
	tr.RecordPoint(domain.Pt(10, 0))

	preview := tr.Preview([]domain.Point{{X: 10, Y: 5}})
	require.Len(t, preview, 1)
	assert.Len(t, preview[0], 2)

	preview[0][0] = domain.Pt(-1, -1)
	contours := tr.Contours()
	require.Len(t, contours, 1)
	assert.Equal(t, []domain.Point{{X: 10}}, contours[0])
}
