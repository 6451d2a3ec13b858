package registry_test

import (
	"testing"
	"time"

	"github.com/aretw0/turtle/pkg/domain"
	"github.com/aretw0/turtle/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = time.Second / 60

func plan(cmds ...domain.Command) *domain.Plan {
	return domain.PlanOf(cmds...)
}

func TestRegistry_CreateAppendAdvance(t *testing.T) {
	reg := registry.New()
	id := reg.Create()
	require.NoError(t, reg.Append(id, plan(domain.Move{Distance: 100}, domain.Turn{Angle: 90})))

	for i := 0; i < 200 && !reg.Idle(); i++ {
		reg.Step(frame)
	}
	require.True(t, reg.Idle())

	st, err := reg.State(id)
	require.NoError(t, err)
	assert.Equal(t, 100.0, st.Position.X)
	assert.Equal(t, domain.Angle(90), st.Heading)

	status, err := reg.Status(id)
	require.NoError(t, err)
	assert.Equal(t, registry.StatusDone, status)
}

func TestRegistry_AppendFreezesPlan(t *testing.T) {
	reg := registry.New()
	id := reg.Create()
	p := domain.NewPlan()
	require.NoError(t, p.Append(domain.Move{Distance: 1}))
	require.NoError(t, reg.Append(id, p))
	assert.ErrorIs(t, p.Append(domain.Move{Distance: 1}), domain.ErrInvalidState)
}

func TestRegistry_UnknownTurtle(t *testing.T) {
	reg := registry.New()
	id := reg.Create()
	require.NoError(t, reg.Remove(id))

	err := reg.Remove(id)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.ErrorIs(t, err, domain.ErrTurtleNotFound)

	assert.ErrorIs(t, reg.Append(id, plan(domain.PenUp{})), domain.ErrInvalidState)
	_, err = reg.State(id)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = reg.Drawing(domain.NilTurtle)
	assert.ErrorIs(t, err, domain.ErrTurtleNotFound)
}

func TestRegistry_IdentitySurvivesSlotReuse(t *testing.T) {
	reg := registry.New()
	a := reg.Create()
	require.NoError(t, reg.Remove(a))
	b := reg.Create()

	assert.Equal(t, a.Index(), b.Index())
	assert.NotEqual(t, a, b)
	_, err := reg.State(a)
	assert.ErrorIs(t, err, domain.ErrTurtleNotFound)
	_, err = reg.State(b)
	assert.NoError(t, err)
}

func TestRegistry_RemoveDoesNotDisturbOthers(t *testing.T) {
	build := func() (*registry.Registry, domain.TurtleID, domain.TurtleID) {
		reg := registry.New()
		a := reg.Create()
		b := reg.Create()
		require.NoError(t, reg.Append(a, plan(domain.Move{Distance: 100})))
		require.NoError(t, reg.Append(b, plan(domain.Turn{Angle: 45}, domain.Move{Distance: 100})))
		reg.Step(300 * time.Millisecond)
		return reg, a, b
	}

	withRemoval, a, b := build()
	control, _, b2 := build()
	require.Equal(t, b, b2)

	require.NoError(t, withRemoval.Remove(a))
	withRemoval.Step(frame)
	control.Step(frame)

	got, err := withRemoval.Drawing(b)
	require.NoError(t, err)
	want, err := control.Drawing(b)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.NotEmpty(t, got.Live)

	assert.Equal(t, []domain.TurtleID{b}, withRemoval.IDs())
	assert.Len(t, withRemoval.DrawableState(), 1)
}

func TestRegistry_DrawableStateOrderedByCreation(t *testing.T) {
	reg := registry.New()
	ids := []domain.TurtleID{reg.Create(), reg.Create(), reg.Create()}
	require.NoError(t, reg.Remove(ids[0]))
	ids = append(ids[1:], reg.Create()) // reuses slot 0

	var got []domain.TurtleID
	for _, d := range reg.DrawableState() {
		got = append(got, d.ID)
	}
	assert.Equal(t, ids, got)
}

func TestRegistry_ResetClearsOnlyOwnDrawing(t *testing.T) {
	reg := registry.New()
	a := reg.Create()
	b := reg.Create()
	fast := domain.SetSpeed{Speed: 5000}
	require.NoError(t, reg.Append(a, plan(fast, domain.Move{Distance: 10})))
	require.NoError(t, reg.Append(b, plan(fast, domain.Move{Distance: 10})))
	reg.Step(frame)

	require.NoError(t, reg.Append(a, plan(domain.Reset{})))
	reg.Step(frame)

	da, _ := reg.Drawing(a)
	db, _ := reg.Drawing(b)
	assert.Empty(t, da.Completed)
	assert.Len(t, db.Completed, 1)
}

func TestRegistry_SnapshotAndFrame(t *testing.T) {
	reg := registry.New()
	id := reg.Create()
	require.NoError(t, reg.Append(id, plan(domain.Move{Distance: 100})))
	reg.Step(500 * time.Millisecond)

	snap := reg.Snapshot()
	assert.Equal(t, uint64(1), snap.Frame)
	ts, ok := snap.Turtle(id)
	require.True(t, ok)
	assert.Equal(t, "advancing", ts.Status)
	assert.Equal(t, 1, ts.Pending)
	assert.InDelta(t, 50, ts.State.Position.X, 1e-9)

	f := reg.Frame()
	assert.Equal(t, uint64(1), f.Number)
	assert.Len(t, f.Drawables, len(ts.Primitives))
}

func TestRegistry_HooksForLifecycle(t *testing.T) {
	var created, removed int
	reg := registry.New(registry.WithLifecycleHooks(domain.LifecycleHooks{
		OnTurtleCreated: func(*domain.TurtleEvent) { created++ },
		OnTurtleRemoved: func(*domain.TurtleEvent) { removed++ },
	}))
	id := reg.Create()
	reg.Create()
	require.NoError(t, reg.Remove(id))
	assert.Equal(t, 2, created)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_InitialState(t *testing.T) {
	st := domain.DefaultState()
	st.Speed = domain.InstantSpeed
	reg := registry.New(registry.WithInitialState(st))
	id := reg.Create()
	require.NoError(t, reg.Append(id, plan(domain.Move{Distance: 10})))
	reg.Step(frame)
	assert.True(t, reg.Idle())
}
