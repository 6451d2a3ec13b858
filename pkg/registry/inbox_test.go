package registry_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/turtle/pkg/domain"
	"github.com/aretw0/turtle/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInbox_TrySubmitReportsCapacity(t *testing.T) {
	reg := registry.New(registry.WithInboxCapacity(2))
	id := reg.Create()
	s := reg.Inbox().Sender(id)

	require.NoError(t, s.TrySend(domain.Move{Distance: 1}))
	require.NoError(t, s.TrySend(domain.Move{Distance: 1}))
	err := s.TrySend(domain.Move{Distance: 1})
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Send(ctx, domain.Move{Distance: 1}), context.DeadlineExceeded)

	assert.Equal(t, 2, reg.DrainExternal())
	require.NoError(t, s.TrySend(domain.Move{Distance: 1}))
}

func TestInbox_BlockingSubmitWaitsForDrain(t *testing.T) {
	reg := registry.New(registry.WithInboxCapacity(1))
	id := reg.Create()
	s := reg.Inbox().Sender(id)
	require.NoError(t, s.TrySend(domain.PenUp{}))

	sent := make(chan error, 1)
	go func() {
		sent <- s.Send(context.Background(), domain.PenDown{})
	}()

	select {
	case <-sent:
		t.Fatal("send must block while the inbox is full")
	case <-time.After(20 * time.Millisecond):
	}

	reg.DrainExternal()
	require.NoError(t, <-sent)
	assert.Equal(t, 1, reg.Inbox().Len())
}

func TestInbox_Closed(t *testing.T) {
	reg := registry.New()
	id := reg.Create()
	reg.Inbox().Close()
	reg.Inbox().Close()

	assert.ErrorIs(t, reg.Inbox().Submit(context.Background(), id, domain.PlanOf(domain.PenUp{})), domain.ErrInboxClosed)
	assert.ErrorIs(t, reg.Inbox().TrySubmit(id, domain.PlanOf(domain.PenUp{})), domain.ErrInboxClosed)
	_, err := reg.Inbox().RequestCreate(context.Background())
	assert.ErrorIs(t, err, domain.ErrInboxClosed)
}

func TestInbox_SubmissionMidFrameAppliesNextFrame(t *testing.T) {
	inbox := registry.NewInbox(8)
	var sender *registry.Sender
	injected := false
	reg := registry.New(
		registry.WithInbox(inbox),
		registry.WithLifecycleHooks(domain.LifecycleHooks{
			OnCommandComplete: func(e *domain.CommandEvent) {
				if injected {
					return
				}
				injected = true
				// Runs on the frame thread, in the middle of AdvanceAll.
				require.NoError(t, sender.TrySend(domain.SetStrokeColor{Color: domain.Red}))
			},
		}),
	)
	id := reg.Create()
	sender = inbox.Sender(id)

	require.NoError(t, sender.TrySend(domain.PenUp{}))
	reg.Step(frame)

	st, _ := reg.State(id)
	assert.False(t, st.PenDown)
	assert.Equal(t, domain.Black, st.StrokeColor, "batch submitted mid-frame must wait for the next frame")
	assert.Equal(t, 1, inbox.Len())

	reg.Step(frame)
	st, _ = reg.State(id)
	assert.Equal(t, domain.Red, st.StrokeColor)
}

func TestInbox_ConcurrentProducersKeepPerTurtleOrder(t *testing.T) {
	reg := registry.New(registry.WithInboxCapacity(4))
	const producers, batches = 3, 40

	ids := make([]domain.TurtleID, producers)
	for i := range ids {
		ids[i] = reg.Create()
		require.NoError(t, reg.Append(ids[i], domain.PlanOf(domain.SetSpeed{Speed: 1e6})))
	}

	var drained int
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(s *registry.Sender) {
			defer wg.Done()
			for seq := 0; seq < batches; seq++ {
				err := s.Send(context.Background(),
					domain.PenUp{},
					domain.Teleport{To: domain.Pt(float64(seq), 0)},
					domain.PenDown{},
					domain.Move{Distance: 0.5},
				)
				assert.NoError(t, err)
			}
		}(reg.Inbox().Sender(ids[p]))
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	deadline := time.After(5 * time.Second)
loop:
	for {
		drained += reg.DrainExternal()
		reg.AdvanceAll(frame)
		select {
		case <-done:
			drained += reg.DrainExternal()
			reg.AdvanceAll(frame)
			break loop
		case <-deadline:
			t.Fatal("producers did not finish")
		default:
		}
	}
	for i := 0; i < 10 && !reg.Idle(); i++ {
		reg.AdvanceAll(frame)
	}

	assert.Equal(t, producers*batches, drained)
	for _, id := range ids {
		d, err := reg.Drawing(id)
		require.NoError(t, err)
		require.Len(t, d.Completed, batches)
		for seq, dr := range d.Completed {
			assert.Equal(t, float64(seq), dr.Primitive.Line.From.X)
		}
	}
}

func TestInbox_RequestCreateAndRemove(t *testing.T) {
	reg := registry.New()
	inbox := reg.Inbox()

	type result struct {
		id  domain.TurtleID
		err error
	}
	created := make(chan result, 1)
	go func() {
		id, err := inbox.RequestCreate(context.Background())
		created <- result{id, err}
	}()

	var res result
	require.Eventually(t, func() bool {
		reg.DrainExternal()
		select {
		case res = <-created:
			return true
		default:
			return false
		}
	}, time.Second, time.Millisecond)
	require.NoError(t, res.err)
	assert.Equal(t, []domain.TurtleID{res.id}, reg.IDs())

	removed := make(chan error, 1)
	go func() { removed <- inbox.RequestRemove(context.Background(), res.id) }()
	var removeErr error
	require.Eventually(t, func() bool {
		reg.DrainExternal()
		select {
		case removeErr = <-removed:
			return true
		default:
			return false
		}
	}, time.Second, time.Millisecond)
	assert.NoError(t, removeErr)
	assert.Zero(t, reg.Len())
}

func TestInbox_BatchForRemovedTurtleIsDropped(t *testing.T) {
	var dropped int
	reg := registry.New(registry.WithLifecycleHooks(domain.LifecycleHooks{
		OnBatchDropped: func(e *domain.BatchEvent) {
			dropped++
			assert.Equal(t, 2, e.Commands)
		},
	}))
	id := reg.Create()
	require.NoError(t, reg.Inbox().Sender(id).TrySend(domain.PenUp{}, domain.PenDown{}))
	require.NoError(t, reg.Remove(id))

	assert.Equal(t, 1, reg.DrainExternal())
	assert.Equal(t, 1, dropped)
}

func TestInbox_NilCommandInBatchIsIgnored(t *testing.T) {
	var started []string
	reg := registry.New(registry.WithLifecycleHooks(domain.LifecycleHooks{
		OnCommandStart: func(e *domain.CommandEvent) { started = append(started, e.Command) },
	}))
	id := reg.Create()
	s := reg.Inbox().Sender(id)

	require.NoError(t, s.Send(context.Background(), domain.Move{Distance: 10}, nil))
	require.NotPanics(t, func() { reg.Step(time.Second) })

	st, err := reg.State(id)
	require.NoError(t, err)
	assert.InDelta(t, 10, st.Position.X, 1e-9)
	assert.Len(t, started, 1)
	assert.True(t, reg.Idle())
}
