package redis_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/turtle/pkg/adapters/redis"
	"github.com/aretw0/turtle/pkg/domain"
	"github.com/aretw0/turtle/pkg/registry"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

// frameLoop drains the registry inbox on its own goroutine, standing in
// for the frame thread. The returned stop function joins it.
func frameLoop(reg *registry.Registry) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ctx.Err() == nil {
			reg.DrainExternal()
			time.Sleep(time.Millisecond)
		}
	}()
	return func() {
		cancel()
		wg.Wait()
		reg.DrainExternal()
	}
}

func TestSource_Handle(t *testing.T) {
	_, client := setup(t)
	reg := registry.New()
	src := redis.NewSource(client, reg.Inbox())
	ctx := context.Background()

	stop := frameLoop(reg)
	require.NoError(t, src.Handle(ctx, []byte(`{"name":"ada","commands":[{"forward":10}]}`)))
	require.NoError(t, src.Handle(ctx, []byte(`{"turtle":"ada","commands":["pen_up",{"right":90}]}`)))

	id, err := src.Resolve(ctx, "ada")
	require.NoError(t, err)
	stop()

	assert.Equal(t, 1, reg.Len())
	cur, err := reg.State(id)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultState(), cur, "commands are queued, not yet advanced")

	for !reg.Idle() {
		reg.Step(time.Second)
	}
	cur, err = reg.State(id)
	require.NoError(t, err)
	assert.InDelta(t, 10, cur.Position.X, 1e-9)
	assert.False(t, cur.PenDown)
	assert.Equal(t, domain.Angle(90), cur.Heading)
}

func TestSource_Remove(t *testing.T) {
	_, client := setup(t)
	reg := registry.New()
	src := redis.NewSource(client, reg.Inbox())
	ctx := context.Background()

	stop := frameLoop(reg)
	require.NoError(t, src.Handle(ctx, []byte(`{"name":"bob"}`)))
	id, err := src.Resolve(ctx, "bob")
	require.NoError(t, err)
	require.NoError(t, src.Handle(ctx, []byte(`{"turtle":"bob","remove":true}`)))
	err = src.Handle(ctx, []byte(`{"turtle":"`+id.String()+`","remove":true}`))
	stop()

	assert.ErrorIs(t, err, domain.ErrTurtleNotFound)
	assert.Equal(t, 0, reg.Len())
	n, err := client.HLen(ctx, src.NamesKey()).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSource_InvalidMessages(t *testing.T) {
	_, client := setup(t)
	src := redis.NewSource(client, registry.New().Inbox())
	ctx := context.Background()

	for _, payload := range []string{
		`not json`,
		`{"commands":[{"fly":1}]}`,
		`{"remove":true}`,
		`{"turtle":"nobody","commands":["pen_up"]}`,
	} {
		assert.ErrorIs(t, src.Handle(ctx, []byte(payload)), redis.ErrInvalidMessage, payload)
	}
}

func TestSource_RunConsumesQueue(t *testing.T) {
	_, client := setup(t)
	reg := registry.New()
	src := redis.NewSource(client, reg.Inbox(),
		redis.WithPrefix("test:"),
		redis.WithPollTimeout(50*time.Millisecond),
		redis.WithExclusive(time.Second),
	)
	pub := redis.NewPublisher(client, "test:")
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, pub.Publish(ctx, redis.Message{Name: "a", Commands: []any{map[string]any{"forward": 5}}}))
	require.NoError(t, pub.Publish(ctx, redis.Message{Commands: []any{"garbage-op"}}))
	require.NoError(t, pub.Publish(ctx, redis.Message{Name: "b"}))

	stop := frameLoop(reg)
	errc := make(chan error, 1)
	go func() { errc <- src.Run(ctx) }()

	assert.Eventually(t, func() bool {
		n, err := client.HLen(context.Background(), src.NamesKey()).Result()
		return err == nil && n == 2
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-errc)
	stop()

	assert.Equal(t, 2, reg.Len())
	n, err := client.LLen(context.Background(), src.QueueKey()).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLocker(t *testing.T) {
	mr, client := setup(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	lease, err := locker.Lock(ctx, "queue", time.Second)
	require.NoError(t, err)

	short, cancel := context.WithTimeout(ctx, 150*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(short, "queue", time.Second)
	assert.ErrorIs(t, err, redis.ErrLockAcquire)

	require.NoError(t, lease.Refresh(ctx))
	require.NoError(t, lease.Release(ctx))
	assert.ErrorIs(t, lease.Refresh(ctx), redis.ErrLockLost)

	again, err := locker.Lock(ctx, "queue", time.Second)
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)
	assert.ErrorIs(t, again.Refresh(ctx), redis.ErrLockLost)
}

func TestPublisher_Snapshot(t *testing.T) {
	_, client := setup(t)
	pub := redis.NewPublisher(client, "")
	ctx := context.Background()

	reg := registry.New()
	id := reg.Create()
	require.NoError(t, reg.Append(id, domain.PlanOf(domain.SetSpeed{Speed: domain.InstantSpeed}, domain.Move{Distance: 3})))
	reg.Step(0)

	require.NoError(t, pub.PublishSnapshot(ctx, reg.Snapshot(), 0))
	got, err := pub.LatestSnapshot(ctx)
	require.NoError(t, err)
	ts, ok := got.Turtle(id)
	require.True(t, ok)
	assert.InDelta(t, 3, ts.State.Position.X, 1e-9)
	assert.NotEmpty(t, ts.Primitives)
}
