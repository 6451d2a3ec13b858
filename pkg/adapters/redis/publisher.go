package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aretw0/turtle/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Publisher writes to the keys a Source reads.
type Publisher struct {
	client *backend.Client
	prefix string
}

// NewPublisher creates a Publisher using prefix (DefaultPrefix when empty).
func NewPublisher(client *backend.Client, prefix string) *Publisher {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Publisher{client: client, prefix: prefix}
}

// Publish appends a message to the queue.
func (p *Publisher) Publish(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.client.RPush(ctx, p.prefix+"queue", data).Err()
}

// PublishSnapshot stores the latest drawable state as JSON, expiring after
// ttl (no expiry when ttl is zero).
func (p *Publisher) PublishSnapshot(ctx context.Context, snap *domain.Snapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return p.client.Set(ctx, p.prefix+"snapshot", data, ttl).Err()
}

// LatestSnapshot reads the stored snapshot.
func (p *Publisher) LatestSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	data, err := p.client.Get(ctx, p.prefix+"snapshot").Bytes()
	if err != nil {
		return nil, err
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
