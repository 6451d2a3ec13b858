// Package redis connects remote producers to the engine through Redis
// lists. Producers push JSON messages with a Publisher; a Source pops them
// with BLPOP and forwards them to the frame thread. A full inbox blocks the
// Source, which leaves further messages waiting in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/turtle/internal/logging"
	"github.com/aretw0/turtle/pkg/adapters/script"
	"github.com/aretw0/turtle/pkg/domain"
	"github.com/aretw0/turtle/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key the adapter touches.
const DefaultPrefix = "turtle:"

// ErrInvalidMessage is returned for messages that cannot be applied.
var ErrInvalidMessage = errors.New("invalid message")

// Message is one queued request. With Turtle empty a new turtle is created
// (and registered under Name when given) before Commands are submitted.
// Turtle may hold an id such as "3v1" or a registered name.
type Message struct {
	Turtle   string `json:"turtle,omitempty"`
	Name     string `json:"name,omitempty"`
	Remove   bool   `json:"remove,omitempty"`
	Commands []any  `json:"commands,omitempty"`
}

// Source consumes messages from a Redis list.
type Source struct {
	client    *backend.Client
	sub       ports.Submitter
	prefix    string
	timeout   time.Duration
	lockTTL   time.Duration
	logger    *slog.Logger
	exclusive bool
}

// Option configures the Source.
type Option func(*Source)

// WithPrefix sets the key prefix.
func WithPrefix(p string) Option {
	return func(s *Source) {
		s.prefix = p
	}
}

// WithLogger configures the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Source) {
		s.logger = l
	}
}

// WithPollTimeout sets how long a single BLPOP waits.
func WithPollTimeout(d time.Duration) Option {
	return func(s *Source) {
		s.timeout = d
	}
}

// WithExclusive makes Run hold a lease on the queue while consuming.
func WithExclusive(ttl time.Duration) Option {
	return func(s *Source) {
		s.exclusive = true
		s.lockTTL = ttl
	}
}

// NewSource creates a Source feeding sub.
func NewSource(client *backend.Client, sub ports.Submitter, opts ...Option) *Source {
	s := &Source{
		client:  client,
		sub:     sub,
		prefix:  DefaultPrefix,
		timeout: time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueueKey returns the list the Source pops from.
func (s *Source) QueueKey() string { return s.prefix + "queue" }

// NamesKey returns the hash mapping turtle names to ids.
func (s *Source) NamesKey() string { return s.prefix + "names" }

// Run pops and handles messages until ctx is done. Malformed messages are
// logged and skipped.
func (s *Source) Run(ctx context.Context) error {
	if s.exclusive {
		lease, err := NewLocker(s.client, s.prefix).Lock(ctx, "queue", s.lockTTL)
		if err != nil {
			return err
		}
		defer lease.Release(context.WithoutCancel(ctx))
		stop := s.keepAlive(ctx, lease)
		defer stop()
	}

	s.logger.Info("redis source started", "queue", s.QueueKey())
	for {
		if ctx.Err() != nil {
			return nil
		}
		res, err := s.client.BLPop(ctx, s.timeout, s.QueueKey()).Result()
		if errors.Is(err, backend.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("blpop %s: %w", s.QueueKey(), err)
		}
		if err := s.Handle(ctx, []byte(res[1])); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Warn("dropping redis message", "err", err)
		}
	}
}

func (s *Source) keepAlive(ctx context.Context, lease *Lease) func() {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		t := time.NewTicker(s.lockTTL / 3)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if err := lease.Refresh(ctx); err != nil && ctx.Err() == nil {
					s.logger.Error("failed to refresh queue lease", "err", err)
				}
			}
		}
	}()
	return cancel
}

// Handle applies one raw message. It blocks while the inbox is full.
func (s *Source) Handle(ctx context.Context, payload []byte) error {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}

	var plan *domain.Plan
	if len(msg.Commands) > 0 {
		p, err := script.Turtle{Commands: msg.Commands}.Compile()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
		}
		plan = p
	}

	var id domain.TurtleID
	if msg.Turtle == "" {
		if msg.Remove {
			return fmt.Errorf("%w: remove without turtle", ErrInvalidMessage)
		}
		created, err := s.sub.RequestCreate(ctx)
		if err != nil {
			return err
		}
		id = created
		if msg.Name != "" {
			if err := s.client.HSet(ctx, s.NamesKey(), msg.Name, id.String()).Err(); err != nil {
				return err
			}
		}
	} else {
		resolved, err := s.Resolve(ctx, msg.Turtle)
		if err != nil {
			return err
		}
		id = resolved
	}

	if msg.Remove {
		if err := s.sub.RequestRemove(ctx, id); err != nil {
			return err
		}
		return s.forget(ctx, msg.Turtle)
	}
	if plan != nil {
		return s.sub.Submit(ctx, id, plan)
	}
	return nil
}

// Resolve maps a registered name or a literal id to a TurtleID.
func (s *Source) Resolve(ctx context.Context, ref string) (domain.TurtleID, error) {
	v, err := s.client.HGet(ctx, s.NamesKey(), ref).Result()
	switch {
	case err == nil:
		ref = v
	case !errors.Is(err, backend.Nil):
		return domain.NilTurtle, err
	}
	id, err := domain.ParseTurtleID(ref)
	if err != nil {
		return domain.NilTurtle, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}
	return id, nil
}

func (s *Source) forget(ctx context.Context, ref string) error {
	return s.client.HDel(ctx, s.NamesKey(), ref).Err()
}
