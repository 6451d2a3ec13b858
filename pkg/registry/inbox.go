package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/turtle/pkg/domain"
)

// DefaultInboxCapacity is the number of envelopes an inbox buffers.
const DefaultInboxCapacity = 256

type envelopeKind int

const (
	envelopeBatch envelopeKind = iota
	envelopeCreate
	envelopeRemove
)

type reply struct {
	id  domain.TurtleID
	err error
}

// envelope is one unit of cross-goroutine work. Control envelopes carry a
// reply channel answered by the frame thread at the next drain.
type envelope struct {
	kind  envelopeKind
	id    domain.TurtleID
	plan  *domain.Plan
	reply chan reply
}

// Inbox is the bounded hand-off between producers on any goroutine and the
// frame thread. It never drops a batch: Submit blocks while the inbox is
// full and TrySubmit reports domain.ErrCapacityExceeded.
type Inbox struct {
	ch        chan envelope
	done      chan struct{}
	closeOnce sync.Once
}

// NewInbox creates an inbox holding up to capacity envelopes.
func NewInbox(capacity int) *Inbox {
	if capacity < 1 {
		capacity = 1
	}
	return &Inbox{
		ch:   make(chan envelope, capacity),
		done: make(chan struct{}),
	}
}

// Cap returns the inbox capacity.
func (i *Inbox) Cap() int { return cap(i.ch) }

// Len returns the number of queued envelopes.
func (i *Inbox) Len() int { return len(i.ch) }

// Close rejects further submissions. Envelopes already queued can still be
// drained. Waiters blocked in Submit or a request return domain.ErrInboxClosed.
func (i *Inbox) Close() {
	i.closeOnce.Do(func() { close(i.done) })
}

func (i *Inbox) closed() bool {
	select {
	case <-i.done:
		return true
	default:
		return false
	}
}

// Submit queues plan for turtle id, blocking until there is room or ctx is
// done. The plan is frozen before it is handed over.
func (i *Inbox) Submit(ctx context.Context, id domain.TurtleID, plan *domain.Plan) error {
	if plan == nil {
		return nil
	}
	return i.send(ctx, envelope{kind: envelopeBatch, id: id, plan: plan.Freeze()})
}

// TrySubmit queues plan without blocking.
func (i *Inbox) TrySubmit(id domain.TurtleID, plan *domain.Plan) error {
	if plan == nil {
		return nil
	}
	if i.closed() {
		return domain.ErrInboxClosed
	}
	select {
	case i.ch <- envelope{kind: envelopeBatch, id: id, plan: plan.Freeze()}:
		return nil
	default:
		return fmt.Errorf("submit to turtle %s: %w", id, domain.ErrCapacityExceeded)
	}
}

// RequestCreate asks the frame thread for a new turtle and waits for its id.
func (i *Inbox) RequestCreate(ctx context.Context) (domain.TurtleID, error) {
	r, err := i.request(ctx, envelope{kind: envelopeCreate})
	return r.id, err
}

// RequestRemove asks the frame thread to remove turtle id and waits for the
// outcome.
func (i *Inbox) RequestRemove(ctx context.Context, id domain.TurtleID) error {
	r, err := i.request(ctx, envelope{kind: envelopeRemove, id: id})
	if err != nil {
		return err
	}
	return r.err
}

// Sender returns a handle bound to turtle id.
func (i *Inbox) Sender(id domain.TurtleID) *Sender {
	return &Sender{inbox: i, id: id}
}

func (i *Inbox) request(ctx context.Context, env envelope) (reply, error) {
	env.reply = make(chan reply, 1)
	if err := i.send(ctx, env); err != nil {
		return reply{}, err
	}
	select {
	case r := <-env.reply:
		return r, nil
	case <-ctx.Done():
		return reply{}, ctx.Err()
	case <-i.done:
		return reply{}, domain.ErrInboxClosed
	}
}

func (i *Inbox) send(ctx context.Context, env envelope) error {
	if i.closed() {
		return domain.ErrInboxClosed
	}
	select {
	case i.ch <- env:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-i.done:
		return domain.ErrInboxClosed
	}
}

// take removes at most n queued envelopes without blocking.
func (i *Inbox) take(n int) []envelope {
	out := make([]envelope, 0, n)
	for len(out) < n {
		select {
		case env := <-i.ch:
			out = append(out, env)
		default:
			return out
		}
	}
	return out
}

// Sender submits commands to one turtle. It is safe for concurrent use.
type Sender struct {
	inbox *Inbox
	id    domain.TurtleID
}

// ID returns the turtle the sender is bound to.
func (s *Sender) ID() domain.TurtleID { return s.id }

// Send queues cmds as one batch, blocking while the inbox is full.
func (s *Sender) Send(ctx context.Context, cmds ...domain.Command) error {
	return s.inbox.Submit(ctx, s.id, domain.PlanOf(cmds...))
}

// TrySend queues cmds as one batch or fails with domain.ErrCapacityExceeded.
func (s *Sender) TrySend(cmds ...domain.Command) error {
	return s.inbox.TrySubmit(s.id, domain.PlanOf(cmds...))
}

// SendPlan queues a prepared plan.
func (s *Sender) SendPlan(ctx context.Context, plan *domain.Plan) error {
	return s.inbox.Submit(ctx, s.id, plan)
}
