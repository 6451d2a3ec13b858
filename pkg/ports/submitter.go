package ports

import (
	"context"

	"github.com/aretw0/turtle/pkg/domain"
)

// Submitter hands work to the frame thread. Implementations are safe for
// concurrent use and never drop a batch silently: Submit blocks until the
// batch is queued or ctx is done, TrySubmit fails with
// domain.ErrCapacityExceeded when the hand-off is full.
type Submitter interface {
	Submit(ctx context.Context, id domain.TurtleID, plan *domain.Plan) error
	TrySubmit(id domain.TurtleID, plan *domain.Plan) error
	// RequestCreate asks the frame thread for a new turtle and waits for its id.
	RequestCreate(ctx context.Context) (domain.TurtleID, error)
	// RequestRemove asks the frame thread to remove a turtle and waits for the outcome.
	RequestRemove(ctx context.Context, id domain.TurtleID) error
}

// SnapshotSource exposes the drawable state published after the latest frame.
type SnapshotSource interface {
	Snapshot() *domain.Snapshot
}
