package script

import (
	"context"
	"fmt"

	"github.com/aretw0/turtle/pkg/domain"
	"github.com/aretw0/turtle/pkg/ports"
)

// Submit compiles the document, asks the frame thread for one turtle per
// entry and queues each plan. It returns the created identities in
// document order. Compilation errors are reported before any turtle is
// created.
func Submit(ctx context.Context, sub ports.Submitter, doc *Document) ([]domain.TurtleID, error) {
	plans, err := doc.Compile()
	if err != nil {
		return nil, err
	}
	ids := make([]domain.TurtleID, 0, len(plans))
	for i, p := range plans {
		id, err := sub.RequestCreate(ctx)
		if err != nil {
			return ids, fmt.Errorf("create turtle %s: %w", label(i, doc.Turtles[i].Name), err)
		}
		ids = append(ids, id)
		if err := sub.Submit(ctx, id, p); err != nil {
			return ids, fmt.Errorf("submit turtle %s: %w", label(i, doc.Turtles[i].Name), err)
		}
	}
	return ids, nil
}
