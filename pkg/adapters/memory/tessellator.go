package memory

import (
	"sync"

	"github.com/aretw0/turtle/pkg/domain"
)

// Tessellator implements ports.Tessellator by wrapping each primitive as
// its own mesh and counting calls per primitive kind. An optional hook can
// inject failures.
type Tessellator struct {
	mu     sync.Mutex
	counts map[domain.PrimitiveKind]int
	fail   func(domain.Primitive) error
}

// NewTessellator creates a recording tessellator.
func NewTessellator() *Tessellator {
	return &Tessellator{counts: make(map[domain.PrimitiveKind]int)}
}

// FailWith makes Tessellate return the error produced by fn, if any.
func (t *Tessellator) FailWith(fn func(domain.Primitive) error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fail = fn
}

// Tessellate records the call.
func (t *Tessellator) Tessellate(p domain.Primitive) (domain.Mesh, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[p.Kind]++
	if t.fail != nil {
		if err := t.fail(p); err != nil {
			return domain.Mesh{}, err
		}
	}
	return domain.Mesh{Payload: p}, nil
}

// Count returns how many primitives of kind k were tessellated.
func (t *Tessellator) Count(k domain.PrimitiveKind) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[k]
}
