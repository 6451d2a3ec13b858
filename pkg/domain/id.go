package domain

import (
	"fmt"
	"strconv"
)

// TurtleID identifies a turtle for its whole lifetime. It encodes a storage
// slot and a generation counter, so an id is never reused after removal even
// when its slot is.
type TurtleID uint64

// NilTurtle is the zero id; it never resolves to a turtle.
const NilTurtle TurtleID = 0

// NewTurtleID packs a slot index and generation. Generations start at 1.
func NewTurtleID(index, generation uint32) TurtleID {
	return TurtleID(uint64(generation)<<32 | uint64(index))
}

// Index returns the storage slot.
func (id TurtleID) Index() uint32 { return uint32(id) }

// Generation returns the slot generation.
func (id TurtleID) Generation() uint32 { return uint32(id >> 32) }

func (id TurtleID) String() string {
	return fmt.Sprintf("%dv%d", id.Index(), id.Generation())
}

// ParseTurtleID accepts either the String form ("3v1") or the raw decimal value.
func ParseTurtleID(s string) (TurtleID, error) {
	var idx, gen uint32
	if n, err := fmt.Sscanf(s, "%dv%d", &idx, &gen); err == nil && n == 2 {
		if gen == 0 {
			return NilTurtle, fmt.Errorf("invalid turtle id %q: %w", s, ErrTurtleNotFound)
		}
		return NewTurtleID(idx, gen), nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return NilTurtle, fmt.Errorf("invalid turtle id %q: %w", s, err)
	}
	return TurtleID(v), nil
}
