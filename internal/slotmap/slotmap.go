// Package slotmap is an arena with generation-checked keys.
//
// Values live in a dense slot array. A key stores the slot index and the
// generation the slot had when the value was inserted; removing a value bumps
// the generation, so stale keys never resolve to a later occupant.
package slotmap

// Key addresses one value. The zero Key is never valid.
type Key struct {
	Index      uint32
	Generation uint32
}

type slot[T any] struct {
	value      T
	generation uint32
	occupied   bool
}

// Map stores values of type T. It is not safe for concurrent use.
type Map[T any] struct {
	slots []slot[T]
	free  []uint32
	len   int
}

// New returns an empty map.
func New[T any]() *Map[T] {
	return &Map[T]{}
}

// Insert stores v and returns its key. Freed slots are reused with a new
// generation.
func (m *Map[T]) Insert(v T) Key {
	var idx uint32
	if n := len(m.free); n > 0 {
		idx = m.free[n-1]
		m.free = m.free[:n-1]
	} else {
		idx = uint32(len(m.slots))
		m.slots = append(m.slots, slot[T]{})
	}
	s := &m.slots[idx]
	s.generation++
	s.value = v
	s.occupied = true
	m.len++
	return Key{Index: idx, Generation: s.generation}
}

// Get returns the value for k.
func (m *Map[T]) Get(k Key) (T, bool) {
	if s := m.lookup(k); s != nil {
		return s.value, true
	}
	var zero T
	return zero, false
}

// Set replaces the value for a live key.
func (m *Map[T]) Set(k Key, v T) bool {
	s := m.lookup(k)
	if s == nil {
		return false
	}
	s.value = v
	return true
}

// Contains reports whether k resolves to a live value.
func (m *Map[T]) Contains(k Key) bool {
	return m.lookup(k) != nil
}

// Remove deletes the value for k and returns it.
func (m *Map[T]) Remove(k Key) (T, bool) {
	s := m.lookup(k)
	var zero T
	if s == nil {
		return zero, false
	}
	v := s.value
	s.value = zero
	s.occupied = false
	m.free = append(m.free, k.Index)
	m.len--
	return v, true
}

// Len returns the number of live values.
func (m *Map[T]) Len() int { return m.len }

// Each calls fn for every live value in slot order until fn returns false.
func (m *Map[T]) Each(fn func(Key, T) bool) {
	for i := range m.slots {
		s := &m.slots[i]
		if !s.occupied {
			continue
		}
		if !fn(Key{Index: uint32(i), Generation: s.generation}, s.value) {
			return
		}
	}
}

func (m *Map[T]) lookup(k Key) *slot[T] {
	if k.Generation == 0 || int(k.Index) >= len(m.slots) {
		return nil
	}
	s := &m.slots[k.Index]
	if !s.occupied || s.generation != k.Generation {
		return nil
	}
	return s
}
