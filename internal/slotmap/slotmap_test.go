package slotmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_InsertGetRemove(t *testing.T) {
	m := New[string]()
	a := m.Insert("a")
	b := m.Insert("b")
	assert.Equal(t, 2, m.Len())

	v, ok := m.Get(b)
	require.True(t, ok)
	assert.Equal(t, "b", v)

	removed, ok := m.Remove(a)
	require.True(t, ok)
	assert.Equal(t, "a", removed)
	assert.False(t, m.Contains(a))

	_, ok = m.Remove(a)
	assert.False(t, ok)

	v, ok = m.Get(b)
	require.True(t, ok)
	assert.Equal(t, "b", v, "removing a must not disturb b")
}

func TestMap_StaleKeyAfterReuse(t *testing.T) {
	m := New[int]()
	old := m.Insert(1)
	m.Remove(old)
	reused := m.Insert(2)

	assert.Equal(t, old.Index, reused.Index)
	assert.NotEqual(t, old.Generation, reused.Generation)
	_, ok := m.Get(old)
	assert.False(t, ok)
	v, ok := m.Get(reused)
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestMap_ZeroKeyNeverValid(t *testing.T) {
	m := New[int]()
	m.Insert(5)
	assert.False(t, m.Contains(Key{}))
}

func TestMap_EachSkipsFreeSlots(t *testing.T) {
	m := New[int]()
	k1 := m.Insert(1)
	m.Insert(2)
	m.Insert(3)
	m.Remove(k1)

	var seen []int
	m.Each(func(_ Key, v int) bool {
		seen = append(seen, v)
		return true
	})
	assert.Equal(t, []int{2, 3}, seen)
}
