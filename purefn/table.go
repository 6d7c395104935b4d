package purefn

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// ComparableOrStringer is any comparable value, or a fmt.Stringer whose
// String form identifies it.
type ComparableOrStringer any

// Table is a bounded, concurrency-safe memo table.
type Table[O any] struct {
	mu      sync.Mutex
	gens    [2]*sync.Map
	head    atomic.Uint32
	size    atomic.Uint32
	maxSize uint32
}

// NewTable returns a table keeping at most maxSize entries per generation.
// Panics if maxSize is 0.
func NewTable[O any](maxSize uint32) *Table[O] {
	if maxSize == 0 {
		panic("maxSize should be greater than 0")
	}
	return &Table[O]{
		gens:    [2]*sync.Map{{}, {}},
		maxSize: maxSize,
	}
}

// Load returns the value stored under key, looking in the active generation
// first.
func (t *Table[O]) Load(key ComparableOrStringer) (O, bool) {
	k := tableKey(key)
	head := t.head.Load()
	v, ok := t.gens[head].Load(k)
	if !ok {
		v, ok = t.gens[1-head].Load(k)
	}
	if !ok {
		var zero O
		return zero, false
	}
	return v.(O), true
}

// Store records value under key, rotating generations when the active one
// is full.
func (t *Table[O]) Store(key ComparableOrStringer, value O) {
	k := tableKey(key)

	t.mu.Lock()
	defer t.mu.Unlock()

	head := t.head.Load()
	if t.size.Load() >= t.maxSize {
		head = 1 - head
		t.gens[head].Clear()
		t.head.Store(head)
		t.size.Store(0)
	}
	t.gens[head].Store(k, value)
	t.size.Add(1)
}

// tableKey panics for keys that are neither comparable nor Stringers.
func tableKey(key ComparableOrStringer) any {
	if stringer, ok := key.(fmt.Stringer); ok {
		return stringer.String()
	}
	return key
}
