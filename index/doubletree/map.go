package doubletree

// Map is an ordered uint64-to-uint64 map. Insertion keeps the first value
// stored for a key; later inserts of the same key are discarded. Not safe
// for concurrent use.
type Map struct {
	t kernel[mapEntry]
}

func NewMap() *Map {
	return &Map{t: newKernel[mapEntry]()}
}

func (m *Map) Empty() bool { return m.t.empty() }

// Get returns the value stored for key.
func (m *Map) Get(key uint64) (uint64, bool) {
	pos, ok := m.t.lookup(key)
	if !ok {
		return 0, false
	}
	return m.t.elemAt(pos).v, true
}

// Insert stores val under key and reports whether it was inserted. An
// already-present key keeps its stored value.
func (m *Map) Insert(key, val uint64) bool {
	if _, ok := m.t.lookup(key); ok {
		return false
	}
	m.t.insert(mapEntry{k: key, v: val})
	return true
}

// Erase removes the entry for key if present and returns the number removed.
func (m *Map) Erase(key uint64) int {
	if _, ok := m.t.lookup(key); !ok {
		return 0
	}
	m.t.erase(key)
	return 1
}

// Iter returns an iterator over all entries in ascending key order.
func (m *Map) Iter() *MapIterator {
	return &MapIterator{c: m.t.begin()}
}

// Find returns an iterator positioned at the entry for key; the iterator is
// exhausted when the key is absent.
func (m *Map) Find(key uint64) *MapIterator {
	pos, ok := m.t.lookup(key)
	if !ok {
		return &MapIterator{c: cursor[mapEntry]{t: &m.t, state: curDone}}
	}
	return &MapIterator{c: m.t.at(pos)}
}

// Seek returns an iterator positioned at the first entry with key greater
// than or equal to the one given.
func (m *Map) Seek(key uint64) *MapIterator {
	return &MapIterator{c: m.t.seek(key)}
}

// CheckConsistency traverses the whole structure and verifies its
// invariants: sorted unique keys, representative keys, line occupancy, the
// nested leaf linked lists and pool accounting.
func (m *Map) CheckConsistency() error {
	return m.t.check()
}
