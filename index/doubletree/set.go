package doubletree

// Set is an ordered set of uint64 keys. Not safe for concurrent use.
type Set struct {
	t kernel[setEntry]
}

func NewSet() *Set {
	return &Set{t: newKernel[setEntry]()}
}

func (s *Set) Empty() bool { return s.t.empty() }

func (s *Set) Contains(key uint64) bool {
	_, ok := s.t.lookup(key)
	return ok
}

// Insert adds key and reports whether it was inserted.
func (s *Set) Insert(key uint64) bool {
	if _, ok := s.t.lookup(key); ok {
		return false
	}
	s.t.insert(setEntry(key))
	return true
}

// Erase removes key if present and returns the number removed.
func (s *Set) Erase(key uint64) int {
	if _, ok := s.t.lookup(key); !ok {
		return 0
	}
	s.t.erase(key)
	return 1
}

// Iter returns an iterator over all keys in ascending order.
func (s *Set) Iter() *SetIterator {
	return &SetIterator{c: s.t.begin()}
}

// Find returns an iterator positioned at key; exhausted when absent.
func (s *Set) Find(key uint64) *SetIterator {
	pos, ok := s.t.lookup(key)
	if !ok {
		return &SetIterator{c: cursor[setEntry]{t: &s.t, state: curDone}}
	}
	return &SetIterator{c: s.t.at(pos)}
}

// Seek returns an iterator positioned at the first key greater than or equal
// to the one given.
func (s *Set) Seek(key uint64) *SetIterator {
	return &SetIterator{c: s.t.seek(key)}
}

func (s *Set) CheckConsistency() error {
	return s.t.check()
}
