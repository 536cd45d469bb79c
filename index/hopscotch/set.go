package hopscotch

// Set is an unordered set of uint64 keys. Not safe for concurrent use.
type Set struct {
	t table
}

func NewSet() *Set {
	return NewSetHash(defaultHash.Hash)
}

// NewSetHash builds a set using the given hash function.
func NewSetHash(hash func(uint64) uint64) *Set {
	return &Set{t: newTable(minBuckets, hash)}
}

func (s *Set) Empty() bool { return s.t.empty() }

func (s *Set) Len() int { return s.t.len() }

func (s *Set) Contains(key uint64) bool { return s.t.count(key) == 1 }

// Insert adds key and reports whether it was inserted.
func (s *Set) Insert(key uint64) bool {
	_, inserted := s.t.insert(entry{k: key})
	return inserted
}

// Erase removes key if present and returns the number removed.
func (s *Set) Erase(key uint64) int { return s.t.erase(key) }

// Count returns 1 when key is present, else 0.
func (s *Set) Count(key uint64) int { return s.t.count(key) }

func (s *Set) Clear() { s.t.clear() }

// Reserve rehashes so that count keys fit without further growth.
func (s *Set) Reserve(count int) { s.t.reserve(count) }

func (s *Set) LoadFactor() float64 { return s.t.loadFactor() }

func (s *Set) BucketCount() int { return s.t.bucketCount() }

// Iter returns an iterator over all keys in unspecified order.
func (s *Set) Iter() *SetIterator {
	return &SetIterator{it: tableIterator{t: &s.t}}
}

// SetIterator yields the keys of a Set.
type SetIterator struct {
	it tableIterator
}

func (it *SetIterator) Next() bool  { return it.it.next() }
func (it *SetIterator) Key() uint64 { return it.it.cur.k }
