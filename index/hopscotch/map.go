package hopscotch

// Map is an unordered uint64-to-uint64 map. Insertion keeps the first value
// stored for a key. Not safe for concurrent use.
type Map struct {
	t table
}

func NewMap() *Map {
	return NewMapHash(defaultHash.Hash)
}

// NewMapHash builds a map using the given hash function.
func NewMapHash(hash func(uint64) uint64) *Map {
	return &Map{t: newTable(minBuckets, hash)}
}

func (m *Map) Empty() bool { return m.t.empty() }

func (m *Map) Len() int { return m.t.len() }

func (m *Map) Get(key uint64) (uint64, bool) {
	at := m.t.findFrom(key, m.t.homeIndex(key))
	if at == len(m.t.buckets) {
		return 0, false
	}
	return m.t.buckets[at].ent.v, true
}

// Insert stores val under key and reports whether it was inserted. An
// already-present key keeps its stored value.
func (m *Map) Insert(key, val uint64) bool {
	_, inserted := m.t.insert(entry{k: key, v: val})
	return inserted
}

// Erase removes the entry for key if present and returns the number removed.
func (m *Map) Erase(key uint64) int { return m.t.erase(key) }

// Count returns the number of entries stored for key: 0 or 1.
func (m *Map) Count(key uint64) int { return m.t.count(key) }

func (m *Map) Clear() { m.t.clear() }

// Reserve rehashes so that count entries fit without further growth.
func (m *Map) Reserve(count int) { m.t.reserve(count) }

func (m *Map) LoadFactor() float64    { return m.t.loadFactor() }
func (m *Map) MinLoadFactor() float64 { return m.t.minLoad }
func (m *Map) MaxLoadFactor() float64 { return m.t.maxLoad }

// SetMinLoadFactor lowers or raises the shrink threshold, rehashing if the
// table is already below it.
func (m *Map) SetMinLoadFactor(load float64) { m.t.setMinLoadFactor(load) }

// SetMaxLoadFactor lowers or raises the growth threshold, rehashing if the
// table is already above it.
func (m *Map) SetMaxLoadFactor(load float64) { m.t.setMaxLoadFactor(load) }

func (m *Map) BucketCount() int { return m.t.bucketCount() }

// Iter returns an iterator over all entries in unspecified order.
func (m *Map) Iter() *MapIterator {
	return &MapIterator{it: tableIterator{t: &m.t}}
}

// MapIterator yields the entries of a Map. Next must be called before the
// first Key/Value access.
type MapIterator struct {
	it tableIterator
}

func (it *MapIterator) Next() bool    { return it.it.next() }
func (it *MapIterator) Key() uint64   { return it.it.cur.k }
func (it *MapIterator) Value() uint64 { return it.it.cur.v }
