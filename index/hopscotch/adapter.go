package hopscotch

import "github.com/doubletree-bench/dtbench/index"

var _ index.Index = (*hashIndex)(nil)

// hashIndex adapts Map to the benchmark Index interface. The table is
// unordered, so Range is unsupported.
type hashIndex struct {
	m *Map
}

func NewIndex() index.Index {
	return &hashIndex{m: NewMap()}
}

func (h *hashIndex) Insert(key, value uint64) error {
	h.m.Insert(key, value)
	return nil
}

func (h *hashIndex) Get(key uint64) (uint64, error) {
	v, ok := h.m.Get(key)
	if !ok {
		return 0, index.ErrNotFound
	}
	return v, nil
}

func (h *hashIndex) Delete(key uint64) error {
	h.m.Erase(key)
	return nil
}

func (h *hashIndex) Range(start, end uint64) (index.Iterator, error) {
	return nil, index.ErrNoRange
}

func (h *hashIndex) Close() error { return nil }
