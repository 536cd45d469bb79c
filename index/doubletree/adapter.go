package doubletree

import "github.com/doubletree-bench/dtbench/index"

var _ index.Index = (*treeIndex)(nil)

// treeIndex adapts Map to the benchmark Index interface.
type treeIndex struct {
	m *Map
}

func NewIndex() index.Index {
	return &treeIndex{m: NewMap()}
}

func (t *treeIndex) Insert(key, value uint64) error {
	t.m.Insert(key, value)
	return nil
}

func (t *treeIndex) Get(key uint64) (uint64, error) {
	v, ok := t.m.Get(key)
	if !ok {
		return 0, index.ErrNotFound
	}
	return v, nil
}

func (t *treeIndex) Delete(key uint64) error {
	t.m.Erase(key)
	return nil
}

func (t *treeIndex) Range(start, end uint64) (index.Iterator, error) {
	return &rangeIterator{it: t.m.Seek(start), end: end}, nil
}

func (t *treeIndex) Close() error { return nil }

type rangeIterator struct {
	it   *MapIterator
	end  uint64
	done bool
}

func (r *rangeIterator) Next() bool {
	if r.done {
		return false
	}
	if !r.it.Next() || r.it.Key() > r.end {
		r.done = true
		return false
	}
	return true
}

func (r *rangeIterator) Key() uint64   { return r.it.Key() }
func (r *rangeIterator) Value() uint64 { return r.it.Value() }
func (r *rangeIterator) Error() error  { return nil }
func (r *rangeIterator) Close() error  { return nil }
