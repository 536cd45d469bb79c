// Package stdbtree wraps the google/btree in-memory B-tree behind the common
// Index interface, as the widely used ecosystem baseline.
package stdbtree

import (
	"github.com/google/btree"

	"github.com/doubletree-bench/dtbench/index"
)

var _ index.Index = (*BTree)(nil)

type item struct {
	key uint64
	val uint64
}

type BTree struct {
	tr *btree.BTreeG[item]
}

// New creates a B-tree with the given degree (nodes hold up to 2*degree-1
// items and 2*degree children).
func New(degree int) *BTree {
	if degree < 2 {
		degree = 2
	}
	return &BTree{
		tr: btree.NewG(degree, func(a, b item) bool { return a.key < b.key }),
	}
}

func (t *BTree) Insert(key, value uint64) error {
	t.tr.ReplaceOrInsert(item{key: key, val: value})
	return nil
}

func (t *BTree) Get(key uint64) (uint64, error) {
	it, ok := t.tr.Get(item{key: key})
	if !ok {
		return 0, index.ErrNotFound
	}
	return it.val, nil
}

func (t *BTree) Delete(key uint64) error {
	if _, ok := t.tr.Delete(item{key: key}); !ok {
		return index.ErrNotFound
	}
	return nil
}

// Range collects the items in [start, end] up front; AscendGreaterOrEqual
// walks a callback, and the window sizes used by the workloads are small.
func (t *BTree) Range(start, end uint64) (index.Iterator, error) {
	var items []item
	t.tr.AscendGreaterOrEqual(item{key: start}, func(it item) bool {
		if it.key > end {
			return false
		}
		items = append(items, it)
		return true
	})
	return &rangeIterator{items: items, cur: -1}, nil
}

func (t *BTree) Close() error { return nil }

type rangeIterator struct {
	items []item
	cur   int
}

func (it *rangeIterator) Next() bool {
	it.cur++
	return it.cur < len(it.items)
}

func (it *rangeIterator) Key() uint64   { return it.items[it.cur].key }
func (it *rangeIterator) Value() uint64 { return it.items[it.cur].val }
func (it *rangeIterator) Error() error  { return nil }
func (it *rangeIterator) Close() error  { return nil }
