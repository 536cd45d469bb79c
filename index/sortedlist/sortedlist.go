// Package sortedlist provides a binary-searched sorted slice behind the
// Index interface. It is the simplest ordered baseline: O(n) inserts, O(log
// n) lookups, perfect locality on scans.
package sortedlist

import (
	"slices"

	"github.com/doubletree-bench/dtbench/index"
)

var _ index.Index = (*SortedList)(nil)

type pair struct {
	Key uint64
	Val uint64
}

type SortedList struct {
	data []pair
}

func New() *SortedList {
	return &SortedList{data: make([]pair, 0)}
}

func (l *SortedList) search(key uint64) (int, bool) {
	return slices.BinarySearchFunc(l.data, key, func(p pair, k uint64) int {
		switch {
		case p.Key < k:
			return -1
		case p.Key > k:
			return 1
		}
		return 0
	})
}

func (l *SortedList) Insert(key, value uint64) error {
	i, found := l.search(key)
	if found {
		l.data[i].Val = value
		return nil
	}
	l.data = slices.Insert(l.data, i, pair{Key: key, Val: value})
	return nil
}

func (l *SortedList) Get(key uint64) (uint64, error) {
	i, found := l.search(key)
	if !found {
		return 0, index.ErrNotFound
	}
	return l.data[i].Val, nil
}

func (l *SortedList) Delete(key uint64) error {
	i, found := l.search(key)
	if !found {
		return index.ErrNotFound
	}
	l.data = slices.Delete(l.data, i, i+1)
	return nil
}

func (l *SortedList) Range(start, end uint64) (index.Iterator, error) {
	i, _ := l.search(start)
	return &listIterator{data: l.data, cur: i - 1, end: end}, nil
}

func (l *SortedList) Close() error { return nil }

type listIterator struct {
	data []pair
	cur  int
	end  uint64
}

func (it *listIterator) Next() bool {
	it.cur++
	return it.cur < len(it.data) && it.data[it.cur].Key <= it.end
}

func (it *listIterator) Key() uint64   { return it.data[it.cur].Key }
func (it *listIterator) Value() uint64 { return it.data[it.cur].Val }
func (it *listIterator) Error() error  { return nil }
func (it *listIterator) Close() error  { return nil }
