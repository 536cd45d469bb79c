// Package bplus provides a conventional single-granularity B+ tree as the
// traditional baseline: values only in leaves, leaves chained for range
// scans. Node capacities are not a free degree parameter; they are derived
// from a per-node byte budget the way a paged tree lays out cells, so a
// 256-byte tree compares node-for-cache-line against the double tree's lines
// and a 4096-byte tree node-for-page.
package bplus

import (
	"slices"
	"sort"

	"github.com/doubletree-bench/dtbench/index"
)

var _ index.Index = (*BPlusTree)(nil)

const (
	keyBytes = 8
	valBytes = 8
	ptrBytes = 8
)

type node struct {
	leaf bool
	keys []uint64
	vals []uint64 // leaves only
	kids []*node  // inner nodes only; len(kids) == len(keys)+1
	next *node    // leaf chain for range scans
}

type BPlusTree struct {
	leafSlots  int // max entries per leaf
	innerSlots int // max children per inner node
	root       *node
}

// New creates a tree whose nodes fit the given byte budget.
func New(nodeSize int) *BPlusTree {
	leafSlots := nodeSize / (keyBytes + valBytes)
	innerSlots := nodeSize / (keyBytes + ptrBytes)
	if leafSlots < 2 {
		leafSlots = 2
	}
	if innerSlots < 3 {
		innerSlots = 3
	}
	return &BPlusTree{
		leafSlots:  leafSlots,
		innerSlots: innerSlots,
		root:       &node{leaf: true},
	}
}

// upperBound returns the child slot for key in an inner node: the number of
// separator keys not greater than key.
func upperBound(keys []uint64, key uint64) int {
	return sort.Search(len(keys), func(i int) bool { return key < keys[i] })
}

func (bt *BPlusTree) leafFor(key uint64) *node {
	n := bt.root
	for !n.leaf {
		n = n.kids[upperBound(n.keys, key)]
	}
	return n
}

func (bt *BPlusTree) Get(key uint64) (uint64, error) {
	n := bt.leafFor(key)
	if i, ok := slices.BinarySearch(n.keys, key); ok {
		return n.vals[i], nil
	}
	return 0, index.ErrNotFound
}

// crumb records one visited inner node and the child slot taken in it.
type crumb struct {
	n *node
	i int
}

// Insert stores value under key, updating in place when the key exists.
// Overflow is resolved bottom-up: the leaf splits first and the separator is
// pushed along the recorded descent, splitting overflowing ancestors in turn.
func (bt *BPlusTree) Insert(key, value uint64) error {
	var path []crumb
	n := bt.root
	for !n.leaf {
		i := upperBound(n.keys, key)
		path = append(path, crumb{n, i})
		n = n.kids[i]
	}

	i, found := slices.BinarySearch(n.keys, key)
	if found {
		n.vals[i] = value
		return nil
	}
	n.keys = slices.Insert(n.keys, i, key)
	n.vals = slices.Insert(n.vals, i, value)
	if len(n.keys) <= bt.leafSlots {
		return nil
	}

	sep, right := splitLeaf(n)
	for {
		if len(path) == 0 {
			bt.root = &node{keys: []uint64{sep}, kids: []*node{n, right}}
			return nil
		}
		parent := path[len(path)-1]
		path = path[:len(path)-1]

		parent.n.keys = slices.Insert(parent.n.keys, parent.i, sep)
		parent.n.kids = slices.Insert(parent.n.kids, parent.i+1, right)
		if len(parent.n.kids) <= bt.innerSlots {
			return nil
		}
		n = parent.n
		sep, right = splitInner(n)
	}
}

// splitLeaf moves the upper half of a leaf into a new right sibling and
// returns the first right key as the separator. The separator is copied, not
// removed: it stays in the right leaf.
func splitLeaf(n *node) (uint64, *node) {
	mid := len(n.keys) / 2
	right := &node{leaf: true, next: n.next}
	right.keys = append(right.keys, n.keys[mid:]...)
	right.vals = append(right.vals, n.vals[mid:]...)
	// Cap the kept halves so later inserts cannot scribble on the sibling.
	n.keys = n.keys[:mid:mid]
	n.vals = n.vals[:mid:mid]
	n.next = right
	return right.keys[0], right
}

// splitInner moves the upper half of an inner node into a new right sibling.
// The middle separator moves up and out of both halves.
func splitInner(n *node) (uint64, *node) {
	mid := len(n.keys) / 2
	sep := n.keys[mid]
	right := &node{}
	right.keys = append(right.keys, n.keys[mid+1:]...)
	right.kids = append(right.kids, n.kids[mid+1:]...)
	n.keys = n.keys[:mid:mid]
	n.kids = n.kids[: mid+1 : mid+1]
	return sep, right
}

// Delete removes the key from its leaf. Leaves are left underfull rather
// than rebalanced: the baseline serves read-mostly comparisons, and erase
// cost is measured as the leaf edit alone.
func (bt *BPlusTree) Delete(key uint64) error {
	n := bt.leafFor(key)
	i, found := slices.BinarySearch(n.keys, key)
	if !found {
		return index.ErrNotFound
	}
	n.keys = slices.Delete(n.keys, i, i+1)
	n.vals = slices.Delete(n.vals, i, i+1)
	return nil
}

// Range returns an iterator over all keys in [start, end] inclusive. The
// cursor starts at the in-leaf position of the first key >= start and walks
// the leaf chain from there.
func (bt *BPlusTree) Range(start, end uint64) (index.Iterator, error) {
	n := bt.leafFor(start)
	i, _ := slices.BinarySearch(n.keys, start)
	return &treeIterator{curr: n, i: i - 1, end: end}, nil
}

func (bt *BPlusTree) Close() error { return nil }

type treeIterator struct {
	curr *node
	i    int
	end  uint64
}

func (it *treeIterator) Next() bool {
	it.i++
	for it.curr != nil && it.i >= len(it.curr.keys) {
		it.curr = it.curr.next
		it.i = 0
	}
	if it.curr == nil || it.curr.keys[it.i] > it.end {
		return false
	}
	return true
}

func (it *treeIterator) Key() uint64   { return it.curr.keys[it.i] }
func (it *treeIterator) Value() uint64 { return it.curr.vals[it.i] }
func (it *treeIterator) Error() error  { return nil }
func (it *treeIterator) Close() error  { return nil }
