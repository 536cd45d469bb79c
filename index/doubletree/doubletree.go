// Package doubletree implements ordered map and set containers backed by a
// two-level B+ tree: an outer tree whose nodes are memory-page-sized, where
// each page is itself a small B+ tree of cache-line-sized sorted arrays
// ("lines"). A point lookup touches one outer-tree path plus one page-local
// subtree, so the working set stays cache-resident at both granularities even
// when the container far outgrows L3.
//
// Leaf lines inside a page are linked by page-local index, and leaf pages are
// linked by pointer, giving two nested doubly-linked lists that drive ordered
// iteration without parent pointers.
//
// The containers are single-threaded. Any mutation invalidates every open
// iterator, because rebalancing may recycle lines and pages.
package doubletree

// Geometry. A line node is sized to one cache line, a page node to one memory
// page. Line capacity follows from the 16-byte entry shared by all line
// flavors: key-value entries, key-only entries (padded), and (key, child)
// stem entries.
const (
	lineNodeSize = 256
	pageNodeSize = 4096
	entrySize    = 16

	// Per line: one count byte and two sibling-link bytes of bookkeeping.
	lineMaxCount = (lineNodeSize - 1 - 2) / entrySize
	lineMinCount = lineMaxCount / 2

	// Per page: six index bytes, a depth byte and the sibling pointers.
	poolCount = (pageNodeSize - 6 - 1 - 16) / lineNodeSize

	branchout = lineMaxCount

	// Worst-case stem levels inside one page: with poolCount slots and a
	// stem fanout of branchout, a single root stem already addresses every
	// other slot, so one level suffices. maxLevels bounds both the recorded
	// descent path and the number of lines a single insertion can allocate.
	maxStemLevels = 1
	maxLevels     = maxStemLevels + 1
)

// lineRef indexes a line slot inside a page's pool.
type lineRef = uint8

const nilLine lineRef = 0xff

// lineElem is the element stored in a leaf line: a map entry, a set entry, or
// an outer-tree stem entry. Elements are immutable values; withKey returns a
// copy with the key replaced.
type lineElem[E any] interface {
	key() uint64
	withKey(uint64) E
}

// mapEntry is the leaf element of Map data pages.
type mapEntry struct {
	k, v uint64
}

func (e mapEntry) key() uint64              { return e.k }
func (e mapEntry) withKey(nk uint64) mapEntry { e.k = nk; return e }

// setEntry is the leaf element of Set data pages.
type setEntry uint64

func (e setEntry) key() uint64             { return uint64(e) }
func (e setEntry) withKey(nk uint64) setEntry { return setEntry(nk) }
