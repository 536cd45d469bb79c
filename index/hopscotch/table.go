// Package hopscotch implements open-addressed hash map and set containers
// with neighborhood hopping. Every entry lives within a 63-bucket window of
// its home bucket; each bucket carries a single 64-bit word holding the
// 63-bit hop mask for the window it anchors plus its own occupancy bit, so
// lookups touch a handful of predictable cache lines.
//
// The containers are single-threaded. Iterators are invalidated by any
// mutation, because insertion displaces entries and may rehash the table.
package hopscotch

import "math/bits"

const (
	// One bit of the bucket word records occupancy, leaving 63 for hops.
	neighborhood = 63
	occupiedBit  = uint64(1) << neighborhood

	minBuckets = 16

	minLoad = 0.3
	maxLoad = 0.7
)

type entry struct {
	k, v uint64
}

// bucket is one table slot. hops bits 0..62 mark which window offsets hold
// entries whose home bucket is this one; bit 63 marks whether this bucket
// itself holds an entry (possibly belonging to another home bucket).
type bucket struct {
	hops uint64
	ent  entry
}

func (b *bucket) occupied() bool { return b.hops&occupiedBit != 0 }

func (b *bucket) setOccupied(v bool) {
	if v {
		b.hops |= occupiedBit
	} else {
		b.hops &^= occupiedBit
	}
}

// nextHop returns the lowest hop offset above prev set in the bucket's mask,
// or a value >= neighborhood when there is none. Start with prev = -1.
func (b *bucket) nextHop(prev int) int {
	if prev+1 >= 64 {
		return 64
	}
	masked := b.hops &^ occupiedBit & (^uint64(0) << uint(prev+1))
	return bits.TrailingZeros64(masked)
}

// table is the kernel shared by Map and Set.
type table struct {
	hash func(uint64) uint64

	buckets []bucket
	size    int

	minLoad float64
	maxLoad float64
	minSize int
	maxSize int
}

func newTable(bucketCount int, hash func(uint64) uint64) table {
	n := upperPowerOfTwo(bucketCount)
	if n < minBuckets {
		n = minBuckets
	}
	t := table{
		hash:    hash,
		buckets: make([]bucket, n),
		minLoad: minLoad,
		maxLoad: maxLoad,
	}
	t.minSize = int(float64(n) * t.minLoad)
	t.maxSize = int(float64(n) * t.maxLoad)
	return t
}

func upperPowerOfTwo(x int) int {
	if x <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(x-1))
}

func (t *table) empty() bool { return t.size == 0 }

func (t *table) len() int { return t.size }

func (t *table) bucketCount() int { return len(t.buckets) }

func (t *table) loadFactor() float64 {
	return float64(t.size) / float64(len(t.buckets))
}

// Bucket count is a power of two, so masking replaces the modulo.
func (t *table) homeIndex(key uint64) int {
	return int(t.hash(key) & uint64(len(t.buckets)-1))
}

func (t *table) indexAdd(index, x int) int {
	return (index + x) & (len(t.buckets) - 1)
}

func (t *table) indexSub(index, x int) int {
	return (index - x) & (len(t.buckets) - 1)
}

// findFrom scans the home bucket's hop mask for the key. Returns the bucket
// index holding it, or len(buckets) when absent.
func (t *table) findFrom(key uint64, home int) int {
	hb := &t.buckets[home]
	for hop := hb.nextHop(-1); hop < neighborhood; hop = hb.nextHop(hop) {
		index := t.indexAdd(home, hop)
		if t.buckets[index].ent.k == key {
			return index
		}
	}
	return len(t.buckets)
}

// insertFrom places the entry, displacing neighbors toward their home
// buckets to free a slot in the window, doubling the table when no
// displacement chain exists. The key must not be present.
func (t *table) insertFrom(e entry, home int) int {
	// Rehash first if this insert would exceed max load.
	if t.size == t.maxSize {
		t.rehash(len(t.buckets) * 2)
		return t.insertFrom(e, t.homeIndex(e.k))
	}

	// Find the nearest free bucket, wrapping past the end.
	freeDist := 0
	freeIndex := home
	for t.buckets[freeIndex].occupied() {
		freeDist++
		freeIndex = t.indexAdd(freeIndex, 1)
	}

	// Hop entries downward until the free bucket is inside the window.
	for freeDist > neighborhood-1 {
		// Look for a home bucket that anchors an entry stored before the
		// free slot; such an entry can move into it.
		moveDist := neighborhood - 1
		moveHome := t.indexSub(freeIndex, moveDist)

		var moveHop int
		for {
			hops := t.buckets[moveHome].hops &^ occupiedBit
			moveHop = bits.TrailingZeros64(hops)
			if moveHop < moveDist {
				break
			}
			moveDist--
			moveHome = t.indexAdd(moveHome, 1)

			if moveDist == 0 {
				// No displaceable entry: grow and start over.
				t.rehash(len(t.buckets) * 2)
				return t.insertFrom(e, t.homeIndex(e.k))
			}
		}

		dist := moveDist - moveHop
		moveIndex := t.indexAdd(moveHome, moveHop)

		t.buckets[freeIndex].ent = t.buckets[moveIndex].ent
		t.buckets[freeIndex].setOccupied(true)
		t.buckets[moveIndex].ent = entry{}
		t.buckets[moveIndex].setOccupied(false)

		t.buckets[moveHome].hops &^= uint64(1) << uint(moveHop)
		t.buckets[moveHome].hops |= uint64(1) << uint(moveDist)

		freeDist -= dist
		freeIndex = t.indexSub(freeIndex, dist)
	}

	t.buckets[freeIndex].ent = e
	t.buckets[freeIndex].setOccupied(true)
	t.buckets[home].hops |= uint64(1) << uint(freeDist)

	t.size++
	return freeIndex
}

// insert adds the entry if its key is absent, returning the bucket index of
// the entry already present otherwise. The bool reports insertion.
func (t *table) insert(e entry) (int, bool) {
	home := t.homeIndex(e.k)
	if at := t.findFrom(e.k, home); at != len(t.buckets) {
		return at, false
	}
	return t.insertFrom(e, home), true
}

// erase removes every entry with the key (0 or 1) and returns the count.
func (t *table) erase(key uint64) int {
	erased := 0

	home := t.homeIndex(key)
	hb := &t.buckets[home]
	for hop := hb.nextHop(-1); hop < neighborhood; hop = hb.nextHop(hop) {
		index := t.indexAdd(home, hop)
		b := &t.buckets[index]
		if b.occupied() && b.ent.k == key {
			b.ent = entry{}
			b.setOccupied(false)
			hb.hops &^= uint64(1) << uint(hop)
			erased++
		}
	}

	t.size -= erased

	// Shrink when this brought the table below min load.
	if t.size < t.minSize && t.size > minBuckets {
		t.rehash(len(t.buckets) / 2)
	}

	return erased
}

// count returns the number of entries with the key: 0 or 1.
func (t *table) count(key uint64) int {
	if t.findFrom(key, t.homeIndex(key)) != len(t.buckets) {
		return 1
	}
	return 0
}

func (t *table) clear() {
	for i := range t.buckets {
		t.buckets[i] = bucket{}
	}
	t.size = 0
}

func (t *table) rehash(count int) {
	n := upperPowerOfTwo(count)
	if n < minBuckets {
		n = minBuckets
	}

	old := t.buckets
	t.buckets = make([]bucket, n)
	t.size = 0
	t.minSize = int(t.minLoad * float64(n))
	t.maxSize = int(t.maxLoad * float64(n))

	for i := range old {
		if old[i].occupied() {
			t.insertFrom(old[i].ent, t.homeIndex(old[i].ent.k))
			// A nested rehash has already moved the rest.
			if len(t.buckets) != n {
				break
			}
		}
	}
}

func (t *table) reserve(count int) {
	t.rehash(int(float64(count)/t.maxLoad) + 1)
}

func (t *table) setMinLoadFactor(load float64) {
	t.minLoad = load
	t.minSize = int(t.minLoad * float64(len(t.buckets)))
	if t.size < t.minSize {
		t.rehash(len(t.buckets) / 2)
	}
}

func (t *table) setMaxLoadFactor(load float64) {
	t.maxLoad = load
	t.maxSize = int(t.maxLoad * float64(len(t.buckets)))
	if t.size > t.maxSize {
		t.rehash(len(t.buckets) * 2)
	}
}

// tableIterator scans the buckets in storage order.
type tableIterator struct {
	t     *table
	index int
	cur   entry
}

func (it *tableIterator) next() bool {
	for it.index < len(it.t.buckets) {
		b := &it.t.buckets[it.index]
		it.index++
		if b.occupied() {
			it.cur = b.ent
			return true
		}
	}
	return false
}
