package doubletree

import (
	"fmt"
	"unsafe"
)

// Consistency traversal. Verifies, for the whole tree: sorted unique keys,
// representative-key agreement between stems and children at both tiers,
// line occupancy, the two nested leaf linked lists, and per-page pool
// accounting. Used by the tests after every mutation batch.

// checkPage validates one page's internal tree and pool.
func checkPage[E lineElem[E], A any](p *page[E, A]) error {
	reachable := 0
	var leaves []lineRef

	var walk func(idx lineRef, depth uint8) error
	walk = func(idx lineRef, depth uint8) error {
		reachable++
		if depth < p.stemLevels {
			if p.pool[idx].tag != tagStem {
				return fmt.Errorf("slot %d: tagged %d, expected stem", idx, p.pool[idx].tag)
			}
			s := p.getStem(idx)
			if s.empty() {
				return fmt.Errorf("stem line %d is empty", idx)
			}
			if depth > 0 && s.thin() {
				return fmt.Errorf("non-root stem line %d has %d entries", idx, s.count)
			}
			if depth == 0 && s.count < 2 {
				return fmt.Errorf("root stem line %d has %d entries, not collapsed", idx, s.count)
			}
			for i := lineRef(1); i < s.count; i++ {
				if s.keyAt(i-1) >= s.keyAt(i) {
					return fmt.Errorf("stem line %d keys not increasing at %d", idx, i)
				}
			}
			for i := lineRef(0); i < s.count; i++ {
				child := s.elems[i].child
				if err := walk(child, depth+1); err != nil {
					return err
				}
				var childMin uint64
				if depth+1 < p.stemLevels {
					childMin = p.getStem(child).minKey()
				} else {
					childMin = p.getLeaf(child).minKey()
				}
				if childMin != s.keyAt(i) {
					return fmt.Errorf("stem line %d entry %d: key %d, child min %d",
						idx, i, s.keyAt(i), childMin)
				}
			}
			return nil
		}

		if p.pool[idx].tag != tagLeaf {
			return fmt.Errorf("slot %d: tagged %d, expected leaf", idx, p.pool[idx].tag)
		}
		l := p.getLeaf(idx)
		if p.stemLevels > 0 && l.thin() {
			return fmt.Errorf("non-root leaf line %d has %d entries", idx, l.count)
		}
		for i := lineRef(1); i < l.count; i++ {
			if l.keyAt(i-1) >= l.keyAt(i) {
				return fmt.Errorf("leaf line %d keys not increasing at %d", idx, i)
			}
		}
		leaves = append(leaves, idx)
		return nil
	}
	if err := walk(p.rootIndex, 0); err != nil {
		return err
	}

	// The leaf-line chain must visit exactly the descent-order leaves.
	if p.minLeafIndex != leaves[0] {
		return fmt.Errorf("min leaf index %d, first leaf %d", p.minLeafIndex, leaves[0])
	}
	if p.maxLeafIndex != leaves[len(leaves)-1] {
		return fmt.Errorf("max leaf index %d, last leaf %d", p.maxLeafIndex, leaves[len(leaves)-1])
	}
	prev := nilLine
	cur := p.minLeafIndex
	for i, want := range leaves {
		if cur != want {
			return fmt.Errorf("leaf chain position %d: slot %d, expected %d", i, cur, want)
		}
		l := p.getLeaf(cur)
		if l.aux.prev != prev {
			return fmt.Errorf("leaf line %d prev link %d, expected %d", cur, l.aux.prev, prev)
		}
		prev = cur
		cur = l.aux.next
	}
	if cur != nilLine {
		return fmt.Errorf("leaf chain runs past max leaf into slot %d", cur)
	}

	// Pool accounting: free list length plus the never-allocated tail must
	// equal freeCount, and free plus reachable must cover the pool.
	if int(p.freeCount)+reachable != poolCount {
		return fmt.Errorf("pool: %d free + %d reachable != %d", p.freeCount, reachable, poolCount)
	}
	steps := 0
	for idx := p.headIndex; idx != p.backIndex; idx = p.pool[idx].nextFree {
		if p.pool[idx].tag != tagFree {
			return fmt.Errorf("free-list slot %d tagged %d", idx, p.pool[idx].tag)
		}
		steps++
		if steps > poolCount {
			return fmt.Errorf("free list does not terminate")
		}
	}
	if steps+(poolCount-int(p.backIndex)) != int(p.freeCount) {
		return fmt.Errorf("free list length %d + tail %d != free count %d",
			steps, poolCount-int(p.backIndex), p.freeCount)
	}
	return nil
}

// checkNode validates the subtree under ptr and returns its data pages in
// key order.
func (t *kernel[E]) checkNode(ptr unsafe.Pointer, depth int) ([]*page[E, treeLeafAux], error) {
	if depth == t.stemLevels {
		pg := dataPageOf[E](ptr)
		if err := checkPage(pg); err != nil {
			return nil, fmt.Errorf("data page %p: %w", pg, err)
		}
		if depth > 0 && pg.empty() {
			return nil, fmt.Errorf("non-root data page %p is empty", pg)
		}
		return []*page[E, treeLeafAux]{pg}, nil
	}

	sp := stemPageOf(ptr)
	if err := checkPage(sp); err != nil {
		return nil, fmt.Errorf("stem page %p: %w", sp, err)
	}
	if sp.empty() {
		return nil, fmt.Errorf("stem page %p is empty", sp)
	}

	var pages []*page[E, treeLeafAux]
	for pos := sp.minPosition(); ; pos = sp.nextPosition(pos) {
		e := sp.elem(pos)
		kids, err := t.checkNode(e.child, depth+1)
		if err != nil {
			return nil, err
		}
		var childMin uint64
		if depth+1 == t.stemLevels {
			childMin = dataPageOf[E](e.child).minKey()
		} else {
			childMin = stemPageOf(e.child).minKey()
		}
		if childMin != e.k {
			return nil, fmt.Errorf("stem page %p: entry key %d, child min %d", sp, e.k, childMin)
		}
		pages = append(pages, kids...)
		if pos == sp.maxPosition() {
			break
		}
	}
	return pages, nil
}

func (t *kernel[E]) check() error {
	pages, err := t.checkNode(t.root, 0)
	if err != nil {
		return fmt.Errorf("doubletree: %w", err)
	}

	// The inter-page chain must visit exactly the descent-order pages.
	if t.minLeaf != pages[0] {
		return fmt.Errorf("doubletree: min leaf pointer does not match first data page")
	}
	if t.maxLeaf != pages[len(pages)-1] {
		return fmt.Errorf("doubletree: max leaf pointer does not match last data page")
	}
	var prev *page[E, treeLeafAux]
	cur := t.minLeaf
	for i, want := range pages {
		if cur != want {
			return fmt.Errorf("doubletree: page chain diverges at position %d", i)
		}
		if (prev == nil) != (cur.aux.prev == nil) ||
			(prev != nil && dataPageOf[E](cur.aux.prev) != prev) {
			return fmt.Errorf("doubletree: page chain prev link broken at position %d", i)
		}
		prev = cur
		cur = dataPageOf[E](cur.aux.next)
	}
	if cur != nil {
		return fmt.Errorf("doubletree: page chain runs past max leaf")
	}

	// Keys must be strictly increasing across the whole container.
	first := true
	var prevKey uint64
	for _, pg := range pages {
		for li := pg.minLeafIndex; li != nilLine; li = pg.getLeaf(li).aux.next {
			l := pg.getLeaf(li)
			for i := lineRef(0); i < l.count; i++ {
				k := l.keyAt(i)
				if !first && k <= prevKey {
					return fmt.Errorf("doubletree: keys not strictly increasing: %d after %d", k, prevKey)
				}
				first = false
				prevKey = k
			}
		}
	}
	return nil
}
