package doubletree

import "unsafe"

// cursor walks the nested leaf linked lists in key order. It snapshots each
// element as it advances, but holds live page references: any mutation of the
// tree invalidates it.
type cursor[E lineElem[E]] struct {
	t     *kernel[E]
	pos   treePos
	cur   E
	state uint8
}

const (
	curPending uint8 = iota // positioned, not yet yielded
	curActive
	curDone
)

func (t *kernel[E]) begin() cursor[E] {
	if t.empty() {
		return cursor[E]{t: t, state: curDone}
	}
	return cursor[E]{
		t:   t,
		pos: treePos{unsafe.Pointer(t.minLeaf), t.minLeaf.minPosition()},
	}
}

// at returns a cursor that yields the element at pos first.
func (t *kernel[E]) at(pos treePos) cursor[E] {
	return cursor[E]{t: t, pos: pos}
}

// seek returns a cursor positioned at the first element with key >= the one
// given, exhausted if there is none.
func (t *kernel[E]) seek(key uint64) cursor[E] {
	if t.empty() {
		return cursor[E]{t: t, state: curDone}
	}
	pos := t.findPos(key)
	leaf := dataPageOf[E](pos.page)
	if leaf.key(pos.sub) >= key {
		return t.at(pos)
	}
	// findPos landed on the greatest key below; step one forward.
	if pos.sub == leaf.maxPosition() {
		if leaf.aux.next == nil {
			return cursor[E]{t: t, state: curDone}
		}
		next := dataPageOf[E](leaf.aux.next)
		return t.at(treePos{leaf.aux.next, next.minPosition()})
	}
	return t.at(treePos{pos.page, leaf.nextPosition(pos.sub)})
}

func (c *cursor[E]) next() bool {
	switch c.state {
	case curDone:
		return false
	case curPending:
		c.state = curActive
		c.cur = dataPageOf[E](c.pos.page).elem(c.pos.sub)
		return true
	}

	leaf := dataPageOf[E](c.pos.page)
	if c.pos.sub == leaf.maxPosition() {
		if leaf.aux.next == nil {
			c.state = curDone
			return false
		}
		c.pos.page = leaf.aux.next
		c.pos.sub = dataPageOf[E](c.pos.page).minPosition()
	} else {
		c.pos.sub = leaf.nextPosition(c.pos.sub)
	}
	c.cur = dataPageOf[E](c.pos.page).elem(c.pos.sub)
	return true
}

// MapIterator yields the entries of a Map in ascending key order. Next must
// be called before the first Key/Value access.
type MapIterator struct {
	c cursor[mapEntry]
}

func (it *MapIterator) Next() bool    { return it.c.next() }
func (it *MapIterator) Key() uint64   { return it.c.cur.k }
func (it *MapIterator) Value() uint64 { return it.c.cur.v }

// SetIterator yields the keys of a Set in ascending order.
type SetIterator struct {
	c cursor[setEntry]
}

func (it *SetIterator) Next() bool  { return it.c.next() }
func (it *SetIterator) Key() uint64 { return uint64(it.c.cur) }
