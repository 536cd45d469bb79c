package doubletree

import "unsafe"

// The outer tier mirrors the page design one level up: stem pages hold
// (key, child page) entries and data pages hold the domain elements. Child
// pointers are untyped, as the descent depth always determines the concrete
// page type; they stay visible to the garbage collector.

// pageEntry is the element of the outer tier's stem pages.
type pageEntry struct {
	k     uint64
	child unsafe.Pointer
}

func (e pageEntry) key() uint64                { return e.k }
func (e pageEntry) withKey(nk uint64) pageEntry { e.k = nk; return e }

// stemPage is an internal node of the outer tree.
type stemPage = page[pageEntry, stemAux]

// treeLeafAux chains the data pages of a tree into a doubly-linked list.
type treeLeafAux struct {
	prev unsafe.Pointer
	next unsafe.Pointer
}

// treePos addresses one element in the tree: a data page plus a position
// inside it.
type treePos struct {
	page unsafe.Pointer
	sub  pagePos
}

// kernel is the ordered-container core shared by Map and Set. The tree
// exclusively owns every reachable page.
type kernel[E lineElem[E]] struct {
	root       unsafe.Pointer
	minLeaf    *page[E, treeLeafAux]
	maxLeaf    *page[E, treeLeafAux]
	stemLevels int
}

func newKernel[E lineElem[E]]() kernel[E] {
	root := newPage[E, treeLeafAux]()
	root.aux.prev = nil
	root.aux.next = nil
	return kernel[E]{
		root:    unsafe.Pointer(root),
		minLeaf: root,
		maxLeaf: root,
	}
}

func dataPageOf[E lineElem[E]](p unsafe.Pointer) *page[E, treeLeafAux] {
	return (*page[E, treeLeafAux])(p)
}

func stemPageOf(p unsafe.Pointer) *stemPage {
	return (*stemPage)(p)
}

func (t *kernel[E]) empty() bool {
	return t.stemLevels == 0 && dataPageOf[E](t.root).empty()
}

func (t *kernel[E]) elemAt(pos treePos) E {
	return dataPageOf[E](pos.page).elem(pos.sub)
}

// FIND

// findPos returns the position of the greatest key less than or equal to the
// one given, or the minimum position if all keys are greater.
func (t *kernel[E]) findPos(key uint64) treePos {
	p := t.root
	for d := 0; d < t.stemLevels; d++ {
		s := stemPageOf(p)
		p = s.elem(s.find(key)).child
	}
	return treePos{p, dataPageOf[E](p).find(key)}
}

// lookup resolves key to its exact position, reporting whether it is present.
func (t *kernel[E]) lookup(key uint64) (treePos, bool) {
	if t.empty() {
		return treePos{}, false
	}
	pos := t.findPos(key)
	if dataPageOf[E](pos.page).key(pos.sub) != key {
		return pos, false
	}
	return pos, true
}

// findPath records the descent taken to find the key. The path length is the
// tree height, which is unbounded, so it lives on the heap rather than in a
// fixed array like the page-local paths.
func (t *kernel[E]) findPath(key uint64) []treePos {
	path := make([]treePos, t.stemLevels+1)
	p := t.root
	for d := 0; d < t.stemLevels; d++ {
		s := stemPageOf(p)
		path[d].page = p
		path[d].sub = s.find(key)
		p = s.elem(path[d].sub).child
	}
	path[t.stemLevels].page = p
	path[t.stemLevels].sub = dataPageOf[E](p).find(key)
	return path
}

// INSERT

// splitRoot relieves an oversized root by minting a next sibling and moving
// leaf lines into it until the root is back in band, then installing a fresh
// two-entry stem page above the pair.
func (t *kernel[E]) splitRoot() {
	if t.stemLevels > 0 {
		oldRootPtr := t.root
		oldRoot := stemPageOf(oldRootPtr)
		if !oldRoot.oversized() {
			return
		}

		sibling := oldRoot.splitOneLeaf()
		for oldRoot.oversized() {
			sibling.borrowPrev(oldRoot)
		}
		newPtr := unsafe.Pointer(sibling)

		newRoot := newStemPage()
		newRoot.insert(pageEntry{oldRoot.minKey(), oldRootPtr})
		newRoot.insert(pageEntry{sibling.minKey(), newPtr})

		t.root = unsafe.Pointer(newRoot)
		t.stemLevels++
	} else {
		oldRootPtr := t.root
		oldRoot := dataPageOf[E](oldRootPtr)
		if !oldRoot.oversized() {
			return
		}

		sibling := oldRoot.splitOneLeaf()
		for oldRoot.oversized() {
			sibling.borrowPrev(oldRoot)
		}
		newPtr := unsafe.Pointer(sibling)

		oldRoot.aux.next = newPtr
		sibling.aux.prev = oldRootPtr
		t.maxLeaf = sibling

		newRoot := newStemPage()
		newRoot.insert(pageEntry{oldRoot.minKey(), oldRootPtr})
		newRoot.insert(pageEntry{sibling.minKey(), newPtr})

		t.root = unsafe.Pointer(newRoot)
		t.stemLevels++
	}
}

func newStemPage() *stemPage {
	p := newPage[pageEntry, stemAux]()
	return p
}

// insert adds a new element without checking for a duplicate key; callers
// that need first-wins semantics look the key up first. Descent rebalances by
// page offload: an oversized child sheds leaf lines to a small previous or
// next sibling, or to a freshly minted next sibling, before the descent
// continues into whichever page now covers the new key.
func (t *kernel[E]) insert(e E) {
	t.splitRoot()

	newKey := e.key()

	currentPtr := t.root
	for d := 0; d < t.stemLevels-1; d++ {
		currentStem := stemPageOf(currentPtr)

		targetPos := currentStem.find(newKey)
		targetPtr := currentStem.elem(targetPos).child
		targetStem := stemPageOf(targetPtr)

		// Offload to the previous sibling?
		if targetStem.oversized() && targetPos != currentStem.minPosition() {
			prevPos := currentStem.prevPosition(targetPos)
			prevPtr := currentStem.elem(prevPos).child
			prevStem := stemPageOf(prevPtr)

			if prevStem.small() {
				for targetStem.oversized() {
					prevStem.borrowNext(targetStem)
				}

				currentStem.setKey(targetPos, targetStem.minKey())

				if newKey < targetStem.minKey() {
					if newKey < prevStem.minKey() {
						currentStem.setKey(prevPos, newKey)
					}
					currentPtr = prevPtr
				} else {
					currentPtr = targetPtr
				}
				continue
			}
		}

		// Offload to the next sibling?
		if targetStem.oversized() && targetPos != currentStem.maxPosition() {
			nextPos := currentStem.nextPosition(targetPos)
			nextPtr := currentStem.elem(nextPos).child
			nextStem := stemPageOf(nextPtr)

			if nextStem.small() {
				for targetStem.oversized() {
					nextStem.borrowPrev(targetStem)
				}

				currentStem.setKey(nextPos, nextStem.minKey())

				if newKey >= nextStem.minKey() {
					currentPtr = nextPtr
				} else {
					if newKey < targetStem.minKey() {
						currentStem.setKey(targetPos, newKey)
					}
					currentPtr = targetPtr
				}
				continue
			}
		}

		// Offload to a new next sibling.
		if targetStem.oversized() {
			sibling := targetStem.splitOneLeaf()
			for targetStem.oversized() {
				sibling.borrowPrev(targetStem)
			}
			newPtr := unsafe.Pointer(sibling)

			currentStem.insert(pageEntry{sibling.minKey(), newPtr})

			if newKey >= sibling.minKey() {
				currentPtr = newPtr
			} else {
				if newKey < targetStem.minKey() {
					currentStem.setKey(targetPos, newKey)
				}
				currentPtr = targetPtr
			}
			continue
		}

		if newKey < targetStem.minKey() {
			currentStem.setKey(targetPos, newKey)
		}
		currentPtr = targetPtr
	}

	if t.stemLevels > 0 {
		currentStem := stemPageOf(currentPtr)

		targetPos := currentStem.find(newKey)
		targetPtr := currentStem.elem(targetPos).child
		targetLeaf := dataPageOf[E](targetPtr)

		// Offload to the previous sibling?
		if targetLeaf.oversized() && targetPos != currentStem.minPosition() {
			prevPos := currentStem.prevPosition(targetPos)
			prevPtr := currentStem.elem(prevPos).child
			prevLeaf := dataPageOf[E](prevPtr)

			if prevLeaf.small() {
				for targetLeaf.oversized() {
					prevLeaf.borrowNext(targetLeaf)
				}

				currentStem.setKey(targetPos, targetLeaf.minKey())

				if newKey < targetLeaf.minKey() {
					if newKey < prevLeaf.minKey() {
						currentStem.setKey(prevPos, newKey)
					}
					prevLeaf.insert(e)
				} else {
					targetLeaf.insert(e)
				}
				return
			}
		}

		// Offload to the next sibling?
		if targetLeaf.oversized() && targetPos != currentStem.maxPosition() {
			nextPos := currentStem.nextPosition(targetPos)
			nextPtr := currentStem.elem(nextPos).child
			nextLeaf := dataPageOf[E](nextPtr)

			if nextLeaf.small() {
				for targetLeaf.oversized() {
					nextLeaf.borrowPrev(targetLeaf)
				}

				currentStem.setKey(nextPos, nextLeaf.minKey())

				if newKey >= nextLeaf.minKey() {
					nextLeaf.insert(e)
				} else {
					if newKey < targetLeaf.minKey() {
						currentStem.setKey(targetPos, newKey)
					}
					targetLeaf.insert(e)
				}
				return
			}
		}

		// Offload to a new next sibling.
		if targetLeaf.oversized() {
			sibling := targetLeaf.splitOneLeaf()
			for targetLeaf.oversized() {
				sibling.borrowPrev(targetLeaf)
			}
			newPtr := unsafe.Pointer(sibling)

			currentStem.insert(pageEntry{sibling.minKey(), newPtr})

			// Splice the new page into the leaf-page list.
			if targetLeaf.aux.next != nil {
				dataPageOf[E](targetLeaf.aux.next).aux.prev = newPtr
			}
			sibling.aux.prev = targetPtr
			sibling.aux.next = targetLeaf.aux.next
			targetLeaf.aux.next = newPtr

			if t.maxLeaf == targetLeaf {
				t.maxLeaf = sibling
			}

			if newKey >= sibling.minKey() {
				sibling.insert(e)
			} else {
				if newKey < targetLeaf.minKey() {
					currentStem.setKey(targetPos, newKey)
				}
				targetLeaf.insert(e)
			}
			return
		}

		if newKey < targetLeaf.minKey() {
			currentStem.setKey(targetPos, newKey)
		}
		targetLeaf.insert(e)
	} else {
		dataPageOf[E](currentPtr).insert(e)
	}
}

// ERASE

// erase removes the element with the given key, which must be present. After
// the data page has handled the erase internally, the outer tier restores
// its invariants: an emptied page is unlinked and removed, a page that fell
// out of the large band regrows by borrowing from small siblings, neighbors
// drained empty by that borrowing are removed, and representative keys are
// patched where child minimums changed.
func (t *kernel[E]) erase(key uint64) {
	path := t.findPath(key)

	erasePtr := path[t.stemLevels].page
	eraseLeaf := dataPageOf[E](erasePtr)

	wasLarge := eraseLeaf.large()

	eraseLeaf.erase(key)
	if t.stemLevels == 0 {
		return
	}

	parentPos := path[t.stemLevels-1].sub
	parentStem := stemPageOf(path[t.stemLevels-1].page)
	parentWasLarge := parentStem.large()
	oldKey := parentStem.key(parentPos)

	if eraseLeaf.empty() {
		if eraseLeaf.aux.prev != nil {
			dataPageOf[E](eraseLeaf.aux.prev).aux.next = eraseLeaf.aux.next
		}
		if eraseLeaf.aux.next != nil {
			dataPageOf[E](eraseLeaf.aux.next).aux.prev = eraseLeaf.aux.prev
		}
		if t.minLeaf == eraseLeaf {
			t.minLeaf = dataPageOf[E](eraseLeaf.aux.next)
		}
		if t.maxLeaf == eraseLeaf {
			t.maxLeaf = dataPageOf[E](eraseLeaf.aux.prev)
		}
		parentStem.erase(oldKey)
	} else {
		var prevLeaf *page[E, treeLeafAux]
		var prevKey uint64
		if parentPos != parentStem.minPosition() {
			prevLeaf = dataPageOf[E](parentStem.elem(parentStem.prevPosition(parentPos)).child)
			prevKey = prevLeaf.minKey()
		}

		var nextLeaf *page[E, treeLeafAux]
		var nextKey uint64
		if parentPos != parentStem.maxPosition() {
			nextLeaf = dataPageOf[E](parentStem.elem(parentStem.nextPosition(parentPos)).child)
			nextKey = nextLeaf.minKey()
		}

		if wasLarge && eraseLeaf.small() {
			if prevLeaf != nil && prevLeaf.small() {
				for eraseLeaf.small() && !prevLeaf.empty() {
					eraseLeaf.borrowPrev(prevLeaf)
				}
			}
			if nextLeaf != nil && nextLeaf.small() {
				for eraseLeaf.small() && !nextLeaf.empty() {
					eraseLeaf.borrowNext(nextLeaf)
				}
			}
		}

		if prevLeaf != nil && prevLeaf.empty() {
			if prevLeaf.aux.prev != nil {
				dataPageOf[E](prevLeaf.aux.prev).aux.next = erasePtr
			}
			eraseLeaf.aux.prev = prevLeaf.aux.prev

			if t.minLeaf == prevLeaf {
				t.minLeaf = eraseLeaf
			}

			parentStem.erase(prevKey)
		}

		if nextLeaf != nil && nextLeaf.empty() {
			if nextLeaf.aux.next != nil {
				dataPageOf[E](nextLeaf.aux.next).aux.prev = erasePtr
			}
			eraseLeaf.aux.next = nextLeaf.aux.next

			if t.maxLeaf == nextLeaf {
				t.maxLeaf = eraseLeaf
			}

			parentStem.erase(nextKey)
		} else if nextLeaf != nil && nextLeaf.minKey() != nextKey {
			parentStem.setKey(parentStem.find(nextKey), nextLeaf.minKey())
		}

		if eraseLeaf.minKey() != oldKey {
			parentStem.setKey(parentStem.find(oldKey), eraseLeaf.minKey())
		}
	}

	t.eraseHelper(path, t.stemLevels-1, parentWasLarge)
}

// eraseHelper runs the same recovery protocol for the stem page at the given
// path depth, recursing toward the root.
func (t *kernel[E]) eraseHelper(path []treePos, depth int, wasLarge bool) {
	if depth == 0 {
		t.rootCollapse()
		return
	}

	eraseStem := stemPageOf(path[depth].page)

	parentStem := stemPageOf(path[depth-1].page)
	parentPos := path[depth-1].sub
	parentWasLarge := parentStem.large()
	oldKey := parentStem.key(parentPos)

	if eraseStem.empty() {
		parentStem.erase(oldKey)
	} else {
		var prevStem *stemPage
		var prevKey uint64
		if parentPos != parentStem.minPosition() {
			prevStem = stemPageOf(parentStem.elem(parentStem.prevPosition(parentPos)).child)
			prevKey = prevStem.minKey()
		}

		var nextStem *stemPage
		var nextKey uint64
		if parentPos != parentStem.maxPosition() {
			nextStem = stemPageOf(parentStem.elem(parentStem.nextPosition(parentPos)).child)
			nextKey = nextStem.minKey()
		}

		if wasLarge && eraseStem.small() {
			if prevStem != nil && prevStem.small() {
				for eraseStem.small() && !prevStem.empty() {
					eraseStem.borrowPrev(prevStem)
				}
			}
			if nextStem != nil && nextStem.small() {
				for eraseStem.small() && !nextStem.empty() {
					eraseStem.borrowNext(nextStem)
				}
			}
		}

		if prevStem != nil && prevStem.empty() {
			parentStem.erase(prevKey)
		}

		if nextStem != nil && nextStem.empty() {
			parentStem.erase(nextKey)
		} else if nextStem != nil && nextStem.minKey() != nextKey {
			parentStem.setKey(parentStem.find(nextKey), nextStem.minKey())
		}

		if eraseStem.minKey() != oldKey {
			parentStem.setKey(parentStem.find(oldKey), eraseStem.minKey())
		}
	}

	t.eraseHelper(path, depth-1, parentWasLarge)
}

// rootCollapse sheds root stem pages that are down to a single child.
func (t *kernel[E]) rootCollapse() {
	root := stemPageOf(t.root)

	if root.stemLevels == 0 && root.getLeaf(root.minLeafIndex).count == 1 {
		t.root = root.elem(pagePos{root.minLeafIndex, 0}).child
		t.stemLevels--

		if t.stemLevels > 0 {
			t.rootCollapse()
		}
	}
}
