package doubletree

import (
	"math/rand"
	"testing"
)

// fillPage inserts ascending keys starting at base until the page is
// oversized, returning the keys inserted.
func fillPage(p *page[setEntry, treeLeafAux], base uint64) []uint64 {
	var keys []uint64
	for k := base; !p.oversized(); k++ {
		p.insert(setEntry(k))
		keys = append(keys, k)
	}
	return keys
}

func pageKeys(p *page[setEntry, treeLeafAux]) []uint64 {
	var keys []uint64
	for li := p.minLeafIndex; li != nilLine; li = p.getLeaf(li).aux.next {
		l := p.getLeaf(li)
		for i := lineRef(0); i < l.count; i++ {
			keys = append(keys, l.keyAt(i))
		}
	}
	return keys
}

func TestPageInsertFind(t *testing.T) {
	p := newPage[setEntry, treeLeafAux]()
	keys := fillPage(p, 0)

	if err := checkPage(p); err != nil {
		t.Fatal(err)
	}
	if p.stemLevels == 0 {
		t.Fatal("page never grew a stem level")
	}

	for _, k := range keys {
		pos := p.find(k)
		if got := p.key(pos); got != k {
			t.Fatalf("find(%d) landed on %d", k, got)
		}
	}

	// Keys below the minimum land on the minimum position.
	p2 := newPage[setEntry, treeLeafAux]()
	p2.insert(setEntry(100))
	p2.insert(setEntry(200))
	if pos := p2.find(50); pos != p2.minPosition() {
		t.Fatalf("find below min = %+v, want %+v", pos, p2.minPosition())
	}
}

func TestPageInsertShuffled(t *testing.T) {
	rng := rand.New(rand.NewSource(19))
	p := newPage[setEntry, treeLeafAux]()

	inserted := map[uint64]bool{}
	for !p.oversized() {
		k := uint64(rng.Intn(1 << 20))
		if inserted[k] {
			continue
		}
		inserted[k] = true
		p.insert(setEntry(k))
	}
	if err := checkPage(p); err != nil {
		t.Fatal(err)
	}

	got := pageKeys(p)
	if len(got) != len(inserted) {
		t.Fatalf("page holds %d keys, inserted %d", len(got), len(inserted))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("keys out of order at %d: %d >= %d", i, got[i-1], got[i])
		}
	}
}

func TestPageEraseDrain(t *testing.T) {
	rng := rand.New(rand.NewSource(35))
	p := newPage[setEntry, treeLeafAux]()
	keys := fillPage(p, 0)

	rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	for i, k := range keys {
		p.erase(k)
		if err := checkPage(p); err != nil {
			t.Fatalf("after erase %d (%d/%d): %v", k, i+1, len(keys), err)
		}
	}

	if !p.empty() {
		t.Fatal("drained page not empty")
	}
	if p.stemLevels != 0 {
		t.Fatalf("drained page has %d stem levels", p.stemLevels)
	}
	if p.freeCount != poolCount-1 {
		t.Fatalf("drained page has %d free slots, want %d", p.freeCount, poolCount-1)
	}
}

func TestPageEraseMinUpdatesKeys(t *testing.T) {
	p := newPage[setEntry, treeLeafAux]()
	keys := fillPage(p, 1000)

	// Repeatedly removing the minimum exercises the representative-key
	// rewrite on the leftmost path.
	for _, k := range keys {
		if got := p.minKey(); got != k {
			t.Fatalf("min key %d, want %d", got, k)
		}
		p.erase(k)
		if err := checkPage(p); err != nil {
			t.Fatalf("after erasing min %d: %v", k, err)
		}
	}
}

func TestPageSplitOneLeafAndBorrow(t *testing.T) {
	a := newPage[setEntry, treeLeafAux]()
	keys := fillPage(a, 0)

	b := a.splitOneLeaf()
	for a.oversized() {
		b.borrowPrev(a)
	}

	if err := checkPage(a); err != nil {
		t.Fatalf("donor: %v", err)
	}
	if err := checkPage(b); err != nil {
		t.Fatalf("receiver: %v", err)
	}
	if a.oversized() {
		t.Fatal("donor still oversized")
	}
	if a.maxKey() >= b.minKey() {
		t.Fatalf("donor max %d not below receiver min %d", a.maxKey(), b.minKey())
	}

	got := append(pageKeys(a), pageKeys(b)...)
	if len(got) != len(keys) {
		t.Fatalf("pages hold %d keys, inserted %d", len(got), len(keys))
	}
	for i, k := range got {
		if k != keys[i] {
			t.Fatalf("key %d = %d, want %d", i, k, keys[i])
		}
	}
}

func TestPageBorrowNext(t *testing.T) {
	a := newPage[setEntry, treeLeafAux]()
	fillPage(a, 0)
	b := a.splitOneLeaf()
	for a.oversized() {
		b.borrowPrev(a)
	}

	// Thin out a until it can absorb donations again.
	for _, k := range pageKeys(a) {
		if a.small() {
			break
		}
		a.erase(k)
	}

	// Pull lines back from b while a may absorb donations.
	for !b.empty() && a.small() {
		a.borrowNext(b)
		if err := checkPage(a); err != nil {
			t.Fatalf("receiver: %v", err)
		}
		if err := checkPage(b); err != nil {
			t.Fatalf("donor: %v", err)
		}
	}
}

func TestPagePoolReuse(t *testing.T) {
	p := newPage[setEntry, treeLeafAux]()

	// Alternating growth and shrinkage cycles the free list.
	for round := 0; round < 8; round++ {
		keys := fillPage(p, uint64(round*1000))
		for _, k := range keys {
			p.erase(k)
		}
		if err := checkPage(p); err != nil {
			t.Fatalf("round %d: %v", round, err)
		}
		if p.freeCount != poolCount-1 {
			t.Fatalf("round %d: %d free slots, want %d", round, p.freeCount, poolCount-1)
		}
	}
}
