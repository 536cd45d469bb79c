package doubletree

import "testing"

func lineOf(keys ...uint64) *lineNode[setEntry, lineLeafAux] {
	n := &lineNode[setEntry, lineLeafAux]{}
	for _, k := range keys {
		n.insert(setEntry(k))
	}
	return n
}

func wantKeys(t *testing.T, n *lineNode[setEntry, lineLeafAux], keys ...uint64) {
	t.Helper()
	if int(n.count) != len(keys) {
		t.Fatalf("count = %d, want %d", n.count, len(keys))
	}
	for i, k := range keys {
		if n.keyAt(lineRef(i)) != k {
			t.Fatalf("key %d = %d, want %d", i, n.keyAt(lineRef(i)), k)
		}
	}
}

func TestLineFind(t *testing.T) {
	n := lineOf(10, 20, 30)

	cases := []struct {
		key  uint64
		want lineRef
	}{
		{5, 0}, // all keys greater: minimum index
		{10, 0},
		{15, 0},
		{20, 1},
		{25, 1},
		{30, 2},
		{99, 2},
	}
	for _, c := range cases {
		if got := n.find(c.key); got != c.want {
			t.Errorf("find(%d) = %d, want %d", c.key, got, c.want)
		}
	}
}

func TestLineInsertKeepsOrder(t *testing.T) {
	n := lineOf(50, 10, 40, 20, 30)
	wantKeys(t, n, 10, 20, 30, 40, 50)
}

func TestLineFullThin(t *testing.T) {
	n := &lineNode[setEntry, lineLeafAux]{}
	if !n.thin() || !n.empty() {
		t.Fatal("fresh line should be thin and empty")
	}
	for k := 0; k < lineMaxCount; k++ {
		n.insert(setEntry(k))
	}
	if !n.full() {
		t.Fatalf("line with %d entries not full", lineMaxCount)
	}
	if n.thin() {
		t.Fatal("full line reported thin")
	}
}

func TestLineSplit(t *testing.T) {
	n := &lineNode[setEntry, lineLeafAux]{}
	for k := 0; k < lineMaxCount; k++ {
		n.insert(setEntry(k))
	}
	var dst lineNode[setEntry, lineLeafAux]
	n.split(&dst)

	keep := lineMaxCount/2 + lineMaxCount%2
	if int(n.count) != keep || int(dst.count) != lineMaxCount/2 {
		t.Fatalf("split counts %d/%d, want %d/%d", n.count, dst.count, keep, lineMaxCount/2)
	}
	for i := lineRef(0); i < n.count; i++ {
		if n.keyAt(i) != uint64(i) {
			t.Fatalf("kept key %d = %d", i, n.keyAt(i))
		}
	}
	for i := lineRef(0); i < dst.count; i++ {
		if dst.keyAt(i) != uint64(keep+int(i)) {
			t.Fatalf("moved key %d = %d", i, dst.keyAt(i))
		}
	}
}

func TestLineErase(t *testing.T) {
	n := lineOf(10, 20, 30, 40)
	n.erase(1)
	wantKeys(t, n, 10, 30, 40)
	n.erase(2)
	wantKeys(t, n, 10, 30)
	n.erase(0)
	wantKeys(t, n, 30)
}

func TestLineMergePrevErase(t *testing.T) {
	prev := lineOf(10, 20)
	n := lineOf(40, 50, 60)
	n.mergePrevErase(1, prev)
	wantKeys(t, prev, 10, 20, 40, 60)
	if n.count != 0 {
		t.Fatalf("merged-away line has %d entries", n.count)
	}
}

func TestLineMergeNextErase(t *testing.T) {
	n := lineOf(10, 20, 30)
	next := lineOf(40, 50)
	n.mergeNextErase(0, next)
	wantKeys(t, n, 20, 30, 40, 50)
	if next.count != 0 {
		t.Fatalf("merged-away line has %d entries", next.count)
	}
}

func TestLineBorrowPrevErase(t *testing.T) {
	prev := lineOf(10, 20, 30)
	n := lineOf(40, 50, 60)
	n.borrowPrevErase(2, prev)
	wantKeys(t, n, 30, 40, 50)
	wantKeys(t, prev, 10, 20)
}

func TestLineBorrowNextErase(t *testing.T) {
	n := lineOf(10, 20, 30)
	next := lineOf(40, 50, 60)
	n.borrowNextErase(0, next)
	wantKeys(t, n, 20, 30, 40)
	wantKeys(t, next, 50, 60)
}
