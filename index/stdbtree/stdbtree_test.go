package stdbtree

import (
	"errors"
	"testing"

	"github.com/doubletree-bench/dtbench/index"
)

func TestBTreeOps(t *testing.T) {
	bt := New(32)

	for k := uint64(0); k < 1000; k++ {
		bt.Insert(k, k+1)
	}

	v, err := bt.Get(500)
	if err != nil || v != 501 {
		t.Fatalf("Get(500) = %d, %v", v, err)
	}
	if _, err := bt.Get(1001); !errors.Is(err, index.ErrNotFound) {
		t.Fatalf("Get of absent key: %v", err)
	}

	it, _ := bt.Range(10, 15)
	want := uint64(10)
	for it.Next() {
		if it.Key() != want {
			t.Fatalf("range yielded %d, want %d", it.Key(), want)
		}
		want++
	}
	if want != 16 {
		t.Fatalf("range stopped at %d", want)
	}

	if err := bt.Delete(500); err != nil {
		t.Fatal(err)
	}
	if _, err := bt.Get(500); !errors.Is(err, index.ErrNotFound) {
		t.Fatal("deleted key still present")
	}
}
