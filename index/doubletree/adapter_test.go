package doubletree

import (
	"errors"
	"testing"

	"github.com/doubletree-bench/dtbench/index"
)

func TestIndexAdapter(t *testing.T) {
	idx := NewIndex()

	for k := uint64(0); k < 1000; k++ {
		if err := idx.Insert(k, k*3); err != nil {
			t.Fatal(err)
		}
	}

	v, err := idx.Get(123)
	if err != nil || v != 369 {
		t.Fatalf("Get(123) = %d, %v", v, err)
	}
	if _, err := idx.Get(5000); !errors.Is(err, index.ErrNotFound) {
		t.Fatalf("Get of absent key: %v", err)
	}

	it, err := idx.Range(100, 110)
	if err != nil {
		t.Fatal(err)
	}
	want := uint64(100)
	for it.Next() {
		if it.Key() != want {
			t.Fatalf("range yielded %d, want %d", it.Key(), want)
		}
		want++
	}
	if want != 111 {
		t.Fatalf("range stopped at %d", want)
	}
	it.Close()

	if err := idx.Delete(123); err != nil {
		t.Fatal(err)
	}
	if _, err := idx.Get(123); !errors.Is(err, index.ErrNotFound) {
		t.Fatal("deleted key still present")
	}
}
