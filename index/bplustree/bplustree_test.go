package bplus

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/doubletree-bench/dtbench/index"
)

func TestSlotSizing(t *testing.T) {
	cases := []struct {
		nodeSize   int
		leafSlots  int
		innerSlots int
	}{
		{256, 16, 16},
		{4096, 256, 256},
		{16, 2, 3}, // clamped minimums
	}
	for _, c := range cases {
		bt := New(c.nodeSize)
		if bt.leafSlots != c.leafSlots || bt.innerSlots != c.innerSlots {
			t.Errorf("New(%d): slots %d/%d, want %d/%d",
				c.nodeSize, bt.leafSlots, bt.innerSlots, c.leafSlots, c.innerSlots)
		}
	}
}

func TestBPlusTreeGrowth(t *testing.T) {
	for _, nodeSize := range []int{256, 4096} {
		bt := New(nodeSize)

		const count = 10000
		rng := rand.New(rand.NewSource(19))
		want := map[uint64]uint64{}
		for i := 0; i < count; i++ {
			k := rng.Uint64()
			v := rng.Uint64()
			bt.Insert(k, v)
			want[k] = v
		}
		if bt.root.leaf {
			t.Fatalf("nodeSize %d: tree never grew past one leaf", nodeSize)
		}

		for k, v := range want {
			got, err := bt.Get(k)
			if err != nil || got != v {
				t.Fatalf("nodeSize %d: Get(%d) = %d, %v; want %d", nodeSize, k, got, err, v)
			}
		}

		// The leaf chain yields every key in ascending order.
		it, _ := bt.Range(0, ^uint64(0))
		seen := 0
		var prev uint64
		for it.Next() {
			if seen > 0 && it.Key() <= prev {
				t.Fatalf("nodeSize %d: chain not ascending: %d after %d", nodeSize, it.Key(), prev)
			}
			if want[it.Key()] != it.Value() {
				t.Fatalf("nodeSize %d: key %d carries %d, want %d",
					nodeSize, it.Key(), it.Value(), want[it.Key()])
			}
			prev = it.Key()
			seen++
		}
		if seen != len(want) {
			t.Fatalf("nodeSize %d: chain yielded %d keys, want %d", nodeSize, seen, len(want))
		}
	}
}

func TestBPlusTreeUpdateInPlace(t *testing.T) {
	bt := New(256)
	bt.Insert(7, 1)
	bt.Insert(7, 2)

	if v, err := bt.Get(7); err != nil || v != 2 {
		t.Fatalf("Get(7) = %d, %v; want updated value 2", v, err)
	}
	it, _ := bt.Range(0, ^uint64(0))
	n := 0
	for it.Next() {
		n++
	}
	if n != 1 {
		t.Fatalf("update created %d entries", n)
	}
}

func TestBPlusTreeRangeAcrossLeaves(t *testing.T) {
	bt := New(16) // minimum slots force a deep tree and many leaves
	for k := uint64(0); k < 500; k++ {
		bt.Insert(k, k*2)
	}

	it, _ := bt.Range(100, 200)
	want := uint64(100)
	for it.Next() {
		if it.Key() != want || it.Value() != want*2 {
			t.Fatalf("range yielded %d/%d, want %d/%d", it.Key(), it.Value(), want, want*2)
		}
		want++
	}
	if want != 201 {
		t.Fatalf("range stopped at %d", want)
	}

	// A start below the minimum begins at the first key.
	it, _ = bt.Range(0, 3)
	var got []uint64
	for it.Next() {
		got = append(got, it.Key())
	}
	if len(got) != 4 || got[0] != 0 || got[3] != 3 {
		t.Fatalf("range from 0 yielded %v", got)
	}
}

func TestBPlusTreeDelete(t *testing.T) {
	bt := New(256)
	for k := uint64(0); k < 100; k++ {
		bt.Insert(k, k)
	}

	if err := bt.Delete(50); err != nil {
		t.Fatal(err)
	}
	if _, err := bt.Get(50); !errors.Is(err, index.ErrNotFound) {
		t.Fatal("deleted key still present")
	}
	if err := bt.Delete(50); !errors.Is(err, index.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}

	// Neighbors survive and the chain skips the hole.
	it, _ := bt.Range(49, 51)
	var got []uint64
	for it.Next() {
		got = append(got, it.Key())
	}
	if len(got) != 2 || got[0] != 49 || got[1] != 51 {
		t.Fatalf("range around hole yielded %v", got)
	}
}
