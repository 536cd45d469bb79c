package doubletree

import (
	"math/rand"
	"testing"
)

func TestSetBasics(t *testing.T) {
	s := NewSet()
	if !s.Empty() {
		t.Fatal("fresh set not empty")
	}

	if !s.Insert(5) {
		t.Fatal("insert rejected")
	}
	if s.Insert(5) {
		t.Fatal("duplicate insert accepted")
	}
	if !s.Contains(5) {
		t.Fatal("inserted key missing")
	}
	if s.Contains(6) {
		t.Fatal("absent key found")
	}

	if n := s.Erase(5); n != 1 {
		t.Fatalf("erase removed %d", n)
	}
	if n := s.Erase(5); n != 0 {
		t.Fatalf("second erase removed %d", n)
	}
	if !s.Empty() {
		t.Fatal("set not empty after erase")
	}
}

func TestSetRandomOrdered(t *testing.T) {
	const count = 100000

	rng := rand.New(rand.NewSource(19))
	s := NewSet()
	keys := map[uint64]bool{}
	for i := 0; i < count; i++ {
		k := rng.Uint64()
		s.Insert(k)
		keys[k] = true
	}
	if err := s.CheckConsistency(); err != nil {
		t.Fatal(err)
	}

	seen := 0
	var prev uint64
	for it := s.Iter(); it.Next(); {
		if seen > 0 && it.Key() <= prev {
			t.Fatalf("iteration not ascending: %d after %d", it.Key(), prev)
		}
		if !keys[it.Key()] {
			t.Fatalf("iterated key %d was never inserted", it.Key())
		}
		prev = it.Key()
		seen++
	}
	if seen != len(keys) {
		t.Fatalf("iterated %d keys, want %d", seen, len(keys))
	}
}

func TestSetSeekFind(t *testing.T) {
	s := NewSet()
	for k := uint64(0); k < 100; k += 5 {
		s.Insert(k)
	}

	it := s.Seek(7)
	if !it.Next() || it.Key() != 10 {
		t.Fatalf("Seek(7) yielded %d", it.Key())
	}

	it = s.Find(50)
	if !it.Next() || it.Key() != 50 {
		t.Fatal("Find(50) did not yield 50")
	}
	if it = s.Find(51); it.Next() {
		t.Fatal("Find of absent key yields entries")
	}
}
