// Package lsm wraps Pebble (CockroachDB's LSM storage engine) behind the
// common Index interface so the in-memory structures can be compared against
// a disk-oriented write-optimized design.
package lsm

import (
	"encoding/binary"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/doubletree-bench/dtbench/index"
)

var _ index.Index = (*LSM)(nil)

type LSM struct {
	db *pebble.DB
}

// Open opens (or creates) a Pebble database at the given directory path.
func Open(dir string) (*LSM, error) {
	opts := &pebble.Options{
		MemTableSize:                16 << 20,
		MemTableStopWritesThreshold: 4,
		L0CompactionThreshold:       4,
		L0StopWritesThreshold:       12,
	}

	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("lsm: open: %w", err)
	}
	return &LSM{db: db}, nil
}

// Close cleanly shuts down Pebble, flushing any in-memory state.
func (l *LSM) Close() error {
	return l.db.Close()
}

func (l *LSM) Insert(key, value uint64) error {
	return l.db.Set(encode(key), encode(value), pebble.NoSync)
}

func (l *LSM) Get(key uint64) (uint64, error) {
	val, closer, err := l.db.Get(encode(key))
	if err == pebble.ErrNotFound {
		return 0, index.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lsm: get: %w", err)
	}
	// val is only valid until closer.Close().
	v, err := decode(val)
	closer.Close()
	if err != nil {
		return 0, err
	}
	return v, nil
}

func (l *LSM) Delete(key uint64) error {
	if err := l.db.Delete(encode(key), pebble.NoSync); err != nil {
		return fmt.Errorf("lsm: delete: %w", err)
	}
	return nil
}

// Range returns an iterator over all keys in [start, end] inclusive.
func (l *LSM) Range(start, end uint64) (index.Iterator, error) {
	iterOpts := &pebble.IterOptions{
		LowerBound: encode(start),
	}
	if end < ^uint64(0) {
		// Pebble's upper bound is exclusive; ours is inclusive.
		iterOpts.UpperBound = encode(end + 1)
	}
	iter, err := l.db.NewIter(iterOpts)
	if err != nil {
		return nil, fmt.Errorf("lsm: range: %w", err)
	}
	iter.First()
	return &rangeIterator{iter: iter, first: true}, nil
}

// ─── Key encoding ─────────────────────────────────────────────────────────────

// encode produces a big-endian 8-byte slice. Big-endian preserves sort
// order, which Pebble relies on.
func encode(k uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, k)
	return b
}

func decode(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("lsm: unexpected value length %d", len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

// ─── Range iterator ───────────────────────────────────────────────────────────

type rangeIterator struct {
	iter  *pebble.Iterator
	first bool
	key   uint64
	val   uint64
	err   error
}

func (it *rangeIterator) Next() bool {
	var valid bool
	if it.first {
		// iter.First() already ran in Range(); just check validity.
		it.first = false
		valid = it.iter.Valid()
	} else {
		valid = it.iter.Next()
	}
	if !valid {
		return false
	}
	k := it.iter.Key()
	if len(k) != 8 {
		it.err = fmt.Errorf("lsm: unexpected key length %d", len(k))
		return false
	}
	it.key = binary.BigEndian.Uint64(k)
	it.val, it.err = decode(it.iter.Value())
	return it.err == nil
}

func (it *rangeIterator) Key() uint64   { return it.key }
func (it *rangeIterator) Value() uint64 { return it.val }
func (it *rangeIterator) Error() error  { return it.err }
func (it *rangeIterator) Close() error  { return it.iter.Close() }
