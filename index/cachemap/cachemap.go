// Package cachemap wraps the Ristretto cache behind the common Index
// interface. Ristretto admits entries through a sampling policy and may drop
// writes under pressure, so it belongs in latency comparisons only, never in
// correctness runs.
package cachemap

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/doubletree-bench/dtbench/index"
)

var _ index.Index = (*CacheMap)(nil)

type CacheMap struct {
	cache *ristretto.Cache[uint64, uint64]
}

// New creates a cache sized for roughly maxEntries uniform-cost entries.
func New(maxEntries int64) (*CacheMap, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, uint64]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("cachemap: %w", err)
	}
	return &CacheMap{cache: cache}, nil
}

func (c *CacheMap) Insert(key, value uint64) error {
	c.cache.Set(key, value, 1)
	return nil
}

func (c *CacheMap) Get(key uint64) (uint64, error) {
	v, ok := c.cache.Get(key)
	if !ok {
		return 0, index.ErrNotFound
	}
	return v, nil
}

func (c *CacheMap) Delete(key uint64) error {
	c.cache.Del(key)
	return nil
}

func (c *CacheMap) Range(start, end uint64) (index.Iterator, error) {
	return nil, index.ErrNoRange
}

// Wait blocks until buffered writes have been applied, so a load phase can
// be measured separately from the reads that follow it.
func (c *CacheMap) Wait() { c.cache.Wait() }

func (c *CacheMap) Close() error {
	c.cache.Close()
	return nil
}
