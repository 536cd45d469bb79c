package main

import (
	"math/rand"

	"github.com/doubletree-bench/dtbench/index"
)

type WorkloadType string

const (
	OLTP      WorkloadType = "OLTP (90/10)"
	OLAP      WorkloadType = "OLAP (10/90)"
	Reporting WorkloadType = "Reporting (Range)"
)

// ExecuteWorkload runs a mixed distribution of ops.
func ExecuteWorkload(idx index.Index, wType WorkloadType, ops int, rng *rand.Rand) {
	for i := 0; i < ops; i++ {
		choice := rng.Intn(100)
		key := uint64(rng.Intn(ops))

		switch wType {
		case OLTP:
			if choice < 90 {
				_, _ = idx.Get(key)
			} else {
				idx.Insert(key, uint64(i))
			}
		case OLAP:
			if choice < 10 {
				_, _ = idx.Get(key)
			} else {
				idx.Insert(key, uint64(i))
			}
		case Reporting:
			it, err := idx.Range(key, key+100)
			if err != nil || it == nil {
				continue
			}
			for it.Next() {
			}
			it.Close()
		}
	}
}
