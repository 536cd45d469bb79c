package main

import (
	"encoding/csv"
	"fmt"
	"runtime"
	"strconv"

	"github.com/doubletree-bench/dtbench/perfclock"
)

// BenchResult is one summary row of the CSV output.
type BenchResult struct {
	Name      string
	Config    string
	Operation string
	LatencyNs int64
	MemMB     uint64
	Objects   uint64
}

type MemoryStats struct {
	AllocMB      uint64
	TotalAllocMB uint64
	HeapObjects  uint64
}

// GetDetailedMem samples live heap use. GC runs first so the numbers reflect
// actual live data, not garbage.
func GetDetailedMem() MemoryStats {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	return MemoryStats{
		AllocMB:      m.Alloc / 1024 / 1024,
		TotalAllocMB: m.TotalAlloc / 1024 / 1024,
		HeapObjects:  m.HeapObjects,
	}
}

// Record writes one summary row.
func Record(w *csv.Writer, res BenchResult) {
	w.Write([]string{
		res.Name,
		res.Config,
		res.Operation,
		strconv.FormatInt(res.LatencyNs, 10),
		strconv.FormatUint(res.MemMB, 10),
		strconv.FormatUint(res.Objects, 10),
	})
}

// emitRound prints one tab-separated measurement line to stdout:
// op, round number, then per-op wall, user and system nanoseconds.
func emitRound(op string, round int, iv *perfclock.Interval, ops int) {
	fmt.Printf("%s\t%d\t%.0f\t%.0f\t%.0f\n",
		op, round,
		float64(iv.WallTime())/float64(ops),
		float64(iv.UsrTime())/float64(ops),
		float64(iv.SysTime())/float64(ops))
}
