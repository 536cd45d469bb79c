package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"

	"github.com/doubletree-bench/dtbench/index"
	"github.com/doubletree-bench/dtbench/index/bplustree"
	"github.com/doubletree-bench/dtbench/index/cachemap"
	"github.com/doubletree-bench/dtbench/index/doubletree"
	"github.com/doubletree-bench/dtbench/index/hopscotch"
	"github.com/doubletree-bench/dtbench/index/lsm"
	"github.com/doubletree-bench/dtbench/index/sortedlist"
	"github.com/doubletree-bench/dtbench/index/stdbtree"
	"github.com/doubletree-bench/dtbench/perfclock"
)

func main() {
	var (
		structures = flag.String("structures", "doubletree,hopscotch,bplustree,stdbtree",
			"comma-separated structures to run (doubletree, hopscotch, bplustree, stdbtree, sortedlist, lsm, cachemap)")
		scale     = flag.Int("n", 1<<20, "total number of keys")
		roundSize = flag.Int("round", 1<<15, "keys per measurement round")
		dense     = flag.Bool("dense", false, "shuffled dense keys 0..n instead of sparse random keys")
		seed      = flag.Int64("seed", 35, "key stream seed")
		degree    = flag.Int("degree", 32, "degree for the google/btree baseline")
		nodeSize  = flag.Int("nodesize", 256, "byte budget per node for the bplustree baseline")
		csvPath   = flag.String("csv", "results.csv", "summary CSV path")
		plotPath  = flag.String("plot", "", "PNG path for per-round insert latency curves (empty: skip)")
		lsmDir    = flag.String("lsmdir", "pebble-bench", "pebble directory for the lsm structure")
	)
	flag.Parse()

	if *scale%*roundSize != 0 {
		log.Fatalf("n (%d) must be a multiple of round (%d)", *scale, *roundSize)
	}

	keys := makeKeys(*scale, *dense, *seed)

	f, err := os.Create(*csvPath)
	if err != nil {
		log.Fatalf("create %s: %v", *csvPath, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	w.Write([]string{"Structure", "Config", "TestType", "LatencyNs", "MemMB", "HeapObjects"})

	insertSeries := make(map[string][]float64)

	for _, name := range strings.Split(*structures, ",") {
		name = strings.TrimSpace(name)
		idx, cleanup, err := openIndex(name, int64(*scale), *degree, *nodeSize, *lsmDir)
		if err != nil {
			log.Fatalf("open %s: %v", name, err)
		}

		fmt.Fprintf(os.Stderr, "--- %s (n=%d) ---\n", name, *scale)
		insertSeries[name] = runSuite(w, name, idx, keys, *roundSize, *seed)

		idx.Close()
		cleanup()
	}

	w.Flush()

	if *plotPath != "" {
		if err := writePlot(insertSeries, "insert", *plotPath); err != nil {
			log.Fatalf("plot: %v", err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", *plotPath)
	}
	fmt.Fprintln(os.Stderr, "benchmark complete")
}

// makeKeys builds the key stream: either sparse random uint64s or a shuffled
// dense interval 0..n, which stresses the structures very differently.
func makeKeys(n int, dense bool, seed int64) []uint64 {
	rng := rand.New(rand.NewSource(seed))
	keys := make([]uint64, n)
	if dense {
		for i := range keys {
			keys[i] = uint64(i)
		}
		rng.Shuffle(n, func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	} else {
		for i := range keys {
			keys[i] = rng.Uint64()
		}
	}
	return keys
}

func openIndex(name string, scale int64, degree, nodeSize int, lsmDir string) (index.Index, func(), error) {
	none := func() {}
	switch name {
	case "doubletree":
		return doubletree.NewIndex(), none, nil
	case "hopscotch":
		return hopscotch.NewIndex(), none, nil
	case "bplustree":
		return bplus.New(nodeSize), none, nil
	case "stdbtree":
		return stdbtree.New(degree), none, nil
	case "sortedlist":
		return sortedlist.New(), none, nil
	case "lsm":
		l, err := lsm.Open(lsmDir)
		if err != nil {
			return nil, nil, err
		}
		return l, func() { os.RemoveAll(lsmDir) }, nil
	case "cachemap":
		c, err := cachemap.New(scale)
		if err != nil {
			return nil, nil, err
		}
		return c, none, nil
	}
	return nil, nil, fmt.Errorf("unknown structure %q", name)
}

// runSuite loads the structure round by round, measuring insert, point
// search and (for ordered structures) iteration per round, then erases
// everything in shuffled order. Per-op wall/user/system times go to stdout
// as tab-separated lines; summary rows go to the CSV. Returns per-round
// insert latencies for plotting.
func runSuite(w *csv.Writer, name string, idx index.Index, keys []uint64, roundSize int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed + 1))
	rounds := len(keys) / roundSize
	conf := fmt.Sprintf("n=%d", len(keys))

	// Probe for ordered iteration support once.
	ordered := true
	if it, err := idx.Range(0, 0); err != nil {
		ordered = false
	} else {
		it.Close()
	}

	insertNs := make([]float64, 0, rounds)
	var insertTotal, searchTotal, iterateTotal int64

	for i := 0; i < rounds; i++ {
		fmt.Fprintf(os.Stderr, "\rround %d/%d", i+1, rounds)

		var insertIv perfclock.Interval
		insertIv.Before()
		for j := 0; j < roundSize; j++ {
			idx.Insert(keys[i*roundSize+j], uint64(i*roundSize+j))
		}
		// Buffered writers must drain before the reads below are meaningful.
		if waiter, ok := idx.(interface{ Wait() }); ok {
			waiter.Wait()
		}
		insertIv.After()
		emitRound("insert", i, &insertIv, roundSize)
		insertNs = append(insertNs, float64(insertIv.WallTime())/float64(roundSize))
		insertTotal += insertIv.WallTime()

		var searchIv perfclock.Interval
		searchIv.Before()
		si := rng.Intn(i + 1)
		for j := 0; j < roundSize; j++ {
			_, _ = idx.Get(keys[si*roundSize+j])
		}
		searchIv.After()
		emitRound("search", i, &searchIv, roundSize)
		searchTotal += searchIv.WallTime()

		if ordered {
			var iterateIv perfclock.Interval
			iterateIv.Before()
			start := keys[rng.Intn(i+1)*roundSize+rng.Intn(roundSize)]
			iterate(idx, start, roundSize)
			iterateIv.After()
			emitRound("iterate", i, &iterateIv, roundSize)
			iterateTotal += iterateIv.WallTime()
		}
	}
	fmt.Fprintln(os.Stderr)

	// Memory footprint right after the load, before the mixed workloads.
	stats := GetDetailedMem()
	Record(w, BenchResult{name, conf, "Footprint_SteadyState", insertTotal / int64(len(keys)), stats.AllocMB, stats.HeapObjects})
	Record(w, BenchResult{name, conf, "Round_Insert", insertTotal / int64(len(keys)), 0, 0})
	Record(w, BenchResult{name, conf, "Round_Search", searchTotal / int64(len(keys)), 0, 0})
	if ordered {
		Record(w, BenchResult{name, conf, "Round_Iterate", iterateTotal / int64(len(keys)), 0, 0})
	}

	// Mixed read/write workloads on top of the loaded structure.
	n := len(keys) / 2
	var iv perfclock.Interval
	iv.Before()
	ExecuteWorkload(idx, OLTP, n, rng)
	iv.After()
	Record(w, BenchResult{name, conf, "Workload_OLTP", iv.WallTime() / int64(n), GetDetailedMem().AllocMB, 0})

	iv.Before()
	ExecuteWorkload(idx, OLAP, n, rng)
	iv.After()
	Record(w, BenchResult{name, conf, "Workload_OLAP", iv.WallTime() / int64(n), GetDetailedMem().AllocMB, 0})

	if ordered {
		iv.Before()
		ExecuteWorkload(idx, Reporting, 100, rng)
		iv.After()
		Record(w, BenchResult{name, conf, "Workload_Range", iv.WallTime() / 100, GetDetailedMem().AllocMB, 0})
	}

	// Erase everything in a fresh shuffled order.
	shuffled := make([]uint64, len(keys))
	copy(shuffled, keys)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	var eraseTotal int64
	for i := 0; i < rounds; i++ {
		var eraseIv perfclock.Interval
		eraseIv.Before()
		for j := 0; j < roundSize; j++ {
			idx.Delete(shuffled[i*roundSize+j])
		}
		eraseIv.After()
		emitRound("erase", i, &eraseIv, roundSize)
		eraseTotal += eraseIv.WallTime()
	}
	Record(w, BenchResult{name, conf, "Round_Erase", eraseTotal / int64(len(keys)), 0, 0})

	return insertNs
}

// iterate walks steps entries in key order starting at the first key >=
// start, wrapping to the beginning when the end is reached.
func iterate(idx index.Index, start uint64, steps int) {
	it, err := idx.Range(start, ^uint64(0))
	if err != nil {
		return
	}
	wrapped := false
	for n := 0; n < steps; {
		if !it.Next() {
			it.Close()
			if wrapped {
				return
			}
			wrapped = true
			it, err = idx.Range(0, ^uint64(0))
			if err != nil {
				return
			}
			continue
		}
		wrapped = false
		_ = it.Key()
		n++
	}
	it.Close()
}
