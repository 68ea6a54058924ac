// Copyright 2025 The tiercache Authors
// This file is part of tiercache.
//
// tiercache is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// tiercache is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with tiercache. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/tiercache/tiercache/cmd/utils"
	"github.com/tiercache/tiercache/common/mclock"
	"github.com/tiercache/tiercache/ethdb"
	"github.com/tiercache/tiercache/ethdb/memorydb"
	"github.com/tiercache/tiercache/internal/flags"
	"github.com/tiercache/tiercache/log"
	"github.com/tiercache/tiercache/tiered"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

var (
	benchWorkersFlag = &cli.IntFlag{
		Name:     "bench.workers",
		Usage:    "Number of concurrent lookup workers",
		Value:    4,
		Category: flags.CacheCategory,
	}
	benchOpsFlag = &cli.IntFlag{
		Name:     "bench.ops",
		Usage:    "Total number of lookups across all workers",
		Value:    100000,
		Category: flags.CacheCategory,
	}
	benchKeysFlag = &cli.IntFlag{
		Name:     "bench.keys",
		Usage:    "Number of distinct keys held by the source",
		Value:    1000,
		Category: flags.CacheCategory,
	}
	benchSkewFlag = &cli.Float64Flag{
		Name:     "bench.skew",
		Usage:    "Zipf exponent of the key popularity, must be > 1",
		Value:    1.2,
		Category: flags.CacheCategory,
	}

	benchCommand = &cli.Command{
		Action: bench,
		Name:   "bench",
		Usage:  "Measure hit rates of the tiered cache under a skewed concurrent load",
		Flags: flags.Merge(configFlags, []cli.Flag{
			benchWorkersFlag,
			benchOpsFlag,
			benchKeysFlag,
			benchSkewFlag,
		}),
		Description: `
The bench command seeds an in-memory source with --bench.keys entries and runs
--bench.ops lookups through a lock-guarded tiered cache from --bench.workers
goroutines. Keys are drawn from a Zipf distribution, so a small set of hot keys
dominates. --db.latency and --db.ratelimit shape the source.`,
	}
)

// benchResult summarizes one load run.
type benchResult struct {
	Ops     int
	Elapsed time.Duration
	Metrics tiered.Metrics
}

func (r benchResult) String() string {
	pct := func(n int64) float64 { return 100 * float64(n) / float64(r.Ops) }
	m := r.Metrics
	return fmt.Sprintf("ops=%d elapsed=%v\nl1 hits:      %6d (%5.1f%%)\nl2 hits:      %6d (%5.1f%%)\nfetch hits:   %6d (%5.1f%%)\nfetch misses: %6d (%5.1f%%)\n",
		r.Ops, r.Elapsed,
		m.L1Hits, pct(m.L1Hits),
		m.L2Hits, pct(m.L2Hits),
		m.FetchHits, pct(m.FetchHits),
		m.FetchMisses, pct(m.FetchMisses))
}

func bench(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	var (
		workers = ctx.Int(benchWorkersFlag.Name)
		ops     = ctx.Int(benchOpsFlag.Name)
		keys    = ctx.Int(benchKeysFlag.Name)
		skew    = ctx.Float64(benchSkewFlag.Name)
	)
	res, err := runBench(cfg.Cache, cfg.Database, workers, ops, keys, skew)
	if err != nil {
		return err
	}
	fmt.Fprint(ctx.App.Writer, res)
	return nil
}

func runBench(cacheCfg tiered.Config, dbCfg utils.DatabaseConfig, workers, ops, keys int, skew float64) (benchResult, error) {
	if workers < 1 || ops < 1 || keys < 2 {
		return benchResult{}, errors.New("bench needs at least 1 worker, 1 op and 2 keys")
	}
	if skew <= 1 {
		return benchResult{}, fmt.Errorf("zipf exponent must be > 1, got %v", skew)
	}
	db := memorydb.NewWithCap(keys)
	defer db.Close()
	if err := seedBench(db, keys); err != nil {
		return benchResult{}, err
	}
	inner, err := tiered.NewWithConfig[string, []byte](cacheCfg)
	if err != nil {
		return benchResult{}, err
	}
	var (
		cache = tiered.Wrap(inner)
		fetch = backingFetcher(db, dbCfg)
		start = mclock.Now()
		g     errgroup.Group
	)
	for w := 0; w < workers; w++ {
		share := ops / workers
		if w < ops%workers {
			share++
		}
		seed := int64(w) + 1
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed))
			zipf := rand.NewZipf(rng, skew, 1, uint64(keys-1))
			for i := 0; i < share; i++ {
				key := benchKey(int(zipf.Uint64()))
				if _, ok := cache.GetOrFetch(key, fetch); !ok {
					return fmt.Errorf("seeded key %s not found", key)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return benchResult{}, err
	}
	res := benchResult{Ops: ops, Elapsed: mclock.Since(start), Metrics: cache.Metrics()}
	log.Info("Benchmark finished", "ops", ops, "workers", workers, "elapsed", res.Elapsed)
	return res, nil
}

// seedBench writes the key set the benchmark draws from.
func seedBench(db ethdb.KeyValueWriter, keys int) error {
	for i := 0; i < keys; i++ {
		if err := db.Put([]byte(benchKey(i)), []byte(fmt.Sprintf("value-%d", i))); err != nil {
			return fmt.Errorf("seeding key %d: %w", i, err)
		}
	}
	return nil
}

func benchKey(i int) string {
	return fmt.Sprintf("key-%d", i)
}
