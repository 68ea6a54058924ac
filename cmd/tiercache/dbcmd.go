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
	"io"

	"github.com/tiercache/tiercache/cmd/utils"
	"github.com/tiercache/tiercache/common/mclock"
	"github.com/tiercache/tiercache/ethdb"
	"github.com/tiercache/tiercache/log"
	"github.com/tiercache/tiercache/metrics"
	"github.com/tiercache/tiercache/tiered"
	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"
)

var (
	dbCommand = &cli.Command{
		Name:      "db",
		Usage:     "Low level backing database operations",
		ArgsUsage: "",
		Subcommands: []*cli.Command{
			dbPutCmd,
			dbGetCmd,
			dbStatCmd,
		},
	}
	dbPutCmd = &cli.Command{
		Action:      dbPut,
		Name:        "put",
		Usage:       "Store key/value pairs in the backing database",
		ArgsUsage:   "<key> <value> [<key> <value>...]",
		Flags:       configFlags,
		Description: "This command writes the given pairs in a single batch.",
	}
	dbGetCmd = &cli.Command{
		Action:    dbGet,
		Name:      "get",
		Usage:     "Show the value of a key in the backing database, bypassing the cache",
		ArgsUsage: "<key>",
		Flags:     configFlags,
	}
	dbStatCmd = &cli.Command{
		Action: dbStats,
		Name:   "stat",
		Usage:  "Print leveldb/pebble statistics",
		Flags:  configFlags,
	}
	lookupCommand = &cli.Command{
		Action:    lookup,
		Name:      "lookup",
		Usage:     "Resolve keys through the tiered cache and the backing database",
		ArgsUsage: "<key> [<key>...]",
		Flags:     configFlags,
		Description: `
The lookup command builds a fresh tiered cache in front of the backing database
and resolves every key in order, printing where each value was served from and
the keys held by both tiers afterwards. Repeating a key shows it being served by
the cache instead of the database.`,
	}
)

func openDatabase(ctx *cli.Context, readonly bool) (ethdb.KeyValueStore, tiercacheConfig, error) {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return nil, cfg, err
	}
	db, err := utils.MakeDatabase(cfg.Database, readonly)
	return db, cfg, err
}

func dbPut(ctx *cli.Context) error {
	if ctx.NArg() == 0 || ctx.NArg()%2 != 0 {
		return errors.New("expected <key> <value> pairs")
	}
	db, _, err := openDatabase(ctx, false)
	if err != nil {
		return err
	}
	defer db.Close()

	args := ctx.Args().Slice()
	batch := db.NewBatch()
	for i := 0; i < len(args); i += 2 {
		if err := batch.Put([]byte(args[i]), []byte(args[i+1])); err != nil {
			return err
		}
		if batch.ValueSize() >= ethdb.IdealBatchSize {
			if err := batch.Write(); err != nil {
				return err
			}
			batch.Reset()
		}
	}
	if err := batch.Write(); err != nil {
		return err
	}
	log.Info("Stored entries", "count", len(args)/2)
	return nil
}

func dbGet(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("required arguments: %v", ctx.Command.ArgsUsage)
	}
	db, _, err := openDatabase(ctx, true)
	if err != nil {
		return err
	}
	defer db.Close()

	key := ctx.Args().Get(0)
	data, err := db.Get([]byte(key))
	if ethdb.IsNotFound(err) {
		fmt.Fprintf(ctx.App.Writer, "%s not found\n", key)
		return nil
	} else if err != nil {
		log.Info("Get operation failed", "key", key, "error", err)
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "%s = %q\n", key, data)
	return nil
}

func dbStats(ctx *cli.Context) error {
	db, _, err := openDatabase(ctx, true)
	if err != nil {
		return err
	}
	defer db.Close()

	showDBStats(ctx.App.Writer, db)
	return nil
}

func showDBStats(w io.Writer, db ethdb.KeyValueStater) {
	stats, err := db.Stat()
	if err != nil {
		log.Warn("Failed to read database stats", "error", err)
		return
	}
	fmt.Fprintln(w, stats)
}

func lookup(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return fmt.Errorf("required arguments: %v", ctx.Command.ArgsUsage)
	}
	db, cfg, err := openDatabase(ctx, true)
	if err != nil {
		return err
	}
	defer db.Close()

	cache, err := tiered.NewWithConfig[string, []byte](cfg.Cache)
	if err != nil {
		return err
	}
	registry := metrics.NewRegistry()
	if err := cache.RegisterMetrics(clientIdentifier, registry); err != nil {
		return err
	}
	fetch := backingFetcher(db, cfg.Database)

	w := ctx.App.Writer
	for _, key := range ctx.Args().Slice() {
		var (
			start  = mclock.Now()
			before = cache.Metrics()
		)
		value, ok := cache.GetOrFetch(key, fetch)
		elapsed := mclock.Since(start)

		if ok {
			fmt.Fprintf(w, "%s = %q (%s, %v)\n", key, value, servedBy(before, cache.Metrics()), elapsed)
		} else {
			fmt.Fprintf(w, "%s not found (%v)\n", key, elapsed)
		}
		stats := cache.Stats()
		fmt.Fprintf(w, "  l1=%v l2=%v\n", stats.L1Keys, stats.L2Keys)
	}
	reportMetrics(registry)
	return nil
}

// backingFetcher reads from db, shaped by the configured latency and rate limit.
func backingFetcher(db ethdb.KeyValueReader, cfg utils.DatabaseConfig) tiered.Fetcher[string, []byte] {
	fetch := tiered.SlowFetcher(tiered.DatabaseFetcher(db), cfg.Latency, nil)
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		fetch = tiered.ThrottledFetcher(fetch, rate.NewLimiter(rate.Limit(cfg.RateLimit), burst))
	}
	return fetch
}

// servedBy names the tier whose counter moved between two snapshots.
func servedBy(before, after tiered.Metrics) string {
	switch {
	case after.L1Hits > before.L1Hits:
		return "l1"
	case after.L2Hits > before.L2Hits:
		return "l2"
	default:
		return "database"
	}
}
