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

// Package utils contains internal helper functions for tiercache commands.
package utils

import (
	"github.com/tiercache/tiercache/internal/flags"
	"github.com/tiercache/tiercache/tiered"
	"github.com/urfave/cli/v2"
)

const envPrefix = "TIERCACHE"

// These are all the command line flags we support.
// If you add to this list, please remember to include the
// flag in the appropriate command definition.
var (
	ConfigFileFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "TOML configuration file",
		Category: flags.MiscCategory,
	}

	// Cache settings
	CacheL1Flag = &cli.IntFlag{
		Name:     "cache.l1",
		Usage:    "Number of entries held by the L1 tier",
		Value:    tiered.DefaultConfig.L1Capacity,
		EnvVars:  []string{flags.EnvName(envPrefix, "cache.l1")},
		Category: flags.CacheCategory,
	}
	CacheL2Flag = &cli.IntFlag{
		Name:     "cache.l2",
		Usage:    "Number of entries held by the L2 tier",
		Value:    tiered.DefaultConfig.L2Capacity,
		EnvVars:  []string{flags.EnvName(envPrefix, "cache.l2")},
		Category: flags.CacheCategory,
	}
	CachePolicyFlag = &cli.StringFlag{
		Name:     "cache.policy",
		Usage:    `Tier implementation ("basic" or "slab")`,
		Value:    tiered.DefaultConfig.Policy,
		EnvVars:  []string{flags.EnvName(envPrefix, "cache.policy")},
		Category: flags.CacheCategory,
	}

	// Backing database settings
	DBEngineFlag = &cli.StringFlag{
		Name:     "db.engine",
		Usage:    `Backing database engine ("memory", "leveldb" or "pebble")`,
		Value:    DefaultDatabaseConfig.Engine,
		EnvVars:  []string{flags.EnvName(envPrefix, "db.engine")},
		Category: flags.DatabaseCategory,
	}
	DataDirFlag = &flags.DirectoryFlag{
		Name:     "datadir",
		Usage:    "Data directory for the backing database",
		Value:    flags.DirectoryString(DefaultDatabaseConfig.DataDir),
		EnvVars:  []string{flags.EnvName(envPrefix, "datadir")},
		Category: flags.DatabaseCategory,
	}
	DBCacheFlag = &cli.IntFlag{
		Name:     "db.cache",
		Usage:    "Megabytes of memory allocated to the backing database",
		Value:    DefaultDatabaseConfig.Cache,
		EnvVars:  []string{flags.EnvName(envPrefix, "db.cache")},
		Category: flags.DatabaseCategory,
	}
	DBHandlesFlag = &cli.IntFlag{
		Name:     "db.handles",
		Usage:    "Number of file handles allocated to the backing database",
		Value:    DefaultDatabaseConfig.Handles,
		EnvVars:  []string{flags.EnvName(envPrefix, "db.handles")},
		Category: flags.DatabaseCategory,
	}
	DBLatencyFlag = &cli.DurationFlag{
		Name:     "db.latency",
		Usage:    "Artificial delay added to every backing database read",
		Value:    DefaultDatabaseConfig.Latency,
		EnvVars:  []string{flags.EnvName(envPrefix, "db.latency")},
		Category: flags.DatabaseCategory,
	}
	DBRateLimitFlag = &cli.Float64Flag{
		Name:     "db.ratelimit",
		Usage:    "Maximum backing database reads per second (0 = unlimited)",
		EnvVars:  []string{flags.EnvName(envPrefix, "db.ratelimit")},
		Category: flags.DatabaseCategory,
	}
)

var (
	// CacheFlags is the flag group of the tiered cache.
	CacheFlags = []cli.Flag{
		CacheL1Flag,
		CacheL2Flag,
		CachePolicyFlag,
	}
	// DatabaseFlags is the flag group of the backing database.
	DatabaseFlags = []cli.Flag{
		DBEngineFlag,
		DataDirFlag,
		DBCacheFlag,
		DBHandlesFlag,
		DBLatencyFlag,
		DBRateLimitFlag,
	}
)

// SetCacheConfig applies cache-related command line flags to the config.
func SetCacheConfig(ctx *cli.Context, cfg *tiered.Config) {
	if ctx.IsSet(CacheL1Flag.Name) {
		cfg.L1Capacity = ctx.Int(CacheL1Flag.Name)
	}
	if ctx.IsSet(CacheL2Flag.Name) {
		cfg.L2Capacity = ctx.Int(CacheL2Flag.Name)
	}
	if ctx.IsSet(CachePolicyFlag.Name) {
		cfg.Policy = ctx.String(CachePolicyFlag.Name)
	}
}

// SetDatabaseConfig applies database-related command line flags to the config.
func SetDatabaseConfig(ctx *cli.Context, cfg *DatabaseConfig) {
	if ctx.IsSet(DBEngineFlag.Name) {
		cfg.Engine = ctx.String(DBEngineFlag.Name)
	}
	if ctx.IsSet(DataDirFlag.Name) {
		cfg.DataDir = ctx.String(DataDirFlag.Name)
	}
	if ctx.IsSet(DBCacheFlag.Name) {
		cfg.Cache = ctx.Int(DBCacheFlag.Name)
	}
	if ctx.IsSet(DBHandlesFlag.Name) {
		cfg.Handles = ctx.Int(DBHandlesFlag.Name)
	}
	if ctx.IsSet(DBLatencyFlag.Name) {
		cfg.Latency = ctx.Duration(DBLatencyFlag.Name)
	}
	if ctx.IsSet(DBRateLimitFlag.Name) {
		cfg.RateLimit = ctx.Float64(DBRateLimitFlag.Name)
	}
}
