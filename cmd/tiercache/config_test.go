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
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tiercache/tiercache/cmd/utils"
	"github.com/tiercache/tiercache/internal/flags"
	"github.com/tiercache/tiercache/tiered"
)

// runApp runs the command line app with the given arguments and returns its
// standard output.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app.Writer = &out
	defer func() { app.Writer = os.Stdout }()

	err := app.Run(append([]string{clientIdentifier, "--verbosity", "0"}, args...))
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))
	return file
}

func TestLoadConfig(t *testing.T) {
	file := writeConfig(t, `
[Cache]
L1Capacity = 4
L2Capacity = 16
Policy = "slab"

[Database]
Engine = "leveldb"
DataDir = "/var/lib/tiercache"
Latency = 5000000
`)
	cfg := tiercacheConfig{Cache: tiered.DefaultConfig, Database: utils.DefaultDatabaseConfig}
	require.NoError(t, loadConfig(file, &cfg))

	assert.Equal(t, tiered.Config{L1Capacity: 4, L2Capacity: 16, Policy: "slab"}, cfg.Cache)
	assert.Equal(t, "leveldb", cfg.Database.Engine)
	assert.Equal(t, "/var/lib/tiercache", cfg.Database.DataDir)
	assert.Equal(t, 5*time.Millisecond, cfg.Database.Latency)
	assert.Equal(t, utils.DefaultDatabaseConfig.Cache, cfg.Database.Cache, "unset keys keep their default")
}

func TestLoadConfigUnknownField(t *testing.T) {
	file := writeConfig(t, `
[Cache]
L3Capacity = 4
`)
	var cfg tiercacheConfig
	err := loadConfig(file, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'L3Capacity' is not defined in tiered.Config")
}

func TestDumpConfigRoundTrip(t *testing.T) {
	out, err := runApp(t, "dumpconfig", "--cache.l1", "7", "--cache.policy", "slab", "--db.engine", "memory")
	require.NoError(t, err)
	assert.Contains(t, out, "[Cache]")
	assert.Contains(t, out, "L1Capacity = 7")

	file := writeConfig(t, out)
	var cfg tiercacheConfig
	require.NoError(t, loadConfig(file, &cfg))
	assert.Equal(t, tiered.Config{L1Capacity: 7, L2Capacity: tiered.DefaultConfig.L2Capacity, Policy: "slab"}, cfg.Cache)
	assert.Equal(t, "memory", cfg.Database.Engine)
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	file := writeConfig(t, `
[Cache]
L1Capacity = 4
L2Capacity = 16
`)
	out, err := runApp(t, "dumpconfig", "--config", file, "--cache.l2", "32")
	require.NoError(t, err)
	assert.Contains(t, out, "L1Capacity = 4")
	assert.Contains(t, out, "L2Capacity = 32")
}

func TestDatabaseAndLookupCommands(t *testing.T) {
	for _, engine := range []string{"leveldb", "pebble"} {
		t.Run(engine, func(t *testing.T) {
			dbFlags := []string{"--db.engine", engine, "--datadir", t.TempDir()}

			_, err := runApp(t, append([]string{"db", "put"}, append(dbFlags, "user:1", "Alice", "user:2", "Bob")...)...)
			require.NoError(t, err)

			out, err := runApp(t, append([]string{"db", "get"}, append(dbFlags, "user:2")...)...)
			require.NoError(t, err)
			assert.Equal(t, "user:2 = \"Bob\"\n", out)

			out, err = runApp(t, append([]string{"lookup"}, append(dbFlags, "user:1", "user:1", "user:9")...)...)
			require.NoError(t, err)
			assert.Contains(t, out, `user:1 = "Alice" (database,`)
			assert.Contains(t, out, `user:1 = "Alice" (l1,`)
			assert.Contains(t, out, "user:9 not found")
			assert.Contains(t, out, "l1=[user:1] l2=[user:1]")
		})
	}
}

func TestDBPutOddArguments(t *testing.T) {
	_, err := runApp(t, "db", "put", "--db.engine", "memory", "lonely")
	assert.Error(t, err)
}

func TestConfigEnvVars(t *testing.T) {
	t.Setenv("TIERCACHE_CACHE_L1", "5")
	t.Setenv("TIERCACHE_CACHE_POLICY", "slab")
	t.Setenv("TIERCACHE_DB_ENGINE", "memory")
	t.Setenv("TIERCACHE_DB_CACHE", "64")
	t.Setenv("TIERCACHE_DB_HANDLES", "32")
	t.Setenv("TIERCACHE_DB_LATENCY", "2ms")
	t.Setenv("TIERCACHE_DB_RATELIMIT", "25")

	// Every variable is bound to a command flag, none is reported as unknown.
	known := flags.CommandFlags(app.Flags, app.Commands)
	assert.Empty(t, flags.CheckEnvVars(nil, known, "TIERCACHE"))

	t.Setenv("TIERCACHE_CACHE_L3", "1")
	assert.Equal(t, []string{"TIERCACHE_CACHE_L3"}, flags.CheckEnvVars(nil, known, "TIERCACHE"))

	out, err := runApp(t, "dumpconfig")
	require.NoError(t, err)
	var cfg tiercacheConfig
	require.NoError(t, loadConfig(writeConfig(t, out), &cfg))
	assert.Equal(t, tiered.Config{L1Capacity: 5, L2Capacity: tiered.DefaultConfig.L2Capacity, Policy: "slab"}, cfg.Cache)
	assert.Equal(t, "memory", cfg.Database.Engine)
	assert.Equal(t, 64, cfg.Database.Cache)
	assert.Equal(t, 32, cfg.Database.Handles)
	assert.Equal(t, 2*time.Millisecond, cfg.Database.Latency)
	assert.Equal(t, 25.0, cfg.Database.RateLimit)
}
