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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tiercache/tiercache/cmd/utils"
	"github.com/tiercache/tiercache/ethdb"
	"github.com/tiercache/tiercache/ethdb/memorydb"
	"github.com/tiercache/tiercache/tiered"
)

func TestRunBench(t *testing.T) {
	for _, policy := range []string{tiered.PolicyBasic, tiered.PolicySlab} {
		t.Run(policy, func(t *testing.T) {
			cacheCfg := tiered.Config{L1Capacity: 16, L2Capacity: 64, Policy: policy}
			res, err := runBench(cacheCfg, utils.DatabaseConfig{}, 3, 1000, 200, 1.5)
			require.NoError(t, err)

			m := res.Metrics
			assert.Equal(t, int64(1000), m.L1Hits+m.L2Hits+m.FetchHits+m.FetchMisses)
			assert.Zero(t, m.FetchMisses, "every key is seeded")
			assert.Greater(t, m.L1Hits, m.FetchHits, "skewed load should mostly hit L1")
		})
	}
}

func TestRunBenchValidation(t *testing.T) {
	_, err := runBench(tiered.DefaultConfig, utils.DatabaseConfig{}, 0, 10, 10, 1.5)
	assert.Error(t, err)
	_, err = runBench(tiered.DefaultConfig, utils.DatabaseConfig{}, 1, 10, 10, 1.0)
	assert.ErrorContains(t, err, "zipf")
	_, err = runBench(tiered.Config{L1Capacity: 0, L2Capacity: 1}, utils.DatabaseConfig{}, 1, 10, 10, 1.5)
	assert.Error(t, err)
}

func TestBenchCommand(t *testing.T) {
	out, err := runApp(t, "bench", "--bench.ops", "200", "--bench.keys", "50", "--cache.l1", "8", "--cache.l2", "16", "--db.ratelimit", "1000000")
	require.NoError(t, err)
	assert.Contains(t, out, "ops=200")
	assert.Contains(t, out, "l1 hits:")
}

func TestSeedBench(t *testing.T) {
	db := memorydb.New()
	require.NoError(t, seedBench(db, 3))
	v, err := db.Get([]byte(benchKey(2)))
	require.NoError(t, err)
	assert.Equal(t, []byte("value-2"), v)

	db.Close()
	err = seedBench(db, 3)
	assert.ErrorIs(t, err, ethdb.ErrClosed)
	assert.ErrorContains(t, err, "seeding key 0")
}
