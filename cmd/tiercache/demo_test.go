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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tiercache/tiercache/tiered"
)

func TestDemosPass(t *testing.T) {
	for _, policy := range []string{tiered.PolicyBasic, tiered.PolicySlab} {
		t.Run(policy, func(t *testing.T) {
			var out bytes.Buffer
			c := &checker{w: &out}
			require.NoError(t, runDemo(c, "all", policy))
			assert.Zero(t, c.mismatches, out.String())
			assert.NotContains(t, out.String(), "MISMATCH")
			assert.Equal(t, 4, strings.Count(out.String(), "== multilevel cache"))
		})
	}
}

func TestDemoSelection(t *testing.T) {
	var out bytes.Buffer
	c := &checker{w: &out}
	require.NoError(t, runDemo(c, "slab", tiered.PolicyBasic))
	assert.Contains(t, out.String(), "== slab lru cache")
	assert.NotContains(t, out.String(), "== lru cache")

	assert.Error(t, runDemo(c, "arc", tiered.PolicyBasic))
}

func TestCheckerCountsMismatches(t *testing.T) {
	var out bytes.Buffer
	c := &checker{w: &out}
	c.check("same", "1 2", "1 2")
	c.check("different", "1 2", "2 1")
	assert.Equal(t, 1, c.mismatches)
	assert.Contains(t, out.String(), "MISMATCH different")
}

func TestDemoCommand(t *testing.T) {
	out, err := runApp(t, "demo", "--cache.policy", "slab", "multilevel")
	require.NoError(t, err)
	assert.Contains(t, out, "== multilevel cache: promotion")
	assert.NotContains(t, out, "MISMATCH")
}
