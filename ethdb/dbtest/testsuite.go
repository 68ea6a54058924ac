// Copyright 2025 The tiercache Authors
// This file is part of the tiercache library.
//
// The tiercache library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The tiercache library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the tiercache library. If not, see <http://www.gnu.org/licenses/>.

// Package dbtest holds a conformance suite shared by the ethdb backends.
package dbtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tiercache/tiercache/ethdb"
)

// TestDatabaseSuite runs a suite of tests against a KeyValueStore database
// implementation.
func TestDatabaseSuite(t *testing.T, New func() ethdb.KeyValueStore) {
	t.Run("KeyValueOperations", func(t *testing.T) {
		db := New()
		defer db.Close()

		key := []byte("user:1")
		has, err := db.Has(key)
		require.NoError(t, err)
		assert.False(t, has)

		_, err = db.Get(key)
		assert.True(t, ethdb.IsNotFound(err), "absent key must report not found, got %v", err)

		require.NoError(t, db.Put(key, []byte("Alice")))
		has, err = db.Has(key)
		require.NoError(t, err)
		assert.True(t, has)

		got, err := db.Get(key)
		require.NoError(t, err)
		assert.Equal(t, []byte("Alice"), got)

		require.NoError(t, db.Put(key, []byte("Bob")))
		got, err = db.Get(key)
		require.NoError(t, err)
		assert.Equal(t, []byte("Bob"), got)

		require.NoError(t, db.Delete(key))
		_, err = db.Get(key)
		assert.True(t, ethdb.IsNotFound(err))
	})

	t.Run("GetReturnsCopy", func(t *testing.T) {
		db := New()
		defer db.Close()

		require.NoError(t, db.Put([]byte("k"), []byte("value")))
		got, err := db.Get([]byte("k"))
		require.NoError(t, err)
		got[0] = 'X'

		again, err := db.Get([]byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("value"), again)
	})

	t.Run("Batch", func(t *testing.T) {
		db := New()
		defer db.Close()

		b := db.NewBatch()
		require.NoError(t, b.Put([]byte("a"), []byte("1")))
		require.NoError(t, b.Put([]byte("b"), []byte("2")))
		require.NoError(t, b.Delete([]byte("a")))
		assert.Positive(t, b.ValueSize())

		has, err := db.Has([]byte("b"))
		require.NoError(t, err)
		assert.False(t, has, "batch must not be visible before Write")

		require.NoError(t, b.Write())
		got, err := db.Get([]byte("b"))
		require.NoError(t, err)
		assert.Equal(t, []byte("2"), got)
		has, err = db.Has([]byte("a"))
		require.NoError(t, err)
		assert.False(t, has)

		b.Reset()
		assert.Zero(t, b.ValueSize())
	})

	t.Run("Stat", func(t *testing.T) {
		db := New()
		defer db.Close()

		require.NoError(t, db.Put([]byte("k"), []byte("v")))
		_, err := db.Stat()
		assert.NoError(t, err)
	})
}
