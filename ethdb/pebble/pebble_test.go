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

package pebble

import (
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tiercache/tiercache/ethdb"
	"github.com/tiercache/tiercache/ethdb/dbtest"
	"github.com/tiercache/tiercache/log"
)

func newMemDatabase(t *testing.T) *Database {
	db, err := open("", &pebble.Options{FS: vfs.NewMem()}, "test/pebble/", log.Root())
	require.NoError(t, err)
	return db
}

func TestPebbleDB(t *testing.T) {
	t.Run("DatabaseSuite", func(t *testing.T) {
		dbtest.TestDatabaseSuite(t, func() ethdb.KeyValueStore {
			return newMemDatabase(t)
		})
	})
}

func TestPebbleClosed(t *testing.T) {
	db := newMemDatabase(t)
	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	require.NoError(t, db.Close())
	require.NoError(t, db.Close(), "double close is allowed")

	_, err := db.Get([]byte("k"))
	assert.ErrorIs(t, err, ethdb.ErrClosed)
	_, err = db.Has([]byte("k"))
	assert.ErrorIs(t, err, ethdb.ErrClosed)
	assert.ErrorIs(t, db.Put([]byte("k"), nil), ethdb.ErrClosed)
}

func TestPebbleEmptyValue(t *testing.T) {
	db := newMemDatabase(t)
	defer db.Close()

	require.NoError(t, db.Put([]byte("empty"), nil))
	got, err := db.Get([]byte("empty"))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Len(t, got, 0)
}
