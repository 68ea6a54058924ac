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

package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/tiercache/tiercache/ethdb"
	"github.com/tiercache/tiercache/ethdb/leveldb"
	"github.com/tiercache/tiercache/ethdb/memorydb"
	"github.com/tiercache/tiercache/ethdb/pebble"
	"github.com/tiercache/tiercache/internal/flags"
	"github.com/tiercache/tiercache/log"
)

// Supported backing database engines.
const (
	EngineMemory  = "memory"
	EngineLevelDB = "leveldb"
	EnginePebble  = "pebble"
)

var (
	// ErrDatadirUsed is returned when another process holds the datadir lock.
	ErrDatadirUsed = errors.New("datadir already used by another process")

	// ErrUnknownEngine is returned for an unsupported database engine name.
	ErrUnknownEngine = errors.New("unknown database engine")
)

// DatabaseConfig contains the settings of the backing database.
type DatabaseConfig struct {
	Engine  string        // "memory", "leveldb" or "pebble"
	DataDir string        // Root directory of the on-disk engines
	Cache   int           // Megabytes of engine cache
	Handles int           // Open file handles
	Latency time.Duration // Artificial delay per read, to model a slow source

	// RateLimit caps backing reads per second, 0 means unlimited.
	RateLimit float64 `toml:",omitempty"`
}

// DefaultDatabaseConfig contains the default backing database settings.
var DefaultDatabaseConfig = DatabaseConfig{
	Engine:  EnginePebble,
	DataDir: filepath.Join(flags.HomeDir(), ".tiercache"),
	Cache:   16,
	Handles: 16,
}

// lockedDatabase releases the datadir lock once the database is closed.
type lockedDatabase struct {
	ethdb.KeyValueStore
	lock *flock.Flock
}

func (db *lockedDatabase) Close() error {
	err := db.KeyValueStore.Close()
	if uerr := db.lock.Unlock(); err == nil {
		err = uerr
	}
	return err
}

// MakeDatabase opens the backing database described by cfg. On-disk engines
// live in a per-engine subdirectory of cfg.DataDir, which is locked against
// concurrent use by other processes until the database is closed.
func MakeDatabase(cfg DatabaseConfig, readonly bool) (ethdb.KeyValueStore, error) {
	switch cfg.Engine {
	case EngineMemory:
		return memorydb.New(), nil
	case EngineLevelDB, EnginePebble:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, cfg.Engine)
	}
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, err
	}
	// Leveldb uses LOCK as the filelock filename. To prevent the
	// name collision, we use FLOCK as the lock name.
	lock := flock.New(filepath.Join(cfg.DataDir, "FLOCK"))
	tryLock := lock.TryLock
	if readonly {
		tryLock = lock.TryRLock
	}
	if locked, err := tryLock(); err != nil {
		return nil, err
	} else if !locked {
		return nil, ErrDatadirUsed
	}
	var (
		db  ethdb.KeyValueStore
		err error
		dir = filepath.Join(cfg.DataDir, cfg.Engine)
	)
	if cfg.Engine == EngineLevelDB {
		db, err = leveldb.New(dir, cfg.Cache, cfg.Handles, readonly)
	} else {
		db, err = pebble.New(dir, cfg.Cache, cfg.Handles, "tiercache/db/", readonly)
	}
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	log.Debug("Opened backing database", "engine", cfg.Engine, "path", dir, "readonly", readonly)
	return &lockedDatabase{KeyValueStore: db, lock: lock}, nil
}
