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

// Package pebble implements the key-value database layer based on pebble.
// Package pebble 实现了基于 Pebble 的键值数据库层。
package pebble

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/bloom"
	"github.com/tiercache/tiercache/common"
	"github.com/tiercache/tiercache/ethdb"
	"github.com/tiercache/tiercache/log"
	"github.com/tiercache/tiercache/metrics"
)

const (
	// minCache is the minimum amount of memory in megabytes to allocate to pebble
	// read and write caching, split half and half.
	minCache = 16

	// minHandles is the minimum number of files handles to allocate to the open
	// database files.
	minHandles = 16
)

// Database is a persistent key-value store based on the pebble storage engine.
// Apart from basic data storage functionality it also supports batch writes.
type Database struct {
	fn string     // filename for reporting
	db *pebble.DB // Underlying pebble storage engine

	compCounter  *metrics.Counter // Number of compactions started
	stallCounter *metrics.Counter // Number of write stalls observed

	quitLock sync.RWMutex // Mutex protecting the closed flag
	closed   bool         // keep track of whether we're Closed

	log log.Logger // Contextual logger tracking the database path

	writeStalled        atomic.Bool // Flag whether the write is stalled
	writeDelayStartTime time.Time   // The start time of the latest write stall

	writeOptions *pebble.WriteOptions
}

func (d *Database) onCompactionBegin(info pebble.CompactionInfo) {
	d.compCounter.Inc(1)
	d.log.Trace("Pebble compaction started", "job", info.JobID, "reason", info.Reason)
}

func (d *Database) onWriteStallBegin(b pebble.WriteStallBeginInfo) {
	d.writeDelayStartTime = time.Now()
	d.writeStalled.Store(true)
	d.stallCounter.Inc(1)
	d.log.Warn("Database write stalled", "reason", b.Reason)
}

func (d *Database) onWriteStallEnd() {
	d.writeStalled.Store(false)
	d.log.Info("Database write resumed", "elapsed", time.Since(d.writeDelayStartTime))
}

// panicLogger is just a noop logger to disable Pebble's internal logger.
type panicLogger struct{}

func (l panicLogger) Infof(format string, args ...interface{}) {
}

func (l panicLogger) Errorf(format string, args ...interface{}) {
}

func (l panicLogger) Fatalf(format string, args ...interface{}) {
	panic(fmt.Errorf("fatal: "+format, args...))
}

// New returns a wrapped pebble DB object. The namespace is the prefix that the
// metrics reporting should use for surfacing internal stats.
func New(file string, cache int, handles int, namespace string, readonly bool) (*Database, error) {
	// Ensure we have some minimal caching and file guarantees
	if cache < minCache {
		cache = minCache
	}
	if handles < minHandles {
		handles = minHandles
	}
	logger := log.New("database", file)
	logger.Info("Allocated cache and file handles", "cache", common.StorageSize(cache*1024*1024), "handles", handles)

	opt := &pebble.Options{
		// Pebble has a single combined cache area and the write
		// buffers are taken from this too.
		Cache:                    pebble.NewCache(int64(cache * 1024 * 1024)),
		MaxOpenFiles:             handles,
		MemTableSize:             uint64(cache * 1024 * 1024 / 4),
		MaxConcurrentCompactions: runtime.NumCPU,
		Levels: []pebble.LevelOptions{
			{TargetFileSize: 2 * 1024 * 1024, FilterPolicy: bloom.FilterPolicy(10)},
			{TargetFileSize: 4 * 1024 * 1024, FilterPolicy: bloom.FilterPolicy(10)},
			{TargetFileSize: 8 * 1024 * 1024, FilterPolicy: bloom.FilterPolicy(10)},
		},
		ReadOnly: readonly,
	}
	return open(file, opt, namespace, logger)
}

// open finishes the wiring shared by New and the tests: event listeners,
// metrics and the pebble handle itself.
func open(file string, opt *pebble.Options, namespace string, logger log.Logger) (*Database, error) {
	db := &Database{
		fn:           file,
		log:          logger,
		writeOptions: &pebble.WriteOptions{Sync: false},
		compCounter:  metrics.GetOrRegisterCounter(namespace+"compact/count", nil),
		stallCounter: metrics.GetOrRegisterCounter(namespace+"compact/writedelay/counter", nil),
	}
	opt.EventListener = &pebble.EventListener{
		CompactionBegin: db.onCompactionBegin,
		WriteStallBegin: db.onWriteStallBegin,
		WriteStallEnd:   db.onWriteStallEnd,
	}
	opt.Logger = panicLogger{}

	innerDB, err := pebble.Open(file, opt)
	if err != nil {
		return nil, err
	}
	db.db = innerDB
	return db, nil
}

// Close flushes any pending data to disk and closes all io accesses to the
// underlying key-value store.
func (d *Database) Close() error {
	d.quitLock.Lock()
	defer d.quitLock.Unlock()
	// Allow double closing, simplifies things
	if d.closed {
		return nil
	}
	d.closed = true
	return d.db.Close()
}

// Has retrieves if a key is present in the key-value store.
func (d *Database) Has(key []byte) (bool, error) {
	d.quitLock.RLock()
	defer d.quitLock.RUnlock()
	if d.closed {
		return false, ethdb.ErrClosed
	}
	_, closer, err := d.db.Get(key)
	if err == pebble.ErrNotFound {
		return false, nil
	} else if err != nil {
		return false, err
	}
	if err = closer.Close(); err != nil {
		return false, err
	}
	return true, nil
}

// Get retrieves the given key if it's present in the key-value store.
func (d *Database) Get(key []byte) ([]byte, error) {
	d.quitLock.RLock()
	defer d.quitLock.RUnlock()
	if d.closed {
		return nil, ethdb.ErrClosed
	}
	dat, closer, err := d.db.Get(key)
	if err == pebble.ErrNotFound {
		return nil, ethdb.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	ret := make([]byte, len(dat))
	copy(ret, dat)
	if err = closer.Close(); err != nil {
		return nil, err
	}
	return ret, nil
}

// Put inserts the given value into the key-value store.
func (d *Database) Put(key []byte, value []byte) error {
	d.quitLock.RLock()
	defer d.quitLock.RUnlock()
	if d.closed {
		return ethdb.ErrClosed
	}
	return d.db.Set(key, value, d.writeOptions)
}

// Delete removes the key from the key-value store.
func (d *Database) Delete(key []byte) error {
	d.quitLock.RLock()
	defer d.quitLock.RUnlock()
	if d.closed {
		return ethdb.ErrClosed
	}
	return d.db.Delete(key, d.writeOptions)
}

// NewBatch creates a write-only key-value store that buffers changes to its host
// database until a final write is called.
func (d *Database) NewBatch() ethdb.Batch {
	return &batch{
		b:  d.db.NewBatch(),
		db: d,
	}
}

// Stat returns the internal metrics of Pebble in a text format. It's a developer
// method to read everything there is to read, independent of Pebble version.
func (d *Database) Stat() (string, error) {
	d.quitLock.RLock()
	defer d.quitLock.RUnlock()
	if d.closed {
		return "", ethdb.ErrClosed
	}
	return d.db.Metrics().String(), nil
}

// Path returns the path to the database directory.
func (d *Database) Path() string {
	return d.fn
}

// batch is a write-only batch that commits changes to its host database
// when Write is called. A batch cannot be used concurrently.
type batch struct {
	b    *pebble.Batch
	db   *Database
	size int
}

// Put inserts the given value into the batch for later committing.
func (b *batch) Put(key, value []byte) error {
	if err := b.b.Set(key, value, nil); err != nil {
		return err
	}
	b.size += len(key) + len(value)
	return nil
}

// Delete inserts the key removal into the batch for later committing.
func (b *batch) Delete(key []byte) error {
	if err := b.b.Delete(key, nil); err != nil {
		return err
	}
	b.size += len(key)
	return nil
}

// ValueSize retrieves the amount of data queued up for writing.
func (b *batch) ValueSize() int {
	return b.size
}

// Write flushes any accumulated data to disk.
func (b *batch) Write() error {
	b.db.quitLock.RLock()
	defer b.db.quitLock.RUnlock()
	if b.db.closed {
		return ethdb.ErrClosed
	}
	return b.b.Commit(b.db.writeOptions)
}

// Reset resets the batch for reuse.
func (b *batch) Reset() {
	b.b.Reset()
	b.size = 0
}
