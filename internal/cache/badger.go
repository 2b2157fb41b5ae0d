// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/playerstats/internal/logging"
)

// keyPrefix namespaces cache entries inside the badger keyspace.
const keyPrefix = "cache:"

// BadgerCache stores entries in BadgerDB using native key TTLs.
// Badger expiry has one second resolution.
type BadgerCache struct {
	counters

	db  *badger.DB
	ttl time.Duration
}

// OpenBadger opens a badger cache at path, or in memory when path is empty.
func OpenBadger(name, path string, ttl time.Duration) (*BadgerCache, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}
	return &BadgerCache{counters: counters{name: name}, db: db, ttl: ttl}, nil
}

// Get retrieves a value. Errors other than a missing key are logged and
// reported as a miss.
func (b *BadgerCache) Get(key string) ([]byte, bool) {
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			logging.Warn().Err(err).Str("cache", b.name).Msg("Cache read failed")
		}
		b.recordMiss()
		return nil, false
	}
	b.recordHit()
	return data, true
}

// Set stores a value with the default TTL.
func (b *BadgerCache) Set(key string, value []byte) {
	b.SetWithTTL(key, value, b.ttl)
}

// SetWithTTL stores a value with a custom TTL.
func (b *BadgerCache) SetWithTTL(key string, value []byte, ttl time.Duration) {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(keyPrefix+key), value).WithTTL(ttl))
	})
	if err != nil {
		logging.Warn().Err(err).Str("cache", b.name).Msg("Cache write failed")
	}
}

// Delete removes a value.
func (b *BadgerCache) Delete(key string) {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyPrefix + key))
	})
	if err != nil {
		logging.Warn().Err(err).Str("cache", b.name).Msg("Cache delete failed")
		return
	}
	b.evictions.Add(1)
}

// Clear drops every cache entry.
func (b *BadgerCache) Clear() {
	n := b.count()
	if err := b.db.DropPrefix([]byte(keyPrefix)); err != nil {
		logging.Warn().Err(err).Str("cache", b.name).Msg("Cache clear failed")
		return
	}
	b.evictions.Add(n)
}

// count returns the number of live keys.
func (b *BadgerCache) count() int64 {
	var n int64
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		logging.Warn().Err(err).Str("cache", b.name).Msg("Cache count failed")
	}
	return n
}

// GetStats returns a snapshot of current cache statistics.
func (b *BadgerCache) GetStats() Stats {
	return Stats{
		Hits:      b.hits.Load(),
		Misses:    b.misses.Load(),
		Evictions: b.evictions.Load(),
		TotalKeys: b.count(),
	}
}

// HitRate returns the cache hit rate as a percentage
func (b *BadgerCache) HitRate() float64 {
	return b.hitRate()
}

// Close closes the badger database.
func (b *BadgerCache) Close() error {
	return b.db.Close()
}
