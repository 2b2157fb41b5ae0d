// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package cache

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Cacher defines the interface for cache implementations.
// Both Cache (in-memory TTL) and BadgerCache implement this interface.
//
// Values are opaque bytes; GetJSON and SetJSON handle encoding.
type Cacher interface {
	// Get retrieves a value from the cache.
	// Returns the value and true if found and not expired.
	Get(key string) ([]byte, bool)

	// Set stores a value in the cache with the default TTL.
	Set(key string, value []byte)

	// SetWithTTL stores a value with a custom TTL.
	SetWithTTL(key string, value []byte, ttl time.Duration)

	Delete(key string)
	Clear()

	// GetStats returns cache statistics.
	GetStats() Stats

	// HitRate returns the cache hit rate as a percentage.
	HitRate() float64

	Close() error
}

// CacheType represents the type of cache to create.
type CacheType string

const (
	// CacheTypeMemory is the in-process TTL map.
	CacheTypeMemory CacheType = "memory"

	// CacheTypeBadger stores entries in BadgerDB, on disk or in memory.
	CacheTypeBadger CacheType = "badger"
)

// CacheConfig holds configuration for creating a cache.
type CacheConfig struct {
	// Name labels the cache in metrics.
	Name string

	Type CacheType

	// TTL is the default time-to-live for cache entries.
	TTL time.Duration

	// Path is the badger directory. Empty runs badger in memory.
	Path string
}

// NewCacher creates a cache based on the configuration.
// A badger cache that cannot be opened is an error; callers decide whether to
// fall back to NewTTL.
func NewCacher(cfg CacheConfig) (Cacher, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.Name == "" {
		cfg.Name = "default"
	}

	switch cfg.Type {
	case CacheTypeBadger:
		return OpenBadger(cfg.Name, cfg.Path, cfg.TTL)
	case CacheTypeMemory, "":
		return NewNamed(cfg.Name, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Type)
	}
}

// NewTTL creates a new in-memory TTL cache (same as New).
func NewTTL(ttl time.Duration) Cacher {
	return New(ttl)
}

// GetJSON reads and decodes a cached value.
// A value that no longer decodes is treated as a miss.
func GetJSON[T any](c Cacher, key string) (T, bool) {
	var v T
	data, ok := c.Get(key)
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false
	}
	return v, true
}

// SetJSON encodes and caches a value with the default TTL.
func SetJSON(c Cacher, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	c.Set(key, data)
	return nil
}

// Verify interface implementations at compile time
var (
	_ Cacher = (*Cache)(nil)
	_ Cacher = (*BadgerCache)(nil)
)
