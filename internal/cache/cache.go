// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/playerstats/internal/metrics"
)

// Entry represents a cached item with expiration
type Entry struct {
	Data      []byte
	ExpiresAt time.Time
}

// Stats is a snapshot of cache performance counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// counters are shared by both implementations.
type counters struct {
	name      string
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

func (c *counters) recordHit() {
	c.hits.Add(1)
	metrics.RecordCacheLookup(c.name, true)
}

func (c *counters) recordMiss() {
	c.misses.Add(1)
	metrics.RecordCacheLookup(c.name, false)
}

func (c *counters) hitRate() float64 {
	hits, misses := c.hits.Load(), c.misses.Load()
	if hits+misses == 0 {
		return 0.0
	}
	return float64(hits) / float64(hits+misses) * 100.0
}

// Cache provides a thread-safe in-memory cache with TTL support
type Cache struct {
	counters

	mu          sync.RWMutex
	entries     map[string]Entry
	ttl         time.Duration
	lastCleanup time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a new thread-safe in-memory cache with automatic expiration.
//
// A background goroutine removes expired entries every 5 minutes until Close.
// Expired entries are also dropped lazily by Get.
//
//	c := cache.New(5 * time.Minute)
//	defer c.Close()
//	c.Set("key", data)
func New(ttl time.Duration) *Cache {
	return NewNamed("default", ttl)
}

// NewNamed is New with a metrics label.
func NewNamed(name string, ttl time.Duration) *Cache {
	c := &Cache{
		counters:    counters{name: name},
		entries:     make(map[string]Entry),
		ttl:         ttl,
		lastCleanup: time.Now(),
		stop:        make(chan struct{}),
	}

	go c.cleanupLoop()

	return c
}

// Get retrieves a value, removing it if it has expired.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.recordMiss()
		return nil, false
	}

	if time.Now().After(entry.ExpiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		c.recordMiss()
		c.evictions.Add(1)
		return nil, false
	}

	c.recordHit()
	return entry.Data, true
}

// Set stores a value with the default TTL.
func (c *Cache) Set(key string, value []byte) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL, overwriting any existing entry.
func (c *Cache) SetWithTTL(key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = Entry{Data: value, ExpiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// Delete removes a value from the cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	_, exists := c.entries[key]
	delete(c.entries, key)
	c.mu.Unlock()

	if exists {
		c.evictions.Add(1)
	}
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	evicted := int64(len(c.entries))
	c.entries = make(map[string]Entry)
	c.mu.Unlock()

	c.evictions.Add(evicted)
}

// GetStats returns a snapshot of current cache statistics.
func (c *Cache) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Evictions:   c.evictions.Load(),
		TotalKeys:   int64(len(c.entries)),
		LastCleanup: c.lastCleanup,
	}
}

// HitRate returns the cache hit rate as a percentage
func (c *Cache) HitRate() float64 {
	return c.hitRate()
}

// Close stops the cleanup goroutine. The cache stays usable.
func (c *Cache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return nil
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

// cleanup removes all expired entries
func (c *Cache) cleanup() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	var evicted int64
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			evicted++
		}
	}
	c.evictions.Add(evicted)
	c.lastCleanup = now
}

// GenerateKey creates a cache key from a prefix and parameters.
func GenerateKey(method string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", method, params)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", method, hash[:16])
}
