// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCacheBasicOperations(t *testing.T) {
	c := New(1 * time.Minute)
	defer c.Close()

	c.Set("key1", []byte("value1"))
	value, exists := c.Get("key1")
	if !exists {
		t.Error("Expected key1 to exist")
	}
	if string(value) != "value1" {
		t.Errorf("Expected value1, got %s", value)
	}

	if _, exists = c.Get("key2"); exists {
		t.Error("Expected key2 to not exist")
	}
}

func TestCacheExpiration(t *testing.T) {
	c := New(100 * time.Millisecond)
	defer c.Close()

	c.Set("key1", []byte("value1"))
	if _, exists := c.Get("key1"); !exists {
		t.Error("Expected key1 to exist immediately after set")
	}

	time.Sleep(150 * time.Millisecond)

	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be expired")
	}
	if stats := c.GetStats(); stats.Evictions != 1 || stats.TotalKeys != 0 {
		t.Errorf("stats after expiry = %+v", stats)
	}
}

func TestCacheSetWithTTLOverridesDefault(t *testing.T) {
	c := New(1 * time.Hour)
	defer c.Close()

	c.SetWithTTL("short", []byte("x"), 50*time.Millisecond)
	c.Set("long", []byte("y"))
	time.Sleep(100 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Error("short TTL entry should be expired")
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("default TTL entry should be present")
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := New(1 * time.Minute)
	defer c.Close()

	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("key%d", i), []byte{byte(i)})
	}
	c.Delete("key0")
	c.Delete("missing")
	if _, ok := c.Get("key0"); ok {
		t.Error("key0 should be deleted")
	}

	c.Clear()
	stats := c.GetStats()
	if stats.TotalKeys != 0 {
		t.Errorf("TotalKeys = %d after Clear", stats.TotalKeys)
	}
	if stats.Evictions != 5 {
		t.Errorf("Evictions = %d, want 5", stats.Evictions)
	}
}

func TestCacheManualCleanup(t *testing.T) {
	c := New(1 * time.Minute)
	defer c.Close()

	c.SetWithTTL("expired", []byte("x"), -time.Second)
	c.Set("fresh", []byte("y"))
	c.cleanup()

	if stats := c.GetStats(); stats.TotalKeys != 1 || stats.Evictions != 1 {
		t.Errorf("stats after cleanup = %+v", stats)
	}
}

func TestCacheHitRate(t *testing.T) {
	c := New(1 * time.Minute)
	defer c.Close()

	if c.HitRate() != 0 {
		t.Errorf("HitRate() = %v with no lookups", c.HitRate())
	}
	c.Set("a", []byte("1"))
	c.Get("a")
	c.Get("a")
	c.Get("a")
	c.Get("b")
	if got := c.HitRate(); got != 75 {
		t.Errorf("HitRate() = %v, want 75", got)
	}
}

func TestCacheConcurrency(t *testing.T) {
	c := New(1 * time.Minute)
	defer c.Close()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("k%d", i%10)
				c.Set(key, []byte{byte(g)})
				c.Get(key)
				if i%25 == 0 {
					c.Delete(key)
				}
			}
		}(g)
	}
	wg.Wait()

	if stats := c.GetStats(); stats.Hits+stats.Misses != 800 {
		t.Errorf("lookups = %d, want 800", stats.Hits+stats.Misses)
	}
}

func TestGenerateKey(t *testing.T) {
	type params struct {
		Reference int64
		Groups    []string
	}
	a := GenerateKey("activity", params{1, []string{"Active"}})
	b := GenerateKey("activity", params{1, []string{"Active"}})
	c := GenerateKey("activity", params{2, []string{"Active"}})

	if a != b {
		t.Errorf("same params produced %q and %q", a, b)
	}
	if a == c {
		t.Error("different params produced the same key")
	}
	if got := GenerateKey("x", make(chan int)); got == "" {
		t.Error("unmarshalable params produced an empty key")
	}
}

func TestJSONHelpers(t *testing.T) {
	c := NewTTL(time.Minute)
	defer c.Close()

	if err := SetJSON(c, "ids", []int{3, 1, 2}); err != nil {
		t.Fatal(err)
	}
	got, ok := GetJSON[[]int](c, "ids")
	if !ok || len(got) != 3 || got[0] != 3 {
		t.Errorf("GetJSON() = %v, %v", got, ok)
	}

	c.Set("garbage", []byte("{not json"))
	if _, ok := GetJSON[[]int](c, "garbage"); ok {
		t.Error("undecodable value should be a miss")
	}
	if err := SetJSON(c, "bad", make(chan int)); err == nil {
		t.Error("SetJSON accepted an unmarshalable value")
	}
}

func TestNewCacher(t *testing.T) {
	tests := []struct {
		name    string
		cfg     CacheConfig
		wantErr bool
	}{
		{"default is memory", CacheConfig{}, false},
		{"memory", CacheConfig{Type: CacheTypeMemory, TTL: time.Second}, false},
		{"badger in memory", CacheConfig{Type: CacheTypeBadger, Name: "test"}, false},
		{"badger on disk", CacheConfig{Type: CacheTypeBadger, Path: t.TempDir()}, false},
		{"unknown", CacheConfig{Type: "redis"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCacher(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			defer c.Close()

			c.Set("k", []byte("v"))
			if v, ok := c.Get("k"); !ok || string(v) != "v" {
				t.Errorf("Get() = %q, %v", v, ok)
			}
		})
	}
}
