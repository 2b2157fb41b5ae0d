// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

/*
Package cache provides TTL caches for derived results such as activity filter
selections.

Two implementations share the Cacher interface:

  - Cache: an in-process map with lazy expiry and a background cleanup loop
  - BadgerCache: BadgerDB with native key TTLs, on disk or in memory

Values are byte slices. GetJSON and SetJSON encode values with goccy/go-json,
and GenerateKey hashes arbitrary parameters into a compact key.

# Usage Example

	c, err := cache.NewCacher(cache.CacheConfig{
	    Name: "activity",
	    Type: cache.CacheTypeBadger,
	    TTL:  5 * time.Minute,
	})
	if err != nil {
	    c = cache.NewTTL(5 * time.Minute)
	}
	defer c.Close()

	key := cache.GenerateKey("activity", params)
	if ids, ok := cache.GetJSON[[]int](c, key); ok {
	    return ids
	}
	_ = cache.SetJSON(c, key, ids)

Hits and misses are exported as cache_hits_total and cache_misses_total,
labelled by cache name.
*/
package cache
