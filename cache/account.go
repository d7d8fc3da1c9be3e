// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package cache memoizes light client sync results so that re-verifying the
// same (head, next block) pair doesn't repeat signature and Merkle work.
package cache

import (
	"sync"
	"time"

	"near-light-verifier/types"
)

// syncKey identifies a memoized sync transition by the hash of the head the
// client synced from and the hash of the next block it synced to.
type syncKey struct {
	head [32]byte
	next [32]byte
}

// cachedSync is one memoized sync result with its cache bookkeeping.
type cachedSync struct {
	Result    types.Synced
	CachedAt  time.Time
	ExpiresAt time.Time
}

// SyncCache memoizes Sync results keyed by (head hash, next block hash),
// with LRU eviction bounding total size and TTL bounding staleness. The
// locking and eviction shape mirrors a standard LRU cache with TTL expiry.
type SyncCache struct {
	mu    sync.RWMutex
	items map[syncKey]*cachedSync

	defaultTTL  time.Duration
	maxEntries  int
	accessOrder []syncKey
	metrics     *types.Metrics
}

// NewSyncCache creates a sync cache with the given default TTL and maximum
// entry count. A zero TTL defaults to 5 minutes; a zero or negative
// maxEntries defaults to 1000.
func NewSyncCache(defaultTTL time.Duration, maxEntries int) *SyncCache {
	if defaultTTL == 0 {
		defaultTTL = 5 * time.Minute
	}
	if maxEntries <= 0 {
		maxEntries = 1000
	}

	return &SyncCache{
		items:       make(map[syncKey]*cachedSync),
		defaultTTL:  defaultTTL,
		maxEntries:  maxEntries,
		accessOrder: make([]syncKey, 0, maxEntries),
		metrics:     types.NewMetrics(),
	}
}

// updateAccessOrder moves key to the end of the access order (most recent).
func (c *SyncCache) updateAccessOrder(key syncKey) {
	for i, existing := range c.accessOrder {
		if existing == key {
			c.accessOrder = append(c.accessOrder[:i], c.accessOrder[i+1:]...)
			break
		}
	}
	c.accessOrder = append(c.accessOrder, key)
}

// evictLRU removes the least recently used entries while over capacity.
func (c *SyncCache) evictLRU() {
	for len(c.items) > c.maxEntries && len(c.accessOrder) > 0 {
		lru := c.accessOrder[0]
		c.accessOrder = c.accessOrder[1:]
		delete(c.items, lru)
		c.metrics.RecordCacheEviction()
	}
}

// Store memoizes a Synced result for the (head, next) transition.
func (c *SyncCache) Store(head, next [32]byte, result types.Synced, ttl ...time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiry := c.defaultTTL
	if len(ttl) > 0 {
		expiry = ttl[0]
	}

	key := syncKey{head: head, next: next}
	c.items[key] = &cachedSync{
		Result:    result,
		CachedAt:  time.Now(),
		ExpiresAt: time.Now().Add(expiry),
	}

	c.updateAccessOrder(key)
	c.evictLRU()
}

// Get retrieves a memoized Synced result, if present and not expired.
func (c *SyncCache) Get(head, next [32]byte) (types.Synced, bool) {
	c.mu.Lock() // write lock: Get also advances LRU order
	defer c.mu.Unlock()

	key := syncKey{head: head, next: next}
	cached, exists := c.items[key]
	if !exists || time.Now().After(cached.ExpiresAt) {
		c.metrics.RecordCacheMiss()
		return types.Synced{}, false
	}

	c.updateAccessOrder(key)
	c.metrics.RecordCacheHit()
	return cached.Result, true
}

// Clear removes all memoized sync results.
func (c *SyncCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[syncKey]*cachedSync)
	c.accessOrder = c.accessOrder[:0]
}

// PruneExpired removes all expired entries from the cache.
func (c *SyncCache) PruneExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, cached := range c.items {
		if now.After(cached.ExpiresAt) {
			delete(c.items, key)
		}
	}
}

// Len returns the number of memoized entries currently cached.
func (c *SyncCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// GetMetrics returns a copy of the current cache metrics.
func (c *SyncCache) GetMetrics() *types.Metrics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	metrics := *c.metrics
	return &metrics
}
