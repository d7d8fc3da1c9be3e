// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package types

import (
	"sync/atomic"
	"time"
)

// Metrics provides simple counters for monitoring light client verification
// activity: how often sync succeeds or is rejected, how often inclusion
// proofs check out, and how the sync-memo cache is performing.
type Metrics struct {
	// Sync metrics
	SyncAttempts  int64 `json:"sync_attempts"`
	SyncSuccesses int64 `json:"sync_successes"`
	SyncFailures  int64 `json:"sync_failures"`

	// Inclusion proof metrics
	InclusionChecks   int64 `json:"inclusion_checks"`
	InclusionVerified int64 `json:"inclusion_verified"`

	// Cache metrics
	CacheHits      int64 `json:"cache_hits"`
	CacheMisses    int64 `json:"cache_misses"`
	CacheEvictions int64 `json:"cache_evictions"`

	// Performance metrics
	TotalLatencyMs int64 `json:"total_latency_ms"`

	// Timestamps
	StartTime time.Time `json:"start_time"`
	LastReset time.Time `json:"last_reset"`
}

// NewMetrics creates a new metrics instance.
func NewMetrics() *Metrics {
	now := time.Now()
	return &Metrics{
		StartTime: now,
		LastReset: now,
	}
}

// RecordSyncAttempt increments the sync attempt counter and its latency.
func (m *Metrics) RecordSyncAttempt(latencyMs int64) {
	atomic.AddInt64(&m.SyncAttempts, 1)
	atomic.AddInt64(&m.TotalLatencyMs, latencyMs)
}

// RecordSyncSuccess increments the sync success counter.
func (m *Metrics) RecordSyncSuccess() {
	atomic.AddInt64(&m.SyncSuccesses, 1)
}

// RecordSyncFailure increments the sync failure counter.
func (m *Metrics) RecordSyncFailure() {
	atomic.AddInt64(&m.SyncFailures, 1)
}

// RecordInclusionCheck increments the inclusion proof check counter.
func (m *Metrics) RecordInclusionCheck() {
	atomic.AddInt64(&m.InclusionChecks, 1)
}

// RecordInclusionVerified increments the inclusion proof success counter.
func (m *Metrics) RecordInclusionVerified() {
	atomic.AddInt64(&m.InclusionVerified, 1)
}

// RecordCacheHit increments the cache hit counter.
func (m *Metrics) RecordCacheHit() {
	atomic.AddInt64(&m.CacheHits, 1)
}

// RecordCacheMiss increments the cache miss counter.
func (m *Metrics) RecordCacheMiss() {
	atomic.AddInt64(&m.CacheMisses, 1)
}

// RecordCacheEviction increments the cache eviction counter.
func (m *Metrics) RecordCacheEviction() {
	atomic.AddInt64(&m.CacheEvictions, 1)
}

// GetCacheHitRate returns the cache hit rate as a percentage.
func (m *Metrics) GetCacheHitRate() float64 {
	hits := atomic.LoadInt64(&m.CacheHits)
	misses := atomic.LoadInt64(&m.CacheMisses)
	total := hits + misses

	if total == 0 {
		return 0.0
	}

	return float64(hits) / float64(total) * 100.0
}

// GetSyncSuccessRate returns the sync success rate as a percentage.
func (m *Metrics) GetSyncSuccessRate() float64 {
	successes := atomic.LoadInt64(&m.SyncSuccesses)
	attempts := atomic.LoadInt64(&m.SyncAttempts)

	if attempts == 0 {
		return 0.0
	}

	return float64(successes) / float64(attempts) * 100.0
}

// GetAverageLatencyMs returns the average sync latency in milliseconds.
func (m *Metrics) GetAverageLatencyMs() float64 {
	total := atomic.LoadInt64(&m.TotalLatencyMs)
	attempts := atomic.LoadInt64(&m.SyncAttempts)

	if attempts == 0 {
		return 0.0
	}

	return float64(total) / float64(attempts)
}

// Reset resets all counters to zero.
func (m *Metrics) Reset() {
	atomic.StoreInt64(&m.SyncAttempts, 0)
	atomic.StoreInt64(&m.SyncSuccesses, 0)
	atomic.StoreInt64(&m.SyncFailures, 0)
	atomic.StoreInt64(&m.InclusionChecks, 0)
	atomic.StoreInt64(&m.InclusionVerified, 0)
	atomic.StoreInt64(&m.CacheHits, 0)
	atomic.StoreInt64(&m.CacheMisses, 0)
	atomic.StoreInt64(&m.CacheEvictions, 0)
	atomic.StoreInt64(&m.TotalLatencyMs, 0)
	m.LastReset = time.Now()
}
