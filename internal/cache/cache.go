// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

// Package cache provides a thread-safe in-memory TTL cache. The car service
// uses it to serve the public search listing without hitting DuckDB on
// every request; writers invalidate with Clear on any car mutation.
package cache

import (
	"sync"
	"time"

	"github.com/renterra/renterra/internal/metrics"
)

// Entry is a cached item with its expiration time.
type Entry struct {
	Data      interface{}
	ExpiresAt time.Time
}

// Cache is a TTL map cache. A background goroutine sweeps expired entries;
// call Stop when done with the cache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	ttl     time.Duration
	name    string
	stop    chan struct{}
	once    sync.Once
}

// New creates a cache with the given default TTL. name labels the cache in
// metrics.
func New(name string, ttl time.Duration) *Cache {
	c := &Cache{
		entries: make(map[string]Entry),
		ttl:     ttl,
		name:    name,
		stop:    make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// Get returns the cached value for key, deleting it first if expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		metrics.RecordCacheMiss(c.name)
		return nil, false
	}

	if time.Now().After(entry.ExpiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		size := len(c.entries)
		c.mu.Unlock()

		metrics.RecordCacheMiss(c.name)
		metrics.CacheEvictions.WithLabelValues(c.name).Inc()
		metrics.CacheSize.WithLabelValues(c.name).Set(float64(size))
		return nil, false
	}

	metrics.RecordCacheHit(c.name)
	return entry.Data, true
}

// Set stores a value with the default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL.
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = Entry{
		Data:      value,
		ExpiresAt: time.Now().Add(ttl),
	}
	size := len(c.entries)
	c.mu.Unlock()

	metrics.CacheSize.WithLabelValues(c.name).Set(float64(size))
}

// Delete removes a single entry. Safe to call for missing keys.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	size := len(c.entries)
	c.mu.Unlock()

	metrics.CacheSize.WithLabelValues(c.name).Set(float64(size))
}

// Clear drops every entry. Called after any car mutation so the public
// listing never serves stale availability.
func (c *Cache) Clear() {
	c.mu.Lock()
	evicted := len(c.entries)
	c.entries = make(map[string]Entry)
	c.mu.Unlock()

	metrics.CacheEvictions.WithLabelValues(c.name).Add(float64(evicted))
	metrics.CacheSize.WithLabelValues(c.name).Set(0)
}

// Len returns the current number of entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stop terminates the background sweeper.
func (c *Cache) Stop() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
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

func (c *Cache) cleanup() {
	now := time.Now()

	c.mu.Lock()
	evicted := 0
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			evicted++
		}
	}
	size := len(c.entries)
	c.mu.Unlock()

	if evicted > 0 {
		metrics.CacheEvictions.WithLabelValues(c.name).Add(float64(evicted))
	}
	metrics.CacheSize.WithLabelValues(c.name).Set(float64(size))
}
