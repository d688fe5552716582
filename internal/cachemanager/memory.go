package cachemanager

import (
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/podium/internal/log"
)

const (
	DefaultExpiration      = 10 * time.Minute
	DefaultCleanupInterval = 30 * time.Minute
)

// Stats counts lookups since the cache was created or flushed.
type Stats struct {
	Hits   int64
	Misses int64
	Items  int
}

// Memory is an in-process Cache backed by go-cache.
type Memory[V any] struct {
	name   string
	cache  *gocache.Cache
	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemory creates an in-memory cache. name tags log lines.
func NewMemory[V any](name string, defaultExpiration, cleanupInterval time.Duration) *Memory[V] {
	return &Memory[V]{
		name:  name,
		cache: gocache.New(defaultExpiration, cleanupInterval),
	}
}

// Get returns the cached value for key.
func (m *Memory[V]) Get(key string) (V, bool) {
	var zero V

	raw, found := m.cache.Get(key)
	if !found {
		m.misses.Add(1)
		return zero, false
	}

	v, ok := raw.(V)
	if !ok {
		log.Error(log.CatCache, "cached value has wrong type", "cache", m.name, "key", key)
		m.misses.Add(1)
		return zero, false
	}

	m.hits.Add(1)
	return v, true
}

// Set stores value under key. A zero ttl uses the cache default.
func (m *Memory[V]) Set(key string, value V, ttl time.Duration) {
	m.cache.Set(key, value, ttl)
}

func (m *Memory[V]) Delete(keys ...string) {
	for _, key := range keys {
		m.cache.Delete(key)
	}
}

// Flush drops every entry and resets the counters.
func (m *Memory[V]) Flush() {
	m.cache.Flush()
	m.hits.Store(0)
	m.misses.Store(0)
	log.Debug(log.CatCache, "flushed", "cache", m.name)
}

func (m *Memory[V]) Stats() Stats {
	return Stats{Hits: m.hits.Load(), Misses: m.misses.Load(), Items: m.cache.ItemCount()}
}
