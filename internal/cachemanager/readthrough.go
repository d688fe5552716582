package cachemanager

import "time"

// ReadThrough computes values with fn on a miss and stores them.
// When disabled every Get calls fn directly.
type ReadThrough[V any, I any] struct {
	cache    Cache[V]
	fn       func(input I) (V, error)
	ttl      time.Duration
	disabled bool
}

func NewReadThrough[V any, I any](cache Cache[V], fn func(input I) (V, error), ttl time.Duration, disabled bool) *ReadThrough[V, I] {
	return &ReadThrough[V, I]{cache: cache, fn: fn, ttl: ttl, disabled: disabled}
}

// Get returns the value for key, computing it from input on a miss.
// Errors are not cached.
func (r *ReadThrough[V, I]) Get(key string, input I) (V, error) {
	if r.disabled {
		return r.fn(input)
	}

	if v, ok := r.cache.Get(key); ok {
		return v, nil
	}

	v, err := r.fn(input)
	if err != nil {
		return v, err
	}
	r.cache.Set(key, v, r.ttl)
	return v, nil
}

// Invalidate drops every cached value, e.g. after the deck reloads.
func (r *ReadThrough[V, I]) Invalidate() {
	if r.cache != nil {
		r.cache.Flush()
	}
}
