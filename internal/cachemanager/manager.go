// Package cachemanager caches rendered panels so navigation does not
// re-render markdown that has not changed.
package cachemanager

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Cache is a keyed store with per-entry expiry.
type Cache[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V, ttl time.Duration)
	Delete(keys ...string)
	Flush()
}

// Key fingerprints the inputs that determine a cached value.
func Key(parts ...string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.Join(parts, "\x00"))).String()
}
