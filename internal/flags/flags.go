// Package flags provides feature flag support for controlled feature rollout.
// Flags are read-only after initialization and provide safe defaults for unknown flags.
package flags

import (
	"maps"
	"slices"

	"github.com/zjrosen/podium/internal/log"
)

// Flag name constants for type-safe flag access.
const (
	// FlagRemoteControl enables the HTTP remote-control endpoint.
	FlagRemoteControl = "remote-control"

	// FlagLiveReload re-reads the deck file when it changes on disk.
	FlagLiveReload = "live-reload"

	// FlagRenderCache caches rendered panel markdown between transitions.
	FlagRenderCache = "render-cache"
)

// defaults apply to known flags absent from the configuration.
var defaults = map[string]bool{
	FlagRemoteControl: false,
	FlagLiveReload:    true,
	FlagRenderCache:   true,
}

// Registry holds feature flag state loaded from configuration.
// Flags are read-only after initialization.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from a config map layered over the defaults.
func New(flags map[string]bool) *Registry {
	merged := maps.Clone(defaults)
	for name, on := range flags {
		if _, known := defaults[name]; !known {
			log.Warn(log.CatConfig, "Unknown feature flag in config", "flag", name)
		}
		merged[name] = on
	}
	r := &Registry{flags: merged}
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(merged), "flags", r.All())
	return r
}

// Enabled returns true if the named flag is enabled.
// Returns false for unknown flags and on a nil registry.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	return r.flags[name]
}

// All returns a copy of all flags.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return make(map[string]bool)
	}
	return maps.Clone(r.flags)
}

// Known returns the names of the flags podium understands, sorted.
func Known() []string {
	return slices.Sorted(maps.Keys(defaults))
}
