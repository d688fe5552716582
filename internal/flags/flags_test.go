package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		registry *Registry
		flag     string
		expected bool
	}{
		{name: "default on", registry: New(nil), flag: FlagLiveReload, expected: true},
		{name: "default off", registry: New(nil), flag: FlagRemoteControl, expected: false},
		{name: "config overrides default", registry: New(map[string]bool{FlagRenderCache: false}), flag: FlagRenderCache, expected: false},
		{name: "config enables", registry: New(map[string]bool{FlagRemoteControl: true}), flag: FlagRemoteControl, expected: true},
		{name: "unknown flag", registry: New(nil), flag: "teleport", expected: false},
		{name: "nil registry", registry: nil, flag: FlagLiveReload, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.registry.Enabled(tt.flag))
		})
	}
}

func TestRegistry_KeepsUnknownConfigFlags(t *testing.T) {
	r := New(map[string]bool{"experimental": true})
	require.True(t, r.Enabled("experimental"))
}

func TestRegistry_All_ReturnsCopy(t *testing.T) {
	r := New(map[string]bool{FlagRemoteControl: true})

	all := r.All()
	all[FlagRemoteControl] = false

	require.True(t, r.Enabled(FlagRemoteControl))
	require.Len(t, r.All(), 3)
	require.Empty(t, (*Registry)(nil).All())
}

func TestKnown(t *testing.T) {
	require.Equal(t, []string{FlagLiveReload, FlagRemoteControl, FlagRenderCache}, Known())
}
