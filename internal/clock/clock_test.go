package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatRelativeFrom(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{-time.Minute, "now"},
		{30 * time.Second, "now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{2 * 24 * time.Hour, "2d ago"},
		{3 * 7 * 24 * time.Hour, "3w ago"},
		{2 * 365 * 24 * time.Hour, "2y ago"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, FormatRelativeFrom(now.Add(-tt.ago), now))
		})
	}
}

func TestFixed_Advance(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := &Fixed{T: start}

	c.Advance(10 * time.Minute)

	require.Equal(t, "10m ago", FormatRelative(start, c))
}

func TestManual_RecordsAndStops(t *testing.T) {
	s := &Manual{}
	ran := 0

	stopper := s.AfterFunc(time.Second, func() { ran++ })
	s.AfterFunc(2*time.Second, func() { ran += 10 })

	require.True(t, stopper.Stop())
	require.False(t, stopper.Stop())
	require.Equal(t, 2, s.Count())
	require.Len(t, s.Active(), 1)
	require.Equal(t, 2*time.Second, s.Last().Delay)

	s.Last().Fire()
	require.Equal(t, 10, ran)
}
