package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func boundScheduler() (*Scheduler, chan tea.Msg) {
	msgs := make(chan tea.Msg, 4)
	s := NewScheduler()
	s.Bind(func(msg tea.Msg) { msgs <- msg })
	return s, msgs
}

func TestScheduler_DeliversCallbackAsMessage(t *testing.T) {
	s, msgs := boundScheduler()
	fired := false

	s.AfterFunc(time.Millisecond, func() { fired = true })

	select {
	case msg := <-msgs:
		tm, ok := msg.(timerMsg)
		require.True(t, ok)
		require.False(t, fired, "callback must wait for the message loop")
		tm.run()
		require.True(t, fired)
	case <-time.After(time.Second):
		t.Fatal("timer never delivered")
	}
}

func TestScheduler_StopBeforeRunSkipsCallback(t *testing.T) {
	s, msgs := boundScheduler()
	fired := false

	stopper := s.AfterFunc(time.Millisecond, func() { fired = true })
	msg := <-msgs
	stopper.Stop()
	msg.(timerMsg).run()

	require.False(t, fired)
}

func TestScheduler_UnboundDropsCallbacks(t *testing.T) {
	s := NewScheduler()
	done := make(chan struct{})

	s.AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
		t.Fatal("callback ran without a bound program")
	case <-time.After(50 * time.Millisecond):
	}
}
