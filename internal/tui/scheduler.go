package tui

import (
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/podium/internal/clock"
)

// timerMsg delivers a scheduled callback to Update so it runs on the same
// goroutine as every other engine call.
type timerMsg struct {
	task *task
}

type task struct {
	fn      func()
	timer   *time.Timer
	stopped atomic.Bool
}

func (t *task) Stop() bool {
	t.stopped.Store(true)
	return t.timer.Stop()
}

// Scheduler is a clock.Scheduler whose callbacks come back as messages.
// Callbacks fired before Bind are dropped.
type Scheduler struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

var _ clock.Scheduler = (*Scheduler)(nil)

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Bind routes fired timers to send, usually (*tea.Program).Send.
func (s *Scheduler) Bind(send func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send = send
}

func (s *Scheduler) AfterFunc(d time.Duration, f func()) clock.Stopper {
	t := &task{fn: f}
	t.timer = time.AfterFunc(d, func() {
		s.mu.Lock()
		send := s.send
		s.mu.Unlock()
		if send != nil && !t.stopped.Load() {
			send(timerMsg{task: t})
		}
	})
	return t
}

// run executes a delivered callback unless it was stopped in the meantime.
func (m timerMsg) run() {
	if m.task.stopped.Load() {
		return
	}
	m.task.fn()
}
