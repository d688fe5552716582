package clock

import (
	"sync"
	"time"
)

// Manual records callbacks instead of running them. Tests fire them
// explicitly, which makes timer behavior deterministic.
type Manual struct {
	mu    sync.Mutex
	tasks []*Task
}

// Task is one recorded callback.
type Task struct {
	Delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

// Stop implements Stopper.
func (t *Task) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// Stopped reports whether the task was canceled.
func (t *Task) Stopped() bool {
	return t.stopped
}

// Fire runs the callback even if it was stopped, like a timer that fired
// just before its cancel landed.
func (t *Task) Fire() {
	t.fired = true
	t.f()
}

// AfterFunc implements Scheduler.
func (s *Manual) AfterFunc(d time.Duration, f func()) Stopper {
	s.mu.Lock()
	defer s.mu.Unlock()
	task := &Task{Delay: d, f: f}
	s.tasks = append(s.tasks, task)
	return task
}

// Last returns the most recently scheduled task, or nil.
func (s *Manual) Last() *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tasks) == 0 {
		return nil
	}
	return s.tasks[len(s.tasks)-1]
}

// Active returns tasks that were neither stopped nor fired.
func (s *Manual) Active() []*Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Task
	for _, t := range s.tasks {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// Count returns how many tasks were ever scheduled.
func (s *Manual) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Fixed is a Clock stuck at a settable instant.
type Fixed struct {
	T time.Time
}

// Now implements Clock.
func (f *Fixed) Now() time.Time { return f.T }

// Advance moves the clock forward.
func (f *Fixed) Advance(d time.Duration) { f.T = f.T.Add(d) }
