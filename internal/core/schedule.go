package core

import "time"

// Task is a handle to a callback registered with a Scheduler.
type Task struct {
	id        uint64
	due       time.Duration
	every     time.Duration
	fn        func()
	cancelled bool
	done      bool
}

// Cancel stops the task. Cancelling a finished or nil task is a no-op.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.cancelled = true
}

// Active reports whether the task will still fire.
func (t *Task) Active() bool {
	return t != nil && !t.cancelled && !t.done
}

// Scheduler runs delayed and periodic callbacks against a simulated clock.
// Time only moves when Advance is called, so games stay deterministic and
// every callback runs on the caller's goroutine.
type Scheduler struct {
	now    time.Duration
	nextID uint64
	tasks  []*Task
}

// NewScheduler creates a scheduler with its clock at zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the simulated time elapsed since creation or the last Reset.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After runs fn once, d after the current time.
func (s *Scheduler) After(d time.Duration, fn func()) *Task {
	return s.add(d, 0, fn)
}

// Every runs fn each interval, first firing one interval from now.
// Panics if interval is not positive.
func (s *Scheduler) Every(interval time.Duration, fn func()) *Task {
	if interval <= 0 {
		panic("core: Every requires a positive interval")
	}
	return s.add(interval, interval, fn)
}

func (s *Scheduler) add(delay, every time.Duration, fn func()) *Task {
	if delay < 0 {
		delay = 0
	}
	s.nextID++
	t := &Task{
		id:    s.nextID,
		due:   s.now + delay,
		every: every,
		fn:    fn,
	}
	s.tasks = append(s.tasks, t)
	return t
}

// Advance moves the clock forward by d, firing due callbacks in order of
// their due time (ties broken by registration order). Periodic tasks fire
// once per elapsed interval. Callbacks may schedule or cancel tasks.
func (s *Scheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		t := s.nextDue(target)
		if t == nil {
			break
		}
		s.now = t.due
		if t.every > 0 {
			t.due += t.every
		} else {
			t.done = true
		}
		t.fn()
	}
	s.now = target
	s.compact()
}

// nextDue returns the earliest live task due at or before target.
func (s *Scheduler) nextDue(target time.Duration) *Task {
	var best *Task
	for _, t := range s.tasks {
		if !t.Active() || t.due > target {
			continue
		}
		if best == nil || t.due < best.due || (t.due == best.due && t.id < best.id) {
			best = t
		}
	}
	return best
}

func (s *Scheduler) compact() {
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if t.Active() {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = live
}

// Pending returns the number of tasks that will still fire.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.tasks {
		if t.Active() {
			n++
		}
	}
	return n
}

// Reset cancels every task and rewinds the clock to zero.
func (s *Scheduler) Reset() {
	for _, t := range s.tasks {
		t.Cancel()
	}
	s.tasks = nil
	s.now = 0
}
