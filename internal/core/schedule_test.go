package core

import (
	"testing"
	"time"
)

func TestSchedulerAfter(t *testing.T) {
	s := NewScheduler()
	fired := 0
	task := s.After(100*time.Millisecond, func() { fired++ })

	s.Advance(99 * time.Millisecond)
	if fired != 0 {
		t.Fatalf("fired early")
	}
	if !task.Active() {
		t.Error("task should still be active")
	}

	s.Advance(1 * time.Millisecond)
	if fired != 1 {
		t.Fatalf("fired = %d, expected 1", fired)
	}
	if task.Active() {
		t.Error("one-shot task should be done after firing")
	}

	s.Advance(time.Second)
	if fired != 1 {
		t.Errorf("one-shot task fired again")
	}
}

func TestSchedulerEveryCatchesUp(t *testing.T) {
	s := NewScheduler()
	count := 0
	s.Every(5*time.Millisecond, func() { count++ })

	// One 60 Hz tick covers three full 5ms intervals
	s.Advance(time.Second / 60)
	if count != 3 {
		t.Errorf("count after 16.6ms = %d, expected 3", count)
	}

	s.Advance(time.Second / 60)
	if count != 6 {
		t.Errorf("count after 33.3ms = %d, expected 6", count)
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler()
	count := 0
	task := s.Every(10*time.Millisecond, func() { count++ })

	s.Advance(25 * time.Millisecond)
	task.Cancel()
	s.Advance(100 * time.Millisecond)

	if count != 2 {
		t.Errorf("count = %d, expected 2", count)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, expected 0", s.Pending())
	}

	var nilTask *Task
	nilTask.Cancel() // must not panic
	if nilTask.Active() {
		t.Error("nil task should not be active")
	}
}

func TestSchedulerCallbackCancelsOther(t *testing.T) {
	s := NewScheduler()
	var ticks int
	mover := s.Every(5*time.Millisecond, func() { ticks++ })
	s.After(12*time.Millisecond, func() { mover.Cancel() })

	s.Advance(50 * time.Millisecond)

	// Fires at 5 and 10, cancelled at 12
	if ticks != 2 {
		t.Errorf("ticks = %d, expected 2", ticks)
	}
}

func TestSchedulerOrdering(t *testing.T) {
	s := NewScheduler()
	var order []string
	s.After(20*time.Millisecond, func() { order = append(order, "b") })
	s.After(10*time.Millisecond, func() { order = append(order, "a") })
	s.After(20*time.Millisecond, func() { order = append(order, "c") })

	s.Advance(time.Second)

	want := []string{"a", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, expected %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order = %v, expected %v", order, want)
			break
		}
	}
}

func TestSchedulerCallbackSchedules(t *testing.T) {
	s := NewScheduler()
	var at []time.Duration
	s.After(10*time.Millisecond, func() {
		at = append(at, s.Now())
		s.After(10*time.Millisecond, func() { at = append(at, s.Now()) })
	})

	s.Advance(25 * time.Millisecond)

	if len(at) != 2 || at[0] != 10*time.Millisecond || at[1] != 20*time.Millisecond {
		t.Errorf("fire times = %v, expected [10ms 20ms]", at)
	}
	if s.Now() != 25*time.Millisecond {
		t.Errorf("Now() = %v, expected 25ms", s.Now())
	}
}

func TestSchedulerReset(t *testing.T) {
	s := NewScheduler()
	fired := false
	task := s.After(time.Millisecond, func() { fired = true })

	s.Reset()
	s.Advance(time.Second)

	if fired || task.Active() {
		t.Error("Reset should cancel pending tasks")
	}
	if s.Now() != time.Second {
		t.Errorf("Now() = %v, expected 1s after reset+advance", s.Now())
	}
}

func TestSchedulerEveryPanicsOnZero(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Every(0) should panic")
		}
	}()
	NewScheduler().Every(0, func() {})
}
