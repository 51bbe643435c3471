package engine

import "time"

// TimerID identifies an armed timer. The zero value never names a timer.
type TimerID uint64

type timer struct {
	id       TimerID
	deadline time.Duration
	interval time.Duration
	fn       func()
}

// Scheduler is a virtual clock with one-shot and periodic timers.
// Time only moves when Advance is called, so a host loop, a test or a
// headless simulation all drive it the same way.
type Scheduler struct {
	now    time.Duration
	lastID TimerID
	timers map[TimerID]*timer
}

// NewScheduler creates a scheduler at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{timers: make(map[TimerID]*timer)}
}

// Now returns the virtual time elapsed since the scheduler was created or reset.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Pending returns the number of armed timers.
func (s *Scheduler) Pending() int {
	return len(s.timers)
}

// After arms a one-shot timer. A zero delay fires during the current or
// next Advance call.
func (s *Scheduler) After(d time.Duration, fn func()) TimerID {
	if d < 0 {
		d = 0
	}
	return s.arm(d, 0, fn)
}

// Every arms a periodic timer whose first firing is one interval from now.
func (s *Scheduler) Every(interval time.Duration, fn func()) TimerID {
	if interval <= 0 {
		panic("engine: periodic timer needs a positive interval")
	}
	return s.arm(interval, interval, fn)
}

func (s *Scheduler) arm(delay, interval time.Duration, fn func()) TimerID {
	s.lastID++
	s.timers[s.lastID] = &timer{
		id:       s.lastID,
		deadline: s.now + delay,
		interval: interval,
		fn:       fn,
	}
	return s.lastID
}

// Cancel disarms a timer. It returns false if the timer already fired
// (one-shot) or was cancelled.
func (s *Scheduler) Cancel(id TimerID) bool {
	if _, ok := s.timers[id]; !ok {
		return false
	}
	delete(s.timers, id)
	return true
}

// Advance moves the clock forward by d, firing every timer that falls due
// in deadline order. Timers with equal deadlines fire in the order they
// were armed. Callbacks may arm or cancel timers; anything they arm that
// falls due within d fires in the same call. Returns the number of firings.
func (s *Scheduler) Advance(d time.Duration) int {
	if d < 0 {
		d = 0
	}
	target := s.now + d
	fired := 0
	for {
		t := s.nextDue(target)
		if t == nil {
			break
		}
		s.now = t.deadline
		if t.interval > 0 {
			t.deadline += t.interval
		} else {
			delete(s.timers, t.id)
		}
		t.fn()
		fired++
	}
	s.now = target
	return fired
}

func (s *Scheduler) nextDue(target time.Duration) *timer {
	var best *timer
	for _, t := range s.timers {
		if t.deadline > target {
			continue
		}
		if best == nil || t.deadline < best.deadline || (t.deadline == best.deadline && t.id < best.id) {
			best = t
		}
	}
	return best
}

// Reset cancels every timer and rewinds the clock to zero.
func (s *Scheduler) Reset() {
	s.now = 0
	s.timers = make(map[TimerID]*timer)
}
