package engine

import "time"

// Scheduler defers a function call, returning a cancel handle. The
// coordinator uses it to coalesce bursts of resize notifications into one
// relayout pass: each new request cancels the previous timer and schedules a
// fresh one.
//
// Implementations must deliver the callback on the same goroutine that
// drives events into the coordinator, or arrange equivalent serialization;
// the coordinator itself performs no locking.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) (cancel func())
}

// TimerScheduler schedules on real timers via time.AfterFunc.
//
// time.AfterFunc fires on its own goroutine, so hosts using TimerScheduler
// must route the callback back onto their event loop if other coordinator
// calls can race with it. Single-goroutine hosts can use it directly.
type TimerScheduler struct{}

// Schedule implements Scheduler.
func (TimerScheduler) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// ManualScheduler queues callbacks for explicit delivery, for tests and for
// hosts that poll. Only the most recently scheduled callback is retained,
// matching the coordinator's cancel-and-reschedule usage.
type ManualScheduler struct {
	pending   func()
	pendingID int
	seq       int
}

// Schedule implements Scheduler.
func (s *ManualScheduler) Schedule(_ time.Duration, fn func()) func() {
	s.seq++
	id := s.seq
	s.pending = fn
	s.pendingID = id
	return func() {
		if s.pendingID == id {
			s.pending = nil
		}
	}
}

// Fire delivers the pending callback, if any, and reports whether one ran.
func (s *ManualScheduler) Fire() bool {
	fn := s.pending
	s.pending = nil
	if fn == nil {
		return false
	}
	fn()
	return true
}

// Pending reports whether a callback is queued.
func (s *ManualScheduler) Pending() bool { return s.pending != nil }
