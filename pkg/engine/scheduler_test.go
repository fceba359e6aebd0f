package engine

import (
	"testing"
	"time"
)

func TestManualSchedulerFireDeliversOnce(t *testing.T) {
	s := &ManualScheduler{}
	ran := 0
	s.Schedule(time.Millisecond, func() { ran++ })

	if !s.Pending() {
		t.Fatal("Pending() = false after Schedule")
	}
	if !s.Fire() {
		t.Fatal("Fire() = false, want delivery")
	}
	if ran != 1 {
		t.Fatalf("callback ran %d times, want 1", ran)
	}
	if s.Fire() {
		t.Error("second Fire() = true, want no pending callback")
	}
}

func TestManualSchedulerRescheduleReplaces(t *testing.T) {
	s := &ManualScheduler{}
	var got string
	s.Schedule(time.Millisecond, func() { got = "first" })
	s.Schedule(time.Millisecond, func() { got = "second" })

	s.Fire()
	if got != "second" {
		t.Errorf("delivered %q, want the latest scheduled callback", got)
	}
}

func TestManualSchedulerCancelIsScoped(t *testing.T) {
	s := &ManualScheduler{}
	ran := false
	cancelFirst := s.Schedule(time.Millisecond, func() {})
	s.Schedule(time.Millisecond, func() { ran = true })

	// The stale cancel handle must not clear the newer callback.
	cancelFirst()
	if !s.Pending() {
		t.Fatal("stale cancel cleared the replacement callback")
	}
	s.Fire()
	if !ran {
		t.Error("replacement callback did not run")
	}
}

func TestManualSchedulerCancelClearsOwn(t *testing.T) {
	s := &ManualScheduler{}
	cancel := s.Schedule(time.Millisecond, func() { t.Error("canceled callback ran") })
	cancel()

	if s.Pending() {
		t.Error("Pending() = true after cancel")
	}
	if s.Fire() {
		t.Error("Fire() delivered a canceled callback")
	}
}

func TestTimerSchedulerFires(t *testing.T) {
	s := TimerScheduler{}
	done := make(chan struct{})
	s.Schedule(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer callback never fired")
	}
}

func TestTimerSchedulerCancel(t *testing.T) {
	s := TimerScheduler{}
	fired := make(chan struct{}, 1)
	cancel := s.Schedule(50*time.Millisecond, func() { fired <- struct{}{} })
	cancel()

	select {
	case <-fired:
		t.Fatal("canceled timer fired")
	case <-time.After(150 * time.Millisecond):
	}
}
