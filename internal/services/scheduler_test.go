package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	for _, in := range []string{"00:00", "09:05", "23:59"} {
		if _, _, err := ParseClock(in); err != nil {
			t.Fatalf("%q: %v", in, err)
		}
	}
	for _, in := range []string{"", "24:00", "12:60", "9:5x", "noon"} {
		if _, _, err := ParseClock(in); !errors.Is(err, ErrValidation) {
			t.Fatalf("%q: want validation error, got %v", in, err)
		}
	}
	hh, mm, _ := ParseClock("07:45")
	if hh != 7 || mm != 45 {
		t.Fatalf("got %d:%d", hh, mm)
	}
}

func TestNextOccurrence(t *testing.T) {
	loc := time.FixedZone("TRT", 3*3600)
	now := time.Date(2025, 3, 10, 8, 30, 0, 0, loc)

	if got := NextOccurrence(now, 9, 0); !got.Equal(time.Date(2025, 3, 10, 9, 0, 0, 0, loc)) {
		t.Fatalf("later today: got %v", got)
	}
	if got := NextOccurrence(now, 8, 30); !got.Equal(time.Date(2025, 3, 11, 8, 30, 0, 0, loc)) {
		t.Fatalf("exactly now rolls over: got %v", got)
	}
	if got := NextOccurrence(now, 6, 0); !got.Equal(time.Date(2025, 3, 11, 6, 0, 0, 0, loc)) {
		t.Fatalf("passed today: got %v", got)
	}
}

func fixedScheduler(t *testing.T, job func(ctx context.Context) error, now time.Time) *ArticleScheduler {
	t.Helper()
	s := NewArticleScheduler(job)
	s.now = func() time.Time { return now }
	t.Cleanup(s.Stop)
	return s
}

func TestScheduler_StartStop(t *testing.T) {
	// the fixed clock keeps the real timer hours away
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)
	s := fixedScheduler(t, nil, now)

	if s.IsRunning() || !s.NextRun().IsZero() {
		t.Fatal("new scheduler must be idle")
	}
	if err := s.Start("bad"); err == nil || s.IsRunning() {
		t.Fatal("invalid time must not arm")
	}
	if err := s.Start("20:00"); err != nil {
		t.Fatal(err)
	}
	if !s.IsRunning() || !s.NextRun().Equal(time.Date(2025, 3, 10, 20, 0, 0, 0, time.Local)) {
		t.Fatalf("armed at %v", s.NextRun())
	}
	st := s.Status()
	if !st.Running || st.At != "20:00" || st.NextRun == "" {
		t.Fatalf("status %+v", st)
	}

	// restarting replaces the timer
	if err := s.Start("21:30"); err != nil {
		t.Fatal(err)
	}
	if s.NextRun().Hour() != 21 {
		t.Fatalf("restart kept old time %v", s.NextRun())
	}

	s.Stop()
	s.Stop()
	if s.IsRunning() || s.Status().Running {
		t.Fatal("stop must disarm")
	}
}

func TestScheduler_FireRunsJobAndRearms(t *testing.T) {
	var runs atomic.Int32
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)
	s := fixedScheduler(t, func(ctx context.Context) error {
		runs.Add(1)
		if _, ok := ctx.Deadline(); !ok {
			t.Error("job context must carry a deadline")
		}
		return errors.New("model down")
	}, now)

	if err := s.Start("20:00"); err != nil {
		t.Fatal(err)
	}
	first := s.NextRun()
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	s.fire(gen)
	if runs.Load() != 1 {
		t.Fatalf("want 1 run, got %d", runs.Load())
	}
	if !s.NextRun().Equal(first.Add(24*time.Hour)) || !s.IsRunning() {
		t.Fatalf("a failed run must still re-arm for the next day, next=%v", s.NextRun())
	}

	// a timer from before Stop must not run the job
	s.Stop()
	s.fire(gen)
	if runs.Load() != 1 || s.IsRunning() {
		t.Fatal("stale timer ran")
	}
}

func TestScheduler_Apply(t *testing.T) {
	s := fixedScheduler(t, nil, time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local))
	if err := s.Apply(true, "10:00"); err != nil || !s.IsRunning() {
		t.Fatalf("apply enabled: %v", err)
	}
	if err := s.Apply(true, "99:00"); !errors.Is(err, ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	if err := s.Apply(false, ""); err != nil || s.IsRunning() {
		t.Fatal("apply disabled must stop")
	}
}
