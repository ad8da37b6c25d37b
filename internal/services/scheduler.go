package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	applog "numa/internal/log"
)

// ParseClock parses a daily "HH:MM" time.
func ParseClock(s string) (int, int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, invalid("time must be HH:MM, got %q", s)
	}
	return t.Hour(), t.Minute(), nil
}

// NextOccurrence is the next hh:mm after now: today when it has not passed
// yet, tomorrow otherwise.
func NextOccurrence(now time.Time, hh, mm int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hh, mm, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// ArticleScheduler runs Job once a day at a configured local time. It owns a
// single timer; Start replaces any armed one.
type ArticleScheduler struct {
	Job     func(ctx context.Context) error
	Timeout time.Duration

	mu    sync.Mutex
	timer *time.Timer
	at    string
	next  time.Time
	gen   uint64 // bumped on Start/Stop so a stale timer never re-arms
	now   func() time.Time
}

func NewArticleScheduler(job func(ctx context.Context) error) *ArticleScheduler {
	return &ArticleScheduler{Job: job, Timeout: 2 * time.Minute, now: time.Now}
}

// Start arms the scheduler for hhmm, cancelling the previous timer first.
func (s *ArticleScheduler) Start(hhmm string) error {
	hh, mm, err := ParseClock(hhmm)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.at = hhmm
	s.armLocked(NextOccurrence(s.now(), hh, mm))
	applog.Info(nil, "scheduler.start", map[string]any{"at": hhmm, "next_run": s.next.Format(time.RFC3339)})
	return nil
}

func (s *ArticleScheduler) armLocked(at time.Time) {
	s.gen++
	gen := s.gen
	s.next = at
	s.timer = time.AfterFunc(at.Sub(s.now()), func() { s.fire(gen) })
}

func (s *ArticleScheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	job, timeout := s.Job, s.Timeout
	s.mu.Unlock()

	if job != nil {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		if err := job(ctx); err != nil {
			applog.Error(nil, "scheduler.run.fail", err, nil)
		} else {
			applog.Info(nil, "scheduler.run.ok", nil)
		}
		cancel()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.armLocked(s.next.Add(24 * time.Hour))
}

// Stop disarms the scheduler. Stopping an idle scheduler is a no-op.
func (s *ArticleScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		applog.Info(nil, "scheduler.stop", map[string]any{"at": s.at})
	}
	s.stopLocked()
}

func (s *ArticleScheduler) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.next = time.Time{}
}

func (s *ArticleScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// NextRun is the armed fire time, zero when stopped.
func (s *ArticleScheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// SchedulerStatus is what the admin panel shows.
type SchedulerStatus struct {
	Running bool   `json:"running"`
	At      string `json:"at,omitempty"`
	NextRun string `json:"nextRun,omitempty"`
}

func (s *ArticleScheduler) Status() SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer == nil {
		return SchedulerStatus{}
	}
	return SchedulerStatus{Running: true, At: s.at, NextRun: s.next.Format(time.RFC3339)}
}

// Apply arms or disarms the scheduler to match the AI settings.
func (s *ArticleScheduler) Apply(enabled bool, at string) error {
	if !enabled {
		s.Stop()
		return nil
	}
	if err := s.Start(at); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}
	return nil
}
