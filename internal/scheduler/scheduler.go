package scheduler

import (
	"context"
	"sync"
	"time"

	"task-list/internal/logging"
)

// Scheduler runs work after a delay. Completion order depends only on the
// delay each piece of work was scheduled with.
type Scheduler interface {
	// After runs fn once, delay from now, on its own goroutine.
	After(delay time.Duration, fn func())
	// Sleep blocks for delay or until ctx is done.
	Sleep(ctx context.Context, delay time.Duration) error
	// Wait blocks until every function passed to After has returned.
	Wait(ctx context.Context) error
}

// TimerScheduler implements Scheduler on the runtime timer.
type TimerScheduler struct {
	wg sync.WaitGroup
}

// New creates a TimerScheduler.
func New() *TimerScheduler {
	return &TimerScheduler{}
}

func (s *TimerScheduler) After(delay time.Duration, fn func()) {
	if delay < 0 {
		delay = 0
	}
	s.wg.Add(1)
	logging.Debugf("scheduler: queued work in %s\n", delay)

	time.AfterFunc(delay, func() {
		defer s.wg.Done()
		fn()
	})
}

func (s *TimerScheduler) Sleep(ctx context.Context, delay time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *TimerScheduler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}
