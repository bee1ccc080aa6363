// Package schedule coordinates the recurring-chore horizon: deciding when
// to top up future instances, flagging overdue chores, and answering
// next-occurrence queries for callers that should not reach into the date
// utilities directly.
package schedule

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fernwell/choreboard/internal/chore"
	"github.com/fernwell/choreboard/internal/dateutil"
	"github.com/fernwell/choreboard/internal/generate"
	"github.com/fernwell/choreboard/internal/model"
)

// Config tunes the scheduler. Zero values fall back to the defaults.
type Config struct {
	// HorizonDays is how far ahead child instances must exist.
	HorizonDays int
	// TriggerDays is how many days before month end the next-month
	// generation should fire.
	TriggerDays int
	// Interval between background ticks.
	Interval time.Duration
}

const (
	defaultHorizonDays = 31
	defaultTriggerDays = 3
	defaultInterval    = time.Hour
)

type Scheduler struct {
	mu      sync.RWMutex
	svc     *chore.Service
	gen     *generate.Generator
	cfg     Config
	logger  *slog.Logger
	now     func() time.Time
	cancel  context.CancelFunc
	done    chan struct{}
	lastRun time.Time
}

func New(svc *chore.Service, gen *generate.Generator, cfg Config, logger *slog.Logger) *Scheduler {
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = defaultHorizonDays
	}
	if cfg.TriggerDays <= 0 {
		cfg.TriggerDays = defaultTriggerDays
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	return &Scheduler{svc: svc, gen: gen, cfg: cfg, logger: logger, now: time.Now}
}

// SetNow overrides the clock, for tests.
func (s *Scheduler) SetNow(now func() time.Time) { s.now = now }

// RecurringEndDate returns the point up to which child instances should
// exist at all times.
func (s *Scheduler) RecurringEndDate() time.Time {
	return s.now().AddDate(0, 0, s.cfg.HorizonDays)
}

// ShouldGenerateNextMonth reports whether the current date has entered the
// trigger window at the end of the month.
func (s *Scheduler) ShouldGenerateNextMonth() bool {
	now := s.now()
	last := dateutil.LastDayOfMonth(now.Year(), now.Month())
	return now.Day() > last-s.cfg.TriggerDays
}

// Schedule sets a chore's due date.
func (s *Scheduler) Schedule(actorID, choreID int64, due time.Time) (*model.Chore, error) {
	return s.svc.Reschedule(actorID, choreID, due)
}

// Reschedule is an alias of Schedule kept for call-site clarity.
func (s *Scheduler) Reschedule(actorID, choreID int64, due time.Time) (*model.Chore, error) {
	return s.svc.Reschedule(actorID, choreID, due)
}

// Overdue returns the pending chores whose due date has passed.
func (s *Scheduler) Overdue() ([]model.Chore, error) {
	return s.svc.Overdue()
}

// NextWeekday, NextMonthDay, and NextLastDayOfMonth expose the calendar
// next-occurrence helpers to the application layer.
func (s *Scheduler) NextWeekday(after time.Time, wd time.Weekday) time.Time {
	return dateutil.NextWeekday(after, wd)
}

func (s *Scheduler) NextMonthDay(after time.Time, day int) time.Time {
	return dateutil.NextMonthDay(after, day)
}

func (s *Scheduler) NextLastDayOfMonth(after time.Time) time.Time {
	return dateutil.NextLastDayOfMonth(after)
}

// Start begins the background loop: every tick it marks overdue chores
// missed and, inside the month-end trigger window, tops up the next month
// of instances.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Tick()
			}
		}
	}()
}

// Stop gracefully stops the background loop.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Tick runs one scheduler pass. Exported so app-foreground style callers
// can run it on demand.
func (s *Scheduler) Tick() {
	if n, err := s.svc.CheckOverdue(); err != nil {
		s.logger.Error("overdue check", "marked", n, "error", err)
	} else if n > 0 {
		s.logger.Info("overdue check", "marked", n)
	}

	if !s.ShouldGenerateNextMonth() {
		return
	}
	// Top-ups are idempotent, but once per day is plenty.
	s.mu.Lock()
	today := dateutil.StartOfDay(s.now())
	if s.lastRun.Equal(today) {
		s.mu.Unlock()
		return
	}
	s.lastRun = today
	s.mu.Unlock()

	if n, err := s.gen.GenerateAll(nil, s.RecurringEndDate()); err != nil {
		s.logger.Error("instance top-up", "created", n, "error", err)
	} else {
		s.logger.Info("instance top-up", "created", n)
	}
}
