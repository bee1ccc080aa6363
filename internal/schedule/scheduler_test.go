package schedule

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func testScheduler(cfg Config) *Scheduler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(nil, nil, cfg, logger)
}

func TestRecurringEndDate(t *testing.T) {
	s := testScheduler(Config{HorizonDays: 31})
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	s.SetNow(func() time.Time { return now })

	got := s.RecurringEndDate()
	want := time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("RecurringEndDate = %v, want %v", got, want)
	}
}

func TestShouldGenerateNextMonth(t *testing.T) {
	s := testScheduler(Config{TriggerDays: 3})

	tests := []struct {
		day  int
		want bool
	}{
		{15, false},
		{28, false}, // March has 31 days; trigger opens on the 29th
		{29, true},
		{31, true},
	}
	for _, tt := range tests {
		s.SetNow(func() time.Time {
			return time.Date(2026, time.March, tt.day, 9, 0, 0, 0, time.UTC)
		})
		if got := s.ShouldGenerateNextMonth(); got != tt.want {
			t.Errorf("day %d: ShouldGenerateNextMonth = %v, want %v", tt.day, got, tt.want)
		}
	}
}

func TestShouldGenerateNextMonthShortMonth(t *testing.T) {
	s := testScheduler(Config{TriggerDays: 3})
	// Feb 26 2026: 28-day month, inside the last 3 days.
	s.SetNow(func() time.Time {
		return time.Date(2026, time.February, 26, 9, 0, 0, 0, time.UTC)
	})
	if !s.ShouldGenerateNextMonth() {
		t.Error("Feb 26 should be inside the trigger window of a 28-day month")
	}
}

func TestNextOccurrencePassThroughs(t *testing.T) {
	s := testScheduler(Config{})
	ref := time.Date(2026, time.March, 18, 9, 0, 0, 0, time.UTC) // Wednesday

	if got := s.NextWeekday(ref, time.Friday); got.Day() != 20 {
		t.Errorf("NextWeekday = %v", got)
	}
	if got := s.NextMonthDay(ref, 31); got.Day() != 31 || got.Month() != time.March {
		t.Errorf("NextMonthDay = %v", got)
	}
	if got := s.NextLastDayOfMonth(ref); got.Day() != 31 || got.Month() != time.March {
		t.Errorf("NextLastDayOfMonth = %v", got)
	}
}

func TestDefaults(t *testing.T) {
	s := testScheduler(Config{})
	if s.cfg.HorizonDays != defaultHorizonDays {
		t.Errorf("HorizonDays = %d, want %d", s.cfg.HorizonDays, defaultHorizonDays)
	}
	if s.cfg.TriggerDays != defaultTriggerDays {
		t.Errorf("TriggerDays = %d, want %d", s.cfg.TriggerDays, defaultTriggerDays)
	}
	if s.cfg.Interval != defaultInterval {
		t.Errorf("Interval = %v, want %v", s.cfg.Interval, defaultInterval)
	}
}
