// Package dateutil provides the calendar arithmetic used by chore
// scheduling: period boundaries, month-end resolution, and next-occurrence
// searches. All functions are pure and work in the location of their input.
package dateutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// StartOfDay returns midnight at the start of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// StartOfWeek returns midnight on the Sunday starting t's week.
func StartOfWeek(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}

// EndOfWeek returns the last instant of t's week (Saturday night).
func EndOfWeek(t time.Time) time.Time {
	return StartOfWeek(t).AddDate(0, 0, 7).Add(-time.Nanosecond)
}

// StartOfMonth returns midnight on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns the last instant of t's month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// StartOfYear returns midnight on January 1 of t's year.
func StartOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

// EndOfYear returns the last instant of t's year.
func EndOfYear(t time.Time) time.Time {
	return StartOfYear(t).AddDate(1, 0, 0).Add(-time.Nanosecond)
}

// LastDayOfMonth returns the number of days in the given month, accounting
// for leap years.
func LastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// NextWeekday returns the next calendar day with the given weekday strictly
// after t, preserving t's clock time. If t itself falls on that weekday the
// result is 7 days later.
func NextWeekday(t time.Time, wd time.Weekday) time.Time {
	offset := (int(wd) - int(t.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	return t.AddDate(0, 0, offset)
}

// NextMonthDay returns the next occurrence of the given day-of-month
// strictly after t's calendar day, preserving t's clock time. Days past the
// end of the target month clamp to that month's last day, so day 31 lands
// on Feb 28 (or 29 in a leap year).
func NextMonthDay(t time.Time, day int) time.Time {
	clamped := day
	if last := LastDayOfMonth(t.Year(), t.Month()); clamped > last {
		clamped = last
	}
	if clamped > t.Day() {
		return time.Date(t.Year(), t.Month(), clamped,
			t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	}

	next := StartOfMonth(t).AddDate(0, 1, 0)
	clamped = day
	if last := LastDayOfMonth(next.Year(), next.Month()); clamped > last {
		clamped = last
	}
	return time.Date(next.Year(), next.Month(), clamped,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// NextLastDayOfMonth returns the next month-end strictly after t's calendar
// day: this month's last day unless t is already on it, in which case next
// month's last day. Clock time is preserved.
func NextLastDayOfMonth(t time.Time) time.Time {
	last := LastDayOfMonth(t.Year(), t.Month())
	if t.Day() < last {
		return time.Date(t.Year(), t.Month(), last,
			t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	}
	next := StartOfMonth(t).AddDate(0, 1, 0)
	last = LastDayOfMonth(next.Year(), next.Month())
	return time.Date(next.Year(), next.Month(), last,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// At combines t's calendar day with an explicit clock time.
func At(t time.Time, hour, minute int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
}

// ParseClock parses an "HH:MM" string.
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time: %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour: %q", parts[0])
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute: %q", parts[1])
	}
	return hour, minute, nil
}

// FormatClock formats an hour and minute as "HH:MM".
func FormatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
