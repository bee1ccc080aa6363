package dateutil

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestPeriodBounds(t *testing.T) {
	// Wednesday, mid-month.
	ref := date(2026, time.March, 18, 14, 30)

	if got := StartOfDay(ref); !got.Equal(date(2026, time.March, 18, 0, 0)) {
		t.Errorf("StartOfDay = %v", got)
	}
	if got := EndOfDay(ref); got.Day() != 18 || got.Hour() != 23 {
		t.Errorf("EndOfDay = %v", got)
	}
	if got := StartOfWeek(ref); got.Weekday() != time.Sunday || got.Day() != 15 {
		t.Errorf("StartOfWeek = %v", got)
	}
	if got := EndOfWeek(ref); got.Weekday() != time.Saturday || got.Day() != 21 {
		t.Errorf("EndOfWeek = %v", got)
	}
	if got := StartOfMonth(ref); got.Day() != 1 || got.Month() != time.March {
		t.Errorf("StartOfMonth = %v", got)
	}
	if got := EndOfMonth(ref); got.Day() != 31 || got.Month() != time.March {
		t.Errorf("EndOfMonth = %v", got)
	}
	if got := StartOfYear(ref); got.Month() != time.January || got.Day() != 1 {
		t.Errorf("StartOfYear = %v", got)
	}
	if got := EndOfYear(ref); got.Month() != time.December || got.Day() != 31 {
		t.Errorf("EndOfYear = %v", got)
	}
}

func TestLastDayOfMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2026, time.January, 31},
		{2026, time.February, 28},
		{2028, time.February, 29}, // leap
		{2100, time.February, 28}, // century non-leap
		{2026, time.April, 30},
		{2026, time.December, 31},
	}
	for _, tt := range tests {
		if got := LastDayOfMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("LastDayOfMonth(%d, %v) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestNextWeekday(t *testing.T) {
	// 2026-03-18 is a Wednesday.
	ref := date(2026, time.March, 18, 9, 0)

	got := NextWeekday(ref, time.Friday)
	if got.Day() != 20 || got.Weekday() != time.Friday {
		t.Errorf("next Friday = %v", got)
	}
	if got.Hour() != 9 {
		t.Errorf("clock time not preserved: %v", got)
	}

	// Same weekday means next week, not same day.
	got = NextWeekday(ref, time.Wednesday)
	if got.Day() != 25 {
		t.Errorf("next Wednesday from Wednesday = %v, want the 25th", got)
	}

	// Wrap across the weekend.
	got = NextWeekday(ref, time.Monday)
	if got.Day() != 23 {
		t.Errorf("next Monday = %v, want the 23rd", got)
	}
}

func TestNextMonthDay(t *testing.T) {
	// Target day ahead in the current month.
	got := NextMonthDay(date(2026, time.March, 10, 8, 0), 25)
	if got.Month() != time.March || got.Day() != 25 {
		t.Errorf("got %v, want March 25", got)
	}

	// Target day already passed; roll to next month.
	got = NextMonthDay(date(2026, time.March, 25, 8, 0), 10)
	if got.Month() != time.April || got.Day() != 10 {
		t.Errorf("got %v, want April 10", got)
	}

	// Same day rolls forward (strictly after).
	got = NextMonthDay(date(2026, time.March, 10, 8, 0), 10)
	if got.Month() != time.April || got.Day() != 10 {
		t.Errorf("got %v, want April 10", got)
	}

	// Day 31 clamps to February's length.
	got = NextMonthDay(date(2026, time.January, 31, 8, 0), 31)
	if got.Month() != time.February || got.Day() != 28 {
		t.Errorf("got %v, want Feb 28", got)
	}

	// Leap year February clamps to the 29th.
	got = NextMonthDay(date(2028, time.January, 31, 8, 0), 31)
	if got.Month() != time.February || got.Day() != 29 {
		t.Errorf("got %v, want Feb 29", got)
	}

	// Clamped day still ahead within the current month.
	got = NextMonthDay(date(2026, time.February, 26, 8, 0), 31)
	if got.Month() != time.February || got.Day() != 28 {
		t.Errorf("got %v, want Feb 28", got)
	}
}

func TestNextLastDayOfMonth(t *testing.T) {
	// Mid-month: this month's last day.
	got := NextLastDayOfMonth(date(2026, time.February, 10, 8, 0))
	if got.Month() != time.February || got.Day() != 28 {
		t.Errorf("got %v, want Feb 28", got)
	}

	// Already on the last day: next month's last day.
	got = NextLastDayOfMonth(date(2026, time.February, 28, 8, 0))
	if got.Month() != time.March || got.Day() != 31 {
		t.Errorf("got %v, want March 31", got)
	}

	// Leap February.
	got = NextLastDayOfMonth(date(2028, time.February, 1, 8, 0))
	if got.Month() != time.February || got.Day() != 29 {
		t.Errorf("got %v, want Feb 29", got)
	}
}

func TestAt(t *testing.T) {
	got := At(date(2026, time.March, 18, 3, 3), 18, 30)
	want := date(2026, time.March, 18, 18, 30)
	if !got.Equal(want) {
		t.Errorf("At = %v, want %v", got, want)
	}
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("18:05")
	if err != nil {
		t.Fatalf("ParseClock error: %v", err)
	}
	if h != 18 || m != 5 {
		t.Errorf("got %d:%d, want 18:5", h, m)
	}

	for _, bad := range []string{"", "18", "24:00", "12:60", "ab:cd", "1:2:3"} {
		if _, _, err := ParseClock(bad); err == nil {
			t.Errorf("ParseClock(%q) succeeded, want error", bad)
		}
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(7, 5); got != "07:05" {
		t.Errorf("FormatClock = %q, want 07:05", got)
	}
}
