package pattern

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Frequency of a recurring chore pattern.
type Frequency string

const (
	OneTime Frequency = "oneTime"
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

var validFrequencies = map[Frequency]bool{
	OneTime: true,
	Daily:   true,
	Weekly:  true,
	Monthly: true,
}

// Due time applied when a pattern string carries no HH:MM suffix.
const (
	DefaultHour   = 22
	DefaultMinute = 0
)

var weekdayNames = map[int]string{
	1: "Sunday",
	2: "Monday",
	3: "Tuesday",
	4: "Wednesday",
	5: "Thursday",
	6: "Friday",
	7: "Saturday",
}

// Pattern is a parsed recurrence rule. Weekdays are numbered 1 (Sunday)
// through 7 (Saturday), kept sorted and deduplicated. For monthly patterns
// exactly one of MonthDay (1-31) or LastDay is set.
type Pattern struct {
	Freq     Frequency
	Weekdays []int
	MonthDay int
	LastDay  bool
	Hour     int
	Minute   int
}

// Weekday converts a pattern weekday number to a time.Weekday.
func Weekday(n int) time.Weekday {
	return time.Weekday(n - 1)
}

// Parse parses a pattern string like "weekly:1,4:18:00", "monthly:last:22:00",
// or "daily:07:30". A missing time suffix defaults to 22:00. Any structural
// violation returns an error and no partial pattern.
func Parse(text string) (Pattern, error) {
	if text == "" {
		return Pattern{}, fmt.Errorf("empty pattern")
	}

	parts := strings.Split(text, ":")
	freq := Frequency(parts[0])
	if !validFrequencies[freq] {
		return Pattern{}, fmt.Errorf("unknown frequency: %q", parts[0])
	}

	p := Pattern{Freq: freq, Hour: DefaultHour, Minute: DefaultMinute}
	rest := parts[1:]

	switch freq {
	case Weekly:
		if len(rest) == 0 {
			return Pattern{}, fmt.Errorf("weekly pattern requires weekdays")
		}
		days, err := parseWeekdays(rest[0])
		if err != nil {
			return Pattern{}, err
		}
		p.Weekdays = days
		rest = rest[1:]

	case Monthly:
		if len(rest) == 0 {
			return Pattern{}, fmt.Errorf("monthly pattern requires a day")
		}
		if rest[0] == "last" {
			p.LastDay = true
		} else {
			day, err := strconv.Atoi(rest[0])
			if err != nil || day < 1 || day > 31 {
				return Pattern{}, fmt.Errorf("invalid day of month: %q", rest[0])
			}
			p.MonthDay = day
		}
		rest = rest[1:]
	}

	switch len(rest) {
	case 0:
		// No time suffix; keep the default.
	case 2:
		hour, minute, err := parseClock(rest[0], rest[1])
		if err != nil {
			return Pattern{}, err
		}
		p.Hour, p.Minute = hour, minute
	default:
		return Pattern{}, fmt.Errorf("malformed pattern: %q", text)
	}

	return p, nil
}

func parseWeekdays(s string) ([]int, error) {
	seen := make(map[int]bool)
	for _, tok := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil || n < 1 || n > 7 {
			return nil, fmt.Errorf("invalid weekday: %q", tok)
		}
		seen[n] = true
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("weekly pattern requires at least one weekday")
	}

	days := make([]int, 0, len(seen))
	for n := range seen {
		days = append(days, n)
	}
	sort.Ints(days)
	return days, nil
}

func parseClock(hh, mm string) (int, int, error) {
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour: %q", hh)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute: %q", mm)
	}
	return hour, minute, nil
}

// String serializes the pattern to its canonical text form. Weekdays are
// emitted sorted ascending and the time suffix is always present, so
// Parse(p.String()) round-trips exactly.
func (p Pattern) String() string {
	var parts []string
	parts = append(parts, string(p.Freq))

	switch p.Freq {
	case Weekly:
		days := make([]string, len(p.Weekdays))
		for i, d := range p.Weekdays {
			days[i] = strconv.Itoa(d)
		}
		parts = append(parts, strings.Join(days, ","))
	case Monthly:
		if p.LastDay {
			parts = append(parts, "last")
		} else {
			parts = append(parts, strconv.Itoa(p.MonthDay))
		}
	}

	parts = append(parts, fmt.Sprintf("%02d:%02d", p.Hour, p.Minute))
	return strings.Join(parts, ":")
}

// IsValid reports whether text parses as a pattern.
func IsValid(text string) bool {
	_, err := Parse(text)
	return err == nil
}

// Describe returns a human-readable description of the pattern.
func (p Pattern) Describe() string {
	at := fmt.Sprintf(" at %02d:%02d", p.Hour, p.Minute)
	switch p.Freq {
	case Daily:
		return "Repeats daily" + at
	case Weekly:
		var names []string
		for _, d := range p.Weekdays {
			names = append(names, weekdayNames[d][:3])
		}
		return "Repeats weekly on " + strings.Join(names, ", ") + at
	case Monthly:
		if p.LastDay {
			return "Repeats monthly on the last day" + at
		}
		return fmt.Sprintf("Repeats monthly on day %d%s", p.MonthDay, at)
	}
	return "Does not repeat"
}

// --- Builders ---
//
// Each builder validates typed inputs and returns the canonical pattern
// string, complete with time suffix.

func BuildDaily(hour, minute int) (string, error) {
	if err := checkClock(hour, minute); err != nil {
		return "", err
	}
	return Pattern{Freq: Daily, Hour: hour, Minute: minute}.String(), nil
}

func BuildWeekly(weekdays []int, hour, minute int) (string, error) {
	if err := checkClock(hour, minute); err != nil {
		return "", err
	}
	if len(weekdays) == 0 {
		return "", fmt.Errorf("weekly pattern requires at least one weekday")
	}
	seen := make(map[int]bool)
	for _, d := range weekdays {
		if d < 1 || d > 7 {
			return "", fmt.Errorf("invalid weekday: %d", d)
		}
		seen[d] = true
	}
	days := make([]int, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Ints(days)
	return Pattern{Freq: Weekly, Weekdays: days, Hour: hour, Minute: minute}.String(), nil
}

func BuildMonthly(day, hour, minute int) (string, error) {
	if err := checkClock(hour, minute); err != nil {
		return "", err
	}
	if day < 1 || day > 31 {
		return "", fmt.Errorf("invalid day of month: %d", day)
	}
	return Pattern{Freq: Monthly, MonthDay: day, Hour: hour, Minute: minute}.String(), nil
}

func BuildMonthlyLastDay(hour, minute int) (string, error) {
	if err := checkClock(hour, minute); err != nil {
		return "", err
	}
	return Pattern{Freq: Monthly, LastDay: true, Hour: hour, Minute: minute}.String(), nil
}

func checkClock(hour, minute int) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("invalid hour: %d", hour)
	}
	if minute < 0 || minute > 59 {
		return fmt.Errorf("invalid minute: %d", minute)
	}
	return nil
}
