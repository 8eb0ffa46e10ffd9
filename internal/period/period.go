// Package period converts calendar dates into canonical aggregation periods:
// ISO-8601 weeks keyed as "YYYY-Www" and calendar months keyed as "YYYY-MM".
// All functions are pure; callers supply the reference time.
package period

import (
	"errors"
	"fmt"
	"time"
)

// Type identifies the kind of aggregation period.
type Type string

const (
	TypeWeekly  Type = "weekly"
	TypeMonthly Type = "monthly"
)

// ParseType validates a period type string from the API.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeWeekly, TypeMonthly:
		return Type(s), nil
	default:
		return "", fmt.Errorf("unknown period type %q", s)
	}
}

var (
	// ErrMalformedKey means the key does not match "YYYY-Www" / "YYYY-MM".
	ErrMalformedKey = errors.New("malformed period key")
	// ErrNoSuchPeriod means the key is well-formed but names a period that
	// does not exist, such as week 53 of a 52-week ISO year.
	ErrNoSuchPeriod = errors.New("period does not exist")
)

// Period is a concrete aggregation window. Start and End are calendar dates
// (midnight UTC); the window is inclusive of both.
type Period struct {
	Type  Type
	Key   string
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls on a date within the period, inclusive.
func (p Period) Contains(t time.Time) bool {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(p.Start) && !d.After(p.End)
}

// ISOWeekOf returns the ISO-8601 week-numbering year and week of a date.
func ISOWeekOf(t time.Time) (isoYear, isoWeek int) {
	return t.ISOWeek()
}

// WeeksInYear returns 52 or 53 for the given ISO week-numbering year.
// December 28 is always in the last ISO week of its year.
func WeeksInYear(isoYear int) int {
	_, w := time.Date(isoYear, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return w
}

// WeekRange returns the Monday and Sunday of the given ISO week.
func WeekRange(isoYear, isoWeek int) (monday, sunday time.Time) {
	// January 4 is always inside ISO week 1.
	jan4 := time.Date(isoYear, time.January, 4, 0, 0, 0, 0, time.UTC)
	wd := int(jan4.Weekday())
	if wd == 0 { // Sunday
		wd = 7
	}
	week1Monday := jan4.AddDate(0, 0, -(wd - 1))
	monday = week1Monday.AddDate(0, 0, (isoWeek-1)*7)
	sunday = monday.AddDate(0, 0, 6)
	return monday, sunday
}

// MonthRange returns the first and last calendar day of a month.
func MonthRange(year int, month time.Month) (first, last time.Time) {
	first = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	// Day 0 of the next month is the last day of this one.
	last = time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	return first, last
}

// DaysInMonth returns the number of days in a month.
func DaysInMonth(year int, month time.Month) int {
	_, last := MonthRange(year, month)
	return last.Day()
}

// WeekKey formats an ISO week as "YYYY-Www".
func WeekKey(isoYear, isoWeek int) string {
	return fmt.Sprintf("%04d-W%02d", isoYear, isoWeek)
}

// MonthKey formats a month as "YYYY-MM".
func MonthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// Current returns the period of the given type containing now.
func Current(t Type, now time.Time) Period {
	switch t {
	case TypeWeekly:
		y, w := now.ISOWeek()
		mon, sun := WeekRange(y, w)
		return Period{Type: t, Key: WeekKey(y, w), Start: mon, End: sun}
	default:
		first, last := MonthRange(now.Year(), now.Month())
		return Period{Type: t, Key: MonthKey(now.Year(), now.Month()), Start: first, End: last}
	}
}

// Parse resolves a period key into a concrete Period. Keys that are
// syntactically valid but name a nonexistent period (week 53 of a 52-week
// year, month 13) fail with ErrNoSuchPeriod.
func Parse(t Type, key string) (Period, error) {
	switch t {
	case TypeWeekly:
		var year, week int
		if n, err := fmt.Sscanf(key, "%4d-W%2d", &year, &week); err != nil || n != 2 || len(key) != 8 {
			return Period{}, fmt.Errorf("%w: %q", ErrMalformedKey, key)
		}
		if week < 1 || week > WeeksInYear(year) {
			return Period{}, fmt.Errorf("%w: %s has no week %d", ErrNoSuchPeriod, key[:4], week)
		}
		mon, sun := WeekRange(year, week)
		return Period{Type: t, Key: WeekKey(year, week), Start: mon, End: sun}, nil
	case TypeMonthly:
		var year, month int
		if n, err := fmt.Sscanf(key, "%4d-%2d", &year, &month); err != nil || n != 2 || len(key) != 7 {
			return Period{}, fmt.Errorf("%w: %q", ErrMalformedKey, key)
		}
		if month < 1 || month > 12 {
			return Period{}, fmt.Errorf("%w: month %d", ErrNoSuchPeriod, month)
		}
		first, last := MonthRange(year, time.Month(month))
		return Period{Type: t, Key: MonthKey(year, time.Month(month)), Start: first, End: last}, nil
	default:
		return Period{}, fmt.Errorf("unknown period type %q", t)
	}
}

// Compare orders two periods of the same type by their keys. Zero-padded
// keys sort lexicographically in chronological order.
func Compare(a, b Period) int {
	switch {
	case a.Key < b.Key:
		return -1
	case a.Key > b.Key:
		return 1
	default:
		return 0
	}
}
