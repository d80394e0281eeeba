// Package weekly schedules and produces the weekly summary: a gate that
// matches the configured weekday/hour, and an aggregator that folds a
// window of daily reports into one report.
package weekly

import (
	"strconv"
	"strings"
	"time"
)

var weekdayNames = map[string]int{
	"mon": 1, "monday": 1,
	"tue": 2, "tues": 2, "tuesday": 2,
	"wed": 3, "wednesday": 3,
	"thu": 4, "thurs": 4, "thursday": 4,
	"fri": 5, "friday": 5,
	"sat": 6, "saturday": 6,
	"sun": 7, "sunday": 7,
}

// ParseWeekday parses a weekday name ("mon".."sunday", case-insensitive)
// or an ISO weekday number 1-7 (Monday=1). A bare 0 is tolerated as a
// zero-based Monday; no other zero-based value is.
func ParseWeekday(value string) (int, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(value); err == nil {
		if n >= 1 && n <= 7 {
			return n, true
		}
		if n == 0 {
			return 1, true
		}
		return 0, false
	}
	if d, ok := weekdayNames[value]; ok {
		return d, true
	}
	return 0, false
}

// Gate decides whether the weekly aggregation runs this invocation. The
// hourly trigger cadence is expected to miss most hours; a mismatch is a
// skip, not an error.
type Gate struct {
	Enforce bool
	Day     string
	HourUTC int
}

// ShouldRun reports whether aggregation should run at the given time.
// The current time is injected rather than read so schedules are
// testable. With enforcement off the gate always answers run.
func (g Gate) ShouldRun(now time.Time) bool {
	if !g.Enforce {
		return true
	}
	day, ok := ParseWeekday(g.Day)
	if !ok {
		return false
	}
	now = now.UTC()
	if now.Hour() != g.HourUTC {
		return false
	}
	return isoWeekday(now) == day
}

// isoWeekday returns the ISO weekday (Monday=1 .. Sunday=7).
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
