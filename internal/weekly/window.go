package weekly

import (
	"fmt"
	"time"
)

// Window is the inclusive 7-day date range aggregated into one summary.
type Window struct {
	Start time.Time
	End   time.Time
}

// ComputeWindow derives the aggregation window from the current date:
// the end date is today when includeToday is set, otherwise yesterday,
// and the start date is six days earlier.
func ComputeWindow(today time.Time, includeToday bool) Window {
	end := dateOnly(today)
	if !includeToday {
		end = end.AddDate(0, 0, -1)
	}
	return Window{Start: end.AddDate(0, 0, -6), End: end}
}

// Contains reports whether d (compared by calendar date) falls in the
// window.
func (w Window) Contains(d time.Time) bool {
	d = dateOnly(d)
	return !d.Before(w.Start) && !d.After(w.End)
}

// Slug returns the week label "YYYY-Www" from the ISO week of the
// window start.
func (w Window) Slug() string {
	year, week := w.Start.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
