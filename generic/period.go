package generic

import "time"

// =============================================================================
// PERIOD - A closed time interval
// =============================================================================

// Period is the inclusive interval [Start, End].
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains returns true if t is within the period [Start, End].
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.Format(time.RFC3339) + ", " + p.End.Format(time.RFC3339) + "]"
}

// =============================================================================
// WINDOW - Named report periods
// =============================================================================

// Window names a reporting period relative to "now".
type Window string

const (
	WindowWeek    Window = "week"    // last 7 days up to now
	WindowMonth   Window = "month"   // calendar month containing now
	WindowQuarter Window = "quarter" // last 90 days up to now
)

// ParseWindow maps a query value to a Window. Unknown values mean month.
func ParseWindow(s string) Window {
	switch Window(s) {
	case WindowWeek, WindowQuarter:
		return Window(s)
	default:
		return WindowMonth
	}
}

// PeriodFor returns the period the window covers at now.
func (w Window) PeriodFor(now time.Time) Period {
	switch w {
	case WindowWeek:
		return Period{Start: now.Add(-7 * 24 * time.Hour), End: now}
	case WindowQuarter:
		return Period{Start: now.Add(-90 * 24 * time.Hour), End: now}
	default:
		return Period{Start: StartOfMonth(now), End: EndOfMonth(now)}
	}
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

// StartOfMonth returns midnight on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns the last nanosecond of t's month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}
