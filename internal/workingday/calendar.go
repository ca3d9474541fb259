package workingday

import "time"

// Calendar answers working-day questions against an immutable bank-holiday
// snapshot. Callers build a fresh Calendar from their holiday source per
// request; the Calendar itself never refreshes or caches anything.
type Calendar struct {
	holidays map[time.Time]struct{}
}

// NewCalendar creates a calendar from a list of bank-holiday dates.
// Input dates are normalized to UTC midnight before lookup.
func NewCalendar(holidays []time.Time) *Calendar {
	set := make(map[time.Time]struct{}, len(holidays))
	for _, h := range holidays {
		set[DateOnly(h)] = struct{}{}
	}
	return &Calendar{holidays: set}
}

// DateOnly truncates a timestamp to its calendar date at UTC midnight.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsWorkingDay reports whether d is a working day: not a Saturday, not a
// Sunday, and not in the bank-holiday set.
func (c *Calendar) IsWorkingDay(d time.Time) bool {
	d = DateOnly(d)
	if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		return false
	}
	_, holiday := c.holidays[d]
	return !holiday
}

// NextWorkingDay returns the first working day strictly after d.
func (c *Calendar) NextWorkingDay(d time.Time) time.Time {
	d = DateOnly(d).AddDate(0, 0, 1)
	for !c.IsWorkingDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// AddWorkingDays advances d by n working days. n = 0 returns d unchanged.
func (c *Calendar) AddWorkingDays(d time.Time, n int) time.Time {
	d = DateOnly(d)
	for i := 0; i < n; i++ {
		d = c.NextWorkingDay(d)
	}
	return d
}

// WorkingDaysBetween counts working days in the inclusive range [from, to].
// A to before from yields 0.
func (c *Calendar) WorkingDaysBetween(from, to time.Time) int {
	from, to = DateOnly(from), DateOnly(to)
	count := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if c.IsWorkingDay(d) {
			count++
		}
	}
	return count
}
