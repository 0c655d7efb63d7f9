// Package period resolves anchor-date billing periods.
//
// A subscription is billed on a recurring day-of-month taken from its
// anchor date. Months are shorter than the anchor day often enough that
// every function here clamps to the actual month length: an anchor on
// the 31st bills on Feb 28 (Feb 29 in leap years) and on the 30th of
// 30-day months. All functions are pure and total; end-of-month anchors
// are the normal case, not an error.
package period

import (
	"time"
)

// Period is the interval being billed. Start is at start of day, End at
// end of day, and both bounds are inclusive.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls within the period, bounds included.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Duration returns the wall-clock length of the period.
func (p Period) Duration() time.Duration {
	return p.End.Sub(p.Start)
}

func (p Period) String() string {
	return p.Start.Format("2006-01-02") + " to " + p.End.Format("2006-01-02")
}

// Resolve finds the month-long billing period containing reference for
// the given anchor date. The period starts on the anchor's day-of-month
// clamped to the reference month's length and ends the day before the
// next cycle's start day, end of day.
func Resolve(reference, anchor time.Time) Period {
	startDay := minInt(daysInMonth(reference), anchor.Day())
	start := startOfDay(withDay(reference, startDay))

	// The clamped day may land after the reference, which means the
	// running period started in the previous month.
	if start.After(reference) {
		prev := addClampedMonths(start, -1)
		day := maxInt(prev.Day(), anchor.Day())
		day = minInt(day, daysInMonth(prev))
		start = startOfDay(withDay(prev, day))
	}

	next := addClampedMonths(start, 1)
	endDay := minInt(daysInMonth(next), anchor.Day())
	end := endOfDay(withDay(next, endDay).AddDate(0, 0, -1))

	return Period{Start: start, End: end}
}

// Next returns the billing period immediately after the one containing
// reference.
func Next(reference, anchor time.Time) Period {
	current := Resolve(reference, anchor)
	return Resolve(current.End.AddDate(0, 0, 1), anchor)
}

// Previous returns the billing period immediately before the one
// containing reference.
func Previous(reference, anchor time.Time) Period {
	current := Resolve(reference, anchor)
	return Resolve(current.Start.AddDate(0, 0, -1), anchor)
}

// addClampedMonths shifts t by the given number of months, clamping the
// day-of-month to the length of the target month. time.AddDate is not
// used directly because it normalizes Jan 31 + 1 month to Mar 2/3
// instead of Feb 28/29.
func addClampedMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()

	newY := y
	newM := time.Month(int(m) + months)
	for newM > 12 {
		newM -= 12
		newY++
	}
	for newM < 1 {
		newM += 12
		newY--
	}

	firstOfNextMonth := time.Date(newY, newM+1, 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfNextMonth.AddDate(0, 0, -1).Day()
	if d > lastDay {
		d = lastDay
	}

	h, min, sec := t.Clock()
	return time.Date(newY, newM, d, h, min, sec, t.Nanosecond(), t.Location())
}

// daysInMonth returns the number of days in t's month.
func daysInMonth(t time.Time) int {
	firstOfNextMonth := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
	return firstOfNextMonth.AddDate(0, 0, -1).Day()
}

func withDay(t time.Time, day int) time.Time {
	return time.Date(t.Year(), t.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
