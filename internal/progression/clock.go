// Package progression implements the pure rules of the habit game:
// XP and leveling, daily streaks, achievement evaluation and daily
// mission progress. Nothing in this package performs I/O; the service
// layer loads state, calls in here, and persists the results.
//
// All date comparisons use UTC calendar dates. This is a fixed
// convention: a completion "counts for today" based on the UTC day it
// was recorded in, regardless of the client's local timezone.
package progression

import (
	"fmt"
	"time"
)

// Clock supplies the current time. The orchestrator uses SystemClock;
// tests substitute a fixed clock to pin the calendar day.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock is the production Clock backed by time.Now in UTC.
var SystemClock Clock = systemClock{}

// Date is a civil calendar date with no time-of-day component.
// Comparisons with == are exact day equality.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current UTC date according to the given clock.
func Today(c Clock) Date { return DateOf(c.Now()) }

// AddDays returns the date n days after d (n may be negative).
// Month and year boundaries are normalized by the time package.
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

// Time returns midnight UTC of the date, suitable for storing in a
// DATE column.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}
