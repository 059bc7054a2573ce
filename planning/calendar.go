package planning

import (
	"strings"
	"time"
)

// =============================================================================
// DATE - Day-granularity calendar date (UTC)
// =============================================================================

// DateLayout is the canonical date key format. Every map key and every
// date comparison in this package uses it, so lexicographic string
// ordering equals chronological ordering.
const DateLayout = "2006-01-02"

// Date is a calendar date at day granularity. The zero value is the
// zero time.
type Date struct {
	t time.Time
}

// NewDate builds a date from its components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a canonical YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t: t}, nil
}

// Today returns the current wall-clock date. Engine entry points take
// an explicit start date instead of calling this, so only callers at
// the edges (HTTP handlers, CLI) need it.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), now.Month(), now.Day())
}

func (d Date) String() string     { return d.t.Format(DateLayout) }
func (d Date) Year() int          { return d.t.Year() }
func (d Date) Month() time.Month  { return d.t.Month() }
func (d Date) Day() int           { return d.t.Day() }
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) IsZero() bool       { return d.t.IsZero() }

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }

// MonthLabel renders the month for warnings, e.g. "JULY 2026".
func (d Date) MonthLabel() string {
	return strings.ToUpper(d.t.Format("January 2006"))
}

// IsBusinessDay is false for Saturday and Sunday, true otherwise.
// There is no holiday calendar.
func (d Date) IsBusinessDay() bool {
	wd := d.t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// NextBusinessDay advances to the following business day. It is
// strictly "next": the input date is never returned, even when it is
// itself a business day.
func NextBusinessDay(d Date) Date {
	next := d.AddDays(1)
	for !next.IsBusinessDay() {
		next = next.AddDays(1)
	}
	return next
}

// BusinessDaysOfMonth returns the canonical keys of every business day
// in the given month, ascending.
func BusinessDaysOfMonth(year int, month time.Month) []string {
	var days []string
	d := NewDate(year, month, 1)
	for d.Month() == month {
		if d.IsBusinessDay() {
			days = append(days, d.String())
		}
		d = d.AddDays(1)
	}
	return days
}
