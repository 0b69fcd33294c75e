/*
time.go - Calendar date value type and clock abstraction

PURPOSE:
  Every calculation in this engine operates on whole calendar days.
  Date wraps time.Time normalized to midnight UTC so that two dates
  representing the same day always compare equal and can be used as
  map keys (the holiday set relies on this).

OPTIONALITY:
  Absent dates are a first-class, meaningful state in sentence data
  (no conditional release date means something, it is not an error).
  Absence is expressed as *Date == nil everywhere; every function's
  nil behavior is part of its contract.

CLOCK:
  "Today" is never read ambiently. Every component that compares
  against the current day takes a Clock, so tests can pin the day
  with FixedClock.

SEE ALSO:
  - calendar.go: Working-day arithmetic over Date
  - types.go: SentenceSnapshot and friends built from *Date
*/
package engine

import "time"

// =============================================================================
// DATE - Day-granularity value type
// =============================================================================

// Date is a calendar day, normalized to midnight UTC. The zero value is
// not a valid date; absent dates are represented as nil *Date.
type Date struct {
	t time.Time
}

// NewDate constructs a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses an ISO date (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Ptr returns a pointer to d. Convenience for building optional fields.
func (d Date) Ptr() *Date { return &d }

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return DateOf(d.t.AddDate(0, 0, n)) }
func (d Date) AddMonths(n int) Date { return DateOf(d.t.AddDate(0, n, 0)) }
func (d Date) AddYears(n int) Date  { return DateOf(d.t.AddDate(n, 0, 0)) }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }
func (d Date) Time() time.Time       { return d.t }

func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) String() string { return d.t.Format("2006-01-02") }

// Format formats the date with a time.Format layout.
func (d Date) Format(layout string) string { return d.t.Format(layout) }

// DatesEqual is nil-safe equality for optional dates: two nils are
// equal, one nil is not.
func DatesEqual(a, b *Date) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// =============================================================================
// CLOCK - Injectable source of "today"
// =============================================================================

// Clock supplies the current calendar day. Production code uses
// SystemClock; tests pin a day with FixedClock.
type Clock interface {
	Today() Date
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) Today() Date { return DateOf(time.Now()) }

// FixedClock always reports the same day.
type FixedClock struct {
	Day Date
}

func (c FixedClock) Today() Date { return c.Day }
