/*
calendar.go - Working-day calendar

PURPOSE:
  Answers "is this a working day" and walks bounded runs of working
  days around a date. This is the leaf dependency of every release-date
  calculation: hard-stop windows, licence start dates and early-release
  checks are all expressed in working days, not calendar days.

NON-WORKING DAYS:
  Saturday, Sunday, or any member of the supplied bank-holiday set.
  The set is supplied by the caller (see the bankholidays package for
  the cached gov.uk source); this component performs no I/O.

SEQUENCES:
  WorkingDaysBefore/After return lazy, restartable sequences. They are
  conceptually infinite: callers must bound them with Take(n) or a
  counted loop. A long bank-holiday run only makes Next() skip further,
  it never terminates the sequence.
*/
package engine

// =============================================================================
// HOLIDAY SET
// =============================================================================

// HolidaySet is a materialized set of bank-holiday dates.
type HolidaySet map[Date]struct{}

// NewHolidaySet builds a set from the given dates.
func NewHolidaySet(dates ...Date) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return set
}

// Contains reports whether d is in the set.
func (hs HolidaySet) Contains(d Date) bool {
	_, ok := hs[d]
	return ok
}

// =============================================================================
// WORKING DAY CALENDAR
// =============================================================================

// WorkingDayCalendar decides working days against a bank-holiday set.
type WorkingDayCalendar struct {
	holidays HolidaySet
}

// NewWorkingDayCalendar creates a calendar over the given holiday set.
// A nil set means weekends are the only non-working days.
func NewWorkingDayCalendar(holidays HolidaySet) *WorkingDayCalendar {
	return &WorkingDayCalendar{holidays: holidays}
}

// IsNonWorkingDay reports whether d is a weekend or bank holiday.
func (c *WorkingDayCalendar) IsNonWorkingDay(d Date) bool {
	return d.IsWeekend() || c.holidays.Contains(d)
}

// WorkingDaysBefore returns the working days strictly before d,
// nearest first. The sequence is lazy and restartable.
func (c *WorkingDayCalendar) WorkingDaysBefore(d Date) *WorkingDaySeq {
	return &WorkingDaySeq{cal: c, cursor: d, step: -1}
}

// WorkingDaysAfter returns the working days strictly after d,
// nearest first.
func (c *WorkingDayCalendar) WorkingDaysAfter(d Date) *WorkingDaySeq {
	return &WorkingDaySeq{cal: c, cursor: d, step: 1}
}

// NthWorkingDayBefore returns the n-th working day strictly before d.
// n must be >= 1; the result is never d itself.
func (c *WorkingDayCalendar) NthWorkingDayBefore(n int, d Date) Date {
	return c.WorkingDaysBefore(d).Nth(n)
}

// NthWorkingDayAfter returns the n-th working day strictly after d.
func (c *WorkingDayCalendar) NthWorkingDayAfter(n int, d Date) Date {
	return c.WorkingDaysAfter(d).Nth(n)
}

// =============================================================================
// WORKING DAY SEQUENCE
// =============================================================================

// WorkingDaySeq walks working days away from an origin date, one call
// to Next at a time. Obtain a fresh sequence to restart.
type WorkingDaySeq struct {
	cal    *WorkingDayCalendar
	cursor Date
	step   int // -1 walks backwards, +1 forwards
}

// Next advances to the next working day and returns it.
func (s *WorkingDaySeq) Next() Date {
	for {
		s.cursor = s.cursor.AddDays(s.step)
		if !s.cal.IsNonWorkingDay(s.cursor) {
			return s.cursor
		}
	}
}

// Take returns the next n working days.
func (s *WorkingDaySeq) Take(n int) []Date {
	out := make([]Date, n)
	for i := range out {
		out[i] = s.Next()
	}
	return out
}

// Nth returns the n-th working day from the sequence's origin.
// n must be >= 1.
func (s *WorkingDaySeq) Nth(n int) Date {
	if n < 1 {
		panic("engine: working day offset must be >= 1")
	}
	var d Date
	for i := 0; i < n; i++ {
		d = s.Next()
	}
	return d
}
