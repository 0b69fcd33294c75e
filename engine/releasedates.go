/*
releasedates.go - Release date and hard stop calculator

PURPOSE:
  Derives every date-driven decision for a case from a sentence
  snapshot: the authoritative licence start date, the hard stop window
  before release, the early-release flags, and the licence kind/type
  classification. This is where getting an edge case wrong has direct
  operational consequences, so each derivation keeps close to the
  operational rules it encodes.

LICENCE START DATE:
  The single authoritative release date used to drive everything else.
  HDC cases release on the curfew actual date, unadjusted. All other
  cases start from the conditional release date, shifted back to the
  nearest working day when it lands on a weekend or bank holiday, then
  reconciled against the confirmed release date (see licenceStartDate).

HARD STOP:
  The short pre-release window where normal licence preparation is
  replaced by an expedited process. It exists only for cases still
  releasing on the standard conditional-release-derived date: once a
  confirmed release date is recorded the release is already fixed
  (court order, HDC approval) and the short-notice process does not
  apply, so the hard stop dates are undefined.

EARLY RELEASE:
  A release date falling on Friday, Saturday, Sunday or a non-working
  day is eligible to be brought forward. Friday is deliberately treated
  as weekend-equivalent here even though it is a working day for every
  other calculation - do not "fix" the asymmetry.
*/
package engine

import "time"

// =============================================================================
// CLASSIFICATION
// =============================================================================

// IS91 (immigration detention) markers. A case with one of these is
// release-dated like a detainee even when the legal status says
// otherwise.
const is91OffenceMarker = "ILLEGAL IMMIGRANT/DETAINEE"

var is91OutcomeCodes = map[string]struct{}{
	"5500": {}, // IS91 detention order
	"3006": {}, // extradition proceedings
	"4022": {}, // deportation recommendation
}

// IsIS91Case reports whether the snapshot carries an IS91/extradition
// marker, either on the most serious offence or on a recent court
// event outcome.
func IsIS91Case(s SentenceSnapshot) bool {
	if s.MostSeriousOffence == is91OffenceMarker {
		return true
	}
	for _, code := range s.RecentCourtOutcomeIDs {
		if _, ok := is91OutcomeCodes[code]; ok {
			return true
		}
	}
	return false
}

// IsRecallCase classifies recall from the date pairing first and only
// falls back to the raw recall flag when the dates are inconclusive:
// a present CRD with no PRRD is never a recall, and a present CRD with
// a PRRD is a recall only when the PRRD is strictly after the CRD.
func IsRecallCase(s SentenceSnapshot) bool {
	crd, prrd := s.ConditionalReleaseDate, s.PostRecallReleaseDate
	if crd != nil && prrd == nil {
		return false
	}
	if crd != nil && prrd != nil {
		return prrd.After(*crd)
	}
	return s.Recall
}

// ClassifyKind derives the licence kind for a snapshot.
func ClassifyKind(s SentenceSnapshot) LicenceKind {
	switch {
	case IsRecallCase(s):
		return KindPostRecall
	case s.HomeDetentionCurfewActualDate != nil:
		return KindHomeDetentionCurfew
	default:
		return KindStandard
	}
}

// RecallLicenceType derives the licence type for a post-recall release:
// release exactly at the licence expiry (or sentence end, when no
// expiry is recorded) leaves only the supervision period; any earlier
// release carries both periods.
func RecallLicenceType(s SentenceSnapshot) LicenceType {
	expiry := s.LicenceExpiryDate
	if expiry == nil {
		expiry = s.SentenceEndDate
	}
	if expiry != nil && s.PostRecallReleaseDate != nil && s.PostRecallReleaseDate.Equal(*expiry) {
		return TypeSupervision
	}
	return TypeAllPurposePlus
}

// alternateLegalStatuses are release-dated like detainees: the
// confirmed release date is only trusted inside the working-day window.
var alternateLegalStatuses = map[string]struct{}{
	LegalStatusImmigrationDetainee:  {},
	LegalStatusRemand:               {},
	LegalStatusConvictedUnsentenced: {},
}

func isAlternateCase(s SentenceSnapshot) bool {
	if _, ok := alternateLegalStatuses[s.LegalStatus]; ok {
		return true
	}
	return IsIS91Case(s)
}

// =============================================================================
// CALCULATOR
// =============================================================================

// hardStopOffset and hardStopWarningOffset are in working days.
const (
	hardStopOffset        = 2
	hardStopWarningOffset = 2
	dueToBeReleasedWindow = 2
)

// Calculator derives release dates against a working-day calendar.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	Calendar *WorkingDayCalendar
	Clock    Clock
}

// NewCalculator creates a calculator over the given calendar and clock.
func NewCalculator(cal *WorkingDayCalendar, clock Clock) *Calculator {
	return &Calculator{Calendar: cal, Clock: clock}
}

// ComputeReleaseDates derives the full date decision for a snapshot.
// kindHint overrides classification when the caller already knows the
// licence kind (e.g. recomputing dates for a persisted licence); pass
// KindUnknown to classify from the snapshot.
func (c *Calculator) ComputeReleaseDates(s SentenceSnapshot, kindHint LicenceKind) ReleaseDateDecision {
	kind := kindHint
	if kind == KindUnknown {
		kind = ClassifyKind(s)
	}
	today := c.Clock.Today()

	lsd := c.LicenceStartDate(s, kind)
	hardStop := c.HardStopDate(s)
	var warning *Date
	if hardStop != nil {
		warning = c.Calendar.NthWorkingDayBefore(hardStopWarningOffset, *hardStop).Ptr()
	}

	return ReleaseDateDecision{
		LicenceKind:                           kind,
		LicenceStartDate:                      lsd,
		HardStopDate:                          hardStop,
		HardStopWarningDate:                   warning,
		IsInHardStopPeriod:                    inHardStopPeriod(today, hardStop, lsd),
		IsEligibleForEarlyRelease:             c.eligibleForEarlyRelease(s, lsd),
		IsDueForEarlyRelease:                  c.dueForEarlyRelease(s),
		IsDueToBeReleasedInNextTwoWorkingDays: c.dueToBeReleasedSoon(today, lsd),
	}
}

// LicenceStartDate derives the authoritative release date for licence
// purposes. Nil when the supporting dates are absent.
func (c *Calculator) LicenceStartDate(s SentenceSnapshot, kind LicenceKind) *Date {
	if kind == KindHomeDetentionCurfew {
		// HDC releases on the approved curfew date, no adjustment.
		return s.HomeDetentionCurfewActualDate
	}
	crd := s.ConditionalReleaseDate
	if crd == nil {
		return nil
	}
	workingCRD := c.workingDayRelease(*crd)
	ard := s.ConfirmedReleaseDate

	if isAlternateCase(s) {
		// Detainee-like cases only trust a confirmed date inside the
		// [working-day CRD, CRD] window.
		if ard == nil || ard.Before(workingCRD) || ard.After(*crd) {
			return workingCRD.Ptr()
		}
		return ard
	}

	// Standard cases prefer the confirmed date whenever it is present
	// and not later than the CRD, even when earlier than the
	// working-day CRD (court-ordered early release).
	if ard != nil && !ard.After(*crd) {
		return ard
	}
	return workingCRD.Ptr()
}

// workingDayRelease shifts a release date landing on a weekend or bank
// holiday back to the nearest working day strictly before it.
func (c *Calculator) workingDayRelease(d Date) Date {
	if c.Calendar.IsNonWorkingDay(d) {
		return c.Calendar.NthWorkingDayBefore(1, d)
	}
	return d
}

// HardStopDate returns the start of the hard stop window, or nil when
// the window does not apply: no conditional release date, or a
// confirmed release date already fixes the release outside the
// standard process.
func (c *Calculator) HardStopDate(s SentenceSnapshot) *Date {
	crd := s.ConditionalReleaseDate
	if crd == nil {
		return nil
	}
	if s.ConfirmedReleaseDate != nil {
		return nil
	}
	workingCRD := c.workingDayRelease(*crd)
	return c.Calendar.NthWorkingDayBefore(hardStopOffset, workingCRD).Ptr()
}

func inHardStopPeriod(today Date, hardStop, lsd *Date) bool {
	if hardStop == nil || lsd == nil {
		return false
	}
	return today.AfterOrEqual(*hardStop) && today.BeforeOrEqual(*lsd)
}

// eligibleForEarlyRelease reports whether the licence start date could
// be brought forward: Friday, weekend or non-working day releases
// qualify. HDC releases are excluded for now - the curfew date is
// fixed by the HDC approval, and the kind is not known early enough in
// the pipeline to classify these properly (revisit once it is).
func (c *Calculator) eligibleForEarlyRelease(s SentenceSnapshot, lsd *Date) bool {
	if lsd == nil {
		return false
	}
	if s.HomeDetentionCurfewActualDate != nil && lsd.Equal(*s.HomeDetentionCurfewActualDate) {
		return false
	}
	return isEarlyReleaseDay(*lsd, c.Calendar)
}

// isEarlyReleaseDay treats Friday as weekend-equivalent. Friday is a
// working day everywhere else in this engine; the asymmetry is
// intentional.
func isEarlyReleaseDay(d Date, cal *WorkingDayCalendar) bool {
	if d.Weekday() == time.Friday || d.IsWeekend() {
		return true
	}
	return cal.IsNonWorkingDay(d)
}

// dueForEarlyRelease reports whether the confirmed release has been
// brought forward past the working day before the conditional release
// date.
func (c *Calculator) dueForEarlyRelease(s SentenceSnapshot) bool {
	if s.ConditionalReleaseDate == nil || s.ConfirmedReleaseDate == nil {
		return false
	}
	cutoff := c.Calendar.NthWorkingDayBefore(1, *s.ConditionalReleaseDate)
	return s.ConfirmedReleaseDate.Before(cutoff)
}

// dueToBeReleasedSoon reports whether today falls in the inclusive
// window [2 working days before LSD, LSD].
func (c *Calculator) dueToBeReleasedSoon(today Date, lsd *Date) bool {
	if lsd == nil {
		return false
	}
	start := c.Calendar.NthWorkingDayBefore(dueToBeReleasedWindow, *lsd)
	return today.AfterOrEqual(start) && today.BeforeOrEqual(*lsd)
}
