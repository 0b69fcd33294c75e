package engine_test

import (
	"testing"
	"time"

	"github.com/warp/licence-engine/engine"
)

// June 2025: the 11th is a Wednesday, the 14th a Saturday. No bank
// holidays unless a test says otherwise.
func calcAt(today engine.Date) *engine.Calculator {
	return engine.NewCalculator(plainCalendar(), engine.FixedClock{Day: today})
}

func standardSnapshot() engine.SentenceSnapshot {
	return engine.SentenceSnapshot{
		ConditionalReleaseDate: date(2025, time.June, 11).Ptr(),
		LegalStatus:            "SENTENCED",
		CustodialStatus:        "ACTIVE IN",
	}
}

// =============================================================================
// LICENCE START DATE
// =============================================================================

func TestReleaseDates_StandardMidweekConfirmedOnCRD(t *testing.T) {
	// GIVEN: CRD on a Wednesday with the confirmed release on the same day
	// THEN: LSD is that Wednesday and the hard stop does not apply
	//       (the release is already confirmed)
	s := standardSnapshot()
	s.ConfirmedReleaseDate = date(2025, time.June, 11).Ptr()

	d := calcAt(date(2025, time.June, 2)).ComputeReleaseDates(s, engine.KindUnknown)

	if d.LicenceStartDate == nil || !d.LicenceStartDate.Equal(date(2025, time.June, 11)) {
		t.Errorf("LSD = %v, want 2025-06-11", d.LicenceStartDate)
	}
	if d.HardStopDate != nil {
		t.Errorf("hard stop = %v, want undefined", d.HardStopDate)
	}
	if d.LicenceKind != engine.KindStandard {
		t.Errorf("kind = %q, want standard", d.LicenceKind)
	}
}

func TestReleaseDates_CRDOnSaturdayNoConfirmedDate(t *testing.T) {
	// GIVEN: CRD on Saturday 14 June, no confirmed release date
	// THEN: LSD shifts to the preceding Friday, the hard stop starts
	//       2 working days before that (Wednesday the 11th) and the
	//       warning 2 working days earlier still (Monday the 9th)
	s := standardSnapshot()
	s.ConditionalReleaseDate = date(2025, time.June, 14).Ptr()

	d := calcAt(date(2025, time.June, 2)).ComputeReleaseDates(s, engine.KindUnknown)

	if d.LicenceStartDate == nil || !d.LicenceStartDate.Equal(date(2025, time.June, 13)) {
		t.Errorf("LSD = %v, want Friday 2025-06-13", d.LicenceStartDate)
	}
	if d.HardStopDate == nil || !d.HardStopDate.Equal(date(2025, time.June, 11)) {
		t.Errorf("hard stop = %v, want Wednesday 2025-06-11", d.HardStopDate)
	}
	if d.HardStopWarningDate == nil || !d.HardStopWarningDate.Equal(date(2025, time.June, 9)) {
		t.Errorf("hard stop warning = %v, want Monday 2025-06-09", d.HardStopWarningDate)
	}
}

func TestReleaseDates_NoCRDMeansNoDates(t *testing.T) {
	// Degenerate input, not an error: everything undefined or false.
	s := standardSnapshot()
	s.ConditionalReleaseDate = nil

	d := calcAt(date(2025, time.June, 2)).ComputeReleaseDates(s, engine.KindUnknown)

	if d.LicenceStartDate != nil || d.HardStopDate != nil || d.HardStopWarningDate != nil {
		t.Errorf("expected undefined dates, got %+v", d)
	}
	if d.IsInHardStopPeriod || d.IsEligibleForEarlyRelease || d.IsDueToBeReleasedInNextTwoWorkingDays {
		t.Errorf("expected all flags false, got %+v", d)
	}
}

func TestReleaseDates_StandardPrefersEarlierConfirmedDate(t *testing.T) {
	// Court-ordered early release: the confirmed date wins even when
	// earlier than the working-day CRD.
	s := standardSnapshot()
	s.ConditionalReleaseDate = date(2025, time.June, 14).Ptr() // Saturday
	s.ConfirmedReleaseDate = date(2025, time.June, 10).Ptr()

	d := calcAt(date(2025, time.June, 2)).ComputeReleaseDates(s, engine.KindUnknown)

	if d.LicenceStartDate == nil || !d.LicenceStartDate.Equal(date(2025, time.June, 10)) {
		t.Errorf("LSD = %v, want confirmed date 2025-06-10", d.LicenceStartDate)
	}
}

func TestReleaseDates_StandardIgnoresConfirmedAfterCRD(t *testing.T) {
	s := standardSnapshot()
	s.ConfirmedReleaseDate = date(2025, time.June, 16).Ptr() // after CRD

	d := calcAt(date(2025, time.June, 2)).ComputeReleaseDates(s, engine.KindUnknown)

	if d.LicenceStartDate == nil || !d.LicenceStartDate.Equal(date(2025, time.June, 11)) {
		t.Errorf("LSD = %v, want working-day CRD 2025-06-11", d.LicenceStartDate)
	}
}

func TestReleaseDates_AlternateCaseClampsToWindow(t *testing.T) {
	// GIVEN: A remand case with CRD Saturday 14 June
	// THEN: A confirmed date outside [working-day CRD, CRD] is not
	//       trusted; the working-day CRD is used instead
	s := standardSnapshot()
	s.LegalStatus = engine.LegalStatusRemand
	s.ConditionalReleaseDate = date(2025, time.June, 14).Ptr()
	s.ConfirmedReleaseDate = date(2025, time.June, 10).Ptr() // before working-day CRD

	d := calcAt(date(2025, time.June, 2)).ComputeReleaseDates(s, engine.KindUnknown)
	if d.LicenceStartDate == nil || !d.LicenceStartDate.Equal(date(2025, time.June, 13)) {
		t.Errorf("LSD = %v, want working-day CRD 2025-06-13", d.LicenceStartDate)
	}

	// A confirmed date inside the window is used as-is.
	s.ConfirmedReleaseDate = date(2025, time.June, 13).Ptr()
	d = calcAt(date(2025, time.June, 2)).ComputeReleaseDates(s, engine.KindUnknown)
	if d.LicenceStartDate == nil || !d.LicenceStartDate.Equal(date(2025, time.June, 13)) {
		t.Errorf("LSD = %v, want confirmed 2025-06-13", d.LicenceStartDate)
	}
}

func TestReleaseDates_IS91ByOffenceMarker(t *testing.T) {
	s := standardSnapshot()
	s.MostSeriousOffence = "ILLEGAL IMMIGRANT/DETAINEE"
	s.ConditionalReleaseDate = date(2025, time.June, 14).Ptr()
	s.ConfirmedReleaseDate = date(2025, time.June, 10).Ptr()

	// IS91 cases follow the alternate (clamped) derivation.
	d := calcAt(date(2025, time.June, 2)).ComputeReleaseDates(s, engine.KindUnknown)
	if d.LicenceStartDate == nil || !d.LicenceStartDate.Equal(date(2025, time.June, 13)) {
		t.Errorf("LSD = %v, want 2025-06-13", d.LicenceStartDate)
	}
}

func TestReleaseDates_IS91ByCourtOutcomeCode(t *testing.T) {
	s := standardSnapshot()
	s.RecentCourtOutcomeIDs = []string{"1002", "5500"}
	s.ConditionalReleaseDate = date(2025, time.June, 14).Ptr()
	s.ConfirmedReleaseDate = date(2025, time.June, 10).Ptr()

	// A recognised outcome code triggers the same clamped derivation
	// as the offence marker: the early confirmed date is ignored.
	d := calcAt(date(2025, time.June, 2)).ComputeReleaseDates(s, engine.KindUnknown)
	if d.LicenceStartDate == nil || !d.LicenceStartDate.Equal(date(2025, time.June, 13)) {
		t.Errorf("LSD = %v, want 2025-06-13", d.LicenceStartDate)
	}

	// An unrecognised code leaves the standard derivation in place,
	// which prefers the earlier confirmed date.
	s.RecentCourtOutcomeIDs = []string{"1002"}
	d = calcAt(date(2025, time.June, 2)).ComputeReleaseDates(s, engine.KindUnknown)
	if d.LicenceStartDate == nil || !d.LicenceStartDate.Equal(date(2025, time.June, 10)) {
		t.Errorf("LSD = %v, want ARD 2025-06-10", d.LicenceStartDate)
	}
}

func TestReleaseDates_HDCUsesCurfewDateUnadjusted(t *testing.T) {
	// The HDC actual date is authoritative even on a weekend.
	s := standardSnapshot()
	s.HomeDetentionCurfewActualDate = date(2025, time.June, 14).Ptr() // Saturday

	d := calcAt(date(2025, time.June, 2)).ComputeReleaseDates(s, engine.KindHomeDetentionCurfew)

	if d.LicenceStartDate == nil || !d.LicenceStartDate.Equal(date(2025, time.June, 14)) {
		t.Errorf("LSD = %v, want HDCAD 2025-06-14", d.LicenceStartDate)
	}
}

// =============================================================================
// HARD STOP PERIOD
// =============================================================================

func TestReleaseDates_InHardStopPeriod(t *testing.T) {
	s := standardSnapshot()
	s.ConditionalReleaseDate = date(2025, time.June, 14).Ptr() // hard stop Wed 11, LSD Fri 13

	tests := []struct {
		today engine.Date
		want  bool
	}{
		{date(2025, time.June, 10), false},
		{date(2025, time.June, 11), true},
		{date(2025, time.June, 13), true},
		{date(2025, time.June, 14), false}, // past LSD
	}
	for _, tc := range tests {
		d := calcAt(tc.today).ComputeReleaseDates(s, engine.KindUnknown)
		if d.IsInHardStopPeriod != tc.want {
			t.Errorf("in hard stop on %s = %v, want %v", tc.today, d.IsInHardStopPeriod, tc.want)
		}
	}
}

// =============================================================================
// EARLY RELEASE
// =============================================================================

func TestReleaseDates_FridayReleaseEligibleForEarlyRelease(t *testing.T) {
	// Friday is weekend-equivalent for this flag only.
	s := standardSnapshot()
	s.ConditionalReleaseDate = date(2025, time.June, 14).Ptr() // LSD Friday 13

	d := calcAt(date(2025, time.June, 2)).ComputeReleaseDates(s, engine.KindUnknown)
	if !d.IsEligibleForEarlyRelease {
		t.Error("Friday release must be eligible for early release")
	}

	s.ConditionalReleaseDate = date(2025, time.June, 11).Ptr() // LSD Wednesday
	d = calcAt(date(2025, time.June, 2)).ComputeReleaseDates(s, engine.KindUnknown)
	if d.IsEligibleForEarlyRelease {
		t.Error("midweek release must not be eligible for early release")
	}
}

func TestReleaseDates_HDCSuppressesEarlyReleaseFlag(t *testing.T) {
	// Provisional behavior: a curfew-date release never reports early
	// release eligibility, even on a Saturday.
	s := standardSnapshot()
	s.HomeDetentionCurfewActualDate = date(2025, time.June, 14).Ptr()

	d := calcAt(date(2025, time.June, 2)).ComputeReleaseDates(s, engine.KindHomeDetentionCurfew)
	if d.IsEligibleForEarlyRelease {
		t.Error("HDC release must suppress the early release flag")
	}
}

func TestReleaseDates_DueForEarlyRelease(t *testing.T) {
	// Confirmed release strictly before 1 working day before CRD.
	s := standardSnapshot() // CRD Wednesday 11, cutoff Tuesday 10

	s.ConfirmedReleaseDate = date(2025, time.June, 9).Ptr()
	d := calcAt(date(2025, time.June, 2)).ComputeReleaseDates(s, engine.KindUnknown)
	if !d.IsDueForEarlyRelease {
		t.Error("confirmed release before the cutoff must be due for early release")
	}

	s.ConfirmedReleaseDate = date(2025, time.June, 10).Ptr()
	d = calcAt(date(2025, time.June, 2)).ComputeReleaseDates(s, engine.KindUnknown)
	if d.IsDueForEarlyRelease {
		t.Error("confirmed release on the cutoff is not due for early release")
	}
}

func TestReleaseDates_DueToBeReleasedInNextTwoWorkingDays(t *testing.T) {
	s := standardSnapshot() // LSD Wednesday 11; window starts Monday 9

	tests := []struct {
		today engine.Date
		want  bool
	}{
		{date(2025, time.June, 6), false},
		{date(2025, time.June, 9), true},
		{date(2025, time.June, 10), true},
		{date(2025, time.June, 11), true},
		{date(2025, time.June, 12), false},
	}
	for _, tc := range tests {
		d := calcAt(tc.today).ComputeReleaseDates(s, engine.KindUnknown)
		if d.IsDueToBeReleasedInNextTwoWorkingDays != tc.want {
			t.Errorf("due on %s = %v, want %v", tc.today, d.IsDueToBeReleasedInNextTwoWorkingDays, tc.want)
		}
	}
}

// =============================================================================
// RECALL CLASSIFICATION
// =============================================================================

func TestIsRecallCase_DatePairingBeatsRawFlag(t *testing.T) {
	crd := date(2025, time.June, 11)
	prrdAfter := date(2025, time.June, 20)
	prrdBefore := date(2025, time.June, 2)

	tests := []struct {
		name string
		s    engine.SentenceSnapshot
		want bool
	}{
		{
			name: "CRD present, PRRD absent: never a recall",
			s:    engine.SentenceSnapshot{ConditionalReleaseDate: crd.Ptr(), Recall: true},
			want: false,
		},
		{
			name: "PRRD after CRD: recall",
			s:    engine.SentenceSnapshot{ConditionalReleaseDate: crd.Ptr(), PostRecallReleaseDate: prrdAfter.Ptr()},
			want: true,
		},
		{
			name: "PRRD on or before CRD: not a recall",
			s:    engine.SentenceSnapshot{ConditionalReleaseDate: crd.Ptr(), PostRecallReleaseDate: prrdBefore.Ptr()},
			want: false,
		},
		{
			name: "no CRD: fall back to the raw flag",
			s:    engine.SentenceSnapshot{Recall: true},
			want: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := engine.IsRecallCase(tc.s); got != tc.want {
				t.Errorf("IsRecallCase = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRecallLicenceType(t *testing.T) {
	led := date(2025, time.December, 1)

	s := engine.SentenceSnapshot{
		LicenceExpiryDate:     led.Ptr(),
		PostRecallReleaseDate: led.Ptr(),
	}
	if got := engine.RecallLicenceType(s); got != engine.TypeSupervision {
		t.Errorf("release at licence expiry: type = %q, want PSS", got)
	}

	s.PostRecallReleaseDate = date(2025, time.June, 11).Ptr()
	if got := engine.RecallLicenceType(s); got != engine.TypeAllPurposePlus {
		t.Errorf("release before licence expiry: type = %q, want AP_PSS", got)
	}

	// No licence expiry recorded: fall back to sentence end date.
	s = engine.SentenceSnapshot{
		SentenceEndDate:       led.Ptr(),
		PostRecallReleaseDate: led.Ptr(),
	}
	if got := engine.RecallLicenceType(s); got != engine.TypeSupervision {
		t.Errorf("release at sentence end: type = %q, want PSS", got)
	}
}

func TestClassifyKind(t *testing.T) {
	s := standardSnapshot()
	if got := engine.ClassifyKind(s); got != engine.KindStandard {
		t.Errorf("kind = %q, want standard", got)
	}

	s.HomeDetentionCurfewActualDate = date(2025, time.June, 10).Ptr()
	if got := engine.ClassifyKind(s); got != engine.KindHomeDetentionCurfew {
		t.Errorf("kind = %q, want hdc", got)
	}

	s.PostRecallReleaseDate = date(2025, time.July, 1).Ptr()
	if got := engine.ClassifyKind(s); got != engine.KindPostRecall {
		t.Errorf("kind = %q, want recall", got)
	}
}
