/*
changes.go - Sentence date change detection

PURPOSE:
  Compares the dates held against a persisted licence with the dates
  derived from a freshly fetched snapshot, producing a per-field change
  list and a single materiality verdict. The detector knows nothing
  about why dates changed and performs no I/O.

NULL SAFETY:
  A field counts as changed when exactly one side is absent, or both
  are present and unequal. Two absent values are unchanged.

MATERIALITY:
  A monotonic OR over named conditions - no weighting, no scoring.
  Material changes force re-notification and recomputation downstream;
  adding further changed fields can never make a material change
  immaterial.

HDC FIELDS:
  Curfew dates are only meaningful on a home detention curfew licence.
  For any other kind their change flag is always false and the old
  value is reported as absent.
*/
package engine

// =============================================================================
// TRACKED FIELDS
// =============================================================================

// DateField names a tracked sentence date.
type DateField string

const (
	FieldLicenceStart       DateField = "LSD"
	FieldLicenceExpiry      DateField = "LED"
	FieldSentenceEnd        DateField = "SED"
	FieldTopupStart         DateField = "TUSSD"
	FieldTopupExpiry        DateField = "TUSED"
	FieldPostRecallRelease  DateField = "PRRD"
	FieldConditionalRelease DateField = "CRD"
	FieldActualRelease      DateField = "ARD"
	FieldHDCActual          DateField = "HDCAD"
	FieldHDCEnd             DateField = "HDCENDDATE"
)

// DateChange records the outcome of comparing one tracked field.
type DateChange struct {
	Field   DateField
	Changed bool
	Old     *Date
	New     *Date
}

// SentenceChanges is the full comparison outcome. Changes preserve
// field-definition order.
type SentenceChanges struct {
	Changes    []DateChange
	IsMaterial bool
}

// FieldChanged reports whether the named field changed.
func (sc SentenceChanges) FieldChanged(f DateField) bool {
	for _, ch := range sc.Changes {
		if ch.Field == f {
			return ch.Changed
		}
	}
	return false
}

// AnyChanged reports whether any of the named fields changed.
func (sc SentenceChanges) AnyChanged(fields ...DateField) bool {
	for _, f := range fields {
		if sc.FieldChanged(f) {
			return true
		}
	}
	return false
}

// =============================================================================
// DETECTOR
// =============================================================================

// DetectChanges compares persisted licence dates against the dates
// derived from a fresh snapshot. The incoming side must already carry
// the derived licence start date (run the Calculator first); the
// persisted side's kind and status gate the HDC and sentence-end
// materiality rules.
func DetectChanges(persisted, incoming StoredDates) SentenceChanges {
	isHDC := persisted.Kind == KindHomeDetentionCurfew

	changes := []DateChange{
		compare(FieldLicenceStart, persisted.LicenceStart, incoming.LicenceStart),
		compare(FieldLicenceExpiry, persisted.LicenceExpiry, incoming.LicenceExpiry),
		compare(FieldSentenceEnd, persisted.SentenceEnd, incoming.SentenceEnd),
		compare(FieldTopupStart, persisted.TopupStart, incoming.TopupStart),
		compare(FieldTopupExpiry, persisted.TopupExpiry, incoming.TopupExpiry),
		compare(FieldPostRecallRelease, persisted.PostRecallRelease, incoming.PostRecallRelease),
		compare(FieldConditionalRelease, persisted.ConditionalRelease, incoming.ConditionalRelease),
		compare(FieldActualRelease, persisted.ActualRelease, incoming.ActualRelease),
		compareGated(FieldHDCActual, persisted.HDCActual, incoming.HDCActual, isHDC),
		compareGated(FieldHDCEnd, persisted.HDCEnd, incoming.HDCEnd, isHDC),
	}

	sc := SentenceChanges{Changes: changes}
	sc.IsMaterial = isMaterial(sc, persisted, isHDC)
	return sc
}

func compare(f DateField, prev, next *Date) DateChange {
	return DateChange{Field: f, Changed: !DatesEqual(prev, next), Old: prev, New: next}
}

// compareGated suppresses the comparison entirely when the field is
// not applicable to this licence kind.
func compareGated(f DateField, prev, next *Date, applicable bool) DateChange {
	if !applicable {
		return DateChange{Field: f, Changed: false, Old: nil, New: next}
	}
	return compare(f, prev, next)
}

func isMaterial(sc SentenceChanges, persisted StoredDates, isHDC bool) bool {
	if sc.AnyChanged(FieldLicenceStart, FieldLicenceExpiry, FieldTopupStart, FieldTopupExpiry, FieldPostRecallRelease) {
		return true
	}
	if isHDC && sc.AnyChanged(FieldHDCActual, FieldHDCEnd) {
		return true
	}
	// A sentence end date move only matters once the licence has been
	// approved: the communicated dates are now wrong.
	return sc.FieldChanged(FieldSentenceEnd) && persisted.Status.ApprovedOrLater()
}
