package engine_test

import (
	"testing"
	"time"

	"github.com/warp/licence-engine/engine"
)

func storedDates() engine.StoredDates {
	return engine.StoredDates{
		Kind:               engine.KindStandard,
		Status:             engine.StatusInProgress,
		LicenceStart:       date(2025, time.June, 11).Ptr(),
		LicenceExpiry:      date(2026, time.June, 11).Ptr(),
		SentenceEnd:        date(2026, time.June, 11).Ptr(),
		ConditionalRelease: date(2025, time.June, 11).Ptr(),
		ActualRelease:      date(2025, time.June, 11).Ptr(),
	}
}

func TestDetectChanges_IdenticalInputsRoundTrip(t *testing.T) {
	// detect(x, x) must report zero changed fields and no materiality.
	x := storedDates()
	sc := engine.DetectChanges(x, x)

	for _, ch := range sc.Changes {
		if ch.Changed {
			t.Errorf("field %s reported changed on identical inputs", ch.Field)
		}
	}
	if sc.IsMaterial {
		t.Error("identical inputs must not be material")
	}
}

func TestDetectChanges_NullSafety(t *testing.T) {
	// Exactly one side absent counts as changed; two absent sides do not.
	prev := storedDates()
	next := storedDates()
	prev.TopupStart = nil
	next.TopupStart = date(2026, time.June, 11).Ptr()

	sc := engine.DetectChanges(prev, next)
	if !sc.FieldChanged(engine.FieldTopupStart) {
		t.Error("nil -> value must count as changed")
	}
	if sc.FieldChanged(engine.FieldPostRecallRelease) {
		t.Error("nil -> nil must not count as changed")
	}
}

func TestDetectChanges_MaterialFields(t *testing.T) {
	materialMoves := []struct {
		name   string
		mutate func(*engine.StoredDates)
	}{
		{"licence start", func(d *engine.StoredDates) { d.LicenceStart = date(2025, time.June, 12).Ptr() }},
		{"licence expiry", func(d *engine.StoredDates) { d.LicenceExpiry = date(2026, time.July, 1).Ptr() }},
		{"topup start", func(d *engine.StoredDates) { d.TopupStart = date(2026, time.June, 11).Ptr() }},
		{"topup expiry", func(d *engine.StoredDates) { d.TopupExpiry = date(2026, time.December, 11).Ptr() }},
		{"post recall release", func(d *engine.StoredDates) { d.PostRecallRelease = date(2025, time.August, 1).Ptr() }},
	}
	for _, tc := range materialMoves {
		t.Run(tc.name, func(t *testing.T) {
			next := storedDates()
			tc.mutate(&next)
			if sc := engine.DetectChanges(storedDates(), next); !sc.IsMaterial {
				t.Errorf("%s change must be material", tc.name)
			}
		})
	}
}

func TestDetectChanges_ReleaseDateAloneNotMaterial(t *testing.T) {
	// CRD/ARD moves are tracked (the condition updaters need them) but
	// do not on their own make the update material.
	next := storedDates()
	next.ConditionalRelease = date(2025, time.June, 12).Ptr()
	next.ActualRelease = date(2025, time.June, 12).Ptr()

	sc := engine.DetectChanges(storedDates(), next)
	if !sc.FieldChanged(engine.FieldConditionalRelease) || !sc.FieldChanged(engine.FieldActualRelease) {
		t.Fatal("release date changes must be tracked")
	}
	if sc.IsMaterial {
		t.Error("release date moves alone must not be material")
	}
}

func TestDetectChanges_SentenceEndOnlyMaterialOnceApproved(t *testing.T) {
	next := storedDates()
	next.SentenceEnd = date(2026, time.July, 1).Ptr()

	// In progress: not material.
	if sc := engine.DetectChanges(storedDates(), next); sc.IsMaterial {
		t.Error("SED move on an in-progress licence must not be material")
	}

	// Approved: material.
	prev := storedDates()
	prev.Status = engine.StatusApproved
	if sc := engine.DetectChanges(prev, next); !sc.IsMaterial {
		t.Error("SED move on an approved licence must be material")
	}
}

func TestDetectChanges_HDCFieldsGatedOnKind(t *testing.T) {
	// GIVEN: A standard licence where the curfew dates move
	// THEN: The HDC fields are never reported changed and their old
	//       value is absent
	prev := storedDates()
	prev.HDCActual = date(2025, time.June, 10).Ptr()
	next := storedDates()
	next.HDCActual = date(2025, time.June, 12).Ptr()

	sc := engine.DetectChanges(prev, next)
	if sc.FieldChanged(engine.FieldHDCActual) {
		t.Error("HDC field must not change on a non-HDC licence")
	}
	for _, ch := range sc.Changes {
		if ch.Field == engine.FieldHDCActual && ch.Old != nil {
			t.Error("HDC old value must be reported absent on a non-HDC licence")
		}
	}

	// On an HDC licence the same move is tracked and material.
	prev.Kind = engine.KindHomeDetentionCurfew
	sc = engine.DetectChanges(prev, next)
	if !sc.FieldChanged(engine.FieldHDCActual) || !sc.IsMaterial {
		t.Error("HDC curfew move must be a material change on an HDC licence")
	}
}

func TestDetectChanges_MaterialityIsMonotonic(t *testing.T) {
	// Adding a further changed field to an already-material change set
	// must leave it material.
	next := storedDates()
	next.LicenceExpiry = date(2026, time.July, 1).Ptr()
	base := engine.DetectChanges(storedDates(), next)
	if !base.IsMaterial {
		t.Fatal("precondition: expiry move is material")
	}

	next.SentenceEnd = date(2026, time.August, 1).Ptr()
	next.ConditionalRelease = date(2025, time.June, 20).Ptr()
	more := engine.DetectChanges(storedDates(), next)
	if !more.IsMaterial {
		t.Error("adding changed fields must never clear materiality")
	}
}
