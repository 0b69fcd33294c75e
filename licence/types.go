/*
types.go - Licence domain model

PURPOSE:
  The persisted licence record and its condition model. The engine
  package owns the pure calculation types; this package owns the
  records callers persist and the adapters that slice a record into
  the views the engine consumes.

RELATIONSHIP TO THE ENGINE:
  engine.StoredDates / engine.LicenceView are assembled from a Licence
  via StoredDates() and View(). The engine never sees the full record
  and never mutates it; every mutation happens here, driven by the
  decisions the engine returns.
*/
package licence

import (
	"time"

	"github.com/google/uuid"

	"github.com/warp/licence-engine/engine"
)

// =============================================================================
// LICENCE RECORD
// =============================================================================

// Condition is an additional condition attached to a licence. Text is
// the rendered content shown on the licence document.
type Condition struct {
	Code string
	Text string
}

// Licence is the persisted case record for one prisoner's release
// licence.
type Licence struct {
	ID        uuid.UUID
	BookingID int64
	NomsID    string
	Forename  string
	Surname   string

	Kind   engine.LicenceKind
	Type   engine.LicenceType
	Status engine.LicenceStatus

	// Sentence dates as last persisted. LicenceStartDate is derived
	// (engine.Calculator), the rest mirror the records system.
	LicenceStartDate       *engine.Date
	LicenceExpiryDate      *engine.Date
	SentenceStartDate      *engine.Date
	SentenceEndDate        *engine.Date
	ConditionalReleaseDate *engine.Date
	ActualReleaseDate      *engine.Date
	TopupSupervisionStart  *engine.Date
	TopupSupervisionExpiry *engine.Date
	PostRecallReleaseDate  *engine.Date
	HDCActualDate          *engine.Date
	HDCEndDate             *engine.Date

	Conditions []Condition

	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates an in-progress licence for a snapshot, classified and
// dated by the given decision.
func New(snap engine.SentenceSnapshot, nomsID, forename, surname string, decision engine.ReleaseDateDecision) *Licence {
	lic := &Licence{
		ID:        uuid.New(),
		BookingID: snap.BookingID,
		NomsID:    nomsID,
		Forename:  forename,
		Surname:   surname,
		Kind:      decision.LicenceKind,
		Type:      engine.TypeAllPurpose,
		Status:    engine.StatusInProgress,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if decision.LicenceKind == engine.KindPostRecall {
		lic.Type = engine.RecallLicenceType(snap)
	}
	lic.ApplyDates(snap, decision)
	return lic
}

// ApplyDates overwrites the stored sentence dates from a snapshot and
// the decision derived from it.
func (l *Licence) ApplyDates(snap engine.SentenceSnapshot, decision engine.ReleaseDateDecision) {
	l.LicenceStartDate = decision.LicenceStartDate
	l.LicenceExpiryDate = snap.LicenceExpiryDate
	l.SentenceStartDate = snap.SentenceStartDate
	l.SentenceEndDate = snap.SentenceEndDate
	l.ConditionalReleaseDate = snap.ConditionalReleaseDate
	l.ActualReleaseDate = snap.ConfirmedReleaseDate
	l.TopupSupervisionStart = snap.TopupSupervisionStart
	l.TopupSupervisionExpiry = snap.TopupSupervisionExpiry
	l.PostRecallReleaseDate = snap.PostRecallReleaseDate
	l.HDCActualDate = snap.HomeDetentionCurfewActualDate
	l.HDCEndDate = snap.HomeDetentionCurfewEndDate
}

// =============================================================================
// ENGINE VIEWS
// =============================================================================

// StoredDates slices the record into the engine's comparison shape.
func (l *Licence) StoredDates() engine.StoredDates {
	return engine.StoredDates{
		Kind:               l.Kind,
		Status:             l.Status,
		LicenceStart:       l.LicenceStartDate,
		LicenceExpiry:      l.LicenceExpiryDate,
		SentenceEnd:        l.SentenceEndDate,
		TopupStart:         l.TopupSupervisionStart,
		TopupExpiry:        l.TopupSupervisionExpiry,
		PostRecallRelease:  l.PostRecallReleaseDate,
		ConditionalRelease: l.ConditionalReleaseDate,
		ActualRelease:      l.ActualReleaseDate,
		HDCActual:          l.HDCActualDate,
		HDCEnd:             l.HDCEndDate,
	}
}

// IncomingDates derives the comparison shape for a fresh snapshot,
// keyed to this licence's kind and status. The licence start date is
// the derived one from the decision, not a raw snapshot field.
func (l *Licence) IncomingDates(snap engine.SentenceSnapshot, decision engine.ReleaseDateDecision) engine.StoredDates {
	return engine.StoredDates{
		Kind:               l.Kind,
		Status:             l.Status,
		LicenceStart:       decision.LicenceStartDate,
		LicenceExpiry:      snap.LicenceExpiryDate,
		SentenceEnd:        snap.SentenceEndDate,
		TopupStart:         snap.TopupSupervisionStart,
		TopupExpiry:        snap.TopupSupervisionExpiry,
		PostRecallRelease:  snap.PostRecallReleaseDate,
		ConditionalRelease: snap.ConditionalReleaseDate,
		ActualRelease:      snap.ConfirmedReleaseDate,
		HDCActual:          snap.HomeDetentionCurfewActualDate,
		HDCEnd:             snap.HomeDetentionCurfewEndDate,
	}
}

// View slices the record into the shape the condition updaters consume.
func (l *Licence) View() engine.LicenceView {
	codes := make([]string, len(l.Conditions))
	for i, c := range l.Conditions {
		codes[i] = c.Code
	}
	return engine.LicenceView{Dates: l.StoredDates(), ConditionCodes: codes}
}

// SetConditionText replaces the text of the condition with the given
// code. Returns false when the licence has no such condition.
func (l *Licence) SetConditionText(code, text string) bool {
	for i := range l.Conditions {
		if l.Conditions[i].Code == code {
			l.Conditions[i].Text = text
			return true
		}
	}
	return false
}
