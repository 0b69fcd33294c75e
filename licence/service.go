/*
service.go - Licence case workflows over the engine

PURPOSE:
  The orchestration layer over the pure engine: it owns the I/O the
  engine refuses to do. Each workflow fetches a snapshot,
  runs the pure engine (eligibility, release dates, change detection,
  condition planning), persists the resulting mutations and returns
  the notification instructions for the notifier to act on. The
  service never sends anything itself.

WORKFLOWS:
  Eligibility        - full rule set over a fresh snapshot
  ComputeReleaseDates - date decision for a snapshot
  Create             - eligibility gate + classification + first dates
  UpdateSentenceDates - the reactive pipeline: diff persisted dates
                        against a fresh snapshot, persist material
                        moves, recompute dependent conditions
  RecalculateAll     - the nightly batch over every live licence

CONCURRENCY:
  Engine calls are pure and freely parallel across cases. Two
  concurrent UpdateSentenceDates calls for the same licence would race
  on the comparison baseline, so batch callers go licence by licence.
*/
package licence

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/warp/licence-engine/engine"
)

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// Store persists licence records.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (*Licence, error)
	Save(ctx context.Context, lic *Licence) error
	ListLive(ctx context.Context) ([]*Licence, error)
}

// SnapshotProvider fetches the current sentence snapshot for a
// booking from the prison records system.
type SnapshotProvider interface {
	SentenceSnapshot(ctx context.Context, bookingID int64) (engine.SentenceSnapshot, error)
}

// HolidayProvider supplies the materialized bank-holiday set. The
// bankholidays package provides the cached gov.uk implementation.
type HolidayProvider interface {
	Holidays(ctx context.Context) (engine.HolidaySet, error)
}

// =============================================================================
// SERVICE
// =============================================================================

// Service wires the pure engine to its collaborators.
type Service struct {
	Store     Store
	Snapshots SnapshotProvider
	Holidays  HolidayProvider
	Clock     engine.Clock

	updaters []engine.ConditionUpdater
}

// NewService creates a service with the default condition updaters.
func NewService(store Store, snapshots SnapshotProvider, holidays HolidayProvider, clock engine.Clock) *Service {
	return &Service{
		Store:     store,
		Snapshots: snapshots,
		Holidays:  holidays,
		Clock:     clock,
		updaters:  engine.DefaultUpdaters(),
	}
}

func (s *Service) calculator(ctx context.Context) (*engine.Calculator, error) {
	holidays, err := s.Holidays.Holidays(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving bank holidays: %w", err)
	}
	return engine.NewCalculator(engine.NewWorkingDayCalendar(holidays), s.Clock), nil
}

// Eligibility runs the full rule set over a snapshot.
func (s *Service) Eligibility(snap engine.SentenceSnapshot) engine.EligibilityDecision {
	return engine.NewLicenceRules().Evaluate(snap, s.Clock.Today())
}

// ComputeReleaseDates derives the date decision for a snapshot.
func (s *Service) ComputeReleaseDates(ctx context.Context, snap engine.SentenceSnapshot, kindHint engine.LicenceKind) (engine.ReleaseDateDecision, error) {
	calc, err := s.calculator(ctx)
	if err != nil {
		return engine.ReleaseDateDecision{}, err
	}
	return calc.ComputeReleaseDates(snap, kindHint), nil
}

// Create builds and persists a new in-progress licence for a booking,
// failing with the eligibility reasons when the case does not qualify.
func (s *Service) Create(ctx context.Context, bookingID int64, nomsID, forename, surname string) (*Licence, error) {
	snap, err := s.Snapshots.SentenceSnapshot(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("fetching snapshot for booking %d: %w", bookingID, err)
	}

	if decision := s.Eligibility(snap); !decision.IsEligible {
		return nil, &IneligibleError{BookingID: bookingID, Reasons: decision.Reasons}
	}

	dates, err := s.ComputeReleaseDates(ctx, snap, engine.KindUnknown)
	if err != nil {
		return nil, err
	}

	lic := New(snap, nomsID, forename, surname, dates)
	if err := s.Store.Save(ctx, lic); err != nil {
		return nil, fmt.Errorf("saving licence: %w", err)
	}
	return lic, nil
}

// =============================================================================
// SENTENCE DATE UPDATE
// =============================================================================

// NotificationInstruction is the delivery the caller owes a contact
// once the update is committed.
type NotificationInstruction struct {
	ConditionCode string
	Reason        string
}

// DateUpdateResult reports what an update changed and what the caller
// must now do.
type DateUpdateResult struct {
	LicenceID     uuid.UUID
	Changes       engine.SentenceChanges
	Decision      engine.ReleaseDateDecision
	Deactivated   bool
	Notifications []NotificationInstruction
}

// UpdateSentenceDates re-fetches a licence's sentence snapshot,
// detects date changes, persists material moves (including recomputed
// condition content) and returns the notifications to deliver.
func (s *Service) UpdateSentenceDates(ctx context.Context, id uuid.UUID) (*DateUpdateResult, error) {
	lic, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	snap, err := s.Snapshots.SentenceSnapshot(ctx, lic.BookingID)
	if err != nil {
		return nil, fmt.Errorf("fetching snapshot for booking %d: %w", lic.BookingID, err)
	}

	result := &DateUpdateResult{LicenceID: id}

	// A licence whose case is no longer workable gets retired rather
	// than re-dated.
	if valid := engine.ExistingLicenceRules().Evaluate(snap, s.Clock.Today()); !valid.IsEligible {
		lic.Status = engine.StatusInactive
		if err := s.Store.Save(ctx, lic); err != nil {
			return nil, fmt.Errorf("deactivating licence %s: %w", id, err)
		}
		result.Deactivated = true
		return result, nil
	}

	decision, err := s.ComputeReleaseDates(ctx, snap, lic.Kind)
	if err != nil {
		return nil, err
	}
	result.Decision = decision

	changes := engine.DetectChanges(lic.StoredDates(), lic.IncomingDates(snap, decision))
	result.Changes = changes

	if !changes.IsMaterial {
		return result, nil
	}

	// Apply the new dates first: condition content is recomputed from
	// the dates the licence will carry, not the ones it had.
	lic.ApplyDates(snap, decision)

	plans, err := engine.PlanConditionUpdates(lic.View(), changes, s.Clock.Today(), s.updaters)
	if err != nil {
		return nil, fmt.Errorf("planning condition updates for %s: %w", id, err)
	}

	for _, plan := range plans {
		if lic.SetConditionText(plan.ConditionCode, plan.UpdatedText) {
			result.Notifications = append(result.Notifications, NotificationInstruction{
				ConditionCode: plan.ConditionCode,
				Reason:        plan.NotificationReason,
			})
		}
	}

	if err := s.Store.Save(ctx, lic); err != nil {
		return nil, fmt.Errorf("saving licence %s: %w", id, err)
	}
	return result, nil
}

// =============================================================================
// BATCH RECALCULATION
// =============================================================================

// BatchSummary reports a caseload-wide recalculation run.
type BatchSummary struct {
	Processed   int
	Material    int
	Deactivated int
	Failed      int
}

// RecalculateAll runs the sentence date update over every live
// licence. Failures are logged and counted, never fatal to the run:
// a stale record is better than an aborted caseload sweep.
func (s *Service) RecalculateAll(ctx context.Context) (BatchSummary, error) {
	licences, err := s.Store.ListLive(ctx)
	if err != nil {
		return BatchSummary{}, err
	}

	var summary BatchSummary
	for _, lic := range licences {
		result, err := s.UpdateSentenceDates(ctx, lic.ID)
		if err != nil {
			log.Printf("[Recalc] licence %s: %v", lic.ID, err)
			summary.Failed++
			continue
		}
		summary.Processed++
		if result.Deactivated {
			summary.Deactivated++
		}
		if result.Changes.IsMaterial {
			summary.Material++
		}
	}
	return summary, nil
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrLicenceNotFound is returned by stores for an unknown licence ID.
var ErrLicenceNotFound = errors.New("licence not found")

// IneligibleError carries the ordered eligibility reasons for a
// rejected creation.
type IneligibleError struct {
	BookingID int64
	Reasons   []string
}

func (e *IneligibleError) Error() string {
	return fmt.Sprintf("booking %d is not eligible: %v", e.BookingID, e.Reasons)
}
