/*
scenarios.go - Demo scenarios and the in-memory snapshot book

PURPOSE:
  Seeds the running server with recognisable cases so every date rule
  can be exercised from the API without a live prison records feed.
  The SnapshotBook stands in for that feed: scenarios load snapshots
  into it, and later mutate them so the date-update pipeline has real
  changes to detect.

AVAILABLE SCENARIOS:
  standard-release  Eligible determinate case, release date on a
                    Saturday so the working-day shift is visible
  recall            Post-recall snapshot (recall cases cannot start a
                    new licence, so inspect it via release-dates)
  hdc               Home detention curfew case with a weekend curfew
                    date that must NOT shift
  expiry-move       A created licence whose expiry then moves, making
                    the next date update material and recomputing the
                    monitoring condition

  All scenario dates are anchored to the service clock so the demos
  stay valid whenever the server is started.

USAGE VIA API:
  POST /api/scenarios/load
  {"scenario_id": "expiry-move"}

SEE ALSO:
  - handlers.go: writeJSON/writeError helpers
  - licence/service.go: SnapshotProvider contract
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/warp/licence-engine/engine"
	"github.com/warp/licence-engine/licence"
)

// =============================================================================
// SNAPSHOT BOOK
// =============================================================================

// SnapshotBook is an in-memory SnapshotProvider. Scenarios write to
// it; the service reads from it as if it were the records system.
type SnapshotBook struct {
	mu    sync.RWMutex
	snaps map[int64]engine.SentenceSnapshot
}

// NewSnapshotBook creates an empty book.
func NewSnapshotBook() *SnapshotBook {
	return &SnapshotBook{snaps: make(map[int64]engine.SentenceSnapshot)}
}

// Put records or replaces the snapshot for a booking.
func (b *SnapshotBook) Put(snap engine.SentenceSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snaps[snap.BookingID] = snap
}

// SentenceSnapshot implements licence.SnapshotProvider.
func (b *SnapshotBook) SentenceSnapshot(ctx context.Context, bookingID int64) (engine.SentenceSnapshot, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	snap, ok := b.snaps[bookingID]
	if !ok {
		return engine.SentenceSnapshot{}, fmt.Errorf("no snapshot for booking %d", bookingID)
	}
	return snap, nil
}

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

// Scenario seeds one demo caseload slice.
type Scenario struct {
	ID          string
	Name        string
	Description string
	Load        func(ctx context.Context, h *Handler) error
}

func activeSnapshot(bookingID int64) engine.SentenceSnapshot {
	return engine.SentenceSnapshot{
		BookingID:       bookingID,
		LegalStatus:     "SENTENCED",
		CustodialStatus: "ACTIVE IN",
	}
}

// nextWeekday walks forward from d to the first day with the given
// weekday (possibly d itself).
func nextWeekday(d engine.Date, wd time.Weekday) engine.Date {
	for d.Weekday() != wd {
		d = d.AddDays(1)
	}
	return d
}

// Scenarios returns the demo scenario registry.
func Scenarios() []Scenario {
	return []Scenario{
		{
			ID:          "standard-release",
			Name:        "Standard release on a weekend",
			Description: "Determinate case whose conditional release date lands on a Saturday, so the licence starts the Friday before and the hard stop window opens two working days earlier.",
			Load: func(ctx context.Context, h *Handler) error {
				crd := nextWeekday(h.Service.Clock.Today().AddDays(21), time.Saturday)

				snap := activeSnapshot(100001)
				snap.ConditionalReleaseDate = crd.Ptr()
				snap.SentenceStartDate = crd.AddYears(-2).Ptr()
				snap.SentenceEndDate = crd.AddYears(1).Ptr()
				snap.LicenceExpiryDate = crd.AddYears(1).Ptr()
				h.Snapshots.Put(snap)

				_, err := h.Service.Create(ctx, snap.BookingID, "A1111AA", "Stephen", "Rowe")
				return err
			},
		},
		{
			ID:          "recall",
			Name:        "Post-recall supervision",
			Description: "Recalled case whose post recall release date sits past the conditional release date. Recall cases cannot start a new licence, so inspect this one through the eligibility and release-dates endpoints.",
			Load: func(ctx context.Context, h *Handler) error {
				today := h.Service.Clock.Today()

				snap := activeSnapshot(100002)
				snap.Recall = true
				snap.ConditionalReleaseDate = today.AddDays(-120).Ptr()
				snap.PostRecallReleaseDate = today.AddDays(30).Ptr()
				// Recall release matching licence expiry makes this a
				// supervision-only licence type.
				snap.LicenceExpiryDate = today.AddDays(30).Ptr()
				snap.SentenceEndDate = today.AddYears(1).Ptr()
				h.Snapshots.Put(snap)
				return nil
			},
		},
		{
			ID:          "hdc",
			Name:        "Home detention curfew",
			Description: "Curfew case with an approved curfew date on a Saturday. The curfew date is used exactly as given, with no working day adjustment, and early release flags stay suppressed.",
			Load: func(ctx context.Context, h *Handler) error {
				hdcad := nextWeekday(h.Service.Clock.Today().AddDays(14), time.Saturday)
				crd := hdcad.AddDays(90)

				snap := activeSnapshot(100003)
				snap.ConditionalReleaseDate = crd.Ptr()
				snap.HomeDetentionCurfewActualDate = hdcad.Ptr()
				snap.HomeDetentionCurfewEndDate = crd.Ptr()
				snap.SentenceEndDate = crd.AddMonths(6).Ptr()
				snap.LicenceExpiryDate = crd.AddMonths(6).Ptr()
				h.Snapshots.Put(snap)

				_, err := h.Service.Create(ctx, snap.BookingID, "C3333CC", "Marcus", "Webb")
				return err
			},
		},
		{
			ID:          "expiry-move",
			Name:        "Licence expiry moves after creation",
			Description: "Creates a licence, then moves its licence expiry date in the records feed. Running the date update for this licence detects a material change and recomputes the electronic monitoring condition.",
			Load: func(ctx context.Context, h *Handler) error {
				crd := h.Service.Clock.Today().AddDays(45)

				snap := activeSnapshot(100004)
				snap.ConditionalReleaseDate = crd.Ptr()
				snap.SentenceEndDate = crd.AddYears(1).Ptr()
				snap.LicenceExpiryDate = crd.AddYears(1).Ptr()
				h.Snapshots.Put(snap)

				lic, err := h.Service.Create(ctx, snap.BookingID, "D4444DD", "Priya", "Chauhan")
				if err != nil {
					return err
				}
				lic.Conditions = append(lic.Conditions, licence.Condition{
					Code: engine.ElectronicMonitoringCode,
					Text: "You will be subject to electronic monitoring.",
				})
				lic.Status = engine.StatusActive
				if err := h.Store.Save(ctx, lic); err != nil {
					return err
				}

				// The feed moves on after the licence is cut.
				snap.LicenceExpiryDate = crd.AddYears(1).AddMonths(3).Ptr()
				h.Snapshots.Put(snap)
				return nil
			},
		},
	}
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns the scenario registry.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios := Scenarios()
	dtos := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		dtos[i] = ScenarioDTO{ID: s.ID, Name: s.Name, Description: s.Description}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// LoadScenario seeds one scenario into the running server.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	for _, s := range Scenarios() {
		if s.ID != req.ScenarioID {
			continue
		}
		if err := s.Load(r.Context(), h); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
			return
		}
		h.currentScenario = s.ID
		writeJSON(w, http.StatusOK, ScenarioDTO{ID: s.ID, Name: s.Name, Description: s.Description})
		return
	}

	writeError(w, http.StatusNotFound, "Unknown scenario", nil)
}

// GetCurrentScenario reports the most recently loaded scenario.
// GET /api/scenarios/current
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"current": h.currentScenario})
}
