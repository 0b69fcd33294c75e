/*
handlers.go - HTTP API handlers for the licence date engine

PURPOSE:
  Exposes the licence workflows via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the service
  and engine for every decision.

ENDPOINTS:
  Licences:
    GET    /api/licences                    Caseload listing (live licences)
    POST   /api/licences                    Start a licence for a booking
    GET    /api/licences/{id}               Get licence details
    POST   /api/licences/{id}/update-dates  Run the sentence date update

  Bookings:
    GET    /api/bookings/{bookingID}/eligibility    Eligibility decision
    GET    /api/bookings/{bookingID}/release-dates  Release date decision

  Admin:
    POST   /api/admin/recalculate   Caseload-wide recalculation sweep
    GET    /api/holidays            Materialized bank-holiday set

  Scenarios:
    GET    /api/scenarios           List demo scenarios
    POST   /api/scenarios/load      Load a demo scenario

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (service, engine)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 422: Booking fails the eligibility rules
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders and the snapshot book
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warp/licence-engine/engine"
	"github.com/warp/licence-engine/licence"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service   *licence.Service
	Store     licence.Store
	Snapshots *SnapshotBook
	Holidays  licence.HolidayProvider

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler over the given service. The
// snapshot book must be the same provider the service reads from.
func NewHandler(service *licence.Service, store licence.Store, snapshots *SnapshotBook, holidays licence.HolidayProvider) *Handler {
	return &Handler{
		Service:   service,
		Store:     store,
		Snapshots: snapshots,
		Holidays:  holidays,
	}
}

// =============================================================================
// LICENCE HANDLERS
// =============================================================================

// ListLicences returns the live caseload.
func (h *Handler) ListLicences(w http.ResponseWriter, r *http.Request) {
	licences, err := h.Store.ListLive(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list licences", err)
		return
	}

	dtos := make([]LicenceDTO, len(licences))
	for i, lic := range licences {
		dtos[i] = toLicenceDTO(lic)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetLicence returns a single licence.
func (h *Handler) GetLicence(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid licence id", err)
		return
	}

	lic, err := h.Store.Get(r.Context(), id)
	if errors.Is(err, licence.ErrLicenceNotFound) {
		writeError(w, http.StatusNotFound, "Licence not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get licence", err)
		return
	}

	writeJSON(w, http.StatusOK, toLicenceDTO(lic))
}

// CreateLicence starts a licence for a booking. The booking must pass
// every eligibility rule; failures come back with all reasons at once.
func (h *Handler) CreateLicence(w http.ResponseWriter, r *http.Request) {
	var req CreateLicenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.BookingID == 0 || req.NomsID == "" {
		writeError(w, http.StatusBadRequest, "booking_id and noms_id are required", nil)
		return
	}

	lic, err := h.Service.Create(r.Context(), req.BookingID, req.NomsID, req.Forename, req.Surname)
	var ineligible *licence.IneligibleError
	if errors.As(err, &ineligible) {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "Booking is not eligible for a licence",
			Code:    "INELIGIBLE",
			Details: ineligible.Reasons,
		})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create licence", err)
		return
	}

	writeJSON(w, http.StatusCreated, toLicenceDTO(lic))
}

// UpdateLicenceDates runs the reactive date update for one licence.
func (h *Handler) UpdateLicenceDates(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid licence id", err)
		return
	}

	result, err := h.Service.UpdateSentenceDates(r.Context(), id)
	if errors.Is(err, licence.ErrLicenceNotFound) {
		writeError(w, http.StatusNotFound, "Licence not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update sentence dates", err)
		return
	}

	dto := UpdateResultDTO{
		LicenceID:     result.LicenceID.String(),
		IsMaterial:    result.Changes.IsMaterial,
		Deactivated:   result.Deactivated,
		Changes:       toDateChangeDTOs(result.Changes),
		Notifications: []NotificationDTO{},
	}
	if !result.Deactivated {
		lic, err := h.Store.Get(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to reload licence", err)
			return
		}
		rd := toReleaseDatesDTO(lic.BookingID, result.Decision)
		dto.ReleaseDates = &rd
	}
	for _, n := range result.Notifications {
		dto.Notifications = append(dto.Notifications, NotificationDTO{
			ConditionCode: n.ConditionCode,
			Reason:        n.Reason,
		})
	}

	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// BOOKING HANDLERS
// =============================================================================

func bookingID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "bookingID"), 10, 64)
}

// GetEligibility evaluates the full rule set for a booking.
func (h *Handler) GetEligibility(w http.ResponseWriter, r *http.Request) {
	id, err := bookingID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid booking id", err)
		return
	}

	snap, err := h.Snapshots.SentenceSnapshot(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "No sentence snapshot for booking", err)
		return
	}

	decision := h.Service.Eligibility(snap)
	reasons := decision.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	writeJSON(w, http.StatusOK, EligibilityDTO{
		BookingID:  id,
		IsEligible: decision.IsEligible,
		Reasons:    reasons,
	})
}

// GetReleaseDates computes the release date decision for a booking.
func (h *Handler) GetReleaseDates(w http.ResponseWriter, r *http.Request) {
	id, err := bookingID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid booking id", err)
		return
	}

	snap, err := h.Snapshots.SentenceSnapshot(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "No sentence snapshot for booking", err)
		return
	}

	decision, err := h.Service.ComputeReleaseDates(r.Context(), snap, engine.KindUnknown)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute release dates", err)
		return
	}

	writeJSON(w, http.StatusOK, toReleaseDatesDTO(id, decision))
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// TriggerRecalculation runs the sweep over every live licence.
func (h *Handler) TriggerRecalculation(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.RecalculateAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to recalculate caseload", err)
		return
	}

	writeJSON(w, http.StatusOK, BatchSummaryDTO{
		Processed:   summary.Processed,
		Material:    summary.Material,
		Deactivated: summary.Deactivated,
		Failed:      summary.Failed,
	})
}

// ListHolidays returns the bank-holiday set in calendar order.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	set, err := h.Holidays.Holidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch bank holidays", err)
		return
	}

	days := make([]string, 0, len(set))
	for d := range set {
		days = append(days, d.String())
	}
	sort.Strings(days)

	writeJSON(w, http.StatusOK, HolidayListDTO{Count: len(days), Holidays: days})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
