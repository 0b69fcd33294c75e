/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

DATE ENCODING:
  All dates are ISO strings (2006-01-02). Optional dates serialize as
  null rather than a zero value so clients can tell "absent" from
  "earliest representable".

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - licence/types.go: Domain model these project from
*/
package api

import (
	"time"

	"github.com/warp/licence-engine/engine"
	"github.com/warp/licence-engine/licence"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// CreateLicenceRequest is the request to start a licence for a booking.
type CreateLicenceRequest struct {
	BookingID int64  `json:"booking_id"`
	NomsID    string `json:"noms_id"`
	Forename  string `json:"forename"`
	Surname   string `json:"surname"`
}

// ConditionDTO represents one licence condition.
type ConditionDTO struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

// LicenceDTO represents a licence in API responses.
type LicenceDTO struct {
	ID        string `json:"id"`
	BookingID int64  `json:"booking_id"`
	NomsID    string `json:"noms_id"`
	Forename  string `json:"forename,omitempty"`
	Surname   string `json:"surname,omitempty"`
	Kind      string `json:"kind"`
	Type      string `json:"type"`
	Status    string `json:"status"`

	LicenceStartDate       *string `json:"licence_start_date"`
	LicenceExpiryDate      *string `json:"licence_expiry_date"`
	SentenceStartDate      *string `json:"sentence_start_date,omitempty"`
	SentenceEndDate        *string `json:"sentence_end_date,omitempty"`
	ConditionalReleaseDate *string `json:"conditional_release_date,omitempty"`
	ActualReleaseDate      *string `json:"actual_release_date,omitempty"`
	TopupSupervisionStart  *string `json:"topup_supervision_start_date,omitempty"`
	TopupSupervisionExpiry *string `json:"topup_supervision_expiry_date,omitempty"`
	PostRecallReleaseDate  *string `json:"post_recall_release_date,omitempty"`
	HDCActualDate          *string `json:"hdc_actual_date,omitempty"`
	HDCEndDate             *string `json:"hdc_end_date,omitempty"`

	Conditions []ConditionDTO `json:"conditions"`
	CreatedAt  string         `json:"created_at,omitempty"`
	UpdatedAt  string         `json:"updated_at,omitempty"`
}

// EligibilityDTO reports whether a booking can start a licence and,
// when it cannot, every reason at once.
type EligibilityDTO struct {
	BookingID  int64    `json:"booking_id"`
	IsEligible bool     `json:"is_eligible"`
	Reasons    []string `json:"reasons"`
}

// ReleaseDatesDTO represents a computed release date decision.
type ReleaseDatesDTO struct {
	BookingID   int64  `json:"booking_id"`
	LicenceKind string `json:"licence_kind"`

	LicenceStartDate    *string `json:"licence_start_date"`
	HardStopDate        *string `json:"hard_stop_date"`
	HardStopWarningDate *string `json:"hard_stop_warning_date"`

	IsInHardStopPeriod                    bool `json:"is_in_hard_stop_period"`
	IsEligibleForEarlyRelease             bool `json:"is_eligible_for_early_release"`
	IsDueForEarlyRelease                  bool `json:"is_due_for_early_release"`
	IsDueToBeReleasedInNextTwoWorkingDays bool `json:"is_due_to_be_released_in_next_two_working_days"`
}

// DateChangeDTO reports one compared sentence date.
type DateChangeDTO struct {
	Field   string  `json:"field"`
	Changed bool    `json:"changed"`
	Old     *string `json:"old"`
	New     *string `json:"new"`
}

// NotificationDTO is a delivery the caller owes a contact after a
// date update commits.
type NotificationDTO struct {
	ConditionCode string `json:"condition_code"`
	Reason        string `json:"reason"`
}

// UpdateResultDTO is the outcome of a sentence date update.
type UpdateResultDTO struct {
	LicenceID     string            `json:"licence_id"`
	IsMaterial    bool              `json:"is_material"`
	Deactivated   bool              `json:"deactivated"`
	Changes       []DateChangeDTO   `json:"changes"`
	ReleaseDates  *ReleaseDatesDTO  `json:"release_dates,omitempty"`
	Notifications []NotificationDTO `json:"notifications"`
}

// BatchSummaryDTO reports a caseload-wide recalculation run.
type BatchSummaryDTO struct {
	Processed   int `json:"processed"`
	Material    int `json:"material"`
	Deactivated int `json:"deactivated"`
	Failed      int `json:"failed"`
}

// HolidayListDTO returns the materialized bank-holiday set.
type HolidayListDTO struct {
	Count    int      `json:"count"`
	Holidays []string `json:"holidays"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a demo scenario to seed.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func fmtDate(d *engine.Date) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func toLicenceDTO(lic *licence.Licence) LicenceDTO {
	conditions := make([]ConditionDTO, len(lic.Conditions))
	for i, c := range lic.Conditions {
		conditions[i] = ConditionDTO{Code: c.Code, Text: c.Text}
	}

	return LicenceDTO{
		ID:        lic.ID.String(),
		BookingID: lic.BookingID,
		NomsID:    lic.NomsID,
		Forename:  lic.Forename,
		Surname:   lic.Surname,
		Kind:      string(lic.Kind),
		Type:      string(lic.Type),
		Status:    string(lic.Status),

		LicenceStartDate:       fmtDate(lic.LicenceStartDate),
		LicenceExpiryDate:      fmtDate(lic.LicenceExpiryDate),
		SentenceStartDate:      fmtDate(lic.SentenceStartDate),
		SentenceEndDate:        fmtDate(lic.SentenceEndDate),
		ConditionalReleaseDate: fmtDate(lic.ConditionalReleaseDate),
		ActualReleaseDate:      fmtDate(lic.ActualReleaseDate),
		TopupSupervisionStart:  fmtDate(lic.TopupSupervisionStart),
		TopupSupervisionExpiry: fmtDate(lic.TopupSupervisionExpiry),
		PostRecallReleaseDate:  fmtDate(lic.PostRecallReleaseDate),
		HDCActualDate:          fmtDate(lic.HDCActualDate),
		HDCEndDate:             fmtDate(lic.HDCEndDate),

		Conditions: conditions,
		CreatedAt:  lic.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  lic.UpdatedAt.Format(time.RFC3339),
	}
}

func toReleaseDatesDTO(bookingID int64, d engine.ReleaseDateDecision) ReleaseDatesDTO {
	return ReleaseDatesDTO{
		BookingID:   bookingID,
		LicenceKind: string(d.LicenceKind),

		LicenceStartDate:    fmtDate(d.LicenceStartDate),
		HardStopDate:        fmtDate(d.HardStopDate),
		HardStopWarningDate: fmtDate(d.HardStopWarningDate),

		IsInHardStopPeriod:                    d.IsInHardStopPeriod,
		IsEligibleForEarlyRelease:             d.IsEligibleForEarlyRelease,
		IsDueForEarlyRelease:                  d.IsDueForEarlyRelease,
		IsDueToBeReleasedInNextTwoWorkingDays: d.IsDueToBeReleasedInNextTwoWorkingDays,
	}
}

func toDateChangeDTOs(sc engine.SentenceChanges) []DateChangeDTO {
	dtos := make([]DateChangeDTO, len(sc.Changes))
	for i, ch := range sc.Changes {
		dtos[i] = DateChangeDTO{
			Field:   string(ch.Field),
			Changed: ch.Changed,
			Old:     fmtDate(ch.Old),
			New:     fmtDate(ch.New),
		}
	}
	return dtos
}
