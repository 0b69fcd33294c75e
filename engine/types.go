/*
types.go - Core value types for the sentence date engine

PURPOSE:
  Defines the input snapshot, the licence classification enums, and the
  decision objects every calculation produces. All types here are value
  objects: no identity beyond their fields, constructed per call and
  discarded once the caller has consumed them.

INPUTS:
  SentenceSnapshot - read-only record of externally supplied sentence
                     dates (prison records system). All dates optional.
  LicenceView      - the slice of a persisted licence the engine needs
                     for change detection and condition updates. The
                     domain package assembles it; the engine never reads
                     storage itself.

OUTPUTS:
  EligibilityDecision, ReleaseDateDecision, SentenceChanges and
  ConditionUpdatePlan. The engine only ever describes decisions and
  mutations; applying them is the caller's job.

DATE VOCABULARY:
  CRD   conditional release date
  ARD   actual (confirmed) release date
  LSD   licence start date (derived, authoritative)
  LED   licence expiry date
  SED   sentence end date
  TUSSD/TUSED  top-up supervision start/end
  PRRD  post-recall release date
  HDCAD home detention curfew actual date
*/
package engine

// =============================================================================
// SENTENCE SNAPSHOT - External read-only input
// =============================================================================

// SentenceSnapshot is the flat record of sentence dates and status
// flags fetched from the prison records system. Absent dates are nil,
// which is a meaningful state rather than an error.
type SentenceSnapshot struct {
	BookingID int64

	ConditionalReleaseDate *Date // CRD
	ConfirmedReleaseDate   *Date // ARD
	SentenceStartDate      *Date
	SentenceEndDate        *Date
	LicenceExpiryDate      *Date
	TopupSupervisionStart  *Date // TUSSD
	TopupSupervisionExpiry *Date // TUSED
	PostRecallReleaseDate  *Date // PRRD

	HomeDetentionCurfewActualDate      *Date // HDCAD
	HomeDetentionCurfewEligibilityDate *Date
	HomeDetentionCurfewEndDate         *Date

	ParoleEligibilityDate *Date
	ActualParoleDate      *Date

	LegalStatus           string // e.g. "SENTENCED", "DEAD", "IMMIGRATION_DETAINEE"
	CustodialStatus       string // e.g. "ACTIVE IN", "INACTIVE TRN"
	Indeterminate         bool   // indeterminate (life/IPP) sentence
	Recall                bool   // raw recall flag from the records system
	MostSeriousOffence    string
	RecentCourtOutcomeIDs []string // outcome codes from recent court events
}

// Legal statuses with special release-date handling.
const (
	LegalStatusDead                 = "DEAD"
	LegalStatusImmigrationDetainee  = "IMMIGRATION_DETAINEE"
	LegalStatusRemand               = "REMAND"
	LegalStatusConvictedUnsentenced = "CONVICTED_UNSENTENCED"
)

// =============================================================================
// LICENCE CLASSIFICATION
// =============================================================================

// LicenceKind classifies the release route a licence covers.
type LicenceKind string

const (
	KindStandard            LicenceKind = "standard"  // conditional release
	KindPostRecall          LicenceKind = "recall"    // release following recall
	KindHomeDetentionCurfew LicenceKind = "hdc"       // home detention curfew
	KindUnknown             LicenceKind = ""          // not yet classified
)

// LicenceType records which supervision periods a licence carries.
type LicenceType string

const (
	TypeAllPurpose     LicenceType = "AP"     // custody licence period only
	TypeSupervision    LicenceType = "PSS"    // post-sentence supervision only
	TypeAllPurposePlus LicenceType = "AP_PSS" // both periods
)

// LicenceStatus is the lifecycle state of a persisted licence.
type LicenceStatus string

const (
	StatusInProgress LicenceStatus = "IN_PROGRESS"
	StatusSubmitted  LicenceStatus = "SUBMITTED"
	StatusApproved   LicenceStatus = "APPROVED"
	StatusActive     LicenceStatus = "ACTIVE"
	StatusInactive   LicenceStatus = "INACTIVE"
	StatusNotStarted LicenceStatus = "NOT_STARTED"
)

// ApprovedOrLater reports whether the status is past the approval gate.
// A sentence-end-date move on such a licence is material because the
// approved dates have already been communicated.
func (s LicenceStatus) ApprovedOrLater() bool {
	return s == StatusApproved || s == StatusActive
}

// =============================================================================
// LICENCE VIEW - Persisted-licence input to the engine
// =============================================================================

// StoredDates is the set of tracked dates held against a licence,
// together with the classification needed to interpret them. Both
// sides of a change detection are expressed as StoredDates: the
// persisted side comes from storage, the incoming side is derived from
// a fresh snapshot (the licence start date is itself a derived date,
// so the caller runs the Calculator first).
type StoredDates struct {
	Kind   LicenceKind
	Status LicenceStatus

	LicenceStart       *Date // LSD
	LicenceExpiry      *Date // LED
	SentenceEnd        *Date // SED
	TopupStart         *Date // TUSSD
	TopupExpiry        *Date // TUSED
	PostRecallRelease  *Date // PRRD
	ConditionalRelease *Date // CRD
	ActualRelease      *Date // ARD
	HDCActual          *Date // HDCAD
	HDCEnd             *Date
}

// LicenceView is the read-only slice of a persisted licence consumed
// by the reactive condition updaters.
type LicenceView struct {
	Dates          StoredDates
	ConditionCodes []string // additional-condition codes on the licence
}

// HasCondition reports whether the licence carries a condition with
// the given code.
func (v LicenceView) HasCondition(code string) bool {
	for _, c := range v.ConditionCodes {
		if c == code {
			return true
		}
	}
	return false
}

// =============================================================================
// DECISIONS
// =============================================================================

// EligibilityDecision is the outcome of running a rule set over a
// snapshot. Reasons preserve rule-definition order so identical inputs
// always render identical messages.
type EligibilityDecision struct {
	IsEligible bool
	Reasons    []string
}

// ReleaseDateDecision carries every date-derived flag for a case.
// All dates are optional; flags default to false when their supporting
// dates are absent. It is computed fresh from the current snapshot on
// every request and never cached across snapshot versions.
type ReleaseDateDecision struct {
	LicenceKind LicenceKind

	LicenceStartDate    *Date
	HardStopDate        *Date
	HardStopWarningDate *Date

	IsInHardStopPeriod                   bool
	IsEligibleForEarlyRelease            bool
	IsDueForEarlyRelease                 bool
	IsDueToBeReleasedInNextTwoWorkingDays bool
}

// ConditionUpdatePlan describes a mutation the caller must apply to a
// dependent condition, plus the notification it owes a contact once the
// mutation is committed. The engine never applies the mutation itself.
type ConditionUpdatePlan struct {
	IsRelevant         bool
	ConditionCode      string
	UpdatedText        string
	NotificationReason string
}
