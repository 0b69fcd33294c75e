/*
errors.go - Error types for the sentence date engine

PURPOSE:
  All engine error types in one place. The engine performs no I/O, so
  there is nothing retryable here: every error is either a missing
  precondition (upstream data is incomplete in a way the calculation
  cannot tolerate) or an unreachable state (a caller bug).

TAXONOMY:
  Missing precondition - a required date is absent. Most absent dates
    simply propagate as nil decision fields; these errors exist only
    for the calculations that cannot produce any answer without one
    (e.g. the monitoring end date with neither release date present).
  Unreachable state - defensive branches that relevance checks already
    rule out. Hitting one is a programming error, not a runtime
    condition to handle.

USAGE:
  callers match with errors.Is:

    if errors.Is(err, engine.ErrNoReleaseDate) { ... }
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoReleaseDate is returned when a calculation needs a release
	// date and the snapshot carries neither an actual nor a conditional
	// release date. Indicates upstream data corruption.
	ErrNoReleaseDate = errors.New("no actual or conditional release date available")

	// ErrNoLicenceExpiryDate is returned when the licence-expiry window
	// check runs against a licence with no expiry date at all.
	ErrNoLicenceExpiryDate = errors.New("licence has no expiry date")

	// ErrNoRelevantChange is returned by the notification-reason
	// selector when none of the changes it describes are present.
	// Relevance checks guarantee this cannot happen; reaching it means
	// an updater was invoked without checking relevance first.
	ErrNoRelevantChange = errors.New("no relevant sentence date change")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// MissingDateError reports which date field a calculation required.
type MissingDateError struct {
	Field DateField
	cause error
}

func (e *MissingDateError) Error() string {
	return fmt.Sprintf("required date %s is absent: %v", e.Field, e.cause)
}

func (e *MissingDateError) Unwrap() error { return e.cause }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsMissingPrecondition reports whether err indicates absent upstream
// data. These are fatal for the current calculation and must surface
// to the caller rather than being silently defaulted.
func IsMissingPrecondition(err error) bool {
	return errors.Is(err, ErrNoReleaseDate) ||
		errors.Is(err, ErrNoLicenceExpiryDate)
}
