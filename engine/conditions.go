/*
conditions.go - Reactive condition updaters

PURPOSE:
  When sentence dates move materially, some additional conditions on a
  licence carry date-dependent content that must be recomputed. Each
  updater declares whether a change is relevant to it and, if so,
  produces the updated condition text plus the notification owed to a
  contact once the caller commits the update.

DISPATCH:
  A flat table of {relevant, build, reason} entries - updaters are
  independent and stateless, there is no shared supertype. Adding a new
  reactive condition means adding one entry to DefaultUpdaters.

REFERENCE UPDATER (electronic monitoring, condition 14b):
  The monitoring end date is recomputed as:
    - the licence expiry date, when it is less than 12 months away
    - otherwise the actual release date plus one year, falling back to
      the conditional release date plus one year
  Neither release date available is a missing-precondition error.

  The notification reason follows a fixed priority: a licence-end
  change and a release change together produce the combined message,
  then each alone, and the no-change branch is unreachable because
  relevance already requires one of them.
*/
package engine

import "fmt"

// ElectronicMonitoringCode is the additional-condition code for the
// electronic monitoring requirement.
const ElectronicMonitoringCode = "14b"

// monitoredStatuses are the licence states in which condition content
// is still live and worth updating.
var monitoredStatuses = map[LicenceStatus]struct{}{
	StatusInProgress: {},
	StatusSubmitted:  {},
	StatusApproved:   {},
	StatusActive:     {},
}

// =============================================================================
// UPDATER TABLE
// =============================================================================

// ConditionUpdater is one reactive handler: a relevance predicate, a
// content builder and a notification reason selector.
type ConditionUpdater struct {
	Name          string
	ConditionCode string
	Relevant      func(lic LicenceView, ch SentenceChanges) bool
	Build         func(lic LicenceView, ch SentenceChanges, today Date) (string, error)
	Reason        func(ch SentenceChanges) (string, error)
}

// DefaultUpdaters returns the fixed updater table.
func DefaultUpdaters() []ConditionUpdater {
	return []ConditionUpdater{
		{
			Name:          "electronic-monitoring-end-date",
			ConditionCode: ElectronicMonitoringCode,
			Relevant:      monitoringRelevant,
			Build:         buildMonitoringCondition,
			Reason:        monitoringReason,
		},
	}
}

// PlanConditionUpdates runs every updater and collects a plan per
// relevant updater. Irrelevant updaters produce no plan at all; an
// error from any relevant updater aborts the whole planning pass, so
// the caller never applies a partial set.
func PlanConditionUpdates(lic LicenceView, ch SentenceChanges, today Date, updaters []ConditionUpdater) ([]ConditionUpdatePlan, error) {
	var plans []ConditionUpdatePlan
	for _, u := range updaters {
		if !u.Relevant(lic, ch) {
			continue
		}
		text, err := u.Build(lic, ch, today)
		if err != nil {
			return nil, fmt.Errorf("updater %s: %w", u.Name, err)
		}
		reason, err := u.Reason(ch)
		if err != nil {
			return nil, fmt.Errorf("updater %s: %w", u.Name, err)
		}
		plans = append(plans, ConditionUpdatePlan{
			IsRelevant:         true,
			ConditionCode:      u.ConditionCode,
			UpdatedText:        text,
			NotificationReason: reason,
		})
	}
	return plans, nil
}

// =============================================================================
// ELECTRONIC MONITORING
// =============================================================================

func monitoringRelevant(lic LicenceView, ch SentenceChanges) bool {
	if !lic.HasCondition(ElectronicMonitoringCode) {
		return false
	}
	if _, live := monitoredStatuses[lic.Dates.Status]; !live {
		return false
	}
	return ch.AnyChanged(FieldLicenceExpiry, FieldConditionalRelease, FieldActualRelease)
}

// MonitoringEndDate recomputes the electronic monitoring end date for
// a licence. Exported because the caseload views display it directly.
func MonitoringEndDate(lic LicenceView, today Date) (Date, error) {
	led := lic.Dates.LicenceExpiry
	if led == nil {
		return Date{}, &MissingDateError{Field: FieldLicenceExpiry, cause: ErrNoLicenceExpiryDate}
	}
	if led.Before(today.AddMonths(12)) {
		return *led, nil
	}
	if ard := lic.Dates.ActualRelease; ard != nil {
		return ard.AddYears(1), nil
	}
	if crd := lic.Dates.ConditionalRelease; crd != nil {
		return crd.AddYears(1), nil
	}
	return Date{}, &MissingDateError{Field: FieldActualRelease, cause: ErrNoReleaseDate}
}

func buildMonitoringCondition(lic LicenceView, _ SentenceChanges, today Date) (string, error) {
	end, err := MonitoringEndDate(lic, today)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"Allow person(s) as designated by your supervising officer to install an electronic monitoring tag on you and access to install any associated equipment in your approved address, and for the purpose of ensuring that equipment is functioning correctly. You must not damage or tamper with these devices and ensure that the tag is charged, and report to your supervising officer and the EM provider immediately if the tag or the associated equipment are not working. This will be for the purpose of monitoring your curfew which will end on %s.",
		end.Format("2 January 2006")), nil
}

func monitoringReason(ch SentenceChanges) (string, error) {
	ledChanged := ch.FieldChanged(FieldLicenceExpiry)
	releaseChanged := ch.AnyChanged(FieldConditionalRelease, FieldActualRelease)
	switch {
	case ledChanged && releaseChanged:
		return "your licence end date and release date have changed", nil
	case ledChanged:
		return "your licence end date has changed", nil
	case releaseChanged:
		return "your release date has changed", nil
	default:
		// Relevance guarantees at least one of the above.
		return "", ErrNoRelevantChange
	}
}
