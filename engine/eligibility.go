/*
eligibility.go - Licence eligibility rule sets

PURPOSE:
  Decides whether a person can be given this kind of licence at all.
  A rule set is a fixed, ordered table of (predicate, message) pairs;
  evaluation collects the message of every predicate that fails. An
  empty reason list means eligible.

ORDERING:
  Reasons must appear in rule-definition order regardless of which
  rules fail: downstream consumers display the first reason as the
  primary blocker, and test fixtures rely on stable ordering. Every
  predicate is evaluated (no short-circuiting) - order only affects
  message ordering, never correctness.

RULE SETS:
  NewLicenceRules      - the full set, applied before creating a licence
  ExistingLicenceRules - the reduced set (release date still in the
                         future, custody status still active) applied to
                         already-created licences to decide whether the
                         record is still valid.

EDS WINDOW:
  An extended determinate sentence (parole eligibility date present) is
  only workable when the confirmed release date sits within the four
  days before the conditional release date, up to and including it, and
  no successful parole date has been recorded.
*/
package engine

import "strings"

// =============================================================================
// RULE SET
// =============================================================================

// Rule pairs a named predicate with the reason reported on failure.
// Predicates are independent and side-effect-free.
type Rule struct {
	Name    string
	Message string
	Check   func(s SentenceSnapshot, today Date) bool
}

// RuleSet is an ordered list of rules.
type RuleSet struct {
	rules []Rule
}

// Evaluate runs every rule against the snapshot and collects the
// message of each failing rule, in rule-definition order.
func (rs *RuleSet) Evaluate(s SentenceSnapshot, today Date) EligibilityDecision {
	var reasons []string
	for _, r := range rs.rules {
		if !r.Check(s, today) {
			reasons = append(reasons, r.Message)
		}
	}
	return EligibilityDecision{IsEligible: len(reasons) == 0, Reasons: reasons}
}

// =============================================================================
// RULES
// =============================================================================

// edsWindowDays is how many days before the conditional release date a
// confirmed EDS release may fall and still be workable.
const edsWindowDays = 4

var ruleNotAwaitingParole = Rule{
	Name:    "parole",
	Message: "has a parole eligibility date in the future",
	Check: func(s SentenceSnapshot, today Date) bool {
		return s.ParoleEligibilityDate == nil || !s.ParoleEligibilityDate.After(today)
	},
}

var ruleNotDeceased = Rule{
	Name:    "deceased",
	Message: "is recorded as deceased",
	Check: func(s SentenceSnapshot, today Date) bool {
		return s.LegalStatus != LegalStatusDead
	},
}

var ruleDeterminateSentence = Rule{
	Name:    "indeterminate",
	Message: "is serving an indeterminate sentence",
	Check: func(s SentenceSnapshot, today Date) bool {
		return !s.Indeterminate
	},
}

var ruleHasConditionalReleaseDate = Rule{
	Name:    "crd",
	Message: "has no conditional release date",
	Check: func(s SentenceSnapshot, today Date) bool {
		return s.ConditionalReleaseDate != nil
	},
}

var ruleEDSReleaseWorkable = Rule{
	Name:    "eds",
	Message: "is on an extended determinate sentence with no confirmed release within the permitted window",
	Check:   edsReleaseWorkable,
}

var ruleActiveInPrison = Rule{
	Name:    "custody",
	Message: "is not active in prison",
	Check: func(s SentenceSnapshot, today Date) bool {
		return activeInPrison(s.CustodialStatus)
	},
}

var ruleReleaseDateNotPassed = Rule{
	Name:    "releaseDate",
	Message: "has a release date in the past",
	Check: func(s SentenceSnapshot, today Date) bool {
		release := s.ConfirmedReleaseDate
		if release == nil {
			release = s.ConditionalReleaseDate
		}
		return release != nil && release.AfterOrEqual(today)
	},
}

var ruleNotRecall = Rule{
	Name:    "recall",
	Message: "is a recall case",
	Check: func(s SentenceSnapshot, today Date) bool {
		return !IsRecallCase(s)
	},
}

// edsReleaseWorkable passes for non-EDS cases, and for EDS cases whose
// confirmed release falls within the permitted window with no parole
// release already recorded.
func edsReleaseWorkable(s SentenceSnapshot, today Date) bool {
	if s.ParoleEligibilityDate == nil {
		return true // not an extended determinate sentence
	}
	if s.ConditionalReleaseDate == nil || s.ConfirmedReleaseDate == nil {
		return false
	}
	crd := *s.ConditionalReleaseDate
	ard := *s.ConfirmedReleaseDate
	if ard.Before(crd.AddDays(-edsWindowDays)) || ard.After(crd) {
		return false
	}
	return s.ActualParoleDate == nil
}

// activeInPrison accepts any ACTIVE* custodial status plus the transit
// code used while a person moves between establishments.
func activeInPrison(status string) bool {
	return strings.HasPrefix(status, "ACTIVE") || status == "INACTIVE TRN"
}

// =============================================================================
// RULE SET CONSTRUCTORS
// =============================================================================

// NewLicenceRules returns the full eligibility rule set applied before
// a licence is created. Order here is the order reasons render in.
func NewLicenceRules() *RuleSet {
	return &RuleSet{rules: []Rule{
		ruleNotAwaitingParole,
		ruleNotDeceased,
		ruleDeterminateSentence,
		ruleHasConditionalReleaseDate,
		ruleEDSReleaseWorkable,
		ruleActiveInPrison,
		ruleReleaseDateNotPassed,
		ruleNotRecall,
	}}
}

// ExistingLicenceRules returns the reduced rule set used to decide
// whether an already-created licence record is still valid.
func ExistingLicenceRules() *RuleSet {
	return &RuleSet{rules: []Rule{
		ruleReleaseDateNotPassed,
		ruleActiveInPrison,
	}}
}
