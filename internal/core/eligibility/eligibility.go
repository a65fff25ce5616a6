// Package eligibility holds the admission rules for individual and
// organization applicants. Every function here is pure: callers supply all
// context (dates, uploaded documents, member lookups) up front.
package eligibility

import (
	"strings"
	"time"

	"eac-registry/internal/core/documents"
	"eac-registry/internal/core/domain"
)

// MatureEntryAge is the age from which A-Levels are not required
const MatureEntryAge = 27

// Rejection reasons
const (
	ReasonInvalidData         = "Invalid application data"
	ReasonOLevel              = "Minimum of 5 O-Level passes including English and Mathematics required"
	ReasonUnderAgeALevel      = "Applicants under 27 must have either 2+ A-Level passes or certified equivalent qualification"
	ReasonMissingLegalName    = "Organization legal name is required"
	ReasonMissingEmail        = "Organization email is required"
	ReasonMissingTrustBank    = "Trust account bank name is required"
	ReasonMissingPREA         = "A Principal Registered Estate Agent must be declared"
	ReasonPREAInactive        = "Principal Registered Estate Agent must be an active individual member"
	ReasonNoDirectors         = "At least one director must be listed"
	ReasonMissingOrgDocuments = "Required organizational documents are missing"
)

// Warnings
const (
	WarningALevelNoted      = "A-Level results noted; not required for mature entry"
	WarningPREANotADirector = "Principal Registered Estate Agent is not listed among the directors"
)

// Result is the outcome of an eligibility evaluation
type Result struct {
	OK           bool     `json:"ok"`
	Mature       bool     `json:"mature"`
	Reason       string   `json:"reason,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
	Missing      []string `json:"missing_items,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
	// HardFail marks a rule rejection as opposed to an incomplete checklist
	HardFail     bool     `json:"-"`
}

func reject(reason string) Result {
	return Result{OK: false, Reason: reason, HardFail: true}
}

// EvaluateIndividual checks an individual applicant as of asOf
func EvaluateIndividual(in *domain.IndividualPayload, asOf time.Time) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = reject(ReasonInvalidData)
		}
	}()

	if in == nil || in.OLevel == nil || in.OLevel.PassesCount < 0 {
		return reject(ReasonInvalidData)
	}

	if in.OLevel.PassesCount < 5 || !in.OLevel.HasEnglish || !in.OLevel.HasMath {
		return reject(ReasonOLevel)
	}

	dob, err := time.Parse("2006-01-02", strings.TrimSpace(in.Personal.DateOfBirth))
	if err != nil {
		return reject(ReasonInvalidData)
	}
	age, ok := AgeOn(dob, asOf)
	if !ok {
		return reject(ReasonInvalidData)
	}

	aLevelPasses := 0
	if in.ALevel != nil {
		aLevelPasses = in.ALevel.PassesCount
	}

	if age >= MatureEntryAge {
		res = Result{OK: true, Mature: true, Requirements: documents.IndividualRequired(true)}
		if aLevelPasses > 0 {
			res.Warnings = append(res.Warnings, WarningALevelNoted)
		}
		return res
	}

	if aLevelPasses < 2 && !in.Equivalent.HasEvidence() {
		return reject(ReasonUnderAgeALevel)
	}

	return Result{OK: true, Mature: false, Requirements: documents.IndividualRequired(false)}
}

// AgeOn returns the whole years between dob and asOf. It reports false for
// a date of birth in the future.
func AgeOn(dob, asOf time.Time) (int, bool) {
	if dob.After(asOf) {
		return 0, false
	}
	age := asOf.Year() - dob.Year()
	if asOf.Month() < dob.Month() || (asOf.Month() == dob.Month() && asOf.Day() < dob.Day()) {
		age--
	}
	return age, true
}

// OrganizationContext is looked up by the caller before evaluation
type OrganizationContext struct {
	// Uploaded maps document tags to presence
	Uploaded       map[string]bool
	PREAIsActive   bool
	PREAIsDirector bool
}

// EvaluateOrganization checks an organization applicant
func EvaluateOrganization(in *domain.OrganizationPayload, oc OrganizationContext) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = reject(ReasonInvalidData)
		}
	}()

	if in == nil {
		return reject(ReasonInvalidData)
	}

	switch {
	case blank(in.Profile.LegalName):
		return reject(ReasonMissingLegalName)
	case blank(in.Profile.Email):
		return reject(ReasonMissingEmail)
	case blank(in.TrustAccount.BankName):
		return reject(ReasonMissingTrustBank)
	case blank(in.PREAMemberNumber):
		return reject(ReasonMissingPREA)
	case !oc.PREAIsActive:
		return reject(ReasonPREAInactive)
	}

	var warnings []string
	if !oc.PREAIsDirector {
		warnings = append(warnings, WarningPREANotADirector)
	}

	if len(in.Directors) == 0 {
		res = reject(ReasonNoDirectors)
		res.Warnings = warnings
		return res
	}

	uploaded := oc.Uploaded
	if uploaded == nil {
		uploaded = map[string]bool{}
	}
	missing := documents.MissingOrganization(uploaded, len(in.Directors))

	res = Result{
		OK:           len(missing) == 0,
		Requirements: documents.OrganizationRequired(len(in.Directors)),
		Missing:      missing,
		Warnings:     warnings,
	}
	if !res.OK {
		res.Reason = ReasonMissingOrgDocuments
	}
	return res
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
