package domain

import "strings"

// Role represents user role in the system
type Role string

const (
	RoleApplicant Role = "APPLICANT"
	RoleRegistrar Role = "REGISTRAR"
	RoleFinance   Role = "FINANCE"
	RoleAdmin     Role = "ADMIN"
)

// IsStaff reports whether the role belongs to council staff
func (r Role) IsStaff() bool {
	return r == RoleRegistrar || r == RoleFinance || r == RoleAdmin
}

// ApplicationType distinguishes individual and organization applications
type ApplicationType string

const (
	ApplicationIndividual   ApplicationType = "individual"
	ApplicationOrganization ApplicationType = "organization"
)

// Valid reports whether t is a known application type
func (t ApplicationType) Valid() bool {
	return t == ApplicationIndividual || t == ApplicationOrganization
}

// ApplicantStatus tracks an applicant account through the funnel
type ApplicantStatus string

const (
	ApplicantRegistered           ApplicantStatus = "registered"
	ApplicantEmailVerified        ApplicantStatus = "email_verified"
	ApplicantApplicationStarted   ApplicantStatus = "application_started"
	ApplicantApplicationCompleted ApplicantStatus = "application_completed"
	ApplicantUnderReview          ApplicantStatus = "under_review"
	ApplicantApproved             ApplicantStatus = "approved"
	ApplicantRejected             ApplicantStatus = "rejected"
)

// CanStartApplication reports whether the applicant may open a new draft
func (s ApplicantStatus) CanStartApplication() bool {
	switch s {
	case ApplicantEmailVerified, ApplicantRejected:
		return true
	}
	return false
}

// ApplicationStatus is the workflow stage of an application
type ApplicationStatus string

const (
	StatusDraft                ApplicationStatus = "draft"
	StatusNeedsApplicantAction ApplicationStatus = "needs_applicant_action"
	StatusEligibilityReview    ApplicationStatus = "eligibility_review"
	StatusDocumentReview       ApplicationStatus = "document_review"
	StatusPaymentReview        ApplicationStatus = "payment_review"
	StatusApproved             ApplicationStatus = "approved"
	StatusRejected             ApplicationStatus = "rejected"
	StatusWithdrawn            ApplicationStatus = "withdrawn"
	StatusExpired              ApplicationStatus = "expired"
)

// AllApplicationStatuses lists statuses in workflow order
var AllApplicationStatuses = []ApplicationStatus{
	StatusDraft,
	StatusNeedsApplicantAction,
	StatusEligibilityReview,
	StatusDocumentReview,
	StatusPaymentReview,
	StatusApproved,
	StatusRejected,
	StatusWithdrawn,
	StatusExpired,
}

// IsTerminal reports whether no further transition is possible
func (s ApplicationStatus) IsTerminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusWithdrawn, StatusExpired:
		return true
	}
	return false
}

// IsEditable reports whether the applicant may still change the application
func (s ApplicationStatus) IsEditable() bool {
	return s == StatusDraft || s == StatusNeedsApplicantAction
}

// IsUnderReview reports whether staff currently own the application
func (s ApplicationStatus) IsUnderReview() bool {
	switch s {
	case StatusEligibilityReview, StatusDocumentReview, StatusPaymentReview:
		return true
	}
	return false
}

// Label returns a human readable stage name
func (s ApplicationStatus) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// FeeStatus tracks settlement of the application fee
type FeeStatus string

const (
	FeePending       FeeStatus = "pending"
	FeeProofUploaded FeeStatus = "proof_uploaded"
	FeeSettled       FeeStatus = "settled"
	FeeWaived        FeeStatus = "waived"
)

// IsCleared reports whether the fee no longer blocks approval
func (f FeeStatus) IsCleared() bool {
	return f == FeeSettled || f == FeeWaived
}

// DecisionOutcome is the final registry decision
type DecisionOutcome string

const (
	DecisionAccepted DecisionOutcome = "accepted"
	DecisionRejected DecisionOutcome = "rejected"
)

// RegistrationStatus is the status of a member or organization record
type RegistrationStatus string

const (
	RegistrationActive    RegistrationStatus = "active"
	RegistrationExpired   RegistrationStatus = "expired"
	RegistrationSuspended RegistrationStatus = "suspended"
)

// DocumentStatus is the staff verification state of an upload
type DocumentStatus string

const (
	DocumentUploaded DocumentStatus = "uploaded"
	DocumentVerified DocumentStatus = "verified"
	DocumentRejected DocumentStatus = "rejected"
)

// DuplicateScope controls how far content-hash uniqueness reaches
type DuplicateScope string

const (
	DuplicateScopeGlobal      DuplicateScope = "global"
	DuplicateScopeApplication DuplicateScope = "application"
)

// Actor identifies who performed a change
type Actor struct {
	UserID uint
	Role   Role
	IP     string
}

// SystemActor is used by scheduled jobs
var SystemActor = Actor{Role: "SYSTEM"}

// IsSystem reports whether the actor is the scheduler
func (a Actor) IsSystem() bool {
	return a.Role == "SYSTEM"
}
