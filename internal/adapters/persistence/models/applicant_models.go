package models

import (
	"strings"
	"time"

	"eac-registry/internal/core/domain"
)

// ApplicantAccount is shared by individual and organization applicants
type ApplicantAccount struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	ApplicantID           string     `gorm:"uniqueIndex;size:20;not null" json:"applicant_id"`
	UserID                uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Email                 string     `gorm:"uniqueIndex;size:150;not null" json:"email"`
	Phone                 string     `gorm:"size:30" json:"phone"`
	Status                string     `gorm:"size:30;not null;index" json:"status"`
	VerificationTokenHash string     `gorm:"size:64;index" json:"-"`
	VerificationExpiresAt *time.Time `json:"-"`
	EmailVerifiedAt       *time.Time `json:"email_verified_at"`
	CreatedAt             time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// Account exposes the shared columns
func (a *ApplicantAccount) Account() *ApplicantAccount { return a }

// CurrentStatus returns the typed funnel status
func (a *ApplicantAccount) CurrentStatus() domain.ApplicantStatus {
	return domain.ApplicantStatus(a.Status)
}

// Applicant represents applicants table (individuals)
type Applicant struct {
	ApplicantAccount `gorm:"embedded"`
	FirstName        string `gorm:"size:100;not null" json:"first_name"`
	LastName         string `gorm:"size:100;not null" json:"last_name"`
}

func (Applicant) TableName() string {
	return "applicants"
}

// DisplayName returns the applicant's name
func (a *Applicant) DisplayName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// Kind returns the application type this applicant may open
func (a *Applicant) Kind() domain.ApplicationType { return domain.ApplicationIndividual }

// OrganizationApplicant represents organization_applicants table
type OrganizationApplicant struct {
	ApplicantAccount `gorm:"embedded"`
	CompanyName      string `gorm:"size:200;not null" json:"company_name"`
	ContactPerson    string `gorm:"size:200" json:"contact_person"`
}

func (OrganizationApplicant) TableName() string {
	return "organization_applicants"
}

// DisplayName returns the company name
func (a *OrganizationApplicant) DisplayName() string {
	return a.CompanyName
}

// Kind returns the application type this applicant may open
func (a *OrganizationApplicant) Kind() domain.ApplicationType { return domain.ApplicationOrganization }

// ApplicantRecord abstracts both applicant tables
type ApplicantRecord interface {
	Account() *ApplicantAccount
	DisplayName() string
	Kind() domain.ApplicationType
}
