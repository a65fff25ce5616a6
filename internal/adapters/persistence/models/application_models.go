package models

import (
	"time"

	"eac-registry/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ApplicationCore holds the workflow columns shared by both application tables
type ApplicationCore struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	ApplicationID      string          `gorm:"uniqueIndex;size:20;not null" json:"application_id"`
	ApplicantID        string          `gorm:"size:20;not null;index" json:"applicant_id"`
	UserID             uint            `gorm:"not null;index" json:"user_id"`
	ApplicantEmail     string          `gorm:"size:150;not null;index" json:"applicant_email"`
	Status             string          `gorm:"size:30;not null;index" json:"status"`
	FeeRequired        bool            `gorm:"not null" json:"fee_required"`
	FeeAmount          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"fee_amount"`
	FeeCurrency        string          `gorm:"size:3;not null" json:"fee_currency"`
	FeeStatus          string          `gorm:"size:20;not null" json:"fee_status"`
	FeeProofDocumentID *uint           `json:"fee_proof_document_id"`
	ReviewerID         *uint           `json:"reviewer_id"`
	SubmittedAt        *time.Time      `json:"submitted_at"`
	ReviewedAt         *time.Time      `json:"reviewed_at"`
	ApprovedAt         *time.Time      `json:"approved_at"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime;index" json:"updated_at"`
}

// Core exposes the shared workflow columns
func (c *ApplicationCore) Core() *ApplicationCore { return c }

// CurrentStatus returns the typed workflow status
func (c *ApplicationCore) CurrentStatus() domain.ApplicationStatus {
	return domain.ApplicationStatus(c.Status)
}

// CurrentFeeStatus returns the typed fee status
func (c *ApplicationCore) CurrentFeeStatus() domain.FeeStatus {
	return domain.FeeStatus(c.FeeStatus)
}

// Application abstracts individual and organization applications
type Application interface {
	Core() *ApplicationCore
	Kind() domain.ApplicationType
	DisplayName() string
	Category() string
	ToResponse() *ApplicationResponse
}

// IndividualApplication represents individual_applications table
type IndividualApplication struct {
	ApplicationCore `gorm:"embedded"`
	MemberType      string                                       `gorm:"size:60;not null" json:"member_type"`
	MatureEntry     bool                                         `json:"mature_entry"`
	Payload         datatypes.JSONType[domain.IndividualPayload] `json:"payload"`
	CreatedMemberID *uint                                        `json:"created_member_id"`
}

func (IndividualApplication) TableName() string {
	return "individual_applications"
}

// Kind returns the application type
func (a *IndividualApplication) Kind() domain.ApplicationType { return domain.ApplicationIndividual }

// Category returns the member type
func (a *IndividualApplication) Category() string { return a.MemberType }

// DisplayName returns the applicant's full name
func (a *IndividualApplication) DisplayName() string {
	p := a.Payload.Data()
	return p.Personal.FullName()
}

// Details parses the stored payload, upgrading old schema versions
func (a *IndividualApplication) Details() (domain.IndividualPayload, error) {
	p := a.Payload.Data()
	err := p.Upgrade()
	return p, err
}

// SetDetails stamps and stores the payload
func (a *IndividualApplication) SetDetails(p domain.IndividualPayload) {
	p.Stamp()
	a.Payload = datatypes.NewJSONType(p)
}

// OrganizationApplication represents organization_applications table
type OrganizationApplication struct {
	ApplicationCore       `gorm:"embedded"`
	BusinessType          string                                         `gorm:"size:60;not null" json:"business_type"`
	DirectorCount         int                                            `gorm:"not null" json:"director_count"`
	PREAMemberNumber      string                                         `gorm:"size:40;index" json:"prea_member_number"`
	Payload               datatypes.JSONType[domain.OrganizationPayload] `json:"payload"`
	CreatedOrganizationID *uint                                          `json:"created_organization_id"`
}

func (OrganizationApplication) TableName() string {
	return "organization_applications"
}

// Kind returns the application type
func (a *OrganizationApplication) Kind() domain.ApplicationType { return domain.ApplicationOrganization }

// Category returns the business type
func (a *OrganizationApplication) Category() string { return a.BusinessType }

// DisplayName returns the legal name
func (a *OrganizationApplication) DisplayName() string {
	p := a.Payload.Data()
	return p.Profile.LegalName
}

// Details parses the stored payload, upgrading old schema versions
func (a *OrganizationApplication) Details() (domain.OrganizationPayload, error) {
	p := a.Payload.Data()
	err := p.Upgrade()
	return p, err
}

// SetDetails stamps and stores the payload, keeping denormalized columns in sync
func (a *OrganizationApplication) SetDetails(p domain.OrganizationPayload) {
	p.Stamp()
	a.Payload = datatypes.NewJSONType(p)
	a.DirectorCount = len(p.Directors)
	a.PREAMemberNumber = p.PREAMemberNumber
}

// FeeResponse is the fee section of an application response
type FeeResponse struct {
	Required        bool            `json:"required"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`
	ProofDocumentID *uint           `json:"proof_document_id,omitempty"`
}

// ApplicationResponse DTO
type ApplicationResponse struct {
	ApplicationID   string      `json:"application_id"`
	Type            string      `json:"type"`
	ApplicantID     string      `json:"applicant_id"`
	ApplicantEmail  string      `json:"applicant_email"`
	Name            string      `json:"name"`
	Category        string      `json:"category"`
	Status          string      `json:"status"`
	NextStatuses    []string    `json:"next_statuses"`
	Fee             FeeResponse `json:"fee"`
	MatureEntry     *bool       `json:"mature_entry,omitempty"`
	DirectorCount   *int        `json:"director_count,omitempty"`
	Details         interface{} `json:"details"`
	CreatedRecordID *uint       `json:"created_record_id,omitempty"`
	ReviewerID      *uint       `json:"reviewer_id,omitempty"`
	SubmittedAt     *time.Time  `json:"submitted_at"`
	ReviewedAt      *time.Time  `json:"reviewed_at"`
	ApprovedAt      *time.Time  `json:"approved_at"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func coreResponse(c *ApplicationCore, kind domain.ApplicationType) *ApplicationResponse {
	next := domain.NextStatuses(c.CurrentStatus())
	names := make([]string, len(next))
	for i, s := range next {
		names[i] = string(s)
	}
	return &ApplicationResponse{
		ApplicationID:  c.ApplicationID,
		Type:           string(kind),
		ApplicantID:    c.ApplicantID,
		ApplicantEmail: c.ApplicantEmail,
		Status:         c.Status,
		NextStatuses:   names,
		Fee: FeeResponse{
			Required:        c.FeeRequired,
			Amount:          c.FeeAmount,
			Currency:        c.FeeCurrency,
			Status:          c.FeeStatus,
			ProofDocumentID: c.FeeProofDocumentID,
		},
		ReviewerID:  c.ReviewerID,
		SubmittedAt: c.SubmittedAt,
		ReviewedAt:  c.ReviewedAt,
		ApprovedAt:  c.ApprovedAt,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (a *IndividualApplication) ToResponse() *ApplicationResponse {
	resp := coreResponse(&a.ApplicationCore, a.Kind())
	resp.Name = a.DisplayName()
	resp.Category = a.MemberType
	resp.MatureEntry = &a.MatureEntry
	resp.Details = a.Payload.Data()
	resp.CreatedRecordID = a.CreatedMemberID
	return resp
}

func (a *OrganizationApplication) ToResponse() *ApplicationResponse {
	resp := coreResponse(&a.ApplicationCore, a.Kind())
	resp.Name = a.DisplayName()
	resp.Category = a.BusinessType
	resp.DirectorCount = &a.DirectorCount
	resp.Details = a.Payload.Data()
	resp.CreatedRecordID = a.CreatedOrganizationID
	return resp
}
