package domain

import (
	"fmt"
	"strings"
)

// PayloadSchemaVersion is the version stamped on every stored payload
const PayloadSchemaVersion = 1

// PersonalInfo holds individual applicant identity details
type PersonalInfo struct {
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"required,max=100"`
	DateOfBirth string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Gender      string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	NationalID  string `json:"national_id" validate:"required,max=50"`
	Nationality string `json:"nationality,omitempty" validate:"omitempty,max=60"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address     string `json:"address,omitempty" validate:"omitempty,max=300"`
}

// FullName joins first and last name
func (p PersonalInfo) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// SubjectGrade is one examined subject
type SubjectGrade struct {
	Subject string `json:"subject" validate:"required"`
	Grade   string `json:"grade" validate:"required"`
}

// OLevelRecord summarizes ordinary level results
type OLevelRecord struct {
	PassesCount int            `json:"passes_count" validate:"gte=0"`
	HasEnglish  bool           `json:"has_english"`
	HasMath     bool           `json:"has_math"`
	Subjects    []SubjectGrade `json:"subjects,omitempty" validate:"omitempty,dive"`
}

// ALevelRecord summarizes advanced level results
type ALevelRecord struct {
	PassesCount int            `json:"passes_count" validate:"gte=0"`
	Subjects    []SubjectGrade `json:"subjects,omitempty" validate:"omitempty,dive"`
}

// EquivalentQualification is a certified alternative to A-Levels
type EquivalentQualification struct {
	Qualification     string `json:"qualification" validate:"required"`
	Institution       string `json:"institution,omitempty"`
	YearObtained      int    `json:"year_obtained,omitempty"`
	EvidenceReference string `json:"evidence_reference,omitempty"`
}

// HasEvidence reports whether the qualification is backed by a document
func (q *EquivalentQualification) HasEvidence() bool {
	return q != nil && strings.TrimSpace(q.Qualification) != "" && strings.TrimSpace(q.EvidenceReference) != ""
}

// IndividualPayload is the stored body of an individual application
type IndividualPayload struct {
	SchemaVersion int                      `json:"schema_version"`
	Personal      PersonalInfo             `json:"personal" validate:"required"`
	OLevel        *OLevelRecord            `json:"o_level" validate:"required"`
	ALevel        *ALevelRecord            `json:"a_level,omitempty"`
	Equivalent    *EquivalentQualification `json:"equivalent,omitempty"`
}

// OrganizationProfile holds company details
type OrganizationProfile struct {
	LegalName          string `json:"legal_name" validate:"required,max=200"`
	TradingName        string `json:"trading_name,omitempty" validate:"omitempty,max=200"`
	RegistrationNumber string `json:"registration_number,omitempty" validate:"omitempty,max=60"`
	Email              string `json:"email" validate:"required,email"`
	Phone              string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address            string `json:"address,omitempty" validate:"omitempty,max=300"`
}

// TrustAccount is the client-money account an agency must hold
type TrustAccount struct {
	BankName      string `json:"bank_name" validate:"required,max=120"`
	AccountName   string `json:"account_name,omitempty" validate:"omitempty,max=200"`
	AccountNumber string `json:"account_number,omitempty" validate:"omitempty,max=40"`
	Branch        string `json:"branch,omitempty" validate:"omitempty,max=120"`
}

// Director is a listed company director
type Director struct {
	Name             string `json:"name" validate:"required,max=200"`
	NationalID       string `json:"national_id,omitempty" validate:"omitempty,max=50"`
	Email            string `json:"email,omitempty" validate:"omitempty,email"`
	MembershipNumber string `json:"membership_number,omitempty" validate:"omitempty,max=40"`
}

// OrganizationPayload is the stored body of an organization application
type OrganizationPayload struct {
	SchemaVersion    int                 `json:"schema_version"`
	Profile          OrganizationProfile `json:"profile" validate:"required"`
	TrustAccount     TrustAccount        `json:"trust_account" validate:"required"`
	PREAMemberNumber string              `json:"prea_member_number" validate:"required,max=40"`
	Directors        []Director          `json:"directors" validate:"required,min=1,dive"`
}

// PREAIsDirector reports whether the declared PREA is among the directors
func (p OrganizationPayload) PREAIsDirector() bool {
	want := strings.TrimSpace(p.PREAMemberNumber)
	if want == "" {
		return false
	}
	for _, d := range p.Directors {
		if strings.EqualFold(strings.TrimSpace(d.MembershipNumber), want) {
			return true
		}
	}
	return false
}

// Stamp sets the current schema version before a write
func (p *IndividualPayload) Stamp() { p.SchemaVersion = PayloadSchemaVersion }

// Stamp sets the current schema version before a write
func (p *OrganizationPayload) Stamp() { p.SchemaVersion = PayloadSchemaVersion }

// Upgrade brings a payload read from storage to the current schema.
// Rows written before versioning carry version 0 and share the v1 shape.
func (p *IndividualPayload) Upgrade() error {
	return upgradeVersion(&p.SchemaVersion)
}

// Upgrade brings a payload read from storage to the current schema
func (p *OrganizationPayload) Upgrade() error {
	return upgradeVersion(&p.SchemaVersion)
}

func upgradeVersion(v *int) error {
	switch {
	case *v == 0:
		*v = PayloadSchemaVersion
		return nil
	case *v > PayloadSchemaVersion || *v < 0:
		return fmt.Errorf("%w: %d", ErrSchemaVersion, *v)
	}
	return nil
}
