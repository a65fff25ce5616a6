// Package documents defines the document types an application may carry
// and computes which required documents are still outstanding.
package documents

import (
	"fmt"
	"strconv"
	"strings"
)

// Individual document types
const (
	OLevelCertificate       = "o_level_certificate"
	NationalID              = "national_id"
	BirthCertificate        = "birth_certificate"
	ALevelCertificate       = "a_level_certificate"
	EquivalentQualification = "equivalent_qualification"
	PassportPhoto           = "passport_photo"
)

// Organization document types
const (
	CertificateOfIncorporation = "certificate_of_incorporation"
	PartnershipAgreement       = "partnership_agreement"
	MemorandumArticles         = "memorandum_articles"
	TaxClearance               = "tax_clearance"
	TrustAccountConfirmation   = "trust_account_confirmation"
	DirectorsRegister          = "directors_register"
	ProofOfBusinessAddress     = "proof_of_business_address"
	PREAAppointmentLetter      = "prea_appointment_letter"
	ProfessionalIndemnity      = "professional_indemnity"

	policeClearancePrefix = "police_clearance_director_"
)

// Shared document types
const (
	FeeProof   = "fee_proof"
	Supporting = "supporting"
)

// Kind groups document types by the file formats they accept
type Kind string

const (
	KindCertificate Kind = "certificate"
	KindPhoto       Kind = "photo"
	KindLetter      Kind = "letter"
)

// Type describes one document type
type Type struct {
	Tag            string
	Label          string
	Kind           Kind
	SingleInstance bool
}

var catalogue = map[string]Type{
	OLevelCertificate:          {OLevelCertificate, "O-Level Certificate", KindCertificate, false},
	NationalID:                 {NationalID, "National ID or Passport", KindCertificate, true},
	BirthCertificate:           {BirthCertificate, "Birth Certificate", KindCertificate, true},
	ALevelCertificate:          {ALevelCertificate, "A-Level Certificate", KindCertificate, false},
	EquivalentQualification:    {EquivalentQualification, "Equivalent Qualification", KindCertificate, false},
	PassportPhoto:              {PassportPhoto, "Passport Photo", KindPhoto, true},
	CertificateOfIncorporation: {CertificateOfIncorporation, "Certificate of Incorporation", KindCertificate, true},
	PartnershipAgreement:       {PartnershipAgreement, "Partnership Agreement", KindLetter, true},
	MemorandumArticles:         {MemorandumArticles, "Memorandum and Articles of Association", KindLetter, true},
	TaxClearance:               {TaxClearance, "Tax Clearance Certificate", KindCertificate, true},
	TrustAccountConfirmation:   {TrustAccountConfirmation, "Trust Account Bank Confirmation", KindLetter, true},
	DirectorsRegister:          {DirectorsRegister, "Register of Directors", KindLetter, true},
	ProofOfBusinessAddress:     {ProofOfBusinessAddress, "Proof of Business Address", KindLetter, true},
	PREAAppointmentLetter:      {PREAAppointmentLetter, "PREA Appointment Letter", KindLetter, true},
	ProfessionalIndemnity:      {ProfessionalIndemnity, "Professional Indemnity Cover", KindLetter, true},
	FeeProof:                   {FeeProof, "Proof of Payment", KindLetter, false},
	Supporting:                 {Supporting, "Supporting Document", KindLetter, false},
}

// Lookup returns the document type for tag, including per-director slots
func Lookup(tag string) (Type, bool) {
	if t, ok := catalogue[tag]; ok {
		return t, true
	}
	if n, ok := directorIndex(tag); ok {
		return Type{
			Tag:            tag,
			Label:          fmt.Sprintf("Police Clearance (Director %d)", n),
			Kind:           KindCertificate,
			SingleInstance: true,
		}, true
	}
	return Type{}, false
}

// Label returns the human readable name for tag
func Label(tag string) string {
	if t, ok := Lookup(tag); ok {
		return t.Label
	}
	return tag
}

// PoliceClearanceTag returns the slot tag for director n (1-based)
func PoliceClearanceTag(n int) string {
	return policeClearancePrefix + strconv.Itoa(n)
}

func directorIndex(tag string) (int, bool) {
	if !strings.HasPrefix(tag, policeClearancePrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(tag, policeClearancePrefix))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
