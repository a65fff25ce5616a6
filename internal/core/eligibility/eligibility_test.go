package eligibility

import (
	"testing"
	"time"

	"eac-registry/internal/core/documents"
	"eac-registry/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var asOf = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func dobForAge(age int) string {
	return asOf.AddDate(-age, 0, -1).Format("2006-01-02")
}

func validOLevel() *domain.OLevelRecord {
	return &domain.OLevelRecord{PassesCount: 5, HasEnglish: true, HasMath: true}
}

func individual(age int) *domain.IndividualPayload {
	return &domain.IndividualPayload{
		Personal: domain.PersonalInfo{FirstName: "Tariro", LastName: "Moyo", DateOfBirth: dobForAge(age), NationalID: "63-123456A78"},
		OLevel:   validOLevel(),
	}
}

func TestEvaluateIndividual_MatureEntryWithoutALevels(t *testing.T) {
	res := EvaluateIndividual(individual(30), asOf)

	assert.True(t, res.OK)
	assert.True(t, res.Mature)
	assert.Empty(t, res.Reason)
	assert.Equal(t, []string{"O-Level Certificate", "National ID or Passport", "Birth Certificate"}, res.Requirements)
	assert.Empty(t, res.Warnings)
}

func TestEvaluateIndividual_MatureEntryNotesALevels(t *testing.T) {
	in := individual(40)
	in.ALevel = &domain.ALevelRecord{PassesCount: 3}

	res := EvaluateIndividual(in, asOf)

	assert.True(t, res.OK)
	assert.True(t, res.Mature)
	assert.Equal(t, []string{WarningALevelNoted}, res.Warnings)
	assert.Len(t, res.Requirements, 3)
}

func TestEvaluateIndividual_InsufficientOLevels(t *testing.T) {
	cases := []struct {
		name   string
		olevel domain.OLevelRecord
	}{
		{"four passes", domain.OLevelRecord{PassesCount: 4, HasEnglish: true, HasMath: true}},
		{"zero passes", domain.OLevelRecord{PassesCount: 0, HasEnglish: true, HasMath: true}},
		{"no english", domain.OLevelRecord{PassesCount: 8, HasEnglish: false, HasMath: true}},
		{"no maths", domain.OLevelRecord{PassesCount: 8, HasEnglish: true, HasMath: false}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, age := range []int{18, 26, 27, 55} {
				in := individual(age)
				olevel := tc.olevel
				in.OLevel = &olevel
				in.ALevel = &domain.ALevelRecord{PassesCount: 4}
				in.Equivalent = &domain.EquivalentQualification{Qualification: "Diploma", EvidenceReference: "doc-1"}

				res := EvaluateIndividual(in, asOf)

				assert.False(t, res.OK, "age %d", age)
				assert.Equal(t, ReasonOLevel, res.Reason)
			}
		})
	}
}

func TestEvaluateIndividual_UnderAgeWithoutALevelsOrEquivalent(t *testing.T) {
	in := individual(22)
	in.ALevel = &domain.ALevelRecord{PassesCount: 1}

	res := EvaluateIndividual(in, asOf)

	assert.False(t, res.OK)
	assert.Equal(t, "Applicants under 27 must have either 2+ A-Level passes or certified equivalent qualification", res.Reason)
}

func TestEvaluateIndividual_UnderAgeEquivalentNeedsEvidence(t *testing.T) {
	in := individual(24)
	in.Equivalent = &domain.EquivalentQualification{Qualification: "National Diploma in Real Estate"}

	res := EvaluateIndividual(in, asOf)
	assert.False(t, res.OK)
	assert.Equal(t, ReasonUnderAgeALevel, res.Reason)

	in.Equivalent.EvidenceReference = "equivalent_qualification"
	res = EvaluateIndividual(in, asOf)
	assert.True(t, res.OK)
	assert.False(t, res.Mature)
	assert.Contains(t, res.Requirements, documents.LabelALevelOrEquivalent)
}

func TestEvaluateIndividual_UnderAgeWithTwoALevels(t *testing.T) {
	in := individual(19)
	in.ALevel = &domain.ALevelRecord{PassesCount: 2}

	res := EvaluateIndividual(in, asOf)

	require.True(t, res.OK)
	assert.False(t, res.Mature)
	assert.Len(t, res.Requirements, 4)
}

func TestEvaluateIndividual_BirthdayBoundary(t *testing.T) {
	in := individual(0)
	// turns 27 tomorrow
	in.Personal.DateOfBirth = asOf.AddDate(-27, 0, 1).Format("2006-01-02")
	assert.False(t, EvaluateIndividual(in, asOf).OK)

	// turns 27 today
	in.Personal.DateOfBirth = asOf.AddDate(-27, 0, 0).Format("2006-01-02")
	res := EvaluateIndividual(in, asOf)
	assert.True(t, res.OK)
	assert.True(t, res.Mature)
}

func TestEvaluateIndividual_MalformedInput(t *testing.T) {
	assert.Equal(t, ReasonInvalidData, EvaluateIndividual(nil, asOf).Reason)

	noOLevel := individual(30)
	noOLevel.OLevel = nil
	assert.Equal(t, ReasonInvalidData, EvaluateIndividual(noOLevel, asOf).Reason)

	badDate := individual(30)
	badDate.Personal.DateOfBirth = "15/06/1990"
	assert.Equal(t, ReasonInvalidData, EvaluateIndividual(badDate, asOf).Reason)

	future := individual(30)
	future.Personal.DateOfBirth = asOf.AddDate(1, 0, 0).Format("2006-01-02")
	assert.Equal(t, ReasonInvalidData, EvaluateIndividual(future, asOf).Reason)
}

func TestAgeOn(t *testing.T) {
	dob := time.Date(1995, time.December, 31, 0, 0, 0, 0, time.UTC)

	age, ok := AgeOn(dob, time.Date(2025, time.December, 30, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 29, age)

	age, _ = AgeOn(dob, time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 30, age)
}

func organization(directors int) *domain.OrganizationPayload {
	p := &domain.OrganizationPayload{
		Profile:          domain.OrganizationProfile{LegalName: "Harare Homes (Pvt) Ltd", Email: "info@hararehomes.co.zw"},
		TrustAccount:     domain.TrustAccount{BankName: "CBZ Bank"},
		PREAMemberNumber: "EAC-MBR-2024-0012",
	}
	for i := 0; i < directors; i++ {
		p.Directors = append(p.Directors, domain.Director{Name: "Director"})
	}
	return p
}

func allOrgDocs(directors int) map[string]bool {
	have := map[string]bool{documents.CertificateOfIncorporation: true}
	for _, tag := range documents.OrganizationBaseline {
		have[tag] = true
	}
	for n := 1; n <= directors; n++ {
		have[documents.PoliceClearanceTag(n)] = true
	}
	return have
}

func TestEvaluateOrganization_InactivePREA(t *testing.T) {
	res := EvaluateOrganization(organization(2), OrganizationContext{PREAIsActive: false, PREAIsDirector: true})

	assert.False(t, res.OK)
	assert.True(t, res.HardFail)
	assert.Equal(t, "Principal Registered Estate Agent must be an active individual member", res.Reason)
}

func TestEvaluateOrganization_HardRejections(t *testing.T) {
	cases := map[string]func(p *domain.OrganizationPayload){
		ReasonMissingLegalName: func(p *domain.OrganizationPayload) { p.Profile.LegalName = " " },
		ReasonMissingEmail:     func(p *domain.OrganizationPayload) { p.Profile.Email = "" },
		ReasonMissingTrustBank: func(p *domain.OrganizationPayload) { p.TrustAccount.BankName = "" },
		ReasonMissingPREA:      func(p *domain.OrganizationPayload) { p.PREAMemberNumber = "" },
		ReasonNoDirectors:      func(p *domain.OrganizationPayload) { p.Directors = nil },
	}

	for reason, mutate := range cases {
		t.Run(reason, func(t *testing.T) {
			p := organization(2)
			mutate(p)

			res := EvaluateOrganization(p, OrganizationContext{PREAIsActive: true, PREAIsDirector: true, Uploaded: allOrgDocs(2)})

			assert.False(t, res.OK)
			assert.True(t, res.HardFail)
			assert.Equal(t, reason, res.Reason)
		})
	}
}

func TestEvaluateOrganization_CompleteChecklist(t *testing.T) {
	res := EvaluateOrganization(organization(3), OrganizationContext{PREAIsActive: true, PREAIsDirector: true, Uploaded: allOrgDocs(3)})

	assert.True(t, res.OK)
	assert.Empty(t, res.Missing)
	assert.Empty(t, res.Warnings)
	assert.Len(t, res.Requirements, 8+3)
}

func TestEvaluateOrganization_PartnershipSubstitutesIncorporation(t *testing.T) {
	have := allOrgDocs(1)
	delete(have, documents.CertificateOfIncorporation)
	have[documents.PartnershipAgreement] = true

	res := EvaluateOrganization(organization(1), OrganizationContext{PREAIsActive: true, PREAIsDirector: true, Uploaded: have})
	assert.True(t, res.OK)

	delete(have, documents.PartnershipAgreement)
	res = EvaluateOrganization(organization(1), OrganizationContext{PREAIsActive: true, PREAIsDirector: true, Uploaded: have})
	assert.False(t, res.OK)
	assert.False(t, res.HardFail)
	assert.Equal(t, []string{documents.LabelIncorporationOrPartnership}, res.Missing)
}

func TestEvaluateOrganization_MissingItemsAndWarnings(t *testing.T) {
	res := EvaluateOrganization(organization(2), OrganizationContext{PREAIsActive: true, PREAIsDirector: false})

	assert.False(t, res.OK)
	assert.False(t, res.HardFail)
	assert.Equal(t, ReasonMissingOrgDocuments, res.Reason)
	assert.Len(t, res.Missing, 8+2)
	assert.Contains(t, res.Missing, "Police Clearance (Director 2)")
	assert.Equal(t, []string{WarningPREANotADirector}, res.Warnings)
}

func TestEvaluateOrganization_Nil(t *testing.T) {
	res := EvaluateOrganization(nil, OrganizationContext{})
	assert.False(t, res.OK)
	assert.Equal(t, ReasonInvalidData, res.Reason)
}
