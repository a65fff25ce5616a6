package documents

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckIndividual(t *testing.T) {
	t.Run("nothing uploaded, mature", func(t *testing.T) {
		res := CheckIndividual(nil, true)
		assert.False(t, res.OK)
		assert.Equal(t, ReasonMissingDocuments, res.Reason)
		assert.Equal(t, []string{"O-Level Certificate", "National ID or Passport", "Birth Certificate"}, res.Requirements)
	})

	t.Run("baseline uploaded, not mature", func(t *testing.T) {
		res := CheckIndividual(IndividualBaseline, false)
		assert.False(t, res.OK)
		assert.Equal(t, []string{LabelALevelOrEquivalent}, res.Requirements)
	})

	t.Run("equivalent satisfies a-level slot", func(t *testing.T) {
		res := CheckIndividual(append([]string{EquivalentQualification}, IndividualBaseline...), false)
		assert.True(t, res.OK)
		assert.Empty(t, res.Requirements)
	})

	t.Run("mature entry exempt", func(t *testing.T) {
		res := CheckIndividual(IndividualBaseline, true)
		assert.True(t, res.OK)
	})
}

func TestCheckIndividual_Idempotent(t *testing.T) {
	uploaded := []string{NationalID, Supporting, FeeProof}

	first := CheckIndividual(uploaded, false)
	second := CheckIndividual(uploaded, false)

	assert.Equal(t, first, second)
}

func TestCheckOrganization(t *testing.T) {
	uploaded := append([]string{PartnershipAgreement}, OrganizationBaseline...)
	uploaded = append(uploaded, PoliceClearanceTag(1))

	res := CheckOrganization(uploaded, 2)
	assert.False(t, res.OK)
	assert.Equal(t, []string{"Police Clearance (Director 2)"}, res.Requirements)

	res = CheckOrganization(append(uploaded, PoliceClearanceTag(2)), 2)
	assert.True(t, res.OK)
}

func TestCheckOrganization_Idempotent(t *testing.T) {
	uploaded := []string{TaxClearance, PoliceClearanceTag(3)}

	assert.Equal(t, CheckOrganization(uploaded, 3), CheckOrganization(uploaded, 3))
	assert.Len(t, CheckOrganization(uploaded, 3).Requirements, 8+3-2)
}

func TestLookup(t *testing.T) {
	dt, ok := Lookup("police_clearance_director_4")
	assert.True(t, ok)
	assert.True(t, dt.SingleInstance)
	assert.Equal(t, "Police Clearance (Director 4)", dt.Label)

	_, ok = Lookup("police_clearance_director_0")
	assert.False(t, ok)
	_, ok = Lookup("../etc/passwd")
	assert.False(t, ok)

	nid, _ := Lookup(NationalID)
	assert.True(t, nid.SingleInstance)
	olevel, _ := Lookup(OLevelCertificate)
	assert.False(t, olevel.SingleInstance)
}
