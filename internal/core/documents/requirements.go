package documents

// ReasonMissingDocuments is returned when required uploads are outstanding
const ReasonMissingDocuments = "Required documents are missing"

// IndividualBaseline is always required of an individual applicant
var IndividualBaseline = []string{OLevelCertificate, NationalID, BirthCertificate}

// OrganizationBaseline is the fixed organizational set, excluding the
// incorporation/partnership pair which is checked separately.
var OrganizationBaseline = []string{
	MemorandumArticles,
	TaxClearance,
	TrustAccountConfirmation,
	DirectorsRegister,
	ProofOfBusinessAddress,
	PREAAppointmentLetter,
	ProfessionalIndemnity,
}

// Labels used for conditional items
const (
	LabelALevelOrEquivalent         = "A-Level Certificate or Equivalent Qualification"
	LabelIncorporationOrPartnership = "Certificate of Incorporation or Partnership Agreement"
)

// Result is the outcome of a requirement check
type Result struct {
	OK           bool     `json:"ok"`
	Reason       string   `json:"reason,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
}

// IndividualRequired lists every document an individual must supply
func IndividualRequired(mature bool) []string {
	out := make([]string, 0, len(IndividualBaseline)+1)
	for _, tag := range IndividualBaseline {
		out = append(out, Label(tag))
	}
	if !mature {
		out = append(out, LabelALevelOrEquivalent)
	}
	return out
}

// OrganizationRequired lists every document an organization must supply
func OrganizationRequired(directorCount int) []string {
	out := make([]string, 0, len(OrganizationBaseline)+1+directorCount)
	out = append(out, LabelIncorporationOrPartnership)
	for _, tag := range OrganizationBaseline {
		out = append(out, Label(tag))
	}
	for n := 1; n <= directorCount; n++ {
		out = append(out, Label(PoliceClearanceTag(n)))
	}
	return out
}

// CheckIndividual computes outstanding individual documents
func CheckIndividual(uploaded []string, mature bool) Result {
	have := toSet(uploaded)
	var missing []string
	for _, tag := range IndividualBaseline {
		if !have[tag] {
			missing = append(missing, Label(tag))
		}
	}
	if !mature && !have[ALevelCertificate] && !have[EquivalentQualification] {
		missing = append(missing, LabelALevelOrEquivalent)
	}
	return result(missing)
}

// CheckOrganization computes outstanding organization documents
func CheckOrganization(uploaded []string, directorCount int) Result {
	return result(MissingOrganization(toSet(uploaded), directorCount))
}

// MissingOrganization diffs the organization checklist against have
func MissingOrganization(have map[string]bool, directorCount int) []string {
	var missing []string
	if !have[CertificateOfIncorporation] && !have[PartnershipAgreement] {
		missing = append(missing, LabelIncorporationOrPartnership)
	}
	for _, tag := range OrganizationBaseline {
		if !have[tag] {
			missing = append(missing, Label(tag))
		}
	}
	for n := 1; n <= directorCount; n++ {
		tag := PoliceClearanceTag(n)
		if !have[tag] {
			missing = append(missing, Label(tag))
		}
	}
	return missing
}

func result(missing []string) Result {
	if len(missing) == 0 {
		return Result{OK: true}
	}
	return Result{OK: false, Reason: ReasonMissingDocuments, Requirements: missing}
}

func toSet(tags []string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return set
}
