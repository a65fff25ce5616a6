package series

import (
	"fmt"
	"strconv"
	"strings"

	"eac-registry/internal/core/domain"
)

// Series codes
const (
	ApplicantIndividual     = "APP-MBR"
	ApplicantOrganization   = "APP-ORG"
	ApplicationIndividual   = "APL-MBR"
	ApplicationOrganization = "APL-ORG"

	applicationPrefix  = "APL-"
	registrationPrefix = "EAC-"
)

// Format renders PREFIX-YYYY-NNNN, widening past four digits when needed
func Format(code string, year, n int) string {
	return fmt.Sprintf("%s-%04d-%04d", code, year, n)
}

// ApplicantCode returns the applicant series for an application type
func ApplicantCode(t domain.ApplicationType) string {
	if t == domain.ApplicationOrganization {
		return ApplicantOrganization
	}
	return ApplicantIndividual
}

// ApplicationCode returns the application series for an application type
func ApplicationCode(t domain.ApplicationType) string {
	if t == domain.ApplicationOrganization {
		return ApplicationOrganization
	}
	return ApplicationIndividual
}

// TypeOf recovers the application type from an application ID
func TypeOf(applicationID string) (domain.ApplicationType, bool) {
	switch {
	case strings.HasPrefix(applicationID, ApplicationIndividual+"-"):
		return domain.ApplicationIndividual, true
	case strings.HasPrefix(applicationID, ApplicationOrganization+"-"):
		return domain.ApplicationOrganization, true
	}
	return "", false
}

// RegistrationNumber derives the public member or organization number
// (EAC-MBR-YYYY-NNNN / EAC-ORG-YYYY-NNNN) from an application ID.
func RegistrationNumber(applicationID string) (string, error) {
	if _, ok := TypeOf(applicationID); !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownApplication, applicationID)
	}
	return registrationPrefix + strings.TrimPrefix(applicationID, applicationPrefix), nil
}

// Parse splits an ID into series code, year and number
func Parse(id string) (code string, year, n int, err error) {
	parts := strings.Split(id, "-")
	if len(parts) != 4 {
		return "", 0, 0, fmt.Errorf("malformed series id %q", id)
	}
	if year, err = strconv.Atoi(parts[2]); err != nil {
		return "", 0, 0, fmt.Errorf("malformed year in %q", id)
	}
	if n, err = strconv.Atoi(parts[3]); err != nil {
		return "", 0, 0, fmt.Errorf("malformed number in %q", id)
	}
	return parts[0] + "-" + parts[1], year, n, nil
}
