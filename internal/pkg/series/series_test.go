package series

import (
	"testing"

	"eac-registry/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "APL-MBR-2025-0007", Format(ApplicationIndividual, 2025, 7))
	assert.Equal(t, "APP-ORG-2025-0123", Format(ApplicantOrganization, 2025, 123))
	assert.Equal(t, "APL-ORG-2026-12345", Format(ApplicationOrganization, 2026, 12345))
}

func TestRegistrationNumber(t *testing.T) {
	n, err := RegistrationNumber("APL-MBR-2025-0007")
	require.NoError(t, err)
	assert.Equal(t, "EAC-MBR-2025-0007", n)

	n, err = RegistrationNumber("APL-ORG-2025-0042")
	require.NoError(t, err)
	assert.Equal(t, "EAC-ORG-2025-0042", n)

	_, err = RegistrationNumber("APP-MBR-2025-0001")
	assert.ErrorIs(t, err, domain.ErrUnknownApplication)
}

func TestTypeOf(t *testing.T) {
	typ, ok := TypeOf("APL-ORG-2025-0001")
	assert.True(t, ok)
	assert.Equal(t, domain.ApplicationOrganization, typ)

	_, ok = TypeOf("APL-XYZ-2025-0001")
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	code, year, n, err := Parse("EAC-MBR-2025-0007")
	require.NoError(t, err)
	assert.Equal(t, "EAC-MBR", code)
	assert.Equal(t, 2025, year)
	assert.Equal(t, 7, n)

	_, _, _, err = Parse("EAC-MBR-0007")
	assert.Error(t, err)
}
