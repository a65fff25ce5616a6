package export

import (
	"bytes"
	"testing"
	"time"

	"eac-registry/internal/adapters/persistence/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRegistryWorkbook(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	members := []*models.Member{{
		MembershipNumber: "EAC-MBR-2025-0001",
		FullName:         "Jane Doe",
		Email:            "jane@example.com",
		MemberType:       "estate_agent",
		Status:           "active",
		RegisteredAt:     now,
		ExpiresAt:        now.AddDate(1, 0, 0),
		ApplicationID:    "APL-MBR-2025-0001",
	}}
	orgs := []*models.Organization{{
		RegistrationNumber: "EAC-ORG-2025-0001",
		LegalName:          "Acme Realty (Pvt) Ltd",
		BusinessType:       "company",
		DirectorCount:      2,
		Status:             "active",
		RegisteredAt:       now,
		ExpiresAt:          now.AddDate(1, 0, 0),
		ApplicationID:      "APL-ORG-2025-0001",
	}}

	data, err := RegistryWorkbook(members, orgs, now)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetMembers, SheetOrganizations}, f.GetSheetList())

	v, err := f.GetCellValue(SheetMembers, "A2")
	require.NoError(t, err)
	assert.Equal(t, "EAC-MBR-2025-0001", v)

	v, err = f.GetCellValue(SheetOrganizations, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Acme Realty (Pvt) Ltd", v)

	v, err = f.GetCellValue(SheetMembers, "G2")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", v)
}
