package config

import (
	"os"
	"path/filepath"
	"testing"

	"eac-registry/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPolicy_MissingFileUsesDefaults(t *testing.T) {
	p, err := LoadPolicy(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, domain.DuplicateScopeGlobal, p.Uploads.DuplicateScope)
	assert.True(t, p.FeeFor(domain.ApplicationIndividual, "registered_estate_agent").Equal(decimal.NewFromInt(50)))
	assert.True(t, p.FeeFor(domain.ApplicationIndividual, "student").IsZero())
}

func TestLoadPolicy_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
currency: zwg
fees:
  individual:
    default: "75.50"
  organization:
    company: "400"
uploads:
  hourly_quota: 5
  duplicate_scope: application
  max_kb:
    passport_photo: 512
drafts:
  ttl_days: 30
`), 0o600))

	p, err := LoadPolicy(path)
	require.NoError(t, err)

	assert.Equal(t, "ZWG", p.Currency)
	assert.Equal(t, 5, p.Uploads.HourlyQuota)
	assert.Equal(t, domain.DuplicateScopeApplication, p.Uploads.DuplicateScope)
	assert.Equal(t, int64(512<<10), p.Uploads.MaxBytes["passport_photo"])
	assert.Equal(t, 30, p.DraftTTLDays)
	assert.Equal(t, "75.5", p.FeeFor(domain.ApplicationIndividual, "anything").String())
	assert.Equal(t, "400", p.FeeFor(domain.ApplicationOrganization, "company").String())
	assert.Equal(t, "250", p.FeeFor(domain.ApplicationOrganization, "partnership").String())
}

func TestLoadPolicy_RejectsBadScope(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("uploads:\n  duplicate_scope: planet\n"), 0o600))

	_, err := LoadPolicy(path)
	assert.Error(t, err)
}
