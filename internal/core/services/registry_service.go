package services

import (
	"context"
	"strings"
	"time"

	"eac-registry/internal/adapters/export"
	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/adapters/persistence/repositories"
	"eac-registry/internal/core/domain"
)

// RegistryService serves the public register and staff registry views
type RegistryService struct {
	registryRepo repositories.RegistryRepository
	now          func() time.Time
}

// NewRegistryService creates a new registry service
func NewRegistryService(registryRepo repositories.RegistryRepository) *RegistryService {
	return &RegistryService{registryRepo: registryRepo, now: time.Now}
}

// LookupMember verifies a membership number
func (s *RegistryService) LookupMember(ctx context.Context, number string) (*models.RegistryEntry, error) {
	m, err := s.registryRepo.GetMemberByNumber(ctx, normalizeNumber(number))
	if err != nil {
		return nil, notFound(err)
	}
	return m.ToEntry(s.now()), nil
}

// LookupOrganization verifies an organization registration number
func (s *RegistryService) LookupOrganization(ctx context.Context, number string) (*models.RegistryEntry, error) {
	o, err := s.registryRepo.GetOrganizationByNumber(ctx, normalizeNumber(number))
	if err != nil {
		return nil, notFound(err)
	}
	return o.ToEntry(s.now()), nil
}

// ListMembers lists member records for staff
func (s *RegistryService) ListMembers(ctx context.Context, status string, offset, limit int) ([]*models.Member, int64, error) {
	return s.registryRepo.ListMembers(ctx, status, offset, limit)
}

// ListOrganizations lists organization records for staff
func (s *RegistryService) ListOrganizations(ctx context.Context, status string, offset, limit int) ([]*models.Organization, int64, error) {
	return s.registryRepo.ListOrganizations(ctx, status, offset, limit)
}

// Export builds the registry workbook with every member and organization
func (s *RegistryService) Export(ctx context.Context) ([]byte, error) {
	members, _, err := s.registryRepo.ListMembers(ctx, "", 0, 0)
	if err != nil {
		return nil, err
	}
	orgs, _, err := s.registryRepo.ListOrganizations(ctx, "", 0, 0)
	if err != nil {
		return nil, err
	}
	return export.RegistryWorkbook(members, orgs, s.now())
}

// ExpireLapsed marks records past their expiry date as expired
func (s *RegistryService) ExpireLapsed(ctx context.Context) (int64, int64, error) {
	return s.registryRepo.ExpireLapsed(ctx, s.now())
}

// ValidStatus reports whether status is a registration status filter
func ValidStatus(status string) bool {
	switch domain.RegistrationStatus(status) {
	case "", domain.RegistrationActive, domain.RegistrationExpired, domain.RegistrationSuspended:
		return true
	}
	return false
}

func normalizeNumber(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}
