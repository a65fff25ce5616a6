package repositories

import (
	"context"
	"time"

	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/core/domain"

	"gorm.io/gorm"
)

// registryRepository implements RegistryRepository over members and organizations
type registryRepository struct {
	db *gorm.DB
}

// NewRegistryRepository creates a new registry repository
func NewRegistryRepository(db *gorm.DB) RegistryRepository {
	return &registryRepository{db: db}
}

// CreateMember creates a member record
func (r *registryRepository) CreateMember(ctx context.Context, m *models.Member) error {
	return conn(ctx, r.db).Create(m).Error
}

// CreateOrganization creates an organization record
func (r *registryRepository) CreateOrganization(ctx context.Context, o *models.Organization) error {
	return conn(ctx, r.db).Create(o).Error
}

// GetMemberByNumber gets a member by EAC-MBR number
func (r *registryRepository) GetMemberByNumber(ctx context.Context, number string) (*models.Member, error) {
	var m models.Member
	if err := conn(ctx, r.db).Where("membership_number = ?", number).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// GetOrganizationByNumber gets an organization by EAC-ORG number
func (r *registryRepository) GetOrganizationByNumber(ctx context.Context, number string) (*models.Organization, error) {
	var o models.Organization
	if err := conn(ctx, r.db).Where("registration_number = ?", number).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// ListMembers lists members, optionally by status; limit <= 0 returns all
func (r *registryRepository) ListMembers(ctx context.Context, status string, offset, limit int) ([]*models.Member, int64, error) {
	var (
		rows  []*models.Member
		total int64
	)
	query := conn(ctx, r.db).Model(&models.Member{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = query.Order("membership_number ASC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListOrganizations lists organizations, optionally by status; limit <= 0 returns all
func (r *registryRepository) ListOrganizations(ctx context.Context, status string, offset, limit int) ([]*models.Organization, int64, error) {
	var (
		rows  []*models.Organization
		total int64
	)
	query := conn(ctx, r.db).Model(&models.Organization{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = query.Order("registration_number ASC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ExpireLapsed marks active records past their expiry as expired
func (r *registryRepository) ExpireLapsed(ctx context.Context, now time.Time) (int64, int64, error) {
	members := conn(ctx, r.db).Model(&models.Member{}).
		Where("status = ? AND expires_at <= ?", string(domain.RegistrationActive), now).
		Update("status", string(domain.RegistrationExpired))
	if members.Error != nil {
		return 0, 0, members.Error
	}
	orgs := conn(ctx, r.db).Model(&models.Organization{}).
		Where("status = ? AND expires_at <= ?", string(domain.RegistrationActive), now).
		Update("status", string(domain.RegistrationExpired))
	if orgs.Error != nil {
		return members.RowsAffected, 0, orgs.Error
	}
	return members.RowsAffected, orgs.RowsAffected, nil
}

// CountActive counts records in good standing
func (r *registryRepository) CountActive(ctx context.Context) (int64, int64, error) {
	var members, orgs int64
	if err := conn(ctx, r.db).Model(&models.Member{}).
		Where("status = ?", string(domain.RegistrationActive)).
		Count(&members).Error; err != nil {
		return 0, 0, err
	}
	if err := conn(ctx, r.db).Model(&models.Organization{}).
		Where("status = ?", string(domain.RegistrationActive)).
		Count(&orgs).Error; err != nil {
		return 0, 0, err
	}
	return members, orgs, nil
}
