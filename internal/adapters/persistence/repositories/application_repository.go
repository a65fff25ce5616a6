package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/core/domain"
	"eac-registry/internal/pkg/series"

	"gorm.io/gorm"
)

// applicationRepository implements ApplicationRepository over
// individual_applications and organization_applications
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func newApplication(t domain.ApplicationType) models.Application {
	if t == domain.ApplicationOrganization {
		return &models.OrganizationApplication{}
	}
	return &models.IndividualApplication{}
}

// Create inserts a new application
func (r *applicationRepository) Create(ctx context.Context, app models.Application) error {
	return conn(ctx, r.db).Create(app).Error
}

// Get loads an application, picking the table from the ID prefix
func (r *applicationRepository) Get(ctx context.Context, applicationID string) (models.Application, error) {
	t, ok := series.TypeOf(applicationID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownApplication, applicationID)
	}
	app := newApplication(t)
	if err := conn(ctx, r.db).Where("application_id = ?", applicationID).First(app).Error; err != nil {
		return nil, err
	}
	return app, nil
}

// Save persists all columns of an application (draft edits)
func (r *applicationRepository) Save(ctx context.Context, app models.Application) error {
	return conn(ctx, r.db).Save(app).Error
}

// Transition updates status from -> to only while the row still holds from.
// Zero affected rows means another writer moved it first.
func (r *applicationRepository) Transition(ctx context.Context, app models.Application, from, to domain.ApplicationStatus, updates map[string]interface{}) error {
	values := map[string]interface{}{}
	for k, v := range updates {
		values[k] = v
	}
	values["status"] = string(to)

	result := conn(ctx, r.db).Model(app).
		Where("status = ?", string(from)).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrStatusConflict
	}
	app.Core().Status = string(to)
	return nil
}

// UpdateFields updates selected columns without touching status
func (r *applicationRepository) UpdateFields(ctx context.Context, app models.Application, updates map[string]interface{}) error {
	return conn(ctx, r.db).Model(app).Updates(updates).Error
}

// FindOpenByApplicant returns the applicant's non-terminal application, if any
func (r *applicationRepository) FindOpenByApplicant(ctx context.Context, applicantID string) (models.Application, error) {
	t := domain.ApplicationIndividual
	if strings.HasPrefix(applicantID, series.ApplicantOrganization+"-") {
		t = domain.ApplicationOrganization
	}
	app := newApplication(t)
	err := conn(ctx, r.db).
		Where("applicant_id = ?", applicantID).
		Where("status NOT IN ?", terminalStatuses()).
		Order("id DESC").
		First(app).Error
	if err != nil {
		return nil, err
	}
	return app, nil
}

// ListByUser lists all applications owned by a login, newest first
func (r *applicationRepository) ListByUser(ctx context.Context, userID uint) ([]models.Application, error) {
	var individual []*models.IndividualApplication
	if err := conn(ctx, r.db).Where("user_id = ?", userID).Find(&individual).Error; err != nil {
		return nil, err
	}
	var organization []*models.OrganizationApplication
	if err := conn(ctx, r.db).Where("user_id = ?", userID).Find(&organization).Error; err != nil {
		return nil, err
	}
	apps := merge(individual, organization)
	sortNewest(apps)
	return apps, nil
}

// List lists applications for staff with filters and pagination
func (r *applicationRepository) List(ctx context.Context, filter ApplicationFilter, offset, limit int) ([]models.Application, int64, error) {
	types := []domain.ApplicationType{domain.ApplicationIndividual, domain.ApplicationOrganization}
	if filter.Type.Valid() {
		types = []domain.ApplicationType{filter.Type}
	}

	var (
		apps  []models.Application
		total int64
	)
	for _, t := range types {
		query := r.filtered(ctx, t, filter)
		var count int64
		if err := query.Count(&count).Error; err != nil {
			return nil, 0, err
		}
		total += count

		// each table contributes at most offset+limit rows to the merged page
		page, err := r.findPage(r.filtered(ctx, t, filter), t, offset+limit)
		if err != nil {
			return nil, 0, err
		}
		apps = append(apps, page...)
	}

	sortNewest(apps)
	if offset >= len(apps) {
		return []models.Application{}, total, nil
	}
	end := offset + limit
	if end > len(apps) {
		end = len(apps)
	}
	return apps[offset:end], total, nil
}

// ListStale lists applications in statuses that have not changed since updatedBefore
func (r *applicationRepository) ListStale(ctx context.Context, statuses []domain.ApplicationStatus, updatedBefore time.Time, limit int) ([]models.Application, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	var apps []models.Application
	for _, t := range []domain.ApplicationType{domain.ApplicationIndividual, domain.ApplicationOrganization} {
		query := conn(ctx, r.db).Model(newApplication(t)).
			Where("status IN ?", names).
			Where("updated_at < ?", updatedBefore).
			Order("updated_at ASC")
		page, err := r.findPage(query, t, limit)
		if err != nil {
			return nil, err
		}
		apps = append(apps, page...)
	}
	return apps, nil
}

// CountByStatus counts applications per status; an empty type counts both tables
func (r *applicationRepository) CountByStatus(ctx context.Context, t domain.ApplicationType) (map[string]int64, error) {
	types := []domain.ApplicationType{domain.ApplicationIndividual, domain.ApplicationOrganization}
	if t.Valid() {
		types = []domain.ApplicationType{t}
	}

	counts := make(map[string]int64)
	for _, typ := range types {
		var rows []struct {
			Status string
			Count  int64
		}
		err := conn(ctx, r.db).Model(newApplication(typ)).
			Select("status, COUNT(*) as count").
			Group("status").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			counts[row.Status] += row.Count
		}
	}
	return counts, nil
}

func (r *applicationRepository) filtered(ctx context.Context, t domain.ApplicationType, filter ApplicationFilter) *gorm.DB {
	query := conn(ctx, r.db).Model(newApplication(t))
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("application_id LIKE ? OR applicant_email LIKE ?", like, like)
	}
	return query.Order("updated_at DESC").Order("id DESC")
}

func (r *applicationRepository) findPage(query *gorm.DB, t domain.ApplicationType, limit int) ([]models.Application, error) {
	if limit > 0 {
		query = query.Limit(limit)
	}
	if t == domain.ApplicationOrganization {
		var rows []*models.OrganizationApplication
		if err := query.Find(&rows).Error; err != nil {
			return nil, err
		}
		return merge(nil, rows), nil
	}
	var rows []*models.IndividualApplication
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return merge(rows, nil), nil
}

func merge(individual []*models.IndividualApplication, organization []*models.OrganizationApplication) []models.Application {
	apps := make([]models.Application, 0, len(individual)+len(organization))
	for _, a := range individual {
		apps = append(apps, a)
	}
	for _, a := range organization {
		apps = append(apps, a)
	}
	return apps
}

func sortNewest(apps []models.Application) {
	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].Core().UpdatedAt.After(apps[j].Core().UpdatedAt)
	})
}

func terminalStatuses() []string {
	var out []string
	for _, s := range domain.AllApplicationStatuses {
		if s.IsTerminal() {
			out = append(out, string(s))
		}
	}
	return out
}
