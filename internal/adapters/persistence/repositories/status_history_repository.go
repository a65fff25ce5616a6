package repositories

import (
	"context"

	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/core/domain"

	"gorm.io/gorm"
)

// statusHistoryRepository implements StatusHistoryRepository. Rows are never
// updated or deleted.
type statusHistoryRepository struct {
	db *gorm.DB
}

// NewStatusHistoryRepository creates a new status history repository
func NewStatusHistoryRepository(db *gorm.DB) StatusHistoryRepository {
	return &statusHistoryRepository{db: db}
}

// Append records one status change
func (r *statusHistoryRepository) Append(ctx context.Context, entry *models.StatusHistory) error {
	entry.ID = 0
	return conn(ctx, r.db).Create(entry).Error
}

// ListByApplication returns the trail of an application, oldest first
func (r *statusHistoryRepository) ListByApplication(ctx context.Context, t domain.ApplicationType, applicationID string) ([]*models.StatusHistory, error) {
	var rows []*models.StatusHistory
	err := conn(ctx, r.db).
		Where("application_type = ? AND application_id = ?", string(t), applicationID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
