package repositories

import (
	"context"
	"errors"

	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/core/domain"

	"gorm.io/gorm"
)

// decisionRepository implements DecisionRepository interface
type decisionRepository struct {
	db *gorm.DB
}

// NewDecisionRepository creates a new decision repository
func NewDecisionRepository(db *gorm.DB) DecisionRepository {
	return &decisionRepository{db: db}
}

// Create records the single decision of an application
func (r *decisionRepository) Create(ctx context.Context, decision *models.RegistryDecision) error {
	err := conn(ctx, r.db).Create(decision).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrAlreadyDecided
	}
	return err
}

// GetByApplication gets the decision of an application
func (r *decisionRepository) GetByApplication(ctx context.Context, t domain.ApplicationType, applicationID string) (*models.RegistryDecision, error) {
	var decision models.RegistryDecision
	err := conn(ctx, r.db).
		Where("application_type = ? AND application_id = ?", string(t), applicationID).
		First(&decision).Error
	if err != nil {
		return nil, err
	}
	return &decision, nil
}
