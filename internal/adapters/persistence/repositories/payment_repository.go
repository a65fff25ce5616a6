package repositories

import (
	"context"

	"eac-registry/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// paymentRepository implements PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create creates a new payment
func (r *paymentRepository) Create(ctx context.Context, p *models.Payment) error {
	return conn(ctx, r.db).Create(p).Error
}

// GetByReference gets a payment by our merchant reference
func (r *paymentRepository) GetByReference(ctx context.Context, reference string) (*models.Payment, error) {
	var p models.Payment
	if err := conn(ctx, r.db).Where("reference = ?", reference).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetLatestByApplication gets the most recent payment attempt of an application
func (r *paymentRepository) GetLatestByApplication(ctx context.Context, applicationID string) (*models.Payment, error) {
	var p models.Payment
	err := conn(ctx, r.db).
		Where("application_id = ?", applicationID).
		Order("id DESC").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update updates a payment
func (r *paymentRepository) Update(ctx context.Context, p *models.Payment) error {
	return conn(ctx, r.db).Save(p).Error
}
