package repositories

import (
	"context"
	"errors"
	"strings"

	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/core/domain"
	"eac-registry/internal/pkg/series"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// applicantRepository implements ApplicantRepository over applicants and
// organization_applicants
type applicantRepository struct {
	db *gorm.DB
}

// NewApplicantRepository creates a new applicant repository
func NewApplicantRepository(db *gorm.DB) ApplicantRepository {
	return &applicantRepository{db: db}
}

// Create inserts an individual or organization applicant
func (r *applicantRepository) Create(ctx context.Context, applicant models.ApplicantRecord) error {
	acc := applicant.Account()
	acc.Email = strings.ToLower(strings.TrimSpace(acc.Email))
	return conn(ctx, r.db).Create(applicant).Error
}

// Save persists all columns of an applicant
func (r *applicantRepository) Save(ctx context.Context, applicant models.ApplicantRecord) error {
	return conn(ctx, r.db).Save(applicant).Error
}

// GetByUserID finds the applicant owned by a login
func (r *applicantRepository) GetByUserID(ctx context.Context, userID uint) (models.ApplicantRecord, error) {
	return r.findOne(ctx, "user_id = ?", userID)
}

// GetByApplicantID finds an applicant by APP-MBR / APP-ORG identifier
func (r *applicantRepository) GetByApplicantID(ctx context.Context, applicantID string) (models.ApplicantRecord, error) {
	return r.byApplicantID(conn(ctx, r.db), applicantID)
}

// LockByApplicantID reads the applicant with a row lock held until the
// surrounding transaction ends. Must run inside TxManager.WithinTx.
func (r *applicantRepository) LockByApplicantID(ctx context.Context, applicantID string) (models.ApplicantRecord, error) {
	return r.byApplicantID(conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), applicantID)
}

func (r *applicantRepository) byApplicantID(db *gorm.DB, applicantID string) (models.ApplicantRecord, error) {
	if strings.HasPrefix(applicantID, series.ApplicantOrganization+"-") {
		var org models.OrganizationApplicant
		if err := db.Where("applicant_id = ?", applicantID).First(&org).Error; err != nil {
			return nil, err
		}
		return &org, nil
	}
	var ind models.Applicant
	if err := db.Where("applicant_id = ?", applicantID).First(&ind).Error; err != nil {
		return nil, err
	}
	return &ind, nil
}

// GetByVerificationHash finds the applicant holding an email verification token
func (r *applicantRepository) GetByVerificationHash(ctx context.Context, tokenHash string) (models.ApplicantRecord, error) {
	if tokenHash == "" {
		return nil, gorm.ErrRecordNotFound
	}
	return r.findOne(ctx, "verification_token_hash = ?", tokenHash)
}

// ExistsByEmail checks both applicant tables
func (r *applicantRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := r.findOne(ctx, "email = ?", email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

// UpdateStatus moves the applicant through the funnel
func (r *applicantRepository) UpdateStatus(ctx context.Context, applicantID string, status domain.ApplicantStatus) error {
	model := interface{}(&models.Applicant{})
	if strings.HasPrefix(applicantID, series.ApplicantOrganization+"-") {
		model = &models.OrganizationApplicant{}
	}
	result := conn(ctx, r.db).Model(model).
		Where("applicant_id = ?", applicantID).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *applicantRepository) findOne(ctx context.Context, query string, args ...interface{}) (models.ApplicantRecord, error) {
	var ind models.Applicant
	err := conn(ctx, r.db).Where(query, args...).First(&ind).Error
	if err == nil {
		return &ind, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var org models.OrganizationApplicant
	if err := conn(ctx, r.db).Where(query, args...).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}
