package repositories

import (
	"context"
	"time"

	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListActiveByRole(ctx context.Context, roles ...domain.Role) ([]*models.User, error)
	List(ctx context.Context, filter UserFilter, offset, limit int) ([]*models.User, int64, error)
	Delete(ctx context.Context, id uint) error
}

// UserFilter narrows user listings
type UserFilter struct {
	Role   string
	Search string
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// ApplicantRepository covers both applicant tables
type ApplicantRepository interface {
	Create(ctx context.Context, applicant models.ApplicantRecord) error
	Save(ctx context.Context, applicant models.ApplicantRecord) error
	GetByUserID(ctx context.Context, userID uint) (models.ApplicantRecord, error)
	GetByApplicantID(ctx context.Context, applicantID string) (models.ApplicantRecord, error)
	LockByApplicantID(ctx context.Context, applicantID string) (models.ApplicantRecord, error)
	GetByVerificationHash(ctx context.Context, tokenHash string) (models.ApplicantRecord, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateStatus(ctx context.Context, applicantID string, status domain.ApplicantStatus) error
}

// ApplicationFilter narrows staff listings
type ApplicationFilter struct {
	Type   domain.ApplicationType
	Status domain.ApplicationStatus
	Search string
}

// ApplicationRepository covers both application tables
type ApplicationRepository interface {
	Create(ctx context.Context, app models.Application) error
	Get(ctx context.Context, applicationID string) (models.Application, error)
	Save(ctx context.Context, app models.Application) error
	Transition(ctx context.Context, app models.Application, from, to domain.ApplicationStatus, updates map[string]interface{}) error
	UpdateFields(ctx context.Context, app models.Application, updates map[string]interface{}) error
	FindOpenByApplicant(ctx context.Context, applicantID string) (models.Application, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Application, error)
	List(ctx context.Context, filter ApplicationFilter, offset, limit int) ([]models.Application, int64, error)
	ListStale(ctx context.Context, statuses []domain.ApplicationStatus, updatedBefore time.Time, limit int) ([]models.Application, error)
	CountByStatus(ctx context.Context, t domain.ApplicationType) (map[string]int64, error)
}

// DocumentRepository defines uploaded document access
type DocumentRepository interface {
	Upsert(ctx context.Context, doc *models.UploadedDocument) error
	GetByID(ctx context.Context, id uint) (*models.UploadedDocument, error)
	GetBySlot(ctx context.Context, t domain.ApplicationType, applicationID, slot string) (*models.UploadedDocument, error)
	FindByHashScope(ctx context.Context, hashScope string) (*models.UploadedDocument, error)
	ListByApplication(ctx context.Context, t domain.ApplicationType, applicationID string) ([]*models.UploadedDocument, error)
	UpdateVerification(ctx context.Context, id uint, status domain.DocumentStatus, verifiedBy uint, comment string) error
	CountByStatus(ctx context.Context, t domain.ApplicationType, applicationID string, status domain.DocumentStatus) (int64, error)
	Delete(ctx context.Context, id uint) error
}

// StatusHistoryRepository is append-only
type StatusHistoryRepository interface {
	Append(ctx context.Context, entry *models.StatusHistory) error
	ListByApplication(ctx context.Context, t domain.ApplicationType, applicationID string) ([]*models.StatusHistory, error)
}

// DecisionRepository defines registry decision access
type DecisionRepository interface {
	Create(ctx context.Context, decision *models.RegistryDecision) error
	GetByApplication(ctx context.Context, t domain.ApplicationType, applicationID string) (*models.RegistryDecision, error)
}

// RegistryRepository defines member and organization record access
type RegistryRepository interface {
	CreateMember(ctx context.Context, m *models.Member) error
	CreateOrganization(ctx context.Context, o *models.Organization) error
	GetMemberByNumber(ctx context.Context, number string) (*models.Member, error)
	GetOrganizationByNumber(ctx context.Context, number string) (*models.Organization, error)
	ListMembers(ctx context.Context, status string, offset, limit int) ([]*models.Member, int64, error)
	ListOrganizations(ctx context.Context, status string, offset, limit int) ([]*models.Organization, int64, error)
	ExpireLapsed(ctx context.Context, now time.Time) (members int64, organizations int64, err error)
	CountActive(ctx context.Context) (members int64, organizations int64, err error)
}

// NamingSeriesRepository hands out per-series, per-year sequence numbers
type NamingSeriesRepository interface {
	Next(ctx context.Context, series string, year int) (int, error)
}

// PaymentRepository defines payment access
type PaymentRepository interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByReference(ctx context.Context, reference string) (*models.Payment, error)
	GetLatestByApplication(ctx context.Context, applicationID string) (*models.Payment, error)
	Update(ctx context.Context, p *models.Payment) error
}

// OutboxRepository queues notification emails
type OutboxRepository interface {
	Enqueue(ctx context.Context, rows ...*models.NotificationOutbox) error
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*models.NotificationOutbox, error)
	MarkSent(ctx context.Context, id uint, at time.Time) error
	MarkRetry(ctx context.Context, id uint, attempts int, next time.Time, lastErr string) error
	MarkFailed(ctx context.Context, id uint, attempts int, lastErr string) error
	ReleaseStuck(ctx context.Context, claimedBefore time.Time) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
