package services

import (
	"context"
	"time"

	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/adapters/persistence/repositories"
	"eac-registry/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardService handles dashboard operations
type DashboardService struct {
	db           *gorm.DB
	appRepo      repositories.ApplicationRepository
	registryRepo repositories.RegistryRepository
	outboxRepo   repositories.OutboxRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	db *gorm.DB,
	appRepo repositories.ApplicationRepository,
	registryRepo repositories.RegistryRepository,
	outboxRepo repositories.OutboxRepository,
) *DashboardService {
	return &DashboardService{
		db:           db,
		appRepo:      appRepo,
		registryRepo: registryRepo,
		outboxRepo:   outboxRepo,
	}
}

// ============================================================
// Admin Dashboard
// ============================================================

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	// User Statistics
	TotalUsers      int64 `json:"total_users"`
	TotalApplicants int64 `json:"total_applicants"`
	TotalStaff      int64 `json:"total_staff"`

	// Application Statistics
	ApplicationsByStatus  map[string]int64 `json:"applications_by_status"`
	IndividualsByStatus   map[string]int64 `json:"individuals_by_status"`
	OrganizationsByStatus map[string]int64 `json:"organizations_by_status"`
	AwaitingReview        int64            `json:"awaiting_review"`

	// Registry
	ActiveMembers       int64 `json:"active_members"`
	ActiveOrganizations int64 `json:"active_organizations"`

	// Monthly Statistics
	SubmittedThisMonth int64           `json:"submitted_this_month"`
	ApprovedThisMonth  int64           `json:"approved_this_month"`
	FeesThisMonth      decimal.Decimal `json:"fees_this_month"`

	// Notification outbox
	OutboxByStatus map[string]int64 `json:"outbox_by_status"`

	// Recent Activity
	RecentTransitions []TransitionSummary `json:"recent_transitions"`

	// Top Reviewers
	TopReviewers []ReviewerStats `json:"top_reviewers"`
}

// TransitionSummary represents one recent status change
type TransitionSummary struct {
	ApplicationID string    `json:"application_id"`
	FromStatus    string    `json:"from_status"`
	ToStatus      string    `json:"to_status"`
	ActorRole     string    `json:"actor_role"`
	CreatedAt     time.Time `json:"created_at"`
}

// ReviewerStats represents reviewer statistics
type ReviewerStats struct {
	ReviewerID uint   `json:"reviewer_id"`
	FullName   string `json:"full_name"`
	Actions    int64  `json:"actions"`
	Approved   int64  `json:"approved"`
	Rejected   int64  `json:"rejected"`
	Returned   int64  `json:"returned"`
}

// GetAdminDashboard returns admin dashboard data
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	data := &AdminDashboardData{}
	db := s.db.WithContext(ctx)

	// User counts by role
	db.Model(&models.User{}).Count(&data.TotalUsers)
	db.Model(&models.User{}).Where("role = ?", string(domain.RoleApplicant)).Count(&data.TotalApplicants)
	data.TotalStaff = data.TotalUsers - data.TotalApplicants

	// Application counts by status
	var err error
	if data.ApplicationsByStatus, err = s.appRepo.CountByStatus(ctx, ""); err != nil {
		return nil, err
	}
	if data.IndividualsByStatus, err = s.appRepo.CountByStatus(ctx, domain.ApplicationIndividual); err != nil {
		return nil, err
	}
	if data.OrganizationsByStatus, err = s.appRepo.CountByStatus(ctx, domain.ApplicationOrganization); err != nil {
		return nil, err
	}
	for status, n := range data.ApplicationsByStatus {
		if domain.ApplicationStatus(status).IsUnderReview() {
			data.AwaitingReview += n
		}
	}

	if data.ActiveMembers, data.ActiveOrganizations, err = s.registryRepo.CountActive(ctx); err != nil {
		return nil, err
	}

	// This month statistics
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for _, table := range []string{"individual_applications", "organization_applications"} {
		var submitted, approved int64
		db.Table(table).Where("submitted_at >= ?", startOfMonth).Count(&submitted)
		db.Table(table).Where("approved_at >= ?", startOfMonth).Count(&approved)
		data.SubmittedThisMonth += submitted
		data.ApprovedThisMonth += approved
	}

	var fees string
	db.Model(&models.Payment{}).
		Where("paid_at >= ?", startOfMonth).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&fees)
	data.FeesThisMonth, _ = decimal.NewFromString(fees)

	if data.OutboxByStatus, err = s.outboxRepo.CountByStatus(ctx); err != nil {
		return nil, err
	}

	// Recent transitions
	var recent []*models.StatusHistory
	db.Order("created_at DESC").Order("id DESC").Limit(10).Find(&recent)
	data.RecentTransitions = make([]TransitionSummary, len(recent))
	for i, h := range recent {
		data.RecentTransitions[i] = TransitionSummary{
			ApplicationID: h.ApplicationID,
			FromStatus:    h.FromStatus,
			ToStatus:      h.ToStatus,
			ActorRole:     h.ActorRole,
			CreatedAt:     h.CreatedAt,
		}
	}

	// Top reviewers
	var top []struct {
		ReviewerID uint
		FullName   string
		Actions    int64
		Approved   int64
		Rejected   int64
		Returned   int64
	}
	db.Table("status_histories").
		Select(`
			status_histories.actor_id as reviewer_id,
			users.full_name,
			COUNT(*) as actions,
			SUM(CASE WHEN status_histories.to_status = 'approved' THEN 1 ELSE 0 END) as approved,
			SUM(CASE WHEN status_histories.to_status = 'rejected' THEN 1 ELSE 0 END) as rejected,
			SUM(CASE WHEN status_histories.to_status = 'needs_applicant_action' THEN 1 ELSE 0 END) as returned
		`).
		Joins("JOIN users ON status_histories.actor_id = users.id").
		Where("status_histories.actor_role IN ?", []string{
			string(domain.RoleRegistrar), string(domain.RoleFinance), string(domain.RoleAdmin),
		}).
		Group("status_histories.actor_id, users.full_name").
		Order("actions DESC").
		Limit(5).
		Scan(&top)

	data.TopReviewers = make([]ReviewerStats, len(top))
	for i, r := range top {
		data.TopReviewers[i] = ReviewerStats{
			ReviewerID: r.ReviewerID,
			FullName:   r.FullName,
			Actions:    r.Actions,
			Approved:   r.Approved,
			Rejected:   r.Rejected,
			Returned:   r.Returned,
		}
	}

	return data, nil
}

// ============================================================
// Reviewer Dashboard
// ============================================================

// ReviewerDashboardData is the work queue of one staff member
type ReviewerDashboardData struct {
	QueueStatus   string                        `json:"queue_status"`
	QueueSize     int64                         `json:"queue_size"`
	HandledByMe   int64                         `json:"handled_by_me"`
	HandledToday  int64                         `json:"handled_today"`
	OldestWaiting []*models.ApplicationResponse `json:"oldest_waiting"`
}

// queueFor is the stage each staff role works on
func queueFor(role domain.Role) domain.ApplicationStatus {
	switch role {
	case domain.RoleFinance, domain.RoleAdmin:
		return domain.StatusPaymentReview
	}
	return domain.StatusEligibilityReview
}

// GetReviewerDashboard returns the queue and activity of a staff member
func (s *DashboardService) GetReviewerDashboard(ctx context.Context, userID uint, role domain.Role) (*ReviewerDashboardData, error) {
	db := s.db.WithContext(ctx)
	queue := queueFor(role)
	data := &ReviewerDashboardData{QueueStatus: string(queue)}

	counts, err := s.appRepo.CountByStatus(ctx, "")
	if err != nil {
		return nil, err
	}
	data.QueueSize = counts[string(queue)]
	if role == domain.RoleRegistrar {
		data.QueueSize += counts[string(domain.StatusDocumentReview)]
	}

	db.Model(&models.StatusHistory{}).Where("actor_id = ?", userID).Count(&data.HandledByMe)
	startOfDay := time.Now().Truncate(24 * time.Hour)
	db.Model(&models.StatusHistory{}).
		Where("actor_id = ? AND created_at >= ?", userID, startOfDay).
		Count(&data.HandledToday)

	waiting, _, err := s.appRepo.List(ctx, repositories.ApplicationFilter{Status: queue}, 0, 100)
	if err != nil {
		return nil, err
	}
	// List is newest first
	for i := len(waiting) - 1; i >= 0 && len(data.OldestWaiting) < 5; i-- {
		data.OldestWaiting = append(data.OldestWaiting, waiting[i].ToResponse())
	}

	return data, nil
}
