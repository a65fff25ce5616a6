package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"eac-registry/internal/adapters/payment"
	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/adapters/persistence/repositories"
	"eac-registry/internal/adapters/ratelimit"
	"eac-registry/internal/adapters/storage"
	"eac-registry/internal/config"
	"eac-registry/internal/core/domain"
	"eac-registry/internal/pkg/testutil"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type testEnv struct {
	db      *gorm.DB
	cfg     *config.Config
	policy  *config.Policy
	metrics *Metrics

	users      repositories.UserRepository
	applicants repositories.ApplicantRepository
	apps       repositories.ApplicationRepository
	docs       repositories.DocumentRepository
	history    repositories.StatusHistoryRepository
	decisions  repositories.DecisionRepository
	registry   repositories.RegistryRepository
	outbox     repositories.OutboxRepository
	ids        *IDGenerator

	auth          *AuthService
	notifications *NotificationService
	applications  *ApplicationService
	workflow      *WorkflowService
	documents     *DocumentService
	payments      *PaymentService
	registryView  *RegistryService
	gateway       *fakeGateway
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	cfg := &config.Config{
		AppMode:       "dev",
		PublicBaseURL: "http://localhost:8080",
		JWT: config.JWTConfig{
			Secret:           "access-secret",
			RefreshSecret:    "refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
		Email: config.EmailConfig{
			FromAddress:   "registry@eac.test",
			FromName:      "EAC Registry",
			StaffFallback: "registrar@eac.test",
		},
	}
	policy := config.DefaultPolicy()

	e := &testEnv{
		db:         db,
		cfg:        cfg,
		policy:     policy,
		metrics:    NewMetrics(prometheus.NewRegistry()),
		users:      repositories.NewUserRepository(db),
		applicants: repositories.NewApplicantRepository(db),
		apps:       repositories.NewApplicationRepository(db),
		docs:       repositories.NewDocumentRepository(db),
		history:    repositories.NewStatusHistoryRepository(db),
		decisions:  repositories.NewDecisionRepository(db),
		registry:   repositories.NewRegistryRepository(db),
		outbox:     repositories.NewOutboxRepository(db),
		gateway:    &fakeGateway{},
	}
	e.ids = NewIDGenerator(repositories.NewNamingSeriesRepository(db))

	tx := repositories.NewTxManager(db)
	e.notifications = NewNotificationService(e.outbox, e.users, cfg)
	e.auth = NewAuthService(tx, e.users, repositories.NewRefreshTokenRepository(db), e.applicants, e.ids, e.notifications, nil, cfg)
	e.applications = NewApplicationService(tx, e.applicants, e.apps, e.docs, e.history, e.registry, e.ids, policy, e.metrics)
	e.workflow = NewWorkflowService(tx, e.apps, e.docs, e.history, e.applicants, e.decisions, e.registry, e.notifications, nil, policy, e.metrics)
	e.payments = NewPaymentService(tx, e.apps, repositories.NewPaymentRepository(db), e.docs, e.gateway, e.notifications, nil, cfg, e.metrics)
	e.registryView = NewRegistryService(e.registry)

	store, err := storage.NewLocalStore(t.TempDir(), cfg.PublicBaseURL, "file-secret", time.Minute)
	require.NoError(t, err)
	e.documents = NewDocumentService(tx, e.apps, e.docs, store, ratelimit.NewMemoryLimiter(policy.Uploads.HourlyQuota), policy, e.metrics)

	return e
}

// applicant creates a verified individual applicant login
func (e *testEnv) applicant(t *testing.T, email string) domain.Actor {
	t.Helper()
	ctx := context.Background()

	user := &models.User{Email: email, Password: "x", FullName: "Jane Doe", Role: string(domain.RoleApplicant), IsActive: true}
	require.NoError(t, e.users.Create(ctx, user))

	applicantID, err := e.ids.NextApplicantID(ctx, domain.ApplicationIndividual)
	require.NoError(t, err)
	now := time.Now()
	require.NoError(t, e.applicants.Create(ctx, &models.Applicant{
		ApplicantAccount: models.ApplicantAccount{
			ApplicantID:     applicantID,
			UserID:          user.ID,
			Email:           email,
			Status:          string(domain.ApplicantEmailVerified),
			EmailVerifiedAt: &now,
		},
		FirstName: "Jane",
		LastName:  "Doe",
	}))
	return domain.Actor{UserID: user.ID, Role: domain.RoleApplicant, IP: "127.0.0.1"}
}

// staff creates an active staff login
func (e *testEnv) staff(t *testing.T, role domain.Role) domain.Actor {
	t.Helper()
	user := &models.User{
		Email:    fmt.Sprintf("%s@eac.test", role),
		Password: "x",
		FullName: string(role) + " Officer",
		Role:     string(role),
		IsActive: true,
	}
	require.NoError(t, e.users.Create(context.Background(), user))
	return domain.Actor{UserID: user.ID, Role: role, IP: "10.0.0.1"}
}

// startIndividual opens a mature-entry draft in memberType
func (e *testEnv) startIndividual(t *testing.T, actor domain.Actor, memberType string) string {
	t.Helper()
	res, err := e.applications.StartIndividual(context.Background(), actor, &StartIndividualInput{
		MemberType: memberType,
		Details:    maturePayload(),
	})
	require.NoError(t, err)
	return res.Application.ApplicationID
}

// attach records uploaded documents without going through the file checks
func (e *testEnv) attach(t *testing.T, applicationID string, tags ...string) []*models.UploadedDocument {
	t.Helper()
	var out []*models.UploadedDocument
	for _, tag := range tags {
		doc := &models.UploadedDocument{
			ApplicationType: string(domain.ApplicationIndividual),
			ApplicationID:   applicationID,
			Slot:            tag,
			DocumentType:    tag,
			UploadedBy:      1,
			StorageKey:      "individual/" + applicationID + "/" + tag + ".pdf",
			Filename:        tag + ".pdf",
			MimeType:        "application/pdf",
			Size:            128,
			ContentHash:     tag,
			HashScope:       applicationID + ":" + tag,
			Warnings:        datatypes.NewJSONType([]string{}),
			Status:          string(domain.DocumentUploaded),
		}
		require.NoError(t, e.docs.Upsert(context.Background(), doc))
		out = append(out, doc)
	}
	return out
}

func (e *testEnv) outboxTemplates(t *testing.T, applicationID string) []string {
	t.Helper()
	var rows []*models.NotificationOutbox
	require.NoError(t, e.db.Where("application_id = ?", applicationID).Order("id ASC").Find(&rows).Error)
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Template
	}
	return out
}

func maturePayload() domain.IndividualPayload {
	return domain.IndividualPayload{
		Personal: domain.PersonalInfo{
			FirstName:   "Jane",
			LastName:    "Doe",
			DateOfBirth: "1980-05-01",
			NationalID:  "63-123456-A-42",
		},
		OLevel: &domain.OLevelRecord{PassesCount: 6, HasEnglish: true, HasMath: true},
	}
}

// fakeGateway records initiations and replays a configured status
type fakeGateway struct {
	initiated []payment.InitiateRequest
	status    *payment.StatusResult
	err       error
}

func (g *fakeGateway) Name() string { return "fake" }

func (g *fakeGateway) Initiate(ctx context.Context, req payment.InitiateRequest) (*payment.InitiateResult, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.initiated = append(g.initiated, req)
	return &payment.InitiateResult{
		RedirectURL: "https://pay.example/checkout/" + req.Reference,
		PollURL:     "https://pay.example/poll/" + req.Reference,
	}, nil
}

func (g *fakeGateway) Poll(ctx context.Context, pollURL string) (*payment.StatusResult, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.status, nil
}

func (g *fakeGateway) ParseCallback(body []byte) (*payment.StatusResult, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.status, nil
}

func paidStatus(reference string, amount int64) *payment.StatusResult {
	return &payment.StatusResult{
		Reference:        reference,
		GatewayReference: "PN-1",
		Amount:           decimal.NewFromInt(amount),
		Status:           models.PaymentPaid,
	}
}
