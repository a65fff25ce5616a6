package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/core/domain"
	"eac-registry/internal/pkg/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newIndividualApp(id string, status domain.ApplicationStatus) *models.IndividualApplication {
	app := &models.IndividualApplication{
		ApplicationCore: models.ApplicationCore{
			ApplicationID:  id,
			ApplicantID:    "APP-MBR-2025-0001",
			UserID:         1,
			ApplicantEmail: "jane@example.com",
			Status:         string(status),
			FeeRequired:    true,
			FeeAmount:      decimal.NewFromInt(50),
			FeeCurrency:    "USD",
			FeeStatus:      string(domain.FeePending),
		},
		MemberType: "estate_agent",
	}
	app.SetDetails(domain.IndividualPayload{Personal: domain.PersonalInfo{FirstName: "Jane", LastName: "Doe"}})
	return app
}

func TestApplicationTransition_ConditionalUpdate(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewApplicationRepository(db)
	ctx := context.Background()

	app := newIndividualApp("APL-MBR-2025-0001", domain.StatusDraft)
	require.NoError(t, repo.Create(ctx, app))

	require.NoError(t, repo.Transition(ctx, app, domain.StatusDraft, domain.StatusEligibilityReview, nil))
	assert.Equal(t, string(domain.StatusEligibilityReview), app.Status)

	// a second writer still believing the row is a draft loses
	stale := newIndividualApp("APL-MBR-2025-0001", domain.StatusDraft)
	stale.ID = app.ID
	err := repo.Transition(ctx, stale, domain.StatusDraft, domain.StatusWithdrawn, nil)
	assert.ErrorIs(t, err, domain.ErrStatusConflict)

	loaded, err := repo.Get(ctx, "APL-MBR-2025-0001")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusEligibilityReview, loaded.Core().CurrentStatus())
	assert.Equal(t, "Jane Doe", loaded.DisplayName())
}

func TestApplicationGet_UnknownPrefix(t *testing.T) {
	repo := NewApplicationRepository(testutil.NewDB(t))
	_, err := repo.Get(context.Background(), "XYZ-2025-0001")
	assert.ErrorIs(t, err, domain.ErrUnknownApplication)
}

func TestApplicationFindOpenAndList(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewApplicationRepository(db)
	ctx := context.Background()

	closed := newIndividualApp("APL-MBR-2025-0001", domain.StatusRejected)
	require.NoError(t, repo.Create(ctx, closed))

	_, err := repo.FindOpenByApplicant(ctx, "APP-MBR-2025-0001")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	open := newIndividualApp("APL-MBR-2025-0002", domain.StatusDraft)
	require.NoError(t, repo.Create(ctx, open))

	found, err := repo.FindOpenByApplicant(ctx, "APP-MBR-2025-0001")
	require.NoError(t, err)
	assert.Equal(t, "APL-MBR-2025-0002", found.Core().ApplicationID)

	org := &models.OrganizationApplication{
		ApplicationCore: models.ApplicationCore{
			ApplicationID:  "APL-ORG-2025-0001",
			ApplicantID:    "APP-ORG-2025-0001",
			UserID:         2,
			ApplicantEmail: "acme@example.com",
			Status:         string(domain.StatusDraft),
			FeeAmount:      decimal.Zero,
			FeeCurrency:    "USD",
			FeeStatus:      string(domain.FeePending),
		},
		BusinessType: "company",
	}
	org.SetDetails(domain.OrganizationPayload{Profile: domain.OrganizationProfile{LegalName: "Acme Realty"}})
	require.NoError(t, repo.Create(ctx, org))

	all, total, err := repo.List(ctx, ApplicationFilter{}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 3)

	drafts, total, err := repo.List(ctx, ApplicationFilter{Status: domain.StatusDraft}, 0, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, drafts, 1)

	counts, err := repo.CountByStatus(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[string(domain.StatusDraft)])
	assert.EqualValues(t, 1, counts[string(domain.StatusRejected)])
}

func TestDocumentUpsert_SlotAndHashScope(t *testing.T) {
	repo := NewDocumentRepository(testutil.NewDB(t))
	ctx := context.Background()

	doc := func(slot, hash string) *models.UploadedDocument {
		return slotDoc("APL-MBR-2025-0001", slot, hash)
	}

	first := doc("national_id", "aaa")
	require.NoError(t, repo.Upsert(ctx, first))

	// same slot, new content: replaced in place
	second := doc("national_id", "bbb")
	require.NoError(t, repo.Upsert(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	docs, err := repo.ListByApplication(ctx, domain.ApplicationIndividual, "APL-MBR-2025-0001")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "bbb", docs[0].ContentHash)

	// another slot holding an existing hash scope violates the unique index
	err = repo.Upsert(ctx, doc("supporting#1", "bbb"))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	require.NoError(t, repo.UpdateVerification(ctx, first.ID, domain.DocumentRejected, 9, "blurry"))
	n, err := repo.CountByStatus(ctx, domain.ApplicationIndividual, "APL-MBR-2025-0001", domain.DocumentRejected)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func slotDoc(appID, slot, hash string) *models.UploadedDocument {
	return &models.UploadedDocument{
		ApplicationType: string(domain.ApplicationIndividual),
		ApplicationID:   appID,
		Slot:            slot,
		DocumentType:    "national_id",
		StorageKey:      "k/" + hash,
		Filename:        "id.pdf",
		MimeType:        "application/pdf",
		Size:            10,
		ContentHash:     hash,
		HashScope:       hash,
		Warnings:        datatypes.NewJSONType([]string{}),
		Status:          string(domain.DocumentUploaded),
	}
}

func TestDocumentUpsert_LostSlotRaceBecomesUpdate(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	// another writer fills the slot between our lookup and our insert
	rival := slotDoc("APL-MBR-2025-0001", "national_id", "rival")
	var fired bool
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:fill_slot", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*models.UploadedDocument); !ok || fired {
			return
		}
		fired = true
		require.NoError(t, db.Create(rival).Error)
	}))

	mine := slotDoc("APL-MBR-2025-0001", "national_id", "mine")
	require.NoError(t, repo.Upsert(ctx, mine))
	require.True(t, fired)

	docs, err := repo.ListByApplication(ctx, domain.ApplicationIndividual, "APL-MBR-2025-0001")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, rival.ID, mine.ID)
	assert.Equal(t, "mine", docs[0].ContentHash)
}

func TestDocumentUpsert_DuplicateLeavesTransactionUsable(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewDocumentRepository(db)
	history := NewStatusHistoryRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, slotDoc("APL-MBR-2025-0001", "national_id", "same")))

	err := NewTxManager(db).WithinTx(ctx, func(ctx context.Context) error {
		err := repo.Upsert(ctx, slotDoc("APL-MBR-2025-0002", "national_id", "same"))
		require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
		return history.Append(ctx, &models.StatusHistory{
			ApplicationType: string(domain.ApplicationIndividual),
			ApplicationID:   "APL-MBR-2025-0002",
			ToStatus:        string(domain.StatusDraft),
		})
	})
	require.NoError(t, err)

	rows, err := history.ListByApplication(ctx, domain.ApplicationIndividual, "APL-MBR-2025-0002")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestStatusHistoryAppendOnly(t *testing.T) {
	repo := NewStatusHistoryRepository(testutil.NewDB(t))
	ctx := context.Background()

	for _, to := range []domain.ApplicationStatus{domain.StatusDraft, domain.StatusEligibilityReview} {
		require.NoError(t, repo.Append(ctx, &models.StatusHistory{
			ApplicationType: string(domain.ApplicationIndividual),
			ApplicationID:   "APL-MBR-2025-0001",
			ToStatus:        string(to),
		}))
	}

	rows, err := repo.ListByApplication(ctx, domain.ApplicationIndividual, "APL-MBR-2025-0001")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, string(domain.StatusDraft), rows[0].ToStatus)
	assert.Equal(t, string(domain.StatusEligibilityReview), rows[1].ToStatus)
}

func TestDecisionCreate_OncePerApplication(t *testing.T) {
	repo := NewDecisionRepository(testutil.NewDB(t))
	ctx := context.Background()

	d := func() *models.RegistryDecision {
		return &models.RegistryDecision{
			ApplicationType: string(domain.ApplicationIndividual),
			ApplicationID:   "APL-MBR-2025-0001",
			Decision:        string(domain.DecisionAccepted),
			Reasons:         datatypes.NewJSONType([]string{}),
			DecidedBy:       1,
			DecidedAt:       time.Now(),
		}
	}
	require.NoError(t, repo.Create(ctx, d()))
	assert.ErrorIs(t, repo.Create(ctx, d()), domain.ErrAlreadyDecided)
}

func TestOutboxClaimIsExclusive(t *testing.T) {
	repo := NewOutboxRepository(testutil.NewDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Enqueue(ctx,
		&models.NotificationOutbox{Recipient: "a@x.co", Subject: "one"},
		&models.NotificationOutbox{Recipient: "b@x.co", Subject: "two", NextAttemptAt: time.Now().Add(time.Hour)},
	))

	claimed, err := repo.ClaimDue(ctx, time.Now(), 10)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, "one", claimed[0].Subject)

	again, err := repo.ClaimDue(ctx, time.Now(), 10)
	require.NoError(t, err)
	assert.Empty(t, again)

	require.NoError(t, repo.MarkSent(ctx, claimed[0].ID, time.Now()))
	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[models.OutboxSent])
	assert.EqualValues(t, 1, counts[models.OutboxPending])
}

func TestTxManagerRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	tx := NewTxManager(db)
	history := NewStatusHistoryRepository(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		require.NoError(t, history.Append(ctx, &models.StatusHistory{
			ApplicationType: string(domain.ApplicationIndividual),
			ApplicationID:   "APL-MBR-2025-0001",
			ToStatus:        string(domain.StatusDraft),
		}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	rows, err := history.ListByApplication(ctx, domain.ApplicationIndividual, "APL-MBR-2025-0001")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
