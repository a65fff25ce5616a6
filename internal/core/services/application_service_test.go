package services

import (
	"context"
	"sync"
	"testing"

	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationStart_OneOpenApplication(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	applicant := e.applicant(t, "jane@example.com")

	const starts = 5
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		opened []string
		errs   []error
	)
	for i := 0; i < starts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.applications.StartIndividual(ctx, applicant, &StartIndividualInput{
				MemberType: "student",
				Details:    maturePayload(),
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			opened = append(opened, res.Application.ApplicationID)
		}()
	}
	wg.Wait()

	require.Len(t, opened, 1)
	require.Len(t, errs, starts-1)
	for _, err := range errs {
		assert.ErrorIs(t, err, domain.ErrOpenApplication)
	}

	var count int64
	require.NoError(t, e.db.Model(&models.IndividualApplication{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	row, err := e.applicants.GetByUserID(ctx, applicant.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicantApplicationStarted, row.Account().CurrentStatus())
}

func TestApplicationStart_FunnelStatusGates(t *testing.T) {
	tests := []struct {
		name   string
		status domain.ApplicantStatus
		want   error
	}{
		{"in progress elsewhere", domain.ApplicantUnderReview, domain.ErrOpenApplication},
		{"already on the register", domain.ApplicantApproved, domain.ErrAlreadyRegistered},
		{"rejected may reapply", domain.ApplicantRejected, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			ctx := context.Background()
			applicant := e.applicant(t, "jane@example.com")

			row, err := e.applicants.GetByUserID(ctx, applicant.UserID)
			require.NoError(t, err)
			require.NoError(t, e.applicants.UpdateStatus(ctx, row.Account().ApplicantID, tt.status))

			_, err = e.applications.StartIndividual(ctx, applicant, &StartIndividualInput{
				MemberType: "student",
				Details:    maturePayload(),
			})
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestApplicationStart_AfterWithdrawal(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	applicant := e.applicant(t, "jane@example.com")

	first := e.startIndividual(t, applicant, "student")
	_, err := e.workflow.Withdraw(ctx, applicant, first, &TransitionInput{})
	require.NoError(t, err)

	second := e.startIndividual(t, applicant, "student")
	assert.NotEqual(t, first, second)
}
