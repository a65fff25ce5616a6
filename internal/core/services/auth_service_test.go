package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var verifyLink = regexp.MustCompile(`verify-email\?token=([0-9a-f]+)`)

func verificationToken(t *testing.T, e *testEnv, email string) string {
	t.Helper()
	var row models.NotificationOutbox
	require.NoError(t, e.db.
		Where("recipient = ? AND template = ?", email, TplVerifyEmail).
		Order("id DESC").
		First(&row).Error)
	m := verifyLink.FindStringSubmatch(row.TextBody)
	require.Len(t, m, 2, "verification link missing from %q", row.TextBody)
	return m[1]
}

func TestAuth_RegisterVerifyAndStart(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	resp, err := e.auth.RegisterIndividual(ctx, &RegisterIndividualInput{
		FirstName: "Tariro",
		LastName:  "Moyo",
		Email:     "Tariro@Example.com",
		Password:  "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "tariro@example.com", resp.User.Email)
	assert.Equal(t, string(domain.ApplicantRegistered), resp.User.Status)
	assert.Regexp(t, `^APP-MBR-`, resp.User.ApplicantID)

	actor := domain.Actor{UserID: resp.User.ID, Role: domain.RoleApplicant}
	_, err = e.applications.StartIndividual(ctx, actor, &StartIndividualInput{MemberType: "estate_agent", Details: maturePayload()})
	assert.ErrorIs(t, err, domain.ErrEmailNotVerified)

	token := verificationToken(t, e, "tariro@example.com")
	me, err := e.auth.VerifyEmail(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, string(domain.ApplicantEmailVerified), me.Status)

	// tokens are single use
	_, err = e.auth.VerifyEmail(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = e.applications.StartIndividual(ctx, actor, &StartIndividualInput{MemberType: "estate_agent", Details: maturePayload()})
	assert.NoError(t, err)
}

func TestAuth_RegisterDuplicateEmail(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	input := &RegisterOrganizationInput{
		CompanyName:   "Acme Realty",
		ContactPerson: "T. Moyo",
		Email:         "info@acme.co.zw",
		Password:      "correct-horse",
	}

	_, err := e.auth.RegisterOrganization(ctx, input)
	require.NoError(t, err)
	_, err = e.auth.RegisterOrganization(ctx, input)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = e.auth.RegisterIndividual(ctx, &RegisterIndividualInput{
		FirstName: "A", LastName: "B", Email: "x@example.com", Password: "short",
	})
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestAuth_VerificationExpires(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	_, err := e.auth.RegisterIndividual(ctx, &RegisterIndividualInput{
		FirstName: "Late", LastName: "Comer", Email: "late@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)
	token := verificationToken(t, e, "late@example.com")

	e.auth.now = func() time.Time { return time.Now().Add(VerificationTTL + time.Hour) }
	_, err = e.auth.VerifyEmail(ctx, token)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// a resent link replaces the expired one
	e.auth.now = time.Now
	require.NoError(t, e.auth.ResendVerification(ctx, "late@example.com"))
	fresh := verificationToken(t, e, "late@example.com")
	assert.NotEqual(t, token, fresh)
	_, err = e.auth.VerifyEmail(ctx, fresh)
	require.NoError(t, err)

	assert.ErrorIs(t, e.auth.ResendVerification(ctx, "late@example.com"), ErrAlreadyVerified)
	assert.NoError(t, e.auth.ResendVerification(ctx, "nobody@example.com"))
}

func TestAuth_LoginRefreshLogout(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	_, err := e.auth.RegisterIndividual(ctx, &RegisterIndividualInput{
		FirstName: "Rudo", LastName: "Ncube", Email: "rudo@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = e.auth.Login(ctx, &LoginInput{Email: "rudo@example.com", Password: "wrong-horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	login, err := e.auth.Login(ctx, &LoginInput{Email: "rudo@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	claims, err := e.auth.ValidateAccessToken(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RoleApplicant), claims.Role)
	assert.NotEmpty(t, claims.ApplicantID)

	refreshed, err := e.auth.RefreshToken(ctx, login.RefreshToken)
	require.NoError(t, err)

	// rotation revokes the old refresh token
	_, err = e.auth.RefreshToken(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	require.NoError(t, e.auth.Logout(ctx, refreshed.RefreshToken))
	_, err = e.auth.RefreshToken(ctx, refreshed.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}
