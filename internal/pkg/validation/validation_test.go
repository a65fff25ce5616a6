package validation

import (
	"errors"
	"testing"

	"eac-registry/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=REGISTRAR FINANCE"`
}

func TestStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Struct(&registerInput{Email: "a@b.co", Password: "longenough"}))
	})

	t.Run("field errors use json names", func(t *testing.T) {
		err := Struct(&registerInput{Email: "nope", Password: "short", Role: "ADMIN"})
		require.Error(t, err)

		var verr *Error
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "must be a valid email address", verr.Fields["email"])
		assert.Equal(t, "must be at least 8 characters", verr.Fields["password"])
		assert.Equal(t, "must be one of: REGISTRAR FINANCE", verr.Fields["role"])
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("nested payload paths", func(t *testing.T) {
		err := Struct(&domain.OrganizationPayload{
			Profile:          domain.OrganizationProfile{Email: "x@y.co"},
			TrustAccount:     domain.TrustAccount{BankName: "CBZ"},
			PREAMemberNumber: "EAC-MBR-2024-0001",
		})
		var verr *Error
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "profile.legal_name")
		assert.Contains(t, verr.Fields, "directors")
	})
}
