package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/adapters/persistence/repositories"
	"eac-registry/internal/config"
	"eac-registry/internal/core/domain"
	"eac-registry/internal/pkg/jwt"
	"eac-registry/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VerificationTTL is how long an email verification link stays valid
const VerificationTTL = 48 * time.Hour

// Auth errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// AuthService handles registration, email verification and sessions
type AuthService struct {
	tx               repositories.TxManager
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	applicantRepo    repositories.ApplicantRepository
	ids              *IDGenerator
	notifications    *NotificationService
	dispatcher       *Dispatcher
	cfg              *config.Config
	now              func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	tx repositories.TxManager,
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	applicantRepo repositories.ApplicantRepository,
	ids *IDGenerator,
	notifications *NotificationService,
	dispatcher *Dispatcher,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		tx:               tx,
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		applicantRepo:    applicantRepo,
		ids:              ids,
		notifications:    notifications,
		dispatcher:       dispatcher,
		cfg:              cfg,
		now:              time.Now,
	}
}

// RegisterIndividualInput represents individual applicant registration
type RegisterIndividualInput struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=150"`
	Phone     string `json:"phone" validate:"omitempty,max=30"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

// RegisterOrganizationInput represents organization applicant registration
type RegisterOrganizationInput struct {
	CompanyName   string `json:"company_name" validate:"required,max=200"`
	ContactPerson string `json:"contact_person" validate:"required,max=200"`
	Email         string `json:"email" validate:"required,email,max=150"`
	Phone         string `json:"phone" validate:"omitempty,max=30"`
	Password      string `json:"password" validate:"required,min=8,max=72"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// RegisterIndividual creates an applicant login and queues the verification email
func (s *AuthService) RegisterIndividual(ctx context.Context, input *RegisterIndividualInput) (*AuthResponse, error) {
	applicant := &models.Applicant{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
	}
	return s.register(ctx, applicant, input.Email, input.Phone, input.Password)
}

// RegisterOrganization creates an organization login and queues the verification email
func (s *AuthService) RegisterOrganization(ctx context.Context, input *RegisterOrganizationInput) (*AuthResponse, error) {
	applicant := &models.OrganizationApplicant{
		CompanyName:   strings.TrimSpace(input.CompanyName),
		ContactPerson: strings.TrimSpace(input.ContactPerson),
	}
	return s.register(ctx, applicant, input.Email, input.Phone, input.Password)
}

func (s *AuthService) register(ctx context.Context, applicant models.ApplicantRecord, email, phone, plain string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !password.ValidatePassword(plain) {
		return nil, ErrWeakPassword
	}

	// 1. Email must be free in both the login and applicant tables
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !exists {
		exists, err = s.applicantRepo.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	// 2. Hash password and verification token
	hashedPassword, err := password.Hash(plain)
	if err != nil {
		return nil, err
	}
	token, err := password.GenerateToken()
	if err != nil {
		return nil, err
	}
	expires := s.now().Add(VerificationTTL)

	user := &models.User{
		Email:    email,
		Password: hashedPassword,
		FullName: applicant.DisplayName(),
		Role:     string(domain.RoleApplicant),
		IsActive: true,
	}

	// 3. User, applicant and verification email commit together
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUserAlreadyExists
			}
			return err
		}

		applicantID, err := s.ids.NextApplicantID(ctx, applicant.Kind())
		if err != nil {
			return err
		}

		acc := applicant.Account()
		acc.ApplicantID = applicantID
		acc.UserID = user.ID
		acc.Email = email
		acc.Phone = strings.TrimSpace(phone)
		acc.Status = string(domain.ApplicantRegistered)
		acc.VerificationTokenHash = password.HashToken(token)
		acc.VerificationExpiresAt = &expires

		if err := s.applicantRepo.Create(ctx, applicant); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUserAlreadyExists
			}
			return err
		}

		return s.notifications.QueueVerification(ctx, applicant, token)
	})
	if err != nil {
		return nil, err
	}
	s.dispatcher.Wake()

	// 4. Sign in straight away; starting an application still needs verification
	resp, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	resp.User.ApplicantID = applicant.Account().ApplicantID
	resp.User.Status = applicant.Account().Status

	log.Printf("✅ Applicant registered: %s (%s)", applicant.Account().ApplicantID, email)
	return resp, nil
}

// VerifyEmail consumes a verification token
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*models.UserResponse, error) {
	applicant, err := s.applicantRepo.GetByVerificationHash(ctx, password.HashToken(strings.TrimSpace(token)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	acc := applicant.Account()
	now := s.now()
	if acc.VerificationExpiresAt != nil && now.After(*acc.VerificationExpiresAt) {
		return nil, ErrTokenExpired
	}

	acc.EmailVerifiedAt = &now
	acc.VerificationTokenHash = ""
	acc.VerificationExpiresAt = nil
	if acc.CurrentStatus() == domain.ApplicantRegistered {
		acc.Status = string(domain.ApplicantEmailVerified)
	}
	if err := s.applicantRepo.Save(ctx, applicant); err != nil {
		return nil, err
	}

	log.Printf("✅ Email verified: %s (%s)", acc.ApplicantID, acc.Email)
	return s.Me(ctx, acc.UserID)
}

// ResendVerification issues a fresh verification link. Unknown emails are
// ignored so the endpoint does not reveal which addresses are registered.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	applicant, err := s.applicantRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	acc := applicant.Account()
	if acc.EmailVerifiedAt != nil {
		return ErrAlreadyVerified
	}

	token, err := password.GenerateToken()
	if err != nil {
		return err
	}
	expires := s.now().Add(VerificationTTL)
	acc.VerificationTokenHash = password.HashToken(token)
	acc.VerificationExpiresAt = &expires

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.applicantRepo.Save(ctx, applicant); err != nil {
			return err
		}
		return s.notifications.QueueVerification(ctx, applicant, token)
	})
	if err != nil {
		return err
	}
	s.dispatcher.Wake()

	log.Printf("📧 Verification resent: %s", acc.ApplicantID)
	return nil
}

// Login authenticates a user
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	// 1. Find user by email
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Check if user is active
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 3. Verify password
	if !password.Verify(input.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	resp, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.Email)
	return resp, nil
}

// RefreshToken refreshes the access token using refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	// 1. Validate refresh token JWT
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	// 2. Find token in DB
	storedToken, err := s.refreshTokenRepo.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	// 3. Check revoked / expired
	if storedToken.IsRevoked() {
		return nil, ErrTokenRevoked
	}
	if storedToken.IsExpired() {
		return nil, ErrTokenExpired
	}

	// 4. Get user
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 5. Revoke old refresh token (Token Rotation)
	if err := s.refreshTokenRepo.Revoke(ctx, storedToken.ID); err != nil {
		return nil, err
	}

	resp, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Token refreshed for user: %s", user.Email)
	return resp, nil
}

// Logout revokes the refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, password.HashToken(refreshToken)); err != nil {
		return err
	}

	log.Printf("✅ User logged out")
	return nil
}

// LogoutAll revokes all refresh tokens for a user
func (s *AuthService) LogoutAll(ctx context.Context, userID uint) error {
	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, userID); err != nil {
		return err
	}

	log.Printf("✅ All sessions revoked for user ID: %d", userID)
	return nil
}

// CleanupSessions removes expired refresh tokens
func (s *AuthService) CleanupSessions(ctx context.Context) (int64, error) {
	return s.refreshTokenRepo.DeleteExpired(ctx)
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	return jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
}

// Me returns the user with applicant funnel details
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	resp := user.ToResponse()
	if applicant, err := s.applicantRepo.GetByUserID(ctx, user.ID); err == nil {
		resp.ApplicantID = applicant.Account().ApplicantID
		resp.Status = applicant.Account().Status
	}
	return resp, nil
}

// issue generates and stores a token pair and builds the response
func (s *AuthService) issue(ctx context.Context, user *models.User) (*AuthResponse, error) {
	applicantID := ""
	userResponse := user.ToResponse()
	if domain.Role(user.Role) == domain.RoleApplicant {
		if applicant, err := s.applicantRepo.GetByUserID(ctx, user.ID); err == nil {
			applicantID = applicant.Account().ApplicantID
			userResponse.ApplicantID = applicantID
			userResponse.Status = applicant.Account().Status
		}
	}

	tokens, err := s.generateTokens(user, applicantID)
	if err != nil {
		return nil, err
	}
	if err := s.storeRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         userResponse,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// generateTokens generates access and refresh tokens
func (s *AuthService) generateTokens(user *models.User, applicantID string) (*TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		user.ID,
		user.Email,
		user.Role,
		applicantID,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID,
		uuid.New().String(),
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// storeRefreshToken stores a refresh token in the database
func (s *AuthService) storeRefreshToken(ctx context.Context, userID uint, refreshToken string) error {
	token := &models.RefreshToken{
		UserID:    userID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	return s.refreshTokenRepo.Create(ctx, token)
}
