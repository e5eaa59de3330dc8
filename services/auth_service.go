package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"intellibiz-backend/apperrors"
	"intellibiz-backend/models"
	"intellibiz-backend/policy"
	"intellibiz-backend/repository"
	"intellibiz-backend/utils"
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Generate(userID uuid.UUID, role models.Role) (string, error)
}

type RegisterInput struct {
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=8"`
	Name     string      `json:"name" binding:"required"`
	Phone    string      `json:"phone"`
	Role     models.Role `json:"role"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResult is returned by every sign-in path.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthService struct {
	users  repository.UserRepository
	tokens TokenIssuer
	oauth  map[string]OAuthVerifier
	now    func() time.Time
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := s.users.List(ctx, repository.UserFilter{Email: email})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	role := in.Role
	if role == "" {
		role = models.RoleCustomer
	}
	if role != models.RoleCustomer && role != models.RoleBusinessOwner {
		return nil, apperrors.NewValidationError("Role must be Customer or BusinessOwner")
	}
	if in.Phone != "" && !utils.ValidatePhone(in.Phone) {
		return nil, apperrors.NewValidationError("Invalid phone number format")
	}

	email := normalizeEmail(in.Email)
	existing, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("Email already registered")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	now := s.now()
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		Phone:        in.Phone,
		Role:         role,
		Provider:     models.ProviderLocal,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.findByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || !utils.CheckPasswordHash(in.Password, user.PasswordHash) {
		return nil, apperrors.NewUnauthorizedError("Invalid credentials")
	}
	if !user.IsActive {
		return nil, apperrors.NewUnauthorizedError("Account is disabled")
	}
	s.touchLogin(ctx, user)
	return s.issue(user)
}

// OAuthLogin signs in with a provider access token, creating a Customer
// account on first use. The provider must vouch for the email address.
func (s *AuthService) OAuthLogin(ctx context.Context, provider, accessToken string) (*AuthResult, error) {
	verifier, ok := s.oauth[provider]
	if !ok {
		return nil, apperrors.NewValidationError("Unsupported provider: " + provider)
	}
	if strings.TrimSpace(accessToken) == "" {
		return nil, apperrors.NewValidationError("Access token is required")
	}

	profile, err := verifier.Verify(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	email := normalizeEmail(profile.Email)
	if email == "" {
		return nil, apperrors.NewValidationError("Provider did not return an email address")
	}
	if !profile.EmailVerified {
		return nil, apperrors.NewUnauthorizedError("Provider email address is not verified")
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	// Admins sign in with their password only.
	if user != nil && user.Role == models.RoleAdmin {
		return nil, apperrors.NewUnauthorizedError("Account must sign in with a password")
	}
	if user == nil {
		hash, err := utils.HashPassword(randomSecret())
		if err != nil {
			return nil, apperrors.NewInternalError("failed to hash password", err)
		}
		now := s.now()
		user = &models.User{
			ID:           uuid.New(),
			Email:        email,
			PasswordHash: hash,
			Name:         profile.Name,
			Role:         models.RoleCustomer,
			Provider:     provider,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
	}
	if !user.IsActive {
		return nil, apperrors.NewUnauthorizedError("Account is disabled")
	}
	s.touchLogin(ctx, user)
	return s.issue(user)
}

func (s *AuthService) Me(ctx context.Context, actor policy.Actor) (*models.User, error) {
	return s.users.FindByID(ctx, actor.UserID)
}

// SeedAdmin creates the bootstrap admin account when it does not exist yet.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}
	existing, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	now := s.now()
	admin := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         "Administrator",
		Role:         models.RoleAdmin,
		Provider:     models.ProviderLocal,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}
	log.Info().Str("email", email).Msg("Seeded admin account")
	return nil
}

func (s *AuthService) touchLogin(ctx context.Context, user *models.User) {
	now := s.now()
	user.LastLogin = &now
	if err := s.users.Save(ctx, user); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to record last login")
	}
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to generate token", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

func randomSecret() string {
	b := make([]byte, 24)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
