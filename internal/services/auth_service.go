package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/coursekit/platform-service/internal/auth"
	"github.com/coursekit/platform-service/internal/cache"
	"github.com/coursekit/platform-service/internal/config"
	"github.com/coursekit/platform-service/internal/events"
	"github.com/coursekit/platform-service/internal/models"
	"github.com/coursekit/platform-service/internal/repositories"
	"github.com/coursekit/platform-service/internal/token"
	"github.com/coursekit/platform-service/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	cache     *cache.CacheManager
	codec     *token.Codec
	hasher    *auth.Hasher
	publisher events.Publisher
	logger    *slog.Logger
	validator *validator.Validator
	cfg       config.JWTConfig

	// Legacy sequential existence checks before insert. The unique indexes
	// stay authoritative either way.
	uniquePrecheck bool
}

func NewAuthService(
	repo repositories.Repository,
	cacheManager *cache.CacheManager,
	codec *token.Codec,
	hasher *auth.Hasher,
	publisher events.Publisher,
	logger *slog.Logger,
	v *validator.Validator,
	cfg config.JWTConfig,
	uniquePrecheck bool,
) AuthService {
	return &authService{
		repo:           repo,
		cache:          cacheManager,
		codec:          codec,
		hasher:         hasher,
		publisher:      publisher,
		logger:         logger,
		validator:      v,
		cfg:            cfg,
		uniquePrecheck: uniquePrecheck,
	}
}

// Register creates a new account in the inactive state. Accounts always
// start with the user role; role elevation is an admin operation.
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	if s.uniquePrecheck {
		exists, err := s.repo.User().ExistsByEmail(ctx, req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return nil, ErrConflict
		}

		exists, err = s.repo.User().ExistsByUsername(ctx, req.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if exists {
			return nil, ErrConflict
		}
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		Role:         models.RoleUser,
		Status:       models.StatusInactive,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		if repositories.IsConflictError(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID, "username", user.Username)

	s.publishEvent(ctx, events.UserRegistered, map[string]interface{}{
		"user_id":  user.ID,
		"email":    user.Email,
		"username": user.Username,
	})

	return user, nil
}

// Login authenticates credentials and issues an access/refresh token pair.
// Every failure mode returns the same ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.hasher.Match(user.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Suspended and deleted accounts may not sign in; the caller cannot
	// distinguish this from a bad password.
	if user.Status == models.StatusSuspended || user.Status == models.StatusDeleted {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokenPair(user)
}

// Refresh trades a valid refresh token for a fresh token pair. The principal
// is reloaded so the new tokens carry current role and status.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*LoginResponse, error) {
	claims, err := s.codec.VerifyType(refreshToken, token.TypeRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByID(ctx, claims.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, token.ErrTokenInvalid
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if user.Status == models.StatusSuspended || user.Status == models.StatusDeleted {
		return nil, token.ErrTokenInvalid
	}

	return s.issueTokenPair(user)
}

func (s *authService) issueTokenPair(user *models.User) (*LoginResponse, error) {
	accessToken, err := s.codec.Sign(token.AccessClaims(user, token.TypeAccess), s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.codec.Sign(token.AccessClaims(user, token.TypeRefresh), s.cfg.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		User:         user.Summary(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// GenerateVerificationToken mints a verify-email token for an inactive account.
func (s *authService) GenerateVerificationToken(ctx context.Context, email string) (string, error) {
	user, err := s.repo.User().GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	if user.Status != models.StatusInactive {
		return "", ErrAlreadyVerified
	}

	return s.codec.Sign(token.SubjectClaims(user, token.TypeVerifyEmail), s.cfg.VerifyEmailTTL)
}

// VerifyEmail activates the account bound to a verify-email token. Tokens of
// any other type are rejected before the account is touched.
func (s *authService) VerifyEmail(ctx context.Context, tokenString string) error {
	claims, err := s.codec.VerifyType(tokenString, token.TypeVerifyEmail)
	if err != nil {
		return err
	}

	user, err := s.repo.User().GetByID(ctx, claims.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if user.Status != models.StatusInactive {
		return ErrAlreadyVerified
	}

	if err := s.repo.User().UpdateFields(ctx, user.ID, map[string]interface{}{
		"status": models.StatusActive,
	}); err != nil {
		return fmt.Errorf("failed to activate user: %w", err)
	}

	cache.SafeDelete(ctx, s.cache.User, cache.ListKey(user.ID, "profile"))

	s.logger.Info("Email verified", "user_id", user.ID)

	s.publishEvent(ctx, events.UserVerified, map[string]interface{}{
		"user_id": user.ID,
	})

	return nil
}

// GenerateResetToken mints a reset-password token for an existing account.
// Unlike login, an unknown email is reported as not found.
func (s *authService) GenerateResetToken(ctx context.Context, email string) (string, error) {
	user, err := s.repo.User().GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	return s.codec.Sign(token.SubjectClaims(user, token.TypeResetPassword), s.cfg.ResetTokenTTL)
}

// ResetPassword replaces the credential bound to a reset-password token. The
// new password is hashed and stored even if it equals the old one. Previously
// issued access tokens remain valid until they expire.
func (s *authService) ResetPassword(ctx context.Context, tokenString, newPassword string) error {
	claims, err := s.codec.VerifyType(tokenString, token.TypeResetPassword)
	if err != nil {
		return err
	}

	req := &ResetPasswordRequest{Token: tokenString, Password: newPassword}
	if err := s.validator.ValidateStruct(req); err != nil {
		return err
	}

	user, err := s.repo.User().GetByID(ctx, claims.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.User().UpdateFields(ctx, user.ID, map[string]interface{}{
		"password_hash": hash,
	}); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("Password reset", "user_id", user.ID)

	s.publishEvent(ctx, events.UserPasswordChanged, map[string]interface{}{
		"user_id": user.ID,
		"via":     "reset",
	})

	return nil
}

// ChangePassword rotates the credential for an authenticated principal after
// re-checking the current password.
func (s *authService) ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error {
	if err := s.validator.ValidateStruct(req); err != nil {
		return err
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.hasher.Match(user.PasswordHash, req.CurrentPassword); err != nil {
		return ErrPasswordMismatch
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.User().UpdateFields(ctx, user.ID, map[string]interface{}{
		"password_hash": hash,
	}); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("Password changed", "user_id", user.ID)

	s.publishEvent(ctx, events.UserPasswordChanged, map[string]interface{}{
		"user_id": user.ID,
		"via":     "change",
	})

	return nil
}

func (s *authService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if err := s.publisher.Publish(ctx, eventType, data); err != nil {
		s.logger.Error("Failed to publish event", "error", err, "event_type", eventType)
	}
}
