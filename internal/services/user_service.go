package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"

	"github.com/coursekit/platform-service/internal/cache"
	"github.com/coursekit/platform-service/internal/events"
	"github.com/coursekit/platform-service/internal/models"
	"github.com/coursekit/platform-service/internal/repositories"
	"github.com/coursekit/platform-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	cache     *cache.CacheManager
	publisher events.Publisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(
	repo repositories.Repository,
	cacheManager *cache.CacheManager,
	publisher events.Publisher,
	logger *slog.Logger,
	v *validator.Validator,
) UserService {
	return &userService{
		repo:      repo,
		cache:     cacheManager,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

// GetByID resolves a user through the cache. A miss or an unreachable cache
// reads through to the store and repopulates synchronously.
func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	key := cache.ListKey(id, "profile")

	var cached models.User
	if err := s.cache.User.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	cache.SafeSet(ctx, s.cache.User, key, user, cache.UserCacheConfig.TTL)

	return user, nil
}

func (s *userService) List(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error) {
	users, total, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	summaries := make([]*models.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, u.Summary())
	}

	size := filters.Limit
	if size <= 0 {
		size = 10
	}
	page := filters.Offset/size + 1

	return &UserListResponse{
		Users: summaries,
		Total: total,
		Page:  page,
		Size:  size,
	}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*models.User, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.DisplayName != nil {
		user.DisplayName = req.DisplayName
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.Occupation != nil {
		user.Occupation = req.Occupation
	}
	if req.SocialProfile != nil {
		blob, err := json.Marshal(req.SocialProfile)
		if err != nil {
			return nil, fmt.Errorf("failed to encode social profile: %w", err)
		}
		user.SocialProfile = datatypes.JSON(blob)
	}

	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	cache.SafeDelete(ctx, s.cache.User, cache.ListKey(userID, "profile"))

	s.logger.Info("Profile updated", "user_id", userID)

	return user, nil
}

// UpdateStatus moves an account through the lifecycle state machine. Invalid
// transitions are rejected before the store is touched.
func (s *userService) UpdateStatus(ctx context.Context, id string, req *UpdateStatusRequest) (*models.User, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if verrs := s.validator.GetBusinessValidator().ValidateUserStatusTransition(user.Status, req.Status); len(verrs) > 0 {
		return nil, verrs
	}

	previous := user.Status
	user.Status = req.Status

	if err := s.repo.User().UpdateFields(ctx, id, map[string]interface{}{
		"status": req.Status,
	}); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	cache.SafeDelete(ctx, s.cache.User, cache.ListKey(id, "profile"))

	s.logger.Info("User status changed", "user_id", id, "from", previous, "to", req.Status)

	s.publishEvent(ctx, events.UserStatusChanged, map[string]interface{}{
		"user_id": id,
		"from":    string(previous),
		"to":      string(req.Status),
	})

	return user, nil
}

func (s *userService) UpdateRole(ctx context.Context, id string, req *UpdateRoleRequest) (*models.User, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	user.Role = req.Role

	if err := s.repo.User().UpdateFields(ctx, id, map[string]interface{}{
		"role": req.Role,
	}); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	cache.SafeDelete(ctx, s.cache.User, cache.ListKey(id, "profile"))

	s.logger.Info("User role changed", "user_id", id, "role", req.Role)

	return user, nil
}

// Delete marks the account deleted and soft-deletes the row. Deleted is a
// terminal state; outstanding tokens for the account stop working on the
// next refresh, not immediately.
func (s *userService) Delete(ctx context.Context, id string) error {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if verrs := s.validator.GetBusinessValidator().ValidateUserStatusTransition(user.Status, models.StatusDeleted); len(verrs) > 0 {
		return verrs
	}

	if err := s.repo.User().UpdateFields(ctx, id, map[string]interface{}{
		"status": models.StatusDeleted,
	}); err != nil {
		return fmt.Errorf("failed to mark user deleted: %w", err)
	}

	if err := s.repo.User().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	cache.SafeDelete(ctx, s.cache.User, cache.ListKey(id, "profile"))
	cache.SafeInvalidatePattern(ctx, s.cache.Folder, cache.ListKey(id, "*"))

	s.logger.Info("User deleted", "user_id", id)

	s.publishEvent(ctx, events.UserDeleted, map[string]interface{}{
		"user_id": id,
	})

	return nil
}

func (s *userService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if err := s.publisher.Publish(ctx, eventType, data); err != nil {
		s.logger.Error("Failed to publish event", "error", err, "event_type", eventType)
	}
}
