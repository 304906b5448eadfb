package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/coursekit/platform-service/internal/cache"
	"github.com/coursekit/platform-service/internal/models"
	"github.com/coursekit/platform-service/internal/repositories"
	"github.com/coursekit/platform-service/internal/validator"
)

// mediaService owns the folder and media library. List views are served
// read-through from the cache; writes go to the store first and then merge
// into any cached view in place, so a fresh list never waits on a full
// re-read after every mutation.
type mediaService struct {
	repo      repositories.Repository
	cache     *cache.CacheManager
	logger    *slog.Logger
	validator *validator.Validator
}

func NewMediaService(
	repo repositories.Repository,
	cacheManager *cache.CacheManager,
	logger *slog.Logger,
	v *validator.Validator,
) MediaService {
	return &mediaService{
		repo:      repo,
		cache:     cacheManager,
		logger:    logger,
		validator: v,
	}
}

// ===== FOLDER OPERATIONS =====

func (s *mediaService) CreateFolder(ctx context.Context, userID string, req *CreateFolderRequest) (*models.Folder, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	folder := &models.Folder{
		ID:     uuid.New().String(),
		UserID: userID,
		Name:   req.Name,
	}

	if err := s.repo.Folder().Create(ctx, folder); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	// Merge into the cached list instead of invalidating it. If no entry is
	// cached the next read repopulates from the store.
	cache.SafeAppend(ctx, s.cache.Folder, cache.ListKey(userID, "folders"), folder)

	s.logger.Info("Folder created", "folder_id", folder.ID, "user_id", userID)

	return folder, nil
}

func (s *mediaService) RenameFolder(ctx context.Context, userID, folderID string, req *RenameFolderRequest) (*models.Folder, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	folder, err := s.getOwnedFolder(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}

	folder.Name = req.Name
	if err := s.repo.Folder().Update(ctx, folder); err != nil {
		return nil, fmt.Errorf("failed to rename folder: %w", err)
	}

	cache.SafeReplace(ctx, s.cache.Folder, cache.ListKey(userID, "folders"),
		func(f *models.Folder) bool { return f.ID == folderID }, folder)

	s.logger.Info("Folder renamed", "folder_id", folderID, "user_id", userID)

	return folder, nil
}

// DeleteFolder removes a folder and every media record inside it. The
// affected cached views are invalidated outright; a delete fans out too far
// for an in-place merge to stay correct.
func (s *mediaService) DeleteFolder(ctx context.Context, userID, folderID string) error {
	if _, err := s.getOwnedFolder(ctx, userID, folderID); err != nil {
		return err
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Media().DeleteByFolder(ctx, folderID); err != nil {
			return err
		}
		return tx.Folder().Delete(ctx, folderID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}

	cache.SafeDelete(ctx, s.cache.Folder,
		cache.ListKey(userID, "folders"),
		cache.ListKey(userID, "media"),
		cache.ListKey(userID, "folder", folderID))

	s.logger.Info("Folder deleted", "folder_id", folderID, "user_id", userID)

	return nil
}

// ListFolders serves the folder list read-through: cache hit returns
// immediately, a miss loads from the store and populates the cache before
// returning so the next read does zero store queries.
func (s *mediaService) ListFolders(ctx context.Context, userID string) ([]*models.Folder, error) {
	key := cache.ListKey(userID, "folders")

	if folders, err := cache.GetList[*models.Folder](ctx, s.cache.Folder, key); err == nil {
		return folders, nil
	}

	folders, err := s.repo.Folder().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}

	cache.SafeSet(ctx, s.cache.Folder, key, folders, cache.FolderCacheConfig.TTL)

	return folders, nil
}

// ===== MEDIA OPERATIONS =====

func (s *mediaService) CreateMedia(ctx context.Context, userID string, req *CreateMediaRequest) (*models.Media, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	if req.FolderID != nil {
		if _, err := s.getOwnedFolder(ctx, userID, *req.FolderID); err != nil {
			return nil, err
		}
	}

	media := &models.Media{
		ID:       uuid.New().String(),
		UserID:   userID,
		FolderID: req.FolderID,
		Name:     req.Name,
		Type:     req.Type,
		PublicID: req.PublicID,
		URL:      req.URL,
	}

	if err := s.repo.Media().Create(ctx, media); err != nil {
		return nil, fmt.Errorf("failed to create media: %w", err)
	}

	cache.SafeAppend(ctx, s.cache.Media, cache.ListKey(userID, "media"), media)
	if req.FolderID != nil {
		cache.SafeAppend(ctx, s.cache.Media, cache.ListKey(userID, "folder", *req.FolderID), media)
	}

	s.logger.Info("Media created", "media_id", media.ID, "user_id", userID, "type", media.Type)

	return media, nil
}

func (s *mediaService) DeleteMedia(ctx context.Context, userID, mediaID string) error {
	media, err := s.repo.Media().GetByID(ctx, mediaID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load media: %w", err)
	}
	if media.UserID != userID {
		return ErrForbidden
	}

	if err := s.repo.Media().Delete(ctx, mediaID); err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}

	match := func(m *models.Media) bool { return m.ID == mediaID }
	cache.SafeRemove(ctx, s.cache.Media, cache.ListKey(userID, "media"), match)
	if media.FolderID != nil {
		cache.SafeRemove(ctx, s.cache.Media, cache.ListKey(userID, "folder", *media.FolderID), match)
	}

	s.logger.Info("Media deleted", "media_id", mediaID, "user_id", userID)

	return nil
}

// ListMedia serves the full media library for a user, read-through cached.
func (s *mediaService) ListMedia(ctx context.Context, userID string) ([]*models.Media, error) {
	key := cache.ListKey(userID, "media")

	if media, err := cache.GetList[*models.Media](ctx, s.cache.Media, key); err == nil {
		return media, nil
	}

	media, err := s.repo.Media().ListByUser(ctx, userID, repositories.MediaFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}

	cache.SafeSet(ctx, s.cache.Media, key, media, cache.MediaCacheConfig.TTL)

	return media, nil
}

// ListFolderMedia serves the per-folder media view, read-through cached.
func (s *mediaService) ListFolderMedia(ctx context.Context, userID, folderID string) ([]*models.Media, error) {
	if _, err := s.getOwnedFolder(ctx, userID, folderID); err != nil {
		return nil, err
	}

	key := cache.ListKey(userID, "folder", folderID)

	if media, err := cache.GetList[*models.Media](ctx, s.cache.Media, key); err == nil {
		return media, nil
	}

	media, err := s.repo.Media().ListByFolder(ctx, folderID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folder media: %w", err)
	}

	cache.SafeSet(ctx, s.cache.Media, key, media, cache.MediaCacheConfig.TTL)

	return media, nil
}

// getOwnedFolder loads a folder and checks ownership.
func (s *mediaService) getOwnedFolder(ctx context.Context, userID, folderID string) (*models.Folder, error) {
	folder, err := s.repo.Folder().GetByID(ctx, folderID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load folder: %w", err)
	}
	if folder.UserID != userID {
		return nil, ErrForbidden
	}
	return folder, nil
}
