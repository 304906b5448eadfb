package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/coursekit/platform-service/internal/models"
	"github.com/coursekit/platform-service/internal/repositories"
)

// FolderPostgreSQL implements FolderRepository using GORM.
type FolderPostgreSQL struct {
	db *gorm.DB
}

func NewFolderPostgreSQL(db *gorm.DB) repositories.FolderRepository {
	return &FolderPostgreSQL{db: db}
}

func (r *FolderPostgreSQL) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	var folder models.Folder
	if err := r.db.WithContext(ctx).First(&folder, "id = ?", id).Error; err != nil {
		return nil, repositories.TranslateError(err)
	}
	return &folder, nil
}

func (r *FolderPostgreSQL) ListByUser(ctx context.Context, userID string) ([]*models.Folder, error) {
	var folders []*models.Folder
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&folders).Error
	if err != nil {
		return nil, repositories.TranslateError(err)
	}
	return folders, nil
}

func (r *FolderPostgreSQL) Create(ctx context.Context, folder *models.Folder) error {
	if err := r.db.WithContext(ctx).Create(folder).Error; err != nil {
		return repositories.TranslateError(err)
	}
	return nil
}

func (r *FolderPostgreSQL) Update(ctx context.Context, folder *models.Folder) error {
	if err := r.db.WithContext(ctx).Save(folder).Error; err != nil {
		return repositories.TranslateError(err)
	}
	return nil
}

func (r *FolderPostgreSQL) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Folder{}, "id = ?", id)
	if result.Error != nil {
		return repositories.TranslateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// MediaPostgreSQL implements MediaRepository using GORM.
type MediaPostgreSQL struct {
	db *gorm.DB
}

func NewMediaPostgreSQL(db *gorm.DB) repositories.MediaRepository {
	return &MediaPostgreSQL{db: db}
}

func (r *MediaPostgreSQL) GetByID(ctx context.Context, id string) (*models.Media, error) {
	var media models.Media
	if err := r.db.WithContext(ctx).First(&media, "id = ?", id).Error; err != nil {
		return nil, repositories.TranslateError(err)
	}
	return &media, nil
}

func (r *MediaPostgreSQL) ListByUser(ctx context.Context, userID string, filters repositories.MediaFilters) ([]*models.Media, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.FolderID != nil {
		query = query.Where("folder_id = ?", *filters.FolderID)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	var media []*models.Media
	if err := query.Order("created_at DESC").Find(&media).Error; err != nil {
		return nil, repositories.TranslateError(err)
	}
	return media, nil
}

// ListRootByUser returns media not assigned to any folder.
func (r *MediaPostgreSQL) ListRootByUser(ctx context.Context, userID string) ([]*models.Media, error) {
	var media []*models.Media
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND folder_id IS NULL", userID).
		Order("created_at DESC").
		Find(&media).Error
	if err != nil {
		return nil, repositories.TranslateError(err)
	}
	return media, nil
}

func (r *MediaPostgreSQL) ListByFolder(ctx context.Context, folderID, userID string) ([]*models.Media, error) {
	var media []*models.Media
	err := r.db.WithContext(ctx).
		Where("folder_id = ? AND user_id = ?", folderID, userID).
		Order("created_at DESC").
		Find(&media).Error
	if err != nil {
		return nil, repositories.TranslateError(err)
	}
	return media, nil
}

func (r *MediaPostgreSQL) Create(ctx context.Context, media *models.Media) error {
	if err := r.db.WithContext(ctx).Create(media).Error; err != nil {
		return repositories.TranslateError(err)
	}
	return nil
}

func (r *MediaPostgreSQL) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Media{}, "id = ?", id)
	if result.Error != nil {
		return repositories.TranslateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// DeleteByFolder removes every media record in a folder. Used when a folder
// is deleted so no orphaned assets remain.
func (r *MediaPostgreSQL) DeleteByFolder(ctx context.Context, folderID string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Media{}, "folder_id = ?", folderID).Error; err != nil {
		return repositories.TranslateError(err)
	}
	return nil
}
