package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/coursekit/platform-service/internal/models"
	"github.com/coursekit/platform-service/internal/repositories"
)

// UserPostgreSQL is the credential store adapter backed by PostgreSQL.
// Email and username uniqueness is guaranteed by the unique indexes; a
// rejected insert comes back as ErrDuplicateKey.
type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{db: db}
}

// ===== READ OPERATIONS =====

func (r *UserPostgreSQL) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, repositories.TranslateError(err)
	}
	return &user, nil
}

func (r *UserPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, repositories.TranslateError(err)
	}
	return &user, nil
}

func (r *UserPostgreSQL) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, repositories.TranslateError(err)
	}
	return &user, nil
}

// ===== WRITE OPERATIONS =====

func (r *UserPostgreSQL) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return repositories.TranslateError(err)
	}
	return nil
}

func (r *UserPostgreSQL) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return repositories.TranslateError(err)
	}
	return nil
}

func (r *UserPostgreSQL) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return repositories.TranslateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *UserPostgreSQL) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return repositories.TranslateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// ===== LIST AND SEARCH OPERATIONS =====

func (r *UserPostgreSQL) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})

	if filters.Query != "" {
		like := fmt.Sprintf("%%%s%%", filters.Query)
		query = query.Where("email ILIKE ? OR username ILIKE ? OR display_name ILIKE ?", like, like, like)
	}
	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, repositories.TranslateError(err)
	}

	if filters.Limit <= 0 {
		filters.Limit = 10
	}
	if filters.Limit > 100 {
		filters.Limit = 100
	}

	var users []*models.User
	err := query.
		Order("created_at DESC").
		Limit(filters.Limit).
		Offset(filters.Offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, repositories.TranslateError(err)
	}

	return users, total, nil
}

// ===== VALIDATION AND CHECKS =====

func (r *UserPostgreSQL) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, repositories.TranslateError(err)
	}
	return count > 0, nil
}

func (r *UserPostgreSQL) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, repositories.TranslateError(err)
	}
	return count > 0, nil
}
