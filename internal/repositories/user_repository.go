package repositories

import (
	"context"

	"github.com/coursekit/platform-service/internal/models"
)

// UserFilters defines filters for user queries.
type UserFilters struct {
	Query  string             // Search query for name, username or email
	Role   *models.UserRole   // Filter by role
	Status *models.UserStatus // Filter by status
	Limit  int                // Page size
	Offset int                // Offset for pagination
}

// UserRepository is the credential store adapter. Uniqueness violations on
// create/update surface as a conflict error kind, never a generic failure.
type UserRepository interface {
	// Read operations
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// Write operations
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error

	// List and search operations
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)

	// Validation and checks
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
