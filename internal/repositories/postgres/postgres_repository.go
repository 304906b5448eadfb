package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/coursekit/platform-service/internal/repositories"
)

// PostgreSQLRepository implements the aggregate Repository interface.
type PostgreSQLRepository struct {
	db          *gorm.DB
	redisClient *redis.Client

	user       repositories.UserRepository
	folder     repositories.FolderRepository
	media      repositories.MediaRepository
	course     repositories.CourseRepository
	enrollment repositories.EnrollmentRepository
}

// RepositoryConfig holds configuration for repository initialization.
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository creates a new repository aggregate with all sub-repositories.
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	repo := &PostgreSQLRepository{
		db:          config.DB,
		redisClient: config.RedisClient,
	}

	repo.user = NewUserPostgreSQL(config.DB)
	repo.folder = NewFolderPostgreSQL(config.DB)
	repo.media = NewMediaPostgreSQL(config.DB)
	repo.course = NewCoursePostgreSQL(config.DB)
	repo.enrollment = NewEnrollmentPostgreSQL(config.DB)

	return repo
}

func (r *PostgreSQLRepository) User() repositories.UserRepository             { return r.user }
func (r *PostgreSQLRepository) Folder() repositories.FolderRepository        { return r.folder }
func (r *PostgreSQLRepository) Media() repositories.MediaRepository          { return r.media }
func (r *PostgreSQLRepository) Course() repositories.CourseRepository        { return r.course }
func (r *PostgreSQLRepository) Enrollment() repositories.EnrollmentRepository { return r.enrollment }

// WithTransaction executes fn within a database transaction. The repository
// handed to fn is bound to the transaction.
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &PostgreSQLRepository{
			db:          tx,
			redisClient: r.redisClient,
		}

		txRepo.user = NewUserPostgreSQL(tx)
		txRepo.folder = NewFolderPostgreSQL(tx)
		txRepo.media = NewMediaPostgreSQL(tx)
		txRepo.course = NewCoursePostgreSQL(tx)
		txRepo.enrollment = NewEnrollmentPostgreSQL(tx)

		return fn(txRepo)
	})
}

// Ping checks the health of database and cache connections.
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if r.redisClient != nil {
		if _, err := r.redisClient.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes all connections.
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return nil
}

// RepositoryManager implements the RepositoryManager interface.
type RepositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a new repository manager.
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &RepositoryManager{
		config: config,
	}
}

// Initialize validates connections and builds the repository aggregate.
func (rm *RepositoryManager) Initialize() error {
	if rm.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	sqlDB, err := rm.config.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	// Redis is optional; a missing cache never blocks startup
	if rm.config.RedisClient != nil {
		if _, err := rm.config.RedisClient.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("Redis connection failed: %w", err)
		}
	}

	rm.repo = NewPostgreSQLRepository(rm.config)

	return nil
}

// GetRepository returns the repository instance.
func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

// HealthCheck checks the health of all repository connections.
func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repository not initialized")
	}

	return rm.repo.Ping(ctx)
}

// Shutdown gracefully shuts down all repository connections.
func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}

	return rm.repo.Close()
}
