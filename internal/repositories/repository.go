package repositories

import "context"

// Repository aggregates every store adapter behind one interface.
type Repository interface {
	// Identity domain
	User() UserRepository

	// Media domain
	Folder() FolderRepository
	Media() MediaRepository

	// LMS domain
	Course() CourseRepository
	Enrollment() EnrollmentRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
