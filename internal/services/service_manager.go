package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/coursekit/platform-service/internal/auth"
	"github.com/coursekit/platform-service/internal/cache"
	"github.com/coursekit/platform-service/internal/config"
	"github.com/coursekit/platform-service/internal/events"
	"github.com/coursekit/platform-service/internal/repositories"
	"github.com/coursekit/platform-service/internal/token"
	"github.com/coursekit/platform-service/internal/validator"
)

// ServiceManagerDeps bundles the shared dependencies every service draws from.
type ServiceManagerDeps struct {
	Repo      repositories.Repository
	RepoMgr   repositories.RepositoryManager
	Cache     *cache.CacheManager
	Codec     *token.Codec
	Hasher    *auth.Hasher
	Publisher events.Publisher
	Logger    *slog.Logger
	Validator *validator.Validator
	Config    *config.Config
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	deps ServiceManagerDeps

	authService       AuthService
	userService       UserService
	mediaService      MediaService
	courseService     CourseService
	enrollmentService EnrollmentService
	exportService     ExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies.
func NewServiceManager(deps ServiceManagerDeps) ServiceManager {
	return &serviceManager{
		deps: deps,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.deps.Logger.Info("Initializing service manager")

	if sm.deps.Repo == nil {
		return fmt.Errorf("repository is required")
	}
	if sm.deps.Codec == nil {
		return fmt.Errorf("token codec is required")
	}

	sm.authService = NewAuthService(
		sm.deps.Repo,
		sm.deps.Cache,
		sm.deps.Codec,
		sm.deps.Hasher,
		sm.deps.Publisher,
		sm.deps.Logger,
		sm.deps.Validator,
		sm.deps.Config.JWT,
		sm.deps.Config.UniquePrecheck,
	)
	sm.deps.Logger.Info("Auth service initialized")

	sm.userService = NewUserService(sm.deps.Repo, sm.deps.Cache, sm.deps.Publisher, sm.deps.Logger, sm.deps.Validator)
	sm.deps.Logger.Info("User service initialized")

	sm.mediaService = NewMediaService(sm.deps.Repo, sm.deps.Cache, sm.deps.Logger, sm.deps.Validator)
	sm.deps.Logger.Info("Media service initialized")

	sm.courseService = NewCourseService(sm.deps.Repo, sm.deps.Publisher, sm.deps.Logger, sm.deps.Validator)
	sm.deps.Logger.Info("Course service initialized")

	sm.enrollmentService = NewEnrollmentService(sm.deps.Repo, sm.deps.Cache, sm.deps.Publisher, sm.deps.Logger, sm.deps.Validator)
	sm.deps.Logger.Info("Enrollment service initialized")

	sm.exportService = NewExportService(sm.deps.Repo, sm.deps.Logger)
	sm.deps.Logger.Info("Export service initialized")

	sm.initialized = true
	sm.deps.Logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters
func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.authService
}

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.userService
}

func (sm *serviceManager) Media() MediaService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.mediaService
}

func (sm *serviceManager) Course() CourseService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.courseService
}

func (sm *serviceManager) Enrollment() EnrollmentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.enrollmentService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.exportService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if sm.deps.RepoMgr != nil {
		if err := sm.deps.RepoMgr.HealthCheck(ctx); err != nil {
			return fmt.Errorf("repository health check failed: %w", err)
		}
	}

	// Cache health is advisory; an unreachable cache degrades reads to the
	// store instead of failing the service.
	if sm.deps.Cache != nil {
		if err := sm.deps.Cache.HealthCheck(ctx); err != nil {
			sm.deps.Logger.Warn("Cache health check failed", "error", err)
		}
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.deps.Logger.Info("Shutting down service manager")

	if sm.deps.Publisher != nil {
		if err := sm.deps.Publisher.Close(); err != nil {
			sm.deps.Logger.Error("Failed to close event publisher", "error", err)
		}
	}

	if sm.deps.RepoMgr != nil {
		if err := sm.deps.RepoMgr.Shutdown(ctx); err != nil {
			sm.deps.Logger.Error("Failed to shutdown repository manager", "error", err)
		}
	}

	sm.shutdown = true
	sm.deps.Logger.Info("Service manager shut down completed")

	return nil
}
