package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/coursekit/platform-service/internal/cache"
	"github.com/coursekit/platform-service/internal/events"
	"github.com/coursekit/platform-service/internal/models"
	"github.com/coursekit/platform-service/internal/repositories"
	"github.com/coursekit/platform-service/internal/validator"
)

type enrollmentService struct {
	repo      repositories.Repository
	cache     *cache.CacheManager
	publisher events.Publisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewEnrollmentService(
	repo repositories.Repository,
	cacheManager *cache.CacheManager,
	publisher events.Publisher,
	logger *slog.Logger,
	v *validator.Validator,
) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		cache:     cacheManager,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

// Enroll requests access to a published course. The composite unique index
// on (course_id, student_id) is the source of truth for duplicates; a
// rejected insert surfaces as a conflict regardless of any earlier read.
func (s *enrollmentService) Enroll(ctx context.Context, studentID string, req *EnrollRequest) (*models.Enrollment, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	course, err := s.repo.Course().GetByID(ctx, req.CourseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}

	if course.Status != models.CoursePublished {
		return nil, ErrForbidden
	}
	if course.InstructorID == studentID {
		return nil, ErrForbidden
	}

	enrollment := &models.Enrollment{
		ID:        uuid.New().String(),
		CourseID:  req.CourseID,
		StudentID: studentID,
		Status:    models.EnrollmentPending,
	}

	if err := s.repo.Enrollment().Create(ctx, enrollment); err != nil {
		if repositories.IsConflictError(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	cache.SafeDelete(ctx, s.cache.Enrollment, cache.ListKey(studentID, "enrollments"))

	s.logger.Info("Enrollment requested", "enrollment_id", enrollment.ID, "course_id", req.CourseID, "student_id", studentID)

	s.publishEvent(ctx, events.EnrollmentRequested, map[string]interface{}{
		"enrollment_id": enrollment.ID,
		"course_id":     req.CourseID,
		"student_id":    studentID,
	})

	return enrollment, nil
}

// Decide moves a pending enrollment to approved or rejected. Decisions are
// final: a decided enrollment cannot be re-decided.
func (s *enrollmentService) Decide(ctx context.Context, enrollmentID string, req *DecideEnrollmentRequest) (*models.Enrollment, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	enrollment, err := s.repo.Enrollment().GetByID(ctx, enrollmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load enrollment: %w", err)
	}

	if verrs := s.validator.GetBusinessValidator().ValidateEnrollmentDecision(enrollment.Status, req.Status); len(verrs) > 0 {
		return nil, verrs
	}

	enrollment.Status = req.Status

	if err := s.repo.Enrollment().Update(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("failed to update enrollment: %w", err)
	}

	cache.SafeDelete(ctx, s.cache.Enrollment, cache.ListKey(enrollment.StudentID, "enrollments"))

	s.logger.Info("Enrollment decided", "enrollment_id", enrollmentID, "status", req.Status)

	s.publishEvent(ctx, events.EnrollmentDecided, map[string]interface{}{
		"enrollment_id": enrollmentID,
		"course_id":     enrollment.CourseID,
		"student_id":    enrollment.StudentID,
		"status":        string(req.Status),
	})

	return enrollment, nil
}

// ListByStudent serves the per-student enrollment view, read-through cached.
func (s *enrollmentService) ListByStudent(ctx context.Context, studentID string) ([]*models.Enrollment, error) {
	key := cache.ListKey(studentID, "enrollments")

	if enrollments, err := cache.GetList[*models.Enrollment](ctx, s.cache.Enrollment, key); err == nil {
		return enrollments, nil
	}

	enrollments, err := s.repo.Enrollment().ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	cache.SafeSet(ctx, s.cache.Enrollment, key, enrollments, cache.EnrollmentCacheConfig.TTL)

	return enrollments, nil
}

func (s *enrollmentService) List(ctx context.Context, filters repositories.EnrollmentFilters) (*EnrollmentListResponse, error) {
	enrollments, total, err := s.repo.Enrollment().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	size := filters.Limit
	if size <= 0 {
		size = 10
	}
	page := filters.Offset/size + 1

	return &EnrollmentListResponse{
		Enrollments: enrollments,
		Total:       total,
		Page:        page,
		Size:        size,
	}, nil
}

func (s *enrollmentService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if err := s.publisher.Publish(ctx, eventType, data); err != nil {
		s.logger.Error("Failed to publish event", "error", err, "event_type", eventType)
	}
}
