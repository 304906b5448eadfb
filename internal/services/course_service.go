package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/coursekit/platform-service/internal/events"
	"github.com/coursekit/platform-service/internal/models"
	"github.com/coursekit/platform-service/internal/repositories"
	"github.com/coursekit/platform-service/internal/validator"
)

type courseService struct {
	repo      repositories.Repository
	publisher events.Publisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCourseService(
	repo repositories.Repository,
	publisher events.Publisher,
	logger *slog.Logger,
	v *validator.Validator,
) CourseService {
	return &courseService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *courseService) Create(ctx context.Context, instructorID string, req *CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	course := &models.Course{
		ID:           uuid.New().String(),
		Title:        req.Title,
		Description:  req.Description,
		Status:       models.CourseDraft,
		Price:        req.Price,
		Syllabus:     req.Syllabus,
		CoverImage:   req.CoverImage,
		InstructorID: instructorID,
	}

	if err := s.repo.Course().Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info("Course created", "course_id", course.ID, "instructor_id", instructorID)

	return course, nil
}

func (s *courseService) GetByID(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	return course, nil
}

func (s *courseService) List(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error) {
	courses, total, err := s.repo.Course().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	size := filters.Limit
	if size <= 0 {
		size = 10
	}
	page := filters.Offset/size + 1

	return &CourseListResponse{
		Courses: courses,
		Total:   total,
		Page:    page,
		Size:    size,
	}, nil
}

func (s *courseService) Update(ctx context.Context, id, userID string, req *UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	course, err := s.getOwnedCourse(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.Syllabus != nil {
		course.Syllabus = req.Syllabus
	}
	if req.CoverImage != nil {
		course.CoverImage = req.CoverImage
	}

	if err := s.repo.Course().Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	s.logger.Info("Course updated", "course_id", id)

	return course, nil
}

// UpdateStatus moves a course through draft -> published -> unpublished.
func (s *courseService) UpdateStatus(ctx context.Context, id, userID string, req *UpdateCourseStatusRequest) (*models.Course, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	course, err := s.getOwnedCourse(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if verrs := s.validator.GetBusinessValidator().ValidateCourseStatusTransition(course.Status, req.Status); len(verrs) > 0 {
		return nil, verrs
	}

	previous := course.Status
	course.Status = req.Status

	if err := s.repo.Course().Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to update course status: %w", err)
	}

	s.logger.Info("Course status changed", "course_id", id, "from", previous, "to", req.Status)

	if req.Status == models.CoursePublished {
		s.publishEvent(ctx, events.CoursePublished, map[string]interface{}{
			"course_id":     id,
			"instructor_id": course.InstructorID,
		})
	}

	return course, nil
}

func (s *courseService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.getOwnedCourse(ctx, id, userID); err != nil {
		return err
	}

	if err := s.repo.Course().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	s.logger.Info("Course deleted", "course_id", id)

	return nil
}

// getOwnedCourse loads a course and checks the caller owns it. Admins bypass
// the ownership check at the handler layer via the manageCourses permission.
func (s *courseService) getOwnedCourse(ctx context.Context, id, userID string) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	if course.InstructorID != userID {
		return nil, ErrForbidden
	}
	return course, nil
}

func (s *courseService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if err := s.publisher.Publish(ctx, eventType, data); err != nil {
		s.logger.Error("Failed to publish event", "error", err, "event_type", eventType)
	}
}
