package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/coursekit/platform-service/internal/models"
	"github.com/coursekit/platform-service/internal/repositories"
)

// CoursePostgreSQL implements CourseRepository using GORM.
type CoursePostgreSQL struct {
	db *gorm.DB
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &CoursePostgreSQL{db: db}
}

func (r *CoursePostgreSQL) GetByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, repositories.TranslateError(err)
	}
	return &course, nil
}

func (r *CoursePostgreSQL) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Course{})

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.InstructorID != nil {
		query = query.Where("instructor_id = ?", *filters.InstructorID)
	}
	if filters.Query != "" {
		like := fmt.Sprintf("%%%s%%", filters.Query)
		query = query.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, repositories.TranslateError(err)
	}

	sortBy := filters.SortBy
	if sortBy != "created_at" && sortBy != "title" {
		sortBy = "created_at"
	}
	sortOrder := filters.SortOrder
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	if filters.Limit <= 0 {
		filters.Limit = 10
	}
	if filters.Limit > 100 {
		filters.Limit = 100
	}

	var courses []*models.Course
	err := query.
		Order(fmt.Sprintf("%s %s", sortBy, sortOrder)).
		Limit(filters.Limit).
		Offset(filters.Offset).
		Find(&courses).Error
	if err != nil {
		return nil, 0, repositories.TranslateError(err)
	}

	return courses, total, nil
}

func (r *CoursePostgreSQL) Create(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Create(course).Error; err != nil {
		return repositories.TranslateError(err)
	}
	return nil
}

func (r *CoursePostgreSQL) Update(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Save(course).Error; err != nil {
		return repositories.TranslateError(err)
	}
	return nil
}

func (r *CoursePostgreSQL) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Course{}, "id = ?", id)
	if result.Error != nil {
		return repositories.TranslateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// EnrollmentPostgreSQL implements EnrollmentRepository using GORM. The
// composite unique index on (course_id, student_id) rejects duplicate
// enrollments at the store level.
type EnrollmentPostgreSQL struct {
	db *gorm.DB
}

func NewEnrollmentPostgreSQL(db *gorm.DB) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{db: db}
}

func (r *EnrollmentPostgreSQL) GetByID(ctx context.Context, id string) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Course").
		First(&enrollment, "id = ?", id).Error
	if err != nil {
		return nil, repositories.TranslateError(err)
	}
	return &enrollment, nil
}

func (r *EnrollmentPostgreSQL) GetByCourseAndStudent(ctx context.Context, courseID, studentID string) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).
		First(&enrollment, "course_id = ? AND student_id = ?", courseID, studentID).Error
	if err != nil {
		return nil, repositories.TranslateError(err)
	}
	return &enrollment, nil
}

func (r *EnrollmentPostgreSQL) ListByStudent(ctx context.Context, studentID string) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, repositories.TranslateError(err)
	}
	return enrollments, nil
}

func (r *EnrollmentPostgreSQL) List(ctx context.Context, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Enrollment{})

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
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

	var enrollments []*models.Enrollment
	err := query.
		Preload("Course").
		Order("created_at DESC").
		Limit(filters.Limit).
		Offset(filters.Offset).
		Find(&enrollments).Error
	if err != nil {
		return nil, 0, repositories.TranslateError(err)
	}

	return enrollments, total, nil
}

func (r *EnrollmentPostgreSQL) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if err := r.db.WithContext(ctx).Create(enrollment).Error; err != nil {
		return repositories.TranslateError(err)
	}
	return nil
}

func (r *EnrollmentPostgreSQL) Update(ctx context.Context, enrollment *models.Enrollment) error {
	if err := r.db.WithContext(ctx).Save(enrollment).Error; err != nil {
		return repositories.TranslateError(err)
	}
	return nil
}

func (r *EnrollmentPostgreSQL) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Enrollment{}, "id = ?", id)
	if result.Error != nil {
		return repositories.TranslateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
