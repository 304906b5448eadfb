package repositories

import (
	"context"
	"time"

	"github.com/coursekit/platform-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type MediaFilters struct {
	Type     *models.MediaType `json:"type"`
	FolderID *string           `json:"folder_id"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

type CourseFilters struct {
	Status       *models.CourseStatus `json:"status"`
	InstructorID *string              `json:"instructor_id"`
	Query        string               `json:"query"`
	DateFrom     *time.Time           `json:"date_from"`
	DateTo       *time.Time           `json:"date_to"`
	Limit        int                  `json:"limit"`
	Offset       int                  `json:"offset"`
	SortBy       string               `json:"sort_by"`    // "created_at", "title"
	SortOrder    string               `json:"sort_order"` // "asc", "desc"
}

type EnrollmentFilters struct {
	Status    *models.EnrollmentStatus `json:"status"`
	CourseID  *string                  `json:"course_id"`
	StudentID *string                  `json:"student_id"`
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
}

// ===== MEDIA DOMAIN =====

type FolderRepository interface {
	GetByID(ctx context.Context, id string) (*models.Folder, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Folder, error)
	Create(ctx context.Context, folder *models.Folder) error
	Update(ctx context.Context, folder *models.Folder) error
	Delete(ctx context.Context, id string) error
}

type MediaRepository interface {
	GetByID(ctx context.Context, id string) (*models.Media, error)
	ListByUser(ctx context.Context, userID string, filters MediaFilters) ([]*models.Media, error)
	ListRootByUser(ctx context.Context, userID string) ([]*models.Media, error)
	ListByFolder(ctx context.Context, folderID, userID string) ([]*models.Media, error)
	Create(ctx context.Context, media *models.Media) error
	Delete(ctx context.Context, id string) error
	DeleteByFolder(ctx context.Context, folderID string) error
}

// ===== LMS DOMAIN =====

type CourseRepository interface {
	GetByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context, filters CourseFilters) ([]*models.Course, int64, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

type EnrollmentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Enrollment, error)
	GetByCourseAndStudent(ctx context.Context, courseID, studentID string) (*models.Enrollment, error)
	ListByStudent(ctx context.Context, studentID string) ([]*models.Enrollment, error)
	List(ctx context.Context, filters EnrollmentFilters) ([]*models.Enrollment, int64, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Update(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, id string) error
}
