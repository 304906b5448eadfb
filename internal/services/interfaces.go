package services

import (
	"context"

	"gorm.io/datatypes"

	"github.com/coursekit/platform-service/internal/models"
	"github.com/coursekit/platform-service/internal/repositories"
)

// ===== AUTH RELATED DTOs =====

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required,username_format"`
	Password  string `json:"password" validate:"required,password_strength"`
	FirstName string `json:"first_name" validate:"omitempty,max=50"`
	LastName  string `json:"last_name" validate:"omitempty,max=50"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User         *models.UserSummary `json:"user"`
	AccessToken  string              `json:"access_token"`
	RefreshToken string              `json:"refresh_token"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,password_strength"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,password_strength"`
}

// ===== USER RELATED DTOs =====

type UpdateProfileRequest struct {
	FirstName     *string               `json:"first_name" validate:"omitempty,max=50"`
	LastName      *string               `json:"last_name" validate:"omitempty,max=50"`
	DisplayName   *string               `json:"display_name" validate:"omitempty,max=50"`
	PhoneNumber   *string               `json:"phone_number" validate:"omitempty,max=30"`
	Occupation    *string               `json:"occupation" validate:"omitempty,max=100"`
	SocialProfile *models.SocialProfile `json:"social_profile"`
}

type UpdateStatusRequest struct {
	Status models.UserStatus `json:"status" validate:"required,user_status"`
	Reason *string           `json:"reason" validate:"omitempty,max=500"`
}

type UpdateRoleRequest struct {
	Role models.UserRole `json:"role" validate:"required,user_role"`
}

type UserListResponse struct {
	Users []*models.UserSummary `json:"users"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Size  int                   `json:"size"`
}

// ===== MEDIA RELATED DTOs =====

type CreateFolderRequest struct {
	Name string `json:"name" validate:"required,folder_name"`
}

type RenameFolderRequest struct {
	Name string `json:"name" validate:"required,folder_name"`
}

type CreateMediaRequest struct {
	Name     string           `json:"name" validate:"required,max=255"`
	Type     models.MediaType `json:"type" validate:"required,media_type"`
	PublicID string           `json:"public_id" validate:"required,max=255"`
	URL      string           `json:"url" validate:"required,url,max=500"`
	FolderID *string          `json:"folder_id" validate:"omitempty,uuid"`
}

// ===== COURSE RELATED DTOs =====

type CreateCourseRequest struct {
	Title       string         `json:"title" validate:"required,min=1,max=200"`
	Description *string        `json:"description" validate:"omitempty,max=5000"`
	Price       float64        `json:"price" validate:"omitempty,min=0"`
	Syllabus    datatypes.JSON `json:"syllabus"`
	CoverImage  datatypes.JSON `json:"cover_image"`
}

type UpdateCourseRequest struct {
	Title       *string        `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string        `json:"description" validate:"omitempty,max=5000"`
	Price       *float64       `json:"price" validate:"omitempty,min=0"`
	Syllabus    datatypes.JSON `json:"syllabus"`
	CoverImage  datatypes.JSON `json:"cover_image"`
}

type UpdateCourseStatusRequest struct {
	Status models.CourseStatus `json:"status" validate:"required,course_status"`
}

type CourseListResponse struct {
	Courses []*models.Course `json:"courses"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Size    int              `json:"size"`
}

// ===== ENROLLMENT RELATED DTOs =====

type EnrollRequest struct {
	CourseID string `json:"course_id" validate:"required,uuid"`
}

type DecideEnrollmentRequest struct {
	Status models.EnrollmentStatus `json:"status" validate:"required,enrollment_status"`
}

type EnrollmentListResponse struct {
	Enrollments []*models.Enrollment `json:"enrollments"`
	Total       int64                `json:"total"`
	Page        int                  `json:"page"`
	Size        int                  `json:"size"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	// Credential lifecycle
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*LoginResponse, error)

	// Email verification
	GenerateVerificationToken(ctx context.Context, email string) (string, error)
	VerifyEmail(ctx context.Context, tokenString string) error

	// Password recovery
	GenerateResetToken(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, tokenString, newPassword string) error
	ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error
}

type UserService interface {
	// Read operations
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error)

	// Profile management
	UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*models.User, error)

	// Administrative operations
	UpdateStatus(ctx context.Context, id string, req *UpdateStatusRequest) (*models.User, error)
	UpdateRole(ctx context.Context, id string, req *UpdateRoleRequest) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

type MediaService interface {
	// Folder operations
	CreateFolder(ctx context.Context, userID string, req *CreateFolderRequest) (*models.Folder, error)
	RenameFolder(ctx context.Context, userID, folderID string, req *RenameFolderRequest) (*models.Folder, error)
	DeleteFolder(ctx context.Context, userID, folderID string) error
	ListFolders(ctx context.Context, userID string) ([]*models.Folder, error)

	// Media operations
	CreateMedia(ctx context.Context, userID string, req *CreateMediaRequest) (*models.Media, error)
	DeleteMedia(ctx context.Context, userID, mediaID string) error
	ListMedia(ctx context.Context, userID string) ([]*models.Media, error)
	ListFolderMedia(ctx context.Context, userID, folderID string) ([]*models.Media, error)
}

type CourseService interface {
	Create(ctx context.Context, instructorID string, req *CreateCourseRequest) (*models.Course, error)
	GetByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error)
	Update(ctx context.Context, id, userID string, req *UpdateCourseRequest) (*models.Course, error)
	UpdateStatus(ctx context.Context, id, userID string, req *UpdateCourseStatusRequest) (*models.Course, error)
	Delete(ctx context.Context, id, userID string) error
}

type EnrollmentService interface {
	Enroll(ctx context.Context, studentID string, req *EnrollRequest) (*models.Enrollment, error)
	Decide(ctx context.Context, enrollmentID string, req *DecideEnrollmentRequest) (*models.Enrollment, error)
	ListByStudent(ctx context.Context, studentID string) ([]*models.Enrollment, error)
	List(ctx context.Context, filters repositories.EnrollmentFilters) (*EnrollmentListResponse, error)
}

type ExportService interface {
	// ExportUsers renders the filtered user list as an xlsx workbook.
	ExportUsers(ctx context.Context, filters repositories.UserFilters) ([]byte, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Auth() AuthService
	User() UserService
	Media() MediaService
	Course() CourseService
	Enrollment() EnrollmentService
	Export() ExportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
