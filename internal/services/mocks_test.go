package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/coursekit/platform-service/internal/models"
	"github.com/coursekit/platform-service/internal/repositories"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockUserRepo is an in-memory UserRepository. Uniqueness is enforced the
// same way the store does: the insert fails, there is no pre-check.
type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User

	getCalls int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*models.User)}
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if user, ok := m.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return fmt.Errorf("%w: users_email_key", repositories.ErrDuplicateKey)
		}
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	for field, value := range fields {
		switch field {
		case "status":
			user.Status = value.(models.UserStatus)
		case "role":
			user.Role = value.(models.UserRole)
		case "password_hash":
			user.PasswordHash = value.(string)
		}
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.User, 0, len(m.users))
	for _, user := range m.users {
		copied := *user
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := m.GetByUsername(ctx, username)
	if err == nil {
		return true, nil
	}
	return false, nil
}

// mockFolderRepo counts list queries so cache read-through behavior is
// observable.
type mockFolderRepo struct {
	mu      sync.Mutex
	folders map[string]*models.Folder

	listCalls int
}

func newMockFolderRepo() *mockFolderRepo {
	return &mockFolderRepo{folders: make(map[string]*models.Folder)}
}

func (m *mockFolderRepo) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if folder, ok := m.folders[id]; ok {
		copied := *folder
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (m *mockFolderRepo) ListByUser(ctx context.Context, userID string) ([]*models.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	out := []*models.Folder{}
	for _, folder := range m.folders {
		if folder.UserID == userID {
			copied := *folder
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockFolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *folder
	m.folders[folder.ID] = &copied
	return nil
}

func (m *mockFolderRepo) Update(ctx context.Context, folder *models.Folder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.folders[folder.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *folder
	m.folders[folder.ID] = &copied
	return nil
}

func (m *mockFolderRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.folders[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.folders, id)
	return nil
}

type mockMediaRepo struct {
	mu    sync.Mutex
	media map[string]*models.Media

	listCalls int
}

func newMockMediaRepo() *mockMediaRepo {
	return &mockMediaRepo{media: make(map[string]*models.Media)}
}

func (m *mockMediaRepo) GetByID(ctx context.Context, id string) (*models.Media, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if media, ok := m.media[id]; ok {
		copied := *media
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (m *mockMediaRepo) ListByUser(ctx context.Context, userID string, filters repositories.MediaFilters) ([]*models.Media, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	out := []*models.Media{}
	for _, media := range m.media {
		if media.UserID == userID {
			copied := *media
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockMediaRepo) ListRootByUser(ctx context.Context, userID string) ([]*models.Media, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Media{}
	for _, media := range m.media {
		if media.UserID == userID && media.FolderID == nil {
			copied := *media
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockMediaRepo) ListByFolder(ctx context.Context, folderID, userID string) ([]*models.Media, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	out := []*models.Media{}
	for _, media := range m.media {
		if media.UserID == userID && media.FolderID != nil && *media.FolderID == folderID {
			copied := *media
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockMediaRepo) Create(ctx context.Context, media *models.Media) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *media
	m.media[media.ID] = &copied
	return nil
}

func (m *mockMediaRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.media[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.media, id)
	return nil
}

func (m *mockMediaRepo) DeleteByFolder(ctx context.Context, folderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, media := range m.media {
		if media.FolderID != nil && *media.FolderID == folderID {
			delete(m.media, id)
		}
	}
	return nil
}

type mockCourseRepo struct {
	mu      sync.Mutex
	courses map[string]*models.Course
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*models.Course)}
}

func (m *mockCourseRepo) GetByID(ctx context.Context, id string) (*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if course, ok := m.courses[id]; ok {
		copied := *course
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (m *mockCourseRepo) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Course, 0, len(m.courses))
	for _, course := range m.courses {
		copied := *course
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *course
	m.courses[course.ID] = &copied
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[course.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *course
	m.courses[course.ID] = &copied
	return nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.courses, id)
	return nil
}

type mockEnrollmentRepo struct {
	mu          sync.Mutex
	enrollments map[string]*models.Enrollment
}

func newMockEnrollmentRepo() *mockEnrollmentRepo {
	return &mockEnrollmentRepo{enrollments: make(map[string]*models.Enrollment)}
}

func (m *mockEnrollmentRepo) GetByID(ctx context.Context, id string) (*models.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if enrollment, ok := m.enrollments[id]; ok {
		copied := *enrollment
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (m *mockEnrollmentRepo) GetByCourseAndStudent(ctx context.Context, courseID, studentID string) (*models.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, enrollment := range m.enrollments {
		if enrollment.CourseID == courseID && enrollment.StudentID == studentID {
			copied := *enrollment
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockEnrollmentRepo) ListByStudent(ctx context.Context, studentID string) ([]*models.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Enrollment{}
	for _, enrollment := range m.enrollments {
		if enrollment.StudentID == studentID {
			copied := *enrollment
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockEnrollmentRepo) List(ctx context.Context, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Enrollment, 0, len(m.enrollments))
	for _, enrollment := range m.enrollments {
		copied := *enrollment
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.enrollments {
		if existing.CourseID == enrollment.CourseID && existing.StudentID == enrollment.StudentID {
			return fmt.Errorf("%w: enrollments_course_student_key", repositories.ErrDuplicateKey)
		}
	}
	copied := *enrollment
	m.enrollments[enrollment.ID] = &copied
	return nil
}

func (m *mockEnrollmentRepo) Update(ctx context.Context, enrollment *models.Enrollment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.enrollments[enrollment.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *enrollment
	m.enrollments[enrollment.ID] = &copied
	return nil
}

func (m *mockEnrollmentRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.enrollments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.enrollments, id)
	return nil
}

// mockRepository aggregates the in-memory adapters behind the Repository
// interface.
type mockRepository struct {
	user       *mockUserRepo
	folder     *mockFolderRepo
	media      *mockMediaRepo
	course     *mockCourseRepo
	enrollment *mockEnrollmentRepo
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		user:       newMockUserRepo(),
		folder:     newMockFolderRepo(),
		media:      newMockMediaRepo(),
		course:     newMockCourseRepo(),
		enrollment: newMockEnrollmentRepo(),
	}
}

func (m *mockRepository) User() repositories.UserRepository             { return m.user }
func (m *mockRepository) Folder() repositories.FolderRepository         { return m.folder }
func (m *mockRepository) Media() repositories.MediaRepository           { return m.media }
func (m *mockRepository) Course() repositories.CourseRepository         { return m.course }
func (m *mockRepository) Enrollment() repositories.EnrollmentRepository { return m.enrollment }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }
