package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coursekit/platform-service/internal/models"
	"github.com/coursekit/platform-service/internal/repositories"
	"github.com/coursekit/platform-service/internal/services"
	"github.com/coursekit/platform-service/internal/utils"
)

type CourseHandler struct {
	BaseHandler
	courseService     services.CourseService
	enrollmentService services.EnrollmentService
}

func NewCourseHandler(courseService services.CourseService, enrollmentService services.EnrollmentService, logger utils.Logger, exposeDetails bool) *CourseHandler {
	return &CourseHandler{
		BaseHandler:       NewBaseHandler(logger, exposeDetails),
		courseService:     courseService,
		enrollmentService: enrollmentService,
	}
}

// ===== COURSE ENDPOINTS =====

// CreateCourse creates a draft course owned by the caller.
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req services.CreateCourseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Creating course", "instructor_id", userID, "title", req.Title)

	course, err := h.courseService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

// GetCourse retrieves a course by ID.
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseID := c.Param("id")

	course, err := h.courseService.GetByID(c.Request.Context(), courseID)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// ListCourses lists courses with optional filtering and sorting.
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	filters := h.parseCourseFilters(c)

	resp, err := h.courseService.List(c.Request.Context(), filters)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateCourse updates course content. Only the owning instructor may edit.
// @Router /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	courseID := c.Param("id")

	var req services.UpdateCourseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Updating course", "course_id", courseID)

	course, err := h.courseService.Update(c.Request.Context(), courseID, userID, &req)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// UpdateCourseStatus moves a course through its publication lifecycle.
// @Router /courses/{id}/status [put]
func (h *CourseHandler) UpdateCourseStatus(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	courseID := c.Param("id")

	var req services.UpdateCourseStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Updating course status", "course_id", courseID, "status", req.Status)

	course, err := h.courseService.UpdateStatus(c.Request.Context(), courseID, userID, &req)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// DeleteCourse removes a course. Only the owning instructor may delete.
// @Router /courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	courseID := c.Param("id")

	h.LogRequest(c, "Deleting course", "course_id", courseID)

	if err := h.courseService.Delete(c.Request.Context(), courseID, userID); err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "course deleted"})
}

// ===== ENROLLMENT ENDPOINTS =====

// Enroll requests enrollment of the caller into a published course.
// @Router /enrollments [post]
func (h *CourseHandler) Enroll(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req services.EnrollRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Enrollment requested", "student_id", userID, "course_id", req.CourseID)

	enrollment, err := h.enrollmentService.Enroll(c.Request.Context(), userID, &req)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

// DecideEnrollment approves or rejects a pending enrollment.
// @Router /enrollments/{id}/decision [put]
func (h *CourseHandler) DecideEnrollment(c *gin.Context) {
	enrollmentID := c.Param("id")

	var req services.DecideEnrollmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Deciding enrollment", "enrollment_id", enrollmentID, "status", req.Status)

	enrollment, err := h.enrollmentService.Decide(c.Request.Context(), enrollmentID, &req)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollment)
}

// ListMyEnrollments returns the caller's enrollments.
// @Router /enrollments/me [get]
func (h *CourseHandler) ListMyEnrollments(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	enrollments, err := h.enrollmentService.ListByStudent(c.Request.Context(), userID)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"enrollments": enrollments})
}

// ListEnrollments lists enrollments with optional filtering.
// @Router /enrollments [get]
func (h *CourseHandler) ListEnrollments(c *gin.Context) {
	filters := repositories.EnrollmentFilters{}

	page := 1
	size := 10
	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if sizeStr := c.Query("size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
			size = s
		}
	}
	filters.Limit = size
	filters.Offset = (page - 1) * size

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.EnrollmentStatus(statusStr)
		filters.Status = &status
	}
	if courseID := c.Query("course_id"); courseID != "" {
		filters.CourseID = &courseID
	}
	if studentID := c.Query("student_id"); studentID != "" {
		filters.StudentID = &studentID
	}

	resp, err := h.enrollmentService.List(c.Request.Context(), filters)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ===== HELPER METHODS =====

func (h *CourseHandler) parseCourseFilters(c *gin.Context) repositories.CourseFilters {
	page := 1
	size := 10

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if sizeStr := c.Query("size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
			size = s
		}
	}

	filters := repositories.CourseFilters{
		Limit:     size,
		Offset:    (page - 1) * size,
		Query:     c.Query("q"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.CourseStatus(statusStr)
		filters.Status = &status
	}
	if instructorID := c.Query("instructor_id"); instructorID != "" {
		filters.InstructorID = &instructorID
	}
	if fromStr := c.Query("date_from"); fromStr != "" {
		if t, err := time.Parse(time.RFC3339, fromStr); err == nil {
			filters.DateFrom = &t
		}
	}
	if toStr := c.Query("date_to"); toStr != "" {
		if t, err := time.Parse(time.RFC3339, toStr); err == nil {
			filters.DateTo = &t
		}
	}

	return filters
}
