package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coursekit/platform-service/internal/models"
	"github.com/coursekit/platform-service/internal/repositories"
	"github.com/coursekit/platform-service/internal/services"
	"github.com/coursekit/platform-service/internal/utils"
)

type UserHandler struct {
	BaseHandler
	userService   services.UserService
	exportService services.ExportService
}

func NewUserHandler(userService services.UserService, exportService services.ExportService, logger utils.Logger, exposeDetails bool) *UserHandler {
	return &UserHandler{
		BaseHandler:   NewBaseHandler(logger, exposeDetails),
		userService:   userService,
		exportService: exportService,
	}
}

// GetMe returns the authenticated principal's profile.
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateMe updates the authenticated principal's profile.
// @Router /users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req services.UpdateProfileRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Updating profile", "user_id", userID)

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListUsers lists users with optional filtering.
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	h.LogRequest(c, "Listing users")

	filters := h.parseUserFilters(c)

	resp, err := h.userService.List(c.Request.Context(), filters)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetUser retrieves a user by ID.
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	userID := c.Param("id")

	h.LogRequest(c, "Getting user", "user_id", userID)

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUserStatus moves an account through the lifecycle state machine.
// @Router /users/{id}/status [put]
func (h *UserHandler) UpdateUserStatus(c *gin.Context) {
	userID := c.Param("id")

	var req services.UpdateStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Updating user status", "user_id", userID, "status", req.Status)

	user, err := h.userService.UpdateStatus(c.Request.Context(), userID, &req)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user.Summary())
}

// UpdateUserRole changes an account's role.
// @Router /users/{id}/role [put]
func (h *UserHandler) UpdateUserRole(c *gin.Context) {
	userID := c.Param("id")

	var req services.UpdateRoleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Updating user role", "user_id", userID, "role", req.Role)

	user, err := h.userService.UpdateRole(c.Request.Context(), userID, &req)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user.Summary())
}

// DeleteUser marks an account deleted.
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID := c.Param("id")

	h.LogRequest(c, "Deleting user", "user_id", userID)

	if err := h.userService.Delete(c.Request.Context(), userID); err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

// ExportUsers streams the filtered user list as an xlsx workbook.
// @Router /users/export [get]
func (h *UserHandler) ExportUsers(c *gin.Context) {
	h.LogRequest(c, "Exporting users")

	filters := h.parseUserFilters(c)

	data, err := h.exportService.ExportUsers(c.Request.Context(), filters)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	filename := fmt.Sprintf("users-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ===== HELPER METHODS =====

func (h *UserHandler) parseUserFilters(c *gin.Context) repositories.UserFilters {
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

	filters := repositories.UserFilters{
		Limit:  size,
		Offset: (page - 1) * size,
		Query:  c.Query("q"),
	}

	if roleStr := c.Query("role"); roleStr != "" {
		role := models.UserRole(roleStr)
		filters.Role = &role
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := models.UserStatus(statusStr)
		filters.Status = &status
	}

	return filters
}
