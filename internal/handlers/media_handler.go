package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursekit/platform-service/internal/services"
	"github.com/coursekit/platform-service/internal/utils"
)

type MediaHandler struct {
	BaseHandler
	mediaService services.MediaService
}

func NewMediaHandler(mediaService services.MediaService, logger utils.Logger, exposeDetails bool) *MediaHandler {
	return &MediaHandler{
		BaseHandler:  NewBaseHandler(logger, exposeDetails),
		mediaService: mediaService,
	}
}

// ===== FOLDER ENDPOINTS =====

// CreateFolder creates a folder in the caller's media library.
// @Router /media/folders [post]
func (h *MediaHandler) CreateFolder(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req services.CreateFolderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Creating folder", "user_id", userID, "name", req.Name)

	folder, err := h.mediaService.CreateFolder(c.Request.Context(), userID, &req)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, folder)
}

// ListFolders returns the caller's folder list.
// @Router /media/folders [get]
func (h *MediaHandler) ListFolders(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	folders, err := h.mediaService.ListFolders(c.Request.Context(), userID)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"folders": folders})
}

// RenameFolder renames a folder.
// @Router /media/folders/{id} [put]
func (h *MediaHandler) RenameFolder(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	folderID := c.Param("id")

	var req services.RenameFolderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Renaming folder", "folder_id", folderID)

	folder, err := h.mediaService.RenameFolder(c.Request.Context(), userID, folderID, &req)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, folder)
}

// DeleteFolder deletes a folder and its contents.
// @Router /media/folders/{id} [delete]
func (h *MediaHandler) DeleteFolder(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	folderID := c.Param("id")

	h.LogRequest(c, "Deleting folder", "folder_id", folderID)

	if err := h.mediaService.DeleteFolder(c.Request.Context(), userID, folderID); err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "folder deleted"})
}

// ListFolderMedia returns the media inside one folder.
// @Router /media/folders/{id}/media [get]
func (h *MediaHandler) ListFolderMedia(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	folderID := c.Param("id")

	media, err := h.mediaService.ListFolderMedia(c.Request.Context(), userID, folderID)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"media": media})
}

// ===== MEDIA ENDPOINTS =====

// CreateMedia registers an uploaded object in the caller's library.
// @Router /media [post]
func (h *MediaHandler) CreateMedia(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req services.CreateMediaRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Creating media", "user_id", userID, "type", req.Type)

	media, err := h.mediaService.CreateMedia(c.Request.Context(), userID, &req)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, media)
}

// ListMedia returns the caller's full media library.
// @Router /media [get]
func (h *MediaHandler) ListMedia(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	media, err := h.mediaService.ListMedia(c.Request.Context(), userID)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"media": media})
}

// DeleteMedia removes a media record from the caller's library.
// @Router /media/{id} [delete]
func (h *MediaHandler) DeleteMedia(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	mediaID := c.Param("id")

	h.LogRequest(c, "Deleting media", "media_id", mediaID)

	if err := h.mediaService.DeleteMedia(c.Request.Context(), userID, mediaID); err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "media deleted"})
}
