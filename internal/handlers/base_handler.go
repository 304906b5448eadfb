package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursekit/platform-service/internal/services"
	"github.com/coursekit/platform-service/internal/token"
	"github.com/coursekit/platform-service/internal/utils"
	"github.com/coursekit/platform-service/internal/validator"
)

// ErrorResponse is the uniform error body returned by every handler.
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// BaseHandler carries the shared handler plumbing: request-scoped logging
// and the service-error to HTTP-status mapping.
type BaseHandler struct {
	logger utils.Logger

	// In production internal error details never leave the process.
	exposeDetails bool
}

func NewBaseHandler(logger utils.Logger, exposeDetails bool) BaseHandler {
	return BaseHandler{
		logger:        logger,
		exposeDetails: exposeDetails,
	}
}

// LogRequest logs handler entry with the request-scoped logger.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c.Request.Context(), h.logger).Info(msg, args...)
}

// LogError logs a handler failure with the request-scoped logger.
func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err)
	utils.FromContext(c.Request.Context(), h.logger).Error(msg, args...)
}

// RespondError maps a service-layer error to its HTTP response.
func (h *BaseHandler) RespondError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: verrs,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: services.ErrInvalidCredentials.Error()})
	case errors.Is(err, token.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Token is invalid or expired"})
	case errors.Is(err, token.ErrTokenTypeMismatch):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Token cannot be used for this operation"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Operation not permitted"})
	case services.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Resource not found"})
	case errors.Is(err, services.ErrAlreadyVerified):
		c.JSON(http.StatusConflict, ErrorResponse{Message: services.ErrAlreadyVerified.Error()})
	case services.IsConflictError(err):
		c.JSON(http.StatusConflict, ErrorResponse{Message: "Resource already exists"})
	case errors.Is(err, services.ErrPasswordMismatch):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: services.ErrPasswordMismatch.Error()})
	default:
		h.LogError(c, err, "Unhandled service error")
		resp := ErrorResponse{Message: "Internal server error"}
		if h.exposeDetails {
			resp.Details = err.Error()
		}
		c.JSON(http.StatusInternalServerError, resp)
	}
}

// BindJSON binds the request body and responds with 400 on malformed input.
// Returns false when the request has already been answered.
func (h *BaseHandler) BindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return false
	}
	return true
}
