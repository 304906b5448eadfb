package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/coursekit/platform-service/internal/rbac"
	"github.com/coursekit/platform-service/internal/services"
	"github.com/coursekit/platform-service/internal/token"
	"github.com/coursekit/platform-service/internal/utils"
)

type HandlerManager struct {
	authHandler    *AuthHandler
	userHandler    *UserHandler
	mediaHandler   *MediaHandler
	courseHandler  *CourseHandler
	authMiddleware *AuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	codec *token.Codec,
	policy *rbac.PolicyTable,
	logger utils.Logger,
	exposeDetails bool,
) *HandlerManager {
	return &HandlerManager{
		authHandler:    NewAuthHandler(serviceManager.Auth(), logger, exposeDetails),
		userHandler:    NewUserHandler(serviceManager.User(), serviceManager.Export(), logger, exposeDetails),
		mediaHandler:   NewMediaHandler(serviceManager.Media(), logger, exposeDetails),
		courseHandler:  NewCourseHandler(serviceManager.Course(), serviceManager.Enrollment(), logger, exposeDetails),
		authMiddleware: NewAuthMiddleware(codec, policy),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")

	// Auth routes - no bearer token required
	auth := v1.Group("/auth")
	{
		auth.POST("/register", hm.authHandler.Register)
		auth.POST("/login", hm.authHandler.Login)
		auth.POST("/refresh", hm.authHandler.Refresh)
		auth.POST("/verify-email/request", hm.authHandler.RequestVerification)
		auth.POST("/verify-email", hm.authHandler.VerifyEmail)
		auth.POST("/forgot-password", hm.authHandler.ForgotPassword)
		auth.POST("/reset-password", hm.authHandler.ResetPassword)
	}

	// Everything below requires a verified access token
	authed := v1.Group("")
	authed.Use(hm.authMiddleware.Authenticate())
	{
		authed.POST("/auth/change-password", hm.authHandler.ChangePassword)

		// Self-service profile routes
		users := authed.Group("/users")
		{
			users.GET("/me", hm.userHandler.GetMe)
			users.PUT("/me", hm.authMiddleware.RequirePermission(rbac.PermUpdateSelf), hm.userHandler.UpdateMe)

			// Directory and administration
			users.GET("", hm.authMiddleware.RequirePermission(rbac.PermGetUsers), hm.userHandler.ListUsers)
			users.GET("/export", hm.authMiddleware.RequirePermission(rbac.PermGetUsers), hm.userHandler.ExportUsers)
			users.GET("/:id", hm.authMiddleware.RequirePermission(rbac.PermManageUsers), hm.userHandler.GetUser)
			users.PUT("/:id/status", hm.authMiddleware.RequirePermission(rbac.PermManageUsers), hm.userHandler.UpdateUserStatus)
			users.PUT("/:id/role", hm.authMiddleware.RequirePermission(rbac.PermManageUsers), hm.userHandler.UpdateUserRole)
			users.DELETE("/:id", hm.authMiddleware.RequirePermission(rbac.PermManageUsers), hm.userHandler.DeleteUser)
		}

		// Media library routes
		media := authed.Group("/media")
		media.Use(hm.authMiddleware.RequirePermission(rbac.PermManageMedia))
		{
			media.POST("/folders", hm.mediaHandler.CreateFolder)
			media.GET("/folders", hm.mediaHandler.ListFolders)
			media.PUT("/folders/:id", hm.mediaHandler.RenameFolder)
			media.DELETE("/folders/:id", hm.mediaHandler.DeleteFolder)
			media.GET("/folders/:id/media", hm.mediaHandler.ListFolderMedia)

			media.POST("", hm.mediaHandler.CreateMedia)
			media.GET("", hm.mediaHandler.ListMedia)
			media.DELETE("/:id", hm.mediaHandler.DeleteMedia)
		}

		// Course routes
		courses := authed.Group("/courses")
		{
			courses.POST("", hm.authMiddleware.RequirePermission(rbac.PermManageCourses), hm.courseHandler.CreateCourse)
			courses.PUT("/:id", hm.authMiddleware.RequirePermission(rbac.PermManageCourses), hm.courseHandler.UpdateCourse)
			courses.PUT("/:id/status", hm.authMiddleware.RequirePermission(rbac.PermManageCourses), hm.courseHandler.UpdateCourseStatus)
			courses.DELETE("/:id", hm.authMiddleware.RequirePermission(rbac.PermManageCourses), hm.courseHandler.DeleteCourse)

			courses.GET("", hm.authMiddleware.RequirePermission(rbac.PermAccessCourse), hm.courseHandler.ListCourses)
			courses.GET("/:id", hm.authMiddleware.RequirePermission(rbac.PermAccessCourse), hm.courseHandler.GetCourse)
		}

		// Enrollment routes
		enrollments := authed.Group("/enrollments")
		{
			enrollments.POST("", hm.authMiddleware.RequirePermission(rbac.PermAccessCourse), hm.courseHandler.Enroll)
			enrollments.GET("/me", hm.authMiddleware.RequirePermission(rbac.PermAccessCourse), hm.courseHandler.ListMyEnrollments)
			enrollments.PUT("/:id/decision", hm.authMiddleware.RequirePermission(rbac.PermManageCourses), hm.courseHandler.DecideEnrollment)
			enrollments.GET("", hm.authMiddleware.RequirePermission(rbac.PermManageCourses), hm.courseHandler.ListEnrollments)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "platform-service",
		})
	})
}
