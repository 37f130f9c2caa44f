package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/emre/educore/internal/app/controllers"
	"github.com/emre/educore/internal/app/models"
	"github.com/emre/educore/internal/app/models/dto"
	"github.com/emre/educore/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	courseController *controllers.CourseController,
	moduleController *controllers.ModuleController,
	contentController *controllers.ContentController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.GET("/auth/me", authController.GetProfile)

	// Course routes. Each verb carries its matching permission; ownership of
	// the individual course is enforced inside the owner-scoped queries.
	courses := authenticated.Group("/courses")
	{
		coursesView := courses.Group("")
		coursesView.Use(authMiddleware.PermissionRequired(models.PermViewCourse))
		{
			coursesView.GET("", courseController.ListCourses)
			coursesView.GET("/:id", courseController.GetCourse)
			coursesView.GET("/:id/modules", moduleController.ListModules)
		}

		coursesAdd := courses.Group("")
		coursesAdd.Use(authMiddleware.PermissionRequired(models.PermAddCourse))
		{
			coursesAdd.POST("", courseController.CreateCourse)
		}

		coursesChange := courses.Group("")
		coursesChange.Use(authMiddleware.PermissionRequired(models.PermChangeCourse))
		{
			coursesChange.PUT("/:id", courseController.UpdateCourse)

			// The module formset lives under the course it belongs to.
			coursesChange.PUT("/:id/modules", moduleController.UpdateModules)
		}

		coursesDelete := courses.Group("")
		coursesDelete.Use(authMiddleware.PermissionRequired(models.PermDeleteCourse))
		{
			coursesDelete.DELETE("/:id", courseController.DeleteCourse)
		}
	}

	// Module ordering and content routes carry no extra permission; the
	// owner-scoped queries already confine them to the caller's own rows.
	modules := authenticated.Group("/modules")
	{
		modules.POST("/order", moduleController.ReorderModules)
		modules.GET("/:moduleId/contents", contentController.ListContents)
		modules.POST("/:moduleId/contents/:kind", contentController.CreateContent)
		modules.PUT("/:moduleId/contents/:kind/:itemId", contentController.UpdateContent)
	}

	contents := authenticated.Group("/contents")
	{
		contents.POST("/order", contentController.ReorderContents)
		contents.DELETE("/:id", contentController.DeleteContent)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
