package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Md-Zainulabdin/submission-portal-backend/internal/config"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/handler"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/middleware"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/models"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	AdminHandler      *handler.AdminHandler
	TeacherHandler    *handler.TeacherHandler
	StudentHandler    *handler.StudentHandler
	CourseHandler     *handler.CourseHandler
	BatchHandler      *handler.BatchHandler
	AssignmentHandler *handler.AssignmentHandler
	SubmissionHandler *handler.SubmissionHandler
	DashboardHandler  *handler.DashboardHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api.Group("/auth"))
	}

	adminOnly := middleware.RequireRole(models.RoleAdmin)
	teacherOnly := middleware.RequireRole(models.RoleTeacher)
	studentOnly := middleware.RequireRole(models.RoleStudent)

	if deps.AdminHandler != nil {
		deps.AdminHandler.Register(api.Group("/admin", jwtMiddleware, adminOnly))
	}

	if deps.TeacherHandler != nil {
		deps.TeacherHandler.Register(api.Group("/teacher", jwtMiddleware, adminOnly))
	}

	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(api.Group("/student", jwtMiddleware), adminOnly, teacherOnly)
	}

	if deps.CourseHandler != nil {
		deps.CourseHandler.Register(api.Group("/course", jwtMiddleware, adminOnly))
	}

	if deps.BatchHandler != nil {
		deps.BatchHandler.Register(api.Group("/batch", jwtMiddleware, adminOnly))
	}

	if deps.AssignmentHandler != nil {
		assignment := api.Group("/assignment", jwtMiddleware, middleware.RequireRole(models.RoleTeacher, models.RoleStudent))
		deps.AssignmentHandler.Register(assignment)
		deps.AssignmentHandler.RegisterTeacher(api.Group("/assignment", jwtMiddleware, teacherOnly))
	}

	if deps.SubmissionHandler != nil {
		submission := api.Group("/submission", jwtMiddleware)
		deps.SubmissionHandler.RegisterStudent(submission, studentOnly)
		deps.SubmissionHandler.RegisterTeacher(submission, teacherOnly)
	}

	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(api.Group("/dashboard", jwtMiddleware))
	}
}
