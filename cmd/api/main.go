package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Md-Zainulabdin/submission-portal-backend/internal/config"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/database"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/handler"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/mailer"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/middleware"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/models"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/repository"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/router"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Course{}, &models.Batch{}, &models.Assignment{}, &models.Submission{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Redis and NATS are soft dependencies: the portal serves traffic
	// without them, just without caching or lifecycle events.
	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, dashboard caching disabled")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		logger.Warn().Err(err).Msg("nats unavailable, lifecycle events disabled")
		natsConn = nil
	} else {
		defer natsConn.Close()
	}

	var mail mailer.Mailer
	if cfg.SendgridAPIKey != "" {
		mail = mailer.NewSendgrid(cfg.SendgridAPIKey, cfg.EmailFromName, cfg.EmailFromAddress, logger)
	} else {
		mail = mailer.NewConsole(logger)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	events := service.NewEventPublisher(natsConn, cfg.EventSubjectBase, logger)

	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	userService := service.NewUserService(userRepo, assignmentRepo, validate, mail, events, logger)
	courseService := service.NewCourseService(courseRepo, validate, logger)
	batchService := service.NewBatchService(batchRepo, courseRepo, validate, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, userRepo, events, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, validate, mail, events, logger)
	dashboardService := service.NewDashboardService(userRepo, courseRepo, assignmentRepo, submissionRepo, redisClient, cfg.DashboardCacheTTL, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	adminHandler := handler.NewAdminHandler(userService, logger)
	teacherHandler := handler.NewTeacherHandler(userService, logger)
	studentHandler := handler.NewStudentHandler(userService, logger)
	courseHandler := handler.NewCourseHandler(courseService, logger)
	batchHandler := handler.NewBatchHandler(batchService, logger)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       authHandler,
		AdminHandler:      adminHandler,
		TeacherHandler:    teacherHandler,
		StudentHandler:    studentHandler,
		CourseHandler:     courseHandler,
		BatchHandler:      batchHandler,
		AssignmentHandler: assignmentHandler,
		SubmissionHandler: submissionHandler,
		DashboardHandler:  dashboardHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
