package handler_test

import (
	"io"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Md-Zainulabdin/submission-portal-backend/internal/config"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/handler"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/models"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/repository"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/router"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/service"
)

func setupAuthApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	userRepo := repository.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, validate, testSecret, time.Hour, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test", JWTSecret: testSecret}, router.Dependencies{
		AuthHandler: handler.NewAuthHandler(authService, logger),
	})

	return app, db
}

func TestLoginEndpoint(t *testing.T) {
	app, db := setupAuthApp(t)

	hash, err := service.HashPassword("sup3rsecret")
	require.NoError(t, err)
	admin := models.User{FullName: "Admin", Email: "admin@portal.test", PasswordHash: hash, Role: models.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)

	resp, err := app.Test(jsonRequest(t, fiber.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email":    "admin@portal.test",
		"password": "sup3rsecret",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	decodeData(t, resp, &result)
	require.NotEmpty(t, result.Token)
	require.Equal(t, models.RoleAdmin, result.User.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app, db := setupAuthApp(t)

	hash, err := service.HashPassword("sup3rsecret")
	require.NoError(t, err)
	admin := models.User{FullName: "Admin", Email: "admin@portal.test", PasswordHash: hash, Role: models.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)

	resp, err := app.Test(jsonRequest(t, fiber.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email":    "admin@portal.test",
		"password": "wrong-password",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
