package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Md-Zainulabdin/submission-portal-backend/internal/config"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/handler"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/mailer"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/middleware"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/models"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/repository"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/router"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/service"
)

const testSecret = "portal-test-secret"

type noopEvents struct{}

func (noopEvents) Publish(_ context.Context, _ string, _ interface{}) {}

func setupSubmissionApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Course{}, &models.Batch{}, &models.Assignment{}, &models.Submission{}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	userRepo := repository.NewUserRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	assignmentService := service.NewAssignmentService(assignmentRepo, userRepo, noopEvents{}, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, validate, mailer.NewConsole(logger), noopEvents{}, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test", JWTSecret: testSecret}, router.Dependencies{
		AssignmentHandler: handler.NewAssignmentHandler(assignmentService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		JWTMiddleware:     middleware.JWTProtected(testSecret),
	})

	return app, db
}

func issueToken(t *testing.T, userID uint, role string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":  float64(userID),
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func jsonRequest(t *testing.T, method, target, token string, payload interface{}) *http.Request {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(encoded)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeData(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(t, envelope.Success, envelope.Message)
	if out != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
}

func seedSubmissionScenario(t *testing.T, db *gorm.DB) (teacher, student models.User, assignment models.Assignment) {
	t.Helper()

	teacher = models.User{FullName: "Teacher", Email: "teacher@portal.test", Role: models.RoleTeacher}
	require.NoError(t, db.Create(&teacher).Error)

	student = models.User{FullName: "Student", Email: "student@portal.test", Role: models.RoleStudent, TeacherID: &teacher.ID}
	require.NoError(t, db.Create(&student).Error)

	assignment = models.Assignment{
		Title:     "Portfolio",
		Deadline:  time.Now().Add(48 * time.Hour),
		Points:    100,
		Status:    models.AssignmentStatusOpen,
		TeacherID: teacher.ID,
	}
	require.NoError(t, db.Create(&assignment).Error)
	return teacher, student, assignment
}

func TestSubmissionLifecycleOverHTTP(t *testing.T) {
	app, db := setupSubmissionApp(t)
	teacher, student, assignment := seedSubmissionScenario(t, db)

	studentToken := issueToken(t, student.ID, models.RoleStudent)
	teacherToken := issueToken(t, teacher.ID, models.RoleTeacher)

	// First submission answers 201.
	resp, err := app.Test(jsonRequest(t, fiber.MethodPost, "/api/v1/submission/create", studentToken, fiber.Map{
		"assignment_id": assignment.ID,
		"url":           "https://a.example.com",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	}
	decodeData(t, resp, &created)
	require.Equal(t, models.SubmissionStatusPending, created.Status)

	// A second attempt without permission is rejected.
	resp, err = app.Test(jsonRequest(t, fiber.MethodPost, "/api/v1/submission/create", studentToken, fiber.Map{
		"assignment_id": assignment.ID,
		"url":           "https://b.example.com",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// The teacher disapproves and grants a resubmission.
	resp, err = app.Test(jsonRequest(t, fiber.MethodPut, "/api/v1/submission/"+itoa(created.ID)+"/update", teacherToken, fiber.Map{
		"status":           models.SubmissionStatusDisapproved,
		"rejection_reason": "missing styles",
		"can_resubmit":     true,
	}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Resubmission reuses the record and answers 200.
	resp, err = app.Test(jsonRequest(t, fiber.MethodPost, "/api/v1/submission/create", studentToken, fiber.Map{
		"assignment_id": assignment.ID,
		"url":           "https://b.example.com",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var resubmitted struct {
		ID          uint   `json:"id"`
		URL         string `json:"url"`
		Status      string `json:"status"`
		CanResubmit bool   `json:"can_resubmit"`
	}
	decodeData(t, resp, &resubmitted)
	require.Equal(t, created.ID, resubmitted.ID)
	require.Equal(t, "https://b.example.com", resubmitted.URL)
	require.Equal(t, models.SubmissionStatusPending, resubmitted.Status)
	require.False(t, resubmitted.CanResubmit)

	// Approval closes the lifecycle.
	resp, err = app.Test(jsonRequest(t, fiber.MethodPut, "/api/v1/submission/"+itoa(created.ID)+"/update", teacherToken, fiber.Map{
		"status":   models.SubmissionStatusApproved,
		"points":   90,
		"feedback": "solid work",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var approved struct {
		Status     string `json:"status"`
		Points     int    `json:"points"`
		IsApproved bool   `json:"is_approved"`
	}
	decodeData(t, resp, &approved)
	require.Equal(t, models.SubmissionStatusApproved, approved.Status)
	require.Equal(t, 90, approved.Points)
	require.True(t, approved.IsApproved)

	// The student sees a single history entry.
	resp, err = app.Test(jsonRequest(t, fiber.MethodGet, "/api/v1/submission/history", studentToken, nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var history []json.RawMessage
	decodeData(t, resp, &history)
	require.Len(t, history, 1)
}

func TestSubmissionRoutesEnforceRoles(t *testing.T) {
	app, db := setupSubmissionApp(t)
	teacher, student, assignment := seedSubmissionScenario(t, db)

	studentToken := issueToken(t, student.ID, models.RoleStudent)
	teacherToken := issueToken(t, teacher.ID, models.RoleTeacher)

	// Teachers cannot submit.
	resp, err := app.Test(jsonRequest(t, fiber.MethodPost, "/api/v1/submission/create", teacherToken, fiber.Map{
		"assignment_id": assignment.ID,
		"url":           "https://a.example.com",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Students cannot list an assignment's submissions.
	resp, err = app.Test(jsonRequest(t, fiber.MethodGet, "/api/v1/submission/"+itoa(assignment.ID), studentToken, nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Missing token is unauthorized.
	resp, err = app.Test(jsonRequest(t, fiber.MethodGet, "/api/v1/submission/history", "", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGradeByForeignTeacherIsForbidden(t *testing.T) {
	app, db := setupSubmissionApp(t)
	_, student, assignment := seedSubmissionScenario(t, db)

	rival := models.User{FullName: "Rival", Email: "rival@portal.test", Role: models.RoleTeacher}
	require.NoError(t, db.Create(&rival).Error)

	studentToken := issueToken(t, student.ID, models.RoleStudent)
	rivalToken := issueToken(t, rival.ID, models.RoleTeacher)

	resp, err := app.Test(jsonRequest(t, fiber.MethodPost, "/api/v1/submission/create", studentToken, fiber.Map{
		"assignment_id": assignment.ID,
		"url":           "https://a.example.com",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		ID uint `json:"id"`
	}
	decodeData(t, resp, &created)

	resp, err = app.Test(jsonRequest(t, fiber.MethodPut, "/api/v1/submission/"+itoa(created.ID)+"/update", rivalToken, fiber.Map{
		"status":           models.SubmissionStatusDisapproved,
		"rejection_reason": "not mine",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
