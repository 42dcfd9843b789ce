package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Md-Zainulabdin/submission-portal-backend/internal/dto"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/service"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/utils"
)

// AdminHandler wires the admin account route and the admin-wide listings.
type AdminHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(service service.UserService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register attaches admin endpoints to the router group.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Post("/register", h.register)
	router.Get("/teacher/all", h.listTeachers)
	router.Get("/student/all", h.listStudents)
}

func (h *AdminHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterAdminRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	admin, err := h.service.CreateAdmin(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "admin created", admin)
}

func (h *AdminHandler) listTeachers(c *fiber.Ctx) error {
	teachers, err := h.service.ListTeachers(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "teachers retrieved", teachers)
}

func (h *AdminHandler) listStudents(c *fiber.Ctx) error {
	students, err := h.service.ListStudents(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "students retrieved", students)
}

func (h *AdminHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		return utils.SendError(c, fiber.StatusBadRequest, "email already in use")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("admin operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
