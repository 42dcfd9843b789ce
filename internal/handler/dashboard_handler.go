package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Md-Zainulabdin/submission-portal-backend/internal/models"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/service"
	"github.com/Md-Zainulabdin/submission-portal-backend/internal/utils"
)

// DashboardHandler wires the per-role widget and leaderboard routes.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches dashboard endpoints to the router group.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("/widgets", h.widgets)
	router.Get("/leaderboard", h.leaderboard)
}

// widgets dispatches on the caller's role so every identity hits the same
// endpoint.
func (h *DashboardHandler) widgets(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := userIDFromContext(c)

	switch userRoleFromContext(c) {
	case models.RoleStudent:
		widgets, err := h.service.StudentWidgets(ctx, userID)
		if err != nil {
			return h.handleError(c, err)
		}
		return utils.SendSuccess(c, "dashboard retrieved", widgets)
	case models.RoleTeacher:
		widgets, err := h.service.TeacherWidgets(ctx, userID)
		if err != nil {
			return h.handleError(c, err)
		}
		return utils.SendSuccess(c, "dashboard retrieved", widgets)
	case models.RoleAdmin:
		widgets, err := h.service.AdminWidgets(ctx)
		if err != nil {
			return h.handleError(c, err)
		}
		return utils.SendSuccess(c, "dashboard retrieved", widgets)
	default:
		return utils.SendError(c, fiber.StatusForbidden, "unknown role")
	}
}

func (h *DashboardHandler) leaderboard(c *fiber.Ctx) error {
	entries, err := h.service.Leaderboard(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "leaderboard retrieved", entries)
}

func (h *DashboardHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	default:
		h.logger.Error().Err(err).Msg("dashboard operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
