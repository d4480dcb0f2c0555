package handlers

import (
	"bytes"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/feedback-desk/internal/api/dto"
	"github.com/spec-kit/feedback-desk/internal/auth"
	"github.com/spec-kit/feedback-desk/internal/dashboard"
	"github.com/spec-kit/feedback-desk/internal/domain"
	"github.com/spec-kit/feedback-desk/internal/observability"
	"github.com/spec-kit/feedback-desk/internal/repository"
	"github.com/spec-kit/feedback-desk/internal/service"
	apperrors "github.com/spec-kit/feedback-desk/pkg/util"
)

// AdminHandler serves login and the admin dashboard endpoints.
type AdminHandler struct {
	auth      *service.AuthService
	dashboard *dashboard.Service
	metrics   *observability.Metrics
	now       func() time.Time
}

// NewAdminHandler constructs handler.
func NewAdminHandler(authService *service.AuthService, dashboardService *dashboard.Service, metrics *observability.Metrics) *AdminHandler {
	return &AdminHandler{auth: authService, dashboard: dashboardService, metrics: metrics, now: time.Now}
}

// Login POST /admin/auth.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Email and password are required", nil)
	}
	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{
		Message:   "Login successful",
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      result.User,
	})
}

// Me GET /admin/auth.
func (h *AdminHandler) Me(c *fiber.Ctx) error {
	claims, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Authentication required")
	}
	return c.JSON(dto.CurrentUserResponse{User: h.auth.CurrentUser(claims)})
}

// Stats GET /admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.dashboard.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// Metrics GET /admin/metrics.
func (h *AdminHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(h.metrics.Snapshot())
}

// ExportBugReports GET /bug-reports/export.csv.
func (h *AdminHandler) ExportBugReports(c *fiber.Ctx) error {
	var buf bytes.Buffer
	filter := repository.ParseBugReportFilter(c.Query("status"), c.Query("search"))
	if _, err := h.dashboard.ExportBugReports(c.UserContext(), &buf, filter); err != nil {
		return err
	}
	return sendCSV(c, dashboard.ExportFilename(dashboard.KindBugReports, h.now()), buf.Bytes())
}

// ExportFeedback GET /feedback/export.csv.
func (h *AdminHandler) ExportFeedback(c *fiber.Ctx) error {
	var buf bytes.Buffer
	filter := repository.ParseFeedbackFilter(c.Query("status"), c.Query("rating"), c.Query("category"), c.Query("search"))
	if _, err := h.dashboard.ExportFeedback(c.UserContext(), &buf, filter); err != nil {
		return err
	}
	return sendCSV(c, dashboard.ExportFilename(dashboard.KindFeedback, h.now()), buf.Bytes())
}

func sendCSV(c *fiber.Ctx, filename string, body []byte) error {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Attachment(filename)
	return c.Send(body)
}

// adminFromContext returns the authenticated admin, or nil on public routes.
func adminFromContext(c *fiber.Ctx) *domain.AdminUser {
	claims, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil
	}
	return &domain.AdminUser{Email: claims.Email, Role: claims.Role}
}
