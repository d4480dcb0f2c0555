package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/feedback-desk/internal/api/http/handlers"
	"github.com/spec-kit/feedback-desk/internal/auth"
	"github.com/spec-kit/feedback-desk/internal/domain"
	"github.com/spec-kit/feedback-desk/internal/storage"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	BugReports     *handlers.BugReportsHandler
	Feedback       *handlers.FeedbackHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
	Limiter        *SubmissionLimiter
	UploadsDir     string
}

// RegisterRoutes wires HTTP routes. Export routes come before the :id routes
// and the static screenshot route comes last so it only sees unmatched GETs.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	admin := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin)}
	guarded := func(h fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, admin...), h)
	}
	limited := cfg.Limiter.Handler()

	app.Post("/bug-reports", limited, cfg.BugReports.Submit)
	app.Get("/bug-reports", cfg.BugReports.List)
	app.Get("/bug-reports/export.csv", guarded(cfg.Admin.ExportBugReports)...)
	app.Put("/bug-reports/:id", guarded(cfg.BugReports.UpdateStatus)...)
	app.Delete("/bug-reports/:id", guarded(cfg.BugReports.Delete)...)

	app.Post("/feedback", limited, cfg.Feedback.Submit)
	app.Get("/feedback", cfg.Feedback.List)
	app.Get("/feedback/export.csv", guarded(cfg.Admin.ExportFeedback)...)
	app.Put("/feedback/:id", guarded(cfg.Feedback.UpdateStatus)...)
	app.Delete("/feedback/:id", guarded(cfg.Feedback.Delete)...)

	app.Post("/admin/auth", limited, cfg.Admin.Login)
	app.Get("/admin/auth", cfg.AuthMiddleware.Handle, cfg.Admin.Me)
	app.Get("/admin/stats", guarded(cfg.Admin.Stats)...)
	app.Get("/admin/metrics", guarded(cfg.Admin.Metrics)...)

	if cfg.UploadsDir != "" {
		app.Static(strings.TrimSuffix(storage.PublicPrefix, "/"), cfg.UploadsDir, fiber.Static{ByteRange: true})
	}
}
