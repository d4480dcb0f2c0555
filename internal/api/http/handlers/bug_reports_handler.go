package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/feedback-desk/internal/api/dto"
	"github.com/spec-kit/feedback-desk/internal/repository"
	"github.com/spec-kit/feedback-desk/internal/service"
	"github.com/spec-kit/feedback-desk/internal/storage"
	apperrors "github.com/spec-kit/feedback-desk/pkg/util"
)

// BugReportsHandler serves the bug report endpoints.
type BugReportsHandler struct {
	service *service.BugReportService
}

// NewBugReportsHandler constructs handler.
func NewBugReportsHandler(bugReportService *service.BugReportService) *BugReportsHandler {
	return &BugReportsHandler{service: bugReportService}
}

// Submit POST /bug-reports (multipart form: title, description, screenshot).
func (h *BugReportsHandler) Submit(c *fiber.Ctx) error {
	in := service.BugReportSubmission{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
	}
	if fh, err := c.FormFile("screenshot"); err == nil {
		in.Screenshot = storage.UploadFromFileHeader(fh)
	}

	report, err := h.service.Submit(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SubmissionResponse{
		Message: "Bug report submitted successfully",
		ID:      report.ID,
	})
}

// List GET /bug-reports?status=&search=.
func (h *BugReportsHandler) List(c *fiber.Ctx) error {
	filter := repository.ParseBugReportFilter(c.Query("status"), c.Query("search"))
	reports, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(reports)
}

// UpdateStatus PUT /bug-reports/:id.
func (h *BugReportsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid request body", nil)
	}
	report, err := h.service.UpdateStatus(c.UserContext(), adminFromContext(c), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(dto.BugReportMutationResponse{Message: "Status updated successfully", Report: report})
}

// Delete DELETE /bug-reports/:id.
func (h *BugReportsHandler) Delete(c *fiber.Ctx) error {
	report, err := h.service.Delete(c.UserContext(), adminFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.BugReportMutationResponse{Message: "Bug report deleted successfully", Report: report})
}
