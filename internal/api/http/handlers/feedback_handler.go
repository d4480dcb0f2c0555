package handlers

import (
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/feedback-desk/internal/api/dto"
	"github.com/spec-kit/feedback-desk/internal/repository"
	"github.com/spec-kit/feedback-desk/internal/service"
	apperrors "github.com/spec-kit/feedback-desk/pkg/util"
)

// FeedbackHandler serves the feedback endpoints.
type FeedbackHandler struct {
	service *service.FeedbackService
}

// NewFeedbackHandler constructs handler.
func NewFeedbackHandler(feedbackService *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: feedbackService}
}

// Submit POST /feedback (JSON).
func (h *FeedbackHandler) Submit(c *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid request body", nil)
	}

	entry, err := h.service.Submit(c.UserContext(), service.FeedbackSubmission{
		Name:     req.Name,
		Email:    req.Email,
		Rating:   parseRating(req.Rating),
		Category: req.Category,
		Feedback: req.Feedback,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SubmissionResponse{
		Message: "Feedback submitted successfully",
		ID:      entry.ID,
	})
}

// List GET /feedback?status=&rating=&category=&search=.
func (h *FeedbackHandler) List(c *fiber.Ctx) error {
	filter := repository.ParseFeedbackFilter(c.Query("status"), c.Query("rating"), c.Query("category"), c.Query("search"))
	entries, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

// UpdateStatus PUT /feedback/:id.
func (h *FeedbackHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid request body", nil)
	}
	entry, err := h.service.UpdateStatus(c.UserContext(), adminFromContext(c), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(dto.FeedbackMutationResponse{Message: "Status updated successfully", Feedback: entry})
}

// Delete DELETE /feedback/:id.
func (h *FeedbackHandler) Delete(c *fiber.Ctx) error {
	entry, err := h.service.Delete(c.UserContext(), adminFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FeedbackMutationResponse{Message: "Feedback deleted successfully", Feedback: entry})
}

// parseRating accepts whole JSON numbers and numeric strings. Anything else
// yields 0, which fails the range check.
func parseRating(v any) int {
	switch r := v.(type) {
	case float64:
		if r != math.Trunc(r) || r < math.MinInt32 || r > math.MaxInt32 {
			return 0
		}
		return int(r)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(r))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
