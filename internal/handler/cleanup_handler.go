package handler

import (
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/apperror"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/middleware"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CleanupHandler struct {
	service service.CleanupService
}

func NewCleanupHandler(s service.CleanupService) *CleanupHandler {
	return &CleanupHandler{service: s}
}

type cleanupBody struct {
	Type       string `json:"type"`
	BeforeDate string `json:"beforeDate"`
}

// Cleanup permanently deletes rows older than beforeDate
// POST /api/v1/data-cleanup
func (h *CleanupHandler) Cleanup(c *fiber.Ctx) error {
	var body cleanupBody
	if err := c.BodyParser(&body); err != nil {
		return errInvalidJSON
	}
	if body.BeforeDate == "" {
		return apperror.Validation("beforeDate is required")
	}
	before, _, err := parseDate(body.BeforeDate)
	if err != nil {
		return err
	}

	result, err := h.service.Cleanup(middleware.Identity(c), &service.CleanupRequest{
		Type:       service.CleanupType(body.Type),
		BeforeDate: before,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Cleanup completed", "data": result})
}
