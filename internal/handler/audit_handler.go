package handler

import (
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/apperror"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/middleware"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuditHandler struct {
	service service.AuditService
}

func NewAuditHandler(s service.AuditService) *AuditHandler {
	return &AuditHandler{service: s}
}

// GetAuditLogs returns a filtered page of the audit trail, newest first
// GET /api/v1/audit-logs?page=&limit=&tableName=&action=&userId=&startDate=&endDate=
func (h *AuditHandler) GetAuditLogs(c *fiber.Ctx) error {
	start, end, err := queryRange(c)
	if err != nil {
		return err
	}
	query := service.AuditQuery{
		Page:      queryInt(c, "page"),
		Limit:     queryInt(c, "limit"),
		TableName: c.Query("tableName"),
		Action:    c.Query("action"),
		StartDate: start,
		EndDate:   end,
	}
	if v := c.Query("userId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return apperror.Validation("Invalid user ID")
		}
		query.UserID = &id
	}

	page, err := h.service.List(middleware.Identity(c), query)
	if err != nil {
		return err
	}
	return c.JSON(page)
}
