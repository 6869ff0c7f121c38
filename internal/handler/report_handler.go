package handler

import (
	"time"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/middleware"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// reportDays reads inclusive startDate/endDate days; missing values are left zero
// so the service applies its default window.
func reportDays(c *fiber.Ctx) (start, end time.Time, err error) {
	if v := c.Query("startDate"); v != "" {
		if start, _, err = parseDate(v); err != nil {
			return
		}
	}
	if v := c.Query("endDate"); v != "" {
		if end, _, err = parseDate(v); err != nil {
			return
		}
	}
	return
}

// GetSalesReport returns the aggregated sales report
// GET /api/v1/reports/sales?startDate=2025-01-01&endDate=2025-01-31
func (h *ReportHandler) GetSalesReport(c *fiber.Ctx) error {
	start, end, err := reportDays(c)
	if err != nil {
		return err
	}
	report, err := h.service.SalesReport(middleware.Identity(c), start, end)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

// ExportSalesReport downloads the report as PDF or Excel
// GET /api/v1/reports/sales/export?format=pdf|xlsx
func (h *ReportHandler) ExportSalesReport(c *fiber.Ctx) error {
	start, end, err := reportDays(c)
	if err != nil {
		return err
	}
	file, err := h.service.ExportSalesReport(middleware.Identity(c), start, end, c.Query("format", service.FormatPDF))
	if err != nil {
		return err
	}
	return sendFile(c, file.Filename, file.ContentType, file.Data)
}

// GetDashboardStats returns overview statistics
// GET /api/v1/dashboard/stats
func (h *ReportHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.Dashboard(middleware.Identity(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}
