package handler

import (
	"fmt"
	"time"

	"go-inventory-gst/internal/apperr"
	"go-inventory-gst/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) parseRange(c *fiber.Ctx) (time.Time, time.Time, string, error) {
	fromStr := c.Query("from_date")
	toStr := c.Query("to_date")
	if fromStr == "" || toStr == "" {
		return time.Time{}, time.Time{}, "", apperr.Validation("from_date and to_date are required")
	}

	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, "", apperr.Validation("invalid from_date, expected YYYY-MM-DD")
	}
	to, err := time.Parse("2006-01-02", toStr)
	if err != nil {
		return time.Time{}, time.Time{}, "", apperr.Validation("invalid to_date, expected YYYY-MM-DD")
	}

	return from, to, c.Query("state_code"), nil
}

// GSTReport returns the line-grain GST report with summary totals
// GET /api/v1/reports/gst?from_date=&to_date=&state_code=
func (h *ReportHandler) GSTReport(c *fiber.Ctx) error {
	from, to, stateCode, err := h.parseRange(c)
	if err != nil {
		return respondError(c, err)
	}

	report, err := h.reportService.GSTReport(from, to, stateCode)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": report})
}

// GSTReportCSV streams the report as a CSV download
// GET /api/v1/reports/gst/csv?from_date=&to_date=&state_code=
func (h *ReportHandler) GSTReportCSV(c *fiber.Ctx) error {
	from, to, stateCode, err := h.parseRange(c)
	if err != nil {
		return respondError(c, err)
	}

	data, err := h.reportService.GSTReportCSV(from, to, stateCode)
	if err != nil {
		return respondError(c, err)
	}

	filename := fmt.Sprintf("gst-report-%s-to-%s.csv", from.Format("2006-01-02"), to.Format("2006-01-02"))
	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(data)
}

// GSTReportXLSX streams the report as an Excel workbook
// GET /api/v1/reports/gst/xlsx?from_date=&to_date=&state_code=
func (h *ReportHandler) GSTReportXLSX(c *fiber.Ctx) error {
	from, to, stateCode, err := h.parseRange(c)
	if err != nil {
		return respondError(c, err)
	}

	data, err := h.reportService.GSTReportXLSX(from, to, stateCode)
	if err != nil {
		return respondError(c, err)
	}

	filename := fmt.Sprintf("gst-report-%s-to-%s.xlsx", from.Format("2006-01-02"), to.Format("2006-01-02"))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(data)
}

// States lists GST state codes for customer forms
// GET /api/v1/reports/states
func (h *ReportHandler) States(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.reportService.States()})
}
