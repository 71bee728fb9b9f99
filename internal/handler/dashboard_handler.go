package handler

import (
	"strconv"

	"go-inventory-gst/internal/apperr"
	"go-inventory-gst/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Overview returns stock totals, valuation, alert count and recent invoices
// GET /api/v1/dashboard
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.dashboardService.Overview()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": overview})
}

// Movements returns the daily inbound/outbound series
// GET /api/v1/dashboard/movements?days=7
func (h *DashboardHandler) Movements(c *fiber.Ctx) error {
	days := 7
	if v := c.Query("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return respondError(c, apperr.Validation("invalid days"))
		}
		days = parsed
	}

	series, err := h.dashboardService.MovementSeries(days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": series})
}
