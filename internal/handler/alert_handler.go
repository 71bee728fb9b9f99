package handler

import (
	"go-inventory-gst/internal/apperr"
	"go-inventory-gst/internal/model"
	"go-inventory-gst/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AlertHandler struct {
	alertService service.AlertService
}

func NewAlertHandler(alertService service.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// POST /api/v1/alerts
func (h *AlertHandler) CreateAlert(c *fiber.Ctx) error {
	var req model.Alert
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid JSON"))
	}

	if err := h.alertService.CreateAlert(&req, getUserID(c)); err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Alert created successfully",
		"data":    req,
	})
}

// GetAlerts lists configured alert rules
// GET /api/v1/alerts
func (h *AlertHandler) GetAlerts(c *fiber.Ctx) error {
	alerts, err := h.alertService.GetAlerts()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": alerts})
}

// GetActive returns current low-stock and expiry conditions
// GET /api/v1/alerts/active
func (h *AlertHandler) GetActive(c *fiber.Ctx) error {
	alerts, err := h.alertService.ActiveAlerts()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": alerts, "count": len(alerts)})
}

// Evaluate runs an alert pass on demand
// POST /api/v1/alerts/evaluate
func (h *AlertHandler) Evaluate(c *fiber.Ctx) error {
	alerts, err := h.alertService.Evaluate()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": alerts, "count": len(alerts)})
}

// PUT /api/v1/alerts/:id
func (h *AlertHandler) UpdateAlert(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req model.Alert
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid JSON"))
	}

	alert, err := h.alertService.UpdateAlert(id, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Alert updated successfully",
		"data":    alert,
	})
}

// DismissAlert clears the triggered flag on a rule
// PUT /api/v1/alerts/:id/dismiss
func (h *AlertHandler) DismissAlert(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.alertService.DismissAlert(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Alert dismissed"})
}

// DELETE /api/v1/alerts/:id
func (h *AlertHandler) DeleteAlert(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.alertService.DeleteAlert(id, getUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Alert deleted successfully"})
}
