package handler

import (
	"strconv"

	"go-inventory-gst/internal/apperr"
	"go-inventory-gst/internal/model"
	"go-inventory-gst/internal/repository"
	"go-inventory-gst/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type MovementHandler struct {
	inventoryService service.InventoryService
}

func NewMovementHandler(inventoryService service.InventoryService) *MovementHandler {
	return &MovementHandler{inventoryService: inventoryService}
}

// RecordMovement applies an IN, OUT, TRANSFER or ADJUST to a batch
// POST /api/v1/movements
func (h *MovementHandler) RecordMovement(c *fiber.Ctx) error {
	var req service.RecordMovementInput
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid JSON"))
	}

	movement, err := h.inventoryService.RecordMovement(req, getUserID(c), getUserName(c), getUserEmail(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Movement recorded successfully",
		"data":    movement,
	})
}

// GetMovements lists the movement ledger, newest first
// GET /api/v1/movements?product_id=&warehouse_id=&movement_type=&limit=
func (h *MovementHandler) GetMovements(c *fiber.Ctx) error {
	var filter repository.MovementFilter

	if v := c.Query("product_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return respondError(c, apperr.Validation("invalid product_id"))
		}
		filter.ProductID = &id
	}
	if v := c.Query("warehouse_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return respondError(c, apperr.Validation("invalid warehouse_id"))
		}
		filter.WarehouseID = &id
	}
	if v := c.Query("movement_type"); v != "" {
		mt := model.MovementType(v)
		switch mt {
		case model.MovementIn, model.MovementOut, model.MovementTransfer, model.MovementAdjust:
			filter.Type = &mt
		default:
			return respondError(c, apperr.Validation("invalid movement_type"))
		}
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return respondError(c, apperr.Validation("invalid limit"))
		}
		filter.Limit = limit
	}

	movements, err := h.inventoryService.GetMovements(filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": movements})
}

// GET /api/v1/movements/:id
func (h *MovementHandler) GetMovement(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	movement, err := h.inventoryService.GetMovementByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": movement})
}
