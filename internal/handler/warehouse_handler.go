package handler

import (
	"go-inventory-gst/internal/apperr"
	"go-inventory-gst/internal/model"
	"go-inventory-gst/internal/service"

	"github.com/gofiber/fiber/v2"
)

type WarehouseHandler struct {
	warehouseService service.WarehouseService
}

func NewWarehouseHandler(warehouseService service.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{warehouseService: warehouseService}
}

// POST /api/v1/warehouses
func (h *WarehouseHandler) CreateWarehouse(c *fiber.Ctx) error {
	var req model.Warehouse
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid JSON"))
	}

	if err := h.warehouseService.CreateWarehouse(&req, getUserID(c)); err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Warehouse created successfully",
		"data":    req,
	})
}

// GET /api/v1/warehouses
func (h *WarehouseHandler) GetWarehouses(c *fiber.Ctx) error {
	warehouses, err := h.warehouseService.GetAllWarehouses()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": warehouses})
}

// GET /api/v1/warehouses/:id
func (h *WarehouseHandler) GetWarehouse(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	warehouse, err := h.warehouseService.GetWarehouseByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": warehouse})
}

// PUT /api/v1/warehouses/:id
func (h *WarehouseHandler) UpdateWarehouse(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req model.Warehouse
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid JSON"))
	}

	warehouse, err := h.warehouseService.UpdateWarehouse(id, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Warehouse updated successfully",
		"data":    warehouse,
	})
}

// DELETE /api/v1/warehouses/:id
func (h *WarehouseHandler) DeleteWarehouse(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.warehouseService.DeleteWarehouse(id, getUserID(c)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Warehouse deleted successfully"})
}
