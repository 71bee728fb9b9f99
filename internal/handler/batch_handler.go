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

type BatchHandler struct {
	inventoryService service.InventoryService
}

func NewBatchHandler(inventoryService service.InventoryService) *BatchHandler {
	return &BatchHandler{inventoryService: inventoryService}
}

// ReceiveBatch creates a batch and its receipt movement in one transaction
// POST /api/v1/batches
func (h *BatchHandler) ReceiveBatch(c *fiber.Ctx) error {
	var req service.ReceiveBatchInput
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid JSON"))
	}

	batch, err := h.inventoryService.ReceiveBatch(req, getUserID(c), getUserName(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Batch received successfully",
		"data":    batch,
	})
}

// GetBatches lists batches, optionally filtered by product, warehouse or
// an expiry window
// GET /api/v1/batches?product_id=&warehouse_id=&expiring_days=
func (h *BatchHandler) GetBatches(c *fiber.Ctx) error {
	var filter repository.BatchFilter

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
	if v := c.Query("expiring_days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 0 {
			return respondError(c, apperr.Validation("invalid expiring_days"))
		}
		filter.ExpiringDays = &days
	}

	batches, err := h.inventoryService.GetBatches(filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": batches})
}

// GET /api/v1/batches/:id
func (h *BatchHandler) GetBatch(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	batch, err := h.inventoryService.GetBatchByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": batch})
}

// GetAvailable lists batches with stock in allocation order
// GET /api/v1/batches/available?product_id=&warehouse_id=&policy=
func (h *BatchHandler) GetAvailable(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		return respondError(c, apperr.Validation("invalid product_id"))
	}
	warehouseID, err := uuid.Parse(c.Query("warehouse_id"))
	if err != nil {
		return respondError(c, apperr.Validation("invalid warehouse_id"))
	}

	policy, ok := model.ParseAllocationPolicy(c.Query("policy"))
	if !ok {
		return respondError(c, apperr.Validation("invalid policy"))
	}

	batches, err := h.inventoryService.ListAvailableBatches(productID, warehouseID, policy)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": batches})
}

// DeleteBatch soft deletes a batch with zero availability
// DELETE /api/v1/batches/:id
func (h *BatchHandler) DeleteBatch(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.inventoryService.DeleteBatch(id, getUserID(c)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Batch deleted successfully"})
}
