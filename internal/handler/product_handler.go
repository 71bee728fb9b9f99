package handler

import (
	"go-inventory-gst/internal/apperr"
	"go-inventory-gst/internal/model"
	"go-inventory-gst/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	inventoryService service.InventoryService
}

func NewProductHandler(inventoryService service.InventoryService) *ProductHandler {
	return &ProductHandler{inventoryService: inventoryService}
}

// CreateProduct handles product creation
// POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req model.Product
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid JSON"))
	}

	if err := h.inventoryService.CreateProduct(&req, getUserID(c), getUserName(c), getUserEmail(c)); err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Product created successfully",
		"data":    req,
	})
}

// GetProducts returns all products with their aggregated stock
// GET /api/v1/products
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.inventoryService.GetAllProducts()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": products})
}

// UpdateProduct edits a product; the SKU is immutable
// PUT /api/v1/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req model.Product
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid JSON"))
	}

	product, err := h.inventoryService.UpdateProduct(id, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Product updated successfully",
		"data":    product,
	})
}

// DeleteProduct soft deletes a product with no batches, movements or invoice lines
// DELETE /api/v1/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.inventoryService.DeleteProduct(id, getUserID(c)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}
