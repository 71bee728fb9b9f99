package handler

import (
	"go-inventory-gst/internal/apperr"
	"go-inventory-gst/internal/model"
	"go-inventory-gst/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CustomerHandler struct {
	customerService service.CustomerService
}

func NewCustomerHandler(customerService service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// POST /api/v1/customers
func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	var req model.Customer
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid JSON"))
	}

	if err := h.customerService.CreateCustomer(&req, getUserID(c)); err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Customer created successfully",
		"data":    req,
	})
}

// GetCustomers lists customers with invoice count and business totals
// GET /api/v1/customers
func (h *CustomerHandler) GetCustomers(c *fiber.Ctx) error {
	if term := c.Query("search"); term != "" {
		customers, err := h.customerService.SearchCustomers(term)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"data": customers})
	}

	customers, err := h.customerService.GetAllCustomers()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": customers})
}

// GET /api/v1/customers/:id
func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	customer, err := h.customerService.GetCustomerByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": customer})
}

// PUT /api/v1/customers/:id
func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req model.Customer
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid JSON"))
	}

	customer, err := h.customerService.UpdateCustomer(id, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Customer updated successfully",
		"data":    customer,
	})
}

// DELETE /api/v1/customers/:id
func (h *CustomerHandler) DeleteCustomer(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.customerService.DeleteCustomer(id, getUserID(c)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Customer deleted successfully"})
}
