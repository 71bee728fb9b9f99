package handler

import (
	"time"

	"go-inventory-gst/internal/apperr"
	"go-inventory-gst/internal/repository"
	"go-inventory-gst/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// CreateInvoice creates an invoice with its items and OUT movements
// POST /api/v1/invoices
func (h *InvoiceHandler) CreateInvoice(c *fiber.Ctx) error {
	var req service.CreateInvoiceInput
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid JSON"))
	}

	invoice, err := h.invoiceService.CreateInvoice(req, getUserID(c), getUserName(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Invoice created successfully",
		"data":    invoice,
	})
}

// GetInvoices lists invoices, newest first
// GET /api/v1/invoices?customer_id=&from_date=&to_date=
func (h *InvoiceHandler) GetInvoices(c *fiber.Ctx) error {
	var filter repository.InvoiceFilter

	if v := c.Query("customer_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return respondError(c, apperr.Validation("invalid customer_id"))
		}
		filter.CustomerID = &id
	}
	if v := c.Query("from_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return respondError(c, apperr.Validation("invalid from_date, expected YYYY-MM-DD"))
		}
		filter.FromDate = &t
	}
	if v := c.Query("to_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return respondError(c, apperr.Validation("invalid to_date, expected YYYY-MM-DD"))
		}
		filter.ToDate = &t
	}

	invoices, err := h.invoiceService.GetInvoices(filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": invoices})
}

// GetInvoice returns one invoice with customer and items
// GET /api/v1/invoices/:id
func (h *InvoiceHandler) GetInvoice(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	invoice, err := h.invoiceService.GetInvoiceByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": invoice})
}
