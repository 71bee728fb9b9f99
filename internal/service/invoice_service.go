package service

import (
	"fmt"
	"time"

	"go-inventory-gst/internal/apperr"
	"go-inventory-gst/internal/config"
	"go-inventory-gst/internal/gst"
	"go-inventory-gst/internal/model"
	"go-inventory-gst/internal/repository"
	"go-inventory-gst/internal/ws"
	"go-inventory-gst/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceItemInput leaves batch_id optional; when omitted the batch is
// allocated from the default warehouse using the configured policy.
type InvoiceItemInput struct {
	ProductID uuid.UUID       `json:"product_id" validate:"uuid_required"`
	BatchID   *uuid.UUID      `json:"batch_id"`
	Qty       decimal.Decimal `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type CreateInvoiceInput struct {
	CustomerID      uuid.UUID          `json:"customer_id" validate:"uuid_required"`
	Items           []InvoiceItemInput `json:"items"`
	BillingAddress  string             `json:"billing_address"`
	ShippingAddress string             `json:"shipping_address"`
	InvoiceDate     *time.Time         `json:"invoice_date"`
}

type InvoiceService interface {
	CreateInvoice(input CreateInvoiceInput, userID, userName string) (*model.SalesInvoice, error)
	GetInvoiceByID(id uuid.UUID) (*model.SalesInvoice, error)
	GetInvoices(filter repository.InvoiceFilter) ([]model.SalesInvoice, error)
}

type invoiceService struct {
	invoiceRepo   repository.InvoiceRepository
	customerRepo  repository.CustomerRepository
	warehouseRepo repository.WarehouseRepository
	inventory     InventoryService
	db            *gorm.DB
	cfg           *config.Config
	wsHub         *ws.Hub
}

func NewInvoiceService(
	iRepo repository.InvoiceRepository,
	cRepo repository.CustomerRepository,
	wRepo repository.WarehouseRepository,
	inventory InventoryService,
	db *gorm.DB,
	cfg *config.Config,
	hub *ws.Hub,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:   iRepo,
		customerRepo:  cRepo,
		warehouseRepo: wRepo,
		inventory:     inventory,
		db:            db,
		cfg:           cfg,
		wsHub:         hub,
	}
}

// CreateInvoice materializes the invoice header, its items and one OUT
// movement per item in a single transaction. Any failure rolls the whole
// invoice back, including the allocated number.
func (s *invoiceService) CreateInvoice(input CreateInvoiceInput, userID, userName string) (*model.SalesInvoice, error) {
	if len(input.Items) == 0 {
		return nil, apperr.Validation("invoice must have at least one item")
	}
	for i, item := range input.Items {
		if !item.Qty.IsPositive() {
			return nil, apperr.Validation("item %d: qty must be positive", i+1)
		}
		if item.UnitPrice.IsNegative() {
			return nil, apperr.Validation("item %d: unit_price cannot be negative", i+1)
		}
	}

	customer, err := s.customerRepo.FindByID(input.CustomerID)
	if err != nil {
		return nil, err
	}

	isIntraState := customer.StateCode == s.cfg.CompanyStateCode

	invoiceDate := time.Now()
	if input.InvoiceDate != nil {
		invoiceDate = *input.InvoiceDate
	}

	billing := input.BillingAddress
	if billing == "" {
		billing = customer.Address
	}
	shipping := input.ShippingAddress
	if shipping == "" {
		shipping = customer.Address
	}

	var defaultWarehouseID *uuid.UUID
	for _, item := range input.Items {
		if item.BatchID == nil {
			warehouse, err := s.warehouseRepo.FindByCode(s.cfg.DefaultWarehouseCode)
			if err != nil {
				return nil, err
			}
			defaultWarehouseID = &warehouse.ID
			break
		}
	}

	invoice := &model.SalesInvoice{
		CustomerID:      customer.ID,
		BillingAddress:  billing,
		ShippingAddress: shipping,
		InvoiceDate:     invoiceDate,
		StateCode:       customer.StateCode,
	}
	// ID is fixed up front so the OUT movements can reference the invoice
	// before its row is inserted.
	invoice.ID = uuid.New()
	invoice.CreatedBy = userID
	invoice.UpdatedBy = userID

	err = s.db.Transaction(func(tx *gorm.DB) error {
		items := make([]model.SalesInvoiceItem, 0, len(input.Items))
		lines := make([]gst.LineTax, 0, len(input.Items))

		for _, in := range input.Items {
			product, err := findProductTx(tx, in.ProductID)
			if err != nil {
				return err
			}

			unitPrice := in.UnitPrice
			movement, err := s.inventory.RecordMovementTx(tx, RecordMovementInput{
				Type:            model.MovementOut,
				ProductID:       in.ProductID,
				Qty:             in.Qty,
				BatchID:         in.BatchID,
				WarehouseFromID: defaultWarehouseID,
				UnitCost:        &unitPrice,
				ReferenceType:   model.RefInvoice,
				ReferenceID:     &invoice.ID,
			}, userID)
			if err != nil {
				return err
			}

			line := gst.ComputeLine(in.Qty, in.UnitPrice, product.DefaultTaxRate, isIntraState)
			lines = append(lines, line)

			item := model.SalesInvoiceItem{
				ProductID:    in.ProductID,
				BatchID:      *movement.BatchID,
				Qty:          in.Qty,
				UnitPrice:    in.UnitPrice,
				TaxableValue: line.TaxableValue,
				TaxRate:      product.DefaultTaxRate,
				CGSTAmount:   line.CGST,
				SGSTAmount:   line.SGST,
				IGSTAmount:   line.IGST,
			}
			item.CreatedBy = userID
			item.UpdatedBy = userID
			items = append(items, item)
		}

		totals := gst.Sum(lines)
		invoice.TaxableValue = totals.TaxableValue
		invoice.CGSTAmount = totals.CGST
		invoice.SGSTAmount = totals.SGST
		invoice.IGSTAmount = totals.IGST
		invoice.TotalAmount = totals.TotalAmount
		invoice.Items = items

		number, err := s.invoiceRepo.NextInvoiceNumber(tx, invoiceDate.Year())
		if err != nil {
			logger.LogError("invoice", "NextInvoiceNumber", err)
			return apperr.Internal("failed to allocate invoice number")
		}
		invoice.InvoiceNumber = number

		if err := s.invoiceRepo.Create(tx, invoice); err != nil {
			logger.LogError("invoice", "CreateInvoice", err)
			return apperr.Internal("failed to insert invoice")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(map[string]interface{}{
		"type": "invoice_created",
		"invoice": map[string]interface{}{
			"id":             invoice.ID,
			"invoice_number": invoice.InvoiceNumber,
			"customer_id":    invoice.CustomerID,
			"total_amount":   invoice.TotalAmount,
		},
		"message": fmt.Sprintf("%s created invoice %s", userName, invoice.InvoiceNumber),
	})

	return invoice, nil
}

func (s *invoiceService) GetInvoiceByID(id uuid.UUID) (*model.SalesInvoice, error) {
	return s.invoiceRepo.FindByID(id)
}

func (s *invoiceService) GetInvoices(filter repository.InvoiceFilter) ([]model.SalesInvoice, error) {
	return s.invoiceRepo.FindAll(filter)
}

func (s *invoiceService) broadcast(payload map[string]interface{}) {
	if s.wsHub == nil {
		return
	}
	s.wsHub.BroadcastJSON(payload)
}
