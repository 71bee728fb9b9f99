package service

import (
	"fmt"
	"time"

	"go-inventory-gst/internal/apperr"
	"go-inventory-gst/internal/config"
	"go-inventory-gst/internal/model"
	"go-inventory-gst/internal/repository"
	"go-inventory-gst/internal/ws"
	"go-inventory-gst/pkg/logger"
	"go-inventory-gst/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecordMovementInput is the movement recorder contract. Qty must be
// positive for IN/OUT/TRANSFER; ADJUST takes a signed delta.
type RecordMovementInput struct {
	Type            model.MovementType `json:"movement_type" validate:"required,oneof=IN OUT TRANSFER ADJUST"`
	ProductID       uuid.UUID          `json:"product_id" validate:"uuid_required"`
	Qty             decimal.Decimal    `json:"qty"`
	BatchID         *uuid.UUID         `json:"batch_id"`
	WarehouseFromID *uuid.UUID         `json:"warehouse_from"`
	WarehouseToID   *uuid.UUID         `json:"warehouse_to"`
	UnitCost        *decimal.Decimal   `json:"unit_cost"`
	ReferenceType   string             `json:"reference_type"`
	ReferenceID     *uuid.UUID         `json:"reference_id"`
}

// ReceiveBatchInput creates a batch and records the receipt IN movement in
// one transaction, so the movement ledger covers the initial quantity too.
type ReceiveBatchInput struct {
	ProductID         uuid.UUID        `json:"product_id" validate:"uuid_required"`
	WarehouseID       uuid.UUID        `json:"warehouse_id" validate:"uuid_required"`
	BatchNo           string           `json:"batch_no" validate:"required"`
	ManufacturingDate *time.Time       `json:"manufacturing_date"`
	ExpiryDate        *time.Time       `json:"expiry_date"`
	QtyReceived       decimal.Decimal  `json:"qty_received"`
	UnitCost          *decimal.Decimal `json:"unit_cost"`
}

type InventoryService interface {
	CreateProduct(req *model.Product, userID, userName, userEmail string) error
	UpdateProduct(id uuid.UUID, req *model.Product, userID string) (*model.Product, error)
	DeleteProduct(id uuid.UUID, userID string) error
	GetAllProducts() ([]model.ProductWithStock, error)

	ReceiveBatch(input ReceiveBatchInput, userID, userName string) (*model.Batch, error)
	GetBatches(filter repository.BatchFilter) ([]model.Batch, error)
	GetBatchByID(id uuid.UUID) (*model.Batch, error)
	ListAvailableBatches(productID, warehouseID uuid.UUID, policy model.AllocationPolicy) ([]model.Batch, error)
	DeleteBatch(id uuid.UUID, userID string) error

	RecordMovement(input RecordMovementInput, userID, userName, userEmail string) (*model.StockMovement, error)
	// RecordMovementTx runs inside the caller's transaction; the invoice
	// builder uses it so invoice rows and movements commit together.
	RecordMovementTx(tx *gorm.DB, input RecordMovementInput, userID string) (*model.StockMovement, error)

	GetMovements(filter repository.MovementFilter) ([]model.StockMovement, error)
	GetMovementByID(id uuid.UUID) (*model.StockMovement, error)
}

type inventoryService struct {
	productRepo  repository.ProductRepository
	batchRepo    repository.BatchRepository
	movementRepo repository.MovementRepository
	db           *gorm.DB
	cfg          *config.Config
	wsHub        *ws.Hub
}

func NewInventoryService(
	pRepo repository.ProductRepository,
	bRepo repository.BatchRepository,
	mRepo repository.MovementRepository,
	db *gorm.DB,
	cfg *config.Config,
	hub *ws.Hub,
) InventoryService {
	return &inventoryService{
		productRepo:  pRepo,
		batchRepo:    bRepo,
		movementRepo: mRepo,
		db:           db,
		cfg:          cfg,
		wsHub:        hub,
	}
}

func (s *inventoryService) CreateProduct(req *model.Product, userID, userName, userEmail string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return apperr.Validation("field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	existing, _ := s.productRepo.FindBySKU(req.SKU)
	if existing != nil && existing.ID != uuid.Nil {
		return apperr.Conflict("SKU %s already exists", req.SKU)
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID
	req.CreatedByUserID = &userID
	req.UpdatedByUserID = &userID

	if err := s.productRepo.Create(req); err != nil {
		logger.LogError("inventory", "CreateProduct", err)
		return apperr.Internal("failed to create product")
	}

	s.broadcast(map[string]interface{}{
		"type":   "catalog_update",
		"action": "product_created",
		"product": map[string]interface{}{
			"id":   req.ID,
			"sku":  req.SKU,
			"name": req.Name,
		},
		"message": fmt.Sprintf("%s created product '%s'", userName, req.Name),
	})

	return nil
}

func (s *inventoryService) UpdateProduct(id uuid.UUID, req *model.Product, userID string) (*model.Product, error) {
	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	// SKU is immutable once assigned.
	if req.SKU != "" && req.SKU != existing.SKU {
		return nil, apperr.Validation("SKU cannot be changed")
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.HSNCode = req.HSNCode
	existing.Unit = req.Unit
	existing.DefaultTaxRate = req.DefaultTaxRate
	existing.CostPrice = req.CostPrice
	existing.SellingPrice = req.SellingPrice
	existing.MinStock = req.MinStock
	existing.UpdatedBy = userID
	existing.UpdatedByUserID = &userID

	if err := s.productRepo.Update(existing); err != nil {
		logger.LogError("inventory", "UpdateProduct", err)
		return nil, apperr.Internal("failed to update product")
	}

	return existing, nil
}

// DeleteProduct refuses while batches, invoice lines or movements still
// reference the product.
func (s *inventoryService) DeleteProduct(id uuid.UUID, userID string) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		return err
	}

	if has, err := s.batchRepo.ProductHasBatches(id); err != nil {
		return err
	} else if has {
		return apperr.Conflict("product has batches")
	}
	if has, err := s.productRepo.HasInvoiceLines(id); err != nil {
		return err
	} else if has {
		return apperr.Conflict("product is referenced by invoice lines")
	}
	if has, err := s.productRepo.HasMovements(id); err != nil {
		return err
	} else if has {
		return apperr.Conflict("product is referenced by stock movements")
	}

	return s.productRepo.Delete(id, userID)
}

func (s *inventoryService) GetAllProducts() ([]model.ProductWithStock, error) {
	return s.productRepo.FindAll()
}

func (s *inventoryService) ReceiveBatch(input ReceiveBatchInput, userID, userName string) (*model.Batch, error) {
	if errs := validator.ValidateStruct(&input); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.Validation("field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if !input.QtyReceived.IsPositive() {
		return nil, apperr.Validation("qty_received must be positive")
	}

	if existing, _ := s.batchRepo.FindByProductAndNo(input.ProductID, input.BatchNo); existing != nil {
		return nil, apperr.Conflict("batch number %s already exists for product", input.BatchNo)
	}

	batch := &model.Batch{
		ProductID:         input.ProductID,
		WarehouseID:       input.WarehouseID,
		BatchNo:           input.BatchNo,
		ManufacturingDate: input.ManufacturingDate,
		ExpiryDate:        input.ExpiryDate,
		QtyReceived:       input.QtyReceived,
		QtyAvailable:      decimal.Zero,
	}
	batch.CreatedBy = userID
	batch.UpdatedBy = userID

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.batchRepo.Create(tx, batch); err != nil {
			return err
		}

		_, err := s.RecordMovementTx(tx, RecordMovementInput{
			Type:          model.MovementIn,
			ProductID:     input.ProductID,
			Qty:           input.QtyReceived,
			BatchID:       &batch.ID,
			WarehouseToID: &input.WarehouseID,
			UnitCost:      input.UnitCost,
			ReferenceType: model.RefBatchReceipt,
			ReferenceID:   &batch.ID,
		}, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(map[string]interface{}{
		"type":   "stock_update",
		"action": "batch_received",
		"batch": map[string]interface{}{
			"id":           batch.ID,
			"batch_no":     batch.BatchNo,
			"product_id":   batch.ProductID,
			"warehouse_id": batch.WarehouseID,
			"qty_received": batch.QtyReceived,
		},
		"message": fmt.Sprintf("%s received batch '%s' (%s units)", userName, batch.BatchNo, batch.QtyReceived.String()),
	})

	return batch, nil
}

func (s *inventoryService) GetBatches(filter repository.BatchFilter) ([]model.Batch, error) {
	return s.batchRepo.FindAll(filter)
}

func (s *inventoryService) GetBatchByID(id uuid.UUID) (*model.Batch, error) {
	return s.batchRepo.FindByID(id)
}

func (s *inventoryService) ListAvailableBatches(productID, warehouseID uuid.UUID, policy model.AllocationPolicy) ([]model.Batch, error) {
	return s.batchRepo.ListAvailable(s.db, productID, warehouseID, policy)
}

func (s *inventoryService) DeleteBatch(id uuid.UUID, userID string) error {
	return s.batchRepo.Delete(id, userID)
}

func (s *inventoryService) RecordMovement(input RecordMovementInput, userID, userName, userEmail string) (*model.StockMovement, error) {
	var movement *model.StockMovement

	err := s.db.Transaction(func(tx *gorm.DB) error {
		m, err := s.RecordMovementTx(tx, input, userID)
		if err != nil {
			return err
		}
		movement = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(map[string]interface{}{
		"type":   "stock_update",
		"action": "movement_recorded",
		"movement": map[string]interface{}{
			"id":            movement.ID,
			"movement_type": movement.Type,
			"product_id":    movement.ProductID,
			"qty":           movement.Qty,
			"batch_id":      movement.BatchID,
		},
		"user": map[string]interface{}{
			"id":    userID,
			"name":  userName,
			"email": userEmail,
		},
		"message": fmt.Sprintf("%s recorded %s of %s units", userName, movement.Type, movement.Qty.Abs().String()),
	})

	return movement, nil
}

func (s *inventoryService) RecordMovementTx(tx *gorm.DB, input RecordMovementInput, userID string) (*model.StockMovement, error) {
	if errs := validator.ValidateStruct(&input); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.Validation("field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if err := validateMovement(input); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, apperr.Validation("creator identity is required")
	}

	if _, err := findProductTx(tx, input.ProductID); err != nil {
		return nil, err
	}

	batchID := input.BatchID
	if batchID == nil {
		picked, err := s.autoSelectBatch(tx, input)
		if err != nil {
			return nil, err
		}
		batchID = &picked.ID
		if input.WarehouseFromID == nil {
			input.WarehouseFromID = &picked.WarehouseID
		}
	}

	delta := movementDelta(input.Type, input.Qty)
	if _, err := s.batchRepo.AdjustQuantity(tx, *batchID, delta); err != nil {
		return nil, err
	}

	movement := &model.StockMovement{
		Type:            input.Type,
		ProductID:       input.ProductID,
		WarehouseFromID: input.WarehouseFromID,
		WarehouseToID:   input.WarehouseToID,
		BatchID:         batchID,
		Qty:             input.Qty,
		UnitCost:        input.UnitCost,
		TotalValue:      movementTotalValue(input.Qty, input.UnitCost),
		ReferenceType:   input.ReferenceType,
		ReferenceID:     input.ReferenceID,
		CreatedByUserID: &userID,
	}
	movement.CreatedBy = userID
	movement.UpdatedBy = userID

	if err := s.movementRepo.Create(tx, movement); err != nil {
		logger.LogError("inventory", "RecordMovementTx", err)
		return nil, apperr.Internal("failed to record movement")
	}

	return movement, nil
}

func (s *inventoryService) GetMovements(filter repository.MovementFilter) ([]model.StockMovement, error) {
	return s.movementRepo.FindAll(filter)
}

func (s *inventoryService) GetMovementByID(id uuid.UUID) (*model.StockMovement, error) {
	return s.movementRepo.FindByID(id)
}

// autoSelectBatch picks the earliest-expiring batch with enough stock at
// the source warehouse when the caller did not name one.
func (s *inventoryService) autoSelectBatch(tx *gorm.DB, input RecordMovementInput) (*model.Batch, error) {
	warehouseID := input.WarehouseFromID
	if warehouseID == nil {
		return nil, apperr.Validation("warehouse_from is required when batch_id is omitted")
	}

	batches, err := s.batchRepo.ListAvailable(tx, input.ProductID, *warehouseID, model.PolicyFEFO)
	if err != nil {
		return nil, err
	}

	picked := pickBatch(batches, input.Qty)
	if picked == nil {
		return nil, apperr.InsufficientStock(sumAvailable(batches), input.Qty)
	}
	return picked, nil
}

func (s *inventoryService) broadcast(payload map[string]interface{}) {
	if s.wsHub == nil {
		return
	}
	s.wsHub.BroadcastJSON(payload)
}

func findProductTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := tx.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("product %s", id)
		}
		return nil, err
	}
	return &product, nil
}
