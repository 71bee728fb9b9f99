package repository

import (
	"errors"
	"time"

	"go-inventory-gst/internal/apperr"
	"go-inventory-gst/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BatchFilter narrows batch listings.
type BatchFilter struct {
	ProductID    *uuid.UUID
	WarehouseID  *uuid.UUID
	ExpiringDays *int // batches whose expiry falls within N days
}

type BatchRepository interface {
	Create(tx *gorm.DB, batch *model.Batch) error
	FindAll(filter BatchFilter) ([]model.Batch, error)
	FindByID(id uuid.UUID) (*model.Batch, error)
	FindByProductAndNo(productID uuid.UUID, batchNo string) (*model.Batch, error)

	// ListAvailable returns batches with positive availability for the
	// product at the warehouse, ordered by the allocation policy.
	ListAvailable(tx *gorm.DB, productID, warehouseID uuid.UUID, policy model.AllocationPolicy) ([]model.Batch, error)

	// AdjustQuantity applies a signed delta to qty_available under a row
	// lock. It is the only code path that changes batch availability.
	AdjustQuantity(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) (*model.Batch, error)

	// ExpiringSoon returns batches with stock whose expiry falls within
	// the window, soonest first.
	ExpiringSoon(days int) ([]model.Batch, error)

	Delete(id uuid.UUID, deletedBy string) error
	WarehouseHasStock(warehouseID uuid.UUID) (bool, error)
	ProductHasBatches(productID uuid.UUID) (bool, error)
}

type batchRepo struct {
	db *gorm.DB
}

func NewBatchRepo(db *gorm.DB) BatchRepository {
	return &batchRepo{db}
}

func (r *batchRepo) Create(tx *gorm.DB, batch *model.Batch) error {
	err := tx.Create(batch).Error
	// A concurrent receipt can slip past the service pre-check and land
	// on the (product_id, batch_no) unique index.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("batch number %s already exists for product", batch.BatchNo)
	}
	return err
}

func (r *batchRepo) FindAll(filter BatchFilter) ([]model.Batch, error) {
	q := r.db.Preload("Product").Preload("Warehouse")

	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.WarehouseID != nil {
		q = q.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.ExpiringDays != nil {
		cutoff := time.Now().AddDate(0, 0, *filter.ExpiringDays)
		q = q.Where("expiry_date IS NOT NULL AND expiry_date <= ?", cutoff)
	}

	var batches []model.Batch
	err := q.Order("expiry_date ASC NULLS LAST, created_at DESC").Find(&batches).Error
	return batches, err
}

func (r *batchRepo) FindByID(id uuid.UUID) (*model.Batch, error) {
	var batch model.Batch
	err := r.db.Preload("Product").Preload("Warehouse").First(&batch, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("batch %s", id)
	}
	return &batch, err
}

func (r *batchRepo) FindByProductAndNo(productID uuid.UUID, batchNo string) (*model.Batch, error) {
	var batch model.Batch
	err := r.db.First(&batch, "product_id = ? AND batch_no = ?", productID, batchNo).Error
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *batchRepo) ListAvailable(tx *gorm.DB, productID, warehouseID uuid.UUID, policy model.AllocationPolicy) ([]model.Batch, error) {
	orderBy := "created_at ASC" // FIFO default
	switch policy {
	case model.PolicyFEFO:
		orderBy = "expiry_date ASC NULLS LAST, created_at ASC"
	case model.PolicyLIFO:
		orderBy = "created_at DESC"
	}

	var batches []model.Batch
	err := tx.
		Where("product_id = ? AND warehouse_id = ? AND qty_available > 0", productID, warehouseID).
		Order(orderBy).
		Find(&batches).Error
	return batches, err
}

func (r *batchRepo) AdjustQuantity(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) (*model.Batch, error) {
	var batch model.Batch
	// Pessimistic lock: the check and the update must see the same row
	// version, otherwise two concurrent debits can both pass the check.
	if err := lockedFirst(tx, &batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("batch %s", id)
		}
		return nil, err
	}

	newQty := batch.QtyAvailable.Add(delta)
	if newQty.IsNegative() {
		return nil, apperr.InsufficientStock(batch.QtyAvailable, delta.Neg())
	}

	if err := tx.Model(&model.Batch{}).
		Where("id = ?", id).
		Update("qty_available", newQty).Error; err != nil {
		return nil, err
	}

	batch.QtyAvailable = newQty
	return &batch, nil
}

func (r *batchRepo) ExpiringSoon(days int) ([]model.Batch, error) {
	cutoff := time.Now().AddDate(0, 0, days)
	var batches []model.Batch
	err := r.db.Preload("Product").Preload("Warehouse").
		Where("expiry_date IS NOT NULL AND expiry_date <= ? AND expiry_date >= ? AND qty_available > 0", cutoff, time.Now().AddDate(0, 0, -1)).
		Order("expiry_date ASC").
		Find(&batches).Error
	return batches, err
}

func (r *batchRepo) Delete(id uuid.UUID, deletedBy string) error {
	batch, err := r.FindByID(id)
	if err != nil {
		return err
	}
	if batch.QtyAvailable.IsPositive() {
		return apperr.Conflict("cannot delete batch %s with %s units available", batch.BatchNo, batch.QtyAvailable.String())
	}

	if err := r.db.Model(&model.Batch{}).Where("id = ?", id).Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.Delete(&model.Batch{}, "id = ?", id).Error
}

func (r *batchRepo) WarehouseHasStock(warehouseID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.Batch{}).
		Where("warehouse_id = ? AND qty_available > 0", warehouseID).
		Count(&count).Error
	return count > 0, err
}

func (r *batchRepo) ProductHasBatches(productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.Batch{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count > 0, err
}
