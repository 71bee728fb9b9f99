package repository

import (
	"errors"

	"go-inventory-gst/internal/apperr"
	"go-inventory-gst/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WarehouseRepository interface {
	Create(warehouse *model.Warehouse) error
	FindAll() ([]model.Warehouse, error)
	FindByID(id uuid.UUID) (*model.Warehouse, error)
	FindByCode(code string) (*model.Warehouse, error)
	Update(warehouse *model.Warehouse) error
	Delete(id uuid.UUID, deletedBy string) error
}

type warehouseRepo struct {
	db        *gorm.DB
	batchRepo BatchRepository
}

func NewWarehouseRepo(db *gorm.DB, batchRepo BatchRepository) WarehouseRepository {
	return &warehouseRepo{db: db, batchRepo: batchRepo}
}

func (r *warehouseRepo) Create(warehouse *model.Warehouse) error {
	existing, _ := r.FindByCode(warehouse.Code)
	if existing != nil {
		return apperr.Conflict("warehouse code %s already exists", warehouse.Code)
	}
	return r.db.Create(warehouse).Error
}

func (r *warehouseRepo) FindAll() ([]model.Warehouse, error) {
	var warehouses []model.Warehouse
	err := r.db.Order("name ASC").Find(&warehouses).Error
	return warehouses, err
}

func (r *warehouseRepo) FindByID(id uuid.UUID) (*model.Warehouse, error) {
	var warehouse model.Warehouse
	err := r.db.First(&warehouse, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("warehouse %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &warehouse, nil
}

func (r *warehouseRepo) FindByCode(code string) (*model.Warehouse, error) {
	var warehouse model.Warehouse
	err := r.db.First(&warehouse, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("warehouse %s", code)
	}
	if err != nil {
		return nil, err
	}
	return &warehouse, nil
}

func (r *warehouseRepo) Update(warehouse *model.Warehouse) error {
	return r.db.Save(warehouse).Error
}

// Delete refuses while any batch at the warehouse still holds stock.
func (r *warehouseRepo) Delete(id uuid.UUID, deletedBy string) error {
	if _, err := r.FindByID(id); err != nil {
		return err
	}

	hasStock, err := r.batchRepo.WarehouseHasStock(id)
	if err != nil {
		return err
	}
	if hasStock {
		return apperr.Conflict("warehouse holds batches with available stock")
	}

	if err := r.db.Model(&model.Warehouse{}).Where("id = ?", id).Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.Delete(&model.Warehouse{}, "id = ?", id).Error
}
