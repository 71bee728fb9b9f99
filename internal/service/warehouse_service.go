package service

import (
	"go-inventory-gst/internal/apperr"
	"go-inventory-gst/internal/model"
	"go-inventory-gst/internal/repository"
	"go-inventory-gst/pkg/logger"
	"go-inventory-gst/pkg/validator"

	"github.com/google/uuid"
)

type WarehouseService interface {
	CreateWarehouse(warehouse *model.Warehouse, userID string) error
	GetAllWarehouses() ([]model.Warehouse, error)
	GetWarehouseByID(id uuid.UUID) (*model.Warehouse, error)
	UpdateWarehouse(id uuid.UUID, req *model.Warehouse, userID string) (*model.Warehouse, error)
	DeleteWarehouse(id uuid.UUID, userID string) error
}

type warehouseService struct {
	warehouseRepo repository.WarehouseRepository
}

func NewWarehouseService(wRepo repository.WarehouseRepository) WarehouseService {
	return &warehouseService{warehouseRepo: wRepo}
}

func (s *warehouseService) CreateWarehouse(warehouse *model.Warehouse, userID string) error {
	if errs := validator.ValidateStruct(warehouse); len(errs) > 0 {
		firstErr := errs[0]
		return apperr.Validation("field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	warehouse.CreatedBy = userID
	warehouse.UpdatedBy = userID

	if err := s.warehouseRepo.Create(warehouse); err != nil {
		if apperr.Kind(err) != "internal" {
			return err
		}
		logger.LogError("warehouse", "CreateWarehouse", err)
		return apperr.Internal("failed to create warehouse")
	}
	return nil
}

func (s *warehouseService) GetAllWarehouses() ([]model.Warehouse, error) {
	return s.warehouseRepo.FindAll()
}

func (s *warehouseService) GetWarehouseByID(id uuid.UUID) (*model.Warehouse, error) {
	return s.warehouseRepo.FindByID(id)
}

// UpdateWarehouse edits the descriptive fields. The code is immutable once
// created because movements and batches point at it.
func (s *warehouseService) UpdateWarehouse(id uuid.UUID, req *model.Warehouse, userID string) (*model.Warehouse, error) {
	existing, err := s.warehouseRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.Address = req.Address
	existing.City = req.City
	existing.State = req.State
	existing.StateCode = req.StateCode
	existing.Pincode = req.Pincode
	existing.Phone = req.Phone
	existing.UpdatedBy = userID

	if err := s.warehouseRepo.Update(existing); err != nil {
		logger.LogError("warehouse", "UpdateWarehouse", err)
		return nil, apperr.Internal("failed to update warehouse")
	}
	return existing, nil
}

func (s *warehouseService) DeleteWarehouse(id uuid.UUID, userID string) error {
	return s.warehouseRepo.Delete(id, userID)
}
