package service

import (
	"strings"

	"go-inventory-gst/internal/apperr"
	"go-inventory-gst/internal/model"
	"go-inventory-gst/internal/repository"
	"go-inventory-gst/pkg/logger"
	"go-inventory-gst/pkg/validator"

	"github.com/google/uuid"
)

type CustomerService interface {
	CreateCustomer(customer *model.Customer, userID string) error
	GetAllCustomers() ([]model.CustomerWithBusiness, error)
	GetCustomerByID(id uuid.UUID) (*model.Customer, error)
	SearchCustomers(term string) ([]model.Customer, error)
	UpdateCustomer(id uuid.UUID, req *model.Customer, userID string) (*model.Customer, error)
	DeleteCustomer(id uuid.UUID, userID string) error
}

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(cRepo repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: cRepo}
}

func (s *customerService) CreateCustomer(customer *model.Customer, userID string) error {
	customer.GSTIN = strings.ToUpper(strings.TrimSpace(customer.GSTIN))
	if errs := validator.ValidateStruct(customer); len(errs) > 0 {
		firstErr := errs[0]
		return apperr.Validation("field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	customer.CreatedBy = userID
	customer.UpdatedBy = userID

	if err := s.customerRepo.Create(customer); err != nil {
		logger.LogError("customer", "CreateCustomer", err)
		return apperr.Internal("failed to create customer")
	}
	return nil
}

func (s *customerService) GetAllCustomers() ([]model.CustomerWithBusiness, error) {
	return s.customerRepo.FindAll()
}

func (s *customerService) GetCustomerByID(id uuid.UUID) (*model.Customer, error) {
	return s.customerRepo.FindByID(id)
}

func (s *customerService) SearchCustomers(term string) ([]model.Customer, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperr.Validation("search term is required")
	}
	return s.customerRepo.Search(term)
}

func (s *customerService) UpdateCustomer(id uuid.UUID, req *model.Customer, userID string) (*model.Customer, error) {
	existing, err := s.customerRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.GSTIN = strings.ToUpper(strings.TrimSpace(req.GSTIN))
	existing.Phone = req.Phone
	existing.Email = req.Email
	existing.Address = req.Address
	existing.City = req.City
	existing.State = req.State
	existing.StateCode = req.StateCode
	existing.Pincode = req.Pincode
	existing.UpdatedBy = userID

	if errs := validator.ValidateStruct(existing); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.Validation("field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if err := s.customerRepo.Update(existing); err != nil {
		logger.LogError("customer", "UpdateCustomer", err)
		return nil, apperr.Internal("failed to update customer")
	}
	return existing, nil
}

func (s *customerService) DeleteCustomer(id uuid.UUID, userID string) error {
	return s.customerRepo.Delete(id, userID)
}
