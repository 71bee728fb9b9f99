package repository

import (
	"errors"

	"go-inventory-gst/internal/apperr"
	"go-inventory-gst/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(customer *model.Customer) error
	FindAll() ([]model.CustomerWithBusiness, error)
	FindByID(id uuid.UUID) (*model.Customer, error)
	Search(term string) ([]model.Customer, error)
	Update(customer *model.Customer) error
	Delete(id uuid.UUID, deletedBy string) error
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) Create(customer *model.Customer) error {
	return r.db.Create(customer).Error
}

func (r *customerRepo) FindAll() ([]model.CustomerWithBusiness, error) {
	var customers []model.Customer
	if err := r.db.Order("name ASC").Find(&customers).Error; err != nil {
		return nil, err
	}

	type bizRow struct {
		CustomerID    uuid.UUID
		TotalInvoices int64
		TotalBusiness float64
	}
	var rows []bizRow
	if err := r.db.Model(&model.SalesInvoice{}).
		Select("customer_id, COUNT(id) as total_invoices, COALESCE(SUM(total_amount), 0) as total_business").
		Group("customer_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	biz := make(map[uuid.UUID]bizRow, len(rows))
	for _, row := range rows {
		biz[row.CustomerID] = row
	}

	result := make([]model.CustomerWithBusiness, 0, len(customers))
	for _, c := range customers {
		cb := model.CustomerWithBusiness{Customer: c}
		if row, ok := biz[c.ID]; ok {
			cb.TotalInvoices = row.TotalInvoices
			cb.TotalBusiness = row.TotalBusiness
		}
		result = append(result, cb)
	}
	return result, nil
}

func (r *customerRepo) FindByID(id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("customer %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) Search(term string) ([]model.Customer, error) {
	var customers []model.Customer
	like := "%" + term + "%"
	err := r.db.
		Where("name ILIKE ? OR gstin ILIKE ? OR phone ILIKE ?", like, like, like).
		Order("name ASC").
		Limit(20).
		Find(&customers).Error
	return customers, err
}

func (r *customerRepo) Update(customer *model.Customer) error {
	return r.db.Save(customer).Error
}

func (r *customerRepo) Delete(id uuid.UUID, deletedBy string) error {
	if _, err := r.FindByID(id); err != nil {
		return err
	}
	if err := r.db.Model(&model.Customer{}).Where("id = ?", id).Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.Delete(&model.Customer{}, "id = ?", id).Error
}
