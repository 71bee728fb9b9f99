package repository

import (
	"errors"

	"go-inventory-gst/internal/apperr"
	"go-inventory-gst/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.ProductWithStock, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uuid.UUID, deletedBy string) error
	HasMovements(id uuid.UUID) (bool, error)
	HasInvoiceLines(id uuid.UUID) (bool, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

// FindAll returns products with their summed batch availability, the way
// the listing screens consume them.
func (r *productRepo) FindAll() ([]model.ProductWithStock, error) {
	var products []model.Product
	if err := r.db.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}

	type stockRow struct {
		ProductID  uuid.UUID
		TotalStock string
	}
	var rows []stockRow
	if err := r.db.Model(&model.Batch{}).
		Select("product_id, COALESCE(SUM(qty_available), 0) as total_stock").
		Group("product_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[uuid.UUID]string, len(rows))
	for _, row := range rows {
		totals[row.ProductID] = row.TotalStock
	}

	result := make([]model.ProductWithStock, 0, len(products))
	for _, p := range products {
		ws := model.ProductWithStock{Product: p}
		if s, ok := totals[p.ID]; ok {
			_ = ws.TotalStock.Scan(s)
		}
		result = append(result, ws)
	}
	return result, nil
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("product %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "sku = ?", sku).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(id uuid.UUID, deletedBy string) error {
	if err := r.db.Model(&model.Product{}).Where("id = ?", id).Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepo) HasMovements(id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.StockMovement{}).Where("product_id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *productRepo) HasInvoiceLines(id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.SalesInvoiceItem{}).Where("product_id = ?", id).Count(&count).Error
	return count > 0, err
}
