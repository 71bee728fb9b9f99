package repository

import (
	"errors"
	"time"

	"go-inventory-gst/internal/apperr"
	"go-inventory-gst/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LowStockRow is a (product, warehouse) pair at or below its threshold.
type LowStockRow struct {
	ProductID     uuid.UUID `json:"product_id"`
	WarehouseID   uuid.UUID `json:"warehouse_id"`
	ProductName   string    `json:"product_name"`
	SKU           string    `json:"sku"`
	WarehouseName string    `json:"warehouse_name"`
	QtyAvailable  string    `json:"qty_available"`
	Threshold     string    `json:"threshold"`
}

type AlertRepository interface {
	Create(alert *model.Alert) error
	FindAll() ([]model.Alert, error)
	FindByID(id uuid.UUID) (*model.Alert, error)
	Update(alert *model.Alert) error
	Delete(id uuid.UUID, deletedBy string) error

	// SetTriggered records a trigger-state transition for a rule.
	SetTriggered(id uuid.UUID, triggered bool, at time.Time) error

	// LowStock returns pairs whose summed availability is at or below the
	// product's min_stock, falling back to defaultThreshold when unset.
	LowStock(defaultThreshold string) ([]LowStockRow, error)

	// PairAvailability sums qty_available for one (product, warehouse) pair.
	PairAvailability(productID, warehouseID uuid.UUID) (string, error)
}

type alertRepo struct {
	db *gorm.DB
}

func NewAlertRepo(db *gorm.DB) AlertRepository {
	return &alertRepo{db}
}

func (r *alertRepo) Create(alert *model.Alert) error {
	return r.db.Create(alert).Error
}

func (r *alertRepo) FindAll() ([]model.Alert, error) {
	var alerts []model.Alert
	err := r.db.Preload("Product").Preload("Warehouse").Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}

func (r *alertRepo) FindByID(id uuid.UUID) (*model.Alert, error) {
	var alert model.Alert
	err := r.db.Preload("Product").Preload("Warehouse").First(&alert, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("alert %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *alertRepo) Update(alert *model.Alert) error {
	return r.db.Save(alert).Error
}

func (r *alertRepo) Delete(id uuid.UUID, deletedBy string) error {
	if _, err := r.FindByID(id); err != nil {
		return err
	}
	if err := r.db.Model(&model.Alert{}).Where("id = ?", id).Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.Delete(&model.Alert{}, "id = ?", id).Error
}

func (r *alertRepo) SetTriggered(id uuid.UUID, triggered bool, at time.Time) error {
	updates := map[string]interface{}{"triggered": triggered}
	if triggered {
		updates["last_triggered_at"] = at
	}
	return r.db.Model(&model.Alert{}).Where("id = ?", id).Updates(updates).Error
}

func (r *alertRepo) LowStock(defaultThreshold string) ([]LowStockRow, error) {
	var rows []LowStockRow
	err := r.db.Raw(`
		SELECT
			b.product_id,
			b.warehouse_id,
			p.name as product_name,
			p.sku,
			w.name as warehouse_name,
			SUM(b.qty_available) as qty_available,
			COALESCE(NULLIF(p.min_stock, 0), ?) as threshold
		FROM batches b
		INNER JOIN products p ON p.id = b.product_id
		INNER JOIN warehouses w ON w.id = b.warehouse_id
		WHERE b.deleted_at IS NULL AND p.deleted_at IS NULL AND w.deleted_at IS NULL
		GROUP BY b.product_id, b.warehouse_id, p.name, p.sku, w.name, p.min_stock
		HAVING SUM(b.qty_available) <= COALESCE(NULLIF(p.min_stock, 0), ?)
		ORDER BY SUM(b.qty_available) ASC`,
		defaultThreshold, defaultThreshold).Scan(&rows).Error
	return rows, err
}

func (r *alertRepo) PairAvailability(productID, warehouseID uuid.UUID) (string, error) {
	var total string
	err := r.db.Model(&model.Batch{}).
		Select("COALESCE(SUM(qty_available), 0)").
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		Scan(&total).Error
	return total, err
}
