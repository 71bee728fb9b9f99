package repository

import (
	"errors"
	"time"

	"go-inventory-gst/internal/apperr"
	"go-inventory-gst/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovementFilter narrows movement listings.
type MovementFilter struct {
	ProductID   *uuid.UUID
	WarehouseID *uuid.UUID
	Type        *model.MovementType
	Limit       int
}

type MovementRepository interface {
	Create(tx *gorm.DB, movement *model.StockMovement) error
	FindAll(filter MovementFilter) ([]model.StockMovement, error)
	FindByID(id uuid.UUID) (*model.StockMovement, error)
	GetDailyFlow(startDate, endDate time.Time) ([]DailyFlow, error)
	GetDashboardStats(lowStockThreshold string) (*DashboardStats, error)
}

// DailyFlow is the per-day inbound/outbound series behind the dashboard chart.
type DailyFlow struct {
	Date     string `json:"date"`
	Inbound  string `json:"inbound"`
	Outbound string `json:"outbound"`
}

// DashboardStats is the overview block on the dashboard.
type DashboardStats struct {
	TotalProducts  int64   `json:"total_products"`
	LowStockCount  int64   `json:"low_stock_count"`
	TotalValuation float64 `json:"total_valuation"`
}

type movementRepo struct {
	db *gorm.DB
}

func NewMovementRepo(db *gorm.DB) MovementRepository {
	return &movementRepo{db}
}

func (r *movementRepo) Create(tx *gorm.DB, movement *model.StockMovement) error {
	return tx.Create(movement).Error
}

func (r *movementRepo) FindAll(filter MovementFilter) ([]model.StockMovement, error) {
	q := r.db.
		Preload("Product").
		Preload("Batch").
		Preload("WarehouseFrom").
		Preload("WarehouseTo").
		Preload("CreatedByUser")

	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.WarehouseID != nil {
		q = q.Where("warehouse_from = ? OR warehouse_to = ?", *filter.WarehouseID, *filter.WarehouseID)
	}
	if filter.Type != nil {
		q = q.Where("movement_type = ?", *filter.Type)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	var movements []model.StockMovement
	err := q.Order("created_at DESC").Limit(limit).Find(&movements).Error
	return movements, err
}

func (r *movementRepo) FindByID(id uuid.UUID) (*model.StockMovement, error) {
	var movement model.StockMovement
	err := r.db.
		Preload("Product").
		Preload("Batch").
		Preload("WarehouseFrom").
		Preload("WarehouseTo").
		Preload("CreatedByUser").
		First(&movement, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("stock movement %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &movement, nil
}

func (r *movementRepo) GetDailyFlow(startDate, endDate time.Time) ([]DailyFlow, error) {
	var results []DailyFlow

	rows, err := r.db.Model(&model.StockMovement{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN movement_type = 'IN' THEN qty ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN movement_type IN ('OUT', 'TRANSFER') THEN qty ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data DailyFlow
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}

func (r *movementRepo) GetDashboardStats(lowStockThreshold string) (*DashboardStats, error) {
	var stats DashboardStats

	if err := r.db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}

	// (product, warehouse) pairs at or below their threshold; a product's
	// min_stock overrides the global default when set.
	if err := r.db.Raw(`
		SELECT COUNT(*) FROM (
			SELECT b.product_id, b.warehouse_id
			FROM batches b
			INNER JOIN products p ON p.id = b.product_id
			WHERE b.deleted_at IS NULL AND p.deleted_at IS NULL
			GROUP BY b.product_id, b.warehouse_id, p.min_stock
			HAVING SUM(b.qty_available) <= COALESCE(NULLIF(p.min_stock, 0), ?)
		) low`, lowStockThreshold).Scan(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	if err := r.db.Raw(`
		SELECT COALESCE(SUM(b.qty_available * p.cost_price), 0)
		FROM batches b
		INNER JOIN products p ON p.id = b.product_id
		WHERE b.deleted_at IS NULL AND p.deleted_at IS NULL`).
		Scan(&stats.TotalValuation).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
