package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AlertType string

const (
	AlertLowStock AlertType = "low_stock"
	AlertExpiry   AlertType = "expiry"
)

// Alert is a configured alert rule for a (product, warehouse) pair.
// For low_stock the threshold is a quantity; for expiry it is a number of
// days before the expiry date. Triggered flips as stock levels cross the
// threshold on each evaluation pass.
type Alert struct {
	BaseModel
	Type        AlertType  `gorm:"type:varchar(20);not null" json:"type" validate:"required,oneof=low_stock expiry"`
	ProductID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product     *Product   `json:"product,omitempty" validate:"-"`
	WarehouseID uuid.UUID  `gorm:"type:uuid;not null;index" json:"warehouse_id" validate:"uuid_required"`
	Warehouse   *Warehouse `json:"warehouse,omitempty" validate:"-"`

	Threshold       decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"threshold"`
	Triggered       bool            `gorm:"default:false" json:"triggered"`
	LastTriggeredAt *time.Time      `json:"last_triggered_at,omitempty"`
}
