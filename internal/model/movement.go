package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MovementType string

const (
	MovementIn       MovementType = "IN"
	MovementOut      MovementType = "OUT"
	MovementTransfer MovementType = "TRANSFER"
	MovementAdjust   MovementType = "ADJUST"
)

// Reference types linking a movement back to its originating document.
const (
	RefInvoice      = "invoice"
	RefBatchReceipt = "batch_receipt"
)

// StockMovement is the append-only inventory ledger entry. Rows are never
// updated or deleted after creation; they are the audit trail and the basis
// for stock valuation.
type StockMovement struct {
	BaseModel
	Type      MovementType `gorm:"type:varchar(10);column:movement_type;not null;index" json:"movement_type" validate:"required,oneof=IN OUT TRANSFER ADJUST"`
	ProductID uuid.UUID    `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   *Product     `json:"product,omitempty" validate:"-"`

	WarehouseFromID *uuid.UUID `gorm:"type:uuid;column:warehouse_from" json:"warehouse_from,omitempty"`
	WarehouseFrom   *Warehouse `gorm:"foreignKey:WarehouseFromID" json:"warehouse_from_detail,omitempty" validate:"-"`
	WarehouseToID   *uuid.UUID `gorm:"type:uuid;column:warehouse_to" json:"warehouse_to,omitempty"`
	WarehouseTo     *Warehouse `gorm:"foreignKey:WarehouseToID" json:"warehouse_to_detail,omitempty" validate:"-"`

	BatchID *uuid.UUID `gorm:"type:uuid;index" json:"batch_id,omitempty"`
	Batch   *Batch     `json:"batch,omitempty" validate:"-"`

	// Qty is positive for IN/OUT/TRANSFER; ADJUST carries a signed delta.
	Qty        decimal.Decimal  `gorm:"type:decimal(12,3);not null" json:"qty"`
	UnitCost   *decimal.Decimal `gorm:"type:decimal(12,2)" json:"unit_cost,omitempty"`
	TotalValue *decimal.Decimal `gorm:"type:decimal(14,2)" json:"total_value,omitempty"`

	ReferenceType string     `gorm:"type:varchar(50)" json:"reference_type,omitempty"`
	ReferenceID   *uuid.UUID `gorm:"type:uuid" json:"reference_id,omitempty"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
}

func (StockMovement) TableName() string {
	return "stock_movements"
}
