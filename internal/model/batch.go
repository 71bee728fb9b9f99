package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationPolicy controls the order in which batches are picked for stock issue.
type AllocationPolicy string

const (
	PolicyFIFO AllocationPolicy = "FIFO"
	PolicyFEFO AllocationPolicy = "FEFO"
	PolicyLIFO AllocationPolicy = "LIFO"
)

// ParseAllocationPolicy returns the policy for s, defaulting to FIFO for
// an empty string.
func ParseAllocationPolicy(s string) (AllocationPolicy, bool) {
	switch AllocationPolicy(s) {
	case "":
		return PolicyFIFO, true
	case PolicyFIFO, PolicyFEFO, PolicyLIFO:
		return AllocationPolicy(s), true
	}
	return "", false
}

// Batch is a received lot of a product at a warehouse.
// QtyReceived is a historical fact and never changes; QtyAvailable is
// mutated exclusively through the movement recorder path.
type Batch struct {
	BaseModel
	ProductID   uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_batches_product_no,where:deleted_at IS NULL" json:"product_id" validate:"uuid_required"`
	Product     *Product   `json:"product,omitempty" validate:"-"`
	WarehouseID uuid.UUID  `gorm:"type:uuid;not null;index" json:"warehouse_id" validate:"uuid_required"`
	Warehouse   *Warehouse `json:"warehouse,omitempty" validate:"-"`

	BatchNo           string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_batches_product_no,where:deleted_at IS NULL" json:"batch_no" validate:"required"`
	ManufacturingDate *time.Time      `gorm:"type:date" json:"manufacturing_date,omitempty"`
	ExpiryDate        *time.Time      `gorm:"type:date" json:"expiry_date,omitempty"`
	QtyReceived       decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"qty_received"`
	QtyAvailable      decimal.Decimal `gorm:"type:decimal(12,3);not null;check:qty_available >= 0" json:"qty_available"`
}

// DaysToExpiry returns whole days until expiry, or -1 when no expiry date is set.
func (b *Batch) DaysToExpiry(now time.Time) int {
	if b.ExpiryDate == nil {
		return -1
	}
	return int(b.ExpiryDate.Sub(now).Hours() / 24)
}
