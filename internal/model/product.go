package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	SKU            string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name           string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description    string          `gorm:"type:text" json:"description"`
	HSNCode        string          `gorm:"type:varchar(20);column:hsn_code" json:"hsn_code"`
	Unit           string          `gorm:"type:varchar(20)" json:"unit"`
	DefaultTaxRate decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"default_tax_rate"`
	CostPrice      decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"cost_price"`
	SellingPrice   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"selling_price"`
	MinStock       decimal.Decimal `gorm:"type:decimal(12,3);default:0" json:"min_stock"` // overrides the global low-stock threshold when > 0

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	UpdatedByUserID *string `gorm:"type:varchar(255)" json:"updated_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
	UpdatedByUser   *User   `gorm:"foreignKey:UpdatedByUserID;references:ID" json:"updated_by_user,omitempty"`

	// Relasi
	Batches []Batch `json:"batches,omitempty"`
}

// ProductWithStock is a product row plus its summed batch availability.
type ProductWithStock struct {
	Product
	TotalStock decimal.Decimal `json:"total_stock"`
}
