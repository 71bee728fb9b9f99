package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesInvoice is created atomically with its items and one OUT movement
// per item. State code is snapshotted from the customer at creation time.
type SalesInvoice struct {
	BaseModel
	InvoiceNumber string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoice_number"`
	CustomerID    uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer      *Customer `json:"customer,omitempty"`

	BillingAddress  string    `gorm:"type:text" json:"billing_address"`
	ShippingAddress string    `gorm:"type:text" json:"shipping_address"`
	InvoiceDate     time.Time `gorm:"type:date;not null;index" json:"invoice_date"`

	TaxableValue decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"taxable_value"`
	CGSTAmount   decimal.Decimal `gorm:"type:decimal(14,2);not null;column:cgst_amount" json:"cgst_amount"`
	SGSTAmount   decimal.Decimal `gorm:"type:decimal(14,2);not null;column:sgst_amount" json:"sgst_amount"`
	IGSTAmount   decimal.Decimal `gorm:"type:decimal(14,2);not null;column:igst_amount" json:"igst_amount"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_amount"`
	StateCode    string          `gorm:"type:varchar(5)" json:"state_code"`

	Items []SalesInvoiceItem `gorm:"foreignKey:SalesInvoiceID" json:"items,omitempty"`
}

func (SalesInvoice) TableName() string {
	return "sales_invoices"
}

type SalesInvoiceItem struct {
	BaseModel
	SalesInvoiceID uuid.UUID `gorm:"type:uuid;not null;index" json:"sales_invoice_id"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	Product        *Product  `json:"product,omitempty"`
	BatchID        uuid.UUID `gorm:"type:uuid;not null" json:"batch_id"`
	Batch          *Batch    `json:"batch,omitempty"`

	Qty          decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"qty"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TaxableValue decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"taxable_value"`
	TaxRate      decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"tax_rate"`
	CGSTAmount   decimal.Decimal `gorm:"type:decimal(14,2);not null;column:cgst_amount" json:"cgst_amount"`
	SGSTAmount   decimal.Decimal `gorm:"type:decimal(14,2);not null;column:sgst_amount" json:"sgst_amount"`
	IGSTAmount   decimal.Decimal `gorm:"type:decimal(14,2);not null;column:igst_amount" json:"igst_amount"`
}

func (SalesInvoiceItem) TableName() string {
	return "sales_invoice_items"
}

// InvoiceSequence is the per-calendar-year counter backing invoice number
// allocation. The row is locked FOR UPDATE inside the invoice transaction
// so concurrent creations cannot collide.
type InvoiceSequence struct {
	Year    int `gorm:"primaryKey" json:"year"`
	LastSeq int `gorm:"not null;default:0" json:"last_seq"`
}

func (InvoiceSequence) TableName() string {
	return "invoice_sequences"
}
