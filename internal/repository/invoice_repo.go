package repository

import (
	"errors"
	"fmt"
	"time"

	"go-inventory-gst/internal/apperr"
	"go-inventory-gst/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	CustomerID *uuid.UUID
	FromDate   *time.Time
	ToDate     *time.Time
	RecentOnly bool // last 7 days, capped at 10 rows
}

// GSTRow is one invoice line in the GST report, at line grain.
type GSTRow struct {
	InvoiceNumber string    `json:"invoice_number"`
	InvoiceDate   time.Time `json:"invoice_date"`
	CustomerName  string    `json:"customer_name"`
	CustomerGSTIN string    `json:"customer_gstin"`
	State         string    `json:"state"`
	StateCode     string    `json:"state_code"`
	ProductName   string    `json:"product_name"`
	HSNCode       string    `json:"hsn_code"`
	Qty           string    `json:"quantity"`
	UnitPrice     string    `json:"rate"`
	TaxableValue  string    `json:"taxable_amount"`
	TaxRate       string    `json:"tax_rate"`
	CGSTAmount    string    `json:"cgst_amount"`
	SGSTAmount    string    `json:"sgst_amount"`
	IGSTAmount    string    `json:"igst_amount"`
}

type InvoiceRepository interface {
	// NextInvoiceNumber allocates the next number for the year under the
	// caller's transaction. The sequence row is locked so two concurrent
	// invoice creations cannot observe the same value.
	NextInvoiceNumber(tx *gorm.DB, year int) (string, error)

	Create(tx *gorm.DB, invoice *model.SalesInvoice) error
	FindByID(id uuid.UUID) (*model.SalesInvoice, error)
	FindAll(filter InvoiceFilter) ([]model.SalesInvoice, error)
	GSTRows(fromDate, toDate time.Time, stateCode string) ([]GSTRow, error)
}

type invoiceRepo struct {
	db *gorm.DB
}

func NewInvoiceRepo(db *gorm.DB) InvoiceRepository {
	return &invoiceRepo{db}
}

// FormatInvoiceNumber renders the canonical number, e.g. INV-2025-0007.
func FormatInvoiceNumber(year, seq int) string {
	return fmt.Sprintf("INV-%d-%04d", year, seq)
}

func (r *invoiceRepo) NextInvoiceNumber(tx *gorm.DB, year int) (string, error) {
	// Ensure the year row exists, then lock it. The insert is a no-op when
	// another transaction created the row first.
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.InvoiceSequence{Year: year, LastSeq: 0}).Error; err != nil {
		return "", err
	}

	var seq model.InvoiceSequence
	if err := lockedFirst(tx, &seq, "year = ?", year).Error; err != nil {
		return "", err
	}

	seq.LastSeq++
	if err := tx.Model(&model.InvoiceSequence{}).
		Where("year = ?", year).
		Update("last_seq", seq.LastSeq).Error; err != nil {
		return "", err
	}

	return FormatInvoiceNumber(year, seq.LastSeq), nil
}

func (r *invoiceRepo) Create(tx *gorm.DB, invoice *model.SalesInvoice) error {
	return tx.Create(invoice).Error
}

func (r *invoiceRepo) FindByID(id uuid.UUID) (*model.SalesInvoice, error) {
	var invoice model.SalesInvoice
	err := r.db.
		Preload("Customer").
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.Batch").
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("invoice %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepo) FindAll(filter InvoiceFilter) ([]model.SalesInvoice, error) {
	q := r.db.Preload("Customer")

	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.FromDate != nil {
		q = q.Where("invoice_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		q = q.Where("invoice_date <= ?", *filter.ToDate)
	}
	if filter.RecentOnly {
		q = q.Where("created_at >= ?", time.Now().AddDate(0, 0, -7)).Limit(10)
	}

	var invoices []model.SalesInvoice
	err := q.Order("invoice_date DESC, created_at DESC").Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepo) GSTRows(fromDate, toDate time.Time, stateCode string) ([]GSTRow, error) {
	q := r.db.Table("sales_invoice_items sii").
		Select(`
			si.invoice_number,
			si.invoice_date,
			c.name as customer_name,
			c.gstin as customer_gstin,
			c.state,
			si.state_code,
			p.name as product_name,
			p.hsn_code,
			sii.qty,
			sii.unit_price,
			sii.taxable_value,
			sii.tax_rate,
			sii.cgst_amount,
			sii.sgst_amount,
			sii.igst_amount
		`).
		Joins("INNER JOIN sales_invoices si ON si.id = sii.sales_invoice_id").
		Joins("INNER JOIN customers c ON c.id = si.customer_id").
		Joins("INNER JOIN products p ON p.id = sii.product_id").
		Where("si.invoice_date BETWEEN ? AND ?", fromDate, toDate).
		Where("si.deleted_at IS NULL AND sii.deleted_at IS NULL")

	if stateCode != "" {
		q = q.Where("si.state_code = ?", stateCode)
	}

	var rows []GSTRow
	err := q.Order("si.invoice_date ASC, si.invoice_number ASC").Scan(&rows).Error
	return rows, err
}
