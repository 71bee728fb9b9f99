package service

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"go-inventory-gst/internal/model"
	"go-inventory-gst/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeInvoiceRepo struct {
	rows []repository.GSTRow
}

func (f *fakeInvoiceRepo) NextInvoiceNumber(tx *gorm.DB, year int) (string, error) {
	return repository.FormatInvoiceNumber(year, 1), nil
}
func (f *fakeInvoiceRepo) Create(tx *gorm.DB, invoice *model.SalesInvoice) error { return nil }
func (f *fakeInvoiceRepo) FindByID(id uuid.UUID) (*model.SalesInvoice, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeInvoiceRepo) FindAll(filter repository.InvoiceFilter) ([]model.SalesInvoice, error) {
	return nil, nil
}
func (f *fakeInvoiceRepo) GSTRows(fromDate, toDate time.Time, stateCode string) ([]repository.GSTRow, error) {
	return f.rows, nil
}

func reportRows() []repository.GSTRow {
	date := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	return []repository.GSTRow{
		{
			InvoiceNumber: "INV-2025-0001",
			InvoiceDate:   date,
			CustomerName:  "Sharma Traders",
			CustomerGSTIN: "27AAAAA0000A1Z5",
			State:         "Maharashtra",
			StateCode:     "27",
			ProductName:   "Paracetamol 500mg",
			HSNCode:       "3004",
			Qty:           "10",
			UnitPrice:     "100",
			TaxableValue:  "1000",
			TaxRate:       "18",
			CGSTAmount:    "90",
			SGSTAmount:    "90",
			IGSTAmount:    "0",
		},
		{
			InvoiceNumber: "INV-2025-0002",
			InvoiceDate:   date,
			CustomerName:  "Delhi Pharma",
			CustomerGSTIN: "07BBBBB0000B1Z5",
			State:         "Delhi",
			StateCode:     "07",
			ProductName:   "Paracetamol 500mg",
			HSNCode:       "3004",
			Qty:           "5",
			UnitPrice:     "100",
			TaxableValue:  "500",
			TaxRate:       "18",
			CGSTAmount:    "0",
			SGSTAmount:    "0",
			IGSTAmount:    "90",
		},
	}
}

func TestGSTReportSummary(t *testing.T) {
	svc := NewReportService(&fakeInvoiceRepo{rows: reportRows()})

	from := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)

	report, err := svc.GSTReport(from, to, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := report.Summary
	if s.InvoiceCount != 2 {
		t.Errorf("invoice count = %d, want 2", s.InvoiceCount)
	}
	if s.LineCount != 2 {
		t.Errorf("line count = %d, want 2", s.LineCount)
	}
	if s.TaxableValue != "1500.00" {
		t.Errorf("taxable = %s, want 1500.00", s.TaxableValue)
	}
	if s.TotalCGST != "90.00" || s.TotalSGST != "90.00" || s.TotalIGST != "90.00" {
		t.Errorf("tax totals = %s/%s/%s, want 90.00 each", s.TotalCGST, s.TotalSGST, s.TotalIGST)
	}
	if s.TotalTax != "270.00" {
		t.Errorf("total tax = %s, want 270.00", s.TotalTax)
	}
	if s.TotalAmount != "1770.00" {
		t.Errorf("total amount = %s, want 1770.00", s.TotalAmount)
	}
}

func TestGSTReportRateSplit(t *testing.T) {
	svc := NewReportService(&fakeInvoiceRepo{rows: reportRows()})

	from := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)

	report, err := svc.GSTReport(from, to, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	intra := report.Rows[0]
	if intra.CGSTRate != "9.00" || intra.SGSTRate != "9.00" || intra.IGSTRate != "0.00" {
		t.Errorf("intra rates = %s/%s/%s, want 9.00/9.00/0.00", intra.CGSTRate, intra.SGSTRate, intra.IGSTRate)
	}
	if intra.TotalTax != "180.00" || intra.TotalAmount != "1180.00" {
		t.Errorf("intra totals = %s/%s, want 180.00/1180.00", intra.TotalTax, intra.TotalAmount)
	}

	inter := report.Rows[1]
	if inter.CGSTRate != "0.00" || inter.SGSTRate != "0.00" || inter.IGSTRate != "18.00" {
		t.Errorf("inter rates = %s/%s/%s, want 0.00/0.00/18.00", inter.CGSTRate, inter.SGSTRate, inter.IGSTRate)
	}
}

func TestGSTReportRejectsInvertedRange(t *testing.T) {
	svc := NewReportService(&fakeInvoiceRepo{})

	from := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	if _, err := svc.GSTReport(from, to, ""); err == nil {
		t.Fatal("expected error for inverted date range")
	}
}

func TestGSTReportCSV(t *testing.T) {
	svc := NewReportService(&fakeInvoiceRepo{rows: reportRows()})

	from := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)

	data, err := svc.GSTReportCSV(from, to, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}

	header := records[0]
	if len(header) != 18 {
		t.Fatalf("header has %d columns, want 18", len(header))
	}
	if header[0] != "Invoice Number" || header[17] != "Total Amount" {
		t.Errorf("unexpected header bounds: %q ... %q", header[0], header[17])
	}

	row := records[1]
	if row[0] != "INV-2025-0001" {
		t.Errorf("row invoice = %q", row[0])
	}
	if row[1] != "2025-04-10" {
		t.Errorf("row date = %q, want 2025-04-10", row[1])
	}
	if row[17] != "1180.00" {
		t.Errorf("row total = %q, want 1180.00", row[17])
	}
}

func TestStatesIncludesCommonCodes(t *testing.T) {
	svc := NewReportService(&fakeInvoiceRepo{})

	states := svc.States()
	if len(states) == 0 {
		t.Fatal("expected non-empty state list")
	}

	byCode := map[string]string{}
	for _, s := range states {
		byCode[s.Code] = s.Name
	}
	if byCode["27"] != "Maharashtra" {
		t.Errorf("code 27 = %q, want Maharashtra", byCode["27"])
	}
	if byCode["07"] != "Delhi" {
		t.Errorf("code 07 = %q, want Delhi", byCode["07"])
	}
}
