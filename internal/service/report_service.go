package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"go-inventory-gst/internal/apperr"
	"go-inventory-gst/internal/repository"
	"go-inventory-gst/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// gstCSVHeader is the fixed column layout of the GST report export.
var gstCSVHeader = []string{
	"Invoice Number", "Invoice Date", "Customer Name", "Customer GSTIN",
	"State", "Product Name", "HSN Code", "Quantity", "Rate",
	"Taxable Amount", "CGST Rate", "SGST Rate", "IGST Rate",
	"CGST Amount", "SGST Amount", "IGST Amount", "Total Tax", "Total Amount",
}

// GSTReportLine is one exported row with the per-line rate split resolved.
type GSTReportLine struct {
	repository.GSTRow
	CGSTRate    string `json:"cgst_rate"`
	SGSTRate    string `json:"sgst_rate"`
	IGSTRate    string `json:"igst_rate"`
	TotalTax    string `json:"total_tax"`
	TotalAmount string `json:"total_amount"`
}

type GSTReportSummary struct {
	FromDate     time.Time `json:"from_date"`
	ToDate       time.Time `json:"to_date"`
	StateCode    string    `json:"state_code,omitempty"`
	InvoiceCount int       `json:"invoice_count"`
	LineCount    int       `json:"line_count"`
	TaxableValue string    `json:"taxable_value"`
	TotalCGST    string    `json:"total_cgst"`
	TotalSGST    string    `json:"total_sgst"`
	TotalIGST    string    `json:"total_igst"`
	TotalTax     string    `json:"total_tax"`
	TotalAmount  string    `json:"total_amount"`
}

type GSTReport struct {
	Summary GSTReportSummary `json:"summary"`
	Rows    []GSTReportLine  `json:"rows"`
}

type StateInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type ReportService interface {
	GSTReport(fromDate, toDate time.Time, stateCode string) (*GSTReport, error)
	GSTReportCSV(fromDate, toDate time.Time, stateCode string) ([]byte, error)
	GSTReportXLSX(fromDate, toDate time.Time, stateCode string) ([]byte, error)
	States() []StateInfo
}

type reportService struct {
	invoiceRepo repository.InvoiceRepository
}

func NewReportService(iRepo repository.InvoiceRepository) ReportService {
	return &reportService{invoiceRepo: iRepo}
}

func (s *reportService) GSTReport(fromDate, toDate time.Time, stateCode string) (*GSTReport, error) {
	if toDate.Before(fromDate) {
		return nil, apperr.Validation("to_date cannot be before from_date")
	}

	rows, err := s.invoiceRepo.GSTRows(fromDate, toDate, stateCode)
	if err != nil {
		logger.LogError("report", "GSTReport", err)
		return nil, apperr.Internal("failed to load GST rows")
	}

	report := &GSTReport{
		Summary: GSTReportSummary{
			FromDate:  fromDate,
			ToDate:    toDate,
			StateCode: stateCode,
		},
		Rows: make([]GSTReportLine, 0, len(rows)),
	}

	var taxable, cgst, sgst, igst decimal.Decimal
	invoices := map[string]struct{}{}

	for _, row := range rows {
		line, err := buildReportLine(row)
		if err != nil {
			logger.LogError("report", "GSTReport", err)
			return nil, apperr.Internal("malformed amount on invoice %s", row.InvoiceNumber)
		}
		report.Rows = append(report.Rows, line)
		invoices[row.InvoiceNumber] = struct{}{}

		taxable = taxable.Add(mustDecimal(row.TaxableValue))
		cgst = cgst.Add(mustDecimal(row.CGSTAmount))
		sgst = sgst.Add(mustDecimal(row.SGSTAmount))
		igst = igst.Add(mustDecimal(row.IGSTAmount))
	}

	totalTax := cgst.Add(sgst).Add(igst)
	report.Summary.InvoiceCount = len(invoices)
	report.Summary.LineCount = len(rows)
	report.Summary.TaxableValue = taxable.StringFixed(2)
	report.Summary.TotalCGST = cgst.StringFixed(2)
	report.Summary.TotalSGST = sgst.StringFixed(2)
	report.Summary.TotalIGST = igst.StringFixed(2)
	report.Summary.TotalTax = totalTax.StringFixed(2)
	report.Summary.TotalAmount = taxable.Add(totalTax).StringFixed(2)

	return report, nil
}

func (s *reportService) GSTReportCSV(fromDate, toDate time.Time, stateCode string) ([]byte, error) {
	report, err := s.GSTReport(fromDate, toDate, stateCode)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(gstCSVHeader); err != nil {
		return nil, apperr.Internal("failed to write CSV header")
	}
	for _, line := range report.Rows {
		if err := w.Write(lineToRecord(line)); err != nil {
			return nil, apperr.Internal("failed to write CSV row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperr.Internal("failed to flush CSV")
	}
	return buf.Bytes(), nil
}

func (s *reportService) GSTReportXLSX(fromDate, toDate time.Time, stateCode string) ([]byte, error) {
	report, err := s.GSTReport(fromDate, toDate, stateCode)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "GST Report"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, apperr.Internal("failed to create sheet")
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})

	for col, title := range gstCSVHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(gstCSVHeader), 1)
	f.SetCellStyle(sheet, "A1", lastHeader, headerStyle)

	for i, line := range report.Rows {
		record := lineToRecord(line)
		for col, value := range record {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	// Totals row below the data.
	totalsRow := len(report.Rows) + 3
	set := func(col int, value interface{}) {
		cell, _ := excelize.CoordinatesToCellName(col, totalsRow)
		f.SetCellValue(sheet, cell, value)
	}
	set(1, "TOTALS")
	set(10, report.Summary.TaxableValue)
	set(14, report.Summary.TotalCGST)
	set(15, report.Summary.TotalSGST)
	set(16, report.Summary.TotalIGST)
	set(17, report.Summary.TotalTax)
	set(18, report.Summary.TotalAmount)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		logger.LogError("report", "GSTReportXLSX", err)
		return nil, apperr.Internal("failed to write workbook")
	}
	return buf.Bytes(), nil
}

func (s *reportService) States() []StateInfo {
	return indianStates
}

func buildReportLine(row repository.GSTRow) (GSTReportLine, error) {
	rate, err := decimal.NewFromString(row.TaxRate)
	if err != nil {
		return GSTReportLine{}, fmt.Errorf("tax_rate %q: %w", row.TaxRate, err)
	}
	cgstAmt := mustDecimal(row.CGSTAmount)
	sgstAmt := mustDecimal(row.SGSTAmount)
	igstAmt := mustDecimal(row.IGSTAmount)
	taxable := mustDecimal(row.TaxableValue)

	line := GSTReportLine{GSTRow: row}

	zero := decimal.Zero.StringFixed(2)
	if igstAmt.IsPositive() {
		line.CGSTRate = zero
		line.SGSTRate = zero
		line.IGSTRate = rate.StringFixed(2)
	} else {
		half := rate.Div(decimal.NewFromInt(2))
		line.CGSTRate = half.StringFixed(2)
		line.SGSTRate = half.StringFixed(2)
		line.IGSTRate = zero
	}

	totalTax := cgstAmt.Add(sgstAmt).Add(igstAmt)
	line.TotalTax = totalTax.StringFixed(2)
	line.TotalAmount = taxable.Add(totalTax).StringFixed(2)
	return line, nil
}

func lineToRecord(line GSTReportLine) []string {
	return []string{
		line.InvoiceNumber,
		line.InvoiceDate.Format("2006-01-02"),
		line.CustomerName,
		line.CustomerGSTIN,
		line.State,
		line.ProductName,
		line.HSNCode,
		line.Qty,
		line.UnitPrice,
		line.TaxableValue,
		line.CGSTRate,
		line.SGSTRate,
		line.IGSTRate,
		line.CGSTAmount,
		line.SGSTAmount,
		line.IGSTAmount,
		line.TotalTax,
		line.TotalAmount,
	}
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// indianStates maps GST state codes to state names.
var indianStates = []StateInfo{
	{"01", "Jammu and Kashmir"},
	{"02", "Himachal Pradesh"},
	{"03", "Punjab"},
	{"04", "Chandigarh"},
	{"05", "Uttarakhand"},
	{"06", "Haryana"},
	{"07", "Delhi"},
	{"08", "Rajasthan"},
	{"09", "Uttar Pradesh"},
	{"10", "Bihar"},
	{"11", "Sikkim"},
	{"12", "Arunachal Pradesh"},
	{"13", "Nagaland"},
	{"14", "Manipur"},
	{"15", "Mizoram"},
	{"16", "Tripura"},
	{"17", "Meghalaya"},
	{"18", "Assam"},
	{"19", "West Bengal"},
	{"20", "Jharkhand"},
	{"21", "Odisha"},
	{"22", "Chhattisgarh"},
	{"23", "Madhya Pradesh"},
	{"24", "Gujarat"},
	{"26", "Dadra and Nagar Haveli and Daman and Diu"},
	{"27", "Maharashtra"},
	{"29", "Karnataka"},
	{"30", "Goa"},
	{"31", "Lakshadweep"},
	{"32", "Kerala"},
	{"33", "Tamil Nadu"},
	{"34", "Puducherry"},
	{"35", "Andaman and Nicobar Islands"},
	{"36", "Telangana"},
	{"37", "Andhra Pradesh"},
	{"38", "Ladakh"},
}
