package gst

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestComputeLine(t *testing.T) {
	tests := []struct {
		name       string
		qty        string
		unitPrice  string
		rate       string
		intraState bool
		taxable    string
		cgst       string
		sgst       string
		igst       string
		total      string
	}{
		{
			name: "intra-state 18 percent",
			qty:  "10", unitPrice: "100", rate: "18", intraState: true,
			taxable: "1000", cgst: "90", sgst: "90", igst: "0", total: "1180",
		},
		{
			name: "inter-state 18 percent",
			qty:  "10", unitPrice: "100", rate: "18", intraState: false,
			taxable: "1000", cgst: "0", sgst: "0", igst: "180", total: "1180",
		},
		{
			name: "intra-state 5 percent with odd half",
			qty:  "3", unitPrice: "33.33", rate: "5", intraState: true,
			taxable: "99.99", cgst: "2.5", sgst: "2.5", igst: "0", total: "104.99",
		},
		{
			name: "inter-state 12 percent rounding",
			qty:  "7", unitPrice: "14.99", rate: "12", intraState: false,
			taxable: "104.93", cgst: "0", sgst: "0", igst: "12.59", total: "117.52",
		},
		{
			name: "zero rate",
			qty:  "5", unitPrice: "20", rate: "0", intraState: true,
			taxable: "100", cgst: "0", sgst: "0", igst: "0", total: "100",
		},
		{
			name: "fractional qty",
			qty:  "2.5", unitPrice: "40", rate: "18", intraState: true,
			taxable: "100", cgst: "9", sgst: "9", igst: "0", total: "118",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := ComputeLine(d(tt.qty), d(tt.unitPrice), d(tt.rate), tt.intraState)

			if !line.TaxableValue.Equal(d(tt.taxable)) {
				t.Errorf("taxable = %s, want %s", line.TaxableValue, tt.taxable)
			}
			if !line.CGST.Equal(d(tt.cgst)) {
				t.Errorf("cgst = %s, want %s", line.CGST, tt.cgst)
			}
			if !line.SGST.Equal(d(tt.sgst)) {
				t.Errorf("sgst = %s, want %s", line.SGST, tt.sgst)
			}
			if !line.IGST.Equal(d(tt.igst)) {
				t.Errorf("igst = %s, want %s", line.IGST, tt.igst)
			}
			if !line.Total().Equal(d(tt.total)) {
				t.Errorf("total = %s, want %s", line.Total(), tt.total)
			}
		})
	}
}

func TestComputeLineIntraSplitIsSymmetric(t *testing.T) {
	// CGST and SGST must always be equal for intra-state lines.
	line := ComputeLine(d("13"), d("7.77"), d("28"), true)
	if !line.CGST.Equal(line.SGST) {
		t.Fatalf("cgst %s != sgst %s", line.CGST, line.SGST)
	}
	if !line.IGST.IsZero() {
		t.Fatalf("igst should be zero intra-state, got %s", line.IGST)
	}
}

func TestSum(t *testing.T) {
	lines := []LineTax{
		ComputeLine(d("10"), d("100"), d("18"), true),
		ComputeLine(d("2"), d("250"), d("12"), true),
	}

	totals := Sum(lines)

	if !totals.TaxableValue.Equal(d("1500")) {
		t.Errorf("taxable = %s, want 1500", totals.TaxableValue)
	}
	if !totals.CGST.Equal(d("120")) {
		t.Errorf("cgst = %s, want 120", totals.CGST)
	}
	if !totals.SGST.Equal(d("120")) {
		t.Errorf("sgst = %s, want 120", totals.SGST)
	}
	if !totals.IGST.IsZero() {
		t.Errorf("igst = %s, want 0", totals.IGST)
	}
	if !totals.TotalAmount.Equal(d("1740")) {
		t.Errorf("total = %s, want 1740", totals.TotalAmount)
	}
}

func TestSumEmpty(t *testing.T) {
	totals := Sum(nil)
	if !totals.TotalAmount.IsZero() {
		t.Fatalf("empty sum total = %s, want 0", totals.TotalAmount)
	}
}

func TestHalfRate(t *testing.T) {
	if got := HalfRate(d("18")); !got.Equal(d("9")) {
		t.Fatalf("half of 18 = %s, want 9", got)
	}
	if got := HalfRate(d("5")); !got.Equal(d("2.5")) {
		t.Fatalf("half of 5 = %s, want 2.5", got)
	}
}
