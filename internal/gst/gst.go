// Package gst implements India GST split computation for invoice lines.
// Intra-state sales split the tax rate evenly between CGST and SGST;
// inter-state sales carry the full rate as IGST.
package gst

import "github.com/shopspring/decimal"

var (
	oneHundred = decimal.NewFromInt(100)
	twoHundred = decimal.NewFromInt(200)
)

// LineTax holds the computed amounts for one invoice line, rounded to 2
// decimal places.
type LineTax struct {
	TaxableValue decimal.Decimal
	CGST         decimal.Decimal
	SGST         decimal.Decimal
	IGST         decimal.Decimal
}

// Total returns taxable value plus all tax components.
func (l LineTax) Total() decimal.Decimal {
	return l.TaxableValue.Add(l.CGST).Add(l.SGST).Add(l.IGST)
}

// ComputeLine computes the tax split for qty units at unitPrice with the
// given percentage rate. Division by 200 is half the rate expressed as a
// fraction of 100, so CGST and SGST together equal the full rate.
func ComputeLine(qty, unitPrice, ratePercent decimal.Decimal, intraState bool) LineTax {
	taxable := qty.Mul(unitPrice).Round(2)

	line := LineTax{
		TaxableValue: taxable,
		CGST:         decimal.Zero,
		SGST:         decimal.Zero,
		IGST:         decimal.Zero,
	}

	if intraState {
		half := taxable.Mul(ratePercent).Div(twoHundred).Round(2)
		line.CGST = half
		line.SGST = half
	} else {
		line.IGST = taxable.Mul(ratePercent).Div(oneHundred).Round(2)
	}

	return line
}

// Totals aggregates line computations into invoice-level amounts.
type Totals struct {
	TaxableValue decimal.Decimal
	CGST         decimal.Decimal
	SGST         decimal.Decimal
	IGST         decimal.Decimal
	TotalAmount  decimal.Decimal
}

func Sum(lines []LineTax) Totals {
	t := Totals{
		TaxableValue: decimal.Zero,
		CGST:         decimal.Zero,
		SGST:         decimal.Zero,
		IGST:         decimal.Zero,
	}
	for _, l := range lines {
		t.TaxableValue = t.TaxableValue.Add(l.TaxableValue)
		t.CGST = t.CGST.Add(l.CGST)
		t.SGST = t.SGST.Add(l.SGST)
		t.IGST = t.IGST.Add(l.IGST)
	}
	t.TotalAmount = t.TaxableValue.Add(t.CGST).Add(t.SGST).Add(t.IGST)
	return t
}

// HalfRate returns the CGST/SGST rate for an intra-state sale.
func HalfRate(ratePercent decimal.Decimal) decimal.Decimal {
	return ratePercent.Div(decimal.NewFromInt(2))
}
