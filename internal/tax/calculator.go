package tax

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// LineInput describes one document line before apportionment.
// Quantities, prices and percentages may carry up to four decimal
// places; output amounts are rounded to two.
type LineInput struct {
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	DiscountPct decimal.Decimal
}

// LineAmounts is the computed monetary breakdown of a single line.
type LineAmounts struct {
	TaxableValue decimal.Decimal
	CGST         decimal.Decimal
	SGST         decimal.Decimal
	IGST         decimal.Decimal
	Cess         decimal.Decimal
	Total        decimal.Decimal
}

// DocumentTotals aggregates line amounts for a document header.
type DocumentTotals struct {
	Subtotal   decimal.Decimal
	CGST       decimal.Decimal
	SGST       decimal.Decimal
	IGST       decimal.Decimal
	Cess       decimal.Decimal
	GrandTotal decimal.Decimal
}

// Apportion computes the net amount and GST breakdown for one line.
// Interstate supplies attract IGST only; intrastate supplies split into
// CGST and SGST. Cess applies either way. A nil code yields the net
// amount with zero tax.
func Apportion(line LineInput, code *TaxCode, interstate bool) LineAmounts {
	gross := line.Quantity.Mul(line.UnitPrice)
	discount := gross.Mul(line.DiscountPct).DivRound(hundred, 4)
	net := gross.Sub(discount).Round(2)

	amounts := LineAmounts{TaxableValue: net}
	if code == nil {
		amounts.Total = net
		return amounts
	}

	base := net.DivRound(hundred, 4)
	if interstate {
		amounts.IGST = base.Mul(igstRate(code)).Round(2)
	} else {
		amounts.CGST = base.Mul(cgstRate(code)).Round(2)
		amounts.SGST = base.Mul(sgstRate(code)).Round(2)
	}
	amounts.Cess = base.Mul(code.CessRate).Round(2)
	amounts.Total = net.Add(amounts.CGST).Add(amounts.SGST).Add(amounts.IGST).Add(amounts.Cess)
	return amounts
}

// Sum folds line amounts into document-level totals.
func Sum(lines []LineAmounts) DocumentTotals {
	var t DocumentTotals
	for _, l := range lines {
		t.Subtotal = t.Subtotal.Add(l.TaxableValue)
		t.CGST = t.CGST.Add(l.CGST)
		t.SGST = t.SGST.Add(l.SGST)
		t.IGST = t.IGST.Add(l.IGST)
		t.Cess = t.Cess.Add(l.Cess)
		t.GrandTotal = t.GrandTotal.Add(l.Total)
	}
	return t
}

// The configured split wins; otherwise CGST and SGST each take half the
// composite rate. Odd composite rates therefore split unevenly at the
// fourth decimal, matching how the rate masters are maintained.
func cgstRate(code *TaxCode) decimal.Decimal {
	if code.CGSTRate != nil {
		return *code.CGSTRate
	}
	return code.Rate.DivRound(two, 4)
}

func sgstRate(code *TaxCode) decimal.Decimal {
	if code.SGSTRate != nil {
		return *code.SGSTRate
	}
	return code.Rate.DivRound(two, 4)
}

func igstRate(code *TaxCode) decimal.Decimal {
	if code.IGSTRate != nil {
		return *code.IGSTRate
	}
	return code.Rate
}
