package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func gst18() *TaxCode {
	return &TaxCode{ID: 18, Code: "GST18", Rate: decimal.NewFromInt(18)}
}

func line(qty, price int64) LineInput {
	return LineInput{Quantity: decimal.NewFromInt(qty), UnitPrice: decimal.NewFromInt(price)}
}

func TestApportionIntrastateSplitsEvenly(t *testing.T) {
	amounts := Apportion(line(1, 1000), gst18(), false)

	require.Equal(t, "1000.00", amounts.TaxableValue.StringFixed(2))
	require.Equal(t, "90.00", amounts.CGST.StringFixed(2))
	require.Equal(t, "90.00", amounts.SGST.StringFixed(2))
	require.Equal(t, "0.00", amounts.IGST.StringFixed(2))
	require.Equal(t, "0.00", amounts.Cess.StringFixed(2))
	require.Equal(t, "1180.00", amounts.Total.StringFixed(2))
}

func TestApportionInterstateChargesIGST(t *testing.T) {
	amounts := Apportion(line(1, 1000), gst18(), true)

	require.Equal(t, "0.00", amounts.CGST.StringFixed(2))
	require.Equal(t, "0.00", amounts.SGST.StringFixed(2))
	require.Equal(t, "180.00", amounts.IGST.StringFixed(2))
	require.Equal(t, "1180.00", amounts.Total.StringFixed(2))
}

func TestApportionNilCodeIsTaxFree(t *testing.T) {
	amounts := Apportion(line(3, 250), nil, false)

	require.Equal(t, "750.00", amounts.TaxableValue.StringFixed(2))
	require.Equal(t, "750.00", amounts.Total.StringFixed(2))
	require.True(t, amounts.CGST.IsZero())
	require.True(t, amounts.IGST.IsZero())
}

func TestApportionAppliesDiscountBeforeTax(t *testing.T) {
	input := LineInput{
		Quantity:    decimal.NewFromInt(2),
		UnitPrice:   decimal.NewFromInt(500),
		DiscountPct: decimal.NewFromInt(10),
	}
	amounts := Apportion(input, gst18(), false)

	require.Equal(t, "900.00", amounts.TaxableValue.StringFixed(2))
	require.Equal(t, "81.00", amounts.CGST.StringFixed(2))
	require.Equal(t, "81.00", amounts.SGST.StringFixed(2))
	require.Equal(t, "1062.00", amounts.Total.StringFixed(2))
}

func TestApportionCessOnTopOfGST(t *testing.T) {
	code := &TaxCode{ID: 28, Code: "GST28C12", Rate: decimal.NewFromInt(28), CessRate: decimal.NewFromInt(12)}
	amounts := Apportion(line(1, 1000), code, false)

	require.Equal(t, "140.00", amounts.CGST.StringFixed(2))
	require.Equal(t, "140.00", amounts.SGST.StringFixed(2))
	require.Equal(t, "120.00", amounts.Cess.StringFixed(2))
	require.Equal(t, "1400.00", amounts.Total.StringFixed(2))

	interstate := Apportion(line(1, 1000), code, true)
	require.Equal(t, "280.00", interstate.IGST.StringFixed(2))
	require.Equal(t, "120.00", interstate.Cess.StringFixed(2))
	require.Equal(t, "1400.00", interstate.Total.StringFixed(2))
}

func TestApportionConfiguredSplitWins(t *testing.T) {
	cgst := decimal.RequireFromString("2.5")
	sgst := decimal.RequireFromString("2.5")
	code := &TaxCode{ID: 5, Code: "GST5", Rate: decimal.NewFromInt(5), CGSTRate: &cgst, SGSTRate: &sgst}
	amounts := Apportion(line(1, 200), code, false)

	require.Equal(t, "5.00", amounts.CGST.StringFixed(2))
	require.Equal(t, "5.00", amounts.SGST.StringFixed(2))
	require.Equal(t, "210.00", amounts.Total.StringFixed(2))
}

func TestApportionOddRateSplitsAtFourDecimals(t *testing.T) {
	// 0.25% composite splits into 0.125% halves; the rounding happens on
	// the final amounts, not the rate.
	code := &TaxCode{ID: 1, Code: "GST025", Rate: decimal.RequireFromString("0.25")}
	amounts := Apportion(line(1, 10000), code, false)

	require.Equal(t, "12.50", amounts.CGST.StringFixed(2))
	require.Equal(t, "12.50", amounts.SGST.StringFixed(2))
	require.Equal(t, "10025.00", amounts.Total.StringFixed(2))
}

func TestSumFoldsDocumentTotals(t *testing.T) {
	lines := []LineAmounts{
		Apportion(line(1, 1000), gst18(), false),
		Apportion(line(1, 500), nil, false),
	}
	totals := Sum(lines)

	require.Equal(t, "1500.00", totals.Subtotal.StringFixed(2))
	require.Equal(t, "90.00", totals.CGST.StringFixed(2))
	require.Equal(t, "90.00", totals.SGST.StringFixed(2))
	require.Equal(t, "1680.00", totals.GrandTotal.StringFixed(2))
}
