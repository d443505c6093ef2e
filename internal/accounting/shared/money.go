package shared

import "github.com/shopspring/decimal"

// BalanceTolerance is the largest debit/credit drift tolerated on an
// assembled journal entry, one paisa.
var BalanceTolerance = decimal.New(1, -2)

// RoundMoney normalises a monetary amount to two decimal places.
// Quantities and rates keep four places internally; only amounts that
// land in journals or documents pass through here.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
