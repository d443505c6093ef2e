package tax

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxCode represents a GST tax configuration. Rate is the composite
// percentage; the split rates are optional and fall back to rate/2 for
// CGST/SGST and to the full rate for IGST when absent.
type TaxCode struct {
	ID        int64            `json:"id"`
	Code      string           `json:"code"`
	Name      string           `json:"name"`
	Rate      decimal.Decimal  `json:"rate"`
	CGSTRate  *decimal.Decimal `json:"cgst_rate,omitempty"`
	SGSTRate  *decimal.Decimal `json:"sgst_rate,omitempty"`
	IGSTRate  *decimal.Decimal `json:"igst_rate,omitempty"`
	CessRate  decimal.Decimal  `json:"cess_rate"`
	IsActive  bool             `json:"is_active"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
