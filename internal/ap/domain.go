package ap

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill is a vendor bill. Amounts are computed from the lines at create
// time and never change afterwards; BalanceDue is the only monetary
// field that moves, and only downwards, as payments and debit notes are
// applied.
type Bill struct {
	ID             int64           `json:"id"`
	Number         string          `json:"number"`
	SupplierID     int64           `json:"supplier_id"`
	SupplierName   string          `json:"supplier_name,omitempty"`
	BillDate       time.Time       `json:"bill_date"`
	DueDate        time.Time       `json:"due_date"`
	Interstate     bool            `json:"interstate"`
	Memo           string          `json:"memo"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	CGST           decimal.Decimal `json:"cgst"`
	SGST           decimal.Decimal `json:"sgst"`
	IGST           decimal.Decimal `json:"igst"`
	Cess           decimal.Decimal `json:"cess"`
	Total          decimal.Decimal `json:"total"`
	BalanceDue     decimal.Decimal `json:"balance_due"`
	Status         DocStatus       `json:"status"`
	JournalEntryID *int64          `json:"journal_entry_id,omitempty"`
	PostedAt       *time.Time      `json:"posted_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Lines          []BillLine      `json:"lines,omitempty"`
	Payments       []Payment       `json:"payments,omitempty"`
}

// BillLine is one priced line. AccountID overrides the default expense
// account; TaxCodeID selects the GST treatment. Nil means no tax.
type BillLine struct {
	ID           int64           `json:"id"`
	BillID       int64           `json:"bill_id"`
	LineNo       int             `json:"line_no"`
	Description  string          `json:"description"`
	AccountID    *int64          `json:"account_id,omitempty"`
	TaxCodeID    *int64          `json:"tax_code_id,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	DiscountPct  decimal.Decimal `json:"discount_pct"`
	TaxableValue decimal.Decimal `json:"taxable_value"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	IGST         decimal.Decimal `json:"igst"`
	Cess         decimal.Decimal `json:"cess"`
	Total        decimal.Decimal `json:"total"`
}

// DebitNote reduces what is owed to a supplier, typically for returns
// or pricing corrections. Its posting mirrors a bill. Applying it to a
// bill reduces that bill's balance without a second journal entry; the
// note's own posting already moved the payable.
type DebitNote struct {
	ID             int64           `json:"id"`
	Number         string          `json:"number"`
	SupplierID     int64           `json:"supplier_id"`
	SupplierName   string          `json:"supplier_name,omitempty"`
	BillID         *int64          `json:"bill_id,omitempty"`
	NoteDate       time.Time       `json:"note_date"`
	Interstate     bool            `json:"interstate"`
	Reason         string          `json:"reason"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	CGST           decimal.Decimal `json:"cgst"`
	SGST           decimal.Decimal `json:"sgst"`
	IGST           decimal.Decimal `json:"igst"`
	Cess           decimal.Decimal `json:"cess"`
	Total          decimal.Decimal `json:"total"`
	Status         DocStatus       `json:"status"`
	JournalEntryID *int64          `json:"journal_entry_id,omitempty"`
	AppliedAmount  decimal.Decimal `json:"applied_amount"`
	AppliedAt      *time.Time      `json:"applied_at,omitempty"`
	PostedAt       *time.Time      `json:"posted_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Lines          []DebitNoteLine `json:"lines,omitempty"`
}

// DebitNoteLine mirrors BillLine for debit notes.
type DebitNoteLine struct {
	ID           int64           `json:"id"`
	NoteID       int64           `json:"note_id"`
	LineNo       int             `json:"line_no"`
	Description  string          `json:"description"`
	AccountID    *int64          `json:"account_id,omitempty"`
	TaxCodeID    *int64          `json:"tax_code_id,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	DiscountPct  decimal.Decimal `json:"discount_pct"`
	TaxableValue decimal.Decimal `json:"taxable_value"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	IGST         decimal.Decimal `json:"igst"`
	Cess         decimal.Decimal `json:"cess"`
	Total        decimal.Decimal `json:"total"`
}

// Payment settles part or all of one bill. Amount is the gross amount
// applied against the bill; TDSAmount is the slice withheld for the
// tax authority, so the bank outflow is Amount minus TDSAmount.
type Payment struct {
	ID             int64           `json:"id"`
	Number         string          `json:"number"`
	SupplierID     int64           `json:"supplier_id"`
	SupplierName   string          `json:"supplier_name,omitempty"`
	BillID         int64           `json:"bill_id"`
	PaymentDate    time.Time       `json:"payment_date"`
	Amount         decimal.Decimal `json:"amount"`
	TDSAmount      decimal.Decimal `json:"tds_amount"`
	Method         string          `json:"method"`
	Reference      string          `json:"reference,omitempty"`
	Memo           string          `json:"memo,omitempty"`
	IdempotencyKey string          `json:"-"`
	JournalEntryID *int64          `json:"journal_entry_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// BillBalance is the open-bill projection used for aging.
type BillBalance struct {
	ID           int64           `json:"id"`
	Number       string          `json:"number"`
	SupplierID   int64           `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	DueDate      time.Time       `json:"due_date"`
	BalanceDue   decimal.Decimal `json:"balance_due"`
}

// AgingBuckets summarises open balances by days overdue.
type AgingBuckets struct {
	Current   decimal.Decimal `json:"current"`
	Bucket30  decimal.Decimal `json:"bucket_30"`
	Bucket60  decimal.Decimal `json:"bucket_60"`
	Bucket90  decimal.Decimal `json:"bucket_90"`
	Bucket120 decimal.Decimal `json:"bucket_120"`
	Total     decimal.Decimal `json:"total"`
}
