package ap

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineInput is one requested document line before tax apportionment.
type LineInput struct {
	Description string
	AccountID   *int64
	TaxCodeID   *int64
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	DiscountPct decimal.Decimal
}

// CreateBillInput creates a draft bill. Interstate overrides the
// supplier-state derivation when set.
type CreateBillInput struct {
	SupplierID int64
	BillDate   time.Time
	DueDate    time.Time
	Interstate *bool
	Memo       string
	Lines      []LineInput
}

// CreateDebitNoteInput creates a draft debit note. BillID is optional
// at creation; the note binds to a bill when applied.
type CreateDebitNoteInput struct {
	SupplierID int64
	BillID     *int64
	NoteDate   time.Time
	Interstate *bool
	Reason     string
	Lines      []LineInput
}

// RegisterPaymentInput settles part of a bill. TDSAmount is withheld
// from the bank outflow and credited to the TDS payable account.
type RegisterPaymentInput struct {
	BillID         int64
	PaymentDate    time.Time
	Amount         decimal.Decimal
	TDSAmount      decimal.Decimal
	Method         string
	Reference      string
	Memo           string
	IdempotencyKey string
}

// ApplyDebitNoteInput applies a posted note against a posted bill.
type ApplyDebitNoteInput struct {
	NoteID int64
	BillID int64
}
