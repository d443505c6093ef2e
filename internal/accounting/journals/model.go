package journals

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JournalStatus enumerates journal lifecycle values. Entries are born
// POSTED; VOID exists only for reversal bookkeeping.
type JournalStatus string

const (
	JournalStatusPosted JournalStatus = "POSTED"
	JournalStatusVoid   JournalStatus = "VOID"
)

// JournalEntry captures posting metadata. Number is assigned from the
// JE series at insert time and never reused.
type JournalEntry struct {
	ID           int64           `json:"id"`
	Number       string          `json:"number"`
	Date         time.Time       `json:"date"`
	SourceModule string          `json:"source_module"`
	SourceID     uuid.UUID       `json:"source_id"`
	Memo         string          `json:"memo"`
	TotalDebit   decimal.Decimal `json:"total_debit"`
	TotalCredit  decimal.Decimal `json:"total_credit"`
	Status       JournalStatus   `json:"status"`
	PostedAt     time.Time       `json:"posted_at"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Lines        []JournalLine   `json:"lines,omitempty"`
}

// JournalLine stores a debit or credit amount for an account. LineNo
// preserves the order lines were built in, which is also the order
// ledger rows are appended in.
type JournalLine struct {
	ID          int64           `json:"id"`
	JournalID   int64           `json:"journal_id"`
	LineNo      int             `json:"line_no"`
	AccountID   int64           `json:"account_id"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	CreatedAt   time.Time       `json:"created_at"`
}
