package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one immutable ledger row. Rows are only ever appended, in
// the same transaction as the journal entry they belong to, and each
// row snapshots the account balance after applying its own line.
type Entry struct {
	ID             int64           `json:"id"`
	AccountID      int64           `json:"account_id"`
	JournalEntryID int64           `json:"journal_entry_id"`
	JournalLineID  int64           `json:"journal_line_id"`
	Date           time.Time       `json:"date"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"running_balance"`
	CreatedAt      time.Time       `json:"created_at"`
}

// StatementRow joins an entry with its journal header for display.
type StatementRow struct {
	Entry
	JournalNumber string `json:"journal_number"`
	Memo          string `json:"memo"`
}
