package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/accounts"
)

type Service struct {
	repo     Repository
	accounts accounts.Repository
}

func NewService(repo Repository, accountsRepo accounts.Repository) *Service {
	return &Service{repo: repo, accounts: accountsRepo}
}

// Statement is an account view over a date window with the balance
// carried in from before the window.
type Statement struct {
	Account        accounts.Account `json:"account"`
	From           *time.Time       `json:"from,omitempty"`
	To             *time.Time       `json:"to,omitempty"`
	OpeningBalance decimal.Decimal  `json:"opening_balance"`
	ClosingBalance decimal.Decimal  `json:"closing_balance"`
	Rows           []StatementRow   `json:"rows"`
}

func (s *Service) Statement(ctx context.Context, accountID int64, from, to *time.Time) (Statement, error) {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return Statement{}, err
	}
	rows, err := s.repo.ListByAccount(ctx, accountID, from, to)
	if err != nil {
		return Statement{}, err
	}
	statement := Statement{Account: account, From: from, To: to, Rows: rows}
	if from != nil {
		opening, err := s.repo.OpeningBalance(ctx, accountID, *from)
		if err != nil {
			return Statement{}, err
		}
		statement.OpeningBalance = opening
	}
	if len(rows) > 0 {
		statement.ClosingBalance = rows[len(rows)-1].RunningBalance
	} else {
		statement.ClosingBalance = statement.OpeningBalance
	}
	return statement, nil
}

// VerifyResult reports whether replaying an account's ledger rows from
// zero reproduces both the stored running balances and the account's
// current balance.
type VerifyResult struct {
	AccountID       int64           `json:"account_id"`
	AccountCode     string          `json:"account_code"`
	Entries         int             `json:"entries"`
	ComputedBalance decimal.Decimal `json:"computed_balance"`
	StoredBalance   decimal.Decimal `json:"stored_balance"`
	Consistent      bool            `json:"consistent"`
	FirstMismatchID int64           `json:"first_mismatch_id,omitempty"`
}

// Verify replays every ledger row of the account. Each row's delta is
// re-derived from the account's normal balance, accumulated, and
// compared against the row's stored running balance; the final total is
// compared against accounts.current_balance.
func (s *Service) Verify(ctx context.Context, accountID int64) (VerifyResult, error) {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return VerifyResult{}, err
	}
	entries, err := s.repo.ReplayAccount(ctx, accountID)
	if err != nil {
		return VerifyResult{}, err
	}
	result := VerifyResult{
		AccountID:     account.ID,
		AccountCode:   account.Code,
		Entries:       len(entries),
		StoredBalance: account.CurrentBalance,
		Consistent:    true,
	}
	running := decimal.Zero
	for _, e := range entries {
		running = running.Add(account.SignedDelta(e.Debit, e.Credit))
		if !running.Equal(e.RunningBalance) && result.FirstMismatchID == 0 {
			result.Consistent = false
			result.FirstMismatchID = e.ID
		}
	}
	result.ComputedBalance = running
	if !running.Equal(account.CurrentBalance) {
		result.Consistent = false
	}
	return result, nil
}
