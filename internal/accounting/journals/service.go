package journals

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/accounts"
	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/ledger"
	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/shared"
)

// Poster is the only writer of journal entries, ledger rows and account
// balances. Every posting follows the same shape: lock the touched
// accounts in ascending id order, insert the entry and its lines, then
// append one ledger row per line carrying the account's new running
// balance, and finally write the accumulated balances back to the
// locked rows.
type Poster struct {
	repo   Repository
	logger *slog.Logger
}

func NewPoster(repo Repository, logger *slog.Logger) *Poster {
	return &Poster{repo: repo, logger: logger}
}

// Post runs PostWithin inside its own transaction. Callers that need
// the posting to share a transaction with their own document updates
// use PostWithin directly.
func (p *Poster) Post(ctx context.Context, input PostingInput) (JournalEntry, error) {
	var entry JournalEntry
	err := p.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		posted, err := p.PostWithin(ctx, tx, input)
		if err != nil {
			return err
		}
		entry = posted
		return nil
	})
	if err != nil {
		return JournalEntry{}, err
	}
	return entry, nil
}

// PostWithin validates the input and writes the journal entry, journal
// lines, ledger rows and balance updates through the supplied
// transaction. Lines are applied in order, so when several lines touch
// the same account its ledger rows carry strictly consecutive running
// balances.
func (p *Poster) PostWithin(ctx context.Context, tx TxRepository, input PostingInput) (JournalEntry, error) {
	if err := input.Validate(); err != nil {
		return JournalEntry{}, err
	}

	ids := input.AccountIDs()
	locked, err := tx.LockAccounts(ctx, ids)
	if err != nil {
		return JournalEntry{}, err
	}
	byID := make(map[int64]accounts.Account, len(locked))
	for _, a := range locked {
		byID[a.ID] = a
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return JournalEntry{}, fmt.Errorf("account %d: %w", id, shared.ErrAccountNotFound)
		}
	}

	number, err := tx.NextJournalNumber(ctx, input.Date)
	if err != nil {
		return JournalEntry{}, err
	}
	entry, err := tx.InsertEntry(ctx, input, number)
	if err != nil {
		return JournalEntry{}, err
	}
	lines, err := tx.InsertLines(ctx, entry.ID, input.Lines)
	if err != nil {
		return JournalEntry{}, err
	}
	if err := tx.LinkSource(ctx, input.SourceModule, input.SourceID, entry.ID); err != nil {
		return JournalEntry{}, err
	}

	balances := make(map[int64]decimal.Decimal, len(locked))
	for _, a := range locked {
		balances[a.ID] = a.CurrentBalance
	}
	for _, line := range lines {
		account := byID[line.AccountID]
		next := balances[account.ID].Add(account.SignedDelta(line.Debit, line.Credit))
		balances[account.ID] = next
		if _, err := tx.InsertLedgerEntry(ctx, ledger.Entry{
			AccountID:      account.ID,
			JournalEntryID: entry.ID,
			JournalLineID:  line.ID,
			Date:           input.Date,
			Debit:          line.Debit,
			Credit:         line.Credit,
			RunningBalance: next,
		}); err != nil {
			return JournalEntry{}, err
		}
	}
	for _, id := range ids {
		if err := tx.UpdateAccountBalance(ctx, id, balances[id]); err != nil {
			return JournalEntry{}, err
		}
	}

	entry.Lines = lines
	if p.logger != nil {
		p.logger.Info("journal posted",
			slog.String("number", entry.Number),
			slog.String("source_module", input.SourceModule),
			slog.String("source_id", input.SourceID.String()),
			slog.String("total", entry.TotalDebit.StringFixed(2)))
	}
	return entry, nil
}

func (p *Poster) List(ctx context.Context, filters ListFilters) ([]JournalEntry, int64, error) {
	return p.repo.List(ctx, filters)
}

func (p *Poster) Get(ctx context.Context, id int64) (JournalEntry, error) {
	return p.repo.GetEntry(ctx, id)
}

func (p *Poster) GetBySource(ctx context.Context, module string, sourceID uuid.UUID) (JournalEntry, error) {
	return p.repo.GetBySource(ctx, module, sourceID)
}
