package journals

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/accounts"
	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/ledger"
	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/shared"
)

// fakePostingTx implements TxRepository against maps so poster
// behaviour can be asserted without a database.
type fakePostingTx struct {
	accounts   map[int64]accounts.Account
	lockCalls  [][]int64
	entries    []JournalEntry
	lines      []JournalLine
	ledgerRows []ledger.Entry
	sources    map[string]int64
	journalSeq int64
	nextLineID int64
	nextRowID  int64
}

func newFakePostingTx(accts ...accounts.Account) *fakePostingTx {
	tx := &fakePostingTx{
		accounts: make(map[int64]accounts.Account),
		sources:  make(map[string]int64),
	}
	for _, a := range accts {
		tx.accounts[a.ID] = a
	}
	return tx
}

func (f *fakePostingTx) NextJournalNumber(ctx context.Context, date time.Time) (string, error) {
	f.journalSeq++
	return fmt.Sprintf("JE-%d-%06d", date.Year(), f.journalSeq), nil
}

func (f *fakePostingTx) InsertEntry(ctx context.Context, in PostingInput, number string) (JournalEntry, error) {
	debit, credit := in.Totals()
	entry := JournalEntry{
		ID:           int64(len(f.entries) + 1),
		Number:       number,
		Date:         in.Date,
		SourceModule: in.SourceModule,
		SourceID:     in.SourceID,
		Memo:         in.Memo,
		TotalDebit:   shared.RoundMoney(debit),
		TotalCredit:  shared.RoundMoney(credit),
		Status:       JournalStatusPosted,
		PostedAt:     time.Now(),
	}
	f.entries = append(f.entries, entry)
	return entry, nil
}

func (f *fakePostingTx) InsertLines(ctx context.Context, entryID int64, lines []PostingLineInput) ([]JournalLine, error) {
	out := make([]JournalLine, len(lines))
	for i, l := range lines {
		f.nextLineID++
		out[i] = JournalLine{
			ID:          f.nextLineID,
			JournalID:   entryID,
			LineNo:      i + 1,
			AccountID:   l.AccountID,
			Description: l.Description,
			Debit:       l.Debit,
			Credit:      l.Credit,
		}
	}
	f.lines = append(f.lines, out...)
	return out, nil
}

func (f *fakePostingTx) LinkSource(ctx context.Context, module string, ref uuid.UUID, entryID int64) error {
	key := module + ":" + ref.String()
	if _, ok := f.sources[key]; ok {
		return shared.ErrSourceConflict
	}
	f.sources[key] = entryID
	return nil
}

func (f *fakePostingTx) LockAccounts(ctx context.Context, ids []int64) ([]accounts.Account, error) {
	f.lockCalls = append(f.lockCalls, append([]int64(nil), ids...))
	var out []accounts.Account
	for _, id := range ids {
		if a, ok := f.accounts[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakePostingTx) UpdateAccountBalance(ctx context.Context, accountID int64, balance decimal.Decimal) error {
	a, ok := f.accounts[accountID]
	if !ok {
		return shared.ErrAccountNotFound
	}
	a.CurrentBalance = balance
	f.accounts[accountID] = a
	return nil
}

func (f *fakePostingTx) InsertLedgerEntry(ctx context.Context, entry ledger.Entry) (ledger.Entry, error) {
	f.nextRowID++
	entry.ID = f.nextRowID
	f.ledgerRows = append(f.ledgerRows, entry)
	return entry, nil
}

func (f *fakePostingTx) rowsFor(accountID int64) []ledger.Entry {
	var out []ledger.Entry
	for _, row := range f.ledgerRows {
		if row.AccountID == accountID {
			out = append(out, row)
		}
	}
	return out
}

type fakeJournalRepo struct {
	tx *fakePostingTx
}

func (r *fakeJournalRepo) List(ctx context.Context, filters ListFilters) ([]JournalEntry, int64, error) {
	return r.tx.entries, int64(len(r.tx.entries)), nil
}

func (r *fakeJournalRepo) GetEntry(ctx context.Context, id int64) (JournalEntry, error) {
	for _, e := range r.tx.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return JournalEntry{}, shared.ErrJournalNotFound
}

func (r *fakeJournalRepo) GetBySource(ctx context.Context, module string, sourceID uuid.UUID) (JournalEntry, error) {
	id, ok := r.tx.sources[module+":"+sourceID.String()]
	if !ok {
		return JournalEntry{}, shared.ErrJournalNotFound
	}
	return r.GetEntry(ctx, id)
}

func (r *fakeJournalRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, r.tx)
}

func debitAccount(id int64, code string) accounts.Account {
	return accounts.Account{ID: id, Code: code, Type: accounts.AccountTypeAsset, NormalBalance: accounts.NormalBalanceDebit, IsActive: true}
}

func creditAccount(id int64, code string) accounts.Account {
	return accounts.Account{ID: id, Code: code, Type: accounts.AccountTypeLiability, NormalBalance: accounts.NormalBalanceCredit, IsActive: true}
}

func billPosting(total int64) PostingInput {
	net := total * 1000 / 1180
	gst := (total - net) / 2
	return PostingInput{
		Date:         time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		SourceModule: "AP.BILL",
		SourceID:     uuid.NewSHA1(uuid.Nil, []byte("AP.BILL:42")),
		Memo:         "Vendor bill BILL-2026-000042",
		Lines: []PostingLineInput{
			{AccountID: 50, Description: "Purchases", Debit: decimal.NewFromInt(net)},
			{AccountID: 13, Description: "GST input CGST", Debit: decimal.NewFromInt(gst)},
			{AccountID: 14, Description: "GST input SGST", Debit: decimal.NewFromInt(gst)},
			{AccountID: 21, Description: "Payable to supplier", Credit: decimal.NewFromInt(total)},
		},
	}
}

func TestPostWithinWritesEntryLinesAndLedger(t *testing.T) {
	tx := newFakePostingTx(
		debitAccount(13, "1300"), debitAccount(14, "1310"),
		creditAccount(21, "2100"), debitAccount(50, "5000"),
	)
	poster := NewPoster(&fakeJournalRepo{tx: tx}, nil)

	entry, err := poster.PostWithin(context.Background(), tx, billPosting(1180))
	require.NoError(t, err)

	require.Equal(t, "JE-2026-000001", entry.Number)
	require.True(t, entry.TotalDebit.Equal(decimal.NewFromInt(1180)))
	require.True(t, entry.TotalCredit.Equal(decimal.NewFromInt(1180)))
	require.Equal(t, JournalStatusPosted, entry.Status)
	require.Len(t, entry.Lines, 4)

	// Accounts lock in ascending id order.
	require.Len(t, tx.lockCalls, 1)
	require.Equal(t, []int64{13, 14, 21, 50}, tx.lockCalls[0])

	// One ledger row per line carrying the account's new running balance.
	require.Len(t, tx.ledgerRows, 4)
	require.True(t, tx.rowsFor(50)[0].RunningBalance.Equal(decimal.NewFromInt(1000)))
	require.True(t, tx.rowsFor(13)[0].RunningBalance.Equal(decimal.NewFromInt(90)))
	require.True(t, tx.rowsFor(14)[0].RunningBalance.Equal(decimal.NewFromInt(90)))
	require.True(t, tx.rowsFor(21)[0].RunningBalance.Equal(decimal.NewFromInt(1180)))

	// Balances written back under the same lock.
	require.True(t, tx.accounts[50].CurrentBalance.Equal(decimal.NewFromInt(1000)))
	require.True(t, tx.accounts[21].CurrentBalance.Equal(decimal.NewFromInt(1180)))
}

func TestPostWithinRepeatedAccountGetsConsecutiveBalances(t *testing.T) {
	tx := newFakePostingTx(debitAccount(50, "5000"), creditAccount(21, "2100"))
	poster := NewPoster(&fakeJournalRepo{tx: tx}, nil)

	input := PostingInput{
		Date:         time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		SourceModule: "AP.BILL",
		SourceID:     uuid.NewSHA1(uuid.Nil, []byte("AP.BILL:7")),
		Lines: []PostingLineInput{
			{AccountID: 50, Debit: decimal.NewFromInt(100)},
			{AccountID: 50, Debit: decimal.NewFromInt(50)},
			{AccountID: 21, Credit: decimal.NewFromInt(150)},
		},
	}
	_, err := poster.PostWithin(context.Background(), tx, input)
	require.NoError(t, err)

	rows := tx.rowsFor(50)
	require.Len(t, rows, 2)
	require.True(t, rows[0].RunningBalance.Equal(decimal.NewFromInt(100)))
	require.True(t, rows[1].RunningBalance.Equal(decimal.NewFromInt(150)))
	require.True(t, tx.accounts[50].CurrentBalance.Equal(decimal.NewFromInt(150)))
}

func TestPostWithinDebitReducesCreditNormalBalance(t *testing.T) {
	tx := newFakePostingTx(
		debitAccount(12, "1200"), creditAccount(21, "2100"),
		debitAccount(13, "1300"), debitAccount(14, "1310"), debitAccount(50, "5000"),
	)
	poster := NewPoster(&fakeJournalRepo{tx: tx}, nil)

	_, err := poster.PostWithin(context.Background(), tx, billPosting(1180))
	require.NoError(t, err)

	payment := PostingInput{
		Date:         time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC),
		SourceModule: "AP.PAYMENT",
		SourceID:     uuid.NewSHA1(uuid.Nil, []byte("AP.PAYMENT:1")),
		Lines: []PostingLineInput{
			{AccountID: 21, Debit: decimal.NewFromInt(500)},
			{AccountID: 12, Credit: decimal.NewFromInt(500)},
		},
	}
	_, err = poster.PostWithin(context.Background(), tx, payment)
	require.NoError(t, err)

	rows := tx.rowsFor(21)
	require.Len(t, rows, 2)
	require.True(t, rows[0].RunningBalance.Equal(decimal.NewFromInt(1180)))
	require.True(t, rows[1].RunningBalance.Equal(decimal.NewFromInt(680)))
	// Bank is debit-normal, a credit moves it down.
	require.True(t, tx.accounts[12].CurrentBalance.Equal(decimal.NewFromInt(-500)))
}

func TestPostWithinRejectsUnknownAccount(t *testing.T) {
	tx := newFakePostingTx(debitAccount(50, "5000"))
	poster := NewPoster(&fakeJournalRepo{tx: tx}, nil)

	input := PostingInput{
		Date:         time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		SourceModule: "AP.BILL",
		SourceID:     uuid.NewSHA1(uuid.Nil, []byte("AP.BILL:9")),
		Lines: []PostingLineInput{
			{AccountID: 50, Debit: decimal.NewFromInt(100)},
			{AccountID: 99, Credit: decimal.NewFromInt(100)},
		},
	}
	_, err := poster.PostWithin(context.Background(), tx, input)
	require.ErrorIs(t, err, shared.ErrAccountNotFound)
	require.Contains(t, err.Error(), "account 99")
	require.Empty(t, tx.entries)
	require.Empty(t, tx.ledgerRows)
}

func TestPostWithinRejectsDuplicateSource(t *testing.T) {
	tx := newFakePostingTx(
		debitAccount(13, "1300"), debitAccount(14, "1310"),
		creditAccount(21, "2100"), debitAccount(50, "5000"),
	)
	poster := NewPoster(&fakeJournalRepo{tx: tx}, nil)

	_, err := poster.PostWithin(context.Background(), tx, billPosting(1180))
	require.NoError(t, err)

	_, err = poster.PostWithin(context.Background(), tx, billPosting(1180))
	require.ErrorIs(t, err, shared.ErrSourceConflict)
}

func TestPostWithinValidatesBeforeLocking(t *testing.T) {
	tx := newFakePostingTx(debitAccount(50, "5000"), creditAccount(21, "2100"))
	poster := NewPoster(&fakeJournalRepo{tx: tx}, nil)

	input := billPosting(1180)
	input.Lines[0].Debit = decimal.NewFromInt(999)
	_, err := poster.PostWithin(context.Background(), tx, input)
	require.ErrorIs(t, err, shared.ErrUnbalancedEntry)
	require.Empty(t, tx.lockCalls)
}

func TestPostRunsInsideTransaction(t *testing.T) {
	tx := newFakePostingTx(
		debitAccount(13, "1300"), debitAccount(14, "1310"),
		creditAccount(21, "2100"), debitAccount(50, "5000"),
	)
	repo := &fakeJournalRepo{tx: tx}
	poster := NewPoster(repo, nil)

	entry, err := poster.Post(context.Background(), billPosting(1180))
	require.NoError(t, err)
	require.Equal(t, int64(1), entry.ID)

	got, err := poster.GetBySource(context.Background(), "AP.BILL", uuid.NewSHA1(uuid.Nil, []byte("AP.BILL:42")))
	require.NoError(t, err)
	require.Equal(t, entry.ID, got.ID)
}
