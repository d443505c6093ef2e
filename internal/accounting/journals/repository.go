package journals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/accounts"
	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/ledger"
	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/shared"
	"github.com/bahikhata-erp/bahikhata-erp/internal/platform/db"
)

// ListFilters narrows journal browsing.
type ListFilters struct {
	SourceModule string
	From         *time.Time
	To           *time.Time
	Page         int
	Limit        int
}

// Repository encapsulates DB operations for journals.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]JournalEntry, int64, error)
	GetEntry(ctx context.Context, id int64) (JournalEntry, error)
	GetBySource(ctx context.Context, module string, sourceID uuid.UUID) (JournalEntry, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the posting operations available within one
// transaction. Other modules that post as part of their own transaction
// wrap their pgx.Tx with NewTxRepository so the journal, its ledger
// rows and the caller's document update commit or roll back together.
type TxRepository interface {
	NextJournalNumber(ctx context.Context, date time.Time) (string, error)
	InsertEntry(ctx context.Context, in PostingInput, number string) (JournalEntry, error)
	InsertLines(ctx context.Context, entryID int64, lines []PostingLineInput) ([]JournalLine, error)
	LinkSource(ctx context.Context, module string, ref uuid.UUID, entryID int64) error
	LockAccounts(ctx context.Context, ids []int64) ([]accounts.Account, error)
	UpdateAccountBalance(ctx context.Context, accountID int64, balance decimal.Decimal) error
	InsertLedgerEntry(ctx context.Context, entry ledger.Entry) (ledger.Entry, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const journalColumns = `id, number, date, source_module, source_id, memo, total_debit, total_credit, status, posted_at, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]JournalEntry, int64, error) {
	where := ""
	args := []any{}
	add := func(clause string, value any) {
		args = append(args, value)
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(clause, len(args))
	}
	if filters.SourceModule != "" {
		add("source_module=$%d", filters.SourceModule)
	}
	if filters.From != nil {
		add("date >= $%d", *filters.From)
	}
	if filters.To != nil {
		add("date <= $%d", *filters.To)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM journal_entries`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filters.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)
	query := `SELECT ` + journalColumns + ` FROM journal_entries` + where +
		fmt.Sprintf(` ORDER BY id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var entries []JournalEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

func (r *repository) GetEntry(ctx context.Context, id int64) (JournalEntry, error) {
	entry, err := scanEntry(r.db.QueryRow(ctx, `SELECT `+journalColumns+` FROM journal_entries WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return JournalEntry{}, shared.ErrJournalNotFound
		}
		return JournalEntry{}, err
	}
	lines, err := r.loadLines(ctx, id)
	if err != nil {
		return JournalEntry{}, err
	}
	entry.Lines = lines
	return entry, nil
}

func (r *repository) GetBySource(ctx context.Context, module string, sourceID uuid.UUID) (JournalEntry, error) {
	entry, err := scanEntry(r.db.QueryRow(ctx, `SELECT `+journalColumns+` FROM journal_entries
WHERE id = (SELECT je_id FROM journal_source_links WHERE module=$1 AND ref_id=$2)`, module, sourceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return JournalEntry{}, shared.ErrJournalNotFound
		}
		return JournalEntry{}, err
	}
	lines, err := r.loadLines(ctx, entry.ID)
	if err != nil {
		return JournalEntry{}, err
	}
	entry.Lines = lines
	return entry, nil
}

func (r *repository) loadLines(ctx context.Context, entryID int64) ([]JournalLine, error) {
	rows, err := r.db.Query(ctx, `SELECT id, je_id, line_no, account_id, description, debit, credit, created_at
FROM journal_lines WHERE je_id=$1 ORDER BY line_no ASC`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []JournalLine
	for rows.Next() {
		var line JournalLine
		if err := rows.Scan(&line.ID, &line.JournalID, &line.LineNo, &line.AccountID, &line.Description, &line.Debit, &line.Credit, &line.CreatedAt); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
	return shared.ClassifyTxError(err)
}

// NewTxRepository wraps an already-open transaction. The caller stays
// responsible for commit and rollback.
func NewTxRepository(tx pgx.Tx) TxRepository {
	return &txRepository{tx: tx}
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) NextJournalNumber(ctx context.Context, date time.Time) (string, error) {
	return shared.NextDocumentNumber(ctx, r.tx, "JE", date)
}

func (r *txRepository) InsertEntry(ctx context.Context, in PostingInput, number string) (JournalEntry, error) {
	debit, credit := in.Totals()
	row := r.tx.QueryRow(ctx, `INSERT INTO journal_entries (number, date, source_module, source_id, memo, total_debit, total_credit, status)
VALUES ($1,$2,$3,$4,$5,$6,$7,'POSTED') RETURNING `+journalColumns,
		number, in.Date, in.SourceModule, in.SourceID, in.Memo, shared.RoundMoney(debit), shared.RoundMoney(credit))
	return scanEntry(row)
}

func (r *txRepository) InsertLines(ctx context.Context, entryID int64, lines []PostingLineInput) ([]JournalLine, error) {
	inserted := make([]JournalLine, 0, len(lines))
	for idx, line := range lines {
		var id int64
		var createdAt time.Time
		err := r.tx.QueryRow(ctx, `INSERT INTO journal_lines (je_id, line_no, account_id, description, debit, credit)
VALUES ($1,$2,$3,$4,$5,$6) RETURNING id, created_at`,
			entryID, idx+1, line.AccountID, line.Description, line.Debit, line.Credit).Scan(&id, &createdAt)
		if err != nil {
			return nil, err
		}
		inserted = append(inserted, JournalLine{
			ID:          id,
			JournalID:   entryID,
			LineNo:      idx + 1,
			AccountID:   line.AccountID,
			Description: line.Description,
			Debit:       line.Debit,
			Credit:      line.Credit,
			CreatedAt:   createdAt,
		})
	}
	return inserted, nil
}

func (r *txRepository) LinkSource(ctx context.Context, module string, ref uuid.UUID, entryID int64) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO journal_source_links (module, ref_id, je_id) VALUES ($1,$2,$3)`, module, ref, entryID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "uq_journal_source_links" {
			return shared.ErrSourceConflict
		}
		return err
	}
	return nil
}

// LockAccounts loads accounts with row locks, always in ascending id
// order regardless of the order lines reference them.
func (r *txRepository) LockAccounts(ctx context.Context, ids []int64) ([]accounts.Account, error) {
	rows, err := r.tx.Query(ctx, `SELECT id, code, name, type, normal_balance, current_balance, parent_id, is_active, created_at, updated_at
FROM accounts WHERE id = ANY($1) ORDER BY id ASC FOR UPDATE`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var locked []accounts.Account
	for rows.Next() {
		var a accounts.Account
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.Type, &a.NormalBalance, &a.CurrentBalance, &a.ParentID, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		locked = append(locked, a)
	}
	return locked, rows.Err()
}

func (r *txRepository) UpdateAccountBalance(ctx context.Context, accountID int64, balance decimal.Decimal) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE accounts SET current_balance=$2, updated_at=NOW() WHERE id=$1`, accountID, balance)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrAccountNotFound
	}
	return nil
}

func (r *txRepository) InsertLedgerEntry(ctx context.Context, entry ledger.Entry) (ledger.Entry, error) {
	err := r.tx.QueryRow(ctx, `INSERT INTO ledger_entries (account_id, journal_entry_id, journal_line_id, date, debit, credit, running_balance)
VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id, created_at`,
		entry.AccountID, entry.JournalEntryID, entry.JournalLineID, entry.Date, entry.Debit, entry.Credit, entry.RunningBalance).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return ledger.Entry{}, err
	}
	return entry, nil
}

func scanEntry(row pgx.Row) (JournalEntry, error) {
	var e JournalEntry
	err := row.Scan(&e.ID, &e.Number, &e.Date, &e.SourceModule, &e.SourceID, &e.Memo, &e.TotalDebit, &e.TotalCredit, &e.Status, &e.PostedAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return JournalEntry{}, err
	}
	return e, nil
}
