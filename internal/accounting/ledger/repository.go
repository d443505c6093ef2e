package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repository interface {
	ListByAccount(ctx context.Context, accountID int64, from, to *time.Time) ([]StatementRow, error)
	OpeningBalance(ctx context.Context, accountID int64, before time.Time) (decimal.Decimal, error)
	ReplayAccount(ctx context.Context, accountID int64) ([]Entry, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

// ListByAccount returns ledger rows in posting order. Backdated
// journals keep the running balance of the moment they were posted, so
// ordering by id rather than date is what keeps the balance column
// monotonic per account.
func (r *repository) ListByAccount(ctx context.Context, accountID int64, from, to *time.Time) ([]StatementRow, error) {
	query := `SELECT le.id, le.account_id, le.journal_entry_id, le.journal_line_id, le.date, le.debit, le.credit, le.running_balance, le.created_at, je.number, je.memo
FROM ledger_entries le
JOIN journal_entries je ON je.id = le.journal_entry_id
WHERE le.account_id=$1`
	args := []any{accountID}
	if from != nil {
		args = append(args, *from)
		query += ` AND le.date >= $2`
	}
	if to != nil {
		args = append(args, *to)
		if from != nil {
			query += ` AND le.date <= $3`
		} else {
			query += ` AND le.date <= $2`
		}
	}
	query += ` ORDER BY le.id ASC`
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var statement []StatementRow
	for rows.Next() {
		var row StatementRow
		if err := rows.Scan(&row.ID, &row.AccountID, &row.JournalEntryID, &row.JournalLineID, &row.Date, &row.Debit, &row.Credit, &row.RunningBalance, &row.CreatedAt, &row.JournalNumber, &row.Memo); err != nil {
			return nil, err
		}
		statement = append(statement, row)
	}
	return statement, rows.Err()
}

// OpeningBalance returns the running balance just before the window, in
// posting order.
func (r *repository) OpeningBalance(ctx context.Context, accountID int64, before time.Time) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT running_balance FROM ledger_entries
WHERE account_id=$1 AND date < $2 ORDER BY id DESC LIMIT 1`, accountID, before).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return balance, nil
}

func (r *repository) ReplayAccount(ctx context.Context, accountID int64) ([]Entry, error) {
	rows, err := r.db.Query(ctx, `SELECT id, account_id, journal_entry_id, journal_line_id, date, debit, credit, running_balance, created_at
FROM ledger_entries WHERE account_id=$1 ORDER BY id ASC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.AccountID, &e.JournalEntryID, &e.JournalLineID, &e.Date, &e.Debit, &e.Credit, &e.RunningBalance, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
