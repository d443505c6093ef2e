package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	AccountActivity(ctx context.Context, from, to *time.Time) ([]AccountActivity, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

// AccountActivity aggregates ledger movement per active account in one
// pass. Rows dated before the window fold into the opening balance,
// rows inside it into the debit and credit columns.
func (r *repository) AccountActivity(ctx context.Context, from, to *time.Time) ([]AccountActivity, error) {
	rows, err := r.db.Query(ctx, `SELECT a.id, a.code, a.name, a.type,
COALESCE(SUM(le.debit - le.credit) FILTER (WHERE $1::timestamptz IS NOT NULL AND le.date < $1), 0) AS opening,
COALESCE(SUM(le.debit) FILTER (WHERE ($1::timestamptz IS NULL OR le.date >= $1) AND ($2::timestamptz IS NULL OR le.date <= $2)), 0) AS debit,
COALESCE(SUM(le.credit) FILTER (WHERE ($1::timestamptz IS NULL OR le.date >= $1) AND ($2::timestamptz IS NULL OR le.date <= $2)), 0) AS credit
FROM accounts a
LEFT JOIN ledger_entries le ON le.account_id = a.id
WHERE a.is_active
GROUP BY a.id, a.code, a.name, a.type
ORDER BY a.code`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var activity []AccountActivity
	for rows.Next() {
		var a AccountActivity
		if err := rows.Scan(&a.AccountID, &a.Code, &a.Name, &a.Type, &a.Opening, &a.Debit, &a.Credit); err != nil {
			return nil, err
		}
		activity = append(activity, a)
	}
	return activity, rows.Err()
}
