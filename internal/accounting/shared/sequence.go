package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// NextDocumentNumber reserves the next number in a yearly series, e.g.
// BILL-2026-000042. The upsert takes a row lock on the (series, year)
// counter so concurrent callers serialize and numbers never repeat.
func NextDocumentNumber(ctx context.Context, tx pgx.Tx, series string, date time.Time) (string, error) {
	var value int64
	err := tx.QueryRow(ctx, `INSERT INTO doc_sequences (series, year, value)
VALUES ($1,$2,1)
ON CONFLICT (series, year) DO UPDATE SET value = doc_sequences.value + 1
RETURNING value`, series, date.Year()).Scan(&value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%06d", series, date.Year(), value), nil
}
