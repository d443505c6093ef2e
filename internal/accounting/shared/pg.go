package shared

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ClassifyTxError translates transient Postgres failures into
// ErrSerializationConflict so callers can decide to retry. Permanent
// errors pass through unchanged.
func ClassifyTxError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return ErrSerializationConflict
		}
	}
	return err
}
