package mappings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/shared"
)

type Repository interface {
	Get(ctx context.Context, module, key string) (AccountMapping, error)
	List(ctx context.Context) ([]MappingDetail, error)
	Set(ctx context.Context, mapping AccountMapping) (AccountMapping, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

// Get resolves an account mapping for the specified key. A missing row
// means the module cannot post until an administrator completes setup,
// so the error carries the key that needs configuring.
func (r *repository) Get(ctx context.Context, module, key string) (AccountMapping, error) {
	if module == "" || key == "" {
		return AccountMapping{}, errors.New("accounting: module and key required")
	}
	normalized := strings.ToUpper(module)
	var mapping AccountMapping
	err := r.db.QueryRow(ctx, `SELECT module, key, account_id, created_at, updated_at FROM account_mappings WHERE module=$1 AND key=$2`, normalized, key).
		Scan(&mapping.Module, &mapping.Key, &mapping.AccountID, &mapping.CreatedAt, &mapping.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AccountMapping{}, fmt.Errorf("%s/%s: %w", normalized, key, shared.ErrAccountNotConfigured)
		}
		return AccountMapping{}, err
	}
	return mapping, nil
}

func (r *repository) List(ctx context.Context) ([]MappingDetail, error) {
	rows, err := r.db.Query(ctx, `SELECT m.module, m.key, m.account_id, m.created_at, m.updated_at, a.code, a.name
FROM account_mappings m
JOIN accounts a ON a.id = m.account_id
ORDER BY m.module, m.key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var details []MappingDetail
	for rows.Next() {
		var d MappingDetail
		if err := rows.Scan(&d.Module, &d.Key, &d.AccountID, &d.CreatedAt, &d.UpdatedAt, &d.AccountCode, &d.AccountName); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// Set upserts a mapping. Re-pointing a key at a different account only
// affects future postings; historic journal lines keep the account they
// were posted to.
func (r *repository) Set(ctx context.Context, mapping AccountMapping) (AccountMapping, error) {
	normalized := strings.ToUpper(mapping.Module)
	row := r.db.QueryRow(ctx, `INSERT INTO account_mappings (module, key, account_id)
VALUES ($1,$2,$3)
ON CONFLICT (module, key) DO UPDATE SET account_id=EXCLUDED.account_id, updated_at=NOW()
RETURNING module, key, account_id, created_at, updated_at`,
		normalized, mapping.Key, mapping.AccountID)
	var saved AccountMapping
	if err := row.Scan(&saved.Module, &saved.Key, &saved.AccountID, &saved.CreatedAt, &saved.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return AccountMapping{}, fmt.Errorf("account %d: %w", mapping.AccountID, shared.ErrAccountNotFound)
		}
		return AccountMapping{}, err
	}
	return saved, nil
}
