package tax

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bahikhata-erp/bahikhata-erp/internal/masterdata/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]TaxCode, int, error)
	Get(ctx context.Context, id int64) (TaxCode, error)
	GetByCode(ctx context.Context, code string) (TaxCode, error)
	Create(ctx context.Context, tc TaxCode) (TaxCode, error)
	Update(ctx context.Context, id int64, tc TaxCode) error
	Deactivate(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const taxColumns = `id, code, name, rate, cgst_rate, sgst_rate, igst_rate, cess_rate, is_active, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]TaxCode, int, error) {
	query := `SELECT ` + taxColumns + ` FROM tax_codes WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		query += ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR code ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.IsActive != nil {
		argCount++
		query += ` AND is_active = $` + strconv.Itoa(argCount)
		args = append(args, *filters.IsActive)
	}

	countQuery := `SELECT COUNT(*) FROM tax_codes WHERE 1=1`
	countArgs := append([]interface{}(nil), args...)
	if filters.Search != "" {
		countQuery += ` AND (name ILIKE $1 OR code ILIKE $1)`
	}
	if filters.IsActive != nil {
		countQuery += ` AND is_active = $` + strconv.Itoa(len(countArgs))
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += " ORDER BY " + sortOrder(filters.SortBy, filters.SortDir)

	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var codes []TaxCode
	for rows.Next() {
		tc, err := scanTaxCode(rows)
		if err != nil {
			return nil, 0, err
		}
		codes = append(codes, tc)
	}
	return codes, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (TaxCode, error) {
	row := r.db.QueryRow(ctx, `SELECT `+taxColumns+` FROM tax_codes WHERE id=$1`, id)
	tc, err := scanTaxCode(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TaxCode{}, ErrTaxCodeNotFound
		}
		return TaxCode{}, err
	}
	return tc, nil
}

func (r *repository) GetByCode(ctx context.Context, code string) (TaxCode, error) {
	row := r.db.QueryRow(ctx, `SELECT `+taxColumns+` FROM tax_codes WHERE code=$1`, code)
	tc, err := scanTaxCode(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TaxCode{}, ErrTaxCodeNotFound
		}
		return TaxCode{}, err
	}
	return tc, nil
}

func (r *repository) Create(ctx context.Context, tc TaxCode) (TaxCode, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO tax_codes (code, name, rate, cgst_rate, sgst_rate, igst_rate, cess_rate, is_active)
VALUES ($1,$2,$3,$4,$5,$6,$7,TRUE) RETURNING `+taxColumns,
		tc.Code, tc.Name, tc.Rate, tc.CGSTRate, tc.SGSTRate, tc.IGSTRate, tc.CessRate)
	created, err := scanTaxCode(row)
	if err != nil {
		if isUniqueViolation(err) {
			return TaxCode{}, fmt.Errorf("%w: tax code %s", shared.ErrDuplicate, tc.Code)
		}
		return TaxCode{}, err
	}
	return created, nil
}

func (r *repository) Update(ctx context.Context, id int64, tc TaxCode) error {
	cmd, err := r.db.Exec(ctx, `UPDATE tax_codes SET code=$2, name=$3, rate=$4, cgst_rate=$5, sgst_rate=$6, igst_rate=$7, cess_rate=$8, updated_at=NOW() WHERE id=$1`,
		id, tc.Code, tc.Name, tc.Rate, tc.CGSTRate, tc.SGSTRate, tc.IGSTRate, tc.CessRate)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: tax code %s", shared.ErrDuplicate, tc.Code)
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTaxCodeNotFound
	}
	return nil
}

func (r *repository) Deactivate(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `UPDATE tax_codes SET is_active=FALSE, updated_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTaxCodeNotFound
	}
	return nil
}

func scanTaxCode(row pgx.Row) (TaxCode, error) {
	var tc TaxCode
	err := row.Scan(&tc.ID, &tc.Code, &tc.Name, &tc.Rate, &tc.CGSTRate, &tc.SGSTRate, &tc.IGSTRate, &tc.CessRate, &tc.IsActive, &tc.CreatedAt, &tc.UpdatedAt)
	if err != nil {
		return TaxCode{}, err
	}
	return tc, nil
}

func sortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == shared.SortDesc {
		dir = "DESC"
	}
	switch sortBy {
	case "code":
		return "code " + dir
	case "rate":
		return "rate " + dir
	default:
		return "name " + dir
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
