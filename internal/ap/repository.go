package ap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/journals"
	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/shared"
	mdshared "github.com/bahikhata-erp/bahikhata-erp/internal/masterdata/shared"
	"github.com/bahikhata-erp/bahikhata-erp/internal/platform/db"
)

// Repository defines AP data access outside transactions.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error

	GetBill(ctx context.Context, id int64) (Bill, error)
	ListBills(ctx context.Context, filters mdshared.ListFilters) ([]Bill, int64, error)
	GetOpenBillBalances(ctx context.Context) ([]BillBalance, error)

	GetNote(ctx context.Context, id int64) (DebitNote, error)
	ListNotes(ctx context.Context, filters mdshared.ListFilters) ([]DebitNote, int64, error)

	GetPayment(ctx context.Context, id int64) (Payment, error)
	GetPaymentByKey(ctx context.Context, key string) (Payment, error)
	ListPayments(ctx context.Context, filters mdshared.ListFilters) ([]Payment, int64, error)
	ListPaymentsForBill(ctx context.Context, billID int64) ([]Payment, error)
}

// TxRepository defines the operations available within one posting
// transaction. Journals exposes the accounting engine bound to the same
// transaction, so document updates and ledger writes commit together.
type TxRepository interface {
	Journals() journals.TxRepository
	NextNumber(ctx context.Context, series string, date time.Time) (string, error)

	InsertBill(ctx context.Context, bill Bill) (Bill, error)
	InsertBillLines(ctx context.Context, billID int64, lines []BillLine) ([]BillLine, error)
	GetBillForUpdate(ctx context.Context, id int64) (Bill, error)
	GetBillLines(ctx context.Context, billID int64) ([]BillLine, error)
	SetBillPosted(ctx context.Context, id, journalEntryID int64, postedAt time.Time, status DocStatus) error
	SetBillPaymentProgress(ctx context.Context, id int64, balanceDue decimal.Decimal, status DocStatus) error
	SetBillVoid(ctx context.Context, id int64) error

	InsertNote(ctx context.Context, note DebitNote) (DebitNote, error)
	InsertNoteLines(ctx context.Context, noteID int64, lines []DebitNoteLine) ([]DebitNoteLine, error)
	GetNoteForUpdate(ctx context.Context, id int64) (DebitNote, error)
	GetNoteLines(ctx context.Context, noteID int64) ([]DebitNoteLine, error)
	SetNotePosted(ctx context.Context, id, journalEntryID int64, postedAt time.Time, status DocStatus) error
	SetNoteApplied(ctx context.Context, id, billID int64, amount decimal.Decimal, appliedAt time.Time) error
	SetNoteVoid(ctx context.Context, id int64) error

	InsertPayment(ctx context.Context, payment Payment) (Payment, error)
	SetPaymentJournal(ctx context.Context, id, journalEntryID int64) error
}

var (
	_ Repository   = (*repository)(nil)
	_ TxRepository = (*txRepository)(nil)
)

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

// querier lets line loaders run on the pool or inside a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const billColumns = `id, number, supplier_id, bill_date, due_date, interstate, memo, subtotal, cgst, sgst, igst, cess, total, balance_due, status, je_id, posted_at, created_at, updated_at`

const billJoin = `SELECT b.id, b.number, b.supplier_id, b.bill_date, b.due_date, b.interstate, b.memo, b.subtotal, b.cgst, b.sgst, b.igst, b.cess, b.total, b.balance_due, b.status, b.je_id, b.posted_at, b.created_at, b.updated_at, s.name
FROM bills b JOIN suppliers s ON s.id = b.supplier_id`

const noteColumns = `id, number, supplier_id, bill_id, note_date, interstate, reason, subtotal, cgst, sgst, igst, cess, total, status, je_id, applied_amount, applied_at, posted_at, created_at, updated_at`

const noteJoin = `SELECT n.id, n.number, n.supplier_id, n.bill_id, n.note_date, n.interstate, n.reason, n.subtotal, n.cgst, n.sgst, n.igst, n.cess, n.total, n.status, n.je_id, n.applied_amount, n.applied_at, n.posted_at, n.created_at, n.updated_at, s.name
FROM debit_notes n JOIN suppliers s ON s.id = n.supplier_id`

const paymentColumns = `id, number, supplier_id, bill_id, payment_date, amount, tds_amount, method, reference, memo, COALESCE(idempotency_key, ''), je_id, created_at`

const paymentJoin = `SELECT p.id, p.number, p.supplier_id, p.bill_id, p.payment_date, p.amount, p.tds_amount, p.method, p.reference, p.memo, COALESCE(p.idempotency_key, ''), p.je_id, p.created_at, s.name
FROM payments p JOIN suppliers s ON s.id = p.supplier_id`

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
	return shared.ClassifyTxError(err)
}

func (r *repository) GetBill(ctx context.Context, id int64) (Bill, error) {
	row := r.db.QueryRow(ctx, billJoin+` WHERE b.id=$1`, id)
	bill, err := scanBill(row, true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Bill{}, ErrBillNotFound
		}
		return Bill{}, err
	}
	lines, err := loadBillLines(ctx, r.db, id)
	if err != nil {
		return Bill{}, err
	}
	bill.Lines = lines
	return bill, nil
}

func (r *repository) ListBills(ctx context.Context, filters mdshared.ListFilters) ([]Bill, int64, error) {
	where := ""
	args := []any{}
	if filters.Status != "" {
		args = append(args, filters.Status)
		where = fmt.Sprintf(" WHERE b.status=$%d", len(args))
	}
	if filters.SupplierID != nil {
		args = append(args, *filters.SupplierID)
		if where == "" {
			where = fmt.Sprintf(" WHERE b.supplier_id=$%d", len(args))
		} else {
			where += fmt.Sprintf(" AND b.supplier_id=$%d", len(args))
		}
	}
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bills b`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	args = append(args, clampLimit(filters.Limit), offset(filters))
	query := billJoin + where + fmt.Sprintf(` ORDER BY b.id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var bills []Bill
	for rows.Next() {
		bill, err := scanBill(rows, true)
		if err != nil {
			return nil, 0, err
		}
		bills = append(bills, bill)
	}
	return bills, total, rows.Err()
}

func (r *repository) GetOpenBillBalances(ctx context.Context) ([]BillBalance, error) {
	rows, err := r.db.Query(ctx, `SELECT b.id, b.number, b.supplier_id, s.name, b.due_date, b.balance_due
FROM bills b JOIN suppliers s ON s.id = b.supplier_id
WHERE b.status IN ('POSTED','PARTIAL') ORDER BY b.due_date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var balances []BillBalance
	for rows.Next() {
		var b BillBalance
		if err := rows.Scan(&b.ID, &b.Number, &b.SupplierID, &b.SupplierName, &b.DueDate, &b.BalanceDue); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

func (r *repository) GetNote(ctx context.Context, id int64) (DebitNote, error) {
	row := r.db.QueryRow(ctx, noteJoin+` WHERE n.id=$1`, id)
	note, err := scanNote(row, true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DebitNote{}, ErrNoteNotFound
		}
		return DebitNote{}, err
	}
	lines, err := loadNoteLines(ctx, r.db, id)
	if err != nil {
		return DebitNote{}, err
	}
	note.Lines = lines
	return note, nil
}

func (r *repository) ListNotes(ctx context.Context, filters mdshared.ListFilters) ([]DebitNote, int64, error) {
	where := ""
	args := []any{}
	if filters.Status != "" {
		args = append(args, filters.Status)
		where = fmt.Sprintf(" WHERE n.status=$%d", len(args))
	}
	if filters.SupplierID != nil {
		args = append(args, *filters.SupplierID)
		if where == "" {
			where = fmt.Sprintf(" WHERE n.supplier_id=$%d", len(args))
		} else {
			where += fmt.Sprintf(" AND n.supplier_id=$%d", len(args))
		}
	}
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM debit_notes n`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	args = append(args, clampLimit(filters.Limit), offset(filters))
	query := noteJoin + where + fmt.Sprintf(` ORDER BY n.id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var notes []DebitNote
	for rows.Next() {
		note, err := scanNote(rows, true)
		if err != nil {
			return nil, 0, err
		}
		notes = append(notes, note)
	}
	return notes, total, rows.Err()
}

func (r *repository) GetPayment(ctx context.Context, id int64) (Payment, error) {
	row := r.db.QueryRow(ctx, paymentJoin+` WHERE p.id=$1`, id)
	payment, err := scanPayment(row, true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Payment{}, ErrPaymentNotFound
		}
		return Payment{}, err
	}
	return payment, nil
}

func (r *repository) GetPaymentByKey(ctx context.Context, key string) (Payment, error) {
	row := r.db.QueryRow(ctx, paymentJoin+` WHERE p.idempotency_key=$1`, key)
	payment, err := scanPayment(row, true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Payment{}, ErrPaymentNotFound
		}
		return Payment{}, err
	}
	return payment, nil
}

func (r *repository) ListPayments(ctx context.Context, filters mdshared.ListFilters) ([]Payment, int64, error) {
	where := ""
	args := []any{}
	if filters.SupplierID != nil {
		args = append(args, *filters.SupplierID)
		where = fmt.Sprintf(" WHERE p.supplier_id=$%d", len(args))
	}
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM payments p`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	args = append(args, clampLimit(filters.Limit), offset(filters))
	query := paymentJoin + where + fmt.Sprintf(` ORDER BY p.id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var payments []Payment
	for rows.Next() {
		payment, err := scanPayment(rows, true)
		if err != nil {
			return nil, 0, err
		}
		payments = append(payments, payment)
	}
	return payments, total, rows.Err()
}

func (r *repository) ListPaymentsForBill(ctx context.Context, billID int64) ([]Payment, error) {
	rows, err := r.db.Query(ctx, `SELECT `+paymentColumns+` FROM payments WHERE bill_id=$1 ORDER BY id ASC`, billID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var payments []Payment
	for rows.Next() {
		payment, err := scanPayment(rows, false)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) Journals() journals.TxRepository {
	return journals.NewTxRepository(r.tx)
}

func (r *txRepository) NextNumber(ctx context.Context, series string, date time.Time) (string, error) {
	return shared.NextDocumentNumber(ctx, r.tx, series, date)
}

func (r *txRepository) InsertBill(ctx context.Context, bill Bill) (Bill, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO bills (number, supplier_id, bill_date, due_date, interstate, memo, subtotal, cgst, sgst, igst, cess, total, balance_due, status)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14) RETURNING `+billColumns,
		bill.Number, bill.SupplierID, bill.BillDate, bill.DueDate, bill.Interstate, bill.Memo,
		bill.Subtotal, bill.CGST, bill.SGST, bill.IGST, bill.Cess, bill.Total, bill.BalanceDue, bill.Status)
	return scanBill(row, false)
}

func (r *txRepository) InsertBillLines(ctx context.Context, billID int64, lines []BillLine) ([]BillLine, error) {
	inserted := make([]BillLine, 0, len(lines))
	for idx, line := range lines {
		var id int64
		err := r.tx.QueryRow(ctx, `INSERT INTO bill_lines (bill_id, line_no, description, account_id, tax_code_id, quantity, unit_price, discount_pct, taxable_value, cgst, sgst, igst, cess, total)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14) RETURNING id`,
			billID, idx+1, line.Description, line.AccountID, line.TaxCodeID, line.Quantity, line.UnitPrice, line.DiscountPct,
			line.TaxableValue, line.CGST, line.SGST, line.IGST, line.Cess, line.Total).Scan(&id)
		if err != nil {
			return nil, err
		}
		line.ID = id
		line.BillID = billID
		line.LineNo = idx + 1
		inserted = append(inserted, line)
	}
	return inserted, nil
}

func (r *txRepository) GetBillForUpdate(ctx context.Context, id int64) (Bill, error) {
	row := r.tx.QueryRow(ctx, `SELECT `+billColumns+` FROM bills WHERE id=$1 FOR UPDATE`, id)
	bill, err := scanBill(row, false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Bill{}, ErrBillNotFound
		}
		return Bill{}, err
	}
	return bill, nil
}

func (r *txRepository) GetBillLines(ctx context.Context, billID int64) ([]BillLine, error) {
	return loadBillLines(ctx, r.tx, billID)
}

func (r *txRepository) SetBillPosted(ctx context.Context, id, journalEntryID int64, postedAt time.Time, status DocStatus) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE bills SET status=$2, je_id=$3, posted_at=$4, updated_at=NOW() WHERE id=$1`,
		id, status, journalEntryID, postedAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrBillNotFound
	}
	return nil
}

func (r *txRepository) SetBillPaymentProgress(ctx context.Context, id int64, balanceDue decimal.Decimal, status DocStatus) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE bills SET balance_due=$2, status=$3, updated_at=NOW() WHERE id=$1`,
		id, balanceDue, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrBillNotFound
	}
	return nil
}

func (r *txRepository) SetBillVoid(ctx context.Context, id int64) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE bills SET status=$2, updated_at=NOW() WHERE id=$1`, id, StatusVoid)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrBillNotFound
	}
	return nil
}

func (r *txRepository) InsertNote(ctx context.Context, note DebitNote) (DebitNote, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO debit_notes (number, supplier_id, bill_id, note_date, interstate, reason, subtotal, cgst, sgst, igst, cess, total, status, applied_amount)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,0) RETURNING `+noteColumns,
		note.Number, note.SupplierID, note.BillID, note.NoteDate, note.Interstate, note.Reason,
		note.Subtotal, note.CGST, note.SGST, note.IGST, note.Cess, note.Total, note.Status)
	return scanNote(row, false)
}

func (r *txRepository) InsertNoteLines(ctx context.Context, noteID int64, lines []DebitNoteLine) ([]DebitNoteLine, error) {
	inserted := make([]DebitNoteLine, 0, len(lines))
	for idx, line := range lines {
		var id int64
		err := r.tx.QueryRow(ctx, `INSERT INTO debit_note_lines (note_id, line_no, description, account_id, tax_code_id, quantity, unit_price, discount_pct, taxable_value, cgst, sgst, igst, cess, total)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14) RETURNING id`,
			noteID, idx+1, line.Description, line.AccountID, line.TaxCodeID, line.Quantity, line.UnitPrice, line.DiscountPct,
			line.TaxableValue, line.CGST, line.SGST, line.IGST, line.Cess, line.Total).Scan(&id)
		if err != nil {
			return nil, err
		}
		line.ID = id
		line.NoteID = noteID
		line.LineNo = idx + 1
		inserted = append(inserted, line)
	}
	return inserted, nil
}

func (r *txRepository) GetNoteForUpdate(ctx context.Context, id int64) (DebitNote, error) {
	row := r.tx.QueryRow(ctx, `SELECT `+noteColumns+` FROM debit_notes WHERE id=$1 FOR UPDATE`, id)
	note, err := scanNote(row, false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DebitNote{}, ErrNoteNotFound
		}
		return DebitNote{}, err
	}
	return note, nil
}

func (r *txRepository) GetNoteLines(ctx context.Context, noteID int64) ([]DebitNoteLine, error) {
	return loadNoteLines(ctx, r.tx, noteID)
}

func (r *txRepository) SetNotePosted(ctx context.Context, id, journalEntryID int64, postedAt time.Time, status DocStatus) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE debit_notes SET status=$2, je_id=$3, posted_at=$4, updated_at=NOW() WHERE id=$1`,
		id, status, journalEntryID, postedAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (r *txRepository) SetNoteApplied(ctx context.Context, id, billID int64, amount decimal.Decimal, appliedAt time.Time) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE debit_notes SET status=$2, bill_id=$3, applied_amount=$4, applied_at=$5, updated_at=NOW() WHERE id=$1`,
		id, StatusApplied, billID, amount, appliedAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (r *txRepository) SetNoteVoid(ctx context.Context, id int64) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE debit_notes SET status=$2, updated_at=NOW() WHERE id=$1`, id, StatusVoid)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (r *txRepository) InsertPayment(ctx context.Context, payment Payment) (Payment, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO payments (number, supplier_id, bill_id, payment_date, amount, tds_amount, method, reference, memo, idempotency_key)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NULLIF($10,'')) RETURNING `+paymentColumns,
		payment.Number, payment.SupplierID, payment.BillID, payment.PaymentDate, payment.Amount, payment.TDSAmount,
		payment.Method, payment.Reference, payment.Memo, payment.IdempotencyKey)
	return scanPayment(row, false)
}

func (r *txRepository) SetPaymentJournal(ctx context.Context, id, journalEntryID int64) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE payments SET je_id=$2 WHERE id=$1`, id, journalEntryID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func loadBillLines(ctx context.Context, q querier, billID int64) ([]BillLine, error) {
	rows, err := q.Query(ctx, `SELECT id, bill_id, line_no, description, account_id, tax_code_id, quantity, unit_price, discount_pct, taxable_value, cgst, sgst, igst, cess, total
FROM bill_lines WHERE bill_id=$1 ORDER BY line_no ASC`, billID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []BillLine
	for rows.Next() {
		var line BillLine
		if err := rows.Scan(&line.ID, &line.BillID, &line.LineNo, &line.Description, &line.AccountID, &line.TaxCodeID,
			&line.Quantity, &line.UnitPrice, &line.DiscountPct, &line.TaxableValue, &line.CGST, &line.SGST, &line.IGST, &line.Cess, &line.Total); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func loadNoteLines(ctx context.Context, q querier, noteID int64) ([]DebitNoteLine, error) {
	rows, err := q.Query(ctx, `SELECT id, note_id, line_no, description, account_id, tax_code_id, quantity, unit_price, discount_pct, taxable_value, cgst, sgst, igst, cess, total
FROM debit_note_lines WHERE note_id=$1 ORDER BY line_no ASC`, noteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []DebitNoteLine
	for rows.Next() {
		var line DebitNoteLine
		if err := rows.Scan(&line.ID, &line.NoteID, &line.LineNo, &line.Description, &line.AccountID, &line.TaxCodeID,
			&line.Quantity, &line.UnitPrice, &line.DiscountPct, &line.TaxableValue, &line.CGST, &line.SGST, &line.IGST, &line.Cess, &line.Total); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func scanBill(row pgx.Row, withSupplier bool) (Bill, error) {
	var b Bill
	dest := []any{&b.ID, &b.Number, &b.SupplierID, &b.BillDate, &b.DueDate, &b.Interstate, &b.Memo,
		&b.Subtotal, &b.CGST, &b.SGST, &b.IGST, &b.Cess, &b.Total, &b.BalanceDue,
		&b.Status, &b.JournalEntryID, &b.PostedAt, &b.CreatedAt, &b.UpdatedAt}
	if withSupplier {
		dest = append(dest, &b.SupplierName)
	}
	if err := row.Scan(dest...); err != nil {
		return Bill{}, err
	}
	return b, nil
}

func scanNote(row pgx.Row, withSupplier bool) (DebitNote, error) {
	var n DebitNote
	dest := []any{&n.ID, &n.Number, &n.SupplierID, &n.BillID, &n.NoteDate, &n.Interstate, &n.Reason,
		&n.Subtotal, &n.CGST, &n.SGST, &n.IGST, &n.Cess, &n.Total,
		&n.Status, &n.JournalEntryID, &n.AppliedAmount, &n.AppliedAt, &n.PostedAt, &n.CreatedAt, &n.UpdatedAt}
	if withSupplier {
		dest = append(dest, &n.SupplierName)
	}
	if err := row.Scan(dest...); err != nil {
		return DebitNote{}, err
	}
	return n, nil
}

func scanPayment(row pgx.Row, withSupplier bool) (Payment, error) {
	var p Payment
	dest := []any{&p.ID, &p.Number, &p.SupplierID, &p.BillID, &p.PaymentDate, &p.Amount, &p.TDSAmount,
		&p.Method, &p.Reference, &p.Memo, &p.IdempotencyKey, &p.JournalEntryID, &p.CreatedAt}
	if withSupplier {
		dest = append(dest, &p.SupplierName)
	}
	if err := row.Scan(dest...); err != nil {
		return Payment{}, err
	}
	return p, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > mdshared.MaxLimit {
		return mdshared.DefaultLimit
	}
	return limit
}

func offset(filters mdshared.ListFilters) int {
	page := filters.Page
	if page <= 0 {
		page = 1
	}
	return (page - 1) * clampLimit(filters.Limit)
}
