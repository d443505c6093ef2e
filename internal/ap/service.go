package ap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/journals"
	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/shared"
	mdshared "github.com/bahikhata-erp/bahikhata-erp/internal/masterdata/shared"
	"github.com/bahikhata-erp/bahikhata-erp/internal/masterdata/suppliers"
	idem "github.com/bahikhata-erp/bahikhata-erp/internal/shared"
	"github.com/bahikhata-erp/bahikhata-erp/internal/tax"
)

var (
	ErrBillNotFound    = errors.New("ap: bill not found")
	ErrNoteNotFound    = errors.New("ap: debit note not found")
	ErrPaymentNotFound = errors.New("ap: payment not found")
)

// maxPostAttempts bounds retries after serialization conflicts. The
// conflicting transaction has committed by the time we retry, so one or
// two attempts almost always suffice.
const maxPostAttempts = 3

type Service struct {
	repo      Repository
	suppliers suppliers.Repository
	taxes     *tax.Service
	builder   *EntryBuilder
	poster    *journals.Poster
	idem      *idem.IdempotencyStore
	homeState string
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(
	repo Repository,
	suppliersRepo suppliers.Repository,
	taxes *tax.Service,
	builder *EntryBuilder,
	poster *journals.Poster,
	idemStore *idem.IdempotencyStore,
	homeState string,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		suppliers: suppliersRepo,
		taxes:     taxes,
		builder:   builder,
		poster:    poster,
		idem:      idemStore,
		homeState: homeState,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// CreateBill prices the lines, apportions GST and stores a draft.
// Nothing touches the ledger until the bill is posted.
func (s *Service) CreateBill(ctx context.Context, input CreateBillInput) (Bill, error) {
	if len(input.Lines) == 0 {
		return Bill{}, errors.New("ap: at least one line required")
	}
	supplier, err := s.suppliers.Get(ctx, input.SupplierID)
	if err != nil {
		return Bill{}, err
	}
	interstate := s.deriveInterstate(supplier, input.Interstate)

	billDate := input.BillDate
	if billDate.IsZero() {
		billDate = s.now()
	}
	dueDate := input.DueDate
	if dueDate.IsZero() {
		dueDate = billDate.AddDate(0, 0, 30)
	}

	lines, totals, err := s.priceLines(ctx, input.Lines, interstate)
	if err != nil {
		return Bill{}, err
	}
	bill := Bill{
		SupplierID: supplier.ID,
		BillDate:   billDate,
		DueDate:    dueDate,
		Interstate: interstate,
		Memo:       input.Memo,
		Subtotal:   totals.Subtotal,
		CGST:       totals.CGST,
		SGST:       totals.SGST,
		IGST:       totals.IGST,
		Cess:       totals.Cess,
		Total:      totals.GrandTotal,
		BalanceDue: totals.GrandTotal,
		Status:     StatusDraft,
	}
	billLines := make([]BillLine, len(lines))
	for i, priced := range lines {
		billLines[i] = BillLine{
			Description:  input.Lines[i].Description,
			AccountID:    input.Lines[i].AccountID,
			TaxCodeID:    input.Lines[i].TaxCodeID,
			Quantity:     input.Lines[i].Quantity,
			UnitPrice:    input.Lines[i].UnitPrice,
			DiscountPct:  input.Lines[i].DiscountPct,
			TaxableValue: priced.TaxableValue,
			CGST:         priced.CGST,
			SGST:         priced.SGST,
			IGST:         priced.IGST,
			Cess:         priced.Cess,
			Total:        priced.Total,
		}
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		number, err := tx.NextNumber(ctx, "BILL", bill.BillDate)
		if err != nil {
			return err
		}
		bill.Number = number
		created, err := tx.InsertBill(ctx, bill)
		if err != nil {
			return err
		}
		insertedLines, err := tx.InsertBillLines(ctx, created.ID, billLines)
		if err != nil {
			return err
		}
		bill = created
		bill.Lines = insertedLines
		return nil
	})
	if err != nil {
		return Bill{}, err
	}
	bill.SupplierName = supplier.Name
	return bill, nil
}

// PostBill makes a draft bill real: journal entry, ledger rows, balance
// updates and the status flip land in one transaction.
func (s *Service) PostBill(ctx context.Context, billID int64) (Bill, journals.JournalEntry, error) {
	var bill Bill
	var entry journals.JournalEntry
	err := s.withRetry(ctx, "post bill", func(ctx context.Context) error {
		return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			current, err := tx.GetBillForUpdate(ctx, billID)
			if err != nil {
				return err
			}
			next, err := Transition(current.Status, EventPost)
			if err != nil {
				return err
			}
			lines, err := tx.GetBillLines(ctx, billID)
			if err != nil {
				return err
			}
			posting, err := s.builder.BillEntry(ctx, current, lines)
			if err != nil {
				return err
			}
			posted, err := s.poster.PostWithin(ctx, tx.Journals(), posting)
			if err != nil {
				if errors.Is(err, shared.ErrSourceConflict) {
					return fmt.Errorf("bill %s: %w", current.Number, shared.ErrAlreadyPosted)
				}
				return err
			}
			postedAt := s.now()
			if err := tx.SetBillPosted(ctx, billID, posted.ID, postedAt, next); err != nil {
				return err
			}
			bill = current
			bill.Status = next
			bill.PostedAt = &postedAt
			bill.JournalEntryID = &posted.ID
			bill.Lines = lines
			entry = posted
			return nil
		})
	})
	if err != nil {
		return Bill{}, journals.JournalEntry{}, err
	}
	return bill, entry, nil
}

// VoidBill discards a draft. Posted bills are immutable; corrections go
// through debit notes.
func (s *Service) VoidBill(ctx context.Context, billID int64) (Bill, error) {
	var bill Bill
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetBillForUpdate(ctx, billID)
		if err != nil {
			return err
		}
		next, err := Transition(current.Status, EventVoid)
		if err != nil {
			return err
		}
		if err := tx.SetBillVoid(ctx, billID); err != nil {
			return err
		}
		bill = current
		bill.Status = next
		return nil
	})
	if err != nil {
		return Bill{}, err
	}
	return bill, nil
}

// CreateDebitNote prices and stores a draft note without touching the
// referenced bill.
func (s *Service) CreateDebitNote(ctx context.Context, input CreateDebitNoteInput) (DebitNote, error) {
	if len(input.Lines) == 0 {
		return DebitNote{}, errors.New("ap: at least one line required")
	}
	supplier, err := s.suppliers.Get(ctx, input.SupplierID)
	if err != nil {
		return DebitNote{}, err
	}
	if input.BillID != nil {
		bill, err := s.repo.GetBill(ctx, *input.BillID)
		if err != nil {
			return DebitNote{}, err
		}
		if bill.SupplierID != supplier.ID {
			return DebitNote{}, errors.New("ap: referenced bill belongs to a different supplier")
		}
	}
	interstate := s.deriveInterstate(supplier, input.Interstate)

	noteDate := input.NoteDate
	if noteDate.IsZero() {
		noteDate = s.now()
	}
	lines, totals, err := s.priceLines(ctx, input.Lines, interstate)
	if err != nil {
		return DebitNote{}, err
	}
	note := DebitNote{
		SupplierID: supplier.ID,
		BillID:     input.BillID,
		NoteDate:   noteDate,
		Interstate: interstate,
		Reason:     input.Reason,
		Subtotal:   totals.Subtotal,
		CGST:       totals.CGST,
		SGST:       totals.SGST,
		IGST:       totals.IGST,
		Cess:       totals.Cess,
		Total:      totals.GrandTotal,
		Status:     StatusDraft,
	}
	noteLines := make([]DebitNoteLine, len(lines))
	for i, priced := range lines {
		noteLines[i] = DebitNoteLine{
			Description:  input.Lines[i].Description,
			AccountID:    input.Lines[i].AccountID,
			TaxCodeID:    input.Lines[i].TaxCodeID,
			Quantity:     input.Lines[i].Quantity,
			UnitPrice:    input.Lines[i].UnitPrice,
			DiscountPct:  input.Lines[i].DiscountPct,
			TaxableValue: priced.TaxableValue,
			CGST:         priced.CGST,
			SGST:         priced.SGST,
			IGST:         priced.IGST,
			Cess:         priced.Cess,
			Total:        priced.Total,
		}
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		number, err := tx.NextNumber(ctx, "DN", note.NoteDate)
		if err != nil {
			return err
		}
		note.Number = number
		created, err := tx.InsertNote(ctx, note)
		if err != nil {
			return err
		}
		insertedLines, err := tx.InsertNoteLines(ctx, created.ID, noteLines)
		if err != nil {
			return err
		}
		note = created
		note.Lines = insertedLines
		return nil
	})
	if err != nil {
		return DebitNote{}, err
	}
	note.SupplierName = supplier.Name
	return note, nil
}

// PostDebitNote posts the mirrored journal entry and flips the note to
// POSTED. The payable shrinks here; the bill's balance moves later,
// when the note is applied.
func (s *Service) PostDebitNote(ctx context.Context, noteID int64) (DebitNote, journals.JournalEntry, error) {
	var note DebitNote
	var entry journals.JournalEntry
	err := s.withRetry(ctx, "post debit note", func(ctx context.Context) error {
		return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			current, err := tx.GetNoteForUpdate(ctx, noteID)
			if err != nil {
				return err
			}
			next, err := Transition(current.Status, EventPost)
			if err != nil {
				return err
			}
			lines, err := tx.GetNoteLines(ctx, noteID)
			if err != nil {
				return err
			}
			posting, err := s.builder.DebitNoteEntry(ctx, current, lines)
			if err != nil {
				return err
			}
			posted, err := s.poster.PostWithin(ctx, tx.Journals(), posting)
			if err != nil {
				if errors.Is(err, shared.ErrSourceConflict) {
					return fmt.Errorf("debit note %s: %w", current.Number, shared.ErrAlreadyPosted)
				}
				return err
			}
			postedAt := s.now()
			if err := tx.SetNotePosted(ctx, noteID, posted.ID, postedAt, next); err != nil {
				return err
			}
			note = current
			note.Status = next
			note.PostedAt = &postedAt
			note.JournalEntryID = &posted.ID
			note.Lines = lines
			entry = posted
			return nil
		})
	})
	if err != nil {
		return DebitNote{}, journals.JournalEntry{}, err
	}
	return note, entry, nil
}

// ApplyDebitNote offsets a posted note against a posted bill. The
// note's posting already reduced the payable, so application is pure
// allocation bookkeeping: the bill's balance drops by the smaller of
// the note total and the remaining balance, and no journal entry is
// created.
func (s *Service) ApplyDebitNote(ctx context.Context, input ApplyDebitNoteInput) (DebitNote, Bill, error) {
	var note DebitNote
	var bill Bill
	err := s.withRetry(ctx, "apply debit note", func(ctx context.Context) error {
		return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			currentNote, err := tx.GetNoteForUpdate(ctx, input.NoteID)
			if err != nil {
				return err
			}
			if _, err := Transition(currentNote.Status, EventApply); err != nil {
				return err
			}
			currentBill, err := tx.GetBillForUpdate(ctx, input.BillID)
			if err != nil {
				return err
			}
			if currentBill.SupplierID != currentNote.SupplierID {
				return errors.New("ap: note and bill belong to different suppliers")
			}
			if currentNote.BillID != nil && *currentNote.BillID != currentBill.ID {
				return errors.New("ap: note references a different bill")
			}

			applied := decimal.Min(currentNote.Total, currentBill.BalanceDue)
			newBalance := currentBill.BalanceDue.Sub(applied)
			event := EventPay
			if newBalance.IsZero() {
				event = EventSettle
			}
			nextBill, err := Transition(currentBill.Status, event)
			if err != nil {
				return err
			}
			appliedAt := s.now()
			if err := tx.SetNoteApplied(ctx, currentNote.ID, currentBill.ID, applied, appliedAt); err != nil {
				return err
			}
			if err := tx.SetBillPaymentProgress(ctx, currentBill.ID, newBalance, nextBill); err != nil {
				return err
			}

			note = currentNote
			note.Status = StatusApplied
			note.BillID = &currentBill.ID
			note.AppliedAmount = applied
			note.AppliedAt = &appliedAt
			bill = currentBill
			bill.Status = nextBill
			bill.BalanceDue = newBalance
			return nil
		})
	})
	if err != nil {
		return DebitNote{}, Bill{}, err
	}
	return note, bill, nil
}

// VoidDebitNote discards a draft note.
func (s *Service) VoidDebitNote(ctx context.Context, noteID int64) (DebitNote, error) {
	var note DebitNote
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetNoteForUpdate(ctx, noteID)
		if err != nil {
			return err
		}
		next, err := Transition(current.Status, EventVoid)
		if err != nil {
			return err
		}
		if err := tx.SetNoteVoid(ctx, noteID); err != nil {
			return err
		}
		note = current
		note.Status = next
		return nil
	})
	if err != nil {
		return DebitNote{}, err
	}
	return note, nil
}

// RegisterPayment settles part of a bill in one transaction: payment
// row, journal entry, ledger rows and the bill's new balance and status
// commit together. A repeated Idempotency-Key returns the original
// payment instead of paying twice.
func (s *Service) RegisterPayment(ctx context.Context, input RegisterPaymentInput) (Payment, error) {
	if !input.Amount.IsPositive() {
		return Payment{}, errors.New("ap: amount must be positive")
	}
	if input.TDSAmount.IsNegative() {
		return Payment{}, errors.New("ap: tds amount cannot be negative")
	}
	if input.TDSAmount.GreaterThanOrEqual(input.Amount) {
		return Payment{}, errors.New("ap: tds amount must be less than the payment amount")
	}

	if input.IdempotencyKey != "" {
		if existing, err := s.repo.GetPaymentByKey(ctx, input.IdempotencyKey); err == nil {
			return existing, nil
		} else if !errors.Is(err, ErrPaymentNotFound) {
			return Payment{}, err
		}
		if err := s.idem.CheckAndInsert(ctx, input.IdempotencyKey, "ap.payment"); err != nil {
			if errors.Is(err, idem.ErrIdempotencyConflict) {
				if existing, lookupErr := s.repo.GetPaymentByKey(ctx, input.IdempotencyKey); lookupErr == nil {
					return existing, nil
				}
			}
			return Payment{}, err
		}
	}

	paymentDate := input.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = s.now()
	}

	var payment Payment
	err := s.withRetry(ctx, "register payment", func(ctx context.Context) error {
		return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			bill, err := tx.GetBillForUpdate(ctx, input.BillID)
			if err != nil {
				return err
			}
			if _, err := Transition(bill.Status, EventPay); err != nil {
				return err
			}
			if input.Amount.GreaterThan(bill.BalanceDue) {
				return fmt.Errorf("amount %s exceeds balance due %s: %w",
					input.Amount.StringFixed(2), bill.BalanceDue.StringFixed(2), shared.ErrOverpayment)
			}

			number, err := tx.NextNumber(ctx, "PAY", paymentDate)
			if err != nil {
				return err
			}
			created, err := tx.InsertPayment(ctx, Payment{
				Number:         number,
				SupplierID:     bill.SupplierID,
				BillID:         bill.ID,
				PaymentDate:    paymentDate,
				Amount:         input.Amount,
				TDSAmount:      input.TDSAmount,
				Method:         input.Method,
				Reference:      input.Reference,
				Memo:           input.Memo,
				IdempotencyKey: input.IdempotencyKey,
			})
			if err != nil {
				return err
			}
			posting, err := s.builder.PaymentEntry(ctx, created)
			if err != nil {
				return err
			}
			entry, err := s.poster.PostWithin(ctx, tx.Journals(), posting)
			if err != nil {
				return err
			}
			if err := tx.SetPaymentJournal(ctx, created.ID, entry.ID); err != nil {
				return err
			}

			newBalance := bill.BalanceDue.Sub(input.Amount)
			event := EventPay
			if newBalance.IsZero() {
				event = EventSettle
			}
			next, err := Transition(bill.Status, event)
			if err != nil {
				return err
			}
			if err := tx.SetBillPaymentProgress(ctx, bill.ID, newBalance, next); err != nil {
				return err
			}

			created.JournalEntryID = &entry.ID
			payment = created
			return nil
		})
	})
	if err != nil {
		if input.IdempotencyKey != "" {
			_ = s.idem.Delete(ctx, input.IdempotencyKey)
		}
		return Payment{}, err
	}
	return payment, nil
}

// Aging buckets open bill balances by days overdue as of the given day.
func (s *Service) Aging(ctx context.Context, asOf time.Time) (AgingBuckets, error) {
	balances, err := s.repo.GetOpenBillBalances(ctx)
	if err != nil {
		return AgingBuckets{}, err
	}
	var buckets AgingBuckets
	for _, open := range balances {
		if !open.BalanceDue.IsPositive() {
			continue
		}
		overdue := int(asOf.Sub(open.DueDate).Hours() / 24)
		switch {
		case overdue <= 0:
			buckets.Current = buckets.Current.Add(open.BalanceDue)
		case overdue <= 30:
			buckets.Bucket30 = buckets.Bucket30.Add(open.BalanceDue)
		case overdue <= 60:
			buckets.Bucket60 = buckets.Bucket60.Add(open.BalanceDue)
		case overdue <= 90:
			buckets.Bucket90 = buckets.Bucket90.Add(open.BalanceDue)
		default:
			buckets.Bucket120 = buckets.Bucket120.Add(open.BalanceDue)
		}
		buckets.Total = buckets.Total.Add(open.BalanceDue)
	}
	return buckets, nil
}

func (s *Service) GetBill(ctx context.Context, id int64) (Bill, error) {
	bill, err := s.repo.GetBill(ctx, id)
	if err != nil {
		return Bill{}, err
	}
	payments, err := s.repo.ListPaymentsForBill(ctx, id)
	if err != nil {
		return Bill{}, err
	}
	bill.Payments = payments
	return bill, nil
}

func (s *Service) ListBills(ctx context.Context, filters mdshared.ListFilters) ([]Bill, int64, error) {
	return s.repo.ListBills(ctx, filters)
}

func (s *Service) GetDebitNote(ctx context.Context, id int64) (DebitNote, error) {
	return s.repo.GetNote(ctx, id)
}

func (s *Service) ListDebitNotes(ctx context.Context, filters mdshared.ListFilters) ([]DebitNote, int64, error) {
	return s.repo.ListNotes(ctx, filters)
}

func (s *Service) GetPayment(ctx context.Context, id int64) (Payment, error) {
	return s.repo.GetPayment(ctx, id)
}

func (s *Service) ListPayments(ctx context.Context, filters mdshared.ListFilters) ([]Payment, int64, error) {
	return s.repo.ListPayments(ctx, filters)
}

func (s *Service) deriveInterstate(supplier suppliers.Supplier, override *bool) bool {
	if override != nil {
		return *override
	}
	return supplier.StateCode != "" && supplier.StateCode != s.homeState
}

func (s *Service) priceLines(ctx context.Context, inputs []LineInput, interstate bool) ([]tax.LineAmounts, tax.DocumentTotals, error) {
	priced := make([]tax.LineAmounts, 0, len(inputs))
	codes := make(map[int64]tax.TaxCode)
	for idx, line := range inputs {
		if !line.Quantity.IsPositive() {
			return nil, tax.DocumentTotals{}, fmt.Errorf("ap: line %d quantity must be positive", idx)
		}
		if line.UnitPrice.IsNegative() {
			return nil, tax.DocumentTotals{}, fmt.Errorf("ap: line %d unit price cannot be negative", idx)
		}
		var code *tax.TaxCode
		if line.TaxCodeID != nil {
			cached, ok := codes[*line.TaxCodeID]
			if !ok {
				fetched, err := s.taxes.Get(ctx, *line.TaxCodeID)
				if err != nil {
					return nil, tax.DocumentTotals{}, err
				}
				codes[*line.TaxCodeID] = fetched
				cached = fetched
			}
			code = &cached
		}
		priced = append(priced, tax.Apportion(tax.LineInput{
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			DiscountPct: line.DiscountPct,
		}, code, interstate))
	}
	return priced, tax.Sum(priced), nil
}

// withRetry reruns the whole transaction after a serialization
// conflict. Business errors pass through untouched.
func (s *Service) withRetry(ctx context.Context, op string, fn func(context.Context) error) error {
	var err error
	for attempt := 1; attempt <= maxPostAttempts; attempt++ {
		err = fn(ctx)
		if err == nil || !errors.Is(err, shared.ErrSerializationConflict) {
			return err
		}
		if s.logger != nil {
			s.logger.Warn("retrying after serialization conflict",
				slog.String("op", op), slog.Int("attempt", attempt))
		}
	}
	return err
}
