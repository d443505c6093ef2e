package ap

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/journals"
	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/mappings"
)

// Source modules recorded on journal entries and their unique links.
const (
	SourceBill    = "AP.BILL"
	SourceNote    = "AP.DEBIT_NOTE"
	SourcePayment = "AP.PAYMENT"
)

// SourceUUID derives a stable reference for a document so reposting the
// same document always collides on the journal source link.
func SourceUUID(module string, id int64) uuid.UUID {
	return uuid.NewSHA1(uuid.Nil, []byte(fmt.Sprintf("%s:%d", module, id)))
}

// EntryBuilder translates payables documents into balanced posting
// input. All account resolution goes through mappings; the builder
// fails with the missing key rather than guessing an account.
type EntryBuilder struct {
	mappings *mappings.Service
}

func NewEntryBuilder(mappingsService *mappings.Service) *EntryBuilder {
	return &EntryBuilder{mappings: mappingsService}
}

type chargeLine struct {
	accountID *int64
	taxable   decimal.Decimal
}

type chargeTotals struct {
	cgst decimal.Decimal
	sgst decimal.Decimal
	igst decimal.Decimal
	cess decimal.Decimal
}

// BillEntry builds the bill posting: debit expenses and GST input
// accounts, credit AP control for the grand total.
func (b *EntryBuilder) BillEntry(ctx context.Context, bill Bill, lines []BillLine) (journals.PostingInput, error) {
	charges := make([]chargeLine, 0, len(lines))
	for _, line := range lines {
		charges = append(charges, chargeLine{accountID: line.AccountID, taxable: line.TaxableValue})
	}
	debits, err := b.chargeSide(ctx, charges, chargeTotals{cgst: bill.CGST, sgst: bill.SGST, igst: bill.IGST, cess: bill.Cess})
	if err != nil {
		return journals.PostingInput{}, err
	}
	control, err := b.mappings.Resolve(ctx, mappings.ModuleAP, mappings.KeyAPControl)
	if err != nil {
		return journals.PostingInput{}, err
	}
	postingLines := make([]journals.PostingLineInput, 0, len(debits)+1)
	for _, d := range debits {
		postingLines = append(postingLines, journals.PostingLineInput{
			AccountID:   d.AccountID,
			Description: d.Description,
			Debit:       d.Amount,
		})
	}
	postingLines = append(postingLines, journals.PostingLineInput{
		AccountID:   control.AccountID,
		Description: "Payable to supplier",
		Credit:      bill.Total,
	})
	return journals.PostingInput{
		Date:         bill.BillDate,
		SourceModule: SourceBill,
		SourceID:     SourceUUID(SourceBill, bill.ID),
		Memo:         "Vendor bill " + bill.Number,
		Lines:        postingLines,
	}, nil
}

// DebitNoteEntry mirrors the bill posting: debit AP control for the
// note total, credit the expense and GST input accounts.
func (b *EntryBuilder) DebitNoteEntry(ctx context.Context, note DebitNote, lines []DebitNoteLine) (journals.PostingInput, error) {
	charges := make([]chargeLine, 0, len(lines))
	for _, line := range lines {
		charges = append(charges, chargeLine{accountID: line.AccountID, taxable: line.TaxableValue})
	}
	credits, err := b.chargeSide(ctx, charges, chargeTotals{cgst: note.CGST, sgst: note.SGST, igst: note.IGST, cess: note.Cess})
	if err != nil {
		return journals.PostingInput{}, err
	}
	control, err := b.mappings.Resolve(ctx, mappings.ModuleAP, mappings.KeyAPControl)
	if err != nil {
		return journals.PostingInput{}, err
	}
	postingLines := make([]journals.PostingLineInput, 0, len(credits)+1)
	postingLines = append(postingLines, journals.PostingLineInput{
		AccountID:   control.AccountID,
		Description: "Reduce payable to supplier",
		Debit:       note.Total,
	})
	for _, c := range credits {
		postingLines = append(postingLines, journals.PostingLineInput{
			AccountID:   c.AccountID,
			Description: c.Description,
			Credit:      c.Amount,
		})
	}
	return journals.PostingInput{
		Date:         note.NoteDate,
		SourceModule: SourceNote,
		SourceID:     SourceUUID(SourceNote, note.ID),
		Memo:         "Debit note " + note.Number,
		Lines:        postingLines,
	}, nil
}

// PaymentEntry releases the payable: debit AP control for the gross
// amount, credit the bank for the net outflow and TDS payable for the
// withheld slice.
func (b *EntryBuilder) PaymentEntry(ctx context.Context, payment Payment) (journals.PostingInput, error) {
	control, err := b.mappings.Resolve(ctx, mappings.ModuleAP, mappings.KeyAPControl)
	if err != nil {
		return journals.PostingInput{}, err
	}
	bank, err := b.mappings.Resolve(ctx, mappings.ModuleAP, mappings.KeyAPBank)
	if err != nil {
		return journals.PostingInput{}, err
	}
	postingLines := []journals.PostingLineInput{
		{AccountID: control.AccountID, Description: "Settle supplier balance", Debit: payment.Amount},
		{AccountID: bank.AccountID, Description: "Bank outflow", Credit: payment.Amount.Sub(payment.TDSAmount)},
	}
	if payment.TDSAmount.IsPositive() {
		tds, err := b.mappings.Resolve(ctx, mappings.ModuleTDS, mappings.KeyTDSPayable)
		if err != nil {
			return journals.PostingInput{}, err
		}
		postingLines = append(postingLines, journals.PostingLineInput{
			AccountID:   tds.AccountID,
			Description: "TDS withheld",
			Credit:      payment.TDSAmount,
		})
	}
	return journals.PostingInput{
		Date:         payment.PaymentDate,
		SourceModule: SourcePayment,
		SourceID:     SourceUUID(SourcePayment, payment.ID),
		Memo:         "Payment " + payment.Number,
		Lines:        postingLines,
	}, nil
}

type sideLine struct {
	AccountID   int64
	Description string
	Amount      decimal.Decimal
}

// chargeSide groups taxable values by effective expense account in
// first-seen order, then appends one amount per GST component that is
// present on the document.
func (b *EntryBuilder) chargeSide(ctx context.Context, charges []chargeLine, taxes chargeTotals) ([]sideLine, error) {
	var defaultExpense int64
	order := make([]int64, 0, len(charges))
	totals := make(map[int64]decimal.Decimal, len(charges))
	for _, charge := range charges {
		accountID := int64(0)
		if charge.accountID != nil {
			accountID = *charge.accountID
		}
		if accountID == 0 {
			if defaultExpense == 0 {
				m, err := b.mappings.Resolve(ctx, mappings.ModuleAP, mappings.KeyAPExpense)
				if err != nil {
					return nil, err
				}
				defaultExpense = m.AccountID
			}
			accountID = defaultExpense
		}
		if _, ok := totals[accountID]; !ok {
			order = append(order, accountID)
		}
		totals[accountID] = totals[accountID].Add(charge.taxable)
	}

	out := make([]sideLine, 0, len(order)+4)
	for _, id := range order {
		out = append(out, sideLine{AccountID: id, Description: "Expense", Amount: totals[id]})
	}
	gst := []struct {
		key    string
		label  string
		amount decimal.Decimal
	}{
		{mappings.KeyGSTInputCGST, "Input CGST", taxes.cgst},
		{mappings.KeyGSTInputSGST, "Input SGST", taxes.sgst},
		{mappings.KeyGSTInputIGST, "Input IGST", taxes.igst},
		{mappings.KeyGSTInputCess, "Input cess", taxes.cess},
	}
	for _, component := range gst {
		if !component.amount.IsPositive() {
			continue
		}
		m, err := b.mappings.Resolve(ctx, mappings.ModuleGST, component.key)
		if err != nil {
			return nil, err
		}
		out = append(out, sideLine{AccountID: m.AccountID, Description: component.label, Amount: component.amount})
	}
	return out, nil
}
