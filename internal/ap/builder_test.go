package ap

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/mappings"
	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/shared"
)

// fakeMappings resolves posting keys from a map. Missing keys fail the
// same way the real repository does.
type fakeMappings struct {
	byKey map[string]int64
}

func (f *fakeMappings) Get(ctx context.Context, module, key string) (mappings.AccountMapping, error) {
	id, ok := f.byKey[module+"/"+key]
	if !ok {
		return mappings.AccountMapping{}, fmt.Errorf("%s/%s: %w", module, key, shared.ErrAccountNotConfigured)
	}
	return mappings.AccountMapping{Module: module, Key: key, AccountID: id}, nil
}

func (f *fakeMappings) List(ctx context.Context) ([]mappings.MappingDetail, error) {
	return nil, nil
}

func (f *fakeMappings) Set(ctx context.Context, mapping mappings.AccountMapping) (mappings.AccountMapping, error) {
	f.byKey[mapping.Module+"/"+mapping.Key] = mapping.AccountID
	return mapping, nil
}

func testMappings() *fakeMappings {
	return &fakeMappings{byKey: map[string]int64{
		"AP/control":         21,
		"AP/bank":            12,
		"AP/expense.default": 50,
		"GST/input.cgst":     13,
		"GST/input.sgst":     14,
		"GST/input.igst":     15,
		"GST/input.cess":     16,
		"TDS/payable":        22,
	}}
}

func TestBillEntryDebitsChargesCreditsControl(t *testing.T) {
	builder := NewEntryBuilder(mappings.NewService(testMappings()))
	freight := int64(60)
	bill := Bill{
		ID:       7,
		Number:   "BILL-2026-000007",
		BillDate: time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		Subtotal: decimal.NewFromInt(1000),
		CGST:     decimal.NewFromInt(90),
		SGST:     decimal.NewFromInt(90),
		Total:    decimal.NewFromInt(1180),
	}
	lines := []BillLine{
		{TaxableValue: decimal.NewFromInt(700)},
		{AccountID: &freight, TaxableValue: decimal.NewFromInt(200)},
		{TaxableValue: decimal.NewFromInt(100)},
	}

	input, err := builder.BillEntry(context.Background(), bill, lines)
	require.NoError(t, err)
	require.NoError(t, input.Validate())

	require.Equal(t, SourceBill, input.SourceModule)
	require.Equal(t, SourceUUID(SourceBill, 7), input.SourceID)
	require.Equal(t, "Vendor bill BILL-2026-000007", input.Memo)

	// Expense lines group by account in first-seen order, taxes follow,
	// control credit closes the entry.
	require.Len(t, input.Lines, 5)
	require.Equal(t, int64(50), input.Lines[0].AccountID)
	require.True(t, input.Lines[0].Debit.Equal(decimal.NewFromInt(800)))
	require.Equal(t, int64(60), input.Lines[1].AccountID)
	require.True(t, input.Lines[1].Debit.Equal(decimal.NewFromInt(200)))
	require.Equal(t, int64(13), input.Lines[2].AccountID)
	require.True(t, input.Lines[2].Debit.Equal(decimal.NewFromInt(90)))
	require.Equal(t, int64(14), input.Lines[3].AccountID)
	require.True(t, input.Lines[3].Debit.Equal(decimal.NewFromInt(90)))
	require.Equal(t, int64(21), input.Lines[4].AccountID)
	require.True(t, input.Lines[4].Credit.Equal(decimal.NewFromInt(1180)))
}

func TestBillEntryInterstateCarriesOnlyIGST(t *testing.T) {
	builder := NewEntryBuilder(mappings.NewService(testMappings()))
	bill := Bill{
		ID:         8,
		Number:     "BILL-2026-000008",
		BillDate:   time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		Interstate: true,
		Subtotal:   decimal.NewFromInt(1000),
		IGST:       decimal.NewFromInt(180),
		Total:      decimal.NewFromInt(1180),
	}
	lines := []BillLine{{TaxableValue: decimal.NewFromInt(1000)}}

	input, err := builder.BillEntry(context.Background(), bill, lines)
	require.NoError(t, err)
	require.NoError(t, input.Validate())

	require.Len(t, input.Lines, 3)
	require.Equal(t, int64(50), input.Lines[0].AccountID)
	require.Equal(t, int64(15), input.Lines[1].AccountID)
	require.True(t, input.Lines[1].Debit.Equal(decimal.NewFromInt(180)))
	require.Equal(t, int64(21), input.Lines[2].AccountID)
}

func TestBillEntryFailsOnMissingMapping(t *testing.T) {
	repo := testMappings()
	delete(repo.byKey, "GST/input.cgst")
	builder := NewEntryBuilder(mappings.NewService(repo))
	bill := Bill{
		ID:       9,
		Number:   "BILL-2026-000009",
		BillDate: time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		CGST:     decimal.NewFromInt(90),
		SGST:     decimal.NewFromInt(90),
		Total:    decimal.NewFromInt(1180),
	}
	lines := []BillLine{{TaxableValue: decimal.NewFromInt(1000)}}

	_, err := builder.BillEntry(context.Background(), bill, lines)
	require.ErrorIs(t, err, shared.ErrAccountNotConfigured)
	require.Contains(t, err.Error(), "GST/input.cgst")
}

func TestDebitNoteEntryMirrorsBillPosting(t *testing.T) {
	builder := NewEntryBuilder(mappings.NewService(testMappings()))
	note := DebitNote{
		ID:       3,
		Number:   "DN-2026-000003",
		NoteDate: time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC),
		Subtotal: decimal.NewFromInt(200),
		CGST:     decimal.NewFromInt(18),
		SGST:     decimal.NewFromInt(18),
		Total:    decimal.NewFromInt(236),
	}
	lines := []DebitNoteLine{{TaxableValue: decimal.NewFromInt(200)}}

	input, err := builder.DebitNoteEntry(context.Background(), note, lines)
	require.NoError(t, err)
	require.NoError(t, input.Validate())

	require.Equal(t, SourceNote, input.SourceModule)
	require.Len(t, input.Lines, 4)
	// Control is debited first, charges are credited back out.
	require.Equal(t, int64(21), input.Lines[0].AccountID)
	require.True(t, input.Lines[0].Debit.Equal(decimal.NewFromInt(236)))
	require.Equal(t, int64(50), input.Lines[1].AccountID)
	require.True(t, input.Lines[1].Credit.Equal(decimal.NewFromInt(200)))
	require.Equal(t, int64(13), input.Lines[2].AccountID)
	require.True(t, input.Lines[2].Credit.Equal(decimal.NewFromInt(18)))
	require.Equal(t, int64(14), input.Lines[3].AccountID)
	require.True(t, input.Lines[3].Credit.Equal(decimal.NewFromInt(18)))
}

func TestPaymentEntrySplitsTDS(t *testing.T) {
	builder := NewEntryBuilder(mappings.NewService(testMappings()))
	payment := Payment{
		ID:          5,
		Number:      "PAY-2026-000005",
		PaymentDate: time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(1000),
		TDSAmount:   decimal.NewFromInt(100),
	}

	input, err := builder.PaymentEntry(context.Background(), payment)
	require.NoError(t, err)
	require.NoError(t, input.Validate())

	require.Equal(t, SourcePayment, input.SourceModule)
	require.Len(t, input.Lines, 3)
	require.Equal(t, int64(21), input.Lines[0].AccountID)
	require.True(t, input.Lines[0].Debit.Equal(decimal.NewFromInt(1000)))
	require.Equal(t, int64(12), input.Lines[1].AccountID)
	require.True(t, input.Lines[1].Credit.Equal(decimal.NewFromInt(900)))
	require.Equal(t, int64(22), input.Lines[2].AccountID)
	require.True(t, input.Lines[2].Credit.Equal(decimal.NewFromInt(100)))
}

func TestPaymentEntryWithoutTDSSkipsWithholding(t *testing.T) {
	repo := testMappings()
	delete(repo.byKey, "TDS/payable")
	builder := NewEntryBuilder(mappings.NewService(repo))
	payment := Payment{
		ID:          6,
		Number:      "PAY-2026-000006",
		PaymentDate: time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(500),
	}

	input, err := builder.PaymentEntry(context.Background(), payment)
	require.NoError(t, err)
	require.NoError(t, input.Validate())

	require.Len(t, input.Lines, 2)
	require.True(t, input.Lines[0].Debit.Equal(decimal.NewFromInt(500)))
	require.True(t, input.Lines[1].Credit.Equal(decimal.NewFromInt(500)))
}
