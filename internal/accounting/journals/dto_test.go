package journals

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/shared"
)

func validInput() PostingInput {
	return PostingInput{
		Date:         time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		SourceModule: "AP.BILL",
		SourceID:     uuid.NewSHA1(uuid.Nil, []byte("AP.BILL:1")),
		Lines: []PostingLineInput{
			{AccountID: 50, Debit: decimal.NewFromInt(1180)},
			{AccountID: 21, Credit: decimal.NewFromInt(1180)},
		},
	}
}

func TestPostingInputValidateAccepts(t *testing.T) {
	require.NoError(t, validInput().Validate())
}

func TestPostingInputValidateRejectsMissingHeaderFields(t *testing.T) {
	in := validInput()
	in.Date = time.Time{}
	require.Error(t, in.Validate())

	in = validInput()
	in.SourceModule = ""
	require.Error(t, in.Validate())

	in = validInput()
	in.SourceID = uuid.Nil
	require.Error(t, in.Validate())
}

func TestPostingInputValidateRejectsTooFewLines(t *testing.T) {
	in := validInput()
	in.Lines = in.Lines[:1]
	require.ErrorIs(t, in.Validate(), shared.ErrTooFewLines)
}

func TestPostingInputValidateRejectsUnbalanced(t *testing.T) {
	in := validInput()
	in.Lines[1].Credit = decimal.NewFromInt(1100)
	err := in.Validate()
	require.ErrorIs(t, err, shared.ErrUnbalancedEntry)
}

func TestPostingInputValidateToleratesOnePaisa(t *testing.T) {
	in := validInput()
	in.Lines[1].Credit = decimal.RequireFromString("1179.99")
	require.NoError(t, in.Validate())

	in.Lines[1].Credit = decimal.RequireFromString("1179.98")
	require.ErrorIs(t, in.Validate(), shared.ErrUnbalancedEntry)
}

func TestPostingInputValidateRejectsBothSides(t *testing.T) {
	in := validInput()
	in.Lines[0].Credit = decimal.NewFromInt(1)
	err := in.Validate()
	require.Error(t, err)
	require.NotErrorIs(t, err, shared.ErrUnbalancedEntry)
}

func TestPostingInputValidateRejectsNegativeAmounts(t *testing.T) {
	in := validInput()
	in.Lines[0].Debit = decimal.NewFromInt(-5)
	require.Error(t, in.Validate())
}

func TestPostingInputValidateRejectsMissingAccount(t *testing.T) {
	in := validInput()
	in.Lines[0].AccountID = 0
	require.Error(t, in.Validate())
}

func TestAccountIDsDedupesAndSorts(t *testing.T) {
	in := PostingInput{Lines: []PostingLineInput{
		{AccountID: 21, Credit: decimal.NewFromInt(3)},
		{AccountID: 50, Debit: decimal.NewFromInt(1)},
		{AccountID: 13, Debit: decimal.NewFromInt(1)},
		{AccountID: 50, Debit: decimal.NewFromInt(1)},
	}}
	require.Equal(t, []int64{13, 21, 50}, in.AccountIDs())
}

func TestTotals(t *testing.T) {
	debit, credit := validInput().Totals()
	require.True(t, debit.Equal(decimal.NewFromInt(1180)))
	require.True(t, credit.Equal(decimal.NewFromInt(1180)))
}

func TestValidateErrorMessageNamesBothSides(t *testing.T) {
	in := validInput()
	in.Lines[1].Credit = decimal.NewFromInt(1000)
	err := in.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "1180.00")
	require.Contains(t, err.Error(), "1000.00")
	require.True(t, errors.Is(err, shared.ErrUnbalancedEntry))
}
