package reports

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/accounts"
)

func activityRow(id int64, code, name string, accType accounts.AccountType, opening, debit, credit int64) AccountActivity {
	return AccountActivity{
		AccountID: id,
		Code:      code,
		Name:      name,
		Type:      accType,
		Opening:   decimal.NewFromInt(opening),
		Debit:     decimal.NewFromInt(debit),
		Credit:    decimal.NewFromInt(credit),
	}
}

func TestBuildTrialBalanceGroupsByCodePrefix(t *testing.T) {
	tb := BuildTrialBalance([]AccountActivity{
		activityRow(1, "5000", "Purchases", accounts.AccountTypeExpense, 0, 1000, 0),
		activityRow(2, "1300", "GST Input CGST", accounts.AccountTypeAsset, 0, 90, 0),
		activityRow(3, "1310", "GST Input SGST", accounts.AccountTypeAsset, 0, 90, 0),
		activityRow(4, "2100", "Sundry Creditors", accounts.AccountTypeLiability, 0, 0, 1180),
	})

	require.Len(t, tb.Groups, 3)
	require.Equal(t, "13", tb.Groups[0].Key)
	require.Equal(t, "21", tb.Groups[1].Key)
	require.Equal(t, "50", tb.Groups[2].Key)

	gst := tb.Groups[0]
	require.Len(t, gst.Accounts, 2)
	require.Equal(t, "1300", gst.Accounts[0].Code)
	require.Equal(t, "1310", gst.Accounts[1].Code)
	require.Equal(t, "180", gst.ClosingDebit.String())

	creditors := tb.Groups[1]
	require.Equal(t, "1180", creditors.ClosingCredit.String())
	require.True(t, creditors.ClosingDebit.IsZero())

	require.Equal(t, "1180", tb.TotalDebit.String())
	require.Equal(t, "1180", tb.TotalCredit.String())
	require.Equal(t, "1180", tb.TotalClosingDebit.String())
	require.Equal(t, "1180", tb.TotalClosingCredit.String())
	require.True(t, tb.Balanced)
}

func TestBuildTrialBalanceSkipsIdleAccounts(t *testing.T) {
	tb := BuildTrialBalance([]AccountActivity{
		activityRow(1, "5000", "Purchases", accounts.AccountTypeExpense, 0, 500, 0),
		activityRow(2, "5100", "Freight Inward", accounts.AccountTypeExpense, 0, 0, 0),
		activityRow(3, "2100", "Sundry Creditors", accounts.AccountTypeLiability, 0, 0, 500),
	})

	require.Len(t, tb.Groups, 2)
	require.Len(t, tb.Groups[1].Accounts, 1)
	require.Equal(t, "5000", tb.Groups[1].Accounts[0].Code)
}

func TestBuildTrialBalanceRollsOpeningIntoClosing(t *testing.T) {
	tb := BuildTrialBalance([]AccountActivity{
		activityRow(1, "1200", "Bank Account", accounts.AccountTypeAsset, 500, 200, 0),
		activityRow(2, "2100", "Sundry Creditors", accounts.AccountTypeLiability, -500, 0, 200),
	})

	bank := tb.Groups[0].Accounts[0]
	require.Equal(t, "700", bank.ClosingDebit.String())
	require.True(t, bank.ClosingCredit.IsZero())

	creditors := tb.Groups[1].Accounts[0]
	require.Equal(t, "700", creditors.ClosingCredit.String())

	require.True(t, tb.Balanced)
}

func TestBuildTrialBalanceFlagsDrift(t *testing.T) {
	tb := BuildTrialBalance([]AccountActivity{
		activityRow(1, "5000", "Purchases", accounts.AccountTypeExpense, 0, 1000, 0),
		activityRow(2, "2100", "Sundry Creditors", accounts.AccountTypeLiability, 0, 0, 999),
	})

	require.False(t, tb.Balanced)
	require.Equal(t, "1000", tb.TotalClosingDebit.String())
	require.Equal(t, "999", tb.TotalClosingCredit.String())
}

func TestBuildTrialBalanceGroupsDottedCodes(t *testing.T) {
	tb := BuildTrialBalance([]AccountActivity{
		activityRow(1, "EXP.RENT", "Rent", accounts.AccountTypeExpense, 0, 100, 0),
		activityRow(2, "EXP.FREIGHT", "Freight", accounts.AccountTypeExpense, 0, 50, 0),
		activityRow(3, "2100", "Sundry Creditors", accounts.AccountTypeLiability, 0, 0, 150),
	})

	require.Len(t, tb.Groups, 2)
	require.Equal(t, "21", tb.Groups[0].Key)
	require.Equal(t, "EXP", tb.Groups[1].Key)
	require.Len(t, tb.Groups[1].Accounts, 2)
	require.Equal(t, "EXP.FREIGHT", tb.Groups[1].Accounts[0].Code)
}

type fakeActivityRepo struct {
	activity []AccountActivity
	from, to *time.Time
}

func (f *fakeActivityRepo) AccountActivity(_ context.Context, from, to *time.Time) ([]AccountActivity, error) {
	f.from, f.to = from, to
	return f.activity, nil
}

func TestTrialBalanceServiceCarriesWindow(t *testing.T) {
	repo := &fakeActivityRepo{activity: []AccountActivity{
		activityRow(1, "5000", "Purchases", accounts.AccountTypeExpense, 0, 1180, 0),
		activityRow(2, "2100", "Sundry Creditors", accounts.AccountTypeLiability, 0, 0, 1180),
	}}
	service := NewService(repo)

	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	tb, err := service.TrialBalance(context.Background(), &from, &to)
	require.NoError(t, err)

	require.Equal(t, &from, repo.from)
	require.Equal(t, &to, repo.to)
	require.Equal(t, &from, tb.From)
	require.Equal(t, &to, tb.To)
	require.Len(t, tb.Groups, 2)
	require.True(t, tb.Balanced)
}
