package reports

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/accounts"
)

// AccountActivity aggregates one account's ledger movement for a report
// window. Opening is signed debit-minus-credit, carried in from before
// the window.
type AccountActivity struct {
	AccountID int64
	Code      string
	Name      string
	Type      accounts.AccountType
	Opening   decimal.Decimal
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// groupKey buckets accounts for presentation, by the code segment
// before the first dot, else the first two characters.
func (a AccountActivity) groupKey() string {
	if idx := strings.Index(a.Code, "."); idx > 0 {
		return a.Code[:idx]
	}
	if len(a.Code) >= 2 {
		return a.Code[:2]
	}
	return a.Code
}

// Row is one account inside a trial balance group. The closing balance
// lands in the debit or credit column by its sign, so the report totals
// tie out whenever every posted journal balanced.
type Row struct {
	AccountID     int64                `json:"account_id"`
	Code          string               `json:"code"`
	Name          string               `json:"name"`
	Type          accounts.AccountType `json:"type"`
	Opening       decimal.Decimal      `json:"opening"`
	Debit         decimal.Decimal      `json:"debit"`
	Credit        decimal.Decimal      `json:"credit"`
	ClosingDebit  decimal.Decimal      `json:"closing_debit"`
	ClosingCredit decimal.Decimal      `json:"closing_credit"`
}

// Group aggregates rows that share a code prefix.
type Group struct {
	Key           string          `json:"key"`
	Accounts      []Row           `json:"accounts"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	ClosingDebit  decimal.Decimal `json:"closing_debit"`
	ClosingCredit decimal.Decimal `json:"closing_credit"`
}

// TrialBalance is the grouped report. Balanced reports whether closing
// debits equal closing credits across all accounts.
type TrialBalance struct {
	From               *time.Time      `json:"from,omitempty"`
	To                 *time.Time      `json:"to,omitempty"`
	Groups             []Group         `json:"groups"`
	TotalDebit         decimal.Decimal `json:"total_debit"`
	TotalCredit        decimal.Decimal `json:"total_credit"`
	TotalClosingDebit  decimal.Decimal `json:"total_closing_debit"`
	TotalClosingCredit decimal.Decimal `json:"total_closing_credit"`
	Balanced           bool            `json:"balanced"`
}

// BuildTrialBalance groups account activity by code prefix and totals
// the columns. Accounts without any opening balance or movement are
// left out.
func BuildTrialBalance(activity []AccountActivity) TrialBalance {
	groups := make(map[string]*Group)
	keys := make([]string, 0)
	for _, acc := range activity {
		if acc.Opening.IsZero() && acc.Debit.IsZero() && acc.Credit.IsZero() {
			continue
		}
		key := acc.groupKey()
		grp, ok := groups[key]
		if !ok {
			grp = &Group{Key: key}
			groups[key] = grp
			keys = append(keys, key)
		}
		row := Row{
			AccountID: acc.AccountID,
			Code:      acc.Code,
			Name:      acc.Name,
			Type:      acc.Type,
			Opening:   acc.Opening,
			Debit:     acc.Debit,
			Credit:    acc.Credit,
		}
		closing := acc.Opening.Add(acc.Debit).Sub(acc.Credit)
		if closing.IsNegative() {
			row.ClosingCredit = closing.Neg()
		} else {
			row.ClosingDebit = closing
		}
		grp.Accounts = append(grp.Accounts, row)
		grp.Debit = grp.Debit.Add(row.Debit)
		grp.Credit = grp.Credit.Add(row.Credit)
		grp.ClosingDebit = grp.ClosingDebit.Add(row.ClosingDebit)
		grp.ClosingCredit = grp.ClosingCredit.Add(row.ClosingCredit)
	}

	sort.Strings(keys)
	result := TrialBalance{}
	for _, key := range keys {
		grp := groups[key]
		sort.Slice(grp.Accounts, func(i, j int) bool {
			return grp.Accounts[i].Code < grp.Accounts[j].Code
		})
		result.Groups = append(result.Groups, *grp)
		result.TotalDebit = result.TotalDebit.Add(grp.Debit)
		result.TotalCredit = result.TotalCredit.Add(grp.Credit)
		result.TotalClosingDebit = result.TotalClosingDebit.Add(grp.ClosingDebit)
		result.TotalClosingCredit = result.TotalClosingCredit.Add(grp.ClosingCredit)
	}
	result.Balanced = result.TotalClosingDebit.Equal(result.TotalClosingCredit)
	return result
}
