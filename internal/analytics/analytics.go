// Package analytics derives dashboard totals from an in-memory snapshot.
// Everything here is pure: no I/O, no shared state, safe to call repeatedly.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/moajmalnk/faisytkd/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Input is the slice of a snapshot the aggregation reads.
type Input struct {
	Accounts   []model.Account
	Categories []model.Category
	Collect    []model.Obligation
	Pay        []model.Obligation
	Income     []model.Transaction
	Expense    []model.Transaction
}

// Summary contains the headline totals and ratios.
type Summary struct {
	TotalCollect            decimal.Decimal `json:"total_collect"`
	TotalPay                decimal.Decimal `json:"total_pay"`
	TotalAccounts           decimal.Decimal `json:"total_accounts"`
	TotalIncome             decimal.Decimal `json:"total_income"`
	TotalExpense            decimal.Decimal `json:"total_expense"`
	Profit                  decimal.Decimal `json:"profit"`
	Loss                    decimal.Decimal `json:"loss"`
	ExpenseRatio            decimal.Decimal `json:"expense_ratio"`
	ProfitMargin            decimal.Decimal `json:"profit_margin"`
	NetObligations          decimal.Decimal `json:"net_obligations"`
	NetCashAfterObligations decimal.Decimal `json:"net_cash_after_obligations"`
}

// CategoryTotal is the expense total booked against one category.
type CategoryTotal struct {
	CategoryID string          `json:"category_id"`
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	Total      decimal.Decimal `json:"total"`
	Share      decimal.Decimal `json:"share"`
}

// AccountShare is an account balance and its share of all balances.
type AccountShare struct {
	AccountID string            `json:"account_id"`
	Name      string            `json:"name"`
	Type      model.AccountType `json:"type"`
	Balance   decimal.Decimal   `json:"balance"`
	Share     decimal.Decimal   `json:"share"`
}

// Analytics contains all analytics data.
type Analytics struct {
	Summary    Summary         `json:"summary"`
	ByCategory []CategoryTotal `json:"by_category"`
	ByAccount  []AccountShare  `json:"by_account"`
}

// Compute derives every total from in.
func Compute(in Input) Analytics {
	return Analytics{
		Summary:    Summarize(in),
		ByCategory: ExpenseByCategory(in.Categories, in.Expense),
		ByAccount:  AccountDistribution(in.Accounts),
	}
}

// Summarize computes the headline totals.
func Summarize(in Input) Summary {
	s := Summary{
		TotalCollect:  pending(in.Collect),
		TotalPay:      pending(in.Pay),
		TotalAccounts: balances(in.Accounts),
		TotalIncome:   Total(in.Income),
		TotalExpense:  Total(in.Expense),
	}

	s.Profit = s.TotalIncome.Sub(s.TotalExpense)
	s.Loss = decimal.Max(decimal.Zero, s.TotalExpense.Sub(s.TotalIncome))
	s.ExpenseRatio = Percent(s.TotalExpense, s.TotalIncome)
	s.ProfitMargin = Percent(s.Profit, s.TotalIncome)
	s.NetObligations = s.TotalCollect.Sub(s.TotalPay)
	s.NetCashAfterObligations = s.TotalAccounts.Add(s.TotalCollect).Sub(s.TotalPay)
	return s
}

// Percent returns part/whole*100, or exactly zero when whole is not positive.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// ExpenseByCategory totals expenses per expense category. Categories with
// nothing booked are left out.
func ExpenseByCategory(categories []model.Category, expenses []model.Transaction) []CategoryTotal {
	byID := make(map[string]decimal.Decimal, len(categories))
	for _, e := range expenses {
		byID[e.CategoryID] = byID[e.CategoryID].Add(e.Amount)
	}

	out := make([]CategoryTotal, 0, len(categories))
	sum := decimal.Zero
	for _, c := range categories {
		if c.Kind != model.CategoryExpense {
			continue
		}
		total := byID[c.ID]
		if !total.IsPositive() {
			continue
		}
		sum = sum.Add(total)
		out = append(out, CategoryTotal{CategoryID: c.ID, Name: c.Name, Color: c.Color, Total: total})
	}
	for i := range out {
		out[i].Share = Percent(out[i].Total, sum)
	}
	return out
}

// AccountDistribution lists accounts by balance, largest first.
func AccountDistribution(accounts []model.Account) []AccountShare {
	total := balances(accounts)
	out := make([]AccountShare, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, AccountShare{
			AccountID: a.ID,
			Name:      a.Name,
			Type:      a.Type,
			Balance:   a.Balance,
			Share:     Percent(a.Balance, total),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Balance.GreaterThan(out[j].Balance)
	})
	return out
}

func pending(items []model.Obligation) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		if !it.Completed {
			total = total.Add(it.Amount)
		}
	}
	return total
}

// Total sums the amounts of items.
func Total(items []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}

func balances(accounts []model.Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	return total
}
