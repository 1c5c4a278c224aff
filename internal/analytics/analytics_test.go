package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moajmalnk/faisytkd/internal/model"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "%s: want %s got %s", msg, want, got)
}

func sampleInput() Input {
	return Input{
		Accounts: []model.Account{
			{ID: "1", Name: "Cash", Type: model.AccountCash, Balance: d("1000")},
			{ID: "2", Name: "Bank", Type: model.AccountBank, Balance: d("3000")},
		},
		Categories: []model.Category{
			{ID: "c1", Name: "Rent", Kind: model.CategoryExpense, Color: "#e67e22"},
			{ID: "c2", Name: "Food", Kind: model.CategoryExpense, Color: "#e74c3c"},
			{ID: "c3", Name: "Fun", Kind: model.CategoryExpense, Color: "#9b59b6"},
			{ID: "c4", Name: "Salary", Kind: model.CategoryIncome, Color: "#27ae60"},
		},
		Collect: []model.Obligation{
			{ID: "k1", Amount: d("500")},
			{ID: "k2", Amount: d("250"), Completed: true},
		},
		Pay: []model.Obligation{
			{ID: "p1", Amount: d("300")},
		},
		Income: []model.Transaction{
			{ID: "i1", Amount: d("2000"), CategoryID: "c4"},
		},
		Expense: []model.Transaction{
			{ID: "e1", Amount: d("1500"), CategoryID: "c1"},
			{ID: "e2", Amount: d("500"), CategoryID: "c2"},
		},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleInput())

	assertDec(t, "500", s.TotalCollect, "collect excludes completed")
	assertDec(t, "300", s.TotalPay, "pay")
	assertDec(t, "4000", s.TotalAccounts, "accounts")
	assertDec(t, "2000", s.TotalIncome, "income")
	assertDec(t, "2000", s.TotalExpense, "expense")
	assertDec(t, "0", s.Profit, "profit")
	assertDec(t, "0", s.Loss, "loss")
	assertDec(t, "100", s.ExpenseRatio, "expense ratio")
	assertDec(t, "0", s.ProfitMargin, "profit margin")
	assertDec(t, "200", s.NetObligations, "net obligations")
	assertDec(t, "4200", s.NetCashAfterObligations, "net cash")
}

func TestSummarizeLoss(t *testing.T) {
	in := Input{
		Income:  []model.Transaction{{Amount: d("200")}},
		Expense: []model.Transaction{{Amount: d("250")}},
	}
	s := Summarize(in)
	assertDec(t, "-50", s.Profit, "profit")
	assertDec(t, "50", s.Loss, "loss")
	assertDec(t, "125", s.ExpenseRatio, "expense ratio")
	assertDec(t, "-25", s.ProfitMargin, "profit margin")
}

func TestZeroIncomeGuard(t *testing.T) {
	for _, expense := range []string{"0", "1", "99999.99"} {
		t.Run(expense, func(t *testing.T) {
			s := Summarize(Input{Expense: []model.Transaction{{Amount: d(expense)}}})
			assert.True(t, s.ExpenseRatio.IsZero())
			assert.True(t, s.ProfitMargin.IsZero())
		})
	}
}

func TestEmptyInput(t *testing.T) {
	a := Compute(Input{})
	assert.True(t, a.Summary.TotalAccounts.IsZero())
	assert.Empty(t, a.ByCategory)
	assert.Empty(t, a.ByAccount)
}

func TestExpenseByCategory(t *testing.T) {
	in := sampleInput()
	got := ExpenseByCategory(in.Categories, in.Expense)

	require.Len(t, got, 2, "empty and income categories are dropped")
	assert.Equal(t, "Rent", got[0].Name)
	assertDec(t, "1500", got[0].Total, "rent total")
	assertDec(t, "75", got[0].Share, "rent share")
	assert.Equal(t, "Food", got[1].Name)
	assertDec(t, "25", got[1].Share, "food share")
}

func TestAccountDistribution(t *testing.T) {
	got := AccountDistribution(sampleInput().Accounts)
	require.Len(t, got, 2)
	assert.Equal(t, "Bank", got[0].Name)
	assertDec(t, "75", got[0].Share, "bank share")
	assertDec(t, "25", got[1].Share, "cash share")

	flat := AccountDistribution([]model.Account{{ID: "1", Balance: d("0")}})
	assert.True(t, flat[0].Share.IsZero())
}

func TestComputeIsPure(t *testing.T) {
	in := sampleInput()
	first := Compute(in)
	second := Compute(in)
	assert.True(t, first.Summary.NetCashAfterObligations.Equal(second.Summary.NetCashAfterObligations))
	assert.Equal(t, "Cash", in.Accounts[0].Name, "input order untouched")
}
