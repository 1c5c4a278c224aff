package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moajmalnk/faisytkd/internal/common"
	"github.com/moajmalnk/faisytkd/internal/model"
)

func date(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, PeriodAll, p)

	p, err = ParsePeriod(" 3Month ")
	require.NoError(t, err)
	assert.Equal(t, PeriodQuarter, p)

	_, err = ParsePeriod("fortnight")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestPeriodBoundaries(t *testing.T) {
	today := time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		period Period
		first  string
		before string
	}{
		{PeriodDay, "2024-03-15", "2024-03-14"},
		{PeriodWeek, "2024-03-09", "2024-03-08"},
		{PeriodMonth, "2024-02-16", "2024-02-15"},
		{PeriodQuarter, "2023-12-16", "2023-12-15"},
		{PeriodHalfYear, "2023-09-16", "2023-09-15"},
		{PeriodYear, "2023-03-16", "2023-03-15"},
	}
	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			start, ok := tt.period.Start(today)
			require.True(t, ok)
			assert.Equal(t, date(tt.first), start)

			items := []model.Transaction{
				{ID: "in", Amount: d("10"), Date: date(tt.first)},
				{ID: "out", Amount: d("7"), Date: date(tt.before)},
				{ID: "today", Amount: d("1"), Date: date("2024-03-15")},
			}
			kept := Since(items, start)
			require.Len(t, kept, 2)
			assert.Equal(t, "in", kept[0].ID)
			assert.Equal(t, "today", kept[1].ID)
			assertDec(t, "11", Total(kept), "total")
		})
	}

	_, ok := PeriodAll.Start(today)
	assert.False(t, ok)
}

func TestInputWithin(t *testing.T) {
	in := sampleInput()
	in.Income[0].Date = date("2024-03-10")
	in.Expense[0].Date = date("2024-03-01")
	in.Expense[1].Date = date("2024-03-14")

	today := date("2024-03-15")

	week := Summarize(in.Within(PeriodWeek, today))
	assertDec(t, "2000", week.TotalIncome, "income in week")
	assertDec(t, "500", week.TotalExpense, "expense in week")
	assertDec(t, "4000", week.TotalAccounts, "balances untouched")
	assertDec(t, "500", week.TotalCollect, "obligations untouched")

	day := Summarize(in.Within(PeriodDay, today))
	assertDec(t, "0", day.TotalIncome, "income today")
	assertDec(t, "0", day.ExpenseRatio, "zero income guard")

	all := Summarize(in.Within(PeriodAll, today))
	assertDec(t, "2000", all.TotalExpense, "all")
	assert.Len(t, in.Expense, 2, "input is not modified")
}
