package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/moajmalnk/faisytkd/internal/common"
	"github.com/moajmalnk/faisytkd/internal/model"
)

// Period is a trailing window of calendar days ending today.
type Period string

// Supported periods.
const (
	PeriodAll      Period = "all"
	PeriodDay      Period = "day"
	PeriodWeek     Period = "week"
	PeriodMonth    Period = "month"
	PeriodQuarter  Period = "3month"
	PeriodHalfYear Period = "6month"
	PeriodYear     Period = "year"
)

// Periods lists every supported period.
var Periods = []Period{PeriodAll, PeriodDay, PeriodWeek, PeriodMonth, PeriodQuarter, PeriodHalfYear, PeriodYear}

// ParsePeriod reads a period name. The empty string means PeriodAll.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PeriodAll, nil
	}
	for _, p := range Periods {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: unknown period %q", common.ErrInvalidInput, s)
}

// Start returns the first calendar date inside the window that ends on
// today. PeriodAll has no start and reports false.
func (p Period) Start(today time.Time) (time.Time, bool) {
	end := model.DateOf(today)
	var from time.Time
	switch p {
	case PeriodDay:
		from = end.AddDate(0, 0, -1)
	case PeriodWeek:
		from = end.AddDate(0, 0, -7)
	case PeriodMonth:
		from = end.AddDate(0, -1, 0)
	case PeriodQuarter:
		from = end.AddDate(0, -3, 0)
	case PeriodHalfYear:
		from = end.AddDate(0, -6, 0)
	case PeriodYear:
		from = end.AddDate(-1, 0, 0)
	default:
		return time.Time{}, false
	}
	return from.AddDate(0, 0, 1), true
}

// Since keeps the items dated on or after from.
func Since(items []model.Transaction, from time.Time) []model.Transaction {
	from = model.DateOf(from)
	out := make([]model.Transaction, 0, len(items))
	for _, it := range items {
		if !model.DateOf(it.Date).Before(from) {
			out = append(out, it)
		}
	}
	return out
}

// Within narrows income and expense to period p ending on today. Balances
// and open obligations describe the present and are left as they are.
func (in Input) Within(p Period, today time.Time) Input {
	from, ok := p.Start(today)
	if !ok {
		return in
	}
	in.Income = Since(in.Income, from)
	in.Expense = Since(in.Expense, from)
	return in
}
