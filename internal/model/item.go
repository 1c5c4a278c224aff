package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the category of a ledger item.
type Kind string

// Item kinds. Collect and pay are obligations; income and expense are
// posted transactions.
const (
	KindCollect Kind = "collect"
	KindPay     Kind = "pay"
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Kinds lists every item kind in display order.
var Kinds = []Kind{KindCollect, KindPay, KindIncome, KindExpense}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindCollect, KindPay, KindIncome, KindExpense:
		return true
	}
	return false
}

// ParseKind converts user input into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown item kind %q", s)
	}
	return k, nil
}

// IsObligation reports whether items of this kind are pending collect/pay items.
func (k Kind) IsObligation() bool {
	return k == KindCollect || k == KindPay
}

// Sign is the direction an item of this kind moves its account balance.
// A collect earmarks money as already spent; a pay holds money back.
func (k Kind) Sign() decimal.Decimal {
	switch k {
	case KindIncome, KindPay:
		return decimal.NewFromInt(1)
	case KindExpense, KindCollect:
		return decimal.NewFromInt(-1)
	}
	return decimal.Zero
}

// Settles returns the transaction kind an obligation becomes once completed.
func (k Kind) Settles() Kind {
	switch k {
	case KindCollect:
		return KindIncome
	case KindPay:
		return KindExpense
	}
	return k
}

// DateLayout is the calendar date format used on the wire and in the CLI.
const DateLayout = "2006-01-02"

// Obligation is a collect or pay item: money expected to arrive or leave
// that has not been posted to an account yet.
type Obligation struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Completed bool            `json:"completed"`
	AccountID string          `json:"account_id,omitempty"`
	Date      time.Time       `json:"date"`
}

// Transaction is an income or expense item posted to one account.
type Transaction struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	CategoryID string          `json:"category_id,omitempty"`
	Date       time.Time       `json:"date"`
	AccountID  string          `json:"account_id,omitempty"`
}

// Today returns the current calendar date in UTC.
func Today() time.Time {
	return DateOf(time.Now())
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
