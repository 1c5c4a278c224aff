// Package model holds the bookkeeping domain types shared by the client engine
// and the remote ledger service.
package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountType classifies a money pool.
type AccountType string

// Account types.
const (
	AccountCash   AccountType = "cash"
	AccountBank   AccountType = "bank"
	AccountCredit AccountType = "credit"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountCash, AccountBank, AccountCredit:
		return true
	}
	return false
}

// ParseAccountType converts user input into an AccountType.
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown account type %q", s)
	}
	return t, nil
}

// Account represents a named money pool and its current balance.
// Balances are signed; no account type is floored at zero.
type Account struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Type    AccountType     `json:"type"`
	Balance decimal.Decimal `json:"balance"`
}

// Key returns the normalized lookup key for the account name.
func (a Account) Key() string {
	return NormalizeKey(a.Name)
}

// NormalizeKey lowercases name and strips all spaces.
func NormalizeKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "")
}
