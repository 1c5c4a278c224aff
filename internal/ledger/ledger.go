// Package ledger keeps named account balances and applies the balance effect
// of bookkeeping items to them.
package ledger

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/moajmalnk/faisytkd/internal/model"
)

// Ledger maps account ids to accounts. A secondary index maps the normalized
// account name to its id; on a name collision the last write wins.
//
// A Ledger is not safe for concurrent mutation. Callers clone it before
// changing a published copy.
type Ledger struct {
	accounts map[string]model.Account
	order    []string
	byKey    map[string]string
}

// New builds a ledger from accounts, keeping their order.
func New(accounts []model.Account) *Ledger {
	l := &Ledger{
		accounts: make(map[string]model.Account, len(accounts)),
		byKey:    make(map[string]string, len(accounts)),
	}
	for _, a := range accounts {
		l.Create(a)
	}
	return l
}

// Clone returns an independent copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{
		accounts: make(map[string]model.Account, len(l.accounts)),
		order:    append([]string(nil), l.order...),
		byKey:    make(map[string]string, len(l.byKey)),
	}
	for id, a := range l.accounts {
		c.accounts[id] = a
	}
	for k, id := range l.byKey {
		c.byKey[k] = id
	}
	return c
}

// Len returns the number of accounts.
func (l *Ledger) Len() int {
	return len(l.order)
}

// Get returns the account with the given id.
func (l *Ledger) Get(id string) (model.Account, bool) {
	a, ok := l.accounts[id]
	return a, ok
}

// Lookup finds an account by name, ignoring case and spaces.
func (l *Ledger) Lookup(name string) (model.Account, bool) {
	id, ok := l.byKey[model.NormalizeKey(name)]
	if !ok {
		return model.Account{}, false
	}
	return l.Get(id)
}

// Accounts returns the accounts in insertion order.
func (l *Ledger) Accounts() []model.Account {
	out := make([]model.Account, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.accounts[id])
	}
	return out
}

// Total sums every account balance.
func (l *Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, a := range l.accounts {
		total = total.Add(a.Balance)
	}
	return total
}

// Create adds a or replaces the account that already has its id.
func (l *Ledger) Create(a model.Account) {
	if old, ok := l.accounts[a.ID]; ok {
		l.unindex(old)
	} else {
		l.order = append(l.order, a.ID)
	}
	l.accounts[a.ID] = a
	l.byKey[a.Key()] = a.ID
}

// Update replaces name, type and balance of an existing account.
func (l *Ledger) Update(a model.Account) bool {
	if _, ok := l.accounts[a.ID]; !ok {
		return false
	}
	l.Create(a)
	return true
}

// Delete removes the account. Unknown ids are ignored.
func (l *Ledger) Delete(id string) bool {
	a, ok := l.accounts[id]
	if !ok {
		return false
	}
	l.unindex(a)
	delete(l.accounts, id)
	for i, oid := range l.order {
		if oid == id {
			l.order = append(l.order[:i:i], l.order[i+1:]...)
			break
		}
	}
	return true
}

// Adjust adds delta to the balance of account id. A missing account is a
// no-op and reports false.
func (l *Ledger) Adjust(id string, delta decimal.Decimal) bool {
	a, ok := l.accounts[id]
	if !ok {
		return false
	}
	a.Balance = a.Balance.Add(delta)
	l.accounts[id] = a
	return true
}

// Set overwrites the balance of account id. A missing account is a no-op.
func (l *Ledger) Set(id string, balance decimal.Decimal) bool {
	a, ok := l.accounts[id]
	if !ok {
		return false
	}
	a.Balance = balance
	l.accounts[id] = a
	return true
}

// Rekey moves the account stored under oldID to newID, keeping its position.
// If newID is already present that account is kept and oldID is dropped.
func (l *Ledger) Rekey(oldID, newID string) bool {
	a, ok := l.accounts[oldID]
	if !ok || oldID == newID {
		return ok
	}
	if _, taken := l.accounts[newID]; taken {
		l.Delete(oldID)
		return true
	}
	delete(l.accounts, oldID)
	a.ID = newID
	l.accounts[newID] = a
	l.byKey[a.Key()] = newID
	for i, id := range l.order {
		if id == oldID {
			l.order[i] = newID
		}
	}
	return true
}

func (l *Ledger) unindex(a model.Account) {
	if l.byKey[a.Key()] == a.ID {
		delete(l.byKey, a.Key())
	}
}

// MarshalJSON encodes the ledger as its ordered account list.
func (l *Ledger) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Accounts())
}

// UnmarshalJSON rebuilds the ledger from an account list.
func (l *Ledger) UnmarshalJSON(data []byte) error {
	var accounts []model.Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		return err
	}
	*l = *New(accounts)
	return nil
}
