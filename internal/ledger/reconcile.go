package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/moajmalnk/faisytkd/internal/model"
)

// Posting is the signed effect one item has on one account balance.
// An empty AccountID means the item touches no account.
type Posting struct {
	AccountID string
	Delta     decimal.Decimal
}

// Adjustment is a single balance change to apply to an account.
type Adjustment struct {
	AccountID string
	Delta     decimal.Decimal
}

// PostingFor returns the posting of an item of the given kind. Completed
// obligations no longer hold their earmark and post nothing.
func PostingFor(kind model.Kind, accountID string, amount decimal.Decimal, completed bool) Posting {
	if accountID == "" || (kind.IsObligation() && completed) {
		return Posting{}
	}
	return Posting{AccountID: accountID, Delta: kind.Sign().Mul(amount)}
}

// ObligationPosting returns the posting held by a collect or pay item.
func ObligationPosting(kind model.Kind, o model.Obligation) Posting {
	return PostingFor(kind, o.AccountID, o.Amount, o.Completed)
}

// TransactionPosting returns the posting of an income or expense item.
func TransactionPosting(kind model.Kind, t model.Transaction) Posting {
	return PostingFor(kind, t.AccountID, t.Amount, false)
}

// Adjustments computes the minimal balance changes that move an item's
// effect from old to new. Same account: one adjustment for the difference.
// Different accounts: reverse old, apply new. Either side may be empty.
// The result always equals reversing old and then applying new.
func Adjustments(old, new Posting) []Adjustment {
	if old.AccountID != "" && old.AccountID == new.AccountID {
		delta := new.Delta.Sub(old.Delta)
		if delta.IsZero() {
			return nil
		}
		return []Adjustment{{AccountID: new.AccountID, Delta: delta}}
	}

	var adj []Adjustment
	if old.AccountID != "" && !old.Delta.IsZero() {
		adj = append(adj, Adjustment{AccountID: old.AccountID, Delta: old.Delta.Neg()})
	}
	if new.AccountID != "" && !new.Delta.IsZero() {
		adj = append(adj, Adjustment{AccountID: new.AccountID, Delta: new.Delta})
	}
	return adj
}

// Apply adds the posting's effect to the ledger.
func (l *Ledger) Apply(p Posting) {
	l.Transfer(Posting{}, p)
}

// Reverse removes the posting's effect from the ledger.
func (l *Ledger) Reverse(p Posting) {
	l.Transfer(p, Posting{})
}

// Transfer applies Adjustments(old, new). Adjustments to accounts that are
// not in the ledger are skipped.
func (l *Ledger) Transfer(old, new Posting) {
	for _, a := range Adjustments(old, new) {
		l.Adjust(a.AccountID, a.Delta)
	}
}
