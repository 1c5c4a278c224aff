package bookkeeping

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/moajmalnk/faisytkd/internal/api"
	"github.com/moajmalnk/faisytkd/internal/common"
	"github.com/moajmalnk/faisytkd/internal/ledger"
	"github.com/moajmalnk/faisytkd/internal/model"
)

// ObligationInput holds the editable fields of a collect or pay item.
type ObligationInput struct {
	Name      string
	Amount    decimal.Decimal
	AccountID string
}

func (in ObligationInput) validate() error {
	if in.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", common.ErrInvalidInput)
	}
	return nil
}

// AddCollect records money expected to arrive. The account, if any, is
// debited immediately as an earmark.
func (b *Book) AddCollect(ctx context.Context, in ObligationInput) (model.Obligation, error) {
	return b.addObligation(ctx, model.KindCollect, in)
}

// UpdateCollect replaces the fields of a collect item.
func (b *Book) UpdateCollect(ctx context.Context, id string, in ObligationInput) error {
	return b.updateObligation(ctx, model.KindCollect, id, in)
}

// DeleteCollect removes a collect item and releases its earmark.
func (b *Book) DeleteCollect(ctx context.Context, id string) error {
	return b.deleteObligation(ctx, model.KindCollect, id)
}

// CompleteCollect settles a collect item into an income posted to accountID.
func (b *Book) CompleteCollect(ctx context.Context, id, accountID string) error {
	return b.completeObligation(ctx, model.KindCollect, id, accountID)
}

// AddPay records money due to leave. The account, if any, is credited
// immediately to hold the money back.
func (b *Book) AddPay(ctx context.Context, in ObligationInput) (model.Obligation, error) {
	return b.addObligation(ctx, model.KindPay, in)
}

// UpdatePay replaces the fields of a pay item.
func (b *Book) UpdatePay(ctx context.Context, id string, in ObligationInput) error {
	return b.updateObligation(ctx, model.KindPay, id, in)
}

// DeletePay removes a pay item and releases the held amount.
func (b *Book) DeletePay(ctx context.Context, id string) error {
	return b.deleteObligation(ctx, model.KindPay, id)
}

// CompletePay settles a pay item into an expense posted to accountID.
func (b *Book) CompletePay(ctx context.Context, id, accountID string) error {
	return b.completeObligation(ctx, model.KindPay, id, accountID)
}

func (b *Book) addObligation(ctx context.Context, kind model.Kind, in ObligationInput) (model.Obligation, error) {
	if err := requireName(in.Name); err != nil {
		return model.Obligation{}, err
	}
	if err := in.validate(); err != nil {
		return model.Obligation{}, err
	}

	item := model.Obligation{
		ID:        newTempID(),
		Name:      in.Name,
		Amount:    in.Amount,
		AccountID: in.AccountID,
		Date:      b.today(),
	}

	id, err := Run(ctx, b.ctrl, Op[int64]{
		Key: Key(string(kind), ActionAdd),
		Apply: func(s *Snapshot) {
			s.putObligation(kind, item)
			s.Ledger.Apply(ledger.ObligationPosting(kind, item))
		},
		Call: func(ctx context.Context) (int64, error) {
			body, err := obligationBody(kind, item)
			if err != nil {
				return 0, err
			}
			return b.remote.CreateTransaction(ctx, body)
		},
		OnSuccess: func(s *Snapshot, id int64) {
			s.rekeyObligation(kind, item.ID, formatID(id))
		},
		Success: label(kind) + " added",
		Failure: "Failed to add " + strings.ToLower(label(kind)),
	})
	if err != nil {
		return model.Obligation{}, err
	}

	item.ID = formatID(id)
	return item, nil
}

func (b *Book) updateObligation(ctx context.Context, kind model.Kind, id string, in ObligationInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	old, ok := b.Snapshot().Obligation(kind, id)
	if !ok {
		return notFound(label(kind), id)
	}
	if old.Name != "" {
		if err := requireName(in.Name); err != nil {
			return err
		}
	}

	next := old
	next.Name = in.Name
	next.Amount = in.Amount
	next.AccountID = in.AccountID

	_, err := Run(ctx, b.ctrl, Op[struct{}]{
		Key: Key(string(kind), ActionUpdate, id),
		Apply: func(s *Snapshot) {
			cur, ok := s.Obligation(kind, id)
			if !ok {
				return
			}
			s.Ledger.Transfer(ledger.ObligationPosting(kind, cur), ledger.ObligationPosting(kind, next))
			s.putObligation(kind, next)
		},
		Call: func(ctx context.Context) (struct{}, error) {
			sid, err := serverID(id)
			if err != nil {
				return struct{}{}, err
			}
			body, err := obligationBody(kind, next)
			if err != nil {
				return struct{}{}, err
			}
			return struct{}{}, b.remote.UpdateTransaction(ctx, sid, body)
		},
		Success: label(kind) + " updated",
		Failure: "Failed to update " + strings.ToLower(label(kind)),
	})
	return err
}

func (b *Book) deleteObligation(ctx context.Context, kind model.Kind, id string) error {
	if _, ok := b.Snapshot().Obligation(kind, id); !ok {
		return notFound(label(kind), id)
	}

	_, err := Run(ctx, b.ctrl, Op[struct{}]{
		Key: Key(string(kind), ActionDelete, id),
		Apply: func(s *Snapshot) {
			cur, ok := s.Obligation(kind, id)
			if !ok {
				return
			}
			s.Ledger.Reverse(ledger.ObligationPosting(kind, cur))
			s.removeObligation(kind, id)
		},
		Call: func(ctx context.Context) (struct{}, error) {
			sid, err := serverID(id)
			if err != nil {
				return struct{}{}, err
			}
			return struct{}{}, b.remote.DeleteTransaction(ctx, sid)
		},
		Success: label(kind) + " deleted",
		Failure: "Failed to delete " + strings.ToLower(label(kind)),
	})
	return err
}

// completeObligation releases the earmark on the item's own account and
// posts the settled income or expense to accountID. Completing an item that
// is already completed does nothing.
func (b *Book) completeObligation(ctx context.Context, kind model.Kind, id, accountID string) error {
	old, ok := b.Snapshot().Obligation(kind, id)
	if !ok {
		return notFound(label(kind), id)
	}
	if old.Completed {
		return nil
	}

	settles := kind.Settles()
	settled := model.Transaction{
		ID:        newTempID(),
		Name:      old.Name,
		Amount:    old.Amount,
		Date:      b.today(),
		AccountID: accountID,
	}

	_, err := Run(ctx, b.ctrl, Op[int64]{
		Key: Key(string(kind), ActionComplete, id),
		Apply: func(s *Snapshot) {
			cur, ok := s.Obligation(kind, id)
			if !ok || cur.Completed {
				return
			}
			done := cur
			done.Completed = true
			s.Ledger.Transfer(ledger.ObligationPosting(kind, cur), ledger.ObligationPosting(kind, done))
			s.putObligation(kind, done)

			s.putTransaction(settles, settled)
			s.Ledger.Apply(ledger.TransactionPosting(settles, settled))
		},
		Call: func(ctx context.Context) (int64, error) {
			sid, err := serverID(id)
			if err != nil {
				return 0, err
			}
			account, err := serverRef(accountID)
			if err != nil {
				return 0, err
			}
			return b.remote.CompleteTransaction(ctx, sid, api.CompleteInput{
				AccountID:  account,
				OccurredOn: settled.Date.Format(model.DateLayout),
			})
		},
		OnSuccess: func(s *Snapshot, newID int64) {
			s.rekeyTransaction(settles, settled.ID, formatID(newID))
		},
		Success: label(kind) + " marked as completed",
		Failure: "Failed to complete " + strings.ToLower(label(kind)),
	})
	return err
}
