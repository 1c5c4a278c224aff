package bookkeeping

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moajmalnk/faisytkd/internal/common"
	"github.com/moajmalnk/faisytkd/internal/ledger"
	"github.com/moajmalnk/faisytkd/internal/model"
)

// TransactionInput holds the editable fields of an income or expense item.
// A zero Date means today on add and "unchanged" on update.
type TransactionInput struct {
	Name       string
	Amount     decimal.Decimal
	CategoryID string
	Date       time.Time
	AccountID  string
}

func (in TransactionInput) validate() error {
	if in.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", common.ErrInvalidInput)
	}
	return nil
}

// AddIncome posts money into an account.
func (b *Book) AddIncome(ctx context.Context, in TransactionInput) (model.Transaction, error) {
	return b.addTransaction(ctx, model.KindIncome, in)
}

// UpdateIncome replaces an income item, moving its effect between accounts
// when the account or amount changes.
func (b *Book) UpdateIncome(ctx context.Context, id string, in TransactionInput) error {
	return b.updateTransaction(ctx, model.KindIncome, id, in)
}

// DeleteIncome removes an income item and its effect on the account.
func (b *Book) DeleteIncome(ctx context.Context, id string) error {
	return b.deleteTransaction(ctx, model.KindIncome, id)
}

// AddExpense posts money out of an account.
func (b *Book) AddExpense(ctx context.Context, in TransactionInput) (model.Transaction, error) {
	return b.addTransaction(ctx, model.KindExpense, in)
}

// UpdateExpense replaces an expense item.
func (b *Book) UpdateExpense(ctx context.Context, id string, in TransactionInput) error {
	return b.updateTransaction(ctx, model.KindExpense, id, in)
}

// DeleteExpense removes an expense item and its effect on the account.
func (b *Book) DeleteExpense(ctx context.Context, id string) error {
	return b.deleteTransaction(ctx, model.KindExpense, id)
}

func (b *Book) addTransaction(ctx context.Context, kind model.Kind, in TransactionInput) (model.Transaction, error) {
	if err := requireName(in.Name); err != nil {
		return model.Transaction{}, err
	}
	if err := in.validate(); err != nil {
		return model.Transaction{}, err
	}

	date := in.Date
	if date.IsZero() {
		date = b.today()
	}
	item := model.Transaction{
		ID:         newTempID(),
		Name:       in.Name,
		Amount:     in.Amount,
		CategoryID: in.CategoryID,
		Date:       model.DateOf(date),
		AccountID:  in.AccountID,
	}

	id, err := Run(ctx, b.ctrl, Op[int64]{
		Key: Key(string(kind), ActionAdd),
		Apply: func(s *Snapshot) {
			s.putTransaction(kind, item)
			s.Ledger.Apply(ledger.TransactionPosting(kind, item))
		},
		Call: func(ctx context.Context) (int64, error) {
			body, err := transactionBody(kind, item)
			if err != nil {
				return 0, err
			}
			return b.remote.CreateTransaction(ctx, body)
		},
		OnSuccess: func(s *Snapshot, id int64) {
			s.rekeyTransaction(kind, item.ID, formatID(id))
		},
		Success: label(kind) + " added",
		Failure: "Failed to add " + strings.ToLower(label(kind)),
	})
	if err != nil {
		return model.Transaction{}, err
	}

	item.ID = formatID(id)
	return item, nil
}

func (b *Book) updateTransaction(ctx context.Context, kind model.Kind, id string, in TransactionInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	old, ok := b.Snapshot().Transaction(kind, id)
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
	next.CategoryID = in.CategoryID
	next.AccountID = in.AccountID
	if !in.Date.IsZero() {
		next.Date = model.DateOf(in.Date)
	}

	_, err := Run(ctx, b.ctrl, Op[struct{}]{
		Key: Key(string(kind), ActionUpdate, id),
		Apply: func(s *Snapshot) {
			cur, ok := s.Transaction(kind, id)
			if !ok {
				return
			}
			s.Ledger.Transfer(ledger.TransactionPosting(kind, cur), ledger.TransactionPosting(kind, next))
			s.putTransaction(kind, next)
		},
		Call: func(ctx context.Context) (struct{}, error) {
			sid, err := serverID(id)
			if err != nil {
				return struct{}{}, err
			}
			body, err := transactionBody(kind, next)
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

func (b *Book) deleteTransaction(ctx context.Context, kind model.Kind, id string) error {
	if _, ok := b.Snapshot().Transaction(kind, id); !ok {
		return notFound(label(kind), id)
	}

	_, err := Run(ctx, b.ctrl, Op[struct{}]{
		Key: Key(string(kind), ActionDelete, id),
		Apply: func(s *Snapshot) {
			cur, ok := s.Transaction(kind, id)
			if !ok {
				return
			}
			s.Ledger.Reverse(ledger.TransactionPosting(kind, cur))
			s.removeTransaction(kind, id)
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
