package bookkeeping

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/moajmalnk/faisytkd/internal/api"
	"github.com/moajmalnk/faisytkd/internal/common"
	"github.com/moajmalnk/faisytkd/internal/model"
)

// AccountInput holds the editable fields of an account.
type AccountInput struct {
	Name    string
	Type    model.AccountType
	Balance decimal.Decimal
}

func (in AccountInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: account name is required", common.ErrInvalidInput)
	}
	if !in.Type.Valid() {
		return fmt.Errorf("%w: account type %q", common.ErrInvalidInput, in.Type)
	}
	return nil
}

func (in AccountInput) body() api.AccountInput {
	return api.AccountInput{Name: in.Name, Type: string(in.Type), Amount: in.Balance}
}

// AddAccount creates an account with an opening balance.
func (b *Book) AddAccount(ctx context.Context, in AccountInput) (model.Account, error) {
	if err := in.validate(); err != nil {
		return model.Account{}, err
	}

	acct := model.Account{ID: newTempID(), Name: in.Name, Type: in.Type, Balance: in.Balance}

	id, err := Run(ctx, b.ctrl, Op[int64]{
		Key: Key(EntityAccount, ActionAdd),
		Apply: func(s *Snapshot) {
			s.Ledger.Create(acct)
		},
		Call: func(ctx context.Context) (int64, error) {
			return b.remote.CreateAccount(ctx, in.body())
		},
		OnSuccess: func(s *Snapshot, id int64) {
			s.rekeyAccount(acct.ID, formatID(id))
		},
		Success: "Account added",
		Failure: "Failed to add account",
	})
	if err != nil {
		return model.Account{}, err
	}

	acct.ID = formatID(id)
	return acct, nil
}

// UpdateAccount replaces name, type and balance of an account.
func (b *Book) UpdateAccount(ctx context.Context, id string, in AccountInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	if _, ok := b.Snapshot().Ledger.Get(id); !ok {
		return notFound("account", id)
	}

	_, err := Run(ctx, b.ctrl, Op[struct{}]{
		Key: Key(EntityAccount, ActionUpdate, id),
		Apply: func(s *Snapshot) {
			s.Ledger.Update(model.Account{ID: id, Name: in.Name, Type: in.Type, Balance: in.Balance})
		},
		Call: func(ctx context.Context) (struct{}, error) {
			sid, err := serverID(id)
			if err != nil {
				return struct{}{}, err
			}
			return struct{}{}, b.remote.UpdateAccount(ctx, sid, in.body())
		},
		Success: "Account updated",
		Failure: "Failed to update account",
	})
	return err
}

// SetAccountBalance overwrites the balance of an account, keeping its name
// and type.
func (b *Book) SetAccountBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	acct, ok := b.Snapshot().Ledger.Get(id)
	if !ok {
		return notFound("account", id)
	}
	return b.UpdateAccount(ctx, id, AccountInput{Name: acct.Name, Type: acct.Type, Balance: balance})
}

// DeleteAccount removes an account. Items referencing it are detached, not
// deleted, and keep their amounts.
func (b *Book) DeleteAccount(ctx context.Context, id string) error {
	if _, ok := b.Snapshot().Ledger.Get(id); !ok {
		return notFound("account", id)
	}

	_, err := Run(ctx, b.ctrl, Op[struct{}]{
		Key: Key(EntityAccount, ActionDelete, id),
		Apply: func(s *Snapshot) {
			s.Ledger.Delete(id)
			s.detachAccount(id)
		},
		Call: func(ctx context.Context) (struct{}, error) {
			sid, err := serverID(id)
			if err != nil {
				return struct{}{}, err
			}
			return struct{}{}, b.remote.DeleteAccount(ctx, sid)
		},
		Success: "Account deleted",
		Failure: "Failed to delete account",
	})
	return err
}
