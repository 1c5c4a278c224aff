// Package server implements the remote ledger service: a JSON API over the
// accounts, categories and transactions collections. Writes to transactions
// move account balances in the same database transaction, so the service is
// the arbiter of balances.
package server

import (
	"context"
	"strconv"

	"github.com/moajmalnk/faisytkd/internal/api"
	"github.com/moajmalnk/faisytkd/internal/ledger"
	"github.com/moajmalnk/faisytkd/internal/model"
)

// Store persists the three collections.
type Store interface {
	Ping(ctx context.Context) error

	ListAccounts(ctx context.Context) ([]api.Account, error)
	CreateAccount(ctx context.Context, in api.AccountInput) (int64, error)
	UpdateAccount(ctx context.Context, id int64, in api.AccountInput) error
	DeleteAccount(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]api.Category, error)
	CreateCategory(ctx context.Context, in api.CategoryInput) (int64, error)
	UpdateCategory(ctx context.Context, id int64, in api.CategoryInput) error
	DeleteCategory(ctx context.Context, id int64) error

	ListTransactions(ctx context.Context) ([]api.Transaction, error)
	CreateTransaction(ctx context.Context, in api.TransactionInput) (int64, error)
	UpdateTransaction(ctx context.Context, id int64, in api.TransactionInput) error
	DeleteTransaction(ctx context.Context, id int64) error
	CompleteTransaction(ctx context.Context, id int64, in api.CompleteInput) (int64, error)

	Close() error
}

// posting is the balance effect a stored transaction row has.
func posting(t api.Transaction) ledger.Posting {
	account := ""
	if t.AccountID != nil {
		account = strconv.FormatInt(*t.AccountID, 10)
	}
	return ledger.PostingFor(model.Kind(t.Kind), account, t.Amount, t.Completed)
}

// balanceChange is one account update derived from ledger adjustments.
type balanceChange struct {
	accountID int64
	adj       ledger.Adjustment
}

func balanceChanges(old, new api.Transaction) []balanceChange {
	adjustments := ledger.Adjustments(posting(old), posting(new))
	out := make([]balanceChange, 0, len(adjustments))
	for _, a := range adjustments {
		id, err := strconv.ParseInt(a.AccountID, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, balanceChange{accountID: id, adj: a})
	}
	return out
}

// settlement builds the income or expense row a completed obligation turns into.
func settlement(t api.Transaction, in api.CompleteInput) api.Transaction {
	return api.Transaction{
		Kind:       string(model.Kind(t.Kind).Settles()),
		AccountID:  in.AccountID,
		Amount:     t.Amount,
		Note:       t.Note,
		OccurredOn: in.OccurredOn,
	}
}
