package bookkeeping_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moajmalnk/faisytkd/internal/api"
	"github.com/moajmalnk/faisytkd/internal/bookkeeping"
	"github.com/moajmalnk/faisytkd/internal/model"
	"github.com/moajmalnk/faisytkd/internal/remote"
	"github.com/moajmalnk/faisytkd/internal/server"
)

// TestEndToEndOverHTTP drives the book through the HTTP client against the
// real router.
func TestEndToEndOverHTTP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	store := server.NewMemoryStore()
	srv := httptest.NewServer(server.NewRouter(store, nil))
	defer srv.Close()

	client := remote.NewClient(srv.URL)
	require.NoError(t, client.Health(ctx))

	cashID, err := client.CreateAccount(ctx, api.AccountInput{Name: "Cash", Type: "cash", Amount: dec("1000")})
	require.NoError(t, err)
	bankID, err := client.CreateAccount(ctx, api.AccountInput{Name: "Bank", Type: "bank"})
	require.NoError(t, err)

	book := bookkeeping.New(client, bookkeeping.WithClock(clock))
	require.Equal(t, bookkeeping.SourceRemote, book.Load(ctx))

	cash, ok := book.Snapshot().Ledger.Lookup("cash")
	require.True(t, ok)
	bank, ok := book.Snapshot().Ledger.Lookup("Bank")
	require.True(t, ok)
	assert.Equal(t, cash.ID, formatInt(cashID))
	assert.Equal(t, bank.ID, formatInt(bankID))

	balance := func(id string) string {
		a, ok := book.Snapshot().Ledger.Get(id)
		require.True(t, ok)
		return a.Balance.String()
	}

	income, err := book.AddIncome(ctx, bookkeeping.TransactionInput{Name: "Salary", Amount: dec("200"), AccountID: cash.ID})
	require.NoError(t, err)
	assert.Equal(t, "1200", balance(cash.ID))
	assert.Equal(t, "200", book.Summary().TotalIncome.String())

	require.NoError(t, book.UpdateIncome(ctx, income.ID, bookkeeping.TransactionInput{Name: "Salary", Amount: dec("150"), AccountID: bank.ID}))
	assert.Equal(t, "1000", balance(cash.ID))
	assert.Equal(t, "150", balance(bank.ID))
	assert.Equal(t, "150", book.Summary().TotalIncome.String())

	require.NoError(t, book.DeleteIncome(ctx, income.ID))
	assert.Equal(t, "1000", balance(cash.ID))
	assert.Equal(t, "0", balance(bank.ID))
	assert.Equal(t, "0", book.Summary().TotalIncome.String())

	collect, err := book.AddCollect(ctx, bookkeeping.ObligationInput{Name: "Invoice", Amount: dec("250"), AccountID: cash.ID})
	require.NoError(t, err)
	require.NoError(t, book.CompleteCollect(ctx, collect.ID, bank.ID))
	assert.Equal(t, "1000", balance(cash.ID))
	assert.Equal(t, "250", balance(bank.ID))
	assert.Len(t, book.Snapshot().Transactions(model.KindIncome), 1)

	// The server agrees with the client after every step.
	accounts, err := client.ListAccounts(ctx)
	require.NoError(t, err)
	for _, a := range accounts {
		local, ok := book.Snapshot().Ledger.Get(formatInt(a.ID))
		require.True(t, ok)
		assert.True(t, a.Amount.Equal(local.Balance), "account %s", a.Name)
	}

	summary := book.Summary()
	assert.True(t, summary.TotalIncome.Equal(dec("250")))
	assert.True(t, summary.TotalAccounts.Equal(dec("1250")))
}
