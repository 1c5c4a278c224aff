package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moajmalnk/faisytkd/internal/api"
	"github.com/moajmalnk/faisytkd/internal/common"
)

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func balance(t *testing.T, s Store, id int64) decimal.Decimal {
	t.Helper()
	accounts, err := s.ListAccounts(context.Background())
	require.NoError(t, err)
	for _, a := range accounts {
		if a.ID == id {
			return a.Amount
		}
	}
	t.Fatalf("account %d not found", id)
	return decimal.Zero
}

func TestMemoryStoreTransactionsMoveBalances(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	cash, err := s.CreateAccount(ctx, api.AccountInput{Name: "Cash", Type: "cash", Amount: dec("1000")})
	require.NoError(t, err)
	bank, err := s.CreateAccount(ctx, api.AccountInput{Name: "Bank", Type: "bank"})
	require.NoError(t, err)

	id, err := s.CreateTransaction(ctx, api.TransactionInput{
		Kind: "income", AccountID: &cash, Amount: dec("200"), OccurredOn: "2024-03-01",
	})
	require.NoError(t, err)
	assert.True(t, balance(t, s, cash).Equal(dec("1200")))

	err = s.UpdateTransaction(ctx, id, api.TransactionInput{
		Kind: "income", AccountID: &bank, Amount: dec("150"), OccurredOn: "2024-03-01",
	})
	require.NoError(t, err)
	assert.True(t, balance(t, s, cash).Equal(dec("1000")))
	assert.True(t, balance(t, s, bank).Equal(dec("150")))

	require.NoError(t, s.DeleteTransaction(ctx, id))
	assert.True(t, balance(t, s, cash).Equal(dec("1000")))
	assert.True(t, balance(t, s, bank).Equal(decimal.Zero))
}

func TestMemoryStoreExpenseAndObligations(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	cash, err := s.CreateAccount(ctx, api.AccountInput{Name: "Cash", Type: "cash", Amount: dec("500")})
	require.NoError(t, err)

	_, err = s.CreateTransaction(ctx, api.TransactionInput{
		Kind: "expense", AccountID: &cash, Amount: dec("120.50"), OccurredOn: "2024-03-02",
	})
	require.NoError(t, err)
	assert.True(t, balance(t, s, cash).Equal(dec("379.50")))

	collect, err := s.CreateTransaction(ctx, api.TransactionInput{
		Kind: "collect", AccountID: &cash, Amount: dec("80"), OccurredOn: "2024-03-03",
	})
	require.NoError(t, err)
	before := balance(t, s, cash)

	incomeID, err := s.CompleteTransaction(ctx, collect, api.CompleteInput{AccountID: &cash, OccurredOn: "2024-03-04"})
	require.NoError(t, err)

	rows, err := s.ListTransactions(ctx)
	require.NoError(t, err)
	byID := map[int64]api.Transaction{}
	for _, r := range rows {
		byID[r.ID] = r
	}
	assert.True(t, byID[collect].Completed)
	assert.Equal(t, "income", byID[incomeID].Kind)
	assert.Equal(t, "2024-03-04", byID[incomeID].OccurredOn)

	// The open collect posted -80; completing removes that and posts +80 income.
	assert.True(t, balance(t, s, cash).Equal(before.Add(dec("160"))))

	_, err = s.CompleteTransaction(ctx, collect, api.CompleteInput{AccountID: &cash, OccurredOn: "2024-03-05"})
	assert.ErrorIs(t, err, common.ErrConflict)

	_, err = s.CompleteTransaction(ctx, incomeID, api.CompleteInput{AccountID: &cash, OccurredOn: "2024-03-05"})
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestMemoryStoreErrors(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	assert.ErrorIs(t, s.UpdateAccount(ctx, 9, api.AccountInput{Name: "x", Type: "cash"}), common.ErrNotFound)
	assert.ErrorIs(t, s.DeleteCategory(ctx, 9), common.ErrNotFound)
	assert.ErrorIs(t, s.DeleteTransaction(ctx, 9), common.ErrNotFound)

	_, err := s.CreateTransaction(ctx, api.TransactionInput{
		Kind: "income", AccountID: ptr(int64(77)), Amount: dec("1"), OccurredOn: "2024-01-01",
	})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestMemoryStoreDeleteDetachesReferences(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	cash, err := s.CreateAccount(ctx, api.AccountInput{Name: "Cash", Type: "cash"})
	require.NoError(t, err)
	cat, err := s.CreateCategory(ctx, api.CategoryInput{Name: "Salary", Type: "income"})
	require.NoError(t, err)
	_, err = s.CreateTransaction(ctx, api.TransactionInput{
		Kind: "income", AccountID: &cash, CategoryID: &cat, Amount: dec("10"), OccurredOn: "2024-01-01",
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteAccount(ctx, cash))
	require.NoError(t, s.DeleteCategory(ctx, cat))

	rows, err := s.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].AccountID)
	assert.Nil(t, rows[0].CategoryID)

	categories, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestSeedDemo(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, SeedDemo(ctx, s, today))

	categories, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, len(DefaultCategories))

	rows, err := s.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, len(demoItems))

	// Second run is a no-op.
	require.NoError(t, SeedDemo(ctx, s, today))
	rows, err = s.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, len(demoItems))
}

func TestNormalizeDatabaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", DefaultDatabaseURL},
		{"postgresql://u:p@db:5432/x", "postgres://u:p@db:5432/x?sslmode=disable"},
		{"postgres://db/x?connect_timeout=5", "postgres://db/x?connect_timeout=5&sslmode=disable"},
		{"postgres://db/x?sslmode=require", "postgres://db/x?sslmode=require"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDatabaseURL(tt.in))
		})
	}
}

func TestConnectErrorStopsOnPermanentFailures(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		permanent bool
	}{
		{"wrong password", &pgconn.PgError{Code: "28P01"}, true},
		{"unknown database", &pgconn.PgError{Code: "3D000"}, true},
		{"starting up", &pgconn.PgError{Code: "57P03"}, false},
		{"refused", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := common.WithRetry(context.Background(), func() error {
				calls++
				return connectError(tt.err)
			}, common.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond})

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			if tt.permanent {
				assert.Equal(t, 1, calls)
				assert.NotErrorIs(t, err, common.ErrMaxRetries)
			} else {
				assert.Equal(t, 3, calls)
				assert.ErrorIs(t, err, common.ErrMaxRetries)
			}
		})
	}
}

func TestClassifyPostgresErrors(t *testing.T) {
	assert.ErrorIs(t, classify(&pgconn.PgError{Code: "23503"}), common.ErrInvalidInput)
	assert.ErrorIs(t, classify(&pgconn.PgError{Code: "23505"}), common.ErrConflict)
	plain := errors.New("boom")
	assert.Same(t, plain, classify(plain))
}
