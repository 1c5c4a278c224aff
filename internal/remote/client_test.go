package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moajmalnk/faisytkd/internal/api"
	"github.com/moajmalnk/faisytkd/internal/common"
)

func TestClientRequests(t *testing.T) {
	type seen struct {
		method string
		path   string
		body   map[string]any
	}
	var (
		mu  sync.Mutex
		got []seen
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := seen{method: r.Method, path: r.URL.Path}
		if r.Body != nil && r.ContentLength > 0 {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&s.body))
		}
		mu.Lock()
		got = append(got, s)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == api.AccountsPath:
			_, _ = w.Write([]byte(`{"ok":true,"items":[{"id":1,"name":"Cash","type":"cash","amount":15740}]}`))
		case r.Method == http.MethodPost:
			_, _ = w.Write([]byte(`{"ok":true,"id":42}`))
		default:
			_, _ = w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	c := NewClient(srv.URL + "/")
	assert.Equal(t, srv.URL, c.BaseURL())

	accounts, err := c.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Cash", accounts[0].Name)
	assert.True(t, accounts[0].Amount.Equal(decimal.NewFromInt(15740)))

	id, err := c.CreateTransaction(ctx, api.TransactionInput{Kind: "income", Amount: decimal.NewFromInt(200), OccurredOn: "2025-01-02"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	require.NoError(t, c.UpdateCategory(ctx, 5, api.CategoryInput{Name: "Rent", Type: "expense"}))
	require.NoError(t, c.DeleteAccount(ctx, 9))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 4)
	assert.Equal(t, "POST", got[1].method)
	assert.Equal(t, "income", got[1].body["kind"])
	assert.Equal(t, "PUT", got[2].method)
	assert.Equal(t, "/api/categories/5", got[2].path)
	assert.Equal(t, "DELETE", got[3].method)
	assert.Equal(t, "/api/accounts/9", got[3].path)
}

func TestClientNon2xxIsRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).ListTransactions(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrRemote)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	assert.Equal(t, "HTTP 503: database unavailable", se.Error())
}

func TestClientRejectedEnvelopeIsRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			_, _ = w.Write([]byte(`{"ok":false}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":false,"error":"ledger locked"}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	c := NewClient(srv.URL)

	_, err := c.ListAccounts(ctx)
	assert.ErrorIs(t, err, common.ErrRemote)
	assert.Contains(t, err.Error(), "ledger locked")

	_, err = c.CreateAccount(ctx, api.AccountInput{Name: "Cash", Type: "cash"})
	assert.ErrorIs(t, err, common.ErrRemote)
	assert.Contains(t, err.Error(), "request rejected")

	assert.ErrorIs(t, c.UpdateAccount(ctx, 1, api.AccountInput{Name: "Cash", Type: "cash"}), common.ErrRemote)
	assert.ErrorIs(t, c.DeleteTransaction(ctx, 1), common.ErrRemote)
}

func TestClientEmptyWriteBodyIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	assert.NoError(t, NewClient(srv.URL).DeleteAccount(context.Background(), 3))
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewClient(url).Health(context.Background())
	assert.ErrorIs(t, err, common.ErrRemote)
}
