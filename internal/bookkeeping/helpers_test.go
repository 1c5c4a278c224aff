package bookkeeping_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/moajmalnk/faisytkd/internal/api"
	"github.com/moajmalnk/faisytkd/internal/bookkeeping"
	"github.com/moajmalnk/faisytkd/internal/server"
)

var errDown = errors.New("service unavailable")

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func formatInt(n int64) string { return strconv.FormatInt(n, 10) }

// flakyRemote wraps a working remote and injects failures and delays.
type flakyRemote struct {
	bookkeeping.Remote

	mu            sync.Mutex
	failWrites    error
	failLists     error
	block         chan struct{}
	started       chan struct{}
	completeCalls int
}

func (f *flakyRemote) writeErr() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failWrites
}

func (f *flakyRemote) listErr() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failLists
}

func (f *flakyRemote) setFailures(writes, lists error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWrites = writes
	f.failLists = lists
}

func (f *flakyRemote) wait(ctx context.Context) error {
	if f.block == nil {
		return nil
	}
	if f.started != nil {
		f.started <- struct{}{}
	}
	select {
	case <-f.block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *flakyRemote) ListAccounts(ctx context.Context) ([]api.Account, error) {
	if err := f.listErr(); err != nil {
		return nil, err
	}
	return f.Remote.ListAccounts(ctx)
}

func (f *flakyRemote) CreateTransaction(ctx context.Context, in api.TransactionInput) (int64, error) {
	if err := f.writeErr(); err != nil {
		return 0, err
	}
	if err := f.wait(ctx); err != nil {
		return 0, err
	}
	return f.Remote.CreateTransaction(ctx, in)
}

func (f *flakyRemote) UpdateTransaction(ctx context.Context, id int64, in api.TransactionInput) error {
	if err := f.writeErr(); err != nil {
		return err
	}
	return f.Remote.UpdateTransaction(ctx, id, in)
}

func (f *flakyRemote) CompleteTransaction(ctx context.Context, id int64, in api.CompleteInput) (int64, error) {
	f.mu.Lock()
	f.completeCalls++
	f.mu.Unlock()
	if err := f.writeErr(); err != nil {
		return 0, err
	}
	return f.Remote.CompleteTransaction(ctx, id, in)
}

type notification struct {
	key     string
	message string
	err     error
}

type recordingNotifier struct {
	mu       sync.Mutex
	success  []notification
	failures []notification
}

func (r *recordingNotifier) Success(key, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success = append(r.success, notification{key: key, message: message})
}

func (r *recordingNotifier) Failure(key, message string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, notification{key: key, message: message, err: err})
}

type memoryCache struct {
	mu   sync.Mutex
	snap *bookkeeping.Snapshot
}

func (m *memoryCache) Save(_ context.Context, snap *bookkeeping.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap.Clone()
	return nil
}

func (m *memoryCache) Load(context.Context) (*bookkeeping.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil {
		return nil, errors.New("empty")
	}
	return m.snap.Clone(), nil
}

// fixture is a loaded Book over an in-memory store holding Cash and Bank.
type fixture struct {
	store    *server.MemoryStore
	remote   *flakyRemote
	notifier *recordingNotifier
	book     *bookkeeping.Book
	cash     string
	bank     string
}

func newFixture(t *testing.T, opts ...bookkeeping.Option) *fixture {
	t.Helper()
	ctx := context.Background()

	store := server.NewMemoryStore()
	_, err := store.CreateAccount(ctx, api.AccountInput{Name: "Cash", Type: "cash", Amount: dec("1000")})
	require.NoError(t, err)
	_, err = store.CreateAccount(ctx, api.AccountInput{Name: "Bank", Type: "bank"})
	require.NoError(t, err)

	f := &fixture{
		store:    store,
		remote:   &flakyRemote{Remote: store},
		notifier: &recordingNotifier{},
		cash:     "1",
		bank:     "2",
	}
	opts = append([]bookkeeping.Option{bookkeeping.WithNotifier(f.notifier), bookkeeping.WithClock(clock)}, opts...)
	f.book = bookkeeping.New(f.remote, opts...)
	require.Equal(t, bookkeeping.SourceRemote, f.book.Load(ctx))
	return f
}

func (f *fixture) balance(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	a, ok := f.book.Snapshot().Ledger.Get(id)
	require.True(t, ok, "account %s", id)
	return a.Balance
}
