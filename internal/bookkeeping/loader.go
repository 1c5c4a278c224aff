package bookkeeping

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/moajmalnk/faisytkd/internal/api"
	"github.com/moajmalnk/faisytkd/internal/ledger"
	"github.com/moajmalnk/faisytkd/internal/model"
)

// Remote is the remote ledger service as seen by the engine.
type Remote interface {
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
}

// SnapshotCache keeps the last snapshot fetched from the remote service.
type SnapshotCache interface {
	Save(ctx context.Context, snap *Snapshot) error
	Load(ctx context.Context) (*Snapshot, error)
}

// Loader fetches the remote collections and reshapes them into a Snapshot.
type Loader struct {
	remote Remote
	cache  SnapshotCache
	seed   func() *Snapshot
	now    func() time.Time
}

// NewLoader creates a loader. cache may be nil.
func NewLoader(remote Remote, cache SnapshotCache) *Loader {
	return &Loader{
		remote: remote,
		cache:  cache,
		seed:   SeedSnapshot,
		now:    time.Now,
	}
}

// Fetch reads all three collections concurrently and builds a snapshot.
// It has no side effects.
func (l *Loader) Fetch(ctx context.Context) (*Snapshot, error) {
	var (
		accounts     []api.Account
		categories   []api.Category
		transactions []api.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = l.remote.ListAccounts(gctx)
		if err != nil {
			return fmt.Errorf("failed to list accounts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = l.remote.ListCategories(gctx)
		if err != nil {
			return fmt.Errorf("failed to list categories: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		transactions, err = l.remote.ListTransactions(gctx)
		if err != nil {
			return fmt.Errorf("failed to list transactions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := Build(accounts, categories, transactions)
	snap.LoadedAt = l.now()
	snap.Source = SourceRemote
	return snap, nil
}

// Fallback returns the cached snapshot, or the built-in seed when there is
// no usable cache.
func (l *Loader) Fallback(ctx context.Context) *Snapshot {
	if l.cache != nil {
		snap, err := l.cache.Load(ctx)
		if err == nil && snap != nil {
			snap.Source = SourceCache
			return snap
		}
		if err != nil {
			slog.Warn("Cached snapshot unavailable", "error", err)
		}
	}
	snap := l.seed()
	snap.LoadedAt = l.now()
	snap.Source = SourceSeed
	return snap
}

// Build reshapes remote rows into a snapshot. Transactions are partitioned
// by kind; unknown kinds are skipped.
func Build(accounts []api.Account, categories []api.Category, transactions []api.Transaction) *Snapshot {
	snap := NewSnapshot()

	list := make([]model.Account, 0, len(accounts))
	for _, a := range accounts {
		list = append(list, model.Account{
			ID:      formatID(a.ID),
			Name:    a.Name,
			Type:    model.AccountType(a.Type),
			Balance: a.Amount,
		})
	}
	snap.Ledger = ledger.New(list)

	for _, c := range categories {
		snap.Categories = append(snap.Categories, model.Category{
			ID:    formatID(c.ID),
			Name:  c.Name,
			Kind:  model.CategoryKind(c.Type),
			Color: c.Color,
		})
	}

	for _, t := range transactions {
		kind := model.Kind(t.Kind)
		date := parseDate(t.OccurredOn)
		name := ""
		if t.Note != nil {
			name = *t.Note
		}

		switch {
		case kind.IsObligation():
			snap.putObligation(kind, model.Obligation{
				ID:        formatID(t.ID),
				Name:      name,
				Amount:    t.Amount,
				Completed: t.Completed,
				AccountID: formatRef(t.AccountID),
				Date:      date,
			})
		case kind == model.KindIncome || kind == model.KindExpense:
			snap.putTransaction(kind, model.Transaction{
				ID:         formatID(t.ID),
				Name:       name,
				Amount:     t.Amount,
				CategoryID: formatRef(t.CategoryID),
				Date:       date,
				AccountID:  formatRef(t.AccountID),
			})
		default:
			slog.Warn("Skipping transaction with unknown kind", "id", t.ID, "kind", t.Kind)
		}
	}
	return snap
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func formatRef(id *int64) string {
	if id == nil {
		return ""
	}
	return formatID(*id)
}

func parseDate(s string) time.Time {
	if len(s) > len(model.DateLayout) {
		s = s[:len(model.DateLayout)]
	}
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
