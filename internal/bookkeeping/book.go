package bookkeeping

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/moajmalnk/faisytkd/internal/analytics"
	"github.com/moajmalnk/faisytkd/internal/common"
	"github.com/moajmalnk/faisytkd/internal/model"
)

// Book is the bookkeeping engine: it owns the snapshot and exposes one
// mutation entry point per entity and action. Every mutation follows Run.
type Book struct {
	remote Remote
	store  *Store
	loader *Loader
	ctrl   *Controller
	now    func() time.Time
}

type options struct {
	cache    SnapshotCache
	notifier Notifier
	timeout  time.Duration
	now      func() time.Time
}

// Option configures a Book.
type Option func(*options)

// WithCache persists every fetched snapshot and uses it as the first
// fallback when the remote service is unreachable.
func WithCache(cache SnapshotCache) Option {
	return func(o *options) { o.cache = cache }
}

// WithNotifier sets where success and failure messages go.
func WithNotifier(n Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithTimeout bounds each remote call.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithClock overrides the clock used for new item dates.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New creates a Book backed by remote. The snapshot starts empty; call Load.
func New(remote Remote, opts ...Option) *Book {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	loader := NewLoader(remote, o.cache)
	loader.now = o.now
	store := NewStore(nil)

	return &Book{
		remote: remote,
		store:  store,
		loader: loader,
		ctrl:   NewController(store, loader, o.cache, o.notifier, o.timeout),
		now:    o.now,
	}
}

// Load fills the snapshot from the remote service. When that fails it falls
// back to the cached snapshot and then the built-in seed, logging the error
// rather than failing.
func (b *Book) Load(ctx context.Context) Source {
	if err := b.ctrl.Resync(ctx); err != nil {
		slog.Warn("Failed to load from remote ledger service, using fallback", "error", err)
		b.store.Replace(b.loader.Fallback(ctx))
	}
	return b.store.Current().Source
}

// Resync replaces the snapshot with the remote state.
func (b *Book) Resync(ctx context.Context) error {
	return b.ctrl.Resync(ctx)
}

// Snapshot returns the current snapshot. It must be treated as read-only.
func (b *Book) Snapshot() *Snapshot {
	return b.store.Current()
}

// Analytics returns totals for the current snapshot.
func (b *Book) Analytics() analytics.Analytics {
	return b.store.Current().Analytics()
}

// AnalyticsWithin returns totals with income and expense narrowed to the
// trailing period p ending today.
func (b *Book) AnalyticsWithin(p analytics.Period) analytics.Analytics {
	return b.store.Current().AnalyticsWithin(p, b.today())
}

// Summary returns the headline totals for the current snapshot.
func (b *Book) Summary() analytics.Summary {
	return b.Analytics().Summary
}

// Loading reports whether an operation under key is in flight.
func (b *Book) Loading(key string) bool {
	return b.ctrl.Loading(key)
}

// LoadingKeys lists every key with an operation in flight.
func (b *Book) LoadingKeys() []string {
	return b.ctrl.LoadingKeys()
}

func (b *Book) today() time.Time {
	return model.DateOf(b.now())
}

// Entities used in operation keys.
const (
	EntityAccount  = "account"
	EntityCategory = "category"
)

// Actions used in operation keys.
const (
	ActionAdd      = "add"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionComplete = "complete"
)

// Key builds the loading-flag key for an operation, e.g. "income.update.42".
func Key(entity, action string, id ...string) string {
	parts := append([]string{entity, action}, id...)
	return strings.Join(parts, ".")
}

func label(kind model.Kind) string {
	switch kind {
	case model.KindCollect:
		return "Collection"
	case model.KindPay:
		return "Payment"
	case model.KindIncome:
		return "Income"
	case model.KindExpense:
		return "Expense"
	}
	return string(kind)
}

func notFound(what, id string) error {
	return fmt.Errorf("%s %q: %w", what, id, common.ErrNotFound)
}

// requireName rejects a blank name. Items loaded without a note keep their
// empty name through updates.
func requireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", common.ErrInvalidInput)
	}
	return nil
}
