package bookkeeping

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/moajmalnk/faisytkd/internal/common"
)

// DefaultTimeout bounds the remote call of a single operation.
const DefaultTimeout = 15 * time.Second

// Op describes one optimistic mutation.
type Op[T any] struct {
	// Key identifies the operation for the loading flag.
	Key string
	// Apply mutates a private copy of the snapshot before any I/O.
	Apply func(*Snapshot)
	// Call performs the remote write.
	Call func(context.Context) (T, error)
	// OnSuccess reconciles the snapshot with the remote result, typically by
	// replacing a temporary id with the server id.
	OnSuccess func(*Snapshot, T)
	Success   string
	Failure   string
}

// Controller applies optimistic mutations, confirms them remotely, and
// resynchronizes from the remote service afterwards.
type Controller struct {
	store    *Store
	loader   *Loader
	cache    SnapshotCache
	notifier Notifier
	timeout  time.Duration

	mu      sync.Mutex
	loading map[string]int
}

// NewController wires a controller around store and loader.
func NewController(store *Store, loader *Loader, cache SnapshotCache, notifier Notifier, timeout time.Duration) *Controller {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Controller{
		store:    store,
		loader:   loader,
		cache:    cache,
		notifier: notifier,
		timeout:  timeout,
		loading:  make(map[string]int),
	}
}

// Loading reports whether any operation under key is in flight.
func (c *Controller) Loading(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading[key] > 0
}

// LoadingKeys lists the keys with operations in flight, sorted.
func (c *Controller) LoadingKeys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.loading))
	for k := range c.loading {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *Controller) begin(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading[key]++
}

func (c *Controller) end(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading[key] <= 1 {
		delete(c.loading, key)
		return
	}
	c.loading[key]--
}

// Resync replaces the snapshot with a fresh fetch from the remote service.
// The snapshot is left untouched when the fetch fails.
func (c *Controller) Resync(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	snap, err := c.loader.Fetch(ctx)
	if err != nil {
		return err
	}
	c.store.Replace(snap)

	if c.cache != nil {
		if err := c.cache.Save(ctx, snap); err != nil {
			slog.Warn("Failed to cache snapshot", "error", err)
		}
	}
	return nil
}

// Run executes op: apply locally, call remote, then resync. On failure the
// optimistic state is discarded by resyncing; if that also fails the exact
// pre-mutation snapshot is restored. Operations sharing a key are not
// serialized.
func Run[T any](ctx context.Context, c *Controller, op Op[T]) (T, error) {
	var zero T

	c.begin(op.Key)
	defer c.end(op.Key)

	var before *Snapshot
	if op.Apply != nil {
		before = c.store.Mutate(op.Apply)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	result, err := op.Call(callCtx)
	cancel()

	// The caller's context may already be done; resync regardless.
	syncCtx := context.WithoutCancel(ctx)

	if err != nil {
		c.notifier.Failure(op.Key, op.Failure, err)
		if rerr := c.Resync(syncCtx); rerr != nil {
			slog.Warn("Resync after failed operation failed, restoring previous snapshot",
				"operation", op.Key, "error", rerr)
			if before != nil {
				c.store.Replace(before)
			}
		}
		return zero, common.NewUserError(op.Failure, err)
	}

	if op.OnSuccess != nil {
		c.store.Mutate(func(s *Snapshot) { op.OnSuccess(s, result) })
	}
	if rerr := c.Resync(syncCtx); rerr != nil {
		slog.Warn("Resync after operation failed, keeping local state",
			"operation", op.Key, "error", rerr)
	}
	c.notifier.Success(op.Key, op.Success)
	return result, nil
}
