package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/moajmalnk/faisytkd/internal/bookkeeping"
	"github.com/moajmalnk/faisytkd/internal/cache"
	"github.com/moajmalnk/faisytkd/internal/cli"
	"github.com/moajmalnk/faisytkd/internal/common"
	"github.com/moajmalnk/faisytkd/internal/model"
	"github.com/moajmalnk/faisytkd/internal/remote"
)

// openBook connects to the remote ledger service and loads the snapshot,
// falling back to the local cache or the built-in seed when it is down.
func openBook(ctx context.Context) (*bookkeeping.Book, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	client := remote.NewClient(cfg.API.BaseURL, remote.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}))

	opts := []bookkeeping.Option{
		bookkeeping.WithNotifier(cli.NewNotifier(os.Stderr)),
		bookkeeping.WithTimeout(cfg.API.Timeout),
	}

	closer := func() {}
	snapshots, err := cache.New(cfg.Cache.Path)
	if err != nil {
		slog.Warn("Snapshot cache unavailable, continuing without it", "path", cfg.Cache.Path, "error", err)
	} else {
		opts = append(opts, bookkeeping.WithCache(snapshots))
		closer = func() {
			if err := snapshots.Close(); err != nil {
				slog.Warn("Failed to close snapshot cache", "error", err)
			}
		}
	}

	book := bookkeeping.New(client, opts...)
	switch source := book.Load(ctx); source {
	case bookkeeping.SourceRemote:
	case bookkeeping.SourceCache:
		fmt.Fprintln(os.Stderr, cli.FormatWarning(fmt.Sprintf(
			"Ledger service at %s unreachable, showing cached data from %s",
			cfg.API.BaseURL, book.Snapshot().LoadedAt.Local().Format(time.RFC1123))))
	default:
		fmt.Fprintln(os.Stderr, cli.FormatWarning(fmt.Sprintf(
			"Ledger service at %s unreachable, showing sample data", cfg.API.BaseURL)))
	}
	return book, closer, nil
}

// resolveAccount finds an account by id or by name. Empty ref means none.
func resolveAccount(snap *bookkeeping.Snapshot, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	if a, ok := snap.Ledger.Get(ref); ok {
		return a.ID, nil
	}
	if a, ok := snap.Ledger.Lookup(ref); ok {
		return a.ID, nil
	}
	return "", fmt.Errorf("account %q: %w", ref, common.ErrNotFound)
}

// resolveCategory finds a category by id or by name.
func resolveCategory(snap *bookkeeping.Snapshot, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	if c, ok := snap.Category(ref); ok {
		return c.ID, nil
	}
	key := model.NormalizeKey(ref)
	for _, c := range snap.Categories {
		if model.NormalizeKey(c.Name) == key {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("category %q: %w", ref, common.ErrNotFound)
}

func accountName(snap *bookkeeping.Snapshot, id string) string {
	if id == "" {
		return cli.SubtleStyle.Render("-")
	}
	if a, ok := snap.Ledger.Get(id); ok {
		return a.Name
	}
	return id
}

func categoryName(snap *bookkeeping.Snapshot, id string) string {
	if id == "" {
		return cli.SubtleStyle.Render("-")
	}
	if c, ok := snap.Category(id); ok {
		return c.Name
	}
	return id
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q", common.ErrInvalidInput, s)
	}
	return d, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q, want YYYY-MM-DD", common.ErrInvalidInput, s)
	}
	return t, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(model.DateLayout)
}
