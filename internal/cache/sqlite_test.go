package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moajmalnk/faisytkd/internal/bookkeeping"
	"github.com/moajmalnk/faisytkd/internal/common"
)

func TestSQLiteCacheEmpty(t *testing.T) {
	c, err := New(":memory:")
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Load(context.Background())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := New(filepath.Join(t.TempDir(), "nested", "cache.db"))
	require.NoError(t, err)
	defer c.Close()

	seed := bookkeeping.SeedSnapshot()
	seed.LoadedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, c.Save(ctx, seed))

	got, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed.Ledger.Len(), got.Ledger.Len())
	assert.True(t, seed.Ledger.Total().Equal(got.Ledger.Total()))
	assert.Equal(t, seed.Categories, got.Categories)
	assert.Len(t, got.Collect, len(seed.Collect))
	assert.Len(t, got.Pay, len(seed.Pay))
	assert.True(t, seed.LoadedAt.Equal(got.LoadedAt))

	// Save replaces the previous row.
	next := bookkeeping.NewSnapshot()
	require.NoError(t, c.Save(ctx, next))
	got, err = c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Ledger.Len())
	assert.True(t, got.Ledger.Total().Equal(decimal.Zero))
}

func TestNewRequiresPath(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}
