package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moajmalnk/faisytkd/internal/common"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StorePostgres, cfg.Server.Store)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NotContains(t, cfg.Cache.Path, "~")
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("FAISYTKD_API_BASE_URL", "http://ledger:9000/")
	t.Setenv("DATABASE_URL", "postgres://db/finance")
	t.Setenv("PORT", "9999")
	t.Setenv("FAISYTKD_SERVER_STORE", "memory")

	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "http://ledger:9000", cfg.API.BaseURL)
	assert.Equal(t, "postgres://db/finance", cfg.Server.DatabaseURL)
	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, StoreMemory, cfg.Server.Store)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("server.store", "mongo")

	_, err := Load(v)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	v.Set("server.store", "memory")
	v.Set("api.base_url", "")
	_, err = Load(v)
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("FAISYTKD_TEST_DIR", "/tmp/x")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "a/b"), ExpandPath("~/a/b"))
	assert.Equal(t, "/tmp/x/cache.db", ExpandPath("$FAISYTKD_TEST_DIR/cache.db"))
}
