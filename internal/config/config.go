package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/moajmalnk/faisytkd/internal/common"
)

// EnvPrefix is prepended to every environment override, e.g.
// FAISYTKD_API_BASE_URL.
const EnvPrefix = "FAISYTKD"

// Store backends for the server.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config is the resolved application configuration.
type Config struct {
	API     APIConfig
	Cache   CacheConfig
	Server  ServerConfig
	Logging LoggingConfig
}

// APIConfig points the client at the remote ledger service.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CacheConfig locates the local snapshot cache.
type CacheConfig struct {
	Path string
}

// ServerConfig configures `serve` and `migrate`.
type ServerConfig struct {
	Port        string
	Store       string
	DatabaseURL string
	RedisURL    string
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// SetDefaults registers defaults and environment bindings on v. The plain
// DATABASE_URL, REDIS_URL and PORT variables are honored for container
// deployments.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.timeout", "15s")
	v.SetDefault("cache.path", "~/.local/share/faisytkd/cache.db")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.store", StorePostgres)
	v.SetDefault("database.url", "")
	v.SetDefault("redis.url", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("redis.url", EnvPrefix+"_REDIS_URL", "REDIS_URL")
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
}

// Load reads the configuration out of v and validates it.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(v.GetString("api.base_url"), "/"),
			Timeout: v.GetDuration("api.timeout"),
		},
		Cache: CacheConfig{
			Path: ExpandPath(v.GetString("cache.path")),
		},
		Server: ServerConfig{
			Port:        v.GetString("server.port"),
			Store:       strings.ToLower(v.GetString("server.store")),
			DatabaseURL: v.GetString("database.url"),
			RedisURL:    v.GetString("redis.url"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
	}
	return cfg, cfg.Validate()
}

// Validate checks values viper cannot.
func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: api.base_url", common.ErrMissingConfig)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive", common.ErrInvalidConfig)
	}
	switch c.Server.Store {
	case StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("%w: server.store %q", common.ErrInvalidConfig, c.Server.Store)
	}
	return nil
}
