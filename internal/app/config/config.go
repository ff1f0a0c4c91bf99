// Package config loads process configuration from environment variables.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	"library_api/internal/platform/db"
)

// Config is the configuration of one service process.
type Config struct {
	// Service is "frontend" or "backend". It is set by the loader, not by env.
	Service string

	Port      string `env:"PORT"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	CORSAllowOrigins []string      `env:"CORS_ALLOW_ORIGINS"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	DB          DBConfig
	Redis       RedisConfig
	Replication ReplicationConfig
}

type DBConfig struct {
	Driver         string        `env:"DB_DRIVER, default=sqlite"`
	DSN            string        `env:"DB_DSN"`
	Host           string        `env:"DB_HOST, default=localhost"`
	Port           string        `env:"DB_PORT, default=5432"`
	User           string        `env:"DB_USER"`
	Password       string        `env:"DB_PASSWORD"`
	Name           string        `env:"DB_NAME"`
	SSLMode        string        `env:"DB_SSLMODE, default=disable"`
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT, default=60s"`
	RunMigrations  bool          `env:"RUN_MIGRATIONS, default=true"`
}

// RedisConfig configures the read-model cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB, default=0"`
	CacheTTL time.Duration `env:"CACHE_TTL, default=5m"`
}

// ReplicationConfig configures the outbound replication notifier. An empty
// PeerBaseURL disables replication.
type ReplicationConfig struct {
	PeerBaseURL string        `env:"PEER_BASE_URL"`
	Timeout     time.Duration `env:"REPLICATION_TIMEOUT, default=5s"`
	Workers     int           `env:"REPLICATION_WORKERS, default=4"`
	Buffer      int           `env:"REPLICATION_BUFFER, default=256"`
}

// Defaults are the per-service values applied when the environment leaves
// them unset.
type Defaults struct {
	Service    string
	Port       string
	SQLitePath string
}

var (
	FrontendDefaults = Defaults{Service: "frontend", Port: "8000", SQLitePath: "frontend.db"}
	BackendDefaults  = Defaults{Service: "backend", Port: "8001", SQLitePath: "backend.db"}
)

// LoadFrontend reads the Frontend configuration from the process environment.
func LoadFrontend(ctx context.Context) (*Config, error) {
	return Load(ctx, envconfig.OsLookuper(), FrontendDefaults)
}

// LoadBackend reads the Backend configuration from the process environment.
func LoadBackend(ctx context.Context) (*Config, error) {
	return Load(ctx, envconfig.OsLookuper(), BackendDefaults)
}

// Load reads configuration through l and applies d.
func Load(ctx context.Context, l envconfig.Lookuper, d Defaults) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}

	cfg.Service = d.Service
	if cfg.Port == "" {
		cfg.Port = d.Port
	}

	switch cfg.DB.Driver {
	case db.DriverSQLite:
		if cfg.DB.DSN == "" {
			cfg.DB.DSN = d.SQLitePath
		}
	case db.DriverPostgres:
	default:
		return nil, fmt.Errorf("config: unsupported DB_DRIVER %q", cfg.DB.Driver)
	}

	if cfg.Replication.Workers <= 0 {
		return nil, fmt.Errorf("config: REPLICATION_WORKERS must be positive, got %d", cfg.Replication.Workers)
	}
	if cfg.Replication.Buffer < 0 {
		return nil, fmt.Errorf("config: REPLICATION_BUFFER must not be negative, got %d", cfg.Replication.Buffer)
	}
	return &cfg, nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Database converts the DB section into the form the db package expects.
func (c *Config) Database() db.Config {
	return db.Config{
		Driver:   c.DB.Driver,
		DSN:      c.DB.DSN,
		Host:     c.DB.Host,
		Port:     c.DB.Port,
		User:     c.DB.User,
		Password: c.DB.Password,
		Name:     c.DB.Name,
		SSLMode:  c.DB.SSLMode,
	}
}
