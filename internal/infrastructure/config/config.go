package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/mindcare/wellbeing-api/pkg/logger"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	// CORSOrigins lists the browser origins allowed to call the API.
	CORSOrigins []string `env:"CORS_ORIGINS, default=http://localhost:5173"`

	Storage StorageConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	AI      AIConfig
}

type StorageConfig struct {
	Driver     string `env:"STORAGE_DRIVER, default=sqlite"`
	DSN        string `env:"DATABASE_DSN"`
	SQLitePath string `env:"SQLITE_PATH,    default=wellbeing.db"`
	// Migrations switches the SQL schema from AutoMigrate to versioned
	// migrations. Only supported on postgres.
	Migrations bool `env:"MIGRATIONS,     default=false"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=wellbeing"`
}

// RedisConfig is optional; an empty Addr keeps summary job bookkeeping in memory.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type AIConfig struct {
	APIKey  string        `env:"OPENAI_API_KEY"`
	BaseURL string        `env:"OPENAI_BASE_URL"`
	Model   string        `env:"AI_MODEL,        default=gpt-4o-mini"`
	Timeout time.Duration `env:"AI_TIMEOUT,      default=60s"`
	Workers int           `env:"SUMMARY_WORKERS, default=4"`
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev" || env == "local" || env == "test"
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" && !c.IsDevelopment() {
		errs = append(errs, errors.New("JWT_SECRET is required outside development"))
	}
	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Storage.DSN == "" {
			errs = append(errs, errors.New("DATABASE_DSN is required for the postgres driver"))
		}
	case DriverSQLite, DriverMongo:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver))
	}
	if c.Storage.Migrations && c.Storage.Driver != DriverPostgres {
		errs = append(errs, errors.New("MIGRATIONS is only supported with the postgres driver"))
	}
	if !logger.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("unknown LOG_LEVEL %q", c.LogLevel))
	}
	if c.AI.Timeout <= 0 {
		errs = append(errs, errors.New("AI_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// Load reads an optional .env file and then the environment.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.JWTSecret == "" && cfg.IsDevelopment() {
		cfg.JWTSecret = "dev-secret"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
