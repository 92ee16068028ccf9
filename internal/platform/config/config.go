package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cinedex/catalog-api/internal/platform/logging"
)

const EnvPrefix = "CATALOG"

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendMySQL    = "mysql"
)

// Config is the process configuration. Precedence, lowest first: defaults,
// optional YAML file, CATALOG_* environment variables.
type Config struct {
	HTTP        HTTPConfig        `mapstructure:"http"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Log         LogConfig         `mapstructure:"log"`
	Idempotency IdempotencyConfig `mapstructure:"idempotency"`
}

type HTTPConfig struct {
	Addr              string        `mapstructure:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	// DatabaseURL is the pgx connection string for the postgres backend.
	DatabaseURL string `mapstructure:"database_url"`
	// MySQLDSN is the go-sql-driver DSN for the mysql backend.
	MySQLDSN       string        `mapstructure:"mysql_dsn"`
	MaxConns       int           `mapstructure:"max_conns"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	MigrateOnStart bool          `mapstructure:"migrate_on_start"`
}

type LogConfig struct {
	// Level is info, debug, trace or a numeric logr verbosity.
	Level string `mapstructure:"level"`
}

type IdempotencyConfig struct {
	// TTL bounds how long in-memory idempotency records are replayed.
	TTL time.Duration `mapstructure:"ttl"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_header_timeout", 5*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("storage.backend", BackendMemory)
	v.SetDefault("storage.database_url", "")
	v.SetDefault("storage.mysql_dsn", "")
	v.SetDefault("storage.max_conns", 10)
	v.SetDefault("storage.connect_timeout", 10*time.Second)
	v.SetDefault("storage.migrate_on_start", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("idempotency.ttl", 24*time.Hour)
}

// Load reads configuration. path may be empty, in which case only defaults
// and the environment apply.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Short aliases; PORT-style variables stay unprefixed for container platforms.
	_ = v.BindEnv("storage.database_url", "CATALOG_STORAGE_DATABASE_URL", "CATALOG_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("storage.mysql_dsn", "CATALOG_STORAGE_MYSQL_DSN", "CATALOG_MYSQL_DSN")
	_ = v.BindEnv("storage.backend", "CATALOG_STORAGE_BACKEND", "STORAGE_BACKEND")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Storage.DatabaseURL == "" {
			errs = append(errs, errors.New("storage.database_url is required for the postgres backend"))
		}
	case BackendMySQL:
		if c.Storage.MySQLDSN == "" {
			errs = append(errs, errors.New("storage.mysql_dsn is required for the mysql backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.backend must be memory, postgres or mysql, got %q", c.Storage.Backend))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Idempotency.TTL < 0 {
		errs = append(errs, errors.New("idempotency.ttl must not be negative"))
	}
	return errors.Join(errs...)
}
