package config

import (
	"fmt"

	"github.com/caarlos0/env/v9"
)

const (
	DBDriverMySQL    = "mysql"
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	SessionDriverRedis  = "redis"
	SessionDriverCookie = "cookie"
)

type Config struct {
	DBDriver     string `env:"DB_DRIVER" envDefault:"mysql"`
	DBHost       string `env:"DB_HOST" envDefault:"localhost"`
	DBPort       string `env:"DB_PORT" envDefault:"3306"`
	DBUser       string `env:"DB_USER" envDefault:"taskuser"`
	DBPassword   string `env:"DB_PASSWORD" envDefault:"taskpassword"`
	DBName       string `env:"DB_NAME" envDefault:"task_tracker"`
	DBSQLitePath string `env:"DB_SQLITE_PATH" envDefault:"task_tracker.db"`

	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     string `env:"REDIS_PORT" envDefault:"6379"`
	SessionDriver string `env:"SESSION_DRIVER" envDefault:"redis"`
	SessionSecret string `env:"SESSION_SECRET" envDefault:"default-secret-key-change-me"`

	GinMode            string   `env:"GIN_MODE" envDefault:"debug"`
	ServerAddr         string   `env:"SERVER_ADDR" envDefault:":8080"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	// AppURL prefixes relative image paths when building image links.
	AppURL        string `env:"APP_URL" envDefault:"http://localhost:8080"`
	StorageDir    string `env:"STORAGE_DIR" envDefault:"storage/app/public"`
	MaxImageBytes int64  `env:"MAX_IMAGE_BYTES" envDefault:"4194304"`

	TrashRetentionDays int `env:"TRASH_RETENTION_DAYS" envDefault:"30"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogFile   string `env:"LOG_FILE"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DBDriverMySQL, DBDriverPostgres, DBDriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.SessionDriver {
	case SessionDriverRedis, SessionDriverCookie:
	default:
		return fmt.Errorf("unsupported SESSION_DRIVER %q", c.SessionDriver)
	}
	if c.TrashRetentionDays < 0 {
		return fmt.Errorf("TRASH_RETENTION_DAYS must not be negative, got %d", c.TrashRetentionDays)
	}
	if c.MaxImageBytes <= 0 {
		return fmt.Errorf("MAX_IMAGE_BYTES must be positive, got %d", c.MaxImageBytes)
	}
	return nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}
