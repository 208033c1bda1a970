// Package config loads the service configuration from a YAML file. Every key
// can be overridden by an environment variable of the same name.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gartstein/employees/internal/employee/db"
	"github.com/ilyakaznacheev/cleanenv"
)

// PathEnv names the environment variable holding the config file path.
const PathEnv = "CONFIG_PATH"

// DefaultPath is used when neither --config nor CONFIG_PATH is set.
var DefaultPath = filepath.Join("internal", "employee", "config", "config.yaml")

// Config struct for YAML configuration
type Config struct {
	Env      string `yaml:"ENV" env:"ENV" env-default:"local"`
	GRPCPort int    `yaml:"GRPC_PORT" env:"GRPC_PORT" env-default:"50051"`
	HTTPPort int    `yaml:"HTTP_PORT" env:"HTTP_PORT" env-default:"8080"`

	DBDriver         string        `yaml:"DB_DRIVER" env:"DB_DRIVER" env-default:"sqlite"`
	DBHost           string        `yaml:"DB_HOST" env:"DB_HOST" env-default:"localhost"`
	DBPort           int           `yaml:"DB_PORT" env:"DB_PORT" env-default:"5432"`
	DBUser           string        `yaml:"DB_USER" env:"DB_USER"`
	DBPassword       string        `yaml:"DB_PASSWORD" env:"DB_PASSWORD"`
	DBName           string        `yaml:"DB_NAME" env:"DB_NAME" env-default:"employees"`
	DBSSLMode        string        `yaml:"DB_SSLMODE" env:"DB_SSLMODE" env-default:"disable"`
	DBPath           string        `yaml:"DB_PATH" env:"DB_PATH" env-default:"employees.db"`
	DBConnectTimeout time.Duration `yaml:"DB_CONNECT_TIMEOUT" env:"DB_CONNECT_TIMEOUT" env-default:"30s"`

	RequestTimeout time.Duration `yaml:"REQUEST_TIMEOUT" env:"REQUEST_TIMEOUT" env-default:"15s"`

	// KafkaBrokers is empty when events are not published.
	KafkaBrokers []string `yaml:"KAFKA_BROKERS" env:"KAFKA_BROKERS" env-separator:","`
	Topic        string   `yaml:"TOPIC" env:"TOPIC" env-default:"employee-events"`

	JWTSecret   string `yaml:"JWT_SECRET" env:"JWT_SECRET"`
	AdminCookie string `yaml:"ADMIN_COOKIE" env:"ADMIN_COOKIE" env-default:"admin_token"`
}

// ResolvePath picks the config file: an explicit path first, then
// CONFIG_PATH, then DefaultPath.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(PathEnv); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads the file at path and applies environment overrides. An empty
// path reads the environment only.
func Load(path string) (*Config, error) {
	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read config from environment: %w", err)
		}
	} else {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("cannot read config %s: %w", path, err)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER %q: %w", c.DBDriver, db.ErrUnsupportedDriver)
	}
	if c.HTTPPort <= 0 || c.GRPCPort <= 0 {
		return fmt.Errorf("HTTP_PORT and GRPC_PORT must be positive")
	}
	return nil
}

// Database returns the repository settings.
func (c *Config) Database() *db.Config {
	return &db.Config{
		Driver:         c.DBDriver,
		Host:           c.DBHost,
		Port:           c.DBPort,
		User:           c.DBUser,
		Password:       c.DBPassword,
		DBName:         c.DBName,
		SSLMode:        c.DBSSLMode,
		Path:           c.DBPath,
		ConnectTimeout: c.DBConnectTimeout,
	}
}

// IsLocal reports whether development logging should be used.
func (c *Config) IsLocal() bool {
	return c.Env == "local"
}
