// Package config loads the YAML configuration file. ${VAR} references are
// expanded from the environment, which is first populated from .env.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverSQLite  = "sqlite"
	DriverMongoDB = "mongodb"
)

type Config struct {
	App     AppConfig     `yaml:"app"`
	Admin   AdminConfig   `yaml:"admin"`
	Session SessionConfig `yaml:"session"`
	Store   StoreConfig   `yaml:"store"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Admin.Validate(); err != nil {
		return fmt.Errorf("admin: %w", err)
	}
	if err := c.Session.Validate(); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

type AppConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
	// SiteURL is the public origin used for absolute links in sitemap.xml.
	SiteURL string `yaml:"site_url"`
}

func (c *AppConfig) Validate() error {
	if err := c.HTTP.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.SiteURL, validation.Required, is.URL),
	)
}

type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// AdminConfig holds the single administrator's credentials. Either Password
// or PasswordHash (bcrypt) must be set.
type AdminConfig struct {
	Email        string `yaml:"email"`
	Password     string `yaml:"password"`
	PasswordHash string `yaml:"password_hash"`
}

func (c *AdminConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Email, validation.Required, is.EmailFormat),
	); err != nil {
		return err
	}
	if c.Password == "" && c.PasswordHash == "" {
		return errors.New("one of password or password_hash is required")
	}
	return nil
}

type SessionConfig struct {
	Secret string        `yaml:"secret"`
	MaxAge time.Duration `yaml:"max_age"`
	Secure bool          `yaml:"secure"`
}

func (c *SessionConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Secret, validation.Required, validation.Length(32, 0)),
		validation.Field(&c.MaxAge, validation.Min(time.Minute)),
	)
}

type StoreConfig struct {
	Driver  string        `yaml:"driver"`
	SQLite  SQLiteConfig  `yaml:"sqlite"`
	MongoDB MongoDBConfig `yaml:"mongodb"`
}

func (c *StoreConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverSQLite, DriverMongoDB)),
	); err != nil {
		return err
	}
	switch c.Driver {
	case DriverSQLite:
		return validation.ValidateStruct(&c.SQLite,
			validation.Field(&c.SQLite.Path, validation.Required),
		)
	default:
		return validation.ValidateStruct(&c.MongoDB,
			validation.Field(&c.MongoDB.URI, validation.Required),
			validation.Field(&c.MongoDB.Database, validation.Required),
		)
	}
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type MongoDBConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// Load reads .env (if present), then the YAML file at path, fills defaults
// and validates the result.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (cfg *Config) setDefaults() {
	if cfg.App.HTTP.Port == 0 {
		cfg.App.HTTP.Port = 3000
	}
	if cfg.App.SiteURL == "" {
		cfg.App.SiteURL = fmt.Sprintf("http://localhost:%d", cfg.App.HTTP.Port)
	}
	if cfg.Session.MaxAge == 0 {
		cfg.Session.MaxAge = 30 * 24 * time.Hour
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = DriverSQLite
	}
	if cfg.Store.SQLite.Path == "" {
		cfg.Store.SQLite.Path = "./wanderlog.db"
	}
	if cfg.Store.MongoDB.Database == "" {
		cfg.Store.MongoDB.Database = "wanderlog"
	}
}
