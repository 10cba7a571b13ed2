// Package config loads the regtriage TOML configuration with environment
// overlays and REGTRIAGE_* variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/regtriage/pkg/database"
	"github.com/JaimeStill/regtriage/pkg/middleware"
	"github.com/JaimeStill/regtriage/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvConfig          = "REGTRIAGE_CONFIG"
	EnvEnv             = "REGTRIAGE_ENV"
	EnvShutdownTimeout = "REGTRIAGE_SHUTDOWN_TIMEOUT"
	EnvVersion         = "REGTRIAGE_VERSION"
)

var databaseEnv = &database.Env{
	Enabled:         "REGTRIAGE_DB_ENABLED",
	Host:            "REGTRIAGE_DB_HOST",
	Port:            "REGTRIAGE_DB_PORT",
	Name:            "REGTRIAGE_DB_NAME",
	User:            "REGTRIAGE_DB_USER",
	Password:        "REGTRIAGE_DB_PASSWORD",
	SSLMode:         "REGTRIAGE_DB_SSL_MODE",
	MaxOpenConns:    "REGTRIAGE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "REGTRIAGE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "REGTRIAGE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "REGTRIAGE_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Provider:         "REGTRIAGE_STORAGE_PROVIDER",
	Root:             "REGTRIAGE_STORAGE_ROOT",
	ContainerName:    "REGTRIAGE_STORAGE_CONTAINER_NAME",
	ConnectionString: "REGTRIAGE_STORAGE_CONNECTION_STRING",
	AccountURL:       "REGTRIAGE_STORAGE_ACCOUNT_URL",
}

var authEnv = &middleware.AuthEnv{
	Enabled:   "REGTRIAGE_AUTH_ENABLED",
	IssuerURL: "REGTRIAGE_AUTH_ISSUER_URL",
	ClientID:  "REGTRIAGE_AUTH_CLIENT_ID",
}

// Config is the root configuration for the regtriage service and CLI.
type Config struct {
	Server          ServerConfig          `toml:"server"`
	Database        database.Config       `toml:"database"`
	Storage         storage.Config        `toml:"storage"`
	API             APIConfig             `toml:"api"`
	Auth            middleware.AuthConfig `toml:"auth"`
	Analysis        AnalysisConfig        `toml:"analysis"`
	Lookup          LookupConfig          `toml:"lookup"`
	ShutdownTimeout string                `toml:"shutdown_timeout"`
	Version         string                `toml:"version"`
}

// Env returns the REGTRIAGE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config, applies any environment overlay found next to
// it, and finalizes all values. The base file is path when given, else
// REGTRIAGE_CONFIG, else config.toml. An explicitly named base file must
// exist; a missing config.toml leaves defaults and environment variables to
// provide all configuration.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfig)
		explicit = path != ""
	}
	if !explicit {
		path = BaseConfigFile
	}

	cfg := &Config{}

	if _, err := os.Stat(path); err == nil || explicit {
		loaded, err := load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if overlay := overlayPath(filepath.Dir(path)); overlay != "" {
		o, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Auth.Merge(&overlay.Auth)
	c.Analysis.Merge(&overlay.Analysis)
	c.Lookup.Merge(&overlay.Lookup)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Analysis.Finalize(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	if err := c.Lookup.Finalize(); err != nil {
		return fmt.Errorf("lookup: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath(dir string) string {
	if env := os.Getenv(EnvEnv); env != "" {
		path := filepath.Join(dir, fmt.Sprintf(OverlayConfigPattern, env))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
