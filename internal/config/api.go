package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/regtriage/pkg/middleware"
	"github.com/JaimeStill/regtriage/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "REGTRIAGE_CORS_ENABLED",
	Origins:          "REGTRIAGE_CORS_ORIGINS",
	AllowedMethods:   "REGTRIAGE_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "REGTRIAGE_CORS_ALLOWED_HEADERS",
	AllowCredentials: "REGTRIAGE_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "REGTRIAGE_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "REGTRIAGE_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "REGTRIAGE_PAGINATION_MAX_PAGE_SIZE",
}

const EnvAPIBasePath = "REGTRIAGE_API_BASE_PATH"

// APIConfig holds API routing, CORS, and pagination settings.
type APIConfig struct {
	BasePath   string                `toml:"base_path"`
	CORS       middleware.CORSConfig `toml:"cors"`
	Pagination pagination.Config     `toml:"pagination"`
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
}

func (c *APIConfig) validate() error {
	if c.BasePath[0] != '/' {
		return fmt.Errorf("base_path must start with /: %q", c.BasePath)
	}
	return nil
}
