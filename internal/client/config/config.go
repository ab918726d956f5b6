package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds runtime settings for the DocuDefense CLI.
//
// Fields:
//   - BaseURL: origin of the DocuDefense REST backend.
//   - DatabasePath: local SQLite file holding the session token and the
//     cached document listing.
//   - DownloadDir: directory downloaded documents are written to.
//   - PageSize: users per directory page.
//   - RequestTimeout: deadline applied to every backend call.
//   - OnlineCheckInterval: how often the client checks backend reachability.
//   - SearchPath: path of the user search endpoint.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	BaseURL             string
	DatabasePath        string
	DownloadDir         string
	PageSize            int
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	SearchPath          string
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:8000"
	c.DatabasePath = "docudefense.db"
	c.DownloadDir = "downloads"
	c.PageSize = 10
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 5 * time.Second
	c.SearchPath = "/users/search"
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	return loadConfig(commandLine())
}

func loadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	if err := cfg.validate(); err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return errors.New("base URL must not be empty")
	}
	if c.PageSize < 1 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive, got %s", c.OnlineCheckInterval)
	}
	return nil
}
