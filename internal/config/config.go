// Package config loads the layered service configuration: base TOML file,
// environment overlay file, then AQUA_* environment variables, finalized
// with defaults and validation.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/aquaguardian/aquaguardian/internal/classifier"
	"github.com/aquaguardian/aquaguardian/internal/identity"
	"github.com/aquaguardian/aquaguardian/internal/ledger"
	"github.com/aquaguardian/aquaguardian/internal/notify"
	"github.com/aquaguardian/aquaguardian/pkg/database"
	"github.com/aquaguardian/aquaguardian/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvAquaEnv             = "AQUA_ENV"
	EnvAquaShutdownTimeout = "AQUA_SHUTDOWN_TIMEOUT"
	EnvAquaVersion         = "AQUA_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "AQUA_DB_HOST",
	Port:            "AQUA_DB_PORT",
	Name:            "AQUA_DB_NAME",
	User:            "AQUA_DB_USER",
	Password:        "AQUA_DB_PASSWORD",
	SSLMode:         "AQUA_DB_SSL_MODE",
	MaxOpenConns:    "AQUA_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "AQUA_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "AQUA_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "AQUA_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "AQUA_STORAGE_CONTAINER_NAME",
	ConnectionString: "AQUA_STORAGE_CONNECTION_STRING",
}

var classifierEnv = &classifier.Env{
	BaseURL: "AQUA_CLASSIFIER_BASE_URL",
	APIKey:  "AQUA_CLASSIFIER_API_KEY",
	Model:   "AQUA_CLASSIFIER_MODEL",
	Timeout: "AQUA_CLASSIFIER_TIMEOUT",
}

var ledgerEnv = &ledger.Env{
	GatewayURL: "AQUA_LEDGER_GATEWAY_URL",
	APIKey:     "AQUA_LEDGER_API_KEY",
	Timeout:    "AQUA_LEDGER_TIMEOUT",
}

var notifyEnv = &notify.Env{
	Host:       "AQUA_SMTP_HOST",
	Port:       "AQUA_SMTP_PORT",
	Username:   "AQUA_SMTP_USER",
	Password:   "AQUA_SMTP_PASSWORD",
	From:       "AQUA_SMTP_FROM",
	Recipients: "AQUA_NOTIFY_RECIPIENTS",
}

// Config is the root configuration for the Aqua Guardian service.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Database        database.Config   `toml:"database"`
	Storage         storage.Config    `toml:"storage"`
	API             APIConfig         `toml:"api"`
	Identity        identity.Config   `toml:"identity"`
	Classifier      classifier.Config `toml:"classifier"`
	Ledger          ledger.Config     `toml:"ledger"`
	Notify          notify.Config     `toml:"notify"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
}

// Env returns the AQUA_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvAquaEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and
// environment variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
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
	mergeIdentity(&c.Identity, &overlay.Identity)
	c.Classifier.Merge(&overlay.Classifier)
	c.Ledger.Merge(&overlay.Ledger)
	c.Notify.Merge(&overlay.Notify)
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
	if err := FinalizeIdentity(&c.Identity); err != nil {
		return fmt.Errorf("identity: %w", err)
	}
	if err := c.Classifier.Finalize(classifierEnv); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	if err := c.Ledger.Finalize(ledgerEnv); err != nil {
		return fmt.Errorf("ledger: %w", err)
	}
	if err := c.Notify.Finalize(notifyEnv); err != nil {
		return fmt.Errorf("notify: %w", err)
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
	if v := os.Getenv(EnvAquaShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvAquaVersion); v != "" {
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

func overlayPath() string {
	if env := os.Getenv(EnvAquaEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
