package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/wordctx/pkg/wordctx/internalerr"
	"github.com/cognicore/wordctx/pkg/wordctx/window"
)

// Store drivers
const (
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config is the full wordctx configuration
type Config struct {
	Store     Store     `yaml:"store"`
	Window    Window    `yaml:"window"`
	Ingest    Ingest    `yaml:"ingest"`
	Recognize Recognize `yaml:"recognize"`
	Log       Log       `yaml:"log"`
}

// Store selects and addresses the aggregate store
type Store struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	// Bootstrap installs the PostgreSQL schema on connect
	Bootstrap bool `yaml:"bootstrap"`
}

// Window configures neighbor windows
type Window struct {
	Range int `yaml:"range"`
}

// Ingest configures the ingestion fan-out
type Ingest struct {
	Concurrency    int     `yaml:"concurrency"`
	PairsPerSecond float64 `yaml:"pairs_per_second"`
}

// Recognize configures recognition
type Recognize struct {
	CacheSize int `yaml:"cache_size"`
}

// Log configures the slog handler
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Store:  Store{Driver: DriverSQLite, DSN: "wordctx.db"},
		Window: Window{Range: window.DefaultRange},
		Log:    Log{Level: "info", Format: "text"},
	}
}

// Load reads a YAML file over the defaults. An empty path yields the
// defaults. Environment overrides are applied afterwards.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w: %v", path, internalerr.ErrInvalidConfig, err)
		}
	}

	cfg.applyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides store settings from WORDCTX_DRIVER and WORDCTX_DSN
func (c *Config) applyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv("WORDCTX_DRIVER")); v != "" {
		c.Store.Driver = v
	}
	if v := strings.TrimSpace(getenv("WORDCTX_DSN")); v != "" {
		c.Store.DSN = v
	}
}

// Validate checks value ranges and the driver name
func (c *Config) Validate() error {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	switch c.Store.Driver {
	case DriverSQLite, DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for driver %q: %w", c.Store.Driver, internalerr.ErrInvalidConfig)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown store.driver %q: %w", c.Store.Driver, internalerr.ErrInvalidConfig)
	}

	if c.Window.Range < 0 {
		return fmt.Errorf("window.range must not be negative: %w", internalerr.ErrInvalidConfig)
	}
	if c.Window.Range == 0 {
		c.Window.Range = window.DefaultRange
	}
	if c.Ingest.Concurrency < 0 {
		return fmt.Errorf("ingest.concurrency must not be negative: %w", internalerr.ErrInvalidConfig)
	}
	if c.Ingest.PairsPerSecond < 0 {
		return fmt.Errorf("ingest.pairs_per_second must not be negative: %w", internalerr.ErrInvalidConfig)
	}
	if c.Recognize.CacheSize < 0 {
		return fmt.Errorf("recognize.cache_size must not be negative: %w", internalerr.ErrInvalidConfig)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log.format %q: %w", c.Log.Format, internalerr.ErrInvalidConfig)
	}
	return nil
}
