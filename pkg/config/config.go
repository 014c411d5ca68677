// Package config loads analyser settings from defaults, a sqlanalyser.yaml
// file, SQLANALYSER_ environment variables and command-line flags.
package config

import (
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/leapstack-labs/sqlanalyser/pkg/dialect"
)

// Default configuration values.
const (
	DefaultDialect     = "plsql"
	DefaultCatalogPath = ".sqlanalyser/catalog.db"
	DefaultLogLevel    = "info"
)

// Config holds the analyser settings.
type Config struct {
	Dialect     string `koanf:"dialect"`
	StrictNames bool   `koanf:"strict_names"`
	// Concurrency bounds batch analysis. Zero uses GOMAXPROCS.
	Concurrency int    `koanf:"concurrency"`
	CatalogPath string `koanf:"catalog_path"`
	LogLevel    string `koanf:"log_level"`

	// Dialects holds per-dialect params keyed by dialect name.
	Dialects map[string]map[string]any `koanf:"dialects"`
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Dialect == "" {
		return dialect.ErrDialectRequired
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// DialectConfig returns the dialect.Config for the selected dialect. The
// top-level strict_names setting is added to the dialect params unless the
// dialect section sets it itself.
func (c *Config) DialectConfig(logger *slog.Logger) dialect.Config {
	params := make(map[string]any)
	for name, p := range c.Dialects {
		if strings.EqualFold(name, c.Dialect) {
			maps.Copy(params, p)
		}
	}
	if c.StrictNames {
		if _, ok := params["strict_names"]; !ok {
			params["strict_names"] = true
		}
	}
	return dialect.Config{Params: params, Logger: logger}
}

// ParseLogLevel maps a level name to its slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return level, nil
}
