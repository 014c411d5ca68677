package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/sqlanalyser/pkg/batch"
	"github.com/leapstack-labs/sqlanalyser/pkg/catalog"
	"github.com/leapstack-labs/sqlanalyser/pkg/dialect"
)

// NewLogger returns a text logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// NewAnalyser creates the analyser of the configured dialect. The dialect
// package must be registered, usually with a blank import.
func (c *Config) NewAnalyser(logger *slog.Logger) (dialect.Analyser, error) {
	return dialect.New(c.Dialect, c.DialectConfig(logger))
}

// OpenCatalog opens the catalog at CatalogPath, creating its directory,
// and applies pending migrations.
func (c *Config) OpenCatalog(ctx context.Context, logger *slog.Logger) (*catalog.Store, error) {
	if c.CatalogPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(c.CatalogPath), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}

	store := catalog.New(logger)
	if err := store.Open(c.CatalogPath); err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// BatchOptions returns the batch.Run options the configuration implies.
func (c *Config) BatchOptions(logger *slog.Logger) []batch.Option {
	return []batch.Option{
		batch.WithConcurrency(c.Concurrency),
		batch.WithLogger(logger),
	}
}
