package config_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlanalyser/internal/testutil"
	"github.com/leapstack-labs/sqlanalyser/pkg/batch"
	"github.com/leapstack-labs/sqlanalyser/pkg/config"
	"github.com/leapstack-labs/sqlanalyser/pkg/core"
	"github.com/leapstack-labs/sqlanalyser/pkg/dialect"
	_ "github.com/leapstack-labs/sqlanalyser/pkg/dialects/plsql"
)

func loadFromYAML(t *testing.T, content string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(content), 0o600))
	cfg, err := config.Load(dir, "", nil)
	require.NoError(t, err)
	return cfg
}

func TestConfig_AnalyseIntoCatalog(t *testing.T) {
	ctx := context.Background()
	cfg := loadFromYAML(t, `
dialect: oracle
concurrency: 2
catalog_path: state/catalog.db
dialects:
  oracle:
    print_routines: [log_line]
`)
	logger := testutil.NewTestLogger(t)

	a, err := cfg.NewAnalyser(logger)
	require.NoError(t, err)
	assert.Equal(t, "plsql", a.Name())

	store, err := cfg.OpenCatalog(ctx, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	assert.FileExists(t, cfg.CatalogPath)

	run, err := store.CreateRun(ctx, cfg.Dialect)
	require.NoError(t, err)

	units := []batch.Unit{
		{ID: "post.sql", SQL: `CREATE PROCEDURE gl.post_entry AS BEGIN log_line('posted'); END;`},
		{ID: "close.sql", SQL: `CREATE PROCEDURE gl.close_period AS BEGIN post_entry; END;`},
		{ID: "bad.sql", Kind: "PACKAGE", SQL: `CREATE PACKAGE x AS END;`},
	}
	opts := append(cfg.BatchOptions(logger), batch.WithSink(store.BatchSink(ctx, run.ID)))
	results, err := batch.Run(ctx, a, units, opts...)
	require.NoError(t, err)
	require.Len(t, results, 3)

	post := results[0].Analysis.Script.Common()
	require.Len(t, post.Statements, 1)
	assert.IsType(t, &core.PrintStatement{}, post.Statements[0], "print_routines from the dialect section")

	callers, err := store.GetCallers(ctx, "gl.post_entry")
	require.NoError(t, err)
	assert.Equal(t, []string{"GL.CLOSE_PERIOD"}, callers)

	unchanged, err := store.Unchanged(ctx, "bad.sql", units[2].SQL)
	require.NoError(t, err)
	assert.False(t, unchanged, "units that could not be analysed are not saved")
}

func TestConfig_NewAnalyser_Errors(t *testing.T) {
	cfg := loadFromYAML(t, "dialect: cobol\n")
	_, err := cfg.NewAnalyser(nil)
	var unknown *dialect.UnknownDialectError
	assert.ErrorAs(t, err, &unknown)

	cfg = loadFromYAML(t, `
dialects:
  plsql:
    no_such_option: 1
`)
	_, err = cfg.NewAnalyser(nil)
	assert.ErrorContains(t, err, "plsql options")
}

func TestConfig_NewLogger(t *testing.T) {
	cfg := loadFromYAML(t, "log_level: warn\n")

	var buf bytes.Buffer
	logger, err := cfg.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestConfig_OpenCatalog_InMemory(t *testing.T) {
	cfg := &config.Config{Dialect: "plsql", CatalogPath: ":memory:", LogLevel: "info"}

	store, err := cfg.OpenCatalog(context.Background(), nil)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	version, err := store.MigrationVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}
