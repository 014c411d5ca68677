package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlanalyser/pkg/dialect"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir(), "", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultDialect, cfg.Dialect)
	assert.False(t, cfg.StrictNames)
	assert.Equal(t, 0, cfg.Concurrency)
	assert.Equal(t, DefaultCatalogPath, cfg.CatalogPath)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
strict_names: true
concurrency: 4
catalog_path: out/catalog.db
log_level: debug
dialects:
  plsql:
    print_routines: [DBMS_OUTPUT.PUT_LINE, log_line]
`)

	cfg, err := Load(dir, "", nil)
	require.NoError(t, err)

	assert.True(t, cfg.StrictNames)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, filepath.Join(dir, "out/catalog.db"), cfg.CatalogPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	require.Contains(t, cfg.Dialects, "plsql")
	assert.Equal(t, []any{"DBMS_OUTPUT.PUT_LINE", "log_line"}, cfg.Dialects["plsql"]["print_routines"])
}

func TestLoad_SearchesUpward(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "concurrency: 3\n")
	nested := filepath.Join(root, "src", "billing")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	assert.Equal(t, root, FindProjectRoot(nested))

	cfg, err := Load(nested, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Concurrency)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "concurrency: 2\nlog_level: warn\ncatalog_path: file.db\n")

	t.Setenv("SQLANALYSER_CONCURRENCY", "6")
	t.Setenv("SQLANALYSER_LOG_LEVEL", "error")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse([]string{"--concurrency=8", "--catalog-path=flag.db"}))

	cfg, err := Load(dir, "", flags)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Concurrency, "flag beats env")
	assert.Equal(t, "error", cfg.LogLevel, "env beats file")
	assert.Equal(t, "flag.db", cfg.CatalogPath, "flag paths stay relative to the working directory")
	assert.Equal(t, DefaultDialect, cfg.Dialect, "unset flag does not override")
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dialect: oracle\n"), 0o600))

	cfg, err := Load(t.TempDir(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, "oracle", cfg.Dialect)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"bad yaml", "dialect: [unclosed\n", "error reading config file"},
		{"negative concurrency", "concurrency: -1\n", "concurrency must not be negative"},
		{"bad log level", "log_level: loud\n", "invalid log_level"},
		{"empty dialect", "dialect: \"\"\n", dialect.ErrDialectRequired.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := Load(dir, "", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(t.TempDir(), filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, FindConfigFile(dir))

	alt := filepath.Join(dir, ConfigFileNameAlt)
	require.NoError(t, os.WriteFile(alt, []byte("{}"), 0o600))
	assert.Equal(t, alt, FindConfigFile(dir))

	primary := writeConfig(t, dir, "{}")
	assert.Equal(t, primary, FindConfigFile(dir), ".yaml wins over .yml")
}

func TestConfig_DialectConfig(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	cfg := &Config{
		Dialect:     "PLSQL",
		StrictNames: true,
		Dialects: map[string]map[string]any{
			"plsql":    {"print_routines": []any{"log_line"}},
			"postgres": {"ignored": 1},
		},
	}
	dc := cfg.DialectConfig(logger)
	assert.Equal(t, map[string]any{
		"print_routines": []any{"log_line"},
		"strict_names":   true,
	}, dc.Params)
	assert.Same(t, logger, dc.Logger)

	cfg.Dialects["plsql"]["strict_names"] = false
	assert.Equal(t, false, cfg.DialectConfig(nil).Params["strict_names"], "dialect section wins")

	assert.Empty(t, (&Config{Dialect: "plsql"}).DialectConfig(nil).Params)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLogLevel("verbose")
	assert.Error(t, err)
}
