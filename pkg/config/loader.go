package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config file names, in lookup order.
const (
	ConfigFileName    = "sqlanalyser.yaml"
	ConfigFileNameAlt = "sqlanalyser.yml"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "SQLANALYSER_"

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// RegisterFlags adds the flags Load understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("dialect", DefaultDialect, "SQL dialect of the analysed sources")
	fs.Bool("strict-names", false, "drop name shapes the analyser does not recognise")
	fs.Int("concurrency", 0, "units analysed in parallel (0 = GOMAXPROCS)")
	fs.String("catalog-path", DefaultCatalogPath, "path of the analysis catalog database")
	fs.String("log-level", DefaultLogLevel, "log level (debug, info, warn, error)")
}

// Load reads the configuration. Precedence, highest first: flags that were
// explicitly set, environment variables, the config file, defaults.
// An empty cfgFile searches dir and its parents for a config file.
func Load(dir, cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"dialect":      DefaultDialect,
		"strict_names": false,
		"concurrency":  0,
		"catalog_path": DefaultCatalogPath,
		"log_level":    DefaultLogLevel,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if cfgFile == "" {
		if root := FindProjectRoot(dir); root != "" {
			cfgFile = FindConfigFile(root)
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// 3. Environment: SQLANALYSER_CATALOG_PATH -> catalog_path
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if cfgFile != "" && !catalogPathOverridden(flags) {
		cfg.CatalogPath = resolvePathRelativeTo(cfg.CatalogPath, filepath.Dir(cfgFile))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FindConfigFile returns the config file in dir, or "" if there is none.
func FindConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// FindProjectRoot walks up from startDir to the first directory holding a
// config file. Returns "" if none is found.
func FindProjectRoot(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if FindConfigFile(dir) != "" {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// catalogPathOverridden reports whether the catalog path came from the
// environment or a flag, which are relative to the working directory.
func catalogPathOverridden(flags *pflag.FlagSet) bool {
	if _, ok := os.LookupEnv(EnvPrefix + "CATALOG_PATH"); ok {
		return true
	}
	return flags != nil && flags.Changed("catalog-path")
}

// resolvePathRelativeTo resolves path against baseDir unless it is empty,
// absolute or the in-memory database.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
