package dialect

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Factory builds an analyser from its configuration.
type Factory func(cfg Config) (Analyser, error)

// Dialect registry
var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
	aliases    = make(map[string]string)
)

// ErrDialectRequired is returned when a dialect is required but not provided.
var ErrDialectRequired = errors.New("dialect is required")

// Register registers a dialect factory under name and any aliases.
// Called by dialect implementations in their init() functions.
func Register(name string, factory Factory, alias ...string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	name = strings.ToLower(name)
	registry[name] = factory
	for _, a := range alias {
		aliases[strings.ToLower(a)] = name
	}
}

// Get returns the factory registered under name or one of its aliases.
func Get(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return lookup(strings.ToLower(name))
}

func lookup(name string) (Factory, bool) {
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	f, ok := registry[name]
	return f, ok
}

// New creates an analyser for the named dialect.
func New(name string, cfg Config) (Analyser, error) {
	if name == "" {
		return nil, ErrDialectRequired
	}

	factory, ok := Get(name)
	if !ok {
		return nil, &UnknownDialectError{
			Name:      name,
			Available: List(),
		}
	}
	a, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("create %s analyser: %w", name, err)
	}
	return a, nil
}

// List returns all registered dialect names (sorted). Aliases are not listed.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a dialect name or alias is registered.
func IsRegistered(name string) bool {
	_, ok := Get(name)
	return ok
}

// UnknownDialectError is returned when an unknown dialect is requested.
type UnknownDialectError struct {
	Name      string
	Available []string
}

func (e *UnknownDialectError) Error() string {
	return fmt.Sprintf("unknown dialect %q\nAvailable dialects: %v\nHint: Check the dialect setting in sqlanalyser.yaml", e.Name, e.Available)
}
