// Package dialect provides the contract implemented by every dialect rule
// analyser and the registry that selects one by name.
//
// Concrete analysers live in pkg/dialects/*/ and register themselves from
// init functions:
//
//	import _ "github.com/leapstack-labs/sqlanalyser/pkg/dialects/plsql"
//
//	a, err := dialect.New("plsql", dialect.Config{Logger: logger})
//	res := a.AnalyseProcedure(src)
package dialect

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/sqlanalyser/pkg/core"
	"github.com/leapstack-labs/sqlanalyser/pkg/parsetree"
)

// Analyser turns the source of one procedural unit into the canonical
// model. Implementations are safe for concurrent use; every call builds its
// own parser.
type Analyser interface {
	// Name returns the registered dialect name.
	Name() string

	// AnalyseProcedure analyses a CREATE PROCEDURE unit.
	AnalyseProcedure(sql string) core.AnalyseResult
	// AnalyseFunction analyses a CREATE FUNCTION unit.
	AnalyseFunction(sql string) core.AnalyseResult
	// AnalyseView analyses a CREATE VIEW unit.
	AnalyseView(sql string) core.AnalyseResult
	// AnalyseTrigger analyses a CREATE TRIGGER unit.
	AnalyseTrigger(sql string) core.AnalyseResult
	// AnalyseScript detects the unit kind and delegates to the matching call.
	AnalyseScript(sql string) core.AnalyseResult
}

// TokenResolver extracts typed name tokens from parse-tree nodes whose
// concrete shape the caller does not know. Each method returns zero or one
// token.
type TokenResolver interface {
	GetTableNameTokens(node parsetree.Node, mode core.ResolveMode) []core.TokenInfo
	GetColumnNameTokens(node parsetree.Node, mode core.ResolveMode) []core.TokenInfo
	GetRoutineNameTokens(node parsetree.Node, mode core.ResolveMode) []core.TokenInfo
}

// Config configures an analyser instance.
type Config struct {
	// Params holds dialect-specific options, decoded by the dialect factory.
	Params map[string]any
	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger
}

// LoggerOrDiscard returns the configured logger or a discarding one.
func (c Config) LoggerOrDiscard() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// Analyse runs the analysis matching kind. An empty kind detects the unit
// kind from the source.
func Analyse(a Analyser, kind core.ScriptKind, sql string) (core.AnalyseResult, error) {
	switch kind {
	case core.ScriptProcedure:
		return a.AnalyseProcedure(sql), nil
	case core.ScriptFunction:
		return a.AnalyseFunction(sql), nil
	case core.ScriptView:
		return a.AnalyseView(sql), nil
	case core.ScriptTrigger:
		return a.AnalyseTrigger(sql), nil
	case "":
		return a.AnalyseScript(sql), nil
	default:
		return core.AnalyseResult{}, fmt.Errorf("unknown script kind %q", kind)
	}
}
