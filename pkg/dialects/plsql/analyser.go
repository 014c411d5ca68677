// Package plsql provides the Oracle PL/SQL rule analyser.
//
// The analyser parses one procedural unit with pkg/parser and reduces the
// resulting parse tree to the canonical model in pkg/core. Import the
// package with a blank identifier to register it:
//
//	import _ "github.com/leapstack-labs/sqlanalyser/pkg/dialects/plsql"
package plsql

import (
	"fmt"
	"log/slog"

	"github.com/go-viper/mapstructure/v2"
	"golang.org/x/text/cases"

	"github.com/leapstack-labs/sqlanalyser/pkg/core"
	"github.com/leapstack-labs/sqlanalyser/pkg/dialect"
	"github.com/leapstack-labs/sqlanalyser/pkg/parser"
	"github.com/leapstack-labs/sqlanalyser/pkg/parsetree"
)

// Name is the registered dialect name.
const Name = "plsql"

func init() {
	dialect.Register(Name, func(cfg dialect.Config) (dialect.Analyser, error) {
		a, err := New(cfg)
		if err != nil {
			return nil, err
		}
		return a, nil
	}, "oracle")
}

// DefaultPrintRoutines are the routine name fragments treated as output
// calls when no override is configured.
var DefaultPrintRoutines = []string{"DBMS_OUTPUT"}

// Options holds PL/SQL-specific configuration.
// Parsed from dialect.Config.Params using mapstructure.
type Options struct {
	// PrintRoutines lists routine name fragments whose calls become
	// PrintStatements. Matching is a case-insensitive substring test.
	PrintRoutines []string `mapstructure:"print_routines"`

	// StrictNames drops table and column references of unrecognized shape
	// instead of wrapping their raw text.
	StrictNames bool `mapstructure:"strict_names"`
}

// ParseOptions decodes dialect params. Unknown keys are rejected.
func ParseOptions(params map[string]any) (Options, error) {
	var opts Options
	if len(params) == 0 {
		return opts, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &opts,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return opts, err
	}
	if err := dec.Decode(params); err != nil {
		return opts, fmt.Errorf("plsql options: %w", err)
	}
	return opts, nil
}

// Analyser is the PL/SQL rule analyser. It holds no per-call state and is
// safe for concurrent use.
type Analyser struct {
	logger        *slog.Logger
	mode          core.ResolveMode
	printRoutines []string // case-folded
}

var (
	_ dialect.Analyser      = (*Analyser)(nil)
	_ dialect.TokenResolver = (*Analyser)(nil)
)

// New creates an analyser from a dialect configuration.
func New(cfg dialect.Config) (*Analyser, error) {
	opts, err := ParseOptions(cfg.Params)
	if err != nil {
		return nil, err
	}
	return NewAnalyser(opts, cfg.LoggerOrDiscard()), nil
}

// NewAnalyser creates an analyser with explicit options.
// The logger parameter may be nil (uses discard logger).
func NewAnalyser(opts Options, logger *slog.Logger) *Analyser {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	routines := opts.PrintRoutines
	if len(routines) == 0 {
		routines = DefaultPrintRoutines
	}
	fold := cases.Fold()
	folded := make([]string, 0, len(routines))
	for _, r := range routines {
		if r != "" {
			folded = append(folded, fold.String(r))
		}
	}

	mode := core.ResolveLenient
	if opts.StrictNames {
		mode = core.ResolveStrict
	}

	return &Analyser{
		logger:        logger.With("dialect", Name),
		mode:          mode,
		printRoutines: folded,
	}
}

// Name implements dialect.Analyser.
func (a *Analyser) Name() string { return Name }

// AnalyseProcedure implements dialect.Analyser.
func (a *Analyser) AnalyseProcedure(sql string) core.AnalyseResult {
	return a.analyse(sql, parsetree.KindCreateProcedureBody)
}

// AnalyseFunction implements dialect.Analyser.
func (a *Analyser) AnalyseFunction(sql string) core.AnalyseResult {
	return a.analyse(sql, parsetree.KindCreateFunctionBody)
}

// AnalyseView implements dialect.Analyser.
func (a *Analyser) AnalyseView(sql string) core.AnalyseResult {
	return a.analyse(sql, parsetree.KindCreateView)
}

// AnalyseTrigger implements dialect.Analyser.
func (a *Analyser) AnalyseTrigger(sql string) core.AnalyseResult {
	return a.analyse(sql, parsetree.KindCreateTrigger)
}

// AnalyseScript analyses the first CREATE unit in sql, whatever its kind.
func (a *Analyser) AnalyseScript(sql string) core.AnalyseResult {
	return a.analyse(sql, parsetree.KindInvalid)
}

// analyse parses sql and builds the unit of kind k. KindInvalid selects the
// first unit of any supported kind.
func (a *Analyser) analyse(sql string, k parsetree.Kind) core.AnalyseResult {
	tree, synErr := parser.Parse(sql)
	if synErr != nil {
		a.logger.Debug("syntax error", "line", synErr.Line, "column", synErr.Column, "message", synErr.Message)
		return core.AnalyseResult{Error: synErr}
	}

	unit := findUnit(tree.Root(), k)
	if !unit.IsValid() {
		return core.AnalyseResult{}
	}

	b := a.newBuilder()
	var script core.Script
	switch unit.Kind() {
	case parsetree.KindCreateProcedureBody:
		script = b.buildRoutine(unit, core.RoutineProcedure)
	case parsetree.KindCreateFunctionBody:
		script = b.buildRoutine(unit, core.RoutineFunction)
	case parsetree.KindCreateView:
		script = b.buildView(unit)
	case parsetree.KindCreateTrigger:
		script = b.buildTrigger(unit)
	}
	if script == nil {
		return core.AnalyseResult{}
	}
	script.Common().RoutineCalls = b.extractRoutineCalls(unit)
	return core.AnalyseResult{Script: script}
}

// findUnit returns the first top-level unit of kind k.
func findUnit(root parsetree.Node, k parsetree.Kind) parsetree.Node {
	for _, us := range root.ChildrenOf(parsetree.KindUnitStatement) {
		unit := us.ChildAt(0)
		switch unit.Kind() {
		case parsetree.KindCreateProcedureBody, parsetree.KindCreateFunctionBody,
			parsetree.KindCreateView, parsetree.KindCreateTrigger:
			if k == parsetree.KindInvalid || unit.Kind() == k {
				return unit
			}
		}
	}
	return parsetree.Node{}
}

// GetTableNameTokens implements dialect.TokenResolver.
func (a *Analyser) GetTableNameTokens(node parsetree.Node, mode core.ResolveMode) []core.TokenInfo {
	return GetTableNameTokens(node, mode)
}

// GetColumnNameTokens implements dialect.TokenResolver.
func (a *Analyser) GetColumnNameTokens(node parsetree.Node, mode core.ResolveMode) []core.TokenInfo {
	return GetColumnNameTokens(node, mode)
}

// GetRoutineNameTokens implements dialect.TokenResolver.
func (a *Analyser) GetRoutineNameTokens(node parsetree.Node, mode core.ResolveMode) []core.TokenInfo {
	return GetRoutineNameTokens(node, mode)
}
