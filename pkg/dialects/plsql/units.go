package plsql

import (
	"log/slog"

	"golang.org/x/text/cases"

	"github.com/leapstack-labs/sqlanalyser/pkg/core"
	"github.com/leapstack-labs/sqlanalyser/pkg/parser"
	"github.com/leapstack-labs/sqlanalyser/pkg/parsetree"
)

// builder carries the per-call state of one analysis. It is created for a
// single tree and discarded afterwards.
type builder struct {
	logger        *slog.Logger
	mode          core.ResolveMode
	printRoutines []string
	fold          cases.Caser
}

func (a *Analyser) newBuilder() *builder {
	return &builder{
		logger:        a.logger,
		mode:          a.mode,
		printRoutines: a.printRoutines,
		fold:          cases.Fold(),
	}
}

// =============================================================================
// Units
// =============================================================================

func (b *builder) buildRoutine(unit parsetree.Node, typ core.RoutineType) *core.RoutineScript {
	nameKind := parsetree.KindProcedureName
	if typ == core.RoutineFunction {
		nameKind = parsetree.KindFunctionName
	}

	s := &core.RoutineScript{Type: typ}
	s.Name, s.Owner = splitUnitName(unit.Child(nameKind), core.TokenRoutineName)

	for _, param := range unit.ChildrenOf(parsetree.KindParameter) {
		s.Parameters = append(s.Parameters, buildParameter(param))
	}
	if typ == core.RoutineFunction {
		s.ReturnDataType = tokenPtr(unit.Child(parsetree.KindTypeSpec), core.TokenDataType)
	}

	s.Statements = append(s.Statements, b.buildDeclarations(unit.Child(parsetree.KindSeqOfDeclareSpecs))...)
	s.Statements = append(s.Statements, b.buildBody(unit.Child(parsetree.KindBody))...)
	return s
}

func (b *builder) buildView(unit parsetree.Node) *core.ViewScript {
	s := &core.ViewScript{}
	tbl := parseTableviewName(unit.Child(parsetree.KindTableviewName))
	if tbl != nil && tbl.Name != nil {
		s.Name = tbl.Name.WithType(core.TokenTableName)
		s.Owner = tbl.Owner
	}

	sos := unit.Child(parsetree.KindSelectOnlyStatement)
	if !sos.IsValid() {
		return s
	}
	q := b.buildSelectOnly(sos)
	q.OrderBy = append(q.OrderBy, orderByTokens(unit.Child(parsetree.KindOrderByClause))...)
	s.Statements = []core.Statement{q}
	return s
}

func (b *builder) buildTrigger(unit parsetree.Node) *core.TriggerScript {
	s := &core.TriggerScript{}
	s.Name, s.Owner = splitUnitName(unit.Child(parsetree.KindTriggerName), core.TokenGeneral)

	dml := unit.Child(parsetree.KindSimpleDMLTrigger)
	switch {
	case dml.HasTerminal(parser.TOKEN_BEFORE):
		s.Time = core.TimeBefore
	case dml.HasTerminal(parser.TOKEN_AFTER):
		s.Time = core.TimeAfter
	case dml.HasTerminal(parser.TOKEN_INSTEAD):
		s.Time = core.TimeInsteadOf
	}

	events := dml.Child(parsetree.KindDMLEventClause)
	for _, el := range events.ChildrenOf(parsetree.KindDMLEventElement) {
		var ev core.TriggerEvent
		switch el.FirstToken() {
		case parser.TOKEN_INSERT:
			ev = core.EventInsert
		case parser.TOKEN_UPDATE:
			ev = core.EventUpdate
		case parser.TOKEN_DELETE:
			ev = core.EventDelete
		default:
			continue
		}
		if !s.HasEvent(ev) {
			s.Events = append(s.Events, ev)
		}
	}
	if tv := events.Child(parsetree.KindTableviewName); tv.IsValid() {
		s.TableName = ParseTableName(tv, core.ResolveLenient)
	}

	if when := unit.Child(parsetree.KindTriggerWhenClause); when.IsValid() {
		s.Condition = tokenPtr(when.Child(parsetree.KindCondition), core.TokenCondition)
	}

	body := unit.Child(parsetree.KindTriggerBody)
	if call := body.Child(parsetree.KindFunctionCall); call.IsValid() {
		s.Statements = b.guard(call, func() []core.Statement {
			return []core.Statement{b.buildCall(call)}
		})
		return s
	}
	block := body.Child(parsetree.KindTriggerBlock)
	s.Statements = append(s.Statements, b.buildDeclarations(block.Child(parsetree.KindSeqOfDeclareSpecs))...)
	s.Statements = append(s.Statements, b.buildBody(block.Child(parsetree.KindBody))...)
	return s
}

// splitUnitName reads identifier ["." id_expression]. A two-part name puts
// the first part in owner.
func splitUnitName(n parsetree.Node, typ core.TokenType) (name core.TokenInfo, owner *core.TokenInfo) {
	first := n.Child(parsetree.KindIdentifier)
	second := n.Child(parsetree.KindIDExpression)
	if second.IsValid() {
		return tokenOf(second, typ), tokenPtr(first, core.TokenGeneral)
	}
	return tokenOf(first, typ), nil
}

// =============================================================================
// Parameters and Declarations
// =============================================================================

func buildParameter(n parsetree.Node) core.Parameter {
	p := core.Parameter{
		Name:         tokenOf(n.Child(parsetree.KindParameterName), core.TokenParameterName),
		DataType:     tokenOf(n.Child(parsetree.KindTypeSpec), core.TokenDataType),
		DefaultValue: defaultValue(n.Child(parsetree.KindDefaultValuePart)),
	}

	if n.HasTerminal(parser.TOKEN_IN) {
		p.ParameterType |= core.ParameterIn
	}
	if n.HasTerminal(parser.TOKEN_OUT) {
		p.ParameterType |= core.ParameterOut
	}
	if n.HasTerminal(parser.TOKEN_INOUT) {
		p.ParameterType |= core.ParameterInOut
	}
	// no direction keyword means IN
	if p.ParameterType == 0 {
		p.ParameterType = core.ParameterIn
	}
	return p
}

// defaultValue returns the expression of ":= expr" or "DEFAULT expr".
func defaultValue(n parsetree.Node) *core.TokenInfo {
	return tokenPtr(n.Child(parsetree.KindExpression), core.TokenGeneral)
}

// buildDeclarations turns a declaration section into Declare statements.
// Types, pragmas, exceptions and nested subprograms have no model form.
func (b *builder) buildDeclarations(seq parsetree.Node) []core.Statement {
	var out []core.Statement
	for _, spec := range seq.ChildrenOf(parsetree.KindDeclareSpec) {
		decl := spec.ChildAt(0)
		out = append(out, b.guard(decl, func() []core.Statement {
			switch decl.Kind() {
			case parsetree.KindVariableDeclaration:
				return []core.Statement{&core.DeclareVariableStatement{
					Name:         tokenOf(decl.Child(parsetree.KindIdentifier), core.TokenVariableName),
					DataType:     tokenOf(decl.Child(parsetree.KindTypeSpec), core.TokenDataType),
					DefaultValue: defaultValue(decl.Child(parsetree.KindDefaultValuePart)),
				}}
			case parsetree.KindCursorDeclaration:
				s := &core.DeclareCursorStatement{
					CursorName: tokenOf(decl.Child(parsetree.KindIdentifier), core.TokenCursorName),
				}
				if q := decl.Child(parsetree.KindSelectStatement); q.IsValid() {
					s.SelectStatement = b.buildSelect(q)
				}
				return []core.Statement{s}
			default:
				b.skipped(decl)
				return nil
			}
		})...)
	}
	return out
}

// =============================================================================
// Bodies
// =============================================================================

// buildBody returns the statements of BEGIN ... END followed by one
// Exception statement when the body has handlers.
func (b *builder) buildBody(body parsetree.Node) []core.Statement {
	if !body.IsValid() {
		return nil
	}
	out := b.buildStatements(body.Child(parsetree.KindSeqOfStatements))

	handlers := body.ChildrenOf(parsetree.KindExceptionHandler)
	if len(handlers) == 0 {
		return out
	}
	exc := &core.ExceptionStatement{}
	for _, h := range handlers {
		item := core.ExceptionItem{
			Statements: b.buildStatements(h.Child(parsetree.KindSeqOfStatements)),
		}
		for _, name := range h.ChildrenOf(parsetree.KindExceptionName) {
			item.Names = append(item.Names, tokenOf(name, core.TokenGeneral))
		}
		exc.Items = append(exc.Items, item)
	}
	return append(out, exc)
}

// guard runs fn and drops its result if it panics, so one malformed
// construct never discards its siblings.
func (b *builder) guard(n parsetree.Node, fn func() []core.Statement) (out []core.Statement) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Warn("construct skipped after internal error",
				"kind", n.Kind().String(),
				"line", n.Span().Start.Line,
				"error", r)
			out = nil
		}
	}()
	return fn()
}

// skipped records a node that has no model form.
func (b *builder) skipped(n parsetree.Node) {
	b.logger.Debug("unhandled construct", "kind", n.Kind().String(), "line", n.Span().Start.Line)
}
