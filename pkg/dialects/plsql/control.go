package plsql

import (
	"strings"

	"github.com/leapstack-labs/sqlanalyser/pkg/core"
	"github.com/leapstack-labs/sqlanalyser/pkg/parser"
	"github.com/leapstack-labs/sqlanalyser/pkg/parsetree"
	"github.com/leapstack-labs/sqlanalyser/pkg/token"
)

// =============================================================================
// Statement Dispatch
// =============================================================================

// buildStatements converts a seq_of_statements in source order. Labels are
// dropped.
func (b *builder) buildStatements(seq parsetree.Node) []core.Statement {
	var out []core.Statement
	for _, stmt := range seq.ChildrenOf(parsetree.KindStatement) {
		n := stmt.ChildAt(0)
		out = append(out, b.guard(n, func() []core.Statement {
			return b.buildStatement(n)
		})...)
	}
	return out
}

// buildStatement converts one statement node. Nested blocks flatten into
// their declarations and body, so a single node can yield several
// statements.
func (b *builder) buildStatement(n parsetree.Node) []core.Statement {
	switch n.Kind() {
	case parsetree.KindBody:
		return b.buildBody(n)
	case parsetree.KindBlock:
		out := b.buildDeclarations(n.Child(parsetree.KindSeqOfDeclareSpecs))
		return append(out, b.buildBody(n.Child(parsetree.KindBody))...)
	case parsetree.KindIfStatement:
		return one(b.buildIf(n))
	case parsetree.KindCaseStatement:
		return one(b.buildCase(n))
	case parsetree.KindLoopStatement:
		return one(b.buildLoop(n))
	case parsetree.KindForallStatement:
		return one(b.buildForall(n))
	case parsetree.KindExitStatement:
		return one(&core.LoopExitStatement{
			Condition: tokenPtr(n.Child(parsetree.KindCondition), core.TokenCondition),
		})
	case parsetree.KindReturnStatement:
		if expr := n.Child(parsetree.KindExpression); expr.IsValid() {
			return one(&core.ReturnStatement{Value: tokenOf(expr, core.TokenGeneral)})
		}
		return one(&core.LeaveStatement{Content: tokenOf(n, core.TokenGeneral)})
	case parsetree.KindAssignmentStatement:
		return one(b.buildAssignment(n))
	case parsetree.KindFunctionCall:
		return one(b.buildCall(n))
	case parsetree.KindSQLStatement:
		return b.buildSQLStatement(n)
	case parsetree.KindNullStatement, parsetree.KindContinueStatement, parsetree.KindRaiseStatement,
		parsetree.KindGotoStatement, parsetree.KindExecuteImmediate:
		b.skipped(n)
		return nil
	default:
		b.skipped(n)
		return nil
	}
}

func one(s core.Statement) []core.Statement {
	return []core.Statement{s}
}

// =============================================================================
// Control Flow
// =============================================================================

// buildIf lowers IF/ELSIF/ELSE into an ordered item list.
func (b *builder) buildIf(n parsetree.Node) *core.IfStatement {
	s := &core.IfStatement{}
	s.Items = append(s.Items, core.IfStatementItem{
		Type:       core.IfBranch,
		Condition:  tokenPtr(n.Child(parsetree.KindCondition), core.TokenCondition),
		Statements: b.buildStatements(n.Child(parsetree.KindSeqOfStatements)),
	})
	for _, part := range n.ChildrenOf(parsetree.KindElsifPart) {
		s.Items = append(s.Items, core.IfStatementItem{
			Type:       core.ElseIfBranch,
			Condition:  tokenPtr(part.Child(parsetree.KindCondition), core.TokenCondition),
			Statements: b.buildStatements(part.Child(parsetree.KindSeqOfStatements)),
		})
	}
	if part := n.Child(parsetree.KindElsePart); part.IsValid() {
		s.Items = append(s.Items, core.IfStatementItem{
			Type:       core.ElseBranch,
			Statements: b.buildStatements(part.Child(parsetree.KindSeqOfStatements)),
		})
	}
	return s
}

// buildCase lowers both CASE forms into the IF item shape. A simple CASE
// compares its selector with each WHEN value; a searched CASE uses each
// WHEN condition as is.
func (b *builder) buildCase(n parsetree.Node) *core.CaseStatement {
	s := &core.CaseStatement{}

	inner := n.Child(parsetree.KindSimpleCaseStatement)
	var selector parsetree.Node
	if inner.IsValid() {
		selector = inner.Child(parsetree.KindExpression)
		s.VariableName = tokenPtr(selector, core.TokenVariableName)
	} else {
		inner = n.Child(parsetree.KindSearchedCaseStatement)
	}

	for i, part := range inner.ChildrenOf(parsetree.KindCaseWhenPart) {
		typ := core.ElseIfBranch
		if i == 0 {
			typ = core.IfBranch
		}
		when := part.Child(parsetree.KindExpression)
		cond := tokenOf(when, core.TokenCondition)
		if selector.IsValid() {
			cond = core.NewToken(selector.Text()+" = "+when.Text(), core.TokenCondition, when.Span())
		}
		s.Items = append(s.Items, core.IfStatementItem{
			Type:       typ,
			Condition:  &cond,
			Statements: b.buildStatements(part.Child(parsetree.KindSeqOfStatements)),
		})
	}
	if part := inner.Child(parsetree.KindCaseElsePart); part.IsValid() {
		s.Items = append(s.Items, core.IfStatementItem{
			Type:       core.ElseBranch,
			Statements: b.buildStatements(part.Child(parsetree.KindSeqOfStatements)),
		})
	}
	return s
}

// buildLoop maps the three loop forms onto one statement. A FOR loop keeps
// its cursor or range parameter in Condition.
func (b *builder) buildLoop(n parsetree.Node) *core.LoopStatement {
	s := &core.LoopStatement{
		Type:       core.LoopLoop,
		Statements: b.buildStatements(n.Child(parsetree.KindSeqOfStatements)),
	}
	switch {
	case n.HasTerminal(parser.TOKEN_WHILE):
		s.Type = core.LoopWhile
		s.Condition = tokenPtr(n.Child(parsetree.KindCondition), core.TokenCondition)
	case n.HasTerminal(parser.TOKEN_FOR):
		s.Type = core.LoopFor
		s.Condition = tokenPtr(n.Child(parsetree.KindCursorLoopParam), core.TokenCondition)
	}
	return s
}

// buildForall maps a bulk DML loop onto a FOR loop around its statement.
func (b *builder) buildForall(n parsetree.Node) *core.LoopStatement {
	return &core.LoopStatement{
		Type:       core.LoopFor,
		Condition:  tokenPtr(n.Child(parsetree.KindCursorLoopParam), core.TokenCondition),
		Statements: b.buildSQLStatement(n.Child(parsetree.KindSQLStatement)),
	}
}

// =============================================================================
// Assignments and Calls
// =============================================================================

func (b *builder) buildAssignment(n parsetree.Node) *core.SetStatement {
	target := n.Child(parsetree.KindGeneralElement)
	if !target.IsValid() {
		target = n.Child(parsetree.KindBindVariable)
	}
	return &core.SetStatement{
		Key:   tokenOf(target, core.TokenVariableName),
		Value: tokenOf(n.Child(parsetree.KindExpression), core.TokenGeneral),
	}
}

// buildCall converts a procedure call. Calls to configured output routines
// become PrintStatements carrying the argument text.
func (b *builder) buildCall(n parsetree.Node) core.Statement {
	name := n.Child(parsetree.KindRoutineName)
	args := n.Child(parsetree.KindFunctionArgument).ChildrenOf(parsetree.KindArgument)

	if b.isPrintRoutine(name.Text()) {
		s := &core.PrintStatement{}
		if len(args) > 0 {
			s.Content = spanToken(args[0], args[len(args)-1], core.TokenGeneral)
		}
		return s
	}

	s := &core.CallStatement{Name: tokenOf(name, core.TokenRoutineName)}
	for _, arg := range args {
		s.Arguments = append(s.Arguments, tokenOf(arg, core.TokenGeneral))
	}
	return s
}

func (b *builder) isPrintRoutine(name string) bool {
	folded := b.fold.String(name)
	for _, r := range b.printRoutines {
		if strings.Contains(folded, r) {
			return true
		}
	}
	return false
}

// spanToken builds a token covering first through last, which must share a
// tree.
func spanToken(first, last parsetree.Node, typ core.TokenType) core.TokenInfo {
	span := token.Span{Start: first.Span().Start, End: last.Span().End}
	return core.NewToken(span.Text(first.Tree().Source()), typ, span)
}
