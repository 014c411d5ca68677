package plsql

import (
	"strings"

	"github.com/leapstack-labs/sqlanalyser/pkg/core"
	"github.com/leapstack-labs/sqlanalyser/pkg/parser"
	"github.com/leapstack-labs/sqlanalyser/pkg/parsetree"
)

// =============================================================================
// Token Helpers
// =============================================================================

// tokenOf wraps the source text of n. An invalid node yields an empty token
// of the requested type.
func tokenOf(n parsetree.Node, typ core.TokenType) core.TokenInfo {
	return core.NewToken(n.Text(), typ, n.Span())
}

// tokenPtr is tokenOf for optional fields: nil when n is absent.
func tokenPtr(n parsetree.Node, typ core.TokenType) *core.TokenInfo {
	if !n.IsValid() {
		return nil
	}
	t := tokenOf(n, typ)
	return &t
}

// nameParts returns the identifier and id_expression children of a dotted
// name node in source order.
func nameParts(n parsetree.Node) []parsetree.Node {
	var parts []parsetree.Node
	for _, c := range n.Children() {
		if c.Is(parsetree.KindIdentifier) || c.Is(parsetree.KindIDExpression) {
			parts = append(parts, c)
		}
	}
	return parts
}

// elementParts flattens a general_element into its name parts. It returns
// nil when any part carries call arguments, since a call is not a name.
func elementParts(n parsetree.Node) []parsetree.Node {
	var parts []parsetree.Node
	for _, part := range n.ChildrenOf(parsetree.KindGeneralElementPart) {
		if part.Child(parsetree.KindFunctionArgument).IsValid() {
			return nil
		}
		parts = append(parts, part.ChildrenOf(parsetree.KindIDExpression)...)
	}
	return parts
}

func joinParts(parts []parsetree.Node) string {
	texts := make([]string, len(parts))
	for i, p := range parts {
		texts[i] = p.Text()
	}
	return strings.Join(texts, ".")
}

// aliasToken returns the alias identifier of a table_alias or column_alias
// node, without any AS keyword.
func aliasToken(n parsetree.Node) *core.TokenInfo {
	if !n.IsValid() || n.ChildCount() == 0 {
		return nil
	}
	return tokenPtr(n.ChildAt(n.ChildCount()-1), core.TokenGeneral)
}

// =============================================================================
// Table Names
// =============================================================================

// parseTableviewName reads identifier ["." id_expression] ["@" link]. The
// database link stays in the whole-reference token only.
func parseTableviewName(n parsetree.Node) *core.TableName {
	if !n.Is(parsetree.KindTableviewName) {
		return nil
	}
	t := core.NewTableName(tokenOf(n, core.TokenTableName))
	first := n.Child(parsetree.KindIdentifier)
	if second := n.Child(parsetree.KindIDExpression); second.IsValid() {
		t.Owner = tokenPtr(first, core.TokenGeneral)
		t.Name = tokenPtr(second, core.TokenTableName)
	} else {
		t.Name = tokenPtr(first, core.TokenTableName)
	}
	return t
}

// ParseTableName resolves a table reference from any of the node shapes
// that can carry one. Unknown shapes and subqueries yield nil in strict
// mode and a best-effort wrap of the node text in lenient mode.
func ParseTableName(n parsetree.Node, mode core.ResolveMode) *core.TableName {
	switch n.Kind() {
	case parsetree.KindTableviewName:
		return parseTableviewName(n)
	case parsetree.KindDMLTableExpressionClause:
		if tv := n.Child(parsetree.KindTableviewName); tv.IsValid() {
			return parseTableviewName(tv)
		}
	case parsetree.KindTableRefAuxInternalOne:
		return ParseTableName(n.Child(parsetree.KindDMLTableExpressionClause), mode)
	case parsetree.KindTableRefAux:
		t := ParseTableName(n.Child(parsetree.KindTableRefAuxInternalOne), mode)
		if t != nil {
			t.Alias = aliasToken(n.Child(parsetree.KindTableAlias))
		}
		return t
	case parsetree.KindGeneralTableRef:
		t := ParseTableName(n.Child(parsetree.KindDMLTableExpressionClause), mode)
		if t != nil {
			t.Alias = aliasToken(n.Child(parsetree.KindTableAlias))
		}
		return t
	case parsetree.KindTableRef:
		return ParseTableName(n.Child(parsetree.KindTableRefAux), mode)
	case parsetree.KindTableRefList:
		return ParseTableName(n.Child(parsetree.KindTableRef), mode)
	}

	if mode == core.ResolveStrict || !n.IsValid() {
		return nil
	}
	return core.NewTableName(tokenOf(n, core.TokenTableName))
}

// =============================================================================
// Column Names
// =============================================================================

// ParseColumnName resolves a column reference or projected select item.
// Qualified names split into table and column; any other projection keeps
// its expression text as the name.
func ParseColumnName(n parsetree.Node, mode core.ResolveMode) *core.ColumnName {
	switch n.Kind() {
	case parsetree.KindColumnName:
		return columnFromParts(n, nameParts(n))

	case parsetree.KindSelectListElements:
		if tv := n.Child(parsetree.KindTableviewName); tv.IsValid() {
			c := core.NewColumnName(tokenOf(n, core.TokenColumnName))
			c.Name = tokenPtr(n.Terminal(parser.TOKEN_STAR), core.TokenColumnName)
			c.TableName = tokenPtr(tv, core.TokenTableName)
			return c
		}
		expr := n.Child(parsetree.KindExpression)
		var c *core.ColumnName
		if el := soleOperand(expr, parsetree.KindGeneralElement); el.IsValid() {
			if parts := elementParts(el); len(parts) > 0 {
				c = columnFromParts(n, parts)
			}
		}
		if c == nil {
			c = core.NewColumnName(tokenOf(n, core.TokenColumnName))
			c.Name = tokenPtr(expr, core.TokenColumnName)
		}
		c.Alias = aliasToken(n.Child(parsetree.KindColumnAlias))
		return c

	case parsetree.KindGeneralElementPart:
		if n.IsChildOf(parsetree.KindSelectListElements) {
			return columnFromParts(n, n.ChildrenOf(parsetree.KindIDExpression))
		}

	case parsetree.KindGeneralElement:
		if parts := elementParts(n); len(parts) > 0 {
			return columnFromParts(n, parts)
		}
	}

	if mode == core.ResolveStrict || !n.IsValid() {
		return nil
	}
	return core.NewColumnName(tokenOf(n, core.TokenColumnName))
}

// columnFromParts sets Name to the last part and TableName to the one
// before it.
func columnFromParts(n parsetree.Node, parts []parsetree.Node) *core.ColumnName {
	c := core.NewColumnName(tokenOf(n, core.TokenColumnName))
	if len(parts) == 0 {
		return c
	}
	c.Name = tokenPtr(parts[len(parts)-1], core.TokenColumnName)
	if len(parts) > 1 {
		c.TableName = tokenPtr(parts[len(parts)-2], core.TokenTableName)
	}
	return c
}

// soleOperand returns the only child of expr when it has kind k.
func soleOperand(expr parsetree.Node, k parsetree.Kind) parsetree.Node {
	if expr.ChildCount() != 1 {
		return parsetree.Node{}
	}
	if c := expr.ChildAt(0); c.Is(k) {
		return c
	}
	return parsetree.Node{}
}

// =============================================================================
// Routine Names
// =============================================================================

// routineName returns the dotted name of a call-like node, without its
// arguments, and the node whose span it covers.
func routineName(n parsetree.Node) (string, parsetree.Node) {
	switch n.Kind() {
	case parsetree.KindRoutineName, parsetree.KindProcedureName, parsetree.KindFunctionName:
		return joinParts(nameParts(n)), n
	case parsetree.KindFunctionCall:
		return routineName(n.Child(parsetree.KindRoutineName))
	case parsetree.KindStandardFunction:
		if ts := n.Terminals(); len(ts) > 0 {
			return ts[0].Text(), ts[0]
		}
	case parsetree.KindGeneralElement:
		parts := n.ChildrenOf(parsetree.KindGeneralElementPart)
		if len(parts) > 0 && parts[len(parts)-1].Child(parsetree.KindFunctionArgument).IsValid() {
			return routineName(parts[len(parts)-1])
		}
	case parsetree.KindGeneralElementPart:
		if !n.Child(parsetree.KindFunctionArgument).IsValid() {
			break
		}
		// preceding parts qualify the call: pkg.proc(x)
		var ids []parsetree.Node
		for _, part := range n.Parent().ChildrenOf(parsetree.KindGeneralElementPart) {
			ids = append(ids, part.ChildrenOf(parsetree.KindIDExpression)...)
			if part.ID() == n.ID() {
				break
			}
		}
		return joinParts(ids), n
	}
	return "", parsetree.Node{}
}

// =============================================================================
// Token Resolver
// =============================================================================

// GetTableNameTokens returns the qualified table name behind node as zero
// or one TableName token.
func GetTableNameTokens(node parsetree.Node, mode core.ResolveMode) []core.TokenInfo {
	t := ParseTableName(node, mode)
	if t == nil {
		return nil
	}
	return []core.TokenInfo{core.NewToken(t.QualifiedName(), core.TokenTableName, t.Span)}
}

// GetColumnNameTokens returns the column name behind node as zero or one
// ColumnName token. A qualifier is kept as table.column.
func GetColumnNameTokens(node parsetree.Node, mode core.ResolveMode) []core.TokenInfo {
	c := ParseColumnName(node, mode)
	if c == nil {
		return nil
	}
	sym := c.Symbol
	if c.Name != nil {
		sym = c.Name.Symbol
		if c.TableName != nil {
			sym = c.TableName.Symbol + "." + sym
		}
	}
	return []core.TokenInfo{core.NewToken(sym, core.TokenColumnName, c.Span)}
}

// GetRoutineNameTokens returns the full dotted routine name of a call or
// routine declaration as zero or one RoutineName token.
func GetRoutineNameTokens(node parsetree.Node, mode core.ResolveMode) []core.TokenInfo {
	name, at := routineName(node)
	if name != "" {
		return []core.TokenInfo{core.NewToken(name, core.TokenRoutineName, at.Span())}
	}
	if mode == core.ResolveStrict || !node.IsValid() {
		return nil
	}
	return []core.TokenInfo{tokenOf(node, core.TokenRoutineName)}
}

// =============================================================================
// Classification
// =============================================================================

// IsFunction reports whether node is a call: a built-in function, a
// procedure call statement, or a name followed by an argument list.
func IsFunction(node parsetree.Node) bool {
	switch node.Kind() {
	case parsetree.KindStandardFunction, parsetree.KindFunctionCall:
		return true
	case parsetree.KindGeneralElementPart, parsetree.KindGeneralElement:
		name, _ := routineName(node)
		return name != ""
	}
	return false
}

// IsChildOfType reports whether node has an ancestor of kind k.
func IsChildOfType(node parsetree.Node, k parsetree.Kind) bool {
	return node.IsChildOf(k)
}
