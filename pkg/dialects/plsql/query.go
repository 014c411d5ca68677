package plsql

import (
	"github.com/leapstack-labs/sqlanalyser/pkg/core"
	"github.com/leapstack-labs/sqlanalyser/pkg/parser"
	"github.com/leapstack-labs/sqlanalyser/pkg/parsetree"
)

// =============================================================================
// Queries
// =============================================================================

// buildSelect converts a select_statement with its trailing ORDER BY,
// OFFSET and FETCH clauses.
func (b *builder) buildSelect(n parsetree.Node) *core.SelectStatement {
	q := b.buildSelectOnly(n.Child(parsetree.KindSelectOnlyStatement))
	q.OrderBy = append(q.OrderBy, orderByTokens(n.Child(parsetree.KindOrderByClause))...)

	offset := n.Child(parsetree.KindOffsetClause)
	fetch := n.Child(parsetree.KindFetchClause)
	if offset.IsValid() || fetch.IsValid() {
		q.LimitInfo = &core.LimitInfo{
			StartRowIndex: tokenPtr(offset.Child(parsetree.KindExpression), core.TokenGeneral),
			RowCount:      tokenPtr(fetch.Child(parsetree.KindExpression), core.TokenGeneral),
		}
	}
	return q
}

// buildSelectOnly converts [WITH ...] subquery.
func (b *builder) buildSelectOnly(n parsetree.Node) *core.SelectStatement {
	q := b.buildSubquery(n.Child(parsetree.KindSubquery))

	with := n.Child(parsetree.KindSubqueryFactoringClause)
	for _, fe := range with.ChildrenOf(parsetree.KindFactoringElement) {
		w := &core.WithStatement{
			Name:            tokenOf(fe.Child(parsetree.KindQueryName), core.TokenGeneral),
			Columns:         b.columnList(fe.Child(parsetree.KindParenColumnList)),
			SelectStatement: b.buildSubquery(fe.Child(parsetree.KindSubquery)),
		}
		w.SelectStatement.OrderBy = append(w.SelectStatement.OrderBy,
			orderByTokens(fe.Child(parsetree.KindOrderByClause))...)
		q.WithStatements = append(q.WithStatements, w)
	}
	return q
}

// buildSubquery converts the first query of a set operation and appends
// every following branch as a UnionStatement.
func (b *builder) buildSubquery(n parsetree.Node) *core.SelectStatement {
	q := b.buildBasic(n.Child(parsetree.KindSubqueryBasicElements))
	for _, op := range n.ChildrenOf(parsetree.KindSubqueryOperationPart) {
		q.UnionStatements = append(q.UnionStatements, &core.UnionStatement{
			Type:            unionType(op),
			SelectStatement: b.buildBasic(op.Child(parsetree.KindSubqueryBasicElements)),
		})
	}
	return q
}

func unionType(op parsetree.Node) core.UnionType {
	switch {
	case op.HasTerminal(parser.TOKEN_UNION) && op.HasTerminal(parser.TOKEN_ALL):
		return core.UnionAll
	case op.HasTerminal(parser.TOKEN_UNION):
		return core.Union
	case op.HasTerminal(parser.TOKEN_INTERSECT):
		return core.Intersect
	default:
		// MINUS and EXCEPT
		return core.Minus
	}
}

// buildBasic converts a query block or a parenthesised subquery.
func (b *builder) buildBasic(n parsetree.Node) *core.SelectStatement {
	if qb := n.Child(parsetree.KindQueryBlock); qb.IsValid() {
		return b.buildQueryBlock(qb)
	}
	if sq := n.Child(parsetree.KindSubquery); sq.IsValid() {
		return b.buildSubquery(sq)
	}
	return &core.SelectStatement{}
}

func (b *builder) buildQueryBlock(n parsetree.Node) *core.SelectStatement {
	q := &core.SelectStatement{}

	list := n.Child(parsetree.KindSelectedList)
	if star := list.Terminal(parser.TOKEN_STAR); star.IsValid() {
		c := core.NewColumnName(tokenOf(list, core.TokenColumnName))
		c.Name = tokenPtr(star, core.TokenColumnName)
		q.Columns = append(q.Columns, *c)
	}
	for _, el := range list.ChildrenOf(parsetree.KindSelectListElements) {
		if c := ParseColumnName(el, b.mode); c != nil {
			q.Columns = append(q.Columns, *c)
		}
	}

	if into := n.Child(parsetree.KindIntoClause); into.IsValid() {
		v := into.Child(parsetree.KindVariableName)
		t := core.NewTableName(tokenOf(v, core.TokenTableName))
		t.Name = tokenPtr(v, core.TokenTableName)
		q.IntoTableName = t
	}

	from := n.Child(parsetree.KindFromClause).Child(parsetree.KindTableRefList)
	for _, ref := range from.ChildrenOf(parsetree.KindTableRef) {
		q.FromItems = append(q.FromItems, b.buildFromItem(ref))
	}

	q.Where = whereCondition(n.Child(parsetree.KindWhereClause))

	if gb := n.Child(parsetree.KindGroupByClause); gb.IsValid() {
		for _, el := range gb.ChildrenOf(parsetree.KindGroupByElements) {
			q.GroupBy = append(q.GroupBy, tokenOf(el, core.TokenGroupBy))
		}
		q.Having = tokenPtr(gb.Child(parsetree.KindHavingClause).Child(parsetree.KindCondition), core.TokenCondition)
	}

	q.OrderBy = orderByTokens(n.Child(parsetree.KindOrderByClause))
	return q
}

// whereCondition returns the condition of a WHERE clause. WHERE CURRENT OF
// keeps its cursor reference as text.
func whereCondition(n parsetree.Node) *core.TokenInfo {
	if !n.IsValid() {
		return nil
	}
	if cond := n.Child(parsetree.KindCondition); cond.IsValid() {
		return tokenPtr(cond, core.TokenCondition)
	}
	cur := n.Terminal(parser.TOKEN_CURRENT)
	cursor := n.Child(parsetree.KindCursorName)
	if !cur.IsValid() || !cursor.IsValid() {
		return nil
	}
	t := spanToken(cur, cursor, core.TokenCondition)
	return &t
}

func orderByTokens(n parsetree.Node) []core.TokenInfo {
	var out []core.TokenInfo
	for _, el := range n.ChildrenOf(parsetree.KindOrderByElements) {
		out = append(out, tokenOf(el, core.TokenOrderBy))
	}
	return out
}

// columnList converts "(a, b, ...)".
func (b *builder) columnList(n parsetree.Node) []core.ColumnName {
	var out []core.ColumnName
	for _, cn := range n.Child(parsetree.KindColumnList).ChildrenOf(parsetree.KindColumnName) {
		if c := ParseColumnName(cn, b.mode); c != nil {
			out = append(out, *c)
		}
	}
	return out
}

// =============================================================================
// FROM and Joins
// =============================================================================

func (b *builder) buildFromItem(ref parsetree.Node) core.FromItem {
	var item core.FromItem
	item.TableName, item.SubSelectStatement = b.fromTarget(ref.Child(parsetree.KindTableRefAux))

	for _, j := range ref.ChildrenOf(parsetree.KindJoinClause) {
		item.JoinItems = append(item.JoinItems, b.buildJoin(j))
	}
	if pc := ref.Child(parsetree.KindPivotClause); pc.IsValid() {
		item.JoinItems = append(item.JoinItems, core.JoinItem{Type: core.JoinPivot, PivotItem: b.buildPivot(pc)})
	}
	if uc := ref.Child(parsetree.KindUnpivotClause); uc.IsValid() {
		item.JoinItems = append(item.JoinItems, core.JoinItem{Type: core.JoinUnpivot, UnPivotItem: b.buildUnpivot(uc)})
	}
	return item
}

// fromTarget resolves a table_ref_aux. A derived table returns its query,
// with a TableName holding only the alias when one is given.
func (b *builder) fromTarget(aux parsetree.Node) (*core.TableName, *core.SelectStatement) {
	dml := aux.Child(parsetree.KindTableRefAuxInternalOne).Child(parsetree.KindDMLTableExpressionClause)
	if sub := dml.Child(parsetree.KindSelectStatement); sub.IsValid() {
		var alias *core.TableName
		if a := aliasToken(aux.Child(parsetree.KindTableAlias)); a != nil {
			alias = &core.TableName{TokenInfo: a.WithType(core.TokenTableName), Alias: a}
		}
		return alias, b.buildSelect(sub)
	}
	return ParseTableName(aux, b.mode), nil
}

func (b *builder) buildJoin(j parsetree.Node) core.JoinItem {
	item := core.JoinItem{Type: core.JoinInner}
	switch {
	case j.HasTerminal(parser.TOKEN_CROSS):
		item.Type = core.JoinCross
	case j.Child(parsetree.KindOuterJoinType).IsValid():
		switch j.Child(parsetree.KindOuterJoinType).FirstToken() {
		case parser.TOKEN_LEFT:
			item.Type = core.JoinLeft
		case parser.TOKEN_RIGHT:
			item.Type = core.JoinRight
		case parser.TOKEN_FULL:
			item.Type = core.JoinFull
		}
	}

	item.TableName, item.SubSelectStatement = b.fromTarget(j.Child(parsetree.KindTableRefAux))

	if on := j.Child(parsetree.KindJoinOnPart); on.IsValid() {
		item.Condition = tokenPtr(on.Child(parsetree.KindCondition), core.TokenCondition)
	} else if using := j.Child(parsetree.KindJoinUsingPart); using.IsValid() {
		item.Condition = tokenPtr(using, core.TokenCondition)
	}
	return item
}

// buildPivot reads the first pivot element, the FOR column and the IN
// values.
func (b *builder) buildPivot(n parsetree.Node) *core.PivotItem {
	el := n.Child(parsetree.KindPivotElement)
	item := &core.PivotItem{
		AggregationFunctionName: tokenOf(el.Child(parsetree.KindAggregateFunctionName), core.TokenRoutineName),
		AggregatedColumnName:    tokenOf(el.Child(parsetree.KindExpression), core.TokenColumnName),
		ColumnName:              b.columnOrList(n.Child(parsetree.KindPivotForClause)),
	}
	for _, v := range n.Child(parsetree.KindPivotInClause).ChildrenOf(parsetree.KindPivotInClauseElement) {
		item.Values = append(item.Values, tokenOf(v.Child(parsetree.KindExpression), core.TokenGeneral))
	}
	return item
}

func (b *builder) buildUnpivot(n parsetree.Node) *core.UnPivotItem {
	item := &core.UnPivotItem{
		ValueColumnName: b.columnOrList(n),
		ForColumnName:   b.columnOrList(n.Child(parsetree.KindPivotForClause)),
	}
	for _, el := range n.Child(parsetree.KindUnpivotInClause).ChildrenOf(parsetree.KindUnpivotInElements) {
		if c := b.columnOrList(el); c != nil {
			item.InColumnNames = append(item.InColumnNames, *c)
		}
	}
	return item
}

// columnOrList resolves the column_name child of n, or wraps a
// parenthesised column list as one name.
func (b *builder) columnOrList(n parsetree.Node) *core.ColumnName {
	if cn := n.Child(parsetree.KindColumnName); cn.IsValid() {
		return ParseColumnName(cn, b.mode)
	}
	if pl := n.Child(parsetree.KindParenColumnList); pl.IsValid() {
		return core.NewColumnName(tokenOf(pl, core.TokenColumnName))
	}
	return nil
}
