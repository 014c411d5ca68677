package parser

import (
	"github.com/leapstack-labs/sqlanalyser/pkg/parsetree"
)

// SELECT parsing.
//
// Grammar:
//
//	select_statement        → select_only_statement (offset_clause | fetch_clause | for_update_clause)*
//	select_only_statement   → [subquery_factoring_clause] subquery
//	subquery_factoring_clause → WITH factoring_element ("," factoring_element)*
//	factoring_element       → query_name [paren_column_list] AS "(" subquery [order_by_clause] ")"
//	subquery                → subquery_basic_elements subquery_operation_part*
//	subquery_operation_part → (UNION [ALL] | INTERSECT | MINUS | EXCEPT) subquery_basic_elements
//	subquery_basic_elements → query_block | "(" subquery ")"
//	query_block             → SELECT [DISTINCT | UNIQUE | ALL] selected_list [into_clause]
//	                          [from_clause] [where_clause] [hierarchical_query_clause]
//	                          [group_by_clause] [order_by_clause]

// parseSelectStatement parses a full SELECT with its trailing clauses.
func (p *Parser) parseSelectStatement() {
	p.open(parsetree.KindSelectStatement)
	defer p.close()

	p.parseSelectOnlyStatement()
	for {
		switch {
		case p.check(TOKEN_ORDER):
			// ORDER BY after a set operation applies to the whole statement
			p.parseOrderByClause()
		case p.check(TOKEN_OFFSET):
			p.parseOffsetClause()
		case p.check(TOKEN_FETCH) && (p.peekAt(1).Type == TOKEN_FIRST || p.peekAt(1).Type == TOKEN_NEXT):
			p.parseFetchClause()
		case p.check(TOKEN_FOR) && p.checkPeek(TOKEN_UPDATE):
			p.parseForUpdateClause()
		default:
			return
		}
	}
}

func (p *Parser) parseSelectOnlyStatement() {
	p.open(parsetree.KindSelectOnlyStatement)
	defer p.close()

	if p.check(TOKEN_WITH) {
		p.parseSubqueryFactoringClause()
	}
	p.parseSubquery()
}

func (p *Parser) parseSubqueryFactoringClause() {
	p.open(parsetree.KindSubqueryFactoringClause)
	defer p.close()

	p.expect(TOKEN_WITH)
	for {
		p.parseFactoringElement()
		if !p.match(TOKEN_COMMA) {
			break
		}
	}
}

func (p *Parser) parseFactoringElement() {
	p.open(parsetree.KindFactoringElement)
	defer p.close()

	p.open(parsetree.KindQueryName)
	p.parseIdentifier()
	p.close()

	if p.check(TOKEN_LPAREN) {
		p.parseParenColumnList()
	}
	p.expect(TOKEN_AS)
	p.expect(TOKEN_LPAREN)
	p.parseSubquery()
	if p.check(TOKEN_ORDER) {
		p.parseOrderByClause()
	}
	p.expect(TOKEN_RPAREN)
}

func (p *Parser) parseSubquery() {
	p.open(parsetree.KindSubquery)
	defer p.close()

	p.parseSubqueryBasicElements()
	for p.checkAny(TOKEN_UNION, TOKEN_INTERSECT, TOKEN_MINUS_KW, TOKEN_EXCEPT) {
		p.open(parsetree.KindSubqueryOperationPart)
		if p.match(TOKEN_UNION) {
			p.match(TOKEN_ALL)
		} else {
			p.advance()
		}
		p.parseSubqueryBasicElements()
		p.close()
	}
}

func (p *Parser) parseSubqueryBasicElements() {
	p.open(parsetree.KindSubqueryBasicElements)
	defer p.close()

	if p.match(TOKEN_LPAREN) {
		p.parseSubquery()
		p.expect(TOKEN_RPAREN)
		return
	}
	p.parseQueryBlock()
}

// isSubqueryStart reports whether the token n ahead opens a query, looking
// through any number of "(".
func (p *Parser) isSubqueryStart(n int) bool {
	for p.peekAt(n).Type == TOKEN_LPAREN {
		n++
	}
	t := p.peekAt(n).Type
	return t == TOKEN_SELECT || t == TOKEN_WITH
}

func (p *Parser) parseQueryBlock() {
	p.open(parsetree.KindQueryBlock)
	defer p.close()

	p.expect(TOKEN_SELECT)
	if !p.match(TOKEN_DISTINCT) && !p.match(TOKEN_UNIQUE) {
		p.match(TOKEN_ALL)
	}
	p.parseSelectedList()

	if p.checkAny(TOKEN_INTO, TOKEN_BULK) {
		p.parseIntoClause()
	}
	if p.check(TOKEN_FROM) {
		p.parseFromClause()
	}
	if p.check(TOKEN_WHERE) {
		p.parseWhereClause()
	}
	if p.check(TOKEN_START) || p.check(TOKEN_CONNECT) {
		p.parseHierarchicalQueryClause()
	}
	if p.check(TOKEN_GROUP) {
		p.parseGroupByClause()
	} else if p.check(TOKEN_HAVING) {
		p.open(parsetree.KindGroupByClause)
		p.parseHavingClause()
		p.close()
	}
	if p.check(TOKEN_ORDER) {
		p.parseOrderByClause()
	}
}

// parseSelectedList parses the projection.
//
//	selected_list → "*" | select_list_elements ("," select_list_elements)*
func (p *Parser) parseSelectedList() {
	p.open(parsetree.KindSelectedList)
	defer p.close()

	if p.match(TOKEN_STAR) {
		return
	}
	for {
		p.parseSelectListElements()
		if !p.match(TOKEN_COMMA) {
			break
		}
	}
}

// parseSelectListElements parses one projected item.
//
//	select_list_elements → tableview_name "." "*" | expression [column_alias]
func (p *Parser) parseSelectListElements() {
	p.open(parsetree.KindSelectListElements)
	defer p.close()

	if p.isQualifiedStar() {
		p.parseTableviewName()
		p.expect(TOKEN_DOT)
		p.expect(TOKEN_STAR)
		return
	}
	p.parseExpression()
	p.parseColumnAlias()
}

// isQualifiedStar reports whether the tokens ahead read name[.name].*.
func (p *Parser) isQualifiedStar() bool {
	if !isIdentToken(p.cur()) {
		return false
	}
	n := 1
	for p.peekAt(n).Type == TOKEN_DOT {
		if p.peekAt(n+1).Type == TOKEN_STAR {
			return true
		}
		n += 2
	}
	return false
}

// parseColumnAlias parses an optional alias after a projected expression.
//
//	column_alias → [AS] (identifier | quoted_string) | AS
func (p *Parser) parseColumnAlias() {
	switch {
	case p.check(TOKEN_AS):
		p.open(parsetree.KindColumnAlias)
		p.advance()
		if p.check(TOKEN_STRING) {
			p.advance()
		} else {
			p.parseIDExpression()
		}
		p.close()
	case p.check(TOKEN_STRING) || isAliasToken(p.cur()):
		p.open(parsetree.KindColumnAlias)
		if p.check(TOKEN_STRING) {
			p.advance()
		} else {
			p.parseIdentifier()
		}
		p.close()
	}
}

// parseIntoClause parses a procedural INTO target list.
//
//	into_clause → [BULK COLLECT] INTO variable_name ("," variable_name)*
func (p *Parser) parseIntoClause() {
	p.open(parsetree.KindIntoClause)
	defer p.close()

	if p.match(TOKEN_BULK) {
		p.expect(TOKEN_COLLECT)
	}
	p.expect(TOKEN_INTO)
	for {
		p.parseVariableName()
		if !p.match(TOKEN_COMMA) {
			break
		}
	}
}

// parseVariableName parses a local or bind variable reference.
//
//	variable_name → identifier ("." id_expression)* | bind_variable
func (p *Parser) parseVariableName() {
	p.open(parsetree.KindVariableName)
	defer p.close()

	if p.check(TOKEN_BIND) {
		p.parseBindVariable()
		return
	}
	p.parseIdentifier()
	for p.check(TOKEN_DOT) {
		p.advance()
		p.parseIDExpression()
	}
}

// ---------- Clauses ----------

// parseWhereClause parses WHERE (CURRENT OF cursor_name | condition).
func (p *Parser) parseWhereClause() {
	p.open(parsetree.KindWhereClause)
	defer p.close()

	p.expect(TOKEN_WHERE)
	if p.check(TOKEN_CURRENT) && p.checkPeek(TOKEN_OF) {
		p.advance()
		p.advance()
		p.parseCursorName()
		return
	}
	p.parseCondition()
}

// parseHierarchicalQueryClause parses START WITH / CONNECT BY in either order.
func (p *Parser) parseHierarchicalQueryClause() {
	p.open(parsetree.KindHierarchicalQueryClause)
	defer p.close()

	for i := 0; i < 2; i++ {
		switch {
		case p.match(TOKEN_START):
			p.expect(TOKEN_WITH)
			p.parseCondition()
		case p.match(TOKEN_CONNECT):
			p.expect(TOKEN_BY)
			p.matchWord(SoftKeywordNoCycle)
			p.parseCondition()
		}
	}
}

// parseGroupByClause parses GROUP BY with an optional HAVING.
//
//	group_by_clause → GROUP BY group_by_elements ("," group_by_elements)* [having_clause]
//	                | having_clause
func (p *Parser) parseGroupByClause() {
	p.open(parsetree.KindGroupByClause)
	defer p.close()

	p.expect(TOKEN_GROUP)
	p.expect(TOKEN_BY)
	for {
		p.open(parsetree.KindGroupByElements)
		p.parseExpression()
		p.close()
		if !p.match(TOKEN_COMMA) {
			break
		}
	}
	if p.check(TOKEN_HAVING) {
		p.parseHavingClause()
	}
}

func (p *Parser) parseHavingClause() {
	p.open(parsetree.KindHavingClause)
	defer p.close()

	p.expect(TOKEN_HAVING)
	p.parseCondition()
}

// parseOrderByClause parses ORDER [SIBLINGS] BY order_by_elements.
//
//	order_by_elements → expression [ASC | DESC] [NULLS (FIRST | LAST)]
func (p *Parser) parseOrderByClause() {
	p.open(parsetree.KindOrderByClause)
	defer p.close()

	p.expect(TOKEN_ORDER)
	p.matchWord(SoftKeywordSiblings)
	p.expect(TOKEN_BY)
	for {
		p.open(parsetree.KindOrderByElements)
		p.parseExpression()
		if !p.match(TOKEN_ASC) {
			p.match(TOKEN_DESC)
		}
		if p.match(TOKEN_NULLS) {
			if !p.match(TOKEN_FIRST) {
				p.expect(TOKEN_LAST)
			}
		}
		p.close()
		if !p.match(TOKEN_COMMA) {
			break
		}
	}
}

// parseOffsetClause parses OFFSET expression (ROW | ROWS).
func (p *Parser) parseOffsetClause() {
	p.open(parsetree.KindOffsetClause)
	defer p.close()

	p.expect(TOKEN_OFFSET)
	p.parseExpression()
	if !p.match(TOKEN_ROW) {
		p.expect(TOKEN_ROWS)
	}
}

// parseFetchClause parses the row-limiting FETCH clause.
//
//	fetch_clause → FETCH (FIRST | NEXT) [expression [PERCENT]] (ROW | ROWS) (ONLY | WITH TIES)
func (p *Parser) parseFetchClause() {
	p.open(parsetree.KindFetchClause)
	defer p.close()

	p.expect(TOKEN_FETCH)
	if !p.match(TOKEN_FIRST) {
		p.expect(TOKEN_NEXT)
	}
	if !p.checkAny(TOKEN_ROW, TOKEN_ROWS) {
		p.parseExpression()
		p.matchWord(SoftKeywordPercent)
	}
	if !p.match(TOKEN_ROW) {
		p.expect(TOKEN_ROWS)
	}
	if p.match(TOKEN_WITH) {
		p.expectWord(SoftKeywordTies)
		return
	}
	p.expect(TOKEN_ONLY)
}

// parseForUpdateClause parses FOR UPDATE [OF columns] [NOWAIT | WAIT n | SKIP LOCKED].
func (p *Parser) parseForUpdateClause() {
	p.open(parsetree.KindForUpdateClause)
	defer p.close()

	p.expect(TOKEN_FOR)
	p.expect(TOKEN_UPDATE)
	if p.match(TOKEN_OF) {
		p.parseColumnList()
	}
	switch {
	case p.matchWord(SoftKeywordNoWait):
	case p.matchWord(SoftKeywordWait):
		p.expect(TOKEN_NUMBER)
	case p.matchWord(SoftKeywordSkip):
		p.expectWord(SoftKeywordLocked)
	}
}

// ---------- Names ----------

// parseColumnName parses identifier ("." id_expression)*.
func (p *Parser) parseColumnName() {
	p.parseDottedName(parsetree.KindColumnName)
}

// parseColumnList parses column_name ("," column_name)*.
func (p *Parser) parseColumnList() {
	p.open(parsetree.KindColumnList)
	defer p.close()

	for {
		p.parseColumnName()
		if !p.match(TOKEN_COMMA) {
			break
		}
	}
}

// parseParenColumnList parses "(" column_list ")".
func (p *Parser) parseParenColumnList() {
	p.open(parsetree.KindParenColumnList)
	defer p.close()

	p.expect(TOKEN_LPAREN)
	p.parseColumnList()
	p.expect(TOKEN_RPAREN)
}

// parseCursorName parses a cursor reference.
func (p *Parser) parseCursorName() {
	p.open(parsetree.KindCursorName)
	defer p.close()

	if p.check(TOKEN_BIND) {
		p.parseBindVariable()
		return
	}
	p.parseIdentifier()
	for p.check(TOKEN_DOT) {
		p.advance()
		p.parseIDExpression()
	}
}

// parseTableviewName parses a table or view reference.
//
//	tableview_name → identifier ["." id_expression] ["@" link_name]
func (p *Parser) parseTableviewName() {
	p.open(parsetree.KindTableviewName)
	defer p.close()

	p.parseIdentifier()
	if p.check(TOKEN_DOT) && isKeywordAfterDot(p.peekAt(1)) {
		p.advance()
		p.parseIDExpression()
	}
	if p.match(TOKEN_AT) {
		p.parseDottedName(parsetree.KindLabelName)
	}
}
