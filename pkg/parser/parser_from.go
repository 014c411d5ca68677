package parser

import (
	"github.com/leapstack-labs/sqlanalyser/pkg/parsetree"
)

// FROM clause parsing.
//
// Grammar:
//
//	from_clause        → FROM table_ref ("," table_ref)*
//	table_ref          → table_ref_aux join_clause* [pivot_clause | unpivot_clause]
//	table_ref_aux      → table_ref_aux_internal_one [table_alias]
//	dml_table_expression_clause → "(" select_statement ")" | TABLE "(" expression ")" | tableview_name
//	join_clause        → [CROSS | NATURAL] [INNER | outer_join_type] JOIN table_ref_aux
//	                     (join_on_part | join_using_part)*
//	outer_join_type    → (LEFT | RIGHT | FULL) [OUTER]

func (p *Parser) parseFromClause() {
	p.open(parsetree.KindFromClause)
	defer p.close()

	p.expect(TOKEN_FROM)
	p.open(parsetree.KindTableRefList)
	for {
		p.parseTableRef()
		if !p.match(TOKEN_COMMA) {
			break
		}
	}
	p.close()
}

func (p *Parser) parseTableRef() {
	p.open(parsetree.KindTableRef)
	defer p.close()

	p.parseTableRefAux()
	for p.isJoinStart() {
		p.parseJoinClause()
	}
	switch {
	case p.check(TOKEN_PIVOT):
		p.parsePivotClause()
	case p.check(TOKEN_UNPIVOT):
		p.parseUnpivotClause()
	}
}

func (p *Parser) parseTableRefAux() {
	p.open(parsetree.KindTableRefAux)
	defer p.close()

	p.open(parsetree.KindTableRefAuxInternalOne)
	p.parseDMLTableExpressionClause()
	p.close()

	p.parseTableAlias()
}

func (p *Parser) parseDMLTableExpressionClause() {
	p.open(parsetree.KindDMLTableExpressionClause)
	defer p.close()

	switch {
	case p.check(TOKEN_LPAREN) && p.isSubqueryStart(1):
		p.advance()
		p.parseSelectStatement()
		p.expect(TOKEN_RPAREN)
	case p.checkWord(SoftKeywordTable) && p.checkPeek(TOKEN_LPAREN):
		p.advance()
		p.advance()
		p.parseExpression()
		p.expect(TOKEN_RPAREN)
	default:
		p.parseTableviewName()
	}
}

// parseTableAlias parses an optional alias after a table reference. Oracle
// does not allow AS here, but it is tolerated.
func (p *Parser) parseTableAlias() {
	if p.check(TOKEN_AS) || (isAliasToken(p.cur()) && !p.isJoinStart()) {
		p.open(parsetree.KindTableAlias)
		p.match(TOKEN_AS)
		p.parseIdentifier()
		p.close()
	}
}

// isJoinStart reports whether the tokens ahead open a join_clause.
func (p *Parser) isJoinStart() bool {
	n := 0
	if t := p.peekAt(n).Type; t == TOKEN_CROSS || t == TOKEN_NATURAL {
		n++
	}
	switch p.peekAt(n).Type {
	case TOKEN_INNER:
		n++
	case TOKEN_LEFT, TOKEN_RIGHT, TOKEN_FULL:
		n++
		if p.peekAt(n).Type == TOKEN_OUTER {
			n++
		}
	}
	return p.peekAt(n).Type == TOKEN_JOIN
}

func (p *Parser) parseJoinClause() {
	p.open(parsetree.KindJoinClause)
	defer p.close()

	if !p.match(TOKEN_CROSS) {
		p.match(TOKEN_NATURAL)
	}
	switch {
	case p.match(TOKEN_INNER):
	case p.checkAny(TOKEN_LEFT, TOKEN_RIGHT, TOKEN_FULL):
		p.open(parsetree.KindOuterJoinType)
		p.advance()
		p.match(TOKEN_OUTER)
		p.close()
	}
	p.expect(TOKEN_JOIN)
	p.parseTableRefAux()

	for {
		switch {
		case p.check(TOKEN_ON):
			p.open(parsetree.KindJoinOnPart)
			p.advance()
			p.parseCondition()
			p.close()
		case p.check(TOKEN_USING):
			p.open(parsetree.KindJoinUsingPart)
			p.advance()
			p.parseParenColumnList()
			p.close()
		default:
			return
		}
	}
}

// ---------- PIVOT / UNPIVOT ----------

// parsePivotClause parses a PIVOT clause.
//
//	pivot_clause     → PIVOT [XML] "(" pivot_element ("," pivot_element)* pivot_for_clause pivot_in_clause ")"
//	pivot_element    → aggregate_function_name "(" expression ")" [column_alias]
//	pivot_for_clause → FOR (column_name | paren_column_list)
//	pivot_in_clause  → IN "(" pivot_in_clause_element ("," pivot_in_clause_element)* ")"
func (p *Parser) parsePivotClause() {
	p.open(parsetree.KindPivotClause)
	defer p.close()

	p.expect(TOKEN_PIVOT)
	p.matchWord(SoftKeywordXML)
	p.expect(TOKEN_LPAREN)
	for {
		p.open(parsetree.KindPivotElement)
		p.open(parsetree.KindAggregateFunctionName)
		p.parseIdentifier()
		p.close()
		p.expect(TOKEN_LPAREN)
		p.parseExpression()
		p.expect(TOKEN_RPAREN)
		p.parseColumnAlias()
		p.close()
		if !p.match(TOKEN_COMMA) {
			break
		}
	}
	p.parsePivotForClause()

	p.open(parsetree.KindPivotInClause)
	p.expect(TOKEN_IN)
	p.expect(TOKEN_LPAREN)
	for {
		p.open(parsetree.KindPivotInClauseElement)
		p.parseExpression()
		p.parseColumnAlias()
		p.close()
		if !p.match(TOKEN_COMMA) {
			break
		}
	}
	p.expect(TOKEN_RPAREN)
	p.close()

	p.expect(TOKEN_RPAREN)
}

func (p *Parser) parsePivotForClause() {
	p.open(parsetree.KindPivotForClause)
	defer p.close()

	p.expect(TOKEN_FOR)
	if p.check(TOKEN_LPAREN) {
		p.parseParenColumnList()
		return
	}
	p.parseColumnName()
}

// parseUnpivotClause parses an UNPIVOT clause.
//
//	unpivot_clause      → UNPIVOT [(INCLUDE | EXCLUDE) NULLS]
//	                      "(" (column_name | paren_column_list) pivot_for_clause unpivot_in_clause ")"
//	unpivot_in_clause   → IN "(" unpivot_in_elements ("," unpivot_in_elements)* ")"
//	unpivot_in_elements → (column_name | paren_column_list) [AS (constant | "(" constant ("," constant)* ")")]
func (p *Parser) parseUnpivotClause() {
	p.open(parsetree.KindUnpivotClause)
	defer p.close()

	p.expect(TOKEN_UNPIVOT)
	if p.matchWord(SoftKeywordInclude) || p.matchWord(SoftKeywordExclude) {
		p.expect(TOKEN_NULLS)
	}
	p.expect(TOKEN_LPAREN)
	if p.check(TOKEN_LPAREN) {
		p.parseParenColumnList()
	} else {
		p.parseColumnName()
	}
	p.parsePivotForClause()

	p.open(parsetree.KindUnpivotInClause)
	p.expect(TOKEN_IN)
	p.expect(TOKEN_LPAREN)
	for {
		p.open(parsetree.KindUnpivotInElements)
		if p.check(TOKEN_LPAREN) {
			p.parseParenColumnList()
		} else {
			p.parseColumnName()
		}
		if p.match(TOKEN_AS) {
			if p.check(TOKEN_LPAREN) {
				p.skipBalanced()
			} else {
				p.parseExpression()
			}
		}
		p.close()
		if !p.match(TOKEN_COMMA) {
			break
		}
	}
	p.expect(TOKEN_RPAREN)
	p.close()

	p.expect(TOKEN_RPAREN)
}
