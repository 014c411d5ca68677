package parser

import (
	"github.com/leapstack-labs/sqlanalyser/pkg/parsetree"
)

// SQL statement parsing: DML, cursor manipulation and transaction control.
//
// Grammar:
//
//	sql_statement      → select_statement | insert_statement | update_statement | delete_statement
//	                   | open_statement | fetch_statement | close_statement
//	                   | transaction_control_statements
//	insert_statement   → INSERT single_table_insert
//	single_table_insert → insert_into_clause (values_clause [returning_clause] | select_statement)
//	insert_into_clause → INTO general_table_ref [paren_column_list]
//	update_statement   → UPDATE general_table_ref update_set_clause [where_clause] [returning_clause]
//	delete_statement   → DELETE [FROM] general_table_ref [where_clause] [returning_clause]

func (p *Parser) parseSQLStatement() {
	p.open(parsetree.KindSQLStatement)
	defer p.close()

	switch {
	case p.checkAny(TOKEN_SELECT, TOKEN_WITH, TOKEN_LPAREN):
		p.parseSelectStatement()
	case p.check(TOKEN_INSERT):
		p.parseInsertStatement()
	case p.check(TOKEN_UPDATE):
		p.parseUpdateStatement()
	case p.check(TOKEN_DELETE):
		p.parseDeleteStatement()
	case p.check(TOKEN_OPEN):
		p.parseOpenStatement()
	case p.check(TOKEN_FETCH):
		p.parseFetchStatement()
	case p.check(TOKEN_CLOSE):
		p.open(parsetree.KindCloseStatement)
		p.advance()
		p.parseCursorName()
		p.close()
	case p.checkAny(TOKEN_COMMIT, TOKEN_ROLLBACK, TOKEN_SAVEPOINT, TOKEN_SET):
		p.parseTransactionControl()
	default:
		p.fail("SQL statement")
	}
}

// ---------- DML ----------

func (p *Parser) parseInsertStatement() {
	p.open(parsetree.KindInsertStatement)
	defer p.close()

	p.expect(TOKEN_INSERT)

	p.open(parsetree.KindSingleTableInsert)
	defer p.close()

	p.open(parsetree.KindInsertIntoClause)
	p.expect(TOKEN_INTO)
	p.parseGeneralTableRef()
	if p.check(TOKEN_LPAREN) && !p.isSubqueryStart(1) {
		p.parseParenColumnList()
	}
	p.close()

	if p.check(TOKEN_VALUES) {
		p.open(parsetree.KindValuesClause)
		p.advance()
		if p.check(TOKEN_LPAREN) {
			p.advance()
			p.parseExpressions()
			p.expect(TOKEN_RPAREN)
		} else {
			// VALUES record_variable
			p.parseExpression()
		}
		p.close()
		p.parseReturningClause()
		return
	}
	p.parseSelectStatement()
}

// parseExpressions parses expression ("," expression)*.
func (p *Parser) parseExpressions() {
	p.open(parsetree.KindExpressions)
	defer p.close()

	for {
		p.parseExpression()
		if !p.match(TOKEN_COMMA) {
			break
		}
	}
}

// parseGeneralTableRef parses a DML target.
//
//	general_table_ref → dml_table_expression_clause [table_alias]
func (p *Parser) parseGeneralTableRef() {
	p.open(parsetree.KindGeneralTableRef)
	defer p.close()

	p.parseDMLTableExpressionClause()
	if p.check(TOKEN_AS) || isAliasToken(p.cur()) {
		p.parseTableAlias()
	}
}

// parseUpdateStatement parses UPDATE.
//
//	update_set_clause → SET column_based_update_set_clause ("," column_based_update_set_clause)*
//	column_based_update_set_clause → column_name "=" expression
//	                               | paren_column_list "=" "(" select_statement ")"
func (p *Parser) parseUpdateStatement() {
	p.open(parsetree.KindUpdateStatement)
	defer p.close()

	p.expect(TOKEN_UPDATE)
	p.parseGeneralTableRef()

	p.open(parsetree.KindUpdateSetClause)
	p.expect(TOKEN_SET)
	for {
		p.open(parsetree.KindColumnBasedUpdateSetClause)
		if p.check(TOKEN_LPAREN) {
			p.parseParenColumnList()
			p.expect(TOKEN_EQ)
			p.parseExpression()
		} else {
			p.parseColumnName()
			p.expect(TOKEN_EQ)
			p.parseExpression()
		}
		p.close()
		if !p.match(TOKEN_COMMA) {
			break
		}
	}
	p.close()

	if p.check(TOKEN_WHERE) {
		p.parseWhereClause()
	}
	p.parseReturningClause()
}

func (p *Parser) parseDeleteStatement() {
	p.open(parsetree.KindDeleteStatement)
	defer p.close()

	p.expect(TOKEN_DELETE)
	p.match(TOKEN_FROM)
	p.parseGeneralTableRef()
	if p.check(TOKEN_WHERE) {
		p.parseWhereClause()
	}
	p.parseReturningClause()
}

// parseReturningClause parses an optional RETURNING ... INTO ... clause.
//
//	returning_clause → (RETURNING | RETURN) expressions [BULK COLLECT] INTO variable_name ("," variable_name)*
func (p *Parser) parseReturningClause() {
	if !p.checkAny(TOKEN_RETURNING, TOKEN_RETURN) {
		return
	}
	p.open(parsetree.KindReturningClause)
	defer p.close()

	p.advance()
	p.parseExpressions()
	p.parseIntoClause()
}

// ---------- Cursors ----------

// parseOpenStatement parses OPEN.
//
//	open_statement → OPEN cursor_name ["(" expressions ")"] [FOR (select_statement | expression)]
func (p *Parser) parseOpenStatement() {
	p.open(parsetree.KindOpenStatement)
	defer p.close()

	p.expect(TOKEN_OPEN)
	p.parseCursorName()
	if p.match(TOKEN_LPAREN) {
		if !p.check(TOKEN_RPAREN) {
			p.parseExpressions()
		}
		p.expect(TOKEN_RPAREN)
	}
	if p.match(TOKEN_FOR) {
		if p.checkAny(TOKEN_SELECT, TOKEN_WITH) || (p.check(TOKEN_LPAREN) && p.isSubqueryStart(1)) {
			p.parseSelectStatement()
		} else {
			p.parseExpression()
		}
		if p.check(TOKEN_USING) {
			p.skipToSemicolon()
		}
	}
}

// parseFetchStatement parses FETCH.
//
//	fetch_statement → FETCH cursor_name (INTO | BULK COLLECT INTO) variable_name ("," variable_name)* [LIMIT expression]
func (p *Parser) parseFetchStatement() {
	p.open(parsetree.KindFetchStatement)
	defer p.close()

	p.expect(TOKEN_FETCH)
	p.parseCursorName()
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
	if p.match(TOKEN_LIMIT) {
		p.parseExpression()
	}
}

// ---------- Transactions ----------

// parseTransactionControl parses COMMIT, ROLLBACK, SAVEPOINT and SET TRANSACTION.
// Optional trailing clauses are kept as terminals.
func (p *Parser) parseTransactionControl() {
	p.open(parsetree.KindTransactionControl)
	defer p.close()

	switch {
	case p.check(TOKEN_COMMIT):
		p.open(parsetree.KindCommitStatement)
		p.advance()
		p.match(TOKEN_WORK)
		p.skipToSemicolon()
		p.close()
	case p.check(TOKEN_ROLLBACK):
		p.open(parsetree.KindRollbackStatement)
		p.advance()
		p.match(TOKEN_WORK)
		if p.matchWord(SoftKeywordTo) {
			p.match(TOKEN_SAVEPOINT)
			p.parseIdentifier()
		}
		p.close()
	case p.check(TOKEN_SAVEPOINT):
		p.open(parsetree.KindSavepointStatement)
		p.advance()
		p.parseIdentifier()
		p.close()
	default:
		p.open(parsetree.KindSetTransaction)
		p.expect(TOKEN_SET)
		p.expect(TOKEN_TRANSACTION)
		p.skipToSemicolon()
		p.close()
	}
}
