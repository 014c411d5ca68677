package parser

import (
	"github.com/leapstack-labs/sqlanalyser/pkg/parsetree"
)

// Expression parsing.
//
// Expressions are kept flat: operands and operators are siblings under one
// expression node, in source order. Nothing downstream evaluates them, so
// precedence is not modelled; only the operand shapes (names, calls, bind
// variables, subqueries) get their own nodes.
//
// Grammar:
//
//	condition       → expression
//	expression      → prefix* operand (binary_operator prefix* operand | postfix)*
//	prefix          → NOT | "-" | "+" | PRIOR | EXISTS
//	operand         → literal | bind_variable | "(" (select_statement | expressions) ")"
//	                | case_expression | standard_function | general_element | "*"
//	general_element → general_element_part ("." general_element_part)* ["%" attribute]
//	general_element_part → id_expression ("." id_expression)* ["@" link_name]
//	                       ["(" "+" ")" | function_argument]
//	function_argument → "(" [argument ("," argument)*] ")"
//	argument        → [identifier "=>"] [DISTINCT | ALL] expression

func (p *Parser) parseCondition() {
	p.open(parsetree.KindCondition)
	defer p.close()

	p.parseExpression()
}

func (p *Parser) parseExpression() {
	p.open(parsetree.KindExpression)
	defer p.close()

	for {
		for p.checkAny(TOKEN_NOT, TOKEN_MINUS, TOKEN_PLUS, TOKEN_PRIOR, TOKEN_EXISTS) {
			p.advance()
		}
		p.parseOperand()

		if p.check(TOKEN_IS) {
			p.advance()
			p.match(TOKEN_NOT)
			if !p.match(TOKEN_NULL) && !p.match(TOKEN_TRUE) && !p.match(TOKEN_FALSE) {
				p.parseIdentifier()
			}
		}

		if !p.matchBinaryOperator() {
			return
		}
	}
}

// matchBinaryOperator consumes a binary operator and reports whether one
// was found.
func (p *Parser) matchBinaryOperator() bool {
	switch p.cur().Type {
	case TOKEN_PLUS, TOKEN_MINUS, TOKEN_STAR, TOKEN_SLASH, TOKEN_DPIPE, TOKEN_POWER,
		TOKEN_AND, TOKEN_OR, TOKEN_LIKE, TOKEN_IN, TOKEN_BETWEEN, TOKEN_ESCAPE:
		p.advance()
		return true
	case TOKEN_EQ, TOKEN_NE, TOKEN_LT, TOKEN_GT, TOKEN_LE, TOKEN_GE:
		p.advance()
		// quantified comparison: = ANY (...), > ALL (...)
		if !p.match(TOKEN_ANY) {
			p.match(TOKEN_ALL)
		}
		return true
	case TOKEN_NOT:
		switch p.peekAt(1).Type {
		case TOKEN_IN, TOKEN_LIKE, TOKEN_BETWEEN:
			p.advance()
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) parseOperand() {
	tok := p.cur()
	switch {
	case p.checkAny(TOKEN_NUMBER, TOKEN_STRING, TOKEN_NULL, TOKEN_TRUE, TOKEN_FALSE, TOKEN_STAR):
		p.advance()
	case (isWord(tok, "DATE") || isWord(tok, "TIMESTAMP")) && p.checkPeek(TOKEN_STRING):
		p.advance()
		p.advance()
	case isWord(tok, "INTERVAL") && p.checkPeek(TOKEN_STRING):
		p.advance()
		p.advance()
		if isIdentToken(p.cur()) {
			p.advance()
		}
		if p.check(TOKEN_LPAREN) {
			p.skipBalanced()
		}
		if p.matchWord(SoftKeywordTo) {
			p.advance()
		}
	case p.check(TOKEN_BIND):
		p.parseBindVariable()
	case p.check(TOKEN_LPAREN):
		p.parseParenthesized()
	case p.check(TOKEN_CASE):
		p.parseCaseExpression()
	case isIdentToken(tok) && IsStandardFunction(tok.Literal) && p.checkPeek(TOKEN_LPAREN):
		p.parseStandardFunction()
	case isIdentToken(tok):
		p.parseGeneralElement()
	default:
		p.fail("expression")
	}
}

// parseParenthesized parses "(" select_statement ")" or "(" expressions ")".
func (p *Parser) parseParenthesized() {
	p.open(parsetree.KindParenthesized)
	defer p.close()

	if p.isSubqueryStart(1) {
		p.expect(TOKEN_LPAREN)
		p.parseSelectStatement()
		p.expect(TOKEN_RPAREN)
		return
	}
	p.expect(TOKEN_LPAREN)
	p.parseExpressions()
	p.expect(TOKEN_RPAREN)
}

// parseCaseExpression parses a CASE expression.
//
//	case_expression → CASE [expression] (WHEN expression THEN expression)+ [ELSE expression] END
func (p *Parser) parseCaseExpression() {
	p.open(parsetree.KindCaseExpression)
	defer p.close()

	p.expect(TOKEN_CASE)
	if !p.check(TOKEN_WHEN) {
		p.parseExpression()
	}
	if !p.check(TOKEN_WHEN) {
		p.fail("WHEN")
	}
	for p.match(TOKEN_WHEN) {
		p.parseExpression()
		p.expect(TOKEN_THEN)
		p.parseExpression()
	}
	if p.match(TOKEN_ELSE) {
		p.parseExpression()
	}
	p.expect(TOKEN_END)
}

// parseStandardFunction parses a built-in function call with its special
// argument forms and an optional analytic clause.
//
//	standard_function → name "(" [argument ("," argument)*] ")" [over_clause]
//	argument          → [DISTINCT | ALL | LEADING | TRAILING | BOTH] expression
//	                    [AS type_spec | FROM expression]
//	over_clause       → OVER "(" ... ")" | WITHIN GROUP "(" ... ")" | KEEP "(" ... ")"
func (p *Parser) parseStandardFunction() {
	p.open(parsetree.KindStandardFunction)
	defer p.close()

	p.advance()

	p.open(parsetree.KindFunctionArgument)
	p.expect(TOKEN_LPAREN)
	if !p.check(TOKEN_RPAREN) {
		for {
			p.open(parsetree.KindArgument)
			if !p.match(TOKEN_DISTINCT) && !p.match(TOKEN_ALL) {
				if p.checkWord(SoftKeywordLeading) || p.checkWord(SoftKeywordTrailing) || p.checkWord(SoftKeywordBoth) {
					p.advance()
				}
			}
			if !p.check(TOKEN_FROM) {
				p.parseExpression()
			}
			switch {
			case p.match(TOKEN_AS):
				p.parseTypeSpec()
			case p.match(TOKEN_FROM):
				p.parseExpression()
			}
			p.close()
			if !p.match(TOKEN_COMMA) {
				break
			}
		}
	}
	p.expect(TOKEN_RPAREN)
	p.close()

	for {
		switch {
		case p.check(TOKEN_OVER), p.check(TOKEN_KEEP):
			p.open(parsetree.KindOverClause)
			p.advance()
			p.skipBalanced()
			p.close()
		case p.check(TOKEN_WITHIN):
			p.open(parsetree.KindOverClause)
			p.advance()
			p.expect(TOKEN_GROUP)
			p.skipBalanced()
			p.close()
		default:
			return
		}
	}
}

// parseGeneralElement parses a possibly qualified name or call.
func (p *Parser) parseGeneralElement() {
	p.open(parsetree.KindGeneralElement)
	defer p.close()

	p.parseGeneralElementPart()
	for p.check(TOKEN_DOT) && isKeywordAfterDot(p.peekAt(1)) {
		p.advance()
		p.parseGeneralElementPart()
	}
	// cursor and collection attributes: c%ROWCOUNT, SQL%FOUND
	if p.check(TOKEN_PERCENT) && isKeywordAfterDot(p.peekAt(1)) {
		p.advance()
		p.advance()
	}
}

func (p *Parser) parseGeneralElementPart() {
	p.open(parsetree.KindGeneralElementPart)
	defer p.close()

	if p.check(TOKEN_DOT) {
		p.fail("identifier")
	}
	p.parseIDExpression()
	for p.check(TOKEN_DOT) && isKeywordAfterDot(p.peekAt(1)) {
		p.advance()
		p.parseIDExpression()
	}
	if p.match(TOKEN_AT) {
		p.parseDottedName(parsetree.KindLabelName)
	}

	if !p.check(TOKEN_LPAREN) {
		return
	}
	// Oracle outer join marker: col(+)
	if p.peekAt(1).Type == TOKEN_PLUS && p.peekAt(2).Type == TOKEN_RPAREN {
		p.advance()
		p.advance()
		p.advance()
		return
	}
	p.parseFunctionArgument()
}

func (p *Parser) parseFunctionArgument() {
	p.open(parsetree.KindFunctionArgument)
	defer p.close()

	p.expect(TOKEN_LPAREN)
	if p.match(TOKEN_RPAREN) {
		return
	}
	for {
		p.open(parsetree.KindArgument)
		if isIdentToken(p.cur()) && p.checkPeek(TOKEN_ARROW) {
			p.parseIdentifier()
			p.advance()
		}
		if !p.match(TOKEN_DISTINCT) {
			p.match(TOKEN_ALL)
		}
		p.parseExpression()
		p.close()
		if !p.match(TOKEN_COMMA) {
			break
		}
	}
	p.expect(TOKEN_RPAREN)
}

// parseBindVariable parses :name ("." id_expression)*.
func (p *Parser) parseBindVariable() {
	p.open(parsetree.KindBindVariable)
	defer p.close()

	p.expect(TOKEN_BIND)
	for p.check(TOKEN_DOT) && isKeywordAfterDot(p.peekAt(1)) {
		p.advance()
		p.parseIDExpression()
	}
}
