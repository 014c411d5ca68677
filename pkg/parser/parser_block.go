package parser

import (
	"github.com/leapstack-labs/sqlanalyser/pkg/parsetree"
)

// Block and statement parsing.
//
// Grammar:
//
//	body              → BEGIN seq_of_statements [EXCEPTION exception_handler+] END [label_name]
//	exception_handler → WHEN exception_name (OR exception_name)* THEN seq_of_statements
//	seq_of_statements → (statement ";" | label_declaration)+
//	statement         → body | block | assignment_statement | if_statement | loop_statement
//	                  | forall_statement | case_statement | exit_statement | continue_statement
//	                  | return_statement | null_statement | raise_statement | goto_statement
//	                  | execute_immediate | sql_statement | function_call
//	block             → DECLARE seq_of_declare_specs body

// parseBody parses BEGIN ... END.
func (p *Parser) parseBody() {
	p.open(parsetree.KindBody)
	defer p.close()

	p.expect(TOKEN_BEGIN)
	p.parseSeqOfStatements()

	if p.match(TOKEN_EXCEPTION) {
		if !p.check(TOKEN_WHEN) {
			p.fail("WHEN")
		}
		for p.check(TOKEN_WHEN) {
			p.parseExceptionHandler()
		}
	}

	p.expect(TOKEN_END)
	if isIdentToken(p.cur()) {
		p.open(parsetree.KindLabelName)
		p.advance()
		p.close()
	}
}

func (p *Parser) parseExceptionHandler() {
	p.open(parsetree.KindExceptionHandler)
	defer p.close()

	p.expect(TOKEN_WHEN)
	for {
		p.parseDottedName(parsetree.KindExceptionName)
		if !p.match(TOKEN_OR) {
			break
		}
	}
	p.expect(TOKEN_THEN)
	p.parseSeqOfStatements()
}

// parseDottedName parses identifier ("." id_expression)* into a node of kind k.
func (p *Parser) parseDottedName(k parsetree.Kind) {
	p.open(k)
	defer p.close()

	p.parseIdentifier()
	for p.check(TOKEN_DOT) {
		p.advance()
		p.parseIDExpression()
	}
}

// isStatementEnd reports whether the current token closes a statement sequence.
func (p *Parser) isStatementEnd() bool {
	return p.checkAny(TOKEN_END, TOKEN_EXCEPTION, TOKEN_ELSIF, TOKEN_ELSE, TOKEN_WHEN, TOKEN_EOF)
}

func (p *Parser) parseSeqOfStatements() {
	p.open(parsetree.KindSeqOfStatements)
	defer p.close()

	if p.isStatementEnd() {
		p.fail("statement")
	}
	for !p.isStatementEnd() {
		if p.check(TOKEN_LT) && p.checkPeek(TOKEN_LT) {
			p.parseLabelDeclaration()
			continue
		}
		p.parseStatement()
		p.expect(TOKEN_SEMICOLON)
	}
}

// parseLabelDeclaration parses <<label>>.
func (p *Parser) parseLabelDeclaration() {
	p.open(parsetree.KindLabelDeclaration)
	defer p.close()

	p.advance()
	p.advance()
	p.parseIdentifier()
	p.expect(TOKEN_GT)
	p.expect(TOKEN_GT)
}

func (p *Parser) parseStatement() {
	p.open(parsetree.KindStatement)
	defer p.close()

	switch {
	case p.check(TOKEN_BEGIN):
		p.parseBody()
	case p.check(TOKEN_DECLARE):
		p.open(parsetree.KindBlock)
		p.advance()
		p.parseSeqOfDeclareSpecs()
		p.parseBody()
		p.close()
	case p.check(TOKEN_IF):
		p.parseIfStatement()
	case p.checkAny(TOKEN_LOOP, TOKEN_WHILE, TOKEN_FOR):
		p.parseLoopStatement()
	case p.check(TOKEN_FORALL):
		p.parseForallStatement()
	case p.check(TOKEN_CASE):
		p.parseCaseStatement()
	case p.check(TOKEN_EXIT):
		p.parseExitLike(parsetree.KindExitStatement)
	case p.check(TOKEN_CONTINUE):
		p.parseExitLike(parsetree.KindContinueStatement)
	case p.check(TOKEN_RETURN):
		p.open(parsetree.KindReturnStatement)
		p.advance()
		if !p.check(TOKEN_SEMICOLON) {
			p.parseExpression()
		}
		p.close()
	case p.check(TOKEN_NULL):
		p.open(parsetree.KindNullStatement)
		p.advance()
		p.close()
	case p.check(TOKEN_RAISE):
		p.open(parsetree.KindRaiseStatement)
		p.advance()
		if !p.check(TOKEN_SEMICOLON) {
			p.parseDottedName(parsetree.KindExceptionName)
		}
		p.close()
	case p.check(TOKEN_GOTO):
		p.open(parsetree.KindGotoStatement)
		p.advance()
		p.open(parsetree.KindLabelName)
		p.parseIdentifier()
		p.close()
		p.close()
	case p.check(TOKEN_EXECUTE):
		p.parseExecuteImmediate()
	case p.checkAny(TOKEN_SELECT, TOKEN_WITH, TOKEN_INSERT, TOKEN_UPDATE, TOKEN_DELETE,
		TOKEN_OPEN, TOKEN_FETCH, TOKEN_CLOSE, TOKEN_COMMIT, TOKEN_ROLLBACK, TOKEN_SAVEPOINT):
		p.parseSQLStatement()
	case p.check(TOKEN_SET) && p.checkPeek(TOKEN_TRANSACTION):
		p.parseSQLStatement()
	case p.check(TOKEN_LPAREN) && p.isSubqueryStart(1):
		p.parseSQLStatement()
	case p.check(TOKEN_CALL):
		p.parseFunctionCall()
	case p.check(TOKEN_BIND):
		p.parseAssignmentStatement()
	case isIdentToken(p.cur()):
		if p.toks[p.scanGeneralElement(p.pos)].Type == TOKEN_ASSIGN {
			p.parseAssignmentStatement()
		} else {
			p.parseFunctionCall()
		}
	default:
		p.fail("statement")
	}
}

// scanGeneralElement returns the index just past the general element
// starting at token i, without consuming anything.
func (p *Parser) scanGeneralElement(i int) int {
	at := func(j int) Token {
		if j >= len(p.toks) {
			return p.toks[len(p.toks)-1]
		}
		return p.toks[j]
	}
	if at(i).Type == TOKEN_BIND {
		i++
	} else if isIdentToken(at(i)) {
		i++
	} else {
		return i
	}
	for {
		switch at(i).Type {
		case TOKEN_DOT:
			if !isKeywordAfterDot(at(i + 1)) {
				return i
			}
			i += 2
		case TOKEN_LPAREN:
			depth := 0
			for {
				switch at(i).Type {
				case TOKEN_LPAREN:
					depth++
				case TOKEN_RPAREN:
					depth--
				case TOKEN_EOF:
					return i
				}
				i++
				if depth == 0 {
					break
				}
			}
		case TOKEN_PERCENT:
			i += 2
		default:
			return i
		}
	}
}

// parseAssignmentStatement parses target := expression.
func (p *Parser) parseAssignmentStatement() {
	p.open(parsetree.KindAssignmentStatement)
	defer p.close()

	if p.check(TOKEN_BIND) {
		p.parseBindVariable()
	} else {
		p.parseGeneralElement()
	}
	p.expect(TOKEN_ASSIGN)
	p.parseExpression()
}

// parseFunctionCall parses a procedure call statement.
//
//	function_call → [CALL] routine_name [function_argument]
//	routine_name  → identifier ("." id_expression)* ["@" link_name]
func (p *Parser) parseFunctionCall() {
	p.open(parsetree.KindFunctionCall)
	defer p.close()

	p.match(TOKEN_CALL)

	p.open(parsetree.KindRoutineName)
	p.parseIdentifier()
	for p.check(TOKEN_DOT) {
		p.advance()
		p.parseIDExpression()
	}
	if p.match(TOKEN_AT) {
		p.parseDottedName(parsetree.KindLabelName)
	}
	p.close()

	if p.check(TOKEN_LPAREN) {
		p.parseFunctionArgument()
	}
}

// ---------- Control Flow ----------

// parseIfStatement parses IF ... END IF.
//
//	if_statement → IF condition THEN seq_of_statements elsif_part* [else_part] END IF
//	elsif_part   → ELSIF condition THEN seq_of_statements
//	else_part    → ELSE seq_of_statements
func (p *Parser) parseIfStatement() {
	p.open(parsetree.KindIfStatement)
	defer p.close()

	p.expect(TOKEN_IF)
	p.parseCondition()
	p.expect(TOKEN_THEN)
	p.parseSeqOfStatements()

	for p.check(TOKEN_ELSIF) {
		p.open(parsetree.KindElsifPart)
		p.advance()
		p.parseCondition()
		p.expect(TOKEN_THEN)
		p.parseSeqOfStatements()
		p.close()
	}

	if p.check(TOKEN_ELSE) {
		p.open(parsetree.KindElsePart)
		p.advance()
		p.parseSeqOfStatements()
		p.close()
	}

	p.expect(TOKEN_END)
	p.expect(TOKEN_IF)
}

// parseLoopStatement parses the three loop forms.
//
//	loop_statement    → [WHILE condition | FOR cursor_loop_param] LOOP seq_of_statements END LOOP [label_name]
//	cursor_loop_param → identifier IN [REVERSE] expression [".." expression]
func (p *Parser) parseLoopStatement() {
	p.open(parsetree.KindLoopStatement)
	defer p.close()

	switch {
	case p.match(TOKEN_WHILE):
		p.parseCondition()
	case p.match(TOKEN_FOR):
		p.parseCursorLoopParam()
	}

	p.expect(TOKEN_LOOP)
	p.parseSeqOfStatements()
	p.expect(TOKEN_END)
	p.expect(TOKEN_LOOP)
	if isIdentToken(p.cur()) {
		p.open(parsetree.KindLabelName)
		p.advance()
		p.close()
	}
}

func (p *Parser) parseCursorLoopParam() {
	p.open(parsetree.KindCursorLoopParam)
	defer p.close()

	p.parseIdentifier()
	p.expect(TOKEN_IN)
	p.match(TOKEN_REVERSE)
	p.parseExpression()
	if p.match(TOKEN_DOTDOT) {
		p.parseExpression()
	}
}

// parseForallStatement parses a bulk DML loop.
//
//	forall_statement → FORALL cursor_loop_param [SAVE EXCEPTIONS] sql_statement
func (p *Parser) parseForallStatement() {
	p.open(parsetree.KindForallStatement)
	defer p.close()

	p.expect(TOKEN_FORALL)

	p.open(parsetree.KindCursorLoopParam)
	p.parseIdentifier()
	p.expect(TOKEN_IN)
	if (p.checkWord(SoftKeywordIndices) || p.check(TOKEN_VALUES)) && p.checkPeek(TOKEN_OF) {
		p.advance()
		p.advance()
	}
	p.parseExpression()
	if p.match(TOKEN_DOTDOT) {
		p.parseExpression()
	}
	p.close()

	if p.matchWord(SoftKeywordSave) {
		p.expectWord(SoftKeywordExceptions)
	}
	p.parseSQLStatement()
}

// parseCaseStatement parses simple and searched CASE statements.
//
//	simple_case_statement   → CASE expression case_when_part+ [case_else_part] END CASE [label_name]
//	searched_case_statement → CASE case_when_part+ [case_else_part] END CASE [label_name]
//	case_when_part          → WHEN expression THEN seq_of_statements
//	case_else_part          → ELSE seq_of_statements
func (p *Parser) parseCaseStatement() {
	p.open(parsetree.KindCaseStatement)
	defer p.close()

	if p.checkPeek(TOKEN_WHEN) {
		p.open(parsetree.KindSearchedCaseStatement)
		p.advance()
	} else {
		p.open(parsetree.KindSimpleCaseStatement)
		p.advance()
		p.parseExpression()
	}
	defer p.close()

	if !p.check(TOKEN_WHEN) {
		p.fail("WHEN")
	}
	for p.check(TOKEN_WHEN) {
		p.open(parsetree.KindCaseWhenPart)
		p.advance()
		p.parseExpression()
		p.expect(TOKEN_THEN)
		p.parseSeqOfStatements()
		p.close()
	}
	if p.check(TOKEN_ELSE) {
		p.open(parsetree.KindCaseElsePart)
		p.advance()
		p.parseSeqOfStatements()
		p.close()
	}

	p.expect(TOKEN_END)
	p.expect(TOKEN_CASE)
	if isIdentToken(p.cur()) {
		p.open(parsetree.KindLabelName)
		p.advance()
		p.close()
	}
}

// parseExitLike parses EXIT and CONTINUE.
//
//	exit_statement → EXIT [label_name] [WHEN condition]
func (p *Parser) parseExitLike(k parsetree.Kind) {
	p.open(k)
	defer p.close()

	p.advance()
	if isIdentToken(p.cur()) {
		p.open(parsetree.KindLabelName)
		p.advance()
		p.close()
	}
	if p.match(TOKEN_WHEN) {
		p.parseCondition()
	}
}

// parseExecuteImmediate parses dynamic SQL. The clauses after the statement
// text are kept as terminals.
//
//	execute_immediate → EXECUTE IMMEDIATE expression [into_clause | using_clause | returning_clause]*
func (p *Parser) parseExecuteImmediate() {
	p.open(parsetree.KindExecuteImmediate)
	defer p.close()

	p.expect(TOKEN_EXECUTE)
	p.expect(TOKEN_IMMEDIATE)
	p.parseExpression()
	p.skipToSemicolon()
}
