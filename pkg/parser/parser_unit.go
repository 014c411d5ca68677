package parser

import (
	"github.com/leapstack-labs/sqlanalyser/pkg/parsetree"
)

// Unit parsing: CREATE PROCEDURE / FUNCTION / VIEW / TRIGGER, parameters,
// type specs and declaration sections.
//
// Grammar:
//
//	create_*            → CREATE [OR REPLACE] [EDITIONABLE | NONEDITIONABLE | EDITIONING]
//	                      [[NO] FORCE] (procedure | function | view | trigger)
//	procedure           → PROCEDURE procedure_name ["(" parameter ("," parameter)* ")"]
//	                      [invoker_rights_clause] (IS | AS) [DECLARE] [seq_of_declare_specs] body
//	function            → FUNCTION function_name ["(" parameter ("," parameter)* ")"]
//	                      RETURN type_spec function_option* (IS | AS) [DECLARE] [seq_of_declare_specs] body
//	parameter           → parameter_name (IN | OUT | INOUT | NOCOPY)* [type_spec] [default_value_part]
//	default_value_part  → (":=" | DEFAULT) expression
//	declare_spec        → variable_declaration | cursor_declaration | exception_declaration
//	                    | type_declaration | pragma_declaration | procedure_body | function_body

// parseCreate parses a CREATE statement. The rule kind is only known once
// the object keyword is reached, so the node is retagged then.
func (p *Parser) parseCreate() {
	id := p.open(parsetree.KindCreateProcedureBody)
	defer p.close()

	p.expect(TOKEN_CREATE)
	if p.match(TOKEN_OR) {
		p.expect(TOKEN_REPLACE)
	}
	for {
		switch {
		case p.match(TOKEN_EDITIONABLE), p.match(TOKEN_NONEDITIONABLE), p.match(TOKEN_EDITIONING),
			p.match(TOKEN_FORCE), p.match(TOKEN_NOFORCE):
			continue
		case p.checkWord(SoftKeywordNo) && p.peekAt(1).Type == TOKEN_FORCE:
			p.advance()
			p.advance()
			continue
		}
		break
	}

	switch {
	case p.check(TOKEN_PROCEDURE):
		p.b.Retag(id, parsetree.KindCreateProcedureBody)
		p.parseProcedureRest()
		p.match(TOKEN_SEMICOLON)
	case p.check(TOKEN_FUNCTION):
		p.b.Retag(id, parsetree.KindCreateFunctionBody)
		p.parseFunctionRest()
		p.match(TOKEN_SEMICOLON)
	case p.check(TOKEN_VIEW):
		p.b.Retag(id, parsetree.KindCreateView)
		p.parseViewRest()
	case p.check(TOKEN_TRIGGER):
		p.b.Retag(id, parsetree.KindCreateTrigger)
		p.parseTriggerRest()
		p.match(TOKEN_SEMICOLON)
	default:
		p.fail("PROCEDURE, FUNCTION, VIEW or TRIGGER")
	}
}

// parseProcedureRest parses a procedure from the PROCEDURE keyword on.
func (p *Parser) parseProcedureRest() {
	p.expect(TOKEN_PROCEDURE)
	p.parseQualifiedName(parsetree.KindProcedureName)
	p.parseParameterList()
	p.parseInvokerRights()

	// Forward declaration inside a declaration section
	if p.check(TOKEN_SEMICOLON) {
		return
	}
	if !p.match(TOKEN_IS) {
		p.expect(TOKEN_AS)
	}
	p.parseRoutineImplementation()
}

// parseFunctionRest parses a function from the FUNCTION keyword on.
func (p *Parser) parseFunctionRest() {
	p.expect(TOKEN_FUNCTION)
	p.parseQualifiedName(parsetree.KindFunctionName)
	p.parseParameterList()
	p.expect(TOKEN_RETURN)
	p.parseTypeSpec()

	for {
		switch {
		case p.check(TOKEN_AUTHID):
			p.parseInvokerRights()
		case p.match(TOKEN_DETERMINISTIC), p.match(TOKEN_PIPELINED):
		case p.match(TOKEN_PARALLEL_ENABLE), p.match(TOKEN_RESULT_CACHE):
			if p.check(TOKEN_LPAREN) {
				p.skipBalanced()
			}
		default:
			if p.check(TOKEN_SEMICOLON) {
				return
			}
			if !p.match(TOKEN_IS) {
				p.expect(TOKEN_AS)
			}
			p.parseRoutineImplementation()
			return
		}
	}
}

// parseRoutineImplementation parses what follows IS/AS in a routine.
func (p *Parser) parseRoutineImplementation() {
	if p.checkWord(SoftKeywordLanguage) || p.checkWord(SoftKeywordExternal) {
		p.skipToSemicolon()
		return
	}
	p.match(TOKEN_DECLARE)
	if !p.check(TOKEN_BEGIN) {
		p.parseSeqOfDeclareSpecs()
	}
	p.parseBody()
}

// parseInvokerRights parses AUTHID (CURRENT_USER | DEFINER).
func (p *Parser) parseInvokerRights() {
	if !p.check(TOKEN_AUTHID) {
		return
	}
	p.open(parsetree.KindInvokerRightsClause)
	defer p.close()

	p.advance()
	if !p.matchWord(SoftKeywordCurrentUser) {
		p.expectWord(SoftKeywordDefiner)
	}
}

// parseQualifiedName parses a one or two part name into a node of kind k.
//
//	name → identifier ["." id_expression]
func (p *Parser) parseQualifiedName(k parsetree.Kind) {
	p.open(k)
	defer p.close()

	p.parseIdentifier()
	if p.check(TOKEN_DOT) {
		p.advance()
		p.parseIDExpression()
	}
}

// parseIdentifier parses an identifier node.
func (p *Parser) parseIdentifier() {
	if !isIdentToken(p.cur()) {
		p.fail("identifier")
	}
	p.open(parsetree.KindIdentifier)
	p.advance()
	p.close()
}

// parseIDExpression parses the part of a name after a dot. Any keyword is
// accepted there since the dot already disambiguates it.
func (p *Parser) parseIDExpression() {
	if !isIdentToken(p.cur()) && !isKeywordAfterDot(p.cur()) {
		p.fail("identifier")
	}
	p.open(parsetree.KindIDExpression)
	p.advance()
	p.close()
}

func isKeywordAfterDot(tok Token) bool {
	return tok.Type != TOKEN_EOF && tok.Literal != "" && isIdentStart(tok.Literal[0])
}

// parseParameterList parses an optional parenthesized parameter list.
func (p *Parser) parseParameterList() {
	if !p.match(TOKEN_LPAREN) {
		return
	}
	for {
		p.parseParameter()
		if !p.match(TOKEN_COMMA) {
			break
		}
	}
	p.expect(TOKEN_RPAREN)
}

// parseParameter parses one routine or cursor parameter.
func (p *Parser) parseParameter() {
	p.open(parsetree.KindParameter)
	defer p.close()

	p.open(parsetree.KindParameterName)
	p.parseIdentifier()
	p.close()

	for p.match(TOKEN_IN) || p.match(TOKEN_OUT) || p.match(TOKEN_INOUT) || p.match(TOKEN_NOCOPY) {
	}

	if !p.checkAny(TOKEN_COMMA, TOKEN_RPAREN, TOKEN_ASSIGN, TOKEN_DEFAULT) {
		p.parseTypeSpec()
	}
	p.parseDefaultValuePart()
}

// parseDefaultValuePart parses an optional ":= expr" or "DEFAULT expr".
func (p *Parser) parseDefaultValuePart() {
	if !p.checkAny(TOKEN_ASSIGN, TOKEN_DEFAULT) {
		return
	}
	p.open(parsetree.KindDefaultValuePart)
	defer p.close()

	p.advance()
	p.parseExpression()
}

// parseTypeSpec parses a datatype reference.
//
//	type_spec → REF CURSOR [RETURN type_spec]
//	          | name ["." name]* ["%" (TYPE | ROWTYPE)] ["(" ... ")"] [multi-word suffix]
func (p *Parser) parseTypeSpec() {
	p.open(parsetree.KindTypeSpec)
	defer p.close()

	if p.checkWord(SoftKeywordRef) && p.peekAt(1).Type == TOKEN_CURSOR {
		p.advance()
		p.advance()
		if p.match(TOKEN_RETURN) {
			p.parseTypeSpec()
		}
		return
	}

	if !isIdentToken(p.cur()) {
		p.fail("datatype")
	}
	first := p.advance()
	for p.check(TOKEN_DOT) {
		p.advance()
		if !isKeywordAfterDot(p.cur()) {
			p.fail("identifier")
		}
		p.advance()
	}
	if p.match(TOKEN_PERCENT) {
		if !p.match(TOKEN_TYPE) {
			p.expectWord(SoftKeywordRowType)
		}
		return
	}

	switch {
	case isWord(first, "LONG"):
		p.matchWord("RAW")
	case isWord(first, "DOUBLE"):
		p.matchWord("PRECISION")
	case isWord(first, "INTERVAL"):
		// INTERVAL YEAR [(n)] TO MONTH | INTERVAL DAY [(n)] TO SECOND [(n)]
		if p.matchWord("YEAR") || p.matchWord("DAY") {
			if p.check(TOKEN_LPAREN) {
				p.skipBalanced()
			}
			p.expectWord(SoftKeywordTo)
			if !p.matchWord("MONTH") {
				p.expectWord("SECOND")
			}
		}
	}

	if p.check(TOKEN_LPAREN) {
		p.skipBalanced()
	}

	// TIMESTAMP [(n)] WITH [LOCAL] TIME ZONE
	if isWord(first, "TIMESTAMP") && p.check(TOKEN_WITH) &&
		(isWord(p.peekAt(1), SoftKeywordLocal) || isWord(p.peekAt(1), SoftKeywordTime)) {
		p.advance()
		p.matchWord(SoftKeywordLocal)
		p.expectWord(SoftKeywordTime)
		p.expectWord(SoftKeywordZone)
	}

	if p.checkWord(SoftKeywordCharacter) && p.checkPeek(TOKEN_SET) {
		p.advance()
		p.advance()
		p.advance()
	}
}

// ---------- Declarations ----------

// parseSeqOfDeclareSpecs parses declarations up to BEGIN.
func (p *Parser) parseSeqOfDeclareSpecs() {
	p.open(parsetree.KindSeqOfDeclareSpecs)
	defer p.close()

	for !p.checkAny(TOKEN_BEGIN, TOKEN_END, TOKEN_EOF) {
		p.parseDeclareSpec()
	}
}

// parseDeclareSpec parses a single declaration.
func (p *Parser) parseDeclareSpec() {
	p.open(parsetree.KindDeclareSpec)
	defer p.close()

	switch {
	case p.check(TOKEN_PROCEDURE):
		p.open(parsetree.KindProcedureBody)
		p.parseProcedureRest()
		p.close()
		p.expect(TOKEN_SEMICOLON)
	case p.check(TOKEN_FUNCTION):
		p.open(parsetree.KindFunctionBody)
		p.parseFunctionRest()
		p.close()
		p.expect(TOKEN_SEMICOLON)
	case p.check(TOKEN_CURSOR):
		p.parseCursorDeclaration()
	case p.check(TOKEN_TYPE), p.check(TOKEN_SUBTYPE):
		p.open(parsetree.KindTypeDeclaration)
		p.skipToSemicolon()
		p.close()
		p.expect(TOKEN_SEMICOLON)
	case p.check(TOKEN_PRAGMA):
		p.open(parsetree.KindPragmaDeclaration)
		p.skipToSemicolon()
		p.close()
		p.expect(TOKEN_SEMICOLON)
	case isIdentToken(p.cur()) && p.peekAt(1).Type == TOKEN_EXCEPTION:
		p.open(parsetree.KindExceptionDeclaration)
		p.parseIdentifier()
		p.advance()
		p.close()
		p.expect(TOKEN_SEMICOLON)
	default:
		p.parseVariableDeclaration()
	}
}

// parseVariableDeclaration parses a variable or constant.
//
//	variable_declaration → identifier [CONSTANT] type_spec [NOT NULL] [default_value_part] ";"
func (p *Parser) parseVariableDeclaration() {
	p.open(parsetree.KindVariableDeclaration)
	defer p.close()

	p.parseIdentifier()
	p.match(TOKEN_CONSTANT)
	p.parseTypeSpec()
	if p.match(TOKEN_NOT) {
		p.expect(TOKEN_NULL)
	}
	p.parseDefaultValuePart()
	p.expect(TOKEN_SEMICOLON)
}

// parseCursorDeclaration parses a cursor.
//
//	cursor_declaration → CURSOR identifier ["(" parameter ("," parameter)* ")"]
//	                     [RETURN type_spec] [IS select_statement] ";"
func (p *Parser) parseCursorDeclaration() {
	p.open(parsetree.KindCursorDeclaration)
	defer p.close()

	p.expect(TOKEN_CURSOR)
	p.parseIdentifier()
	p.parseParameterList()
	if p.match(TOKEN_RETURN) {
		p.parseTypeSpec()
	}
	if p.match(TOKEN_IS) {
		p.parseSelectStatement()
	}
	p.expect(TOKEN_SEMICOLON)
}

// ---------- Views ----------

// parseViewRest parses a view from the VIEW keyword on.
//
//	view → VIEW tableview_name [view_options] AS select_only_statement
//	       [subquery_restriction_clause]
func (p *Parser) parseViewRest() {
	p.expect(TOKEN_VIEW)
	p.parseTableviewName()
	if p.check(TOKEN_LPAREN) {
		p.open(parsetree.KindViewOptions)
		p.skipBalanced()
		p.close()
	}
	p.expect(TOKEN_AS)
	p.parseSelectOnlyStatement()
	if p.check(TOKEN_ORDER) {
		p.parseOrderByClause()
	}

	if p.check(TOKEN_WITH) {
		p.open(parsetree.KindSubqueryRestrictionClause)
		p.advance()
		if p.match(TOKEN_READ) {
			p.expect(TOKEN_ONLY)
		} else {
			p.expect(TOKEN_CHECK)
			p.expect(TOKEN_OPTION)
		}
		if p.match(TOKEN_CONSTRAINT) {
			p.parseIdentifier()
		}
		p.close()
	}
}

// ---------- Triggers ----------

// parseTriggerRest parses a trigger from the TRIGGER keyword on.
//
//	trigger            → TRIGGER trigger_name simple_dml_trigger [FOLLOWS name ("," name)*]
//	                     [ENABLE | DISABLE] [trigger_when_clause] trigger_body
//	simple_dml_trigger → (BEFORE | AFTER | INSTEAD OF) dml_event_clause
//	                     [referencing_clause] [for_each_row]
//	dml_event_clause   → dml_event_element (OR dml_event_element)* ON tableview_name
//	dml_event_element  → (DELETE | INSERT | UPDATE) [OF column_list]
//	trigger_when_clause → WHEN "(" condition ")"
//	trigger_body       → CALL routine_name | trigger_block
//	trigger_block      → [DECLARE seq_of_declare_specs] body
func (p *Parser) parseTriggerRest() {
	p.expect(TOKEN_TRIGGER)
	p.parseQualifiedName(parsetree.KindTriggerName)

	if !p.checkAny(TOKEN_BEFORE, TOKEN_AFTER, TOKEN_INSTEAD) {
		p.failf(ErrUnsupported, "a trigger other than a simple DML trigger")
	}
	p.parseSimpleDMLTrigger()

	if p.matchWord(SoftKeywordFollows) {
		for {
			p.parseQualifiedName(parsetree.KindTriggerName)
			if !p.match(TOKEN_COMMA) {
				break
			}
		}
	}
	if !p.matchWord(SoftKeywordEnable) {
		p.matchWord(SoftKeywordDisable)
	}

	if p.check(TOKEN_WHEN) {
		p.open(parsetree.KindTriggerWhenClause)
		p.advance()
		p.expect(TOKEN_LPAREN)
		p.parseCondition()
		p.expect(TOKEN_RPAREN)
		p.close()
	}

	p.parseTriggerBody()
}

func (p *Parser) parseSimpleDMLTrigger() {
	p.open(parsetree.KindSimpleDMLTrigger)
	defer p.close()

	if p.match(TOKEN_INSTEAD) {
		p.expect(TOKEN_OF)
	} else if !p.match(TOKEN_BEFORE) {
		p.expect(TOKEN_AFTER)
	}

	p.open(parsetree.KindDMLEventClause)
	for {
		p.open(parsetree.KindDMLEventElement)
		if !p.match(TOKEN_DELETE) && !p.match(TOKEN_INSERT) {
			p.expect(TOKEN_UPDATE)
		}
		if p.match(TOKEN_OF) {
			p.parseColumnList()
		}
		p.close()
		if !p.match(TOKEN_OR) {
			break
		}
	}
	p.expect(TOKEN_ON)
	p.parseTableviewName()
	p.close()

	if p.check(TOKEN_REFERENCING) {
		p.open(parsetree.KindReferencingClause)
		p.advance()
		for p.checkWord(SoftKeywordNew) || p.checkWord(SoftKeywordOld) || p.checkWord(SoftKeywordParent) {
			p.advance()
			p.match(TOKEN_AS)
			p.parseIdentifier()
		}
		p.close()
	}

	if p.check(TOKEN_FOR) && p.peekAt(1).Type == TOKEN_EACH {
		p.open(parsetree.KindForEachRow)
		p.advance()
		p.advance()
		p.expect(TOKEN_ROW)
		p.close()
	}
}

func (p *Parser) parseTriggerBody() {
	p.open(parsetree.KindTriggerBody)
	defer p.close()

	if p.checkWord(SoftKeywordCompound) {
		p.failf(ErrUnsupported, "COMPOUND TRIGGER")
	}
	if p.check(TOKEN_CALL) {
		p.parseFunctionCall()
		return
	}

	p.open(parsetree.KindTriggerBlock)
	defer p.close()

	if p.match(TOKEN_DECLARE) {
		p.parseSeqOfDeclareSpecs()
	}
	p.parseBody()
}
