// Package parser provides PL/SQL parsing into a concrete parse tree.
//
// # Usage
//
//	tree, synErr := parser.Parse(sql)
//	if synErr != nil {
//	    // handle error
//	}
//
// # Grammar Overview
//
// The parser is a recursive descent parser over a pre-tokenized input.
// It covers the procedural units analysed downstream:
//
//	sql_script      → (unit_statement [";"] ["/"])* EOF
//	unit_statement  → create_procedure_body | create_function_body
//	                | create_view | create_trigger | anonymous_block
//	                | sql_statement
//
// Every consumed token becomes a terminal node under the rule being parsed,
// so a node's text is always the exact source slice it was built from.
// See each file for detailed grammar rules for that section.
//
// Parsing stops at the first syntax error. Malformed input never panics out
// of Parse; it is reported as a *core.SqlSyntaxError.
package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlanalyser/pkg/core"
	"github.com/leapstack-labs/sqlanalyser/pkg/parsetree"
)

// Parser parses PL/SQL into a parse tree.
type Parser struct {
	toks []Token
	pos  int
	b    *parsetree.Builder
}

// bailout carries the first syntax error up the recursive descent.
type bailout struct {
	err *ParseError
}

// Parse parses sql and returns its parse tree rooted at a sql_script node.
// On a syntax error the partial tree built so far is returned with the error.
func Parse(sql string) (*parsetree.Tree, *core.SqlSyntaxError) {
	toks, lexErr := Tokenize(sql)
	if lexErr != nil {
		return nil, &core.SqlSyntaxError{Line: lexErr.Pos.Line, Column: lexErr.Pos.Column, Message: lexErr.Message}
	}

	p := &Parser{
		toks: toks,
		b:    parsetree.NewBuilder(sql),
	}
	if err := p.run(p.parseSQLScript); err != nil {
		return p.b.Tree(), err.SyntaxError()
	}
	return p.b.Tree(), nil
}

// run invokes fn and converts a bailout or any unexpected panic into a
// ParseError at the current token.
func (p *Parser) run(fn func()) (err *ParseError) {
	defer func() {
		if r := recover(); r != nil {
			if b, ok := r.(bailout); ok {
				err = b.err
				return
			}
			err = &ParseError{
				Pos:     p.cur().Pos,
				Message: fmt.Sprintf("internal parser error: %v", r),
			}
		}
	}()
	fn()
	return nil
}

// ---------- Tree Helpers ----------

func (p *Parser) open(k parsetree.Kind) parsetree.NodeID {
	return p.b.Open(k)
}

func (p *Parser) close() {
	p.b.Close()
}

// ---------- Token Helpers ----------

// cur returns the current token. The token slice always ends with EOF.
func (p *Parser) cur() Token {
	return p.toks[p.pos]
}

// peekAt returns the token n positions ahead of the current one.
func (p *Parser) peekAt(n int) Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t TokenType) bool {
	return p.cur().Type == t
}

// checkPeek returns true if the next token is of the given type.
func (p *Parser) checkPeek(t TokenType) bool {
	return p.peekAt(1).Type == t
}

// checkAny returns true if the current token is any of the given types.
func (p *Parser) checkAny(types ...TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			return true
		}
	}
	return false
}

// checkWord returns true if the current token is an identifier spelled w.
func (p *Parser) checkWord(w string) bool {
	return isWord(p.cur(), w)
}

func isWord(tok Token, w string) bool {
	return tok.Type != TOKEN_STRING && tok.Type != TOKEN_BIND && strings.EqualFold(tok.Literal, w)
}

// advance records the current token as a terminal and moves past it.
func (p *Parser) advance() Token {
	tok := p.cur()
	if tok.Type == TOKEN_EOF {
		p.fail("more input")
	}
	p.b.Terminal(tok)
	p.pos++
	return tok
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

// matchWord consumes the current token if it is the soft keyword w.
func (p *Parser) matchWord(w string) bool {
	if p.checkWord(w) {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise fails.
func (p *Parser) expect(t TokenType) {
	if !p.match(t) {
		p.fail(t.String())
	}
}

// expectWord consumes the soft keyword w or fails.
func (p *Parser) expectWord(w string) {
	if !p.matchWord(w) {
		p.fail(w)
	}
}

// fail aborts parsing with an "unexpected token" error at the current token.
func (p *Parser) fail(expected string) {
	p.failf(ErrUnexpectedToken, describe(p.cur()), expected)
}

// failf aborts parsing with a formatted error at the current token.
func (p *Parser) failf(format string, args ...any) {
	panic(bailout{err: &ParseError{
		Pos:     p.cur().Pos,
		Message: fmt.Sprintf(format, args...),
	}})
}

// skipBalanced consumes a parenthesized token run as terminals of the
// current node. The current token must be "(".
func (p *Parser) skipBalanced() {
	p.expect(TOKEN_LPAREN)
	depth := 1
	for depth > 0 {
		switch p.cur().Type {
		case TOKEN_LPAREN:
			depth++
		case TOKEN_RPAREN:
			depth--
		case TOKEN_EOF:
			p.fail(")")
		}
		p.advance()
	}
}

// skipToSemicolon consumes tokens up to, not including, the next ";".
func (p *Parser) skipToSemicolon() {
	for !p.check(TOKEN_SEMICOLON) && !p.check(TOKEN_EOF) {
		if p.check(TOKEN_LPAREN) {
			p.skipBalanced()
			continue
		}
		p.advance()
	}
}

// ---------- Script ----------

// parseSQLScript parses the whole input.
//
//	sql_script → (unit_statement [";"] ["/"])* EOF
func (p *Parser) parseSQLScript() {
	p.open(parsetree.KindSQLScript)
	defer p.close()

	for !p.check(TOKEN_EOF) {
		if p.match(TOKEN_SEMICOLON) || p.match(TOKEN_SLASH) {
			continue
		}
		p.parseUnitStatement()
	}
}

// parseUnitStatement parses one top-level unit.
func (p *Parser) parseUnitStatement() {
	p.open(parsetree.KindUnitStatement)
	defer p.close()

	switch {
	case p.check(TOKEN_CREATE):
		p.parseCreate()
	case p.checkAny(TOKEN_DECLARE, TOKEN_BEGIN):
		p.parseAnonymousBlock()
	case p.checkAny(TOKEN_SELECT, TOKEN_WITH, TOKEN_INSERT, TOKEN_UPDATE, TOKEN_DELETE,
		TOKEN_COMMIT, TOKEN_ROLLBACK, TOKEN_SAVEPOINT):
		p.parseSQLStatement()
	default:
		p.fail("CREATE, DECLARE, BEGIN or a SQL statement")
	}
}

// parseAnonymousBlock parses a top-level block.
//
//	anonymous_block → [DECLARE seq_of_declare_specs] body
func (p *Parser) parseAnonymousBlock() {
	p.open(parsetree.KindAnonymousBlock)
	defer p.close()

	if p.match(TOKEN_DECLARE) {
		p.parseSeqOfDeclareSpecs()
	}
	p.parseBody()
}
