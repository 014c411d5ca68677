package parser

import (
	"fmt"

	"github.com/leapstack-labs/sqlanalyser/pkg/core"
)

// ParseError represents a parsing error with position information.
type ParseError struct {
	Pos     Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// SyntaxError converts the error into the model's syntax error value.
func (e *ParseError) SyntaxError() *core.SqlSyntaxError {
	return &core.SqlSyntaxError{
		Line:    e.Pos.Line,
		Column:  e.Pos.Column,
		Message: e.Message,
	}
}

// LexError represents a lexical analysis error.
type LexError struct {
	Pos     Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Common error messages
const (
	ErrUnexpectedToken    = "unexpected %s, expected %s"
	ErrUnterminatedString = "unterminated string literal"
	ErrUnterminatedIdent  = "unterminated quoted identifier"
	ErrUnterminatedBlock  = "unterminated block comment"
	ErrIllegalCharacter   = "illegal character %q"
	ErrUnsupported        = "%s is not supported"
)

// describe renders a token for error messages.
func describe(tok Token) string {
	switch tok.Type {
	case TOKEN_EOF:
		return "end of input"
	case TOKEN_STRING:
		return "string literal"
	default:
		return fmt.Sprintf("%q", tok.Literal)
	}
}
