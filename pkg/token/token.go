// Package token defines the token types for PL/SQL lexing.
//
// Core SQL tokens are defined as constants (IDs 0-999) for switch performance.
// Procedural keywords are registered dynamically via Register().
package token

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT  // identifier or "quoted identifier"
	NUMBER // 123, 45.67, 1e10
	STRING // 'hello', N'hello'
	BIND   // :name, :NEW

	// Operators
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	PERCENT   // %
	DPIPE     // ||
	EQ        // =
	NE        // != or <> or ^=
	LT        // <
	GT        // >
	LE        // <=
	GE        // >=
	DOT       // .
	COMMA     // ,
	LPAREN    // (
	RPAREN    // )
	SEMICOLON // ;
	ASSIGN    // :=
	ARROW     // =>
	DOTDOT    // ..
	POWER     // **
	AT        // @

	// Core SQL keywords (alphabetical)
	ALL
	AND
	ANY
	AS
	ASC
	BETWEEN
	BY
	CASE
	CREATE
	CROSS
	CURRENT
	DELETE
	DESC
	DISTINCT
	ELSE
	END
	EXISTS
	FALSE
	FETCH
	FIRST
	FOR
	FROM
	FULL
	GROUP
	HAVING
	IF
	IN
	INNER
	INSERT
	INTERSECT
	INTO
	IS
	JOIN
	LAST
	LEFT
	LIKE
	NATURAL
	NEXT
	NOT
	NULL
	NULLS
	OF
	OFFSET
	ON
	ONLY
	OR
	ORDER
	OUTER
	REPLACE
	RIGHT
	ROW
	ROWS
	SELECT
	SET
	THEN
	TRUE
	UNION
	UNIQUE
	UPDATE
	USING
	VALUES
	VIEW
	WHEN
	WHERE
	WITH

	// Sentinel - dynamic tokens start after this
	maxBuiltin TokenType = 999
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := getDynamicName(t); ok {
		return name
	}
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// tokenNames maps builtin token types to their string representations.
var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",
	BIND:   "BIND",

	PLUS:      "+",
	MINUS:     "-",
	STAR:      "*",
	SLASH:     "/",
	PERCENT:   "%",
	DPIPE:     "||",
	EQ:        "=",
	NE:        "!=",
	LT:        "<",
	GT:        ">",
	LE:        "<=",
	GE:        ">=",
	DOT:       ".",
	COMMA:     ",",
	LPAREN:    "(",
	RPAREN:    ")",
	SEMICOLON: ";",
	ASSIGN:    ":=",
	ARROW:     "=>",
	DOTDOT:    "..",
	POWER:     "**",
	AT:        "@",
}

// keywords maps lowercase keyword strings to their token types.
var keywords = map[string]TokenType{}

func init() {
	for t := ALL; t <= WITH; t++ {
		name := builtinKeywordNames[t-ALL]
		tokenNames[t] = name
		keywords[strings.ToLower(name)] = t
	}
}

// builtinKeywordNames lists keyword spellings in declaration order.
var builtinKeywordNames = [...]string{
	"ALL", "AND", "ANY", "AS", "ASC", "BETWEEN", "BY", "CASE", "CREATE", "CROSS",
	"CURRENT", "DELETE", "DESC", "DISTINCT", "ELSE", "END", "EXISTS", "FALSE", "FETCH",
	"FIRST", "FOR", "FROM", "FULL", "GROUP", "HAVING", "IF", "IN", "INNER", "INSERT",
	"INTERSECT", "INTO", "IS", "JOIN", "LAST", "LEFT", "LIKE", "NATURAL", "NEXT", "NOT",
	"NULL", "NULLS", "OF", "OFFSET", "ON", "ONLY", "OR", "ORDER", "OUTER", "REPLACE",
	"RIGHT", "ROW", "ROWS", "SELECT", "SET", "THEN", "TRUE", "UNION", "UNIQUE", "UPDATE",
	"USING", "VALUES", "VIEW", "WHEN", "WHERE", "WITH",
}

// LookupIdent returns the token type for the given identifier.
// Builtin keywords are checked first, then dynamically registered ones.
// Lookup is case-insensitive.
func LookupIdent(ident string) TokenType {
	lower := strings.ToLower(ident)
	if tok, ok := keywords[lower]; ok {
		return tok
	}
	if tok, ok := LookupDynamicKeyword(lower); ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a keyword, builtin or registered.
func IsKeyword(t TokenType) bool {
	return (t >= ALL && t <= WITH) || IsDynamic(t)
}

// IsOperator returns true if the token type is an operator.
func IsOperator(t TokenType) bool {
	return t >= PLUS && t <= AT
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position // first byte
	End     Position // one past the last byte
}

// Span returns the source range covered by the token.
func (t Token) Span() Span {
	return Span{Start: t.Pos, End: t.End}
}
