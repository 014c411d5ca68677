// Package parser provides PL/SQL lexing and parsing into a concrete parse tree.
// This file provides token type aliases and registers the procedural keywords.
package parser

import "github.com/leapstack-labs/sqlanalyser/pkg/token"

// TokenType is an alias for token.TokenType.
type TokenType = token.TokenType

// Token is an alias for token.Token.
type Token = token.Token

// Position is an alias for token.Position.
type Position = token.Position

// LookupIdent is re-exported from token package.
var LookupIdent = token.LookupIdent

//nolint:revive // TOKEN_* names are intentionally ALL_CAPS for SQL token conventions
const (
	// Special tokens
	TOKEN_EOF     = token.EOF
	TOKEN_ILLEGAL = token.ILLEGAL

	// Literals
	TOKEN_IDENT  = token.IDENT
	TOKEN_NUMBER = token.NUMBER
	TOKEN_STRING = token.STRING
	TOKEN_BIND   = token.BIND

	// Operators
	TOKEN_PLUS      = token.PLUS
	TOKEN_MINUS     = token.MINUS
	TOKEN_STAR      = token.STAR
	TOKEN_SLASH     = token.SLASH
	TOKEN_PERCENT   = token.PERCENT
	TOKEN_DPIPE     = token.DPIPE
	TOKEN_EQ        = token.EQ
	TOKEN_NE        = token.NE
	TOKEN_LT        = token.LT
	TOKEN_GT        = token.GT
	TOKEN_LE        = token.LE
	TOKEN_GE        = token.GE
	TOKEN_DOT       = token.DOT
	TOKEN_COMMA     = token.COMMA
	TOKEN_LPAREN    = token.LPAREN
	TOKEN_RPAREN    = token.RPAREN
	TOKEN_SEMICOLON = token.SEMICOLON
	TOKEN_ASSIGN    = token.ASSIGN
	TOKEN_ARROW     = token.ARROW
	TOKEN_DOTDOT    = token.DOTDOT
	TOKEN_POWER     = token.POWER
	TOKEN_AT        = token.AT

	// Core SQL keywords
	TOKEN_ALL       = token.ALL
	TOKEN_AND       = token.AND
	TOKEN_ANY       = token.ANY
	TOKEN_AS        = token.AS
	TOKEN_ASC       = token.ASC
	TOKEN_BETWEEN   = token.BETWEEN
	TOKEN_BY        = token.BY
	TOKEN_CASE      = token.CASE
	TOKEN_CREATE    = token.CREATE
	TOKEN_CROSS     = token.CROSS
	TOKEN_CURRENT   = token.CURRENT
	TOKEN_DELETE    = token.DELETE
	TOKEN_DESC      = token.DESC
	TOKEN_DISTINCT  = token.DISTINCT
	TOKEN_ELSE      = token.ELSE
	TOKEN_END       = token.END
	TOKEN_EXISTS    = token.EXISTS
	TOKEN_FALSE     = token.FALSE
	TOKEN_FETCH     = token.FETCH
	TOKEN_FIRST     = token.FIRST
	TOKEN_FOR       = token.FOR
	TOKEN_FROM      = token.FROM
	TOKEN_FULL      = token.FULL
	TOKEN_GROUP     = token.GROUP
	TOKEN_HAVING    = token.HAVING
	TOKEN_IF        = token.IF
	TOKEN_IN        = token.IN
	TOKEN_INNER     = token.INNER
	TOKEN_INSERT    = token.INSERT
	TOKEN_INTERSECT = token.INTERSECT
	TOKEN_INTO      = token.INTO
	TOKEN_IS        = token.IS
	TOKEN_JOIN      = token.JOIN
	TOKEN_LAST      = token.LAST
	TOKEN_LEFT      = token.LEFT
	TOKEN_LIKE      = token.LIKE
	TOKEN_NATURAL   = token.NATURAL
	TOKEN_NEXT      = token.NEXT
	TOKEN_NOT       = token.NOT
	TOKEN_NULL      = token.NULL
	TOKEN_NULLS     = token.NULLS
	TOKEN_OF        = token.OF
	TOKEN_OFFSET    = token.OFFSET
	TOKEN_ON        = token.ON
	TOKEN_ONLY      = token.ONLY
	TOKEN_OR        = token.OR
	TOKEN_ORDER     = token.ORDER
	TOKEN_OUTER     = token.OUTER
	TOKEN_REPLACE   = token.REPLACE
	TOKEN_RIGHT     = token.RIGHT
	TOKEN_ROW       = token.ROW
	TOKEN_ROWS      = token.ROWS
	TOKEN_SELECT    = token.SELECT
	TOKEN_SET       = token.SET
	TOKEN_THEN      = token.THEN
	TOKEN_TRUE      = token.TRUE
	TOKEN_UNION     = token.UNION
	TOKEN_UNIQUE    = token.UNIQUE
	TOKEN_UPDATE    = token.UPDATE
	TOKEN_USING     = token.USING
	TOKEN_VALUES    = token.VALUES
	TOKEN_VIEW      = token.VIEW
	TOKEN_WHEN      = token.WHEN
	TOKEN_WHERE     = token.WHERE
	TOKEN_WITH      = token.WITH
)

// Procedural keywords, registered dynamically on top of the core SQL set.
//
//nolint:revive // TOKEN_* names are intentionally ALL_CAPS for SQL token conventions
var (
	TOKEN_AFTER           = token.Register("AFTER")
	TOKEN_AUTHID          = token.Register("AUTHID")
	TOKEN_BEFORE          = token.Register("BEFORE")
	TOKEN_BEGIN           = token.Register("BEGIN")
	TOKEN_BULK            = token.Register("BULK")
	TOKEN_CALL            = token.Register("CALL")
	TOKEN_CHECK           = token.Register("CHECK")
	TOKEN_CLOSE           = token.Register("CLOSE")
	TOKEN_COLLECT         = token.Register("COLLECT")
	TOKEN_COMMIT          = token.Register("COMMIT")
	TOKEN_CONNECT         = token.Register("CONNECT")
	TOKEN_CONSTANT        = token.Register("CONSTANT")
	TOKEN_CONSTRAINT      = token.Register("CONSTRAINT")
	TOKEN_CONTINUE        = token.Register("CONTINUE")
	TOKEN_CURSOR          = token.Register("CURSOR")
	TOKEN_DECLARE         = token.Register("DECLARE")
	TOKEN_DEFAULT         = token.Register("DEFAULT")
	TOKEN_DETERMINISTIC   = token.Register("DETERMINISTIC")
	TOKEN_EACH            = token.Register("EACH")
	TOKEN_EDITIONABLE     = token.Register("EDITIONABLE")
	TOKEN_EDITIONING      = token.Register("EDITIONING")
	TOKEN_ELSIF           = token.Register("ELSIF")
	TOKEN_ESCAPE          = token.Register("ESCAPE")
	TOKEN_EXCEPT          = token.Register("EXCEPT")
	TOKEN_EXCEPTION       = token.Register("EXCEPTION")
	TOKEN_EXECUTE         = token.Register("EXECUTE")
	TOKEN_EXIT            = token.Register("EXIT")
	TOKEN_FORALL          = token.Register("FORALL")
	TOKEN_FORCE           = token.Register("FORCE")
	TOKEN_FUNCTION        = token.Register("FUNCTION")
	TOKEN_GOTO            = token.Register("GOTO")
	TOKEN_IMMEDIATE       = token.Register("IMMEDIATE")
	TOKEN_INOUT           = token.Register("INOUT")
	TOKEN_INSTEAD         = token.Register("INSTEAD")
	TOKEN_KEEP            = token.Register("KEEP")
	TOKEN_LIMIT           = token.Register("LIMIT")
	TOKEN_LOOP            = token.Register("LOOP")
	TOKEN_MINUS_KW        = token.Register("MINUS")
	TOKEN_NOCOPY          = token.Register("NOCOPY")
	TOKEN_NOFORCE         = token.Register("NOFORCE")
	TOKEN_NONEDITIONABLE  = token.Register("NONEDITIONABLE")
	TOKEN_OPEN            = token.Register("OPEN")
	TOKEN_OPTION          = token.Register("OPTION")
	TOKEN_OUT             = token.Register("OUT")
	TOKEN_OVER            = token.Register("OVER")
	TOKEN_PARALLEL_ENABLE = token.Register("PARALLEL_ENABLE")
	TOKEN_PARTITION       = token.Register("PARTITION")
	TOKEN_PIPELINED       = token.Register("PIPELINED")
	TOKEN_PIVOT           = token.Register("PIVOT")
	TOKEN_PRAGMA          = token.Register("PRAGMA")
	TOKEN_PRIOR           = token.Register("PRIOR")
	TOKEN_PROCEDURE       = token.Register("PROCEDURE")
	TOKEN_RAISE           = token.Register("RAISE")
	TOKEN_READ            = token.Register("READ")
	TOKEN_REFERENCING     = token.Register("REFERENCING")
	TOKEN_RESULT_CACHE    = token.Register("RESULT_CACHE")
	TOKEN_RETURN          = token.Register("RETURN")
	TOKEN_RETURNING       = token.Register("RETURNING")
	TOKEN_REVERSE         = token.Register("REVERSE")
	TOKEN_ROLLBACK        = token.Register("ROLLBACK")
	TOKEN_SAVEPOINT       = token.Register("SAVEPOINT")
	TOKEN_START           = token.Register("START")
	TOKEN_SUBTYPE         = token.Register("SUBTYPE")
	TOKEN_TRANSACTION     = token.Register("TRANSACTION")
	TOKEN_TRIGGER         = token.Register("TRIGGER")
	TOKEN_TYPE            = token.Register("TYPE")
	TOKEN_UNPIVOT         = token.Register("UNPIVOT")
	TOKEN_WHILE           = token.Register("WHILE")
	TOKEN_WITHIN          = token.Register("WITHIN")
	TOKEN_WORK            = token.Register("WORK")
)
