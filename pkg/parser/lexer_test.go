package parser_test

import (
	"testing"

	"github.com/leapstack-labs/sqlanalyser/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(toks []parser.Token) []parser.TokenType {
	types := make([]parser.TokenType, 0, len(toks))
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	return types
}

func TestTokenizeOperators(t *testing.T) {
	toks, err := parser.Tokenize("a := b || c ** 2 => <> != ^= <= >= 1..10 @ %")
	require.Nil(t, err)

	assert.Equal(t, []parser.TokenType{
		parser.TOKEN_IDENT, parser.TOKEN_ASSIGN, parser.TOKEN_IDENT, parser.TOKEN_DPIPE,
		parser.TOKEN_IDENT, parser.TOKEN_POWER, parser.TOKEN_NUMBER, parser.TOKEN_ARROW,
		parser.TOKEN_NE, parser.TOKEN_NE, parser.TOKEN_NE, parser.TOKEN_LE, parser.TOKEN_GE,
		parser.TOKEN_NUMBER, parser.TOKEN_DOTDOT, parser.TOKEN_NUMBER, parser.TOKEN_AT,
		parser.TOKEN_PERCENT, parser.TOKEN_EOF,
	}, tokenTypes(toks))
}

func TestTokenizeLiterals(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		typ     parser.TokenType
		literal string
	}{
		{"string", "'hello'", parser.TOKEN_STRING, "hello"},
		{"escaped quote", "'it''s'", parser.TOKEN_STRING, "it's"},
		{"national string", "N'abc'", parser.TOKEN_STRING, "abc"},
		{"alternative quoting", "q'[it's]'", parser.TOKEN_STRING, "it's"},
		{"quoted identifier", `"My Table"`, parser.TOKEN_IDENT, `"My Table"`},
		{"identifier with dollar", "v$session", parser.TOKEN_IDENT, "v$session"},
		{"decimal", "3.14", parser.TOKEN_NUMBER, "3.14"},
		{"leading dot", ".5", parser.TOKEN_NUMBER, ".5"},
		{"exponent", "1e-3", parser.TOKEN_NUMBER, "1e-3"},
		{"bind name", ":new", parser.TOKEN_BIND, ":new"},
		{"bind position", ":1", parser.TOKEN_BIND, ":1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := parser.Tokenize(tt.input)
			require.Nil(t, err)
			require.Len(t, toks, 2)
			assert.Equal(t, tt.typ, toks[0].Type)
			assert.Equal(t, tt.literal, toks[0].Literal)
		})
	}
}

func TestTokenizeKeywordsCaseInsensitive(t *testing.T) {
	toks, err := parser.Tokenize("begin Begin BEGIN elsif Loop")
	require.Nil(t, err)

	assert.Equal(t, []parser.TokenType{
		parser.TOKEN_BEGIN, parser.TOKEN_BEGIN, parser.TOKEN_BEGIN,
		parser.TOKEN_ELSIF, parser.TOKEN_LOOP, parser.TOKEN_EOF,
	}, tokenTypes(toks))
	assert.Equal(t, "Begin", toks[1].Literal, "literal keeps source case")
}

func TestTokenizeSkipsComments(t *testing.T) {
	toks, err := parser.Tokenize("a -- line comment\n/* block\ncomment */ b")
	require.Nil(t, err)
	require.Len(t, toks, 3)

	assert.Equal(t, "a", toks[0].Literal)
	assert.Equal(t, "b", toks[1].Literal)
	assert.Equal(t, 3, toks[1].Pos.Line)
}

func TestTokenizePositions(t *testing.T) {
	toks, err := parser.Tokenize("SELECT x\n  FROM t")
	require.Nil(t, err)

	assert.Equal(t, parser.Position{Line: 1, Column: 1, Offset: 0}, toks[0].Pos)
	assert.Equal(t, parser.Position{Line: 2, Column: 3, Offset: 11}, toks[2].Pos)
	assert.Equal(t, 15, toks[2].End.Offset)
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
		line  int
	}{
		{"unterminated string", "x := 'abc", parser.ErrUnterminatedString, 1},
		{"unterminated identifier", `"abc`, parser.ErrUnterminatedIdent, 1},
		{"unterminated comment", "x\n/* never closed", parser.ErrUnterminatedBlock, 2},
		{"illegal character", "a ? b", `illegal character '?'`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := parser.Tokenize(tt.input)
			require.NotNil(t, err)
			assert.Equal(t, tt.msg, err.Message)
			assert.Equal(t, tt.line, err.Pos.Line)
			assert.Equal(t, parser.TOKEN_EOF, toks[len(toks)-1].Type)
		})
	}
}
