package core

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlanalyser/pkg/token"
)

// =============================================================================
// TokenType
// =============================================================================

// TokenType is the semantic role of a source fragment in the model.
type TokenType int

// Token roles.
const (
	TokenGeneral TokenType = iota
	TokenTableName
	TokenColumnName
	TokenVariableName
	TokenRoutineName
	TokenCursorName
	TokenParameterName
	TokenDataType
	TokenCondition
	TokenOrderBy
	TokenGroupBy
)

var tokenTypeNames = [...]string{
	TokenGeneral:       "General",
	TokenTableName:     "TableName",
	TokenColumnName:    "ColumnName",
	TokenVariableName:  "VariableName",
	TokenRoutineName:   "RoutineName",
	TokenCursorName:    "CursorName",
	TokenParameterName: "ParameterName",
	TokenDataType:      "DataType",
	TokenCondition:     "Condition",
	TokenOrderBy:       "OrderBy",
	TokenGroupBy:       "GroupBy",
}

// String returns the name of the token role.
func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// ParseTokenType converts a role name to a TokenType.
// Returns TokenGeneral and false if the name is unknown.
func ParseTokenType(s string) (TokenType, bool) {
	for i, name := range tokenTypeNames {
		if strings.EqualFold(name, s) {
			return TokenType(i), true
		}
	}
	return TokenGeneral, false
}

// MarshalText implements encoding.TextMarshaler.
func (t TokenType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TokenType) UnmarshalText(b []byte) error {
	v, ok := ParseTokenType(string(b))
	if !ok {
		return fmt.Errorf("unknown token type %q", string(b))
	}
	*t = v
	return nil
}

// =============================================================================
// TokenInfo
// =============================================================================

// TokenInfo is an immutable source fragment tagged with its semantic role.
// Symbol is the exact source text, case and whitespace preserved.
type TokenInfo struct {
	Symbol string     `json:"symbol" yaml:"symbol"`
	Type   TokenType  `json:"type" yaml:"type"`
	Span   token.Span `json:"span" yaml:"span"`
}

// NewToken creates a token for symbol covering span.
func NewToken(symbol string, typ TokenType, span token.Span) TokenInfo {
	return TokenInfo{Symbol: symbol, Type: typ, Span: span}
}

// TextToken creates a token that has no source location.
func TextToken(symbol string, typ TokenType) TokenInfo {
	return TokenInfo{Symbol: symbol, Type: typ}
}

// WithType returns a copy of t carrying a different role.
func (t TokenInfo) WithType(typ TokenType) TokenInfo {
	t.Type = typ
	return t
}

// IsEmpty reports whether the token carries no text.
func (t TokenInfo) IsEmpty() bool {
	return t.Symbol == ""
}

func (t TokenInfo) String() string {
	return t.Symbol
}

// TokenPtr returns a pointer to a copy of t, for optional model fields.
func TokenPtr(t TokenInfo) *TokenInfo {
	return &t
}
