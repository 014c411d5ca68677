package core

import "strings"

// TableName is a table reference. The embedded token covers the whole
// reference; Name, Owner and Alias are set when the source shape exposes them.
type TableName struct {
	TokenInfo `yaml:",inline"`
	Name      *TokenInfo `json:"name,omitempty" yaml:"name,omitempty"`
	Owner     *TokenInfo `json:"owner,omitempty" yaml:"owner,omitempty"`
	Alias     *TokenInfo `json:"alias,omitempty" yaml:"alias,omitempty"`
}

// NewTableName wraps tok as a table reference.
func NewTableName(tok TokenInfo) *TableName {
	return &TableName{TokenInfo: tok.WithType(TokenTableName)}
}

// QualifiedName returns owner.name when both parts are known, the name
// alone, or the raw reference text as a last resort.
func (t *TableName) QualifiedName() string {
	if t == nil {
		return ""
	}
	if t.Name == nil {
		return t.Symbol
	}
	if t.Owner != nil {
		return t.Owner.Symbol + "." + t.Name.Symbol
	}
	return t.Name.Symbol
}

// ColumnName is a column reference or projected select item.
type ColumnName struct {
	TokenInfo `yaml:",inline"`
	Name      *TokenInfo `json:"name,omitempty" yaml:"name,omitempty"`
	TableName *TokenInfo `json:"table_name,omitempty" yaml:"table_name,omitempty"`
	Alias     *TokenInfo `json:"alias,omitempty" yaml:"alias,omitempty"`
}

// NewColumnName wraps tok as a column reference.
func NewColumnName(tok TokenInfo) *ColumnName {
	return &ColumnName{TokenInfo: tok.WithType(TokenColumnName)}
}

// NameValueItem pairs a target with the expression assigned to it.
type NameValueItem struct {
	Name  TokenInfo `json:"name" yaml:"name"`
	Value TokenInfo `json:"value" yaml:"value"`
}

// ResolveMode selects how name resolution treats shapes it does not know.
type ResolveMode int

const (
	// ResolveLenient wraps the raw text of an unknown shape as a best-effort name.
	ResolveLenient ResolveMode = iota
	// ResolveStrict yields nothing for an unknown shape.
	ResolveStrict
)

func (m ResolveMode) String() string {
	if m == ResolveStrict {
		return "strict"
	}
	return "lenient"
}

// ParseResolveMode converts "strict" or "lenient" to a ResolveMode.
func ParseResolveMode(s string) (ResolveMode, bool) {
	switch strings.ToLower(s) {
	case "strict":
		return ResolveStrict, true
	case "lenient", "":
		return ResolveLenient, true
	default:
		return ResolveLenient, false
	}
}
