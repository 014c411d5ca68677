package core

// =============================================================================
// Query Model
// =============================================================================

// JoinType is the kind of a join item.
type JoinType string

// Join types.
const (
	JoinInner   JoinType = "INNER"
	JoinLeft    JoinType = "LEFT"
	JoinRight   JoinType = "RIGHT"
	JoinFull    JoinType = "FULL"
	JoinCross   JoinType = "CROSS"
	JoinPivot   JoinType = "PIVOT"
	JoinUnpivot JoinType = "UNPIVOT"
)

// UnionType is the set operator joining a branch to the first query.
type UnionType string

// Set operators.
const (
	Union     UnionType = "UNION"
	UnionAll  UnionType = "UNION_ALL"
	Intersect UnionType = "INTERSECT"
	Minus     UnionType = "MINUS"
)

// SelectStatement is a query. Clause fields are nil or empty when the
// source omits them.
type SelectStatement struct {
	Columns         []ColumnName      `json:"columns,omitempty" yaml:"columns,omitempty"`
	FromItems       []FromItem        `json:"from_items,omitempty" yaml:"from_items,omitempty"`
	IntoTableName   *TableName        `json:"into_table_name,omitempty" yaml:"into_table_name,omitempty"`
	Where           *TokenInfo        `json:"where,omitempty" yaml:"where,omitempty"`
	GroupBy         []TokenInfo       `json:"group_by,omitempty" yaml:"group_by,omitempty"`
	Having          *TokenInfo        `json:"having,omitempty" yaml:"having,omitempty"`
	OrderBy         []TokenInfo       `json:"order_by,omitempty" yaml:"order_by,omitempty"`
	LimitInfo       *LimitInfo        `json:"limit_info,omitempty" yaml:"limit_info,omitempty"`
	WithStatements  []*WithStatement  `json:"with_statements,omitempty" yaml:"with_statements,omitempty"`
	UnionStatements []*UnionStatement `json:"union_statements,omitempty" yaml:"union_statements,omitempty"`
}

// LimitInfo holds the row-limiting clause of a query.
type LimitInfo struct {
	StartRowIndex *TokenInfo `json:"start_row_index,omitempty" yaml:"start_row_index,omitempty"`
	RowCount      *TokenInfo `json:"row_count,omitempty" yaml:"row_count,omitempty"`
}

// WithStatement is one named subquery of a WITH clause.
type WithStatement struct {
	Name            TokenInfo        `json:"name" yaml:"name"`
	Columns         []ColumnName     `json:"columns,omitempty" yaml:"columns,omitempty"`
	SelectStatement *SelectStatement `json:"select_statement" yaml:"select_statement"`
}

// UnionStatement is a set-operation branch appended to the first query.
type UnionStatement struct {
	Type            UnionType        `json:"type" yaml:"type"`
	SelectStatement *SelectStatement `json:"select_statement" yaml:"select_statement"`
}

// FromItem is one FROM target with the joins chained onto it. For a
// derived table SubSelectStatement is set and TableName carries only its
// alias, if any.
type FromItem struct {
	TableName          *TableName       `json:"table_name,omitempty" yaml:"table_name,omitempty"`
	SubSelectStatement *SelectStatement `json:"sub_select_statement,omitempty" yaml:"sub_select_statement,omitempty"`
	JoinItems          []JoinItem       `json:"join_items,omitempty" yaml:"join_items,omitempty"`
}

// JoinItem is an explicit join or a PIVOT/UNPIVOT pseudo-join. A joined
// derived table sets SubSelectStatement the way FromItem does.
type JoinItem struct {
	Type               JoinType         `json:"type" yaml:"type"`
	TableName          *TableName       `json:"table_name,omitempty" yaml:"table_name,omitempty"`
	SubSelectStatement *SelectStatement `json:"sub_select_statement,omitempty" yaml:"sub_select_statement,omitempty"`
	Condition          *TokenInfo       `json:"condition,omitempty" yaml:"condition,omitempty"`
	PivotItem          *PivotItem       `json:"pivot_item,omitempty" yaml:"pivot_item,omitempty"`
	UnPivotItem        *UnPivotItem     `json:"unpivot_item,omitempty" yaml:"unpivot_item,omitempty"`
}

// PivotItem is the payload of a PIVOT join.
type PivotItem struct {
	AggregationFunctionName TokenInfo   `json:"aggregation_function_name" yaml:"aggregation_function_name"`
	AggregatedColumnName    TokenInfo   `json:"aggregated_column_name" yaml:"aggregated_column_name"`
	ColumnName              *ColumnName `json:"column_name,omitempty" yaml:"column_name,omitempty"`
	Values                  []TokenInfo `json:"values,omitempty" yaml:"values,omitempty"`
}

// UnPivotItem is the payload of an UNPIVOT join.
type UnPivotItem struct {
	ValueColumnName *ColumnName  `json:"value_column_name,omitempty" yaml:"value_column_name,omitempty"`
	ForColumnName   *ColumnName  `json:"for_column_name,omitempty" yaml:"for_column_name,omitempty"`
	InColumnNames   []ColumnName `json:"in_column_names,omitempty" yaml:"in_column_names,omitempty"`
}

func (*SelectStatement) stmtNode() {}
func (*WithStatement) stmtNode()   {}
func (*UnionStatement) stmtNode()  {}
