package core

// Statement is any node of the canonical statement tree.
// The set is closed; the marker method keeps other packages from adding
// variants.
type Statement interface {
	stmtNode()
}

// =============================================================================
// DML
// =============================================================================

// InsertStatement is INSERT INTO table [(columns)] VALUES (...) | query.
type InsertStatement struct {
	TableName       *TableName       `json:"table_name,omitempty" yaml:"table_name,omitempty"`
	Columns         []ColumnName     `json:"columns,omitempty" yaml:"columns,omitempty"`
	Values          []TokenInfo      `json:"values,omitempty" yaml:"values,omitempty"`
	SelectStatement *SelectStatement `json:"select_statement,omitempty" yaml:"select_statement,omitempty"`
}

// UpdateStatement is UPDATE table SET col = expr, ... [WHERE cond].
type UpdateStatement struct {
	TableNames []TableName     `json:"table_names,omitempty" yaml:"table_names,omitempty"`
	SetItems   []NameValueItem `json:"set_items,omitempty" yaml:"set_items,omitempty"`
	Condition  *TokenInfo      `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// DeleteStatement is DELETE FROM table [WHERE cond].
type DeleteStatement struct {
	TableName *TableName `json:"table_name,omitempty" yaml:"table_name,omitempty"`
	Condition *TokenInfo `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// =============================================================================
// Control Flow
// =============================================================================

// IfStatementType tags one branch of an IF statement.
type IfStatementType string

// Branch tags.
const (
	IfBranch     IfStatementType = "IF"
	ElseIfBranch IfStatementType = "ELSEIF"
	ElseBranch   IfStatementType = "ELSE"
)

// IfStatementItem is one branch. Condition is nil only for ELSE.
type IfStatementItem struct {
	Type       IfStatementType `json:"type" yaml:"type"`
	Condition  *TokenInfo      `json:"condition,omitempty" yaml:"condition,omitempty"`
	Statements []Statement     `json:"statements,omitempty" yaml:"statements,omitempty"`
}

// IfStatement holds IF/ELSIF/ELSE branches in source order; ELSE is last.
type IfStatement struct {
	Items []IfStatementItem `json:"items" yaml:"items"`
}

// CaseStatement is a CASE statement lowered to IF-shaped branches.
// VariableName is the selector of a simple CASE.
type CaseStatement struct {
	VariableName *TokenInfo        `json:"variable_name,omitempty" yaml:"variable_name,omitempty"`
	Items        []IfStatementItem `json:"items" yaml:"items"`
}

// LoopType tags the syntactic form of a loop.
type LoopType string

// Loop forms.
const (
	LoopFor   LoopType = "FOR"
	LoopWhile LoopType = "WHILE"
	LoopLoop  LoopType = "LOOP"
)

// LoopStatement covers FOR, WHILE and bare LOOP. For FOR loops Condition
// holds the cursor or range parameter.
type LoopStatement struct {
	Type       LoopType    `json:"type" yaml:"type"`
	Condition  *TokenInfo  `json:"condition,omitempty" yaml:"condition,omitempty"`
	Statements []Statement `json:"statements,omitempty" yaml:"statements,omitempty"`
}

// LoopExitStatement is EXIT [WHEN cond].
type LoopExitStatement struct {
	Condition *TokenInfo `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// ReturnStatement is RETURN expr.
type ReturnStatement struct {
	Value TokenInfo `json:"value" yaml:"value"`
}

// LeaveStatement is a RETURN without a value.
type LeaveStatement struct {
	Content TokenInfo `json:"content" yaml:"content"`
}

// =============================================================================
// Calls, Variables, Cursors
// =============================================================================

// CallStatement is a procedure call.
type CallStatement struct {
	Name      TokenInfo   `json:"name" yaml:"name"`
	Arguments []TokenInfo `json:"arguments,omitempty" yaml:"arguments,omitempty"`
}

// PrintStatement is a call to a vendor output routine.
type PrintStatement struct {
	Content TokenInfo `json:"content" yaml:"content"`
}

// DeclareVariableStatement is a local variable or constant declaration.
type DeclareVariableStatement struct {
	Name         TokenInfo  `json:"name" yaml:"name"`
	DataType     TokenInfo  `json:"data_type" yaml:"data_type"`
	DefaultValue *TokenInfo `json:"default_value,omitempty" yaml:"default_value,omitempty"`
}

// DeclareCursorStatement binds a cursor name to its query.
type DeclareCursorStatement struct {
	CursorName      TokenInfo        `json:"cursor_name" yaml:"cursor_name"`
	SelectStatement *SelectStatement `json:"select_statement,omitempty" yaml:"select_statement,omitempty"`
}

// OpenCursorStatement is OPEN cursor.
type OpenCursorStatement struct {
	CursorName TokenInfo `json:"cursor_name" yaml:"cursor_name"`
}

// FetchCursorStatement is FETCH cursor INTO variables.
type FetchCursorStatement struct {
	CursorName TokenInfo   `json:"cursor_name" yaml:"cursor_name"`
	Variables  []TokenInfo `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// CloseCursorStatement is CLOSE cursor. IsEnd marks the cursor as finished.
type CloseCursorStatement struct {
	CursorName TokenInfo `json:"cursor_name" yaml:"cursor_name"`
	IsEnd      bool      `json:"is_end" yaml:"is_end"`
}

// SetStatement is an assignment.
type SetStatement struct {
	Key   TokenInfo `json:"key" yaml:"key"`
	Value TokenInfo `json:"value" yaml:"value"`
}

// =============================================================================
// Exceptions and Transactions
// =============================================================================

// ExceptionItem is one handler: WHEN names THEN statements.
type ExceptionItem struct {
	Names      []TokenInfo `json:"names" yaml:"names"`
	Statements []Statement `json:"statements,omitempty" yaml:"statements,omitempty"`
}

// ExceptionStatement groups every handler of one block.
type ExceptionStatement struct {
	Items []ExceptionItem `json:"items" yaml:"items"`
}

// TransactionCommandType is the kind of transaction control statement.
type TransactionCommandType string

// Transaction commands.
const (
	TransactionSet       TransactionCommandType = "SET"
	TransactionCommit    TransactionCommandType = "COMMIT"
	TransactionRollback  TransactionCommandType = "ROLLBACK"
	TransactionSavepoint TransactionCommandType = "SAVEPOINT"
)

// TransactionStatement is COMMIT, ROLLBACK, SAVEPOINT or SET TRANSACTION.
type TransactionStatement struct {
	CommandType TransactionCommandType `json:"command_type" yaml:"command_type"`
	Content     TokenInfo              `json:"content" yaml:"content"`
}

func (*InsertStatement) stmtNode()          {}
func (*UpdateStatement) stmtNode()          {}
func (*DeleteStatement) stmtNode()          {}
func (*IfStatement) stmtNode()              {}
func (*CaseStatement) stmtNode()            {}
func (*LoopStatement) stmtNode()            {}
func (*LoopExitStatement) stmtNode()        {}
func (*ReturnStatement) stmtNode()          {}
func (*LeaveStatement) stmtNode()           {}
func (*CallStatement) stmtNode()            {}
func (*PrintStatement) stmtNode()           {}
func (*DeclareVariableStatement) stmtNode() {}
func (*DeclareCursorStatement) stmtNode()   {}
func (*OpenCursorStatement) stmtNode()      {}
func (*FetchCursorStatement) stmtNode()     {}
func (*CloseCursorStatement) stmtNode()     {}
func (*SetStatement) stmtNode()             {}
func (*ExceptionStatement) stmtNode()       {}
func (*TransactionStatement) stmtNode()     {}
