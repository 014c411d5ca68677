// Package core defines the canonical statement model shared by every
// dialect analyser.
//
// This package contains:
//   - Semantic tokens (TokenInfo, TokenType) and name wrappers (TableName, ColumnName)
//   - The closed Statement variant and its concrete statement types
//   - Script containers (RoutineScript, ViewScript, TriggerScript)
//   - Analysis results (AnalyseResult, SqlSyntaxError)
//
// Model values are built once per analysed unit and are read-only afterwards.
//
// The Golden Rule: pkg/core imports ONLY pkg/token and stdlib.
// All other packages depend on core, not the reverse.
package core
