package core

import (
	"fmt"
	"strings"
)

// =============================================================================
// Scripts
// =============================================================================

// ScriptKind identifies the kind of procedural unit a script was built from.
type ScriptKind string

// Script kinds.
const (
	ScriptProcedure ScriptKind = "PROCEDURE"
	ScriptFunction  ScriptKind = "FUNCTION"
	ScriptView      ScriptKind = "VIEW"
	ScriptTrigger   ScriptKind = "TRIGGER"
)

// Script is the root of an analysed unit.
type Script interface {
	Kind() ScriptKind
	Common() *CommonScript
}

// CommonScript holds the fields shared by every script.
// Owner is set only when the source name was schema-qualified.
type CommonScript struct {
	Name         TokenInfo   `json:"name" yaml:"name"`
	Owner        *TokenInfo  `json:"owner,omitempty" yaml:"owner,omitempty"`
	Statements   []Statement `json:"statements,omitempty" yaml:"statements,omitempty"`
	RoutineCalls []TokenInfo `json:"routine_calls,omitempty" yaml:"routine_calls,omitempty"`
}

// Common returns s.
func (s *CommonScript) Common() *CommonScript { return s }

// QualifiedName returns owner.name, or the name alone.
func (s *CommonScript) QualifiedName() string {
	if s.Owner != nil {
		return s.Owner.Symbol + "." + s.Name.Symbol
	}
	return s.Name.Symbol
}

// RoutineType distinguishes procedures from functions.
type RoutineType string

// Routine types.
const (
	RoutineProcedure RoutineType = "PROCEDURE"
	RoutineFunction  RoutineType = "FUNCTION"
)

// RoutineScript is a stored procedure or function.
type RoutineScript struct {
	CommonScript   `yaml:",inline"`
	Type           RoutineType `json:"type" yaml:"type"`
	Parameters     []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	ReturnDataType *TokenInfo  `json:"return_data_type,omitempty" yaml:"return_data_type,omitempty"`
}

// Kind implements Script.
func (s *RoutineScript) Kind() ScriptKind {
	if s.Type == RoutineFunction {
		return ScriptFunction
	}
	return ScriptProcedure
}

// ViewScript is a view; its single statement is the defining query.
type ViewScript struct {
	CommonScript `yaml:",inline"`
}

// Kind implements Script.
func (s *ViewScript) Kind() ScriptKind { return ScriptView }

// TriggerEvent is a DML event that fires a trigger.
type TriggerEvent string

// Trigger events.
const (
	EventInsert TriggerEvent = "INSERT"
	EventUpdate TriggerEvent = "UPDATE"
	EventDelete TriggerEvent = "DELETE"
)

// TriggerTime is when a trigger fires relative to its event.
type TriggerTime string

// Trigger times.
const (
	TimeBefore    TriggerTime = "BEFORE"
	TimeAfter     TriggerTime = "AFTER"
	TimeInsteadOf TriggerTime = "INSTEAD_OF"
)

// TriggerScript is a DML trigger. Events holds each event once, in source
// order.
type TriggerScript struct {
	CommonScript `yaml:",inline"`
	TableName    *TableName     `json:"table_name,omitempty" yaml:"table_name,omitempty"`
	Events       []TriggerEvent `json:"events,omitempty" yaml:"events,omitempty"`
	Time         TriggerTime    `json:"time,omitempty" yaml:"time,omitempty"`
	Condition    *TokenInfo     `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// Kind implements Script.
func (s *TriggerScript) Kind() ScriptKind { return ScriptTrigger }

// HasEvent reports whether the trigger fires on e.
func (s *TriggerScript) HasEvent(e TriggerEvent) bool {
	for _, ev := range s.Events {
		if ev == e {
			return true
		}
	}
	return false
}

// =============================================================================
// Parameters
// =============================================================================

// ParameterType is the direction of a routine parameter as a bit set.
type ParameterType uint8

// Parameter directions. ParameterInOut is the union of the other two.
const (
	ParameterIn    ParameterType = 1 << iota
	ParameterOut
	ParameterInOut = ParameterIn | ParameterOut
)

// Has reports whether every bit of d is set in t.
func (t ParameterType) Has(d ParameterType) bool {
	return d != 0 && t&d == d
}

func (t ParameterType) String() string {
	switch t {
	case ParameterIn:
		return "IN"
	case ParameterOut:
		return "OUT"
	case ParameterInOut:
		return "INOUT"
	case 0:
		return "NONE"
	}
	return fmt.Sprintf("ParameterType(%d)", uint8(t))
}

// ParseParameterType converts IN, OUT, INOUT or "IN OUT" to a ParameterType.
func ParseParameterType(s string) (ParameterType, bool) {
	switch strings.Join(strings.Fields(strings.ToUpper(s)), " ") {
	case "IN":
		return ParameterIn, true
	case "OUT":
		return ParameterOut, true
	case "INOUT", "IN OUT":
		return ParameterInOut, true
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler.
func (t ParameterType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ParameterType) UnmarshalText(b []byte) error {
	v, ok := ParseParameterType(string(b))
	if !ok {
		return fmt.Errorf("unknown parameter type %q", string(b))
	}
	*t = v
	return nil
}

// Parameter is one routine parameter.
type Parameter struct {
	Name          TokenInfo     `json:"name" yaml:"name"`
	DataType      TokenInfo     `json:"data_type" yaml:"data_type"`
	DefaultValue  *TokenInfo    `json:"default_value,omitempty" yaml:"default_value,omitempty"`
	ParameterType ParameterType `json:"parameter_type" yaml:"parameter_type"`
}

// =============================================================================
// Results
// =============================================================================

// SqlSyntaxError is a syntax error reported by the parser.
type SqlSyntaxError struct {
	Line    int    `json:"line" yaml:"line"`
	Column  int    `json:"column" yaml:"column"`
	Message string `json:"message" yaml:"message"`
}

func (e *SqlSyntaxError) Error() string {
	return fmt.Sprintf("line %d:%d: %s", e.Line, e.Column, e.Message)
}

// AnalyseResult is the outcome of analysing one unit. At most one of
// Script and Error is set; both are nil when the unit is not of the
// requested kind.
type AnalyseResult struct {
	Script Script          `json:"script,omitempty" yaml:"script,omitempty"`
	Error  *SqlSyntaxError `json:"error,omitempty" yaml:"error,omitempty"`
}

// HasError reports whether analysis stopped on a syntax error.
func (r AnalyseResult) HasError() bool {
	return r.Error != nil
}
