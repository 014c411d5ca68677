package parsetree

import "fmt"

// Kind identifies the grammar rule a node was built from.
// The set is closed: every node the PL/SQL parser produces carries one of
// these kinds, so analysers can switch over them exhaustively.
type Kind uint16

// Node kinds, named after the grammar rules they represent.
const (
	KindInvalid Kind = iota
	KindTerminal

	// Script structure
	KindSQLScript
	KindUnitStatement
	KindAnonymousBlock

	// Units
	KindCreateProcedureBody
	KindCreateFunctionBody
	KindCreateView
	KindCreateTrigger
	KindProcedureBody // nested procedure inside a declaration section
	KindFunctionBody  // nested function inside a declaration section
	KindProcedureName
	KindFunctionName
	KindTriggerName
	KindInvokerRightsClause
	KindViewOptions
	KindSubqueryRestrictionClause

	// Identifiers and names
	KindIdentifier
	KindIDExpression
	KindTableviewName
	KindColumnName
	KindColumnList
	KindParenColumnList
	KindVariableName
	KindCursorName
	KindRoutineName
	KindExceptionName
	KindQueryName
	KindLabelName

	// Parameters and declarations
	KindParameter
	KindParameterName
	KindTypeSpec
	KindDefaultValuePart
	KindSeqOfDeclareSpecs
	KindDeclareSpec
	KindVariableDeclaration
	KindCursorDeclaration
	KindExceptionDeclaration
	KindTypeDeclaration
	KindPragmaDeclaration

	// Blocks and statements
	KindBody
	KindBlock
	KindSeqOfStatements
	KindStatement
	KindExceptionHandler
	KindAssignmentStatement
	KindIfStatement
	KindElsifPart
	KindElsePart
	KindLoopStatement
	KindCursorLoopParam
	KindForallStatement
	KindCaseStatement
	KindSimpleCaseStatement
	KindSearchedCaseStatement
	KindCaseWhenPart
	KindCaseElsePart
	KindExitStatement
	KindContinueStatement
	KindReturnStatement
	KindNullStatement
	KindRaiseStatement
	KindGotoStatement
	KindLabelDeclaration
	KindExecuteImmediate
	KindFunctionCall
	KindFunctionArgument
	KindArgument

	// SQL statements
	KindSQLStatement
	KindSelectStatement
	KindSelectOnlyStatement
	KindSubqueryFactoringClause
	KindFactoringElement
	KindSubquery
	KindSubqueryOperationPart
	KindSubqueryBasicElements
	KindQueryBlock
	KindSelectedList
	KindSelectListElements
	KindColumnAlias
	KindIntoClause
	KindFromClause
	KindTableRefList
	KindTableRef
	KindTableRefAux
	KindTableRefAuxInternalOne
	KindDMLTableExpressionClause
	KindGeneralTableRef
	KindTableAlias
	KindJoinClause
	KindOuterJoinType
	KindJoinOnPart
	KindJoinUsingPart
	KindPivotClause
	KindPivotElement
	KindAggregateFunctionName
	KindPivotForClause
	KindPivotInClause
	KindPivotInClauseElement
	KindUnpivotClause
	KindUnpivotInClause
	KindUnpivotInElements
	KindWhereClause
	KindHierarchicalQueryClause
	KindGroupByClause
	KindGroupByElements
	KindHavingClause
	KindOrderByClause
	KindOrderByElements
	KindOffsetClause
	KindFetchClause
	KindForUpdateClause
	KindInsertStatement
	KindSingleTableInsert
	KindInsertIntoClause
	KindValuesClause
	KindExpressions
	KindUpdateStatement
	KindUpdateSetClause
	KindColumnBasedUpdateSetClause
	KindDeleteStatement
	KindReturningClause
	KindOpenStatement
	KindFetchStatement
	KindCloseStatement
	KindTransactionControl
	KindCommitStatement
	KindRollbackStatement
	KindSavepointStatement
	KindSetTransaction

	// Triggers
	KindSimpleDMLTrigger
	KindDMLEventClause
	KindDMLEventElement
	KindReferencingClause
	KindForEachRow
	KindTriggerWhenClause
	KindTriggerBody
	KindTriggerBlock

	// Expressions
	KindCondition
	KindExpression
	KindGeneralElement
	KindGeneralElementPart
	KindStandardFunction
	KindOverClause
	KindBindVariable
	KindCaseExpression
	KindParenthesized

	kindCount
)

var kindNames = [kindCount]string{
	KindInvalid:  "invalid",
	KindTerminal: "terminal",

	KindSQLScript:      "sql_script",
	KindUnitStatement:  "unit_statement",
	KindAnonymousBlock: "anonymous_block",

	KindCreateProcedureBody:       "create_procedure_body",
	KindCreateFunctionBody:        "create_function_body",
	KindCreateView:                "create_view",
	KindCreateTrigger:             "create_trigger",
	KindProcedureBody:             "procedure_body",
	KindFunctionBody:              "function_body",
	KindProcedureName:             "procedure_name",
	KindFunctionName:              "function_name",
	KindTriggerName:               "trigger_name",
	KindInvokerRightsClause:       "invoker_rights_clause",
	KindViewOptions:               "view_options",
	KindSubqueryRestrictionClause: "subquery_restriction_clause",

	KindIdentifier:      "identifier",
	KindIDExpression:    "id_expression",
	KindTableviewName:   "tableview_name",
	KindColumnName:      "column_name",
	KindColumnList:      "column_list",
	KindParenColumnList: "paren_column_list",
	KindVariableName:    "variable_name",
	KindCursorName:      "cursor_name",
	KindRoutineName:     "routine_name",
	KindExceptionName:   "exception_name",
	KindQueryName:       "query_name",
	KindLabelName:       "label_name",

	KindParameter:            "parameter",
	KindParameterName:        "parameter_name",
	KindTypeSpec:             "type_spec",
	KindDefaultValuePart:     "default_value_part",
	KindSeqOfDeclareSpecs:    "seq_of_declare_specs",
	KindDeclareSpec:          "declare_spec",
	KindVariableDeclaration:  "variable_declaration",
	KindCursorDeclaration:    "cursor_declaration",
	KindExceptionDeclaration: "exception_declaration",
	KindTypeDeclaration:      "type_declaration",
	KindPragmaDeclaration:    "pragma_declaration",

	KindBody:                  "body",
	KindBlock:                 "block",
	KindSeqOfStatements:       "seq_of_statements",
	KindStatement:             "statement",
	KindExceptionHandler:      "exception_handler",
	KindAssignmentStatement:   "assignment_statement",
	KindIfStatement:           "if_statement",
	KindElsifPart:             "elsif_part",
	KindElsePart:              "else_part",
	KindLoopStatement:         "loop_statement",
	KindCursorLoopParam:       "cursor_loop_param",
	KindForallStatement:       "forall_statement",
	KindCaseStatement:         "case_statement",
	KindSimpleCaseStatement:   "simple_case_statement",
	KindSearchedCaseStatement: "searched_case_statement",
	KindCaseWhenPart:          "case_when_part",
	KindCaseElsePart:          "case_else_part",
	KindExitStatement:         "exit_statement",
	KindContinueStatement:     "continue_statement",
	KindReturnStatement:       "return_statement",
	KindNullStatement:         "null_statement",
	KindRaiseStatement:        "raise_statement",
	KindGotoStatement:         "goto_statement",
	KindLabelDeclaration:      "label_declaration",
	KindExecuteImmediate:      "execute_immediate",
	KindFunctionCall:          "function_call",
	KindFunctionArgument:      "function_argument",
	KindArgument:              "argument",

	KindSQLStatement:               "sql_statement",
	KindSelectStatement:            "select_statement",
	KindSelectOnlyStatement:        "select_only_statement",
	KindSubqueryFactoringClause:    "subquery_factoring_clause",
	KindFactoringElement:           "factoring_element",
	KindSubquery:                   "subquery",
	KindSubqueryOperationPart:      "subquery_operation_part",
	KindSubqueryBasicElements:      "subquery_basic_elements",
	KindQueryBlock:                 "query_block",
	KindSelectedList:               "selected_list",
	KindSelectListElements:         "select_list_elements",
	KindColumnAlias:                "column_alias",
	KindIntoClause:                 "into_clause",
	KindFromClause:                 "from_clause",
	KindTableRefList:               "table_ref_list",
	KindTableRef:                   "table_ref",
	KindTableRefAux:                "table_ref_aux",
	KindTableRefAuxInternalOne:     "table_ref_aux_internal_one",
	KindDMLTableExpressionClause:   "dml_table_expression_clause",
	KindGeneralTableRef:            "general_table_ref",
	KindTableAlias:                 "table_alias",
	KindJoinClause:                 "join_clause",
	KindOuterJoinType:              "outer_join_type",
	KindJoinOnPart:                 "join_on_part",
	KindJoinUsingPart:              "join_using_part",
	KindPivotClause:                "pivot_clause",
	KindPivotElement:               "pivot_element",
	KindAggregateFunctionName:      "aggregate_function_name",
	KindPivotForClause:             "pivot_for_clause",
	KindPivotInClause:              "pivot_in_clause",
	KindPivotInClauseElement:       "pivot_in_clause_element",
	KindUnpivotClause:              "unpivot_clause",
	KindUnpivotInClause:            "unpivot_in_clause",
	KindUnpivotInElements:          "unpivot_in_elements",
	KindWhereClause:                "where_clause",
	KindHierarchicalQueryClause:    "hierarchical_query_clause",
	KindGroupByClause:              "group_by_clause",
	KindGroupByElements:            "group_by_elements",
	KindHavingClause:               "having_clause",
	KindOrderByClause:              "order_by_clause",
	KindOrderByElements:            "order_by_elements",
	KindOffsetClause:               "offset_clause",
	KindFetchClause:                "fetch_clause",
	KindForUpdateClause:            "for_update_clause",
	KindInsertStatement:            "insert_statement",
	KindSingleTableInsert:          "single_table_insert",
	KindInsertIntoClause:           "insert_into_clause",
	KindValuesClause:               "values_clause",
	KindExpressions:                "expressions",
	KindUpdateStatement:            "update_statement",
	KindUpdateSetClause:            "update_set_clause",
	KindColumnBasedUpdateSetClause: "column_based_update_set_clause",
	KindDeleteStatement:            "delete_statement",
	KindReturningClause:            "returning_clause",
	KindOpenStatement:              "open_statement",
	KindFetchStatement:             "fetch_statement",
	KindCloseStatement:             "close_statement",
	KindTransactionControl:         "transaction_control_statements",
	KindCommitStatement:            "commit_statement",
	KindRollbackStatement:          "rollback_statement",
	KindSavepointStatement:         "savepoint_statement",
	KindSetTransaction:             "set_transaction_command",

	KindSimpleDMLTrigger:  "simple_dml_trigger",
	KindDMLEventClause:    "dml_event_clause",
	KindDMLEventElement:   "dml_event_element",
	KindReferencingClause: "referencing_clause",
	KindForEachRow:        "for_each_row",
	KindTriggerWhenClause: "trigger_when_clause",
	KindTriggerBody:       "trigger_body",
	KindTriggerBlock:      "trigger_block",

	KindCondition:          "condition",
	KindExpression:         "expression",
	KindGeneralElement:     "general_element",
	KindGeneralElementPart: "general_element_part",
	KindStandardFunction:   "standard_function",
	KindOverClause:         "over_clause",
	KindBindVariable:       "bind_variable",
	KindCaseExpression:     "case_expression",
	KindParenthesized:      "parenthesized",
}

// String returns the grammar rule name of the kind.
func (k Kind) String() string {
	if k < kindCount && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint16(k))
}

// IsValid reports whether k is one of the declared kinds.
func (k Kind) IsValid() bool {
	return k > KindInvalid && k < kindCount
}
