package plsql

import (
	"github.com/leapstack-labs/sqlanalyser/pkg/core"
	"github.com/leapstack-labs/sqlanalyser/pkg/parsetree"
)

// buildSQLStatement converts the single statement inside a sql_statement.
func (b *builder) buildSQLStatement(n parsetree.Node) []core.Statement {
	stmt := n.ChildAt(0)
	switch stmt.Kind() {
	case parsetree.KindSelectStatement:
		return one(b.buildSelect(stmt))
	case parsetree.KindInsertStatement:
		return one(b.buildInsert(stmt))
	case parsetree.KindUpdateStatement:
		return one(b.buildUpdate(stmt))
	case parsetree.KindDeleteStatement:
		return one(&core.DeleteStatement{
			TableName: ParseTableName(stmt.Child(parsetree.KindGeneralTableRef), b.mode),
			Condition: whereCondition(stmt.Child(parsetree.KindWhereClause)),
		})
	case parsetree.KindOpenStatement:
		return one(&core.OpenCursorStatement{
			CursorName: tokenOf(stmt.Child(parsetree.KindCursorName), core.TokenCursorName),
		})
	case parsetree.KindFetchStatement:
		s := &core.FetchCursorStatement{
			CursorName: tokenOf(stmt.Child(parsetree.KindCursorName), core.TokenCursorName),
		}
		for _, v := range stmt.ChildrenOf(parsetree.KindVariableName) {
			s.Variables = append(s.Variables, tokenOf(v, core.TokenVariableName))
		}
		return one(s)
	case parsetree.KindCloseStatement:
		return one(&core.CloseCursorStatement{
			CursorName: tokenOf(stmt.Child(parsetree.KindCursorName), core.TokenCursorName),
			IsEnd:      true,
		})
	case parsetree.KindTransactionControl:
		return one(buildTransaction(stmt.ChildAt(0)))
	default:
		b.skipped(stmt)
		return nil
	}
}

// buildInsert converts INSERT INTO t [(cols)] VALUES (...) | query.
func (b *builder) buildInsert(n parsetree.Node) *core.InsertStatement {
	single := n.Child(parsetree.KindSingleTableInsert)
	into := single.Child(parsetree.KindInsertIntoClause)

	s := &core.InsertStatement{
		TableName: ParseTableName(into.Child(parsetree.KindGeneralTableRef), b.mode),
		Columns:   b.columnList(into.Child(parsetree.KindParenColumnList)),
	}

	if values := single.Child(parsetree.KindValuesClause); values.IsValid() {
		exprs := values.Child(parsetree.KindExpressions).ChildrenOf(parsetree.KindExpression)
		if len(exprs) == 0 {
			// VALUES record_variable
			exprs = values.ChildrenOf(parsetree.KindExpression)
		}
		for _, e := range exprs {
			s.Values = append(s.Values, tokenOf(e, core.TokenGeneral))
		}
	}
	if q := single.Child(parsetree.KindSelectStatement); q.IsValid() {
		s.SelectStatement = b.buildSelect(q)
	}
	return s
}

// buildUpdate converts UPDATE t SET ... [WHERE ...]. A multi-column
// assignment "(a, b) = (subquery)" keeps the column list as one name.
func (b *builder) buildUpdate(n parsetree.Node) *core.UpdateStatement {
	s := &core.UpdateStatement{
		Condition: whereCondition(n.Child(parsetree.KindWhereClause)),
	}
	if t := ParseTableName(n.Child(parsetree.KindGeneralTableRef), b.mode); t != nil {
		s.TableNames = append(s.TableNames, *t)
	}

	set := n.Child(parsetree.KindUpdateSetClause)
	for _, item := range set.ChildrenOf(parsetree.KindColumnBasedUpdateSetClause) {
		target := item.Child(parsetree.KindColumnName)
		if !target.IsValid() {
			target = item.Child(parsetree.KindParenColumnList)
		}
		s.SetItems = append(s.SetItems, core.NameValueItem{
			Name:  tokenOf(target, core.TokenColumnName),
			Value: tokenOf(item.Child(parsetree.KindExpression), core.TokenGeneral),
		})
	}
	return s
}

// buildTransaction converts COMMIT, ROLLBACK, SAVEPOINT and SET TRANSACTION.
func buildTransaction(n parsetree.Node) *core.TransactionStatement {
	s := &core.TransactionStatement{Content: tokenOf(n, core.TokenGeneral)}
	switch n.Kind() {
	case parsetree.KindCommitStatement:
		s.CommandType = core.TransactionCommit
	case parsetree.KindRollbackStatement:
		s.CommandType = core.TransactionRollback
	case parsetree.KindSavepointStatement:
		s.CommandType = core.TransactionSavepoint
	default:
		s.CommandType = core.TransactionSet
	}
	return s
}
