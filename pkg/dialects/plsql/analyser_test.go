package plsql_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlanalyser/internal/testutil"
	"github.com/leapstack-labs/sqlanalyser/pkg/core"
	"github.com/leapstack-labs/sqlanalyser/pkg/dialect"
	"github.com/leapstack-labs/sqlanalyser/pkg/dialects/plsql"
)

func newAnalyser(t *testing.T) *plsql.Analyser {
	t.Helper()
	return plsql.NewAnalyser(plsql.Options{}, testutil.NewTestLogger(t))
}

func analyseRoutine(t *testing.T, sql string) *core.RoutineScript {
	t.Helper()
	res := newAnalyser(t).AnalyseScript(sql)
	require.Nil(t, res.Error, "unexpected syntax error")
	require.NotNil(t, res.Script)
	rs, ok := res.Script.(*core.RoutineScript)
	require.True(t, ok, "expected routine script, got %T", res.Script)
	return rs
}

func TestRegistered(t *testing.T) {
	a, err := dialect.New("ORACLE", dialect.Config{})
	require.NoError(t, err)
	assert.Equal(t, plsql.Name, a.Name())
}

func TestAnalyseProcedure_NameAndOwner(t *testing.T) {
	tests := []struct {
		name      string
		sql       string
		wantName  string
		wantOwner string
	}{
		{
			name:     "simple",
			sql:      "CREATE PROCEDURE Do_Work AS BEGIN NULL; END;",
			wantName: "Do_Work",
		},
		{
			name:      "qualified",
			sql:       "CREATE OR REPLACE PROCEDURE HR.Do_Work IS BEGIN NULL; END Do_Work;",
			wantName:  "Do_Work",
			wantOwner: "HR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newAnalyser(t).AnalyseProcedure(tt.sql)
			require.Nil(t, res.Error)
			require.NotNil(t, res.Script)

			common := res.Script.Common()
			assert.Equal(t, tt.wantName, common.Name.Symbol)
			assert.Equal(t, core.TokenRoutineName, common.Name.Type)
			if tt.wantOwner == "" {
				assert.Nil(t, common.Owner)
			} else {
				require.NotNil(t, common.Owner)
				assert.Equal(t, tt.wantOwner, common.Owner.Symbol)
			}
			assert.Equal(t, core.ScriptProcedure, res.Script.Kind())
		})
	}
}

func TestAnalyse_KindMismatch(t *testing.T) {
	res := newAnalyser(t).AnalyseView("CREATE PROCEDURE p AS BEGIN NULL; END;")
	assert.Nil(t, res.Error)
	assert.Nil(t, res.Script, "a unit of another kind yields no script")
}

func TestAnalyse_SyntaxError(t *testing.T) {
	res := newAnalyser(t).AnalyseProcedure("CREATE PROCEDURE p AS BEGIN NULL;")
	require.NotNil(t, res.Error)
	assert.Nil(t, res.Script)
	assert.True(t, res.HasError())
	assert.Positive(t, res.Error.Line)
}

func TestAnalyse_Idempotent(t *testing.T) {
	sql := `CREATE PROCEDURE p(p_id IN NUMBER) AS
    v_name VARCHAR2(100);
BEGIN
    SELECT name INTO v_name FROM emp WHERE id = p_id;
    IF v_name IS NULL THEN
        audit_pkg.log('missing', p_id);
    END IF;
END;`

	a := newAnalyser(t)
	first := a.AnalyseProcedure(sql)
	second := a.AnalyseProcedure(sql)
	require.Nil(t, first.Error)
	assert.Equal(t, first, second)
}

func TestParameters(t *testing.T) {
	rs := analyseRoutine(t, `CREATE PROCEDURE p(
    a INOUT NUMBER,
    b IN NUMBER,
    c OUT NUMBER,
    d IN OUT NUMBER,
    e NUMBER := 42,
    f VARCHAR2 DEFAULT 'x'
) AS BEGIN NULL; END;`)

	require.Len(t, rs.Parameters, 6)
	want := []core.ParameterType{
		core.ParameterIn | core.ParameterOut,
		core.ParameterIn,
		core.ParameterOut,
		core.ParameterInOut,
		core.ParameterIn,
		core.ParameterIn,
	}
	for i, p := range rs.Parameters {
		assert.Equal(t, want[i], p.ParameterType, "parameter %s", p.Name.Symbol)
		assert.Equal(t, core.TokenParameterName, p.Name.Type)
	}
	assert.Equal(t, core.ParameterInOut, rs.Parameters[0].ParameterType)
	assert.Equal(t, "NUMBER", rs.Parameters[0].DataType.Symbol)
	require.NotNil(t, rs.Parameters[4].DefaultValue)
	assert.Equal(t, "42", rs.Parameters[4].DefaultValue.Symbol)
	require.NotNil(t, rs.Parameters[5].DefaultValue)
	assert.Equal(t, "'x'", rs.Parameters[5].DefaultValue.Symbol)
	assert.Nil(t, rs.Parameters[0].DefaultValue)
}

func TestFunction(t *testing.T) {
	rs := analyseRoutine(t, `CREATE FUNCTION get_total(p_id NUMBER) RETURN NUMBER IS
    v_total NUMBER := 0;
BEGIN
    RETURN v_total;
END;`)

	assert.Equal(t, core.RoutineFunction, rs.Type)
	assert.Equal(t, core.ScriptFunction, rs.Kind())
	require.NotNil(t, rs.ReturnDataType)
	assert.Equal(t, "NUMBER", rs.ReturnDataType.Symbol)
	assert.Equal(t, core.TokenDataType, rs.ReturnDataType.Type)

	require.Len(t, rs.Statements, 2)
	decl, ok := rs.Statements[0].(*core.DeclareVariableStatement)
	require.True(t, ok)
	assert.Equal(t, "v_total", decl.Name.Symbol)
	require.NotNil(t, decl.DefaultValue)
	assert.Equal(t, "0", decl.DefaultValue.Symbol)

	ret, ok := rs.Statements[1].(*core.ReturnStatement)
	require.True(t, ok)
	assert.Equal(t, "v_total", ret.Value.Symbol)
}

func TestIfStatement(t *testing.T) {
	rs := analyseRoutine(t, `CREATE PROCEDURE p AS BEGIN
    IF a > 1 THEN x := 1;
    ELSIF b THEN x := 2;
    ELSIF c THEN x := 3;
    ELSE x := 4;
    END IF;
END;`)

	require.Len(t, rs.Statements, 1)
	s, ok := rs.Statements[0].(*core.IfStatement)
	require.True(t, ok)
	require.Len(t, s.Items, 4)

	var types []core.IfStatementType
	for _, item := range s.Items {
		types = append(types, item.Type)
		assert.Len(t, item.Statements, 1)
	}
	assert.Equal(t, []core.IfStatementType{core.IfBranch, core.ElseIfBranch, core.ElseIfBranch, core.ElseBranch}, types)
	require.NotNil(t, s.Items[0].Condition)
	assert.Equal(t, "a > 1", s.Items[0].Condition.Symbol)
	assert.Equal(t, core.TokenCondition, s.Items[0].Condition.Type)
	assert.Nil(t, s.Items[3].Condition)

	set, ok := s.Items[3].Statements[0].(*core.SetStatement)
	require.True(t, ok)
	assert.Equal(t, "x", set.Key.Symbol)
	assert.Equal(t, "4", set.Value.Symbol)
}

func TestCaseStatement(t *testing.T) {
	t.Run("simple", func(t *testing.T) {
		rs := analyseRoutine(t, `CREATE PROCEDURE p AS BEGIN
    CASE v_grade
        WHEN 'A' THEN x := 1;
        WHEN 'B' THEN x := 2;
        ELSE x := 0;
    END CASE;
END;`)
		s, ok := rs.Statements[0].(*core.CaseStatement)
		require.True(t, ok)
		require.NotNil(t, s.VariableName)
		assert.Equal(t, "v_grade", s.VariableName.Symbol)
		require.Len(t, s.Items, 3)
		assert.Equal(t, core.IfBranch, s.Items[0].Type)
		assert.Equal(t, "v_grade = 'A'", s.Items[0].Condition.Symbol)
		assert.Equal(t, core.ElseIfBranch, s.Items[1].Type)
		assert.Equal(t, "v_grade = 'B'", s.Items[1].Condition.Symbol)
		assert.Equal(t, core.ElseBranch, s.Items[2].Type)
		assert.Nil(t, s.Items[2].Condition)
	})

	t.Run("searched", func(t *testing.T) {
		rs := analyseRoutine(t, `CREATE PROCEDURE p AS BEGIN
    CASE
        WHEN n < 0 THEN x := -1;
        WHEN n > 0 THEN x := 1;
    END CASE;
END;`)
		s, ok := rs.Statements[0].(*core.CaseStatement)
		require.True(t, ok)
		assert.Nil(t, s.VariableName)
		require.Len(t, s.Items, 2)
		assert.Equal(t, "n < 0", s.Items[0].Condition.Symbol)
		assert.Equal(t, "n > 0", s.Items[1].Condition.Symbol)
	})
}

func TestLoops(t *testing.T) {
	rs := analyseRoutine(t, `CREATE PROCEDURE p AS BEGIN
    FOR i IN 1..10 LOOP
        NULL;
    END LOOP;
    WHILE n < 10 LOOP
        n := n + 1;
    END LOOP;
    LOOP
        EXIT WHEN n > 20;
    END LOOP;
END;`)

	require.Len(t, rs.Statements, 3)

	forLoop := rs.Statements[0].(*core.LoopStatement)
	assert.Equal(t, core.LoopFor, forLoop.Type)
	require.NotNil(t, forLoop.Condition)
	assert.Equal(t, "i IN 1..10", forLoop.Condition.Symbol)
	assert.Empty(t, forLoop.Statements, "NULL has no model form")

	whileLoop := rs.Statements[1].(*core.LoopStatement)
	assert.Equal(t, core.LoopWhile, whileLoop.Type)
	assert.Equal(t, "n < 10", whileLoop.Condition.Symbol)
	assert.Len(t, whileLoop.Statements, 1)

	bare := rs.Statements[2].(*core.LoopStatement)
	assert.Equal(t, core.LoopLoop, bare.Type)
	assert.Nil(t, bare.Condition)
	require.Len(t, bare.Statements, 1)
	exit := bare.Statements[0].(*core.LoopExitStatement)
	require.NotNil(t, exit.Condition)
	assert.Equal(t, "n > 20", exit.Condition.Symbol)
}

func TestWithAndUnion(t *testing.T) {
	res := newAnalyser(t).AnalyseView(`CREATE VIEW v AS
WITH w AS (SELECT a FROM t) SELECT a FROM w UNION SELECT a FROM t2`)
	require.Nil(t, res.Error)
	vs := res.Script.(*core.ViewScript)
	assert.Equal(t, "v", vs.Name.Symbol)

	require.Len(t, vs.Statements, 1)
	q := vs.Statements[0].(*core.SelectStatement)

	require.Len(t, q.WithStatements, 1)
	assert.Equal(t, "w", q.WithStatements[0].Name.Symbol)
	require.Len(t, q.WithStatements[0].SelectStatement.FromItems, 1)
	assert.Equal(t, "t", q.WithStatements[0].SelectStatement.FromItems[0].TableName.QualifiedName())

	require.Len(t, q.UnionStatements, 1)
	assert.Equal(t, core.Union, q.UnionStatements[0].Type)
	branch := q.UnionStatements[0].SelectStatement
	require.Len(t, branch.FromItems, 1)
	assert.Equal(t, "t2", branch.FromItems[0].TableName.QualifiedName())
	assert.Equal(t, "w", q.FromItems[0].TableName.QualifiedName())
}

func TestSetOperators(t *testing.T) {
	res := newAnalyser(t).AnalyseView(`CREATE VIEW v AS
SELECT a FROM t1 UNION ALL SELECT a FROM t2 INTERSECT SELECT a FROM t3 MINUS (SELECT a FROM t4)`)
	require.Nil(t, res.Error)
	q := res.Script.Common().Statements[0].(*core.SelectStatement)

	require.Len(t, q.UnionStatements, 3)
	assert.Equal(t, core.UnionAll, q.UnionStatements[0].Type)
	assert.Equal(t, core.Intersect, q.UnionStatements[1].Type)
	assert.Equal(t, core.Minus, q.UnionStatements[2].Type)
	assert.Equal(t, "t4", q.UnionStatements[2].SelectStatement.FromItems[0].TableName.QualifiedName(),
		"parenthesised branches resolve")
}

func TestQueryBlock(t *testing.T) {
	res := newAnalyser(t).AnalyseView(`CREATE VIEW sales.v_dept AS
SELECT e.dept_id, COUNT(*) cnt, d.name AS dept_name
FROM hr.emp e
JOIN dept d ON d.id = e.dept_id
LEFT OUTER JOIN loc l USING (loc_id)
CROSS JOIN (SELECT 1 AS one FROM dual) x
WHERE e.active = 1
GROUP BY e.dept_id, d.name
HAVING COUNT(*) > 2
ORDER BY cnt DESC`)
	require.Nil(t, res.Error)
	vs := res.Script.(*core.ViewScript)
	assert.Equal(t, "v_dept", vs.Name.Symbol)
	require.NotNil(t, vs.Owner)
	assert.Equal(t, "sales", vs.Owner.Symbol)

	q := vs.Statements[0].(*core.SelectStatement)

	require.Len(t, q.Columns, 3)
	assert.Equal(t, "dept_id", q.Columns[0].Name.Symbol)
	assert.Equal(t, "e", q.Columns[0].TableName.Symbol)
	assert.Equal(t, "COUNT(*)", q.Columns[1].Name.Symbol)
	assert.Equal(t, "cnt", q.Columns[1].Alias.Symbol)
	assert.Equal(t, "dept_name", q.Columns[2].Alias.Symbol)

	require.Len(t, q.FromItems, 1)
	from := q.FromItems[0]
	assert.Equal(t, "hr.emp", from.TableName.QualifiedName())
	assert.Equal(t, "e", from.TableName.Alias.Symbol)

	require.Len(t, from.JoinItems, 3)
	assert.Equal(t, core.JoinInner, from.JoinItems[0].Type)
	assert.Equal(t, "dept", from.JoinItems[0].TableName.QualifiedName())
	assert.Equal(t, "d.id = e.dept_id", from.JoinItems[0].Condition.Symbol)
	assert.Equal(t, core.JoinLeft, from.JoinItems[1].Type)
	assert.Equal(t, "USING (loc_id)", from.JoinItems[1].Condition.Symbol)
	assert.Equal(t, core.JoinCross, from.JoinItems[2].Type)
	require.NotNil(t, from.JoinItems[2].SubSelectStatement)
	assert.Equal(t, "x", from.JoinItems[2].TableName.Alias.Symbol)

	assert.Equal(t, "e.active = 1", q.Where.Symbol)
	require.Len(t, q.GroupBy, 2)
	assert.Equal(t, core.TokenGroupBy, q.GroupBy[0].Type)
	assert.Equal(t, "COUNT(*) > 2", q.Having.Symbol)
	require.Len(t, q.OrderBy, 1)
	assert.Equal(t, "cnt DESC", q.OrderBy[0].Symbol)
}

func TestSelectStar(t *testing.T) {
	res := newAnalyser(t).AnalyseView("CREATE VIEW v AS SELECT * FROM t")
	require.Nil(t, res.Error)
	q := res.Script.Common().Statements[0].(*core.SelectStatement)
	require.Len(t, q.Columns, 1)
	assert.Equal(t, "*", q.Columns[0].Name.Symbol)

	res = newAnalyser(t).AnalyseView("CREATE VIEW v AS SELECT t.* FROM t")
	require.Nil(t, res.Error)
	q = res.Script.Common().Statements[0].(*core.SelectStatement)
	require.Len(t, q.Columns, 1)
	assert.Equal(t, "*", q.Columns[0].Name.Symbol)
	assert.Equal(t, "t", q.Columns[0].TableName.Symbol)
}

func TestLimitInfo(t *testing.T) {
	rs := analyseRoutine(t, `CREATE PROCEDURE p AS
    CURSOR c_page IS SELECT a FROM t ORDER BY a OFFSET 10 ROWS FETCH NEXT 5 ROWS ONLY;
BEGIN
    NULL;
END;`)
	q := rs.Statements[0].(*core.DeclareCursorStatement).SelectStatement
	require.NotNil(t, q)
	require.NotNil(t, q.LimitInfo)
	assert.Equal(t, "10", q.LimitInfo.StartRowIndex.Symbol)
	assert.Equal(t, "5", q.LimitInfo.RowCount.Symbol)
	assert.Len(t, q.OrderBy, 1)
}

func TestPivot(t *testing.T) {
	res := newAnalyser(t).AnalyseView(`CREATE VIEW v AS
SELECT * FROM sales PIVOT (SUM(amount) FOR quarter IN ('Q1' AS q1, 'Q2' AS q2))`)
	require.Nil(t, res.Error)
	q := res.Script.Common().Statements[0].(*core.SelectStatement)
	require.Len(t, q.FromItems, 1)
	require.Len(t, q.FromItems[0].JoinItems, 1)

	j := q.FromItems[0].JoinItems[0]
	assert.Equal(t, core.JoinPivot, j.Type)
	require.NotNil(t, j.PivotItem)
	assert.Equal(t, "SUM", j.PivotItem.AggregationFunctionName.Symbol)
	assert.Equal(t, "amount", j.PivotItem.AggregatedColumnName.Symbol)
	assert.Equal(t, "quarter", j.PivotItem.ColumnName.Name.Symbol)
	require.Len(t, j.PivotItem.Values, 2)
	assert.Equal(t, "'Q1'", j.PivotItem.Values[0].Symbol)
}

func TestUnpivot(t *testing.T) {
	res := newAnalyser(t).AnalyseView(`CREATE VIEW v AS
SELECT * FROM q_sales UNPIVOT (amount FOR quarter IN (q1, q2, q3))`)
	require.Nil(t, res.Error)
	q := res.Script.Common().Statements[0].(*core.SelectStatement)

	j := q.FromItems[0].JoinItems[0]
	assert.Equal(t, core.JoinUnpivot, j.Type)
	require.NotNil(t, j.UnPivotItem)
	assert.Equal(t, "amount", j.UnPivotItem.ValueColumnName.Name.Symbol)
	assert.Equal(t, "quarter", j.UnPivotItem.ForColumnName.Name.Symbol)
	assert.Len(t, j.UnPivotItem.InColumnNames, 3)
}

func TestDML(t *testing.T) {
	rs := analyseRoutine(t, `CREATE PROCEDURE p AS BEGIN
    INSERT INTO hr.audit (id, msg) VALUES (seq.NEXTVAL, 'done');
    INSERT INTO archive SELECT * FROM emp;
    UPDATE emp e SET e.salary = e.salary * 2, bonus = 0 WHERE e.id = 7;
    DELETE FROM emp WHERE id = 7;
END;`)

	require.Len(t, rs.Statements, 4)

	ins := rs.Statements[0].(*core.InsertStatement)
	assert.Equal(t, "hr.audit", ins.TableName.QualifiedName())
	require.Len(t, ins.Columns, 2)
	assert.Equal(t, "msg", ins.Columns[1].Name.Symbol)
	require.Len(t, ins.Values, 2)
	assert.Equal(t, "seq.NEXTVAL", ins.Values[0].Symbol)
	assert.Equal(t, "'done'", ins.Values[1].Symbol)
	assert.Nil(t, ins.SelectStatement)

	insSel := rs.Statements[1].(*core.InsertStatement)
	require.NotNil(t, insSel.SelectStatement)
	assert.Equal(t, "emp", insSel.SelectStatement.FromItems[0].TableName.QualifiedName())

	upd := rs.Statements[2].(*core.UpdateStatement)
	require.Len(t, upd.TableNames, 1)
	assert.Equal(t, "emp", upd.TableNames[0].QualifiedName())
	assert.Equal(t, "e", upd.TableNames[0].Alias.Symbol)
	require.Len(t, upd.SetItems, 2)
	assert.Equal(t, "e.salary", upd.SetItems[0].Name.Symbol)
	assert.Equal(t, "e.salary * 2", upd.SetItems[0].Value.Symbol)
	assert.Equal(t, "e.id = 7", upd.Condition.Symbol)

	del := rs.Statements[3].(*core.DeleteStatement)
	assert.Equal(t, "emp", del.TableName.QualifiedName())
	assert.Equal(t, "id = 7", del.Condition.Symbol)
}

func TestCursors(t *testing.T) {
	rs := analyseRoutine(t, `CREATE PROCEDURE p AS
    CURSOR c_emp IS SELECT id, name FROM emp;
    v_id NUMBER;
    v_name VARCHAR2(50);
BEGIN
    OPEN c_emp;
    FETCH c_emp INTO v_id, v_name;
    CLOSE c_emp;
END;`)

	require.Len(t, rs.Statements, 6)

	cur := rs.Statements[0].(*core.DeclareCursorStatement)
	assert.Equal(t, "c_emp", cur.CursorName.Symbol)
	assert.Equal(t, core.TokenCursorName, cur.CursorName.Type)
	require.NotNil(t, cur.SelectStatement)
	assert.Len(t, cur.SelectStatement.Columns, 2)

	open := rs.Statements[3].(*core.OpenCursorStatement)
	assert.Equal(t, "c_emp", open.CursorName.Symbol)

	fetch := rs.Statements[4].(*core.FetchCursorStatement)
	require.Len(t, fetch.Variables, 2)
	assert.Equal(t, "v_id", fetch.Variables[0].Symbol)
	assert.Equal(t, core.TokenVariableName, fetch.Variables[1].Type)

	closeStmt := rs.Statements[5].(*core.CloseCursorStatement)
	assert.True(t, closeStmt.IsEnd)
}

func TestSelectInto(t *testing.T) {
	rs := analyseRoutine(t, `CREATE PROCEDURE p AS BEGIN
    SELECT COUNT(*) INTO v_count FROM emp WHERE CURRENT OF c_emp;
END;`)
	q := rs.Statements[0].(*core.SelectStatement)
	require.NotNil(t, q.IntoTableName)
	assert.Equal(t, "v_count", q.IntoTableName.QualifiedName())
	require.NotNil(t, q.Where)
	assert.Equal(t, "CURRENT OF c_emp", q.Where.Symbol)
}

func TestCallsAndPrint(t *testing.T) {
	rs := analyseRoutine(t, `CREATE PROCEDURE p AS BEGIN
    dbms_output.put_line('total: ' || v_total);
    audit_pkg.log_event('p', 42);
    refresh_all;
END;`)

	require.Len(t, rs.Statements, 3)

	pr := rs.Statements[0].(*core.PrintStatement)
	assert.Equal(t, "'total: ' || v_total", pr.Content.Symbol)

	call := rs.Statements[1].(*core.CallStatement)
	assert.Equal(t, "audit_pkg.log_event", call.Name.Symbol)
	assert.Equal(t, core.TokenRoutineName, call.Name.Type)
	require.Len(t, call.Arguments, 2)
	assert.Equal(t, "'p'", call.Arguments[0].Symbol)
	assert.Equal(t, "42", call.Arguments[1].Symbol)

	bare := rs.Statements[2].(*core.CallStatement)
	assert.Equal(t, "refresh_all", bare.Name.Symbol)
	assert.Empty(t, bare.Arguments)
}

func TestPrintRoutinesOption(t *testing.T) {
	a := plsql.NewAnalyser(plsql.Options{PrintRoutines: []string{"logger."}}, nil)
	res := a.AnalyseProcedure(`CREATE PROCEDURE p AS BEGIN
    Logger.Info('x');
    dbms_output.put_line('y');
END;`)
	require.Nil(t, res.Error)
	stmts := res.Script.Common().Statements
	require.Len(t, stmts, 2)
	assert.IsType(t, &core.PrintStatement{}, stmts[0])
	assert.IsType(t, &core.CallStatement{}, stmts[1], "an override replaces the defaults")
}

func TestReturnAndLeave(t *testing.T) {
	rs := analyseRoutine(t, `CREATE PROCEDURE p AS BEGIN
    IF done THEN RETURN; END IF;
END;`)
	s := rs.Statements[0].(*core.IfStatement)
	leave, ok := s.Items[0].Statements[0].(*core.LeaveStatement)
	require.True(t, ok)
	assert.Equal(t, "RETURN", leave.Content.Symbol)
}

func TestExceptionHandlers(t *testing.T) {
	rs := analyseRoutine(t, `CREATE PROCEDURE p AS BEGIN
    UPDATE t SET a = 1;
EXCEPTION
    WHEN NO_DATA_FOUND OR TOO_MANY_ROWS THEN
        ROLLBACK;
    WHEN OTHERS THEN
        log_error(SQLERRM);
        RAISE;
END;`)

	require.Len(t, rs.Statements, 2)
	exc, ok := rs.Statements[1].(*core.ExceptionStatement)
	require.True(t, ok, "handlers attach as one trailing statement")
	require.Len(t, exc.Items, 2)

	require.Len(t, exc.Items[0].Names, 2)
	assert.Equal(t, "NO_DATA_FOUND", exc.Items[0].Names[0].Symbol)
	assert.Equal(t, "TOO_MANY_ROWS", exc.Items[0].Names[1].Symbol)
	tx := exc.Items[0].Statements[0].(*core.TransactionStatement)
	assert.Equal(t, core.TransactionRollback, tx.CommandType)

	assert.Equal(t, "OTHERS", exc.Items[1].Names[0].Symbol)
	require.Len(t, exc.Items[1].Statements, 1, "RAISE has no model form")
}

func TestTransactions(t *testing.T) {
	rs := analyseRoutine(t, `CREATE PROCEDURE p AS BEGIN
    SAVEPOINT before_load;
    COMMIT;
    ROLLBACK TO before_load;
    SET TRANSACTION READ ONLY;
END;`)

	var types []core.TransactionCommandType
	for _, s := range rs.Statements {
		types = append(types, s.(*core.TransactionStatement).CommandType)
	}
	assert.Equal(t, []core.TransactionCommandType{
		core.TransactionSavepoint, core.TransactionCommit, core.TransactionRollback, core.TransactionSet,
	}, types)
}

func TestNestedBlocksFlatten(t *testing.T) {
	rs := analyseRoutine(t, `CREATE PROCEDURE p AS BEGIN
    x := 1;
    DECLARE
        y NUMBER;
    BEGIN
        y := 2;
    END;
    BEGIN
        z := 3;
    END;
END;`)

	require.Len(t, rs.Statements, 4)
	assert.IsType(t, &core.SetStatement{}, rs.Statements[0])
	assert.IsType(t, &core.DeclareVariableStatement{}, rs.Statements[1])
	assert.Equal(t, "y", rs.Statements[2].(*core.SetStatement).Key.Symbol)
	assert.Equal(t, "z", rs.Statements[3].(*core.SetStatement).Key.Symbol)
}

func TestForall(t *testing.T) {
	rs := analyseRoutine(t, `CREATE PROCEDURE p AS BEGIN
    FORALL i IN 1..v_ids.COUNT
        DELETE FROM emp WHERE id = v_ids(i);
END;`)
	loop := rs.Statements[0].(*core.LoopStatement)
	assert.Equal(t, core.LoopFor, loop.Type)
	require.Len(t, loop.Statements, 1)
	assert.IsType(t, &core.DeleteStatement{}, loop.Statements[0])
}

func TestTrigger(t *testing.T) {
	res := newAnalyser(t).AnalyseTrigger(`CREATE OR REPLACE TRIGGER t
BEFORE INSERT OR UPDATE ON tbl
FOR EACH ROW
WHEN (new.amount > 0)
BEGIN
    :new.updated_at := SYSDATE;
END;`)
	require.Nil(t, res.Error)
	ts := res.Script.(*core.TriggerScript)

	assert.Equal(t, "t", ts.Name.Symbol)
	assert.Equal(t, core.TimeBefore, ts.Time)
	assert.Equal(t, []core.TriggerEvent{core.EventInsert, core.EventUpdate}, ts.Events)
	require.NotNil(t, ts.TableName)
	assert.Equal(t, "tbl", ts.TableName.Name.Symbol)
	require.NotNil(t, ts.Condition)
	assert.Equal(t, "new.amount > 0", ts.Condition.Symbol)

	require.Len(t, ts.Statements, 1)
	set := ts.Statements[0].(*core.SetStatement)
	assert.Equal(t, ":new.updated_at", set.Key.Symbol)
}

func TestTriggerVariants(t *testing.T) {
	res := newAnalyser(t).AnalyseTrigger(`CREATE TRIGGER app.trg_del
INSTEAD OF DELETE OR DELETE ON app.v_orders
CALL app.purge_order(:old.id)`)
	require.Nil(t, res.Error)
	ts := res.Script.(*core.TriggerScript)

	assert.Equal(t, "trg_del", ts.Name.Symbol)
	require.NotNil(t, ts.Owner)
	assert.Equal(t, "app", ts.Owner.Symbol)
	assert.Equal(t, core.TimeInsteadOf, ts.Time)
	assert.Equal(t, []core.TriggerEvent{core.EventDelete}, ts.Events, "events are a set")
	assert.Equal(t, "app.v_orders", ts.TableName.QualifiedName())

	require.Len(t, ts.Statements, 1)
	call := ts.Statements[0].(*core.CallStatement)
	assert.Equal(t, "app.purge_order", call.Name.Symbol)
}

func TestRoutineCalls(t *testing.T) {
	rs := analyseRoutine(t, `CREATE PROCEDURE p(p_ids IN id_list) AS
    TYPE t_names IS TABLE OF VARCHAR2(30);
    v_names t_names := t_names();
    v_total NUMBER;
BEGIN
    v_total := pricing.calc_total(p_ids(1)) + NVL(v_total, 0);
    IF Pricing.Calc_Total(2) > 0 THEN
        notify_pkg.send('x');
    END IF;
    v_names.EXTEND;
    SELECT fmt_name(name) INTO v_total FROM emp;
EXCEPTION
    WHEN OTHERS THEN
        error_log(SQLERRM);
END;`)

	var names []string
	for _, c := range rs.RoutineCalls {
		assert.Equal(t, core.TokenRoutineName, c.Type)
		names = append(names, c.Symbol)
	}
	assert.Equal(t, []string{"pricing.calc_total", "notify_pkg.send", "fmt_name", "error_log"}, names)
}

func TestUnhandledConstructsAreLogged(t *testing.T) {
	logger, rec := testutil.NewRecordingLogger(t)
	a := plsql.NewAnalyser(plsql.Options{}, logger)

	res := a.AnalyseScript(`CREATE PROCEDURE p AS
BEGIN
    NULL;
    RAISE no_data_found;
END;`)
	require.Nil(t, res.Error)
	require.NotNil(t, res.Script)
	assert.Empty(t, res.Script.Common().Statements)

	var kinds, lines []any
	for _, e := range rec.Find("unhandled construct") {
		kinds = append(kinds, e.Attrs["kind"])
		lines = append(lines, e.Attrs["line"])
	}
	assert.Equal(t, []any{"null_statement", "raise_statement"}, kinds)
	assert.Equal(t, []any{int64(3), int64(4)}, lines)
}
