package plsql

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlanalyser/internal/testutil"
	"github.com/leapstack-labs/sqlanalyser/pkg/core"
	"github.com/leapstack-labs/sqlanalyser/pkg/parsetree"
)

func TestGuard_KeepsSiblingsOfFailingConstruct(t *testing.T) {
	root := mustParse(t, `CREATE PROCEDURE p AS
BEGIN
    v_a := 1;
    v_b := 2;
    v_c := 3;
END;`)
	seq := findKind(t, root, parsetree.KindSeqOfStatements)
	stmts := seq.ChildrenOf(parsetree.KindStatement)
	require.Len(t, stmts, 3)

	logger, rec := testutil.NewRecordingLogger(t)
	b := NewAnalyser(Options{}, logger).newBuilder()

	var out []core.Statement
	for i, stmt := range stmts {
		n := stmt.ChildAt(0)
		out = append(out, b.guard(n, func() []core.Statement {
			if i == 1 {
				panic("builder fault")
			}
			return b.buildStatement(n)
		})...)
	}

	require.Len(t, out, 2)
	first := out[0].(*core.SetStatement)
	last := out[1].(*core.SetStatement)
	assert.Equal(t, "v_a", first.Key.Symbol)
	assert.Equal(t, "v_c", last.Key.Symbol)

	warns := rec.Find("construct skipped after internal error")
	require.Len(t, warns, 1)
	assert.Equal(t, slog.LevelWarn, warns[0].Level)
	assert.Equal(t, stmts[1].ChildAt(0).Kind().String(), warns[0].Attrs["kind"])
	assert.Equal(t, int64(4), warns[0].Attrs["line"])
	assert.Equal(t, "builder fault", warns[0].Attrs["error"])
}

func TestGuard_PassesThroughResult(t *testing.T) {
	logger, rec := testutil.NewRecordingLogger(t)
	b := NewAnalyser(Options{}, logger).newBuilder()

	want := []core.Statement{&core.PrintStatement{}}
	got := b.guard(parsetree.Node{}, func() []core.Statement { return want })

	assert.Equal(t, want, got)
	assert.Empty(t, rec.Entries())
}
